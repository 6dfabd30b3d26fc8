package domain

// Credential is returned on successful direct login (no step-up required).
// Token is an opaque session artifact.
type Credential struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Token string `json:"token"`
}

// LoginResultKind discriminates the two login outcomes.
type LoginResultKind string

const (
	LoginResultCredential LoginResultKind = "credential"
	LoginResultMFAChoose  LoginResultKind = "mfa_choose"
)

// LoginResult is a tagged union: exactly one of Credential or Challenge is
// set, indicated by Kind.
type LoginResult struct {
	Kind       LoginResultKind
	Credential *Credential
	Challenge  *MFAChoose
}
