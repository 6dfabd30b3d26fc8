package domain

// MFAChoose describes a pending step-up challenge returned instead of a
// Credential when the user has at least one enrolled strategy. Hash is an
// opaque reference to a server-side record; it never embeds the user id.
type MFAChoose struct {
	Hash       string     `json:"hash"`
	Strategies []Strategy `json:"strategy_list"`
}

// MFAChallenge is the server-side record an MFAChoose hash resolves to.
type MFAChallenge struct {
	UserID     string
	Strategies []Strategy
}

// MFACode is a one-time verification record created when a strategy is
// chosen. Hash identifies the record and has a lifecycle separate from the
// choice-challenge hash. Code is the secret delivered out-of-band; it is
// never returned to API callers.
type MFACode struct {
	Hash string
	Code string
}

// CodeRecord is what the code store keeps behind an MFACode hash. Strategy
// is retained so the notifier can pick the delivery channel.
type CodeRecord struct {
	UserID   string
	Strategy Strategy
	Code     string
}
