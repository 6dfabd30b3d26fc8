package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/opustack/gatekey/internal/auth/domain"
	"github.com/opustack/gatekey/internal/auth/service"
	"github.com/opustack/gatekey/pkg/httpx"
	"github.com/opustack/gatekey/pkg/slogx"
)

// LoginHandler serves the password login endpoint.
type LoginHandler struct {
	LoginService *service.LoginService
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse wraps the two possible outcomes under a discriminator so
// clients can branch without probing fields.
type loginResponse struct {
	Kind       domain.LoginResultKind `json:"kind"`
	Credential *domain.Credential     `json:"credential,omitempty"`
	Challenge  *domain.MFAChoose      `json:"mfa_choose,omitempty"`
}

// HandleLogin handles POST /v1/auth/login.
func (h *LoginHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse login request", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "email and password are required")
		return
	}

	result, err := h.LoginService.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrWrongCredential) {
			httpx.WriteError(w, http.StatusUnauthorized, "wrong_credential", "Invalid email or password")
			return
		}
		log.Error("login failed", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, loginResponse{
		Kind:       result.Kind,
		Credential: result.Credential,
		Challenge:  result.Challenge,
	})
}
