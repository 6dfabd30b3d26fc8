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

// UsersHandler serves the user management endpoints.
type UsersHandler struct {
	UserService *service.UserService
}

type createUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createUserResponse struct {
	ID string `json:"id"`
}

type updateUserRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
	Phone *string `json:"phone"`
}

type enrollRequest struct {
	Strategy string `json:"strategy"`
}

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// HandleCreate handles POST /v1/users.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req createUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "name, email and password are required")
		return
	}

	id, err := h.UserService.Create(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserExists) {
			httpx.WriteError(w, http.StatusConflict, "user_exists", "Email already registered")
			return
		}
		log.Error("failed to create user", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, createUserResponse{ID: id})
}

// HandleList handles GET /v1/users.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	users, err := h.UserService.List(ctx)
	if err != nil {
		log.Error("failed to list users", "err", err)
		httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		return
	}

	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse{ID: u.ID, Name: u.Name, Email: u.Email, Phone: u.Phone})
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

// HandleUpdate handles PATCH /v1/users/{id}.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")

	var req updateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Name == nil && req.Email == nil && req.Phone == nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "no fields to update")
		return
	}

	err := h.UserService.Update(ctx, userID, domain.UserUpdate{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
		case errors.Is(err, service.ErrUserExists):
			httpx.WriteError(w, http.StatusConflict, "user_exists", "Email already registered")
		default:
			log.Error("failed to update user", "user_id", userID, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleEnroll handles POST /v1/users/{id}/mfa.
func (h *UsersHandler) HandleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)
	userID := r.PathValue("id")

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}

	strategy, err := domain.ParseStrategy(req.Strategy)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown strategy")
		return
	}

	if err := h.UserService.EnrollStrategy(ctx, userID, strategy); err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown user")
		case errors.Is(err, service.ErrAlreadyEnrolled):
			httpx.WriteError(w, http.StatusConflict, "strategy_already_enrolled", "Strategy already enrolled")
		default:
			log.Error("failed to enroll strategy", "user_id", userID, "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		}
		return
	}

	w.WriteHeader(http.StatusCreated)
}
