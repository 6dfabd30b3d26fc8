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

// ChooseHandler serves the step-up strategy selection endpoint.
type ChooseHandler struct {
	ChooseService *service.MFAChooseService
}

type chooseRequest struct {
	Hash     string `json:"hash"`
	Strategy string `json:"strategy"`
}

type chooseResponse struct {
	Hash string `json:"hash"`
}

// HandleChoose handles POST /v1/auth/mfa/choose.
func (h *ChooseHandler) HandleChoose(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req chooseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Warn("failed to parse choose request", "err", err)
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON body")
		return
	}
	if req.Hash == "" {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "hash is required")
		return
	}

	strategy, err := domain.ParseStrategy(req.Strategy)
	if err != nil {
		httpx.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown strategy")
		return
	}

	hash, err := h.ChooseService.Choose(ctx, req.Hash, strategy)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrChallengeNotFound):
			httpx.WriteError(w, http.StatusNotFound, "not_found", "Unknown or expired challenge")
		case errors.Is(err, service.ErrStrategyNotListed):
			httpx.WriteError(w, http.StatusUnprocessableEntity, "strategy_not_listed", "Strategy not offered by this challenge")
		case errors.Is(err, service.ErrDependency):
			log.Error("choose failed on dependency", "err", err)
			httpx.WriteError(w, http.StatusBadGateway, "dependency_error", "Upstream dependency failed")
		default:
			log.Error("choose failed", "err", err)
			httpx.WriteError(w, http.StatusInternalServerError, "server_error", "Internal server error")
		}
		return
	}

	httpx.WriteJSON(w, http.StatusOK, chooseResponse{Hash: hash})
}
