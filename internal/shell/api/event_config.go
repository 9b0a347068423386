package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/morales/invitations/internal/core/domain"
	"github.com/morales/invitations/internal/core/validation"
)

// =============================================================================
// Event Config Handlers
// =============================================================================

// handleGetPublicConfig serves the settings the invitation page needs: the
// deadline and whether confirmations are already closed.
func (h *Handler) handleGetPublicConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.GetEventConfig(r.Context())
	if err != nil {
		h.logger.Error("failed to get event config", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load settings", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, configToResponse(cfg))
}

func (h *Handler) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	cfg, err := h.store.GetEventConfig(r.Context())
	if err != nil {
		h.logger.Error("failed to get event config", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load settings", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, configToResponse(cfg))
}

func (h *Handler) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	if field, msg := validation.ValidateConfigFields(req.Timezone); field != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}
	if err := domain.ValidateTimezone(req.Timezone); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}

	cfg := &domain.EventConfig{Timezone: req.Timezone}
	if req.RSVPDeadline != nil && *req.RSVPDeadline != "" {
		deadline, err := time.Parse(time.RFC3339, *req.RSVPDeadline)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, domain.ErrInvalidDeadline.Error(), "validation_error")
			return
		}
		utc := deadline.UTC()
		cfg.RSVPDeadline = &utc
	}

	if err := h.store.UpdateEventConfig(r.Context(), cfg); err != nil {
		h.logger.Error("failed to update event config", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update settings", "internal_error")
		return
	}

	h.logger.Info("event config updated",
		"deadline", req.RSVPDeadline,
		"timezone", req.Timezone,
	)
	h.writeJSON(w, http.StatusOK, configToResponse(cfg))
}

func configToResponse(cfg *domain.EventConfig) ConfigResponse {
	return ConfigResponse{
		RSVPDeadline: cfg.RSVPDeadline,
		Timezone:     cfg.Timezone,
		Closed:       cfg.ConfirmationsClosed(time.Now()),
	}
}
