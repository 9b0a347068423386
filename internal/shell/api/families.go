package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/morales/invitations/internal/core/domain"
	"github.com/morales/invitations/internal/core/validation"
	"github.com/morales/invitations/internal/shell/store"
)

// =============================================================================
// Admin Family Handlers
// =============================================================================

func (h *Handler) handleCreateFamily(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	if field, msg := validation.ValidateCreateFamilyFields(req.Name, req.PossibleGuests, req.Host); field != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}

	family, err := domain.NewFamily(req.Name, req.PossibleGuests, domain.Host(req.Host))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}
	family.Comment = req.Comment

	// Probe the store for a free slug. The UNIQUE constraint is the final
	// authority under concurrent creation.
	var probeErr error
	family.Slug = domain.UniqueSlug(family.Name, func(candidate string) bool {
		if probeErr != nil {
			return false
		}
		exists, err := h.store.SlugExists(r.Context(), candidate)
		if err != nil {
			probeErr = err
		}
		return exists
	})
	if probeErr != nil {
		h.logger.Error("failed to probe slug", "error", probeErr)
		h.writeError(w, http.StatusInternalServerError, "failed to create family", "internal_error")
		return
	}

	err = h.store.WithTx(r.Context(), func(tx store.Store) error {
		if err := tx.CreateFamily(r.Context(), family); err != nil {
			return err
		}
		for _, name := range family.PossibleGuests {
			if err := tx.CreateGuest(r.Context(), domain.NewGuest(family.ID, name, family.Host)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrDuplicateSlug) {
			h.writeError(w, http.StatusConflict, "slug was taken concurrently, retry", "slug_conflict")
			return
		}
		h.logger.Error("failed to create family", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create family", "internal_error")
		return
	}

	h.logger.Info("family created", "family_id", family.ID, "slug", family.Slug)
	h.writeJSON(w, http.StatusCreated, h.familyToResponse(family))
}

func (h *Handler) handleGetFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	family, err := h.store.GetFamily(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "family not found", "family_not_found")
			return
		}
		h.logger.Error("failed to get family", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get family", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, h.familyToResponse(family))
}

func (h *Handler) handleListFamilies(w http.ResponseWriter, r *http.Request) {
	var filter store.FamilyFilter
	if host := r.URL.Query().Get("host"); host != "" {
		if !domain.Host(host).IsValid() {
			h.writeError(w, http.StatusBadRequest, "host must be one of: bride, groom", "validation_error")
			return
		}
		filter.Host = domain.Host(host)
	}
	if confirmed := r.URL.Query().Get("confirmed"); confirmed != "" {
		v, err := strconv.ParseBool(confirmed)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "confirmed must be a boolean", "validation_error")
			return
		}
		filter.Confirmed = &v
	}

	families, err := h.store.ListFamilies(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to list families", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list families", "internal_error")
		return
	}

	resp := ListFamiliesResponse{
		Families: make([]FamilyResponse, 0, len(families)),
		Total:    len(families),
	}
	for i := range families {
		resp.Families = append(resp.Families, h.familyToResponse(&families[i]))
		if families[i].Confirmed {
			resp.Confirmed++
			resp.Guests += families[i].ConfirmedCount
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	family, err := h.store.GetFamily(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "family not found", "family_not_found")
			return
		}
		h.logger.Error("failed to get family", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get family", "internal_error")
		return
	}

	var req UpdateFamilyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	edit := domain.FamilyEdit{
		Name:            req.Name,
		PossibleGuests:  req.PossibleGuests,
		ConfirmedGuests: req.ConfirmedGuests,
		Comment:         req.Comment,
		Host:            domain.Host(req.Host),
	}
	if err := family.ApplyEdit(edit, time.Now()); err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}

	// The family row and its guest rows change together or not at all.
	err = h.store.WithTx(r.Context(), func(tx store.Store) error {
		existing, err := tx.ListGuestsByFamily(r.Context(), family.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateFamily(r.Context(), family); err != nil {
			return err
		}
		return applyGuestSync(r, tx, domain.PlanGuestSync(family, existing))
	})
	if err != nil {
		h.logger.Error("failed to update family", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update family", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, h.familyToResponse(family))
}

func (h *Handler) handleDeleteFamily(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteFamily(r.Context(), id); err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "family not found", "family_not_found")
			return
		}
		h.logger.Error("failed to delete family", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete family", "internal_error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Public Invitation Handlers
// =============================================================================

func (h *Handler) handleGetFamilyBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	family, err := h.store.GetFamilyBySlug(r.Context(), slug)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "invitation not found", "family_not_found")
			return
		}
		h.logger.Error("failed to get family by slug", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load invitation", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, h.familyToPublicResponse(family))
}

func (h *Handler) handleConfirmFamily(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var req ConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	family, err := h.store.GetFamilyBySlug(r.Context(), slug)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "invitation not found", "family_not_found")
			return
		}
		h.logger.Error("failed to get family by slug", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load invitation", "internal_error")
		return
	}

	cfg, err := h.store.GetEventConfig(r.Context())
	if err != nil {
		h.logger.Error("failed to get event config", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to load invitation", "internal_error")
		return
	}

	if err := family.Confirm(req.Guests, time.Now(), cfg.RSVPDeadline); err != nil {
		switch {
		case errors.Is(err, domain.ErrAlreadyConfirmed):
			h.writeError(w, http.StatusConflict, err.Error(), "already_confirmed")
		case errors.Is(err, domain.ErrDeadlinePassed):
			h.writeError(w, http.StatusConflict, err.Error(), "deadline_passed")
		default:
			h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		}
		return
	}
	if req.Comment != "" {
		family.Comment = req.Comment
	}

	err = h.store.WithTx(r.Context(), func(tx store.Store) error {
		existing, err := tx.ListGuestsByFamily(r.Context(), family.ID)
		if err != nil {
			return err
		}
		if err := tx.UpdateFamily(r.Context(), family); err != nil {
			return err
		}
		return applyGuestSync(r, tx, domain.PlanGuestSync(family, existing))
	})
	if err != nil {
		h.logger.Error("failed to save confirmation", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to save confirmation", "internal_error")
		return
	}

	h.metrics.ConfirmationsTotal.WithLabelValues(string(family.Host)).Inc()
	h.metrics.GuestsConfirmedTotal.Add(float64(family.ConfirmedCount))
	h.logger.Info("family confirmed",
		"family_id", family.ID,
		"slug", family.Slug,
		"guests", family.ConfirmedCount,
	)

	h.writeJSON(w, http.StatusOK, h.familyToPublicResponse(family))
}

// applyGuestSync executes a reconciliation plan against the store, normally
// a transaction.
func applyGuestSync(r *http.Request, tx store.Store, plan domain.GuestSyncPlan) error {
	for _, g := range plan.Insert {
		if err := tx.CreateGuest(r.Context(), g); err != nil {
			return err
		}
	}
	for _, id := range plan.DeleteIDs {
		if err := tx.DeleteGuest(r.Context(), id); err != nil {
			return err
		}
	}
	for _, fc := range plan.FlagChanges {
		if err := tx.SetGuestConfirmed(r.Context(), fc.GuestID, fc.Confirmed); err != nil {
			return err
		}
	}
	return nil
}
