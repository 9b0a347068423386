package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/morales/invitations/internal/core/domain"
	"github.com/morales/invitations/internal/core/validation"
	"github.com/morales/invitations/internal/shell/store"
)

// =============================================================================
// Table Handlers
// =============================================================================

func (h *Handler) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	if field, msg := validation.ValidateCreateTableFields(req.Label, req.Capacity); field != "" {
		h.writeError(w, http.StatusBadRequest, msg, "validation_error")
		return
	}

	table, err := domain.NewTable(req.Label, req.Capacity)
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error(), "validation_error")
		return
	}

	if err := h.store.CreateTable(r.Context(), table); err != nil {
		h.logger.Error("failed to create table", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create table", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusCreated, TableResponse{
		ID:        table.ID,
		Label:     table.Label,
		Capacity:  table.Capacity,
		Available: table.Capacity,
		Guests:    []GuestResponse{},
	})
}

func (h *Handler) handleListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.store.ListTables(r.Context())
	if err != nil {
		h.logger.Error("failed to list tables", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list tables", "internal_error")
		return
	}

	resp := ListTablesResponse{
		Tables: make([]TableResponse, 0, len(tables)),
		Total:  len(tables),
	}
	for i := range tables {
		seated, err := h.store.ListGuestsByTable(r.Context(), tables[i].ID)
		if err != nil {
			h.logger.Error("failed to list seated guests", "table_id", tables[i].ID, "error", err)
			h.writeError(w, http.StatusInternalServerError, "failed to list tables", "internal_error")
			return
		}
		tr := TableResponse{
			ID:        tables[i].ID,
			Label:     tables[i].Label,
			Capacity:  tables[i].Capacity,
			Seated:    len(seated),
			Available: tables[i].Capacity - len(seated),
			Guests:    make([]GuestResponse, 0, len(seated)),
		}
		for _, g := range seated {
			tr.Guests = append(tr.Guests, guestToResponse(g.Guest, g.FamilyName))
		}
		resp.Tables = append(resp.Tables, tr)
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	// Vacating the seats and dropping the table must be atomic so no guest
	// row is left referencing a missing table.
	err := h.store.WithTx(r.Context(), func(tx store.Store) error {
		if _, err := tx.GetTable(r.Context(), id); err != nil {
			return err
		}
		if err := tx.ClearTableAssignments(r.Context(), id); err != nil {
			return err
		}
		return tx.DeleteTable(r.Context(), id)
	})
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "table not found", "table_not_found")
			return
		}
		h.logger.Error("failed to delete table", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete table", "internal_error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Seat Assignment Handlers
// =============================================================================

func (h *Handler) handleAssignGuest(w http.ResponseWriter, r *http.Request) {
	tableID := chi.URLParam(r, "id")

	var req AssignGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}
	if req.GuestID == "" {
		h.writeError(w, http.StatusBadRequest, "guest_id is required", "validation_error")
		return
	}

	// Capacity check and seat write happen in one transaction so concurrent
	// assignments cannot overfill the table.
	err := h.store.WithTx(r.Context(), func(tx store.Store) error {
		table, err := tx.GetTable(r.Context(), tableID)
		if err != nil {
			return err
		}
		guest, err := tx.GetGuest(r.Context(), req.GuestID)
		if err != nil {
			return err
		}
		occupants, err := tx.CountTableOccupants(r.Context(), tableID)
		if err != nil {
			return err
		}
		if err := table.CheckAssignment(guest, occupants); err != nil {
			return err
		}
		if guest.TableID != nil && *guest.TableID == tableID {
			// Idempotent repeat of an existing assignment.
			return nil
		}
		return tx.SetGuestTable(r.Context(), req.GuestID, &tableID)
	})
	if err != nil {
		switch {
		case isNotFound(err):
			h.writeError(w, http.StatusNotFound, "table or guest not found", "not_found")
		case errors.Is(err, domain.ErrTableFull):
			h.writeError(w, http.StatusConflict, err.Error(), "table_full")
		case errors.Is(err, domain.ErrGuestAlreadySeated):
			h.writeError(w, http.StatusConflict, err.Error(), "guest_already_seated")
		default:
			h.logger.Error("failed to assign guest", "error", err)
			h.writeError(w, http.StatusInternalServerError, "failed to assign guest", "internal_error")
		}
		return
	}

	guest, err := h.store.GetGuest(r.Context(), req.GuestID)
	if err != nil {
		h.logger.Error("failed to reload guest", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to assign guest", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, guestToResponse(*guest, ""))
}

func (h *Handler) handleUnassignGuest(w http.ResponseWriter, r *http.Request) {
	tableID := chi.URLParam(r, "id")

	var req AssignGuestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}
	if req.GuestID == "" {
		h.writeError(w, http.StatusBadRequest, "guest_id is required", "validation_error")
		return
	}

	guest, err := h.store.GetGuest(r.Context(), req.GuestID)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "guest not found", "guest_not_found")
			return
		}
		h.logger.Error("failed to get guest", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to unassign guest", "internal_error")
		return
	}
	if guest.TableID == nil || *guest.TableID != tableID {
		h.writeError(w, http.StatusConflict, "guest is not seated at this table", "guest_not_seated")
		return
	}

	if err := h.store.SetGuestTable(r.Context(), req.GuestID, nil); err != nil {
		h.logger.Error("failed to unassign guest", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to unassign guest", "internal_error")
		return
	}

	guest.TableID = nil
	h.writeJSON(w, http.StatusOK, guestToResponse(*guest, ""))
}

func (h *Handler) handleListUnseatedGuests(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	guests, err := h.store.ListUnseatedConfirmedGuests(r.Context(), query)
	if err != nil {
		h.logger.Error("failed to list unseated guests", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list unseated guests", "internal_error")
		return
	}

	resp := UnseatedGuestsResponse{
		Guests: make([]GuestResponse, 0, len(guests)),
		Total:  len(guests),
	}
	for _, g := range guests {
		resp.Guests = append(resp.Guests, guestToResponse(g.Guest, g.FamilyName))
	}

	h.writeJSON(w, http.StatusOK, resp)
}
