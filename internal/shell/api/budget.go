package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/morales/invitations/internal/core/domain"
	"github.com/morales/invitations/internal/shell/export"
)

// =============================================================================
// Budget Handlers
// =============================================================================

func (h *Handler) handleCreateBudgetItem(w http.ResponseWriter, r *http.Request) {
	var req BudgetItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	item := domain.NewBudgetItem(req.Concept)
	item.Budgeted = domain.ParseAmount(req.Budgeted)
	item.Paid = domain.ParseAmount(req.Paid)

	if err := h.store.CreateBudgetItem(r.Context(), item); err != nil {
		h.logger.Error("failed to create budget item", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create budget item", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusCreated, budgetItemToResponse(item))
}

func (h *Handler) handleListBudget(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListBudgetItems(r.Context())
	if err != nil {
		h.logger.Error("failed to list budget items", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to list budget items", "internal_error")
		return
	}

	totals := domain.SumBudget(items)
	resp := ListBudgetResponse{
		Items:    make([]BudgetItemResponse, 0, len(items)),
		Budgeted: totals.Budgeted,
		Paid:     totals.Paid,
		Pending:  totals.Pending,
	}
	for i := range items {
		resp.Items = append(resp.Items, budgetItemToResponse(&items[i]))
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) handleUpdateBudgetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	item, err := h.store.GetBudgetItem(r.Context(), id)
	if err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "budget item not found", "budget_item_not_found")
			return
		}
		h.logger.Error("failed to get budget item", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to get budget item", "internal_error")
		return
	}

	var req BudgetItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	item.Concept = req.Concept
	item.Budgeted = domain.ParseAmount(req.Budgeted)
	item.Paid = domain.ParseAmount(req.Paid)

	if err := h.store.UpdateBudgetItem(r.Context(), item); err != nil {
		h.logger.Error("failed to update budget item", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to update budget item", "internal_error")
		return
	}

	h.writeJSON(w, http.StatusOK, budgetItemToResponse(item))
}

func (h *Handler) handleDeleteBudgetItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.store.DeleteBudgetItem(r.Context(), id); err != nil {
		if isNotFound(err) {
			h.writeError(w, http.StatusNotFound, "budget item not found", "budget_item_not_found")
			return
		}
		h.logger.Error("failed to delete budget item", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to delete budget item", "internal_error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleExportBudget(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListBudgetItems(r.Context())
	if err != nil {
		h.logger.Error("failed to list budget items", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to export budget", "internal_error")
		return
	}

	now := time.Now()
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="budget-`+now.Format("2006-01-02")+`.xlsx"`)

	if err := export.WriteBudgetWorkbook(w, items, now); err != nil {
		// Headers are already gone; all we can do is log.
		h.logger.Error("failed to write budget workbook", "error", err)
	}
}

func budgetItemToResponse(item *domain.BudgetItem) BudgetItemResponse {
	return BudgetItemResponse{
		ID:        item.ID,
		Concept:   item.Concept,
		Budgeted:  item.Budgeted,
		Paid:      item.Paid,
		Pending:   item.Pending(),
		CreatedAt: item.CreatedAt,
	}
}
