package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/morales/invitations/internal/core/domain"
)

// =============================================================================
// Budget Operations
// =============================================================================

// budgetRow represents a budget line item in the database. Only the two
// amounts are stored; pending is always derived.
type budgetRow struct {
	ID        string `db:"id"`
	Concept   string `db:"concept"`
	Budgeted  int64  `db:"budgeted"`
	Paid      int64  `db:"paid"`
	CreatedAt string `db:"created_at"`
}

func (q *queries) CreateBudgetItem(ctx context.Context, item *domain.BudgetItem) error {
	query := `
		INSERT INTO budget_items (id, concept, budgeted, paid, created_at)
		VALUES (:id, :concept, :budgeted, :paid, :created_at)`

	row := map[string]any{
		"id":         item.ID,
		"concept":    item.Concept,
		"budgeted":   item.Budgeted,
		"paid":       item.Paid,
		"created_at": item.CreatedAt.Format(time.RFC3339),
	}

	_, err := q.ext.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: budget_items.id") {
			return NewStoreError("CreateBudgetItem", "budget_item", item.ID, "budget item with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateBudgetItem", "budget_item", item.ID, err.Error(), err)
	}
	return nil
}

func (q *queries) GetBudgetItem(ctx context.Context, id string) (*domain.BudgetItem, error) {
	var row budgetRow
	err := q.ext.GetContext(ctx, &row, `SELECT * FROM budget_items WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetBudgetItem", "budget_item", id, "budget item not found", ErrNotFound)
		}
		return nil, NewStoreError("GetBudgetItem", "budget_item", id, err.Error(), err)
	}
	return rowToBudgetItem(&row), nil
}

func (q *queries) UpdateBudgetItem(ctx context.Context, item *domain.BudgetItem) error {
	query := `
		UPDATE budget_items SET
			concept = :concept,
			budgeted = :budgeted,
			paid = :paid
		WHERE id = :id`

	row := map[string]any{
		"id":       item.ID,
		"concept":  item.Concept,
		"budgeted": item.Budgeted,
		"paid":     item.Paid,
	}

	result, err := q.ext.NamedExecContext(ctx, query, row)
	if err != nil {
		return NewStoreError("UpdateBudgetItem", "budget_item", item.ID, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("UpdateBudgetItem", "budget_item", item.ID, "budget item not found", ErrNotFound)
	}
	return nil
}

func (q *queries) DeleteBudgetItem(ctx context.Context, id string) error {
	result, err := q.ext.ExecContext(ctx, `DELETE FROM budget_items WHERE id = ?`, id)
	if err != nil {
		return NewStoreError("DeleteBudgetItem", "budget_item", id, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteBudgetItem", "budget_item", id, "budget item not found", ErrNotFound)
	}
	return nil
}

func (q *queries) ListBudgetItems(ctx context.Context) ([]domain.BudgetItem, error) {
	var rows []budgetRow
	query := `SELECT * FROM budget_items ORDER BY created_at, id`
	if err := q.ext.SelectContext(ctx, &rows, query); err != nil {
		return nil, NewStoreError("ListBudgetItems", "budget_item", "", err.Error(), err)
	}

	items := make([]domain.BudgetItem, 0, len(rows))
	for i := range rows {
		items = append(items, *rowToBudgetItem(&rows[i]))
	}
	return items, nil
}

func rowToBudgetItem(row *budgetRow) *domain.BudgetItem {
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	return &domain.BudgetItem{
		ID:        row.ID,
		Concept:   row.Concept,
		Budgeted:  row.Budgeted,
		Paid:      row.Paid,
		CreatedAt: createdAt,
	}
}
