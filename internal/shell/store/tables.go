package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/morales/invitations/internal/core/domain"
)

// =============================================================================
// Table Operations
// =============================================================================

// tableRow represents a seating-table row in the database.
type tableRow struct {
	ID       string `db:"id"`
	Label    string `db:"label"`
	Capacity int    `db:"capacity"`
}

func (q *queries) CreateTable(ctx context.Context, table *domain.Table) error {
	query := `INSERT INTO tables (id, label, capacity) VALUES (:id, :label, :capacity)`
	row := map[string]any{
		"id":       table.ID,
		"label":    table.Label,
		"capacity": table.Capacity,
	}

	_, err := q.ext.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: tables.id") {
			return NewStoreError("CreateTable", "table", table.ID, "table with this ID already exists", ErrDuplicateID)
		}
		return NewStoreError("CreateTable", "table", table.ID, err.Error(), err)
	}
	return nil
}

func (q *queries) GetTable(ctx context.Context, id string) (*domain.Table, error) {
	var row tableRow
	err := q.ext.GetContext(ctx, &row, `SELECT * FROM tables WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetTable", "table", id, "table not found", ErrNotFound)
		}
		return nil, NewStoreError("GetTable", "table", id, err.Error(), err)
	}
	return &domain.Table{ID: row.ID, Label: row.Label, Capacity: row.Capacity}, nil
}

func (q *queries) DeleteTable(ctx context.Context, id string) error {
	result, err := q.ext.ExecContext(ctx, `DELETE FROM tables WHERE id = ?`, id)
	if err != nil {
		return NewStoreError("DeleteTable", "table", id, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteTable", "table", id, "table not found", ErrNotFound)
	}
	return nil
}

func (q *queries) ListTables(ctx context.Context) ([]domain.Table, error) {
	var rows []tableRow
	if err := q.ext.SelectContext(ctx, &rows, `SELECT * FROM tables ORDER BY label`); err != nil {
		return nil, NewStoreError("ListTables", "table", "", err.Error(), err)
	}

	tables := make([]domain.Table, 0, len(rows))
	for _, row := range rows {
		tables = append(tables, domain.Table{ID: row.ID, Label: row.Label, Capacity: row.Capacity})
	}
	return tables, nil
}
