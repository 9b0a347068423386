package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/morales/invitations/internal/core/domain"
)

// =============================================================================
// Guest Operations
// =============================================================================

// guestRow represents a guest row in the database.
type guestRow struct {
	ID         string  `db:"id"`
	FamilyID   string  `db:"family_id"`
	Name       string  `db:"name"`
	Confirmed  bool    `db:"confirmed"`
	TableID    *string `db:"table_id"`
	Host       string  `db:"host"`
	FamilyName string  `db:"family_name"`
}

func (q *queries) CreateGuest(ctx context.Context, guest *domain.Guest) error {
	query := `
		INSERT INTO guests (id, family_id, name, confirmed, table_id, host)
		VALUES (:id, :family_id, :name, :confirmed, :table_id, :host)`

	row := map[string]any{
		"id":        guest.ID,
		"family_id": guest.FamilyID,
		"name":      guest.Name,
		"confirmed": guest.Confirmed,
		"table_id":  guest.TableID,
		"host":      string(guest.Host),
	}

	_, err := q.ext.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: guests.family_id, guests.name") {
			return NewStoreError("CreateGuest", "guest", guest.ID, "family already has a guest with this name", ErrDuplicateGuest)
		}
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return NewStoreError("CreateGuest", "guest", guest.ID, "family not found", ErrForeignKey)
		}
		return NewStoreError("CreateGuest", "guest", guest.ID, err.Error(), err)
	}

	return nil
}

func (q *queries) GetGuest(ctx context.Context, id string) (*domain.Guest, error) {
	var row guestRow
	err := q.ext.GetContext(ctx, &row, `SELECT id, family_id, name, confirmed, table_id, host FROM guests WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetGuest", "guest", id, "guest not found", ErrNotFound)
		}
		return nil, NewStoreError("GetGuest", "guest", id, err.Error(), err)
	}
	g := rowToGuest(&row)
	return &g, nil
}

func (q *queries) DeleteGuest(ctx context.Context, id string) error {
	result, err := q.ext.ExecContext(ctx, `DELETE FROM guests WHERE id = ?`, id)
	if err != nil {
		return NewStoreError("DeleteGuest", "guest", id, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteGuest", "guest", id, "guest not found", ErrNotFound)
	}
	return nil
}

func (q *queries) ListGuestsByFamily(ctx context.Context, familyID string) ([]domain.Guest, error) {
	var rows []guestRow
	query := `SELECT id, family_id, name, confirmed, table_id, host FROM guests WHERE family_id = ? ORDER BY rowid`
	if err := q.ext.SelectContext(ctx, &rows, query, familyID); err != nil {
		return nil, NewStoreError("ListGuestsByFamily", "guest", "", err.Error(), err)
	}

	guests := make([]domain.Guest, 0, len(rows))
	for i := range rows {
		guests = append(guests, rowToGuest(&rows[i]))
	}
	return guests, nil
}

func (q *queries) ListGuestsByTable(ctx context.Context, tableID string) ([]SeatedGuest, error) {
	query := `
		SELECT g.id, g.family_id, g.name, g.confirmed, g.table_id, g.host,
		       f.name AS family_name
		FROM guests g
		JOIN families f ON f.id = g.family_id
		WHERE g.table_id = ?
		ORDER BY g.name`

	var rows []guestRow
	if err := q.ext.SelectContext(ctx, &rows, query, tableID); err != nil {
		return nil, NewStoreError("ListGuestsByTable", "guest", "", err.Error(), err)
	}
	return rowsToSeatedGuests(rows), nil
}

// ListUnseatedConfirmedGuests returns confirmed guests with no table,
// optionally filtered by a case-insensitive match against the guest name
// or the owning family's name.
func (q *queries) ListUnseatedConfirmedGuests(ctx context.Context, search string) ([]SeatedGuest, error) {
	query := `
		SELECT g.id, g.family_id, g.name, g.confirmed, g.table_id, g.host,
		       f.name AS family_name
		FROM guests g
		JOIN families f ON f.id = g.family_id
		WHERE g.confirmed = 1 AND g.table_id IS NULL`
	var args []any
	if search != "" {
		query += ` AND (g.name LIKE ? COLLATE NOCASE OR f.name LIKE ? COLLATE NOCASE)`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}
	query += ` ORDER BY f.name, g.name`

	var rows []guestRow
	if err := q.ext.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, NewStoreError("ListUnseatedConfirmedGuests", "guest", "", err.Error(), err)
	}
	return rowsToSeatedGuests(rows), nil
}

func (q *queries) SetGuestConfirmed(ctx context.Context, guestID string, confirmed bool) error {
	result, err := q.ext.ExecContext(ctx, `UPDATE guests SET confirmed = ? WHERE id = ?`, confirmed, guestID)
	if err != nil {
		return NewStoreError("SetGuestConfirmed", "guest", guestID, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("SetGuestConfirmed", "guest", guestID, "guest not found", ErrNotFound)
	}
	return nil
}

func (q *queries) SetGuestTable(ctx context.Context, guestID string, tableID *string) error {
	result, err := q.ext.ExecContext(ctx, `UPDATE guests SET table_id = ? WHERE id = ?`, tableID, guestID)
	if err != nil {
		if strings.Contains(err.Error(), "FOREIGN KEY constraint failed") {
			return NewStoreError("SetGuestTable", "guest", guestID, "table not found", ErrForeignKey)
		}
		return NewStoreError("SetGuestTable", "guest", guestID, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("SetGuestTable", "guest", guestID, "guest not found", ErrNotFound)
	}
	return nil
}

// ClearTableAssignments unseats every guest at the given table. Callers
// run this inside the same transaction as the table delete so no guest is
// ever left referencing a removed table.
func (q *queries) ClearTableAssignments(ctx context.Context, tableID string) error {
	_, err := q.ext.ExecContext(ctx, `UPDATE guests SET table_id = NULL WHERE table_id = ?`, tableID)
	if err != nil {
		return NewStoreError("ClearTableAssignments", "guest", "", err.Error(), err)
	}
	return nil
}

func (q *queries) CountTableOccupants(ctx context.Context, tableID string) (int, error) {
	var count int
	err := q.ext.GetContext(ctx, &count, `SELECT COUNT(*) FROM guests WHERE table_id = ?`, tableID)
	if err != nil {
		return 0, NewStoreError("CountTableOccupants", "guest", "", err.Error(), err)
	}
	return count, nil
}

// =============================================================================
// Row Conversion
// =============================================================================

func rowToGuest(row *guestRow) domain.Guest {
	return domain.Guest{
		ID:        row.ID,
		FamilyID:  row.FamilyID,
		Name:      row.Name,
		Confirmed: row.Confirmed,
		TableID:   row.TableID,
		Host:      domain.Host(row.Host),
	}
}

func rowsToSeatedGuests(rows []guestRow) []SeatedGuest {
	guests := make([]SeatedGuest, 0, len(rows))
	for i := range rows {
		guests = append(guests, SeatedGuest{
			Guest:      rowToGuest(&rows[i]),
			FamilyName: rows[i].FamilyName,
		})
	}
	return guests
}
