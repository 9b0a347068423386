package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/morales/invitations/internal/core/domain"
)

// =============================================================================
// Family Operations
// =============================================================================

// familyRow represents a family row in the database. The guest-name lists
// are stored as JSON arrays; confirmed_guests is NULL until the first
// confirmation.
type familyRow struct {
	ID              string  `db:"id"`
	Name            string  `db:"name"`
	Slug            string  `db:"slug"`
	PossibleGuests  string  `db:"possible_guests"`
	ConfirmedGuests *string `db:"confirmed_guests"`
	ConfirmedCount  int     `db:"confirmed_count"`
	Confirmed       bool    `db:"confirmed"`
	Comment         string  `db:"comment"`
	Host            string  `db:"host"`
	CreatedAt       string  `db:"created_at"`
	ConfirmedAt     *string `db:"confirmed_at"`
}

func (q *queries) CreateFamily(ctx context.Context, family *domain.Family) error {
	row, err := familyToRow(family)
	if err != nil {
		return NewStoreError("CreateFamily", "family", family.ID, "failed to serialize guest lists", ErrInvalidData)
	}

	query := `
		INSERT INTO families (
			id, name, slug, possible_guests, confirmed_guests,
			confirmed_count, confirmed, comment, host, created_at, confirmed_at
		) VALUES (
			:id, :name, :slug, :possible_guests, :confirmed_guests,
			:confirmed_count, :confirmed, :comment, :host, :created_at, :confirmed_at
		)`

	_, err = q.ext.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: families.id") {
			return NewStoreError("CreateFamily", "family", family.ID, "family with this ID already exists", ErrDuplicateID)
		}
		if strings.Contains(err.Error(), "UNIQUE constraint failed: families.slug") {
			return NewStoreError("CreateFamily", "family", family.ID, "family with this slug already exists", ErrDuplicateSlug)
		}
		return NewStoreError("CreateFamily", "family", family.ID, err.Error(), err)
	}

	return nil
}

func (q *queries) GetFamily(ctx context.Context, id string) (*domain.Family, error) {
	var row familyRow
	err := q.ext.GetContext(ctx, &row, `SELECT * FROM families WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetFamily", "family", id, "family not found", ErrNotFound)
		}
		return nil, NewStoreError("GetFamily", "family", id, err.Error(), err)
	}
	return rowToFamily(&row)
}

func (q *queries) GetFamilyBySlug(ctx context.Context, slug string) (*domain.Family, error) {
	var row familyRow
	err := q.ext.GetContext(ctx, &row, `SELECT * FROM families WHERE slug = ?`, slug)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetFamilyBySlug", "family", slug, "family not found", ErrNotFound)
		}
		return nil, NewStoreError("GetFamilyBySlug", "family", slug, err.Error(), err)
	}
	return rowToFamily(&row)
}

func (q *queries) UpdateFamily(ctx context.Context, family *domain.Family) error {
	row, err := familyToRow(family)
	if err != nil {
		return NewStoreError("UpdateFamily", "family", family.ID, "failed to serialize guest lists", ErrInvalidData)
	}

	query := `
		UPDATE families SET
			name = :name,
			slug = :slug,
			possible_guests = :possible_guests,
			confirmed_guests = :confirmed_guests,
			confirmed_count = :confirmed_count,
			confirmed = :confirmed,
			comment = :comment,
			host = :host,
			confirmed_at = :confirmed_at
		WHERE id = :id`

	result, err := q.ext.NamedExecContext(ctx, query, row)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: families.slug") {
			return NewStoreError("UpdateFamily", "family", family.ID, "family with this slug already exists", ErrDuplicateSlug)
		}
		return NewStoreError("UpdateFamily", "family", family.ID, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("UpdateFamily", "family", family.ID, "family not found", ErrNotFound)
	}

	// Keep the denormalized host on guest rows in step with the family.
	_, err = q.ext.ExecContext(ctx,
		`UPDATE guests SET host = ? WHERE family_id = ?`,
		string(family.Host), family.ID)
	if err != nil {
		return NewStoreError("UpdateFamily", "family", family.ID, err.Error(), err)
	}

	return nil
}

// DeleteFamily removes the family row; the guests cascade via the
// foreign key.
func (q *queries) DeleteFamily(ctx context.Context, id string) error {
	result, err := q.ext.ExecContext(ctx, `DELETE FROM families WHERE id = ?`, id)
	if err != nil {
		return NewStoreError("DeleteFamily", "family", id, err.Error(), err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteFamily", "family", id, "family not found", ErrNotFound)
	}

	return nil
}

func (q *queries) ListFamilies(ctx context.Context, filter FamilyFilter) ([]domain.Family, error) {
	query := `SELECT * FROM families`
	var conds []string
	var args []any
	if filter.Host != "" {
		conds = append(conds, "host = ?")
		args = append(args, string(filter.Host))
	}
	if filter.Confirmed != nil {
		conds = append(conds, "confirmed = ?")
		args = append(args, *filter.Confirmed)
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	var rows []familyRow
	if err := q.ext.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, NewStoreError("ListFamilies", "family", "", err.Error(), err)
	}

	families := make([]domain.Family, 0, len(rows))
	for i := range rows {
		family, err := rowToFamily(&rows[i])
		if err != nil {
			return nil, err
		}
		families = append(families, *family)
	}
	return families, nil
}

func (q *queries) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int
	err := q.ext.GetContext(ctx, &count, `SELECT COUNT(*) FROM families WHERE slug = ?`, slug)
	if err != nil {
		return false, NewStoreError("SlugExists", "family", slug, err.Error(), err)
	}
	return count > 0, nil
}

// =============================================================================
// Row Conversion
// =============================================================================

func familyToRow(f *domain.Family) (map[string]any, error) {
	possibleJSON, err := json.Marshal(f.PossibleGuests)
	if err != nil {
		return nil, err
	}

	var confirmed *string
	if f.ConfirmedGuests != nil {
		confirmedJSON, err := json.Marshal(f.ConfirmedGuests)
		if err != nil {
			return nil, err
		}
		s := string(confirmedJSON)
		confirmed = &s
	}

	var confirmedAt *string
	if f.ConfirmedAt != nil {
		s := f.ConfirmedAt.Format(time.RFC3339)
		confirmedAt = &s
	}

	return map[string]any{
		"id":               f.ID,
		"name":             f.Name,
		"slug":             f.Slug,
		"possible_guests":  string(possibleJSON),
		"confirmed_guests": confirmed,
		"confirmed_count":  f.ConfirmedCount,
		"confirmed":        f.Confirmed,
		"comment":          f.Comment,
		"host":             string(f.Host),
		"created_at":       f.CreatedAt.Format(time.RFC3339),
		"confirmed_at":     confirmedAt,
	}, nil
}

func rowToFamily(row *familyRow) (*domain.Family, error) {
	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)

	var possible []string
	if err := json.Unmarshal([]byte(row.PossibleGuests), &possible); err != nil {
		return nil, NewStoreError("rowToFamily", "family", row.ID, "failed to parse possible guests", ErrInvalidData)
	}

	var confirmed []string
	if row.ConfirmedGuests != nil && *row.ConfirmedGuests != "" && *row.ConfirmedGuests != "null" {
		if err := json.Unmarshal([]byte(*row.ConfirmedGuests), &confirmed); err != nil {
			return nil, NewStoreError("rowToFamily", "family", row.ID, "failed to parse confirmed guests", ErrInvalidData)
		}
	}

	var confirmedAt *time.Time
	if row.ConfirmedAt != nil && *row.ConfirmedAt != "" {
		t, _ := time.Parse(time.RFC3339, *row.ConfirmedAt)
		confirmedAt = &t
	}

	return &domain.Family{
		ID:              row.ID,
		Name:            row.Name,
		Slug:            row.Slug,
		PossibleGuests:  possible,
		ConfirmedGuests: confirmed,
		ConfirmedCount:  row.ConfirmedCount,
		Confirmed:       row.Confirmed,
		Comment:         row.Comment,
		Host:            domain.Host(row.Host),
		CreatedAt:       createdAt,
		ConfirmedAt:     confirmedAt,
	}, nil
}
