package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/morales/invitations/internal/core/domain"
)

// =============================================================================
// Event Configuration (singleton record)
// =============================================================================

type configRow struct {
	ID           string  `db:"id"`
	RSVPDeadline *string `db:"rsvp_deadline"`
	Timezone     string  `db:"timezone"`
}

func (q *queries) GetEventConfig(ctx context.Context) (*domain.EventConfig, error) {
	var row configRow
	err := q.ext.GetContext(ctx, &row, `SELECT * FROM event_config WHERE id = ?`, domain.EventConfigID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The singleton is seeded by the initial migration; missing
			// means the database was not migrated.
			return nil, NewStoreError("GetEventConfig", "config", domain.EventConfigID, "configuration record not found", ErrNotFound)
		}
		return nil, NewStoreError("GetEventConfig", "config", domain.EventConfigID, err.Error(), err)
	}

	cfg := &domain.EventConfig{Timezone: row.Timezone}
	if row.RSVPDeadline != nil && *row.RSVPDeadline != "" {
		t, err := time.Parse(time.RFC3339, *row.RSVPDeadline)
		if err != nil {
			return nil, NewStoreError("GetEventConfig", "config", domain.EventConfigID, "failed to parse deadline", ErrInvalidData)
		}
		cfg.RSVPDeadline = &t
	}
	return cfg, nil
}

func (q *queries) UpdateEventConfig(ctx context.Context, cfg *domain.EventConfig) error {
	var deadline *string
	if cfg.RSVPDeadline != nil {
		s := cfg.RSVPDeadline.UTC().Format(time.RFC3339)
		deadline = &s
	}

	result, err := q.ext.ExecContext(ctx,
		`UPDATE event_config SET rsvp_deadline = ?, timezone = ? WHERE id = ?`,
		deadline, cfg.Timezone, domain.EventConfigID)
	if err != nil {
		return NewStoreError("UpdateEventConfig", "config", domain.EventConfigID, err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("UpdateEventConfig", "config", domain.EventConfigID, "configuration record not found", ErrNotFound)
	}
	return nil
}

// =============================================================================
// Admin Sessions
// =============================================================================

type sessionRow struct {
	Token     string `db:"token"`
	CreatedAt string `db:"created_at"`
	ExpiresAt string `db:"expires_at"`
}

func (q *queries) CreateSession(ctx context.Context, session *domain.Session) error {
	_, err := q.ext.ExecContext(ctx,
		`INSERT INTO sessions (token, created_at, expires_at) VALUES (?, ?, ?)`,
		session.Token,
		session.CreatedAt.Format(time.RFC3339),
		session.ExpiresAt.Format(time.RFC3339))
	if err != nil {
		return NewStoreError("CreateSession", "session", "", err.Error(), err)
	}
	return nil
}

func (q *queries) GetSession(ctx context.Context, token string) (*domain.Session, error) {
	var row sessionRow
	err := q.ext.GetContext(ctx, &row, `SELECT * FROM sessions WHERE token = ?`, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NewStoreError("GetSession", "session", "", "session not found", ErrNotFound)
		}
		return nil, NewStoreError("GetSession", "session", "", err.Error(), err)
	}

	createdAt, _ := time.Parse(time.RFC3339, row.CreatedAt)
	expiresAt, _ := time.Parse(time.RFC3339, row.ExpiresAt)
	return &domain.Session{Token: row.Token, CreatedAt: createdAt, ExpiresAt: expiresAt}, nil
}

func (q *queries) DeleteSession(ctx context.Context, token string) error {
	result, err := q.ext.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token)
	if err != nil {
		return NewStoreError("DeleteSession", "session", "", err.Error(), err)
	}
	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return NewStoreError("DeleteSession", "session", "", "session not found", ErrNotFound)
	}
	return nil
}

// DeleteExpiredSessions purges sessions past their expiry. Called on login
// and from the background janitor.
func (q *queries) DeleteExpiredSessions(ctx context.Context, now time.Time) error {
	_, err := q.ext.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, now.UTC().Format(time.RFC3339))
	if err != nil {
		return NewStoreError("DeleteExpiredSessions", "session", "", err.Error(), err)
	}
	return nil
}
