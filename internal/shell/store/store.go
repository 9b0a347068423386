package store

import (
	"context"
	"time"

	"github.com/morales/invitations/internal/core/domain"
)

// =============================================================================
// Store Interface
// =============================================================================

// Store defines the persistence interface for invitation entities. Every
// mutating flow that touches more than one row runs inside WithTx so the
// data-model invariants hold at commit boundaries.
type Store interface {
	// Family operations
	CreateFamily(ctx context.Context, family *domain.Family) error
	GetFamily(ctx context.Context, id string) (*domain.Family, error)
	GetFamilyBySlug(ctx context.Context, slug string) (*domain.Family, error)
	UpdateFamily(ctx context.Context, family *domain.Family) error
	DeleteFamily(ctx context.Context, id string) error
	ListFamilies(ctx context.Context, filter FamilyFilter) ([]domain.Family, error)
	SlugExists(ctx context.Context, slug string) (bool, error)

	// Guest operations
	CreateGuest(ctx context.Context, guest *domain.Guest) error
	GetGuest(ctx context.Context, id string) (*domain.Guest, error)
	DeleteGuest(ctx context.Context, id string) error
	ListGuestsByFamily(ctx context.Context, familyID string) ([]domain.Guest, error)
	ListGuestsByTable(ctx context.Context, tableID string) ([]SeatedGuest, error)
	ListUnseatedConfirmedGuests(ctx context.Context, query string) ([]SeatedGuest, error)
	SetGuestConfirmed(ctx context.Context, guestID string, confirmed bool) error
	SetGuestTable(ctx context.Context, guestID string, tableID *string) error
	ClearTableAssignments(ctx context.Context, tableID string) error
	CountTableOccupants(ctx context.Context, tableID string) (int, error)

	// Table operations
	CreateTable(ctx context.Context, table *domain.Table) error
	GetTable(ctx context.Context, id string) (*domain.Table, error)
	DeleteTable(ctx context.Context, id string) error
	ListTables(ctx context.Context) ([]domain.Table, error)

	// Budget operations
	CreateBudgetItem(ctx context.Context, item *domain.BudgetItem) error
	GetBudgetItem(ctx context.Context, id string) (*domain.BudgetItem, error)
	UpdateBudgetItem(ctx context.Context, item *domain.BudgetItem) error
	DeleteBudgetItem(ctx context.Context, id string) error
	ListBudgetItems(ctx context.Context) ([]domain.BudgetItem, error)

	// Event configuration (singleton record)
	GetEventConfig(ctx context.Context) (*domain.EventConfig, error)
	UpdateEventConfig(ctx context.Context, cfg *domain.EventConfig) error

	// Admin sessions
	CreateSession(ctx context.Context, session *domain.Session) error
	GetSession(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) error

	// Transaction support
	WithTx(ctx context.Context, fn func(Store) error) error

	// Lifecycle
	Close() error
}

// =============================================================================
// Filters and Projections
// =============================================================================

// FamilyFilter narrows ListFamilies. Zero values mean "no filter".
type FamilyFilter struct {
	Host      domain.Host
	Confirmed *bool
}

// SeatedGuest is a guest joined with its family's display name, the shape
// the seating views need.
type SeatedGuest struct {
	domain.Guest
	FamilyName string `json:"family_name"`
}
