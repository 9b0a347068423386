package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

// =============================================================================
// Errors
// =============================================================================

var (
	ErrTableLabelRequired = errors.New("table label is required")
	ErrInvalidCapacity    = errors.New("table capacity must be at least 1")

	// Seating errors
	ErrTableFull          = errors.New("table is full")
	ErrGuestAlreadySeated = errors.New("guest is already seated at another table")
)

// =============================================================================
// Table
// =============================================================================

// Table is a capacity-bounded seating group. The number of guests
// referencing a table must never exceed its capacity; the store enforces
// this inside the assignment transaction.
type Table struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

// NewTable creates a table with the given label and capacity.
func NewTable(label string, capacity int) (*Table, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return nil, ErrTableLabelRequired
	}
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Table{
		ID:       "tbl_" + uuid.New().String()[:8],
		Label:    label,
		Capacity: capacity,
	}, nil
}

// CanSeat reports whether a table with the given occupancy can take one
// more guest.
func (t *Table) CanSeat(occupants int) bool {
	return occupants < t.Capacity
}

// CheckAssignment validates seating a guest at this table given the guest's
// current table reference and the table's occupant count.
//
//   - already seated here: idempotent no-op (nil error, seat not counted twice)
//   - seated elsewhere: rejected, the guest must be unassigned first
//   - table at capacity: rejected
func (t *Table) CheckAssignment(g *Guest, occupants int) error {
	if g.TableID != nil {
		if *g.TableID == t.ID {
			return nil
		}
		return ErrGuestAlreadySeated
	}
	if !t.CanSeat(occupants) {
		return ErrTableFull
	}
	return nil
}
