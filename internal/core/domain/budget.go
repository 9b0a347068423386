package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Budget Ledger
// =============================================================================

// BudgetItem is one row of the financial ledger. Amounts are whole currency
// units; the pending amount is always derived, never stored.
type BudgetItem struct {
	ID        string    `json:"id"`
	Concept   string    `json:"concept"`
	Budgeted  int64     `json:"budgeted"`
	Paid      int64     `json:"paid"`
	CreatedAt time.Time `json:"created_at"`
}

// NewBudgetItem creates a ledger row with zeroed amounts. The concept may be
// blank initially; admins typically name the row after creating it.
func NewBudgetItem(concept string) *BudgetItem {
	return &BudgetItem{
		ID:        "fin_" + uuid.New().String()[:8],
		Concept:   strings.TrimSpace(concept),
		CreatedAt: time.Now().UTC(),
	}
}

// Pending returns the outstanding amount for this row.
func (b *BudgetItem) Pending() int64 {
	return b.Budgeted - b.Paid
}

// BudgetTotals holds the grand totals across the ledger.
type BudgetTotals struct {
	Budgeted int64 `json:"budgeted"`
	Paid     int64 `json:"paid"`
	Pending  int64 `json:"pending"`
}

// SumBudget computes the grand totals for a set of line items.
func SumBudget(items []BudgetItem) BudgetTotals {
	var t BudgetTotals
	for i := range items {
		t.Budgeted += items[i].Budgeted
		t.Paid += items[i].Paid
	}
	t.Pending = t.Budgeted - t.Paid
	return t
}

// ParseAmount parses a user-typed amount by stripping every non-digit
// character first, protecting against stray currency symbols and thousands
// separators ("$ 1.500.000" parses as 1500000). Anything without digits
// parses as zero.
func ParseAmount(s string) int64 {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	n, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		// digits only but out of range
		return 0
	}
	return n
}
