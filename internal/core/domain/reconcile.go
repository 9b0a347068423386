package domain

import "slices"

// =============================================================================
// Guest List Reconciliation
// =============================================================================

// GuestFlagChange marks a surviving guest whose confirmed flag must change.
type GuestFlagChange struct {
	GuestID   string
	Confirmed bool
}

// GuestSyncPlan is the set of guest-table mutations needed to bring the
// dependent guest rows in line with a family's possible and confirmed
// name lists.
type GuestSyncPlan struct {
	// Insert holds new guest rows for names added to the possible list.
	Insert []*Guest

	// DeleteIDs holds guests whose names were removed from the possible
	// list. Deleting the row implicitly vacates any table seat it held.
	DeleteIDs []string

	// FlagChanges holds surviving guests whose confirmed flag no longer
	// matches membership in the confirmed-name list.
	FlagChanges []GuestFlagChange
}

// IsEmpty reports whether the plan contains no mutations.
func (p GuestSyncPlan) IsEmpty() bool {
	return len(p.Insert) == 0 && len(p.DeleteIDs) == 0 && len(p.FlagChanges) == 0
}

// PlanGuestSync computes the mutations needed so that the guest rows for a
// family match its possible-name list, with each guest's confirmed flag
// reflecting membership in the confirmed-name list.
//
// This is a pure function: the shell applies the plan inside a transaction
// alongside the family-row update, which keeps the denormalized confirmed
// flag from ever being written independently of its source of truth.
func PlanGuestSync(f *Family, existing []Guest) GuestSyncPlan {
	var plan GuestSyncPlan

	current := make(map[string]*Guest, len(existing))
	for i := range existing {
		current[existing[i].Name] = &existing[i]
	}

	for _, name := range f.PossibleGuests {
		confirmed := slices.Contains(f.ConfirmedGuests, name)
		g, ok := current[name]
		if !ok {
			ng := NewGuest(f.ID, name, f.Host)
			ng.Confirmed = confirmed
			plan.Insert = append(plan.Insert, ng)
			continue
		}
		if g.Confirmed != confirmed {
			plan.FlagChanges = append(plan.FlagChanges, GuestFlagChange{
				GuestID:   g.ID,
				Confirmed: confirmed,
			})
		}
	}

	for i := range existing {
		if !slices.Contains(f.PossibleGuests, existing[i].Name) {
			plan.DeleteIDs = append(plan.DeleteIDs, existing[i].ID)
		}
	}

	return plan
}
