// Package domain contains the core domain types and validation logic.
// This is part of the Functional Core - all functions are pure with no I/O.
package domain

import (
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// Errors
// =============================================================================

var (
	// Family validation errors
	ErrFamilyNameRequired = errors.New("family name is required")
	ErrNoGuestNames       = errors.New("at least one guest name is required")
	ErrInvalidHost        = errors.New("host must be one of: bride, groom")

	// Confirmation errors
	ErrAlreadyConfirmed = errors.New("family has already confirmed")
	ErrDeadlinePassed   = errors.New("the confirmation deadline has passed")
	ErrEmptySelection   = errors.New("select at least one guest")
	ErrUnknownGuestName = errors.New("selected name is not on the guest list")
)

// =============================================================================
// Host
// =============================================================================

// Host identifies which side of the couple invited a family.
type Host string

const (
	HostBride Host = "bride"
	HostGroom Host = "groom"
)

// IsValid checks if the host tag is valid.
func (h Host) IsValid() bool {
	return h == HostBride || h == HostGroom
}

// =============================================================================
// Family
// =============================================================================

// Family represents one invited household or individual sharing an
// invitation link. PossibleGuests is the editable list of names on the
// invitation; ConfirmedGuests is the subset that declared attendance.
type Family struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	PossibleGuests  []string   `json:"possible_guests"`
	ConfirmedGuests []string   `json:"confirmed_guests"`
	ConfirmedCount  int        `json:"confirmed_count"`
	Confirmed       bool       `json:"confirmed"`
	Comment         string     `json:"comment"`
	Host            Host       `json:"host"`
	CreatedAt       time.Time  `json:"created_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
}

// NewFamily creates an unconfirmed family with the given display name,
// guest names, and host tag. The slug is assigned separately by the caller
// because uniqueness requires a store lookup.
//
// Guest names are trimmed and deduplicated, preserving order.
func NewFamily(name string, guestNames []string, host Host) (*Family, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrFamilyNameRequired
	}
	if !host.IsValid() {
		return nil, ErrInvalidHost
	}

	guests := NormalizeGuestNames(guestNames)
	if len(guests) == 0 {
		return nil, ErrNoGuestNames
	}

	return &Family{
		ID:             "fam_" + uuid.New().String()[:8],
		Name:           name,
		PossibleGuests: guests,
		CreatedAt:      time.Now().UTC(),
		Host:           host,
	}, nil
}

// NormalizeGuestNames trims whitespace, drops empty entries, and removes
// duplicates while preserving the original order.
func NormalizeGuestNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || slices.Contains(out, n) {
			continue
		}
		out = append(out, n)
	}
	return out
}

// =============================================================================
// Public Confirmation
// =============================================================================

// Confirm applies a public confirmation attempt at time now against the
// given deadline (nil deadline means confirmations never close).
//
// Rules:
//   - an already-confirmed family cannot re-confirm through the public path
//   - a confirmation after the deadline is rejected
//   - a single-guest family auto-selects its one name
//   - the selection must be non-empty and a subset of the possible names
//
// On success the confirmed list, count, flag, and timestamp are set.
func (f *Family) Confirm(selected []string, now time.Time, deadline *time.Time) error {
	if f.Confirmed {
		return ErrAlreadyConfirmed
	}
	if deadline != nil && now.After(*deadline) {
		return ErrDeadlinePassed
	}

	if len(f.PossibleGuests) == 1 {
		// Nothing to choose for a single-guest family.
		selected = f.PossibleGuests
	}

	selected = NormalizeGuestNames(selected)
	if len(selected) == 0 {
		return ErrEmptySelection
	}
	for _, name := range selected {
		if !slices.Contains(f.PossibleGuests, name) {
			return ErrUnknownGuestName
		}
	}

	ts := now.UTC()
	f.ConfirmedGuests = selected
	f.ConfirmedCount = len(selected)
	f.Confirmed = true
	f.ConfirmedAt = &ts
	return nil
}

// =============================================================================
// Admin Edit
// =============================================================================

// FamilyEdit describes an admin edit to a family. All fields are the full
// desired values, not deltas.
type FamilyEdit struct {
	Name            string
	PossibleGuests  []string
	ConfirmedGuests []string
	Comment         string
	Host            Host
}

// ApplyEdit applies an admin edit to the family. Unlike Confirm it is never
// deadline-gated and may shrink or clear the confirmed set. Clearing the
// confirmed set un-confirms the family and nulls the confirmation timestamp.
func (f *Family) ApplyEdit(edit FamilyEdit, now time.Time) error {
	name := strings.TrimSpace(edit.Name)
	if name == "" {
		return ErrFamilyNameRequired
	}
	if !edit.Host.IsValid() {
		return ErrInvalidHost
	}

	possible := NormalizeGuestNames(edit.PossibleGuests)
	if len(possible) == 0 {
		return ErrNoGuestNames
	}

	confirmed := NormalizeGuestNames(edit.ConfirmedGuests)
	for _, n := range confirmed {
		if !slices.Contains(possible, n) {
			return ErrUnknownGuestName
		}
	}

	f.Name = name
	f.Host = edit.Host
	f.Comment = edit.Comment
	f.PossibleGuests = possible
	f.ConfirmedGuests = confirmed
	f.ConfirmedCount = len(confirmed)
	f.Confirmed = len(confirmed) > 0

	if f.Confirmed {
		if f.ConfirmedAt == nil {
			ts := now.UTC()
			f.ConfirmedAt = &ts
		}
	} else {
		f.ConfirmedAt = nil
	}
	return nil
}

// =============================================================================
// Guest
// =============================================================================

// Guest is one named person belonging to exactly one family. TableID is nil
// while the guest is unseated. Host is denormalized from the family for
// filtering; it is recomputed whenever the family is written.
type Guest struct {
	ID        string  `json:"id"`
	FamilyID  string  `json:"family_id"`
	Name      string  `json:"name"`
	Confirmed bool    `json:"confirmed"`
	TableID   *string `json:"table_id,omitempty"`
	Host      Host    `json:"host"`
}

// NewGuest creates an unconfirmed, unseated guest for the given family.
func NewGuest(familyID, name string, host Host) *Guest {
	return &Guest{
		ID:       "gst_" + uuid.New().String()[:8],
		FamilyID: familyID,
		Name:     name,
		Host:     host,
	}
}
