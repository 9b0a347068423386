package domain

import (
	"errors"
	"time"
)

// =============================================================================
// Event Configuration
// =============================================================================

// EventConfigID addresses the singleton configuration record. It is
// pre-provisioned by the initial migration and only ever updated.
const EventConfigID = "event"

var (
	ErrInvalidTimezone = errors.New("unknown IANA timezone")
	ErrInvalidDeadline = errors.New("deadline must be a valid RFC 3339 timestamp")
)

// EventConfig holds event-wide settings. RSVPDeadline is the instant after
// which public confirmations are refused; nil means confirmations never
// close. Timezone is used for display only — the deadline comparison
// authority is the stored instant.
type EventConfig struct {
	RSVPDeadline *time.Time `json:"rsvp_deadline,omitempty"`
	Timezone     string     `json:"timezone"`
}

// Location resolves the configured timezone, falling back to UTC when the
// identifier is missing or unknown.
func (c *EventConfig) Location() *time.Location {
	if c.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ConfirmationsClosed reports whether public confirmations are closed at
// the given instant.
func (c *EventConfig) ConfirmationsClosed(now time.Time) bool {
	return c.RSVPDeadline != nil && now.After(*c.RSVPDeadline)
}

// ValidateTimezone checks a timezone identifier against the tz database.
func ValidateTimezone(tz string) error {
	if tz == "" {
		return ErrInvalidTimezone
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return ErrInvalidTimezone
	}
	return nil
}
