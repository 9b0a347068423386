package api

import "time"

// =============================================================================
// Request Types
// =============================================================================

// CreateFamilyRequest is the request body for creating a family.
type CreateFamilyRequest struct {
	Name           string   `json:"name"`
	PossibleGuests []string `json:"possible_guests"`
	Host           string   `json:"host"`
	Comment        string   `json:"comment,omitempty"`
}

// UpdateFamilyRequest is the request body for an admin family edit. Every
// field is the full desired value; the guest rows are reconciled against the
// lists inside one transaction.
type UpdateFamilyRequest struct {
	Name            string   `json:"name"`
	PossibleGuests  []string `json:"possible_guests"`
	ConfirmedGuests []string `json:"confirmed_guests"`
	Host            string   `json:"host"`
	Comment         string   `json:"comment"`
}

// ConfirmRequest is the public confirmation body. Guests may be omitted for
// a single-guest family.
type ConfirmRequest struct {
	Guests  []string `json:"guests"`
	Comment string   `json:"comment,omitempty"`
}

// CreateTableRequest is the request body for creating a seating table.
type CreateTableRequest struct {
	Label    string `json:"label"`
	Capacity int    `json:"capacity"`
}

// AssignGuestRequest seats a guest at a table.
type AssignGuestRequest struct {
	GuestID string `json:"guest_id"`
}

// BudgetItemRequest carries the editable fields of a ledger row. Amounts
// arrive as strings so clients can send values with currency symbols or
// thousands separators.
type BudgetItemRequest struct {
	Concept  string `json:"concept"`
	Budgeted string `json:"budgeted"`
	Paid     string `json:"paid"`
}

// UpdateConfigRequest is the request body for the event settings. A null
// deadline means confirmations never close.
type UpdateConfigRequest struct {
	RSVPDeadline *string `json:"rsvp_deadline"`
	Timezone     string  `json:"timezone"`
}

// LoginRequest is the admin login body.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// =============================================================================
// Response Types
// =============================================================================

// FamilyResponse is the full family representation returned to admins.
type FamilyResponse struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	PossibleGuests  []string   `json:"possible_guests"`
	ConfirmedGuests []string   `json:"confirmed_guests"`
	ConfirmedCount  int        `json:"confirmed_count"`
	Confirmed       bool       `json:"confirmed"`
	Comment         string     `json:"comment"`
	Host            string     `json:"host"`
	CreatedAt       time.Time  `json:"created_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
}

// PublicFamilyResponse is the reduced representation the invitation page
// sees. It carries no internal identifiers beyond the slug.
type PublicFamilyResponse struct {
	Name            string     `json:"name"`
	Slug            string     `json:"slug"`
	PossibleGuests  []string   `json:"possible_guests"`
	ConfirmedGuests []string   `json:"confirmed_guests"`
	Confirmed       bool       `json:"confirmed"`
	Comment         string     `json:"comment,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
}

// ListFamiliesResponse wraps the family list with attendance totals.
type ListFamiliesResponse struct {
	Families  []FamilyResponse `json:"families"`
	Total     int              `json:"total"`
	Confirmed int              `json:"confirmed_families"`
	Guests    int              `json:"confirmed_guests"`
}

// GuestResponse is one guest row in seating views.
type GuestResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	FamilyID   string  `json:"family_id"`
	FamilyName string  `json:"family_name,omitempty"`
	Confirmed  bool    `json:"confirmed"`
	TableID    *string `json:"table_id,omitempty"`
	Host       string  `json:"host"`
}

// TableResponse is a table with its current occupants.
type TableResponse struct {
	ID        string          `json:"id"`
	Label     string          `json:"label"`
	Capacity  int             `json:"capacity"`
	Seated    int             `json:"seated"`
	Available int             `json:"available"`
	Guests    []GuestResponse `json:"guests"`
}

// ListTablesResponse wraps the table list.
type ListTablesResponse struct {
	Tables []TableResponse `json:"tables"`
	Total  int             `json:"total"`
}

// UnseatedGuestsResponse lists confirmed guests without a seat.
type UnseatedGuestsResponse struct {
	Guests []GuestResponse `json:"guests"`
	Total  int             `json:"total"`
}

// BudgetItemResponse is one ledger row with its derived pending amount.
type BudgetItemResponse struct {
	ID        string    `json:"id"`
	Concept   string    `json:"concept"`
	Budgeted  int64     `json:"budgeted"`
	Paid      int64     `json:"paid"`
	Pending   int64     `json:"pending"`
	CreatedAt time.Time `json:"created_at"`
}

// ListBudgetResponse wraps the ledger with its grand totals.
type ListBudgetResponse struct {
	Items    []BudgetItemResponse `json:"items"`
	Budgeted int64                `json:"total_budgeted"`
	Paid     int64                `json:"total_paid"`
	Pending  int64                `json:"total_pending"`
}

// ConfigResponse is the event settings representation. Closed reflects
// whether confirmations are past the deadline at response time.
type ConfigResponse struct {
	RSVPDeadline *time.Time `json:"rsvp_deadline"`
	Timezone     string     `json:"timezone"`
	Closed       bool       `json:"confirmations_closed"`
}

// LoginResponse carries the session token for subsequent admin requests.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse is the readiness check response.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// ErrorResponse is the error response format.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}
