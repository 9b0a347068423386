package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/morales/invitations/internal/core/domain"
	"github.com/morales/invitations/internal/shell/metrics"
	"github.com/morales/invitations/internal/shell/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Test Helpers
// =============================================================================

func setupTestHandler(t *testing.T) (http.Handler, store.Store) {
	t.Helper()
	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() {
		s.Close()
	})

	h := NewHandler(s, AuthConfig{
		Username: "admin",
		Password: "secret",
	}, metrics.New(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	return h.Routes(), s
}

// adminToken seeds a live session directly in the store.
func adminToken(t *testing.T, s store.Store) string {
	t.Helper()
	session, err := domain.NewSession(time.Hour)
	require.NoError(t, err)
	require.NoError(t, s.CreateSession(context.Background(), session))
	return session.Token
}

func doRequest(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// createFamilyViaAPI drives the admin endpoint so slug assignment and guest
// rows behave exactly as in production.
func createFamilyViaAPI(t *testing.T, h http.Handler, token, name string, guests ...string) FamilyResponse {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/families", token, CreateFamilyRequest{
		Name:           name,
		PossibleGuests: guests,
		Host:           "bride",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[FamilyResponse](t, rec)
}

func createTableViaAPI(t *testing.T, h http.Handler, token, label string, capacity int) TableResponse {
	t.Helper()
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/tables", token, CreateTableRequest{
		Label:    label,
		Capacity: capacity,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody[TableResponse](t, rec)
}

// =============================================================================
// Health Tests
// =============================================================================

func TestHealth(t *testing.T) {
	h, _ := setupTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[HealthResponse](t, rec)
	assert.Equal(t, "healthy", resp.Status)
}

func TestReady(t *testing.T) {
	h, _ := setupTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/ready", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[ReadyResponse](t, rec)
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, "ok", resp.Checks["database"])
}

func TestMetricsEndpoint(t *testing.T) {
	h, _ := setupTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

// =============================================================================
// Auth Tests
// =============================================================================

func TestLogin_Success(t *testing.T) {
	h, s := setupTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/login", "", LoginRequest{
		Username: "admin",
		Password: "secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[LoginResponse](t, rec)
	require.NotEmpty(t, resp.Token)

	session, err := s.GetSession(context.Background(), resp.Token)
	require.NoError(t, err)
	assert.False(t, session.Expired(time.Now()))
}

func TestLogin_WrongCredentials(t *testing.T) {
	h, _ := setupTestHandler(t)
	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/login", "", LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "invalid_credentials", resp.Code)
}

func TestAdminRoutes_RequireSession(t *testing.T) {
	h, _ := setupTestHandler(t)

	rec := doRequest(t, h, http.MethodGet, "/api/v1/admin/families", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/admin/families", "bogus-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutes_ExpiredSession(t *testing.T) {
	h, s := setupTestHandler(t)

	session, err := domain.NewSession(-time.Minute)
	require.NoError(t, err)
	require.NoError(t, s.CreateSession(context.Background(), session))

	rec := doRequest(t, h, http.MethodGet, "/api/v1/admin/families", session.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// The stale row is dropped on first use.
	_, err = s.GetSession(context.Background(), session.Token)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestLogout_InvalidatesSession(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	rec := doRequest(t, h, http.MethodPost, "/api/v1/admin/logout", token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, h, http.MethodGet, "/api/v1/admin/families", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

// =============================================================================
// Event Config Tests
// =============================================================================

func TestGetPublicConfig_Defaults(t *testing.T) {
	h, _ := setupTestHandler(t)
	rec := doRequest(t, h, http.MethodGet, "/api/v1/config", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[ConfigResponse](t, rec)
	assert.Nil(t, resp.RSVPDeadline)
	assert.Equal(t, "America/Bogota", resp.Timezone)
	assert.False(t, resp.Closed)
}

func TestUpdateConfig_RoundTrip(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	deadline := "2020-01-01T00:00:00Z"
	rec := doRequest(t, h, http.MethodPut, "/api/v1/admin/config", token, UpdateConfigRequest{
		RSVPDeadline: &deadline,
		Timezone:     "America/Mexico_City",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decodeBody[ConfigResponse](t, rec)
	require.NotNil(t, resp.RSVPDeadline)
	assert.Equal(t, "America/Mexico_City", resp.Timezone)
	assert.True(t, resp.Closed)
}

func TestUpdateConfig_ClearsDeadline(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	deadline := "2020-01-01T00:00:00Z"
	rec := doRequest(t, h, http.MethodPut, "/api/v1/admin/config", token, UpdateConfigRequest{
		RSVPDeadline: &deadline,
		Timezone:     "America/Bogota",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, h, http.MethodPut, "/api/v1/admin/config", token, UpdateConfigRequest{
		Timezone: "America/Bogota",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[ConfigResponse](t, rec)
	assert.Nil(t, resp.RSVPDeadline)
}

func TestUpdateConfig_RejectsBadInput(t *testing.T) {
	h, s := setupTestHandler(t)
	token := adminToken(t, s)

	rec := doRequest(t, h, http.MethodPut, "/api/v1/admin/config", token, UpdateConfigRequest{
		Timezone: "Not/AZone",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	bad := "tomorrow at noon"
	rec = doRequest(t, h, http.MethodPut, "/api/v1/admin/config", token, UpdateConfigRequest{
		RSVPDeadline: &bad,
		Timezone:     "America/Bogota",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
