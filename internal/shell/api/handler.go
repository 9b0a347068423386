// Package api provides the HTTP handlers for the invitation service: the
// public invitation endpoints and the authenticated admin dashboard API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/morales/invitations/internal/core/domain"
	"github.com/morales/invitations/internal/shell/metrics"
	"github.com/morales/invitations/internal/shell/store"
)

// =============================================================================
// Handler
// =============================================================================

// Handler provides HTTP handlers for the API.
type Handler struct {
	store   store.Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auth    AuthConfig
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, authCfg AuthConfig, m *metrics.Metrics, l *slog.Logger) *Handler {
	if l == nil {
		l = slog.Default()
	}
	if m == nil {
		m = metrics.New()
	}
	if authCfg.SessionTTL <= 0 {
		authCfg.SessionTTL = DefaultSessionTTL
	}
	return &Handler{
		store:   s,
		logger:  l,
		metrics: m,
		auth:    authCfg,
	}
}

// Routes returns the router with all routes configured.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.requestIDHeader)
	r.Use(h.countRequests)

	// Health endpoints
	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)
	r.Method(http.MethodGet, "/metrics", h.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(h.jsonContentType)

		// Public invitation routes, addressed by slug
		r.Get("/families/slug/{slug}", h.handleGetFamilyBySlug)
		r.Post("/families/slug/{slug}/confirm", h.handleConfirmFamily)
		r.Get("/config", h.handleGetPublicConfig)

		r.Post("/admin/login", h.handleLogin)

		// Admin routes, session required
		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireSession)

			r.Post("/logout", h.handleLogout)

			r.Route("/families", func(r chi.Router) {
				r.Post("/", h.handleCreateFamily)
				r.Get("/", h.handleListFamilies)
				r.Get("/{id}", h.handleGetFamily)
				r.Put("/{id}", h.handleUpdateFamily)
				r.Delete("/{id}", h.handleDeleteFamily)
			})

			r.Route("/tables", func(r chi.Router) {
				r.Post("/", h.handleCreateTable)
				r.Get("/", h.handleListTables)
				r.Delete("/{id}", h.handleDeleteTable)
				r.Post("/{id}/assign", h.handleAssignGuest)
				r.Post("/{id}/unassign", h.handleUnassignGuest)
			})
			r.Get("/guests/unseated", h.handleListUnseatedGuests)

			r.Route("/budget", func(r chi.Router) {
				r.Post("/", h.handleCreateBudgetItem)
				r.Get("/", h.handleListBudget)
				r.Put("/{id}", h.handleUpdateBudgetItem)
				r.Delete("/{id}", h.handleDeleteBudgetItem)
				r.Get("/export", h.handleExportBudget)
			})

			r.Get("/config", h.handleGetConfig)
			r.Put("/config", h.handleUpdateConfig)
		})
	})

	return r
}

// =============================================================================
// Middleware
// =============================================================================

// jsonContentType sets Content-Type header to application/json.
func (h *Handler) jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// requestIDHeader copies the request ID to the response header.
func (h *Handler) requestIDHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-ID", reqID)
		}
		next.ServeHTTP(w, r)
	})
}

// countRequests feeds the request counter with method and status class.
func (h *Handler) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		class := strconv.Itoa(ww.Status()/100) + "xx"
		h.metrics.RequestsTotal.WithLabelValues(r.Method, class).Inc()
	})
}

// =============================================================================
// Health Handlers
// =============================================================================

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	h.writeJSON(w, http.StatusOK, HealthResponse{Status: "healthy"})
}

func (h *Handler) handleReady(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	checks := make(map[string]string)

	if _, err := h.store.GetEventConfig(r.Context()); err != nil {
		checks["database"] = "failed"
		h.writeJSON(w, http.StatusServiceUnavailable, ReadyResponse{
			Status: "not_ready",
			Checks: checks,
		})
		return
	}
	checks["database"] = "ok"

	h.writeJSON(w, http.StatusOK, ReadyResponse{
		Status: "ready",
		Checks: checks,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode JSON", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message, code string) {
	h.writeJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

func (h *Handler) familyToResponse(f *domain.Family) FamilyResponse {
	resp := FamilyResponse{
		ID:              f.ID,
		Name:            f.Name,
		Slug:            f.Slug,
		PossibleGuests:  f.PossibleGuests,
		ConfirmedGuests: f.ConfirmedGuests,
		ConfirmedCount:  f.ConfirmedCount,
		Confirmed:       f.Confirmed,
		Comment:         f.Comment,
		Host:            string(f.Host),
		CreatedAt:       f.CreatedAt,
		ConfirmedAt:     f.ConfirmedAt,
	}
	if resp.ConfirmedGuests == nil {
		resp.ConfirmedGuests = []string{}
	}
	return resp
}

func (h *Handler) familyToPublicResponse(f *domain.Family) PublicFamilyResponse {
	resp := PublicFamilyResponse{
		Name:            f.Name,
		Slug:            f.Slug,
		PossibleGuests:  f.PossibleGuests,
		ConfirmedGuests: f.ConfirmedGuests,
		Confirmed:       f.Confirmed,
		Comment:         f.Comment,
		ConfirmedAt:     f.ConfirmedAt,
	}
	if resp.ConfirmedGuests == nil {
		resp.ConfirmedGuests = []string{}
	}
	return resp
}

func guestToResponse(g domain.Guest, familyName string) GuestResponse {
	return GuestResponse{
		ID:         g.ID,
		Name:       g.Name,
		FamilyID:   g.FamilyID,
		FamilyName: familyName,
		Confirmed:  g.Confirmed,
		TableID:    g.TableID,
		Host:       string(g.Host),
	}
}

// isNotFound checks if an error is a not found error.
func isNotFound(err error) bool {
	var storeErr *store.StoreError
	if errors.As(err, &storeErr) {
		return errors.Is(storeErr.Unwrap(), store.ErrNotFound)
	}
	return false
}
