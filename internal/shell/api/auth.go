package api

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"
	"time"

	"github.com/morales/invitations/internal/core/auth"
	"github.com/morales/invitations/internal/core/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultSessionTTL bounds how long an admin login stays valid without a
// fresh login.
const DefaultSessionTTL = 12 * time.Hour

// AuthConfig holds the admin credentials. The dashboard has a single shared
// admin account. PasswordHash (bcrypt) takes precedence when set; Password
// exists for local development setups without a hash.
type AuthConfig struct {
	Username     string
	Password     string
	PasswordHash string
	SessionTTL   time.Duration
}

// checkCredentials verifies a login attempt against the configured account.
func (c AuthConfig) checkCredentials(username, password string) bool {
	if subtle.ConstantTimeCompare([]byte(username), []byte(c.Username)) != 1 {
		return false
	}
	if c.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(c.PasswordHash), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(c.Password)) == 1
}

// =============================================================================
// Session Middleware
// =============================================================================

// requireSession guards admin routes. The token must reference a live,
// unexpired session row; anything else is a 401.
func (h *Handler) requireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.BearerToken(r)
		if token == "" {
			h.writeError(w, http.StatusUnauthorized, "missing bearer token", "unauthorized")
			return
		}

		session, err := h.store.GetSession(r.Context(), token)
		if err != nil {
			if isNotFound(err) {
				h.writeError(w, http.StatusUnauthorized, "invalid session", "unauthorized")
				return
			}
			h.logger.Error("failed to load session", "error", err)
			h.writeError(w, http.StatusInternalServerError, "failed to verify session", "internal_error")
			return
		}
		if session.Expired(time.Now()) {
			// Drop the stale row so the table does not accumulate them.
			_ = h.store.DeleteSession(r.Context(), token)
			h.writeError(w, http.StatusUnauthorized, "session expired", "unauthorized")
			return
		}

		ctx := auth.WithContext(r.Context(), auth.Context{
			Token:         token,
			Authenticated: true,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// =============================================================================
// Login Handlers
// =============================================================================

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, "invalid JSON", "validation_error")
		return
	}

	if !h.auth.checkCredentials(req.Username, req.Password) {
		h.metrics.LoginAttemptsTotal.WithLabelValues("rejected").Inc()
		h.writeError(w, http.StatusUnauthorized, "invalid credentials", "invalid_credentials")
		return
	}

	session, err := domain.NewSession(h.auth.SessionTTL)
	if err != nil {
		h.logger.Error("failed to generate session token", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create session", "internal_error")
		return
	}
	if err := h.store.CreateSession(r.Context(), session); err != nil {
		h.logger.Error("failed to persist session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to create session", "internal_error")
		return
	}

	// Logins are rare; piggyback the expired-session sweep here.
	if err := h.store.DeleteExpiredSessions(r.Context(), time.Now()); err != nil {
		h.logger.Warn("failed to purge expired sessions", "error", err)
	}

	h.metrics.LoginAttemptsTotal.WithLabelValues("accepted").Inc()
	h.logger.Info("admin logged in")

	h.writeJSON(w, http.StatusOK, LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	authCtx := auth.FromContext(r.Context())
	if err := h.store.DeleteSession(r.Context(), authCtx.Token); err != nil && !isNotFound(err) {
		h.logger.Error("failed to delete session", "error", err)
		h.writeError(w, http.StatusInternalServerError, "failed to log out", "internal_error")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
