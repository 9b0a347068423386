// Package auth provides the admin authentication context and helpers for
// extracting bearer tokens from requests.
package auth

import (
	"context"
	"net/http"
	"strings"
)

// =============================================================================
// Context Key
// =============================================================================

type contextKey string

const authContextKey contextKey = "auth"

// =============================================================================
// Types
// =============================================================================

// Context represents the authentication state of a request. The dashboard
// has a single shared-secret admin login, so there is no user identity
// beyond "is an admin with a live session".
type Context struct {
	// Token is the opaque session token presented by the client.
	Token string

	// Authenticated is true once the middleware has verified the token
	// against a live, unexpired session.
	Authenticated bool
}

// =============================================================================
// Bearer Token Extraction
// =============================================================================

// BearerToken extracts the token from an Authorization: Bearer header.
// Returns the empty string when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(h) <= len(prefix) || !strings.EqualFold(h[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(h[len(prefix):])
}

// =============================================================================
// Context Storage
// =============================================================================

// WithContext returns a new context with the auth context stored in it.
func WithContext(ctx context.Context, authCtx Context) context.Context {
	return context.WithValue(ctx, authContextKey, authCtx)
}

// FromContext retrieves the auth context from a context. Returns an
// unauthenticated context when none is stored.
func FromContext(ctx context.Context) Context {
	if authCtx, ok := ctx.Value(authContextKey).(Context); ok {
		return authCtx
	}
	return Context{}
}
