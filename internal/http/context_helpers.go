package httpx

import (
	"context"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/session"
)

// Context keys are unexported types to avoid collisions across packages.
type (
	scopeKey   struct{}
	sessionKey struct{}
)

// SetScopeInContext returns a child context carrying the browser's session scope.
func SetScopeInContext(ctx context.Context, scope *session.Scope) context.Context {
	if scope == nil {
		return ctx
	}
	return context.WithValue(ctx, scopeKey{}, scope)
}

// ScopeFromContext returns the browser's session scope, or nil outside SessionCookie.
func ScopeFromContext(ctx context.Context) *session.Scope {
	scope, _ := ctx.Value(scopeKey{}).(*session.Scope)
	return scope
}

// SetSessionInContext returns a child context that carries the loaded session.
// If session is nil, the original ctx is returned unchanged.
func SetSessionInContext(ctx context.Context, session *domainauth.Session) context.Context {
	if session == nil {
		return ctx
	}
	return context.WithValue(ctx, sessionKey{}, session)
}

// GetUserSessionFromContext returns the user session from context and a boolean indicating presence.
func GetUserSessionFromContext(ctx context.Context) (*domainauth.Session, bool) {
	if session, ok := ctx.Value(sessionKey{}).(*domainauth.Session); ok && session != nil {
		return session, true
	}
	return nil, false
}

// GetSessionFromContext retrieves the session from the request context.
func GetSessionFromContext(ctx context.Context) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(ctx); ok {
		return s
	}
	return nil
}

// IsGuestUser reports whether the current request context is unauthenticated.
func IsGuestUser(ctx context.Context) bool {
	s, ok := GetUserSessionFromContext(ctx)
	return !ok || !s.Authenticated()
}
