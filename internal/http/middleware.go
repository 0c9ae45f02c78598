package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/observability/metrics"
	"github.com/esm-labs/paddock/internal/session"
)

// Logging returns a middleware that logs HTTP requests and responses.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := &respWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(ww, r)
			metrics.HTTPRequests.WithLabelValues(r.Method, strconv.Itoa(ww.status)).Inc()
			logger.Info("http",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// SessionCookie binds every request to the session scope named by the
// paddock_sid cookie. A missing or malformed cookie yields an empty scope that
// holds nothing; the cookie itself is only issued by a successful login.
func SessionCookie(store *session.Store) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetScopeInContext(r.Context(), store.Scope(sessionIDFromRequest(r)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionIDFromRequest(r *http.Request) string {
	c, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return ""
	}
	return c.Value
}

// SessionLoader checks and reads the stored session for a scope.
type SessionLoader interface {
	CheckAuth(ctx context.Context, scope *session.Scope) error
	Session(ctx context.Context, scope *session.Scope) (domainauth.Session, error)
}

// loadSession returns the authenticated session for the request, or nil.
func loadSession(r *http.Request, auth SessionLoader) *domainauth.Session {
	if s, ok := GetUserSessionFromContext(r.Context()); ok {
		return s
	}
	scope := ScopeFromContext(r.Context())
	if scope == nil || auth == nil {
		return nil
	}
	if err := auth.CheckAuth(r.Context(), scope); err != nil {
		if !apperrors.IsUnauthorized(err) {
			slog.Default().WarnContext(r.Context(), "session check failed", "error", err)
		}
		return nil
	}
	sess, err := auth.Session(r.Context(), scope)
	if err != nil {
		slog.Default().WarnContext(r.Context(), "session lookup failed", "error", err)
		return nil
	}
	// The token can be cleared between the two reads.
	if !sess.Authenticated() {
		return nil
	}
	return &sess
}

// OptionalAuth adds the session to the request context when one exists.
func OptionalAuth(auth SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if sess := loadSession(r, auth); sess != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// browserRequestKey is an unexported context key type for browser request detection.
type browserRequestKey struct{}

// BrowserDetection returns a middleware that records whether the request came
// from a browser so handlers can pick HTML or JSON responses.
func BrowserDetection() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := context.WithValue(r.Context(), browserRequestKey{}, isBrowserRequest(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// IsBrowserRequest returns true if the current request is from a browser.
func IsBrowserRequest(r *http.Request) bool {
	if isBrowser, ok := r.Context().Value(browserRequestKey{}).(bool); ok {
		return isBrowser
	}
	return isBrowserRequest(r)
}

func isBrowserRequest(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/static/") {
		return false
	}
	if IsHTMX(r) {
		return true
	}
	accept := r.Header.Get("Accept")
	if accept == "" {
		return true
	}
	return strings.Contains(accept, "text/html") || !strings.Contains(accept, "application/json")
}

func writeAuthRequired(w http.ResponseWriter, r *http.Request) {
	if IsBrowserRequest(r) {
		redirectToLogin(w, r)
		return
	}
	WriteError(w, ErrorParams{
		Code:    http.StatusUnauthorized,
		ErrCode: "authentication_required",
		Err:     errors.New("authentication required"),
	})
}

// RequireAuthBrowser requires a stored token. Browsers are sent to the login
// page; other clients get a 401 JSON response.
func RequireAuthBrowser(auth SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := loadSession(r, auth)
			if sess == nil {
				writeAuthRequired(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// RequireRoleBrowser requires a stored token and the given role.
func RequireRoleBrowser(auth SessionLoader, requiredRole domainauth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := loadSession(r, auth)
			if sess == nil {
				writeAuthRequired(w, r)
				return
			}
			if sess.Role() != requiredRole {
				if IsBrowserRequest(r) {
					showAccessDenied(w, r)
					return
				}
				WriteError(w, ErrorParams{
					Code:    http.StatusForbidden,
					ErrCode: "insufficient_permissions",
					Err:     errors.New("insufficient permissions"),
				})
				return
			}
			next.ServeHTTP(w, r.WithContext(SetSessionInContext(r.Context(), sess)))
		})
	}
}

// passwordChangeExempt lists paths that stay reachable while a password change is forced.
func passwordChangeExempt(path string) bool {
	switch path {
	case PathChangePassword, PathLogout, "/healthz", "/metrics":
		return true
	}
	return strings.HasPrefix(path, "/static/")
}

// ForcePasswordChange sends every request to the password change page while the
// session carries the forced change flag. Without the flag it passes through.
func ForcePasswordChange(auth SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if passwordChangeExempt(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}
			sess := loadSession(r, auth)
			if sess != nil && sess.MustChangePassword {
				Redirect(w, r, PathChangePassword)
				return
			}
			if sess != nil {
				r = r.WithContext(SetSessionInContext(r.Context(), sess))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// redirectToLogin sends the browser to the login page with the current URL as redirect_uri.
func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	redirectPath := redirectPathForRequest(r)
	loginURL := PathLogin
	if redirectPath != "/" {
		loginURL += "?redirect_uri=" + url.QueryEscape(redirectPath)
	}
	Redirect(w, r, loginURL)
}

func redirectPathForRequest(r *http.Request) string {
	if IsHTMX(r) {
		if current := safeRedirectFromURL(r.Header.Get("Hx-Current-Url")); current != "" {
			return current
		}
	}
	return safeRedirectPath(r.URL.RequestURI())
}

func safeRedirectFromURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	// Reject scheme-relative or host-only references.
	if u.Host != "" && !u.IsAbs() {
		return ""
	}
	if u.IsAbs() {
		return safeRedirectPath(u.RequestURI())
	}
	return safeRedirectPath(raw)
}

// safeRedirectPath ensures the provided redirect is a same-origin relative path
// starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") || strings.HasPrefix(candidate, "//") {
		return "/"
	}
	if u.Path == PathLogin || u.Path == PathLogout {
		return "/"
	}
	return candidate
}

// showAccessDenied shows an access denied page for browser requests.
func showAccessDenied(w http.ResponseWriter, _ *http.Request) {
	http.Error(w, "Access Denied: You don't have permission to access this resource", http.StatusForbidden)
}
