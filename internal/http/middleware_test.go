package httpx

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esm-labs/paddock/internal/adapters/memstore"
	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/session"
)

// stubLoader returns a fixed session for every scope.
type stubLoader struct {
	sess domainauth.Session
	err  error
}

func (s stubLoader) CheckAuth(context.Context, *session.Scope) error {
	if s.err != nil {
		return s.err
	}
	if !s.sess.Authenticated() {
		return apperrors.Unauthorized("Not signed in")
	}
	return nil
}

func (s stubLoader) Session(context.Context, *session.Scope) (domainauth.Session, error) {
	return s.sess, s.err
}

// countingLoader records how often each method is called.
type countingLoader struct {
	checkErr error
	sess     domainauth.Session
	checks   int
	reads    int
}

func (l *countingLoader) CheckAuth(context.Context, *session.Scope) error {
	l.checks++
	return l.checkErr
}

func (l *countingLoader) Session(context.Context, *session.Scope) (domainauth.Session, error) {
	l.reads++
	return l.sess, nil
}

func adminSession() domainauth.Session {
	return domainauth.Session{
		Token:    "t",
		Identity: &domainauth.Identity{ID: 1, Username: "alice", Role: domainauth.RoleAdmin},
	}
}

func memberSession() domainauth.Session {
	return domainauth.Session{
		Token:    "t",
		Identity: &domainauth.Identity{ID: 2, Username: "bob", Role: domainauth.RoleMember},
	}
}

// withScope runs the request through SessionCookie so a scope is in context.
func withScope(h http.Handler) http.Handler {
	store := session.NewStore(session.StoreOptions{KV: memstore.New()})
	return SessionCookie(store)(h)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
})

func TestSafeRedirectPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "/"},
		{"/users", "/users"},
		{"/users?offset=25&sort=role", "/users?offset=25&sort=role"},
		{"https://evil.example/x", "/"},
		{"//evil.example/x", "/"},
		{"users", "/"},
		{"/login", "/"},
		{"/logout", "/"},
		{"/login?redirect_uri=/users", "/"},
		{"javascript:alert(1)", "/"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeRedirectPath(tt.in))
		})
	}
}

func TestRedirectPathForRequest_UsesHTMXCurrentURL(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/dashboard/championship?season=2020", nil)
	r.Header.Set("Hx-Request", "true")
	r.Header.Set("Hx-Current-Url", "http://paddock.local/users?offset=25")
	assert.Equal(t, "/users?offset=25", redirectPathForRequest(r))

	r.Header.Set("Hx-Current-Url", "//evil.example/users")
	assert.Equal(t, "/dashboard/championship?season=2020", redirectPathForRequest(r))
}

func TestIsBrowserRequest(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		accept string
		htmx   bool
		want   bool
	}{
		{name: "no accept header", path: "/users", want: true},
		{name: "html", path: "/users", accept: "text/html,application/xhtml+xml", want: true},
		{name: "json", path: "/users", accept: "application/json", want: false},
		{name: "htmx with json accept", path: "/users", accept: "application/json", htmx: true, want: true},
		{name: "static asset", path: "/static/js/app.js", accept: "text/html", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				r.Header.Set("Accept", tt.accept)
			}
			if tt.htmx {
				r.Header.Set("Hx-Request", "true")
			}
			assert.Equal(t, tt.want, IsBrowserRequest(r))
		})
	}
}

func TestSessionCookie_IgnoresMalformedID(t *testing.T) {
	var got string
	h := withScope(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		got = ScopeFromContext(r.Context()).ID()
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "../../etc"})
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Empty(t, got)

	sid := session.NewSessionID()
	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: SessionCookieName, Value: sid})
	h.ServeHTTP(httptest.NewRecorder(), r)
	assert.Equal(t, sid, got)
}

func TestRequireAuthBrowser(t *testing.T) {
	t.Run("anonymous browser is redirected", func(t *testing.T) {
		h := withScope(RequireAuthBrowser(stubLoader{})(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, "/login?redirect_uri=%2Fprofile", rec.Header().Get("Location"))
	})

	t.Run("anonymous htmx request gets Hx-Redirect", func(t *testing.T) {
		h := withScope(RequireAuthBrowser(stubLoader{})(okHandler))
		r := httptest.NewRequest(http.MethodGet, "/profile", nil)
		r.Header.Set("Hx-Request", "true")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "/login?redirect_uri=%2Fprofile", rec.Header().Get("Hx-Redirect"))
	})

	t.Run("lookup failure counts as signed out", func(t *testing.T) {
		h := withScope(RequireAuthBrowser(stubLoader{err: errors.New("redis down")})(okHandler))
		r := httptest.NewRequest(http.MethodGet, "/profile", nil)
		r.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("rejected check skips the session read", func(t *testing.T) {
		loader := &countingLoader{checkErr: apperrors.Unauthorized("Not signed in"), sess: memberSession()}
		h := withScope(RequireAuthBrowser(loader)(okHandler))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/profile", nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code)
		assert.Equal(t, 1, loader.checks)
		assert.Zero(t, loader.reads)
	})

	t.Run("signed in passes with session in context", func(t *testing.T) {
		var seen *domainauth.Session
		h := withScope(RequireAuthBrowser(stubLoader{sess: memberSession()})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = GetSessionFromContext(r.Context())
		})))
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/profile", nil))
		require.NotNil(t, seen)
		assert.Equal(t, "bob", seen.Identity.Username)
	})
}

func TestRequireRoleBrowser(t *testing.T) {
	mw := func(s domainauth.Session) http.Handler {
		return withScope(RequireRoleBrowser(stubLoader{sess: s}, domainauth.RoleAdmin)(okHandler))
	}

	rec := httptest.NewRecorder()
	mw(adminSession()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/new", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	mw(memberSession()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/new", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	r := httptest.NewRequest(http.MethodGet, "/users/new", nil)
	r.Header.Set("Accept", "application/json")
	rec = httptest.NewRecorder()
	mw(memberSession()).ServeHTTP(rec, r)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient_permissions")

	// A session without an identity has no role.
	rec = httptest.NewRecorder()
	mw(domainauth.Session{Token: "t"}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/new", nil))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestForcePasswordChange(t *testing.T) {
	forced := memberSession()
	forced.MustChangePassword = true

	tests := []struct {
		name     string
		sess     domainauth.Session
		path     string
		htmx     bool
		wantCode int
		wantLoc  string
	}{
		{name: "forced redirects", sess: forced, path: "/dashboard", wantCode: http.StatusSeeOther, wantLoc: PathChangePassword},
		{name: "forced htmx redirects", sess: forced, path: "/users", htmx: true, wantCode: http.StatusOK},
		{name: "change page exempt", sess: forced, path: PathChangePassword, wantCode: http.StatusNoContent},
		{name: "logout exempt", sess: forced, path: PathLogout, wantCode: http.StatusNoContent},
		{name: "static exempt", sess: forced, path: "/static/css/app.css", wantCode: http.StatusNoContent},
		{name: "not forced passes", sess: memberSession(), path: "/dashboard", wantCode: http.StatusNoContent},
		{name: "anonymous passes", path: "/dashboard", wantCode: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := withScope(ForcePasswordChange(stubLoader{sess: tt.sess})(okHandler))
			r := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.htmx {
				r.Header.Set("Hx-Request", "true")
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, r)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantLoc != "" {
				assert.Equal(t, tt.wantLoc, rec.Header().Get("Location"))
			}
			if tt.htmx {
				assert.Equal(t, PathChangePassword, rec.Header().Get("Hx-Redirect"))
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	var guest bool
	h := withScope(OptionalAuth(stubLoader{})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		guest = IsGuestUser(r.Context())
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, guest)

	h = withScope(OptionalAuth(stubLoader{sess: adminSession()})(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		guest = IsGuestUser(r.Context())
	})))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, guest)
}

func TestRecover(t *testing.T) {
	h := Recover(discardLogger())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
