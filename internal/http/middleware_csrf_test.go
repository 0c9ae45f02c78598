package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csrfHandler(t *testing.T, seen *string) http.Handler {
	t.Helper()
	return CSRFProtection(CSRFConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if seen != nil {
			*seen = GetCSRFToken(r)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestCSRFProtection_IssuesCookieOnFirstContact(t *testing.T) {
	var seen string
	rec := httptest.NewRecorder()
	csrfHandler(t, &seen).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

	require.Equal(t, http.StatusNoContent, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, CSRFCookieName, c.Name)
	assert.NotEmpty(t, c.Value)
	assert.False(t, c.HttpOnly, "htmx reads the token from the page, the cookie must stay script-visible")
	assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
	assert.Equal(t, c.Value, seen)
}

func TestCSRFProtection_ReusesExistingCookie(t *testing.T) {
	var seen string
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "existing"})
	rec := httptest.NewRecorder()
	csrfHandler(t, &seen).ServeHTTP(rec, r)

	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, "existing", seen)
}

func TestCSRFProtection_Validation(t *testing.T) {
	form := func(token string) *http.Request {
		body := url.Values{CSRFFormField: {token}}.Encode()
		r := httptest.NewRequest(http.MethodPost, "/profile", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
		return r
	}

	tests := []struct {
		name string
		req  func() *http.Request
		want int
	}{
		{name: "form field matches", req: func() *http.Request { return form("tok") }, want: http.StatusNoContent},
		{name: "form field mismatch", req: func() *http.Request { return form("other") }, want: http.StatusForbidden},
		{name: "header matches", req: func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/logout", nil)
			r.Header.Set(CSRFHeaderName, "tok")
			r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
			return r
		}, want: http.StatusNoContent},
		{name: "no cookie", req: func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/logout", nil)
			r.Header.Set(CSRFHeaderName, "tok")
			return r
		}, want: http.StatusForbidden},
		{name: "json body without header", req: func() *http.Request {
			r := httptest.NewRequest(http.MethodPost, "/logout", strings.NewReader(`{"csrf_token":"tok"}`))
			r.Header.Set("Content-Type", "application/json")
			r.AddCookie(&http.Cookie{Name: CSRFCookieName, Value: "tok"})
			return r
		}, want: http.StatusForbidden},
		{name: "safe method skips check", req: func() *http.Request {
			return httptest.NewRequest(http.MethodHead, "/healthz", nil)
		}, want: http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			csrfHandler(t, nil).ServeHTTP(rec, tt.req())
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequestIsHTTPS(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, requestIsHTTPS(r))
	r.Header.Set("X-Forwarded-Proto", "http, HTTPS")
	assert.True(t, requestIsHTTPS(r))
}
