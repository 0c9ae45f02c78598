package apiclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
)

// mutableToken is a TokenSource whose value can change between calls.
type mutableToken struct {
	value atomic.Value
}

func newMutableToken(v string) *mutableToken {
	m := &mutableToken{}
	m.value.Store(v)
	return m
}

func (m *mutableToken) Token(context.Context) (string, error) { return m.value.Load().(string), nil }

func newTestClient(t *testing.T, h http.Handler, opts ...func(*Options)) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	o := Options{BaseURL: srv.URL, Timeout: 2 * time.Second}
	for _, fn := range opts {
		fn(&o)
	}
	c, err := New(o)
	require.NoError(t, err)
	return c, srv
}

func TestWithBearer(t *testing.T) {
	orig := http.Header{"X-Test": []string{"1"}}

	h := WithBearer(orig, "abc")
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
	assert.Equal(t, "1", h.Get("X-Test"))
	assert.Empty(t, orig.Get("Authorization"), "input headers must not be mutated")

	h = WithBearer(orig, "")
	assert.Empty(t, h.Get("Authorization"))
	assert.Equal(t, "1", h.Get("X-Test"))

	h = WithBearer(nil, "abc")
	assert.Equal(t, "Bearer abc", h.Get("Authorization"))
}

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "ftp://example.com"})
	assert.Error(t, err)

	_, err = New(Options{BaseURL: "https://api.example.com/"})
	assert.NoError(t, err)
}

func TestDo_ResolvesTokenPerRequest(t *testing.T) {
	var (
		mu   sync.Mutex
		seen []string
	)
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, r.Header.Get("Authorization"))
		mu.Unlock()
		w.WriteHeader(http.StatusOK)
	}))

	ts := newMutableToken("first")
	ctx := context.Background()
	_, err := c.Do(ctx, ts, Request{Path: "/ping"})
	require.NoError(t, err)

	ts.value.Store("second")
	_, err = c.Do(ctx, ts, Request{Path: "/ping"})
	require.NoError(t, err)

	ts.value.Store("")
	_, err = c.Do(ctx, ts, Request{Path: "/ping"})
	require.NoError(t, err)

	_, err = c.Do(ctx, nil, Request{Path: "/ping"})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"Bearer first", "Bearer second", "", ""}, seen)
}

func TestDo_SendsJSONBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/me/password", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"current_password":"old","new_password":"newpass"}`, string(body))
		w.WriteHeader(http.StatusOK)
	}))

	err := c.ChangePassword(context.Background(), newMutableToken("tok"), model.PasswordChange{
		Current: "old", New: "newpass", Confirm: "newpass",
	})
	require.NoError(t, err)
}

func TestDo_ErrorMapping(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		check   func(error) bool
		message string
	}{
		{name: "unauthorized", status: 401, body: `{"detail":"Invalid credentials"}`, check: apperrors.IsUnauthorized, message: "Invalid credentials"},
		{name: "server detail verbatim", status: 400, body: `{"detail":"Current password is incorrect"}`, check: apperrors.IsServer, message: "Current password is incorrect"},
		{name: "validation list", status: 422, body: `{"detail":[{"msg":"field required"},{"msg":"too short"}]}`, check: apperrors.IsServer, message: "field required; too short"},
		{name: "conflict", status: 409, body: `{"detail":"Username already exists"}`, check: apperrors.IsConflict, message: "Username already exists"},
		{name: "not found", status: 404, body: ``, check: apperrors.IsNotFound, message: "Not found"},
		{name: "server without detail", status: 500, body: `oops`, check: apperrors.IsServer, message: "fallback"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			_, err := c.Do(context.Background(), nil, Request{Path: "/x"})
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error class: %v", err)
			assert.Equal(t, tt.message, apperrors.UserMessage(err, "fallback"))
		})
	}
}

func TestDo_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := New(Options{BaseURL: addr, Timeout: time.Second})
	require.NoError(t, err)

	_, err = c.Do(context.Background(), nil, Request{Path: "/x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsUnavailable(err))
}

func TestDo_BreakerOpensOnServerFailures(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}), func(o *Options) {
		o.BreakerFailures = 2
		o.BreakerTimeout = time.Minute
	})

	ctx := context.Background()
	for range 2 {
		_, err := c.Do(ctx, nil, Request{Path: "/x"})
		assert.True(t, apperrors.IsServer(err))
	}
	_, err := c.Do(ctx, nil, Request{Path: "/x"})
	assert.True(t, apperrors.IsUnavailable(err))
	assert.Equal(t, int32(2), hits.Load(), "open breaker must not reach the backend")
}

func TestDo_ClientErrorsDoNotTripBreaker(t *testing.T) {
	var hits atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}), func(o *Options) { o.BreakerFailures = 1 })

	for range 3 {
		_, err := c.Do(context.Background(), nil, Request{Path: "/x"})
		assert.True(t, apperrors.IsUnauthorized(err))
	}
	assert.Equal(t, int32(3), hits.Load())
}

func TestDetail(t *testing.T) {
	assert.Equal(t, "boom", Detail([]byte(`{"detail":"boom"}`)))
	assert.Equal(t, "", Detail([]byte(`not json`)))
	assert.Equal(t, "", Detail([]byte(`{"detail":42}`)))
}
