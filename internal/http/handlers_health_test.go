package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler(t *testing.T) {
	healthy := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("dial tcp: connection refused") })

	tests := []struct {
		name     string
		method   string
		pinger   Pinger
		wantCode int
		wantBody string
	}{
		{name: "GET healthy", method: http.MethodGet, pinger: healthy, wantCode: http.StatusOK,
			wantBody: `{"status":"ok","sessions":"ok"}`},
		{name: "HEAD healthy", method: http.MethodHead, pinger: healthy, wantCode: http.StatusOK},
		{name: "GET store down", method: http.MethodGet, pinger: down, wantCode: http.StatusServiceUnavailable,
			wantBody: `{"status":"degraded","sessions":"unavailable"}`},
		{name: "HEAD store down", method: http.MethodHead, pinger: down, wantCode: http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			healthHandler(tt.pinger, discardLogger())(rec, httptest.NewRequest(tt.method, "/healthz", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			if tt.wantBody == "" {
				assert.Zero(t, rec.Body.Len())
				return
			}
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
