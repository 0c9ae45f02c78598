package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"time"
)

const healthProbeTimeout = 2 * time.Second

// Pinger is a dependency the readiness check can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

type healthStatus struct {
	Status   string `json:"status"`
	Sessions string `json:"sessions"`
}

// healthHandler answers 200 while session storage is reachable and 503 otherwise.
func healthHandler(sessions Pinger, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthProbeTimeout)
		defer cancel()

		code, body := http.StatusOK, healthStatus{Status: "ok", Sessions: "ok"}
		if err := sessions.Ping(ctx); err != nil {
			logger.WarnContext(ctx, "health check: session store unreachable", "error", err)
			code, body = http.StatusServiceUnavailable, healthStatus{Status: "degraded", Sessions: "unavailable"}
		}

		if r.Method == http.MethodHead {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(code)
			return
		}
		WriteJSON(w, code, body)
	}
}
