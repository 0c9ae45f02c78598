package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/esm-labs/paddock/config"
	httpx "github.com/esm-labs/paddock/internal/http"
)

const (
	httpIdleTimeout     = 120 * time.Second
	httpShutdownTimeout = 10 * time.Second
)

// HTTPServerConfig contains configuration for HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
	// ErrCh receives the listener error if the server stops unexpectedly.
	ErrCh chan<- error
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) (*http.Server, error) {
	if cfg == nil {
		return nil, errors.New("http server config is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
		appCfg.Sanitize()
	}

	handler, err := buildHTTPHandler(appCfg, cfg.Services, logger)
	if err != nil {
		return nil, err
	}

	return startServer(serverParams{
		Logger:  logger,
		Handler: handler,
		HTTP:    appCfg.HTTP,
		ErrCh:   cfg.ErrCh,
	}), nil
}

func buildHTTPHandler(appCfg *config.AppConfig, svcs ServiceContainer, logger *slog.Logger) (http.Handler, error) {
	handler, err := httpx.NewRouter(httpx.RouterServices{
		Auth:            svcs.Auth,
		Account:         svcs.Account,
		Users:           svcs.Users,
		Dashboard:       svcs.Dashboard,
		Sessions:        svcs.Sessions,
		CookieDomain:    appCfg.HTTP.CookieDomain,
		SecureCookie:    appCfg.SecureCookies(),
		LoginRateLimit:  appCfg.RateLimit.LoginLimit,
		LoginRateWindow: appCfg.RateLimit.LoginWindow,
		IsDev:           appCfg.IsDev,
		Logger:          logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build router: %w", err)
	}
	return handler, nil
}

type serverParams struct {
	Logger  *slog.Logger
	Handler http.Handler
	HTTP    config.HTTPConfig
	ErrCh   chan<- error
}

func startServer(p serverParams) *http.Server {
	addr := p.HTTP.Addr
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      p.Handler,
		ReadTimeout:  p.HTTP.ReadTimeout,
		WriteTimeout: p.HTTP.WriteTimeout,
		IdleTimeout:  httpIdleTimeout,
	}

	go func() {
		p.Logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			p.Logger.Error("HTTP server failed", "error", err)
			if p.ErrCh != nil {
				p.ErrCh <- fmt.Errorf("http server: %w", err)
			}
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	parent := cfg.Context
	if parent == nil {
		parent = context.Background()
	}
	shutdownCtx, cancel := context.WithTimeout(parent, httpShutdownTimeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
