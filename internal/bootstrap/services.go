package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/esm-labs/paddock/config"
	"github.com/esm-labs/paddock/internal/adapters/memstore"
	redisadapter "github.com/esm-labs/paddock/internal/adapters/redis"
	"github.com/esm-labs/paddock/internal/apiclient"
	"github.com/esm-labs/paddock/internal/dataprovider"
	"github.com/esm-labs/paddock/internal/ports"
	"github.com/esm-labs/paddock/internal/service"
	"github.com/esm-labs/paddock/internal/session"
)

const shutdownWaitTimeout = 15 * time.Second

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Auth      *service.AuthService
	Account   *service.AccountService
	Users     *service.UserService
	Dashboard *service.DashboardService
	Sessions  *session.Store
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	KV     ports.KeyValueStore
	Logger *slog.Logger
}

// NewSessionKV picks the key-value store behind browser sessions.
// A nil client is only valid with the memory store.
//
//nolint:ireturn // the store kind is a runtime choice.
func NewSessionKV(cfg config.SessionConfig, client redis.UniversalClient) (ports.KeyValueStore, error) {
	if cfg.Store == config.SessionStoreMemory {
		return memstore.New(), nil
	}
	if client == nil {
		return nil, errors.New("redis session store requires a redis client")
	}
	return redisadapter.NewKVStoreWithPrefix(client, cfg.KeyPrefix), nil
}

// NewServices wires the API client, data provider and domain services.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	if deps == nil || deps.Config == nil {
		return ServiceContainer{}, errors.New("service deps missing AppConfig")
	}
	if deps.KV == nil {
		return ServiceContainer{}, errors.New("service deps missing session store")
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	client, err := apiclient.New(apiclient.Options{
		BaseURL:         cfg.API.BaseURL,
		Timeout:         cfg.API.Timeout,
		BreakerFailures: cfg.API.BreakerFailures,
		BreakerTimeout:  cfg.API.BreakerTimeout,
		Logger:          logger,
	})
	if err != nil {
		return ServiceContainer{}, fmt.Errorf("create api client: %w", err)
	}

	auth := service.NewAuthService(service.AuthServiceOptions{API: client, Logger: logger})
	return ServiceContainer{
		Auth:    auth,
		Account: service.NewAccountService(service.AccountServiceOptions{API: client, Auth: auth, Logger: logger}),
		Users: service.NewUserService(service.UserServiceOptions{
			Provider: dataprovider.New(client, nil),
			Auth:     auth,
			Logger:   logger,
		}),
		Dashboard: service.NewDashboardService(service.DashboardServiceOptions{API: client, Auth: auth, Logger: logger}),
		Sessions: session.NewStore(session.StoreOptions{
			KV:         deps.KV,
			DefaultTTL: cfg.Session.TTL,
			Logger:     logger,
		}),
	}, nil
}

// ServiceOrchestrationConfig contains configuration for service orchestration.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// RunServicesWithShutdown starts the HTTP server and manages its lifecycle.
// This function blocks until a shutdown signal is received or the server fails.
func RunServicesWithShutdown(cfg *ServiceOrchestrationConfig) error {
	if cfg == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Config == nil {
		return errors.New("service orchestration config missing AppConfig")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := make(chan error, 1)
	server, err := StartHTTPServer(&HTTPServerConfig{
		Config:   cfg.Config,
		Services: cfg.Services,
		Logger:   logger,
		ErrCh:    errCh,
	})
	if err != nil {
		return err
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	return waitForShutdown(shutdownConfig{
		ctx:        ctx,
		quit:       quit,
		errCh:      errCh,
		httpServer: server,
		logger:     logger,
	})
}

// shutdownConfig contains dependencies for graceful shutdown.
type shutdownConfig struct {
	ctx        context.Context
	quit       <-chan os.Signal
	errCh      <-chan error
	httpServer *http.Server
	logger     *slog.Logger
}

// waitForShutdown waits for shutdown signal or server error.
func waitForShutdown(cfg shutdownConfig) error {
	select {
	case <-cfg.quit:
		cfg.logger.Info("shutting down services...")
		return gracefulStop(cfg)
	case err := <-cfg.errCh:
		cfg.logger.Error("service error", "error", err)
		if stopErr := gracefulStop(cfg); stopErr != nil {
			cfg.logger.Error("graceful stop failed", "error", stopErr)
		}
		return err
	}
}

// gracefulStop drains in-flight requests.
func gracefulStop(cfg shutdownConfig) error {
	if cfg.httpServer == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(cfg.ctx, shutdownWaitTimeout)
	defer cancel()

	return ShutdownHTTPServer(ShutdownConfig{
		Context: shutdownCtx,
		Server:  cfg.httpServer,
		Logger:  cfg.logger,
	})
}
