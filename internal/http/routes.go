package httpx

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/esm-labs/paddock"
	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/observability/metrics"
	"github.com/esm-labs/paddock/internal/service"
	"github.com/esm-labs/paddock/internal/session"
)

// Login limiter defaults used when RouterServices leaves them unset.
const (
	defaultLoginRateLimit  = 10
	defaultLoginRateWindow = time.Minute
)

// RouterServices holds all the services needed by the HTTP router.
type RouterServices struct {
	Auth      *service.AuthService
	Account   *service.AccountService
	Users     *service.UserService
	Dashboard *service.DashboardService
	Sessions  *session.Store

	// TemplateFS and StaticFS are rooted at the template and static directories.
	// When nil they come from disk in dev mode and from the embedded copies otherwise.
	TemplateFS fs.FS
	StaticFS   fs.FS

	CookieDomain    string
	SecureCookie    bool
	LoginRateLimit  int
	LoginRateWindow time.Duration
	IsDev           bool
	Logger          *slog.Logger
}

func (s RouterServices) validate() error {
	switch {
	case s.Auth == nil:
		return errors.New("router: Auth service is required")
	case s.Account == nil:
		return errors.New("router: Account service is required")
	case s.Users == nil:
		return errors.New("router: Users service is required")
	case s.Dashboard == nil:
		return errors.New("router: Dashboard service is required")
	case s.Sessions == nil:
		return errors.New("router: session store is required")
	}
	return nil
}

// NewRouter creates the browser-facing handler with its middleware chain.
func NewRouter(services RouterServices) (http.Handler, error) {
	if err := services.validate(); err != nil {
		return nil, err
	}
	logger := services.Logger
	if logger == nil {
		logger = slog.Default()
	}

	templateFS, staticFS, err := resolveFilesystems(services)
	if err != nil {
		return nil, err
	}
	tr, err := NewTemplateRenderer(TemplateRendererConfig{TemplateFS: templateFS, Logger: logger})
	if err != nil {
		return nil, fmt.Errorf("create template renderer: %w", err)
	}

	h := &UIHandlers{
		T:            tr,
		Auth:         services.Auth,
		Account:      services.Account,
		Users:        services.Users,
		Dashboard:    services.Dashboard,
		Sessions:     services.Sessions,
		CookieDomain: services.CookieDomain,
		SecureCookie: services.SecureCookie,
		IsDev:        services.IsDev,
		Logger:       logger,
	}

	mux := http.NewServeMux()
	health := healthHandler(services.Sessions, logger)
	mux.Handle("GET /healthz", health)
	mux.Handle("HEAD /healthz", health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /static/", staticWithCacheHeaders(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	cfg := uiRouteConfig{Auth: services.Auth}
	registerAuthRoutes(mux, h, cfg, loginLimiter(services))
	registerUIDashboardRoutes(mux, h, cfg)
	registerUIAccountRoutes(mux, h, cfg)
	registerUIUsersRoutes(mux, h, cfg)

	var handler http.Handler = &notFoundHandler{mux: mux, notFound: cfg.optionalWrap()(http.HandlerFunc(h.NotFound))}
	handler = CSRFProtection(CSRFConfig{CookieDomain: services.CookieDomain, Secure: services.SecureCookie})(handler)
	handler = SessionCookie(services.Sessions)(handler)
	handler = BrowserDetection()(handler)
	handler = Logging(logger)(handler)
	handler = Recover(logger)(handler)
	return handler, nil
}

// resolveFilesystems picks template and static filesystems for the current mode.
func resolveFilesystems(services RouterServices) (fs.FS, fs.FS, error) {
	templateFS, staticFS := services.TemplateFS, services.StaticFS
	if templateFS == nil {
		if services.IsDev {
			templateFS = os.DirFS(TemplatePathFromRoot)
		} else {
			sub, err := fs.Sub(paddock.TemplateFS, TemplatePathFromRoot)
			if err != nil {
				return nil, nil, fmt.Errorf("embedded templates: %w", err)
			}
			templateFS = sub
		}
	}
	if staticFS == nil {
		if services.IsDev {
			staticFS = os.DirFS(StaticPathFromRoot)
		} else {
			sub, err := fs.Sub(paddock.StaticFS, StaticPathFromRoot)
			if err != nil {
				return nil, nil, fmt.Errorf("embedded static assets: %w", err)
			}
			staticFS = sub
		}
	}
	return templateFS, staticFS, nil
}

// loginLimiter throttles credential exchanges per client IP.
func loginLimiter(services RouterServices) func(http.Handler) http.Handler {
	limit, window := services.LoginRateLimit, services.LoginRateWindow
	if limit <= 0 {
		limit = defaultLoginRateLimit
	}
	if window <= 0 {
		window = defaultLoginRateWindow
	}
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			metrics.RateLimitHits.WithLabelValues(PathLogin).Inc()
			http.Error(w, "Too many sign-in attempts. Please wait a minute and try again.", http.StatusTooManyRequests)
		}),
	)
}

// staticWithCacheHeaders adds cache headers to static responses.
// Assets are not content-hashed, so browsers revalidate on every use.
func staticWithCacheHeaders(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		handler.ServeHTTP(w, r)
	})
}

// notFoundHandler wraps a ServeMux and provides custom 404 handling.
type notFoundHandler struct {
	mux      *http.ServeMux
	notFound http.Handler
}

// ServeHTTP implements http.Handler and provides custom 404 handling.
func (h *notFoundHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Only unmatched requests need the capture; let everything else stream.
	if _, pattern := h.mux.Handler(r); pattern != "" {
		h.mux.ServeHTTP(w, r)
		return
	}
	cw := newCaptureWriter(w)
	h.mux.ServeHTTP(cw, r)
	if cw.status == http.StatusNotFound && !strings.HasPrefix(r.URL.Path, "/static/") {
		h.notFound.ServeHTTP(w, r)
		return
	}
	cw.flushTo(w)
}

// captureWriter buffers headers, status and body so we can decide post-dispatch.
type captureWriter struct {
	rw     http.ResponseWriter
	header http.Header
	status int
	buf    bytes.Buffer
}

func newCaptureWriter(w http.ResponseWriter) *captureWriter {
	return &captureWriter{rw: w, header: make(http.Header), status: http.StatusOK}
}

func (c *captureWriter) Header() http.Header         { return c.header }
func (c *captureWriter) WriteHeader(code int)        { c.status = code }
func (c *captureWriter) Write(b []byte) (int, error) { return c.buf.Write(b) }

func (c *captureWriter) flushTo(w http.ResponseWriter) {
	for k, vs := range c.header {
		for _, v := range vs {
			w.Header().Add(k, v)
		}
	}
	w.WriteHeader(c.status)
	if _, err := w.Write(c.buf.Bytes()); err != nil {
		slog.Default().Error("failed to write captured response", "error", err)
	}
}

func registerAuthRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig, limiter func(http.Handler) http.Handler) {
	optional := OptionalAuth(cfg.Auth)
	mux.Handle("GET /login", optional(http.HandlerFunc(h.LoginPage)))
	mux.Handle("POST /login", limiter(http.HandlerFunc(h.LoginSubmit)))
	mux.HandleFunc("POST /logout", h.Logout)
	mux.Handle("GET /auth/status", optional(http.HandlerFunc(h.Status)))
}

// uiRouteConfig holds configuration for UI route registration.
type uiRouteConfig struct {
	Auth SessionLoader
}

// authWrap requires a session and enforces a pending password change.
func (cfg uiRouteConfig) authWrap() func(http.Handler) http.Handler {
	requireAuth := RequireAuthBrowser(cfg.Auth)
	guard := ForcePasswordChange(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return requireAuth(guard(h))
	}
}

// adminWrap requires the admin role. A pending password change wins over the
// role check, so a flagged member is sent to change it rather than refused.
func (cfg uiRouteConfig) adminWrap() func(http.Handler) http.Handler {
	requireAuth := RequireAuthBrowser(cfg.Auth)
	guard := ForcePasswordChange(cfg.Auth)
	roleCheck := RequireRoleBrowser(cfg.Auth, domainauth.RoleAdmin)
	return func(h http.Handler) http.Handler {
		return requireAuth(guard(roleCheck(h)))
	}
}

// optionalWrap loads any session for public pages and still enforces a
// pending password change.
func (cfg uiRouteConfig) optionalWrap() func(http.Handler) http.Handler {
	optional := OptionalAuth(cfg.Auth)
	guard := ForcePasswordChange(cfg.Auth)
	return func(h http.Handler) http.Handler {
		return optional(guard(h))
	}
}

// registerUIDashboardRoutes wires main dashboard/navigation pages.
func registerUIDashboardRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	mux.Handle("GET /{$}", wrap(http.HandlerFunc(h.DashboardPage)))
	mux.Handle("GET /dashboard", wrap(http.HandlerFunc(h.DashboardPage)))
	mux.Handle("GET /dashboard/championship", wrap(http.HandlerFunc(h.ChampionshipFragment)))
}

// registerUIAccountRoutes wires the signed-in user's own pages. The password
// page only requires a session: it is where the guard sends everyone else.
func registerUIAccountRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	requireAuth := RequireAuthBrowser(cfg.Auth)
	mux.Handle("GET "+PathChangePassword, requireAuth(http.HandlerFunc(h.ChangePasswordPage)))
	mux.Handle("POST "+PathChangePassword, requireAuth(http.HandlerFunc(h.ChangePasswordSubmit)))

	wrap := cfg.authWrap()
	mux.Handle("GET /profile", wrap(http.HandlerFunc(h.ProfilePage)))
	mux.Handle("POST /profile", wrap(http.HandlerFunc(h.ProfileSubmit)))
}

func registerUIUsersRoutes(mux *http.ServeMux, h *UIHandlers, cfg uiRouteConfig) {
	wrap := cfg.authWrap()
	wrapAdmin := cfg.adminWrap()
	// List and detail available to authenticated users
	mux.Handle("GET /users", wrap(http.HandlerFunc(h.UsersList)))
	mux.Handle("GET /users/{id}", wrap(http.HandlerFunc(h.UserView)))
	// Admin-only create/edit flows
	mux.Handle("GET /users/new", wrapAdmin(http.HandlerFunc(h.UserNew)))
	mux.Handle("GET /users/{id}/edit", wrapAdmin(http.HandlerFunc(h.UserEdit)))
	mux.Handle("POST /users", wrapAdmin(http.HandlerFunc(h.UserCreate)))
	mux.Handle("POST /users/{id}", wrapAdmin(http.HandlerFunc(h.UserUpdate)))
	mux.Handle("POST /users/{id}/delete", wrapAdmin(http.HandlerFunc(h.UserDelete)))
}
