package httpx

import (
	"context"
	"html"
	"log/slog"
	"net/http"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/http/ui/viewmodel"
	"github.com/esm-labs/paddock/internal/service"
	"github.com/esm-labs/paddock/internal/session"
)

// AuthService is the session surface the handlers need.
type AuthService interface {
	SessionLoader
	Login(ctx context.Context, scope *session.Scope, creds model.Credentials) error
	Logout(ctx context.Context, scope *session.Scope)
	GetIdentity(ctx context.Context, scope *session.Scope) (*domainauth.Identity, error)
	GetPermissions(ctx context.Context, scope *session.Scope) (domainauth.Role, error)
}

// AccountService is a minimal interface for the account pages.
type AccountService interface {
	ChangePassword(ctx context.Context, scope *session.Scope, in model.PasswordChange) error
	UpdateProfile(ctx context.Context, scope *session.Scope, in model.ProfileUpdate) (domainauth.Identity, error)
}

// UsersService is a minimal interface for the user admin pages.
type UsersService interface {
	List(ctx context.Context, scope *session.Scope, opts model.UsersListOptions) (service.UsersPage, error)
	Get(ctx context.Context, scope *session.Scope, id int64) (model.User, error)
	Create(ctx context.Context, scope *session.Scope, req model.CreateUserRequest) (model.CreatedUser, error)
	Update(ctx context.Context, scope *session.Scope, id int64, req model.UpdateUserRequest) (model.User, error)
	Delete(ctx context.Context, scope *session.Scope, id int64) error
}

// DashboardService loads the dashboard charts.
type DashboardService interface {
	Load(ctx context.Context, scope *session.Scope, season int) (model.Dashboard, error)
	Progression(ctx context.Context, scope *session.Scope, season int) (model.ProgressionChart, error)
}

// Compile-time interface assertions to ensure concrete services satisfy their UI interfaces.
var (
	_ AuthService      = (*service.AuthService)(nil)
	_ AccountService   = (*service.AccountService)(nil)
	_ UsersService     = (*service.UserService)(nil)
	_ DashboardService = (*service.DashboardService)(nil)
)

// UIHandlers serves browser-facing routes.
type UIHandlers struct {
	T         *TemplateRenderer
	Auth      AuthService
	Account   AccountService
	Users     UsersService
	Dashboard DashboardService
	// Sessions mints the scope for a freshly rotated session id at login.
	Sessions     *session.Store
	CookieDomain string
	SecureCookie bool
	IsDev        bool // Development mode flag for enhanced error reporting
	Logger       *slog.Logger
}

// logger returns the configured logger or falls back to slog.Default().
func (h *UIHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// scope returns the request's session scope. SessionCookie always installs one;
// the empty scope is a safe stand-in for handlers mounted without it.
func (h *UIHandlers) scope(r *http.Request) *session.Scope {
	if sc := ScopeFromContext(r.Context()); sc != nil {
		return sc
	}
	return h.Sessions.Scope("")
}

// renderDashboardPage renders a page with proper htmx partial support.
func (h *UIHandlers) renderDashboardPage(w http.ResponseWriter, r *http.Request, data any) {
	if !WantsPartial(r) {
		if err := h.T.RenderFull(w, r, data); err != nil {
			h.logAndRenderTemplateError(w, r, err, "full page render")
		}
		return
	}

	// For htmx requests, render the content plus out-of-band header updates
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	SetHXTrigger(w, "nav:activate", map[string]string{"path": r.URL.Path})

	layout := extractLayoutInfo(data)

	// Include a <title> element so htmx updates document.title on partial swaps
	if _, err := w.Write([]byte(`<title>` + html.EscapeString(layout.Title) + `</title>`)); err != nil {
		h.logger().Error("failed to write partial document title", "error", err)
		return
	}
	header := `<h1 id="header-title" class="header-title" hx-swap-oob="outerHTML">` + html.EscapeString(layout.PageTitle) + `</h1>`
	if _, err := w.Write([]byte(header)); err != nil {
		h.logger().Error("failed to write partial header title", "error", err)
		return
	}

	if err := h.T.execute(w, ContentTemplateFor(layout.CurrentPage), data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "partial content render")
	}
}

// handleServiceError ends the request for errors the page cannot recover from.
// It reports true when the response has been written.
func (h *UIHandlers) handleServiceError(w http.ResponseWriter, r *http.Request, err error) bool {
	switch {
	case err == nil:
		return false
	case apperrors.IsUnauthorized(err):
		// The service already cleared the session.
		h.clearCookie(w, r, SessionCookieName)
		redirectToLogin(w, r)
		return true
	case apperrors.IsNotFound(err):
		h.NotFound(w, r)
		return true
	default:
		return false
	}
}

// NotFound handles 404 errors. Browser requests get an HTML page, others JSON.
func (h *UIHandlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if !IsBrowserRequest(r) || h.T == nil {
		WriteJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "message": "resource not found"})
		return
	}
	h.renderErrorPage(w, r, errorPage{
		Status:  http.StatusNotFound,
		Title:   "Page Not Found",
		Message: "The page you're looking for doesn't exist.",
	})
}

type errorPage struct {
	Status  int
	Title   string
	Message string
}

func (h *UIHandlers) renderErrorPage(w http.ResponseWriter, r *http.Request, p errorPage) {
	sess := GetSessionFromContext(r.Context())
	data := map[string]any{
		"Title":           p.Title + titleSuffix,
		"Code":            p.Status,
		"Message":         p.Message,
		"IsAuthenticated": sess != nil && sess.Authenticated(),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(p.Status)
	if err := h.T.RenderError(w, r, data); err != nil {
		h.logger().Error("failed to render error page", "error", err, "status", p.Status)
	}
}

func layoutFromMap(data any) viewmodel.Layout {
	m, ok := data.(map[string]any)
	if !ok {
		return viewmodel.Layout{}
	}
	layout := viewmodel.Layout{}
	layout.Title, _ = m["Title"].(string)
	layout.PageTitle, _ = m["PageTitle"].(string)
	layout.CurrentPage, _ = m["CurrentPage"].(string)
	return layout
}

func extractLayoutInfo(data any) viewmodel.Layout {
	if provider, ok := data.(viewmodel.LayoutProvider); ok {
		if layout := provider.LayoutData(); layout != nil {
			return *layout
		}
	}
	if layout, ok := data.(viewmodel.Layout); ok {
		return layout
	}
	return layoutFromMap(data)
}

// logAndRenderTemplateError logs template errors and renders them in dev mode.
func (h *UIHandlers) logAndRenderTemplateError(w http.ResponseWriter, r *http.Request, err error, context string) {
	h.logger().Error("template rendering failed",
		"error", err,
		"context", context,
		"path", r.URL.Path,
		"method", r.Method,
	)

	if h.IsDev {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		body := `<div class="dev-error"><h2>Template Rendering Error</h2>` +
			`<p><strong>Context:</strong> ` + html.EscapeString(context) + `</p>` +
			`<p><strong>Path:</strong> ` + html.EscapeString(r.URL.Path) + `</p>` +
			`<pre>` + html.EscapeString(err.Error()) + `</pre></div>`
		if _, writeErr := w.Write([]byte(body)); writeErr != nil {
			h.logger().Error("failed to write template error response", "error", writeErr)
		}
		return
	}

	http.Error(w, "internal server error", http.StatusInternalServerError)
}
