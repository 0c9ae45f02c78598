package httpx

// CurrentPage constants define the page identifiers used in templates and navigation.
const (
	PageDashboard      = "dashboard"
	PageChangePassword = "change-password"
	PageProfile        = "profile"
	PageUsers          = "users"
	PageUserView       = "user-view"
	PageUserForm       = "user-form"
	PageUserCreated    = "user-created"
)

// Browser-facing paths referenced by redirects and the password change guard.
const (
	PathLogin          = "/login"
	PathLogout         = "/logout"
	PathChangePassword = "/change-password"
)

// SessionCookieName carries the opaque browser session id.
const SessionCookieName = "paddock_sid"

// Template and static asset paths used in tests and production.
const (
	TemplatePathFromRoot = "frontend/templates"       // From project root
	TemplatePathFromTest = "../../frontend/templates" // From internal/http test files
	StaticPathFromRoot   = "frontend/static"
	StaticPathFromTest   = "../../frontend/static"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	// FormModeEdit indicates the form is in edit mode.
	FormModeEdit FormMode = "edit"
	// FormModeCreate indicates the form is in create mode.
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup for templates
var contentTemplates = map[string]string{
	PageDashboard:      "dashboard-content",
	PageChangePassword: "change-password-content",
	PageProfile:        "profile-content",
	PageUsers:          "users-content",
	PageUserView:       "user-view-content",
	PageUserForm:       "user-form-content",
	PageUserCreated:    "user-created-content",
}

// ContentTemplateFor returns the content template for the given CurrentPage.
// Falls back to dashboard-content for unknown pages.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
