package httpx

import (
	"net/http"
	"net/url"
	"strconv"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/http/ui/viewmodel"
)

// PageMeta contains metadata for page rendering.
type PageMeta struct {
	Title       string
	PageTitle   string
	CurrentPage string
}

const titleSuffix = " - Paddock"

// buildLayout constructs shared layout metadata from the request/session context.
func buildLayout(r *http.Request, meta PageMeta) viewmodel.Layout {
	layout := viewmodel.Layout{
		Title:       meta.Title + titleSuffix,
		PageTitle:   meta.PageTitle,
		CurrentPage: meta.CurrentPage,
		CSRFToken:   GetCSRFToken(r),
	}

	sess := GetSessionFromContext(r.Context())
	if sess == nil || !sess.Authenticated() {
		return layout
	}
	layout.IsAuthenticated = true
	layout.CanManageUsers = sess.IsAdmin()
	if id := sess.Identity; id != nil {
		layout.User = &viewmodel.User{
			Username:    id.Username,
			DisplayName: id.DisplayName(),
			Avatar:      id.Avatar,
			Role:        string(id.Role),
		}
	}
	return layout
}

// basePageData constructs the common page data map with user context.
func basePageData(r *http.Request, meta PageMeta) map[string]any {
	layout := buildLayout(r, meta)
	data := map[string]any{
		"Title":           layout.Title,
		"PageTitle":       layout.PageTitle,
		"CurrentPage":     layout.CurrentPage,
		"IsAuthenticated": layout.IsAuthenticated,
		"CanManageUsers":  layout.CanManageUsers,
		"CSRFToken":       layout.CSRFToken,
		"CSRFField":       CSRFFormField,
		"Errors":          map[string]string{},
	}
	if layout.User != nil {
		data["User"] = layout.User
	}
	return data
}

// TemplateDataBuilder provides a fluent API for building template data maps.
type TemplateDataBuilder struct {
	data map[string]any
	r    *http.Request
}

// NewTemplateData creates a new TemplateDataBuilder initialized with basePageData.
func NewTemplateData(r *http.Request, meta PageMeta) *TemplateDataBuilder {
	return &TemplateDataBuilder{
		data: basePageData(r, meta),
		r:    r,
	}
}

// PageParams describes one offset page for WithPagination.
type PageParams struct {
	BasePath string
	Offset   int
	Limit    int
	Count    int // items on this page
	Total    int
}

// WithPagination adds a viewmodel.Pagination under "Pagination", preserving other query params in the links.
func (b *TemplateDataBuilder) WithPagination(p PageParams) *TemplateDataBuilder {
	pg := viewmodel.Pagination{
		HasPrev:    p.Offset > 0,
		HasNext:    p.Offset+p.Count < p.Total,
		TotalCount: p.Total,
	}
	if p.Count > 0 {
		pg.StartIndex = p.Offset + 1
		pg.EndIndex = p.Offset + p.Count
	}
	if p.Limit > 0 && p.Total > 0 {
		pg.Page = p.Offset/p.Limit + 1
		pg.Pages = (p.Total + p.Limit - 1) / p.Limit
	}
	if pg.HasPrev {
		pg.PrevURL = buildOffsetURL(p.BasePath, b.r.URL.Query(), max(p.Offset-p.Limit, 0), p.Limit)
	}
	if pg.HasNext {
		pg.NextURL = buildOffsetURL(p.BasePath, b.r.URL.Query(), p.Offset+p.Limit, p.Limit)
	}
	b.data["Pagination"] = pg
	return b
}

// WithError sets a general error message.
func (b *TemplateDataBuilder) WithError(msg string) *TemplateDataBuilder {
	b.data["Error"] = true
	b.data["ErrorMessage"] = msg
	return b
}

// WithSuccess sets a confirmation message.
func (b *TemplateDataBuilder) WithSuccess(msg string) *TemplateDataBuilder {
	b.data["SuccessMessage"] = msg
	return b
}

// WithFieldErrors adds field-level validation errors.
func (b *TemplateDataBuilder) WithFieldErrors(errs map[string]string) *TemplateDataBuilder {
	if len(errs) > 0 {
		b.data["Errors"] = errs
	}
	return b
}

// WithIdentity overrides the layout user, used right after the identity changes.
func (b *TemplateDataBuilder) WithIdentity(id domainauth.Identity) *TemplateDataBuilder {
	b.data["User"] = &viewmodel.User{
		Username:    id.Username,
		DisplayName: id.DisplayName(),
		Avatar:      id.Avatar,
		Role:        string(id.Role),
	}
	return b
}

// With adds a custom field to the template data.
func (b *TemplateDataBuilder) With(key string, value any) *TemplateDataBuilder {
	b.data[key] = value
	return b
}

// Build returns the final template data map.
func (b *TemplateDataBuilder) Build() map[string]any {
	return b.data
}

// buildOffsetURL returns basePath with offset and limit set, keeping other non-empty params.
func buildOffsetURL(basePath string, q url.Values, offset, limit int) string {
	qq := make(url.Values, len(q))
	for k, v := range q {
		if len(v) == 0 || v[0] == "" {
			continue
		}
		qq[k] = v
	}
	qq.Set("offset", strconv.Itoa(offset))
	qq.Set("limit", strconv.Itoa(limit))
	return basePath + "?" + qq.Encode()
}
