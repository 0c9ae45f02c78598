package httpx

import (
	"net/http"
	"strconv"
	"strings"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
)

func usersMeta() PageMeta {
	return PageMeta{Title: "Users", PageTitle: "Users", CurrentPage: PageUsers}
}

func userFormMeta(mode FormMode) PageMeta {
	if mode == FormModeEdit {
		return PageMeta{Title: "Edit User", PageTitle: "Edit User", CurrentPage: PageUserForm}
	}
	return PageMeta{Title: "New User", PageTitle: "New User", CurrentPage: PageUserForm}
}

// userForm carries submitted values back into the form template.
type userForm struct {
	ID       int64
	Username string
	FullName string
	Role     string
}

// Roles offered by the user form.
var userRoles = []domainauth.Role{domainauth.RoleMember, domainauth.RoleAdmin}

// pathUserID parses the {id} path segment, or reports false.
func pathUserID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func listOptionsFromQuery(r *http.Request) model.UsersListOptions {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))
	opts := model.UsersListOptions{Limit: limit, Offset: offset, Sort: q.Get("sort"), Dir: q.Get("dir")}
	opts.Normalize()
	return opts
}

// UsersList renders one page of users.
// GET /users?limit=&offset=&sort=&dir=.
func (h *UIHandlers) UsersList(w http.ResponseWriter, r *http.Request) {
	opts := listOptionsFromQuery(r)
	page, err := h.Users.List(r.Context(), h.scope(r), opts)
	if h.handleServiceError(w, r, err) {
		return
	}

	builder := NewTemplateData(r, usersMeta()).
		With("Sort", opts.Sort).
		With("Dir", opts.Dir)
	if err != nil {
		builder.WithError(processError(err, "Failed to load users", nil))
	} else {
		builder.With("Users", page.Users).WithPagination(PageParams{
			BasePath: "/users",
			Offset:   page.Options.Offset,
			Limit:    page.Options.Limit,
			Count:    len(page.Users),
			Total:    page.Total,
		})
	}
	h.renderDashboardPage(w, r, builder.Build())
}

// UserView renders a single user.
// GET /users/{id}.
func (h *UIHandlers) UserView(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	u, err := h.Users.Get(r.Context(), h.scope(r), id)
	if h.handleServiceError(w, r, err) {
		return
	}

	builder := NewTemplateData(r, PageMeta{Title: "User", PageTitle: "User", CurrentPage: PageUserView})
	if err != nil {
		builder.WithError(processError(err, "Failed to load user", nil))
	} else {
		builder.With("UserRecord", u)
	}
	h.renderDashboardPage(w, r, builder.Build())
}

// UserNew renders the create form.
// GET /users/new.
func (h *UIHandlers) UserNew(w http.ResponseWriter, r *http.Request) {
	h.renderUserForm(w, r, FormModeCreate, userForm{Role: string(domainauth.RoleMember)})
}

// UserEdit renders the edit form prefilled from the backend record.
// GET /users/{id}/edit.
func (h *UIHandlers) UserEdit(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	u, err := h.Users.Get(r.Context(), h.scope(r), id)
	if h.handleServiceError(w, r, err) {
		return
	}
	if err != nil {
		RenderError(ErrorOpts{
			W: w, R: r, Err: err,
			Fallback: "Failed to load user",
			Renderer: h.renderDashboardPage,
			PageMeta: userFormMeta(FormModeEdit),
			Data:     userFormData(FormModeEdit, userForm{ID: id}),
		})
		return
	}
	h.renderUserForm(w, r, FormModeEdit, userForm{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: string(u.Role)})
}

func userFormData(mode FormMode, form userForm) map[string]any {
	return map[string]any{
		"Mode":  string(mode),
		"Form":  form,
		"Roles": userRoles,
	}
}

func (h *UIHandlers) renderUserForm(w http.ResponseWriter, r *http.Request, mode FormMode, form userForm) {
	builder := NewTemplateData(r, userFormMeta(mode))
	for k, v := range userFormData(mode, form) {
		builder.With(k, v)
	}
	h.renderDashboardPage(w, r, builder.Build())
}

func userFormFromRequest(r *http.Request) userForm {
	return userForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		FullName: strings.TrimSpace(r.PostFormValue("full_name")),
		Role:     strings.TrimSpace(r.PostFormValue("role")),
	}
}

// UserCreate creates a user and shows the one-time initial password.
// POST /users.
func (h *UIHandlers) UserCreate(w http.ResponseWriter, r *http.Request) {
	form := userFormFromRequest(r)
	created, err := h.Users.Create(r.Context(), h.scope(r), model.CreateUserRequest{
		Username: form.Username,
		FullName: form.FullName,
		Role:     domainauth.Role(form.Role),
	})
	if h.handleServiceError(w, r, err) {
		return
	}
	if err != nil {
		RenderError(ErrorOpts{
			W: w, R: r, Err: err,
			Fallback: "Failed to create user",
			Renderer: h.renderDashboardPage,
			PageMeta: userFormMeta(FormModeCreate),
			Data:     userFormData(FormModeCreate, form),
		})
		return
	}

	// The initial password is never stored here; this response is the only place it appears.
	w.Header().Set("Cache-Control", "no-store")
	data := NewTemplateData(r, PageMeta{Title: "User Created", PageTitle: "User Created", CurrentPage: PageUserCreated}).
		With("Created", created).
		Build()
	h.renderDashboardPage(w, r, data)
}

// UserUpdate saves the edit form.
// POST /users/{id}.
func (h *UIHandlers) UserUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	form := userFormFromRequest(r)
	form.ID = id

	var req model.UpdateUserRequest
	if form.Username != "" {
		req.Username = &form.Username
	}
	if form.FullName != "" {
		req.FullName = &form.FullName
	}
	if form.Role != "" {
		role := domainauth.Role(form.Role)
		req.Role = &role
	}

	_, err := h.Users.Update(r.Context(), h.scope(r), id, req)
	if h.handleServiceError(w, r, err) {
		return
	}
	if err != nil {
		RenderError(ErrorOpts{
			W: w, R: r, Err: err,
			Fallback: "Failed to update user",
			Renderer: h.renderDashboardPage,
			PageMeta: userFormMeta(FormModeEdit),
			Data:     userFormData(FormModeEdit, form),
		})
		return
	}
	Redirect(w, r, "/users/"+strconv.FormatInt(id, 10))
}

// UserDelete removes a user and returns to the list.
// POST /users/{id}/delete.
func (h *UIHandlers) UserDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUserID(r)
	if !ok {
		h.NotFound(w, r)
		return
	}
	err := h.Users.Delete(r.Context(), h.scope(r), id)
	if h.handleServiceError(w, r, err) {
		return
	}
	if err != nil {
		RenderError(ErrorOpts{
			W: w, R: r, Err: err,
			Fallback: "Failed to delete user",
			Renderer: h.renderDashboardPage,
			PageMeta: usersMeta(),
		})
		return
	}
	SetHXTrigger(w, "showToast", map[string]string{"message": "User deleted", "type": "success"})
	Redirect(w, r, "/users")
}
