package httpx

import (
	"net/http"

	"github.com/esm-labs/paddock/internal/domain/model"
)

func changePasswordMeta() PageMeta {
	return PageMeta{Title: "Change Password", PageTitle: "Change Password", CurrentPage: PageChangePassword}
}

func profileMeta() PageMeta {
	return PageMeta{Title: "Profile", PageTitle: "Profile Settings", CurrentPage: PageProfile}
}

// ChangePasswordPage renders the password form. While a change is forced the
// page explains why the rest of the dashboard is unavailable.
// GET /change-password.
func (h *UIHandlers) ChangePasswordPage(w http.ResponseWriter, r *http.Request) {
	data := NewTemplateData(r, changePasswordMeta()).
		With("Forced", mustChangePassword(r)).
		Build()
	h.renderDashboardPage(w, r, data)
}

// ChangePasswordSubmit changes the password and returns to the dashboard.
// POST /change-password.
func (h *UIHandlers) ChangePasswordSubmit(w http.ResponseWriter, r *http.Request) {
	in := model.PasswordChange{
		Current: r.PostFormValue("current_password"),
		New:     r.PostFormValue("new_password"),
		Confirm: r.PostFormValue("confirm_password"),
	}

	err := h.Account.ChangePassword(r.Context(), h.scope(r), in)
	if h.handleServiceError(w, r, err) {
		return
	}
	if err != nil {
		RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Fallback: "Failed to change password",
			Renderer: h.renderDashboardPage,
			PageMeta: changePasswordMeta(),
			Data:     map[string]any{"Forced": mustChangePassword(r)},
		})
		return
	}

	Redirect(w, r, "/")
}

func mustChangePassword(r *http.Request) bool {
	sess := GetSessionFromContext(r.Context())
	return sess != nil && sess.MustChangePassword
}

// ProfilePage renders the profile form prefilled with the stored identity.
// GET /profile.
func (h *UIHandlers) ProfilePage(w http.ResponseWriter, r *http.Request) {
	form := model.ProfileUpdate{}
	if sess := GetSessionFromContext(r.Context()); sess != nil && sess.Identity != nil {
		form.Username = sess.Identity.Username
		form.FullName = sess.Identity.FullName
	}
	data := NewTemplateData(r, profileMeta()).With("Form", form).Build()
	h.renderDashboardPage(w, r, data)
}

// ProfileSubmit saves the profile and re-renders the form with a confirmation.
// POST /profile.
func (h *UIHandlers) ProfileSubmit(w http.ResponseWriter, r *http.Request) {
	in := model.ProfileUpdate{
		Username: r.PostFormValue("username"),
		FullName: r.PostFormValue("full_name"),
	}

	updated, err := h.Account.UpdateProfile(r.Context(), h.scope(r), in)
	if h.handleServiceError(w, r, err) {
		return
	}
	if err != nil {
		RenderError(ErrorOpts{
			W:        w,
			R:        r,
			Err:      err,
			Fallback: "Failed to update profile",
			Renderer: h.renderDashboardPage,
			PageMeta: profileMeta(),
			Data:     map[string]any{"Form": in},
		})
		return
	}

	data := NewTemplateData(r, profileMeta()).
		WithIdentity(updated).
		WithSuccess("Profile updated").
		With("Form", model.ProfileUpdate{Username: updated.Username, FullName: updated.FullName}).
		Build()
	h.renderDashboardPage(w, r, data)
}
