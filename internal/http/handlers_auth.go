package httpx

import (
	"bytes"
	"net/http"
	"strings"
	"time"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/session"
)

// LoginPage renders the sign-in form.
// GET /login?redirect_uri=<optional_redirect>.
func (h *UIHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	if sess := loadSession(r, h.Auth); sess != nil {
		http.Redirect(w, r, redirectURI, http.StatusSeeOther)
		return
	}
	h.renderLogin(w, r, loginView{RedirectURI: redirectURI})
}

type loginView struct {
	Username    string
	RedirectURI string
	Err         error
	Status      int
}

// LoginSubmit exchanges the submitted credentials for a session.
// POST /login.
//
// Each successful login is bound to a freshly minted session id, so a failed
// attempt never touches the browser's current session.
func (h *UIHandlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	creds := model.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}
	redirectURI := safeRedirectPath(r.PostFormValue("redirect_uri"))

	sid := session.NewSessionID()
	fresh := h.Sessions.Scope(sid)
	if err := h.Auth.Login(ctx, fresh, creds); err != nil {
		status := http.StatusUnauthorized
		if apperrors.IsValidation(err) {
			status = http.StatusBadRequest
		}
		h.renderLogin(w, r, loginView{
			Username:    strings.TrimSpace(creds.Username),
			RedirectURI: redirectURI,
			Err:         err,
			Status:      status,
		})
		return
	}

	if err := h.scope(r).ClearAll(ctx); err != nil {
		h.logger().WarnContext(ctx, "failed to clear previous session", "error", err)
	}
	h.setSessionCookie(w, r, sid)

	if sess, err := h.Auth.Session(ctx, fresh); err == nil && sess.MustChangePassword {
		redirectURI = PathChangePassword
	}
	http.Redirect(w, r, redirectURI, http.StatusSeeOther)
}

func (h *UIHandlers) renderLogin(w http.ResponseWriter, r *http.Request, v loginView) {
	data := map[string]any{
		"Title":       "Sign in" + titleSuffix,
		"CSRFToken":   GetCSRFToken(r),
		"CSRFField":   CSRFFormField,
		"Username":    v.Username,
		"RedirectURI": v.RedirectURI,
		"Errors":      map[string]string{},
	}
	if v.Err != nil {
		fieldErrors := map[string]string{}
		data["ErrorMessage"] = processError(v.Err, msgSignInFailed, &fieldErrors)
		data["Errors"] = fieldErrors
	}

	var buf bytes.Buffer
	if err := h.T.execute(&buf, "login-page", data); err != nil {
		h.logAndRenderTemplateError(w, r, err, "login page")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if v.Status != 0 {
		w.WriteHeader(v.Status)
	}
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write login page", "error", err)
	}
}

const msgSignInFailed = "Unable to sign in"

// Logout clears the session and returns to the login page.
// POST /logout.
func (h *UIHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	h.Auth.Logout(r.Context(), h.scope(r))
	h.clearCookie(w, r, SessionCookieName)
	Redirect(w, r, PathLogin)
}

// authStatus is the GET /auth/status payload.
type authStatus struct {
	Authenticated      bool                 `json:"authenticated"`
	Identity           *domainauth.Identity `json:"identity,omitempty"`
	Permissions        domainauth.Role      `json:"permissions,omitempty"`
	MustChangePassword bool                 `json:"must_change_password,omitempty"`
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *UIHandlers) Status(w http.ResponseWriter, r *http.Request) {
	ctx, scope := r.Context(), h.scope(r)
	if err := h.Auth.CheckAuth(ctx, scope); err != nil {
		if !apperrors.IsUnauthorized(err) {
			h.logger().WarnContext(ctx, "session check failed", "error", err)
		}
		WriteJSON(w, http.StatusOK, authStatus{})
		return
	}
	identity, err := h.Auth.GetIdentity(ctx, scope)
	if err != nil {
		h.logger().WarnContext(ctx, "identity lookup failed", "error", err)
		WriteJSON(w, http.StatusOK, authStatus{})
		return
	}
	role, err := h.Auth.GetPermissions(ctx, scope)
	if err != nil {
		h.logger().WarnContext(ctx, "permissions lookup failed", "error", err)
		WriteJSON(w, http.StatusOK, authStatus{})
		return
	}
	st := authStatus{Authenticated: true, Identity: identity, Permissions: role}
	if sess := loadSession(r, h.Auth); sess != nil {
		st.MustChangePassword = sess.MustChangePassword
	}
	WriteJSON(w, http.StatusOK, st)
}

// clearCookie clears a cookie by setting it to expire immediately.
// It mirrors the attributes used when setting cookies so browsers match it for deletion.
func (h *UIHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.SecureCookie || requestIsHTTPS(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

// setSessionCookie writes the browser session cookie. It has no Max-Age: the
// stored keys expire on their own and an orphaned id resolves to an empty session.
func (h *UIHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    sid,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   h.SecureCookie || requestIsHTTPS(r),
		SameSite: http.SameSiteLaxMode,
	})
}
