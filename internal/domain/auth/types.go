package auth

// Package auth contains domain-level types for authentication and sessions.
// It is pure and free of framework/adapter concerns.

// Role represents an application's authorization role as issued by the backend.
// Unknown values are carried verbatim.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is one of the roles the backend accepts on writes.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Identity is the read-only projection of the backend user record exposed to pages.
// It is replaced wholesale on login or profile update, never partially mutated.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Avatar   string `json:"avatar,omitempty"`
	Role     Role   `json:"role"`
}

// DisplayName returns the full name, falling back to the username.
func (i Identity) DisplayName() string {
	if i.FullName != "" {
		return i.FullName
	}
	return i.Username
}

// Session is the per-browser authentication state.
// Identity is present only when Token is present; MustChangePassword is
// meaningful only while Token is present.
type Session struct {
	Token              string
	Identity           *Identity
	MustChangePassword bool
}

// Authenticated reports whether a token is held.
func (s Session) Authenticated() bool { return s.Token != "" }

// Role returns the stored role, or "" when no identity is held.
func (s Session) Role() Role {
	if s.Identity == nil {
		return ""
	}
	return s.Identity.Role
}

// IsAdmin returns true if the session identity carries the admin role.
func (s Session) IsAdmin() bool { return s.Role() == RoleAdmin }
