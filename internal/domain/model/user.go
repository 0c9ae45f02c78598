//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"strings"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
)

// User is a record of the backend users resource.
type User struct {
	ID                 int64           `json:"id"`
	Username           string          `json:"username"`
	FullName           string          `json:"full_name"`
	Avatar             string          `json:"avatar"`
	Role               domainauth.Role `json:"role"`
	MustChangePassword bool            `json:"must_change_password"`
	IsActive           bool            `json:"is_active"`
}

// CreatedUser is the create response; InitialPassword is shown to the admin exactly once.
type CreatedUser struct {
	User
	InitialPassword string `json:"initial_password"`
}

// CreateUserRequest represents parameters to create a User.
type CreateUserRequest struct {
	Username string          `json:"username"  validate:"required,max=64"  label:"Username"`
	FullName string          `json:"full_name" validate:"required,max=255" label:"Full name"`
	Role     domainauth.Role `json:"role"      validate:"oneof=admin member" label:"Role"`
}

// Normalize trims inputs and defaults the role to member.
func (r *CreateUserRequest) Normalize() {
	r.Username = strings.TrimSpace(r.Username)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Role = domainauth.Role(strings.ToLower(strings.TrimSpace(string(r.Role))))
	if r.Role == "" {
		r.Role = domainauth.RoleMember
	}
}

// UpdateUserRequest represents parameters to update a User.
type UpdateUserRequest struct {
	Username *string          `json:"username,omitempty"  validate:"omitempty,min=1,max=64"  label:"Username"`
	FullName *string          `json:"full_name,omitempty" validate:"omitempty,min=1,max=255" label:"Full name"`
	Role     *domainauth.Role `json:"role,omitempty"      validate:"omitempty,oneof=admin member" label:"Role"`
}

// HasUpdates reports whether any field is set in UpdateUserRequest.
func (r *UpdateUserRequest) HasUpdates() bool {
	return r.Username != nil || r.FullName != nil || r.Role != nil
}

// UsersListOptions controls paging and sorting for listing users.
// Sort supports: "username", "full_name", "role", "id". Dir supports "asc", "desc".
type UsersListOptions struct {
	Limit  int
	Offset int
	Sort   string
	Dir    string
}

var userSortFields = map[string]struct{}{
	"id":        {},
	"username":  {},
	"full_name": {},
	"role":      {},
}

// Normalize clamps paging and falls back to id ascending for unsupported sort input.
func (o *UsersListOptions) Normalize() {
	if o.Limit <= 0 || o.Limit > 100 {
		o.Limit = 25
	}
	if o.Offset < 0 {
		o.Offset = 0
	}
	o.Sort = strings.ToLower(strings.TrimSpace(o.Sort))
	if _, ok := userSortFields[o.Sort]; !ok {
		o.Sort = "id"
	}
	if strings.EqualFold(o.Dir, "desc") {
		o.Dir = "desc"
	} else {
		o.Dir = "asc"
	}
}
