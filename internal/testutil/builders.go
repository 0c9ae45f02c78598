package testutil

import (
	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
)

// UserBuilder provides a fluent interface for building backend user records for testing.
type UserBuilder struct {
	user model.User
}

// NewUser creates a new UserBuilder with sensible defaults.
func NewUser() *UserBuilder {
	return &UserBuilder{
		user: model.User{
			ID:       1,
			Username: "alice",
			FullName: "Alice Example",
			Avatar:   "https://avatars.example.com/alice.png",
			Role:     domainauth.RoleMember,
			IsActive: true,
		},
	}
}

// WithID sets the user ID.
func (b *UserBuilder) WithID(id int64) *UserBuilder {
	b.user.ID = id
	return b
}

// WithUsername sets the username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.user.Username = username
	return b
}

// WithFullName sets the full name.
func (b *UserBuilder) WithFullName(name string) *UserBuilder {
	b.user.FullName = name
	return b
}

// WithRole sets the role.
func (b *UserBuilder) WithRole(role domainauth.Role) *UserBuilder {
	b.user.Role = role
	return b
}

// MustChangePassword marks the user as required to change their password.
func (b *UserBuilder) MustChangePassword() *UserBuilder {
	b.user.MustChangePassword = true
	return b
}

// Build returns the constructed User.
func (b *UserBuilder) Build() model.User {
	return b.user
}

// Identity projects the built user into the session identity shape.
func (b *UserBuilder) Identity() domainauth.Identity {
	return domainauth.Identity{
		ID:       b.user.ID,
		Username: b.user.Username,
		FullName: b.user.FullName,
		Avatar:   b.user.Avatar,
		Role:     b.user.Role,
	}
}
