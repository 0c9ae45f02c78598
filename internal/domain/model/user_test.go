package model

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
)

func TestCreateUserRequest_Normalize(t *testing.T) {
	r := CreateUserRequest{Username: "  alice ", FullName: " Alice Doe ", Role: " "}
	r.Normalize()
	assert.Equal(t, "alice", r.Username)
	assert.Equal(t, "Alice Doe", r.FullName)
	assert.Equal(t, domainauth.RoleMember, r.Role)

	r = CreateUserRequest{Username: "bob", FullName: "Bob", Role: "ADMIN"}
	r.Normalize()
	assert.Equal(t, domainauth.RoleAdmin, r.Role)
}

func TestUsersListOptions_Normalize(t *testing.T) {
	o := UsersListOptions{Limit: 0, Offset: -5, Sort: "password", Dir: "sideways"}
	o.Normalize()
	assert.Equal(t, 25, o.Limit)
	assert.Equal(t, 0, o.Offset)
	assert.Equal(t, "id", o.Sort)
	assert.Equal(t, "asc", o.Dir)

	o = UsersListOptions{Limit: 10, Offset: 20, Sort: "Full_Name", Dir: "DESC"}
	o.Normalize()
	assert.Equal(t, 10, o.Limit)
	assert.Equal(t, "full_name", o.Sort)
	assert.Equal(t, "desc", o.Dir)
}

func TestUpdateUserRequest_HasUpdates(t *testing.T) {
	assert.False(t, (&UpdateUserRequest{}).HasUpdates())
	name := "x"
	assert.True(t, (&UpdateUserRequest{FullName: &name}).HasUpdates())
}

func TestPageQuery(t *testing.T) {
	q := PageQuery("username", SortDesc, 10, 20)
	assert.Equal(t, 20, q.Start)
	assert.Equal(t, 29, q.End)
	assert.Equal(t, SortDesc, q.Order)
}
