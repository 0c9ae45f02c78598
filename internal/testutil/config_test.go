package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
)

func TestEnvBool(t *testing.T) {
	for _, v := range []string{"1", "true", "YES", "y"} {
		t.Setenv("PADDOCK_TEST_FLAG", v)
		assert.True(t, envBool("PADDOCK_TEST_FLAG"), v)
	}
	t.Setenv("PADDOCK_TEST_FLAG", "off")
	assert.False(t, envBool("PADDOCK_TEST_FLAG"))
}

func TestSelectTestRedisDB_EnvOverride(t *testing.T) {
	t.Setenv("TEST_REDIS_DB", "7")
	assert.Equal(t, 7, selectTestRedisDB(t, "127.0.0.1:1"))
}

func TestUserBuilder(t *testing.T) {
	b := NewUser().WithID(9).WithUsername("bob").WithRole(domainauth.RoleAdmin).MustChangePassword()
	u := b.Build()
	assert.Equal(t, int64(9), u.ID)
	assert.Equal(t, "bob", u.Username)
	assert.True(t, u.MustChangePassword)

	id := b.Identity()
	assert.Equal(t, domainauth.RoleAdmin, id.Role)
	assert.Equal(t, "bob", id.Username)
}
