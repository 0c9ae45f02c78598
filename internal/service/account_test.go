package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/mocks"
)

func newAccountService(t *testing.T) (*AccountService, *mocks.MockBackend) {
	t.Helper()
	ctrl := gomock.NewController(t)
	api := mocks.NewMockBackend(ctrl)
	auth := NewAuthService(AuthServiceOptions{API: api})
	return NewAccountService(AccountServiceOptions{API: api, Auth: auth}), api
}

func TestNewAccountService_RequiresDeps(t *testing.T) {
	ctrl := gomock.NewController(t)
	api := mocks.NewMockBackend(ctrl)
	assert.Panics(t, func() { NewAccountService(AccountServiceOptions{Auth: NewAuthService(AuthServiceOptions{API: api})}) })
	assert.Panics(t, func() { NewAccountService(AccountServiceOptions{API: api}) })
}

func TestAccountService_ChangePassword_LocalValidation(t *testing.T) {
	tests := []struct {
		name    string
		in      model.PasswordChange
		field   string
		message string
	}{
		{
			name:    "mismatch",
			in:      model.PasswordChange{Current: "old", New: "abcdef", Confirm: "abcdeg"},
			field:   "confirm_password",
			message: "Passwords do not match",
		},
		{
			name:    "mismatch is reported before length",
			in:      model.PasswordChange{Current: "old", New: "abc", Confirm: "abd"},
			field:   "confirm_password",
			message: "Passwords do not match",
		},
		{
			name:    "too short",
			in:      model.PasswordChange{Current: "old", New: "abc", Confirm: "abc"},
			field:   "new_password",
			message: "Password must be at least 6 characters",
		},
		{
			name:    "current required",
			in:      model.PasswordChange{New: "abcdef", Confirm: "abcdef"},
			field:   "current_password",
			message: "Current password is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// No expectations: any backend call fails the test.
			svc, _ := newAccountService(t)
			scope, _ := newScope(t)
			ctx := context.Background()
			require.NoError(t, scope.Set(ctx, "tok", &alice, true))

			err := svc.ChangePassword(ctx, scope, tt.in)

			require.Error(t, err)
			assert.True(t, apperrors.IsValidation(err))
			assert.Equal(t, tt.field, apperrors.GetField(err))
			assert.Equal(t, tt.message, apperrors.UserMessage(err, ""))

			sess, err := scope.Get(ctx)
			require.NoError(t, err)
			assert.True(t, sess.MustChangePassword)
		})
	}
}

func TestAccountService_ChangePassword_ClearsFlagOnce(t *testing.T) {
	svc, api := newAccountService(t)
	scope, _ := newScope(t)
	ctx := context.Background()
	require.NoError(t, scope.Set(ctx, "tok", &alice, true))

	in := model.PasswordChange{Current: "old-pass", New: "new-pass", Confirm: "new-pass"}
	api.EXPECT().ChangePassword(gomock.Any(), gomock.Any(), in).Return(nil).Times(1)

	require.NoError(t, svc.ChangePassword(ctx, scope, in))

	sess, err := scope.Get(ctx)
	require.NoError(t, err)
	assert.False(t, sess.MustChangePassword)
	assert.Equal(t, "tok", sess.Token)
	assert.NotNil(t, sess.Identity)
}

func TestAccountService_ChangePassword_ServerErrors(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		message string
	}{
		{name: "detail verbatim", err: apperrors.Server(http.StatusBadRequest, "Current password is incorrect"), message: "Current password is incorrect"},
		{name: "no detail", err: apperrors.Server(http.StatusInternalServerError, ""), message: "Failed to change password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, api := newAccountService(t)
			scope, _ := newScope(t)
			ctx := context.Background()
			require.NoError(t, scope.Set(ctx, "tok", &alice, true))

			api.EXPECT().ChangePassword(gomock.Any(), gomock.Any(), gomock.Any()).Return(tt.err)

			err := svc.ChangePassword(ctx, scope, model.PasswordChange{Current: "x", New: "abcdef", Confirm: "abcdef"})

			require.Error(t, err)
			assert.True(t, apperrors.IsServer(err))
			assert.Equal(t, tt.message, apperrors.UserMessage(err, ""))

			sess, err := scope.Get(ctx)
			require.NoError(t, err)
			assert.True(t, sess.MustChangePassword, "flag stays set after a failed change")
		})
	}
}

func TestAccountService_ChangePassword_UnauthorizedEndsSession(t *testing.T) {
	svc, api := newAccountService(t)
	scope, kv := newScope(t)
	ctx := context.Background()
	require.NoError(t, scope.Set(ctx, "tok", &alice, true))

	api.EXPECT().ChangePassword(gomock.Any(), gomock.Any(), gomock.Any()).Return(apperrors.Unauthorized(""))

	err := svc.ChangePassword(ctx, scope, model.PasswordChange{Current: "x", New: "abcdef", Confirm: "abcdef"})

	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Equal(t, 0, kv.Len())
}

func TestAccountService_UpdateProfile(t *testing.T) {
	svc, api := newAccountService(t)
	scope, _ := newScope(t)
	ctx := context.Background()
	require.NoError(t, scope.Set(ctx, "tok", &alice, false))

	updated := domainauth.Identity{ID: 1, Username: "alice2", FullName: "Alice Smith", Role: domainauth.RoleAdmin}
	api.EXPECT().
		UpdateProfile(gomock.Any(), gomock.Any(), model.ProfileUpdate{Username: "alice2", FullName: "Alice Smith"}).
		Return(updated, nil)

	got, err := svc.UpdateProfile(ctx, scope, model.ProfileUpdate{Username: " alice2 ", FullName: "Alice Smith "})
	require.NoError(t, err)
	assert.Equal(t, updated, got)

	sess, err := scope.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, updated, *sess.Identity)
}

func TestAccountService_UpdateProfile_Failures(t *testing.T) {
	t.Run("required fields", func(t *testing.T) {
		svc, _ := newAccountService(t)
		scope, _ := newScope(t)

		_, err := svc.UpdateProfile(context.Background(), scope, model.ProfileUpdate{Username: "", FullName: "A"})

		assert.True(t, apperrors.IsValidation(err))
		assert.Equal(t, "username", apperrors.GetField(err))
	})

	t.Run("server error keeps identity", func(t *testing.T) {
		svc, api := newAccountService(t)
		scope, _ := newScope(t)
		ctx := context.Background()
		require.NoError(t, scope.Set(ctx, "tok", &alice, false))

		api.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domainauth.Identity{}, apperrors.Conflict("Username already taken"))

		_, err := svc.UpdateProfile(ctx, scope, model.ProfileUpdate{Username: "bob", FullName: "Bob"})

		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "Username already taken", apperrors.UserMessage(err, ""))
		sess, err := scope.Get(ctx)
		require.NoError(t, err)
		assert.Equal(t, alice, *sess.Identity)
	})

	t.Run("fallback message", func(t *testing.T) {
		svc, api := newAccountService(t)
		scope, _ := newScope(t)
		ctx := context.Background()
		require.NoError(t, scope.Set(ctx, "tok", &alice, false))

		api.EXPECT().UpdateProfile(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(domainauth.Identity{}, apperrors.Server(http.StatusBadGateway, ""))

		_, err := svc.UpdateProfile(ctx, scope, model.ProfileUpdate{Username: "bob", FullName: "Bob"})

		assert.Equal(t, "Failed to update profile", apperrors.UserMessage(err, ""))
	})
}
