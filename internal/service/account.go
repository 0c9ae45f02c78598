package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/ports"
	"github.com/esm-labs/paddock/internal/session"
	"github.com/esm-labs/paddock/internal/validation"
)

const (
	msgPasswordMismatch       = "Passwords do not match"
	msgChangePasswordFallback = "Failed to change password"
	msgUpdateProfileFallback  = "Failed to update profile"
)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	API    ports.AuthAPI // Required
	Auth   *AuthService  // Required: ends the session on 401
	Logger *slog.Logger  // Optional
}

// AccountService runs the self-service password change and profile flows.
type AccountService struct {
	api    ports.AuthAPI
	auth   *AuthService
	logger *slog.Logger
}

// NewAccountService constructs a new AccountService.
func NewAccountService(opts AccountServiceOptions) *AccountService {
	if opts.API == nil {
		panic("AuthAPI is required")
	}
	if opts.Auth == nil {
		panic("AuthService is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AccountService{
		api:    opts.API,
		auth:   opts.Auth,
		logger: logger.With("component", "account_service"),
	}
}

// ChangePassword validates locally, then asks the backend to change the password.
// Local failures never reach the network. Success clears the forced change flag.
func (s *AccountService) ChangePassword(ctx context.Context, scope *session.Scope, in model.PasswordChange) error {
	if in.New != in.Confirm {
		return apperrors.ValidationField("confirm_password", msgPasswordMismatch)
	}
	if err := validation.Struct(in); err != nil {
		return err
	}

	if err := s.api.ChangePassword(ctx, scope, in); err != nil {
		if err = s.auth.Expire(ctx, scope, err); apperrors.IsUnauthorized(err) {
			return err
		}
		return apperrors.WithFallback(err, msgChangePasswordFallback)
	}

	if err := scope.ClearMustChangePassword(ctx); err != nil {
		return fmt.Errorf("clear must_change_password: %w", err)
	}
	s.logger.InfoContext(ctx, "password changed")
	return nil
}

// UpdateProfile saves username and full name and replaces the stored identity
// with the record the backend returns.
func (s *AccountService) UpdateProfile(ctx context.Context, scope *session.Scope, in model.ProfileUpdate) (domainauth.Identity, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.FullName = strings.TrimSpace(in.FullName)
	if err := validation.Struct(in); err != nil {
		return domainauth.Identity{}, err
	}

	identity, err := s.api.UpdateProfile(ctx, scope, in)
	if err != nil {
		if err = s.auth.Expire(ctx, scope, err); apperrors.IsUnauthorized(err) {
			return domainauth.Identity{}, err
		}
		return domainauth.Identity{}, apperrors.WithFallback(err, msgUpdateProfileFallback)
	}

	if err := scope.SetIdentity(ctx, identity); err != nil {
		return domainauth.Identity{}, fmt.Errorf("store identity: %w", err)
	}
	return identity, nil
}
