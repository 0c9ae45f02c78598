package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/observability/metrics"
	"github.com/esm-labs/paddock/internal/ports"
	"github.com/esm-labs/paddock/internal/session"
	"github.com/esm-labs/paddock/internal/validation"
)

const (
	msgInvalidCredentials = "Invalid username or password"
	msgLoginUnavailable   = "Unable to sign in right now"
	msgSessionExpired     = "Your session has expired, please sign in again"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	API    ports.AuthAPI // Required
	Logger *slog.Logger  // Optional
}

// AuthService establishes, inspects and destroys browser sessions.
type AuthService struct {
	api    ports.AuthAPI
	logger *slog.Logger
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	if opts.API == nil {
		panic("AuthAPI is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		api:    opts.API,
		logger: logger.With("component", "auth_service"),
	}
}

// Login exchanges credentials for a token and stores it in scope.
//
// A rejected exchange leaves the session untouched. Once the token is stored the
// identity is fetched with it; if that fetch fails the login still succeeds with
// the token stored and no identity. The forced password change flag is stored
// whenever the exchange reports it.
func (s *AuthService) Login(ctx context.Context, scope *session.Scope, creds model.Credentials) error {
	creds.Username = strings.TrimSpace(creds.Username)
	if err := validation.Struct(creds); err != nil {
		metrics.LoginAttempts.WithLabelValues(metrics.ResultInvalid).Inc()
		return err
	}

	res, err := s.api.Login(ctx, creds)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			metrics.LoginAttempts.WithLabelValues(metrics.ResultInvalid).Inc()
			return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, msgInvalidCredentials)
		}
		metrics.LoginAttempts.WithLabelValues(metrics.ResultError).Inc()
		s.logger.WarnContext(ctx, "login exchange failed", "error", err)
		return apperrors.Wrap(err, apperrors.ErrCodeUnauthorized, msgLoginUnavailable)
	}

	// Drop leftovers from a previous login in the same browser.
	if err := scope.ClearAll(ctx); err != nil {
		return fmt.Errorf("reset session: %w", err)
	}
	if err := scope.SetToken(ctx, res.AccessToken); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	// Stored ahead of the identity fetch and kept if it fails, so the password
	// change guard applies even to a session without an identity.
	if res.MustChangePassword {
		if err := scope.SetMustChangePassword(ctx); err != nil {
			return fmt.Errorf("store must_change_password: %w", err)
		}
	}

	identity, err := s.api.Me(ctx, scope)
	if err != nil {
		s.logger.WarnContext(ctx, "identity fetch after login failed; continuing without identity", "error", err)
		metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
		return nil
	}
	if err := scope.SetIdentity(ctx, identity); err != nil {
		return fmt.Errorf("store identity: %w", err)
	}

	metrics.LoginAttempts.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.InfoContext(ctx, "user signed in",
		"user_id", identity.ID,
		"role", identity.Role,
		"must_change_password", res.MustChangePassword)
	return nil
}

// Logout clears the whole session. It never fails; storage errors are logged.
func (s *AuthService) Logout(ctx context.Context, scope *session.Scope) {
	if err := scope.ClearAll(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear session on logout", "error", err)
		return
	}
	metrics.SessionClears.WithLabelValues(metrics.ClearLogout).Inc()
}

// CheckError reacts to a backend status. A 401 clears the session and yields
// an unauthorized error; any other status is ignored.
func (s *AuthService) CheckError(ctx context.Context, scope *session.Scope, status int) error {
	if status != http.StatusUnauthorized {
		return nil
	}
	if err := scope.ClearAll(ctx); err != nil {
		s.logger.ErrorContext(ctx, "failed to clear session after 401", "error", err)
	} else {
		metrics.SessionClears.WithLabelValues(metrics.ClearUnauthorized).Inc()
	}
	return apperrors.Unauthorized(msgSessionExpired)
}

// CheckAuth succeeds iff scope holds a token.
func (s *AuthService) CheckAuth(ctx context.Context, scope *session.Scope) error {
	tok, err := scope.Token(ctx)
	if err != nil {
		return fmt.Errorf("check auth: %w", err)
	}
	if tok == "" {
		return apperrors.Unauthorized("Not signed in")
	}
	return nil
}

// GetPermissions returns the stored role, or "" when there is none.
func (s *AuthService) GetPermissions(ctx context.Context, scope *session.Scope) (domainauth.Role, error) {
	sess, err := scope.Get(ctx)
	if err != nil {
		return "", fmt.Errorf("get permissions: %w", err)
	}
	return sess.Role(), nil
}

// GetIdentity returns the stored identity verbatim, or nil when there is none.
func (s *AuthService) GetIdentity(ctx context.Context, scope *session.Scope) (*domainauth.Identity, error) {
	sess, err := scope.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("get identity: %w", err)
	}
	return sess.Identity, nil
}

// Session returns the full stored session.
func (s *AuthService) Session(ctx context.Context, scope *session.Scope) (domainauth.Session, error) {
	sess, err := scope.Get(ctx)
	if err != nil {
		return domainauth.Session{}, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// Expire ends the session when err reports an authorization failure and returns err unchanged.
func (s *AuthService) Expire(ctx context.Context, scope *session.Scope, err error) error {
	if apperrors.IsUnauthorized(err) {
		if cerr := s.CheckError(ctx, scope, http.StatusUnauthorized); cerr != nil {
			return cerr
		}
	}
	return err
}
