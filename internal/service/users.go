package service

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/ports"
	"github.com/esm-labs/paddock/internal/session"
	"github.com/esm-labs/paddock/internal/validation"
)

const resourceUsers = "users"

// UserServiceOptions groups dependencies for UserService.
type UserServiceOptions struct {
	Provider ports.ResourceProvider // Required
	Auth     *AuthService           // Required: ends the session on 401
	Logger   *slog.Logger           // Optional
}

// UserService manages backend user accounts through the users resource.
type UserService struct {
	provider ports.ResourceProvider
	auth     *AuthService
	logger   *slog.Logger
}

// NewUserService constructs a new UserService.
func NewUserService(opts UserServiceOptions) *UserService {
	if opts.Provider == nil {
		panic("ResourceProvider is required")
	}
	if opts.Auth == nil {
		panic("AuthService is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &UserService{
		provider: opts.Provider,
		auth:     opts.Auth,
		logger:   logger.With("component", "user_service"),
	}
}

// UsersPage is one page of the user list.
type UsersPage struct {
	Users   []model.User
	Total   int
	Options model.UsersListOptions
}

// HasPrev reports whether an earlier page exists.
func (p UsersPage) HasPrev() bool { return p.Options.Offset > 0 }

// HasNext reports whether a later page exists.
func (p UsersPage) HasNext() bool { return p.Options.Offset+len(p.Users) < p.Total }

// PrevOffset is the offset of the previous page.
func (p UsersPage) PrevOffset() int { return max(p.Options.Offset-p.Options.Limit, 0) }

// NextOffset is the offset of the next page.
func (p UsersPage) NextOffset() int { return p.Options.Offset + p.Options.Limit }

// List fetches one page of users.
func (s *UserService) List(ctx context.Context, scope *session.Scope, opts model.UsersListOptions) (UsersPage, error) {
	opts.Normalize()
	order := model.SortAsc
	if opts.Dir == "desc" {
		order = model.SortDesc
	}
	q := model.PageQuery(opts.Sort, order, opts.Limit, opts.Offset)

	var users []model.User
	total, err := s.provider.List(ctx, scope, resourceUsers, q, &users)
	if err != nil {
		return UsersPage{}, s.fail(ctx, scope, err, "Failed to load users")
	}
	return UsersPage{Users: users, Total: total, Options: opts}, nil
}

// Get fetches one user.
func (s *UserService) Get(ctx context.Context, scope *session.Scope, id int64) (model.User, error) {
	var u model.User
	if err := s.provider.Get(ctx, scope, resourceUsers, userID(id), &u); err != nil {
		return model.User{}, s.fail(ctx, scope, err, "Failed to load user")
	}
	return u, nil
}

// Create adds a user. The returned record carries the one-time initial password.
func (s *UserService) Create(ctx context.Context, scope *session.Scope, req model.CreateUserRequest) (model.CreatedUser, error) {
	req.Normalize()
	if err := validation.Struct(req); err != nil {
		return model.CreatedUser{}, err
	}
	var created model.CreatedUser
	if err := s.provider.Create(ctx, scope, resourceUsers, req, &created); err != nil {
		return model.CreatedUser{}, s.fail(ctx, scope, err, "Failed to create user")
	}
	s.logger.InfoContext(ctx, "user created", "user_id", created.ID, "role", created.Role)
	return created, nil
}

// Update changes username, full name or role of a user.
func (s *UserService) Update(ctx context.Context, scope *session.Scope, id int64, req model.UpdateUserRequest) (model.User, error) {
	trimPtr(req.Username)
	trimPtr(req.FullName)
	if !req.HasUpdates() {
		return model.User{}, apperrors.Validation("No changes to save")
	}
	if err := validation.Struct(req); err != nil {
		return model.User{}, err
	}
	var u model.User
	if err := s.provider.Update(ctx, scope, resourceUsers, userID(id), req, &u); err != nil {
		return model.User{}, s.fail(ctx, scope, err, "Failed to update user")
	}
	return u, nil
}

// Delete removes a user. The backend soft-deletes.
func (s *UserService) Delete(ctx context.Context, scope *session.Scope, id int64) error {
	if err := s.provider.Delete(ctx, scope, resourceUsers, userID(id)); err != nil {
		return s.fail(ctx, scope, err, "Failed to delete user")
	}
	s.logger.InfoContext(ctx, "user deleted", "user_id", id)
	return nil
}

func (s *UserService) fail(ctx context.Context, scope *session.Scope, err error, fallback string) error {
	if err = s.auth.Expire(ctx, scope, err); apperrors.IsUnauthorized(err) {
		return err
	}
	return apperrors.WithFallback(err, fallback)
}

func userID(id int64) string { return strconv.FormatInt(id, 10) }

func trimPtr(p *string) {
	if p != nil {
		*p = strings.TrimSpace(*p)
	}
}
