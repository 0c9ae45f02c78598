// Package auth provides hand-written test doubles for the backend auth port.
package auth

import (
	"context"
	"sync"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/ports"
)

// StaticToken is a TokenSource that always yields the same token.
type StaticToken string

// Token implements ports.TokenSource.
func (s StaticToken) Token(context.Context) (string, error) { return string(s), nil }

// FakeBackend is an in-memory backend keyed by username. It records the
// tokens it sees so tests can assert on Authorization behaviour.
type FakeBackend struct {
	mu sync.Mutex

	// Passwords maps username to password.
	Passwords map[string]string
	// Users maps username to the identity returned by Me.
	Users map[string]domainauth.Identity
	// MustChange lists users whose login reports a forced password change.
	MustChange map[string]bool
	// MeErr, when set, is returned by Me.
	MeErr error

	Progression  []model.ProgressionRow
	Constructors []model.ConstructorWins
	TopDrivers   []model.TopDriver

	tokens     map[string]string
	calls      []string
	seenTokens []string
}

var _ ports.Backend = (*FakeBackend)(nil)

// NewFakeBackend creates a FakeBackend with one user.
func NewFakeBackend(identity domainauth.Identity, password string) *FakeBackend {
	return &FakeBackend{
		Passwords:  map[string]string{identity.Username: password},
		Users:      map[string]domainauth.Identity{identity.Username: identity},
		MustChange: map[string]bool{},
		tokens:     map[string]string{},
	}
}

// Calls returns the names of the backend operations invoked so far.
func (f *FakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// SeenTokens returns the bearer tokens presented to authorized operations.
func (f *FakeBackend) SeenTokens() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.seenTokens...)
}

// Revoke invalidates every issued token.
func (f *FakeBackend) Revoke() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tokens = map[string]string{}
}

func (f *FakeBackend) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
}

// user resolves the bearer token to a username.
func (f *FakeBackend) user(ctx context.Context, ts ports.TokenSource) (string, error) {
	tok, err := ts.Token(ctx)
	if err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seenTokens = append(f.seenTokens, tok)
	name, ok := f.tokens[tok]
	if !ok {
		return "", apperrors.Unauthorized("")
	}
	return name, nil
}

// Login implements ports.AuthAPI.
func (f *FakeBackend) Login(_ context.Context, creds model.Credentials) (model.LoginResult, error) {
	f.record("Login")
	f.mu.Lock()
	defer f.mu.Unlock()
	if pw, ok := f.Passwords[creds.Username]; !ok || pw != creds.Password {
		return model.LoginResult{}, apperrors.Unauthorized("")
	}
	tok := "token-" + creds.Username
	f.tokens[tok] = creds.Username
	return model.LoginResult{AccessToken: tok, TokenType: "bearer", MustChangePassword: f.MustChange[creds.Username]}, nil
}

// Me implements ports.AuthAPI.
func (f *FakeBackend) Me(ctx context.Context, ts ports.TokenSource) (domainauth.Identity, error) {
	f.record("Me")
	name, err := f.user(ctx, ts)
	if err != nil {
		return domainauth.Identity{}, err
	}
	if f.MeErr != nil {
		return domainauth.Identity{}, f.MeErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Users[name], nil
}

// ChangePassword implements ports.AuthAPI.
func (f *FakeBackend) ChangePassword(ctx context.Context, ts ports.TokenSource, in model.PasswordChange) error {
	f.record("ChangePassword")
	name, err := f.user(ctx, ts)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Passwords[name] != in.Current {
		return apperrors.Server(400, "Current password is incorrect")
	}
	f.Passwords[name] = in.New
	f.MustChange[name] = false
	return nil
}

// UpdateProfile implements ports.AuthAPI.
func (f *FakeBackend) UpdateProfile(ctx context.Context, ts ports.TokenSource, in model.ProfileUpdate) (domainauth.Identity, error) {
	f.record("UpdateProfile")
	name, err := f.user(ctx, ts)
	if err != nil {
		return domainauth.Identity{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	id := f.Users[name]
	id.Username = in.Username
	id.FullName = in.FullName
	f.Users[name] = id
	return id, nil
}

// ChampionshipProgression implements ports.DashboardAPI.
func (f *FakeBackend) ChampionshipProgression(ctx context.Context, ts ports.TokenSource, _ int) ([]model.ProgressionRow, error) {
	f.record("ChampionshipProgression")
	if _, err := f.user(ctx, ts); err != nil {
		return nil, err
	}
	return f.Progression, nil
}

// ConstructorWinsByEra implements ports.DashboardAPI.
func (f *FakeBackend) ConstructorWinsByEra(ctx context.Context, ts ports.TokenSource) ([]model.ConstructorWins, error) {
	f.record("ConstructorWinsByEra")
	if _, err := f.user(ctx, ts); err != nil {
		return nil, err
	}
	return f.Constructors, nil
}

// TopDriversByWins implements ports.DashboardAPI.
func (f *FakeBackend) TopDriversByWins(ctx context.Context, ts ports.TokenSource, limit int) ([]model.TopDriver, error) {
	f.record("TopDriversByWins")
	if _, err := f.user(ctx, ts); err != nil {
		return nil, err
	}
	if limit < len(f.TopDrivers) {
		return f.TopDrivers[:limit], nil
	}
	return f.TopDrivers, nil
}
