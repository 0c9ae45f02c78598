package ports

import (
	"context"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
)

// TokenSource resolves the bearer token for an outgoing request at call time.
// An empty token means the request is sent without an Authorization header.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// AuthAPI is the credential and account surface of the backend.
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (model.LoginResult, error)
	Me(ctx context.Context, ts TokenSource) (domainauth.Identity, error)
	ChangePassword(ctx context.Context, ts TokenSource, in model.PasswordChange) error
	UpdateProfile(ctx context.Context, ts TokenSource, in model.ProfileUpdate) (domainauth.Identity, error)
}

// DashboardAPI fetches the rows behind the dashboard charts.
type DashboardAPI interface {
	// ChampionshipProgression returns rows for season, or for the latest season when season is 0.
	ChampionshipProgression(ctx context.Context, ts TokenSource, season int) ([]model.ProgressionRow, error)
	ConstructorWinsByEra(ctx context.Context, ts TokenSource) ([]model.ConstructorWins, error)
	TopDriversByWins(ctx context.Context, ts TokenSource, limit int) ([]model.TopDriver, error)
}

// Backend is the full typed surface of the REST API used by the services.
type Backend interface {
	AuthAPI
	DashboardAPI
}

// ResourceProvider performs generic CRUD against a registered REST resource.
// out arguments are pointers the decoded JSON body is written into.
type ResourceProvider interface {
	List(ctx context.Context, ts TokenSource, resource string, q model.ListQuery, out any) (total int, err error)
	Get(ctx context.Context, ts TokenSource, resource, id string, out any) error
	Create(ctx context.Context, ts TokenSource, resource string, in, out any) error
	Update(ctx context.Context, ts TokenSource, resource, id string, in, out any) error
	Delete(ctx context.Context, ts TokenSource, resource, id string) error
}
