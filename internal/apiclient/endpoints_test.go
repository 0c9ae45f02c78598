package apiclient

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/esm-labs/paddock/internal/domain/auth"
	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
)

func TestLogin(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/login", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"access_token":"tok","token_type":"bearer","must_change_password":true}`))
	}))

	res, err := c.Login(context.Background(), model.Credentials{Username: "alice", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.AccessToken)
	assert.True(t, res.MustChangePassword)
}

func TestLogin_MissingTokenIsUnauthorized(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"token_type":"bearer"}`))
	}))

	_, err := c.Login(context.Background(), model.Credentials{Username: "alice", Password: "pw"})
	assert.True(t, apperrors.IsUnauthorized(err))
}

func TestMe(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":4,"username":"alice","full_name":"Alice","avatar":"a.png","role":"admin","is_active":true,"must_change_password":false}`))
	}))

	id, err := c.Me(context.Background(), newMutableToken("tok"))
	require.NoError(t, err)
	assert.Equal(t, domainauth.Identity{ID: 4, Username: "alice", FullName: "Alice", Avatar: "a.png", Role: domainauth.RoleAdmin}, id)
}

func TestUpdateProfile(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/auth/me/profile", r.URL.Path)
		_, _ = w.Write([]byte(`{"id":4,"username":"al","full_name":"Al","avatar":"","role":"member"}`))
	}))

	id, err := c.UpdateProfile(context.Background(), newMutableToken("tok"), model.ProfileUpdate{Username: "al", FullName: "Al"})
	require.NoError(t, err)
	assert.Equal(t, "al", id.Username)
}

func TestDashboardEndpoints(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"), "dashboard calls are authorized")
		switch r.URL.Path {
		case "/dashboard/championship_progression":
			assert.Equal(t, "2021", r.URL.Query().Get("season"))
			_, _ = w.Write([]byte(`[{"season":2021,"round":1,"driver_name":"Max","points":25}]`))
		case "/dashboard/constructor_wins_by_era":
			_, _ = w.Write([]byte(`[{"season":1988,"constructor_name":"McLaren","wins":15}]`))
		case "/dashboard/top_drivers_by_wins":
			assert.Equal(t, "[0, 9]", r.URL.Query().Get("range"))
			_, _ = w.Write([]byte(`[{"id":1,"full_name":"Lewis Hamilton","nationality":"British","number_of_wins":103}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	ctx := context.Background()
	ts := newMutableToken("tok")

	prog, err := c.ChampionshipProgression(ctx, ts, 2021)
	require.NoError(t, err)
	assert.Equal(t, []model.ProgressionRow{{Season: 2021, Round: 1, DriverName: "Max", Points: 25}}, prog)

	wins, err := c.ConstructorWinsByEra(ctx, ts)
	require.NoError(t, err)
	assert.Equal(t, 15, wins[0].Wins)

	top, err := c.TopDriversByWins(ctx, ts, 10)
	require.NoError(t, err)
	assert.Equal(t, 103, top[0].NumberOfWins)
}

func TestChampionshipProgression_LatestSeasonOmitsParam(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.False(t, r.URL.Query().Has("season"))
		_, _ = w.Write([]byte(`[]`))
	}))

	rows, err := c.ChampionshipProgression(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, rows)
}
