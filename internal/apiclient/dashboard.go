package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/esm-labs/paddock/internal/domain/model"
	"github.com/esm-labs/paddock/internal/ports"
)

func (c *Client) ChampionshipProgression(ctx context.Context, ts ports.TokenSource, season int) ([]model.ProgressionRow, error) {
	q := url.Values{}
	if season > 0 {
		q.Set("season", strconv.Itoa(season))
	}
	var rows []model.ProgressionRow
	err := c.getJSON(ctx, ts, "/dashboard/championship_progression", q, &rows)
	return rows, err
}

func (c *Client) ConstructorWinsByEra(ctx context.Context, ts ports.TokenSource) ([]model.ConstructorWins, error) {
	var rows []model.ConstructorWins
	err := c.getJSON(ctx, ts, "/dashboard/constructor_wins_by_era", nil, &rows)
	return rows, err
}

// TopDriversByWins returns the first limit rows of the all-time wins table.
func (c *Client) TopDriversByWins(ctx context.Context, ts ports.TokenSource, limit int) ([]model.TopDriver, error) {
	if limit <= 0 {
		limit = 10
	}
	q := url.Values{}
	q.Set("range", fmt.Sprintf("[0, %d]", limit-1))
	var rows []model.TopDriver
	err := c.getJSON(ctx, ts, "/dashboard/top_drivers_by_wins", q, &rows)
	return rows, err
}

func (c *Client) getJSON(ctx context.Context, ts ports.TokenSource, path string, q url.Values, out any) error {
	resp, err := c.Do(ctx, ts, Request{Method: http.MethodGet, Path: path, Query: q})
	if err != nil {
		return err
	}
	return resp.Decode(out)
}
