package service

import (
	"context"
	"log/slog"
	"slices"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/esm-labs/paddock/internal/domain/model"
	apperrors "github.com/esm-labs/paddock/internal/errors"
	"github.com/esm-labs/paddock/internal/ports"
	"github.com/esm-labs/paddock/internal/session"
)

const (
	// FirstSeason is the oldest season offered by the season selector.
	FirstSeason = 1950
	// TopDriversLimit is the size of the top drivers table.
	TopDriversLimit = 10
	// progressionDrivers is how many drivers the progression chart keeps.
	progressionDrivers = 10

	titleProgression  = "Championship Points Progression"
	titleConstructors = "Constructor Wins by Season"
)

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	API    ports.DashboardAPI // Required
	Auth   *AuthService       // Required: ends the session on 401
	Logger *slog.Logger       // Optional
}

// DashboardService fetches dashboard rows and shapes them into chart traces.
type DashboardService struct {
	api    ports.DashboardAPI
	auth   *AuthService
	logger *slog.Logger
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	if opts.API == nil {
		panic("DashboardAPI is required")
	}
	if opts.Auth == nil {
		panic("AuthService is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &DashboardService{
		api:    opts.API,
		auth:   opts.Auth,
		logger: logger.With("component", "dashboard_service"),
	}
}

// Load fetches all three dashboard sections concurrently. A section whose fetch
// fails comes back empty with a notice; an authorization failure ends the
// session and fails the whole load.
func (s *DashboardService) Load(ctx context.Context, scope *session.Scope, season int) (model.Dashboard, error) {
	var dash model.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		chart, err := s.progression(gctx, scope, season)
		if err != nil {
			return err
		}
		dash.Progression = chart
		return nil
	})
	g.Go(func() error {
		rows, err := s.api.ConstructorWinsByEra(gctx, scope)
		if err != nil {
			if apperrors.IsUnauthorized(err) {
				return err
			}
			s.logger.WarnContext(ctx, "constructor wins fetch failed", "error", err)
			dash.Constructors = model.Chart{Title: titleConstructors, Notice: notice(err)}
			return nil
		}
		dash.Constructors = ShapeConstructorWins(rows)
		return nil
	})
	g.Go(func() error {
		rows, err := s.api.TopDriversByWins(gctx, scope, TopDriversLimit)
		if err != nil {
			if apperrors.IsUnauthorized(err) {
				return err
			}
			s.logger.WarnContext(ctx, "top drivers fetch failed", "error", err)
			dash.TopNotice = notice(err)
			return nil
		}
		dash.TopDrivers = rows
		return nil
	})

	if err := g.Wait(); err != nil {
		return model.Dashboard{}, s.auth.Expire(ctx, scope, err)
	}
	return dash, nil
}

// Progression fetches and shapes only the championship progression chart.
func (s *DashboardService) Progression(ctx context.Context, scope *session.Scope, season int) (model.ProgressionChart, error) {
	chart, err := s.progression(ctx, scope, season)
	if err != nil {
		return model.ProgressionChart{}, s.auth.Expire(ctx, scope, err)
	}
	return chart, nil
}

func (s *DashboardService) progression(ctx context.Context, scope *session.Scope, season int) (model.ProgressionChart, error) {
	rows, err := s.api.ChampionshipProgression(ctx, scope, season)
	if err != nil {
		if apperrors.IsUnauthorized(err) {
			return model.ProgressionChart{}, err
		}
		s.logger.WarnContext(ctx, "championship progression fetch failed", "season", season, "error", err)
		chart := model.ProgressionChart{Season: season, Seasons: SeasonRange(season)}
		chart.Title = titleProgression
		chart.Notice = notice(err)
		return chart, nil
	}
	return ShapeProgression(rows, season), nil
}

func notice(err error) string {
	return apperrors.UserMessage(err, "Data is unavailable right now")
}

// ShapeProgression keeps the ten drivers with the most points in the final
// round and returns one line trace per driver, in order of first appearance,
// with points ordered by round.
func ShapeProgression(rows []model.ProgressionRow, season int) model.ProgressionChart {
	current := season
	if current == 0 && len(rows) > 0 {
		current = rows[0].Season
	}
	chart := model.ProgressionChart{Season: current, Seasons: SeasonRange(current)}
	chart.Title = titleProgression
	if len(rows) == 0 {
		return chart
	}

	finalRound := rows[0].Round
	var order []string
	byDriver := make(map[string][]model.ProgressionRow)
	for _, r := range rows {
		if _, seen := byDriver[r.DriverName]; !seen {
			order = append(order, r.DriverName)
		}
		byDriver[r.DriverName] = append(byDriver[r.DriverName], r)
		finalRound = max(finalRound, r.Round)
	}

	var standings []model.ProgressionRow
	for _, r := range rows {
		if r.Round == finalRound {
			standings = append(standings, r)
		}
	}
	sort.SliceStable(standings, func(i, j int) bool { return standings[i].Points > standings[j].Points })
	top := make(map[string]bool, progressionDrivers)
	for _, r := range standings[:min(progressionDrivers, len(standings))] {
		top[r.DriverName] = true
	}

	for _, name := range order {
		if !top[name] {
			continue
		}
		points := byDriver[name]
		sort.SliceStable(points, func(i, j int) bool { return points[i].Round < points[j].Round })
		tr := model.Trace{Name: name, Type: "scatter", Mode: "lines+markers"}
		for _, p := range points {
			tr.X = append(tr.X, p.Round)
			tr.Y = append(tr.Y, p.Points)
		}
		chart.Traces = append(chart.Traces, tr)
	}
	return chart
}

// ShapeConstructorWins returns one bar trace per constructor over every season
// in ascending order, with zero wins where a constructor has no row.
func ShapeConstructorWins(rows []model.ConstructorWins) model.Chart {
	chart := model.Chart{Title: titleConstructors}
	if len(rows) == 0 {
		return chart
	}

	var seasons []int
	var names []string
	wins := make(map[string]map[int]int)
	for _, r := range rows {
		if !slices.Contains(seasons, r.Season) {
			seasons = append(seasons, r.Season)
		}
		if _, ok := wins[r.ConstructorName]; !ok {
			names = append(names, r.ConstructorName)
			wins[r.ConstructorName] = make(map[int]int)
		}
		wins[r.ConstructorName][r.Season] = r.Wins
	}
	slices.Sort(seasons)

	for _, name := range names {
		tr := model.Trace{Name: name, Type: "bar", X: seasons, Y: make([]float64, len(seasons))}
		for i, season := range seasons {
			tr.Y[i] = float64(wins[name][season])
		}
		chart.Traces = append(chart.Traces, tr)
	}
	return chart
}

// SeasonRange lists seasons from current down to FirstSeason.
func SeasonRange(current int) []int {
	if current < FirstSeason {
		return nil
	}
	seasons := make([]int, 0, current-FirstSeason+1)
	for y := current; y >= FirstSeason; y-- {
		seasons = append(seasons, y)
	}
	return seasons
}
