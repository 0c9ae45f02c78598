package httpx

import (
	"bytes"
	"net/http"
	"strconv"
)

// seasonParam reads ?season=, treating anything unparsable as "latest" (0).
func seasonParam(r *http.Request) int {
	season, err := strconv.Atoi(r.URL.Query().Get("season"))
	if err != nil || season < 0 {
		return 0
	}
	return season
}

// DashboardPage renders the charts and the top drivers table.
// GET / and GET /dashboard.
func (h *UIHandlers) DashboardPage(w http.ResponseWriter, r *http.Request) {
	dash, err := h.Dashboard.Load(r.Context(), h.scope(r), seasonParam(r))
	if h.handleServiceError(w, r, err) {
		return
	}
	builder := NewTemplateData(r, PageMeta{Title: "Dashboard", PageTitle: "Dashboard", CurrentPage: PageDashboard})
	if err != nil {
		builder.WithError(processError(err, "Failed to load the dashboard", nil))
	} else {
		builder.With("Dashboard", dash)
	}
	h.renderDashboardPage(w, r, builder.Build())
}

// ChampionshipFragment re-renders only the progression chart for the season selector.
// GET /dashboard/championship?season=.
func (h *UIHandlers) ChampionshipFragment(w http.ResponseWriter, r *http.Request) {
	chart, err := h.Dashboard.Progression(r.Context(), h.scope(r), seasonParam(r))
	if h.handleServiceError(w, r, err) {
		return
	}
	if err != nil {
		http.Error(w, processError(err, "Failed to load the chart", nil), http.StatusBadGateway)
		return
	}

	var buf bytes.Buffer
	if err := h.T.execute(&buf, "championship-chart", chart); err != nil {
		h.logAndRenderTemplateError(w, r, err, "championship fragment")
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := buf.WriteTo(w); err != nil {
		h.logger().Error("failed to write championship fragment", "error", err)
	}
}
