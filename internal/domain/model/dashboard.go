package model

// ProgressionRow is one driver's cumulative points after one round of a season.
type ProgressionRow struct {
	Season     int     `json:"season"`
	Round      int     `json:"round"`
	DriverName string  `json:"driver_name"`
	Points     float64 `json:"points"`
}

// ConstructorWins is the number of wins a constructor scored in one season.
type ConstructorWins struct {
	Season          int    `json:"season"`
	ConstructorName string `json:"constructor_name"`
	Wins            int    `json:"wins"`
}

// TopDriver is a row of the all-time wins table.
type TopDriver struct {
	ID           int64  `json:"id"`
	FullName     string `json:"full_name"`
	Nationality  string `json:"nationality"`
	NumberOfWins int    `json:"number_of_wins"`
}

// Trace is one series handed to the browser-side plotting library.
// Line traces use Type "scatter" with Mode "lines+markers"; bar traces use Type "bar".
type Trace struct {
	Name string    `json:"name"`
	X    []int     `json:"x"`
	Y    []float64 `json:"y"`
	Type string    `json:"type"`
	Mode string    `json:"mode,omitempty"`
}

// Chart is a shaped figure plus the notice shown when its data could not be loaded.
type Chart struct {
	Title  string  `json:"title"`
	Traces []Trace `json:"traces"`
	Notice string  `json:"notice,omitempty"`
}

// Empty reports whether the chart has nothing to draw.
func (c Chart) Empty() bool { return len(c.Traces) == 0 }

// ProgressionChart is the championship progression figure with its season selector.
type ProgressionChart struct {
	Chart
	Season  int
	Seasons []int
}

// Dashboard groups everything the dashboard page renders.
type Dashboard struct {
	Progression  ProgressionChart
	Constructors Chart
	TopDrivers   []TopDriver
	TopNotice    string
}
