// Package charts turns match statistics into chart series for a dashboard front end
package charts

import (
	"fmt"

	"github.com/myusername/submission-stats/pkg/models"
	"github.com/myusername/submission-stats/pkg/stats"
)

// Theme holds the chart styling passed to the dashboard
type Theme struct {
	WinColor       string  `json:"win_color"`
	LossColor      string  `json:"loss_color"`
	TieColor       string  `json:"tie_color"`
	LineColor      string  `json:"line_color"`
	SmoothingColor string  `json:"smoothing_color"`
	Template       string  `json:"template"`
	Alpha          float64 `json:"alpha"` // 0 selects 2/(n+1)
}

// DefaultTheme returns the dashboard's standard styling
func DefaultTheme() Theme {
	return Theme{
		WinColor:       "#2ca02c",
		LossColor:      "#d62728",
		TieColor:       "#7f7f7f",
		LineColor:      "#1f77b4",
		SmoothingColor: "#ff7f0e",
		Template:       "plotly_white",
	}
}

// Series is one trace of a chart
type Series struct {
	Name   string    `json:"name"`
	Kind   string    `json:"kind"` // line, bar or scatter
	X      []int     `json:"x"`
	Y      []float64 `json:"y"`
	Colors []string  `json:"colors,omitempty"`
	Color  string    `json:"color,omitempty"`
	Hover  []string  `json:"hover,omitempty"`
}

// Chart is a titled group of series
type Chart struct {
	Title  string   `json:"title"`
	Series []Series `json:"series"`
}

// Dashboard is everything the front end needs to draw one submission's page
type Dashboard struct {
	TeamName      string  `json:"team_name"`
	CurrentScore  int     `json:"current_score"`
	WinRate       float64 `json:"win_rate"`
	Matches       int     `json:"matches"`
	Theme         Theme   `json:"theme"`
	ScoreGrowth   Chart   `json:"score_growth"`
	WinLossTie    Chart   `json:"win_loss_tie"`
	ScoreChanges  Chart   `json:"score_changes"`
	WinRateChange Chart   `json:"win_rate_change"`
}

// Build assembles the four dashboard charts
func Build(ts *models.TeamStatistics, theme Theme) (*Dashboard, error) {
	if ts == nil || ts.Len() == 0 {
		return nil, fmt.Errorf("no matches to chart")
	}

	smoothedScores, err := ts.SmoothedScores(theme.Alpha)
	if err != nil {
		return nil, fmt.Errorf("smoothing scores: %w", err)
	}
	smoothedDeltas, err := ts.SmoothedDeltas(theme.Alpha)
	if err != nil {
		return nil, fmt.Errorf("smoothing deltas: %w", err)
	}

	labels := ts.Labels()
	scores := ts.Scores()
	deltas := ts.ScoreDeltas()
	outcomes := ts.Outcomes()

	// The leading score has no match of its own
	scoreHover := append([]string{"Initial score"}, labels...)

	d := &Dashboard{
		TeamName:     ts.TeamName(),
		CurrentScore: ts.CurrentScore(),
		WinRate:      ts.WinRate(),
		Matches:      ts.Len(),
		Theme:        theme,
	}

	d.ScoreGrowth = Chart{
		Title: "Score growth",
		Series: []Series{
			{Name: "Score", Kind: "line", X: indexes(len(scores)), Y: stats.Ints(scores), Color: theme.LineColor, Hover: scoreHover},
			{Name: "Smoothed score", Kind: "line", X: indexes(len(scores)), Y: smoothedScores, Color: theme.SmoothingColor},
		},
	}

	outcomeValues := make([]float64, len(outcomes))
	outcomeColors := make([]string, len(outcomes))
	for i, o := range outcomes {
		outcomeValues[i] = float64(o)
		outcomeColors[i] = theme.outcomeColor(o)
	}
	d.WinLossTie = Chart{
		Title: "Win/Loss/Tie by match",
		Series: []Series{
			{Name: "Outcome", Kind: "scatter", X: matchNumbers(len(outcomes)), Y: outcomeValues, Colors: outcomeColors, Hover: labels},
		},
	}

	deltaColors := make([]string, len(deltas))
	for i, delta := range deltas {
		switch {
		case delta > 0:
			deltaColors[i] = theme.WinColor
		case delta < 0:
			deltaColors[i] = theme.LossColor
		default:
			deltaColors[i] = theme.TieColor
		}
	}
	d.ScoreChanges = Chart{
		Title: "Score changes",
		Series: []Series{
			{Name: "Delta", Kind: "bar", X: matchNumbers(len(deltas)), Y: stats.Ints(deltas), Colors: deltaColors, Hover: labels},
			{Name: "Smoothed delta", Kind: "line", X: matchNumbers(len(deltas)), Y: smoothedDeltas, Color: theme.SmoothingColor},
		},
	}

	d.WinRateChange = Chart{
		Title: "Win rate by match",
		Series: []Series{
			{Name: "Win rate", Kind: "line", X: matchNumbers(len(outcomes)), Y: ts.CumulativeWinRateSlice(), Color: theme.LineColor, Hover: labels},
		},
	}

	return d, nil
}

func (t Theme) outcomeColor(o models.Outcome) string {
	switch o {
	case models.Win:
		return t.WinColor
	case models.Loss:
		return t.LossColor
	default:
		return t.TieColor
	}
}

// indexes returns 0..n-1
func indexes(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}

// matchNumbers returns 1..n
func matchNumbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}
