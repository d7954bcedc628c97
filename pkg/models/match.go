// Package models contains data structures for submission match statistics
package models

import (
	"errors"
	"fmt"
	"iter"
	"slices"

	"github.com/myusername/submission-stats/pkg/stats"
)

// Outcome is the result of one match from the subject team's perspective
type Outcome float64

const (
	Loss Outcome = 0
	Tie  Outcome = 0.5
	Win  Outcome = 1
)

// ParseOutcome maps an outcome label such as "Win" to its numeric value.
// Anything other than Win or Loss counts as a tie.
func ParseOutcome(label string) Outcome {
	switch label {
	case "Win":
		return Win
	case "Loss":
		return Loss
	default:
		return Tie
	}
}

// String returns the outcome label
func (o Outcome) String() string {
	switch o {
	case Win:
		return "Win"
	case Loss:
		return "Loss"
	default:
		return "Tie"
	}
}

// ErrInconsistentScores is returned when a match's score is not the previous
// score plus its delta
var ErrInconsistentScores = errors.New("scores do not follow score deltas")

// MatchRecord holds a single match as seen by the subject team
type MatchRecord struct {
	Outcome    Outcome
	Score      int // score after the match
	ScoreDelta int
	Label      string
}

// TeamStatistics holds the chronological match history of one submission.
//
// Scores has one more entry than the other sequences: Scores[0] is the score
// before the earliest match and Scores[i] = Scores[i-1] + ScoreDeltas[i-1].
// Values are built once by the parser and never modified.
type TeamStatistics struct {
	teamName    string
	scores      []int
	outcomes    []Outcome
	scoreDeltas []int
	labels      []string
}

// NewTeamStatistics builds TeamStatistics from records ordered oldest first
// and the score held before the first of them. Every record's Score must equal
// the previous score plus its ScoreDelta.
func NewTeamStatistics(teamName string, initialScore int, records []MatchRecord) (*TeamStatistics, error) {
	ts := &TeamStatistics{
		teamName:    teamName,
		scores:      make([]int, 0, len(records)+1),
		outcomes:    make([]Outcome, 0, len(records)),
		scoreDeltas: make([]int, 0, len(records)),
		labels:      make([]string, 0, len(records)),
	}
	ts.scores = append(ts.scores, initialScore)
	for i, r := range records {
		prev := ts.scores[len(ts.scores)-1]
		if r.Score != prev+r.ScoreDelta {
			return nil, fmt.Errorf("%w: match %d has score %d, expected %d%+d", ErrInconsistentScores, i+1, r.Score, prev, r.ScoreDelta)
		}
		ts.scores = append(ts.scores, r.Score)
		ts.outcomes = append(ts.outcomes, r.Outcome)
		ts.scoreDeltas = append(ts.scoreDeltas, r.ScoreDelta)
		ts.labels = append(ts.labels, r.Label)
	}
	return ts, nil
}

// TeamName returns the subject team's name
func (ts *TeamStatistics) TeamName() string { return ts.teamName }

// Scores returns a copy of the score series, oldest first
func (ts *TeamStatistics) Scores() []int { return slices.Clone(ts.scores) }

// Outcomes returns a copy of the outcome series, oldest first
func (ts *TeamStatistics) Outcomes() []Outcome { return slices.Clone(ts.outcomes) }

// ScoreDeltas returns a copy of the score delta series, oldest first
func (ts *TeamStatistics) ScoreDeltas() []int { return slices.Clone(ts.scoreDeltas) }

// Labels returns a copy of the match labels, oldest first
func (ts *TeamStatistics) Labels() []string { return slices.Clone(ts.labels) }

// Len returns the number of matches
func (ts *TeamStatistics) Len() int { return len(ts.outcomes) }

// Matches returns the match records, oldest first
func (ts *TeamStatistics) Matches() []MatchRecord {
	records := make([]MatchRecord, len(ts.outcomes))
	for i := range ts.outcomes {
		records[i] = MatchRecord{
			Outcome:    ts.outcomes[i],
			Score:      ts.scores[i+1],
			ScoreDelta: ts.scoreDeltas[i],
			Label:      ts.labels[i],
		}
	}
	return records
}

// CurrentScore returns the most recent score
func (ts *TeamStatistics) CurrentScore() int {
	return ts.scores[len(ts.scores)-1]
}

// WinRate returns the mean outcome, a tie counting as half a win
func (ts *TeamStatistics) WinRate() float64 {
	return stats.Mean(ts.outcomeValues())
}

// CumulativeWinRate yields the win rate after each match
func (ts *TeamStatistics) CumulativeWinRate() iter.Seq[float64] {
	return stats.CumulativeMean(ts.outcomeValues())
}

// CumulativeWinRateSlice collects CumulativeWinRate
func (ts *TeamStatistics) CumulativeWinRateSlice() []float64 {
	return slices.Collect(ts.CumulativeWinRate())
}

// SmoothedScores returns the EWMA of the score series. An alpha of 0 selects
// the default 2/(n+1).
func (ts *TeamStatistics) SmoothedScores(alpha float64) ([]float64, error) {
	return smooth(stats.Ints(ts.scores), alpha)
}

// SmoothedDeltas returns the EWMA of the score delta series. An alpha of 0
// selects the default 2/(n+1).
func (ts *TeamStatistics) SmoothedDeltas(alpha float64) ([]float64, error) {
	return smooth(stats.Ints(ts.scoreDeltas), alpha)
}

func smooth(values []float64, alpha float64) ([]float64, error) {
	if alpha == 0 {
		return stats.EWMADefault(values), nil
	}
	return stats.EWMA(values, alpha)
}

func (ts *TeamStatistics) outcomeValues() []float64 {
	values := make([]float64, len(ts.outcomes))
	for i, o := range ts.outcomes {
		values[i] = float64(o)
	}
	return values
}
