package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleStats(t *testing.T) *TeamStatistics {
	t.Helper()
	ts, err := NewTeamStatistics("TeamA", 1000, []MatchRecord{
		{Outcome: Win, Score: 1040, ScoreDelta: 40, Label: "m1"},
		{Outcome: Loss, Score: 1010, ScoreDelta: -30, Label: "m2"},
		{Outcome: Tie, Score: 1010, ScoreDelta: 0, Label: "m3"},
		{Outcome: Win, Score: 1060, ScoreDelta: 50, Label: "m4"},
	})
	require.NoError(t, err)
	return ts
}

func TestParseOutcome(t *testing.T) {
	assert.Equal(t, Win, ParseOutcome("Win"))
	assert.Equal(t, Loss, ParseOutcome("Loss"))
	assert.Equal(t, Tie, ParseOutcome("Tie"))
	assert.Equal(t, Tie, ParseOutcome("Draw"))
	assert.Equal(t, "Win", Win.String())
	assert.Equal(t, "Tie", Tie.String())
}

func TestTeamStatisticsShape(t *testing.T) {
	ts := sampleStats(t)
	assert.Equal(t, "TeamA", ts.TeamName())
	assert.Equal(t, 4, ts.Len())
	assert.Equal(t, []int{1000, 1040, 1010, 1010, 1060}, ts.Scores())
	assert.Equal(t, []int{40, -30, 0, 50}, ts.ScoreDeltas())
	assert.Equal(t, []Outcome{Win, Loss, Tie, Win}, ts.Outcomes())
	assert.Equal(t, []string{"m1", "m2", "m3", "m4"}, ts.Labels())

	matches := ts.Matches()
	require.Len(t, matches, 4)
	assert.Equal(t, MatchRecord{Outcome: Tie, Score: 1010, ScoreDelta: 0, Label: "m3"}, matches[2])
}

func TestTeamStatisticsAccessorsReturnCopies(t *testing.T) {
	ts := sampleStats(t)
	scores := ts.Scores()
	scores[0] = -1
	assert.Equal(t, 1000, ts.Scores()[0])
}

func TestCurrentScoreAndWinRate(t *testing.T) {
	ts := sampleStats(t)
	assert.Equal(t, 1060, ts.CurrentScore())
	assert.InDelta(t, 0.625, ts.WinRate(), 1e-12)
}

func TestWinRateBounds(t *testing.T) {
	allWins, err := NewTeamStatistics("A", 0, []MatchRecord{{Outcome: Win, Score: 5, ScoreDelta: 5}, {Outcome: Win, Score: 9, ScoreDelta: 4}})
	require.NoError(t, err)
	assert.Equal(t, 1.0, allWins.WinRate())

	allLosses, err := NewTeamStatistics("A", 9, []MatchRecord{{Outcome: Loss, Score: 5, ScoreDelta: -4}})
	require.NoError(t, err)
	assert.Equal(t, 0.0, allLosses.WinRate())
}

func TestCumulativeWinRate(t *testing.T) {
	got := sampleStats(t).CumulativeWinRateSlice()
	want := []float64{1.0, 0.5, 0.5, 0.625}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestSmoothedSeries(t *testing.T) {
	ts := sampleStats(t)

	scores, err := ts.SmoothedScores(0)
	require.NoError(t, err)
	assert.Len(t, scores, 5)
	assert.Equal(t, 1000.0, scores[0])

	deltas, err := ts.SmoothedDeltas(1)
	require.NoError(t, err)
	assert.Equal(t, []float64{40, -30, 0, 50}, deltas)

	_, err = ts.SmoothedDeltas(2)
	assert.Error(t, err)
}

func TestNewTeamStatisticsRejectsInconsistentScores(t *testing.T) {
	_, err := NewTeamStatistics("TeamA", 1180, []MatchRecord{
		{Outcome: Loss, Score: 1150, ScoreDelta: -30},
		{Outcome: Win, Score: 1300, ScoreDelta: 50},
	})
	assert.ErrorIs(t, err, ErrInconsistentScores)

	_, err = NewTeamStatistics("TeamA", 1000, []MatchRecord{{Outcome: Win, Score: 1000, ScoreDelta: 5}})
	assert.ErrorIs(t, err, ErrInconsistentScores)
}
