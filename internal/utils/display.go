// Package utils provides terminal and file output for submission statistics
package utils

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/myusername/submission-stats/pkg/models"
	"github.com/myusername/submission-stats/pkg/parser"
)

// DisplayTeamStatistics prints the summary and the per-match history of a submission
func DisplayTeamStatistics(w io.Writer, ts *models.TeamStatistics) {
	fmt.Fprintf(w, "\n=========== SUBMISSION STATISTICS: %s ===========\n", ts.TeamName())
	fmt.Fprintf(w, "Current score: %d\n", ts.CurrentScore())
	fmt.Fprintf(w, "Current win rate: %.3f\n", ts.WinRate())
	fmt.Fprintf(w, "Matches: %d\n\n", ts.Len())

	fmt.Fprintf(w, "%-5s | %-7s | %-6s | %-6s | %-8s | %s\n",
		"Match", "Outcome", "Score", "Delta", "WinRate", "Label")
	fmt.Fprintf(w, "%-5s | %-7s | %-6s | %-6s | %-8s | %s\n",
		strings.Repeat("-", 5), strings.Repeat("-", 7), strings.Repeat("-", 6),
		strings.Repeat("-", 6), strings.Repeat("-", 8), strings.Repeat("-", 30))

	winRates := ts.CumulativeWinRateSlice()
	for i, m := range ts.Matches() {
		fmt.Fprintf(w, "%5d | %-7s | %6d | %+6d | %8.3f | %s\n",
			i+1, m.Outcome, m.Score, m.ScoreDelta, winRates[i],
			strings.ReplaceAll(m.Label, parser.LabelBreak, parser.Separator))
	}

	fmt.Fprintln(w, strings.Repeat("=", 78))
}

// SaveMatchesToCSV saves the match history of a submission to a CSV file
func SaveMatchesToCSV(ts *models.TeamStatistics, filename string) error {
	f, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"Match", "Team", "Outcome", "Score", "Delta", "CumulativeWinRate", "Label"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	winRates := ts.CumulativeWinRateSlice()
	for i, m := range ts.Matches() {
		row := []string{
			strconv.Itoa(i + 1),
			ts.TeamName(),
			m.Outcome.String(),
			strconv.Itoa(m.Score),
			strconv.Itoa(m.ScoreDelta),
			strconv.FormatFloat(winRates[i], 'f', 4, 64),
			strings.ReplaceAll(m.Label, parser.LabelBreak, parser.Separator),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write match data: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush CSV: %w", err)
	}
	return nil
}
