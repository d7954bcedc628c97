// Package parser turns the text of a submission's episodes page into match statistics
package parser

import (
	"errors"
	"fmt"
	"log"
	"slices"
	"strconv"
	"strings"

	"github.com/myusername/submission-stats/pkg/models"
)

// ErrNoMatchesFound is returned when the page text holds no usable match rows,
// which in practice means the submission ID was wrong
var ErrNoMatchesFound = errors.New("no matches found")

const (
	// Separator joins the two sides of a match row
	Separator = " vs "
	// LabelBreak replaces Separator in match labels
	LabelBreak = "<br>"

	outcomeMarker = "["
	timeAgoMarker = "ago"
)

// Delta tokens that mark a row where no rated game took place
var skippedDeltas = map[string]bool{
	"Validation": true,
	"NaN":        true,
	"nan":        true,
}

// ExtractStats parses match rows such as
//
//	[Win] TeamA 1200 (+50) vs [Loss] TeamB 900 (-50)
//
// into the statistics of the team that appears in most of them.
// Fragments are expected most recent first, as the episodes list shows them.
func ExtractStats(fragments []string) (*models.TeamStatistics, error) {
	rows := filterMatchRows(fragments)
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no match rows among %d fragments", ErrNoMatchesFound, len(fragments))
	}
	log.Printf("Found %d match rows among %d fragments", len(rows), len(fragments))

	var names []string
	for _, row := range rows {
		for _, side := range strings.Split(row, Separator) {
			if name := sideTeamName(side); name != "" {
				names = append(names, name)
			}
		}
	}
	teamName, ok := mostFrequent(names)
	if !ok {
		return nil, fmt.Errorf("%w: no team names in match rows", ErrNoMatchesFound)
	}
	log.Printf("Identified team: %s", teamName)

	var records []models.MatchRecord
	for _, row := range rows {
		record, ok, err := parseRow(row, teamName)
		if err != nil {
			return nil, err
		}
		if ok {
			records = append(records, record)
		}
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("%w: no rated matches for %s", ErrNoMatchesFound, teamName)
	}

	slices.Reverse(records)
	initialScore := records[0].Score - records[0].ScoreDelta

	ts, err := models.NewTeamStatistics(teamName, initialScore, records)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoMatchesFound, err)
	}

	log.Printf("Extracted %d matches for %s", len(records), teamName)
	return ts, nil
}

// filterMatchRows keeps fragments that look like match rows and are not "... ago" captions
func filterMatchRows(fragments []string) []string {
	var rows []string
	for _, text := range fragments {
		if !strings.Contains(text, Separator) || !strings.Contains(text, outcomeMarker) {
			continue
		}
		if hasTimeAgo(text) {
			continue
		}
		rows = append(rows, text)
	}
	return rows
}

// hasTimeAgo reports whether "ago" appears as a word, ignoring surrounding punctuation
func hasTimeAgo(text string) bool {
	for _, tok := range strings.Fields(text) {
		if strings.Trim(tok, "()[].,;:·") == timeAgoMarker {
			return true
		}
	}
	return false
}

// sideTeamName drops the outcome token and the trailing score and delta tokens
func sideTeamName(side string) string {
	fields := strings.Fields(side)
	if len(fields) < 3 {
		return ""
	}
	return strings.Join(fields[1:len(fields)-2], " ")
}

// mostFrequent returns the most common name; ties go to the name seen first
func mostFrequent(names []string) (string, bool) {
	counts := make(map[string]int, len(names))
	var order []string
	for _, name := range names {
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	best, bestCount := "", 0
	for _, name := range order {
		if counts[name] > bestCount {
			best, bestCount = name, counts[name]
		}
	}
	return best, bestCount > 0
}

// parseRow extracts the subject team's side of a match row.
// ok is false when the row holds no rated game for the team.
func parseRow(row, teamName string) (record models.MatchRecord, ok bool, err error) {
	var side string
	matched := 0
	for _, s := range strings.Split(row, Separator) {
		if strings.Contains(s, teamName) {
			if matched == 0 {
				side = s
			}
			matched++
		}
	}
	switch {
	case matched == 0:
		log.Printf("Skipping row without %s: %q", teamName, row)
		return record, false, nil
	case matched > 1:
		log.Printf("Ambiguous row, %s appears on both sides, using the first: %q", teamName, row)
	}

	fields := strings.Fields(side)
	if len(fields) < 3 {
		return record, false, fmt.Errorf("%w: malformed row %q", ErrNoMatchesFound, row)
	}

	deltaText := strings.Trim(fields[len(fields)-1], "()+")
	if skippedDeltas[deltaText] {
		return record, false, nil
	}

	delta, err := strconv.Atoi(deltaText)
	if err != nil {
		return record, false, fmt.Errorf("%w: bad score delta in %q: %v", ErrNoMatchesFound, row, err)
	}
	score, err := strconv.Atoi(fields[len(fields)-2])
	if err != nil {
		return record, false, fmt.Errorf("%w: bad score in %q: %v", ErrNoMatchesFound, row, err)
	}

	return models.MatchRecord{
		Outcome:    models.ParseOutcome(strings.Trim(fields[0], "[]")),
		Score:      score,
		ScoreDelta: delta,
		Label:      strings.ReplaceAll(row, Separator, LabelBreak),
	}, true, nil
}
