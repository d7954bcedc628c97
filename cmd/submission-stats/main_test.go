package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/myusername/submission-stats/internal/charts"
	"github.com/myusername/submission-stats/pkg/parser"
	"github.com/myusername/submission-stats/pkg/scraper"
	"github.com/myusername/submission-stats/pkg/stats"
)

const savedPage = `<html><body>
<span class="sc-a">[Win] TeamA 1200 (+50) vs [Loss] TeamB 900 (-50)</span>
<span class="sc-a">[Loss] TeamA 1150 (-30) vs [Win] TeamC 1000 (+30)</span>
</body></html>`

func TestRunReportFromSavedHTML(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte(savedPage), 0644))

	outDir := filepath.Join(dir, "out")
	cfg := Config{HTMLFile: htmlPath, OutputDir: outDir}
	require.NoError(t, runReport(cfg, scraper.NewHTTPFetcher(), charts.DefaultTheme()))

	assert.FileExists(t, filepath.Join(outDir, "matches.csv"))

	data, err := os.ReadFile(filepath.Join(outDir, "dashboard.json"))
	require.NoError(t, err)
	var d charts.Dashboard
	require.NoError(t, json.Unmarshal(data, &d))
	assert.Equal(t, "TeamA", d.TeamName)
	assert.Equal(t, 1200, d.CurrentScore)
}

func TestRunReportEmptyPage(t *testing.T) {
	dir := t.TempDir()
	htmlPath := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html></html>"), 0644))

	err := runReport(Config{HTMLFile: htmlPath}, scraper.NewHTTPFetcher(), charts.DefaultTheme())
	assert.ErrorIs(t, err, parser.ErrNoMatchesFound)
}

func TestRunReportBadSubmissionID(t *testing.T) {
	err := runReport(Config{SubmissionID: "nope"}, scraper.NewHTTPFetcher(), charts.DefaultTheme())
	assert.ErrorIs(t, err, scraper.ErrInvalidSubmissionID)
}

func TestNewFetcher(t *testing.T) {
	f, err := newFetcher(Config{FetcherKind: "browser", ChromeURL: "ws://localhost:9222"})
	require.NoError(t, err)
	assert.IsType(t, &scraper.BrowserFetcher{}, f)

	f, err = newFetcher(Config{FetcherKind: "http"})
	require.NoError(t, err)
	assert.IsType(t, &scraper.HTTPFetcher{}, f)

	_, err = newFetcher(Config{FetcherKind: "carrier-pigeon"})
	assert.Error(t, err)
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SUBSTATS_TEST_STR", "value")
	t.Setenv("SUBSTATS_TEST_INT", "9000")
	t.Setenv("SUBSTATS_TEST_FLOAT", "0.25")
	t.Setenv("SUBSTATS_TEST_BAD", "x")

	assert.Equal(t, "value", getEnv("SUBSTATS_TEST_STR", "d"))
	assert.Equal(t, "d", getEnv("SUBSTATS_TEST_UNSET", "d"))
	assert.Equal(t, 9000, getEnvInt("SUBSTATS_TEST_INT", 1))
	assert.Equal(t, 1, getEnvInt("SUBSTATS_TEST_BAD", 1))
	assert.Equal(t, 0.25, getEnvFloat("SUBSTATS_TEST_FLOAT", 0))
	assert.Equal(t, 0.5, getEnvFloat("SUBSTATS_TEST_BAD", 0.5))
}

func TestValidateAlpha(t *testing.T) {
	for _, alpha := range []float64{0, 0.1, 0.5, 1} {
		assert.NoError(t, validateAlpha(alpha), "alpha %v", alpha)
	}
	for _, alpha := range []float64{-0.5, 1.01, 2} {
		assert.ErrorIs(t, validateAlpha(alpha), stats.ErrInvalidAlpha, "alpha %v", alpha)
	}
}
