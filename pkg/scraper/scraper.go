// Package scraper fetches a submission's episodes page and hands its text to the parser
package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/myusername/submission-stats/pkg/models"
	"github.com/myusername/submission-stats/pkg/parser"
)

// DefaultCompetitionURL is the competition whose submissions are looked up by default
const DefaultCompetitionURL = "https://www.kaggle.com/competitions/lux-ai-season-2-neurips-stage-2"

const episodesDialogQuery = "/submissions?dialog=episodes-submission-"

// ErrInvalidSubmissionID is returned for identifiers that are not positive integers
var ErrInvalidSubmissionID = errors.New("invalid submission ID")

var submissionIDRegex = regexp.MustCompile(`episodes-submission-(\d+)`)

// Fetcher returns the content of a page
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// SubmissionURL builds the episodes page URL for a submission
func SubmissionURL(competitionURL string, submissionID int) string {
	return strings.TrimRight(competitionURL, "/") + episodesDialogQuery + strconv.Itoa(submissionID)
}

// ParseSubmissionID accepts a bare identifier or an episodes page URL
func ParseSubmissionID(s string) (int, error) {
	s = strings.TrimSpace(s)
	if matches := submissionIDRegex.FindStringSubmatch(s); len(matches) > 1 {
		s = matches[1]
	}
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubmissionID, s)
	}
	return id, nil
}

// ProcessSubmission fetches the episodes page of a submission and extracts its statistics
func ProcessSubmission(ctx context.Context, f Fetcher, competitionURL string, submissionID int) (*models.TeamStatistics, string, error) {
	if submissionID <= 0 {
		return nil, "", fmt.Errorf("%w: %d", ErrInvalidSubmissionID, submissionID)
	}

	url := SubmissionURL(competitionURL, submissionID)
	htmlContent, err := f.Fetch(ctx, url)
	if err != nil {
		return nil, "", fmt.Errorf("error fetching submission page: %w", err)
	}

	fragments, err := parser.FragmentsFromHTML(htmlContent)
	if err != nil {
		return nil, htmlContent, err
	}

	stats, err := parser.ExtractStats(fragments)
	if err != nil {
		return nil, htmlContent, err
	}

	log.Printf("Successfully extracted %d matches from %s", stats.Len(), url)
	return stats, htmlContent, nil
}

// HTTPFetcher downloads pages with a plain GET. It suits pre-rendered snapshots;
// the live episodes dialog needs BrowserFetcher.
type HTTPFetcher struct {
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with a 30 second timeout
func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Fetch downloads the HTML content from a URL and returns it as a string
func (h *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	log.Printf("Fetching URL: %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("error building request: %w", err)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("error fetching URL: %w", err)
	}
	defer resp.Body.Close()

	log.Printf("HTTP Status: %d (%s)", resp.StatusCode, resp.Status)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("non-200 status code: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("error reading response body: %w", err)
	}

	log.Printf("Content-Type: %s, Content-Length: %d bytes", resp.Header.Get("Content-Type"), len(body))
	return string(body), nil
}

// SaveContentToFile saves content to a file
func SaveContentToFile(filename string, content string) error {
	return os.WriteFile(filename, []byte(content), 0644)
}
