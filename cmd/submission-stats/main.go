// Package main is the entry point for the submission-stats application
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/myusername/submission-stats/internal/charts"
	"github.com/myusername/submission-stats/internal/server"
	"github.com/myusername/submission-stats/internal/utils"
	"github.com/myusername/submission-stats/pkg/models"
	"github.com/myusername/submission-stats/pkg/parser"
	"github.com/myusername/submission-stats/pkg/scraper"
	"github.com/myusername/submission-stats/pkg/stats"
)

// Version is set during build using ldflags
var (
	version = "dev"
)

// Config holds application configuration
type Config struct {
	SubmissionID   string
	CompetitionURL string
	ChromeURL      string
	FetcherKind    string
	HTMLFile       string
	PDFFile        string
	OutputDir      string
	SaveHTML       bool
	Alpha          float64
	Serve          bool
	Port           int
	AllowedOrigins []string
}

func main() {
	versionFlag := flag.Bool("version", false, "Print version information and exit")
	cfg := parseFlags()

	if *versionFlag {
		fmt.Printf("submission-stats version %s\n", version)
		return
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.Println("Submission stats starting...")
	log.Printf("Version: %s", version)

	if err := validateAlpha(cfg.Alpha); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	theme := charts.DefaultTheme()
	theme.Alpha = cfg.Alpha

	fetcher, err := newFetcher(cfg)
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if cfg.Serve {
		runServer(cfg, fetcher, theme)
		return
	}

	if err := runReport(cfg, fetcher, theme); err != nil {
		if errors.Is(err, parser.ErrNoMatchesFound) || errors.Is(err, scraper.ErrInvalidSubmissionID) {
			log.Printf("%v", err)
			fmt.Fprintln(os.Stderr, "Error: wrong submission ID!")
			os.Exit(1)
		}
		log.Fatalf("Failed to get submission statistics: %v", err)
	}
}

func parseFlags() Config {
	var cfg Config
	var origins string

	flag.StringVar(&cfg.SubmissionID, "id", getEnv("SUBSTATS_SUBMISSION_ID", "33605309"), "Submission ID or episodes page URL")
	flag.StringVar(&cfg.CompetitionURL, "competition-url", getEnv("SUBSTATS_COMPETITION_URL", scraper.DefaultCompetitionURL), "Competition page URL")
	flag.StringVar(&cfg.ChromeURL, "chrome-url", getEnv("SUBSTATS_CHROME_URL", ""), "Remote debugging URL of a running Chrome (default: start a local headless Chrome)")
	flag.StringVar(&cfg.FetcherKind, "fetcher", getEnv("SUBSTATS_FETCHER", "browser"), "Page fetcher: browser or http")
	flag.StringVar(&cfg.HTMLFile, "html", "", "Parse a saved episodes page instead of fetching it")
	flag.StringVar(&cfg.PDFFile, "pdf", "", "Parse a PDF printout of the episodes page instead of fetching it")
	flag.StringVar(&cfg.OutputDir, "output", "", "Output directory for CSV, JSON and HTML files (default: no files)")
	flag.BoolVar(&cfg.SaveHTML, "save-html", false, "Save the fetched page in the output directory")
	flag.Float64Var(&cfg.Alpha, "alpha", getEnvFloat("SUBSTATS_ALPHA", 0), "Smoothing factor in (0, 1]; 0 uses 2/(n+1)")
	flag.BoolVar(&cfg.Serve, "serve", false, "Serve statistics over HTTP instead of printing a report")
	flag.IntVar(&cfg.Port, "port", getEnvInt("SUBSTATS_PORT", 8086), "HTTP port for -serve")
	flag.StringVar(&origins, "origins", getEnv("SUBSTATS_ALLOWED_ORIGINS", "http://localhost:3000"), "Comma-separated CORS origins for -serve")
	flag.Parse()

	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}
	return cfg
}

// validateAlpha accepts 0, meaning 2/(n+1), or a smoothing factor in (0, 1]
func validateAlpha(alpha float64) error {
	if alpha == 0 || (alpha > 0 && alpha <= 1) {
		return nil
	}
	return fmt.Errorf("%w: got %v", stats.ErrInvalidAlpha, alpha)
}

func newFetcher(cfg Config) (scraper.Fetcher, error) {
	switch cfg.FetcherKind {
	case "browser":
		return scraper.NewBrowserFetcher(cfg.ChromeURL), nil
	case "http":
		return scraper.NewHTTPFetcher(), nil
	default:
		return nil, fmt.Errorf("unknown fetcher %q", cfg.FetcherKind)
	}
}

// runReport loads one submission, prints it and writes the requested files
func runReport(cfg Config, fetcher scraper.Fetcher, theme charts.Theme) error {
	var (
		ts          *models.TeamStatistics
		htmlContent string
		err         error
	)

	switch {
	case cfg.HTMLFile != "":
		log.Printf("Reading saved page %s", cfg.HTMLFile)
		data, err := os.ReadFile(cfg.HTMLFile)
		if err != nil {
			return fmt.Errorf("error reading HTML file: %w", err)
		}
		fragments, err := parser.FragmentsFromHTML(string(data))
		if err != nil {
			return err
		}
		if ts, err = parser.ExtractStats(fragments); err != nil {
			return err
		}

	case cfg.PDFFile != "":
		log.Printf("Reading PDF printout %s", cfg.PDFFile)
		text, err := parser.ReadPDFText(cfg.PDFFile)
		if err != nil {
			return err
		}
		if ts, err = parser.ExtractStats(parser.FragmentsFromText(text)); err != nil {
			return err
		}

	default:
		id, err := scraper.ParseSubmissionID(cfg.SubmissionID)
		if err != nil {
			return err
		}
		ts, htmlContent, err = scraper.ProcessSubmission(context.Background(), fetcher, cfg.CompetitionURL, id)
		if err != nil {
			return err
		}
	}

	utils.DisplayTeamStatistics(os.Stdout, ts)

	if cfg.OutputDir == "" {
		return nil
	}
	if err = os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	log.Printf("Using output directory: %s", cfg.OutputDir)

	if cfg.SaveHTML && htmlContent != "" {
		htmlPath := filepath.Join(cfg.OutputDir, "episodes.html")
		if err := scraper.SaveContentToFile(htmlPath, htmlContent); err != nil {
			log.Printf("Error saving HTML: %v", err)
		} else {
			log.Printf("Saved page HTML to %s", htmlPath)
		}
	}

	csvPath := filepath.Join(cfg.OutputDir, "matches.csv")
	if err := utils.SaveMatchesToCSV(ts, csvPath); err != nil {
		return err
	}
	log.Printf("Saved match history to %s", csvPath)

	dashboard, err := charts.Build(ts, theme)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(dashboard, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding charts: %w", err)
	}
	jsonPath := filepath.Join(cfg.OutputDir, "dashboard.json")
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return fmt.Errorf("error writing charts: %w", err)
	}
	log.Printf("Saved chart data to %s", jsonPath)

	return nil
}

// runServer serves statistics until SIGINT or SIGTERM
func runServer(cfg Config, fetcher scraper.Fetcher, theme charts.Theme) {
	handler := server.NewHandler(server.Config{
		Fetcher:        fetcher,
		CompetitionURL: cfg.CompetitionURL,
		Theme:          theme,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     handler.Router(),
		ReadTimeout: 10 * time.Second,
		// rendering the episodes page takes a while
		WriteTimeout: 3 * time.Minute,
	}

	go func() {
		log.Printf("Serving submission statistics on port %d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Shutdown error: %v", err)
	}
	log.Println("Server stopped")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
