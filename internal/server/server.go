// Package server exposes submission statistics over HTTP for the dashboard front end
package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/myusername/submission-stats/internal/charts"
	"github.com/myusername/submission-stats/pkg/parser"
	"github.com/myusername/submission-stats/pkg/scraper"
)

// Config holds the dependencies of the HTTP handlers
type Config struct {
	Fetcher        scraper.Fetcher
	CompetitionURL string
	Theme          charts.Theme
	AllowedOrigins []string
	RequestTimeout time.Duration
}

// Handler serves submission statistics
type Handler struct {
	cfg Config
	// one fetch-parse-compute cycle at a time; each one may drive a browser
	sem chan struct{}
}

// NewHandler creates a new handler
func NewHandler(cfg Config) *Handler {
	if cfg.CompetitionURL == "" {
		cfg.CompetitionURL = scraper.DefaultCompetitionURL
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 2 * time.Minute
	}
	return &Handler{cfg: cfg, sem: make(chan struct{}, 1)}
}

// Router builds the chi router with middleware and routes
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(h.cfg.RequestTimeout))

	if len(h.cfg.AllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: h.cfg.AllowedOrigins,
			AllowedMethods: []string{"GET", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
			MaxAge:         300,
		}))
	}

	r.Get("/health", h.HealthCheck)
	r.Get("/api/v1/submissions/{id}/stats", h.SubmissionStats)
	return r
}

// HealthCheck returns service health
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "submission-stats",
	})
}

// SubmissionStats fetches a submission's episodes page and returns its dashboard charts
func (h *Handler) SubmissionStats(w http.ResponseWriter, r *http.Request) {
	id, err := scraper.ParseSubmissionID(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid submission ID")
		return
	}

	select {
	case h.sem <- struct{}{}:
		defer func() { <-h.sem }()
	case <-r.Context().Done():
		// middleware.Timeout answers timed out requests
		log.Printf("Submission %d: gave up waiting: %v", id, r.Context().Err())
		return
	}

	stats, _, err := scraper.ProcessSubmission(r.Context(), h.cfg.Fetcher, h.cfg.CompetitionURL, id)
	if err != nil {
		log.Printf("Submission %d: %v", id, err)
		if errors.Is(err, parser.ErrNoMatchesFound) {
			respondError(w, http.StatusBadRequest, "invalid submission ID")
			return
		}
		respondError(w, http.StatusBadGateway, "failed to fetch submission page")
		return
	}

	dashboard, err := charts.Build(stats, h.cfg.Theme)
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	respondJSON(w, http.StatusOK, dashboard)
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

// respondError writes an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
