// Package httpapi exposes the analysis service over HTTP: the analysis and
// alert endpoints plus health, readiness, and metrics routes.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/pipeline"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// AnalysisService runs analysis cycles for the HTTP handlers.
type AnalysisService interface {
	Analyze(ctx context.Context, req pipeline.Request) (domain.Report, error)
	AnalyzeProfile(ctx context.Context, raw domain.RawProfile) (domain.Report, error)
}

// Server exposes the analysis API plus health, readiness, and metrics routes.
type Server struct {
	httpServer   *http.Server
	service      AnalysisService
	alerts       domain.AlertsProvider
	defaultModel string
	logger       *slog.Logger
}

// NewServer creates the HTTP server. alerts may be nil when no weather API
// is configured; the alerts endpoint then reports the feature as disabled.
func NewServer(addr string, service AnalysisService, ready ReadinessChecker, alerts domain.AlertsProvider, defaultModel string, logger *slog.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		service:      service,
		alerts:       alerts,
		defaultModel: defaultModel,
		logger:       logger,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /v1/analysis", s.handleAnalyze)
	mux.HandleFunc("POST /v1/analysis", s.handleAnalyzeProfile)
	mux.HandleFunc("GET /v1/alerts", s.handleAlerts)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// handleAnalyze fetches and analyzes the sounding for the query's location.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	lat, lon, ok := parseLatLon(w, r)
	if !ok {
		return
	}

	model := r.URL.Query().Get("model")
	if model == "" {
		model = s.defaultModel
	}

	hour := 0
	if h := r.URL.Query().Get("hour"); h != "" {
		n, err := strconv.Atoi(h)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "hour must be a non-negative integer")
			return
		}
		hour = n
	}

	report, err := s.service.Analyze(r.Context(), pipeline.Request{
		Model:        model,
		Lat:          lat,
		Lon:          lon,
		ForecastHour: hour,
	})
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleAnalyzeProfile analyzes a sounding supplied in the request body.
func (s *Server) handleAnalyzeProfile(w http.ResponseWriter, r *http.Request) {
	var raw domain.RawProfile
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid profile body: "+err.Error())
		return
	}

	report, err := s.service.AnalyzeProfile(r.Context(), raw)
	if err != nil {
		s.writeAnalysisError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleAlerts lists active severe weather alerts for the query's location.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if s.alerts == nil {
		writeError(w, http.StatusServiceUnavailable, "weather alerts are not configured")
		return
	}

	lat, lon, ok := parseLatLon(w, r)
	if !ok {
		return
	}

	alerts, err := s.alerts.ActiveAlerts(r.Context(), lat, lon)
	if err != nil {
		s.logger.Error("alerts lookup failed", "error", err, "lat", lat, "lon", lon)
		writeError(w, http.StatusBadGateway, "alerts lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"alerts": alerts})
}

// writeAnalysisError maps cycle errors to HTTP statuses: bad upstream data
// is the gateway's fault, an invalid profile is the client's, and a dead
// delegate means try again later.
func (s *Server) writeAnalysisError(w http.ResponseWriter, err error) {
	var (
		fetchErr      *domain.FetchError
		parseErr      *domain.ParseError
		validationErr *domain.ValidationError
	)
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &parseErr):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &fetchErr):
		writeError(w, http.StatusBadGateway, err.Error())
	case errors.Is(err, domain.ErrAnalysisUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("analysis failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func parseLatLon(w http.ResponseWriter, r *http.Request) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil || lat < -90 || lat > 90 {
		writeError(w, http.StatusBadRequest, "lat must be a number in [-90, 90]")
		return 0, 0, false
	}
	lon, err := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if err != nil || lon < -180 || lon > 180 {
		writeError(w, http.StatusBadRequest, "lon must be a number in [-180, 180]")
		return 0, 0, false
	}
	return lat, lon, true
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response
}
