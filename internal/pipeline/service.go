// Package pipeline orchestrates one analysis cycle: fetch a raw profile,
// validate it, hand it to the analysis delegate, and assemble the report.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
)

// ProfileFetcher retrieves a raw model sounding for a point.
type ProfileFetcher interface {
	FetchProfile(ctx context.Context, model string, lat, lon float64, hour int) (domain.RawProfile, error)
}

// ReportPublisher delivers a finished report to a downstream sink.
type ReportPublisher interface {
	PublishReport(ctx context.Context, report domain.Report) error
}

// HealthChecker reports whether the analysis delegate is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// Request identifies one sounding to analyze.
type Request struct {
	Model        string
	Lat          float64
	Lon          float64
	ForecastHour int
}

// Service wires the fetch-validate-analyze-present stages together.
// Conditions and publisher are optional; a nil value disables that stage.
type Service struct {
	fetcher    ProfileFetcher
	analyzer   domain.Analyzer
	health     HealthChecker
	conditions domain.ConditionsProvider
	publisher  ReportPublisher
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Service with the given stages and observability.
func New(f ProfileFetcher, a domain.Analyzer, h HealthChecker, c domain.ConditionsProvider, p ReportPublisher, logger *slog.Logger, metrics *observability.Metrics) *Service {
	return &Service{
		fetcher:    f,
		analyzer:   a,
		health:     h,
		conditions: c,
		publisher:  p,
		logger:     logger,
		metrics:    metrics,
	}
}

// Analyze fetches the sounding for the request and runs it through the full
// cycle. Fetch, parse, validation, and analysis failures each surface as
// their distinct domain error; no stage retries.
func (s *Service) Analyze(ctx context.Context, req Request) (domain.Report, error) {
	start := time.Now()

	raw, err := s.fetcher.FetchProfile(ctx, req.Model, req.Lat, req.Lon, req.ForecastHour)
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(outcomeFor(err)).Inc()
		return domain.Report{}, err
	}

	report, err := s.analyzeRaw(ctx, raw)
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(outcomeFor(err)).Inc()
		return domain.Report{}, err
	}

	s.metrics.AnalysesTotal.WithLabelValues("success").Inc()
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	return report, nil
}

// AnalyzeProfile runs a caller-supplied raw profile through the cycle,
// bypassing the fetcher. Used when the sounding arrives in the request body
// or from a local file.
func (s *Service) AnalyzeProfile(ctx context.Context, raw domain.RawProfile) (domain.Report, error) {
	start := time.Now()

	report, err := s.analyzeRaw(ctx, raw)
	if err != nil {
		s.metrics.AnalysesTotal.WithLabelValues(outcomeFor(err)).Inc()
		return domain.Report{}, err
	}

	s.metrics.AnalysesTotal.WithLabelValues("success").Inc()
	s.metrics.AnalysisDuration.Observe(time.Since(start).Seconds())
	return report, nil
}

func (s *Service) analyzeRaw(ctx context.Context, raw domain.RawProfile) (domain.Report, error) {
	profile, err := domain.NewProfile(raw)
	if err != nil {
		return domain.Report{}, err
	}

	indices, err := s.analyzer.Analyze(ctx, profile)
	if err != nil {
		return domain.Report{}, err
	}

	// Surface observations enrich the report but never fail it.
	var conditions *domain.ObservedConditions
	if s.conditions != nil {
		conditions, err = s.conditions.CurrentConditions(ctx, profile.Lat, profile.Lon)
		if err != nil {
			s.logger.Warn("conditions lookup failed, continuing without observations",
				"error", err, "lat", profile.Lat, "lon", profile.Lon)
			conditions = nil
		}
	}

	report := domain.BuildReport(profile, indices, conditions)

	if s.publisher != nil {
		if err := s.publisher.PublishReport(ctx, report); err != nil {
			s.logger.Error("report publish failed", "error", err, "report_id", report.ID)
			s.metrics.PublishErrors.Inc()
		} else {
			s.metrics.ReportsPublished.Inc()
		}
	}

	return report, nil
}

// CheckReadiness returns nil when the analysis delegate answers its health
// check, or an error describing why the service cannot take requests.
func (s *Service) CheckReadiness(ctx context.Context) error {
	if s.health == nil {
		return nil
	}
	return s.health.Ping(ctx)
}

// outcomeFor maps a cycle error to its metrics label.
func outcomeFor(err error) string {
	var (
		fetchErr      *domain.FetchError
		parseErr      *domain.ParseError
		validationErr *domain.ValidationError
	)
	switch {
	case errors.As(err, &fetchErr):
		return "fetch_error"
	case errors.As(err, &parseErr):
		return "parse_error"
	case errors.As(err, &validationErr):
		return "validation_error"
	default:
		return "analysis_error"
	}
}
