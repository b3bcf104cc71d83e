// Package sharppy implements domain.Analyzer against the SHARPpy analysis
// sidecar. The sidecar owns all thermodynamic and kinematic computation;
// this package only ships profiles over and maps the response back.
package sharppy

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
	"github.com/sony/gobreaker/v2"
)

// Client implements domain.Analyzer using the SHARPpy sidecar HTTP API.
// A circuit breaker fronts the sidecar so a dead delegate fails fast instead
// of holding every request for the full timeout.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[domain.DerivedIndices]
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a delegate client for the sidecar at baseURL.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	settings := gobreaker.Settings{
		Name:    "sharppy",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("delegate circuit breaker state changed",
				"breaker", name, "from", from.String(), "to", to.String())
		},
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		breaker: gobreaker.NewCircuitBreaker[domain.DerivedIndices](settings),
		metrics: metrics,
		logger:  logger,
	}
}

// analyzeRequest is the wire form of a profile sent to the sidecar.
type analyzeRequest struct {
	Lat    float64        `json:"lat"`
	Lon    float64        `json:"lon"`
	Levels []domain.Level `json:"levels"`
}

// analyzeResponse is the sidecar's result. Indices it could not compute for
// the given profile are omitted rather than zeroed.
type analyzeResponse struct {
	Indices map[string]domain.IndexValue `json:"indices"`
}

// Analyze sends the profile to the sidecar and maps the response into a
// DerivedIndices mapping. An unreachable sidecar or open circuit returns an
// *domain.AnalysisError wrapping domain.ErrAnalysisUnavailable.
func (c *Client) Analyze(ctx context.Context, profile domain.SoundingProfile) (domain.DerivedIndices, error) {
	start := time.Now()

	indices, err := c.breaker.Execute(func() (domain.DerivedIndices, error) {
		return c.doAnalyze(ctx, profile)
	})
	c.metrics.DelegateDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			c.metrics.DelegateRequests.WithLabelValues("unavailable").Inc()
			return nil, &domain.AnalysisError{
				Err: fmt.Errorf("%w: circuit open", domain.ErrAnalysisUnavailable),
			}
		}
		if errors.Is(err, domain.ErrAnalysisUnavailable) {
			c.metrics.DelegateRequests.WithLabelValues("unavailable").Inc()
		} else {
			c.metrics.DelegateRequests.WithLabelValues("error").Inc()
		}
		var analysisErr *domain.AnalysisError
		if errors.As(err, &analysisErr) {
			return nil, err
		}
		return nil, &domain.AnalysisError{Err: err}
	}

	c.metrics.DelegateRequests.WithLabelValues("success").Inc()
	return indices, nil
}

func (c *Client) doAnalyze(ctx context.Context, profile domain.SoundingProfile) (domain.DerivedIndices, error) {
	body, err := json.Marshal(analyzeRequest{
		Lat:    profile.Lat,
		Lon:    profile.Lon,
		Levels: profile.Levels,
	})
	if err != nil {
		return nil, fmt.Errorf("encode profile: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/analyze", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.AnalysisError{
			Err: fmt.Errorf("%w: %v", domain.ErrAnalysisUnavailable, err),
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return nil, &domain.AnalysisError{
			Err: fmt.Errorf("%w: status %d", domain.ErrAnalysisUnavailable, resp.StatusCode),
		}
	}
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, &domain.AnalysisError{
			Err: fmt.Errorf("delegate rejected profile: status %d: %s", resp.StatusCode, respBody),
		}
	}

	var analyzeResp analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&analyzeResp); err != nil {
		return nil, &domain.AnalysisError{Err: fmt.Errorf("decode response: %w", err)}
	}

	return domain.NewDerivedIndices(analyzeResp.Indices), nil
}

// Ping checks the sidecar health endpoint and updates the delegate-up gauge.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/healthz", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.DelegateUp.Set(0)
		return fmt.Errorf("delegate unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.DelegateUp.Set(0)
		return fmt.Errorf("delegate unhealthy: status %d", resp.StatusCode)
	}

	c.metrics.DelegateUp.Set(1)
	return nil
}
