package modeldata

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
)

// Client fetches forecast-model point soundings over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a point sounding client for the endpoint at baseURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// pointResponse is the point data endpoint's sounding payload. Levels use
// the same column names as the text form so both sources decode alike.
type pointResponse struct {
	Model        string         `json:"model"`
	RunTime      time.Time      `json:"run_time"`
	ForecastHour int            `json:"forecast_hour"`
	Lat          float64        `json:"lat"`
	Lon          float64        `json:"lon"`
	Levels       []domain.Level `json:"levels"`
}

// FetchProfile retrieves the raw sounding for a model run at a point. The
// run is the latest one expected to be available; hour selects the forecast
// lead time in hours from the run.
func (c *Client) FetchProfile(ctx context.Context, model string, lat, lon float64, hour int) (domain.RawProfile, error) {
	run := LatestRun()

	params := url.Values{
		"model": {model},
		"run":   {run.Format(time.RFC3339)},
		"hour":  {fmt.Sprintf("%d", hour)},
		"lat":   {fmt.Sprintf("%.4f", lat)},
		"lon":   {fmt.Sprintf("%.4f", lon)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/sounding?"+params.Encode(), nil)
	if err != nil {
		return domain.RawProfile{}, &domain.FetchError{Source: "modeldata", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RawProfile{}, &domain.FetchError{Source: "modeldata", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.RawProfile{}, &domain.FetchError{
			Source: "modeldata",
			Err:    fmt.Errorf("status %d: %s", resp.StatusCode, body),
		}
	}

	var point pointResponse
	if err := json.NewDecoder(resp.Body).Decode(&point); err != nil {
		return domain.RawProfile{}, &domain.ParseError{Source: "modeldata", Err: err}
	}

	raw := domain.RawProfile{
		Model:        point.Model,
		RunTime:      point.RunTime,
		ForecastHour: point.ForecastHour,
		Lat:          point.Lat,
		Lon:          point.Lon,
		Levels:       point.Levels,
	}
	if raw.Model == "" {
		raw.Model = model
	}
	if raw.RunTime.IsZero() {
		raw.RunTime = run
	}
	if raw.ForecastHour == 0 {
		raw.ForecastHour = hour
	}
	if raw.Lat == 0 && raw.Lon == 0 {
		raw.Lat, raw.Lon = lat, lon
	}

	return raw, nil
}
