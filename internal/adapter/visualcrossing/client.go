// Package visualcrossing reads the Visual Crossing Timeline API. The schema
// is owned by the provider: only documented fields are decoded, extra fields
// are ignored, and optional fields (severerisk, windgust, preciptype) decode
// to nil when absent or null.
package visualcrossing

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
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
)

// timelineElements is the element list requested from the Timeline API,
// matching the fields the presenter and alert views read.
const timelineElements = "datetime,datetimeEpoch,temp,feelslike,dew,humidity," +
	"precip,precipprob,preciptype,snow,windspeed,winddir,pressure,cloudcover," +
	"visibility,uvindex,conditions,description,icon,sunrise,sunset,moonphase," +
	"precipcover,windgust,severerisk"

// Client fetches forecasts, observations, and alerts from the Timeline API.
type Client struct {
	key        string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Timeline API client.
func NewClient(key string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		key: key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline",
		metrics: metrics,
		logger:  logger,
	}
}

// Forecast fetches the day/hour forecast for a location, including current
// conditions and active alerts.
func (c *Client) Forecast(ctx context.Context, lat, lon float64, days int) (*TimelineResponse, error) {
	u := fmt.Sprintf("%s/%s", c.baseURL, url.PathEscape(fmt.Sprintf("%.4f,%.4f", lat, lon)))
	params := url.Values{
		"unitGroup":   {"metric"},
		"key":         {c.key},
		"include":     {"days,hours,current,alerts"},
		"contentType": {"json"},
		"elements":    {timelineElements},
	}
	if days > 0 {
		params.Set("forecastDays", fmt.Sprintf("%d", days))
	}

	return c.doRequest(ctx, u+"?"+params.Encode())
}

// History fetches per-day records for a past date range. End defaults to
// start when zero, matching the provider's single-day query form.
func (c *Client) History(ctx context.Context, lat, lon float64, start, end time.Time) (*TimelineResponse, error) {
	if end.IsZero() {
		end = start
	}
	dateRange := start.Format("2006-01-02") + "/" + end.Format("2006-01-02")
	u := fmt.Sprintf("%s/%s/%s", c.baseURL,
		url.PathEscape(fmt.Sprintf("%.4f,%.4f", lat, lon)), dateRange)
	params := url.Values{
		"unitGroup":   {"metric"},
		"key":         {c.key},
		"include":     {"days,hours"},
		"contentType": {"json"},
	}

	return c.doRequest(ctx, u+"?"+params.Encode())
}

// CurrentConditions fetches the location's current observation record mapped
// into the domain representation. Returns nil (no error) when the provider
// has no current record for the location.
func (c *Client) CurrentConditions(ctx context.Context, lat, lon float64) (*domain.ObservedConditions, error) {
	resp, err := c.Forecast(ctx, lat, lon, 1)
	if err != nil {
		return nil, err
	}
	if resp.CurrentConditions == nil {
		c.metrics.ConditionsRequests.WithLabelValues("empty").Inc()
		return nil, nil
	}
	return resp.CurrentConditions.toDomain(), nil
}

// ActiveAlerts fetches active severe weather alerts for the location mapped
// into the domain representation.
func (c *Client) ActiveAlerts(ctx context.Context, lat, lon float64) ([]domain.WeatherAlert, error) {
	resp, err := c.Forecast(ctx, lat, lon, 1)
	if err != nil {
		return nil, err
	}

	alerts := make([]domain.WeatherAlert, 0, len(resp.Alerts))
	for _, a := range resp.Alerts {
		alerts = append(alerts, domain.WeatherAlert{
			Event:       a.Event,
			Headline:    a.Headline,
			Description: a.Description,
			Onset:       a.Onset,
			Ends:        a.Ends,
			Link:        a.Link,
		})
	}
	return alerts, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) (*TimelineResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, &domain.FetchError{Source: "visualcrossing", Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ConditionsRequests.WithLabelValues("error").Inc()
		return nil, &domain.FetchError{Source: "visualcrossing", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.metrics.ConditionsRequests.WithLabelValues("error").Inc()
		body, _ := io.ReadAll(resp.Body)
		return nil, &domain.FetchError{
			Source: "visualcrossing",
			Err:    fmt.Errorf("status %d: %s", resp.StatusCode, body),
		}
	}

	var timeline TimelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&timeline); err != nil {
		c.metrics.ConditionsRequests.WithLabelValues("error").Inc()
		return nil, &domain.ParseError{Source: "visualcrossing", Err: err}
	}

	c.metrics.ConditionsRequests.WithLabelValues("success").Inc()
	return &timeline, nil
}

// Timeline API response types. Optional fields are pointers so a null or
// missing value is distinguishable from zero.

// TimelineResponse is the top-level Timeline API payload.
type TimelineResponse struct {
	Latitude          float64     `json:"latitude"`
	Longitude         float64     `json:"longitude"`
	ResolvedAddress   string      `json:"resolvedAddress"`
	Timezone          string      `json:"timezone"`
	Days              []DayRecord `json:"days"`
	CurrentConditions *HourRecord `json:"currentConditions"`
	Alerts            []Alert     `json:"alerts"`
}

// DayRecord is one per-day forecast or history record.
type DayRecord struct {
	Datetime      string       `json:"datetime"`
	DatetimeEpoch int64        `json:"datetimeEpoch"`
	TempMax       float64      `json:"tempmax"`
	TempMin       float64      `json:"tempmin"`
	Temp          float64      `json:"temp"`
	FeelsLike     float64      `json:"feelslike"`
	Dew           float64      `json:"dew"`
	Humidity      float64      `json:"humidity"`
	Precip        float64      `json:"precip"`
	PrecipProb    *float64     `json:"precipprob"`
	PrecipCover   *float64     `json:"precipcover"`
	PrecipType    []string     `json:"preciptype"`
	Snow          float64      `json:"snow"`
	WindSpeed     float64      `json:"windspeed"`
	WindGust      *float64     `json:"windgust"`
	WindDir       float64      `json:"winddir"`
	Pressure      float64      `json:"pressure"`
	CloudCover    float64      `json:"cloudcover"`
	Visibility    float64      `json:"visibility"`
	UVIndex       *float64     `json:"uvindex"`
	SevereRisk    *float64     `json:"severerisk"`
	Sunrise       string       `json:"sunrise"`
	Sunset        string       `json:"sunset"`
	MoonPhase     float64      `json:"moonphase"`
	Conditions    string       `json:"conditions"`
	Description   string       `json:"description"`
	Icon          string       `json:"icon"`
	Hours         []HourRecord `json:"hours"`
}

// HourRecord is one per-hour record; the currentConditions object shares
// this shape.
type HourRecord struct {
	Datetime      string   `json:"datetime"`
	DatetimeEpoch int64    `json:"datetimeEpoch"`
	Temp          float64  `json:"temp"`
	FeelsLike     float64  `json:"feelslike"`
	Dew           float64  `json:"dew"`
	Humidity      float64  `json:"humidity"`
	Precip        float64  `json:"precip"`
	PrecipProb    *float64 `json:"precipprob"`
	PrecipType    []string `json:"preciptype"`
	Snow          float64  `json:"snow"`
	WindSpeed     float64  `json:"windspeed"`
	WindGust      *float64 `json:"windgust"`
	WindDir       float64  `json:"winddir"`
	Pressure      float64  `json:"pressure"`
	CloudCover    float64  `json:"cloudcover"`
	Visibility    float64  `json:"visibility"`
	UVIndex       *float64 `json:"uvindex"`
	SevereRisk    *float64 `json:"severerisk"`
	Conditions    string   `json:"conditions"`
	Icon          string   `json:"icon"`
}

// Alert is an active severe weather alert attached to a Timeline response.
type Alert struct {
	Event       string `json:"event"`
	Headline    string `json:"headline"`
	Description string `json:"description"`
	Onset       string `json:"onset"`
	Ends        string `json:"ends"`
	ID          string `json:"id"`
	Link        string `json:"link"`
}

// toDomain maps an hour/current record into the domain observation type.
func (h *HourRecord) toDomain() *domain.ObservedConditions {
	obs := &domain.ObservedConditions{
		TempC:        h.Temp,
		FeelsLikeC:   h.FeelsLike,
		DewpointC:    h.Dew,
		HumidityPC:   h.Humidity,
		PrecipMM:     h.Precip,
		PrecipProb:   h.PrecipProb,
		PrecipType:   h.PrecipType,
		WindSpeedKPH: h.WindSpeed,
		WindGustKPH:  h.WindGust,
		WindDirDeg:   h.WindDir,
		PressureHPa:  h.Pressure,
		CloudCoverPC: h.CloudCover,
		VisibilityKM: h.Visibility,
		UVIndex:      h.UVIndex,
		SevereRisk:   h.SevereRisk,
		Conditions:   h.Conditions,
	}
	if h.DatetimeEpoch > 0 {
		obs.ObservedAt = time.Unix(h.DatetimeEpoch, 0).UTC()
	}
	return obs
}
