package domain

import (
	"context"
	"time"
)

// ConditionsProvider supplies the current surface observation for a location.
// A nil result with a nil error means the provider has no record there.
type ConditionsProvider interface {
	CurrentConditions(ctx context.Context, lat, lon float64) (*ObservedConditions, error)
}

// WeatherAlert is an active severe weather alert for a location.
type WeatherAlert struct {
	Event       string `json:"event"`
	Headline    string `json:"headline,omitempty"`
	Description string `json:"description,omitempty"`
	Onset       string `json:"onset,omitempty"`
	Ends        string `json:"ends,omitempty"`
	Link        string `json:"link,omitempty"`
}

// AlertsProvider lists active severe weather alerts for a location.
type AlertsProvider interface {
	ActiveAlerts(ctx context.Context, lat, lon float64) ([]WeatherAlert, error)
}

// ObservedConditions is the subset of a weather API observation record the
// presenter reads. The upstream schema is treated as external: fields beyond
// these are ignored, and optional fields surface as nil/empty rather than
// zero when the provider omits them.
type ObservedConditions struct {
	ObservedAt time.Time `json:"observed_at,omitempty"`
	Station    string    `json:"station,omitempty"`

	TempC      float64  `json:"temp_c"`
	FeelsLikeC float64  `json:"feels_like_c"`
	DewpointC  float64  `json:"dewpoint_c"`
	HumidityPC float64  `json:"humidity_pct"`
	PrecipMM   float64  `json:"precip_mm"`
	PrecipProb *float64 `json:"precip_prob_pct,omitempty"`
	PrecipType []string `json:"precip_type,omitempty"`

	WindSpeedKPH float64  `json:"wind_speed_kph"`
	WindGustKPH  *float64 `json:"wind_gust_kph,omitempty"`
	WindDirDeg   float64  `json:"wind_dir_deg"`

	PressureHPa  float64  `json:"pressure_hpa"`
	CloudCoverPC float64  `json:"cloud_cover_pct"`
	VisibilityKM float64  `json:"visibility_km"`
	UVIndex      *float64 `json:"uv_index,omitempty"`
	SevereRisk   *float64 `json:"severe_risk,omitempty"`

	Conditions string `json:"conditions,omitempty"`
}
