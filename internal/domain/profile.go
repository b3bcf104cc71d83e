package domain

import (
	"fmt"
	"time"
)

// MissingValue is the conventional sentinel for absent observations in
// sounding data. Levels where pressure or height carry it are discarded.
const MissingValue = -9999

// Level is a single sounding sample.
type Level struct {
	PressureHPa float64 `json:"pres"` // hPa
	HeightM     float64 `json:"hght"` // meters above sea level
	TempC       float64 `json:"tmpc"` // °C
	DewpointC   float64 `json:"dwpc"` // °C
	WindDirDeg  float64 `json:"wdir"` // degrees
	WindSpeedKt float64 `json:"wspd"` // knots
}

// RawProfile is an unvalidated fetch result: the vertical samples plus the
// metadata identifying where and when they came from.
type RawProfile struct {
	Model        string    `json:"model,omitempty"` // "gfs", "nam", "rap", "hrrr", or "file"
	RunTime      time.Time `json:"run_time,omitempty"`
	ForecastHour int       `json:"forecast_hour,omitempty"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	Levels       []Level   `json:"levels"`
}

// SoundingProfile is a validated vertical profile. Construct only through
// NewProfile; the zero value is not usable.
type SoundingProfile struct {
	Model        string
	RunTime      time.Time
	ForecastHour int
	Lat          float64
	Lon          float64
	Levels       []Level
}

// NewProfile validates a RawProfile into a SoundingProfile. Sentinel levels
// are dropped first; the surviving sequence must have at least two levels,
// strictly increasing height, and strictly decreasing pressure. Violations
// return a *ValidationError.
func NewProfile(raw RawProfile) (SoundingProfile, error) {
	levels := make([]Level, 0, len(raw.Levels))
	for _, l := range raw.Levels {
		if l.PressureHPa == MissingValue || l.HeightM == MissingValue {
			continue
		}
		levels = append(levels, l)
	}

	if len(levels) < 2 {
		return SoundingProfile{}, &ValidationError{
			Reason: fmt.Sprintf("need at least 2 levels, got %d", len(levels)),
		}
	}

	for i := 1; i < len(levels); i++ {
		if levels[i].HeightM <= levels[i-1].HeightM {
			return SoundingProfile{}, &ValidationError{
				Reason: fmt.Sprintf("height not strictly increasing at level %d (%.1fm after %.1fm)",
					i, levels[i].HeightM, levels[i-1].HeightM),
			}
		}
		if levels[i].PressureHPa >= levels[i-1].PressureHPa {
			return SoundingProfile{}, &ValidationError{
				Reason: fmt.Sprintf("pressure not strictly decreasing at level %d (%.1fhPa after %.1fhPa)",
					i, levels[i].PressureHPa, levels[i-1].PressureHPa),
			}
		}
	}

	return SoundingProfile{
		Model:        raw.Model,
		RunTime:      raw.RunTime,
		ForecastHour: raw.ForecastHour,
		Lat:          raw.Lat,
		Lon:          raw.Lon,
		Levels:       levels,
	}, nil
}

// Surface returns the lowest level of the profile.
func (p SoundingProfile) Surface() Level {
	return p.Levels[0]
}

// Top returns the highest level of the profile.
func (p SoundingProfile) Top() Level {
	return p.Levels[len(p.Levels)-1]
}
