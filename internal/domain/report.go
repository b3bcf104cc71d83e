package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// Report is the display-ready output of one analysis: computed indices, the
// hazard assessment, and the surface observations (when available) for the
// analyzed location. The key set is fixed; consumers rely on it not shifting
// between releases.
type Report struct {
	ID           string    `json:"id"`
	Model        string    `json:"model,omitempty"`
	RunTime      time.Time `json:"run_time"`
	ForecastHour int       `json:"forecast_hour"`
	Lat          float64   `json:"lat"`
	Lon          float64   `json:"lon"`
	GeneratedAt  time.Time `json:"generated_at"`

	Indices DerivedIndices `json:"indices"`
	// Missing lists core indices the delegate did not compute, sorted.
	// An index absent here and absent from Indices was never expected.
	Missing []string         `json:"missing,omitempty"`
	Threats ThreatAssessment `json:"threats"`

	Conditions *ObservedConditions `json:"conditions,omitempty"`
}

// BuildReport maps computed indices plus optional observed conditions into a
// Report. Pure apart from reading the package clock: index values pass
// through unmodified, absent core indices are recorded in Missing, and the
// ID is a deterministic function of the profile identity.
func BuildReport(profile SoundingProfile, indices DerivedIndices, conditions *ObservedConditions) Report {
	return Report{
		ID:           reportID(profile),
		Model:        profile.Model,
		RunTime:      profile.RunTime,
		ForecastHour: profile.ForecastHour,
		Lat:          profile.Lat,
		Lon:          profile.Lon,
		GeneratedAt:  clock.Now().UTC(),
		Indices:      indices,
		Missing:      indices.MissingCore(),
		Threats:      AssessThreats(indices),
		Conditions:   conditions,
	}
}

// reportID produces a deterministic ID from the profile's identity fields.
// Reanalyzing the same model run for the same point yields the same ID, so
// downstream consumers can deduplicate replays.
func reportID(profile SoundingProfile) string {
	input := fmt.Sprintf("%s|%.4f|%.4f|%s|%d",
		profile.Model, profile.Lat, profile.Lon,
		profile.RunTime.UTC().Format(time.RFC3339), profile.ForecastHour)
	hash := sha256.Sum256([]byte(input))
	short := hex.EncodeToString(hash[:8])
	if profile.Model == "" {
		return short
	}
	return profile.Model + "-" + short
}
