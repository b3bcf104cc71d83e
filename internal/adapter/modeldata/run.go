// Package modeldata fetches forecast-model point soundings, either from a
// THREDDS-style point data endpoint or from a local text file.
package modeldata

import (
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
)

// Synoptic model runs publish at 00Z and 12Z. A run is not usable until its
// output has finished uploading, roughly three hours after the run time.
const runAvailabilityLag = 3

// LatestRun returns the most recent 00Z or 12Z run whose output is expected
// to be available at the current time.
func LatestRun() time.Time {
	now := domain.Now().UTC()

	switch {
	case now.Hour() >= 12+runAvailabilityLag:
		return time.Date(now.Year(), now.Month(), now.Day(), 12, 0, 0, 0, time.UTC)
	case now.Hour() >= runAvailabilityLag:
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	default:
		y := now.AddDate(0, 0, -1)
		return time.Date(y.Year(), y.Month(), y.Day(), 12, 0, 0, 0, time.UTC)
	}
}
