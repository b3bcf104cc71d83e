package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validLevels() []Level {
	return []Level{
		{PressureHPa: 1000, HeightM: 0, TempC: 30, DewpointC: 22, WindDirDeg: 180, WindSpeedKt: 5},
		{PressureHPa: 925, HeightM: 900, TempC: 24, DewpointC: 18, WindDirDeg: 200, WindSpeedKt: 20},
		{PressureHPa: 850, HeightM: 1800, TempC: 18, DewpointC: 10, WindDirDeg: 230, WindSpeedKt: 35},
		{PressureHPa: 700, HeightM: 3600, TempC: 2, DewpointC: -15, WindDirDeg: 270, WindSpeedKt: 65},
		{PressureHPa: 500, HeightM: 6000, TempC: -20, DewpointC: -35, WindDirDeg: 290, WindSpeedKt: 85},
	}
}

func TestNewProfile(t *testing.T) {
	runTime := time.Date(2024, 4, 27, 12, 0, 0, 0, time.UTC)

	t.Run("valid profile", func(t *testing.T) {
		raw := RawProfile{
			Model:        "gfs",
			RunTime:      runTime,
			ForecastHour: 6,
			Lat:          35.22,
			Lon:          -97.44,
			Levels:       validLevels(),
		}

		profile, err := NewProfile(raw)
		require.NoError(t, err)
		assert.Equal(t, "gfs", profile.Model)
		assert.Equal(t, runTime, profile.RunTime)
		assert.Equal(t, 6, profile.ForecastHour)
		assert.Len(t, profile.Levels, 5)
		assert.Equal(t, 1000.0, profile.Surface().PressureHPa)
		assert.Equal(t, 500.0, profile.Top().PressureHPa)
	})

	t.Run("sentinel levels dropped before validation", func(t *testing.T) {
		levels := validLevels()
		levels = append(levels[:2],
			append([]Level{
				{PressureHPa: MissingValue, HeightM: 1200},
				{PressureHPa: 900, HeightM: MissingValue},
			}, levels[2:]...)...)

		profile, err := NewProfile(RawProfile{Levels: levels})
		require.NoError(t, err)
		assert.Len(t, profile.Levels, 5)
		for _, l := range profile.Levels {
			assert.NotEqual(t, float64(MissingValue), l.PressureHPa)
			assert.NotEqual(t, float64(MissingValue), l.HeightM)
		}
	})

	t.Run("fewer than two levels", func(t *testing.T) {
		_, err := NewProfile(RawProfile{Levels: validLevels()[:1]})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Reason, "at least 2 levels")
	})

	t.Run("all levels sentinel", func(t *testing.T) {
		_, err := NewProfile(RawProfile{Levels: []Level{
			{PressureHPa: MissingValue, HeightM: MissingValue},
			{PressureHPa: MissingValue, HeightM: MissingValue},
		}})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
	})

	t.Run("height not strictly increasing", func(t *testing.T) {
		levels := validLevels()
		levels[2].HeightM = levels[1].HeightM

		_, err := NewProfile(RawProfile{Levels: levels})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Reason, "height not strictly increasing")
	})

	t.Run("pressure not strictly decreasing", func(t *testing.T) {
		levels := validLevels()
		levels[3].PressureHPa = 925

		_, err := NewProfile(RawProfile{Levels: levels})

		var validationErr *ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Contains(t, validationErr.Reason, "pressure not strictly decreasing")
	})
}

func TestLevelJSONRoundTrip(t *testing.T) {
	original := validLevels()

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded []Level
	require.NoError(t, json.Unmarshal(data, &decoded))

	if diff := cmp.Diff(original, decoded); diff != "" {
		t.Errorf("levels changed across round trip (-want +got):\n%s", diff)
	}
}
