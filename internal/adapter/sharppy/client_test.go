package sharppy

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 2*time.Second, observability.NewMetricsForTesting(), slog.Default())
}

func testProfile(t *testing.T) domain.SoundingProfile {
	t.Helper()
	profile, err := domain.NewProfile(domain.RawProfile{
		Model: "gfs",
		Lat:   35.22,
		Lon:   -97.44,
		Levels: []domain.Level{
			{PressureHPa: 1000, HeightM: 0, TempC: 30, DewpointC: 22, WindDirDeg: 180, WindSpeedKt: 5},
			{PressureHPa: 850, HeightM: 1800, TempC: 18, DewpointC: 10, WindDirDeg: 230, WindSpeedKt: 35},
			{PressureHPa: 500, HeightM: 6000, TempC: -20, DewpointC: -35, WindDirDeg: 290, WindSpeedKt: 85},
		},
	})
	require.NoError(t, err)
	return profile
}

func TestAnalyze(t *testing.T) {
	t.Run("maps delegate response to indices", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/v1/analyze", r.URL.Path)

			var req analyzeRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, 35.22, req.Lat)
			assert.Len(t, req.Levels, 3)

			json.NewEncoder(w).Encode(analyzeResponse{
				Indices: map[string]domain.IndexValue{
					domain.IndexCAPE: {Value: 2746, Unit: "J/kg"},
					domain.IndexSTP:  {Value: 3.2},
				},
			})
		}))

		indices, err := client.Analyze(context.Background(), testProfile(t))
		require.NoError(t, err)

		cape, ok := indices.Value(domain.IndexCAPE)
		require.True(t, ok)
		assert.Equal(t, 2746.0, cape)
	})

	t.Run("partial response leaves other indices absent", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			json.NewEncoder(w).Encode(analyzeResponse{
				Indices: map[string]domain.IndexValue{
					domain.IndexCAPE: {Value: 1500, Unit: "J/kg"},
				},
			})
		}))

		indices, err := client.Analyze(context.Background(), testProfile(t))
		require.NoError(t, err)

		_, ok := indices.Value(domain.IndexSTP)
		assert.False(t, ok)
		assert.Contains(t, indices.MissingCore(), domain.IndexSTP)
	})

	t.Run("server error maps to unavailable", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))

		_, err := client.Analyze(context.Background(), testProfile(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)

		var analysisErr *domain.AnalysisError
		assert.ErrorAs(t, err, &analysisErr)
	})

	t.Run("rejection is an analysis error but not unavailable", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, "profile rejected", http.StatusBadRequest)
		}))

		_, err := client.Analyze(context.Background(), testProfile(t))
		require.Error(t, err)

		var analysisErr *domain.AnalysisError
		assert.ErrorAs(t, err, &analysisErr)
		assert.NotErrorIs(t, err, domain.ErrAnalysisUnavailable)
	})

	t.Run("unreachable delegate maps to unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close() // refused from here on
		client := NewClient(srv.URL, time.Second, observability.NewMetricsForTesting(), slog.Default())

		_, err := client.Analyze(context.Background(), testProfile(t))
		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
	})
}

func TestAnalyzeCircuitBreakerOpens(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	profile := testProfile(t)

	// Five consecutive failures trip the breaker.
	for i := 0; i < 5; i++ {
		_, err := client.Analyze(context.Background(), profile)
		require.Error(t, err)
	}

	_, err := client.Analyze(context.Background(), profile)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
	assert.Contains(t, err.Error(), "circuit open")
}

func TestPing(t *testing.T) {
	t.Run("healthy delegate", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/healthz", r.URL.Path)
			w.WriteHeader(http.StatusOK)
		}))

		require.NoError(t, client.Ping(context.Background()))
	})

	t.Run("unhealthy delegate", func(t *testing.T) {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		}))

		err := client.Ping(context.Background())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "delegate unhealthy")
	})
}
