package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
	"github.com/couchcryptid/sounding-analysis-service/internal/pipeline"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockFetcher struct {
	raw domain.RawProfile
	err error
	got pipeline.Request
}

func (m *mockFetcher) FetchProfile(_ context.Context, model string, lat, lon float64, hour int) (domain.RawProfile, error) {
	m.got = pipeline.Request{Model: model, Lat: lat, Lon: lon, ForecastHour: hour}
	if m.err != nil {
		return domain.RawProfile{}, m.err
	}
	return m.raw, nil
}

type mockAnalyzer struct {
	indices domain.DerivedIndices
	err     error
	calls   int
}

func (m *mockAnalyzer) Analyze(_ context.Context, _ domain.SoundingProfile) (domain.DerivedIndices, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.indices, nil
}

type mockHealth struct {
	err error
}

func (m *mockHealth) Ping(_ context.Context) error { return m.err }

type mockConditions struct {
	obs   *domain.ObservedConditions
	err   error
	calls int
}

func (m *mockConditions) CurrentConditions(_ context.Context, _, _ float64) (*domain.ObservedConditions, error) {
	m.calls++
	return m.obs, m.err
}

type mockPublisher struct {
	published []domain.Report
	err       error
}

func (m *mockPublisher) PublishReport(_ context.Context, report domain.Report) error {
	if m.err != nil {
		return m.err
	}
	m.published = append(m.published, report)
	return nil
}

func validRaw() domain.RawProfile {
	return domain.RawProfile{
		Model:        "gfs",
		RunTime:      time.Date(2024, 4, 27, 12, 0, 0, 0, time.UTC),
		ForecastHour: 6,
		Lat:          35.22,
		Lon:          -97.44,
		Levels: []domain.Level{
			{PressureHPa: 1000, HeightM: 0, TempC: 30, DewpointC: 22, WindDirDeg: 180, WindSpeedKt: 5},
			{PressureHPa: 850, HeightM: 1800, TempC: 18, DewpointC: 10, WindDirDeg: 230, WindSpeedKt: 35},
			{PressureHPa: 500, HeightM: 6000, TempC: -20, DewpointC: -35, WindDirDeg: 290, WindSpeedKt: 85},
		},
	}
}

// delegateIndices are fixed mock outputs; the cycle must pass them through
// to the report without modification.
func delegateIndices() domain.DerivedIndices {
	return domain.DerivedIndices{
		domain.IndexCAPE:      {Value: 2746, Unit: "J/kg"},
		domain.IndexSTP:       {Value: 3.2},
		domain.IndexLCL:       {Value: 950, Unit: "m"},
		domain.IndexLFC:       {Value: 1080, Unit: "m"},
		domain.IndexShear06km: {Value: 32, Unit: "kt"},
	}
}

func newService(f *mockFetcher, a *mockAnalyzer, c domain.ConditionsProvider, p pipeline.ReportPublisher) *pipeline.Service {
	return pipeline.New(f, a, &mockHealth{}, c, p, slog.Default(), observability.NewMetricsForTesting())
}

// --- tests ---

func TestAnalyzeHappyPath(t *testing.T) {
	domain.SetClock(clockwork.NewFakeClockAt(time.Date(2024, 4, 27, 18, 30, 0, 0, time.UTC)))
	defer domain.SetClock(nil)

	fetcher := &mockFetcher{raw: validRaw()}
	analyzer := &mockAnalyzer{indices: delegateIndices()}
	svc := newService(fetcher, analyzer, nil, nil)

	report, err := svc.Analyze(context.Background(), pipeline.Request{
		Model: "gfs", Lat: 35.22, Lon: -97.44, ForecastHour: 6,
	})
	require.NoError(t, err)

	assert.Equal(t, "gfs", fetcher.got.Model)
	assert.Equal(t, 6, fetcher.got.ForecastHour)
	assert.Equal(t, 1, analyzer.calls)

	cape, ok := report.Indices.Value(domain.IndexCAPE)
	require.True(t, ok)
	assert.Equal(t, 2746.0, cape)
	stp, ok := report.Indices.Value(domain.IndexSTP)
	require.True(t, ok)
	assert.Equal(t, 3.2, stp)
	lcl, ok := report.Indices.Value(domain.IndexLCL)
	require.True(t, ok)
	assert.Equal(t, 950.0, lcl)
	lfc, ok := report.Indices.Value(domain.IndexLFC)
	require.True(t, ok)
	assert.Equal(t, 1080.0, lfc)
	shear, ok := report.Indices.Value(domain.IndexShear06km)
	require.True(t, ok)
	assert.Equal(t, 32.0, shear)

	assert.Equal(t, []string{domain.IndexCIN, domain.IndexEL, domain.IndexLapseRate03km, domain.IndexSCP}, report.Missing)
	assert.Nil(t, report.Conditions)
	assert.Equal(t, time.Date(2024, 4, 27, 18, 30, 0, 0, time.UTC), report.GeneratedAt)
}

func TestAnalyzeErrorPropagation(t *testing.T) {
	t.Run("fetch error", func(t *testing.T) {
		fetchErr := &domain.FetchError{Source: "modeldata", Err: errors.New("timeout")}
		svc := newService(&mockFetcher{err: fetchErr}, &mockAnalyzer{}, nil, nil)

		_, err := svc.Analyze(context.Background(), pipeline.Request{Model: "gfs"})

		var got *domain.FetchError
		require.ErrorAs(t, err, &got)
	})

	t.Run("validation error from bad profile", func(t *testing.T) {
		raw := validRaw()
		raw.Levels = raw.Levels[:1]
		analyzer := &mockAnalyzer{}
		svc := newService(&mockFetcher{raw: raw}, analyzer, nil, nil)

		_, err := svc.Analyze(context.Background(), pipeline.Request{Model: "gfs"})

		var got *domain.ValidationError
		require.ErrorAs(t, err, &got)
		assert.Zero(t, analyzer.calls, "invalid profile must not reach the delegate")
	})

	t.Run("analysis error", func(t *testing.T) {
		analysisErr := &domain.AnalysisError{Err: domain.ErrAnalysisUnavailable}
		svc := newService(&mockFetcher{raw: validRaw()}, &mockAnalyzer{err: analysisErr}, nil, nil)

		_, err := svc.Analyze(context.Background(), pipeline.Request{Model: "gfs"})
		assert.ErrorIs(t, err, domain.ErrAnalysisUnavailable)
	})
}

func TestAnalyzeConditionsDegradeGracefully(t *testing.T) {
	t.Run("conditions attached when available", func(t *testing.T) {
		conditions := &mockConditions{obs: &domain.ObservedConditions{TempC: 29.1}}
		svc := newService(&mockFetcher{raw: validRaw()}, &mockAnalyzer{indices: delegateIndices()}, conditions, nil)

		report, err := svc.Analyze(context.Background(), pipeline.Request{Model: "gfs", Lat: 35.22, Lon: -97.44})
		require.NoError(t, err)

		require.NotNil(t, report.Conditions)
		assert.Equal(t, 29.1, report.Conditions.TempC)
		assert.Equal(t, 1, conditions.calls)
	})

	t.Run("conditions failure does not fail the report", func(t *testing.T) {
		conditions := &mockConditions{err: &domain.FetchError{Source: "visualcrossing", Err: errors.New("down")}}
		svc := newService(&mockFetcher{raw: validRaw()}, &mockAnalyzer{indices: delegateIndices()}, conditions, nil)

		report, err := svc.Analyze(context.Background(), pipeline.Request{Model: "gfs"})
		require.NoError(t, err)
		assert.Nil(t, report.Conditions)
	})
}

func TestAnalyzePublishing(t *testing.T) {
	t.Run("publishes finished report", func(t *testing.T) {
		publisher := &mockPublisher{}
		svc := newService(&mockFetcher{raw: validRaw()}, &mockAnalyzer{indices: delegateIndices()}, nil, publisher)

		report, err := svc.Analyze(context.Background(), pipeline.Request{Model: "gfs"})
		require.NoError(t, err)

		require.Len(t, publisher.published, 1)
		assert.Equal(t, report.ID, publisher.published[0].ID)
	})

	t.Run("publish failure does not fail the report", func(t *testing.T) {
		publisher := &mockPublisher{err: errors.New("broker down")}
		svc := newService(&mockFetcher{raw: validRaw()}, &mockAnalyzer{indices: delegateIndices()}, nil, publisher)

		report, err := svc.Analyze(context.Background(), pipeline.Request{Model: "gfs"})
		require.NoError(t, err)
		assert.NotEmpty(t, report.ID)
	})
}

func TestAnalyzeProfileBypassesFetcher(t *testing.T) {
	fetcher := &mockFetcher{err: errors.New("must not be called")}
	svc := newService(fetcher, &mockAnalyzer{indices: delegateIndices()}, nil, nil)

	report, err := svc.AnalyzeProfile(context.Background(), validRaw())
	require.NoError(t, err)
	assert.Equal(t, "gfs", report.Model)
	assert.Empty(t, fetcher.got.Model)
}

func TestCheckReadiness(t *testing.T) {
	t.Run("ready when delegate answers", func(t *testing.T) {
		svc := pipeline.New(&mockFetcher{}, &mockAnalyzer{}, &mockHealth{}, nil, nil, slog.Default(), observability.NewMetricsForTesting())
		assert.NoError(t, svc.CheckReadiness(context.Background()))
	})

	t.Run("not ready when delegate is down", func(t *testing.T) {
		svc := pipeline.New(&mockFetcher{}, &mockAnalyzer{}, &mockHealth{err: errors.New("unreachable")}, nil, nil, slog.Default(), observability.NewMetricsForTesting())
		assert.Error(t, svc.CheckReadiness(context.Background()))
	})
}
