// Command analyze runs a single analysis cycle from the command line and
// prints the report as JSON. The sounding comes either from a local text
// file (-file) or from the configured model data endpoint (-lat/-lon).
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/adapter/modeldata"
	"github.com/couchcryptid/sounding-analysis-service/internal/adapter/sharppy"
	"github.com/couchcryptid/sounding-analysis-service/internal/adapter/visualcrossing"
	"github.com/couchcryptid/sounding-analysis-service/internal/config"
	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
	"github.com/couchcryptid/sounding-analysis-service/internal/observability"
	"github.com/couchcryptid/sounding-analysis-service/internal/pipeline"
	"github.com/joho/godotenv"
)

func main() {
	file := flag.String("file", "", "path to a sounding text file (skips the model data fetch)")
	lat := flag.Float64("lat", 0, "latitude of the sounding point")
	lon := flag.Float64("lon", 0, "longitude of the sounding point")
	model := flag.String("model", "", "forecast model (defaults to DEFAULT_MODEL)")
	hour := flag.Int("hour", 0, "forecast lead time in hours")
	timeout := flag.Duration("timeout", 30*time.Second, "overall deadline for the cycle")
	flag.Parse()

	if *file == "" && *lat == 0 && *lon == 0 {
		fmt.Fprintln(os.Stderr, "either -file or -lat/-lon is required")
		flag.Usage()
		os.Exit(2)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger("error", "text")
	metrics := observability.NewMetricsForTesting()

	analyzer := sharppy.NewClient(cfg.AnalysisURL, cfg.AnalysisTimeout, metrics, logger)

	var conditions domain.ConditionsProvider
	if cfg.VisualCrossingEnabled {
		conditions = visualcrossing.NewClient(cfg.VisualCrossingKey, cfg.VisualCrossingTimeout, metrics, logger)
	}

	fetcher := modeldata.NewClient(cfg.ModelDataURL, cfg.ModelDataTimeout, logger)
	svc := pipeline.New(fetcher, analyzer, analyzer, conditions, nil, logger, metrics)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var report domain.Report
	if *file != "" {
		raw, err := modeldata.LoadFile(*file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "load sounding: %v\n", err)
			os.Exit(1)
		}
		raw.Lat, raw.Lon = *lat, *lon
		report, err = svc.AnalyzeProfile(ctx, raw)
		if err != nil {
			fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
			os.Exit(1)
		}
	} else {
		m := *model
		if m == "" {
			m = cfg.DefaultModel
		}
		report, err = svc.Analyze(ctx, pipeline.Request{
			Model:        m,
			Lat:          *lat,
			Lon:          *lon,
			ForecastHour: *hour,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "analyze: %v\n", err)
			os.Exit(1)
		}
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "encode report: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(out))
}
