// Command genprofile writes a synthetic 26-level sounding fixture for the
// test suites and for exercising the analysis cycle without a model data
// endpoint. The profile is a standard atmosphere with low-level moisture
// and instability added, so the delegate produces nontrivial indices.
//
// Usage:
//
//	go run ./cmd/genprofile -out data/mock/sample_sounding.txt
//	go run ./cmd/genprofile -format json -out data/mock/sample_sounding.json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
)

// Column order matches the text sounding format: pres hght tmpc dwpc wdir wspd.
var (
	pres = []float64{1000, 975, 950, 925, 900, 875, 850, 825, 800, 775, 750, 725, 700,
		650, 600, 550, 500, 450, 400, 350, 300, 250, 200, 150, 100, 50}
	hght = []float64{0, 300, 600, 900, 1200, 1500, 1800, 2100, 2400, 2700, 3000, 3300, 3600,
		4200, 4800, 5500, 6000, 6600, 7200, 8000, 9000, 10000, 11000, 13000, 16000, 20000}
	tmpc = []float64{30, 28, 26, 24, 22, 20, 18, 16, 12, 8, 6, 4, 2,
		-2, -8, -15, -20, -25, -33, -40, -50, -55, -60, -65, -70, -75}
	dwpc = []float64{22, 21, 20, 18, 16, 14, 10, 6, 2, -2, -6, -10, -15,
		-20, -25, -30, -35, -40, -45, -50, -55, -60, -65, -70, -75, -80}
	wdir = []float64{180, 185, 190, 200, 210, 220, 230, 240, 250, 255, 260, 265, 270,
		275, 280, 285, 290, 295, 300, 300, 300, 300, 300, 300, 300, 300}
	wspd = []float64{5, 10, 15, 20, 25, 30, 35, 40, 45, 50, 55, 60, 65,
		70, 75, 80, 85, 90, 95, 100, 105, 110, 115, 120, 125, 130}
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	out := flag.String("out", "", "output path for the sounding fixture")
	format := flag.String("format", "text", "output format: text or json")
	lat := flag.Float64("lat", 35.2220, "latitude stamped on the json profile")
	lon := flag.Float64("lon", -97.4395, "longitude stamped on the json profile")
	flag.Parse()

	if *out == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out")
	}

	levels := make([]domain.Level, len(pres))
	for i := range pres {
		levels[i] = domain.Level{
			PressureHPa: pres[i],
			HeightM:     hght[i],
			TempC:       tmpc[i],
			DewpointC:   dwpc[i],
			WindDirDeg:  wdir[i],
			WindSpeedKt: wspd[i],
		}
	}

	if err := os.MkdirAll(filepath.Dir(*out), 0o755); err != nil {
		return err
	}

	switch *format {
	case "text":
		if err := writeText(*out, levels); err != nil {
			return err
		}
	case "json":
		raw := domain.RawProfile{
			Model:        "gfs",
			RunTime:      time.Date(2024, time.April, 27, 12, 0, 0, 0, time.UTC),
			ForecastHour: 6,
			Lat:          *lat,
			Lon:          *lon,
			Levels:       levels,
		}
		if err := writeJSON(*out, raw); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format %q", *format)
	}

	log.Printf("wrote %d-level sounding: %s", len(levels), *out)
	return nil
}

func writeText(path string, levels []domain.Level) error {
	var b strings.Builder
	b.WriteString("# synthetic sounding, standard atmosphere with low-level moisture\n")
	b.WriteString("PRES HGHT TMPC DWPC WDIR WSPD\n")
	for _, l := range levels {
		fmt.Fprintf(&b, "%.1f %.1f %.1f %.1f %.1f %.1f\n",
			l.PressureHPa, l.HeightM, l.TempC, l.DewpointC, l.WindDirDeg, l.WindSpeedKt)
	}
	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o600)
}
