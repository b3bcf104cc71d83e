package modeldata

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/couchcryptid/sounding-analysis-service/internal/domain"
)

// LoadFile reads a sounding from a whitespace-delimited text file with six
// columns per level: pressure (hPa), height (m), temperature (C), dewpoint
// (C), wind direction (deg), wind speed (kt). Lines starting with # are
// comments; a non-numeric first line is treated as a column header and
// skipped. Missing values use the -9999 sentinel and pass through for the
// normalizer to drop.
func LoadFile(path string) (domain.RawProfile, error) {
	f, err := os.Open(path)
	if err != nil {
		return domain.RawProfile{}, &domain.FetchError{Source: "file", Err: err}
	}
	defer f.Close()

	var levels []domain.Level
	lineNo := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != 6 {
			return domain.RawProfile{}, &domain.ParseError{
				Source: "file",
				Err:    fmt.Errorf("line %d: expected 6 columns, got %d", lineNo, len(fields)),
			}
		}

		values := make([]float64, 6)
		parsed := true
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				parsed = false
				break
			}
			values[i] = v
		}
		if !parsed {
			// Allow exactly one non-numeric line as a column header.
			if len(levels) == 0 {
				continue
			}
			return domain.RawProfile{}, &domain.ParseError{
				Source: "file",
				Err:    fmt.Errorf("line %d: non-numeric value in %q", lineNo, line),
			}
		}

		levels = append(levels, domain.Level{
			PressureHPa: values[0],
			HeightM:     values[1],
			TempC:       values[2],
			DewpointC:   values[3],
			WindDirDeg:  values[4],
			WindSpeedKt: values[5],
		})
	}
	if err := scanner.Err(); err != nil {
		return domain.RawProfile{}, &domain.FetchError{Source: "file", Err: err}
	}
	if len(levels) == 0 {
		return domain.RawProfile{}, &domain.ParseError{
			Source: "file",
			Err:    fmt.Errorf("no sounding levels in %s", path),
		}
	}

	return domain.RawProfile{
		Model:  "file",
		Levels: levels,
	}, nil
}
