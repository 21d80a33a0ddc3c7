package data

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/quantfold/walkforward/internal/domain"
)

// timeLayouts are tried in order when parsing the time column.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// LoadCSV reads an OHLCV series from a headered CSV file with columns
// time, open, high, low, close, volume (in any order, extra columns
// ignored). The loaded series must satisfy the strictly-increasing
// timestamp invariant or an error is returned.
func LoadCSV(path string) (domain.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: need a header row and at least one bar", path)
	}

	cols := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"time", "open", "high", "low", "close", "volume"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s: missing required column %q", path, required)
		}
	}

	series := make(domain.Series, 0, len(rows)-1)
	for lineNo, row := range rows[1:] {
		bar, err := parseBar(row, cols)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", path, lineNo+2, err)
		}
		series = append(series, bar)
	}

	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return series, nil
}

func parseBar(row []string, cols map[string]int) (domain.Bar, error) {
	ts, err := parseTime(row[cols["time"]])
	if err != nil {
		return domain.Bar{}, err
	}

	var bar domain.Bar
	bar.Time = ts
	for _, field := range []struct {
		name string
		dst  *float64
	}{
		{"open", &bar.Open},
		{"high", &bar.High},
		{"low", &bar.Low},
		{"close", &bar.Close},
		{"volume", &bar.Volume},
	} {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[cols[field.name]]), 64)
		if err != nil {
			return domain.Bar{}, fmt.Errorf("parsing %s: %w", field.name, err)
		}
		*field.dst = v
	}
	return bar, nil
}

func parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	// Unix seconds are common in exported exchange data.
	if unix, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}

	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time value %q", raw)
}
