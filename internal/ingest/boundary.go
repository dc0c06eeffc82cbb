package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/pkg/metrics"
)

var (
	// Strict WKT point: POINT(lon lat), case-insensitive, whitespace tolerant.
	wktPointRe = regexp.MustCompile(`(?i)POINT\s*\(\s*(-?\d+\.\d+)\s+(-?\d+\.\d+)\s*\)`)
	// Fallback: first two decimal numbers in the field, lon first.
	decimalPairRe = regexp.MustCompile(`(-?\d+\.\d+)[,\s]+(-?\d+\.\d+)`)
)

// LoadBoundary reads the campus boundary ring from a header-described CSV
// file. Rows are appended in source order; order defines the polygon ring and
// is never re-sorted. Each row may carry its coordinate as a WKT point, as
// lat/latitude/y + lon/longitude/x columns, or not at all, in which case the
// row is skipped with a warning. A missing file yields a nil polygon and an
// error wrapping fs.ErrNotExist, distinguishable from an empty-but-present
// source.
func LoadBoundary(path string) (domain.BoundaryPolygon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open boundary file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read boundary header %s: %w", path, err)
	}
	cols := indexColumns(header)

	var poly domain.BoundaryPolygon
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			slog.Warn("skipping unreadable boundary row", "line", line, "error", err)
			metrics.DatasetRowsSkipped.WithLabelValues("boundary").Inc()
			continue
		}

		lat, lon, err := parseCoordinateRow(record, cols)
		if err != nil {
			slog.Warn("skipping boundary row without coordinates", "line", line, "error", err)
			metrics.DatasetRowsSkipped.WithLabelValues("boundary").Inc()
			continue
		}
		poly = append(poly, domain.GeoPoint{Lat: lat, Lon: lon})
	}

	metrics.DatasetRowsLoaded.WithLabelValues("boundary").Add(float64(len(poly)))
	slog.Info("boundary loaded", "path", path, "vertices", len(poly))
	return poly, nil
}

// parseCoordinateRow extracts (lat, lon) from a single CSV row. The WKT field
// wins when present and parseable; note WKT encodes lon before lat.
func parseCoordinateRow(record []string, cols map[string]int) (lat, lon float64, err error) {
	wkt := strings.TrimSpace(firstField(record, cols, "WKT", "wkt"))
	if wkt != "" {
		m := wktPointRe.FindStringSubmatch(wkt)
		if m == nil {
			m = decimalPairRe.FindStringSubmatch(wkt)
		}
		if m != nil {
			lon, _ = strconv.ParseFloat(m[1], 64)
			lat, _ = strconv.ParseFloat(m[2], 64)
			return lat, lon, nil
		}
	}

	latStr := firstField(record, cols, "lat", "latitude", "y")
	lonStr := firstField(record, cols, "lon", "longitude", "x")
	if latStr == "" || lonStr == "" {
		return 0, 0, errors.New("no coordinate columns present")
	}

	lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("latitude %q: %w", latStr, err)
	}
	lon, err = strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("longitude %q: %w", lonStr, err)
	}
	return lat, lon, nil
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.TrimSpace(col)] = i
	}
	return m
}

// firstField returns the first non-empty value among the named columns.
func firstField(record []string, cols map[string]int, names ...string) string {
	for _, name := range names {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			continue
		}
		if v := strings.TrimSpace(record[idx]); v != "" {
			return v
		}
	}
	return ""
}
