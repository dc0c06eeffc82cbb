// Package ingest loads the two campus datasets (room directory, boundary
// polygon) from their raw file formats into validated domain entities.
// Individual malformed rows are skipped with a warning; only a source that is
// missing or unparsable at the top level fails the whole load.
package ingest

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/pkg/metrics"
)

// roomRecord mirrors one entry of the rooms JSON file. Every field is
// optional in the source data.
type roomRecord struct {
	Name     string   `json:"room_name"`
	Building string   `json:"building"`
	Floor    any      `json:"floor"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
}

// LoadRooms reads the room directory from a JSON file. The result is sorted
// ascending by case-insensitive name (stable, source order breaks ties).
// A missing or unparsable file yields a nil slice and an error; callers must
// treat that as "data unavailable", not as an empty directory.
func LoadRooms(path string) ([]domain.Room, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rooms file: %w", err)
	}

	var records []roomRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parse rooms file %s: %w", path, err)
	}

	rooms := make([]domain.Room, 0, len(records))
	for _, rec := range records {
		room := domain.Room{
			Name:     rec.Name,
			Building: rec.Building,
			Floor:    floorString(rec.Floor),
		}
		if rec.Lat != nil && rec.Lon != nil {
			room.Coordinate = &domain.GeoPoint{Lat: *rec.Lat, Lon: *rec.Lon}
		}
		rooms = append(rooms, room)
	}

	sort.SliceStable(rooms, func(i, j int) bool {
		return strings.ToLower(rooms[i].Name) < strings.ToLower(rooms[j].Name)
	})

	metrics.DatasetRowsLoaded.WithLabelValues("rooms").Add(float64(len(rooms)))
	return rooms, nil
}

// floorString normalizes the floor field to a string. Source data carries it
// as a string, a number, or null.
func floorString(v any) string {
	switch f := v.(type) {
	case nil:
		return ""
	case string:
		return f
	case float64:
		return strconv.FormatFloat(f, 'f', -1, 64)
	default:
		return fmt.Sprint(f)
	}
}
