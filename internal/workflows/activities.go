package workflows

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mutcampus/roomfinder/internal/core/ports"
	"github.com/mutcampus/roomfinder/internal/core/usecases"
	"github.com/mutcampus/roomfinder/internal/ingest"
)

// RefreshActivities holds the activity implementations for the dataset
// refresh workflow. Rooms and Boundary may be nil when no database is
// configured; mirroring then reduces to validating the source files.
type RefreshActivities struct {
	Rooms    ports.RoomRepository
	Boundary ports.BoundaryRepository
	Cache    ports.CacheService
	Events   ports.EventPublisher
}

// MirrorRooms reloads the room directory from file and mirrors it into the
// database. Returns the number of rooms loaded.
func (a *RefreshActivities) MirrorRooms(ctx context.Context, path string) (int, error) {
	rooms, err := ingest.LoadRooms(path)
	if err != nil {
		return 0, fmt.Errorf("reload rooms: %w", err)
	}
	if a.Rooms != nil {
		if err := a.Rooms.UpsertBatch(ctx, rooms); err != nil {
			return 0, fmt.Errorf("mirror rooms: %w", err)
		}
	}
	return len(rooms), nil
}

// MirrorBoundary reloads the boundary ring from file and mirrors it into the
// database. Returns the number of vertices loaded.
func (a *RefreshActivities) MirrorBoundary(ctx context.Context, path string) (int, error) {
	polygon, err := ingest.LoadBoundary(path)
	if err != nil {
		return 0, fmt.Errorf("reload boundary: %w", err)
	}
	if a.Boundary != nil {
		if err := a.Boundary.Replace(ctx, polygon); err != nil {
			return 0, fmt.Errorf("mirror boundary: %w", err)
		}
	}
	return len(polygon), nil
}

// InvalidateCaches drops cached search and suggestion results so the next
// queries see fresh data.
func (a *RefreshActivities) InvalidateCaches(ctx context.Context) error {
	if a.Cache == nil {
		return nil
	}
	return usecases.InvalidateSearchCaches(ctx, a.Cache)
}

// BroadcastRefresh notifies connected clients that the datasets changed.
func (a *RefreshActivities) BroadcastRefresh(ctx context.Context, reason string) error {
	if a.Events == nil {
		slog.Info("datasets refreshed (no broker to notify)", "reason", reason)
		return nil
	}
	payload, err := json.Marshal(map[string]string{
		"event":  "datasets_refreshed",
		"reason": reason,
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return a.Events.PublishBroadcast(ctx, payload)
}
