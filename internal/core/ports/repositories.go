package ports

import (
	"context"

	"github.com/mutcampus/roomfinder/internal/core/domain"
)

// RoomRepository mirrors the room directory into persistent storage. The
// in-memory collection loaded from file stays the serving source of truth;
// the mirror exists for operational stats and offline inspection.
type RoomRepository interface {
	UpsertBatch(ctx context.Context, rooms []domain.Room) error
	List(ctx context.Context) ([]domain.Room, error)
	Count(ctx context.Context) (int, error)
}

// BoundaryRepository mirrors the campus boundary ring.
type BoundaryRepository interface {
	Replace(ctx context.Context, polygon domain.BoundaryPolygon) error
	Load(ctx context.Context) (domain.BoundaryPolygon, error)
	Count(ctx context.Context) (int, error)
}
