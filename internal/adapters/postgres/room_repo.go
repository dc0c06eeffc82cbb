package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mutcampus/roomfinder/internal/core/domain"
)

// RoomRepo implements ports.RoomRepository with pgx. The table mirrors the
// file-loaded directory; serving reads still come from memory.
type RoomRepo struct {
	db *DB
}

// NewRoomRepo creates a new RoomRepo.
func NewRoomRepo(db *DB) *RoomRepo {
	return &RoomRepo{db: db}
}

// UpsertBatch mirrors the loaded room directory using pgx.Batch. Rooms are
// keyed by name, matching the dedup rule used by search.
func (r *RoomRepo) UpsertBatch(ctx context.Context, rooms []domain.Room) error {
	batch := &pgx.Batch{}
	for _, room := range rooms {
		var lat, lon *float64
		if room.Coordinate != nil {
			lat, lon = &room.Coordinate.Lat, &room.Coordinate.Lon
		}
		batch.Queue(`
			INSERT INTO rooms (name, building, floor, lat, lon, refreshed_at)
			VALUES ($1, $2, $3, $4, $5, now())
			ON CONFLICT (name) DO UPDATE
			SET building = EXCLUDED.building, floor = EXCLUDED.floor,
			    lat = EXCLUDED.lat, lon = EXCLUDED.lon,
			    refreshed_at = EXCLUDED.refreshed_at
		`, room.Name, room.Building, room.Floor, lat, lon)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range rooms {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	return nil
}

// List returns the mirrored rooms sorted by case-insensitive name.
func (r *RoomRepo) List(ctx context.Context) ([]domain.Room, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT name, building, floor, lat, lon
		FROM rooms
		ORDER BY lower(name), name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var rooms []domain.Room
	for rows.Next() {
		var room domain.Room
		var lat, lon *float64
		if err := rows.Scan(&room.Name, &room.Building, &room.Floor, &lat, &lon); err != nil {
			return nil, err
		}
		if lat != nil && lon != nil {
			room.Coordinate = &domain.GeoPoint{Lat: *lat, Lon: *lon}
		}
		rooms = append(rooms, room)
	}
	return rooms, rows.Err()
}

// Count returns the number of mirrored rooms.
func (r *RoomRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM rooms`).Scan(&count)
	return count, err
}
