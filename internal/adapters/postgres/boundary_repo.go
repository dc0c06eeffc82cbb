package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mutcampus/roomfinder/internal/core/domain"
)

// BoundaryRepo implements ports.BoundaryRepository with pgx. Vertex position
// encodes the ring order, which the point-in-polygon test depends on.
type BoundaryRepo struct {
	db *DB
}

// NewBoundaryRepo creates a new BoundaryRepo.
func NewBoundaryRepo(db *DB) *BoundaryRepo {
	return &BoundaryRepo{db: db}
}

// Replace swaps the mirrored boundary ring for a new one atomically.
func (r *BoundaryRepo) Replace(ctx context.Context, polygon domain.BoundaryPolygon) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM boundary_points`); err != nil {
		return fmt.Errorf("clear boundary: %w", err)
	}

	batch := &pgx.Batch{}
	for i, v := range polygon {
		batch.Queue(`
			INSERT INTO boundary_points (position, lat, lon, refreshed_at)
			VALUES ($1, $2, $3, now())
		`, i, v.Lat, v.Lon)
	}
	br := tx.SendBatch(ctx, batch)
	for range polygon {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("batch exec: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close batch: %w", err)
	}

	return tx.Commit(ctx)
}

// Load returns the mirrored ring in stored order.
func (r *BoundaryRepo) Load(ctx context.Context) (domain.BoundaryPolygon, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT lat, lon FROM boundary_points ORDER BY position
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var polygon domain.BoundaryPolygon
	for rows.Next() {
		var v domain.GeoPoint
		if err := rows.Scan(&v.Lat, &v.Lon); err != nil {
			return nil, err
		}
		polygon = append(polygon, v)
	}
	return polygon, rows.Err()
}

// Count returns the number of mirrored boundary vertices.
func (r *BoundaryRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM boundary_points`).Scan(&count)
	return count, err
}
