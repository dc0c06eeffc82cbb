// Command ingestor performs a one-shot load of the campus datasets and
// mirrors them into Postgres. The API server loads the same files itself at
// startup; this tool exists to seed the mirror and to validate new dataset
// drops before they go live.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/mutcampus/roomfinder/internal/adapters/postgres"
	"github.com/mutcampus/roomfinder/internal/ingest"
	"github.com/mutcampus/roomfinder/internal/pkg/config"
	"github.com/mutcampus/roomfinder/internal/pkg/logging"
)

func main() {
	cfg, err := config.Load("roomfinder-ingestor")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup("info", "json")

	ctx := context.Background()

	rooms, err := ingest.LoadRooms(cfg.Data.RoomsPath)
	if err != nil {
		log.Fatalf("rooms dataset: %v", err)
	}
	boundary, err := ingest.LoadBoundary(cfg.Data.BoundaryPath)
	if err != nil {
		log.Fatalf("boundary dataset: %v", err)
	}

	slog.Info("datasets parsed",
		"rooms", len(rooms), "boundary_vertices", len(boundary))

	if os.Getenv("VALIDATE_ONLY") != "" {
		slog.Info("validation only, skipping mirror")
		return
	}

	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	if err := postgres.NewRoomRepo(db).UpsertBatch(ctx, rooms); err != nil {
		log.Fatalf("mirror rooms: %v", err)
	}
	if err := postgres.NewBoundaryRepo(db).Replace(ctx, boundary); err != nil {
		log.Fatalf("mirror boundary: %v", err)
	}

	slog.Info("mirror updated")
}
