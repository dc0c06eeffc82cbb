package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/mutcampus/roomfinder/internal/adapters/http"
	natsadapter "github.com/mutcampus/roomfinder/internal/adapters/nats"
	"github.com/mutcampus/roomfinder/internal/adapters/osrm"
	"github.com/mutcampus/roomfinder/internal/adapters/postgres"
	"github.com/mutcampus/roomfinder/internal/adapters/valkey"
	"github.com/mutcampus/roomfinder/internal/core/ports"
	"github.com/mutcampus/roomfinder/internal/core/usecases"
	"github.com/mutcampus/roomfinder/internal/ingest"
	"github.com/mutcampus/roomfinder/internal/pkg/config"
	"github.com/mutcampus/roomfinder/internal/pkg/logging"
	"github.com/mutcampus/roomfinder/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("roomfinder-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup(logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.OTLPAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Datasets. Rooms are required; a missing boundary degrades to a
	// fail-closed geofence rather than stopping the service.
	rooms, err := ingest.LoadRooms(cfg.Data.RoomsPath)
	if err != nil {
		log.Fatalf("rooms dataset: %v", err)
	}
	boundary, err := ingest.LoadBoundary(cfg.Data.BoundaryPath)
	if err != nil {
		slog.Warn("boundary dataset unavailable, geofence will deny all access", "error", err)
	}
	slog.Info("datasets loaded", "rooms", len(rooms), "boundary_vertices", len(boundary))

	// Database (optional mirror)
	db, err := postgres.New(ctx, cfg.Database.DSN())
	if err != nil {
		slog.Warn("database unavailable, dataset mirror disabled", "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS
	nc, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		nc = nil
	} else {
		defer nc.Close()
	}

	// Raw NATS connection for WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	}

	// Routing client
	routing := osrm.NewClient(cfg.Routing.BaseURL, cfg.Routing.Profile,
		time.Duration(cfg.Routing.TimeoutSeconds)*time.Second)

	// Interface views of the optional adapters. A typed nil must not leak
	// into the interface fields, the services check them against nil.
	var cacheSvc ports.CacheService
	if cache != nil {
		cacheSvc = cache
	}
	var events ports.EventPublisher
	if nc != nil {
		events = nc
	}

	// Use cases
	deps := &http.Dependencies{
		Search:   usecases.NewRoomSearchService(rooms, cfg.Search.FuzzyLimit, cfg.Search.FuzzyThreshold, cacheSvc),
		Geofence: usecases.NewGeofenceService(boundary, events),
		Routes:   usecases.NewRouteService(routing, events, cacheSvc),
		Events:   events,
		NATS:     natsConn,
		DB:       db,
		Cache:    cache,
	}
	if db != nil {
		deps.RoomRepo = postgres.NewRoomRepo(db)
		deps.BoundaryRepo = postgres.NewBoundaryRepo(db)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "Campus Room Finder API",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "http://localhost:3000, http://localhost:5173",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
