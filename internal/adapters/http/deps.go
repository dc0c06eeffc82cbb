package http

import (
	"github.com/nats-io/nats.go"

	"github.com/mutcampus/roomfinder/internal/adapters/postgres"
	"github.com/mutcampus/roomfinder/internal/adapters/valkey"
	"github.com/mutcampus/roomfinder/internal/core/ports"
	"github.com/mutcampus/roomfinder/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers. DB, NATS, and
// Cache are optional; handlers degrade when they are nil.
type Dependencies struct {
	Search       *usecases.RoomSearchService
	Geofence     *usecases.GeofenceService
	Routes       *usecases.RouteService
	RoomRepo     ports.RoomRepository
	BoundaryRepo ports.BoundaryRepository
	Events       ports.EventPublisher
	NATS         *nats.Conn
	DB           *postgres.DB
	Cache        *valkey.Cache
}
