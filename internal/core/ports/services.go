package ports

import (
	"context"

	"github.com/mutcampus/roomfinder/internal/core/domain"
)

// RoutingService obtains a walking route from an external directions service.
// A failed call returns an error; the caller decides whether that is fatal.
type RoutingService interface {
	WalkingRoute(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error)
}

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishGeofenceDecision(ctx context.Context, event *domain.GeofenceEvent) error
	PublishRouteComputed(ctx context.Context, event *domain.RouteEvent) error
	PublishRefreshRequest(ctx context.Context, reason string) error
	PublishBroadcast(ctx context.Context, data []byte) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeRefreshRequests(ctx context.Context, handler func(ctx context.Context, reason string) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
}
