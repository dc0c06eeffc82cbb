package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/core/ports"
	"github.com/mutcampus/roomfinder/internal/pkg/geospatial"
	"github.com/mutcampus/roomfinder/internal/pkg/metrics"
)

// RouteService computes walking routes between a user position and a room.
// Any routing failure resolves to "no route" so callers can fall back to
// rendering the two endpoints without a path.
type RouteService struct {
	routing ports.RoutingService
	events  ports.EventPublisher
	cache   ports.CacheService
}

// NewRouteService creates a new RouteService.
func NewRouteService(routing ports.RoutingService, events ports.EventPublisher, cache ports.CacheService) *RouteService {
	return &RouteService{routing: routing, events: events, cache: cache}
}

// WalkingRoute returns the normalized walking route from one point to
// another, or nil when the routing service is unreachable, times out, or
// returns no usable route.
func (s *RouteService) WalkingRoute(ctx context.Context, from, to domain.GeoPoint) *domain.RouteResult {
	cacheKey := fmt.Sprintf("routes:walk:%.5f:%.5f:%.5f:%.5f", from.Lat, from.Lon, to.Lat, to.Lon)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var route domain.RouteResult
			if err := json.Unmarshal(data, &route); err == nil {
				metrics.CacheHits.WithLabelValues("route").Inc()
				return &route
			}
		}
		metrics.CacheMisses.WithLabelValues("route").Inc()
	}

	route, err := s.routing.WalkingRoute(ctx, from, to)
	if err != nil || route == nil {
		slog.Warn("walking route unavailable",
			"from_lat", from.Lat, "from_lon", from.Lon,
			"to_lat", to.Lat, "to_lon", to.Lon,
			"error", err)
		metrics.RouteRequests.WithLabelValues("unavailable").Inc()
		return nil
	}
	metrics.RouteRequests.WithLabelValues("ok").Inc()

	// Cache for 5 minutes
	if s.cache != nil {
		if data, err := json.Marshal(route); err == nil {
			_ = s.cache.Set(ctx, cacheKey, data, 300)
		}
	}

	s.publish(ctx, from, to, route)
	return route
}

func (s *RouteService) publish(ctx context.Context, from, to domain.GeoPoint, route *domain.RouteResult) {
	if s.events == nil {
		return
	}
	event := &domain.RouteEvent{
		Time:            time.Now().UTC(),
		From:            from,
		To:              to,
		DistanceKm:      route.DistanceKm,
		DurationMinutes: route.DurationMinutes,
		CrowFliesMeters: geospatial.Haversine(from.Lat, from.Lon, to.Lat, to.Lon),
	}
	if err := s.events.PublishRouteComputed(ctx, event); err != nil {
		slog.Warn("publish route event", "error", err)
	}
}
