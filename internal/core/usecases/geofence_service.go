package usecases

import (
	"context"
	"log/slog"
	"time"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/core/ports"
	"github.com/mutcampus/roomfinder/internal/pkg/geospatial"
	"github.com/mutcampus/roomfinder/internal/pkg/metrics"
)

// Denial reasons returned by CheckAccess. A missing boundary is diagnosed
// distinctly from an outside position because the remediation differs: one is
// an admin data problem, the other a user location problem.
const (
	ReasonLocationUnavailable = "location unavailable"
	ReasonBoundaryUnavailable = "boundary data unavailable"
	ReasonOutsideBoundary     = "outside boundary"
)

// GeofenceService decides whether a reported location is inside the campus
// boundary. The boundary is fixed at construction; checks are read-only and
// safe for concurrent use.
type GeofenceService struct {
	boundary domain.BoundaryPolygon
	bounds   domain.Bounds
	events   ports.EventPublisher
}

// NewGeofenceService creates a geofence gate over a loaded boundary ring.
// An empty ring is valid and fails every check closed.
func NewGeofenceService(boundary domain.BoundaryPolygon, events ports.EventPublisher) *GeofenceService {
	return &GeofenceService{
		boundary: boundary,
		bounds:   geospatial.PolygonBounds(boundary),
		events:   events,
	}
}

// CheckAccess evaluates the geofence gate. Outcomes short-circuit in order:
// no location, no boundary, outside boundary, allowed. Denial is an expected
// result, never an error.
func (s *GeofenceService) CheckAccess(ctx context.Context, loc *domain.UserLocation) domain.AccessDecision {
	decision := s.evaluate(loc)
	s.record(ctx, loc, decision)
	return decision
}

func (s *GeofenceService) evaluate(loc *domain.UserLocation) domain.AccessDecision {
	if loc == nil {
		metrics.GeofenceChecks.WithLabelValues("no_location").Inc()
		return domain.AccessDecision{Allowed: false, Reason: ReasonLocationUnavailable}
	}
	if s.boundary.Empty() {
		metrics.GeofenceChecks.WithLabelValues("no_boundary").Inc()
		return domain.AccessDecision{Allowed: false, Reason: ReasonBoundaryUnavailable}
	}
	if !geospatial.PointInPolygon(loc.Lat, loc.Lon, s.boundary) {
		metrics.GeofenceChecks.WithLabelValues("outside").Inc()
		return domain.AccessDecision{Allowed: false, Reason: ReasonOutsideBoundary}
	}
	metrics.GeofenceChecks.WithLabelValues("allowed").Inc()
	return domain.AccessDecision{Allowed: true}
}

// record publishes an audit event for the decision. Publishing is best
// effort; a broker outage never affects the decision itself.
func (s *GeofenceService) record(ctx context.Context, loc *domain.UserLocation, decision domain.AccessDecision) {
	if s.events == nil {
		return
	}
	event := &domain.GeofenceEvent{
		Time:    time.Now().UTC(),
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
	}
	if loc != nil {
		event.Location = &domain.GeoPoint{Lat: loc.Lat, Lon: loc.Lon}
	}
	if err := s.events.PublishGeofenceDecision(ctx, event); err != nil {
		slog.Warn("publish geofence decision", "error", err)
	}
}

// Boundary returns the boundary ring in source order.
func (s *GeofenceService) Boundary() domain.BoundaryPolygon {
	return s.boundary
}

// Bounds returns the boundary's axis-aligned bounding box. The zero value
// means no boundary is loaded.
func (s *GeofenceService) Bounds() domain.Bounds {
	return s.bounds
}
