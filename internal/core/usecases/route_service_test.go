package usecases_test

import (
	"context"
	"errors"
	"testing"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/core/usecases"
)

// --- Mock RoutingService ---

type mockRouting struct {
	walkingRouteFn func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error)
}

func (m *mockRouting) WalkingRoute(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
	if m.walkingRouteFn != nil {
		return m.walkingRouteFn(ctx, from, to)
	}
	return nil, nil
}

func TestRouteService_Success(t *testing.T) {
	routing := &mockRouting{
		walkingRouteFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
			return &domain.RouteResult{DistanceKm: 1.23, DurationMinutes: 10.3}, nil
		},
	}
	svc := usecases.NewRouteService(routing, nil, nil)

	route := svc.WalkingRoute(context.Background(),
		domain.GeoPoint{Lat: -0.75, Lon: 37.15},
		domain.GeoPoint{Lat: -0.74, Lon: 37.16})
	if route == nil {
		t.Fatal("expected a route")
	}
	if route.DistanceKm != 1.23 || route.DurationMinutes != 10.3 {
		t.Errorf("unexpected route: %+v", route)
	}
}

func TestRouteService_FailureYieldsNil(t *testing.T) {
	routing := &mockRouting{
		walkingRouteFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
			return nil, errors.New("connection refused")
		},
	}
	svc := usecases.NewRouteService(routing, nil, nil)

	if route := svc.WalkingRoute(context.Background(), domain.GeoPoint{}, domain.GeoPoint{}); route != nil {
		t.Errorf("expected nil route on routing failure, got %+v", route)
	}
}

func TestRouteService_NilResultWithoutError(t *testing.T) {
	svc := usecases.NewRouteService(&mockRouting{}, nil, nil)

	if route := svc.WalkingRoute(context.Background(), domain.GeoPoint{}, domain.GeoPoint{}); route != nil {
		t.Errorf("expected nil route, got %+v", route)
	}
}

func TestRouteService_PublishesEvent(t *testing.T) {
	routing := &mockRouting{
		walkingRouteFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
			return &domain.RouteResult{DistanceKm: 0.5, DurationMinutes: 6}, nil
		},
	}
	var published *domain.RouteEvent
	pub := &mockPublisher{
		routeFn: func(ctx context.Context, event *domain.RouteEvent) error {
			published = event
			return nil
		},
	}
	svc := usecases.NewRouteService(routing, pub, nil)

	svc.WalkingRoute(context.Background(),
		domain.GeoPoint{Lat: -0.75, Lon: 37.15},
		domain.GeoPoint{Lat: -0.74, Lon: 37.16})
	if published == nil {
		t.Fatal("expected a route event")
	}
	if published.DistanceKm != 0.5 {
		t.Errorf("unexpected event distance: %v", published.DistanceKm)
	}
	if published.CrowFliesMeters <= 0 {
		t.Error("expected a positive crow-flies distance")
	}
}

func TestRouteService_NoEventOnFailure(t *testing.T) {
	routing := &mockRouting{
		walkingRouteFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
			return nil, errors.New("timeout")
		},
	}
	called := false
	pub := &mockPublisher{
		routeFn: func(ctx context.Context, event *domain.RouteEvent) error {
			called = true
			return nil
		},
	}
	svc := usecases.NewRouteService(routing, pub, nil)

	svc.WalkingRoute(context.Background(), domain.GeoPoint{}, domain.GeoPoint{})
	if called {
		t.Error("no event should be published for a failed route")
	}
}
