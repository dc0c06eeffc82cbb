package http_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	handler "github.com/mutcampus/roomfinder/internal/adapters/http"
	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/core/usecases"
)

// ---- Mocks ----

type mockRouting struct {
	walkingRouteFn func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error)
}

func (m *mockRouting) WalkingRoute(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
	if m.walkingRouteFn != nil {
		return m.walkingRouteFn(ctx, from, to)
	}
	return nil, nil
}

// ---- Test app ----

// Boundary: square spanning (0,0) to (1,1).
func testBoundary() domain.BoundaryPolygon {
	return domain.BoundaryPolygon{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 1}, {Lat: 1, Lon: 1}, {Lat: 1, Lon: 0},
	}
}

func newTestApp(routing *mockRouting) *fiber.App {
	rooms := []domain.Room{
		{Name: "Lab 1", Building: "Science Block", Floor: "1"},
		{Name: "Library", Building: "Main", Coordinate: &domain.GeoPoint{Lat: 0.5, Lon: 0.5}},
	}
	if routing == nil {
		routing = &mockRouting{}
	}

	deps := &handler.Dependencies{
		Search:   usecases.NewRoomSearchService(rooms, 5, 60, nil),
		Geofence: usecases.NewGeofenceService(testBoundary(), nil),
		Routes:   usecases.NewRouteService(routing, nil, nil),
	}

	app := fiber.New()
	handler.SetupRoutes(app, deps)
	return app
}

func doGet(t *testing.T, app *fiber.App, path string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body
}

// ---- Tests ----

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/health")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(string(body), "healthy") {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestSearchWithoutLocationIsForbidden(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/rooms/search?q=lib")
	if status != 403 {
		t.Fatalf("expected 403, got %d: %s", status, body)
	}

	var apiErr handler.APIError
	if err := json.Unmarshal(body, &apiErr); err != nil {
		t.Fatalf("unmarshal error body: %v", err)
	}
	if apiErr.Code != "forbidden" {
		t.Errorf("expected forbidden code, got %q", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "location unavailable") {
		t.Errorf("expected location-unavailable reason, got %q", apiErr.Message)
	}
}

func TestSearchOutsideBoundaryIsForbidden(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/rooms/search?q=lib&lat=5&lon=5")
	if status != 403 {
		t.Fatalf("expected 403, got %d", status)
	}
	if !strings.Contains(string(body), "outside boundary") {
		t.Errorf("expected outside-boundary reason, got %s", body)
	}
}

func TestSearchInsideBoundary(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/rooms/search?q=lib&lat=0.5&lon=0.5")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var resp struct {
		Count int           `json:"count"`
		Data  []domain.Room `json:"data"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Count != 1 || resp.Data[0].Name != "Library" {
		t.Errorf("expected only Library, got %+v", resp.Data)
	}
}

func TestListRoomsPagination(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/rooms?lat=0.5&lon=0.5&offset=1&limit=1")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var resp handler.PaginatedResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Pagination.Total != 2 || resp.Pagination.Offset != 1 {
		t.Errorf("unexpected pagination: %+v", resp.Pagination)
	}
}

func TestGeofenceCheckAlwaysResponds200(t *testing.T) {
	app := newTestApp(nil)

	status, body := doGet(t, app, "/v1/geofence/check")
	if status != 200 {
		t.Fatalf("expected 200 for a denied check, got %d", status)
	}
	var decision domain.AccessDecision
	if err := json.Unmarshal(body, &decision); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decision.Allowed || decision.Reason != "location unavailable" {
		t.Errorf("unexpected decision: %+v", decision)
	}

	status, body = doGet(t, app, "/v1/geofence/check?lat=0.5&lon=0.5")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}
	if err := json.Unmarshal(body, &decision); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !decision.Allowed {
		t.Errorf("expected allowed inside boundary, got %+v", decision)
	}
}

func TestBoundaryIsUngated(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/boundary")
	if status != 200 {
		t.Fatalf("expected 200 without a location, got %d", status)
	}

	var resp struct {
		VertexCount int               `json:"vertex_count"`
		Vertices    []domain.GeoPoint `json:"vertices"`
		Bounds      domain.Bounds     `json:"bounds"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.VertexCount != 4 {
		t.Errorf("expected 4 vertices, got %d", resp.VertexCount)
	}
	if resp.Bounds.MaxLat != 1 {
		t.Errorf("unexpected bounds: %+v", resp.Bounds)
	}
}

func TestWalkingRoute(t *testing.T) {
	routing := &mockRouting{
		walkingRouteFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
			return &domain.RouteResult{DistanceKm: 1.23, DurationMinutes: 10.3}, nil
		},
	}
	app := newTestApp(routing)

	status, body := doGet(t, app, "/v1/routes/walking?from_lat=0.5&from_lon=0.5&to_lat=0.6&to_lon=0.6")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var resp struct {
		Route *domain.RouteResult `json:"route"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Route == nil || resp.Route.DistanceKm != 1.23 {
		t.Errorf("unexpected route: %+v", resp.Route)
	}
}

func TestWalkingRouteUnavailableReturnsNull(t *testing.T) {
	routing := &mockRouting{
		walkingRouteFn: func(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
			return nil, fmt.Errorf("routing service down")
		},
	}
	app := newTestApp(routing)

	status, body := doGet(t, app, "/v1/routes/walking?from_lat=0.5&from_lon=0.5&to_lat=0.6&to_lon=0.6")
	if status != 200 {
		t.Fatalf("route failure must not fail the request, got %d", status)
	}

	var resp struct {
		Route *domain.RouteResult `json:"route"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Route != nil {
		t.Errorf("expected null route, got %+v", resp.Route)
	}
}

func TestWalkingRouteMissingParams(t *testing.T) {
	app := newTestApp(nil)
	status, _ := doGet(t, app, "/v1/routes/walking?from_lat=0.5")
	if status != 400 {
		t.Fatalf("expected 400 for missing coordinates, got %d", status)
	}
}

func TestWalkingRouteOutsideBoundary(t *testing.T) {
	app := newTestApp(nil)
	status, _ := doGet(t, app, "/v1/routes/walking?from_lat=9&from_lon=9&to_lat=0.5&to_lon=0.5")
	if status != 403 {
		t.Fatalf("expected 403 for an outside start point, got %d", status)
	}
}

func TestSuggestionsRequireQuery(t *testing.T) {
	app := newTestApp(nil)
	status, _ := doGet(t, app, "/v1/rooms/suggestions?lat=0.5&lon=0.5")
	if status != 400 {
		t.Fatalf("expected 400 without q, got %d", status)
	}
}

func TestSuggestionsReturnNearMiss(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/rooms/suggestions?lat=0.5&lon=0.5&q=Libary")
	if status != 200 {
		t.Fatalf("expected 200, got %d: %s", status, body)
	}

	var resp struct {
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(resp.Suggestions) == 0 || resp.Suggestions[0] != "Library" {
		t.Errorf("expected Library suggestion, got %v", resp.Suggestions)
	}
}

func TestDatasetStatus(t *testing.T) {
	app := newTestApp(nil)
	status, body := doGet(t, app, "/v1/datasets/status")
	if status != 200 {
		t.Fatalf("expected 200, got %d", status)
	}

	var stats handler.DatasetStats
	if err := json.Unmarshal(body, &stats); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if stats.Rooms != 2 || stats.BoundaryVertices != 4 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}

func TestRefreshWithoutBrokerIs503(t *testing.T) {
	app := newTestApp(nil)
	req := httptest.NewRequest("POST", "/v1/datasets/refresh", nil)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != 503 {
		t.Fatalf("expected 503 without a broker, got %d", resp.StatusCode)
	}
}

func TestGraphQLRoomsQuery(t *testing.T) {
	app := newTestApp(nil)

	payload := `{"query":"{ rooms(lat: 0.5, lon: 0.5, query: \"lib\") { room_name building } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(string(body), "Library") {
		t.Errorf("expected Library in response, got %s", body)
	}
}

func TestGraphQLDeniedWithoutLocation(t *testing.T) {
	app := newTestApp(nil)

	payload := `{"query":"{ rooms { room_name } }"}`
	req := httptest.NewRequest("POST", "/graphql", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if !strings.Contains(string(body), "access denied") {
		t.Errorf("expected an access denied error, got %s", body)
	}
}
