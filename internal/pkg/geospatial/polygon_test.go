package geospatial

import (
	"testing"

	"github.com/mutcampus/roomfinder/internal/core/domain"
)

func square() domain.BoundaryPolygon {
	return domain.BoundaryPolygon{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 4}, {Lat: 4, Lon: 4}, {Lat: 4, Lon: 0},
	}
}

func reversed(p domain.BoundaryPolygon) domain.BoundaryPolygon {
	out := make(domain.BoundaryPolygon, len(p))
	for i, v := range p {
		out[len(p)-1-i] = v
	}
	return out
}

func TestPointInPolygon_EmptyRing(t *testing.T) {
	if PointInPolygon(0, 0, nil) {
		t.Error("empty ring must contain nothing")
	}
}

func TestPointInPolygon_InsideAndOutside(t *testing.T) {
	ring := square()

	cases := []struct {
		name     string
		lat, lon float64
		want     bool
	}{
		{"center", 2, 2, true},
		{"near edge inside", 0.001, 2, true},
		{"outside right", 2, 5, false},
		{"outside above", 5, 2, false},
		{"far away", -10, -10, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := PointInPolygon(tc.lat, tc.lon, ring); got != tc.want {
				t.Errorf("PointInPolygon(%v, %v) = %v, want %v", tc.lat, tc.lon, got, tc.want)
			}
		})
	}
}

func TestPointInPolygon_OrientationIndependent(t *testing.T) {
	ring := square()
	rev := reversed(ring)

	points := []domain.GeoPoint{
		{Lat: 2, Lon: 2}, {Lat: 3.5, Lon: 0.5}, {Lat: 5, Lon: 5}, {Lat: -1, Lon: 2},
	}
	for _, p := range points {
		a := PointInPolygon(p.Lat, p.Lon, ring)
		b := PointInPolygon(p.Lat, p.Lon, rev)
		if a != b {
			t.Errorf("orientation changed result for (%v, %v): %v vs %v", p.Lat, p.Lon, a, b)
		}
	}
}

func TestPointInPolygon_ConcaveRing(t *testing.T) {
	// L-shape: the notch at the top right is outside.
	ring := domain.BoundaryPolygon{
		{Lat: 0, Lon: 0}, {Lat: 0, Lon: 4}, {Lat: 2, Lon: 4},
		{Lat: 2, Lon: 2}, {Lat: 4, Lon: 2}, {Lat: 4, Lon: 0},
	}
	if !PointInPolygon(1, 3, ring) {
		t.Error("(1, 3) should be inside the L")
	}
	if PointInPolygon(3, 3, ring) {
		t.Error("(3, 3) sits in the notch and should be outside")
	}
}

func TestPolygonBounds_Empty(t *testing.T) {
	if b := PolygonBounds(nil); b != (domain.Bounds{}) {
		t.Errorf("expected zero bounds for empty ring, got %+v", b)
	}
}

func TestPolygonBounds_ContainsAllVertices(t *testing.T) {
	ring := domain.BoundaryPolygon{
		{Lat: -0.748, Lon: 37.15}, {Lat: -0.74, Lon: 37.2}, {Lat: -0.76, Lon: 37.1},
	}
	b := PolygonBounds(ring)
	for _, v := range ring {
		if v.Lat < b.MinLat || v.Lat > b.MaxLat || v.Lon < b.MinLon || v.Lon > b.MaxLon {
			t.Errorf("vertex %+v outside bounds %+v", v, b)
		}
	}
	if b.MinLat != -0.76 || b.MaxLat != -0.74 || b.MinLon != 37.1 || b.MaxLon != 37.2 {
		t.Errorf("unexpected bounds: %+v", b)
	}
}

func TestHaversine(t *testing.T) {
	// Roughly 111 km per degree of latitude at the equator.
	d := Haversine(0, 0, 1, 0)
	if d < 110_000 || d > 112_000 {
		t.Errorf("expected ~111 km, got %v m", d)
	}
	if Haversine(10, 20, 10, 20) != 0 {
		t.Error("distance to self should be zero")
	}
}
