package geospatial

import "github.com/mutcampus/roomfinder/internal/core/domain"

// PointInPolygon reports whether the point (lat, lon) lies inside the ring
// using the even-odd ray-casting rule. The test runs in (x=lon, y=lat) space
// and treats the ring as implicitly closed. A small epsilon (1e-12) is added
// to the edge denominator instead of branching on horizontal edges; this
// biases exact-boundary results infinitesimally but avoids a division by
// zero. An empty ring contains nothing.
func PointInPolygon(lat, lon float64, ring domain.BoundaryPolygon) bool {
	n := len(ring)
	if n == 0 {
		return false
	}

	x, y := lon, lat
	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i].Lon, ring[i].Lat
		xj, yj := ring[j].Lon, ring[j].Lat

		intersect := ((yi > y) != (yj > y)) &&
			(x < (xj-xi)*(y-yi)/(yj-yi+1e-12)+xi)
		if intersect {
			inside = !inside
		}
	}
	return inside
}

// PolygonBounds returns the axis-aligned bounding box over the ring's
// vertices. The zero-value Bounds is returned for an empty ring. The box is
// only meant to constrain a map viewport, not for containment tests.
func PolygonBounds(ring domain.BoundaryPolygon) domain.Bounds {
	if len(ring) == 0 {
		return domain.Bounds{}
	}

	b := domain.Bounds{
		MinLat: ring[0].Lat, MaxLat: ring[0].Lat,
		MinLon: ring[0].Lon, MaxLon: ring[0].Lon,
	}
	for _, v := range ring[1:] {
		if v.Lat < b.MinLat {
			b.MinLat = v.Lat
		}
		if v.Lat > b.MaxLat {
			b.MaxLat = v.Lat
		}
		if v.Lon < b.MinLon {
			b.MinLon = v.Lon
		}
		if v.Lon > b.MaxLon {
			b.MaxLon = v.Lon
		}
	}
	return b
}
