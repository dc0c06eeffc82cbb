package domain

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// BoundaryPolygon is the campus boundary ring in source order. The ring is
// implicitly closed: the last vertex connects back to the first without a
// duplicate closing vertex. An empty polygon is valid and disables the
// geofence gate.
type BoundaryPolygon []GeoPoint

// Empty reports whether the polygon carries no vertices.
func (p BoundaryPolygon) Empty() bool {
	return len(p) == 0
}

// Bounds represents a geographic bounding box. The zero value is the
// degenerate box returned for an empty polygon.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}
