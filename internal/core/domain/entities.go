package domain

import (
	"encoding/json"
	"time"
)

// Room is a single entry in the campus room directory. Rooms are loaded once
// at startup and never mutated afterwards; the loaded collection is sorted by
// case-insensitive name.
type Room struct {
	Name       string    `json:"room_name"`
	Building   string    `json:"building,omitempty"`
	Floor      string    `json:"floor,omitempty"`
	Coordinate *GeoPoint `json:"coordinate,omitempty"`
}

// HasCoordinate reports whether the source data carried a position for the room.
func (r Room) HasCoordinate() bool {
	return r.Coordinate != nil
}

// UserLocation is a GPS position reported by the caller (browser geolocation
// or manual entry). The core never mutates it.
type UserLocation struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// RouteResult holds normalized walking-route metrics. Geometry is the routing
// service's path payload, passed through opaquely for map rendering.
type RouteResult struct {
	DistanceKm      float64         `json:"distance_km"`
	DurationMinutes float64         `json:"duration_minutes"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
}

// AccessDecision is the outcome of a geofence check. Denial is an expected
// result, not an error.
type AccessDecision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// GeofenceEvent is published after every geofence check for auditing.
type GeofenceEvent struct {
	Time     time.Time `json:"time"`
	Location *GeoPoint `json:"location,omitempty"`
	Allowed  bool      `json:"allowed"`
	Reason   string    `json:"reason,omitempty"`
}

// RouteEvent is published after a walking route has been computed.
type RouteEvent struct {
	Time            time.Time `json:"time"`
	From            GeoPoint  `json:"from"`
	To              GeoPoint  `json:"to"`
	DistanceKm      float64   `json:"distance_km"`
	DurationMinutes float64   `json:"duration_minutes"`
	CrowFliesMeters float64   `json:"crow_flies_meters"`
}
