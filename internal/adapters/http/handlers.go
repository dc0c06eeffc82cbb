package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/mutcampus/roomfinder/internal/core/domain"
)

// parseLocation reads the caller position from lat/lon query parameters.
// Missing or unparseable values mean no location was reported.
func parseLocation(c *fiber.Ctx) *domain.UserLocation {
	latStr := c.Query("lat")
	lonStr := c.Query("lon")
	if latStr == "" || lonStr == "" {
		return nil
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}
	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil
	}
	return &domain.UserLocation{Lat: lat, Lon: lon}
}

// checkGeofence gates a handler on the caller's reported position. When the
// gate denies, the 403 response has already been written and the handler must
// return the error as-is.
func checkGeofence(c *fiber.Ctx, deps *Dependencies, loc *domain.UserLocation) (bool, error) {
	decision := deps.Geofence.CheckAccess(c.UserContext(), loc)
	if !decision.Allowed {
		return false, errForbidden(c, decision.Reason)
	}
	return true, nil
}

// ListRoomsHandler returns the room directory, paginated, sorted by
// case-insensitive name. Access requires a position inside the campus.
func ListRoomsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := checkGeofence(c, deps, parseLocation(c)); !ok {
			return err
		}

		rooms := deps.Search.All()

		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 50)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 200 {
			limit = 50
		}

		total := len(rooms)
		if offset > total {
			offset = total
		}
		end := offset + limit
		if end > total {
			end = total
		}

		p := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, p)
		return c.JSON(PaginatedResponse{Data: rooms[offset:end], Pagination: p})
	}
}

// SearchRoomsHandler answers substring + fuzzy room queries. An empty query
// browses the full directory.
func SearchRoomsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := checkGeofence(c, deps, parseLocation(c)); !ok {
			return err
		}

		query := c.Query("q")
		rooms := deps.Search.Search(c.UserContext(), query)
		return c.JSON(fiber.Map{
			"query": query,
			"count": len(rooms),
			"data":  rooms,
		})
	}
}

// SuggestionsHandler returns "did you mean" room names in relevance order.
func SuggestionsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if ok, err := checkGeofence(c, deps, parseLocation(c)); !ok {
			return err
		}

		query := c.Query("q")
		if query == "" {
			return errBadRequest(c, "query parameter q is required")
		}

		names := deps.Search.Suggestions(c.UserContext(), query)
		if names == nil {
			names = []string{}
		}
		return c.JSON(fiber.Map{
			"query":       query,
			"suggestions": names,
		})
	}
}

// GeofenceCheckHandler evaluates the gate and reports the decision. This
// endpoint never returns 403: the decision itself is the payload.
func GeofenceCheckHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		decision := deps.Geofence.CheckAccess(c.UserContext(), parseLocation(c))
		return c.JSON(decision)
	}
}

// BoundaryHandler returns the campus boundary ring and its bounding box.
// Ungated: clients need the polygon to render the map before the user has
// granted location access.
func BoundaryHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		boundary := deps.Geofence.Boundary()
		return c.JSON(fiber.Map{
			"vertex_count": len(boundary),
			"vertices":     boundary,
			"bounds":       deps.Geofence.Bounds(),
		})
	}
}

// WalkingRouteHandler computes a walking route from the caller to a room.
// The from coordinate doubles as the geofence position. A missing route is a
// valid response: the client falls back to drawing the two markers.
func WalkingRouteHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		from, err := parsePoint(c, "from_lat", "from_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		to, err := parsePoint(c, "to_lat", "to_lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		loc := &domain.UserLocation{Lat: from.Lat, Lon: from.Lon}
		if ok, err := checkGeofence(c, deps, loc); !ok {
			return err
		}

		route := deps.Routes.WalkingRoute(c.UserContext(), from, to)
		return c.JSON(fiber.Map{
			"from":  from,
			"to":    to,
			"route": route,
		})
	}
}

func parsePoint(c *fiber.Ctx, latParam, lonParam string) (domain.GeoPoint, error) {
	lat, err := strconv.ParseFloat(c.Query(latParam), 64)
	if err != nil {
		return domain.GeoPoint{}, fiber.NewError(400, "query parameter "+latParam+" must be a number")
	}
	lon, err := strconv.ParseFloat(c.Query(lonParam), 64)
	if err != nil {
		return domain.GeoPoint{}, fiber.NewError(400, "query parameter "+lonParam+" must be a number")
	}
	return domain.GeoPoint{Lat: lat, Lon: lon}, nil
}

// DatasetStats reports the size of the served datasets and, when a database
// mirror is configured, the mirrored row counts.
type DatasetStats struct {
	Rooms            int  `json:"rooms"`
	BoundaryVertices int  `json:"boundary_vertices"`
	MirroredRooms    *int `json:"mirrored_rooms,omitempty"`
	MirroredVertices *int `json:"mirrored_vertices,omitempty"`
}

// DatasetStatusHandler returns dataset sizes for operational checks.
func DatasetStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats := DatasetStats{
			Rooms:            len(deps.Search.All()),
			BoundaryVertices: len(deps.Geofence.Boundary()),
		}

		if deps.RoomRepo != nil {
			if n, err := deps.RoomRepo.Count(c.UserContext()); err == nil {
				stats.MirroredRooms = &n
			}
		}
		if deps.BoundaryRepo != nil {
			if n, err := deps.BoundaryRepo.Count(c.UserContext()); err == nil {
				stats.MirroredVertices = &n
			}
		}

		return c.JSON(stats)
	}
}

// RefreshDatasetsHandler requests an asynchronous dataset refresh. The actual
// work runs in the refresher worker; this endpoint only enqueues it.
func RefreshDatasetsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.Events == nil {
			return errServiceUnavailable(c, "event broker not configured")
		}

		reason := c.Query("reason", "manual")
		if err := deps.Events.PublishRefreshRequest(c.UserContext(), reason); err != nil {
			return errInternal(c, "enqueue refresh: "+err.Error())
		}
		return c.Status(202).JSON(fiber.Map{
			"status": "accepted",
			"reason": reason,
		})
	}
}
