package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/mutcampus/roomfinder/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services. Queries that
// expose room data take the caller position and run through the same geofence
// gate as the REST surface; denial surfaces as a resolver error.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	geoPointType := graphql.NewObject(graphql.ObjectConfig{
		Name: "GeoPoint",
		Fields: graphql.Fields{
			"lat": &graphql.Field{Type: graphql.Float},
			"lon": &graphql.Field{Type: graphql.Float},
		},
	})

	roomType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Room",
		Fields: graphql.Fields{
			"room_name":  &graphql.Field{Type: graphql.String},
			"building":   &graphql.Field{Type: graphql.String},
			"floor":      &graphql.Field{Type: graphql.String},
			"coordinate": &graphql.Field{Type: geoPointType},
		},
	})

	boundsType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Bounds",
		Fields: graphql.Fields{
			"min_lat": &graphql.Field{Type: graphql.Float},
			"min_lon": &graphql.Field{Type: graphql.Float},
			"max_lat": &graphql.Field{Type: graphql.Float},
			"max_lon": &graphql.Field{Type: graphql.Float},
		},
	})

	decisionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AccessDecision",
		Fields: graphql.Fields{
			"allowed": &graphql.Field{Type: graphql.Boolean},
			"reason":  &graphql.Field{Type: graphql.String},
		},
	})

	routeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "RouteResult",
		Fields: graphql.Fields{
			"distance_km":      &graphql.Field{Type: graphql.Float},
			"duration_minutes": &graphql.Field{Type: graphql.Float},
		},
	})

	locationArgs := graphql.FieldConfigArgument{
		"lat": &graphql.ArgumentConfig{Type: graphql.Float},
		"lon": &graphql.ArgumentConfig{Type: graphql.Float},
	}

	gate := func(p graphql.ResolveParams) error {
		var loc *domain.UserLocation
		lat, latOK := p.Args["lat"].(float64)
		lon, lonOK := p.Args["lon"].(float64)
		if latOK && lonOK {
			loc = &domain.UserLocation{Lat: lat, Lon: lon}
		}
		decision := deps.Geofence.CheckAccess(p.Context, loc)
		if !decision.Allowed {
			return fmt.Errorf("access denied: %s", decision.Reason)
		}
		return nil
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"rooms": &graphql.Field{
				Type:        graphql.NewList(roomType),
				Description: "Search rooms by name; empty query lists all",
				Args: mergeArgs(locationArgs, graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := gate(p); err != nil {
						return nil, err
					}
					q, _ := p.Args["query"].(string)
					return deps.Search.Search(p.Context, q), nil
				},
			},
			"suggestions": &graphql.Field{
				Type:        graphql.NewList(graphql.String),
				Description: "Fuzzy room-name suggestions, best match first",
				Args: mergeArgs(locationArgs, graphql.FieldConfigArgument{
					"query": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				}),
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					if err := gate(p); err != nil {
						return nil, err
					}
					q := p.Args["query"].(string)
					return deps.Search.Suggestions(p.Context, q), nil
				},
			},
			"checkAccess": &graphql.Field{
				Type:        decisionType,
				Description: "Evaluate the geofence gate for a position",
				Args:        locationArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					var loc *domain.UserLocation
					lat, latOK := p.Args["lat"].(float64)
					lon, lonOK := p.Args["lon"].(float64)
					if latOK && lonOK {
						loc = &domain.UserLocation{Lat: lat, Lon: lon}
					}
					return deps.Geofence.CheckAccess(p.Context, loc), nil
				},
			},
			"boundary": &graphql.Field{
				Type:        graphql.NewList(geoPointType),
				Description: "Campus boundary ring in source order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geofence.Boundary(), nil
				},
			},
			"boundaryBounds": &graphql.Field{
				Type:        boundsType,
				Description: "Axis-aligned bounding box of the boundary",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Geofence.Bounds(), nil
				},
			},
			"walkingRoute": &graphql.Field{
				Type:        routeType,
				Description: "Walking route between two points; null when unavailable",
				Args: graphql.FieldConfigArgument{
					"fromLat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"fromLon": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"toLat":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
					"toLon":   &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					from := domain.GeoPoint{Lat: p.Args["fromLat"].(float64), Lon: p.Args["fromLon"].(float64)}
					to := domain.GeoPoint{Lat: p.Args["toLat"].(float64), Lon: p.Args["toLon"].(float64)}

					decision := deps.Geofence.CheckAccess(p.Context, &domain.UserLocation{Lat: from.Lat, Lon: from.Lon})
					if !decision.Allowed {
						return nil, fmt.Errorf("access denied: %s", decision.Reason)
					}
					return deps.Routes.WalkingRoute(p.Context, from, to), nil
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

func mergeArgs(base, extra graphql.FieldConfigArgument) graphql.FieldConfigArgument {
	out := graphql.FieldConfigArgument{}
	for k, v := range base {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(400).JSON(fiber.Map{"error": "invalid request body"})
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.Context(),
		})

		return c.JSON(result)
	}
}
