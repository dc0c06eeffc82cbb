package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/mutcampus/roomfinder/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Legacy aliases kept for early clients, sunset end of 2026
	app.Use(DeprecationMiddleware([]DeprecatedRoute{
		{Path: "/v1/search", SunsetDate: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), Alternative: "/v1/rooms/search"},
		{Path: "/v1/suggest", SunsetDate: time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC), Alternative: "/v1/rooms/suggestions"},
	}))

	// Health & readiness (no timeout — fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1 — 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Get("/rooms", timeout.NewWithContext(ListRoomsHandler(deps), 15*time.Second))
	v1.Get("/rooms/search", timeout.NewWithContext(SearchRoomsHandler(deps), 15*time.Second))
	v1.Get("/rooms/suggestions", timeout.NewWithContext(SuggestionsHandler(deps), 15*time.Second))
	v1.Get("/geofence/check", timeout.NewWithContext(GeofenceCheckHandler(deps), 15*time.Second))
	v1.Get("/boundary", timeout.NewWithContext(BoundaryHandler(deps), 15*time.Second))
	v1.Get("/routes/walking", timeout.NewWithContext(WalkingRouteHandler(deps), 15*time.Second))
	v1.Get("/datasets/status", timeout.NewWithContext(DatasetStatusHandler(deps), 15*time.Second))
	v1.Post("/datasets/refresh", timeout.NewWithContext(RefreshDatasetsHandler(deps), 15*time.Second))

	// Deprecated aliases
	v1.Get("/search", timeout.NewWithContext(SearchRoomsHandler(deps), 15*time.Second))
	v1.Get("/suggest", timeout.NewWithContext(SuggestionsHandler(deps), 15*time.Second))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	SetupDocs(app)

	// WebSocket
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
