// Package osrm implements the outbound walking-directions client against an
// OSRM-compatible HTTP routing service.
package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/mutcampus/roomfinder/internal/core/domain"
	"github.com/mutcampus/roomfinder/internal/pkg/metrics"
)

// Client calls an OSRM route endpoint. It issues one request per call with no
// retries; the caller owns any fallback behavior.
type Client struct {
	baseURL    string
	profile    string
	httpClient *http.Client
}

// NewClient creates an OSRM client. timeout bounds each request end to end;
// zero means 5 seconds.
func NewClient(baseURL, profile string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if profile == "" {
		profile = "foot"
	}
	return &Client{
		baseURL:    baseURL,
		profile:    profile,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// osrmResponse mirrors the subset of the OSRM route response we consume.
type osrmResponse struct {
	Code   string `json:"code"`
	Routes []struct {
		Distance float64         `json:"distance"` // meters
		Duration float64         `json:"duration"` // seconds
		Geometry json.RawMessage `json:"geometry"`
	} `json:"routes"`
}

// WalkingRoute requests a walking route and normalizes it: meters to km
// rounded to 2 decimals, seconds to minutes rounded to 1 decimal. The
// geometry payload passes through untouched for map rendering. OSRM expects
// coordinates in lon,lat order.
func (c *Client) WalkingRoute(ctx context.Context, from, to domain.GeoPoint) (*domain.RouteResult, error) {
	url := fmt.Sprintf("%s/route/v1/%s/%f,%f;%f,%f?overview=full&geometries=geojson",
		c.baseURL, c.profile, from.Lon, from.Lat, to.Lon, to.Lat)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build route request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	metrics.RouteRequestDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("routing service request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("routing service returned status %d", resp.StatusCode)
	}

	var body osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode routing response: %w", err)
	}
	if len(body.Routes) == 0 {
		return nil, fmt.Errorf("routing service returned no routes (code %q)", body.Code)
	}

	route := body.Routes[0]
	return &domain.RouteResult{
		DistanceKm:      round(route.Distance/1000, 2),
		DurationMinutes: round(route.Duration/60, 1),
		Geometry:        route.Geometry,
	}, nil
}

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}
