// Package ipapi provides coarse device geolocation via an ip-api.com
// compatible lookup service.
package ipapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/safence/sentinelguard/internal/lib/geo"
)

// Sentinel errors for classifying lookup failures.
var (
	// ErrPermissionDenied signals the service refused the lookup.
	ErrPermissionDenied = errors.New("geolocation lookup refused")
	// ErrUnavailable signals the service could not produce a position.
	ErrUnavailable = errors.New("geolocation position unavailable")
)

// Client calls the JSON endpoint of an ip-api compatible service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a geolocation client against the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Locate looks up the current device position.
func (c *Client) Locate(ctx context.Context) (geo.Point, error) {
	url := c.baseURL + "/json?fields=status,message,lat,lon"

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return geo.Point{}, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized {
		return geo.Point{}, fmt.Errorf("%w: HTTP %d", ErrPermissionDenied, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return geo.Point{}, fmt.Errorf("%w: HTTP %d: %s", ErrUnavailable, resp.StatusCode, string(body))
	}

	var response lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return geo.Point{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Status != "success" {
		return geo.Point{}, fmt.Errorf("%w: %s", ErrUnavailable, response.Message)
	}

	point, err := geo.NewPoint(response.Lat, response.Lon)
	if err != nil {
		return geo.Point{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return point, nil
}

type lookupResponse struct {
	Status  string  `json:"status"`
	Message string  `json:"message"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}
