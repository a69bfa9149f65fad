// Package directions provides access to an OSRM-compatible routing service.
package directions

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/safence/sentinelguard/internal/lib/geo"
)

const maxInstructions = 5

// Client calls the route endpoint of an OSRM-compatible server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// RouteData is the processed routing result.
type RouteData struct {
	DistanceMeters  float64
	DurationSeconds float64
	Geometry        []geo.Point
	Instructions    []string
}

// NewClient creates a routing client against the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Route computes a driving route between origin and destination. The wire
// format carries coordinates as [longitude, latitude]; they are normalized
// to latitude-first points here, at the boundary.
func (c *Client) Route(ctx context.Context, origin, destination geo.Point) (*RouteData, error) {
	url := fmt.Sprintf("%s/route/v1/driving/%f,%f;%f,%f?overview=full&geometries=geojson&steps=true",
		c.baseURL,
		origin.Longitude, origin.Latitude,
		destination.Longitude, destination.Latitude)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == 429 {
		return nil, fmt.Errorf("rate limit exceeded")
	}
	if resp.StatusCode >= 400 {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("routing API error %d: %s", resp.StatusCode, string(body))
	}

	var response osrmResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	if response.Code != "" && response.Code != "Ok" {
		return nil, fmt.Errorf("routing API returned code %q: %s", response.Code, response.Message)
	}
	if len(response.Routes) == 0 {
		return nil, fmt.Errorf("no routes found in response")
	}

	return processRoute(response.Routes[0])
}

func processRoute(route osrmRoute) (*RouteData, error) {
	points, err := route.Geometry.points()
	if err != nil {
		return nil, fmt.Errorf("failed to parse route geometry: %w", err)
	}
	if len(points) < 2 {
		return nil, fmt.Errorf("route geometry has %d points, need at least 2", len(points))
	}

	var instructions []string
	for _, leg := range route.Legs {
		for _, step := range leg.Steps {
			if len(instructions) >= maxInstructions {
				break
			}
			instructions = append(instructions, stepInstruction(step))
		}
	}

	return &RouteData{
		DistanceMeters:  route.Distance,
		DurationSeconds: route.Duration,
		Geometry:        points,
		Instructions:    instructions,
	}, nil
}

// stepInstruction renders a human-readable instruction for a step. Steps
// with no usable maneuver fall back to "Continue".
func stepInstruction(step osrmStep) string {
	verb := maneuverVerb(step.Maneuver.Type, step.Maneuver.Modifier)
	if verb == "" {
		verb = "Continue"
	}
	if step.Name != "" {
		switch step.Maneuver.Type {
		case "depart", "continue", "":
			return verb + " on " + step.Name
		default:
			return verb + " onto " + step.Name
		}
	}
	return verb
}

func maneuverVerb(maneuverType, modifier string) string {
	switch maneuverType {
	case "depart":
		return "Head out"
	case "arrive":
		return "Arrive at destination"
	case "turn", "end of road", "fork":
		if modifier != "" {
			return "Turn " + modifier
		}
		return "Turn"
	case "merge":
		return "Merge"
	case "roundabout", "rotary":
		return "Take the roundabout"
	case "continue":
		return "Continue"
	}
	return ""
}

type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	Distance float64      `json:"distance"`
	Duration float64      `json:"duration"`
	Geometry osrmGeometry `json:"geometry"`
	Legs     []osrmLeg    `json:"legs"`
}

type osrmLeg struct {
	Steps []osrmStep `json:"steps"`
}

type osrmStep struct {
	Name     string       `json:"name"`
	Maneuver osrmManeuver `json:"maneuver"`
}

type osrmManeuver struct {
	Type     string `json:"type"`
	Modifier string `json:"modifier"`
}

// osrmGeometry accepts both forms the geometries parameter can yield: a
// GeoJSON LineString object and an encoded polyline string.
type osrmGeometry struct {
	geojson *geojsonLineString
	encoded string
}

type geojsonLineString struct {
	Coordinates [][]float64 `json:"coordinates"`
}

func (g *osrmGeometry) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "\"") {
		return json.Unmarshal(data, &g.encoded)
	}
	g.geojson = &geojsonLineString{}
	return json.Unmarshal(data, g.geojson)
}

func (g osrmGeometry) points() ([]geo.Point, error) {
	if g.geojson != nil {
		points := make([]geo.Point, 0, len(g.geojson.Coordinates))
		for i, pair := range g.geojson.Coordinates {
			if len(pair) < 2 {
				return nil, fmt.Errorf("coordinate %d has %d components", i, len(pair))
			}
			// GeoJSON order is [longitude, latitude].
			points = append(points, geo.Point{Latitude: pair[1], Longitude: pair[0]})
		}
		return points, nil
	}
	if g.encoded != "" {
		return geo.DecodePath(g.encoded)
	}
	return nil, fmt.Errorf("route has no geometry")
}
