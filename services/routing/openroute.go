package routing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"visitcare/config"
)

// OpenRouteClient calls an OpenRouteService-compatible isochrones API.
type OpenRouteClient struct {
	BaseURL    string
	APIKey     string
	Profile    string
	HTTPClient *http.Client
}

// NewOpenRouteClient builds a client from the application configuration.
func NewOpenRouteClient() *OpenRouteClient {
	timeout := time.Duration(config.AppConfig.RoutingTimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &OpenRouteClient{
		BaseURL:    config.AppConfig.RoutingBaseURL,
		APIKey:     config.AppConfig.RoutingAPIKey,
		Profile:    config.AppConfig.RoutingProfile,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// isochroneRequest is the provider request body.
type isochroneRequest struct {
	Locations [][]float64 `json:"locations"` // [[lng,lat]]
	Range     []int       `json:"range"`
	RangeType string      `json:"range_type"` // "distance" | "time"
}

// isochroneResponse is the subset of the GeoJSON response we consume.
type isochroneResponse struct {
	Features []struct {
		Geometry struct {
			Type        string          `json:"type"`
			Coordinates [][][]float64   `json:"coordinates"` // rings of [lng,lat]
		} `json:"geometry"`
	} `json:"features"`
}

// Isoline requests one reachable-region computation for the given constraint.
func (c *OpenRouteClient) Isoline(ctx context.Context, origin Point, constraint Constraint) ([]Polygon, error) {
	rangeType := "time"
	if constraint.Type == ConstraintDistance {
		rangeType = "distance"
	}
	if constraint.Value <= 0 {
		return nil, &ProviderError{Message: fmt.Sprintf("invalid %s constraint value %d", constraint.Type, constraint.Value)}
	}

	body, err := json.Marshal(isochroneRequest{
		Locations: [][]float64{{origin.Lng, origin.Lat}},
		Range:     []int{constraint.Value},
		RangeType: rangeType,
	})
	if err != nil {
		return nil, &ProviderError{Message: "failed to encode isochrone request", Err: err}
	}

	url := fmt.Sprintf("%s/v2/isochrones/%s", c.BaseURL, c.Profile)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, &ProviderError{Message: "failed to build isochrone request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", c.APIKey)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, &ProviderError{Message: "isochrone request failed", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &ProviderError{Status: resp.StatusCode, Message: string(snippet)}
	}

	var decoded isochroneResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, &ProviderError{Status: resp.StatusCode, Message: "failed to decode isochrone response", Err: err}
	}

	var polygons []Polygon
	for _, f := range decoded.Features {
		if f.Geometry.Type != "Polygon" || len(f.Geometry.Coordinates) == 0 {
			continue
		}
		poly := Polygon{Outer: toRing(f.Geometry.Coordinates[0])}
		for _, hole := range f.Geometry.Coordinates[1:] {
			poly.Holes = append(poly.Holes, toRing(hole))
		}
		polygons = append(polygons, poly)
	}
	if len(polygons) == 0 {
		return nil, &ProviderError{Status: resp.StatusCode, Message: "isochrone response contained no polygons"}
	}
	return polygons, nil
}

func toRing(coords [][]float64) Ring {
	ring := make(Ring, 0, len(coords))
	for _, c := range coords {
		if len(c) < 2 {
			continue
		}
		ring = append(ring, Point{Lat: c[1], Lng: c[0]})
	}
	return ring
}
