// Package nws queries active hazard alerts from the National Weather
// Service API.
package nws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/mwhitfield/stormview/internal/models"
)

// ErrInvalidFormat is returned when the alerts payload cannot be decoded.
var ErrInvalidFormat = errors.New("alerts response is malformed")

// AlertClient defines the interface for fetching active alerts
type AlertClient interface {
	// GetActiveAlerts retrieves active alerts intersecting the given bounds
	GetActiveAlerts(ctx context.Context, bounds models.Bounds) (*models.AlertData, error)
}

// Client implements AlertClient using the NWS Weather API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
}

// NewClient creates a new NWS alert client
func NewClient() *Client {
	return &Client{
		baseURL: "https://api.weather.gov",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "Stormview/1.0 (github.com/mwhitfield/stormview)",
	}
}

// GetActiveAlerts retrieves active alerts intersecting the given bounds.
// The query is narrowed server-side by the bounds center; the bounds filter
// below still prunes geometried alerts that miss the viewport. Alerts
// without geometry are kept; downstream decides how to treat them.
func (c *Client) GetActiveAlerts(ctx context.Context, bounds models.Bounds) (*models.AlertData, error) {
	lat := (bounds.North + bounds.South) / 2
	lon := (bounds.East + bounds.West) / 2
	url := fmt.Sprintf("%s/alerts/active?status=actual&message_type=alert&point=%.4f,%.4f",
		c.baseURL, lat, lon)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch alerts: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var alertResp alertResponse
	if err := json.NewDecoder(resp.Body).Decode(&alertResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	alertData := &models.AlertData{
		Alerts:    make([]models.Alert, 0),
		UpdatedAt: time.Now(),
	}

	for _, feature := range alertResp.Features {
		props := feature.Properties

		expires, _ := time.Parse(time.RFC3339, props.Expires)

		geom, err := decodeGeometry(feature.Geometry)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}

		// Geometried alerts outside the viewport are not interesting.
		if !geom.IsEmpty() && !geom.Intersects(bounds) {
			continue
		}

		id := props.ID
		if id == "" {
			id = feature.ID
		}

		alertData.Alerts = append(alertData.Alerts, models.Alert{
			ID:          id,
			Event:       props.Event,
			Headline:    props.Headline,
			Description: props.Description,
			Severity:    mapSeverity(props.Severity),
			Geometry:    geom,
			Expires:     expires,
		})
	}

	return alertData, nil
}

func mapSeverity(s string) models.AlertSeverity {
	switch s {
	case "Extreme":
		return models.SeverityExtreme
	case "Severe":
		return models.SeveritySevere
	case "Moderate":
		return models.SeverityModerate
	case "Minor":
		return models.SeverityMinor
	default:
		return models.SeverityUnknown
	}
}

// decodeGeometry converts a GeoJSON geometry into polygon rings. A null
// geometry yields an empty result, not an error.
func decodeGeometry(raw *geoJSONGeometry) (models.Geometry, error) {
	if raw == nil {
		return models.Geometry{}, nil
	}

	var geom models.Geometry
	switch raw.Type {
	case "Polygon":
		var rings [][][2]float64
		if err := json.Unmarshal(raw.Coordinates, &rings); err != nil {
			return models.Geometry{}, fmt.Errorf("decoding polygon: %w", err)
		}
		if len(rings) > 0 {
			geom.Rings = append(geom.Rings, rings[0])
		}
	case "MultiPolygon":
		var polys [][][][2]float64
		if err := json.Unmarshal(raw.Coordinates, &polys); err != nil {
			return models.Geometry{}, fmt.Errorf("decoding multipolygon: %w", err)
		}
		for _, rings := range polys {
			if len(rings) > 0 {
				geom.Rings = append(geom.Rings, rings[0])
			}
		}
	default:
		// Points and lines don't render as hazard polygons.
	}

	return geom, nil
}

// Internal types for NWS Alert API responses

type geoJSONGeometry struct {
	Type        string          `json:"type"`
	Coordinates json.RawMessage `json:"coordinates"`
}

type alertResponse struct {
	Features []struct {
		ID         string           `json:"id"`
		Geometry   *geoJSONGeometry `json:"geometry"`
		Properties struct {
			ID          string `json:"id"`
			Event       string `json:"event"`
			Headline    string `json:"headline"`
			Description string `json:"description"`
			Severity    string `json:"severity"`
			Expires     string `json:"expires"`
		} `json:"properties"`
	} `json:"features"`
}
