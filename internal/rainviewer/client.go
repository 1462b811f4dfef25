// Package rainviewer fetches the radar snapshot timeline and builds tile
// URL templates for individual frames.
package rainviewer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/mwhitfield/stormview/internal/models"
)

// ErrInvalidFormat is returned when the timeline payload is malformed or
// contains no frames.
var ErrInvalidFormat = errors.New("timeline response has no usable frames")

// DefaultWindow is how many recent frames are retained.
const DefaultWindow = 11

// TimelineClient defines the interface for fetching the radar frame timeline
type TimelineClient interface {
	// GetTimeline retrieves the most recent radar frames, newest last
	GetTimeline(ctx context.Context) (models.Timeline, error)

	// TileURL builds the tile URL template for a frame
	TileURL(frame models.Frame) string
}

// Client implements TimelineClient against the RainViewer weather-maps API
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string

	// Tile rendering parameters, fixed per product decision.
	colorScheme int
	smooth      int
	snow        int
	tileSize    int
}

// NewClient creates a new timeline client
func NewClient() *Client {
	return &Client{
		baseURL: "https://api.rainviewer.com",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent:   "Stormview/1.0 (github.com/mwhitfield/stormview)",
		colorScheme: 4,
		smooth:      1,
		snow:        1,
		tileSize:    256,
	}
}

// GetTimeline retrieves the recent radar frames, oldest first.
func (c *Client) GetTimeline(ctx context.Context) (models.Timeline, error) {
	url := c.baseURL + "/public/weather-maps.json"

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timeline: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var tlResp timelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&tlResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}

	if len(tlResp.Radar.Past) == 0 {
		return nil, ErrInvalidFormat
	}

	timeline := make(models.Timeline, 0, len(tlResp.Radar.Past))
	for _, f := range tlResp.Radar.Past {
		if f.Time == 0 {
			return nil, ErrInvalidFormat
		}
		timeline = append(timeline, models.Frame{Time: f.Time, Path: f.Path})
	}

	// The API is not contractually ordered. Sort before windowing so the
	// window keeps the newest frames, not the last-listed ones.
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Time < timeline[j].Time
	})
	if len(timeline) > DefaultWindow {
		timeline = timeline[len(timeline)-DefaultWindow:]
	}

	return timeline, nil
}

// TileURL builds the templated tile address for a frame. The {z}/{x}/{y}
// placeholders are filled in by the map surface.
func (c *Client) TileURL(frame models.Frame) string {
	return fmt.Sprintf("https://tilecache.rainviewer.com%s/%d/{z}/{x}/{y}/%d/%d_%d.png",
		frame.Path, c.tileSize, c.colorScheme, c.smooth, c.snow)
}

// Internal types for RainViewer API responses

type timelineResponse struct {
	Radar struct {
		Past []struct {
			Time int64  `json:"time"`
			Path string `json:"path"`
		} `json:"past"`
	} `json:"radar"`
}
