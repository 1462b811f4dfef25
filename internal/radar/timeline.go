// Package radar drives the animated precipitation overlay: the frame
// timeline, the tile overlay swap, and timer-driven playback.
package radar

import (
	"context"
	"fmt"

	"github.com/mwhitfield/stormview/internal/models"
	"github.com/mwhitfield/stormview/internal/rainviewer"
)

// MaxMarkers caps how many timestamp labels the timeline bar shows.
const MaxMarkers = 5

// TimelineManager fetches and holds the current frame window. The held
// timeline is replaced wholesale on every successful fetch.
type TimelineManager struct {
	client   rainviewer.TimelineClient
	timeline models.Timeline
}

// NewTimelineManager creates a manager around a timeline source.
func NewTimelineManager(client rainviewer.TimelineClient) *TimelineManager {
	return &TimelineManager{client: client}
}

// Fetch retrieves a fresh frame window and replaces the held timeline.
// On failure the previous timeline is kept.
func (m *TimelineManager) Fetch(ctx context.Context) (models.Timeline, error) {
	timeline, err := m.client.GetTimeline(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching timeline: %w", err)
	}
	m.timeline = timeline
	return timeline, nil
}

// Timeline returns the currently held frame window.
func (m *TimelineManager) Timeline() models.Timeline {
	return m.timeline
}

// Frame returns the frame at index i, or false if out of range.
func (m *TimelineManager) Frame(i int) (models.Frame, bool) {
	if i < 0 || i >= len(m.timeline) {
		return models.Frame{}, false
	}
	return m.timeline[i], true
}

// Marker is one timestamp label positioned along the timeline bar.
type Marker struct {
	Index int
	X     int // pixel offset from the bar's left edge
}

// LayoutMarkers selects which frame indices get timestamp labels and
// spaces them across pixelWidth. At most MaxMarkers labels are chosen by
// even stride; the first and last frames are always labeled, and short
// timelines label every frame.
func LayoutMarkers(timeline models.Timeline, pixelWidth int) []Marker {
	n := len(timeline)
	if n == 0 {
		return nil
	}
	if n == 1 {
		return []Marker{{Index: 0, X: 0}}
	}

	count := MaxMarkers
	if n < count {
		count = n
	}

	seen := make(map[int]bool)
	indices := make([]int, 0, count)
	for k := 0; k < count; k++ {
		idx := k * (n - 1) / (count - 1)
		if !seen[idx] {
			seen[idx] = true
			indices = append(indices, idx)
		}
	}
	if !seen[n-1] {
		indices = append(indices, n-1)
	}

	markers := make([]Marker, 0, len(indices))
	for _, idx := range indices {
		markers = append(markers, Marker{
			Index: idx,
			X:     idx * pixelWidth / (n - 1),
		})
	}
	return markers
}
