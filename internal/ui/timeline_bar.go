package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwhitfield/stormview/internal/models"
	"github.com/mwhitfield/stormview/internal/radar"
)

// renderTimelineBar draws the frame timeline: a track with the current
// frame highlighted and timestamp labels at the marker positions chosen
// by the layout logic.
func renderTimelineBar(timeline models.Timeline, current, width int) string {
	n := len(timeline)
	if n == 0 || width < 4 {
		return mutedStyle.Render("no frames")
	}

	track := make([]string, width)
	for i := range track {
		track[i] = markerStyle.Render("─")
	}

	markers := radar.LayoutMarkers(timeline, width-1)
	for _, m := range markers {
		track[m.X] = markerStyle.Render("┬")
	}

	currentX := 0
	if n > 1 {
		currentX = current * (width - 1) / (n - 1)
	}
	track[currentX] = currentFrameStyle.Render("●")

	labels := make([]rune, width)
	for i := range labels {
		labels[i] = ' '
	}
	for _, m := range markers {
		label := timeline[m.Index].DisplayTime()
		x := m.X
		if x+len(label) > width {
			x = width - len(label)
		}
		if x < 0 {
			continue
		}
		for i, r := range label {
			if x+i < width {
				labels[x+i] = r
			}
		}
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		strings.Join(track, ""),
		mutedStyle.Render(string(labels)),
	)
}
