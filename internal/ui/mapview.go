package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwhitfield/stormview/internal/mapsurface"
	"github.com/mwhitfield/stormview/internal/models"
)

// MapView is the terminal map surface. It embeds the recording surface
// for command/state bookkeeping and renders its contents as a character
// grid: basemap outlines, hazard polygons colored by severity, and a
// radar overlay wash.
type MapView struct {
	*mapsurface.Recorder
	basemap []models.Geometry
}

// NewMapView creates a map surface over the given initial bounds.
func NewMapView(bounds models.Bounds, basemap []models.Geometry) *MapView {
	return &MapView{
		Recorder: mapsurface.NewRecorder(bounds),
		basemap:  basemap,
	}
}

// View renders the visible bounds into a width x height cell grid.
func (v *MapView) View(width, height int) string {
	if width < 2 || height < 2 {
		return ""
	}

	bounds := v.Bounds()
	latSpan := bounds.North - bounds.South
	lonSpan := bounds.East - bounds.West
	if latSpan <= 0 || lonSpan <= 0 {
		return ""
	}

	polygons := v.Polygons()
	hasRadar := len(v.Overlays()) > 0

	var b strings.Builder
	for row := 0; row < height; row++ {
		// Row 0 is the northern edge.
		lat := bounds.North - (float64(row)+0.5)*latSpan/float64(height)
		for col := 0; col < width; col++ {
			lon := bounds.West + (float64(col)+0.5)*lonSpan/float64(width)
			b.WriteString(v.cell(lat, lon, polygons, hasRadar))
		}
		if row < height-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

// cell picks the glyph for one grid position. Later-drawn polygons win,
// matching their stacking order on a real map.
func (v *MapView) cell(lat, lon float64, polygons []mapsurface.Polygon, hasRadar bool) string {
	for i := len(polygons) - 1; i >= 0; i-- {
		p := polygons[i]
		if geometryContains(p.Geometry, lat, lon) {
			glyph := "▒"
			if p.Style.Pulse {
				glyph = "█"
			}
			return lipgloss.NewStyle().Foreground(lipgloss.Color(p.Style.Color)).Render(glyph)
		}
	}

	for _, g := range v.basemap {
		if geometryContains(g, lat, lon) {
			return mutedStyle.Render("·")
		}
	}

	if hasRadar {
		return mutedStyle.Render("░")
	}
	return " "
}

// geometryContains runs a ray cast against each ring.
func geometryContains(g models.Geometry, lat, lon float64) bool {
	for _, ring := range g.Rings {
		if ringContains(ring, lat, lon) {
			return true
		}
	}
	return false
}

func ringContains(ring [][2]float64, lat, lon float64) bool {
	inside := false
	n := len(ring)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := ring[i][0], ring[i][1]
		xj, yj := ring[j][0], ring[j][1]
		if (yi > lat) != (yj > lat) &&
			lon < (xj-xi)*(lat-yi)/(yj-yi)+xi {
			inside = !inside
		}
	}
	return inside
}
