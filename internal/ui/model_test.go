package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwhitfield/stormview/internal/mapsurface"
	"github.com/mwhitfield/stormview/internal/models"
)

var uiBounds = models.Bounds{North: 40, South: 36, East: -96, West: -102}

func TestModel_QuitKeys(t *testing.T) {
	m := NewModel("Wichita, KS", models.Viewport{Lat: 37.7, Lon: -97.3, Zoom: 7}, uiBounds, nil)

	for _, key := range []string{"q", "ctrl+c"} {
		t.Run(key, func(t *testing.T) {
			msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
			if key == "ctrl+c" {
				msg = tea.KeyMsg{Type: tea.KeyCtrlC}
			}
			_, cmd := m.Update(msg)
			if cmd == nil {
				t.Fatal("quit key should produce a command")
			}
		})
	}
}

func TestModel_WindowSize(t *testing.T) {
	m := NewModel("Wichita, KS", models.Viewport{}, uiBounds, nil)

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	got := updated.(Model)
	if got.width != 120 || got.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", got.width, got.height)
	}
}

func TestChrome_Flags(t *testing.T) {
	ch := newChrome()

	if !ch.decorationsVisible() {
		t.Error("decorations should start visible")
	}
	if ch.overlayVisible() {
		t.Error("overlay should start hidden")
	}

	ch.Hide()
	panelOf{ch}.Show()
	if ch.decorationsVisible() || !ch.overlayVisible() {
		t.Error("open transition should hide decorations and show the panel")
	}

	ch.Restore()
	panelOf{ch}.Hide()
	if !ch.decorationsVisible() || ch.overlayVisible() {
		t.Error("close transition should restore decorations and hide the panel")
	}
}

func TestSortAlertsForList(t *testing.T) {
	alerts := []models.Alert{
		{ID: "A", Event: "Flood Advisory", Severity: models.SeverityMinor},
		{ID: "B", Event: "Tornado Warning", Severity: models.SeverityExtreme},
		{ID: "C", Event: "Flood Warning", Severity: models.SeverityModerate},
	}

	sorted := sortAlertsForList(alerts)
	want := []string{"B", "C", "A"}
	for i, id := range want {
		if sorted[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, sorted[i].ID, id)
		}
	}
}

func TestRenderAlertPane(t *testing.T) {
	out := renderAlertPane(nil, 0, 28)
	if !strings.Contains(out, "No active alerts") {
		t.Errorf("empty pane = %q, want placeholder", out)
	}

	alerts := []models.Alert{
		{Event: "Tornado Warning", Headline: "Tornado near town", Severity: models.SeverityExtreme, Expires: time.Now().Add(time.Hour)},
		{Event: "Flood Advisory", Severity: models.SeverityMinor},
	}
	out = renderAlertPane(alerts, 0, 40)
	if !strings.Contains(out, "Tornado Warning") {
		t.Error("pane should list alert events")
	}
	if !strings.Contains(out, "Tornado near town") {
		t.Error("cursor row should expand the headline")
	}
}

func TestModel_AlertRefreshMessage(t *testing.T) {
	m := NewModel("Wichita, KS", models.Viewport{Lat: 37.7, Lon: -97.3, Zoom: 7}, uiBounds, nil)
	m.alertCursor = 3

	updated, _ := m.Update(alertsRefreshedMsg{changed: true})
	m = updated.(Model)
	if m.alertsNotice == "" {
		t.Error("successful refresh with changes should set the notice")
	}
	if m.alertCursor != 0 {
		t.Errorf("alertCursor = %d, want 0 after the alert set changed", m.alertCursor)
	}
	if m.lastErr != nil {
		t.Errorf("lastErr = %v, want nil", m.lastErr)
	}

	updated, _ = m.Update(alertsRefreshedMsg{changed: false})
	m = updated.(Model)
	if m.alertsNotice != "" {
		t.Error("unchanged refresh should clear the notice")
	}

	refreshErr := errors.New("boom")
	updated, _ = m.Update(alertsRefreshedMsg{changed: false, err: refreshErr})
	m = updated.(Model)
	if m.lastErr != refreshErr {
		t.Errorf("lastErr = %v, want %v", m.lastErr, refreshErr)
	}
	if m.alertsNotice != "" {
		t.Error("failed refresh should not leave a success notice")
	}
}

func TestRenderAlertPane_Truncation(t *testing.T) {
	alerts := []models.Alert{
		{Event: "Severe Thunderstorm Warning", Severity: models.SeveritySevere},
	}

	// Styling adds invisible escape codes; only visible width may count.
	out := renderAlertPane(alerts, -1, 29)
	line := strings.Split(out, "\n")[0]
	if strings.Contains(line, "…") {
		t.Errorf("event fitting the width was truncated: %q", line)
	}
	if lipgloss.Width(line) > 29 {
		t.Errorf("visible width = %d, want <= 29", lipgloss.Width(line))
	}

	out = renderAlertPane(alerts, -1, 20)
	line = strings.Split(out, "\n")[0]
	if !strings.Contains(line, "…") {
		t.Errorf("overlong event not truncated: %q", line)
	}
	if lipgloss.Width(line) > 20 {
		t.Errorf("visible width = %d, want <= 20", lipgloss.Width(line))
	}
}

func TestRenderTimelineBar(t *testing.T) {
	if out := renderTimelineBar(nil, 0, 40); !strings.Contains(out, "no frames") {
		t.Errorf("empty bar = %q", out)
	}

	timeline := models.Timeline{
		{Time: 1700000000}, {Time: 1700000600}, {Time: 1700001200},
	}
	out := renderTimelineBar(timeline, 1, 40)
	if !strings.Contains(out, "●") {
		t.Error("bar should mark the current frame")
	}
}

func TestMapView_RendersPolygons(t *testing.T) {
	view := NewMapView(uiBounds, nil)

	geom := models.Geometry{Rings: [][][2]float64{
		{{-102, 36}, {-96, 36}, {-96, 40}, {-102, 40}, {-102, 36}},
	}}
	view.AddPolygonLayer(geom, mapsurface.PolygonStyle{Color: "#D32F2F", Pulse: true})

	out := view.View(20, 8)
	if !strings.Contains(out, "█") {
		t.Error("pulsing polygon covering the viewport should fill cells")
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 8 {
		t.Errorf("rendered %d rows, want 8", len(lines))
	}
}

func TestMapView_RadarWash(t *testing.T) {
	view := NewMapView(uiBounds, nil)

	before := view.View(10, 4)
	if strings.Contains(before, "░") {
		t.Error("no radar overlay yet, no wash expected")
	}

	view.AddTileOverlay("https://tiles.example/{z}/{x}/{y}.png", 0.6, 400)
	after := view.View(10, 4)
	if !strings.Contains(after, "░") {
		t.Error("radar overlay should render as a wash")
	}
}

func TestRingContains(t *testing.T) {
	square := [][2]float64{{-100, 38}, {-98, 38}, {-98, 40}, {-100, 40}, {-100, 38}}

	if !ringContains(square, 39, -99) {
		t.Error("center point should be inside")
	}
	if ringContains(square, 41, -99) {
		t.Error("point north of the square should be outside")
	}
	if ringContains(square, 39, -97) {
		t.Error("point east of the square should be outside")
	}
}
