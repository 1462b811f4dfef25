package ui

import (
	"fmt"
	"sync"

	"github.com/benbjohnson/clock"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mwhitfield/stormview/internal/mapsurface"
	"github.com/mwhitfield/stormview/internal/modal"
	"github.com/mwhitfield/stormview/internal/models"
	"github.com/mwhitfield/stormview/internal/nws"
	"github.com/mwhitfield/stormview/internal/radar"
	"github.com/mwhitfield/stormview/internal/rainviewer"
)

// chrome implements the modal controller's Decorations and Panel
// collaborators as visibility flags the views consult.
type chrome struct {
	mu           sync.Mutex
	decorations  bool
	panelVisible bool
}

func newChrome() *chrome {
	return &chrome{decorations: true}
}

func (c *chrome) Hide() {
	c.mu.Lock()
	c.decorations = false
	c.mu.Unlock()
}

func (c *chrome) Restore() {
	c.mu.Lock()
	c.decorations = true
	c.mu.Unlock()
}

func (c *chrome) Show() {
	c.mu.Lock()
	c.panelVisible = true
	c.mu.Unlock()
}

// Hide on the panel side arrives via a second type so both interfaces
// can be satisfied without method clashes.
type panelOf struct{ *chrome }

func (p panelOf) Show() { p.chrome.Show() }
func (p panelOf) Hide() {
	p.chrome.mu.Lock()
	p.chrome.panelVisible = false
	p.chrome.mu.Unlock()
}

func (c *chrome) overlayVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.panelVisible
}

func (c *chrome) decorationsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decorations
}

// Model is the dashboard application model hosting the radar overlay.
type Model struct {
	width  int
	height int

	locationName string
	viewport     models.Viewport

	chrome     *chrome
	mapView    *MapView
	history    *mapsurface.MemoryHistory
	controller *modal.Controller

	spinner      spinner.Model
	alertCursor  int
	lastErr      error
	alertsNotice string
}

// NewModel wires the dashboard around a starting viewport.
func NewModel(locationName string, vp models.Viewport, bounds models.Bounds, basemap []models.Geometry) Model {
	ch := newChrome()
	mapView := NewMapView(bounds, basemap)
	history := mapsurface.NewMemoryHistory()

	controller := modal.NewController(
		ch,
		panelOf{ch},
		history,
		func() mapsurface.Surface {
			mapView.SetViewport(vp)
			return mapView
		},
		rainviewer.NewClient(),
		nws.NewClient(),
		clock.New(),
	)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(colorPrimary)

	return Model{
		locationName: locationName,
		viewport:     vp,
		chrome:       ch,
		mapView:      mapView,
		history:      history,
		controller:   controller,
		spinner:      s,
	}
}

// Init starts the render tick loop.
func (m Model) Init() tea.Cmd {
	return tea.Batch(frameTick(), m.spinner.Tick)
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case frameTickMsg:
		return m, frameTick()

	case alertsRefreshedMsg:
		m.lastErr = msg.err
		m.alertsNotice = ""
		if msg.err == nil && msg.changed {
			m.alertsNotice = "alerts updated"
			// The cursor may point past the end of the new alert set.
			if n := len(m.visibleAlerts()); m.alertCursor >= n {
				m.alertCursor = 0
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" || key == "q" {
		return m, tea.Quit
	}

	if !m.chrome.overlayVisible() {
		if key == "m" || msg.Type == tea.KeyEnter {
			m.alertCursor = 0
			m.controller.Open()
		}
		return m, nil
	}

	// Overlay keys.
	switch {
	case msg.Type == tea.KeyEsc:
		// The back gesture: pops history, which closes the overlay.
		m.history.Back()
		return m, nil

	case key == " ":
		if p := m.controller.Player(); p != nil {
			p.Toggle()
		}
		return m, nil

	case msg.Type == tea.KeyLeft:
		if p := m.controller.Player(); p != nil {
			p.SelectFrame(p.Current() - 1)
		}
		return m, nil

	case msg.Type == tea.KeyRight:
		if p := m.controller.Player(); p != nil {
			p.SelectFrame(p.Current() + 1)
		}
		return m, nil

	case key == "r":
		if e := m.controller.Engine(); e != nil {
			return m, refreshAlerts(e, m.mapView.Bounds())
		}
		return m, nil

	case key == "j", msg.Type == tea.KeyDown:
		if n := len(m.visibleAlerts()); n > 0 {
			m.alertCursor = (m.alertCursor + 1) % n
		}
		return m, nil

	case key == "k", msg.Type == tea.KeyUp:
		if n := len(m.visibleAlerts()); n > 0 {
			m.alertCursor = (m.alertCursor + n - 1) % n
		}
		return m, nil

	case msg.Type == tea.KeyEnter:
		alerts := m.visibleAlerts()
		if m.alertCursor < len(alerts) {
			if e := m.controller.Engine(); e != nil {
				e.SelectAlert(alerts[m.alertCursor].ID)
			}
		}
		return m, nil
	}

	return m, nil
}

// visibleAlerts returns the cached alert set ordered for the side pane.
func (m Model) visibleAlerts() []models.Alert {
	e := m.controller.Engine()
	if e == nil {
		return nil
	}
	cache := e.Cache()
	if cache == nil {
		return nil
	}
	return sortAlertsForList(cache.Alerts)
}

// View renders the UI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	if m.chrome.overlayVisible() {
		return m.viewOverlay()
	}
	return m.viewDashboard()
}

// viewDashboard renders the ambient weather page
func (m Model) viewDashboard() string {
	title := titleStyle.Render("⛈ Stormview")
	subtitle := mutedStyle.Render(fmt.Sprintf("Weather dashboard · %s", m.locationName))

	var sections []string
	sections = append(sections, title, subtitle, "")

	if m.chrome.decorationsVisible() {
		sections = append(sections,
			mutedStyle.Render("        .--.      "),
			mutedStyle.Render("     .-(    ).    "),
			mutedStyle.Render("    (___.__)__)   "),
			mutedStyle.Render("      ‚ʻ‚ʻ‚ʻ‚ʻ    "),
			"")
	}

	sections = append(sections, helpStyle.Render("M/Enter: Radar & alerts · Q: Quit"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// viewOverlay renders the radar overlay modal
func (m Model) viewOverlay() string {
	mapWidth := m.width - 36
	if mapWidth < 20 {
		mapWidth = m.width - 4
	}
	mapHeight := m.height - 10
	if mapHeight < 5 {
		mapHeight = 5
	}

	mapPane := paneStyle.Render(m.mapView.View(mapWidth-4, mapHeight))

	var timeline models.Timeline
	current := 0
	status := m.spinner.View() + " loading frames..."
	if tm := m.controller.Timeline(); tm != nil {
		timeline = tm.Timeline()
	}
	if p := m.controller.Player(); p != nil && len(timeline) > 0 {
		current = p.Current()
		frame := timeline[current]
		mode := "❚❚"
		if p.Mode() == radar.ModePlaying {
			mode = "▶"
		}
		status = fmt.Sprintf("%s %s", mode, frame.DisplayTime())
	}

	bar := renderTimelineBar(timeline, current, mapWidth-4)

	left := lipgloss.JoinVertical(lipgloss.Left,
		mapPane,
		currentFrameStyle.Render(status),
		bar,
	)

	alertList := m.visibleAlerts()
	right := paneStyle.Width(30).Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⚠ Alerts"),
		renderAlertPane(alertList, m.alertCursor, 28),
	))

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	var footer string
	if e := m.controller.Engine(); e != nil && e.LastError() != nil {
		footer = errorStyle.Render("✗ alert refresh failed, showing cached data")
	} else if m.lastErr != nil {
		footer = errorStyle.Render("✗ refresh failed")
	} else if m.alertsNotice != "" {
		footer = mutedStyle.Render("✓ " + m.alertsNotice)
	}

	help := helpStyle.Render("Space: Play/Pause · ←/→: Frame · J/K: Alerts · Enter: Details · R: Refresh · Esc: Back")

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("⛈ Radar & Alerts"),
		body,
		footer,
		help,
	)
}
