// Package modal owns the radar overlay's open/close lifecycle: surface
// initialization, history integration, and wiring between the timeline,
// playback, and alert components.
package modal

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mwhitfield/stormview/internal/alerts"
	"github.com/mwhitfield/stormview/internal/mapsurface"
	"github.com/mwhitfield/stormview/internal/nws"
	"github.com/mwhitfield/stormview/internal/radar"
	"github.com/mwhitfield/stormview/internal/rainviewer"
)

// State is the modal's lifecycle phase.
type State int

const (
	StateClosed State = iota
	StateOpening
	StateOpen
	StateClosing
)

// HistoryTag marks the overlay's entry on the history stack.
const HistoryTag = "radar-overlay"

// Lifecycle delays.
const (
	// DefaultSettleDelay lets the modal surface become visible before
	// the map is initialized and fetches start.
	DefaultSettleDelay = 300 * time.Millisecond

	// DefaultExitDelay covers the modal's exit animation before the
	// surface is hidden.
	DefaultExitDelay = 200 * time.Millisecond
)

// Decorations is the host page's ambient weather chrome, hidden while the
// overlay is open.
type Decorations interface {
	Hide()
	Restore()
}

// Panel controls the modal surface's visibility.
type Panel interface {
	Show()
	Hide()
}

// Controller drives the overlay modal. It creates the map surface lazily
// on first open and reuses it across open/close cycles.
type Controller struct {
	decorations Decorations
	panel       Panel
	history     mapsurface.History
	clk         clock.Clock

	surfaceFactory func() mapsurface.Surface
	tiles          rainviewer.TimelineClient
	alertClient    nws.AlertClient

	SettleDelay time.Duration
	ExitDelay   time.Duration

	mu            sync.Mutex
	state         State
	historyPushed bool
	initOnce      sync.Once

	surface  mapsurface.Surface
	timeline *radar.TimelineManager
	swapper  *radar.Swapper
	player   *radar.Player
	engine   *alerts.Engine
}

// NewController wires a controller. The surface factory is invoked at
// most once, on the first open.
func NewController(
	decorations Decorations,
	panel Panel,
	history mapsurface.History,
	surfaceFactory func() mapsurface.Surface,
	tiles rainviewer.TimelineClient,
	alertClient nws.AlertClient,
	clk clock.Clock,
) *Controller {
	c := &Controller{
		decorations:    decorations,
		panel:          panel,
		history:        history,
		clk:            clk,
		surfaceFactory: surfaceFactory,
		tiles:          tiles,
		alertClient:    alertClient,
		SettleDelay:    DefaultSettleDelay,
		ExitDelay:      DefaultExitDelay,
	}
	history.OnPop(func(tag string) {
		if tag == HistoryTag {
			c.Close(true)
		}
	})
	return c
}

// State returns the current lifecycle phase.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Player returns the playback state machine, nil before first open.
func (c *Controller) Player() *radar.Player {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.player
}

// Engine returns the alert engine, nil before first open.
func (c *Controller) Engine() *alerts.Engine {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine
}

// Timeline returns the timeline manager, nil before first open.
func (c *Controller) Timeline() *radar.TimelineManager {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timeline
}

// Surface returns the map surface, nil before first open.
func (c *Controller) Surface() mapsurface.Surface {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.surface
}

// Open shows the overlay: hide ambient decorations, reveal the panel,
// push one history entry for the session, and after a settle delay
// initialize the map (once per process) and kick the initial fetches.
func (c *Controller) Open() {
	c.mu.Lock()
	if c.state == StateOpening || c.state == StateOpen {
		// Re-entrant open: still guarantee a single history entry.
		if !c.historyPushed {
			c.historyPushed = true
			c.mu.Unlock()
			c.history.Push(HistoryTag)
			return
		}
		c.mu.Unlock()
		return
	}
	c.state = StateOpening
	push := !c.historyPushed
	if push {
		c.historyPushed = true
	}
	c.mu.Unlock()

	c.decorations.Hide()
	c.panel.Show()
	if push {
		c.history.Push(HistoryTag)
	}

	c.clk.AfterFunc(c.SettleDelay, c.settle)
}

// settle finishes opening after the panel transition: lazy map init and
// the first timeline fetch plus a forced alert refresh.
func (c *Controller) settle() {
	c.mu.Lock()
	if c.state != StateOpening {
		// Closed before the settle delay elapsed.
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.initOnce.Do(func() {
		surface := c.surfaceFactory()
		timeline := radar.NewTimelineManager(c.tiles)
		swapper := radar.NewSwapper(surface, c.tiles, c.clk)
		player := radar.NewPlayer(timeline, swapper, c.clk)
		engine := alerts.NewEngine(c.alertClient, surface, c.clk)
		surface.OnViewportChanged(engine.HandleViewportChanged)

		c.mu.Lock()
		c.surface = surface
		c.timeline = timeline
		c.swapper = swapper
		c.player = player
		c.engine = engine
		c.mu.Unlock()
	})

	ctx := context.Background()
	if _, err := c.timeline.Fetch(ctx); err == nil {
		c.player.ShowLatest()
	}
	c.engine.Refresh(ctx, c.surface.Bounds(), true)

	c.mu.Lock()
	if c.state == StateOpening {
		c.state = StateOpen
	}
	c.mu.Unlock()
}

// Close dismisses the overlay. When a history entry is pushed and the
// close did not come from a history pop, it defers to history.Back(): the
// resulting pop re-enters Close with fromHistoryPop=true, so the back
// gesture and the explicit control converge on one teardown path.
func (c *Controller) Close(fromHistoryPop bool) {
	c.mu.Lock()
	if c.state == StateClosed {
		c.mu.Unlock()
		return
	}

	if c.historyPushed && !fromHistoryPop {
		c.state = StateClosing
		c.mu.Unlock()
		c.history.Back()
		return
	}

	c.state = StateClosing
	c.historyPushed = false
	player := c.player
	c.mu.Unlock()

	if player != nil {
		player.Halt()
	}
	c.decorations.Restore()
	c.clk.AfterFunc(c.ExitDelay, c.panel.Hide)

	c.mu.Lock()
	c.state = StateClosed
	c.mu.Unlock()
}
