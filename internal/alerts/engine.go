// Package alerts polls active hazard alerts for the current viewport and
// reconciles them onto the map surface.
package alerts

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mwhitfield/stormview/internal/mapsurface"
	"github.com/mwhitfield/stormview/internal/models"
	"github.com/mwhitfield/stormview/internal/nws"
)

// Default fetch pacing.
const (
	DefaultThrottle       = 3000 * time.Millisecond
	DefaultDebounceSettle = 500 * time.Millisecond

	// Polygon layers stack above the radar tile overlay.
	polygonZIndexBase = 600
)

// Engine fetches alerts for the current viewport and keeps the surface's
// polygon layers in sync. At most one fetch is ever in flight; extra
// refresh requests are skipped, not queued.
type Engine struct {
	client  nws.AlertClient
	surface mapsurface.Surface
	clk     clock.Clock

	Throttle       time.Duration
	DebounceSettle time.Duration

	mu            sync.Mutex
	inFlight      bool
	hasFetched    bool
	lastFetchAt   time.Time
	cache         *models.AlertData
	rendered      map[string]mapsurface.LayerHandle
	renderedCount int
	selectedID    string
	muteViewport  bool
	lastErr       error
	debounceTimer *clock.Timer
}

// NewEngine creates an engine bound to an alerts source and a surface.
func NewEngine(client nws.AlertClient, surface mapsurface.Surface, clk clock.Clock) *Engine {
	return &Engine{
		client:         client,
		surface:        surface,
		clk:            clk,
		Throttle:       DefaultThrottle,
		DebounceSettle: DefaultDebounceSettle,
		rendered:       make(map[string]mapsurface.LayerHandle),
	}
}

// Refresh fetches active alerts for bounds and reconciles the surface.
// It returns true when the rendered alert set changed. Throttled and
// already-in-flight requests are silent no-ops. Fetch failures are
// recovered locally by re-rendering the cache; the error is still
// returned so the caller can show a transient indicator.
func (e *Engine) Refresh(ctx context.Context, bounds models.Bounds, force bool) (bool, error) {
	e.mu.Lock()
	if e.inFlight {
		e.mu.Unlock()
		return false, nil
	}
	if !force && e.hasFetched && e.clk.Now().Sub(e.lastFetchAt) < e.Throttle {
		cache := e.cache
		if cache != nil {
			e.reconcileLocked(cache.Alerts)
		}
		reopen := e.reopenSelectionLocked()
		e.mu.Unlock()
		reopen()
		return false, nil
	}
	e.inFlight = true
	e.hasFetched = true
	e.lastFetchAt = e.clk.Now()
	e.mu.Unlock()

	data, err := e.client.GetActiveAlerts(ctx, bounds)

	e.mu.Lock()
	e.inFlight = false

	if err != nil {
		e.lastErr = err
		if e.cache != nil {
			e.reconcileLocked(e.cache.Alerts)
			reopen := e.reopenSelectionLocked()
			e.mu.Unlock()
			reopen()
			return false, fmt.Errorf("refreshing alerts: %w", err)
		}
		e.mu.Unlock()
		return false, fmt.Errorf("refreshing alerts: %w", err)
	}

	e.lastErr = nil

	geometried := make([]models.Alert, 0, len(data.Alerts))
	for _, a := range data.Alerts {
		if a.HasGeometry() {
			geometried = append(geometried, a)
		}
	}

	if len(geometried) > 0 {
		e.cache = &models.AlertData{Alerts: geometried, UpdatedAt: data.UpdatedAt}
		e.reconcileLocked(geometried)
		reopen := e.reopenSelectionLocked()
		e.mu.Unlock()
		reopen()
		return true, nil
	}

	if e.cache != nil {
		e.reconcileLocked(e.cache.Alerts)
		reopen := e.reopenSelectionLocked()
		e.mu.Unlock()
		reopen()
		return false, nil
	}

	changed := e.renderedCount > 0
	e.clearRenderedLocked()
	e.mu.Unlock()
	return changed, nil
}

// reconcileLocked replaces every rendered polygon with the new alert set,
// drawn ascending by severity so the most dangerous polygons sit on top.
// Caller holds e.mu.
func (e *Engine) reconcileLocked(alerts []models.Alert) {
	e.clearRenderedLocked()

	ordered := make([]models.Alert, len(alerts))
	copy(ordered, alerts)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Severity.Rank() < ordered[j].Severity.Rank()
	})

	for i, a := range ordered {
		style := StyleFor(a.Severity, a.Hazard())
		style.ZIndex = polygonZIndexBase + i
		h := e.surface.AddPolygonLayer(a.Geometry, style)
		e.surface.BindPopup(h, PopupContent(a))
		e.rendered[a.ID] = h
		e.renderedCount++
	}
}

// reopenSelectionLocked returns a closure that re-opens the selected
// alert's popup if it survived reconciliation. The popup open may pan the
// viewport, so the next viewport event is muted before it runs. Caller
// holds e.mu; the closure must be invoked after unlocking.
func (e *Engine) reopenSelectionLocked() func() {
	if e.selectedID == "" {
		return func() {}
	}
	h, ok := e.rendered[e.selectedID]
	if !ok {
		return func() {}
	}
	e.muteViewport = true
	return func() { e.surface.OpenPopup(h) }
}

func (e *Engine) clearRenderedLocked() {
	for id, h := range e.rendered {
		e.surface.RemovePolygonLayer(h)
		delete(e.rendered, id)
	}
	e.renderedCount = 0
}

// Clear removes every rendered polygon without touching the cache.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.clearRenderedLocked()
}

// SelectAlert marks an alert as user-selected and opens its popup. The
// popup open may pan the map, so the next viewport event is muted.
func (e *Engine) SelectAlert(id string) {
	e.mu.Lock()
	e.selectedID = id
	h, ok := e.rendered[id]
	if ok {
		e.muteViewport = true
	}
	e.mu.Unlock()

	if ok {
		e.surface.OpenPopup(h)
	}
}

// ClearSelection forgets the selected alert.
func (e *Engine) ClearSelection() {
	e.mu.Lock()
	e.selectedID = ""
	e.mu.Unlock()
}

// HandleViewportChanged reacts to a settled pan/zoom. A one-shot mute set
// by popup opens swallows the event; otherwise the refresh is debounced
// so intermediate pans don't each hit the network.
func (e *Engine) HandleViewportChanged(bounds models.Bounds) {
	e.mu.Lock()
	if e.muteViewport {
		e.muteViewport = false
		e.mu.Unlock()
		return
	}
	if e.debounceTimer != nil {
		e.debounceTimer.Stop()
	}
	e.debounceTimer = e.clk.AfterFunc(e.DebounceSettle, func() {
		e.Refresh(context.Background(), bounds, false)
	})
	e.mu.Unlock()
}

// LastError returns the most recent fetch failure, cleared by success.
func (e *Engine) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// RenderedCount returns how many alert polygons are on the surface.
func (e *Engine) RenderedCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.renderedCount
}

// Cache returns the retained fallback alert set, if any.
func (e *Engine) Cache() *models.AlertData {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cache
}

// PopupContent formats an alert's detail popup.
func PopupContent(a models.Alert) string {
	if a.Headline != "" {
		return fmt.Sprintf("%s\n%s", a.Event, a.Headline)
	}
	return a.Event
}
