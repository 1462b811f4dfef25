package mapsurface

import (
	"sync"

	"github.com/mwhitfield/stormview/internal/models"
)

// Overlay is one tile overlay held by a Recorder.
type Overlay struct {
	ID          int
	URLTemplate string
	Opacity     float64
	ZIndex      int
}

// Polygon is one polygon layer held by a Recorder.
type Polygon struct {
	ID       int
	Geometry models.Geometry
	Style    PolygonStyle
	Popup    string
	DrawSeq  int // order in which the layer was added
}

// Recorder is an in-memory Surface that records every command issued to
// it. Controller tests assert against its state; the terminal UI embeds
// it as the backing store for rendering.
type Recorder struct {
	mu       sync.Mutex
	nextID   int
	drawSeq  int
	viewport models.Viewport
	bounds   models.Bounds

	overlays map[int]*Overlay
	polygons map[int]*Polygon

	viewportCbs []ViewportFunc

	// Counters for tests.
	OverlaysAdded   int
	OverlaysRemoved int
	PopupsOpened    []int
}

// NewRecorder creates an empty recording surface with the given bounds.
func NewRecorder(bounds models.Bounds) *Recorder {
	return &Recorder{
		bounds:   bounds,
		overlays: make(map[int]*Overlay),
		polygons: make(map[int]*Polygon),
	}
}

func (r *Recorder) SetViewport(vp models.Viewport) {
	r.mu.Lock()
	r.viewport = vp
	r.mu.Unlock()
}

// Viewport returns the last viewport set on the surface.
func (r *Recorder) Viewport() models.Viewport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewport
}

func (r *Recorder) Bounds() models.Bounds {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.bounds
}

// SetBounds updates the visible bounds without emitting an event.
func (r *Recorder) SetBounds(b models.Bounds) {
	r.mu.Lock()
	r.bounds = b
	r.mu.Unlock()
}

// EmitViewportChanged simulates a settled pan/zoom to the given bounds.
func (r *Recorder) EmitViewportChanged(b models.Bounds) {
	r.mu.Lock()
	r.bounds = b
	cbs := make([]ViewportFunc, len(r.viewportCbs))
	copy(cbs, r.viewportCbs)
	r.mu.Unlock()

	for _, cb := range cbs {
		cb(b)
	}
}

func (r *Recorder) AddTileOverlay(urlTemplate string, opacity float64, zIndex int) OverlayHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	ov := &Overlay{ID: r.nextID, URLTemplate: urlTemplate, Opacity: opacity, ZIndex: zIndex}
	r.overlays[ov.ID] = ov
	r.OverlaysAdded++
	return ov.ID
}

func (r *Recorder) RemoveOverlay(h OverlayHandle) {
	id, ok := h.(int)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.overlays[id]; exists {
		delete(r.overlays, id)
		r.OverlaysRemoved++
	}
}

func (r *Recorder) AddPolygonLayer(geom models.Geometry, style PolygonStyle) LayerHandle {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	r.drawSeq++
	r.polygons[r.nextID] = &Polygon{ID: r.nextID, Geometry: geom, Style: style, DrawSeq: r.drawSeq}
	return r.nextID
}

func (r *Recorder) RemovePolygonLayer(h LayerHandle) {
	id, ok := h.(int)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.polygons, id)
}

func (r *Recorder) BindPopup(h LayerHandle, content string) {
	id, ok := h.(int)
	if !ok {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, exists := r.polygons[id]; exists {
		p.Popup = content
	}
}

func (r *Recorder) OpenPopup(h LayerHandle) {
	id, ok := h.(int)
	if !ok {
		return
	}
	r.mu.Lock()
	r.PopupsOpened = append(r.PopupsOpened, id)
	r.mu.Unlock()
}

func (r *Recorder) OnViewportChanged(cb ViewportFunc) {
	r.mu.Lock()
	r.viewportCbs = append(r.viewportCbs, cb)
	r.mu.Unlock()
}

// Overlays returns the tile overlays currently on the surface.
func (r *Recorder) Overlays() []Overlay {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Overlay, 0, len(r.overlays))
	for _, ov := range r.overlays {
		out = append(out, *ov)
	}
	return out
}

// Polygons returns the polygon layers currently on the surface, in draw
// order.
func (r *Recorder) Polygons() []Polygon {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Polygon, 0, len(r.polygons))
	for _, p := range r.polygons {
		out = append(out, *p)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].DrawSeq < out[j-1].DrawSeq; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
