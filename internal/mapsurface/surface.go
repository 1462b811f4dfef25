// Package mapsurface defines the contract between the overlay controllers
// and the map rendering surface. Implementations render however they like;
// the controllers only issue commands and subscribe to viewport events.
package mapsurface

import "github.com/mwhitfield/stormview/internal/models"

// OverlayHandle identifies one tile overlay placed on the surface.
type OverlayHandle interface{}

// LayerHandle identifies one polygon layer placed on the surface.
type LayerHandle interface{}

// PolygonStyle describes how a hazard polygon is drawn.
type PolygonStyle struct {
	Color         string  // border color, hex
	FillColor     string  // fill color, hex
	Weight        int     // border width
	BorderOpacity float64 // 0..1
	FillOpacity   float64 // 0..1
	ZIndex        int     // stacking position among polygon layers
	Pulse         bool    // emphasis treatment for the most dangerous alerts
}

// ViewportFunc receives the surface's visible bounds after a pan or zoom
// settles.
type ViewportFunc func(bounds models.Bounds)

// Surface is the map rendering collaborator.
type Surface interface {
	// SetViewport centers the surface on a point at a zoom level.
	SetViewport(vp models.Viewport)

	// Bounds returns the currently visible geographic bounds.
	Bounds() models.Bounds

	// AddTileOverlay places a tile layer above the base map and returns
	// its handle.
	AddTileOverlay(urlTemplate string, opacity float64, zIndex int) OverlayHandle

	// RemoveOverlay removes a previously added tile overlay. Unknown
	// handles are ignored.
	RemoveOverlay(h OverlayHandle)

	// AddPolygonLayer draws a styled polygon and returns its handle.
	AddPolygonLayer(geom models.Geometry, style PolygonStyle) LayerHandle

	// RemovePolygonLayer removes a polygon layer. Unknown handles are
	// ignored.
	RemovePolygonLayer(h LayerHandle)

	// BindPopup attaches detail content to a polygon layer.
	BindPopup(h LayerHandle, content string)

	// OpenPopup opens a layer's popup, panning the viewport to it if
	// needed. The pan may emit a viewport-changed event.
	OpenPopup(h LayerHandle)

	// OnViewportChanged registers a callback for settled pan/zoom events.
	OnViewportChanged(cb ViewportFunc)
}

// History abstracts browser-style navigation history. Pushing marks the
// open overlay in the stack; a back gesture pops it and fires OnPop.
type History interface {
	Push(tag string)
	Back()
	OnPop(cb func(tag string))
}
