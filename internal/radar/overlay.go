package radar

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mwhitfield/stormview/internal/mapsurface"
	"github.com/mwhitfield/stormview/internal/models"
	"github.com/mwhitfield/stormview/internal/rainviewer"
)

// Default tile overlay rendering knobs.
const (
	OverlayOpacity = 0.6
	OverlayZIndex  = 400 // above the base layer, below polygons
)

// DefaultRemoveDelay is how long the outgoing overlay lingers after a
// swap. Keeping it briefly avoids a blank flash while the incoming tiles
// load.
const DefaultRemoveDelay = 60 * time.Millisecond

// Swapper materializes frame overlays on the map surface and retires the
// previous one after a short delay.
type Swapper struct {
	surface mapsurface.Surface
	tiles   rainviewer.TimelineClient
	clk     clock.Clock

	mu          sync.Mutex
	current     mapsurface.OverlayHandle
	RemoveDelay time.Duration
}

// NewSwapper creates a swapper bound to a surface and tile URL source.
func NewSwapper(surface mapsurface.Surface, tiles rainviewer.TimelineClient, clk clock.Clock) *Swapper {
	return &Swapper{
		surface:     surface,
		tiles:       tiles,
		clk:         clk,
		RemoveDelay: DefaultRemoveDelay,
	}
}

// ShowFrame places the frame's tile overlay and schedules removal of the
// previous one. The outgoing handle is captured per call so a stale timer
// always removes the overlay it was scheduled for, even if further swaps
// happen before it fires.
func (s *Swapper) ShowFrame(frame models.Frame) {
	url := s.tiles.TileURL(frame)
	incoming := s.surface.AddTileOverlay(url, OverlayOpacity, OverlayZIndex)

	s.mu.Lock()
	outgoing := s.current
	s.current = incoming
	s.mu.Unlock()

	if outgoing != nil {
		s.clk.AfterFunc(s.RemoveDelay, func() {
			s.surface.RemoveOverlay(outgoing)
		})
	}
}

// Clear removes the current overlay immediately.
func (s *Swapper) Clear() {
	s.mu.Lock()
	current := s.current
	s.current = nil
	s.mu.Unlock()

	if current != nil {
		s.surface.RemoveOverlay(current)
	}
}
