package radar

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/mwhitfield/stormview/internal/models"
)

// DefaultTickInterval is the playback frame advance cadence.
const DefaultTickInterval = 1000 * time.Millisecond

// PlaybackMode is the player's animation state.
type PlaybackMode int

const (
	ModeStopped PlaybackMode = iota
	ModePlaying
)

// FrameShownFunc is notified whenever a frame is rendered, with its index
// and the frame itself. The UI uses it to move the current marker and
// update the timestamp readout.
type FrameShownFunc func(index int, frame models.Frame)

// Player advances through the timeline automatically or by manual frame
// selection. All transitions render through the overlay swapper.
type Player struct {
	timeline *TimelineManager
	swapper  *Swapper
	clk      clock.Clock

	mu       sync.Mutex
	mode     PlaybackMode
	current  int
	timer    *clock.Timer
	Interval time.Duration

	onFrameShown FrameShownFunc
}

// NewPlayer creates a stopped player over the given timeline.
func NewPlayer(timeline *TimelineManager, swapper *Swapper, clk clock.Clock) *Player {
	return &Player{
		timeline: timeline,
		swapper:  swapper,
		clk:      clk,
		Interval: DefaultTickInterval,
	}
}

// OnFrameShown registers the frame-rendered notification callback.
func (p *Player) OnFrameShown(cb FrameShownFunc) {
	p.mu.Lock()
	p.onFrameShown = cb
	p.mu.Unlock()
}

// Mode returns the current playback mode.
func (p *Player) Mode() PlaybackMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.mode
}

// Current returns the index of the frame being shown.
func (p *Player) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// ShowLatest jumps to the newest frame without changing mode. Called
// after a timeline refresh so the display starts at "now".
func (p *Player) ShowLatest() {
	n := len(p.timeline.Timeline())
	if n == 0 {
		return
	}
	p.mu.Lock()
	p.current = n - 1
	p.mu.Unlock()
	p.render(n - 1)
}

// Play starts timer-driven advance. Playing from the last frame restarts
// at the oldest retained frame.
func (p *Player) Play() {
	n := len(p.timeline.Timeline())
	if n == 0 {
		return
	}

	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.current >= n-1 {
		p.current = 0
	}
	p.mode = ModePlaying
	start := p.current
	p.timer = p.clk.AfterFunc(p.Interval, p.tick)
	p.mu.Unlock()

	p.render(start)
}

// tick advances one frame and reschedules itself.
func (p *Player) tick() {
	p.mu.Lock()
	if p.mode != ModePlaying {
		p.mu.Unlock()
		return
	}
	n := len(p.timeline.Timeline())
	if n == 0 {
		p.mu.Unlock()
		return
	}
	p.current = (p.current + 1) % n
	idx := p.current
	p.timer = p.clk.AfterFunc(p.Interval, p.tick)
	p.mu.Unlock()

	p.render(idx)
}

// Stop cancels playback and jumps back to the latest frame.
func (p *Player) Stop() {
	n := len(p.timeline.Timeline())
	if n == 0 {
		return
	}

	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mode = ModeStopped
	p.current = n - 1
	p.mu.Unlock()

	p.render(n - 1)
}

// SelectFrame stops playback and shows the frame at index i. Out-of-range
// indices leave the player untouched.
func (p *Player) SelectFrame(i int) {
	n := len(p.timeline.Timeline())
	if n == 0 || i < 0 || i >= n {
		return
	}

	p.mu.Lock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mode = ModeStopped
	p.current = i
	p.mu.Unlock()

	p.render(i)
}

// Halt cancels any pending tick and enters Stopped without rendering.
// Used on teardown, where jumping frames would be wasted work against a
// hidden surface.
func (p *Player) Halt() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.mode = ModeStopped
}

// Toggle plays when stopped and stops when playing.
func (p *Player) Toggle() {
	if p.Mode() == ModePlaying {
		p.Stop()
	} else {
		p.Play()
	}
}

func (p *Player) render(i int) {
	frame, ok := p.timeline.Frame(i)
	if !ok {
		return
	}
	p.swapper.ShowFrame(frame)

	p.mu.Lock()
	cb := p.onFrameShown
	p.mu.Unlock()
	if cb != nil {
		cb(i, frame)
	}
}
