package mapsurface

import "sync"

// MemoryHistory is an in-process History backed by a slice. The demo app
// uses it to emulate browser navigation; tests drive it directly.
type MemoryHistory struct {
	mu      sync.Mutex
	entries []string
	popCbs  []func(tag string)
}

// NewMemoryHistory creates an empty history stack.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{}
}

func (h *MemoryHistory) Push(tag string) {
	h.mu.Lock()
	h.entries = append(h.entries, tag)
	h.mu.Unlock()
}

// Back pops the top entry and notifies pop subscribers with its tag.
func (h *MemoryHistory) Back() {
	h.mu.Lock()
	if len(h.entries) == 0 {
		h.mu.Unlock()
		return
	}
	tag := h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	cbs := make([]func(string), len(h.popCbs))
	copy(cbs, h.popCbs)
	h.mu.Unlock()

	for _, cb := range cbs {
		cb(tag)
	}
}

func (h *MemoryHistory) OnPop(cb func(tag string)) {
	h.mu.Lock()
	h.popCbs = append(h.popCbs, cb)
	h.mu.Unlock()
}

// Depth returns how many entries are on the stack.
func (h *MemoryHistory) Depth() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.entries)
}
