package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mwhitfield/stormview/internal/alerts"
	"github.com/mwhitfield/stormview/internal/models"
)

// Message types for async operations

// frameTickMsg drives periodic re-render while the overlay is open, so
// timer-driven playback and overlay swaps show up on screen.
type frameTickMsg time.Time

// alertsRefreshedMsg is sent when a manual alert refresh completes
type alertsRefreshedMsg struct {
	changed bool
	err     error
}

// frameTick schedules the next render tick.
func frameTick() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

// refreshAlerts runs a forced alert refresh in the background
func refreshAlerts(engine *alerts.Engine, bounds models.Bounds) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		changed, err := engine.Refresh(ctx, bounds, true)
		return alertsRefreshedMsg{changed: changed, err: err}
	}
}
