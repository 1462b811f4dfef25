package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mwhitfield/stormview/internal/models"
)

// getAlertStyle returns the appropriate style for an alert severity
func getAlertStyle(severity models.AlertSeverity) lipgloss.Style {
	switch severity {
	case models.SeverityExtreme:
		return alertExtremeStyle
	case models.SeveritySevere:
		return alertSevereStyle
	case models.SeverityModerate:
		return alertModerateStyle
	case models.SeverityMinor:
		return alertMinorStyle
	default:
		return valueStyle
	}
}

// sortAlertsForList orders alerts most severe first for the side pane.
func sortAlertsForList(alerts []models.Alert) []models.Alert {
	out := make([]models.Alert, len(alerts))
	copy(out, alerts)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Severity.Rank() > out[j].Severity.Rank()
	})
	return out
}

// renderAlertPane lists active alerts with the cursor row expanded.
func renderAlertPane(alerts []models.Alert, cursor int, width int) string {
	if len(alerts) == 0 {
		return mutedStyle.Render("No active alerts in view")
	}

	var lines []string
	for i, a := range alerts {
		style := getAlertStyle(a.Severity)
		prefix := "  "
		if i == cursor {
			prefix = "> "
		}
		// Truncate the raw text before styling so the ANSI codes lipgloss
		// emits don't count against the width.
		event := a.Event
		if len(prefix)+len(event) > width && width > 3 {
			event = event[:width-3] + "…"
		}
		lines = append(lines, prefix+style.Render(event))

		if i == cursor && a.Headline != "" {
			headline := a.Headline
			if len(headline) > width-4 && width > 5 {
				headline = headline[:width-5] + "…"
			}
			lines = append(lines, "    "+mutedStyle.Render(headline))
			lines = append(lines, "    "+mutedStyle.Render(
				fmt.Sprintf("%s · expires %s", a.Severity, a.Expires.Local().Format("3:04 PM"))))
		}
	}

	return strings.Join(lines, "\n")
}
