package models

import (
	"strings"
	"time"
)

// AlertSeverity represents the severity level of an alert
type AlertSeverity string

const (
	SeverityExtreme  AlertSeverity = "Extreme"
	SeveritySevere   AlertSeverity = "Severe"
	SeverityModerate AlertSeverity = "Moderate"
	SeverityMinor    AlertSeverity = "Minor"
	SeverityUnknown  AlertSeverity = "Unknown"
)

// Rank orders severities for polygon draw order: higher rank draws later,
// so more severe alerts end up on top.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityExtreme:
		return 4
	case SeveritySevere:
		return 3
	case SeverityModerate:
		return 2
	case SeverityMinor:
		return 1
	default:
		return 0
	}
}

// Tier maps severity to a color intensity tier 0-3. Unknown shares the
// lowest tier with Minor.
func (s AlertSeverity) Tier() int {
	switch s {
	case SeverityExtreme:
		return 3
	case SeveritySevere:
		return 2
	case SeverityModerate:
		return 1
	default:
		return 0
	}
}

// Hazard is a coarse hazard family derived from an alert's event name.
type Hazard string

const (
	HazardFlood        Hazard = "flood"
	HazardThunderstorm Hazard = "thunderstorm"
	HazardTornado      Hazard = "tornado"
	HazardWinter       Hazard = "winter"
	HazardFire         Hazard = "fire"
	HazardFog          Hazard = "fog"
	HazardWind         Hazard = "wind"
	HazardOther        Hazard = "other"
)

// ClassifyHazard buckets an event name into a hazard family by keyword.
// Order matters: tornado and extreme wind outrank the generic wind bucket.
func ClassifyHazard(event string) Hazard {
	e := strings.ToLower(event)
	switch {
	case strings.Contains(e, "tornado") || strings.Contains(e, "extreme wind"):
		return HazardTornado
	case strings.Contains(e, "thunderstorm"):
		return HazardThunderstorm
	case strings.Contains(e, "flood"):
		return HazardFlood
	case strings.Contains(e, "winter") || strings.Contains(e, "snow") ||
		strings.Contains(e, "ice") || strings.Contains(e, "blizzard") ||
		strings.Contains(e, "freez"):
		return HazardWinter
	case strings.Contains(e, "fire") || strings.Contains(e, "red flag") ||
		strings.Contains(e, "heat"):
		return HazardFire
	case strings.Contains(e, "fog"):
		return HazardFog
	case strings.Contains(e, "wind") || strings.Contains(e, "hurricane") ||
		strings.Contains(e, "tropical") || strings.Contains(e, "gale"):
		return HazardWind
	default:
		return HazardOther
	}
}

// Alert represents one active hazard alert
type Alert struct {
	ID          string
	Event       string // e.g., "Tornado Warning", "Flood Advisory"
	Headline    string
	Description string
	Severity    AlertSeverity
	Geometry    Geometry
	Expires     time.Time
}

// Hazard classifies the alert by its event name.
func (a *Alert) Hazard() Hazard {
	return ClassifyHazard(a.Event)
}

// HasGeometry reports whether the alert carries renderable coordinates.
func (a *Alert) HasGeometry() bool {
	return !a.Geometry.IsEmpty()
}

// IsActive checks if an alert has not yet expired
func (a *Alert) IsActive() bool {
	return a.Expires.IsZero() || time.Now().Before(a.Expires)
}

// AlertData contains all active alerts for a viewport
type AlertData struct {
	Alerts    []Alert
	UpdatedAt time.Time
}
