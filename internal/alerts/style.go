package alerts

import (
	"github.com/mwhitfield/stormview/internal/mapsurface"
	"github.com/mwhitfield/stormview/internal/models"
)

// Four-shade palettes per hazard family, lightest to darkest. The
// severity tier indexes into the family.
var hazardPalettes = map[models.Hazard][4]string{
	models.HazardFlood:        {"#81C784", "#4CAF50", "#2E7D32", "#1B5E20"},
	models.HazardThunderstorm: {"#FFF176", "#FFD54F", "#FFA000", "#FF6F00"},
	models.HazardTornado:      {"#E57373", "#EF5350", "#D32F2F", "#B71C1C"},
	models.HazardWinter:       {"#90CAF9", "#64B5F6", "#1E88E5", "#0D47A1"},
	models.HazardFire:         {"#FFAB91", "#FF8A65", "#F4511E", "#BF360C"},
	models.HazardFog:          {"#CFD8DC", "#B0BEC5", "#78909C", "#455A64"},
	models.HazardWind:         {"#80CBC4", "#4DB6AC", "#00897B", "#004D40"},
	models.HazardOther:        {"#B39DDB", "#9575CD", "#673AB7", "#4527A0"},
}

// StyleFor derives a polygon style purely from severity and hazard
// family. The draw-order z-index is assigned separately during
// reconciliation.
func StyleFor(severity models.AlertSeverity, hazard models.Hazard) mapsurface.PolygonStyle {
	palette, ok := hazardPalettes[hazard]
	if !ok {
		palette = hazardPalettes[models.HazardOther]
	}
	tier := severity.Tier()
	color := palette[tier]

	return mapsurface.PolygonStyle{
		Color:         color,
		FillColor:     color,
		Weight:        2,
		BorderOpacity: 0.7 + float64(tier)*0.1,
		FillOpacity:   0.15 + float64(tier)*0.05,
		Pulse:         severity == models.SeverityExtreme || severity == models.SeveritySevere,
	}
}
