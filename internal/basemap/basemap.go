// Package basemap loads reference outlines from a shapefile for the
// terminal map view.
package basemap

import (
	"fmt"

	shp "github.com/jonas-p/go-shp"
	"github.com/mwhitfield/stormview/internal/models"
)

// Load reads polygon shapes from a shapefile and converts each part into
// a geometry ring. Non-polygon shapes are skipped.
func Load(shapefilePath string) ([]models.Geometry, error) {
	shape, err := shp.Open(shapefilePath)
	if err != nil {
		return nil, fmt.Errorf("opening shapefile: %w", err)
	}
	defer shape.Close()

	var out []models.Geometry
	for shape.Next() {
		_, p := shape.Shape()

		polygon, ok := p.(*shp.Polygon)
		if !ok {
			continue
		}

		var geom models.Geometry
		for partIdx := 0; partIdx < len(polygon.Parts); partIdx++ {
			start := int(polygon.Parts[partIdx])
			end := len(polygon.Points)
			if partIdx+1 < len(polygon.Parts) {
				end = int(polygon.Parts[partIdx+1])
			}

			ring := make([][2]float64, 0, end-start)
			for _, pt := range polygon.Points[start:end] {
				ring = append(ring, [2]float64{pt.X, pt.Y})
			}
			if len(ring) >= 3 {
				geom.Rings = append(geom.Rings, ring)
			}
		}

		if !geom.IsEmpty() {
			out = append(out, geom)
		}
	}

	return out, nil
}

// Clip keeps only geometries whose bounding box intersects the given
// bounds, so off-screen outlines don't slow down rendering.
func Clip(geoms []models.Geometry, bounds models.Bounds) []models.Geometry {
	out := make([]models.Geometry, 0, len(geoms))
	for _, g := range geoms {
		if g.Intersects(bounds) {
			out = append(out, g)
		}
	}
	return out
}
