package models

// Bounds is a geographic bounding box in degrees.
type Bounds struct {
	North float64
	South float64
	East  float64
	West  float64
}

// Contains reports whether the point lies inside the box.
func (b Bounds) Contains(lat, lon float64) bool {
	return lat <= b.North && lat >= b.South && lon <= b.East && lon >= b.West
}

// Viewport is the map surface's visible center and zoom level.
type Viewport struct {
	Lat  float64
	Lon  float64
	Zoom int
}

// Geometry holds GeoJSON polygon rings. For a Polygon there is one outer
// ring per entry; a MultiPolygon contributes one entry per member polygon.
// Each ring is a sequence of [lon, lat] positions.
type Geometry struct {
	Rings [][][2]float64
}

// IsEmpty reports whether the geometry carries no coordinates.
func (g Geometry) IsEmpty() bool {
	for _, ring := range g.Rings {
		if len(ring) > 0 {
			return false
		}
	}
	return true
}

// BoundingBox returns the smallest Bounds enclosing all rings.
func (g Geometry) BoundingBox() Bounds {
	box := Bounds{North: -90, South: 90, East: -180, West: 180}
	for _, ring := range g.Rings {
		for _, pos := range ring {
			lon, lat := pos[0], pos[1]
			if lat > box.North {
				box.North = lat
			}
			if lat < box.South {
				box.South = lat
			}
			if lon > box.East {
				box.East = lon
			}
			if lon < box.West {
				box.West = lon
			}
		}
	}
	return box
}

// Intersects reports whether the geometry's bounding box overlaps b.
func (g Geometry) Intersects(b Bounds) bool {
	if g.IsEmpty() {
		return false
	}
	box := g.BoundingBox()
	return box.South <= b.North && box.North >= b.South &&
		box.West <= b.East && box.East >= b.West
}
