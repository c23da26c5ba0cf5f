package routing

// Point is a plain latitude/longitude pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Ring is a closed sequence of points. The closing point may be omitted.
type Ring []Point

// Polygon is one reachable region: an outer ring plus optional holes.
type Polygon struct {
	Outer Ring   `json:"outer"`
	Holes []Ring `json:"holes,omitempty"`
}

// Contains reports whether the point lies inside the polygon, holes excluded.
func (p Polygon) Contains(pt Point) bool {
	if !p.Outer.contains(pt) {
		return false
	}
	for _, hole := range p.Holes {
		if hole.contains(pt) {
			return false
		}
	}
	return true
}

// contains runs a standard even-odd ray cast along constant latitude.
func (r Ring) contains(pt Point) bool {
	if len(r) < 3 {
		return false
	}
	inside := false
	j := len(r) - 1
	for i := 0; i < len(r); i++ {
		a, b := r[i], r[j]
		if (a.Lat > pt.Lat) != (b.Lat > pt.Lat) {
			crossLng := (b.Lng-a.Lng)*(pt.Lat-a.Lat)/(b.Lat-a.Lat) + a.Lng
			if pt.Lng < crossLng {
				inside = !inside
			}
		}
		j = i
	}
	return inside
}
