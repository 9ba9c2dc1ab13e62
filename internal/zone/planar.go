package zone

import (
	"errors"
	"math"

	"github.com/ctessum/geom"
)

// Part is one connected piece of a region: an exterior ring plus any hole
// rings it contains. Rings are implicitly closed (first vertex is not
// repeated at the end).
type Part struct {
	Exterior [][2]float64
	Holes    [][][2]float64
}

// Region is an immutable planar shape. Implementations must be safe for
// concurrent readers.
type Region interface {
	Area() float64
	Perimeter() float64
	Bounds() (minX, minY, maxX, maxY float64)
	Covers(x, y float64) bool
	Empty() bool
	Parts() []Part
}

// Engine is the planar-geometry capability behind the evaluator: simple
// polygon construction plus the four boolean set operations. Results of the
// set operations may be empty, multi-part, or contain holes.
type Engine interface {
	Polygon(ring [][2]float64) (Region, error)
	Union(a, b Region) Region
	Intersect(a, b Region) Region
	Difference(a, b Region) Region
	SymmetricDifference(a, b Region) Region
}

// planarEngine is the default Engine, backed by github.com/ctessum/geom.
type planarEngine struct{}

// NewPlanarEngine returns the default geometry engine.
func NewPlanarEngine() Engine { return planarEngine{} }

func (planarEngine) Polygon(ring [][2]float64) (Region, error) {
	if len(ring) < 3 {
		return nil, errors.New("polygon needs at least 3 vertices")
	}
	if selfIntersects(ring) {
		return nil, errors.New("polygon ring self-intersects")
	}
	// literals may be wound either way; normalize to counter-clockwise so
	// area and the set operations are orientation independent
	if ringArea(ring) < 0 {
		rev := make([][2]float64, len(ring))
		for i, p := range ring {
			rev[len(ring)-1-i] = p
		}
		ring = rev
	}
	r := make([]geom.Point, len(ring))
	for i, p := range ring {
		r[i] = geom.Point{X: p[0], Y: p[1]}
	}
	poly := geom.Polygon{r}
	if poly.Area() == 0 {
		return nil, errors.New("polygon has zero area")
	}
	return &planarRegion{poly: poly}, nil
}

func (planarEngine) Union(a, b Region) Region {
	return wrap(unwrap(a).Union(unwrap(b)).(geom.Polygon))
}

func (planarEngine) Intersect(a, b Region) Region {
	return wrap(unwrap(a).Intersection(unwrap(b)).(geom.Polygon))
}

func (planarEngine) Difference(a, b Region) Region {
	return wrap(unwrap(a).Difference(unwrap(b)).(geom.Polygon))
}

func (planarEngine) SymmetricDifference(a, b Region) Region {
	return wrap(unwrap(a).XOr(unwrap(b)).(geom.Polygon))
}

func wrap(p geom.Polygon) Region { return &planarRegion{poly: p} }

func unwrap(r Region) geom.Polygon { return r.(*planarRegion).poly }

// planarRegion adapts geom.Polygon (a flat list of rings, possibly several
// parts and holes after set operations) to the Region interface.
type planarRegion struct {
	poly geom.Polygon
}

func (r *planarRegion) Area() float64 { return r.poly.Area() }

func (r *planarRegion) Perimeter() float64 {
	var total float64
	for _, ring := range r.poly {
		n := len(ring)
		for i := 0; i < n; i++ {
			a, b := ring[i], ring[(i+1)%n]
			total += math.Hypot(b.X-a.X, b.Y-a.Y)
		}
	}
	return total
}

func (r *planarRegion) Bounds() (minX, minY, maxX, maxY float64) {
	b := r.poly.Bounds()
	return b.Min.X, b.Min.Y, b.Max.X, b.Max.Y
}

func (r *planarRegion) Covers(x, y float64) bool {
	w := geom.Point{X: x, Y: y}.Within(r.poly)
	return w == geom.Inside || w == geom.OnEdge
}

func (r *planarRegion) Empty() bool {
	return len(r.poly) == 0 || r.poly.Area() == 0
}

// Parts groups the flat ring list into connected parts. A ring whose
// containment depth among the other rings is even is an exterior; odd rings
// are holes, attached to the smallest exterior enclosing them.
func (r *planarRegion) Parts() []Part {
	type ringInfo struct {
		pts   [][2]float64
		area  float64
		depth int
	}
	rings := make([]ringInfo, 0, len(r.poly))
	for _, ring := range r.poly {
		if len(ring) < 3 {
			continue
		}
		pts := make([][2]float64, len(ring))
		for i, p := range ring {
			pts[i] = [2]float64{p.X, p.Y}
		}
		rings = append(rings, ringInfo{pts: pts, area: math.Abs(ringArea(pts))})
	}
	for i := range rings {
		probe := interiorPoint(rings[i].pts)
		for j := range rings {
			if i == j {
				continue
			}
			if pointInRing(probe, rings[j].pts) {
				rings[i].depth++
			}
		}
	}
	var parts []Part
	owner := make([]int, len(rings)) // ring index -> part index
	for i := range rings {
		if rings[i].depth%2 == 0 {
			owner[i] = len(parts)
			parts = append(parts, Part{Exterior: rings[i].pts})
		}
	}
	for i := range rings {
		if rings[i].depth%2 == 0 {
			continue
		}
		// attach to the smallest exterior ring containing this hole
		probe := interiorPoint(rings[i].pts)
		best, bestArea := -1, math.Inf(1)
		for j := range rings {
			if rings[j].depth%2 != 0 {
				continue
			}
			if pointInRing(probe, rings[j].pts) && rings[j].area < bestArea {
				best, bestArea = j, rings[j].area
			}
		}
		if best >= 0 {
			pi := owner[best]
			parts[pi].Holes = append(parts[pi].Holes, rings[i].pts)
		}
	}
	return parts
}

// ringArea returns the signed area of an implicitly closed ring.
func ringArea(ring [][2]float64) float64 {
	var s float64
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		s += a[0]*b[1] - b[0]*a[1]
	}
	return s / 2
}

// interiorPoint returns a point inside the ring: the midpoint of the
// diagonal from a convex-hull vertex, falling back to the first vertex.
func interiorPoint(ring [][2]float64) [2]float64 {
	// vertex with lowest (y, x) is on the hull; the centroid of it and its
	// two neighbours lies inside for that locally convex corner
	lo := 0
	for i, p := range ring {
		q := ring[lo]
		if p[1] < q[1] || (p[1] == q[1] && p[0] < q[0]) {
			lo = i
		}
	}
	n := len(ring)
	a, b, c := ring[(lo+n-1)%n], ring[lo], ring[(lo+1)%n]
	return [2]float64{(a[0] + b[0] + c[0]) / 3, (a[1] + b[1] + c[1]) / 3}
}

// pointInRing is an even-odd ray cast, boundary excluded.
func pointInRing(p [2]float64, ring [][2]float64) bool {
	in := false
	n := len(ring)
	for i := 0; i < n; i++ {
		a, b := ring[i], ring[(i+1)%n]
		if (a[1] > p[1]) != (b[1] > p[1]) {
			x := a[0] + (p[1]-a[1])/(b[1]-a[1])*(b[0]-a[0])
			if p[0] < x {
				in = !in
			}
		}
	}
	return in
}

// selfIntersects reports whether any two non-adjacent edges of the ring
// cross or overlap.
func selfIntersects(ring [][2]float64) bool {
	n := len(ring)
	for i := 0; i < n; i++ {
		a1, a2 := ring[i], ring[(i+1)%n]
		for j := i + 1; j < n; j++ {
			// skip adjacent edges (they share a vertex by construction)
			if j == i || (j+1)%n == i || (i+1)%n == j {
				continue
			}
			b1, b2 := ring[j], ring[(j+1)%n]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

func segmentsIntersect(p1, p2, q1, q2 [2]float64) bool {
	d1 := cross(q1, q2, p1)
	d2 := cross(q1, q2, p2)
	d3 := cross(p1, p2, q1)
	d4 := cross(p1, p2, q2)
	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	return (d1 == 0 && onSegment(q1, q2, p1)) ||
		(d2 == 0 && onSegment(q1, q2, p2)) ||
		(d3 == 0 && onSegment(p1, p2, q1)) ||
		(d4 == 0 && onSegment(p1, p2, q2))
}

func cross(a, b, c [2]float64) float64 {
	return (b[0]-a[0])*(c[1]-a[1]) - (b[1]-a[1])*(c[0]-a[0])
}

func onSegment(a, b, p [2]float64) bool {
	return math.Min(a[0], b[0]) <= p[0] && p[0] <= math.Max(a[0], b[0]) &&
		math.Min(a[1], b[1]) <= p[1] && p[1] <= math.Max(a[1], b[1])
}
