// Package zone parses a small line-oriented DSL describing named planar
// regions (polygons, circles, and set-algebraic combinations of earlier
// regions) and answers geometric queries against them.
package zone

import (
	"fmt"
	"math"
	"strings"
)

// DefaultCircleResolution is the segment count used to approximate circles
// when the caller has no preference.
const DefaultCircleResolution = 64

// Evaluator holds the zone table built from one DSL source string. It is
// immutable after a successful Parse and safe for concurrent readers; to
// pick up edited source, parse a new Evaluator.
type Evaluator struct {
	engine Engine
	names  []string
	table  map[string]Region
}

// Parse builds an Evaluator from DSL source using the default geometry
// engine. circleResolution is the number of segments approximating a
// circle and must be at least 3. Any error aborts the whole parse; no
// partial zone table is ever returned.
func Parse(source string, circleResolution int) (*Evaluator, error) {
	return ParseWith(NewPlanarEngine(), source, circleResolution)
}

// ParseWith is Parse with a caller-supplied geometry engine.
func ParseWith(engine Engine, source string, circleResolution int) (*Evaluator, error) {
	if circleResolution < 3 {
		return nil, fmt.Errorf("circle resolution must be at least 3, got %d", circleResolution)
	}
	ev := &Evaluator{engine: engine, table: make(map[string]Region)}
	for idx, raw := range strings.Split(source, "\n") {
		line := stripComment(raw)
		if line == "" {
			continue
		}
		num := idx + 1
		m := assignRe.FindStringSubmatch(line)
		if m == nil {
			return nil, lineErr(num, ErrSyntax, "expected 'name = expression', got %q", line)
		}
		name, expr := m[1], m[2]
		if _, exists := ev.table[name]; exists {
			return nil, lineErr(num, ErrDuplicateName, "zone %q already defined", name)
		}
		var (
			reg Region
			err *LineError
		)
		switch {
		case strings.HasPrefix(expr, "["):
			reg, err = ev.evalPolygon(name, expr, num)
		case strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")"):
			reg, err = ev.evalCircle(name, expr, num, circleResolution)
		default:
			reg, err = ev.evalOp(name, expr, num)
		}
		if err != nil {
			return nil, err
		}
		ev.table[name] = reg
		ev.names = append(ev.names, name)
	}
	return ev, nil
}

func (ev *Evaluator) evalPolygon(name, expr string, num int) (Region, *LineError) {
	pts, err := parsePairList(expr)
	if err != nil {
		return nil, lineErr(num, ErrShape, "bad coordinates for %q: %v", name, err)
	}
	if len(pts) < 3 {
		return nil, lineErr(num, ErrShape, "polygon %q needs at least 3 vertices", name)
	}
	reg, err := ev.engine.Polygon(pts)
	if err != nil {
		return nil, lineErr(num, ErrShape, "polygon %q: %v", name, err)
	}
	return reg, nil
}

func (ev *Evaluator) evalCircle(name, expr string, num, res int) (Region, *LineError) {
	cx, cy, r, err := parseCircle(expr)
	if err != nil {
		return nil, lineErr(num, ErrShape, "circle %q: %v", name, err)
	}
	if r <= 0 {
		return nil, lineErr(num, ErrShape, "circle %q must have positive radius", name)
	}
	// inscribed regular res-gon, vertices at equally spaced angles
	ring := make([][2]float64, res)
	for k := 0; k < res; k++ {
		th := 2 * math.Pi * float64(k) / float64(res)
		ring[k] = [2]float64{cx + r*math.Cos(th), cy + r*math.Sin(th)}
	}
	reg, err := ev.engine.Polygon(ring)
	if err != nil {
		return nil, lineErr(num, ErrShape, "circle %q: %v", name, err)
	}
	return reg, nil
}

func (ev *Evaluator) evalOp(name, expr string, num int) (Region, *LineError) {
	m := opRe.FindStringSubmatch(expr)
	if m == nil {
		return nil, lineErr(num, ErrSyntax, "invalid expression for %q: %q", name, expr)
	}
	left, op, right := m[1], m[2], m[3]
	a, ok := ev.table[left]
	if !ok {
		return nil, lineErr(num, ErrReference, "unknown zone %q", left)
	}
	b, ok := ev.table[right]
	if !ok {
		return nil, lineErr(num, ErrReference, "unknown zone %q", right)
	}
	var reg Region
	switch op {
	case "U":
		reg = ev.engine.Union(a, b)
	case "I":
		reg = ev.engine.Intersect(a, b)
	case "-":
		reg = ev.engine.Difference(a, b)
	case "^":
		reg = ev.engine.SymmetricDifference(a, b)
	}
	if reg.Empty() {
		return nil, lineErr(num, ErrEmptyResult, "resulting zone %q is empty", name)
	}
	return reg, nil
}

// Zones returns all zone names in definition order.
func (ev *Evaluator) Zones() []string {
	out := make([]string, len(ev.names))
	copy(out, ev.names)
	return out
}

func (ev *Evaluator) region(name string) (Region, error) {
	r, ok := ev.table[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return r, nil
}

// Area returns the planar area of the named zone, holes subtracted.
func (ev *Evaluator) Area(name string) (float64, error) {
	r, err := ev.region(name)
	if err != nil {
		return 0, err
	}
	return r.Area(), nil
}

// Perimeter returns the total boundary length of the named zone, hole
// rings included.
func (ev *Evaluator) Perimeter(name string) (float64, error) {
	r, err := ev.region(name)
	if err != nil {
		return 0, err
	}
	return r.Perimeter(), nil
}

// Bounds returns the axis-aligned bounding box of the named zone.
func (ev *Evaluator) Bounds(name string) (minX, minY, maxX, maxY float64, err error) {
	r, err := ev.region(name)
	if err != nil {
		return 0, 0, 0, 0, err
	}
	minX, minY, maxX, maxY = r.Bounds()
	return minX, minY, maxX, maxY, nil
}

// Contains reports closed-region membership: points exactly on the
// boundary count as inside.
func (ev *Evaluator) Contains(name string, pt [2]float64) (bool, error) {
	r, err := ev.region(name)
	if err != nil {
		return false, err
	}
	return r.Covers(pt[0], pt[1]), nil
}

// Parts returns the renderable decomposition of the named zone: each part
// has an exterior ring and zero or more hole rings.
func (ev *Evaluator) Parts(name string) ([]Part, error) {
	r, err := ev.region(name)
	if err != nil {
		return nil, err
	}
	return r.Parts(), nil
}
