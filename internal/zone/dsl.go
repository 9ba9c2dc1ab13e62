package zone

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// The DSL is line oriented:
//
//	name = [(x1,y1),(x2,y2),...]   polygon literal
//	name = (cx,cy,r)               circle literal
//	name = left OP right           set operation, OP in {U, I, -, ^}
//	# comment                      everything after '#' is ignored
//
// Identifiers are word characters. Coordinate and circle literals are
// parsed by a dedicated numeric-tuple scanner, never by evaluating the
// expression text.
var (
	assignRe = regexp.MustCompile(`^(\w+)\s*=\s*(.+)$`)
	opRe     = regexp.MustCompile(`^(\w+)\s*([UI^-])\s*(\w+)$`)
)

// stripComment removes an end-of-line comment and surrounding whitespace.
func stripComment(raw string) string {
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

// pairScanner is a cursor over a literal expression.
type pairScanner struct {
	s string
	i int
}

func (sc *pairScanner) skipSpace() {
	for sc.i < len(sc.s) && (sc.s[sc.i] == ' ' || sc.s[sc.i] == '\t') {
		sc.i++
	}
}

func (sc *pairScanner) accept(c byte) bool {
	sc.skipSpace()
	if sc.i < len(sc.s) && sc.s[sc.i] == c {
		sc.i++
		return true
	}
	return false
}

// number scans up to the next structural delimiter and parses the token as
// a float. Any standard integer or float literal is accepted.
func (sc *pairScanner) number() (float64, bool) {
	sc.skipSpace()
	start := sc.i
	for sc.i < len(sc.s) {
		c := sc.s[sc.i]
		if c == ',' || c == ')' || c == ']' || c == '(' || c == '[' {
			break
		}
		sc.i++
	}
	tok := strings.TrimSpace(sc.s[start:sc.i])
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (sc *pairScanner) done() bool {
	sc.skipSpace()
	return sc.i == len(sc.s)
}

// parsePairList parses a polygon literal: [(x,y),(x,y),...].
func parsePairList(expr string) ([][2]float64, error) {
	sc := &pairScanner{s: expr}
	if !sc.accept('[') {
		return nil, errors.New("expected '['")
	}
	var pts [][2]float64
	for {
		if !sc.accept('(') {
			return nil, errors.New("expected '(' starting a coordinate pair")
		}
		x, ok := sc.number()
		if !ok {
			return nil, errors.New("expected a number")
		}
		if !sc.accept(',') {
			return nil, errors.New("expected ',' inside a coordinate pair")
		}
		y, ok := sc.number()
		if !ok {
			return nil, errors.New("expected a number")
		}
		if !sc.accept(')') {
			return nil, errors.New("coordinate pair must have exactly 2 values")
		}
		pts = append(pts, [2]float64{x, y})
		if sc.accept(',') {
			continue
		}
		break
	}
	if !sc.accept(']') {
		return nil, errors.New("expected ']'")
	}
	if !sc.done() {
		return nil, errors.New("trailing characters after ']'")
	}
	return pts, nil
}

// parseCircle parses a circle literal: (cx,cy,r). Exactly three numbers.
func parseCircle(expr string) (cx, cy, r float64, err error) {
	inner := strings.TrimSpace(expr)
	inner = strings.TrimPrefix(inner, "(")
	inner = strings.TrimSuffix(inner, ")")
	fields := strings.Split(inner, ",")
	if len(fields) != 3 {
		return 0, 0, 0, errors.New("circle must be (cx,cy,radius)")
	}
	var vals [3]float64
	for i, f := range fields {
		v, perr := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if perr != nil {
			return 0, 0, 0, errors.New("circle must be (cx,cy,radius)")
		}
		vals[i] = v
	}
	return vals[0], vals[1], vals[2], nil
}
