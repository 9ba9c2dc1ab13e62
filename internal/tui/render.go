package tui

import (
	"sort"
	"strings"

	"zonetrack/internal/track"
	"zonetrack/internal/zone"
)

// worldBounds computes the plot window: the selected trajectory extended
// by every visible zone's bounding box.
func (m Model) worldBounds() bbox {
	var b bbox
	if ds := m.current(); ds != nil {
		_, xy := track.Trajectory(ds, m.animal, m.part)
		for _, p := range xy {
			b.extend(p[0], p[1])
		}
	}
	if m.ev != nil && m.showZones {
		for _, name := range m.ev.Zones() {
			minX, minY, maxX, maxY, err := m.ev.Bounds(name)
			if err != nil {
				continue
			}
			b.extend(minX, minY)
			b.extend(maxX, maxY)
		}
	}
	return b
}

// emptyCanvas is a blank w x h block with a centered message.
func emptyCanvas(w, h int, msg string) string {
	lines := make([]string, h)
	for y := range lines {
		lines[y] = strings.Repeat(" ", w)
	}
	if h > 0 {
		pad := max(0, (w-len(msg))/2)
		lines[h/2] = strings.Repeat(" ", pad) + msg
	}
	return strings.Join(lines, "\n")
}

// renderCanvas draws the active plot mode on a w x h cell canvas: the
// spatial view (zones, trail, points), the occupancy heatmap, or the
// coordinate time series.
func (m Model) renderCanvas(w, h int) string {
	switch m.plotMode {
	case plotHeatmap:
		return m.renderHeatmap(w, h)
	case plotTimeSeries:
		return m.renderTimeSeries(w, h)
	}
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		lines[y] = strings.Repeat(" ", w)
	}
	b := m.worldBounds()
	if !b.ok || b.maxX <= b.minX || b.maxY <= b.minY {
		return emptyCanvas(w, h, "nothing to plot yet ─ import data or define zones")
	}
	br := newBrailleBuf(w, h)

	if m.showZones && m.ev != nil {
		sel := m.selectedZone()
		for _, name := range m.ev.Zones() {
			parts, err := m.ev.Parts(name)
			if err != nil {
				continue
			}
			for _, part := range parts {
				m.drawZonePart(br, b, part, w, h, name == sel)
			}
		}
	}

	if ds := m.current(); ds != nil {
		frames, xy := track.Trajectory(ds, m.animal, m.part)
		if m.showTrail {
			for i := 1; i < len(xy); i++ {
				// do not bridge detection gaps in the trail
				if frames[i] != frames[i-1]+1 {
					continue
				}
				x0, y0, ok0 := m.project(b, xy[i-1][0], xy[i-1][1], w, h)
				x1, y1, ok1 := m.project(b, xy[i][0], xy[i][1], w, h)
				if ok0 && ok1 {
					br.line(x0, y0, x1, y1)
				}
			}
		}
		if m.showPoints {
			for _, p := range xy {
				if mx, my, ok := m.project(b, p[0], p[1], w, h); ok {
					br.set(mx, my)
				}
			}
		}
	}

	for y, row := range br.rows() {
		if y >= h || len(row) == 0 {
			continue
		}
		base := []rune(lines[y])
		over := []rune(row)
		for x := 0; x < len(base) && x < len(over); x++ {
			if over[x] != ' ' {
				base[x] = over[x]
			}
		}
		lines[y] = string(base)
	}
	return strings.Join(lines, "\n")
}

var heatShades = []rune{' ', '░', '▒', '▓', '█'}

func shadeIndex(count, peak int) int {
	if count == 0 || peak == 0 {
		return 0
	}
	idx := 1 + count*(len(heatShades)-2)/peak
	if idx >= len(heatShades) {
		idx = len(heatShades) - 1
	}
	return idx
}

// renderHeatmap bins the visited positions of the selected trajectory into
// character cells and shades each cell by visit count. The projection is
// shared with the spatial view, so pan and zoom carry over.
func (m Model) renderHeatmap(w, h int) string {
	ds := m.current()
	b := m.worldBounds()
	if ds == nil || !b.ok || b.maxX <= b.minX || b.maxY <= b.minY {
		return emptyCanvas(w, h, "nothing to plot yet ─ import data first")
	}
	counts := make([][]int, h)
	for i := range counts {
		counts[i] = make([]int, w)
	}
	peak := 0
	for _, p := range track.Occupancy(ds, m.animal, m.part) {
		mx, my, ok := m.project(b, p[0], p[1], w, h)
		if !ok {
			continue
		}
		cx, cy := mx/2, my/4
		if cx < 0 || cy < 0 || cx >= w || cy >= h {
			continue
		}
		counts[cy][cx]++
		if counts[cy][cx] > peak {
			peak = counts[cy][cx]
		}
	}
	lines := make([]string, h)
	for y := 0; y < h; y++ {
		row := make([]rune, w)
		for x := 0; x < w; x++ {
			row[x] = heatShades[shadeIndex(counts[y][x], peak)]
		}
		lines[y] = string(row)
	}
	return strings.Join(lines, "\n")
}

// renderTimeSeries plots both coordinates of the selected trajectory
// against frame number: x as a connected line, y as dotted samples, so the
// two traces stay tellable apart on a monochrome canvas.
func (m Model) renderTimeSeries(w, h int) string {
	ds := m.current()
	if ds == nil {
		return emptyCanvas(w, h, "nothing to plot yet ─ import data first")
	}
	frames, xy := track.Trajectory(ds, m.animal, m.part)
	if len(frames) < 2 {
		return emptyCanvas(w, h, "not enough valid frames for a time series")
	}
	lo, hi := xy[0][0], xy[0][0]
	for _, p := range xy {
		lo = min(lo, p[0], p[1])
		hi = max(hi, p[0], p[1])
	}
	if hi <= lo {
		hi = lo + 1
	}
	first, last := frames[0], frames[len(frames)-1]
	if last == first {
		last = first + 1
	}
	wMic, hMic := w*2, h*4
	proj := func(frame int, v float64) (int, int) {
		px := int(float64(frame-first) / float64(last-first) * float64(wMic-1))
		py := int((1 - (v-lo)/(hi-lo)) * float64(hMic-1))
		return px, py
	}
	br := newBrailleBuf(w, h)
	for i := 1; i < len(frames); i++ {
		// do not bridge detection gaps
		if frames[i] != frames[i-1]+1 {
			continue
		}
		x0, y0 := proj(frames[i-1], xy[i-1][0])
		x1, y1 := proj(frames[i], xy[i][0])
		br.line(x0, y0, x1, y1)
	}
	for i, f := range frames {
		px, py := proj(f, xy[i][1])
		br.set(px, py)
	}
	return strings.Join(br.rows(), "\n")
}

// drawZonePart outlines every ring of the part; the selected zone is also
// filled with an even-odd scanline pass over all rings, so holes stay open.
func (m Model) drawZonePart(br *brailleBuf, b bbox, part zone.Part, w, h int, fill bool) {
	rings := make([][][2]int, 0, 1+len(part.Holes))
	project := func(ring [][2]float64) [][2]int {
		out := make([][2]int, 0, len(ring))
		for _, p := range ring {
			if mx, my, ok := m.project(b, p[0], p[1], w, h); ok {
				out = append(out, [2]int{mx, my})
			}
		}
		return out
	}
	if r := project(part.Exterior); len(r) >= 3 {
		rings = append(rings, r)
	}
	for _, hole := range part.Holes {
		if r := project(hole); len(r) >= 3 {
			rings = append(rings, r)
		}
	}
	if len(rings) == 0 {
		return
	}
	if fill {
		hMic := h * 4
		for yMic := 0; yMic < hMic; yMic++ {
			var xs []int
			for _, ring := range rings {
				for i := 0; i < len(ring); i++ {
					a := ring[i]
					c := ring[(i+1)%len(ring)]
					if a[1] == c[1] {
						continue
					}
					y0, y1 := a[1], c[1]
					if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
						t := float64(yMic-y0) / float64(y1-y0)
						xs = append(xs, a[0]+int(t*float64(c[0]-a[0])))
					}
				}
			}
			if len(xs) < 2 {
				continue
			}
			sort.Ints(xs)
			for i := 0; i+1 < len(xs); i += 2 {
				for xMic := max(0, xs[i]); xMic <= xs[i+1]; xMic++ {
					br.set(xMic, yMic)
				}
			}
		}
	}
	for _, ring := range rings {
		for i := 0; i < len(ring); i++ {
			a := ring[i]
			c := ring[(i+1)%len(ring)]
			br.line(a[0], a[1], c[0], c[1])
		}
	}
}

// project maps world coordinates into the 2x4 braille micro-grid,
// applying zoom around the window center and the pan offsets.
func (m Model) project(b bbox, x, y float64, w, h int) (int, int, bool) {
	if !(b.maxX > b.minX && b.maxY > b.minY) {
		return 0, 0, false
	}
	nx := (x - b.minX) / (b.maxX - b.minX)
	ny := (y - b.minY) / (b.maxY - b.minY)
	zx := 0.5 + (nx-0.5)*m.zoom
	zy := 0.5 + (ny-0.5)*m.zoom
	wMic := w * 2
	hMic := h * 4
	sx := int(zx*float64(wMic-1)) + m.offsetX*2
	sy := int((1.0-zy)*float64(hMic-1)) + m.offsetY*4
	return sx, sy, true
}
