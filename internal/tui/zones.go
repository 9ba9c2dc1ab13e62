package tui

import (
	"fmt"
	"strings"

	table "github.com/charmbracelet/bubbles/table"

	"zonetrack/internal/track"
	"zonetrack/internal/zone"
)

// applyDSL parses the editor contents into a fresh evaluator. A failed
// parse keeps the previous evaluator so the plot never loses its zones.
func (m *Model) applyDSL() {
	src := strings.TrimSpace(m.ta.Value())
	if src == "" {
		m.status = "zone DSL is empty"
		return
	}
	ev, err := zone.Parse(src, zone.DefaultCircleResolution)
	if err != nil {
		m.status = errorStyle.Render("zone error: " + err.Error())
		return
	}
	m.ev = ev
	m.zoneSel = 0
	m.status = fmt.Sprintf("zones updated: %s", strings.Join(ev.Zones(), ", "))
	if m.showZoneTable {
		m.refreshZoneTable()
	}
}

// refreshZoneTable rebuilds the per-zone summary: area, perimeter, bounds,
// and frames spent inside for the selected trajectory.
func (m *Model) refreshZoneTable() {
	if m.ev == nil {
		m.showZoneTable = false
		m.status = "no zones defined yet"
		return
	}
	var inZone map[string]int
	if ds := m.current(); ds != nil {
		inZone = track.TimeInZones(ds, m.ev, m.animal, m.part)
	}
	cols := []table.Column{
		{Title: "#", Width: 3},
		{Title: "zone", Width: 14},
		{Title: "area", Width: 10},
		{Title: "perimeter", Width: 10},
		{Title: "bounds", Width: 28},
		{Title: "frames in", Width: 9},
	}
	var rows []table.Row
	for i, name := range m.ev.Zones() {
		area, _ := m.ev.Area(name)
		per, _ := m.ev.Perimeter(name)
		minX, minY, maxX, maxY, _ := m.ev.Bounds(name)
		frames := ""
		if inZone != nil {
			frames = fmt.Sprintf("%d", inZone[name])
		}
		rows = append(rows, table.Row{
			fmt.Sprintf("%d", i+1),
			name,
			fmt.Sprintf("%.2f", area),
			fmt.Sprintf("%.2f", per),
			fmt.Sprintf("[%.1f,%.1f,%.1f,%.1f]", minX, minY, maxX, maxY),
			frames,
		})
	}
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(cols)
	m.tbl.SetRows(rows)
}

// selectedZone returns the zone name the selector points at.
func (m Model) selectedZone() string {
	if m.ev == nil {
		return ""
	}
	names := m.ev.Zones()
	if len(names) == 0 {
		return ""
	}
	if m.zoneSel < 0 || m.zoneSel >= len(names) {
		return names[0]
	}
	return names[m.zoneSel]
}

// cycleZone moves the zone selector by delta, wrapping around.
func (m *Model) cycleZone(delta int) {
	if m.ev == nil {
		return
	}
	n := len(m.ev.Zones())
	if n == 0 {
		return
	}
	m.zoneSel = ((m.zoneSel+delta)%n + n) % n
	name := m.selectedZone()
	area, _ := m.ev.Area(name)
	per, _ := m.ev.Perimeter(name)
	m.status = fmt.Sprintf("zone %s  area=%.2f perimeter=%.2f", name, area, per)
}
