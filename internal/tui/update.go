package tui

import (
	"fmt"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"zonetrack/internal/track"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.l.SetSize(min(48, m.width-4), m.height-6)
	case tea.KeyMsg:
		// the DSL editor owns the keyboard while focused
		if m.editingDSL {
			switch msg.String() {
			case "esc":
				m.editingDSL = false
				m.ta.Blur()
				m.status = "edit cancelled"
				return m, nil
			case "ctrl+s":
				m.editingDSL = false
				m.ta.Blur()
				m.applyDSL()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		// list filtering captures keys on the import tab
		if m.tab == tabImport && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "h":
			m.helpVisible = !m.helpVisible
			return m, nil
		case "tab":
			m.tab = (m.tab + 1) % tabCount
			return m, nil
		case "shift+tab":
			m.tab = (m.tab + tabCount - 1) % tabCount
			return m, nil
		case "1", "2", "3", "4", "5":
			m.tab = tabID(msg.String()[0] - '1')
			return m, nil
		}
		switch m.tab {
		case tabImport:
			return m.updateImport(msg)
		case tabGaps:
			return m.updateGaps(msg)
		case tabFilter:
			return m.updateFilter(msg)
		case tabZones:
			return m.updateZones(msg)
		case tabPlot:
			return m.updatePlot(msg)
		}
	}
	if m.tab == tabImport {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateImport(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		if it, ok := m.l.SelectedItem().(fileItem); ok {
			m.loadPath(it.path)
		}
		return m, nil
	case "r":
		m.refreshDir()
		m.status = "directory refreshed"
		return m, nil
	}
	var cmd tea.Cmd
	m.l, cmd = m.l.Update(msg)
	return m, cmd
}

func (m Model) updateGaps(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "d":
		if m.raw == nil {
			m.status = "import a dataset first"
			return m, nil
		}
		m.gaps = track.DetectGaps(m.raw, nil)
		m.status = fmt.Sprintf("detected %d gaps", len(m.gaps))
	case "f":
		if m.raw == nil {
			m.status = "import a dataset first"
			return m, nil
		}
		if m.gaps == nil {
			m.gaps = track.DetectGaps(m.raw, nil)
		}
		m.repaired, m.repairStats = track.RepairGaps(m.raw, m.gaps, m.maxGap, track.ClampInterpConf(m.interpConf))
		m.filtered = nil // downstream stage is now stale
		m.status = fmt.Sprintf("fixed %d gaps (longest seen %d frames)",
			m.repairStats.Fixed, m.repairStats.MaxGapSeen)
	case "+", "=":
		m.maxGap++
		m.status = fmt.Sprintf("max gap: %d frames", m.maxGap)
	case "-", "_":
		if m.maxGap > 1 {
			m.maxGap--
		}
		m.status = fmt.Sprintf("max gap: %d frames", m.maxGap)
	case "]":
		m.interpConf = track.ClampInterpConf(min(1, m.interpConf+0.05))
		m.status = fmt.Sprintf("interpolated confidence: %.2f", m.interpConf)
	case "[":
		m.interpConf = track.ClampInterpConf(max(0, m.interpConf-0.05))
		m.status = fmt.Sprintf("interpolated confidence: %.2f", m.interpConf)
	case "e":
		m.exportRepairedJSON()
	}
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		src := m.repaired
		if src == nil {
			src = m.raw
		}
		if src == nil {
			m.status = "import a dataset first"
			return m, nil
		}
		m.filtered = track.Filter(src, m.numAnimals, m.confThreshold, nil)
		m.status = fmt.Sprintf("filtered at confidence %.2f", m.confThreshold)
	case "+", "=":
		if m.confThreshold < 1 {
			m.confThreshold += 0.05
			if m.confThreshold > 1 {
				m.confThreshold = 1
			}
		}
		m.status = fmt.Sprintf("confidence threshold: %.2f", m.confThreshold)
	case "-", "_":
		if m.confThreshold > 0 {
			m.confThreshold -= 0.05
			if m.confThreshold < 0 {
				m.confThreshold = 0
			}
		}
		m.status = fmt.Sprintf("confidence threshold: %.2f", m.confThreshold)
	case "a":
		// 0 keeps all animals
		s := track.Summary{}
		if m.raw != nil {
			s = m.raw.Summarize()
		}
		m.numAnimals++
		if m.numAnimals > s.NumAnimals {
			m.numAnimals = 0
		}
		if m.numAnimals == 0 {
			m.status = "keeping all animals"
		} else {
			m.status = fmt.Sprintf("keeping first %d animal(s)", m.numAnimals)
		}
	case "x":
		m.filtered = nil
		m.status = "filter cleared"
	}
	return m, nil
}

func (m Model) updateZones(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "e", "enter":
		m.editingDSL = true
		m.ta.Focus()
		m.status = "editing zones (ctrl+s apply, esc cancel)"
	case "t":
		m.showZoneTable = !m.showZoneTable
		if m.showZoneTable {
			m.refreshZoneTable()
		}
	case "[":
		m.cycleZone(-1)
	case "]":
		m.cycleZone(1)
	}
	return m, nil
}

func (m Model) updatePlot(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "+", "=":
		if m.zoom < 64 {
			m.zoom *= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "-", "_":
		if m.zoom > 0.05 {
			m.zoom /= 1.2
			m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
		}
	case "up":
		m.offsetY--
	case "down":
		m.offsetY++
	case "left":
		m.offsetX -= 2
	case "right":
		m.offsetX += 2
	case "z":
		m.showZones = !m.showZones
		m.status = fmt.Sprintf("zones: %v", m.showZones)
	case "x":
		m.showTrail = !m.showTrail
		m.status = fmt.Sprintf("trail: %v", m.showTrail)
	case "c":
		m.showPoints = !m.showPoints
		m.status = fmt.Sprintf("points: %v", m.showPoints)
	case "m":
		m.plotMode = (m.plotMode + 1) % plotModeCount
		m.status = "plot mode: " + plotModeNames[m.plotMode]
	case "n":
		m.cycleAnimal()
	case "b":
		m.cycleBodypart()
	case "[":
		m.cycleZone(-1)
	case "]":
		m.cycleZone(1)
	case "e":
		m.exportCurrent()
	}
	return m, nil
}

func (m *Model) cycleAnimal() {
	ds := m.current()
	if ds == nil {
		return
	}
	s := ds.Summarize()
	if s.NumAnimals == 0 {
		return
	}
	m.animal = (m.animal + 1) % s.NumAnimals
	m.status = fmt.Sprintf("animal %d, body part %d", m.animal, m.part)
}

func (m *Model) cycleBodypart() {
	ds := m.current()
	if ds == nil {
		return
	}
	s := ds.Summarize()
	if s.NumBodyparts == 0 {
		return
	}
	m.part = (m.part + 1) % s.NumBodyparts
	m.status = fmt.Sprintf("animal %d, body part %d", m.animal, m.part)
}
