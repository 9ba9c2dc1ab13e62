package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"zonetrack/internal/track"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	headerHeight := 2
	footerHeight := 2
	contentHeight := m.height - headerHeight - footerHeight
	if contentHeight < 4 {
		contentHeight = 4
	}
	contentWidth := max(10, m.width)

	// Header: title plus tab bar
	title := titleStyle.Render(" zonetrack ─ terminal tracking analyser ")
	var tabs []string
	for i := tabID(0); i < tabCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, tabNames[i])
		if i == m.tab {
			tabs = append(tabs, tabActive.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	header := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Width(contentWidth).Render(title),
		lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)))

	var body string
	switch m.tab {
	case tabImport:
		body = m.viewImport(contentWidth, contentHeight)
	case tabGaps:
		body = m.viewGaps(contentWidth, contentHeight)
	case tabFilter:
		body = m.viewFilter(contentWidth, contentHeight)
	case tabZones:
		body = m.viewZones(contentWidth, contentHeight)
	case tabPlot:
		body = m.viewPlot(contentWidth, contentHeight)
	}
	body = lipgloss.NewStyle().Width(contentWidth).Height(contentHeight).Render(body)

	help := m.renderHelp()
	status := dimStyle.Render(" " + m.status + " ")
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, status, help))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

func (m Model) viewImport(w, h int) string {
	m.l.SetSize(min(48, w-4), h-2)
	left := m.l.View()
	right := m.summaryPanel()
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
}

func (m Model) summaryPanel() string {
	if m.raw == nil {
		return boxStyle.Render("No dataset loaded.\nSelect a tracking JSON file and press Enter.")
	}
	s := m.raw.Summarize()
	st := track.Stats(m.current(), m.animal, m.part)
	lines := []string{
		"file:    " + filepath.Base(m.selPath),
		fmt.Sprintf("frames:  %d  (%.1f s at %g fps)", s.NumFrames, float64(s.NumFrames)/m.raw.FPS, m.raw.FPS),
		fmt.Sprintf("animals: %d   body parts: %d", s.NumAnimals, s.NumBodyparts),
		"",
		fmt.Sprintf("animal %d / part %d:", m.animal, m.part),
		fmt.Sprintf("  valid frames: %.0f%%", st.ValidFraction*100),
		fmt.Sprintf("  confidence:   %.2f ± %.2f", st.MeanConf, st.StdDevConf),
		fmt.Sprintf("  path length:  %.1f", st.PathLength),
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func (m Model) viewGaps(w, h int) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Gap repair"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("max gap to interpolate: %d frames", m.maxGap))
	lines = append(lines, fmt.Sprintf("interpolated confidence: %.2f", m.interpConf))
	lines = append(lines, "")
	if m.raw == nil {
		lines = append(lines, dimStyle.Render("import a dataset first"))
	} else if m.gaps == nil {
		lines = append(lines, dimStyle.Render("press d to detect gaps"))
	} else {
		lines = append(lines, fmt.Sprintf("detected gaps: %d", len(m.gaps)))
		shown := 0
		for _, g := range m.gaps {
			if shown >= h-10 {
				lines = append(lines, dimStyle.Render(fmt.Sprintf("  … %d more", len(m.gaps)-shown)))
				break
			}
			part := fmt.Sprintf("part %d", g.Bodypart)
			if g.Bodypart == track.FrameLevel {
				part = "whole animal"
			}
			lines = append(lines, fmt.Sprintf("  animal %d  %-12s  frames %d-%d (%d)",
				g.Animal, part, g.Start, g.End, g.Len()))
			shown++
		}
		if m.repaired != nil {
			lines = append(lines, "")
			lines = append(lines, fmt.Sprintf("repaired: %d gaps fixed, longest gap %d frames",
				m.repairStats.Fixed, m.repairStats.MaxGapSeen))
		}
	}
	return boxStyle.Width(min(w-2, 72)).Render(strings.Join(lines, "\n"))
}

func (m Model) viewFilter(w, h int) string {
	var lines []string
	lines = append(lines, titleStyle.Render("Confidence filter"))
	lines = append(lines, "")
	lines = append(lines, fmt.Sprintf("threshold: %.2f", m.confThreshold))
	if m.numAnimals == 0 {
		lines = append(lines, "animals:   all")
	} else {
		lines = append(lines, fmt.Sprintf("animals:   first %d", m.numAnimals))
	}
	lines = append(lines, "")
	if m.filtered == nil {
		lines = append(lines, dimStyle.Render("press f to apply the filter"))
	} else {
		s := m.filtered.Summarize()
		st := track.Stats(m.filtered, m.animal, m.part)
		lines = append(lines, fmt.Sprintf("filtered dataset: %d frames, %d animals", s.NumFrames, s.NumAnimals))
		lines = append(lines, fmt.Sprintf("animal %d/part %d valid frames: %.0f%%", m.animal, m.part, st.ValidFraction*100))
	}
	return boxStyle.Width(min(w-2, 72)).Render(strings.Join(lines, "\n"))
}

func (m Model) viewZones(w, h int) string {
	if m.editingDSL {
		m.ta.SetWidth(min(w-4, 80))
		m.ta.SetHeight(min(h-2, 16))
		return m.ta.View()
	}
	if m.showZoneTable {
		m.tbl.SetHeight(min(h-2, 20))
		box := boxStyle.Render(m.tbl.View())
		return lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, box)
	}
	var lines []string
	lines = append(lines, titleStyle.Render("Zone definitions"))
	lines = append(lines, "")
	if m.ev == nil {
		lines = append(lines, dimStyle.Render("no zones yet ─ press e to edit the DSL"))
	} else {
		for i, name := range m.ev.Zones() {
			marker := "  "
			if i == m.zoneSel {
				marker = "> "
			}
			area, _ := m.ev.Area(name)
			per, _ := m.ev.Perimeter(name)
			lines = append(lines, fmt.Sprintf("%s%-14s area %10.2f   perimeter %10.2f", marker, name, area, per))
		}
	}
	return boxStyle.Width(min(w-2, 72)).Render(strings.Join(lines, "\n"))
}

func (m Model) viewPlot(w, h int) string {
	canvas := m.renderCanvas(max(8, w), max(4, h))
	return lipgloss.NewStyle().Width(w).Height(h).Render(canvas)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	var keys []string
	switch m.tab {
	case tabImport:
		keys = []string{"Enter open", "r refresh", "/ filter"}
	case tabGaps:
		keys = []string{"d detect", "f fix", "+/- max gap", "[/] conf", "e export json"}
	case tabFilter:
		keys = []string{"f apply", "x clear", "+/- threshold", "a animals"}
	case tabZones:
		keys = []string{"e edit", "t table", "[/] select"}
	case tabPlot:
		keys = []string{"↑↓←→ pan", "+/- zoom", "m mode", "z/x/c layers", "n animal", "b part", "[/] zone", "e export"}
	}
	keys = append(keys, "1-5 tabs", "h help", "q quit")
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
