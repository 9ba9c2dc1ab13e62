package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"

	"zonetrack/internal/track"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		ext := strings.ToLower(filepath.Ext(name))
		if ext == ".json" {
			items = append(items, fileItem{title: name, desc: ext, path: filepath.Join(m.cwd, name)})
		}
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no tracking JSON files in current directory"
	}
}

// loadPath imports a tracking dataset and resets downstream stages.
func (m *Model) loadPath(p string) {
	ds, err := track.Load(p)
	if err != nil {
		m.status = "load error: " + err.Error()
		return
	}
	m.selPath = p
	m.raw = ds
	m.repaired = nil
	m.filtered = nil
	m.gaps = nil
	m.animal, m.part = 0, 0
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	s := ds.Summarize()
	m.status = fmt.Sprintf("loaded %s  frames=%d animals=%d parts=%d fps=%g",
		filepath.Base(p), s.NumFrames, s.NumAnimals, s.NumBodyparts, ds.FPS)
}

// exportCurrent writes the selected trajectory next to the source file.
func (m *Model) exportCurrent() {
	ds := m.current()
	if ds == nil {
		m.status = "nothing to export"
		return
	}
	base := "trajectory"
	dir := m.cwd
	if m.selPath != "" {
		base = strings.TrimSuffix(filepath.Base(m.selPath), filepath.Ext(m.selPath))
		dir = filepath.Dir(m.selPath)
	}
	out := filepath.Join(dir, fmt.Sprintf("%s_a%d_p%d.csv", base, m.animal, m.part))
	if err := track.ExportCSV(ds, m.animal, m.part, out); err != nil {
		m.status = "export error: " + err.Error()
		return
	}
	m.status = "exported " + out
}

// exportRepairedJSON writes the repaired dataset next to the source file,
// normalizing interpolated confidences on the way out.
func (m *Model) exportRepairedJSON() {
	if m.repaired == nil {
		m.status = "repair gaps first"
		return
	}
	base := "repaired"
	dir := m.cwd
	if m.selPath != "" {
		base = strings.TrimSuffix(filepath.Base(m.selPath), filepath.Ext(m.selPath)) + "_repaired"
		dir = filepath.Dir(m.selPath)
	}
	out := filepath.Join(dir, base+".json")
	if err := track.ExportJSON(m.repaired, m.interpConf, out); err != nil {
		m.status = "export error: " + err.Error()
		return
	}
	m.status = "exported " + out
}
