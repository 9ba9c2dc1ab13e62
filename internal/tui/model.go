package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"zonetrack/internal/track"
	"zonetrack/internal/zone"
)

type tabID int

const (
	tabImport tabID = iota
	tabGaps
	tabFilter
	tabZones
	tabPlot
	tabCount
)

var tabNames = [tabCount]string{"Import", "Gaps", "Filter", "Zones", "Plot"}

type plotModeID int

const (
	plotTrajectory plotModeID = iota
	plotHeatmap
	plotTimeSeries
	plotModeCount
)

var plotModeNames = [plotModeCount]string{"trajectory", "heatmap", "time series"}

// bbox is the world-coordinate window the plot projects from.
type bbox struct {
	minX, minY, maxX, maxY float64
	ok                     bool
}

func (b *bbox) extend(x, y float64) {
	if !b.ok {
		*b = bbox{minX: x, minY: y, maxX: x, maxY: y, ok: true}
		return
	}
	if x < b.minX {
		b.minX = x
	}
	if y < b.minY {
		b.minY = y
	}
	if x > b.maxX {
		b.maxX = x
	}
	if y > b.maxY {
		b.maxY = y
	}
}

type Model struct {
	width  int
	height int

	tab         tabID
	helpVisible bool
	status      string

	// import: dataset file explorer
	cwd     string
	l       list.Model
	selPath string
	raw     *track.Dataset

	// gap repair settings and result
	maxGap      int
	interpConf  float64
	gaps        []track.Gap
	repaired    *track.Dataset
	repairStats track.RepairStats

	// confidence filter
	confThreshold float64
	numAnimals    int
	filtered      *track.Dataset

	// zone DSL
	ta            textarea.Model
	editingDSL    bool
	ev            *zone.Evaluator
	showZoneTable bool
	tbl           table.Model
	zoneSel       int

	// plot viewport
	plotMode         plotModeID
	zoom             float64
	offsetX, offsetY int
	animal, part     int
	showZones        bool
	showTrail        bool
	showPoints       bool
}

func New() Model {
	m := Model{
		helpVisible:   true,
		status:        "zonetrack ready",
		maxGap:        10,
		interpConf:    track.InterpDefaultConf,
		confThreshold: 0.5,
		zoom:          1.0,
		showZones:     true,
		showTrail:     true,
		showPoints:    true,
	}
	m.cwd, _ = os.Getwd()
	// dataset explorer
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Tracking files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// zone DSL editor
	m.ta = textarea.New()
	m.ta.Placeholder = "zone1 = [(0,0),(10,0),(10,10),(0,10)]\ncir = (5,5,3)\nunion_z = zone1 U cir"
	m.ta.CharLimit = 0
	m.ta.SetWidth(60)
	m.ta.SetHeight(10)
	// zone summary table
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a dataset at launch.
func NewWithPath(path string) Model {
	m := New()
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }

// current returns the most processed dataset available.
func (m Model) current() *track.Dataset {
	switch {
	case m.filtered != nil:
		return m.filtered
	case m.repaired != nil:
		return m.repaired
	default:
		return m.raw
	}
}
