package track

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zonetrack/internal/zone"
)

// two animals, two body parts, five frames; animal 0 part 0 has a gap in
// frames 1-2, animal 1 has a frame-level dropout (conf -1) in frame 3
const sampleJSON = `{
  "data": [
    {"bodyparts": [[[0,0,0.9],[1,0,0.8]], [[10,10,0.9],[11,10,0.9]]]},
    {"bodyparts": [[[null,null,null],[1,1,0.8]], [[10,11,0.9],[11,11,0.9]]]},
    {"bodyparts": [[[null,null,null],[1,2,0.8]], [[10,12,0.9],[11,12,0.9]]]},
    {"bodyparts": [[[3,3,0.9],[1,3,0.8]], [[10,13,-1],[11,13,0.9]]]},
    {"bodyparts": [[[4,4,0.9],[1,4,0.8]], [[10,14,0.9],[11,14,0.9]]]}
  ],
  "metadata": {"fps": 25}
}`

func loadSample(t *testing.T) *Dataset {
	t.Helper()
	ds, err := Read(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	return ds
}

func TestReadWrappedAndSummary(t *testing.T) {
	ds := loadSample(t)
	if ds.FPS != 25 {
		t.Errorf("fps = %g, want 25", ds.FPS)
	}
	s := ds.Summarize()
	if s.NumFrames != 5 || s.NumAnimals != 2 || s.NumBodyparts != 2 {
		t.Errorf("summary = %+v, want 5 frames, 2 animals, 2 parts", s)
	}
}

func TestReadBareArray(t *testing.T) {
	src := `[{"bodyparts": [[[1,2,0.5]]]}]`
	ds, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if ds.FPS != DefaultFPS {
		t.Errorf("fps = %g, want default %g", ds.FPS, DefaultFPS)
	}
	k := ds.Frames[0].Bodyparts[0][0]
	if k.X != 1 || k.Y != 2 || k.Conf != 0.5 {
		t.Errorf("keypoint = %+v", k)
	}
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "trk.json")
	if err := os.WriteFile(p, []byte(sampleJSON), 0o644); err != nil {
		t.Fatal(err)
	}
	ds, err := Load(p)
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Frames) != 5 {
		t.Errorf("frames = %d, want 5", len(ds.Frames))
	}
}

func TestDetectGaps(t *testing.T) {
	ds := loadSample(t)
	gaps := DetectGaps(ds, nil)
	var partGap, frameGap *Gap
	for i := range gaps {
		g := gaps[i]
		if g.Animal == 0 && g.Bodypart == 0 {
			partGap = &gaps[i]
		}
		if g.Animal == 1 && g.Bodypart == FrameLevel {
			frameGap = &gaps[i]
		}
	}
	if partGap == nil || partGap.Start != 1 || partGap.End != 2 {
		t.Errorf("part gap = %+v, want frames 1-2", partGap)
	}
	if frameGap == nil || frameGap.Start != 3 || frameGap.End != 3 {
		t.Errorf("frame-level gap = %+v, want frame 3", frameGap)
	}
}

func TestDetectGapsSelectedAnimals(t *testing.T) {
	ds := loadSample(t)
	gaps := DetectGaps(ds, []int{1})
	for _, g := range gaps {
		if g.Animal != 1 {
			t.Errorf("unexpected gap for animal %d", g.Animal)
		}
	}
}

func TestRepairGapsInterpolates(t *testing.T) {
	ds := loadSample(t)
	gaps := DetectGaps(ds, nil)
	repaired, st := RepairGaps(ds, gaps, 10, 0.51)
	if st.Fixed == 0 {
		t.Fatal("no gaps fixed")
	}
	// animal 0 part 0: anchors (0,0)@0 and (3,3)@3, gap frames 1-2
	k1 := repaired.Frames[1].Bodyparts[0][0]
	k2 := repaired.Frames[2].Bodyparts[0][0]
	if math.Abs(k1.X-1) > 1e-9 || math.Abs(k1.Y-1) > 1e-9 {
		t.Errorf("frame 1 = (%g,%g), want (1,1)", k1.X, k1.Y)
	}
	if math.Abs(k2.X-2) > 1e-9 || math.Abs(k2.Y-2) > 1e-9 {
		t.Errorf("frame 2 = (%g,%g), want (2,2)", k2.X, k2.Y)
	}
	if k1.Conf != 0.51 || k2.Conf != 0.51 {
		t.Errorf("interpolated conf = %g,%g, want 0.51", k1.Conf, k2.Conf)
	}
	// frame-level gap for animal 1 gets both parts filled
	f3 := repaired.Frames[3].Bodyparts[1]
	if !f3[0].Valid() || !f3[1].Valid() {
		t.Errorf("frame-level gap not repaired: %+v", f3)
	}
	if math.Abs(f3[0].Y-13) > 1e-9 {
		t.Errorf("frame 3 animal 1 part 0 y = %g, want 13", f3[0].Y)
	}
	// original untouched
	if ds.Frames[1].Bodyparts[0][0].Valid() {
		t.Error("repair mutated the source dataset")
	}
}

func TestRepairGapsRespectsMaxGap(t *testing.T) {
	ds := loadSample(t)
	gaps := DetectGaps(ds, nil)
	repaired, st := RepairGaps(ds, gaps, 1, 0.51)
	if repaired.Frames[1].Bodyparts[0][0].Valid() {
		t.Error("gap of length 2 interpolated despite maxGap=1")
	}
	if st.MaxGapSeen != 2 {
		t.Errorf("MaxGapSeen = %d, want 2", st.MaxGapSeen)
	}
}

func TestRepairGapAtEdgeSkipped(t *testing.T) {
	src := `[
	  {"bodyparts": [[[null,null,null]]]},
	  {"bodyparts": [[[1,1,0.9]]]}
	]`
	ds, err := Read(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	gaps := DetectGaps(ds, nil)
	repaired, st := RepairGaps(ds, gaps, 10, 0.51)
	if st.Fixed != 0 {
		t.Errorf("fixed = %d, want 0 (no anchor before gap)", st.Fixed)
	}
	if repaired.Frames[0].Bodyparts[0][0].Valid() {
		t.Error("edge gap should stay unfilled")
	}
}

func TestFilter(t *testing.T) {
	ds := loadSample(t)
	out := Filter(ds, 1, 0.85, nil)
	if len(out.Frames[0].Bodyparts) != 1 {
		t.Errorf("animals = %d, want 1", len(out.Frames[0].Bodyparts))
	}
	// part 1 of animal 0 has conf 0.8 < 0.85 -> blanked
	if out.Frames[0].Bodyparts[0][1].Valid() {
		t.Error("low-confidence keypoint survived the filter")
	}
	if !out.Frames[0].Bodyparts[0][0].Valid() {
		t.Error("high-confidence keypoint was blanked")
	}
	// selected-part filtering
	out2 := Filter(ds, 0, 0, []int{1})
	if out2.Frames[0].Bodyparts[0][0].Valid() {
		t.Error("unselected body part survived")
	}
	if !out2.Frames[0].Bodyparts[0][1].Valid() {
		t.Error("selected body part was blanked")
	}
}

func TestWriteJSONNormalizesInterpolated(t *testing.T) {
	ds := loadSample(t)
	gaps := DetectGaps(ds, nil)
	repaired, _ := RepairGaps(ds, gaps, 10, 0.51)
	var sb strings.Builder
	if err := WriteJSON(repaired, 0.51, &sb); err != nil {
		t.Fatal(err)
	}
	back, err := Read(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if back.FPS != 25 {
		t.Errorf("fps = %g, want 25", back.FPS)
	}
	// interpolated fill keeps its position but goes out as a full-confidence
	// detection
	k := back.Frames[1].Bodyparts[0][0]
	if math.Abs(k.X-1) > 1e-9 || math.Abs(k.Y-1) > 1e-9 {
		t.Errorf("frame 1 = (%g,%g), want (1,1)", k.X, k.Y)
	}
	if k.Conf != 1 {
		t.Errorf("interpolated conf = %g, want 1", k.Conf)
	}
	// raw detections keep their confidence
	if c := back.Frames[0].Bodyparts[0][0].Conf; c != 0.9 {
		t.Errorf("raw conf = %g, want 0.9", c)
	}
}

func TestWriteJSONRoundTripsMissing(t *testing.T) {
	ds := loadSample(t)
	var sb strings.Builder
	if err := WriteJSON(ds, 0.51, &sb); err != nil {
		t.Fatal(err)
	}
	back, err := Read(strings.NewReader(sb.String()))
	if err != nil {
		t.Fatal(err)
	}
	if back.Frames[1].Bodyparts[0][0].Valid() {
		t.Error("missing keypoint should stay missing after a round trip")
	}
	if c := back.Frames[3].Bodyparts[1][0].Conf; c != -1 {
		t.Errorf("frame-level dropout conf = %g, want -1", c)
	}
}

func TestTrajectorySkipsInvalid(t *testing.T) {
	ds := loadSample(t)
	frames, xy := Trajectory(ds, 0, 0)
	if len(frames) != 3 || len(xy) != 3 {
		t.Fatalf("trajectory length = %d, want 3", len(frames))
	}
	if frames[0] != 0 || frames[1] != 3 || frames[2] != 4 {
		t.Errorf("frames = %v, want [0 3 4]", frames)
	}
}

func TestWriteCSV(t *testing.T) {
	ds := loadSample(t)
	var sb strings.Builder
	if err := WriteCSV(ds, 0, 1, &sb); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	if lines[0] != "frame,x,y,seconds" {
		t.Errorf("header = %q", lines[0])
	}
	if len(lines) != 6 { // header + 5 valid frames
		t.Errorf("rows = %d, want 6", len(lines))
	}
	if lines[2] != "1,1,1,0.04" { // frame 1 at 25 fps
		t.Errorf("row = %q, want \"1,1,1,0.04\"", lines[2])
	}
}

func TestStats(t *testing.T) {
	ds := loadSample(t)
	st := Stats(ds, 0, 1)
	if st.ValidFraction != 1 {
		t.Errorf("valid fraction = %g, want 1", st.ValidFraction)
	}
	if math.Abs(st.MeanConf-0.8) > 1e-9 {
		t.Errorf("mean conf = %g, want 0.8", st.MeanConf)
	}
	// part 1 of animal 0 moves straight down y in unit steps
	if math.Abs(st.PathLength-4) > 1e-9 {
		t.Errorf("path length = %g, want 4", st.PathLength)
	}
	if st.StdDevConf != 0 {
		t.Errorf("stddev = %g, want 0", st.StdDevConf)
	}
}

func TestTimeInZones(t *testing.T) {
	ds := loadSample(t)
	ev, err := zone.Parse(`
corner = [(-1,-1),(2,-1),(2,2),(-1,2)]
all = [(-1,-1),(20,-1),(20,20),(-1,20)]
`, zone.DefaultCircleResolution)
	if err != nil {
		t.Fatal(err)
	}
	// animal 0 part 0 valid positions: (0,0), (3,3), (4,4)
	counts := TimeInZones(ds, ev, 0, 0)
	if counts["corner"] != 1 {
		t.Errorf("corner = %d, want 1", counts["corner"])
	}
	if counts["all"] != 3 {
		t.Errorf("all = %d, want 3", counts["all"])
	}
}
