package track

import "math"

// Gap is a run of frames [Start, End] where a body part (or, when
// Bodypart == FrameLevel, a whole animal) has no usable position.
type Gap struct {
	Animal   int
	Bodypart int
	Start    int
	End      int
}

// FrameLevel marks a gap covering every body part of the animal, produced
// when any part reports Conf == -1 in a frame.
const FrameLevel = -1

// Len returns the gap length in frames.
func (g Gap) Len() int { return g.End - g.Start + 1 }

// DetectGaps scans the selected animals (all when animals is empty) and
// returns the gaps in frame order per animal. Frames where any body part
// has Conf == -1 are reported once per animal as a frame-level gap; the
// remaining per-part dropouts (NaN positions) are reported per body part.
func DetectGaps(ds *Dataset, animals []int) []Gap {
	s := ds.Summarize()
	if s.NumFrames == 0 || s.NumAnimals == 0 {
		return nil
	}
	if len(animals) == 0 {
		animals = make([]int, s.NumAnimals)
		for i := range animals {
			animals[i] = i
		}
	}
	var gaps []Gap
	for _, a := range animals {
		if a < 0 || a >= s.NumAnimals {
			continue
		}
		frameBad := make([]bool, s.NumFrames)
		for fi := range ds.Frames {
			for p := 0; p < s.NumBodyparts; p++ {
				if k, ok := ds.keypointAt(fi, a, p); ok && k.Conf == -1 {
					frameBad[fi] = true
					break
				}
			}
		}
		gaps = append(gaps, runsOf(frameBad, a, FrameLevel)...)
		for p := 0; p < s.NumBodyparts; p++ {
			bad := make([]bool, s.NumFrames)
			for fi := range ds.Frames {
				if frameBad[fi] {
					continue // already covered by the frame-level gap
				}
				k, ok := ds.keypointAt(fi, a, p)
				if !ok || !k.Valid() {
					bad[fi] = true
				}
			}
			gaps = append(gaps, runsOf(bad, a, p)...)
		}
	}
	return gaps
}

// runsOf converts a bad-frame mask into gap runs.
func runsOf(bad []bool, animal, part int) []Gap {
	var gaps []Gap
	start := -1
	for i, b := range bad {
		switch {
		case b && start < 0:
			start = i
		case !b && start >= 0:
			gaps = append(gaps, Gap{Animal: animal, Bodypart: part, Start: start, End: i - 1})
			start = -1
		}
	}
	if start >= 0 {
		gaps = append(gaps, Gap{Animal: animal, Bodypart: part, Start: start, End: len(bad) - 1})
	}
	return gaps
}

// RepairStats reports what RepairGaps did.
type RepairStats struct {
	Fixed      int // gaps interpolated
	MaxGapSeen int // longest gap encountered, fixed or not
}

// RepairGaps linearly interpolates gaps no longer than maxGap that have a
// valid keypoint on both sides, on a copy of the dataset. Interpolated
// points are written with confidence interpConf so downstream filtering
// can distinguish them from raw detections.
func RepairGaps(ds *Dataset, gaps []Gap, maxGap int, interpConf float64) (*Dataset, RepairStats) {
	out := ds.Clone()
	var st RepairStats
	for _, g := range gaps {
		if g.Len() > st.MaxGapSeen {
			st.MaxGapSeen = g.Len()
		}
		if g.Len() > maxGap {
			continue
		}
		parts := []int{g.Bodypart}
		if g.Bodypart == FrameLevel {
			s := out.Summarize()
			parts = make([]int, s.NumBodyparts)
			for i := range parts {
				parts[i] = i
			}
		}
		fixedAny := false
		for _, p := range parts {
			if interpolateRun(out, g.Animal, p, g.Start, g.End, interpConf) {
				fixedAny = true
			}
		}
		if fixedAny {
			st.Fixed++
		}
	}
	return out, st
}

// interpolateRun fills frames [start, end] for one animal/part from the
// anchors just outside the run. Returns false when either anchor is
// missing or invalid.
func interpolateRun(ds *Dataset, animal, part, start, end int, conf float64) bool {
	before, okB := ds.keypointAt(start-1, animal, part)
	after, okA := ds.keypointAt(end+1, animal, part)
	if !okB || !okA || !before.Valid() || !after.Valid() {
		return false
	}
	span := float64(end - start + 2) // frames between the two anchors
	for f := start; f <= end; f++ {
		t := float64(f-start+1) / span
		ds.Frames[f].Bodyparts[animal][part] = Keypoint{
			X:    before.X + t*(after.X-before.X),
			Y:    before.Y + t*(after.Y-before.Y),
			Conf: conf,
		}
	}
	return true
}

// InterpDefaultConf is the confidence assigned to interpolated points when
// the caller passes nothing sensible. Chosen just above the usual 0.5
// filter threshold so repaired points survive default filtering.
const InterpDefaultConf = 0.51

// ClampInterpConf normalizes a user-supplied interpolation confidence.
func ClampInterpConf(v float64) float64 {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return InterpDefaultConf
	}
	return v
}
