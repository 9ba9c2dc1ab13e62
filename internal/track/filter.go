package track

import "math"

// Filter returns a copy of the dataset truncated to the first numAnimals
// animals, with keypoints below the confidence threshold, or outside the
// selected body parts, blanked to NaN. A nil parts slice keeps all parts.
func Filter(ds *Dataset, numAnimals int, confThreshold float64, parts []int) *Dataset {
	keep := map[int]bool{}
	for _, p := range parts {
		keep[p] = true
	}
	out := ds.Clone()
	nan := Keypoint{X: math.NaN(), Y: math.NaN(), Conf: math.NaN()}
	for fi := range out.Frames {
		fr := &out.Frames[fi]
		if numAnimals > 0 {
			if len(fr.Bboxes) > numAnimals {
				fr.Bboxes = fr.Bboxes[:numAnimals]
			}
			if len(fr.BboxScores) > numAnimals {
				fr.BboxScores = fr.BboxScores[:numAnimals]
			}
			if len(fr.Bodyparts) > numAnimals {
				fr.Bodyparts = fr.Bodyparts[:numAnimals]
			}
		}
		for a := range fr.Bodyparts {
			for p := range fr.Bodyparts[a] {
				k := fr.Bodyparts[a][p]
				if k.Conf < confThreshold || (len(parts) > 0 && !keep[p]) {
					fr.Bodyparts[a][p] = nan
				}
			}
		}
	}
	return out
}
