package track

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"zonetrack/internal/zone"
)

// TrajectoryStats summarizes one animal/body-part trajectory.
type TrajectoryStats struct {
	ValidFraction float64 // frames with a usable position
	MeanConf      float64
	StdDevConf    float64
	PathLength    float64 // summed step distance over valid runs
}

// Stats computes summary statistics for one animal and body part.
func Stats(ds *Dataset, animal, part int) TrajectoryStats {
	var st TrajectoryStats
	n := len(ds.Frames)
	if n == 0 {
		return st
	}
	var confs []float64
	valid := 0
	prev := [2]float64{math.NaN(), math.NaN()}
	for fi := range ds.Frames {
		k, ok := ds.keypointAt(fi, animal, part)
		if !ok || !k.Valid() {
			prev = [2]float64{math.NaN(), math.NaN()}
			continue
		}
		valid++
		if !math.IsNaN(k.Conf) {
			confs = append(confs, k.Conf)
		}
		if !math.IsNaN(prev[0]) {
			st.PathLength += math.Hypot(k.X-prev[0], k.Y-prev[1])
		}
		prev = [2]float64{k.X, k.Y}
	}
	st.ValidFraction = float64(valid) / float64(n)
	if len(confs) > 0 {
		st.MeanConf = stat.Mean(confs, nil)
	}
	if len(confs) > 1 {
		st.StdDevConf = stat.StdDev(confs, nil)
	}
	return st
}

// TimeInZones counts, per zone, the frames whose position the zone covers
// for one animal and body part. Frames without a valid position are not
// counted against any zone.
func TimeInZones(ds *Dataset, ev *zone.Evaluator, animal, part int) map[string]int {
	counts := make(map[string]int)
	names := ev.Zones()
	_, xy := Trajectory(ds, animal, part)
	for _, name := range names {
		counts[name] = 0
	}
	for _, p := range xy {
		for _, name := range names {
			in, err := ev.Contains(name, p)
			if err == nil && in {
				counts[name]++
			}
		}
	}
	return counts
}
