package track

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// Trajectory extracts the NaN-free (frame, x, y) sequence for one animal
// and body part.
func Trajectory(ds *Dataset, animal, part int) (frames []int, xy [][2]float64) {
	for fi := range ds.Frames {
		k, ok := ds.keypointAt(fi, animal, part)
		if !ok || !k.Valid() {
			continue
		}
		frames = append(frames, fi)
		xy = append(xy, [2]float64{k.X, k.Y})
	}
	return frames, xy
}

// Occupancy returns the visited positions for one animal and body part,
// for density/heatmap style consumers.
func Occupancy(ds *Dataset, animal, part int) [][2]float64 {
	_, xy := Trajectory(ds, animal, part)
	return xy
}

// ExportCSV writes the trajectory of one animal and body part as
// frame,x,y,seconds rows.
func ExportCSV(ds *Dataset, animal, part int, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(ds, animal, part, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// WriteCSV is ExportCSV to an io.Writer.
func WriteCSV(ds *Dataset, animal, part int, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"frame", "x", "y", "seconds"}); err != nil {
		return err
	}
	fps := ds.FPS
	if fps <= 0 {
		fps = DefaultFPS
	}
	frames, xy := Trajectory(ds, animal, part)
	for i, fi := range frames {
		row := []string{
			fmt.Sprintf("%d", fi),
			fmt.Sprintf("%g", xy[i][0]),
			fmt.Sprintf("%g", xy[i][1]),
			fmt.Sprintf("%g", float64(fi)/fps),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
