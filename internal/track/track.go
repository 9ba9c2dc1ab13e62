// Package track models multi-animal position-tracking data: per-frame
// (x, y, confidence) keypoints for several animals and body parts, with
// import, gap repair, confidence filtering and export.
package track

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
)

// DefaultFPS is assumed when the file metadata carries no frame rate.
const DefaultFPS = 30.0

// Keypoint is one tracked body part in one frame. Missing detections are
// NaN; Conf == -1 marks a frame-level dropout for the whole animal.
type Keypoint struct {
	X, Y, Conf float64
}

// Valid reports whether the keypoint holds a usable position.
func (k Keypoint) Valid() bool {
	return !math.IsNaN(k.X) && !math.IsNaN(k.Y) && k.Conf != -1
}

// MarshalJSON encodes the keypoint as the wire triple [x, y, conf].
// NaN elements go out as JSON null, mirroring UnmarshalJSON.
func (k Keypoint) MarshalJSON() ([]byte, error) {
	vals := [3]float64{k.X, k.Y, k.Conf}
	var raw [3]*float64
	for i := range vals {
		if !math.IsNaN(vals[i]) {
			raw[i] = &vals[i]
		}
	}
	return json.Marshal(raw)
}

// UnmarshalJSON decodes [x, y, conf]; JSON null elements become NaN.
func (k *Keypoint) UnmarshalJSON(b []byte) error {
	var raw [3]*float64
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	get := func(p *float64) float64 {
		if p == nil {
			return math.NaN()
		}
		return *p
	}
	k.X, k.Y, k.Conf = get(raw[0]), get(raw[1]), get(raw[2])
	return nil
}

// Frame holds the detections of one video frame.
type Frame struct {
	Bboxes     [][4]float64 `json:"bboxes,omitempty"`
	BboxScores []float64    `json:"bbox_scores,omitempty"`
	Bodyparts  [][]Keypoint `json:"bodyparts"` // [animal][part]
}

// Dataset is a full tracking sequence.
type Dataset struct {
	Frames []Frame
	FPS    float64
}

// Summary describes the shape of a dataset.
type Summary struct {
	NumFrames    int
	NumAnimals   int
	NumBodyparts int
}

// Summarize counts frames, animals and body parts. Counts follow the first
// frame, as the exporters keep them consistent across a sequence.
func (ds *Dataset) Summarize() Summary {
	s := Summary{NumFrames: len(ds.Frames)}
	if len(ds.Frames) == 0 {
		return s
	}
	first := ds.Frames[0]
	switch {
	case len(first.Bodyparts) > 0:
		s.NumAnimals = len(first.Bodyparts)
		s.NumBodyparts = len(first.Bodyparts[0])
	case len(first.BboxScores) > 0:
		s.NumAnimals = len(first.BboxScores)
	}
	return s
}

// wrapped is the newer export format with a metadata envelope.
type wrapped struct {
	Data     []Frame        `json:"data"`
	Metadata map[string]any `json:"metadata"`
}

// Load reads a tracking JSON file: either a bare frame array or the
// {"data": [...], "metadata": {...}} wrapper.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}

// Read decodes tracking JSON from r.
func Read(r io.Reader) (*Dataset, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	ds := &Dataset{FPS: DefaultFPS}
	var w wrapped
	if err := json.Unmarshal(raw, &w); err == nil && w.Data != nil {
		ds.Frames = w.Data
		if fps, ok := w.Metadata["fps"].(float64); ok && fps > 0 {
			ds.FPS = fps
		}
		return ds, nil
	}
	if err := json.Unmarshal(raw, &ds.Frames); err != nil {
		return nil, fmt.Errorf("tracking data: %w", err)
	}
	if ds.Frames == nil {
		return nil, errors.New("tracking data: no frames")
	}
	return ds, nil
}

// WriteJSON writes the dataset in the wrapped export format. Keypoints
// whose confidence equals interpConf are interpolated fills; their
// confidence is normalized to 1 on the way out so downstream tools treat
// them as regular detections.
func WriteJSON(ds *Dataset, interpConf float64, w io.Writer) error {
	out := ds.Clone()
	for fi := range out.Frames {
		for a := range out.Frames[fi].Bodyparts {
			for p, k := range out.Frames[fi].Bodyparts[a] {
				if k.Conf == interpConf {
					k.Conf = 1
					out.Frames[fi].Bodyparts[a][p] = k
				}
			}
		}
	}
	enc := json.NewEncoder(w)
	return enc.Encode(wrapped{Data: out.Frames, Metadata: map[string]any{"fps": out.FPS}})
}

// ExportJSON is WriteJSON to a file.
func ExportJSON(ds *Dataset, interpConf float64, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteJSON(ds, interpConf, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Clone deep-copies the dataset so repairs and filters never touch the
// original frames.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{FPS: ds.FPS, Frames: make([]Frame, len(ds.Frames))}
	for i, fr := range ds.Frames {
		cp := Frame{}
		if fr.Bboxes != nil {
			cp.Bboxes = append([][4]float64(nil), fr.Bboxes...)
		}
		if fr.BboxScores != nil {
			cp.BboxScores = append([]float64(nil), fr.BboxScores...)
		}
		cp.Bodyparts = make([][]Keypoint, len(fr.Bodyparts))
		for a, parts := range fr.Bodyparts {
			cp.Bodyparts[a] = append([]Keypoint(nil), parts...)
		}
		out.Frames[i] = cp
	}
	return out
}

// keypointAt returns the keypoint for (frame, animal, part) if present.
func (ds *Dataset) keypointAt(frame, animal, part int) (Keypoint, bool) {
	if frame < 0 || frame >= len(ds.Frames) {
		return Keypoint{}, false
	}
	fr := ds.Frames[frame]
	if animal >= len(fr.Bodyparts) || part >= len(fr.Bodyparts[animal]) {
		return Keypoint{}, false
	}
	return fr.Bodyparts[animal][part], true
}
