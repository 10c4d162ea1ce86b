package pilight

// This module drives the pipeline across every pixel position to produce
// frames, either one at a time or as a simulated sequence

import (
	"iter"

	"github.com/TeamNorCal/pilight/model"
)

// Renderer produces frames from a fixed set of base colors and a pipeline
type Renderer struct {
	base model.Frame
	pipe *Pipeline
}

func NewRenderer(base model.Frame, instances []model.TransformInstance) (r *Renderer) {
	return &Renderer{
		base: base.Clone(),
		pipe: NewPipeline(instances),
	}
}

// NumLEDs is the number of positions in each rendered frame
func (r *Renderer) NumLEDs() int {
	return len(r.base)
}

// Frame computes the frame at time t, in seconds
func (r *Renderer) Frame(t float64) (frame model.Frame) {
	frame = make(model.Frame, len(r.base))
	for i := range r.base {
		frame[i] = r.pipe.Apply(t, i, r.base)
	}
	return frame
}

// Simulate returns the frames at t = k*dt for k in [0, numFrames), frames
// are computed as the sequence is ranged over and every range starts again
// from k = 0
func (r *Renderer) Simulate(dt float64, numFrames int) iter.Seq[model.Frame] {
	return func(yield func(model.Frame) bool) {
		for k := 0; k < numFrames; k++ {
			if !yield(r.Frame(float64(k) * dt)) {
				return
			}
		}
	}
}

// RenderFrame computes a single frame at time t
func RenderFrame(t float64, base model.Frame, instances []model.TransformInstance) model.Frame {
	return NewRenderer(base, instances).Frame(t)
}

// Simulate computes numFrames frames spaced dt seconds apart without
// touching any device
func Simulate(dt float64, numFrames int, base model.Frame, instances []model.TransformInstance) iter.Seq[model.Frame] {
	return NewRenderer(base, instances).Simulate(dt, numFrames)
}
