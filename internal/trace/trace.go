// Package trace records the deck order and counters after every step of a run.
package trace

import (
	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/stats"
)

// Frame is the state right after one controller step. Frame 0 is the
// deck as the run started.
type Frame struct {
	Step      int            `json:"step"`
	Stats     stats.Counters `json:"stats"`
	Completed bool           `json:"completed"`
	Keys      []int          `json:"keys"`
}

// Recorder is a run.Observer that keeps the frames of the latest run.
// Reconfiguring the deck or resetting the recorded algorithm discards them.
type Recorder struct {
	algorithm sorting.Algorithm
	frames    []Frame
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func keysOf(cards []deck.CardView) []int {
	keys := make([]int, len(cards))
	for i, c := range cards {
		keys[i] = c.Key
	}
	return keys
}

func (r *Recorder) OnEvent(ev run.Event) {
	switch ev.Kind {
	case run.EventStarted:
		r.algorithm = ev.Report.Algorithm
		r.frames = []Frame{{Keys: keysOf(ev.Cards)}}
	case run.EventStepped:
		if ev.Report.Algorithm != r.algorithm || len(r.frames) == 0 {
			return
		}
		r.frames = append(r.frames, Frame{
			Step:  ev.Report.Stats.Steps,
			Stats: ev.Report.Stats,
			Keys:  keysOf(ev.Cards),
		})
	case run.EventFinished:
		if n := len(r.frames); n > 0 && ev.Report.Algorithm == r.algorithm {
			r.frames[n-1].Completed = true
		}
	case run.EventReset:
		if ev.Report.Algorithm == r.algorithm {
			r.Clear()
		}
	case run.EventConfigured, run.EventShuffled:
		r.Clear()
	}
}

func (r *Recorder) Clear() {
	r.algorithm = sorting.NoAlgorithm
	r.frames = nil
}

func (r *Recorder) Algorithm() sorting.Algorithm { return r.algorithm }
func (r *Recorder) Len() int                     { return len(r.frames) }

// Frames returns a copy of the recorded frames.
func (r *Recorder) Frames() []Frame {
	out := make([]Frame, len(r.frames))
	copy(out, r.frames)
	return out
}

// Costs returns the cumulative cost after each frame, for plotting.
func Costs(frames []Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = float64(f.Stats.Cost())
	}
	return out
}

// Displacement is the summed distance of every card from its sorted
// position. It reaches zero exactly when the keys are sorted.
func Displacement(keys []int) int {
	total := 0
	for i, k := range keys {
		d := k - 1 - i
		if d < 0 {
			d = -d
		}
		total += d
	}
	return total
}

// Displacements applies Displacement to every frame.
func Displacements(frames []Frame) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = float64(Displacement(f.Keys))
	}
	return out
}
