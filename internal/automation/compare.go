package automation

import (
	"github.com/charmbracelet/log"

	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/trace"
)

// Outcome is one algorithm run to completion on a given starting order.
type Outcome struct {
	Algorithm   sorting.Algorithm
	Report      run.Report
	InitialKeys []int
	FinalKeys   []int
	Sorted      bool
	Frames      []trace.Frame
}

// RunOne sorts a fresh deck holding keys with alg and records every step.
func RunOne(keys []int, alg sorting.Algorithm, logger *log.Logger) (Outcome, error) {
	return RunOneLimit(keys, alg, 0, logger)
}

// RunOneLimit is RunOne with an explicit step limit; limit <= 0 uses the default.
func RunOneLimit(keys []int, alg sorting.Algorithm, limit int, logger *log.Logger) (Outcome, error) {
	d, err := deck.FromKeys(keys)
	if err != nil {
		return Outcome{}, err
	}
	rec := trace.NewRecorder()
	c := run.New(d, run.WithLogger(logger), run.WithObserver(rec))

	r, err := c.RunToCompletion(alg, limit)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{
		Algorithm:   alg,
		Report:      r,
		InitialKeys: append([]int(nil), keys...),
		FinalKeys:   c.Keys(),
		Sorted:      c.IsSorted(),
		Frames:      rec.Frames(),
	}, nil
}

// Compare runs every algorithm in algs on its own copy of the same deck.
func Compare(keys []int, algs []sorting.Algorithm, logger *log.Logger) ([]Outcome, error) {
	out := make([]Outcome, 0, len(algs))
	for _, alg := range algs {
		o, err := RunOne(keys, alg, logger)
		if err != nil {
			return out, err
		}
		out = append(out, o)
	}
	return out, nil
}
