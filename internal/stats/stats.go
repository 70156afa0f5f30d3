package stats

import (
	"fmt"

	"github.com/san-kum/cardsort/internal/sorting"
)

// Counters is the cost of one algorithm's current run.
type Counters struct {
	Comparisons int `json:"comparisons" yaml:"comparisons"`
	Swaps       int `json:"swaps" yaml:"swaps"`
	Operations  int `json:"operations" yaml:"operations"`
	Steps       int `json:"steps" yaml:"steps"`
}

func (c *Counters) Compare() { c.Comparisons++ }
func (c *Counters) Swap()    { c.Swaps++ }
func (c *Counters) Operate() { c.Operations++ }
func (c *Counters) Tick()    { c.Steps++ }

func (c *Counters) Reset() { *c = Counters{} }

// Cost is the work figure reported for comparisons between algorithms.
func (c Counters) Cost() int {
	return c.Comparisons + c.Swaps + c.Operations
}

func (c Counters) String() string {
	if c.Operations > 0 && c.Comparisons == 0 && c.Swaps == 0 {
		return fmt.Sprintf("operations=%d steps=%d", c.Operations, c.Steps)
	}
	return fmt.Sprintf("comparisons=%d swaps=%d steps=%d", c.Comparisons, c.Swaps, c.Steps)
}

var _ sorting.Recorder = (*Counters)(nil)

// Tracker keeps one set of counters per algorithm.
type Tracker struct {
	counters map[sorting.Algorithm]*Counters
}

func NewTracker(algs ...sorting.Algorithm) *Tracker {
	t := &Tracker{counters: make(map[sorting.Algorithm]*Counters, len(algs))}
	for _, alg := range algs {
		t.counters[alg] = &Counters{}
	}
	return t
}

// For returns the live counters of alg, creating them on first use.
func (t *Tracker) For(alg sorting.Algorithm) *Counters {
	c, ok := t.counters[alg]
	if !ok {
		c = &Counters{}
		t.counters[alg] = c
	}
	return c
}

// Get returns a copy of alg's counters.
func (t *Tracker) Get(alg sorting.Algorithm) Counters {
	if c, ok := t.counters[alg]; ok {
		return *c
	}
	return Counters{}
}

func (t *Tracker) Reset(alg sorting.Algorithm) {
	if c, ok := t.counters[alg]; ok {
		c.Reset()
	}
}

func (t *Tracker) ResetAll() {
	for _, c := range t.counters {
		c.Reset()
	}
}

// Snapshot copies every algorithm's counters.
func (t *Tracker) Snapshot() map[sorting.Algorithm]Counters {
	out := make(map[sorting.Algorithm]Counters, len(t.counters))
	for alg, c := range t.counters {
		out[alg] = *c
	}
	return out
}
