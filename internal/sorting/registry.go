package sorting

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAlgorithm indicates a name no stepper is registered under.
var ErrUnknownAlgorithm = errors.New("sorting: unknown algorithm")

// Info is the short description shown next to an algorithm.
type Info struct {
	Title   string
	Summary string
	Cost    string
}

var algorithmInfo = map[Algorithm]Info{
	Bubble:    {"Bubble Sort", "adjacent compare and swap passes", "O(n²)"},
	Insertion: {"Insertion Sort", "walk each card left into place", "O(n²)"},
	Merge:     {"Merge Sort (simplified)", "bubble-equivalent passes", "O(n²)"},
	Counting:  {"Counting Sort", "place each card at its key", "O(n)"},
}

func Describe(alg Algorithm) Info {
	return algorithmInfo[alg]
}

type Registry struct {
	steppers map[Algorithm]func() Stepper
	order    []Algorithm
}

func NewRegistry() *Registry {
	r := &Registry{steppers: make(map[Algorithm]func() Stepper)}

	r.Register(Bubble, func() Stepper { return NewBubble() })
	r.Register(Insertion, func() Stepper { return NewInsertion() })
	r.Register(Merge, func() Stepper { return NewMerge() })
	r.Register(Counting, func() Stepper { return NewCounting() })

	return r
}

// Register adds or replaces the constructor for alg. New names are listed last.
func (r *Registry) Register(alg Algorithm, fn func() Stepper) {
	if _, ok := r.steppers[alg]; !ok {
		r.order = append(r.order, alg)
	}
	r.steppers[alg] = fn
}

func (r *Registry) Get(alg Algorithm) (Stepper, error) {
	fn, ok := r.steppers[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, alg)
	}
	return fn(), nil
}

// List returns the algorithms in display order.
func (r *Registry) List() []Algorithm {
	out := make([]Algorithm, len(r.order))
	copy(out, r.order)
	return out
}

// Parse resolves a user supplied name, case-insensitively.
func (r *Registry) Parse(name string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(name)))
	if _, ok := r.steppers[alg]; !ok {
		return NoAlgorithm, fmt.Errorf("%w: %q (available: %v)", ErrUnknownAlgorithm, name, r.order)
	}
	return alg, nil
}
