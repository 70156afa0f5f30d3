package run

import (
	"errors"
	"fmt"

	"github.com/san-kum/cardsort/internal/sorting"
)

var (
	// ErrStepLimit indicates RunToCompletion gave up before the algorithm finished.
	ErrStepLimit = errors.New("run: step limit reached before completion")

	// ErrBusy indicates RunToCompletion was asked to run while another algorithm is running.
	ErrBusy = errors.New("run: another algorithm is running")
)

// InvariantError is raised, via panic, when a stepper breaks the deck
// model. It always signals a bug in a stepper, never bad user input.
type InvariantError struct {
	Algorithm sorting.Algorithm
	Cursor    sorting.Cursor
	Wrapped   error
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("run: invariant violated by %s at %s: %v", e.Algorithm, e.Cursor.String(), e.Wrapped)
}

func (e *InvariantError) Unwrap() error {
	return e.Wrapped
}
