package sorting

import (
	"errors"
	"fmt"

	"github.com/san-kum/cardsort/internal/deck"
)

type Algorithm string

const (
	NoAlgorithm Algorithm = ""
	Bubble      Algorithm = "bubble"
	Insertion   Algorithm = "insertion"
	Merge       Algorithm = "merge"
	Counting    Algorithm = "counting"
)

// ErrCursorMismatch indicates a cursor handed to a stepper of another algorithm.
var ErrCursorMismatch = errors.New("sorting: cursor belongs to another algorithm")

// Cursor is the resumable position of one algorithm. Only the fields of the
// tagged algorithm are meaningful: Step for bubble, merge and counting;
// Index and J for insertion.
type Cursor struct {
	Algorithm Algorithm
	Step      int
	Index     int
	J         int
}

// NewCursor returns the initial cursor for alg.
func NewCursor(alg Algorithm) *Cursor {
	return &Cursor{Algorithm: alg}
}

// Reset puts the cursor back to its initial position, keeping its tag.
func (c *Cursor) Reset() {
	*c = Cursor{Algorithm: c.Algorithm}
}

func (c *Cursor) String() string {
	if c.Algorithm == Insertion {
		return fmt.Sprintf("%s(index=%d, j=%d)", c.Algorithm, c.Index, c.J)
	}
	return fmt.Sprintf("%s(step=%d)", c.Algorithm, c.Step)
}

// Recorder receives the cost of each logical action a stepper performs.
type Recorder interface {
	Compare()
	Swap()
	Operate()
}

// Stepper advances one algorithm by a single visible unit of work.
// Step reports completed once the cursor has reached its terminal position.
type Stepper interface {
	Algorithm() Algorithm
	Step(d *deck.Deck, c *Cursor, r Recorder) (completed bool, err error)
}

func checkCursor(want Algorithm, c *Cursor) error {
	if c == nil || c.Algorithm != want {
		return fmt.Errorf("%w: %s stepper got %v", ErrCursorMismatch, want, c)
	}
	return nil
}
