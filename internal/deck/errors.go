package deck

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSize indicates a deck size below one card.
	ErrInvalidSize = errors.New("deck: size must be at least 1")

	// ErrInvalidOrder indicates an initial order the deck does not know.
	ErrInvalidOrder = errors.New("deck: unknown initial order")

	// ErrNotPermutation indicates explicit keys that are not a permutation of 1..n.
	ErrNotPermutation = errors.New("deck: keys must be a permutation of 1..n")

	// ErrIndexOutOfRange indicates a swap or move outside the deck.
	ErrIndexOutOfRange = errors.New("deck: index out of range")
)

// ConfigurationError reports a rejected configure call. The deck is left as it was.
type ConfigurationError struct {
	Field   string
	Value   any
	Wrapped error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%v (%s=%v)", e.Wrapped, e.Field, e.Value)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Wrapped
}

// IndexError carries the offending operation and bounds.
type IndexError struct {
	Op    string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("deck: %s index %d out of range [0, %d)", e.Op, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error {
	return ErrIndexOutOfRange
}
