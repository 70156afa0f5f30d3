package sorting

import "github.com/san-kum/cardsort/internal/deck"

// InsertionSort moves one card a single place left per step. Index is the
// card being inserted; J is its current position, 0 meaning "not started".
type InsertionSort struct{}

func NewInsertion() *InsertionSort { return &InsertionSort{} }

func (s *InsertionSort) Algorithm() Algorithm { return Insertion }

func (s *InsertionSort) Step(d *deck.Deck, c *Cursor, r Recorder) (bool, error) {
	if err := checkCursor(Insertion, c); err != nil {
		return false, err
	}
	n := d.Len()
	if c.Index >= n {
		return true, nil
	}

	d.ClearHighlights()
	for k := 0; k < c.Index; k++ {
		d.SetHighlight(k, deck.Sorted)
	}
	d.SetHighlight(c.Index, deck.Current)

	if c.Index == 0 {
		c.Index = 1
		return c.Index >= n, nil
	}

	if c.J == 0 {
		c.J = c.Index
	}

	if c.J > 0 && d.Key(c.J-1) > d.Key(c.J) {
		d.SetHighlight(c.J-1, deck.Comparing)
		r.Compare()
		if err := d.Swap(c.J-1, c.J); err != nil {
			return false, err
		}
		d.SetHighlight(c.J-1, deck.Swapping)
		d.SetHighlight(c.J, deck.Swapping)
		r.Swap()
		c.J--
		return false, nil
	}

	// the comparison that stops this card's walk
	if c.J > 0 {
		r.Compare()
	}
	c.Index++
	c.J = 0
	return c.Index >= n, nil
}
