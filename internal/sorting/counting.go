package sorting

import "github.com/san-kum/cardsort/internal/deck"

// CountingSort places the card under the cursor directly at key-1. It relies
// on keys being exactly 1..n and only reaches a sorted deck when every
// earlier placement is still in position; it is not a histogram sort.
type CountingSort struct{}

func NewCounting() *CountingSort { return &CountingSort{} }

func (s *CountingSort) Algorithm() Algorithm { return Counting }

func (s *CountingSort) Step(d *deck.Deck, c *Cursor, r Recorder) (bool, error) {
	if err := checkCursor(Counting, c); err != nil {
		return false, err
	}
	n := d.Len()
	if c.Step >= n {
		return true, nil
	}

	d.ClearHighlights()
	target := d.Key(c.Step) - 1
	r.Operate()
	if target != c.Step {
		if err := d.MoveTo(c.Step, target); err != nil {
			return false, err
		}
		d.SetHighlight(target, deck.Swapping)
	} else {
		d.SetHighlight(c.Step, deck.Current)
	}
	c.Step++
	return c.Step >= n, nil
}
