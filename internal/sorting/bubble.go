package sorting

import "github.com/san-kum/cardsort/internal/deck"

// BubbleSort compares one adjacent pair per step. The cursor packs the pass
// and offset into a single integer: pass = step / n, offset = step % n.
type BubbleSort struct{}

func NewBubble() *BubbleSort { return &BubbleSort{} }

func (b *BubbleSort) Algorithm() Algorithm { return Bubble }

func (b *BubbleSort) Step(d *deck.Deck, c *Cursor, r Recorder) (bool, error) {
	if err := checkCursor(Bubble, c); err != nil {
		return false, err
	}
	return passStep(d, c, r)
}

// passStep is the adjacent compare-and-swap pass shared by bubble and the
// simplified merge. Reaching the end of a pass consumes a step of its own
// without counting a comparison.
func passStep(d *deck.Deck, c *Cursor, r Recorder) (bool, error) {
	n := d.Len()
	i, j := c.Step/n, c.Step%n
	if i >= n-1 {
		return true, nil
	}

	d.ClearHighlights()
	if j >= n-1-i {
		c.Step = (i + 1) * n
		markTail(d, n-1-i)
		return c.Step/n >= n-1, nil
	}
	markTail(d, n-i)

	d.SetHighlight(j, deck.Comparing)
	d.SetHighlight(j+1, deck.Comparing)
	r.Compare()
	if d.Key(j) > d.Key(j+1) {
		if err := d.Swap(j, j+1); err != nil {
			return false, err
		}
		d.SetHighlight(j, deck.Swapping)
		d.SetHighlight(j+1, deck.Swapping)
		r.Swap()
	}
	c.Step++
	return false, nil
}

// markTail highlights positions from..n-1, which a finished pass has fixed.
func markTail(d *deck.Deck, from int) {
	for k := from; k < d.Len(); k++ {
		d.SetHighlight(k, deck.Sorted)
	}
}
