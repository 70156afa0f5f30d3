package sorting

import "github.com/san-kum/cardsort/internal/deck"

// MergeSort is the simplified merge: it walks the same adjacent passes as
// BubbleSort over n*(n-1) cursor positions and counts the same way. It is
// not a divide-and-conquer merge.
type MergeSort struct{}

func NewMerge() *MergeSort { return &MergeSort{} }

func (m *MergeSort) Algorithm() Algorithm { return Merge }

func (m *MergeSort) Step(d *deck.Deck, c *Cursor, r Recorder) (bool, error) {
	if err := checkCursor(Merge, c); err != nil {
		return false, err
	}
	n := d.Len()
	if c.Step >= n*(n-1) {
		return true, nil
	}
	return passStep(d, c, r)
}
