package deck

import (
	"math/rand"
	"strings"
)

// Deck is an ordered run of cards. Reordering the slice is reordering the deck.
type Deck struct {
	cards []Card
	order Order
	rng   *rand.Rand
}

// New builds a deck of size cards arranged by order. rng drives random
// orders and Shuffle; a nil rng gets a fixed seed.
func New(size int, order Order, rng *rand.Rand) (*Deck, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	d := &Deck{rng: rng}
	if err := d.Configure(size, order); err != nil {
		return nil, err
	}
	return d, nil
}

// FromKeys builds a deck holding exactly the given sort keys in order.
// Labels follow the usual rule for a deck of that length.
func FromKeys(keys []int) (*Deck, error) {
	return FromKeysRand(keys, nil)
}

// FromKeysRand is FromKeys with rng driving later shuffles.
func FromKeysRand(keys []int, rng *rand.Rand) (*Deck, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(1))
	}
	if len(keys) == 0 {
		return nil, &ConfigurationError{Field: "size", Value: 0, Wrapped: ErrInvalidSize}
	}
	base := buildCards(len(keys))
	cards := make([]Card, len(keys))
	seen := make([]bool, len(keys))
	for i, k := range keys {
		if k < 1 || k > len(keys) || seen[k-1] {
			return nil, &ConfigurationError{Field: "keys", Value: keys, Wrapped: ErrNotPermutation}
		}
		seen[k-1] = true
		cards[i] = base[k-1]
	}
	return &Deck{cards: cards, order: AsFound, rng: rng}, nil
}

// Configure replaces every card with a fresh permutation. On error the
// current cards are kept.
func (d *Deck) Configure(size int, order Order) error {
	if size < 1 {
		return &ConfigurationError{Field: "size", Value: size, Wrapped: ErrInvalidSize}
	}
	cards := buildCards(size)
	switch order {
	case AsFound:
	case Reverse:
		for i, j := 0, len(cards)-1; i < j; i, j = i+1, j-1 {
			cards[i], cards[j] = cards[j], cards[i]
		}
	case Random:
		fisherYates(cards, d.rng)
	default:
		return &ConfigurationError{Field: "order", Value: order, Wrapped: ErrInvalidOrder}
	}
	d.cards = cards
	d.order = order
	return nil
}

// Shuffle reorders the current cards uniformly and clears highlights.
func (d *Deck) Shuffle() {
	fisherYates(d.cards, d.rng)
	d.ClearHighlights()
}

func fisherYates(cards []Card, rng *rand.Rand) {
	for i := len(cards) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		cards[i], cards[j] = cards[j], cards[i]
	}
}

func (d *Deck) Len() int     { return len(d.cards) }
func (d *Deck) Order() Order { return d.order }

// Key returns the sort key at position i. Callers must stay in range.
func (d *Deck) Key(i int) int { return d.cards[i].Key }

func (d *Deck) Card(i int) Card { return d.cards[i] }

func (d *Deck) check(op string, idx ...int) error {
	for _, i := range idx {
		if i < 0 || i >= len(d.cards) {
			return &IndexError{Op: op, Index: i, Len: len(d.cards)}
		}
	}
	return nil
}

func (d *Deck) Swap(i, j int) error {
	if err := d.check("swap", i, j); err != nil {
		return err
	}
	d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	return nil
}

// MoveTo removes the card at from and reinserts it at to, shifting the
// cards in between by one place.
func (d *Deck) MoveTo(from, to int) error {
	if err := d.check("move", from, to); err != nil {
		return err
	}
	c := d.cards[from]
	switch {
	case from < to:
		copy(d.cards[from:to], d.cards[from+1:to+1])
	case from > to:
		copy(d.cards[to+1:from+1], d.cards[to:from])
	}
	d.cards[to] = c
	return nil
}

func (d *Deck) IsSorted() bool {
	for i := 1; i < len(d.cards); i++ {
		if d.cards[i-1].Key > d.cards[i].Key {
			return false
		}
	}
	return true
}

func (d *Deck) Keys() []int {
	keys := make([]int, len(d.cards))
	for i, c := range d.cards {
		keys[i] = c.Key
	}
	return keys
}

func (d *Deck) ClearHighlights() {
	d.MarkAll(None)
}

func (d *Deck) MarkAll(h Highlight) {
	for i := range d.cards {
		d.cards[i].Highlight = h
	}
}

// SetHighlight ignores positions outside the deck; highlights are cosmetic.
func (d *Deck) SetHighlight(i int, h Highlight) {
	if i >= 0 && i < len(d.cards) {
		d.cards[i].Highlight = h
	}
}

func (d *Deck) Snapshot() []CardView {
	out := make([]CardView, len(d.cards))
	for i, c := range d.cards {
		out[i] = CardView{Value: c.Value, Key: c.Key, Color: c.Color, Highlight: c.Highlight}
	}
	return out
}

func (d *Deck) String() string {
	labels := make([]string, len(d.cards))
	for i, c := range d.cards {
		labels[i] = c.Value
	}
	return "[" + strings.Join(labels, " ") + "]"
}
