package deck

import "fmt"

// Highlight is a display-only annotation on a card. It never affects sorting.
type Highlight int

const (
	None Highlight = iota
	Comparing
	Current
	Swapping
	Sorted
)

func (h Highlight) String() string {
	switch h {
	case Comparing:
		return "comparing"
	case Current:
		return "current"
	case Swapping:
		return "swapping"
	case Sorted:
		return "sorted"
	default:
		return "none"
	}
}

// MarshalText lets highlights travel as strings in JSON snapshots.
func (h Highlight) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Highlight) UnmarshalText(text []byte) error {
	for _, v := range []Highlight{None, Comparing, Current, Swapping, Sorted} {
		if v.String() == string(text) {
			*h = v
			return nil
		}
	}
	return fmt.Errorf("deck: unknown highlight %q", text)
}

type Color string

const (
	Black Color = "black"
	Red   Color = "red"
)

type Card struct {
	Value     string
	Key       int
	Color     Color
	Highlight Highlight
}

func (c Card) String() string {
	return fmt.Sprintf("%s(%d)", c.Value, c.Key)
}

// CardView is the read-only form handed to views.
type CardView struct {
	Value     string    `json:"value"`
	Key       int       `json:"key"`
	Color     Color     `json:"color"`
	Highlight Highlight `json:"highlight"`
}

// Order selects how a freshly built deck is arranged.
type Order string

const (
	AsFound Order = "as-found"
	Reverse Order = "reverse"
	Random  Order = "random"
)

// ParseOrder accepts the CLI/config spellings of an order.
func ParseOrder(s string) (Order, error) {
	switch s {
	case "as-found", "asfound", "sorted", "":
		return AsFound, nil
	case "reverse", "reversed":
		return Reverse, nil
	case "random", "shuffle", "shuffled":
		return Random, nil
	}
	return "", &ConfigurationError{Field: "order", Value: s, Wrapped: ErrInvalidOrder}
}

// SuitSize is the deck length that switches labels to a full suit.
const SuitSize = 13

var (
	suitLabels = [SuitSize]string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	suitColors = [SuitSize]Color{Red, Red, Red, Red, Red, Black, Black, Black, Black, Black, Black, Black, Black}
)

func buildCards(size int) []Card {
	cards := make([]Card, size)
	for i := range cards {
		if size == SuitSize {
			cards[i] = Card{Value: suitLabels[i], Key: i + 1, Color: suitColors[i]}
			continue
		}
		cards[i] = Card{Value: fmt.Sprintf("%d", i+1), Key: i + 1, Color: Black}
	}
	return cards
}
