package run

import (
	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/stats"
)

type EventKind string

const (
	EventStarted    EventKind = "started"
	EventStepped    EventKind = "stepped"
	EventFinished   EventKind = "finished"
	EventReset      EventKind = "reset"
	EventSelected   EventKind = "selected"
	EventConfigured EventKind = "configured"
	EventShuffled   EventKind = "shuffled"
)

// State is the controller's run state. Running implies Active is set.
type State struct {
	Active  sorting.Algorithm `json:"active"`
	Running bool              `json:"running"`
}

// Report is what every controller operation hands back for display.
type Report struct {
	Algorithm sorting.Algorithm `json:"algorithm"`
	Stats     stats.Counters    `json:"stats"`
	Running   bool              `json:"running"`
	Completed bool              `json:"completed"`
}

// Event is published to observers after each mutating call.
type Event struct {
	Kind   EventKind       `json:"kind"`
	Report Report          `json:"report"`
	State  State           `json:"state"`
	Cursor sorting.Cursor  `json:"-"`
	Cards  []deck.CardView `json:"cards"`
}

type Observer interface {
	OnEvent(ev Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(ev Event)

func (f ObserverFunc) OnEvent(ev Event) { f(ev) }
