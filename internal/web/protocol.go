package web

import (
	"encoding/json"

	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/stats"
)

// Client -> server message types.
const (
	MsgStart     = "start"
	MsgStep      = "step"
	MsgReset     = "reset"
	MsgSelect    = "select"
	MsgShuffle   = "shuffle"
	MsgConfigure = "configure"
	MsgAutoplay  = "autoplay"
)

// Server -> client message types.
const (
	MsgState = "state"
	MsgError = "error"
)

// Envelope is the standard WebSocket message wrapper.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewEnvelope creates an envelope with a JSON-encoded payload.
func NewEnvelope(typ string, payload any) (Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, err
	}
	return Envelope{Type: typ, Payload: data}, nil
}

// MustEnvelope is like NewEnvelope but panics on error.
func MustEnvelope(typ string, payload any) Envelope {
	e, err := NewEnvelope(typ, payload)
	if err != nil {
		panic(err)
	}
	return e
}

// AlgorithmMsg targets one algorithm. An empty name means the active tab.
type AlgorithmMsg struct {
	Algorithm string `json:"algorithm,omitempty"`
}

type ConfigureMsg struct {
	Size  int    `json:"size"`
	Order string `json:"order"`
}

type AutoplayMsg struct {
	On bool `json:"on"`
}

type ErrorMsg struct {
	Message string `json:"message"`
}

type AlgorithmView struct {
	ID      string         `json:"id"`
	Title   string         `json:"title"`
	Summary string         `json:"summary"`
	Cost    string         `json:"cost"`
	Stats   stats.Counters `json:"stats"`
}

// StateMsg is everything a browser needs to redraw.
type StateMsg struct {
	Algorithms []AlgorithmView `json:"algorithms"`
	State      run.State       `json:"state"`
	Report     run.Report      `json:"report"`
	Cards      []deck.CardView `json:"cards"`
	Size       int             `json:"size"`
	Order      deck.Order      `json:"order"`
	Sorted     bool            `json:"sorted"`
	Autoplay   bool            `json:"autoplay"`
}
