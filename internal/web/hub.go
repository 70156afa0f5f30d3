package web

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/san-kum/cardsort/internal/config"
	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/sorting"
)

type tickKind int

const (
	autoplayTick tickKind = iota
	clearTick
)

// tick is a timer firing delivered back into the hub loop. Ticks whose gen
// no longer matches are stale and ignored.
type tick struct {
	kind tickKind
	gen  int
}

// Hub owns the controller and every browser connected to it. All controller
// calls happen on the Run goroutine.
type Hub struct {
	ctrl       *run.Controller
	logger     *log.Logger
	autoplayDt time.Duration
	clearDt    time.Duration

	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	incoming   chan IncomingMessage
	ticks      chan tick
	done       chan struct{}

	cards    []deck.CardView
	last     run.Report
	autoplay bool
	playGen  int
	clearGen int
}

func NewHub(ctrl *run.Controller, opts Options) *Hub {
	opts = opts.withDefaults()
	h := &Hub{
		ctrl:       ctrl,
		logger:     opts.Logger,
		autoplayDt: opts.Autoplay,
		clearDt:    opts.HighlightClear,
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		incoming:   make(chan IncomingMessage, 256),
		ticks:      make(chan tick, 16),
		done:       make(chan struct{}),
		cards:      ctrl.Snapshot(),
	}
	active := ctrl.State().Active
	h.last = run.Report{Algorithm: active, Stats: ctrl.Stats(active)}
	ctrl.AddObserver(run.ObserverFunc(h.onEvent))
	return h
}

// Run serves the hub until ctx is cancelled. Client send channels are closed
// on the way out.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for c := range h.clients {
			delete(h.clients, c)
			close(c.send)
		}
	}()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			h.logger.Info("client connected", "client", c.addr, "clients", len(h.clients))
			c.SendEnvelope(MustEnvelope(MsgState, h.state()))

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
				h.logger.Info("client disconnected", "client", c.addr, "clients", len(h.clients))
			}

		case msg := <-h.incoming:
			h.handleMessage(msg)

		case t := <-h.ticks:
			h.handleTick(t)

		case <-ctx.Done():
			return
		}
	}
}

// Register, Unregister and Submit report false once the hub has stopped.
func (h *Hub) Register(c *Client) bool {
	select {
	case h.register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Unregister(c *Client) bool {
	select {
	case h.unregister <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) Submit(msg IncomingMessage) bool {
	select {
	case h.incoming <- msg:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) onEvent(ev run.Event) {
	h.cards = ev.Cards
	h.last = ev.Report
	h.logger.Debug("event", "kind", ev.Kind, "alg", ev.Report.Algorithm, "stats", ev.Report.Stats.String())
}

func (h *Hub) handleMessage(msg IncomingMessage) {
	if !h.clients[msg.Client] {
		return
	}
	if msg.Err != nil {
		h.sendError(msg.Client, "malformed message")
		return
	}

	var (
		r   run.Report
		err error
	)
	switch msg.Envelope.Type {
	case MsgStart:
		var alg sorting.Algorithm
		if alg, err = h.algorithm(msg.Envelope.Payload); err == nil {
			h.stopAutoplay()
			r, err = h.ctrl.Start(alg)
		}
	case MsgStep:
		var alg sorting.Algorithm
		if alg, err = h.algorithm(msg.Envelope.Payload); err == nil {
			r, err = h.ctrl.Step(alg)
		}
	case MsgReset:
		var alg sorting.Algorithm
		if alg, err = h.algorithm(msg.Envelope.Payload); err == nil {
			h.stopAutoplay()
			r, err = h.ctrl.Reset(alg)
		}
	case MsgSelect:
		var alg sorting.Algorithm
		if alg, err = h.algorithm(msg.Envelope.Payload); err == nil {
			r, err = h.ctrl.Select(alg)
		}
	case MsgShuffle:
		h.stopAutoplay()
		r, err = h.ctrl.Shuffle()
	case MsgConfigure:
		r, err = h.configure(msg.Envelope.Payload)
	case MsgAutoplay:
		r, err = h.toggleAutoplay(msg.Envelope.Payload)
	default:
		err = fmt.Errorf("unknown message type %q", msg.Envelope.Type)
	}

	if err != nil {
		h.sendError(msg.Client, err.Error())
		return
	}
	h.apply(r)
}

func (h *Hub) algorithm(payload json.RawMessage) (sorting.Algorithm, error) {
	var m AlgorithmMsg
	if err := decode(payload, &m); err != nil {
		return sorting.NoAlgorithm, err
	}
	if m.Algorithm == "" {
		return h.ctrl.State().Active, nil
	}
	return sorting.Algorithm(strings.ToLower(strings.TrimSpace(m.Algorithm))), nil
}

func (h *Hub) configure(payload json.RawMessage) (run.Report, error) {
	var m ConfigureMsg
	if err := decode(payload, &m); err != nil {
		return run.Report{}, err
	}
	if m.Size < config.MinUISize || m.Size > config.MaxUISize {
		return run.Report{}, fmt.Errorf("size %d out of range %d..%d", m.Size, config.MinUISize, config.MaxUISize)
	}
	order, err := deck.ParseOrder(m.Order)
	if err != nil {
		return run.Report{}, err
	}
	h.stopAutoplay()
	return h.ctrl.Configure(m.Size, order)
}

func (h *Hub) toggleAutoplay(payload json.RawMessage) (run.Report, error) {
	var m AutoplayMsg
	if err := decode(payload, &m); err != nil {
		return run.Report{}, err
	}
	if !m.On {
		h.stopAutoplay()
		return h.last, nil
	}
	if h.autoplay {
		return h.last, nil
	}

	alg := h.ctrl.State().Active
	r := h.last
	if !h.ctrl.State().Running {
		var err error
		if r, err = h.ctrl.Start(alg); err != nil {
			return r, err
		}
	}
	h.autoplay = true
	h.playGen++
	h.after(h.autoplayDt, autoplayTick, h.playGen)
	return r, nil
}

func (h *Hub) handleTick(t tick) {
	switch t.kind {
	case autoplayTick:
		if !h.autoplay || t.gen != h.playGen {
			return
		}
		r, err := h.ctrl.Step(h.ctrl.State().Active)
		if err != nil {
			h.stopAutoplay()
			h.broadcast(MustEnvelope(MsgError, ErrorMsg{Message: err.Error()}))
			return
		}
		if !h.ctrl.State().Running {
			h.autoplay = false
		} else {
			h.after(h.autoplayDt, autoplayTick, h.playGen)
		}
		h.apply(r)

	case clearTick:
		if t.gen != h.clearGen {
			return
		}
		for i := range h.cards {
			if h.cards[i].Highlight == deck.Swapping {
				h.cards[i].Highlight = deck.None
			}
		}
		h.broadcastState()
	}
}

// apply arms the swap highlight fade and pushes the new state to every client.
func (h *Hub) apply(r run.Report) {
	h.last = r
	h.clearGen++
	if h.clearDt > 0 && hasHighlight(h.cards, deck.Swapping) {
		h.after(h.clearDt, clearTick, h.clearGen)
	}
	h.broadcastState()
}

func (h *Hub) stopAutoplay() {
	h.autoplay = false
	h.playGen++
}

func (h *Hub) after(d time.Duration, kind tickKind, gen int) {
	time.AfterFunc(d, func() {
		select {
		case h.ticks <- tick{kind: kind, gen: gen}:
		case <-h.done:
		}
	})
}

func (h *Hub) state() StateMsg {
	st := h.ctrl.State()
	algs := h.ctrl.Algorithms()
	views := make([]AlgorithmView, len(algs))
	for i, alg := range algs {
		info := sorting.Describe(alg)
		views[i] = AlgorithmView{
			ID:      string(alg),
			Title:   info.Title,
			Summary: info.Summary,
			Cost:    info.Cost,
			Stats:   h.ctrl.Stats(alg),
		}
	}
	cards := make([]deck.CardView, len(h.cards))
	copy(cards, h.cards)

	return StateMsg{
		Algorithms: views,
		State:      st,
		Report:     h.last,
		Cards:      cards,
		Size:       h.ctrl.Size(),
		Order:      h.ctrl.Order(),
		Sorted:     h.ctrl.IsSorted(),
		Autoplay:   h.autoplay,
	}
}

func (h *Hub) broadcastState() {
	h.broadcast(MustEnvelope(MsgState, h.state()))
}

func (h *Hub) broadcast(env Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		h.logger.Error("broadcast marshal", "err", err)
		return
	}
	for c := range h.clients {
		c.queue(data)
	}
}

func (h *Hub) sendError(c *Client, message string) {
	h.logger.Debug("rejected", "client", c.addr, "err", message)
	c.SendEnvelope(MustEnvelope(MsgError, ErrorMsg{Message: message}))
}

func decode(payload json.RawMessage, v any) error {
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("invalid payload: %w", err)
	}
	return nil
}

func hasHighlight(cards []deck.CardView, h deck.Highlight) bool {
	for _, c := range cards {
		if c.Highlight == h {
			return true
		}
	}
	return false
}
