package run

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/logging"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/stats"
)

type Controller struct {
	deck      *deck.Deck
	registry  *sorting.Registry
	steppers  map[sorting.Algorithm]sorting.Stepper
	cursors   map[sorting.Algorithm]*sorting.Cursor
	stats     *stats.Tracker
	state     State
	observers []Observer
	logger    *log.Logger
}

type Option func(*Controller)

func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

func WithRegistry(r *sorting.Registry) Option {
	return func(c *Controller) { c.registry = r }
}

func WithObserver(o Observer) Option {
	return func(c *Controller) { c.observers = append(c.observers, o) }
}

// New takes ownership of d. The first registered algorithm is selected.
func New(d *deck.Deck, opts ...Option) *Controller {
	c := &Controller{deck: d}
	for _, opt := range opts {
		opt(c)
	}
	if c.registry == nil {
		c.registry = sorting.NewRegistry()
	}
	if c.logger == nil {
		c.logger = logging.Logger
	}

	algs := c.registry.List()
	c.steppers = make(map[sorting.Algorithm]sorting.Stepper, len(algs))
	c.cursors = make(map[sorting.Algorithm]*sorting.Cursor, len(algs))
	for _, alg := range algs {
		s, _ := c.registry.Get(alg)
		c.steppers[alg] = s
		c.cursors[alg] = sorting.NewCursor(alg)
	}
	c.stats = stats.NewTracker(algs...)
	if len(algs) > 0 {
		c.state.Active = algs[0]
	}
	return c
}

func (c *Controller) AddObserver(o Observer) { c.observers = append(c.observers, o) }

func (c *Controller) Algorithms() []sorting.Algorithm { return c.registry.List() }
func (c *Controller) State() State                    { return c.state }
func (c *Controller) Size() int                       { return c.deck.Len() }
func (c *Controller) Order() deck.Order               { return c.deck.Order() }
func (c *Controller) Keys() []int                     { return c.deck.Keys() }
func (c *Controller) Snapshot() []deck.CardView       { return c.deck.Snapshot() }
func (c *Controller) IsSorted() bool                  { return c.deck.IsSorted() }

func (c *Controller) Stats(alg sorting.Algorithm) stats.Counters {
	return c.stats.Get(alg)
}

// Cursor returns a copy of alg's cursor.
func (c *Controller) Cursor(alg sorting.Algorithm) sorting.Cursor {
	if cur, ok := c.cursors[alg]; ok {
		return *cur
	}
	return sorting.Cursor{Algorithm: alg}
}

func (c *Controller) lookup(alg sorting.Algorithm) (sorting.Stepper, error) {
	s, ok := c.steppers[alg]
	if !ok {
		return nil, fmt.Errorf("%w: %q", sorting.ErrUnknownAlgorithm, alg)
	}
	return s, nil
}

func (c *Controller) report(alg sorting.Algorithm) Report {
	return Report{
		Algorithm: alg,
		Stats:     c.stats.Get(alg),
		Running:   c.state.Running && c.state.Active == alg,
	}
}

func (c *Controller) notify(kind EventKind, r Report) {
	if len(c.observers) == 0 {
		return
	}
	ev := Event{
		Kind:   kind,
		Report: r,
		State:  c.state,
		Cursor: c.Cursor(r.Algorithm),
		Cards:  c.deck.Snapshot(),
	}
	for _, o := range c.observers {
		o.OnEvent(ev)
	}
}

// Start begins a fresh run of alg. It does nothing while any algorithm is running.
func (c *Controller) Start(alg sorting.Algorithm) (Report, error) {
	if _, err := c.lookup(alg); err != nil {
		return Report{}, err
	}
	if c.state.Running {
		return c.report(alg), nil
	}

	c.stats.Reset(alg)
	c.cursors[alg].Reset()
	c.state = State{Active: alg, Running: true}
	c.deck.ClearHighlights()

	c.logger.Debug("start", "alg", alg, "keys", c.deck.Keys())
	r := c.report(alg)
	c.notify(EventStarted, r)
	return r, nil
}

// Step advances the running algorithm by one unit of work. It does nothing
// unless alg is the one running.
func (c *Controller) Step(alg sorting.Algorithm) (Report, error) {
	s, err := c.lookup(alg)
	if err != nil {
		return Report{}, err
	}
	if !c.state.Running || c.state.Active != alg {
		return c.report(alg), nil
	}

	cur := c.cursors[alg]
	counters := c.stats.For(alg)
	completed, err := s.Step(c.deck, cur, counters)
	if err != nil {
		panic(&InvariantError{Algorithm: alg, Cursor: *cur, Wrapped: err})
	}
	counters.Tick()

	c.logger.Debug("step", "alg", alg, "cursor", cur.String(), "keys", c.deck.Keys(), "completed", completed)
	r := c.report(alg)
	c.notify(EventStepped, r)

	if completed {
		r = c.finish(alg)
	}
	return r, nil
}

func (c *Controller) finish(alg sorting.Algorithm) Report {
	c.state.Running = false
	c.cursors[alg].Reset()
	c.deck.MarkAll(deck.Sorted)

	c.logger.Debug("finish", "alg", alg, "stats", c.stats.Get(alg).String())
	r := c.report(alg)
	r.Completed = true
	c.notify(EventFinished, r)
	return r
}

// Reset stops alg if it is running and zeroes its cursor and counters.
// Other algorithms keep their state.
func (c *Controller) Reset(alg sorting.Algorithm) (Report, error) {
	if _, err := c.lookup(alg); err != nil {
		return Report{}, err
	}
	otherRunning := c.state.Running && c.state.Active != alg
	if c.state.Running && c.state.Active == alg {
		c.state.Running = false
	}
	c.resetAlgorithm(alg)
	if !otherRunning {
		c.deck.ClearHighlights()
	}

	r := c.report(alg)
	c.notify(EventReset, r)
	return r, nil
}

func (c *Controller) resetAlgorithm(alg sorting.Algorithm) {
	c.cursors[alg].Reset()
	c.stats.Reset(alg)
}

func (c *Controller) resetAll() {
	c.state.Running = false
	for alg := range c.cursors {
		c.resetAlgorithm(alg)
	}
	c.deck.ClearHighlights()
}

// Select makes alg the active tab. It does nothing while a run is in progress.
func (c *Controller) Select(alg sorting.Algorithm) (Report, error) {
	if _, err := c.lookup(alg); err != nil {
		return Report{}, err
	}
	if c.state.Running {
		return c.report(alg), nil
	}
	c.state.Active = alg
	r := c.report(alg)
	c.notify(EventSelected, r)
	return r, nil
}

// Configure rebuilds the deck and resets every algorithm. A rejected
// configuration leaves the deck and all run state untouched.
func (c *Controller) Configure(size int, order deck.Order) (Report, error) {
	if err := c.deck.Configure(size, order); err != nil {
		return c.report(c.state.Active), err
	}
	c.resetAll()

	c.logger.Debug("configure", "size", size, "order", order, "keys", c.deck.Keys())
	r := c.report(c.state.Active)
	c.notify(EventConfigured, r)
	return r, nil
}

// Shuffle reorders the current cards and resets every algorithm.
func (c *Controller) Shuffle() (Report, error) {
	c.deck.Shuffle()
	c.resetAll()

	c.logger.Debug("shuffle", "keys", c.deck.Keys())
	r := c.report(c.state.Active)
	c.notify(EventShuffled, r)
	return r, nil
}

// DefaultStepLimit bounds every algorithm on a deck of n cards.
func DefaultStepLimit(n int) int {
	return 4*n*n + 8
}

// RunToCompletion starts alg and steps it until it finishes. limit <= 0
// uses DefaultStepLimit.
func (c *Controller) RunToCompletion(alg sorting.Algorithm, limit int) (Report, error) {
	if c.state.Running && c.state.Active != alg {
		return c.report(alg), fmt.Errorf("%w: %s", ErrBusy, c.state.Active)
	}
	if limit <= 0 {
		limit = DefaultStepLimit(c.deck.Len())
	}

	r, err := c.Start(alg)
	if err != nil {
		return r, err
	}
	for i := 0; i < limit; i++ {
		r, err = c.Step(alg)
		if err != nil {
			return r, err
		}
		if r.Completed {
			return r, nil
		}
	}
	return r, fmt.Errorf("%w: %s after %d steps", ErrStepLimit, alg, limit)
}
