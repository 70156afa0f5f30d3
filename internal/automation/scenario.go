package automation

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/cardsort/internal/config"
	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/trace"
)

var (
	// ErrUnknownAction indicates a scenario action the runner does not know.
	ErrUnknownAction = errors.New("automation: unknown scenario action")

	// ErrExpectation indicates a scenario expectation that did not hold.
	ErrExpectation = errors.New("automation: expectation failed")
)

// Scenario is a scripted sequence of controller actions on one deck.
type Scenario struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description"`
	Deck        config.DeckConfig `yaml:"deck"`
	Actions     []Action          `yaml:"actions"`
}

// Action is one scenario line. Do names the controller call: start, step,
// reset, select, shuffle, configure, or run (start and step to completion).
type Action struct {
	Do        string       `yaml:"do"`
	Algorithm string       `yaml:"algorithm,omitempty"`
	Times     int          `yaml:"times,omitempty"`
	Size      int          `yaml:"size,omitempty"`
	Order     string       `yaml:"order,omitempty"`
	Expect    *Expectation `yaml:"expect,omitempty"`
}

// Expectation is checked after its action. Unset fields are not checked.
type Expectation struct {
	Keys        []int `yaml:"keys,omitempty"`
	Comparisons *int  `yaml:"comparisons,omitempty"`
	Swaps       *int  `yaml:"swaps,omitempty"`
	Operations  *int  `yaml:"operations,omitempty"`
	Steps       *int  `yaml:"steps,omitempty"`
	Running     *bool `yaml:"running,omitempty"`
	Completed   *bool `yaml:"completed,omitempty"`
	Sorted      *bool `yaml:"sorted,omitempty"`
}

// ExpectationError reports the first expectation that did not hold.
type ExpectationError struct {
	Action int
	Field  string
	Want   any
	Got    any
}

func (e *ExpectationError) Error() string {
	return fmt.Sprintf("action %d: %s = %v, want %v", e.Action+1, e.Field, e.Got, e.Want)
}

func (e *ExpectationError) Unwrap() error { return ErrExpectation }

// ActionResult is the controller report after one action.
type ActionResult struct {
	Action Action
	Report run.Report
	Keys   []int
}

type ScenarioResult struct {
	Name      string
	Seed      int64
	Algorithm sorting.Algorithm
	Results   []ActionResult
	Frames    []trace.Frame
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if scenario.Deck.Size == 0 && len(scenario.Deck.Keys) == 0 {
		scenario.Deck.Size = config.DefaultSize
	}
	return &scenario, nil
}

// RunScenario executes every action in order and stops at the first error
// or failed expectation. Frames holds the trace of the last run started.
func RunScenario(ctx context.Context, sc *Scenario, logger *log.Logger) (*ScenarioResult, error) {
	cfg := config.DefaultConfig()
	cfg.Deck = sc.Deck
	d, err := cfg.BuildDeck()
	if err != nil {
		return nil, fmt.Errorf("scenario deck: %w", err)
	}

	rec := trace.NewRecorder()
	c := run.New(d, run.WithLogger(logger), run.WithObserver(rec))
	reg := sorting.NewRegistry()

	res := &ScenarioResult{Name: sc.Name, Seed: cfg.Deck.Seed}
	for i, act := range sc.Actions {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		logger.Info("action", "n", i+1, "do", act.Do, "algorithm", act.Algorithm)

		r, err := apply(c, reg, act)
		if err != nil {
			return res, fmt.Errorf("action %d (%s): %w", i+1, act.Do, err)
		}
		res.Results = append(res.Results, ActionResult{Action: act, Report: r, Keys: c.Keys()})

		if act.Expect != nil {
			if err := check(i, act.Expect, r, c); err != nil {
				return res, err
			}
		}
	}
	res.Algorithm = rec.Algorithm()
	res.Frames = rec.Frames()
	return res, nil
}

func apply(c *run.Controller, reg *sorting.Registry, act Action) (run.Report, error) {
	var alg sorting.Algorithm
	if act.Algorithm != "" {
		var err error
		if alg, err = reg.Parse(act.Algorithm); err != nil {
			return run.Report{}, err
		}
	} else {
		alg = c.State().Active
	}

	switch act.Do {
	case "start":
		return c.Start(alg)
	case "step":
		times := max(act.Times, 1)
		var r run.Report
		for i := 0; i < times; i++ {
			var err error
			if r, err = c.Step(alg); err != nil {
				return r, err
			}
		}
		return r, nil
	case "run":
		return c.RunToCompletion(alg, act.Times)
	case "reset":
		return c.Reset(alg)
	case "select":
		return c.Select(alg)
	case "shuffle":
		return c.Shuffle()
	case "configure":
		order, err := deck.ParseOrder(act.Order)
		if err != nil {
			return run.Report{}, err
		}
		return c.Configure(act.Size, order)
	}
	return run.Report{}, fmt.Errorf("%w: %q", ErrUnknownAction, act.Do)
}

func check(i int, exp *Expectation, r run.Report, c *run.Controller) error {
	fail := func(field string, want, got any) error {
		return &ExpectationError{Action: i, Field: field, Want: want, Got: got}
	}
	if exp.Keys != nil && !slices.Equal(exp.Keys, c.Keys()) {
		return fail("keys", exp.Keys, c.Keys())
	}
	ints := []struct {
		name string
		want *int
		got  int
	}{
		{"comparisons", exp.Comparisons, r.Stats.Comparisons},
		{"swaps", exp.Swaps, r.Stats.Swaps},
		{"operations", exp.Operations, r.Stats.Operations},
		{"steps", exp.Steps, r.Stats.Steps},
	}
	for _, f := range ints {
		if f.want != nil && *f.want != f.got {
			return fail(f.name, *f.want, f.got)
		}
	}
	if exp.Running != nil && *exp.Running != r.Running {
		return fail("running", *exp.Running, r.Running)
	}
	if exp.Completed != nil && *exp.Completed != r.Completed {
		return fail("completed", *exp.Completed, r.Completed)
	}
	if exp.Sorted != nil && *exp.Sorted != c.IsSorted() {
		return fail("sorted", *exp.Sorted, c.IsSorted())
	}
	return nil
}
