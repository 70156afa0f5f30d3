package run_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/logging"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/stats"
)

type brokenStepper struct{}

func (brokenStepper) Algorithm() sorting.Algorithm { return "broken" }

func (brokenStepper) Step(d *deck.Deck, _ *sorting.Cursor, _ sorting.Recorder) (bool, error) {
	return false, d.Swap(0, d.Len())
}

func newController(keys ...int) *run.Controller {
	d, err := deck.FromKeys(keys)
	Expect(err).NotTo(HaveOccurred())
	return run.New(d, run.WithLogger(logging.Discard()))
}

func stepTimes(c *run.Controller, alg sorting.Algorithm, n int) run.Report {
	var r run.Report
	for i := 0; i < n; i++ {
		var err error
		r, err = c.Step(alg)
		Expect(err).NotTo(HaveOccurred())
	}
	return r
}

var _ = Describe("Controller", func() {
	var (
		c      *run.Controller
		events []run.Event
	)

	record := run.ObserverFunc(func(ev run.Event) { events = append(events, ev) })

	BeforeEach(func() {
		events = nil
		c = newController(4, 3, 2, 1)
		c.AddObserver(record)
	})

	Describe("Start", func() {
		It("begins a run and clears highlights", func() {
			r, err := c.Start(sorting.Bubble)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Running).To(BeTrue())
			Expect(c.State()).To(Equal(run.State{Active: sorting.Bubble, Running: true}))
			Expect(events).To(HaveLen(1))
			Expect(events[0].Kind).To(Equal(run.EventStarted))
			for _, card := range events[0].Cards {
				Expect(card.Highlight).To(Equal(deck.None))
			}
		})

		It("is ignored while another algorithm runs", func() {
			_, _ = c.Start(sorting.Bubble)
			stepTimes(c, sorting.Bubble, 2)
			before := c.Stats(sorting.Bubble)

			r, err := c.Start(sorting.Insertion)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Running).To(BeFalse())
			Expect(c.State().Active).To(Equal(sorting.Bubble))
			Expect(c.Stats(sorting.Bubble)).To(Equal(before))
		})

		It("is ignored while the same algorithm runs", func() {
			_, _ = c.Start(sorting.Bubble)
			stepTimes(c, sorting.Bubble, 2)
			_, _ = c.Start(sorting.Bubble)
			Expect(c.Stats(sorting.Bubble).Steps).To(Equal(2))
		})

		It("rejects unknown algorithms", func() {
			_, err := c.Start("quick")
			Expect(errors.Is(err, sorting.ErrUnknownAlgorithm)).To(BeTrue())
			Expect(c.State().Running).To(BeFalse())
		})
	})

	Describe("Step", func() {
		It("does nothing while idle", func() {
			r, err := c.Step(sorting.Bubble)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Stats).To(Equal(stats.Counters{}))
			Expect(c.Keys()).To(Equal([]int{4, 3, 2, 1}))
			Expect(events).To(BeEmpty())
		})

		It("does nothing for an algorithm other than the running one", func() {
			_, _ = c.Start(sorting.Bubble)
			_, _ = c.Step(sorting.Counting)
			Expect(c.Stats(sorting.Counting)).To(Equal(stats.Counters{}))
			Expect(c.Keys()).To(Equal([]int{4, 3, 2, 1}))
		})

		It("counts every call as a step, pass boundaries included", func() {
			_, _ = c.Start(sorting.Bubble)
			r := stepTimes(c, sorting.Bubble, 4)
			Expect(r.Stats.Steps).To(Equal(4))
			Expect(r.Stats.Comparisons).To(Equal(3))
			Expect(r.Stats.Swaps).To(Equal(3))
			Expect(c.Keys()).To(Equal([]int{3, 2, 1, 4}))
		})

		It("finishes bubble sort and marks every card sorted", func() {
			_, _ = c.Start(sorting.Bubble)
			r := stepTimes(c, sorting.Bubble, 9)

			Expect(r.Completed).To(BeTrue())
			Expect(r.Running).To(BeFalse())
			Expect(r.Stats).To(Equal(stats.Counters{Comparisons: 6, Swaps: 6, Steps: 9}))
			Expect(c.Keys()).To(Equal([]int{1, 2, 3, 4}))
			Expect(c.Cursor(sorting.Bubble)).To(Equal(sorting.Cursor{Algorithm: sorting.Bubble}))

			last := events[len(events)-1]
			Expect(last.Kind).To(Equal(run.EventFinished))
			for _, card := range last.Cards {
				Expect(card.Highlight).To(Equal(deck.Sorted))
			}
		})

		It("places [3,1,2] in one counting operation", func() {
			c = newController(3, 1, 2)
			_, _ = c.Start(sorting.Counting)

			r, _ := c.Step(sorting.Counting)
			Expect(c.Keys()).To(Equal([]int{1, 2, 3}))
			Expect(r.Stats.Operations).To(Equal(1))
			Expect(r.Completed).To(BeFalse())

			r = stepTimes(c, sorting.Counting, 2)
			Expect(r.Completed).To(BeTrue())
			Expect(r.Stats.Steps).To(Equal(3))
		})

		It("sorts [2,1] by insertion in three steps", func() {
			c = newController(2, 1)
			_, _ = c.Start(sorting.Insertion)

			stepTimes(c, sorting.Insertion, 2)
			Expect(c.Keys()).To(Equal([]int{1, 2}))
			s := c.Stats(sorting.Insertion)
			Expect(s.Comparisons).To(Equal(1))
			Expect(s.Swaps).To(Equal(1))

			r := stepTimes(c, sorting.Insertion, 1)
			Expect(r.Completed).To(BeTrue())
			Expect(r.Stats.Steps).To(Equal(3))
		})

		It("panics with an InvariantError when a stepper breaks the deck", func() {
			reg := sorting.NewRegistry()
			reg.Register("broken", func() sorting.Stepper { return brokenStepper{} })
			d, _ := deck.FromKeys([]int{2, 1})
			c = run.New(d, run.WithRegistry(reg), run.WithLogger(logging.Discard()))

			_, err := c.Start("broken")
			Expect(err).NotTo(HaveOccurred())

			var recovered any
			func() {
				defer func() { recovered = recover() }()
				_, _ = c.Step("broken")
			}()

			invErr, ok := recovered.(*run.InvariantError)
			Expect(ok).To(BeTrue(), "recovered %v", recovered)
			Expect(invErr.Algorithm).To(Equal(sorting.Algorithm("broken")))
			Expect(errors.Is(invErr, deck.ErrIndexOutOfRange)).To(BeTrue())
		})
	})

	Describe("Reset", func() {
		It("stops the running algorithm mid-pass", func() {
			_, _ = c.Start(sorting.Bubble)
			stepTimes(c, sorting.Bubble, 2)

			r, err := c.Reset(sorting.Bubble)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Running).To(BeFalse())
			Expect(r.Stats).To(Equal(stats.Counters{}))
			Expect(c.Cursor(sorting.Bubble)).To(Equal(sorting.Cursor{Algorithm: sorting.Bubble}))
			Expect(events[len(events)-1].Kind).To(Equal(run.EventReset))
		})

		It("leaves a different running algorithm alone", func() {
			_, _ = c.Start(sorting.Bubble)
			stepTimes(c, sorting.Bubble, 1)
			before := c.Stats(sorting.Bubble)
			cursor := c.Cursor(sorting.Bubble)

			_, _ = c.Reset(sorting.Insertion)
			Expect(c.State()).To(Equal(run.State{Active: sorting.Bubble, Running: true}))
			Expect(c.Stats(sorting.Bubble)).To(Equal(before))
			Expect(c.Cursor(sorting.Bubble)).To(Equal(cursor))
			Expect(c.Snapshot()[0].Highlight).To(Equal(deck.Swapping))
		})

		It("makes reset then start equal a fresh start", func() {
			_, _ = c.Start(sorting.Insertion)
			stepTimes(c, sorting.Insertion, 3)
			_, _ = c.Reset(sorting.Insertion)
			_, _ = c.Start(sorting.Insertion)

			fresh := newController(c.Keys()...)
			_, _ = fresh.Start(sorting.Insertion)

			Expect(c.Stats(sorting.Insertion)).To(Equal(fresh.Stats(sorting.Insertion)))
			Expect(c.Cursor(sorting.Insertion)).To(Equal(fresh.Cursor(sorting.Insertion)))
		})
	})

	Describe("isolation", func() {
		It("keeps a finished algorithm's counters through another run", func() {
			r, err := c.RunToCompletion(sorting.Counting, 0)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Stats).To(Equal(stats.Counters{Operations: 4, Steps: 4}))

			_, _ = c.Configure(4, deck.Reverse)
			_, _ = c.Start(sorting.Insertion)
			stepTimes(c, sorting.Insertion, 3)
			_, _ = c.Reset(sorting.Insertion)
			_, _ = c.RunToCompletion(sorting.Counting, 0)
			countingStats := c.Stats(sorting.Counting)
			countingCursor := c.Cursor(sorting.Counting)

			_, err = c.RunToCompletion(sorting.Bubble, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(c.Stats(sorting.Counting)).To(Equal(countingStats))
			Expect(c.Cursor(sorting.Counting)).To(Equal(countingCursor))
			Expect(c.Stats(sorting.Insertion)).To(Equal(stats.Counters{}))
		})
	})

	Describe("reconfiguration", func() {
		It("halts the run and zeroes every algorithm", func() {
			_, _ = c.Start(sorting.Merge)
			stepTimes(c, sorting.Merge, 3)

			r, err := c.Configure(5, deck.Reverse)
			Expect(err).NotTo(HaveOccurred())
			Expect(r.Running).To(BeFalse())
			Expect(c.State().Running).To(BeFalse())
			Expect(c.Keys()).To(Equal([]int{5, 4, 3, 2, 1}))
			for _, alg := range c.Algorithms() {
				Expect(c.Stats(alg)).To(Equal(stats.Counters{}), string(alg))
				Expect(c.Cursor(alg)).To(Equal(sorting.Cursor{Algorithm: alg}))
			}
			Expect(events[len(events)-1].Kind).To(Equal(run.EventConfigured))
		})

		It("leaves everything as it was on a bad configuration", func() {
			_, _ = c.Start(sorting.Bubble)
			stepTimes(c, sorting.Bubble, 2)
			before := c.Stats(sorting.Bubble)
			eventCount := len(events)

			_, err := c.Configure(0, deck.AsFound)
			var cfgErr *deck.ConfigurationError
			Expect(errors.As(err, &cfgErr)).To(BeTrue())
			Expect(c.State().Running).To(BeTrue())
			Expect(c.Stats(sorting.Bubble)).To(Equal(before))
			Expect(events).To(HaveLen(eventCount))

			_, err = c.Configure(4, deck.Order("spiral"))
			Expect(errors.Is(err, deck.ErrInvalidOrder)).To(BeTrue())
		})

		It("shuffles into a permutation and halts the run", func() {
			_, _ = c.Start(sorting.Bubble)
			stepTimes(c, sorting.Bubble, 1)

			_, err := c.Shuffle()
			Expect(err).NotTo(HaveOccurred())
			Expect(c.State().Running).To(BeFalse())
			Expect(c.Stats(sorting.Bubble)).To(Equal(stats.Counters{}))
			Expect(c.Keys()).To(ConsistOf(1, 2, 3, 4))
			Expect(events[len(events)-1].Kind).To(Equal(run.EventShuffled))
		})
	})

	Describe("Select", func() {
		It("switches the active tab while idle", func() {
			_, err := c.Select(sorting.Counting)
			Expect(err).NotTo(HaveOccurred())
			Expect(c.State().Active).To(Equal(sorting.Counting))
		})

		It("is ignored during a run", func() {
			_, _ = c.Start(sorting.Bubble)
			_, _ = c.Select(sorting.Counting)
			Expect(c.State().Active).To(Equal(sorting.Bubble))
		})
	})

	Describe("RunToCompletion", func() {
		It("sorts with every pass-based algorithm", func() {
			for _, alg := range []sorting.Algorithm{sorting.Bubble, sorting.Insertion, sorting.Merge} {
				_, _ = c.Configure(6, deck.Reverse)
				r, err := c.RunToCompletion(alg, 0)
				Expect(err).NotTo(HaveOccurred())
				Expect(r.Completed).To(BeTrue())
				Expect(c.IsSorted()).To(BeTrue(), string(alg))
			}
		})

		It("gives up at the step limit", func() {
			_, err := c.RunToCompletion(sorting.Bubble, 2)
			Expect(errors.Is(err, run.ErrStepLimit)).To(BeTrue())
		})

		It("refuses while another algorithm runs", func() {
			_, _ = c.Start(sorting.Insertion)
			_, err := c.RunToCompletion(sorting.Bubble, 0)
			Expect(errors.Is(err, run.ErrBusy)).To(BeTrue())
		})
	})
})
