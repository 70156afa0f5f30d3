package sorting

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/san-kum/cardsort/internal/deck"
)

type tally struct {
	comparisons, swaps, operations int
}

func (t *tally) Compare() { t.comparisons++ }
func (t *tally) Swap()    { t.swaps++ }
func (t *tally) Operate() { t.operations++ }

func mustDeck(t *testing.T, keys ...int) *deck.Deck {
	t.Helper()
	d, err := deck.FromKeys(keys)
	if err != nil {
		t.Fatalf("FromKeys(%v): %v", keys, err)
	}
	return d
}

// runToEnd steps until completion and returns the number of calls made.
func runToEnd(t *testing.T, s Stepper, d *deck.Deck, c *Cursor, r Recorder) int {
	t.Helper()
	limit := 4*d.Len()*d.Len() + 8
	for calls := 1; calls <= limit; calls++ {
		done, err := s.Step(d, c, r)
		if err != nil {
			t.Fatalf("%s step %d: %v", s.Algorithm(), calls, err)
		}
		if done {
			return calls
		}
	}
	t.Fatalf("%s did not complete within %d steps", s.Algorithm(), limit)
	return 0
}

// permutations returns every ordering of 1..n (Heap's algorithm).
func permutations(n int) [][]int {
	a := make([]int, n)
	for i := range a {
		a[i] = i + 1
	}
	var out [][]int
	var gen func(k int)
	gen = func(k int) {
		if k <= 1 {
			out = append(out, append([]int(nil), a...))
			return
		}
		gen(k - 1)
		for i := 0; i < k-1; i++ {
			if k%2 == 0 {
				a[i], a[k-1] = a[k-1], a[i]
			} else {
				a[0], a[k-1] = a[k-1], a[0]
			}
			gen(k - 1)
		}
	}
	gen(n)
	return out
}

func TestBubbleFirstPass(t *testing.T) {
	d := mustDeck(t, 4, 3, 2, 1)
	c := NewCursor(Bubble)
	r := &tally{}
	s := NewBubble()

	for i := 0; i < 3; i++ {
		if done, err := s.Step(d, c, r); err != nil || done {
			t.Fatalf("step %d: done=%v err=%v", i+1, done, err)
		}
	}
	if diff := cmp.Diff([]int{3, 2, 1, 4}, d.Keys()); diff != "" {
		t.Errorf("after first pass (-want +got):\n%s", diff)
	}
	if r.comparisons != 3 || r.swaps != 3 {
		t.Errorf("comparisons=%d swaps=%d, want 3/3", r.comparisons, r.swaps)
	}
}

func TestBubblePassBoundaryCountsNothing(t *testing.T) {
	d := mustDeck(t, 1, 2, 3)
	c := NewCursor(Bubble)
	c.Step = 2 // pass 0, offset 2 == n-1-0
	r := &tally{}

	done, err := NewBubble().Step(d, c, r)
	if err != nil || done {
		t.Fatalf("done=%v err=%v", done, err)
	}
	if c.Step != 3 {
		t.Errorf("cursor step = %d, want 3", c.Step)
	}
	if r.comparisons != 0 || r.swaps != 0 {
		t.Errorf("boundary step counted comparisons=%d swaps=%d", r.comparisons, r.swaps)
	}
}

func TestBubbleFullRun(t *testing.T) {
	d := mustDeck(t, 4, 3, 2, 1)
	c := NewCursor(Bubble)
	r := &tally{}

	calls := runToEnd(t, NewBubble(), d, c, r)
	if !d.IsSorted() {
		t.Errorf("deck not sorted: %v", d.Keys())
	}
	if calls != 9 {
		t.Errorf("calls = %d, want 9 (6 comparisons + 3 pass boundaries)", calls)
	}
	if c.Step != 12 {
		t.Errorf("final cursor = %d, want n*(n-1) = 12", c.Step)
	}
	if r.comparisons != 6 || r.swaps != 6 {
		t.Errorf("comparisons=%d swaps=%d, want 6/6", r.comparisons, r.swaps)
	}
}

func TestPassSortsEveryPermutation(t *testing.T) {
	for _, s := range []Stepper{NewBubble(), NewMerge()} {
		for n := 1; n <= 6; n++ {
			wantCalls := 1
			if n > 1 {
				wantCalls = n*(n-1)/2 + n - 1
			}
			for _, keys := range permutations(n) {
				d := mustDeck(t, keys...)
				c := NewCursor(s.Algorithm())
				r := &tally{}
				calls := runToEnd(t, s, d, c, r)
				if !d.IsSorted() {
					t.Fatalf("%s left %v unsorted (start %v)", s.Algorithm(), d.Keys(), keys)
				}
				if calls != wantCalls {
					t.Fatalf("%s on %v took %d calls, want %d", s.Algorithm(), keys, calls, wantCalls)
				}
				if r.comparisons != n*(n-1)/2 {
					t.Fatalf("%s on %v made %d comparisons", s.Algorithm(), keys, r.comparisons)
				}
			}
		}
	}
}

func TestMergeMatchesBubble(t *testing.T) {
	for _, keys := range permutations(5) {
		bd, md := mustDeck(t, keys...), mustDeck(t, keys...)
		bc, mc := NewCursor(Bubble), NewCursor(Merge)
		br, mr := &tally{}, &tally{}
		for {
			bdone, _ := NewBubble().Step(bd, bc, br)
			mdone, _ := NewMerge().Step(md, mc, mr)
			if bdone != mdone {
				t.Fatalf("completion diverged on %v", keys)
			}
			if diff := cmp.Diff(bd.Keys(), md.Keys()); diff != "" {
				t.Fatalf("decks diverged on %v:\n%s", keys, diff)
			}
			if bdone {
				break
			}
		}
		if *br != *mr {
			t.Fatalf("counters diverged on %v: %+v vs %+v", keys, *br, *mr)
		}
	}
}

func TestInsertionTwoCards(t *testing.T) {
	d := mustDeck(t, 2, 1)
	c := NewCursor(Insertion)
	r := &tally{}
	s := NewInsertion()

	done, _ := s.Step(d, c, r)
	if done || c.Index != 1 || r.comparisons != 0 {
		t.Fatalf("step 1: done=%v cursor=%v tally=%+v", done, c, *r)
	}

	done, _ = s.Step(d, c, r)
	if done {
		t.Fatal("step 2 reported completion")
	}
	if diff := cmp.Diff([]int{1, 2}, d.Keys()); diff != "" {
		t.Errorf("after step 2 (-want +got):\n%s", diff)
	}
	if r.comparisons != 1 || r.swaps != 1 {
		t.Errorf("after step 2 comparisons=%d swaps=%d, want 1/1", r.comparisons, r.swaps)
	}

	done, _ = s.Step(d, c, r)
	if !done {
		t.Error("expected completion on step 3")
	}
}

func TestInsertionStepBounds(t *testing.T) {
	for n := 1; n <= 6; n++ {
		minCalls, maxCalls := n, n+n*(n-1)/2
		for _, keys := range permutations(n) {
			d := mustDeck(t, keys...)
			calls := runToEnd(t, NewInsertion(), d, NewCursor(Insertion), &tally{})
			if !d.IsSorted() {
				t.Fatalf("insertion left %v unsorted (start %v)", d.Keys(), keys)
			}
			if calls < minCalls || calls > maxCalls {
				t.Fatalf("insertion on %v took %d calls, want [%d, %d]", keys, calls, minCalls, maxCalls)
			}
		}
	}
}

func TestInsertionBestAndWorstCase(t *testing.T) {
	sorted := mustDeck(t, 1, 2, 3, 4, 5)
	if calls := runToEnd(t, NewInsertion(), sorted, NewCursor(Insertion), &tally{}); calls != 5 {
		t.Errorf("sorted input took %d calls, want 5", calls)
	}

	reversed := mustDeck(t, 5, 4, 3, 2, 1)
	r := &tally{}
	if calls := runToEnd(t, NewInsertion(), reversed, NewCursor(Insertion), r); calls != 15 {
		t.Errorf("reversed input took %d calls, want 15", calls)
	}
	if r.swaps != 10 {
		t.Errorf("reversed input made %d swaps, want 10", r.swaps)
	}
}

func TestCountingScenario(t *testing.T) {
	d := mustDeck(t, 3, 1, 2)
	c := NewCursor(Counting)
	r := &tally{}
	s := NewCounting()

	if done, err := s.Step(d, c, r); done || err != nil {
		t.Fatalf("step 1: done=%v err=%v", done, err)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, d.Keys()); diff != "" {
		t.Errorf("after step 1 (-want +got):\n%s", diff)
	}
	if r.operations != 1 {
		t.Errorf("operations = %d, want 1", r.operations)
	}

	calls := 1 + runToEnd(t, s, d, c, r)
	if calls != 3 {
		t.Errorf("completed after %d steps, want 3", calls)
	}
	if r.comparisons != 0 || r.swaps != 0 {
		t.Error("counting sort must only record operations")
	}
}

func TestCountingTakesExactlyNSteps(t *testing.T) {
	for n := 1; n <= 6; n++ {
		for _, keys := range permutations(n) {
			r := &tally{}
			calls := runToEnd(t, NewCounting(), mustDeck(t, keys...), NewCursor(Counting), r)
			if calls != n || r.operations != n {
				t.Fatalf("counting on %v: calls=%d operations=%d, want %d", keys, calls, r.operations, n)
			}
		}
	}
}

func TestCountingIsPositional(t *testing.T) {
	// a single positional pass cannot repair cards shifted by earlier moves
	d := mustDeck(t, 4, 3, 2, 1)
	runToEnd(t, NewCounting(), d, NewCursor(Counting), &tally{})
	if diff := cmp.Diff([]int{1, 3, 2, 4}, d.Keys()); diff != "" {
		t.Errorf("reverse deck (-want +got):\n%s", diff)
	}
}

func TestStepRejectsForeignCursor(t *testing.T) {
	d := mustDeck(t, 2, 1)
	steppers := []Stepper{NewBubble(), NewInsertion(), NewMerge(), NewCounting()}
	for _, s := range steppers {
		foreign := NewCursor(Bubble)
		if s.Algorithm() == Bubble {
			foreign = NewCursor(Counting)
		}
		if _, err := s.Step(d, foreign, &tally{}); !errors.Is(err, ErrCursorMismatch) {
			t.Errorf("%s accepted a foreign cursor: %v", s.Algorithm(), err)
		}
		if _, err := s.Step(d, nil, &tally{}); !errors.Is(err, ErrCursorMismatch) {
			t.Errorf("%s accepted a nil cursor: %v", s.Algorithm(), err)
		}
	}
	if diff := cmp.Diff([]int{2, 1}, d.Keys()); diff != "" {
		t.Errorf("rejected steps mutated the deck:\n%s", diff)
	}
}

func TestHighlights(t *testing.T) {
	d := mustDeck(t, 2, 1, 3)
	c := NewCursor(Bubble)
	NewBubble().Step(d, c, &tally{})

	want := []deck.Highlight{deck.Swapping, deck.Swapping, deck.None}
	for i, h := range want {
		if got := d.Card(i).Highlight; got != h {
			t.Errorf("card %d highlight = %v, want %v", i, got, h)
		}
	}
}

func TestCursorReset(t *testing.T) {
	c := &Cursor{Algorithm: Insertion, Index: 3, J: 2, Step: 9}
	c.Reset()
	if *c != (Cursor{Algorithm: Insertion}) {
		t.Errorf("Reset left %+v", *c)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	want := []Algorithm{Bubble, Insertion, Merge, Counting}
	if diff := cmp.Diff(want, r.List()); diff != "" {
		t.Errorf("List (-want +got):\n%s", diff)
	}
	for _, alg := range want {
		s, err := r.Get(alg)
		if err != nil {
			t.Fatalf("Get(%s): %v", alg, err)
		}
		if s.Algorithm() != alg {
			t.Errorf("Get(%s) returned %s stepper", alg, s.Algorithm())
		}
		if Describe(alg).Title == "" {
			t.Errorf("no description for %s", alg)
		}
	}
	if _, err := r.Get("quick"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("Get(quick) error = %v", err)
	}
	if alg, err := r.Parse(" Bubble "); err != nil || alg != Bubble {
		t.Errorf("Parse(Bubble) = %v, %v", alg, err)
	}
}

func TestRegisterReplacesWithoutDuplicating(t *testing.T) {
	r := NewRegistry()
	r.Register(Merge, func() Stepper { return NewBubble() })
	if got := len(r.List()); got != 4 {
		t.Errorf("List has %d entries after replace, want 4", got)
	}
	r.Register("custom", func() Stepper { return NewCounting() })
	list := r.List()
	if list[len(list)-1] != "custom" {
		t.Errorf("new algorithm not listed last: %v", list)
	}
}
