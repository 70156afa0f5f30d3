package automation

import (
	"context"
	"fmt"
	"math/rand"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/logging"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/stats"
)

// TrialConfig defines a batch of random decks sorted by each algorithm.
type TrialConfig struct {
	Algorithms []sorting.Algorithm
	Size       int
	Order      deck.Order
	Trials     int
	Seed       int64
	Workers    int
}

// TrialResult is one algorithm on one trial deck.
type TrialResult struct {
	Trial     int
	Seed      int64
	Algorithm sorting.Algorithm
	Stats     stats.Counters
	Sorted    bool
}

// TrialSummary aggregates every trial of one algorithm.
type TrialSummary struct {
	Algorithm   sorting.Algorithm
	Trials      int
	Sorted      int
	MeanCompare float64
	MeanSwaps   float64
	MeanOps     float64
	MeanSteps   float64
	MeanCost    float64
	MinCost     int
	MaxCost     int
}

// RunTrials sorts cfg.Trials decks with every algorithm. Trial i uses seed
// cfg.Seed+i, so all algorithms see the same deck within a trial and the
// batch is reproducible. Each trial owns its controllers; nothing is shared
// between workers.
func RunTrials(ctx context.Context, cfg TrialConfig) ([]TrialResult, error) {
	if cfg.Trials < 1 {
		return nil, fmt.Errorf("automation: trials must be at least 1, got %d", cfg.Trials)
	}
	if cfg.Order == "" {
		cfg.Order = deck.Random
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([][]TrialResult, cfg.Trials)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for trial := 0; trial < cfg.Trials; trial++ {
		trial := trial
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := cfg.Seed + int64(trial)
			d, err := deck.New(cfg.Size, cfg.Order, rand.New(rand.NewSource(seed)))
			if err != nil {
				return err
			}
			keys := d.Keys()

			row := make([]TrialResult, 0, len(cfg.Algorithms))
			for _, alg := range cfg.Algorithms {
				o, err := RunOne(keys, alg, logging.Discard())
				if err != nil {
					return fmt.Errorf("trial %d %s: %w", trial, alg, err)
				}
				row = append(row, TrialResult{
					Trial:     trial,
					Seed:      seed,
					Algorithm: alg,
					Stats:     o.Report.Stats,
					Sorted:    o.Sorted,
				})
			}
			results[trial] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	flat := make([]TrialResult, 0, cfg.Trials*len(cfg.Algorithms))
	for _, row := range results {
		flat = append(flat, row...)
	}
	return flat, nil
}

// Summarize groups results by algorithm, keeping the order algorithms first appear in.
func Summarize(results []TrialResult) []TrialSummary {
	index := make(map[sorting.Algorithm]int)
	var out []TrialSummary

	for _, r := range results {
		i, ok := index[r.Algorithm]
		if !ok {
			i = len(out)
			index[r.Algorithm] = i
			out = append(out, TrialSummary{Algorithm: r.Algorithm, MinCost: r.Stats.Cost(), MaxCost: r.Stats.Cost()})
		}
		s := &out[i]
		s.Trials++
		if r.Sorted {
			s.Sorted++
		}
		s.MeanCompare += float64(r.Stats.Comparisons)
		s.MeanSwaps += float64(r.Stats.Swaps)
		s.MeanOps += float64(r.Stats.Operations)
		s.MeanSteps += float64(r.Stats.Steps)
		cost := r.Stats.Cost()
		s.MeanCost += float64(cost)
		s.MinCost = min(s.MinCost, cost)
		s.MaxCost = max(s.MaxCost, cost)
	}

	for i := range out {
		n := float64(out[i].Trials)
		out[i].MeanCompare /= n
		out[i].MeanSwaps /= n
		out[i].MeanOps /= n
		out[i].MeanSteps /= n
		out[i].MeanCost /= n
	}
	return out
}

// CostsBySize is the mean cost of each algorithm for deck sizes lo..hi,
// used for growth plots.
func CostsBySize(ctx context.Context, algs []sorting.Algorithm, lo, hi, trials int, seed int64) (map[sorting.Algorithm][]float64, error) {
	out := make(map[sorting.Algorithm][]float64, len(algs))
	for size := lo; size <= hi; size++ {
		results, err := RunTrials(ctx, TrialConfig{Algorithms: algs, Size: size, Trials: trials, Seed: seed})
		if err != nil {
			return nil, err
		}
		for _, s := range Summarize(results) {
			out[s.Algorithm] = append(out[s.Algorithm], s.MeanCost)
		}
	}
	return out, nil
}
