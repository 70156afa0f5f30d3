package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cardsort/internal/automation"
	"github.com/san-kum/cardsort/internal/config"
	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/logging"
	"github.com/san-kum/cardsort/internal/storage"
	"github.com/san-kum/cardsort/internal/trace"
	"github.com/san-kum/cardsort/internal/web"
)

func runSort(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	name := cfg.Algorithm
	if len(args) > 0 {
		name = args[0]
	}
	algs, err := parseAlgorithms([]string{name})
	if err != nil {
		return err
	}
	alg := algs[0]

	d, err := cfg.BuildDeck()
	if err != nil {
		return err
	}

	fmt.Printf("sorting %d cards with %s...\n", d.Len(), alg)
	start := time.Now()
	o, err := automation.RunOneLimit(d.Keys(), alg, stepLimit, logging.Logger)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("start:  %v\n", o.InitialKeys)
	fmt.Printf("result: %v\n", o.FinalKeys)
	fmt.Printf("stats:  %s\n", o.Report.Stats)

	if noSave {
		return nil
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	runID, err := st.Save(storage.RunMetadata{
		Algorithm:   string(alg),
		Seed:        cfg.Deck.Seed,
		Size:        d.Len(),
		Order:       string(d.Order()),
		InitialKeys: o.InitialKeys,
		FinalKeys:   o.FinalKeys,
		Stats:       o.Report.Stats,
		Completed:   o.Report.Completed,
		Sorted:      o.Sorted,
		Source:      "cli",
	}, o.Frames)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func compareAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	algs, err := parseAlgorithms(args)
	if err != nil {
		return err
	}
	d, err := cfg.BuildDeck()
	if err != nil {
		return err
	}

	outcomes, err := automation.Compare(d.Keys(), algs, logging.Logger)
	if err != nil {
		return err
	}

	fmt.Printf("deck: %v\n\n", d.Keys())
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tCOMPARISONS\tSWAPS\tOPERATIONS\tSTEPS\tCOST\tSORTED")
	for _, o := range outcomes {
		s := o.Report.Stats
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%d\t%v\n",
			o.Algorithm, s.Comparisons, s.Swaps, s.Operations, s.Steps, s.Cost(), o.Sorted)
	}
	return w.Flush()
}

func runTrials(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	algs, err := parseAlgorithms(args)
	if err != nil {
		return err
	}
	ord, err := deck.ParseOrder(cfg.Deck.Order)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	tc := automation.TrialConfig{
		Algorithms: algs,
		Size:       cfg.Deck.Size,
		Order:      ord,
		Trials:     trials,
		Seed:       cfg.ResolveSeed(),
		Workers:    workers,
	}
	logging.Logger.Info("trials", "algorithms", len(algs), "size", tc.Size, "order", tc.Order, "trials", tc.Trials, "seed", tc.Seed)

	start := time.Now()
	results, err := automation.RunTrials(ctx, tc)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGORITHM\tTRIALS\tSORTED\tCOMPARISONS\tSWAPS\tOPERATIONS\tSTEPS\tCOST\tMIN\tMAX")
	for _, s := range automation.Summarize(results) {
		fmt.Fprintf(w, "%s\t%d\t%d\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%d\t%d\n",
			s.Algorithm, s.Trials, s.Sorted, s.MeanCompare, s.MeanSwaps, s.MeanOps, s.MeanSteps, s.MeanCost, s.MinCost, s.MaxCost)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Printf("\n%d decks of %d cards in %v\n", tc.Trials, tc.Size, time.Since(start))

	if curveMax < config.MinUISize {
		return nil
	}
	curves, err := automation.CostsBySize(ctx, algs, config.MinUISize, curveMax, trials, tc.Seed)
	if err != nil {
		return err
	}
	series := make([][]float64, 0, len(algs))
	names := make([]string, 0, len(algs))
	for _, alg := range algs {
		series = append(series, curves[alg])
		names = append(names, string(alg))
	}
	fmt.Println()
	fmt.Println(asciigraph.PlotMany(series,
		asciigraph.Height(12),
		asciigraph.Width(70),
		asciigraph.Caption(fmt.Sprintf("mean cost, sizes %d..%d (%s)", config.MinUISize, curveMax, strings.Join(names, ", "))),
	))
	return nil
}

func runScript(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("seed") {
		sc.Deck.Seed = seed
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if sc.Name != "" {
		fmt.Printf("scenario: %s\n", sc.Name)
	}
	res, err := automation.RunScenario(ctx, sc, logging.Logger)
	if res != nil {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "#\tACTION\tALGORITHM\tRUNNING\tCOMPLETED\tSTATS\tKEYS")
		for i, r := range res.Results {
			fmt.Fprintf(w, "%d\t%s\t%s\t%v\t%v\t%s\t%v\n",
				i+1, r.Action.Do, r.Report.Algorithm, r.Report.Running, r.Report.Completed, r.Report.Stats, r.Keys)
		}
		w.Flush()
	}
	if err != nil {
		return err
	}
	fmt.Printf("%d actions ok\n", len(res.Results))

	if !saveScript || len(res.Frames) == 0 {
		return nil
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	first, last := res.Frames[0], res.Frames[len(res.Frames)-1]
	runID, err := st.Save(storage.RunMetadata{
		Algorithm:   string(res.Algorithm),
		Seed:        res.Seed,
		Size:        len(last.Keys),
		Order:       sc.Deck.Order,
		InitialKeys: first.Keys,
		FinalKeys:   last.Keys,
		Stats:       last.Stats,
		Completed:   last.Completed,
		Sorted:      trace.Displacement(last.Keys) == 0,
		Source:      "script:" + sc.Name,
	}, res.Frames)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tALGORITHM\tSIZE\tORDER")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		n := p.Deck.Size
		if len(p.Deck.Keys) > 0 {
			n = len(p.Deck.Keys)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", name, p.Algorithm, n, p.Deck.Order)
	}
	return w.Flush()
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Serve.Addr = serveAddr
	}
	if cmd.Flags().Changed("public-url") {
		cfg.Serve.PublicURL = publicURL
	}

	ctrl, _, err := newController(cfg)
	if err != nil {
		return err
	}
	srv := web.New(ctrl, web.Options{
		Addr:           cfg.Serve.Addr,
		PublicURL:      cfg.Serve.PublicURL,
		Autoplay:       cfg.Autoplay,
		HighlightClear: cfg.HighlightClear,
		Logger:         logging.Logger,
	})

	if code, err := web.QRTerminal(srv.JoinURL()); err == nil {
		fmt.Print(code)
	}
	fmt.Printf("open %s\n", srv.JoinURL())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return srv.ListenAndServe(ctx)
}
