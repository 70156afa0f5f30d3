package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/cardsort/internal/config"
	"github.com/san-kum/cardsort/internal/logging"
	"github.com/san-kum/cardsort/internal/run"
	"github.com/san-kum/cardsort/internal/sorting"
	"github.com/san-kum/cardsort/internal/storage"
	"github.com/san-kum/cardsort/internal/viz"
)

var (
	configFile string
	preset     string
	size       int
	order      string
	seed       int64
	dataDir    string
	debug      bool

	// per-command
	stepLimit  int
	noSave     bool
	trials     int
	workers    int
	curveMax   int
	theme      string
	autoplay   time.Duration
	svgOut     string
	svgKind    string
	svgWidth   int
	svgHeight  int
	csvOut     string
	serveAddr  string
	publicURL  string
	saveScript bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "cardsort",
		Short:         "step through sorting algorithms on a deck of cards",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Setup(os.Stderr, debug)
		},
		RunE: runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", "", "use preset deck")
	pf.IntVar(&size, "size", config.DefaultSize, "number of cards")
	pf.StringVar(&order, "order", config.DefaultOrder, "initial order: as-found, reverse, random")
	pf.Int64Var(&seed, "seed", 0, "shuffle seed (0 picks one)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.BoolVar(&debug, "debug", false, "log every step")

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "interactive terminal view",
		RunE:  runTUI,
	}
	for _, c := range []*cobra.Command{rootCmd, tuiCmd} {
		c.Flags().StringVar(&theme, "theme", config.DefaultTheme, "color theme")
		c.Flags().DurationVar(&autoplay, "autoplay", config.DefaultAutoplay, "autoplay interval")
	}

	runCmd := &cobra.Command{
		Use:   "run [algorithm]",
		Short: "sort a deck to completion and save the run",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSort,
	}
	runCmd.Flags().IntVar(&stepLimit, "limit", 0, "step limit (0 = 4n²+8)")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not write a run record")

	compareCmd := &cobra.Command{
		Use:   "compare [algorithm...]",
		Short: "run algorithms on identical decks",
		RunE:  compareAlgorithms,
	}

	trialsCmd := &cobra.Command{
		Use:   "trials [algorithm...]",
		Short: "average cost over many random decks",
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&trials, "trials", 100, "decks per algorithm")
	trialsCmd.Flags().IntVar(&workers, "workers", 0, "parallel workers (0 = GOMAXPROCS)")
	trialsCmd.Flags().IntVar(&curveMax, "curve", 0, "also plot mean cost for sizes 2..N")

	scriptCmd := &cobra.Command{
		Use:   "script [file]",
		Short: "execute a yaml scenario of actions",
		Args:  cobra.ExactArgs(1),
		RunE:  runScript,
	}
	scriptCmd.Flags().BoolVar(&saveScript, "save", false, "save the last run of the scenario")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a saved run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot cost and disorder per step",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export a run trace to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&csvOut, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run with its trace to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVarP(&svgOut, "out", "o", "", "output file (default <run_id>.svg)")
	exportSVGCmd.Flags().StringVar(&svgKind, "kind", "trace", "what to draw: trace or deck")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "chart width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 300, "chart height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list deck presets",
		RunE:  listPresets,
	}

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "serve the browser view",
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&serveAddr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&publicURL, "public-url", "", "URL encoded in the join QR code")

	rootCmd.AddCommand(tuiCmd, runCmd, compareCmd, trialsCmd, scriptCmd, listCmd, showCmd,
		plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd, serveCmd)

	if err := rootCmd.Execute(); err != nil {
		logging.Logger.Error(err)
		os.Exit(1)
	}
}

// loadConfig layers defaults, the config file, the preset and finally any
// flag set on the command line.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.Apply(p)
	}

	if cmd.Flags().Changed("size") {
		cfg.Deck.Size = size
		cfg.Deck.Keys = nil
	}
	if cmd.Flags().Changed("order") {
		cfg.Deck.Order = order
		cfg.Deck.Keys = nil
	}
	if cmd.Flags().Changed("seed") {
		cfg.Deck.Seed = seed
	}
	if cmd.Flags().Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parseAlgorithms(names []string) ([]sorting.Algorithm, error) {
	reg := sorting.NewRegistry()
	if len(names) == 0 {
		return reg.List(), nil
	}
	out := make([]sorting.Algorithm, 0, len(names))
	for _, name := range names {
		alg, err := reg.Parse(name)
		if err != nil {
			return nil, err
		}
		out = append(out, alg)
	}
	return out, nil
}

func openStore(cfg *config.Config) (*storage.Store, error) {
	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st, nil
}

func newController(cfg *config.Config) (*run.Controller, sorting.Algorithm, error) {
	alg, err := sorting.NewRegistry().Parse(cfg.Algorithm)
	if err != nil {
		return nil, sorting.NoAlgorithm, err
	}
	d, err := cfg.BuildDeck()
	if err != nil {
		return nil, sorting.NoAlgorithm, err
	}
	ctrl := run.New(d, run.WithLogger(logging.Logger))
	if _, err := ctrl.Select(alg); err != nil {
		return nil, sorting.NoAlgorithm, err
	}
	return ctrl, alg, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = theme
	}
	if cmd.Flags().Changed("autoplay") {
		cfg.Autoplay = autoplay
	}

	// The alt screen owns the terminal, so debug logs go to a file.
	var w io.Writer = io.Discard
	if debug {
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(filepath.Join(cfg.DataDir, "debug.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	logging.Setup(w, debug)

	ctrl, alg, err := newController(cfg)
	if err != nil {
		return err
	}
	return viz.Run(ctrl, viz.Options{
		Algorithm:      alg,
		Autoplay:       cfg.Autoplay,
		HighlightClear: cfg.HighlightClear,
		Theme:          cfg.Theme,
		Store:          storage.New(cfg.DataDir),
		Seed:           cfg.Deck.Seed,
	})
}
