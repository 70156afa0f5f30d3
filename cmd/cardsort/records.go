package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/cardsort/internal/deck"
	"github.com/san-kum/cardsort/internal/export"
	"github.com/san-kum/cardsort/internal/storage"
	"github.com/san-kum/cardsort/internal/trace"
	"github.com/san-kum/cardsort/internal/viz"
)

func loadRun(cmd *cobra.Command, runID string) (*storage.RunMetadata, []trace.Frame, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(cfg.DataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	frames, err := st.LoadTrace(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, frames, nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tTIME\tSIZE\tSTEPS\tCOST\tSORTED\tSOURCE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%v\t%s\n",
			r.ID,
			r.Algorithm,
			r.Timestamp.Format("2006-01-02 15:04:05"),
			r.Size,
			r.Stats.Steps,
			r.Stats.Cost(),
			r.Sorted,
			r.Source,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("run:       %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", meta.Algorithm)
	fmt.Printf("time:      %s\n", meta.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Printf("deck:      %d cards, %s, seed %d\n", meta.Size, meta.Order, meta.Seed)
	fmt.Printf("stats:     %s\n", meta.Stats)
	fmt.Printf("completed: %v  sorted: %v\n", meta.Completed, meta.Sorted)
	fmt.Printf("frames:    %d\n\n", len(frames))

	t := viz.CurrentTheme
	for _, row := range []struct {
		label string
		keys  []int
	}{{"start", meta.InitialKeys}, {"end", meta.FinalKeys}} {
		d, err := deck.FromKeys(row.keys)
		if err != nil {
			fmt.Printf("%s: %v\n", row.label, row.keys)
			continue
		}
		fmt.Println(row.label)
		fmt.Println(viz.RenderCards(d.Snapshot(), t))
	}
	return nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	if len(frames) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("algorithm: %s\n", meta.Algorithm)
	fmt.Printf("steps: %d\n\n", len(frames)-1)

	for _, p := range []struct {
		caption string
		data    []float64
	}{
		{"cumulative cost", trace.Costs(frames)},
		{"displacement from sorted", trace.Displacements(frames)},
	} {
		graph := asciigraph.Plot(p.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(p.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return writeOut(csvOut, func(w io.Writer) error {
		return storage.WriteTrace(w, frames)
	})
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, frames)
}

func exportSVG(cmd *cobra.Command, args []string) error {
	meta, frames, err := loadRun(cmd, args[0])
	if err != nil {
		return err
	}

	var svg string
	switch svgKind {
	case "trace":
		svg = export.TraceToSVG(frames, svgWidth, svgHeight, string(viz.ThemeOcean.Primary))
	case "deck":
		d, err := deck.FromKeys(meta.FinalKeys)
		if err != nil {
			return err
		}
		if meta.Sorted {
			d.MarkAll(deck.Sorted)
		}
		svg = export.DeckToSVG(d.Snapshot(), svgWidth/max(d.Len(), 1))
	default:
		return fmt.Errorf("unknown svg kind %q (trace, deck)", svgKind)
	}
	if svg == "" {
		return fmt.Errorf("nothing to draw for %s", meta.ID)
	}

	out := svgOut
	if out == "" {
		out = meta.ID + ".svg"
	}
	if err := os.WriteFile(out, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", out)
	return nil
}

func writeOut(path string, fn func(io.Writer) error) error {
	if path == "" {
		return fn(os.Stdout)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := fn(f); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "exported to %s\n", path)
	return nil
}
