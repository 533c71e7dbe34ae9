// Command decimate reduces the vertex count of a closed triangle mesh with
// valence-aware quadric edge collapse.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jamiedonnelly-px/manifold"
	"github.com/jamiedonnelly-px/manifold/internal/d3"
	"github.com/jamiedonnelly-px/manifold/render"
	"github.com/jamiedonnelly-px/manifold/simplify"
	"golang.org/x/term"
)

// pipeName is the file name that indicates stdin/stdout is being used.
const pipeName = "-"

var (
	// Flags
	source      = flag.String("in", pipeName, "Source mesh (.stl or .obj)")
	destination = flag.String("out", pipeName, "Destination mesh (.stl or .obj)")
	pipeFormat  = flag.String("format", "stl", "Mesh format used for stdin/stdout: stl, ascii or obj")
	reduction   = flag.Float64("reduction", 0.5, "Fraction of vertices to remove")
	target      = flag.Int("target", 0, "Target vertex count, overrides -reduction when positive")
	valence     = flag.Bool("valence", true, "Weight collapse costs by the resulting vertex valence")
	midpoint    = flag.Bool("midpoint", true, "Score collapses at the edge midpoint instead of the quadric optimum")
	optValence  = flag.Int("optval", 6, "Optimal vertex valence")
	valWeight   = flag.Float64("valweight", 1, "Valence penalty weight")
	accumulate  = flag.Bool("accumulate", false, "Accumulate quadrics of collapsed vertices")
	previewPNG  = flag.String("png", "", "Write a preview of the simplified mesh to this PNG file")
	plotPath    = flag.String("plot", "", "Write a valence histogram of the simplified mesh to this file")
	costPath    = flag.String("costplot", "", "Write a plot of collapse costs to this file")
	verbose     = flag.Bool("v", false, "Log engine diagnostics")
)

var (
	statusColor = color.New(color.FgGreen).SprintFunc()
	warnColor   = color.New(color.FgYellow).SprintFunc()
	errColor    = color.New(color.FgRed).SprintFunc()
)

func main() {
	log.SetFlags(0)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: decimate [flags]\n\nValence-aware QEM mesh decimation.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg := simplify.Config{
		Reduction:          *reduction,
		TargetVertices:     *target,
		ValenceAware:       *valence,
		OptimalValence:     *optValence,
		ValenceWeight:      *valWeight,
		Midpoint:           *midpoint,
		AccumulateQuadrics: *accumulate,
	}
	if *verbose {
		cfg.Logger = log.New(os.Stderr, warnColor("decimate: "), 0)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, cfg); err != nil {
		log.Fatalf("%s %v", errColor("error:"), err)
	}
}

func run(ctx context.Context, cfg simplify.Config) error {
	in, err := readInput(*source)
	if err != nil {
		return err
	}
	start := time.Now()
	out, st, err := simplify.SimplifyContext(ctx, in, cfg)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	dev := manifold.Deviation(out, in)
	diag := d3.Box(in.Bounds()).Diagonal()
	fmt.Fprintf(os.Stderr, "%s %d -> %d vertices (target %d), %d -> %d faces in %s\n",
		statusColor("simplified"), st.InputVertices, st.OutputVertices, st.Target,
		st.InputFaces, st.OutputFaces, elapsed.Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  collapses %d, rejected %d, stale %d, singular solves %d\n",
		st.Collapses, st.Rejected, st.Stale, st.SingularSolves)
	fmt.Fprintf(os.Stderr, "  vertex deviation max %.4g (%.2f%% of bounding diagonal) mean %.4g rms %.4g\n",
		dev.Max, 100*dev.Max/diag, dev.Mean, dev.RMS)
	if st.Exhausted {
		fmt.Fprintf(os.Stderr, "%s no collapsible edge left before reaching the target\n", warnColor("warning:"))
	}

	if err := writeOutput(*destination, out); err != nil {
		return err
	}
	if *previewPNG != "" {
		if err := render.SavePreview(*previewPNG, out, render.DefaultView()); err != nil {
			return fmt.Errorf("preview: %w", err)
		}
	}
	if *plotPath != "" {
		if err := render.PlotValence(*plotPath, out); err != nil {
			return fmt.Errorf("valence plot: %w", err)
		}
	}
	if *costPath != "" {
		costs := make([]float64, len(st.History))
		for i, c := range st.History {
			costs[i] = c.Cost
		}
		if err := render.PlotCosts(*costPath, costs); err != nil {
			return fmt.Errorf("cost plot: %w", err)
		}
	}
	return nil
}

func readInput(in string) (manifold.Mesh, error) {
	if in != pipeName {
		return render.LoadMesh(in)
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return manifold.Mesh{}, errors.New("`-` should be used with a pipe for stdin")
	}
	format, err := parseFormat(*pipeFormat)
	if err != nil {
		return manifold.Mesh{}, err
	}
	return render.ReadMesh(os.Stdin, format)
}

func writeOutput(out string, m manifold.Mesh) error {
	if out != pipeName {
		return render.SaveMesh(out, m)
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("`-` should be used with a pipe for stdout")
	}
	format, err := parseFormat(*pipeFormat)
	if err != nil {
		return err
	}
	return render.WriteMesh(os.Stdout, m, format)
}

func parseFormat(s string) (render.Format, error) {
	switch strings.ToLower(s) {
	case "stl":
		return render.FormatSTL, nil
	case "ascii":
		return render.FormatASCIISTL, nil
	case "obj":
		return render.FormatOBJ, nil
	}
	return render.FormatUnknown, fmt.Errorf("%w: %q", render.ErrUnknownFormat, s)
}
