package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/framesim/internal/config"
	"github.com/san-kum/framesim/internal/export"
	"github.com/san-kum/framesim/internal/frame"
	"github.com/san-kum/framesim/internal/logger"
	"github.com/san-kum/framesim/internal/metrics"
	"github.com/san-kum/framesim/internal/solver"
	"github.com/san-kum/framesim/internal/storage"
	"github.com/san-kum/framesim/internal/study"
	"github.com/san-kum/framesim/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	debug   bool

	preset     string
	strategy   string
	evalPoints int
	buckle     bool
	critical   bool
	noSave     bool

	field   string
	element int

	exportOut string
	initOut   string

	svgOut     string
	svgAmplify float64
	svgFields  []string
	svgTheme   string

	imageOut     string
	imageAmplify float64
	imageFields  []string
	perField     bool

	browseTheme string

	param   string
	from    float64
	to      float64
	steps   int
	metric  string
	grid    []string
	workers int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flags with per-command defaults get
// their own variables.
func newRootCmd() *cobra.Command {
	var cleanup func() error

	rootCmd := &cobra.Command{
		Use:           "framesim",
		Short:         "planar frame analysis",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c, err := logger.Setup(logger.Config{Dir: dataDir, Debug: debug})
			if err != nil {
				return err
			}
			cleanup = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if cleanup != nil {
				return cleanup()
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".framesim", "data directory")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run [model.yaml]",
		Short: "analyze a frame model",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalysis,
	}
	runCmd.Flags().StringVar(&preset, "preset", "", "use preset model")
	runCmd.Flags().StringVar(&strategy, "strategy", "", "override solver strategy")
	runCmd.Flags().IntVar(&evalPoints, "points", 0, "override evaluation points per element")
	runCmd.Flags().BoolVar(&buckle, "buckle", false, "compute linearized buckling modes")
	runCmd.Flags().BoolVar(&critical, "critical", false, "compute exact critical load factor")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show run summary and nodal displacements",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot sectional forces in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&field, "field", "moment", "normal, shear or moment")
	plotCmd.Flags().IntVar(&element, "element", -1, "element index (all when negative)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run as a single json document",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (stdout when empty)")

	svgCmd := &cobra.Command{
		Use:   "svg [run_id]",
		Short: "render frame, deformed shape and diagrams to svg",
		Args:  cobra.ExactArgs(1),
		RunE:  svgRun,
	}
	svgCmd.Flags().StringVarP(&svgOut, "output", "o", "frame.svg", "output file")
	svgCmd.Flags().Float64Var(&svgAmplify, "amplify", -1, "deformation amplification (auto when negative)")
	svgCmd.Flags().StringSliceVar(&svgFields, "fields", []string{"moment"}, "diagrams to draw")
	svgCmd.Flags().StringVar(&svgTheme, "theme", "paper", "color theme")

	imageCmd := &cobra.Command{
		Use:   "image [run_id]",
		Short: "render plots with gonum/plot",
		Args:  cobra.ExactArgs(1),
		RunE:  imageRun,
	}
	imageCmd.Flags().StringVarP(&imageOut, "output", "o", "frame.png", "output file")
	imageCmd.Flags().Float64Var(&imageAmplify, "amplify", -1, "deformation amplification (auto when negative)")
	imageCmd.Flags().StringSliceVar(&imageFields, "fields", []string{"moment"}, "diagrams to draw")
	imageCmd.Flags().BoolVar(&perField, "per-element", false, "also write one force plot per field")

	browseCmd := &cobra.Command{
		Use:   "browse [run_id]",
		Short: "browse a run interactively",
		Args:  cobra.ExactArgs(1),
		RunE:  browseRun,
	}
	browseCmd.Flags().StringVar(&browseTheme, "theme", "blueprint", "color theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list preset models",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				cfg := config.GetPreset(name)
				fmt.Printf("  %-18s %d elements\n", name, len(cfg.Elements))
			}
			return nil
		},
	}

	initCmd := &cobra.Command{
		Use:   "init [preset]",
		Short: "write a preset model to yaml",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.GetPreset(args[0])
			if cfg == nil {
				return fmt.Errorf("unknown preset: %s", args[0])
			}
			path := initOut
			if path == "" {
				path = args[0] + ".yaml"
			}
			if err := config.Save(path, cfg); err != nil {
				return err
			}
			fmt.Printf("wrote %s\n", path)
			return nil
		},
	}
	initCmd.Flags().StringVarP(&initOut, "output", "o", "", "output file")

	strategiesCmd := &cobra.Command{
		Use:   "strategies",
		Short: "list solver strategies",
		Run: func(cmd *cobra.Command, args []string) {
			for _, name := range solver.NewRegistry().List() {
				fmt.Printf("  %s\n", name)
			}
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [model.yaml]",
		Short: "sweep one scale factor and plot a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  sweepModel,
	}
	sweepCmd.Flags().StringVar(&preset, "preset", "", "use preset model")
	sweepCmd.Flags().StringVar(&strategy, "strategy", "", "override solver strategy")
	sweepCmd.Flags().StringVar(&param, "param", "load", "scale parameter ("+strings.Join(config.ScaleParams, ", ")+")")
	sweepCmd.Flags().Float64Var(&from, "from", 0.1, "first factor")
	sweepCmd.Flags().Float64Var(&to, "to", 1.0, "last factor")
	sweepCmd.Flags().IntVar(&steps, "steps", 10, "number of factors")
	sweepCmd.Flags().StringVar(&metric, "metric", "max_displacement", "metric to plot")
	sweepCmd.Flags().IntVar(&workers, "workers", 0, "concurrent cases (GOMAXPROCS when zero)")

	searchCmd := &cobra.Command{
		Use:   "search [model.yaml]",
		Short: "grid search scale factors minimizing a metric",
		Args:  cobra.MaximumNArgs(1),
		RunE:  searchModel,
	}
	searchCmd.Flags().StringVar(&preset, "preset", "", "use preset model")
	searchCmd.Flags().StringVar(&strategy, "strategy", "", "override solver strategy")
	searchCmd.Flags().StringArrayVar(&grid, "grid", nil, "param=v1,v2,... (repeatable)")
	searchCmd.Flags().StringVar(&metric, "metric", "max_displacement", "metric to minimize")
	searchCmd.Flags().IntVar(&workers, "workers", 0, "concurrent cases (GOMAXPROCS when zero)")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCmd, svgCmd, imageCmd, browseCmd, presetsCmd, initCmd, strategiesCmd, sweepCmd, searchCmd)

	return rootCmd
}

func loadModel(args []string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	case len(args) == 1:
		c, err := config.Load(args[0])
		if err != nil {
			return nil, err
		}
		cfg = c
	default:
		return nil, errors.New("model file or --preset required")
	}

	if strategy != "" {
		cfg.Analysis.Strategy = strategy
	}
	if evalPoints > 0 {
		cfg.Analysis.EvalPoints = evalPoints
	}
	return cfg, nil
}

func runAnalysis(cmd *cobra.Command, args []string) error {
	cfg, err := loadModel(args)
	if err != nil {
		return err
	}
	log := logger.L().With("model", cfg.Name)

	f, err := cfg.Build(solver.NewRegistry(), frame.WithLogger(log))
	if err != nil {
		return err
	}
	if err := f.Analyze(); err != nil {
		return err
	}
	for _, h := range f.UnusedHinges() {
		fmt.Printf("warning: hinge at %s joins no elements\n", h.Point)
	}
	for _, c := range f.UnmatchedConstraints() {
		fmt.Printf("warning: constraint at %s matches no node\n", c.Point)
	}
	for _, l := range f.UnmatchedLoads() {
		fmt.Printf("warning: load at %s matches no node\n", l.Point)
	}

	result, err := storage.NewResult(f)
	if err != nil {
		return err
	}

	meta := storage.RunMetadata{
		Model:      cfg.Name,
		Strategy:   f.Strategy().Name(),
		EvalPoints: f.EvalPoints(),
		NDof:       f.NDof,
		Metrics:    metrics.Collect(result, append(metrics.Default(), metrics.NewServiceability(250))...),
	}

	if buckle {
		modes, err := f.Buckling(cfg.Analysis.BucklingModes)
		switch {
		case errors.Is(err, frame.ErrNoCompression):
			fmt.Println("buckling: no element in compression")
		case err != nil:
			return err
		}
		for _, m := range modes {
			meta.BucklingFactors = append(meta.BucklingFactors, m.Factor)
		}
	}
	if critical {
		lambda, err := f.CriticalLoadFactor()
		switch {
		case errors.Is(err, frame.ErrNoCompression):
			fmt.Println("critical: no element in compression")
		case err != nil:
			return err
		case !math.IsInf(lambda, 0):
			meta.CriticalFactor = lambda
		}
	}

	printSummary(meta)

	if noSave {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(meta, result)
	if err != nil {
		return err
	}
	log.Info("run.saved", "run", runID)
	fmt.Printf("\nsaved: %s\n", runID)
	return nil
}

func printSummary(meta storage.RunMetadata) {
	fmt.Printf("model:    %s\n", meta.Model)
	fmt.Printf("strategy: %s\n", meta.Strategy)
	fmt.Printf("dofs:     %d\n", meta.NDof)

	names := make([]string, 0, len(meta.Metrics))
	for name := range meta.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Println("\nmetrics:")
	for _, name := range names {
		fmt.Printf("  %-18s %12.6g\n", name, meta.Metrics[name])
	}

	if len(meta.BucklingFactors) > 0 {
		fmt.Println("\nbuckling factors:")
		for i, v := range meta.BucklingFactors {
			fmt.Printf("  mode %d  %12.6g\n", i+1, v)
		}
	}
	if meta.CriticalFactor > 0 {
		fmt.Printf("\ncritical factor: %.6g\n", meta.CriticalFactor)
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs")
		return nil
	}
	for _, r := range runs {
		fmt.Printf("%-40s %-10s ndof=%-5d elements=%-4d %s\n",
			r.ID, r.Strategy, r.NDof, r.Elements, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func loadRun(runID string) (*storage.RunMetadata, *storage.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	result, err := st.LoadResult(runID)
	if err != nil {
		return nil, nil, err
	}
	return meta, result, nil
}

func showRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	printSummary(*meta)

	fmt.Println("\nnodes:")
	fmt.Printf("  %4s %10s %10s %14s %14s %14s\n", "id", "x", "y", "ux", "uy", "rz")
	for _, n := range result.Nodes {
		mark := ""
		if n.Hinge {
			mark = " hinge"
		}
		fmt.Printf("  %4d %10.4g %10.4g %14.6g %14.6g %14.6g%s\n", n.ID, n.X, n.Y, n.U[0], n.U[1], n.U[2], mark)
	}
	return nil
}

func parseField(s string) (storage.Field, error) {
	for _, fd := range []storage.Field{storage.Normal, storage.Shear, storage.Moment} {
		if s == fd.String() {
			return fd, nil
		}
	}
	return 0, fmt.Errorf("unknown field: %s", s)
}

func parseFields(names []string) ([]storage.Field, error) {
	out := make([]storage.Field, 0, len(names))
	for _, name := range names {
		fd, err := parseField(name)
		if err != nil {
			return nil, err
		}
		out = append(out, fd)
	}
	return out, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fd, err := parseField(field)
	if err != nil {
		return err
	}

	if element >= 0 {
		if element >= len(result.Elements) {
			return fmt.Errorf("element %d out of range (%d elements)", element, len(result.Elements))
		}
		fmt.Println(viz.Diagram(&result.Elements[element], fd, 80, 12))
		return nil
	}

	// all elements end to end
	var data []float64
	for i := range result.Elements {
		data = append(data, result.Elements[i].Values(fd)...)
	}
	if len(data) == 0 {
		return errors.New("run has no sectional forces")
	}
	fmt.Println(asciigraph.Plot(data,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s, elements 0..%d", fd, len(result.Elements)-1)),
	))
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if exportOut == "" {
		return export.WriteJSON(os.Stdout, *meta, result)
	}
	f, err := os.Create(exportOut)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := export.WriteJSON(f, *meta, result); err != nil {
		return err
	}
	fmt.Printf("exported to %s\n", exportOut)
	return nil
}

// amplification resolves a negative flag value to the automatic factor.
func amplification(r *storage.Result, amplify float64) float64 {
	if amplify < 0 {
		return viz.AutoAmplification(r)
	}
	return amplify
}

func svgRun(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fds, err := parseFields(svgFields)
	if err != nil {
		return err
	}
	opts := export.DefaultSVGOptions()
	opts.Amplify = amplification(result, svgAmplify)
	opts.Fields = fds
	opts.Theme = viz.GetTheme(svgTheme)

	if err := os.WriteFile(svgOut, []byte(export.FrameToSVG(result, opts)), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgOut)
	return nil
}

func imageRun(cmd *cobra.Command, args []string) error {
	_, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	fds, err := parseFields(imageFields)
	if err != nil {
		return err
	}

	p, err := export.FramePlot(result, amplification(result, imageAmplify), fds)
	if err != nil {
		return err
	}
	p.Title.Text = args[0]
	if err := export.SavePlot(p, imageOut); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", imageOut)

	if !perField {
		return nil
	}
	ext := filepath.Ext(imageOut)
	base := strings.TrimSuffix(imageOut, ext)
	if ext == "" {
		ext = ".png"
	}
	for _, fd := range fds {
		ep, err := export.ElementPlot(result, fd)
		if err != nil {
			return err
		}
		path := fmt.Sprintf("%s_%s%s", base, fd, ext)
		if err := export.SavePlot(ep, path); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", path)
	}
	return nil
}

func browseRun(cmd *cobra.Command, args []string) error {
	meta, result, err := loadRun(args[0])
	if err != nil {
		return err
	}
	viz.SetTheme(browseTheme)
	return viz.RunBrowser(meta.Model, result)
}

func sweepModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadModel(args)
	if err != nil {
		return err
	}
	s := study.NewSweep(param, study.Linspace(from, to, steps))
	s.Workers = workers

	cases, err := s.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s %14s\n", param, metric)
	var data []float64
	for _, c := range cases {
		if c.Err != nil {
			fmt.Printf("%-10.4g %14s  (%v)\n", c.Params[param], "failed", c.Err)
			continue
		}
		v := c.Metrics[metric]
		data = append(data, v)
		fmt.Printf("%-10.4g %14.6g\n", c.Params[param], v)
	}
	if len(data) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(60),
			asciigraph.Caption(fmt.Sprintf("%s vs %s %.3g .. %.3g", metric, param, from, to)),
		))
	}
	return nil
}

// parseGrid reads "name=v1,v2,..." specs.
func parseGrid(specs []string) ([]string, [][]float64, error) {
	var names []string
	var ranges [][]float64
	for _, entry := range specs {
		name, list, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, nil, fmt.Errorf("invalid grid %q, want name=v1,v2", entry)
		}
		var values []float64
		for _, s := range strings.Split(list, ",") {
			v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return nil, nil, fmt.Errorf("grid %s: %w", name, err)
			}
			values = append(values, v)
		}
		names = append(names, name)
		ranges = append(ranges, values)
	}
	if len(names) == 0 {
		return nil, nil, errors.New("at least one --grid required")
	}
	return names, ranges, nil
}

func searchModel(cmd *cobra.Command, args []string) error {
	cfg, err := loadModel(args)
	if err != nil {
		return err
	}
	names, ranges, err := parseGrid(grid)
	if err != nil {
		return err
	}
	g := study.NewGridSearch(names, ranges)
	g.Workers = workers

	best, v, cases, err := g.Search(cmd.Context(), cfg, metric)
	if err != nil {
		return err
	}

	failed := 0
	for _, c := range cases {
		if c.Err != nil {
			failed++
		}
	}
	fmt.Printf("cases:  %d (%d failed)\n", len(cases), failed)
	fmt.Printf("%s: %.6g\n", metric, v)
	for _, name := range names {
		fmt.Printf("  %-8s %g\n", name, best[name])
	}
	return nil
}
