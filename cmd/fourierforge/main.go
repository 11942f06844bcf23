package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/spf13/cobra"

	"github.com/san-kum/fourierforge/internal/analysis"
	"github.com/san-kum/fourierforge/internal/automation"
	"github.com/san-kum/fourierforge/internal/config"
	"github.com/san-kum/fourierforge/internal/export"
	"github.com/san-kum/fourierforge/internal/metrics"
	"github.com/san-kum/fourierforge/internal/pipeline"
	"github.com/san-kum/fourierforge/internal/resample"
	"github.com/san-kum/fourierforge/internal/session"
	"github.com/san-kum/fourierforge/internal/sink"
	"github.com/san-kum/fourierforge/internal/svgpath"
	"github.com/san-kum/fourierforge/internal/viz"
)

var (
	configFile string
	preset     string
	traceLevel string
	traceFile  string

	samples  int
	speed    float64
	fps      int
	maxZoom  float64
	width    int
	height   int
	format   string
	output   string
	outDir   string
	theme    string
	ink      string
	rainbow  bool
	sweepKs  []int
	parallel int

	// per-command values whose defaults differ
	listTop      int
	plotTop      int
	scoreTerms   int
	exportTerms  int
	exportOutput string
	keepTerms    int
	svgOutput    string
)

// main registers the commands and runs the root command. Without a
// subcommand the live viewer opens on the given SVG, or a file browser over
// the given directory.
func main() {
	rootCmd := &cobra.Command{
		Use:   "fourierforge [svg|dir]",
		Short: "draw SVG outlines with rotating epicycles",
		Args:  cobra.MaximumNArgs(1),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupTracing()
		},
		RunE: runLive,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringVar(&traceLevel, "trace", "", "trace level (Error, Info, Debug)")
	rootCmd.PersistentFlags().StringVar(&traceFile, "trace-file", "", "write traces to a file instead of stderr")
	rootCmd.PersistentFlags().IntVar(&samples, "samples", config.DefaultSamples, "points per resampled contour")
	addLiveFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live [svg|dir]",
		Short: "open the interactive viewer",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addLiveFlags(liveCmd)

	decomposeCmd := &cobra.Command{
		Use:   "decompose [svg]",
		Short: "print the strongest epicycles of an outline",
		Args:  cobra.ExactArgs(1),
		RunE:  decompose,
	}
	decomposeCmd.Flags().IntVar(&listTop, "top", 20, "epicycles to list")
	decomposeCmd.Flags().IntVar(&scoreTerms, "terms", 0, "terms scored for the metrics (0 = all)")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [svg]",
		Short: "plot amplitudes and the reconstruction error curve",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrum,
	}
	spectrumCmd.Flags().IntVar(&plotTop, "top", 80, "amplitudes to plot")

	renderCmd := &cobra.Command{
		Use:   "render [svg]",
		Short: "record one cinematic cycle without a terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  render,
	}
	renderCmd.Flags().StringVarP(&output, "output", "o", config.DefaultOutput, "output file")
	renderCmd.Flags().StringVar(&format, "format", "", "gif or ffmpeg (default from the output extension)")
	renderCmd.Flags().Float64Var(&speed, "speed", config.DefaultSpeed, "cycle fraction per frame")
	renderCmd.Flags().IntVar(&fps, "fps", config.DefaultTargetFPS, "frame rate")
	renderCmd.Flags().Float64Var(&maxZoom, "max-zoom", config.DefaultMaxZoom, "peak cinematic zoom")
	renderCmd.Flags().IntVar(&width, "width", config.DefaultWidth, "frame width")
	renderCmd.Flags().IntVar(&height, "height", config.DefaultHeight, "frame height")
	renderCmd.Flags().StringVar(&theme, "theme", "", "color theme")
	renderCmd.Flags().StringVar(&ink, "ink", "", "trail color as #rrggbb")
	renderCmd.Flags().BoolVar(&rainbow, "rainbow", false, "cycle the trail hue")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [svg]",
		Short: "export coefficients to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file (- for stdout)")
	exportCSVCmd.Flags().IntVar(&exportTerms, "terms", 0, "epicycles to export (0 = all)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [svg]",
		Short: "export coefficients and metrics to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&exportOutput, "output", "o", "-", "output file (- for stdout)")
	exportJSONCmd.Flags().IntVar(&exportTerms, "terms", 0, "epicycles to export (0 = all)")

	reconstructCmd := &cobra.Command{
		Use:   "reconstruct [svg]",
		Short: "write the outline rebuilt from the strongest terms as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  reconstruct,
	}
	reconstructCmd.Flags().StringVarP(&svgOutput, "output", "o", "-", "output file (- for stdout)")
	reconstructCmd.Flags().IntVar(&keepTerms, "terms", 64, "epicycles kept")
	reconstructCmd.Flags().IntVar(&width, "width", 800, "image width")
	reconstructCmd.Flags().IntVar(&height, "height", 800, "image height")

	sweepCmd := &cobra.Command{
		Use:   "sweep [svg]",
		Short: "score reconstructions over a range of term counts",
		Args:  cobra.ExactArgs(1),
		RunE:  sweep,
	}
	sweepCmd.Flags().IntSliceVar(&sweepKs, "k", nil, "term counts (default powers of two)")
	sweepCmd.Flags().StringVar(&outDir, "out", "", "directory for one SVG per term count")
	sweepCmd.Flags().IntVar(&width, "width", 800, "image width")
	sweepCmd.Flags().IntVar(&height, "height", 800, "image height")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tSAMPLES\tFLATNESS\tSPEED\tTRAIL\tFORMAT")
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Fprintf(w, "%s\t%d\t%.2f\t%.3f\t%s\t%s\n",
					name, p.Samples, p.Flatness, p.Playback.Speed, p.Trace.Mode, p.Render.Format)
			}
			return w.Flush()
		},
	}

	batchCmd := &cobra.Command{
		Use:   "batch [scenario.yaml]",
		Short: "render every shot of a batch file",
		Args:  cobra.ExactArgs(1),
		RunE:  batch,
	}
	batchCmd.Flags().IntVar(&parallel, "parallel", 0, "shots rendered at once (overrides the file)")
	batchCmd.Flags().StringVar(&outDir, "out", "", "output directory (overrides the file)")

	rootCmd.AddCommand(liveCmd, decomposeCmd, spectrumCmd, renderCmd, exportCSVCmd, exportJSONCmd, reconstructCmd, sweepCmd, presetsCmd, batchCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLiveFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", "", "color theme")
	cmd.Flags().StringVar(&outDir, "out", "", "directory for recordings")
}

func setupTracing() error {
	if traceLevel == "" {
		return nil
	}
	sel := tracing.SelectorForAdapter(gologadapter.GetAdapter())
	t := sel.Select("fourier")
	t.SetTraceLevel(tracing.TraceLevelFromString(traceLevel))
	if traceFile != "" {
		f, err := os.Create(traceFile)
		if err != nil {
			return err
		}
		t.SetOutput(f)
	}
	tracing.SetTraceSelector(sel)
	return nil
}

// loadConfig resolves the preset, then the config file, then explicit flags.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("samples") {
		cfg.Samples = samples
	}
	if flags.Changed("speed") {
		cfg.Playback.Speed = speed
	}
	if flags.Changed("fps") {
		cfg.Playback.TargetFPS = fps
	}
	if flags.Changed("max-zoom") {
		cfg.Camera.MaxZoom = maxZoom
	}
	// width, height and output mean the recording only on render.
	if flags.Lookup("format") != nil {
		if flags.Changed("width") {
			cfg.Render.Width = width
		}
		if flags.Changed("height") {
			cfg.Render.Height = height
		}
		if flags.Changed("output") {
			cfg.Render.Output = output
			cfg.Render.Format = sink.FormatOf(output)
		}
		if flags.Changed("format") {
			cfg.Render.Format = format
		}
	}
	return cfg, cfg.Validate()
}

// compute runs the decomposition of one SVG file synchronously.
func compute(ctx context.Context, cfg *config.Config, path string) (*pipeline.Result, error) {
	src := svgpath.File{Path: path, Flatness: cfg.Flatness}
	r := &resample.Resampler{TargetSize: cfg.TargetSize}
	return pipeline.Compute(ctx, src, cfg.Samples, r, nil)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	opts := viz.Options{Config: cfg, Theme: theme, OutDir: outDir}

	target := "."
	if len(args) > 0 {
		target = args[0]
	}
	info, err := os.Stat(target)
	if err != nil {
		return err
	}
	if info.IsDir() {
		return viz.RunLauncher(target, opts)
	}

	opts.Source = svgpath.File{Path: target, Flatness: cfg.Flatness}
	opts.Name = trimExt(filepath.Base(target))
	if opts.OutDir == "" {
		opts.OutDir = filepath.Dir(target)
	}
	return viz.Run(opts)
}

func decompose(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := compute(cmd.Context(), cfg, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d samples, %d epicycles in %v\n\n", args[0], len(res.Path), len(res.Epicycles), res.Elapsed)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "RANK\tFREQ\tAMPLITUDE\tPHASE")
	for _, c := range export.Coefficients(res.Epicycles, min(listTop, len(res.Epicycles))) {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%.4f\n", c.Rank, c.Frequency, c.Amplitude, c.Phase)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	k := scoreTerms
	if k <= 0 {
		k = len(res.Epicycles)
	}
	fmt.Printf("\nmetrics (K=%d):\n", k)
	for name, val := range metrics.Evaluate(res.Path, res.Epicycles, k, metrics.Default()...) {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
	return nil
}

func spectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := compute(cmd.Context(), cfg, args[0])
	if err != nil {
		return err
	}

	amps := analysis.Amplitudes(res.Epicycles, plotTop)
	logs := make([]float64, len(amps))
	for i, a := range amps {
		logs[i] = math.Log10(max(a, 1e-9))
	}
	if len(logs) > 1 {
		fmt.Println(asciigraph.Plot(logs,
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("log10 amplitude by rank (top %d)", len(logs))),
		))
		fmt.Println()
	}

	ks := automation.PowersOfTwo(len(res.Epicycles))
	curve := metrics.ErrorCurve(res.Path, res.Epicycles, ks)
	if len(curve) > 1 {
		fmt.Println(asciigraph.Plot(curve,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("reconstruction rms over K = 1, 2, 4, ..."),
		))
		fmt.Println()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tRMS")
	for i, k := range ks {
		fmt.Fprintf(w, "%d\t%.4f\n", k, curve[i])
	}
	return w.Flush()
}

func render(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	style := func(vis *session.Visuals) error {
		if theme != "" {
			viz.GetTheme(theme).Apply(vis)
		}
		vis.Rainbow = rainbow
		if ink != "" {
			return vis.SetInk(ink)
		}
		return nil
	}

	fmt.Printf("rendering %s -> %s (%s, %dx%d @ %d fps)\n",
		args[0], cfg.Render.Output, cfg.Render.Format, cfg.Render.Width, cfg.Render.Height, cfg.Playback.TargetFPS)
	frames, cycles, err := automation.Render(ctx, cfg, args[0], style)
	if err != nil {
		return err
	}
	fmt.Printf("%s %d frames, %d cycles\n", session.StatusShotSaved, frames, cycles)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := compute(cmd.Context(), cfg, args[0])
	if err != nil {
		return err
	}
	if err := export.SaveCSV(exportOutput, export.Coefficients(res.Epicycles, exportTerms)); err != nil {
		return err
	}
	if exportOutput != "-" {
		fmt.Printf("exported to %s\n", exportOutput)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := compute(cmd.Context(), cfg, args[0])
	if err != nil {
		return err
	}

	coeffs := export.Coefficients(res.Epicycles, exportTerms)
	doc := export.Document{
		Source:    args[0],
		Samples:   len(res.Path),
		Count:     len(coeffs),
		Metrics:   metrics.Evaluate(res.Path, res.Epicycles, len(coeffs), metrics.Default()...),
		Epicycles: coeffs,
	}
	if err := export.SaveJSON(exportOutput, doc); err != nil {
		return err
	}
	if exportOutput != "-" {
		fmt.Printf("exported to %s\n", exportOutput)
	}
	return nil
}

func reconstruct(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	res, err := compute(cmd.Context(), cfg, args[0])
	if err != nil {
		return err
	}

	contour := analysis.Reconstruct(res.Epicycles, keepTerms, len(res.Path))
	svg := export.PathToSVG(contour, width, height, export.DefaultSVGStyle())
	if err := export.SaveSVG(svgOutput, svg); err != nil {
		return err
	}
	if svgOutput != "-" {
		fmt.Printf("wrote %s (K=%d)\n", svgOutput, min(keepTerms, len(res.Epicycles)))
	}
	return nil
}

func sweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.Sweep{
		Source:  svgpath.File{Path: args[0], Flatness: cfg.Flatness},
		Samples: cfg.Samples,
		Terms:   sweepKs,
		OutDir:  outDir,
		Width:   width,
		Height:  height,
	})
	if err != nil {
		return err
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "K\tRMS\tENERGY\tOUTPUT")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%s\n", r.Terms, r.RMS, r.EnergyCaptured, r.Output)
	}
	return w.Flush()
}

func batch(cmd *cobra.Command, args []string) error {
	b, err := automation.LoadBatch(args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("parallel") {
		b.Parallel = parallel
	}
	if cmd.Flags().Changed("out") {
		b.OutDir = outDir
	}
	if preset != "" {
		b.Preset = preset
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	fmt.Printf("batch %s: %d shots\n", b.Name, len(b.Shots))
	results, err := automation.RunBatch(ctx, b)
	if err != nil {
		return err
	}

	failed := 0
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INPUT\tOUTPUT\tCYCLES\tFRAMES\tTIME\tERROR")
	for _, r := range results {
		if r.Error != "" {
			failed++
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%v\t%s\n", r.Input, r.Output, r.Cycles, r.Frames, r.Elapsed, r.Error)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d shots failed", failed, len(results))
	}
	return nil
}

func trimExt(name string) string {
	return name[:len(name)-len(filepath.Ext(name))]
}
