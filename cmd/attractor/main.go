package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/attractor/internal/analysis"
	"github.com/san-kum/attractor/internal/colormap"
	"github.com/san-kum/attractor/internal/config"
	"github.com/san-kum/attractor/internal/dynamo"
	"github.com/san-kum/attractor/internal/experiment"
	"github.com/san-kum/attractor/internal/export"
	"github.com/san-kum/attractor/internal/storage"
	"github.com/san-kum/attractor/internal/sweep"
	"github.com/san-kum/attractor/internal/viz"
)

var (
	dataDir    string
	logLevel   string
	configFile string
	preset     string
	// Map parameters
	paramA float64
	paramB float64
	paramC float64
	paramD float64
	// Sampling
	points     int
	iterations int
	bins       int
	extent     float64
	seedExtent float64
	seeding    string
	seed       int64
	workers    int
	fastTrig   bool
	// Compression
	ceilingMode  string
	ceilingValue float64
	// Sweep
	sweepParam string
	amplitude  float64
	cycles     float64
	wave       string
	duration   int
	fps        int
	frames     int
	// Output
	outPath   string
	format    string
	size      int
	cmapName  string
	noOverlay bool
	title     string
	noRecord  bool
	useTUI    bool
	// Terminal preview
	cols    int
	rows    int
	braille bool
	// Analysis
	lyapSteps int
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, TimeFormat: time.Kitchen})

// main registers the attractor commands and runs the root command, exiting
// with status 1 on error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "attractor",
		Short:         "strange attractor density renderer",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			lvl, err := log.ParseLevel(logLevel)
			if err != nil {
				return fmt.Errorf("invalid log level %q", logLevel)
			}
			logger.SetLevel(lvl)
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".attractor", "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	renderCmd := &cobra.Command{
		Use:   "render [map]",
		Short: "render a still density image",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runRender,
	}
	addEngineFlags(renderCmd)
	addOutputFlags(renderCmd)

	sweepCmd := &cobra.Command{
		Use:   "sweep [map]",
		Short: "render a parameter sweep animation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addEngineFlags(sweepCmd)
	addSweepFlags(sweepCmd)
	addOutputFlags(sweepCmd)
	sweepCmd.Flags().BoolVar(&useTUI, "tui", false, "show an interactive progress view")

	previewCmd := &cobra.Command{
		Use:   "preview [map]",
		Short: "draw a density frame in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runPreview,
	}
	addEngineFlags(previewCmd)
	previewCmd.Flags().StringVar(&cmapName, "colormap", config.DefaultColormap, "colormap")
	previewCmd.Flags().IntVar(&cols, "cols", 80, "terminal columns")
	previewCmd.Flags().IntVar(&rows, "rows", 40, "terminal rows")
	previewCmd.Flags().BoolVar(&braille, "braille", false, "use braille dots instead of colored blocks")

	scheduleCmd := &cobra.Command{
		Use:   "schedule [map]",
		Short: "plot the swept parameter values",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSchedule,
	}
	addEngineFlags(scheduleCmd)
	addSweepFlags(scheduleCmd)

	analyzeCmd := &cobra.Command{
		Use:   "analyze [map]",
		Short: "largest Lyapunov exponent along a sweep",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runAnalyze,
	}
	addEngineFlags(analyzeCmd)
	addSweepFlags(analyzeCmd)
	analyzeCmd.Flags().IntVar(&lyapSteps, "steps", analysis.DefaultLyapunov().Steps, "iterations per estimate")

	benchCmd := &cobra.Command{
		Use:   "bench [map]",
		Short: "benchmark frame computation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  benchFrames,
	}
	addEngineFlags(benchCmd)
	benchCmd.Flags().IntVar(&frames, "frames", 5, "frames to compute")

	presetsCmd := &cobra.Command{
		Use:   "presets [map]",
		Short: "list available presets for a map",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := dynamo.ParseKind(args[0])
			if err != nil {
				return err
			}
			presets := config.ListPresets(k.String())
			if len(presets) == 0 {
				fmt.Printf("no presets for map: %s\n", args[0])
				return nil
			}
			fmt.Printf("presets for %s:\n", k)
			for _, p := range presets {
				fmt.Printf("  %s\n", p)
			}
			return nil
		},
	}

	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "list maps, waves, ceiling modes and colormaps",
		RunE:  showCatalog,
	}

	initCmd := &cobra.Command{
		Use:   "init [path] [map]",
		Short: "write a config file with the defaults or a preset of a map",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  writeInitial,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "plot the per-frame stats of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and stats to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return storage.New(dataDir).Export(args[0], os.Stdout)
		},
	}

	rootCmd.AddCommand(renderCmd, sweepCmd, previewCmd, scheduleCmd, analyzeCmd, benchCmd,
		presetsCmd, catalogCmd, initCmd, listCmd, showCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}

func writeInitial(cmd *cobra.Command, args []string) error {
	kind := "clifford"
	if len(args) > 1 {
		kind = args[1]
	}
	cfg, err := config.Initial(kind, preset)
	if err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s config to %s\n", cfg.Kind, args[0])
	return nil
}

func addEngineFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&paramA, "a", 0, "parameter a")
	f.Float64Var(&paramB, "b", 0, "parameter b")
	f.Float64Var(&paramC, "c", 0, "parameter c (clifford)")
	f.Float64Var(&paramD, "d", 0, "parameter d (clifford)")
	f.IntVar(&points, "points", config.DefaultPoints, "seed count (grid seeding: points per axis)")
	f.IntVar(&iterations, "iterations", config.DefaultIterations, "iterations per seed")
	f.IntVar(&bins, "bins", config.DefaultBins, "histogram bins per axis")
	f.Float64Var(&extent, "extent", config.DefaultExtent, "half-width of the square histogram range")
	f.Float64Var(&seedExtent, "seed-extent", config.DefaultSeedExtent, "half-width of the square seed range")
	f.StringVar(&seeding, "seeding", "", "seed layout (uniform, grid)")
	f.Int64Var(&seed, "seed", 0, "random seed (default: current time)")
	f.IntVar(&workers, "workers", 0, "worker goroutines (0: one per CPU)")
	f.BoolVar(&fastTrig, "fast-trig", false, "use table-based sin/cos")
	f.StringVar(&ceilingMode, "ceiling", "per_frame", "intensity ceiling (per_frame, fixed)")
	f.Float64Var(&ceilingValue, "ceiling-value", 0, "ceiling for fixed mode")
}

func addSweepFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&sweepParam, "param", "a", "swept parameter")
	f.Float64Var(&amplitude, "amplitude", config.DefaultAmplitude, "sweep amplitude")
	f.Float64Var(&cycles, "cycles", config.DefaultCycles, "wave periods across the sweep")
	f.StringVar(&wave, "wave", "sine", "waveform ("+strings.Join(sweep.WaveNames(), ", ")+")")
	f.IntVar(&duration, "duration", config.DefaultDuration, "video length in seconds")
	f.IntVar(&fps, "fps", config.DefaultFPS, "frames per second")
	f.IntVar(&frames, "frames", 0, "frame count (overrides duration*fps)")
}

func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVarP(&outPath, "out", "o", "", "output path")
	f.StringVar(&format, "format", "", "output format ("+strings.Join(config.Formats, ", ")+")")
	f.IntVar(&size, "size", config.DefaultSize, "output image size in pixels")
	f.StringVar(&cmapName, "colormap", config.DefaultColormap, "colormap ("+strings.Join(colormap.Names(), ", ")+")")
	f.BoolVar(&noOverlay, "no-overlay", false, "omit the parameter overlay")
	f.StringVar(&title, "title", "", "overlay title")
	f.BoolVar(&noRecord, "no-record", false, "do not record the run in the data directory")
}

// resolveConfig layers the map defaults, a preset, a config file and the
// explicitly set flags, in that order.
func resolveConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	kind := "clifford"
	if len(args) > 0 {
		k, err := dynamo.ParseKind(args[0])
		if err != nil {
			return nil, err
		}
		kind = k.String()
	}

	cfg, err := config.Initial(kind, preset)
	if err != nil {
		return nil, err
	}

	if configFile != "" {
		cfg, err = config.LoadInto(configFile, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if k, err := cfg.MapKind(); err == nil && len(args) > 0 && k.String() != kind {
			return nil, fmt.Errorf("config %s is for %s, not %s", configFile, k, kind)
		}
	}

	flags := cmd.Flags()
	changed := func(name string) bool {
		return flags.Lookup(name) != nil && flags.Changed(name)
	}

	if changed("a") {
		cfg.Params.A = paramA
	}
	if changed("b") {
		cfg.Params.B = paramB
	}
	if changed("c") {
		cfg.Params.C = paramC
	}
	if changed("d") {
		cfg.Params.D = paramD
	}
	if changed("points") {
		cfg.Points = points
	}
	if changed("iterations") {
		cfg.Iterations = iterations
	}
	if changed("bins") {
		cfg.Bins = bins
	}
	if changed("extent") {
		cfg.Range = config.RangeConfig{XMin: -extent, XMax: extent, YMin: -extent, YMax: extent}
	}
	if changed("seed-extent") {
		cfg.SeedRange = config.RangeConfig{XMin: -seedExtent, XMax: seedExtent, YMin: -seedExtent, YMax: seedExtent}
	}
	if changed("seeding") {
		cfg.Seeding = seeding
	}
	if changed("seed") {
		cfg.Seed = seed
	}
	if !changed("seed") && cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if changed("workers") {
		cfg.Workers = workers
	}
	if changed("fast-trig") {
		cfg.FastTrig = fastTrig
	}
	if changed("ceiling") {
		cfg.Ceiling.Mode = ceilingMode
	}
	if changed("ceiling-value") {
		cfg.Ceiling.Value = ceilingValue
	}

	if changed("param") {
		cfg.Sweep.Param = sweepParam
	}
	if changed("amplitude") {
		cfg.Sweep.Amplitude = amplitude
	}
	if changed("cycles") {
		cfg.Sweep.Cycles = cycles
	}
	if changed("wave") {
		cfg.Sweep.Wave = wave
	}
	if changed("duration") {
		cfg.Sweep.Duration = duration
		cfg.Sweep.Frames = 0
	}
	if changed("fps") {
		cfg.Sweep.FPS = fps
	}
	if changed("frames") {
		cfg.Sweep.Frames = frames
	}

	if changed("out") {
		cfg.Output.Path = outPath
	}
	if changed("format") {
		cfg.Output.Format = strings.ToLower(format)
	}
	if changed("size") {
		cfg.Output.Size = size
	}
	if changed("colormap") {
		cfg.Output.Colormap = cmapName
	}
	if changed("no-overlay") {
		cfg.Output.Overlay = !noOverlay
	}
	if changed("title") {
		cfg.Output.Title = title
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultOutput(cfg *config.Config) string {
	if cfg.Output.Path != "" {
		return cfg.Output.Path
	}
	name := cfg.Kind + "_attractor"
	if cfg.Output.Format == "frames" {
		return name + "_frames"
	}
	return name + "." + cfg.Output.Format
}

func newExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	ec, err := cfg.Experiment()
	if err != nil {
		return nil, err
	}
	return experiment.New(ec, experiment.WithLogger(logger))
}

func runMetadata(cfg *config.Config, mode string) storage.RunMetadata {
	r := cfg.Range
	meta := storage.RunMetadata{
		Kind:       cfg.Kind,
		Mode:       mode,
		Seed:       cfg.Seed,
		Params:     cfg.MapParams().Map(mustKind(cfg)),
		Points:     cfg.Points,
		Iterations: cfg.Iterations,
		Bins:       cfg.Bins,
		Range:      [4]float64{r.XMin, r.XMax, r.YMin, r.YMax},
		Ceiling:    cfg.Ceiling.Mode,
	}
	if mode == "sweep" {
		meta.Sweep = &storage.SweepInfo{
			Param:     strings.ToLower(cfg.Sweep.Param),
			Amplitude: cfg.Sweep.Amplitude,
			Cycles:    cfg.Sweep.Cycles,
			Wave:      cfg.Sweep.Wave,
			Frames:    cfg.Frames(),
			FPS:       cfg.Sweep.FPS,
		}
	}
	return meta
}

func mustKind(cfg *config.Config) dynamo.Kind {
	k, _ := cfg.MapKind()
	return k
}

func beginRun(meta storage.RunMetadata) (*storage.Recorder, error) {
	if noRecord {
		return nil, nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return nil, err
	}
	return st.Begin(meta)
}

func finishRun(rec *storage.Recorder, runErr error) {
	if rec == nil {
		return
	}
	if err := rec.Finish(runErr); err != nil {
		logger.Warn("failed to record run", "err", err)
		return
	}
	logger.Info("run recorded", "id", rec.ID())
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("format") && cfg.Output.Format != "svg" {
		cfg.Output.Format = "png"
	}
	if cfg.Output.Format != "png" && cfg.Output.Format != "svg" {
		return fmt.Errorf("render writes png or svg, got %s (use sweep for animations)", cfg.Output.Format)
	}

	cm, err := colormap.Get(cfg.Output.Colormap)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	path := defaultOutput(cfg)
	meta := runMetadata(cfg, "render")
	meta.Output = path
	rec, err := beginRun(meta)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	logger.Info("rendering", "map", cfg.Kind, "params", meta.Params, "seed", cfg.Seed)
	frame, err := exp.Render(ctx)
	if err == nil && rec != nil {
		err = rec.Consume(frame)
	}
	if err == nil {
		err = writeStill(cfg, cm, frame, path)
	}
	finishRun(rec, err)
	if err != nil {
		return err
	}

	fmt.Printf("saved %s (%v, %d/%d points binned, coverage %.1f%%)\n",
		path, frame.Elapsed.Round(time.Millisecond), frame.Stats.Binned, frame.Stats.Points, frame.Stats.Coverage*100)
	return nil
}

func writeStill(cfg *config.Config, cm *colormap.Colormap, frame *experiment.Frame, path string) error {
	if cfg.Output.Format == "svg" {
		return export.WriteSVG(path, frame.Field, cm, float64(cfg.Output.Size)/float64(cfg.Bins))
	}
	painter := painterFor(cfg, cm, "")
	return export.SavePNG(path, painter.Paint(frame))
}

func painterFor(cfg *config.Config, cm *colormap.Colormap, swept string) export.Painter {
	return export.Painter{
		Colormap: cm,
		Size:     cfg.Output.Size,
		Kind:     mustKind(cfg),
		Param:    swept,
		Overlay:  cfg.Output.Overlay,
		Title:    cfg.Output.Title,
	}
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if cfg.Output.Format == "png" || cfg.Output.Format == "svg" {
		return fmt.Errorf("sweep writes gif, mp4 or frames, got %s (use render for stills)", cfg.Output.Format)
	}

	cm, err := colormap.Get(cfg.Output.Colormap)
	if err != nil {
		return err
	}
	desc, err := cfg.Descriptor()
	if err != nil {
		return err
	}
	sched, err := sweep.Build(desc)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	enc, err := export.Open(export.Options{
		Format: cfg.Output.Format,
		Path:   defaultOutput(cfg),
		FPS:    cfg.Sweep.FPS,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	meta := runMetadata(cfg, "sweep")
	meta.Output = enc.Path()
	rec, err := beginRun(meta)
	if err != nil {
		enc.Close()
		return err
	}

	sinks := []experiment.Sink{&export.FrameSink{Painter: painterFor(cfg, cm, sched.Param), Encoder: enc}}
	if rec != nil {
		sinks = append(sinks, rec)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	logger.Info("sweeping", "map", cfg.Kind, "param", sched.Param, "frames", sched.Len(),
		"wave", desc.Wave, "seed", cfg.Seed, "out", enc.Path())
	start := time.Now()

	if useTUI {
		err = sweepWithTUI(ctx, cancel, exp, sched, cfg, sinks)
	} else {
		every := max(1, cfg.Sweep.FPS)
		progress := experiment.SinkFunc(func(f *experiment.Frame) error {
			if f.Index%every == 0 || f.Index == sched.Len()-1 {
				v, _ := f.Params.Get(sched.Param)
				fmt.Println(viz.ProgressLine(f.Index, sched.Len(), cfg.Sweep.FPS, sched.Param, v))
			}
			return nil
		})
		err = exp.Sweep(ctx, sched, experiment.Tee(append(sinks, progress)...))
	}

	closeErr := enc.Close()
	if err == nil {
		err = closeErr
	}
	finishRun(rec, err)
	if err != nil {
		if errors.Is(err, dynamo.ErrCanceled) {
			logger.Warn("sweep interrupted, partial output kept", "path", enc.Path())
		}
		return err
	}

	fmt.Printf("saved %s (%d frames in %v)\n", enc.Path(), sched.Len(), time.Since(start).Round(time.Second))
	return nil
}

func sweepWithTUI(ctx context.Context, cancel context.CancelFunc, exp *experiment.Experiment, sched sweep.Schedule, cfg *config.Config, sinks []experiment.Sink) error {
	title := fmt.Sprintf("%s sweep of %s", cfg.Kind, sched.Param)
	p := tea.NewProgram(viz.NewProgress(title, sched.Param, sched.Len(), cancel))

	progress := experiment.SinkFunc(func(f *experiment.Frame) error {
		v, _ := f.Params.Get(sched.Param)
		p.Send(viz.FrameMsg{Index: f.Index, Value: v, Coverage: f.Stats.Coverage, Elapsed: f.Elapsed})
		return nil
	})

	done := make(chan error, 1)
	go func() {
		err := exp.Sweep(ctx, sched, experiment.Tee(append(sinks, progress)...))
		p.Send(viz.DoneMsg{Err: err})
		done <- err
	}()

	// keep log lines off the alt screen
	prev := logger.GetLevel()
	logger.SetLevel(log.ErrorLevel)
	_, runErr := p.Run()
	logger.SetLevel(prev)
	if runErr != nil {
		cancel()
	}
	err := <-done
	if err == nil {
		err = runErr
	}
	return err
}

func runPreview(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	cm, err := colormap.Get(cfg.Output.Colormap)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	frame, err := exp.Render(context.Background())
	if err != nil {
		return err
	}

	fmt.Println(viz.Title.Render(fmt.Sprintf("%s %s", cfg.Kind, strings.Join(viz.ParamLines(mustKind(cfg), frame.Params, ""), " "))))
	if braille {
		fmt.Print(viz.Braille(frame.Field, cols, rows, 0.15).String())
	} else {
		fmt.Print(viz.HalfBlocks(frame.Field, cm, cols, rows))
	}
	fmt.Println(viz.Subtle.Render(fmt.Sprintf("coverage %.1f%%  max count %d  %v",
		frame.Stats.Coverage*100, frame.Stats.MaxCount, frame.Elapsed.Round(time.Millisecond))))
	return nil
}

func buildSchedule(cmd *cobra.Command, args []string) (*config.Config, sweep.Schedule, error) {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return nil, sweep.Schedule{}, err
	}
	desc, err := cfg.Descriptor()
	if err != nil {
		return nil, sweep.Schedule{}, err
	}
	sched, err := sweep.Build(desc)
	if err != nil {
		return nil, sweep.Schedule{}, err
	}
	return cfg, sched, nil
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, sched, err := buildSchedule(cmd, args)
	if err != nil {
		return err
	}
	values := sched.Values()

	fmt.Printf("map: %s\n", cfg.Kind)
	fmt.Printf("frames: %d (%.1fs at %d fps)\n", sched.Len(), float64(sched.Len())/float64(cfg.Sweep.FPS), cfg.Sweep.FPS)
	fmt.Printf("%s: %.4f .. %.4f\n\n", sched.Param, minOf(values), maxOf(values))

	graph := asciigraph.Plot(values,
		asciigraph.Height(12),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s (%s wave) vs frame", sched.Param, cfg.Sweep.Wave)),
	)
	fmt.Println(graph)
	return nil
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, sched, err := buildSchedule(cmd, args)
	if err != nil {
		return err
	}

	lc := analysis.DefaultLyapunov()
	lc.Steps = lyapSteps

	start := time.Now()
	exps, err := analysis.LyapunovSweep(sched, lc, cfg.Workers)
	if err != nil {
		return err
	}

	chaotic := 0
	plot := make([]float64, 0, len(exps))
	for _, l := range exps {
		if analysis.Chaotic(l) {
			chaotic++
		}
		if !math.IsNaN(l) && !math.IsInf(l, 0) {
			plot = append(plot, l)
		}
	}

	fmt.Printf("map: %s\n", cfg.Kind)
	fmt.Printf("frames: %d (%v)\n", len(exps), time.Since(start).Round(time.Millisecond))
	fmt.Printf("chaotic frames: %d/%d\n", chaotic, len(exps))
	if len(plot) > 0 {
		fmt.Printf("lyapunov: %.4f .. %.4f\n\n", minOf(plot), maxOf(plot))
		fmt.Println(asciigraph.Plot(plot,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption("largest lyapunov exponent vs frame"),
		))
	}
	return nil
}

func benchFrames(cmd *cobra.Command, args []string) error {
	if !cmd.Flags().Changed("frames") {
		frames = 5
	}
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	exp, err := newExperiment(cfg)
	if err != nil {
		return err
	}

	fmt.Printf("benchmarking %s: %d frames\n", cfg.Kind, frames)
	ctx := context.Background()
	var total time.Duration
	var pts int
	for i := 0; i < frames; i++ {
		f, err := exp.Frame(ctx, i, cfg.MapParams())
		if err != nil {
			return err
		}
		total += f.Elapsed
		pts += f.Stats.Points
	}

	fmt.Printf("total: %v\n", total.Round(time.Millisecond))
	fmt.Printf("per frame: %v\n", (total / time.Duration(frames)).Round(time.Microsecond))
	fmt.Printf("points/sec: %.0f\n", float64(pts)/total.Seconds())
	return nil
}

func showCatalog(cmd *cobra.Command, args []string) error {
	reg := experiment.NewRegistry()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "maps\t%s\n", strings.Join(reg.ListMaps(), ", "))
	fmt.Fprintf(w, "waves\t%s\n", strings.Join(reg.ListWaves(), ", "))
	fmt.Fprintf(w, "ceilings\t%s\n", strings.Join(reg.ListCeilings(), ", "))
	fmt.Fprintf(w, "colormaps\t%s\n", strings.Join(colormap.Names(), ", "))
	fmt.Fprintf(w, "formats\t%s\n", strings.Join(config.Formats, ", "))
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tFRAMES\tELAPSED\tSTATUS\tOUTPUT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.1fs\t%s\t%s\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Delivered,
			run.Elapsed,
			run.Status,
			filepath.Base(run.Output),
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	stats, err := st.LoadStats(runID)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("map: %s %v\n", meta.Kind, meta.Params)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("status: %s\n", meta.Status)
	if meta.Error != "" {
		fmt.Printf("error: %s\n", meta.Error)
	}
	fmt.Printf("frames: %d\n\n", len(stats))

	if len(stats) < 2 {
		for _, s := range stats {
			fmt.Printf("coverage %.2f%%  max count %d  ceiling %.3f  %.1fms\n", s.Coverage*100, s.MaxCount, s.Ceiling, s.ElapsedMS)
		}
		return nil
	}

	coverage := make([]float64, len(stats))
	ceiling := make([]float64, len(stats))
	elapsed := make([]float64, len(stats))
	for i, s := range stats {
		coverage[i] = s.Coverage * 100
		ceiling[i] = s.Ceiling
		elapsed[i] = s.ElapsedMS
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{coverage, "coverage % vs frame"},
		{ceiling, "intensity ceiling vs frame"},
		{elapsed, "frame time (ms) vs frame"},
	} {
		fmt.Println(asciigraph.Plot(series.data,
			asciigraph.Height(8),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		))
		fmt.Println()
	}
	return nil
}

func minOf(xs []float64) float64 {
	m := math.Inf(1)
	for _, x := range xs {
		m = math.Min(m, x)
	}
	return m
}

func maxOf(xs []float64) float64 {
	m := math.Inf(-1)
	for _, x := range xs {
		m = math.Max(m, x)
	}
	return m
}
