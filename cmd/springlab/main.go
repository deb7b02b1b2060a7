package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/springlab/internal/analysis"
	"github.com/san-kum/springlab/internal/automation"
	"github.com/san-kum/springlab/internal/config"
	"github.com/san-kum/springlab/internal/export"
	"github.com/san-kum/springlab/internal/logging"
	"github.com/san-kum/springlab/internal/metrics"
	"github.com/san-kum/springlab/internal/model"
	"github.com/san-kum/springlab/internal/scene"
	"github.com/san-kum/springlab/internal/sim"
	"github.com/san-kum/springlab/internal/snapshot"
	"github.com/san-kum/springlab/internal/storage"
	"github.com/san-kum/springlab/internal/viz"
	"github.com/spf13/cobra"
)

var (
	dataDir    string
	debug      bool
	configFile string
	screen     string
	preset     string

	dt       float64
	duration float64
	body     string
	gravity  float64
	speed    string
	allRuns  bool

	after      float64
	out        string
	svgWidth   int
	svgHeight  int
	plotWidth  int
	plotHeight int
	column     string

	saveRun bool

	sweepParam string
	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "springlab",
		Short:         "masses and springs lab",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runTUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", ".springlab", "data directory")
	pf.BoolVar(&debug, "debug", false, "log spring constant and length changes")
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&screen, "screen", config.DefaultScreen, "screen: intro, vectors, energy or lab")
	pf.StringVar(&preset, "preset", "default", "preset for the screen")
	pf.StringVar(&body, "body", config.DefaultBody, "gravity body")
	pf.Float64Var(&gravity, "gravity", 9.8, "custom gravity (m/s²)")
	pf.StringVar(&speed, "speed", config.DefaultSpeed, "sim speed: normal or slow")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "record a headless run",
		RunE:  runSimulation,
	}
	runCmd.Flags().Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	runCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration")
	runCmd.Flags().BoolVar(&allRuns, "all", false, "run every preset of the screen concurrently")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "plot only this column")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	snapshotCmd := &cobra.Command{
		Use:   "snapshot",
		Short: "print the scene state as JSON",
		RunE:  printSnapshot,
	}
	snapshotCmd.Flags().Float64Var(&after, "after", 0, "simulate this many seconds first")

	svgCmd := &cobra.Command{
		Use:   "svg",
		Short: "draw the scene as SVG",
		RunE:  writeSVG,
	}
	svgCmd.Flags().Float64Var(&after, "after", 0, "simulate this many seconds first")
	svgCmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	svgCmd.Flags().IntVar(&svgWidth, "width", 480, "width in pixels")
	svgCmd.Flags().IntVar(&svgHeight, "height", 600, "height in pixels")

	plotSVGCmd := &cobra.Command{
		Use:   "plot-svg [run_id]",
		Short: "plot one recorded column as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  plotSVG,
	}
	plotSVGCmd.Flags().StringVar(&column, "column", "", "column to plot (required)")
	plotSVGCmd.Flags().StringVar(&out, "out", "", "output file (default stdout)")
	plotSVGCmd.Flags().IntVar(&plotWidth, "width", 640, "width in pixels")
	plotSVGCmd.Flags().IntVar(&plotHeight, "height", 240, "height in pixels")
	_ = plotSVGCmd.MarkFlagRequired("column")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [run_id]",
		Short: "estimate oscillation frequency of a recorded column",
		Args:  cobra.ExactArgs(1),
		RunE:  spectrumRun,
	}
	spectrumCmd.Flags().StringVar(&column, "column", "", "column to analyse (required)")
	_ = spectrumCmd.MarkFlagRequired("column")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "play a scripted scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().BoolVar(&saveRun, "save", false, "store the recording")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "sweep a parameter of the first hanging mass",
		RunE:  runSweep,
	}
	sweepCmd.Flags().StringVar(&sweepParam, "param", "constant", "constant, mass, damping or gravity")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 5, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 40, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")
	sweepCmd.Flags().Float64Var(&duration, "time", config.DefaultDuration, "duration per value")

	presetsCmd := &cobra.Command{
		Use:   "presets [screen]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			screens := []string{}
			if len(args) > 0 {
				screens = append(screens, args[0])
			} else {
				for _, s := range model.Screens() {
					screens = append(screens, s.String())
				}
			}
			for _, s := range screens {
				presets := config.ListPresets(s)
				if len(presets) == 0 {
					fmt.Printf("no presets for screen: %s\n", s)
					continue
				}
				fmt.Printf("presets for %s:\n", s)
				for _, p := range presets {
					fmt.Printf("  %s\n", p)
				}
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, listCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, svgCmd, plotSVGCmd, spectrumCmd, scenarioCmd, sweepCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the preset, then the config file, then any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command, screenName, presetName string) (*config.Config, error) {
	cfg := config.GetPreset(screenName, presetName)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s/%s (available: %v)", screenName, presetName, config.ListPresets(screenName))
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("body") {
		cfg.Body = body
	}
	if flags.Changed("gravity") {
		cfg.Gravity = gravity
		if !flags.Changed("body") {
			cfg.Body = model.BodyCustom.String()
		}
	}
	if flags.Changed("speed") {
		cfg.Speed = speed
	}
	if f := flags.Lookup("dt"); f != nil && f.Changed {
		cfg.Dt = dt
	}
	if f := flags.Lookup("time"); f != nil && f.Changed {
		cfg.Duration = duration
	}
	if debug {
		cfg.Debug = true
	}

	return cfg, cfg.Validate()
}

func newLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stderr, cfg.Debug)
}

func buildScene(cmd *cobra.Command, screenName, presetName string) (*scene.Scene, *config.Config, *slog.Logger, error) {
	cfg, err := loadConfig(cmd, screenName, presetName)
	if err != nil {
		return nil, nil, nil, err
	}
	logger := newLogger(cfg)
	sc, err := scene.Build(cfg, logger)
	if err != nil {
		return nil, nil, nil, err
	}
	return sc, cfg, logger, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, screen, preset)
	if err != nil {
		return err
	}

	// stderr belongs to the terminal UI, so debug output goes to a file
	logger := logging.Discard()
	if cfg.Debug {
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return err
		}
		f, err := os.OpenFile(filepath.Join(dataDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logger = logging.New(f, true)
	}

	sc, err := scene.Build(cfg, logger)
	if err != nil {
		return err
	}
	return viz.Run(sc, fmt.Sprintf("%s · %s", cfg.Screen, preset), logger)
}

func addMetrics(s *sim.Simulator) {
	s.AddMetric(metrics.NewEnergyDrift())
	s.AddMetric(metrics.NewMaxStretch())
	s.AddMetric(metrics.NewStability(1e-3))
	for _, m := range s.Scene().Masses {
		if m.Attached() {
			s.AddMetric(metrics.NewPeriod(m))
			break
		}
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	names := []string{preset}
	if allRuns {
		names = config.ListPresets(screen)
		if len(names) == 0 {
			return fmt.Errorf("no presets for screen: %s", screen)
		}
	}

	sims := make([]*sim.Simulator, 0, len(names))
	runs := make([]storage.Run, 0, len(names))
	var cfg *config.Config
	for _, name := range names {
		sc, c, logger, err := buildScene(cmd, screen, name)
		if err != nil {
			return err
		}
		cfg = c

		state, err := snapshot.EncodeScene(sc)
		if err != nil {
			return err
		}
		s := sim.New(sc, logger)
		addMetrics(s)
		sims = append(sims, s)
		runs = append(runs, storage.Run{Screen: c.Screen, Preset: name, Dt: c.Dt, Duration: c.Duration, Scene: state})
	}

	fmt.Printf("running %s (%s)...\n", screen, strings.Join(names, ", "))
	start := time.Now()

	results, err := sim.RunAll(context.Background(), sims, sim.Config{Dt: cfg.Dt, Duration: cfg.Duration})
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	for i, result := range results {
		runID, err := st.Save(runs[i], result)
		if err != nil {
			return err
		}
		fmt.Printf("\nrun id: %s\n", runID)
		fmt.Printf("steps: %d\n", result.StepsTaken)
		fmt.Printf("energy drift: %.3g\n", result.EnergyDrift)
		fmt.Println("metrics:")
		for name, val := range result.Metrics {
			fmt.Printf("  %s: %.6f\n", name, val)
		}
	}

	return nil
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
	fmt.Fprintln(w, "ID\tSCREEN\tPRESET\tTIME\tDURATION\tDT\tBODY")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2fs\t%.4fs\t%s\n",
			run.ID,
			run.Screen,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Scene.Body,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	states, _, err := st.LoadStates(runID)
	if err != nil {
		return err
	}

	if len(states) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("screen: %s/%s\n", meta.Screen, meta.Preset)
	fmt.Printf("samples: %d\n\n", len(states))

	columns := meta.Columns
	if column != "" {
		columns = []string{column}
	}

	for _, name := range columns {
		data, err := storage.Column(meta, states, name)
		if err != nil {
			return err
		}
		if flat(data) {
			continue
		}

		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	return nil
}

// flat series (resting masses, idle springs) are not worth a chart
func flat(data []float64) bool {
	for _, v := range data {
		if v != data[0] {
			return false
		}
	}
	return true
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func loadResult(runID string) (*storage.RunMetadata, *sim.Result, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	states, times, err := st.LoadStates(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &sim.Result{
		Columns:     meta.Columns,
		States:      make([]sim.State, len(states)),
		Times:       times,
		Metrics:     meta.Metrics,
		StepsTaken:  meta.Steps,
		EnergyDrift: meta.EnergyDrift,
	}
	for i, s := range states {
		result.States[i] = s
	}
	return meta, result, nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	_, result, err := loadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.States) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, result)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	meta, result, err := loadResult(args[0])
	if err != nil {
		return err
	}
	run := storage.Run{Screen: meta.Screen, Preset: meta.Preset, Dt: meta.Dt, Duration: meta.Duration}
	return storage.ExportJSON(os.Stdout, run, result)
}

// advance plays the scene headlessly for after seconds.
func advance(sc *scene.Scene, cfg *config.Config, logger *slog.Logger) error {
	if after <= 0 {
		return nil
	}
	_, err := sim.New(sc, logger).Run(context.Background(), sim.Config{Dt: cfg.Dt, Duration: after})
	return err
}

func printSnapshot(cmd *cobra.Command, args []string) error {
	sc, cfg, logger, err := buildScene(cmd, screen, preset)
	if err != nil {
		return err
	}
	if err := advance(sc, cfg, logger); err != nil {
		return err
	}

	state, err := snapshot.EncodeScene(sc)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func output() (io.WriteCloser, error) {
	if out == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(out)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func writeSVG(cmd *cobra.Command, args []string) error {
	sc, cfg, logger, err := buildScene(cmd, screen, preset)
	if err != nil {
		return err
	}
	if err := advance(sc, cfg, logger); err != nil {
		return err
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()

	frame := scene.NewScreen(sc, export.NewSVGRenderer(svgWidth, svgHeight)).Frame()
	_, err = io.WriteString(w, frame+"\n")
	return err
}

func plotSVG(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, times, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	data, err := storage.Column(meta, states, column)
	if err != nil {
		return err
	}

	svg := export.TrajectoryToSVG(export.Series(times, data), plotWidth, plotHeight, "#00ff88")
	if svg == "" {
		return fmt.Errorf("not enough samples to plot")
	}

	w, err := output()
	if err != nil {
		return err
	}
	defer w.Close()
	_, err = io.WriteString(w, svg+"\n")
	return err
}

func spectrumRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	states, _, err := st.LoadStates(args[0])
	if err != nil {
		return err
	}
	data, err := storage.Column(meta, states, column)
	if err != nil {
		return err
	}

	ps, err := analysis.PowerSpectrum(data, meta.Dt)
	if err != nil {
		return err
	}
	f, err := ps.Peak()
	if err != nil {
		return err
	}

	fmt.Println(asciigraph.Plot(ps.Amplitudes,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s spectrum, 0 to %.1f Hz", column, ps.Freqs[len(ps.Freqs)-1])),
	))
	fmt.Printf("\ndominant frequency: %.4f Hz\n", f)
	fmt.Printf("period: %.4f s\n", 1/f)
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scn, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	// the scenario names its own preset; global overrides still apply
	cfg, err := loadConfig(cmd, scn.Screen, scn.Preset)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)
	sc, err := scene.Build(cfg, logger)
	if err != nil {
		return err
	}

	state, err := snapshot.EncodeScene(sc)
	if err != nil {
		return err
	}

	fmt.Printf("playing %s (%d actions)\n", scn.Name, len(scn.Actions))
	runner := automation.NewRunner(sc, logger)
	addMetrics(runner.Simulator())
	result, err := runner.Run(context.Background(), scn)
	if err != nil {
		return err
	}
	fmt.Printf("recorded %d samples, t=%.2fs\n", len(result.States), sc.Time.Get())

	if !saveRun {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.Run{Screen: scn.Screen, Preset: scn.Preset, Dt: scn.Dt, Duration: sc.Time.Get(), Scene: state}, result)
	if err != nil {
		return err
	}
	fmt.Printf("run id: %s\n", runID)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, screen, preset)
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	results, err := automation.RunSweep(context.Background(), &automation.ParameterSweep{
		Config:   cfg,
		Param:    sweepParam,
		Min:      sweepMin,
		Max:      sweepMax,
		NumSteps: sweepSteps,
		Duration: cfg.Duration,
		Dt:       cfg.Dt,
	}, logger)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tPERIOD\tMAX STRETCH\tSTABILITY\n", strings.ToUpper(sweepParam))
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4fs\t%.4fm\t%.3f\n", r.ParamValue, r.Period, r.MaxStretch, r.Stability)
	}
	return w.Flush()
}
