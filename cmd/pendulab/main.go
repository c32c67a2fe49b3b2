package main

import (
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"os/signal"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pendulab/internal/analysis"
	"github.com/san-kum/pendulab/internal/automation"
	"github.com/san-kum/pendulab/internal/config"
	"github.com/san-kum/pendulab/internal/experiment"
	"github.com/san-kum/pendulab/internal/gui"
	"github.com/san-kum/pendulab/internal/sim"
	"github.com/san-kum/pendulab/internal/store"
	"github.com/san-kum/pendulab/internal/viz"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	configFile string
	preset     string
	integrator string
	angle      float64
	damping    float64
	gravity    float64
	frameRate  int

	runFrames     int
	analyzeFrames int
	compareFrames int
	sweepFrames   int

	scenarioFile string
	csvFile      string
	jsonFile     string
	svgFile      string
	plot         bool

	sweepMin   float64
	sweepMax   float64
	sweepSteps int
)

// main registers the commands and runs the desktop window when no subcommand
// is given. It exits with status 1 if a command returns an error.
func main() {
	rootCmd := &cobra.Command{
		Use:           "pendulab",
		Short:         "interactive rail pendulum",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGUI,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&preset, "preset", config.DefaultPreset, "preset configuration ("+strings.Join(config.ListPresets(), ", ")+")")
	pf.StringVar(&integrator, "integrator", config.DefaultIntegrator, "integrator")
	pf.Float64Var(&angle, "angle", 45, "initial angle in degrees")
	pf.Float64Var(&damping, "damping", config.DefaultDamping, "per-step damping multiplier")
	pf.Float64Var(&gravity, "gravity", config.DefaultGravity, "gravitational acceleration (m/s²)")
	pf.IntVar(&frameRate, "fps", config.DefaultFrameRate, "frame rate")

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "open the pendulum in a desktop window",
		Args:  cobra.NoArgs,
		RunE:  runGUI,
	}

	tuiCmd := &cobra.Command{
		Use:   "tui",
		Short: "run the pendulum in the terminal (mouse driven)",
		Args:  cobra.NoArgs,
		RunE:  runTUI,
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run headlessly, optionally replaying a pointer scenario",
		Args:  cobra.NoArgs,
		RunE:  runHeadless,
	}
	runCmd.Flags().IntVar(&runFrames, "frames", 600, "number of frames")
	runCmd.Flags().StringVar(&scenarioFile, "scenario", "", "pointer scenario (yaml)")
	runCmd.Flags().StringVar(&csvFile, "csv", "", "write the trace as CSV")
	runCmd.Flags().StringVar(&jsonFile, "json", "", "write the trace as JSON (- for stdout)")
	runCmd.Flags().StringVar(&svgFile, "svg", "", "write the phase portrait as SVG")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot theta and energy")

	analyzeCmd := &cobra.Command{
		Use:   "analyze",
		Short: "estimate the swing period of a free run",
		Args:  cobra.NoArgs,
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().IntVar(&analyzeFrames, "frames", 2048, "number of frames")

	compareCmd := &cobra.Command{
		Use:   "compare [integrator1] [integrator2] ...",
		Short: "compare integrators on the same free swing",
		RunE:  compareIntegrators,
	}
	compareCmd.Flags().IntVar(&compareFrames, "frames", 3600, "number of frames")

	sweepCmd := &cobra.Command{
		Use:   "sweep [mass|length|gravity]",
		Short: "sweep one pendulum parameter across free swings",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 20, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of values")
	sweepCmd.Flags().IntVar(&sweepFrames, "frames", 600, "frames per run")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "inspect or write configuration files",
	}
	configCmd.AddCommand(
		&cobra.Command{
			Use:   "dump",
			Short: "print the resolved configuration as yaml",
			Args:  cobra.NoArgs,
			RunE:  dumpConfig,
		},
		&cobra.Command{
			Use:   "init [path]",
			Short: "write the resolved configuration to a file",
			Args:  cobra.MaximumNArgs(1),
			RunE:  initConfig,
		},
	)

	rootCmd.AddCommand(guiCmd, tuiCmd, runCmd, analyzeCmd, compareCmd, sweepCmd, presetsCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// resolveConfig layers preset, config file and the flags the user set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		if flags.Changed("preset") && loaded.Preset != preset {
			return nil, fmt.Errorf("--preset %s conflicts with preset %q in %s", preset, loaded.Preset, configFile)
		}
		cfg = loaded
	}

	applyFlags(cmd)(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyFlags returns an override that copies every explicitly set flag into
// a config.
func applyFlags(cmd *cobra.Command) func(*config.Config) {
	flags := cmd.Flags()
	return func(cfg *config.Config) {
		if flags.Changed("integrator") {
			cfg.Integrator = integrator
		}
		if flags.Changed("angle") {
			cfg.Pendulum.InitialAngleDeg = angle
		}
		if flags.Changed("damping") {
			cfg.Pendulum.Damping = damping
		}
		if flags.Changed("gravity") {
			cfg.Pendulum.Gravity = gravity
		}
		if flags.Changed("fps") {
			cfg.Window.FrameRate = frameRate
		}
	}
}

// newSimulator builds an interactive session from the resolved config.
func newSimulator(cmd *cobra.Command) (*sim.Simulator, *config.Config, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	integ, err := experiment.NewRegistry().GetIntegrator(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}
	return sim.New(cfg.SimParams(), integ), cfg, nil
}

func runGUI(cmd *cobra.Command, args []string) error {
	s, cfg, err := newSimulator(cmd)
	if err != nil {
		return err
	}
	return gui.Run(s, cfg.Window.Title)
}

func runTUI(cmd *cobra.Command, args []string) error {
	s, cfg, err := newSimulator(cmd)
	if err != nil {
		return err
	}
	return viz.Run(s, cfg.Window.Title)
}

func runHeadless(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	registry := experiment.NewRegistry()
	start := time.Now()

	var result *experiment.Result
	if scenarioFile != "" {
		sc, err := automation.LoadScenario(scenarioFile)
		if err != nil {
			return err
		}
		explicit := configFile != "" || cmd.Flags().Changed("preset")
		if sc.Preset != "" && sc.Preset != cfg.Preset && explicit {
			return fmt.Errorf("scenario %s wants preset %s but %s was requested", sc.Name, sc.Preset, cfg.Preset)
		}
		if cfg, err = sc.Config(cfg, applyFlags(cmd)); err != nil {
			return err
		}
		fmt.Printf("replaying scenario %s (%d frames, preset %s)...\n", sc.Name, sc.Frames(), cfg.Preset)
		result, err = automation.RunScenario(ctx, sc, cfg, registry)
		if err != nil {
			return err
		}
	} else {
		exp, err := experiment.New(experiment.Config{
			Params:     cfg.SimParams(),
			Integrator: cfg.Integrator,
			Frames:     runFrames,
		}, registry)
		if err != nil {
			return err
		}
		fmt.Printf("running %d frames (preset %s, %s)...\n", runFrames, cfg.Preset, cfg.Integrator)
		result, err = exp.Run(ctx, nil)
		if err != nil {
			return err
		}
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	printSummary(result)

	if plot && len(result.Frames) > 1 {
		fmt.Println(asciigraph.Plot(result.Thetas(), asciigraph.Height(10), asciigraph.Width(80), asciigraph.Caption("theta (rad)")))
		fmt.Println()
		fmt.Println(asciigraph.Plot(result.Energies(), asciigraph.Height(6), asciigraph.Width(80), asciigraph.Caption("energy (J)")))
	}

	if csvFile != "" {
		if err := writeTo(csvFile, func(w io.Writer) error { return store.WriteCSV(w, result.Frames) }); err != nil {
			return err
		}
	}
	if jsonFile != "" {
		data := store.NewExport(cfg.Preset, result)
		if err := writeTo(jsonFile, func(w io.Writer) error { return store.WriteJSON(w, data) }); err != nil {
			return err
		}
	}
	if svgFile != "" {
		portrait := analysis.NewPhasePortrait(result.Frames)
		if err := writeTo(svgFile, func(w io.Writer) error { return store.WritePhaseSVG(w, portrait, 600, 400, "#00ff88") }); err != nil {
			return err
		}
	}

	return nil
}

func printSummary(result *experiment.Result) {
	last := result.Frames[len(result.Frames)-1]

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "frames\t%d\n", len(result.Frames))
	fmt.Fprintf(w, "time\t%.3f s\n", last.Time)
	fmt.Fprintf(w, "final theta\t%.6f rad\n", last.Theta)
	fmt.Fprintf(w, "final omega\t%.6f rad/s\n", last.Omega)
	fmt.Fprintf(w, "final mode\t%s\n", last.Mode)

	names := make([]string, 0, len(result.Metrics))
	for name := range result.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "%s\t%.6g\n", name, result.Metrics[name])
	}
	w.Flush()
}

// writeTo writes through fn to path, or to stdout when path is "-".
func writeTo(path string, fn func(io.Writer) error) error {
	if path == "-" {
		return fn(os.Stdout)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	exp, err := experiment.New(experiment.Config{
		Params:     cfg.SimParams(),
		Integrator: cfg.Integrator,
		Frames:     analyzeFrames,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}
	result, err := exp.Run(context.Background(), nil)
	if err != nil {
		return err
	}

	thetas := result.Thetas()
	ps := analysis.PowerSpectrum(thetas[:min(len(thetas), 1<<int(math.Log2(float64(len(thetas)))))])
	if n := len(ps) / 8; n > 1 {
		fmt.Println(asciigraph.Plot(ps[:n], asciigraph.Height(12), asciigraph.Width(80), asciigraph.Caption("power spectrum (theta)")))
		fmt.Println()
	}

	fmt.Println(analysis.NewPhasePortrait(result.Frames).ToASCII(60, 16))

	length := cfg.Pendulum.LengthPx * cfg.Pendulum.LengthScale
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "preset\t%s\n", cfg.Preset)
	fmt.Fprintf(w, "length\t%.4f m\n", length)
	fmt.Fprintf(w, "initial angle\t%.1f°\n", cfg.Pendulum.InitialAngleDeg)
	fmt.Fprintf(w, "spectral period\t%.4f s\n", analysis.DominantPeriod(thetas, result.Dt))
	fmt.Fprintf(w, "crossing period\t%.4f s\n", analysis.CrossingPeriod(result.Frames))
	fmt.Fprintf(w, "small-angle period\t%.4f s\n", analysis.SmallAnglePeriod(length, cfg.Pendulum.Gravity))
	w.Flush()

	return nil
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	registry := experiment.NewRegistry()
	names := args
	if len(names) == 0 {
		names = registry.ListIntegrators()
	}

	fmt.Printf("comparing integrators on preset %s (%d frames, dt=%.4f)\n\n", cfg.Preset, compareFrames, cfg.SimParams().Dt())

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "integrator\tfinal_theta\tenergy_drift\tpeak_omega\ttime_ms")

	for _, name := range names {
		exp, err := experiment.New(experiment.Config{
			Params:     cfg.SimParams(),
			Integrator: name,
			Frames:     compareFrames,
		}, registry)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		start := time.Now()
		result, err := exp.Run(context.Background(), nil)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Fprintf(w, "%s\terror: %v\n", name, err)
			continue
		}

		final := result.Frames[len(result.Frames)-1].Theta
		fmt.Fprintf(w, "%s\t%.6f\t%.2e\t%.4f\t%.2f\n", name, final,
			result.Metrics["energy_drift"], result.Metrics["peak_omega"], float64(elapsed.Microseconds())/1000)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	sweep := &automation.ParameterSweep{
		ParamName: args[0],
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepSteps,
		Frames:    sweepFrames,
	}
	results, err := automation.RunSweep(context.Background(), sweep, cfg, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tfinal_theta\tpeak_omega\tmin_energy\tmax_energy\n", args[0])
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.6f\t%.4f\t%.4e\t%.4e\n", r.ParamValue, r.FinalTheta, r.PeakOmega, r.MinEnergy, r.MaxEnergy)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "preset\twindow\tangle\tcoupling\tcontrols")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		var controls []string
		if p.Controls.ResetButton {
			controls = append(controls, "reset")
		}
		if p.Controls.DampingSlider {
			controls = append(controls, fmt.Sprintf("damping[%g,%g]", p.Controls.DampingMin, p.Controls.DampingMax))
		}
		if len(controls) == 0 {
			controls = append(controls, "-")
		}
		fmt.Fprintf(w, "%s\t%dx%d\t%g°\t%v\t%s\n", name, p.Window.Width, p.Window.Height,
			p.Pendulum.InitialAngleDeg, p.Pendulum.PivotCoupling, strings.Join(controls, " "))
	}
	return w.Flush()
}

func dumpConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(out)
	return err
}

func initConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	path := "pendulab.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
