package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap/zapcore"

	"github.com/san-kum/climsim/internal/climate"
	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/logger"
	"github.com/san-kum/climsim/internal/tui"
)

var (
	dataDir    string
	configFile string
	logLevel   string

	preset      string
	dt          float64
	steps       int
	integrator  string
	temperature float64
	co2         float64
	albedo      float64
	solar       float64
	forest      float64
	runName     string

	httpAddr string
	theme    string

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepPoints int
	sweepSteps  int

	plotColumns []string
	plotWidth   int
	plotHeight  int

	svgColumn string
	svgGlobe  bool
	svgOutput string
	svgWidth  int
	svgHeight int
)

// main registers the commands and runs the live terminal view when no
// subcommand is given.
func main() {
	rootCmd := &cobra.Command{
		Use:               "climsim",
		Short:             "interactive energy balance climate simulator",
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging,
		RunE:              runLive,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".climsim", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	addModelFlags(rootCmd)

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the simulation in the terminal",
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	addThemeFlag(rootCmd)
	addThemeFlag(liveCmd)

	guiCmd := &cobra.Command{
		Use:   "gui",
		Short: "run the simulation in a desktop window",
		RunE:  runGUI,
	}
	addModelFlags(guiCmd)

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the simulation headless behind an HTTP API",
		RunE:  runServe,
	}
	addModelFlags(serveCmd)
	serveCmd.Flags().StringVar(&httpAddr, "addr", config.DefaultHTTPAddr, "listen address")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a batch simulation and store it",
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	runCmd.Flags().IntVar(&steps, "steps", 1000, "number of steps")
	runCmd.Flags().StringVar(&runName, "name", "run", "run name prefix")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted scenario and store it",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	addModelFlags(scenarioCmd)

	equilibriumCmd := &cobra.Command{
		Use:   "equilibrium",
		Short: "print the equilibrium temperature, or sweep one parameter",
		RunE:  runEquilibrium,
	}
	addModelFlags(equilibriumCmd)
	equilibriumCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to sweep (co2, albedo, solar_intensity)")
	equilibriumCmd.Flags().Float64Var(&sweepMin, "min", 280, "sweep start")
	equilibriumCmd.Flags().Float64Var(&sweepMax, "max", 1120, "sweep end")
	equilibriumCmd.Flags().IntVar(&sweepPoints, "points", 9, "sweep points")
	equilibriumCmd.Flags().IntVar(&sweepSteps, "steps", 0, "steps simulated per point (0 for analytic only)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringSliceVar(&plotColumns, "columns", []string{"temperature"}, "columns to plot")
	plotCmd.Flags().IntVar(&plotWidth, "width", 80, "plot width")
	plotCmd.Flags().IntVar(&plotHeight, "height", 12, "plot height")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportSVGCmd := &cobra.Command{
		Use:   "export-svg [run_id]",
		Short: "export a run column or the final globe to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportSVG,
	}
	exportSVGCmd.Flags().StringVar(&svgColumn, "column", "temperature", "column to draw")
	exportSVGCmd.Flags().BoolVar(&svgGlobe, "globe", false, "draw the globe at the run's final state")
	exportSVGCmd.Flags().IntVar(&svgWidth, "width", 800, "image width")
	exportSVGCmd.Flags().IntVar(&svgHeight, "height", 400, "image height")
	exportSVGCmd.Flags().StringVarP(&svgOutput, "output", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list parameter presets",
		RunE:  listPresets,
	}

	rootCmd.AddCommand(liveCmd, guiCmd, serveCmd, runCmd, scenarioCmd, equilibriumCmd,
		listCmd, plotCmd, exportCSVCmd, exportJSONCmd, exportSVGCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	d := config.DefaultConfig()
	cmd.Flags().StringVar(&preset, "preset", "", "start from a preset")
	cmd.Flags().Float64Var(&dt, "dt", d.Dt, "timestep")
	cmd.Flags().StringVar(&integrator, "integrator", d.Integrator, "integrator (euler, rk4)")
	cmd.Flags().Float64Var(&temperature, "temperature", d.InitialTemperature, "initial temperature (°C)")
	cmd.Flags().Float64Var(&co2, "co2", d.Params.CO2, "CO2 concentration (ppm)")
	cmd.Flags().Float64Var(&albedo, "albedo", d.Params.Albedo, "planetary albedo")
	cmd.Flags().Float64Var(&solar, "solar", d.Params.SolarIntensity, "solar intensity (W/m²)")
	cmd.Flags().Float64Var(&forest, "forest", d.Params.ForestCover, "forest cover (%)")
}

func addThemeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, fmt.Sprintf("color theme %v", tui.ThemeNames()))
}

func setupLogging(cmd *cobra.Command, _ []string) error {
	level, ok := logger.ParseLogLevel(logLevel)
	if !ok {
		return fmt.Errorf("unknown log level %q", logLevel)
	}
	logger.SetLevel(level)
	// stdout carries exports, so logs go to stderr.
	logger.SetLogger(logger.New(nil, zapcore.Lock(os.Stderr)))
	return nil
}

// loadConfig reads --config (or the defaults), applies --preset, then any
// flag the user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(configFile)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg.ApplyPreset(p)
	}
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("integrator") {
		cfg.Integrator = integrator
	}
	if flags.Changed("temperature") {
		cfg.InitialTemperature = temperature
	}

	var p climate.Partial
	if flags.Changed("co2") {
		p.CO2 = climate.Ptr(co2)
	}
	if flags.Changed("albedo") {
		p.Albedo = climate.Ptr(albedo)
	}
	if flags.Changed("solar") {
		p.SolarIntensity = climate.Ptr(solar)
	}
	if flags.Changed("forest") {
		p.ForestCover = climate.Ptr(forest)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	cfg.Params = p.Apply(cfg.Params)

	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	level, _ := logger.ParseLogLevel(cfg.LogLevel)
	logger.SetLevel(level)
	return cfg, nil
}

// logToFile moves logging off the terminal while a full-screen view runs.
func logToFile() (func() error, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return logger.ToFile(filepath.Join(dataDir, "climsim.log"))
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
