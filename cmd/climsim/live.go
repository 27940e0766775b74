package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/san-kum/climsim/internal/chart"
	"github.com/san-kum/climsim/internal/gui"
	"github.com/san-kum/climsim/internal/httpapi"
	"github.com/san-kum/climsim/internal/logger"
	"github.com/san-kum/climsim/internal/observability"
	"github.com/san-kum/climsim/internal/sim"
	"github.com/san-kum/climsim/internal/tui"
)

const shutdownGrace = 5 * time.Second

func runLive(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("theme") {
		cfg.Theme = theme
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	closeLog, err := logToFile()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()

	loop := sim.NewLoop(model, cfg.Dt)
	logger.InfoKV(ctx, "live view starting", "params", cfg.Params, "dt", cfg.Dt, "integrator", cfg.Integrator)
	return tui.Run(ctx, loop, cfg)
}

func runGUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	closeLog, err := logToFile()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signalContext()
	defer stop()

	logger.InfoKV(ctx, "gui starting", "params", cfg.Params, "dt", cfg.Dt)
	gui.Run(ctx, sim.NewLoop(model, cfg.Dt), cfg)
	return nil
}

// runServe ticks the model on a Runner and exposes it over HTTP until
// SIGINT or SIGTERM.
func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.HTTPAddr = httpAddr
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	temps := chart.NewTemperature(cfg.Window)
	energy := chart.NewEnergy(cfg.Window)
	loop := sim.NewLoop(model, cfg.Dt,
		sim.WithMetrics(observability.NewMetrics(reg)),
		sim.WithSinks(temps, energy),
	)
	runner := sim.NewRunner(loop, cfg.TickInterval, clockwork.NewRealClock())

	charts := map[string]*chart.Chart{
		chart.Temperature: temps,
		"energy":          energy,
	}
	server := httpapi.NewServer(cfg.HTTPAddr, runner, charts, reg, logger.Logger().Named("http"))

	ctx, stop := signalContext()
	defer stop()

	runErr := make(chan error, 1)
	go func() { runErr <- runner.Run(ctx) }()

	serveErr := server.Run(ctx, shutdownGrace)
	stop()
	if err := <-runErr; err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("runner: %w", err)
	}
	return serveErr
}
