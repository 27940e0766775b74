package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/san-kum/climsim/internal/config"
	"github.com/san-kum/climsim/internal/scenario"
	"github.com/san-kum/climsim/internal/sim"
	"github.com/san-kum/climsim/internal/storage"
)

func simConfig(cfg *config.Config) sim.Config {
	sc := sim.DefaultConfig()
	sc.Dt = cfg.Dt
	sc.Interval = cfg.TickInterval
	sc.Start = clockwork.NewRealClock().Now()
	return sc
}

func runSimulation(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	sc := simConfig(cfg)
	sc.Steps = steps

	ctx, stop := signalContext()
	defer stop()

	clock := clockwork.NewRealClock()
	fmt.Printf("running %d steps (dt=%g, %s)...\n", sc.Steps, sc.Dt, cfg.Integrator)
	start := clock.Now()
	result, err := sim.Simulate(ctx, model, sc, sim.DefaultMetrics()...)
	if err != nil {
		return err
	}
	elapsed := clock.Since(start)

	runID, err := st.Save(storage.RunMetadata{
		Name:       runName,
		Params:     cfg.Params,
		Dt:         sc.Dt,
		Integrator: cfg.Integrator,
	}, result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	printResult(runID, result, model.Equilibrium())
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	model, err := cfg.Model()
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Printf("running scenario %s (%d phases, %d steps)...\n", sc.Name, len(sc.Phases), sc.TotalSteps())
	result, err := scenario.Run(ctx, sc, model, simConfig(cfg), sim.DefaultMetrics()...)
	if err != nil {
		return err
	}

	name := sc.Name
	if name == "" {
		name = "scenario"
	}
	runID, err := st.Save(storage.RunMetadata{
		Name:       name,
		Params:     cfg.Params,
		Dt:         cfg.Dt,
		Integrator: cfg.Integrator,
	}, result)
	if err != nil {
		return err
	}

	printResult(runID, result, model.Equilibrium())
	return nil
}

func printResult(runID string, result *sim.Result, equilibrium float64) {
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	if final, ok := result.Final(); ok {
		fmt.Printf("final temperature: %.3f °C\n", final.Snapshot.Temperature)
	}
	fmt.Printf("equilibrium: %.3f °C\n", equilibrium)
	if n := len(result.Errors); n > 0 {
		fmt.Printf("rejected steps: %d (first: %v)\n", n, result.Errors[0])
	}
	fmt.Println("\nmetrics:")
	for name, val := range result.Metrics {
		fmt.Printf("  %s: %.6f\n", name, val)
	}
}

func runEquilibrium(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if sweepParam == "" {
		model, err := cfg.Model()
		if err != nil {
			return err
		}
		snap := model.Fluxes()
		fmt.Printf("equilibrium: %.3f °C\n", model.Equilibrium())
		fmt.Printf("forcing: %.3f W/m²\n", snap.Forcing)
		fmt.Printf("absorbed: %.3f W/m²\n", snap.Absorbed)
		return nil
	}

	ctx, stop := signalContext()
	defer stop()

	results, err := scenario.RunSweep(ctx, scenario.Sweep{
		Param:  sweepParam,
		Min:    sweepMin,
		Max:    sweepMax,
		Points: sweepPoints,
		Steps:  sweepSteps,
		Dt:     cfg.Dt,
	}, cfg.Params, cfg.InitialTemperature)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	if sweepSteps > 0 {
		fmt.Fprintf(w, "%s\tEQUILIBRIUM\tFINAL\n", sweepParam)
	} else {
		fmt.Fprintf(w, "%s\tEQUILIBRIUM\n", sweepParam)
	}
	for _, r := range results {
		if sweepSteps > 0 && r.Diverged {
			fmt.Fprintf(w, "%g\t%.3f\tdiverged\n", r.Value, r.Equilibrium)
		} else if sweepSteps > 0 {
			fmt.Fprintf(w, "%g\t%.3f\t%.3f\n", r.Value, r.Equilibrium, r.Final)
		} else {
			fmt.Fprintf(w, "%g\t%.3f\n", r.Value, r.Equilibrium)
		}
	}
	return w.Flush()
}

func listPresets(_ *cobra.Command, _ []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tCO2\tALBEDO\tSOLAR\tFOREST\tTEMP\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p, _ := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%g\t%g\t%g\t%g\t%g\t%s\n",
			p.Name,
			p.Params.CO2,
			p.Params.Albedo,
			p.Params.SolarIntensity,
			p.Params.ForestCover,
			p.InitialTemperature,
			p.Description,
		)
	}
	return w.Flush()
}
