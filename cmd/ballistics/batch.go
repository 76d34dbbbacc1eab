package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ballistics/internal/automation"
	"github.com/san-kum/ballistics/internal/physics"
	"github.com/san-kum/ballistics/internal/storage"
	"github.com/san-kum/ballistics/internal/viz"
)

var (
	sweepParam    string
	sweepMin      float64
	sweepMax      float64
	sweepSteps    int
	trials        int
	velocitySigma float64
	angleSigma    float64
	windSigma     float64
	seed          int64
)

func batchCommands() []*cobra.Command {
	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a YAML scenario of launches",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "vary one launch parameter and tabulate the flights",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addLaunchFlags(sweepCmd)
	sweepCmd.Flags().StringVar(&sweepParam, "param", "angle", "parameter to vary: "+strings.Join(automation.SweepParams(), ", "))
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 10, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 80, "last value")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 8, "number of values")

	dispersionCmd := &cobra.Command{
		Use:   "dispersion",
		Short: "Monte Carlo spread of landing points under launch noise",
		Args:  cobra.NoArgs,
		RunE:  runDispersion,
	}
	addLaunchFlags(dispersionCmd)
	dispersionCmd.Flags().IntVar(&trials, "trials", 200, "number of perturbed launches")
	dispersionCmd.Flags().Float64Var(&velocitySigma, "sigma-velocity", 0.5, "launch speed standard deviation (m/s)")
	dispersionCmd.Flags().Float64Var(&angleSigma, "sigma-angle", 1, "launch angle standard deviation (degrees)")
	dispersionCmd.Flags().Float64Var(&windSigma, "sigma-wind", 0, "wind speed standard deviation (m/s)")
	dispersionCmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")

	return []*cobra.Command{scenarioCmd, sweepCmd, dispersionCmd}
}

func runScenario(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("running scenario %s (%d steps)\n", sc.Name, len(sc.Steps))
	results, err := automation.RunScenario(cmd.Context(), sc, cfg.Environment())
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tMATERIAL\tINTEG\tRANGE\tMAX_HEIGHT\tFLIGHT\tRUN")
	for _, r := range results {
		runID := "-"
		if r.Save {
			if err := st.Init(); err != nil {
				return err
			}
			runID, err = st.Save(storage.RunMetadata{
				Label:      r.Name,
				Integrator: r.Integrator,
				Surface:    r.Surface,
				Dt:         cfg.Physics.Dt,
				Launch:     r.Launch,
			}, r.Samples)
			if err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%.3fm\t%.3fm\t%.3fs\t%s\n",
			r.Name,
			r.Launch.Material,
			r.Integrator,
			r.Summary.Range,
			r.Summary.MaxHeight,
			r.Summary.FlightTime,
			runID,
		)
	}
	return w.Flush()
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	env := cfg.Environment()
	base, _, err := launchFromFlags(cmd, env)
	if err != nil {
		return err
	}

	sweep := automation.ParameterSweep{Param: sweepParam, Min: sweepMin, Max: sweepMax, NumSteps: sweepSteps}
	results, err := automation.RunSweep(cmd.Context(), sweep, base, env)
	if err != nil {
		return err
	}

	best := 0
	for i, r := range results {
		if r.Summary.Range > results[best].Summary.Range {
			best = i
		}
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tRANGE\tMAX_HEIGHT\tFLIGHT\t\n", strings.ToUpper(sweepParam))
	for i, r := range results {
		mark := ""
		if i == best {
			mark = "◀ longest"
		}
		fmt.Fprintf(w, "%.3f\t%.3fm\t%.3fm\t%.3fs\t%s\n", r.Value, r.Summary.Range, r.Summary.MaxHeight, r.Summary.FlightTime, mark)
	}
	return w.Flush()
}

func runDispersion(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	env := cfg.Environment()
	base, _, err := launchFromFlags(cmd, env)
	if err != nil {
		return err
	}

	mc := automation.MonteCarloConfig{
		Trials:        trials,
		VelocitySigma: velocitySigma,
		AngleSigma:    angleSigma,
		WindSigma:     windSigma,
		Seed:          seed,
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), mc, base, env)
	if err != nil {
		return err
	}
	d := automation.MonteCarloStats(results)
	nominal := physics.Summarize(physics.Simulate(base, env))

	fmt.Println(viz.Panel.Render(strings.Join([]string{
		viz.Title.Render("DISPERSION") + viz.Subtle.Render(fmt.Sprintf("  %d trials", d.Trials)),
		"",
		viz.Row("nominal range", "%.3f m", nominal.Range),
		viz.Row("mean range", "%.3f m", d.MeanRange),
		viz.Row("std dev", "%.3f m", d.StdDevRange),
		viz.Row("spread", "%.3f .. %.3f m", d.MinRange, d.MaxRange),
		viz.Row("mean flight", "%.3f s", d.MeanFlight),
	}, "\n")))
	return nil
}
