package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/ballistics/internal/storage"
	"github.com/san-kum/ballistics/internal/viz"
)

// openRun loads the run named in args, or the latest run.
func openRun(cmd *cobra.Command, args []string) (*storage.Store, *storage.RunMetadata, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	st := storage.New(cfg.DataDir)

	if len(args) == 0 {
		meta, err := st.Latest()
		return st, meta, err
	}
	meta, err := st.Load(args[0])
	return st, meta, err
}

func listRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	runs, err := storage.New(cfg.DataDir).List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMATERIAL\tTIME\tSPEED\tANGLE\tRANGE\tFLIGHT\tINTEG")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1fm/s\t%.1f°\t%.2fm\t%.2fs\t%s\n",
			run.ID,
			run.Launch.Material,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Launch.InitialVelocity,
			run.Launch.LaunchAngle,
			run.Range,
			run.FlightTime,
			run.Integrator,
		)
	}
	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	st, meta, err := openRun(cmd, args)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(meta.ID)
	if err != nil {
		return err
	}
	if len(samples) < 2 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("material: %s\n", meta.Launch.Material)
	fmt.Printf("samples: %d\n\n", len(samples))

	fmt.Println(viz.HeightProfile(samples, 80, 10, "height (m)"))
	fmt.Println()
	fmt.Println(viz.SpeedProfile(samples, 80, 10))
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st, meta, err := openRun(cmd, args)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(meta.ID)
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st, meta, err := openRun(cmd, args)
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(meta.ID)
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, samples)
}
