package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/san-kum/ballistics/internal/api"
	"github.com/san-kum/ballistics/internal/config"
	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/export"
	"github.com/san-kum/ballistics/internal/integrators"
	"github.com/san-kum/ballistics/internal/materials"
	"github.com/san-kum/ballistics/internal/metrics"
	"github.com/san-kum/ballistics/internal/optim"
	"github.com/san-kum/ballistics/internal/physics"
	"github.com/san-kum/ballistics/internal/present"
	"github.com/san-kum/ballistics/internal/storage"
	"github.com/san-kum/ballistics/internal/viz"
)

var (
	dataDir    string
	configFile string
	addr       string
	logLevel   string
	// launch
	height     float64
	velocity   float64
	angle      float64
	material   string
	windSpeed  float64
	windDir    float64
	surface    string
	integrator string
	preset     string
	// output
	jsonOut bool
	svgPath string
	save    bool
	plot    bool
	// collision
	m1, v1x, v1y float64
	m2, v2x, v2y float64
	restitution  float64
	// aim
	target float64
	// forces
	mass        float64
	vx, vy      float64
	includeDrag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "ballistics",
		Short:         "projectile trajectories, collisions and forces",
		SilenceUsage:  true,
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for saved runs")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "run the HTTP API",
		Args:  cobra.NoArgs,
		RunE:  serve,
	}
	serveCmd.Flags().StringVar(&addr, "addr", config.DefaultAddr, "listen address")
	serveCmd.Flags().StringVar(&logLevel, "log-level", "info", "debug, info, warn or error")

	trajectoryCmd := &cobra.Command{
		Use:   "trajectory",
		Short: "compute a trajectory",
		Args:  cobra.NoArgs,
		RunE:  runTrajectory,
	}
	addLaunchFlags(trajectoryCmd)
	trajectoryCmd.Flags().StringVar(&integrator, "integrator", integrators.SemiEulerName, "stepping scheme: "+strings.Join(integrators.Names(), ", "))
	trajectoryCmd.Flags().BoolVar(&jsonOut, "json", false, "print the full result as JSON")
	trajectoryCmd.Flags().StringVar(&svgPath, "svg", "", "write the flight path to an SVG file")
	trajectoryCmd.Flags().BoolVar(&save, "save", false, "save the run to the data directory")
	trajectoryCmd.Flags().BoolVar(&plot, "plot", false, "plot the height profile")

	watchCmd := &cobra.Command{
		Use:   "watch [run_id]",
		Short: "replay a flight in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watch,
	}
	addLaunchFlags(watchCmd)
	watchCmd.Flags().StringVar(&integrator, "integrator", integrators.SemiEulerName, "stepping scheme")

	compareCmd := &cobra.Command{
		Use:   "compare [integrators...]",
		Short: "compare stepping schemes on one launch",
		RunE:  compareIntegrators,
	}
	addLaunchFlags(compareCmd)

	aimCmd := &cobra.Command{
		Use:   "aim",
		Short: "search the launch angle for maximum range or a target distance",
		Args:  cobra.NoArgs,
		RunE:  aim,
	}
	addLaunchFlags(aimCmd)
	aimCmd.Flags().Float64Var(&target, "target", 0, "distance to land at (m); 0 searches for maximum range")

	collideCmd := &cobra.Command{
		Use:   "collide",
		Short: "resolve a collision between two objects",
		Args:  cobra.NoArgs,
		RunE:  collide,
	}
	collideCmd.Flags().Float64Var(&m1, "m1", 1, "mass of object 1 (kg)")
	collideCmd.Flags().Float64Var(&v1x, "v1x", 0, "velocity x of object 1 (m/s)")
	collideCmd.Flags().Float64Var(&v1y, "v1y", 0, "velocity y of object 1 (m/s)")
	collideCmd.Flags().Float64Var(&m2, "m2", 1, "mass of object 2 (kg)")
	collideCmd.Flags().Float64Var(&v2x, "v2x", 0, "velocity x of object 2 (m/s)")
	collideCmd.Flags().Float64Var(&v2y, "v2y", 0, "velocity y of object 2 (m/s)")
	collideCmd.Flags().Float64Var(&restitution, "restitution", 1, "coefficient of restitution [0, 2]")
	collideCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	forcesCmd := &cobra.Command{
		Use:   "forces",
		Short: "decompose the forces on an object",
		Args:  cobra.NoArgs,
		RunE:  forces,
	}
	forcesCmd.Flags().Float64Var(&mass, "mass", 1, "mass (kg)")
	forcesCmd.Flags().Float64Var(&vx, "vx", 0, "velocity x (m/s)")
	forcesCmd.Flags().Float64Var(&vy, "vy", 0, "velocity y (m/s)")
	forcesCmd.Flags().StringVar(&material, "material", materials.Basketball, "material for drag and buoyancy")
	forcesCmd.Flags().BoolVar(&includeDrag, "drag", true, "include air drag")
	forcesCmd.Flags().BoolVar(&jsonOut, "json", false, "print JSON")

	materialsCmd := &cobra.Command{
		Use:   "materials",
		Short: "list the material catalog",
		Args:  cobra.NoArgs,
		RunE:  listMaterials,
	}

	surfacesCmd := &cobra.Command{
		Use:   "surfaces",
		Short: "list impact surfaces and their hardness",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "SURFACE\tHARDNESS")
			for _, name := range physics.Surfaces() {
				fmt.Fprintf(w, "%s\t%.1f\n", name, physics.SurfaceFactor(name))
			}
			return w.Flush()
		},
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list launch presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list saved runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot a saved run (latest by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  plotRun,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export a run and its samples to JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE:  exportJSON,
	}

	rootCmd.AddCommand(serveCmd, trajectoryCmd, watchCmd, compareCmd, aimCmd, collideCmd, forcesCmd,
		materialsCmd, surfacesCmd, presetsCmd, listCmd, plotCmd, exportCSVCmd, exportJSONCmd)
	rootCmd.AddCommand(batchCommands()...)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addLaunchFlags(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&height, "height", 0, "initial height (m)")
	cmd.Flags().Float64Var(&velocity, "velocity", 20, "launch speed (m/s)")
	cmd.Flags().Float64Var(&angle, "angle", 45, "launch angle (degrees)")
	cmd.Flags().StringVar(&material, "material", materials.Basketball, "material name")
	cmd.Flags().Float64Var(&windSpeed, "wind", 0, "wind speed (m/s)")
	cmd.Flags().Float64Var(&windDir, "wind-dir", 0, "direction the wind blows towards (degrees)")
	cmd.Flags().StringVar(&surface, "surface", physics.SurfaceConcrete, "landing surface")
	cmd.Flags().StringVar(&preset, "preset", "", "start from a named preset")
}

// loadConfig reads --config when given. --data overrides the file.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	if cmd.Flags().Changed("data") || configFile == "" {
		cfg.DataDir = dataDir
	}
	return cfg, nil
}

// launchFromFlags builds the launch from the preset, if any, with
// explicitly set flags taking precedence.
func launchFromFlags(cmd *cobra.Command, env physics.Environment) (physics.Params, string, error) {
	p := physics.DefaultParams(env)
	surf := physics.SurfaceConcrete

	if preset != "" {
		pr, ok := config.GetPreset(preset, env)
		if !ok {
			return p, "", fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p, surf = pr.Launch, pr.Surface
	}

	flags := cmd.Flags()
	if preset == "" || flags.Changed("height") {
		p.InitialHeight = height
	}
	if preset == "" || flags.Changed("velocity") {
		p.InitialVelocity = velocity
	}
	if preset == "" || flags.Changed("angle") {
		p.LaunchAngle = angle
	}
	if preset == "" || flags.Changed("material") {
		p.Material = material
	}
	if preset == "" || flags.Changed("wind") {
		p.WindSpeed = windSpeed
	}
	if preset == "" || flags.Changed("wind-dir") {
		p.WindDirection = windDir
	}
	if preset == "" || flags.Changed("surface") {
		surf = surface
	}

	return p, surf, p.Validate()
}

// flight is one computed launch along with what produced it.
type flight struct {
	cfg     *config.Config
	launch  physics.Params
	surface string
	integ   dynamo.Integrator
	samples []physics.Sample
	metrics []dynamo.Metric
}

// simulate runs the launch described by the flags.
func simulate(cmd *cobra.Command) (*flight, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	env := cfg.Environment()

	p, surf, err := launchFromFlags(cmd, env)
	if err != nil {
		return nil, err
	}
	integ, err := integrators.New(integrator)
	if err != nil {
		return nil, err
	}

	ms := metrics.Default(physics.NewProjectile(p))
	samples, err := physics.Run(p, env, integ, ms...)
	if err != nil {
		return nil, err
	}
	return &flight{cfg: cfg, launch: p, surface: surf, integ: integ, samples: samples, metrics: ms}, nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("addr") {
		cfg.Server.Addr = addr
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Server.LogLevel = logLevel
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(cfg.Server.LogLevel)); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return api.New(cfg, logger).ListenAndServe(ctx)
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	f, err := simulate(cmd)
	if err != nil {
		return err
	}

	traj, err := present.NewTrajectory(materials.Lookup(f.launch.Material), f.samples, f.surface, metrics.Collect(f.metrics))
	if err != nil {
		return err
	}
	traj.Integrator = f.integ.Name()

	if jsonOut {
		if err := printJSON(traj); err != nil {
			return err
		}
	} else {
		fmt.Println(viz.RenderSummary(traj))
	}

	if plot {
		fmt.Println()
		fmt.Println(viz.HeightProfile(f.samples, 80, 12, "height (m) over the flight"))
	}

	if svgPath != "" {
		svg := export.TrajectorySVG(f.samples, export.DefaultSVGOptions())
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "wrote %s\n", svgPath)
	}

	if save {
		st := storage.New(f.cfg.DataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.Save(storage.RunMetadata{
			Preset:     preset,
			Integrator: f.integ.Name(),
			Surface:    f.surface,
			Dt:         f.cfg.Physics.Dt,
			Launch:     f.launch,
			Metrics:    metrics.Collect(f.metrics),
		}, f.samples)
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "run id: %s\n", runID)
	}
	return nil
}

func watch(cmd *cobra.Command, args []string) error {
	var (
		title   string
		samples []physics.Sample
		dt      float64
	)

	if len(args) == 1 {
		st, meta, err := openRun(cmd, args)
		if err != nil {
			return err
		}
		if samples, err = st.LoadSamples(meta.ID); err != nil {
			return err
		}
		title, dt = meta.Launch.Material, meta.Dt
	} else {
		f, err := simulate(cmd)
		if err != nil {
			return err
		}
		title, samples, dt = materials.Lookup(f.launch.Material).Name, f.samples, f.cfg.Physics.Dt
	}

	if len(samples) < 2 {
		return fmt.Errorf("no data to replay")
	}
	_, err := tea.NewProgram(viz.NewWatchModel(title, samples, dt)).Run()
	return err
}

func compareIntegrators(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	env := cfg.Environment()

	p, _, err := launchFromFlags(cmd, env)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = integrators.Names()
	}

	fmt.Printf("comparing integrators for %s at %.1f m/s, %.1f° (dt=%.4f)\n\n", p.Material, p.InitialVelocity, p.LaunchAngle, env.Dt)
	fmt.Printf("%-12s  %-12s  %-12s  %-12s  %-12s\n", "integrator", "range", "max_height", "flight_time", "time_ms")
	fmt.Println(strings.Repeat("-", 66))

	for _, name := range names {
		integ, err := integrators.New(name)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		start := time.Now()
		samples, err := physics.Run(p, env, integ)
		elapsed := time.Since(start)
		if err != nil {
			fmt.Printf("%-12s  error: %v\n", name, err)
			continue
		}

		s := physics.Summarize(samples)
		fmt.Printf("%-12s  %12.3f  %12.3f  %12.3f  %12.2f\n", integ.Name(), s.Range, s.MaxHeight, s.FlightTime, float64(elapsed.Microseconds())/1000)
	}
	return nil
}

func aim(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	env := cfg.Environment()

	p, _, err := launchFromFlags(cmd, env)
	if err != nil {
		return err
	}

	obj, goal := optim.MaxRange(), "maximum range"
	if target > 0 {
		obj, goal = optim.HitTarget(target), fmt.Sprintf("landing at %.2f m", target)
	}

	res, err := optim.NewGridSearch().Search(cmd.Context(), p, env, obj)
	if err != nil {
		return err
	}

	fmt.Println(viz.Panel.Render(strings.Join([]string{
		viz.Title.Render("AIM") + viz.Subtle.Render("  "+goal),
		"",
		viz.Row("angle", "%.2f°", res.Angle),
		viz.Row("range", "%.3f m", res.Summary.Range),
		viz.Row("max height", "%.3f m", res.Summary.MaxHeight),
		viz.Row("flight time", "%.3f s", res.Summary.FlightTime),
		viz.Row("evaluations", "%d", res.Evals),
	}, "\n")))
	return nil
}

func collide(cmd *cobra.Command, args []string) error {
	a := physics.Body{Mass: m1, Velocity: dynamo.V(v1x, v1y)}
	b := physics.Body{Mass: m2, Velocity: dynamo.V(v2x, v2y)}
	if err := a.Validate(); err != nil {
		return fmt.Errorf("object 1: %w", err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("object 2: %w", err)
	}
	if err := physics.ValidateRestitution(restitution); err != nil {
		return err
	}

	c, err := present.NewCollision(physics.ResolveCollision(a, b, restitution))
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(c)
	}

	fmt.Println(viz.Panel.Render(strings.Join([]string{
		viz.Title.Render("COLLISION"),
		"",
		viz.Row("object 1", "(%.3f, %.3f) m/s", c.FinalVelocity1.X, c.FinalVelocity1.Y),
		viz.Row("object 2", "(%.3f, %.3f) m/s", c.FinalVelocity2.X, c.FinalVelocity2.Y),
		viz.Row("energy loss", "%.3f J", c.EnergyLoss),
		viz.Row("impact force", "%.2f N", c.ImpactForce),
		viz.Row("momentum", "(%.3f, %.3f) → (%.3f, %.3f)", c.Momentum.Before.X, c.Momentum.Before.Y, c.Momentum.After.X, c.Momentum.After.Y),
	}, "\n")))
	return nil
}

func forces(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	body := physics.Body{Mass: mass, Velocity: dynamo.V(vx, vy)}
	if err := body.Validate(); err != nil {
		return err
	}
	f, err := present.NewForces(physics.ComposeForces(mass, body.Velocity, materials.Lookup(material), includeDrag, cfg.Environment()))
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(f)
	}

	lines := []string{
		viz.Title.Render("FORCES"),
		"",
		viz.Row("gravity", "(%g, %g) N", f.Gravity.X, f.Gravity.Y),
	}
	if f.Drag != nil {
		lines = append(lines, viz.Row("drag", "(%g, %g) N", f.Drag.X, f.Drag.Y))
	}
	lines = append(lines,
		viz.Row("buoyancy", "(%g, %g) N", f.Buoyancy.X, f.Buoyancy.Y),
		viz.Row("net", "(%g, %g) N", f.Net.X, f.Net.Y),
	)
	fmt.Println(viz.Panel.Render(strings.Join(lines, "\n")))
	return nil
}

func listMaterials(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMASS\tRADIUS\tCD\tRESTITUTION")
	for _, m := range materials.All() {
		fmt.Fprintf(w, "%s\t%.4g kg\t%.4g m\t%.2f\t%.2f\n", m.Name, m.Mass, m.Radius, m.DragCoefficient, m.Restitution)
	}
	return w.Flush()
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tMATERIAL\tSPEED\tANGLE\tSURFACE\tDESCRIPTION")
	for _, name := range config.ListPresets() {
		p := config.Presets[name]
		fmt.Fprintf(w, "%s\t%s\t%.1f m/s\t%.1f°\t%s\t%s\n",
			name,
			p.Launch.Material,
			p.Launch.InitialVelocity,
			p.Launch.LaunchAngle,
			p.Surface,
			p.Description,
		)
	}
	return w.Flush()
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
