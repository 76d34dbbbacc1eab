// Package automation runs many launches at once: scripted YAML
// scenarios, single-parameter sweeps and Monte Carlo dispersion studies.
package automation

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ballistics/internal/config"
	"github.com/san-kum/ballistics/internal/integrators"
	"github.com/san-kum/ballistics/internal/physics"
)

var ErrUnknownParam = errors.New("automation: unknown launch parameter")

// Scenario is a scripted sequence of launches.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one launch. Unset fields fall back to the preset, then
// to the default launch.
type ScenarioStep struct {
	Name            string   `yaml:"name"`
	Preset          string   `yaml:"preset"`
	Integrator      string   `yaml:"integrator"`
	Surface         string   `yaml:"surface"`
	Material        string   `yaml:"material"`
	InitialHeight   *float64 `yaml:"initial_height"`
	InitialVelocity *float64 `yaml:"initial_velocity"`
	LaunchAngle     *float64 `yaml:"launch_angle"`
	WindSpeed       *float64 `yaml:"wind_speed"`
	WindDirection   *float64 `yaml:"wind_direction"`
	Save            bool     `yaml:"save"`
}

type StepResult struct {
	Name       string
	Launch     physics.Params
	Surface    string
	Integrator string
	Samples    []physics.Sample
	Summary    physics.Summary
	Save       bool
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var sc Scenario
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, err
	}
	if len(sc.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", sc.Name)
	}
	return &sc, nil
}

func (s ScenarioStep) launch(env physics.Environment) (physics.Params, string, error) {
	p, surface := physics.DefaultParams(env), physics.SurfaceConcrete
	if s.Preset != "" {
		pr, ok := config.GetPreset(s.Preset, env)
		if !ok {
			return p, "", fmt.Errorf("unknown preset %q", s.Preset)
		}
		p, surface = pr.Launch, pr.Surface
	}

	if s.Material != "" {
		p.Material = s.Material
	}
	if s.Surface != "" {
		surface = s.Surface
	}
	for _, o := range []struct {
		src *float64
		dst *float64
	}{
		{s.InitialHeight, &p.InitialHeight},
		{s.InitialVelocity, &p.InitialVelocity},
		{s.LaunchAngle, &p.LaunchAngle},
		{s.WindSpeed, &p.WindSpeed},
		{s.WindDirection, &p.WindDirection},
	} {
		if o.src != nil {
			*o.dst = *o.src
		}
	}
	return p, surface, p.Validate()
}

// RunScenario executes the steps in order and stops at the first failure.
func RunScenario(ctx context.Context, sc *Scenario, env physics.Environment) ([]StepResult, error) {
	results := make([]StepResult, 0, len(sc.Steps))

	for i, step := range sc.Steps {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		p, surface, err := step.launch(env)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		integ, err := integrators.New(step.Integrator)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		samples, err := physics.Run(p, env, integ)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		results = append(results, StepResult{
			Name:       name,
			Launch:     p,
			Surface:    surface,
			Integrator: integ.Name(),
			Samples:    samples,
			Summary:    physics.Summarize(samples),
			Save:       step.Save,
		})
	}

	return results, nil
}

// setParam writes the named launch parameter.
func setParam(p *physics.Params, name string, v float64) error {
	switch name {
	case "velocity":
		p.InitialVelocity = v
	case "angle":
		p.LaunchAngle = v
	case "height":
		p.InitialHeight = v
	case "wind":
		p.WindSpeed = v
	case "wind_direction":
		p.WindDirection = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return nil
}

// SweepParams lists the parameters a sweep can vary.
func SweepParams() []string {
	return []string{"angle", "height", "velocity", "wind", "wind_direction"}
}

// ParameterSweep varies one launch parameter over NumSteps evenly spaced
// values from Min to Max.
type ParameterSweep struct {
	Param    string
	Min, Max float64
	NumSteps int
}

type SweepResult struct {
	Value   float64
	Summary physics.Summary
}

func RunSweep(ctx context.Context, sweep ParameterSweep, base physics.Params, env physics.Environment) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}

	step := (sweep.Max - sweep.Min) / float64(sweep.NumSteps-1)
	launches := make([]physics.Params, sweep.NumSteps)
	for i := range launches {
		launches[i] = base
		if err := setParam(&launches[i], sweep.Param, sweep.Min+float64(i)*step); err != nil {
			return nil, err
		}
		if err := launches[i].Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.Param, sweep.Min+float64(i)*step, err)
		}
	}

	flights, err := physics.SimulateBatch(ctx, launches, env)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(flights))
	for i, samples := range flights {
		results[i] = SweepResult{
			Value:   sweep.Min + float64(i)*step,
			Summary: physics.Summarize(samples),
		}
	}
	return results, nil
}

// MonteCarloConfig perturbs a launch with independent Gaussian noise.
type MonteCarloConfig struct {
	Trials        int
	VelocitySigma float64
	AngleSigma    float64
	WindSigma     float64
	Seed          int64
}

type MonteCarloResult struct {
	Trial   int
	Launch  physics.Params
	Summary physics.Summary
}

// Dispersion summarises where the perturbed launches landed.
type Dispersion struct {
	Trials      int
	MeanRange   float64
	StdDevRange float64
	MinRange    float64
	MaxRange    float64
	MeanFlight  float64
}

func RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig, base physics.Params, env physics.Environment) ([]MonteCarloResult, error) {
	if cfg.Trials <= 0 {
		return nil, fmt.Errorf("monte carlo needs at least 1 trial, got %d", cfg.Trials)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	launches := make([]physics.Params, cfg.Trials)
	for i := range launches {
		p := base
		p.InitialVelocity = positiveDraw(rng, p.InitialVelocity, cfg.VelocitySigma)
		p.LaunchAngle = math.Max(-90, math.Min(90, p.LaunchAngle+rng.NormFloat64()*cfg.AngleSigma))
		p.WindSpeed = math.Abs(p.WindSpeed + rng.NormFloat64()*cfg.WindSigma)
		if err := p.Validate(); err != nil {
			return nil, fmt.Errorf("trial %d: %w", i, err)
		}
		launches[i] = p
	}

	flights, err := physics.SimulateBatch(ctx, launches, env)
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(flights))
	for i, samples := range flights {
		results[i] = MonteCarloResult{Trial: i, Launch: launches[i], Summary: physics.Summarize(samples)}
	}
	return results, nil
}

// minLaunchSpeed floors launch speeds that keep drawing non-positive.
const minLaunchSpeed = 1e-3

// positiveDraw samples mean + N(0, sigma) truncated to positive values by
// redrawing.
func positiveDraw(rng *rand.Rand, mean, sigma float64) float64 {
	for range 64 {
		if v := mean + rng.NormFloat64()*sigma; v > 0 {
			return v
		}
	}
	return minLaunchSpeed
}

func MonteCarloStats(results []MonteCarloResult) Dispersion {
	d := Dispersion{Trials: len(results)}
	if len(results) == 0 {
		return d
	}

	d.MinRange, d.MaxRange = math.Inf(1), math.Inf(-1)
	for _, r := range results {
		d.MeanRange += r.Summary.Range
		d.MeanFlight += r.Summary.FlightTime
		d.MinRange = math.Min(d.MinRange, r.Summary.Range)
		d.MaxRange = math.Max(d.MaxRange, r.Summary.Range)
	}
	n := float64(len(results))
	d.MeanRange /= n
	d.MeanFlight /= n

	for _, r := range results {
		diff := r.Summary.Range - d.MeanRange
		d.StdDevRange += diff * diff
	}
	d.StdDevRange = math.Sqrt(d.StdDevRange / n)
	return d
}
