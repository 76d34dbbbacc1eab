package physics

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/integrators"
)

// Sample is the projectile state at one instant.
type Sample struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Speed float64 `json:"speed"`
}

func (s Sample) Velocity() dynamo.Vec2 { return dynamo.V(s.VX, s.VY) }

func (s Sample) IsFinite() bool {
	return dynamo.State{s.Time, s.X, s.Y, s.VX, s.VY, s.Speed}.IsValid()
}

func sampleOf(t float64, x dynamo.State) Sample {
	return Sample{
		Time:  t,
		X:     x[0],
		Y:     x[1],
		VX:    x[2],
		VY:    x[3],
		Speed: math.Hypot(x[2], x[3]),
	}
}

// Summary holds statistics derived from a finished trajectory.
type Summary struct {
	MaxHeight       float64
	Range           float64
	FlightTime      float64
	LandingVelocity dynamo.Vec2
	LandingSpeed    float64
	Steps           int
	// Truncated is set when the run hit the time limit above ground.
	Truncated bool
}

// Simulate steps p forward with the semi-implicit Euler scheme while the
// projectile is at or above ground level, for at most env.MaxSteps steps.
// Each step updates velocity and position, records the new state stamped
// with the time at the start of the step, then advances time by dt, so the
// first sample is already one step into the flight at t=0. The last sample
// may lie slightly below ground. It never fails; with a non-negative
// launch height it returns at least one sample.
func Simulate(p Params, env Environment) []Sample {
	samples, _ := integrate(p, env, integrators.NewSemiImplicitEuler(), nil, false)
	return samples
}

// Run is Simulate with a chosen integrator and optional metrics. Unlike
// Simulate it stops with a *dynamo.StepError wrapping ErrNonFinite as soon
// as the state stops being finite.
func Run(p Params, env Environment, integ dynamo.Integrator, metrics ...dynamo.Metric) ([]Sample, error) {
	if integ == nil {
		integ = integrators.NewSemiImplicitEuler()
	}
	return integrate(p, env, integ, metrics, true)
}

func integrate(p Params, env Environment, integ dynamo.Integrator, metrics []dynamo.Metric, check bool) ([]Sample, error) {
	proj := NewProjectile(p)
	dt := env.Dt
	if !(dt > 0) {
		dt = DefaultDt
	}
	maxSteps := env.MaxSteps()

	for _, m := range metrics {
		m.Reset()
	}

	x := proj.InitialState()
	samples := make([]Sample, 0, estimateSteps(p, dt, maxSteps))

	// NaN heights compare false and end the loop as well.
	for step := 0; step < maxSteps && x[1] >= 0; step++ {
		t := float64(step) * dt
		x = integ.Step(proj, x, t, dt)

		if check && !x.IsValid() {
			return samples, &dynamo.StepError{Step: step, Time: t, State: x, Wrapped: ErrNonFinite}
		}

		samples = append(samples, sampleOf(t, x))
		observe(metrics, x, t)
	}

	return samples, nil
}

func observe(metrics []dynamo.Metric, x dynamo.State, t float64) {
	for _, m := range metrics {
		m.Observe(x, t)
	}
}

// estimateSteps sizes the sample buffer from the drag-free flight time.
func estimateSteps(p Params, dt float64, maxSteps int) int {
	vy := p.LaunchVelocity().Y
	g := p.Gravity
	if !(g > 0) {
		return 64
	}
	tf := (vy + math.Sqrt(vy*vy+2*g*math.Max(p.InitialHeight, 0))) / g
	n := int(tf/dt) + 2
	if n < 2 || n > maxSteps {
		return min(maxSteps, 4096)
	}
	return n
}

// Summarize derives the flight statistics from samples. An empty slice
// yields the zero Summary.
func Summarize(samples []Sample) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	last := samples[len(samples)-1]
	s := Summary{
		MaxHeight:       samples[0].Y,
		Range:           last.X,
		FlightTime:      last.Time,
		LandingVelocity: last.Velocity(),
		LandingSpeed:    last.Speed,
		Steps:           len(samples),
		Truncated:       last.Y >= 0,
	}
	for _, sm := range samples[1:] {
		if sm.Y > s.MaxHeight {
			s.MaxHeight = sm.Y
		}
	}
	return s
}

// SimulateBatch runs several launches concurrently. Results are in the
// order of launches.
func SimulateBatch(ctx context.Context, launches []Params, env Environment) ([][]Sample, error) {
	results := make([][]Sample, len(launches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, p := range launches {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			samples, err := Run(p, env, nil)
			if err != nil {
				return err
			}
			results[i] = samples
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
