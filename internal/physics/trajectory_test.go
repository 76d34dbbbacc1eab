package physics_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/integrators"
	"github.com/san-kum/ballistics/internal/materials"
	"github.com/san-kum/ballistics/internal/metrics"
	"github.com/san-kum/ballistics/internal/physics"
)

var _ = Describe("Simulate", func() {
	var (
		env    physics.Environment
		params physics.Params
	)

	BeforeEach(func() {
		env = physics.DefaultEnvironment()
		params = physics.DefaultParams(env)
		params.Material = materials.Custom
	})

	It("follows the step-then-record loop sample by sample", func() {
		params.InitialHeight = 2
		samples := physics.Simulate(params, env)

		want := referenceFlight(params, env)
		Expect(samples).To(HaveLen(len(want)))
		for i := range want {
			Expect(samples[i].Time).To(BeNumerically("~", want[i].Time, 1e-9), "time of sample %d", i)
			Expect(samples[i].X).To(BeNumerically("~", want[i].X, 1e-9), "x of sample %d", i)
			Expect(samples[i].Y).To(BeNumerically("~", want[i].Y, 1e-9), "y of sample %d", i)
			Expect(samples[i].VX).To(BeNumerically("~", want[i].VX, 1e-9), "vx of sample %d", i)
			Expect(samples[i].VY).To(BeNumerically("~", want[i].VY, 1e-9), "vy of sample %d", i)
		}
	})

	It("records the state after the first step at t=0", func() {
		samples := physics.Simulate(params, env)

		first := samples[0]
		Expect(first.Time).To(Equal(0.0))
		Expect(first.X).To(BeNumerically(">", 0))
		Expect(first.Y).To(BeNumerically(">", 0))
		Expect(first.Speed).To(BeNumerically("<", 20))
	})

	It("reports the time of the final sample as the flight time", func() {
		samples := physics.Simulate(params, env)
		summary := physics.Summarize(samples)

		Expect(summary.Steps).To(Equal(len(samples)))
		Expect(summary.FlightTime).To(BeNumerically("~", float64(len(samples)-1)*env.Dt, 1e-9))
	})

	It("advances time by exactly dt per sample", func() {
		samples := physics.Simulate(params, env)

		Expect(len(samples)).To(BeNumerically(">", 2))
		for i := 1; i < len(samples); i++ {
			Expect(samples[i].Time - samples[i-1].Time).To(BeNumerically("~", env.Dt, 1e-9))
		}
	})

	It("stops at the first sample below ground", func() {
		samples := physics.Simulate(params, env)

		last := samples[len(samples)-1]
		Expect(last.Y).To(BeNumerically("<", 0))
		for _, s := range samples[:len(samples)-1] {
			Expect(s.Y).To(BeNumerically(">=", 0))
		}
	})

	It("lands the 20 m/s custom ball within 20% of the drag-free range", func() {
		samples := physics.Simulate(params, env)
		summary := physics.Summarize(samples)

		ideal := 20.0 * 20.0 / 9.81
		Expect(summary.Range).To(BeNumerically(">=", 0.8*ideal))
		Expect(summary.Range).To(BeNumerically("<=", 1.2*ideal))
		Expect(summary.Range).To(BeNumerically("<", ideal), "drag must shorten the flight")
	})

	DescribeTable("matches v^2/g within 1% without drag",
		func(speed float64) {
			params.InitialVelocity = speed
			params.AirDensity = 1e-12

			summary := physics.Summarize(physics.Simulate(params, env))
			ideal := speed * speed / params.Gravity
			Expect(math.Abs(summary.Range-ideal) / ideal).To(BeNumerically("<", 0.01))
		},
		Entry("10 m/s", 10.0),
		Entry("20 m/s", 20.0),
		Entry("50 m/s", 50.0),
	)

	It("shortens the range under a headwind", func() {
		calm := physics.Summarize(physics.Simulate(params, env)).Range

		previous := calm
		for _, wind := range []float64{2, 5, 10} {
			params.WindSpeed = wind
			params.WindDirection = 180
			r := physics.Summarize(physics.Simulate(params, env)).Range
			Expect(r).To(BeNumerically("<", previous))
			previous = r
		}
	})

	It("lengthens the range under a tailwind", func() {
		calm := physics.Summarize(physics.Simulate(params, env)).Range
		params.WindSpeed = 10
		params.WindDirection = 0
		Expect(physics.Summarize(physics.Simulate(params, env)).Range).To(BeNumerically(">", calm))
	})

	It("terminates for a straight-up launch from height", func() {
		params.LaunchAngle = 90
		params.InitialHeight = 100
		params.InitialVelocity = 500
		params.Material = materials.BowlingBall

		samples := physics.Simulate(params, env)
		last := samples[len(samples)-1]
		Expect(last.Time).To(BeNumerically("<=", env.MaxTime))
		Expect(len(samples)).To(BeNumerically("<=", env.MaxSteps()))
	})

	It("stops at the time limit when the projectile never comes down", func() {
		env.MaxTime = 1
		params.LaunchAngle = 90
		params.InitialVelocity = 300

		samples := physics.Simulate(params, env)
		summary := physics.Summarize(samples)
		Expect(summary.Truncated).To(BeTrue())
		Expect(summary.FlightTime).To(BeNumerically("~", 0.99, 1e-9))
		Expect(samples).To(HaveLen(100))
	})

	It("peaks at the first sample of a downward throw", func() {
		params.InitialHeight = 10
		params.LaunchAngle = -30

		samples := physics.Simulate(params, env)
		summary := physics.Summarize(samples)
		Expect(summary.MaxHeight).To(Equal(samples[0].Y))
		Expect(summary.MaxHeight).To(BeNumerically("<", 10))
		Expect(summary.LandingVelocity.Y).To(BeNumerically("<", 0))
	})

	It("ends a downward launch from the ground after one step", func() {
		params.LaunchAngle = -10
		samples := physics.Simulate(params, env)
		Expect(samples).To(HaveLen(1))
		Expect(samples[0].Time).To(Equal(0.0))
		Expect(samples[0].Y).To(BeNumerically("<", 0))
	})
})

var _ = Describe("Run", func() {
	env := physics.DefaultEnvironment()

	It("agrees with Simulate when using the default integrator", func() {
		params := physics.DefaultParams(env)
		want := physics.Simulate(params, env)
		got, err := physics.Run(params, env, nil)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(want))
	})

	It("feeds every sample to the metrics", func() {
		params := physics.DefaultParams(env)
		ms := metrics.Default(physics.NewProjectile(params))

		samples, err := physics.Run(params, env, integrators.NewRK4(), ms...)
		Expect(err).NotTo(HaveOccurred())

		peak, apex, top := 0.0, 0.0, math.Inf(-1)
		for _, s := range samples {
			peak = math.Max(peak, s.Speed)
			if s.Y > top {
				top, apex = s.Y, s.Time
			}
		}

		values := metrics.Collect(ms)
		Expect(values["peak_speed"]).To(BeNumerically("~", peak, 1e-9))
		Expect(values["apex_time"]).To(BeNumerically("~", apex, 1e-9))
		Expect(values["energy_dissipated"]).To(BeNumerically(">", 0))

		summary := physics.Summarize(samples)
		Expect(values["apex_time"]).To(BeNumerically("<", summary.FlightTime))
	})

	It("reports non-finite states", func() {
		params := physics.DefaultParams(env)
		params.WindSpeed = math.Inf(1)

		_, err := physics.Run(params, env, nil)
		Expect(err).To(MatchError(physics.ErrNonFinite))

		var stepErr *dynamo.StepError
		Expect(err).To(BeAssignableToTypeOf(stepErr))
	})

	It("terminates on NaN input without the checked path", func() {
		params := physics.DefaultParams(env)
		params.Gravity = math.NaN()
		Expect(physics.Simulate(params, env)).NotTo(BeEmpty())
	})
})

var _ = Describe("SimulateBatch", func() {
	env := physics.DefaultEnvironment()

	It("returns results in launch order", func() {
		launches := make([]physics.Params, 4)
		for i := range launches {
			launches[i] = physics.DefaultParams(env)
			launches[i].InitialVelocity = float64(10 * (i + 1))
		}

		results, err := physics.SimulateBatch(context.Background(), launches, env)
		Expect(err).NotTo(HaveOccurred())
		Expect(results).To(HaveLen(4))

		for i, samples := range results {
			Expect(samples).To(Equal(physics.Simulate(launches[i], env)))
		}
	})

	It("stops when the context is canceled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := physics.SimulateBatch(ctx, []physics.Params{physics.DefaultParams(env)}, env)
		Expect(err).To(MatchError(context.Canceled))
	})
})

var _ = Describe("Params.Validate", func() {
	env := physics.DefaultEnvironment()

	DescribeTable("rejects bad launches",
		func(mutate func(*physics.Params), want error) {
			p := physics.DefaultParams(env)
			mutate(&p)
			Expect(p.Validate()).To(MatchError(want))
		},
		Entry("zero velocity", func(p *physics.Params) { p.InitialVelocity = 0 }, physics.ErrInvalidVelocity),
		Entry("negative velocity", func(p *physics.Params) { p.InitialVelocity = -5 }, physics.ErrInvalidVelocity),
		Entry("NaN velocity", func(p *physics.Params) { p.InitialVelocity = math.NaN() }, physics.ErrInvalidVelocity),
		Entry("angle above 90", func(p *physics.Params) { p.LaunchAngle = 91 }, physics.ErrInvalidAngle),
		Entry("angle below -90", func(p *physics.Params) { p.LaunchAngle = -90.5 }, physics.ErrInvalidAngle),
		Entry("negative height", func(p *physics.Params) { p.InitialHeight = -1 }, physics.ErrInvalidHeight),
		Entry("negative wind", func(p *physics.Params) { p.WindSpeed = -1 }, physics.ErrInvalidWind),
		Entry("infinite wind direction", func(p *physics.Params) { p.WindDirection = math.Inf(1) }, physics.ErrInvalidWind),
		Entry("zero air density", func(p *physics.Params) { p.AirDensity = 0 }, physics.ErrInvalidEnvironment),
		Entry("zero gravity", func(p *physics.Params) { p.Gravity = 0 }, physics.ErrInvalidEnvironment),
	)

	It("names the wind field that failed", func() {
		p := physics.DefaultParams(env)
		p.WindDirection = math.NaN()
		err := p.Validate()
		Expect(err).To(MatchError(physics.ErrInvalidWind))
		Expect(err.Error()).To(Equal("physics: invalid wind: direction must be finite, got NaN"))

		p = physics.DefaultParams(env)
		p.WindSpeed = -2
		Expect(p.Validate()).To(MatchError("physics: invalid wind: speed must be finite and non-negative, got -2"))
	})

	It("accepts the boundary angles", func() {
		for _, angle := range []float64{-90, 0, 90} {
			p := physics.DefaultParams(env)
			p.LaunchAngle = angle
			Expect(p.Validate()).To(Succeed())
		}
	})
})

// referenceFlight integrates a launch with the plain loop: update velocity
// from gravity and drag on the air-relative velocity, update position with
// the new velocity, record the state at the current time, advance time.
func referenceFlight(p physics.Params, env physics.Environment) []physics.Sample {
	m := materials.Lookup(p.Material)
	rad := p.LaunchAngle * math.Pi / 180
	vx, vy := p.InitialVelocity*math.Cos(rad), p.InitialVelocity*math.Sin(rad)
	windRad := p.WindDirection * math.Pi / 180
	wx, wy := p.WindSpeed*math.Cos(windRad), p.WindSpeed*math.Sin(windRad)
	x, y, t, dt := 0.0, p.InitialHeight, 0.0, env.Dt
	area := math.Pi * m.Radius * m.Radius

	var out []physics.Sample
	for y >= 0 && len(out) < env.MaxSteps() {
		rx, ry := vx-wx, vy-wy
		rel := math.Hypot(rx, ry)
		var dx, dy float64
		if rel > 0 {
			drag := 0.5 * m.DragCoefficient * p.AirDensity * area * rel * rel
			dx, dy = -drag*rx/rel, -drag*ry/rel
		}
		vx += dx / m.Mass * dt
		vy += (-p.Gravity + dy/m.Mass) * dt
		x += vx * dt
		y += vy * dt
		out = append(out, physics.Sample{Time: t, X: x, Y: y, VX: vx, VY: vy, Speed: math.Hypot(vx, vy)})
		t = float64(len(out)) * dt
	}
	return out
}
