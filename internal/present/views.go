package present

import (
	"fmt"

	"github.com/san-kum/ballistics/internal/materials"
	"github.com/san-kum/ballistics/internal/physics"
)

type Sample struct {
	Time  float64 `json:"time"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Speed float64 `json:"speed"`
}

type Summary struct {
	MaxHeight       float64 `json:"max_height"`
	Range           float64 `json:"range"`
	FlightTime      float64 `json:"flight_time"`
	LandingVelocity Landing `json:"landing_velocity"`
	Steps           int     `json:"steps"`
	Truncated       bool    `json:"truncated,omitempty"`
}

type Landing struct {
	VX    float64 `json:"vx"`
	VY    float64 `json:"vy"`
	Speed float64 `json:"speed"`
}

type Impact struct {
	Speed         float64 `json:"impact_speed"`
	KineticEnergy float64 `json:"kinetic_energy"`
	Force         float64 `json:"impact_force"`
	Angle         float64 `json:"impact_angle"`
	ContactTimeMs float64 `json:"estimated_contact_time_ms"`
	Surface       string  `json:"surface"`
}

type Trajectory struct {
	Material   materials.Properties `json:"material"`
	Integrator string               `json:"integrator,omitempty"`
	Samples    []Sample             `json:"samples"`
	Summary    Summary              `json:"summary"`
	Impact     Impact               `json:"impact"`
	Metrics    map[string]float64   `json:"metrics,omitempty"`
}

type Collision struct {
	FinalVelocity1 Vec      `json:"final_velocity1"`
	FinalVelocity2 Vec      `json:"final_velocity2"`
	EnergyLoss     float64  `json:"energy_loss"`
	ImpactForce    float64  `json:"impact_force"`
	Momentum       Momentum `json:"momentum"`
}

type Momentum struct {
	Before Vec `json:"before"`
	After  Vec `json:"after"`
}

type Forces struct {
	Gravity  Vec  `json:"gravity"`
	Drag     *Vec `json:"drag,omitempty"`
	Buoyancy Vec  `json:"buoyancy"`
	Net      Vec  `json:"net"`
}

func NewSample(s physics.Sample) Sample {
	return Sample{
		Time:  Round(s.Time, SampleDigits),
		X:     Round(s.X, SampleDigits),
		Y:     Round(s.Y, SampleDigits),
		VX:    Round(s.VX, SampleDigits),
		VY:    Round(s.VY, SampleDigits),
		Speed: Round(s.Speed, SampleDigits),
	}
}

func NewSummary(s physics.Summary) Summary {
	return Summary{
		MaxHeight:  Round(s.MaxHeight, SummaryDigits),
		Range:      Round(s.Range, SummaryDigits),
		FlightTime: Round(s.FlightTime, SummaryDigits),
		LandingVelocity: Landing{
			VX:    Round(s.LandingVelocity.X, SummaryDigits),
			VY:    Round(s.LandingVelocity.Y, SummaryDigits),
			Speed: Round(s.LandingSpeed, SummaryDigits),
		},
		Steps:     s.Steps,
		Truncated: s.Truncated,
	}
}

func NewImpact(i physics.Impact, surface string) Impact {
	return Impact{
		Speed:         Round(i.Speed, ImpactDigits),
		KineticEnergy: Round(i.KineticEnergy, ImpactDigits),
		Force:         Round(i.Force, ImpactDigits),
		Angle:         Round(i.Angle, ImpactDigits),
		ContactTimeMs: Round(i.ContactTime*1000, ImpactDigits),
		Surface:       surface,
	}
}

// NewTrajectory rounds a finished run. It fails with physics.ErrNonFinite
// when any sample or derived value is NaN or Inf.
func NewTrajectory(mat materials.Properties, samples []physics.Sample, surface string, metrics map[string]float64) (*Trajectory, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w: empty trajectory", physics.ErrNonFinite)
	}

	out := &Trajectory{
		Material: mat,
		Samples:  make([]Sample, len(samples)),
		Metrics:  make(map[string]float64, len(metrics)),
	}
	for i, s := range samples {
		if !s.IsFinite() {
			return nil, fmt.Errorf("%w: sample %d at t=%g", physics.ErrNonFinite, i, s.Time)
		}
		out.Samples[i] = NewSample(s)
	}

	summary := physics.Summarize(samples)
	impact := physics.EstimateImpact(summary.LandingVelocity, mat, surface)
	if !finite(summary.MaxHeight, impact.Force, impact.KineticEnergy) {
		return nil, fmt.Errorf("%w: summary", physics.ErrNonFinite)
	}

	out.Summary = NewSummary(summary)
	out.Impact = NewImpact(impact, surface)
	for name, v := range metrics {
		out.Metrics[name] = Round(v, SummaryDigits)
	}
	return out, nil
}

func NewCollision(c physics.Collision) (*Collision, error) {
	if !finite(c.V1.X, c.V1.Y, c.V2.X, c.V2.Y, c.EnergyLoss, c.ImpactForce) {
		return nil, fmt.Errorf("%w: collision", physics.ErrNonFinite)
	}
	return &Collision{
		FinalVelocity1: RoundVec(c.V1, CollisionDigits),
		FinalVelocity2: RoundVec(c.V2, CollisionDigits),
		EnergyLoss:     Round(c.EnergyLoss, CollisionDigits),
		ImpactForce:    Round(c.ImpactForce, CollisionForce),
		Momentum: Momentum{
			Before: RoundVec(c.MomentumBefore, CollisionDigits),
			After:  RoundVec(c.MomentumAfter, CollisionDigits),
		},
	}, nil
}

func NewForces(f physics.Forces) (*Forces, error) {
	if !f.Net.IsFinite() {
		return nil, fmt.Errorf("%w: forces", physics.ErrNonFinite)
	}
	out := &Forces{
		Gravity:  RoundVec(f.Gravity, ForceDigits),
		Buoyancy: RoundVec(f.Buoyancy, ForceDigits),
		Net:      RoundVec(f.Net, ForceDigits),
	}
	if f.Drag != nil {
		d := RoundVec(*f.Drag, ForceDigits)
		out.Drag = &d
	}
	return out, nil
}
