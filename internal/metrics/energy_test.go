package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/ballistics/internal/dynamo"
)

// ball is a point mass in uniform gravity. State layout: [x, y, vx, vy].
type ball struct{ mass, gravity float64 }

func (b ball) StateDim() int { return 4 }

func (b ball) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[2], x[3], 0, -b.gravity}
}

func (b ball) Energy(x dynamo.State) float64 {
	return 0.5*b.mass*(x[2]*x[2]+x[3]*x[3]) + b.mass*b.gravity*x[1]
}

func TestEnergyDissipated(t *testing.T) {
	m := NewEnergyDissipated(ball{mass: 2, gravity: 10})

	// KE 0.5*2*(3^2+4^2) = 25, PE 2*10*1 = 20
	m.Observe(dynamo.State{0, 1, 3, 4}, 0)
	if m.Value() != 0 {
		t.Errorf("expected zero after one observation, got %f", m.Value())
	}

	// KE 0.5*2*9 = 9, PE 0
	m.Observe(dynamo.State{1, 0, 3, 0}, 0.1)
	if math.Abs(m.Value()-36) > 1e-9 {
		t.Errorf("expected 36 dissipated, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero after reset")
	}
}

func TestPeakSpeedAndApex(t *testing.T) {
	ms := Default(ball{mass: 1, gravity: 9.81})
	states := []dynamo.State{
		{0, 0, 3, 4},
		{1, 2, 3, 1},
		{2, 2.5, 3, 0},
		{3, 2, 3, -2},
	}
	for i, x := range states {
		for _, m := range ms {
			m.Observe(x, float64(i)*0.5)
		}
	}

	got := Collect(ms)
	if got["peak_speed"] != 5 {
		t.Errorf("expected peak speed 5, got %f", got["peak_speed"])
	}
	if got["apex_time"] != 1.0 {
		t.Errorf("expected apex at t=1.0, got %f", got["apex_time"])
	}
	if _, ok := got["energy_dissipated"]; !ok {
		t.Error("energy_dissipated missing")
	}
}

func TestShortStateIgnored(t *testing.T) {
	p := NewPeakSpeed()
	p.Observe(dynamo.State{1}, 0)
	if p.Value() != 0 {
		t.Errorf("expected 0, got %f", p.Value())
	}
}
