package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/ballistics/internal/dynamo"
)

// oscillator is x'' = -x laid out as [x, v].
type oscillator struct{}

func (s *oscillator) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -x[0]}
}

func (s *oscillator) StateDim() int { return 2 }

// freeFall is constant downward acceleration laid out as [x, y, vx, vy].
type freeFall struct{ g float64 }

func (f *freeFall) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[2], x[3], 0, -f.g}
}

func (f *freeFall) StateDim() int { return 4 }

func TestRK4Accuracy(t *testing.T) {
	dyn := &oscillator{}
	integ := NewRK4()

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}

	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestSemiImplicitEulerOrdering(t *testing.T) {
	dyn := &freeFall{g: 10}
	integ := NewSemiImplicitEuler()

	x := integ.Step(dyn, dynamo.State{0, 0, 1, 0}, 0, 0.1)

	// velocity is updated first, position uses the new velocity
	if math.Abs(x[3]-(-1.0)) > 1e-12 {
		t.Errorf("expected vy -1, got %f", x[3])
	}
	if math.Abs(x[1]-(-0.1)) > 1e-12 {
		t.Errorf("expected y -0.1, got %f", x[1])
	}
	if math.Abs(x[0]-0.1) > 1e-12 {
		t.Errorf("expected x 0.1, got %f", x[0])
	}
}

func TestIntegratorsFreeFall(t *testing.T) {
	dyn := &freeFall{g: 9.81}
	dt := 0.01
	steps := 100

	tests := []struct {
		name string
		tol  float64
	}{
		{SemiEulerName, 0.06},
		{RK4Name, 1e-9},
		{VerletName, 1e-9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			integ, err := New(tt.name)
			if err != nil {
				t.Fatalf("new integrator: %v", err)
			}
			x := dynamo.State{0, 0, 0, 0}
			for i := 0; i < steps; i++ {
				x = integ.Step(dyn, x, float64(i)*dt, dt)
			}
			expected := -0.5 * 9.81 * 1.0
			if math.Abs(x[1]-expected) > tt.tol {
				t.Errorf("expected y %.6f, got %.6f", expected, x[1])
			}
		})
	}
}

func TestRegistry(t *testing.T) {
	integ, err := New("")
	if err != nil {
		t.Fatalf("default integrator: %v", err)
	}
	if integ.Name() != SemiEulerName {
		t.Errorf("expected default %s, got %s", SemiEulerName, integ.Name())
	}

	if _, err := New("RK4"); err != nil {
		t.Errorf("lookup should be case-insensitive: %v", err)
	}

	if _, err := New("leapfrog"); err == nil {
		t.Error("expected error for unknown integrator")
	}

	if len(Names()) != 3 {
		t.Errorf("expected 3 integrators, got %v", Names())
	}
}

// linearDrag decays velocity as v' = -k v, laid out as [x, v].
type linearDrag struct{ k float64 }

func (d *linearDrag) Derive(x dynamo.State, t float64) dynamo.State {
	return dynamo.State{x[1], -d.k * x[1]}
}

func (d *linearDrag) StateDim() int { return 2 }

func TestVerletVelocityDependentForce(t *testing.T) {
	dyn := &linearDrag{k: 1}
	integ := NewVerlet()

	x := dynamo.State{0, 10}
	dt := 0.01
	for i := 0; i < 100; i++ {
		x = integ.Step(dyn, x, float64(i)*dt, dt)
	}

	expected := 10 * math.Exp(-1)
	if math.Abs(x[1]-expected) > 1e-4 {
		t.Errorf("expected v %.6f, got %.6f", expected, x[1])
	}
}
