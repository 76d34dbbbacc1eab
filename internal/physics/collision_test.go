package physics

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/san-kum/ballistics/internal/dynamo"
)

var approx = cmpopts.EquateApprox(1e-9, 1e-9)

func TestResolveCollision_Example(t *testing.T) {
	a := Body{Mass: 2, Velocity: dynamo.V(10, 0)}
	b := Body{Mass: 1, Velocity: dynamo.V(0, 0)}

	got := ResolveCollision(a, b, 1.0)

	want := Collision{
		V1:             dynamo.V(10.0/3.0, 0),
		V2:             dynamo.V(40.0/3.0, 0),
		EnergyLoss:     0,
		ImpactForce:    2 * 10 / 0.01,
		MomentumBefore: dynamo.V(20, 0),
		MomentumAfter:  dynamo.V(20, 0),
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("ResolveCollision mismatch (-want +got):\n%s", diff)
	}
}

func TestResolveCollision_MomentumConserved(t *testing.T) {
	tests := []struct {
		name string
		a, b Body
	}{
		{"head on", Body{1, dynamo.V(5, 0)}, Body{1, dynamo.V(-5, 0)}},
		{"oblique", Body{3, dynamo.V(2, 7)}, Body{0.5, dynamo.V(-1, 4)}},
		{"heavy target", Body{0.1, dynamo.V(30, -2)}, Body{100, dynamo.V(0, 0)}},
		{"both moving", Body{4.2, dynamo.V(-3, -3)}, Body{2.7, dynamo.V(8, 1.5)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ResolveCollision(tt.a, tt.b, 1.0)
			for axis, pair := range [][2]float64{
				{c.MomentumBefore.X, c.MomentumAfter.X},
				{c.MomentumBefore.Y, c.MomentumAfter.Y},
			} {
				before, after := pair[0], pair[1]
				scale := math.Max(1, math.Abs(before))
				if math.Abs(before-after)/scale > 1e-6 {
					t.Errorf("axis %d: momentum %f before, %f after", axis, before, after)
				}
			}
		})
	}
}

func TestResolveCollision_EnergyLossSign(t *testing.T) {
	a := Body{Mass: 2, Velocity: dynamo.V(6, 1)}
	b := Body{Mass: 3, Velocity: dynamo.V(-2, 0.5)}

	for _, e := range []float64{0, 0.25, 0.5, 0.75, 1.0} {
		if loss := ResolveCollision(a, b, e).EnergyLoss; loss < -1e-9 {
			t.Errorf("restitution %.2f: expected non-negative loss, got %f", e, loss)
		}
	}

	if loss := ResolveCollision(a, b, 1.5).EnergyLoss; loss >= 0 {
		t.Errorf("restitution 1.5: expected energy gain, got loss %f", loss)
	}
}

func TestResolveCollision_ForceIgnoresRestitution(t *testing.T) {
	a := Body{Mass: 1.5, Velocity: dynamo.V(3, 4)}
	b := Body{Mass: 1, Velocity: dynamo.V(0, 0)}

	f1 := ResolveCollision(a, b, 0.2).ImpactForce
	f2 := ResolveCollision(a, b, 1.8).ImpactForce
	if f1 != f2 {
		t.Errorf("impact force depends on restitution: %f vs %f", f1, f2)
	}
	if math.Abs(f1-1.5*5/0.01) > 1e-9 {
		t.Errorf("expected force 750, got %f", f1)
	}
}

func TestBodyValidate(t *testing.T) {
	tests := []struct {
		name string
		body Body
		want error
	}{
		{"valid", Body{1, dynamo.V(1, 2)}, nil},
		{"zero mass", Body{0, dynamo.V(1, 2)}, ErrInvalidMass},
		{"negative mass", Body{-2, dynamo.V(1, 2)}, ErrInvalidMass},
		{"NaN mass", Body{math.NaN(), dynamo.V(1, 2)}, ErrInvalidMass},
		{"infinite velocity", Body{1, dynamo.V(math.Inf(1), 0)}, ErrNonFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.body.Validate()
			if tt.want == nil && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateRestitution(t *testing.T) {
	for _, e := range []float64{0, 0.5, 1, 2} {
		if err := ValidateRestitution(e); err != nil {
			t.Errorf("restitution %f rejected: %v", e, err)
		}
	}
	for _, e := range []float64{-0.1, 2.01, math.NaN()} {
		if err := ValidateRestitution(e); !errors.Is(err, ErrInvalidRestitution) {
			t.Errorf("restitution %f: expected ErrInvalidRestitution, got %v", e, err)
		}
	}
}
