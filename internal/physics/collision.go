package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ballistics/internal/dynamo"
)

// Body is a point mass.
type Body struct {
	Mass     float64
	Velocity dynamo.Vec2
}

func (b Body) Validate() error {
	if !(b.Mass > 0) || math.IsInf(b.Mass, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidMass, b.Mass)
	}
	if !b.Velocity.IsFinite() {
		return fmt.Errorf("%w: velocity %v", ErrNonFinite, b.Velocity)
	}
	return nil
}

func (b Body) Momentum() dynamo.Vec2 { return b.Velocity.Scale(b.Mass) }

func (b Body) KineticEnergy() float64 { return 0.5 * b.Mass * b.Velocity.LenSq() }

// ValidateRestitution accepts [0, 2]; values above 1 add energy.
func ValidateRestitution(e float64) error {
	if !(e >= 0 && e <= 2) {
		return fmt.Errorf("%w, got %g", ErrInvalidRestitution, e)
	}
	return nil
}

type Collision struct {
	V1             dynamo.Vec2
	V2             dynamo.Vec2
	EnergyLoss     float64
	ImpactForce    float64
	MomentumBefore dynamo.Vec2
	MomentumAfter  dynamo.Vec2
}

// ResolveCollision applies the one-dimensional exchange formula to each
// axis independently. This ignores the contact normal, so it is exact only
// for head-on collisions along an axis. EnergyLoss is negative when the
// restitution exceeds 1. ImpactForce assumes a fixed 10ms contact.
func ResolveCollision(a, b Body, restitution float64) Collision {
	total := a.Mass + b.Mass
	rel := a.Velocity.Sub(b.Velocity)

	v1 := a.Velocity.Sub(rel.Scale(2 * b.Mass / total * restitution))
	v2 := b.Velocity.Add(rel.Scale(2 * a.Mass / total * restitution))

	after1 := Body{Mass: a.Mass, Velocity: v1}
	after2 := Body{Mass: b.Mass, Velocity: v2}

	return Collision{
		V1:             v1,
		V2:             v2,
		EnergyLoss:     a.KineticEnergy() + b.KineticEnergy() - after1.KineticEnergy() - after2.KineticEnergy(),
		ImpactForce:    a.Mass * rel.Len() / NominalContactTime,
		MomentumBefore: a.Momentum().Add(b.Momentum()),
		MomentumAfter:  after1.Momentum().Add(after2.Momentum()),
	}
}
