package physics

import (
	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/materials"
)

// Projectile is a sphere moving in a vertical plane through moving air.
// State layout: [x, y, vx, vy].
type Projectile struct {
	Material   materials.Properties
	Gravity    float64
	AirDensity float64
	Wind       dynamo.Vec2

	x0 dynamo.State
}

func NewProjectile(p Params) *Projectile {
	v := p.LaunchVelocity()
	return &Projectile{
		Material:   materials.Lookup(p.Material),
		Gravity:    p.Gravity,
		AirDensity: p.AirDensity,
		Wind:       p.Wind(),
		x0:         dynamo.State{0, p.InitialHeight, v.X, v.Y},
	}
}

func (pr *Projectile) StateDim() int { return 4 }

func (pr *Projectile) InitialState() dynamo.State { return pr.x0.Clone() }

func (pr *Projectile) Derive(x dynamo.State, t float64) dynamo.State {
	v := dynamo.V(x[2], x[3])
	drag := dragForce(v.Sub(pr.Wind), pr.Material, pr.AirDensity)
	a := drag.Scale(1 / pr.Material.Mass)
	return dynamo.State{x[2], x[3], a.X, a.Y - pr.Gravity}
}

// Energy is kinetic plus potential energy relative to ground level.
func (pr *Projectile) Energy(x dynamo.State) float64 {
	m := pr.Material.Mass
	return 0.5*m*(x[2]*x[2]+x[3]*x[3]) + m*pr.Gravity*x[1]
}

// dragForce is quadratic drag opposing rel, the velocity relative to the air.
func dragForce(rel dynamo.Vec2, m materials.Properties, airDensity float64) dynamo.Vec2 {
	speed := rel.Len()
	if speed == 0 {
		return dynamo.Vec2{}
	}
	magnitude := 0.5 * m.DragCoefficient * airDensity * m.CrossSection() * speed * speed
	return rel.Unit().Scale(-magnitude)
}
