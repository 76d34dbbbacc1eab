package physics

import (
	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/materials"
)

// Forces acting on a single object. Drag is nil when it was not requested.
type Forces struct {
	Gravity  dynamo.Vec2
	Drag     *dynamo.Vec2
	Buoyancy dynamo.Vec2
	Net      dynamo.Vec2
}

// ComposeForces uses mass for gravity and the material's shape for drag
// and buoyancy. Air is treated as still.
func ComposeForces(mass float64, v dynamo.Vec2, m materials.Properties, includeDrag bool, env Environment) Forces {
	f := Forces{
		Gravity:  dynamo.V(0, -mass*env.Gravity),
		Buoyancy: dynamo.V(0, env.AirDensity*env.Gravity*m.Volume()),
	}
	f.Net = f.Gravity.Add(f.Buoyancy)

	if includeDrag {
		drag := dragForce(v, m, env.AirDensity)
		f.Drag = &drag
		f.Net = f.Net.Add(drag)
	}
	return f
}
