package physics

import (
	"math"
	"sort"
	"strings"

	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/materials"
)

const (
	SurfaceConcrete = "concrete"
	SurfaceGrass    = "grass"
	SurfaceSand     = "sand"
	SurfaceWater    = "water"
	SurfaceWood     = "wood"
	SurfaceMetal    = "metal"
)

var surfaceHardness = map[string]float64{
	SurfaceConcrete: 1.0,
	SurfaceGrass:    0.7,
	SurfaceSand:     0.5,
	SurfaceWater:    0.3,
	SurfaceWood:     0.8,
	SurfaceMetal:    1.2,
}

// SurfaceFactor scales impact force by surface hardness. Unknown
// surfaces count as concrete.
func SurfaceFactor(surface string) float64 {
	if f, ok := surfaceHardness[strings.ToLower(strings.TrimSpace(surface))]; ok {
		return f
	}
	return 1.0
}

func Surfaces() []string {
	names := make([]string, 0, len(surfaceHardness))
	for name := range surfaceHardness {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

type Impact struct {
	Speed         float64
	KineticEnergy float64
	Force         float64
	// Angle below the horizontal in degrees, 0..90.
	Angle float64
	// ContactTime in seconds.
	ContactTime float64
}

// EstimateImpact models contact time as restitution*10ms: bouncier
// materials stay in contact longer. A zero contact time yields zero force.
func EstimateImpact(v dynamo.Vec2, m materials.Properties, surface string) Impact {
	speed := v.Len()
	contact := m.Restitution * NominalContactTime

	force := 0.0
	if contact > 0 {
		force = m.Mass * speed / contact * SurfaceFactor(surface)
	}

	return Impact{
		Speed:         speed,
		KineticEnergy: 0.5 * m.Mass * speed * speed,
		Force:         force,
		Angle:         math.Atan2(math.Abs(v.Y), math.Abs(v.X)) * 180 / math.Pi,
		ContactTime:   contact,
	}
}
