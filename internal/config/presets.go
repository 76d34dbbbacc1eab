package config

import (
	"sort"

	"github.com/san-kum/ballistics/internal/materials"
	"github.com/san-kum/ballistics/internal/physics"
)

// Preset is a named launch. Zero air density and gravity mean "use the
// environment".
type Preset struct {
	Description string
	Launch      physics.Params
	Surface     string
}

var Presets = map[string]Preset{
	"free_throw": {
		Description: "basketball free throw from shoulder height",
		Launch:      physics.Params{InitialHeight: 2.1, InitialVelocity: 7.3, LaunchAngle: 52, Material: materials.Basketball},
		Surface:     physics.SurfaceWood,
	},
	"fastball": {
		Description: "flat pitch released at 40 m/s",
		Launch:      physics.Params{InitialHeight: 1.8, InitialVelocity: 40, LaunchAngle: 1, Material: materials.Baseball},
		Surface:     physics.SurfaceGrass,
	},
	"golf_drive": {
		Description: "driver off the tee",
		Launch:      physics.Params{InitialVelocity: 70, LaunchAngle: 12, Material: materials.GolfBall},
		Surface:     physics.SurfaceGrass,
	},
	"tennis_serve": {
		Description: "downward serve from 2.8 m",
		Launch:      physics.Params{InitialHeight: 2.8, InitialVelocity: 50, LaunchAngle: -6, Material: materials.TennisBall},
		Surface:     physics.SurfaceConcrete,
	},
	"goal_kick": {
		Description: "long goal kick into a headwind",
		Launch:      physics.Params{InitialVelocity: 28, LaunchAngle: 35, Material: materials.SoccerBall, WindSpeed: 6, WindDirection: 180},
		Surface:     physics.SurfaceGrass,
	},
	"cliff_drop": {
		Description: "bowling ball dropped from a 50 m cliff into water",
		Launch:      physics.Params{InitialHeight: 50, InitialVelocity: 0.5, LaunchAngle: 0, Material: materials.BowlingBall},
		Surface:     physics.SurfaceWater,
	},
}

// GetPreset returns the named launch with the environment filled in.
func GetPreset(name string, env physics.Environment) (Preset, bool) {
	p, ok := Presets[name]
	if !ok {
		return Preset{}, false
	}
	if p.Launch.AirDensity == 0 {
		p.Launch.AirDensity = env.AirDensity
	}
	if p.Launch.Gravity == 0 {
		p.Launch.Gravity = env.Gravity
	}
	return p, true
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
