package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ballistics/internal/dynamo"
	"github.com/san-kum/ballistics/internal/materials"
)

// Params describes one launch. Angles are in degrees, measured
// counter-clockwise from +X; wind direction is the direction the wind
// blows towards.
type Params struct {
	InitialHeight   float64 `json:"initial_height"`
	InitialVelocity float64 `json:"initial_velocity"`
	LaunchAngle     float64 `json:"launch_angle"`
	Material        string  `json:"material"`
	WindSpeed       float64 `json:"wind_speed"`
	WindDirection   float64 `json:"wind_direction"`
	AirDensity      float64 `json:"air_density"`
	Gravity         float64 `json:"gravity"`
}

func DefaultParams(env Environment) Params {
	return Params{
		InitialHeight:   0,
		InitialVelocity: 20,
		LaunchAngle:     45,
		Material:        materials.Basketball,
		AirDensity:      env.AirDensity,
		Gravity:         env.Gravity,
	}
}

func (p Params) Validate() error {
	if !(p.InitialVelocity > 0) || math.IsInf(p.InitialVelocity, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidVelocity, p.InitialVelocity)
	}
	if !(p.LaunchAngle >= -90 && p.LaunchAngle <= 90) {
		return fmt.Errorf("%w, got %g", ErrInvalidAngle, p.LaunchAngle)
	}
	if !(p.InitialHeight >= 0) || math.IsInf(p.InitialHeight, 0) {
		return fmt.Errorf("%w, got %g", ErrInvalidHeight, p.InitialHeight)
	}
	if !(p.WindSpeed >= 0) || math.IsInf(p.WindSpeed, 0) {
		return fmt.Errorf("%w: speed must be finite and non-negative, got %g", ErrInvalidWind, p.WindSpeed)
	}
	if math.IsNaN(p.WindDirection) || math.IsInf(p.WindDirection, 0) {
		return fmt.Errorf("%w: direction must be finite, got %g", ErrInvalidWind, p.WindDirection)
	}
	if !(p.AirDensity > 0) || math.IsInf(p.AirDensity, 0) {
		return fmt.Errorf("%w: air density must be positive, got %g", ErrInvalidEnvironment, p.AirDensity)
	}
	if !(p.Gravity > 0) || math.IsInf(p.Gravity, 0) {
		return fmt.Errorf("%w: gravity must be positive, got %g", ErrInvalidEnvironment, p.Gravity)
	}
	return nil
}

func (p Params) LaunchVelocity() dynamo.Vec2 {
	return dynamo.Polar(p.InitialVelocity, p.LaunchAngle)
}

func (p Params) Wind() dynamo.Vec2 {
	return dynamo.Polar(p.WindSpeed, p.WindDirection)
}
