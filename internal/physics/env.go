package physics

import (
	"fmt"
	"math"
)

const (
	DefaultGravity    = 9.81
	DefaultAirDensity = 1.225
	DefaultDt         = 0.01
	DefaultMaxTime    = 300.0

	// NominalContactTime is the contact duration assumed for collisions.
	NominalContactTime = 0.01
)

// Environment holds the process-wide physical constants and the
// integration settings.
type Environment struct {
	Gravity    float64
	AirDensity float64
	Dt         float64
	MaxTime    float64
}

func DefaultEnvironment() Environment {
	return Environment{
		Gravity:    DefaultGravity,
		AirDensity: DefaultAirDensity,
		Dt:         DefaultDt,
		MaxTime:    DefaultMaxTime,
	}
}

func (e Environment) Validate() error {
	if !(e.Gravity > 0) {
		return fmt.Errorf("%w: gravity must be positive, got %g", ErrInvalidEnvironment, e.Gravity)
	}
	if !(e.AirDensity > 0) {
		return fmt.Errorf("%w: air density must be positive, got %g", ErrInvalidEnvironment, e.AirDensity)
	}
	if !(e.Dt > 0) {
		return fmt.Errorf("%w: dt must be positive, got %g", ErrInvalidEnvironment, e.Dt)
	}
	if !(e.MaxTime >= e.Dt) || math.IsInf(e.MaxTime, 0) {
		return fmt.Errorf("%w: max time must be finite and at least dt, got %g", ErrInvalidEnvironment, e.MaxTime)
	}
	return nil
}

// MaxSteps bounds the number of integration steps of one trajectory.
func (e Environment) MaxSteps() int {
	dt, maxTime := e.Dt, e.MaxTime
	if !(dt > 0) {
		dt = DefaultDt
	}
	if !(maxTime > 0) || math.IsInf(maxTime, 0) {
		maxTime = DefaultMaxTime
	}
	return int(math.Floor(maxTime/dt + 1e-9))
}
