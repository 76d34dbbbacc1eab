package physics

import "errors"

// Validation errors. The core never returns these itself; they are
// produced by the Validate helpers that callers run before invoking it.
var (
	ErrInvalidVelocity    = errors.New("physics: initial velocity must be positive")
	ErrInvalidAngle       = errors.New("physics: launch angle must be within [-90, 90] degrees")
	ErrInvalidHeight      = errors.New("physics: initial height must be non-negative")
	ErrInvalidWind        = errors.New("physics: invalid wind")
	ErrInvalidEnvironment = errors.New("physics: invalid environment")
	ErrInvalidMass        = errors.New("physics: mass must be positive")
	ErrInvalidRestitution = errors.New("physics: restitution must be within [0, 2]")

	// ErrNonFinite indicates a NaN or Inf reached a result.
	ErrNonFinite = errors.New("physics: non-finite value in result")
)
