// Package present converts physics results into rounded, JSON-ready
// values. Rounding happens only here; the physics package keeps full
// precision.
package present

import (
	"math"

	"github.com/san-kum/ballistics/internal/dynamo"
)

// Decimal places per output family.
const (
	SampleDigits    = 3
	SummaryDigits   = 3
	ImpactDigits    = 2
	CollisionDigits = 3
	CollisionForce  = 2
	ForceDigits     = 6
)

// Round rounds half away from zero to the given number of decimals.
func Round(v float64, digits int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(digits))
	r := math.Round(v*p) / p
	if r == 0 {
		// avoid -0 in JSON
		return 0
	}
	return r
}

func RoundVec(v dynamo.Vec2, digits int) Vec {
	return Vec{X: Round(v.X, digits), Y: Round(v.Y, digits)}
}

type Vec struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func finite(vals ...float64) bool {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
