// Package optim searches launch angles for a goal such as maximum range
// or landing at a given distance.
package optim

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/san-kum/ballistics/internal/physics"
)

var ErrNoCandidates = errors.New("optim: empty search grid")

// Objective scores a finished flight; lower is better.
type Objective func(physics.Summary) float64

// MaxRange prefers the longest flight.
func MaxRange() Objective {
	return func(s physics.Summary) float64 { return -s.Range }
}

// HitTarget prefers flights landing closest to x metres downrange.
func HitTarget(x float64) Objective {
	return func(s physics.Summary) float64 { return math.Abs(s.Range - x) }
}

type Result struct {
	Angle   float64
	Score   float64
	Summary physics.Summary
	Evals   int
}

// GridSearch scans the launch angle over [Min, Max] in Step increments,
// then rescans Refine times around the best angle with a step ten times
// finer.
type GridSearch struct {
	Min, Max float64
	Step     float64
	Refine   int
}

func NewGridSearch() *GridSearch {
	return &GridSearch{Min: -89, Max: 89, Step: 1, Refine: 2}
}

func (g *GridSearch) Search(ctx context.Context, base physics.Params, env physics.Environment, obj Objective) (Result, error) {
	best := Result{Score: math.Inf(1)}
	lo, hi, step := g.Min, g.Max, g.Step

	for pass := 0; pass <= g.Refine; pass++ {
		angles := grid(lo, hi, step)
		if len(angles) == 0 {
			return best, fmt.Errorf("%w: [%g, %g] step %g", ErrNoCandidates, lo, hi, step)
		}

		launches := make([]physics.Params, len(angles))
		for i, a := range angles {
			launches[i] = base
			launches[i].LaunchAngle = a
		}
		flights, err := physics.SimulateBatch(ctx, launches, env)
		if err != nil {
			return best, err
		}

		for i, samples := range flights {
			sum := physics.Summarize(samples)
			score := obj(sum)
			if score < best.Score {
				best.Angle, best.Score, best.Summary = angles[i], score, sum
			}
		}
		best.Evals += len(angles)

		lo = math.Max(g.Min, best.Angle-step)
		hi = math.Min(g.Max, best.Angle+step)
		step /= 10
	}
	return best, nil
}

func grid(lo, hi, step float64) []float64 {
	if !(step > 0) || hi < lo {
		return nil
	}
	n := int(math.Floor((hi-lo)/step+1e-9)) + 1
	out := make([]float64, n)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	return out
}
