package metrics

import (
	"math"

	"github.com/san-kum/ballistics/internal/dynamo"
)

type PeakSpeed struct {
	peak float64
}

func NewPeakSpeed() *PeakSpeed { return &PeakSpeed{} }

func (p *PeakSpeed) Name() string { return "peak_speed" }

func (p *PeakSpeed) Observe(x dynamo.State, t float64) {
	if len(x) < 4 {
		return
	}
	p.peak = math.Max(p.peak, math.Hypot(x[2], x[3]))
}

func (p *PeakSpeed) Value() float64 { return p.peak }
func (p *PeakSpeed) Reset()         { p.peak = 0 }

// ApexTime records when the projectile was highest.
type ApexTime struct {
	best    float64
	at      float64
	samples int
}

func NewApexTime() *ApexTime { return &ApexTime{} }

func (a *ApexTime) Name() string { return "apex_time" }

func (a *ApexTime) Observe(x dynamo.State, t float64) {
	if len(x) < 2 {
		return
	}
	if a.samples == 0 || x[1] > a.best {
		a.best = x[1]
		a.at = t
	}
	a.samples++
}

func (a *ApexTime) Value() float64 { return a.at }

func (a *ApexTime) Reset() {
	a.best = 0
	a.at = 0
	a.samples = 0
}

// Default returns the metrics reported with every trajectory of sys.
func Default(sys dynamo.Hamiltonian) []dynamo.Metric {
	return []dynamo.Metric{
		NewEnergyDissipated(sys),
		NewPeakSpeed(),
		NewApexTime(),
	}
}

// Collect reads every metric into a map keyed by name.
func Collect(ms []dynamo.Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
