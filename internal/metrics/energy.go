package metrics

import (
	"github.com/san-kum/ballistics/internal/dynamo"
)

// EnergyDissipated tracks how much mechanical energy the system has lost
// to drag since the first observation.
type EnergyDissipated struct {
	name    string
	sys     dynamo.Hamiltonian
	initial float64
	current float64
	samples int
}

func NewEnergyDissipated(sys dynamo.Hamiltonian) *EnergyDissipated {
	return &EnergyDissipated{
		name: "energy_dissipated",
		sys:  sys,
	}
}

func (e *EnergyDissipated) Name() string { return e.name }

func (e *EnergyDissipated) Observe(x dynamo.State, t float64) {
	if len(x) < e.sys.StateDim() {
		return
	}
	energy := e.sys.Energy(x)
	if e.samples == 0 {
		e.initial = energy
	}
	e.current = energy
	e.samples++
}

func (e *EnergyDissipated) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.initial - e.current
}

func (e *EnergyDissipated) Reset() {
	e.initial = 0
	e.current = 0
	e.samples = 0
}
