package integrators

import "github.com/san-kum/ballistics/internal/dynamo"

// Verlet is velocity Verlet. Drag depends on velocity, so the acceleration
// at the new position is evaluated with a predicted velocity v + a*dt
// rather than the stale one.
type Verlet struct {
	predicted dynamo.State
}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Name() string { return VerletName }

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, t, dt float64) dynamo.State {
	n := len(x)
	half := n / 2
	if len(v.predicted) != n {
		v.predicted = make(dynamo.State, n)
	}

	a := dyn.Derive(x, t)
	next := make(dynamo.State, n)
	for i := 0; i < half; i++ {
		vel, acc := x[half+i], a[half+i]
		next[i] = x[i] + vel*dt + 0.5*acc*dt*dt
		v.predicted[i] = next[i]
		v.predicted[half+i] = vel + acc*dt
	}

	aNext := dyn.Derive(v.predicted, t+dt)
	for i := 0; i < half; i++ {
		next[half+i] = x[half+i] + 0.5*(a[half+i]+aNext[half+i])*dt
	}
	return next
}
