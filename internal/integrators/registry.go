package integrators

import (
	"fmt"
	"sort"
	"strings"

	"github.com/san-kum/ballistics/internal/dynamo"
)

const (
	SemiEulerName = "semi-euler"
	RK4Name       = "rk4"
	VerletName    = "verlet"
)

var registry = map[string]func() dynamo.Integrator{
	SemiEulerName: func() dynamo.Integrator { return NewSemiImplicitEuler() },
	RK4Name:       func() dynamo.Integrator { return NewRK4() },
	VerletName:    func() dynamo.Integrator { return NewVerlet() },
}

// New returns a fresh integrator by name. The empty name selects the
// semi-implicit Euler scheme.
func New(name string) (dynamo.Integrator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = SemiEulerName
	}
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
