package integrators

import "github.com/san-kum/fcell/internal/ode"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys ode.System, y ode.State, t float64, dt float64) ode.State {
	dy := sys.Derive(t, y)
	result := make(ode.State, len(y))
	for i := range y {
		result[i] = y[i] + dt*dy[i]
	}
	return result
}
