package metrics

import (
	"github.com/san-kum/fcell/internal/ode"
)

// Convergence reports the residual norm ||dy/dt|| at the last observed
// sample. A value near zero means the solve reached steady state.
type Convergence struct {
	name string
	sys  ode.System
	last float64
	seen bool
}

func NewConvergence(sys ode.System) *Convergence {
	return &Convergence{
		name: "residual",
		sys:  sys,
	}
}

func (c *Convergence) Name() string {
	return c.name
}

func (c *Convergence) Observe(t float64, y ode.State) {
	c.last = c.sys.Derive(t, y).Norm()
	c.seen = true
}

func (c *Convergence) Value() float64 {
	if !c.seen {
		return 0
	}
	return c.last
}

func (c *Convergence) Reset() {
	c.last = 0
	c.seen = false
}
