package metrics

import (
	"math"

	"github.com/san-kum/fcell/internal/ode"
)

// Charge accumulates the net double-layer charge moved over the solve,
// summed across interfaces: sum_k C_dl[k] * |dphi_final - dphi_initial|.
type Charge struct {
	name  string
	cdl   []float64
	first ode.State
	last  ode.State
}

func NewCharge(cdl ...float64) *Charge {
	return &Charge{
		name: "charge_moved",
		cdl:  cdl,
	}
}

func (c *Charge) Name() string {
	return c.name
}

func (c *Charge) Observe(t float64, y ode.State) {
	if c.first == nil {
		c.first = y.Clone()
	}
	c.last = y.Clone()
}

func (c *Charge) Value() float64 {
	if c.first == nil || c.last == nil {
		return 0
	}
	total := 0.0
	for i := range c.first {
		if i >= len(c.cdl) || i >= len(c.last) {
			break
		}
		total += c.cdl[i] * math.Abs(c.last[i]-c.first[i])
	}
	return total
}

func (c *Charge) Reset() {
	c.first = nil
	c.last = nil
}
