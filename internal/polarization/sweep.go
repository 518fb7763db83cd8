package polarization

import (
	"context"
	"fmt"

	"github.com/san-kum/fcell/internal/ode"
)

// Cell is a current-driven system the sweep can walk along. Both the
// full stack and the half cell satisfy it.
type Cell interface {
	ode.System
	SetCurrent(i float64)
	EquilibriumState() ode.State
	CellVoltage(y ode.State) float64
}

// Curve is the polarization curve produced by a sweep: for each external
// current, the terminal double-layer state, cell voltage and power.
type Curve struct {
	Currents []float64
	States   []ode.State
	Voltages []float64
	Powers   []float64
}

func (c *Curve) Len() int { return len(c.Currents) }

// MaxPower returns the index and value of the power peak.
func (c *Curve) MaxPower() (int, float64) {
	best, idx := 0.0, -1
	for i, p := range c.Powers {
		if idx < 0 || p > best {
			best, idx = p, i
		}
	}
	return idx, best
}

// Range returns n currents linearly spaced over [start, stop], in order.
func Range(start, stop float64, n int) []float64 {
	if n < 2 {
		return []float64{start}
	}
	step := (stop - start) / float64(n-1)
	currents := make([]float64, n)
	for i := range currents {
		currents[i] = start + float64(i)*step
	}
	return currents
}

// Sweep performs a continuation over the ordered external currents: each
// segment is solved to its time horizon starting from the previous
// segment's terminal state, so the cell walks along its quasi-steady
// branch instead of re-relaxing from the initial guess every time.
//
// x0 seeds the first segment only. The cell's external current is left
// at the last swept value.
func Sweep(ctx context.Context, c Cell, integ ode.Integrator, currents []float64, x0 ode.State, cfg ode.Config) (*Curve, error) {
	if len(currents) == 0 {
		return nil, fmt.Errorf("polarization: no currents to sweep")
	}

	curve := &Curve{
		Currents: make([]float64, 0, len(currents)),
		States:   make([]ode.State, 0, len(currents)),
		Voltages: make([]float64, 0, len(currents)),
		Powers:   make([]float64, 0, len(currents)),
	}

	x := x0.Clone()
	for _, iExt := range currents {
		c.SetCurrent(iExt)

		solver := ode.New(c, integ)
		result, err := solver.Run(ctx, x, cfg)
		if err != nil {
			return curve, fmt.Errorf("polarization: segment i_ext=%g: %w", iExt, err)
		}
		if len(result.Errors) > 0 {
			return curve, fmt.Errorf("polarization: segment i_ext=%g: %w", iExt, result.Errors[0])
		}

		x = result.Final().Clone()
		v := c.CellVoltage(x)

		curve.Currents = append(curve.Currents, iExt)
		curve.States = append(curve.States, x.Clone())
		curve.Voltages = append(curve.Voltages, v)
		curve.Powers = append(curve.Powers, v*iExt)
	}

	return curve, nil
}
