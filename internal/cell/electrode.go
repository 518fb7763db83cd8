package cell

import (
	"fmt"

	"github.com/san-kum/fcell/internal/ode"
)

// Electrode is the single-interface half cell: same kinetics as one side
// of a Stack, useful for isolating one electrode's relaxation.
// State: [dphi].
type Electrode struct {
	I0   float64
	N    float64
	Beta float64
	Temp float64
	Eq   float64
	Cdl  float64
	IExt float64
}

// NewElectrode builds a half cell from the anode side of p.
func NewElectrode(p Params) *Electrode {
	return &Electrode{
		I0:   p.I0An,
		N:    p.NAn,
		Beta: p.BetaAn,
		Temp: p.Temp,
		Eq:   p.EqAn,
		Cdl:  p.CdlAn,
		IExt: p.IExt,
	}
}

func (e *Electrode) StateDim() int { return 1 }

func (e *Electrode) Derive(_ float64, y ode.State) ode.State {
	eta := y[0] - e.Eq
	iFar := Faradaic(e.I0, e.N, e.Beta, e.Temp, eta)
	return ode.State{-(e.IExt - iFar) / e.Cdl}
}

func (e *Electrode) SetCurrent(i float64) { e.IExt = i }

func (e *Electrode) EquilibriumState() ode.State { return ode.State{e.Eq} }

func (e *Electrode) DefaultState() ode.State { return ode.State{e.Eq - 0.01} }

func (e *Electrode) SteadyState() ode.State {
	return ode.State{e.Eq - steadyOverpotential(e.IExt, e.I0, e.N, e.Temp)}
}

// CellVoltage for a half cell is just the one interface potential.
func (e *Electrode) CellVoltage(y ode.State) float64 {
	return y[0]
}

func (e *Electrode) Power(y ode.State) float64 {
	return e.CellVoltage(y) * e.IExt
}

func (e *Electrode) GetParams() map[string]float64 {
	return map[string]float64{
		"i0":    e.I0,
		"temp":  e.Temp,
		"cdl":   e.Cdl,
		"i_ext": e.IExt,
	}
}

func (e *Electrode) SetParam(name string, value float64) error {
	switch name {
	case "i0":
		e.I0 = value
	case "temp":
		e.Temp = value
	case "cdl":
		e.Cdl = value
	case "i_ext":
		e.IExt = value
	default:
		return fmt.Errorf("cell: unknown parameter %q", name)
	}
	return nil
}
