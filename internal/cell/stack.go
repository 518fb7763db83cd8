package cell

import (
	"fmt"
	"math"

	"github.com/san-kum/fcell/internal/ode"
)

// Stack models the transient double-layer potentials of a full cell.
// State: [dphi_an, dphi_ca], the voltage drops across the anode and
// cathode interfaces. Each interface charges or discharges with the
// imbalance between the external current and its faradaic current:
//
//	d(dphi)/dt = -(i_ext - i_far(eta)) / C_dl
//
// The system is autonomous; t is unused.
type Stack struct {
	p Params
}

func NewStack(p Params) *Stack {
	return &Stack{p: p}
}

func (s *Stack) StateDim() int { return 2 }

func (s *Stack) Derive(_ float64, y ode.State) ode.State {
	etaAn := y[0] - s.p.EqAn
	iFarAn := Faradaic(s.p.I0An, s.p.NAn, s.p.BetaAn, s.p.Temp, etaAn)

	etaCa := y[1] - s.p.EqCa
	iFarCa := Faradaic(s.p.I0Ca, s.p.NCa, s.p.BetaCa, s.p.Temp, etaCa)

	return ode.State{
		-(s.p.IExt - iFarAn) / s.p.CdlAn,
		-(s.p.IExt - iFarCa) / s.p.CdlCa,
	}
}

func (s *Stack) Params() Params { return s.p }

// SetCurrent changes the external load current between solves.
func (s *Stack) SetCurrent(i float64) { s.p.IExt = i }

func (s *Stack) Current() float64 { return s.p.IExt }

// EquilibriumState is the open-circuit rest state of both interfaces.
func (s *Stack) EquilibriumState() ode.State {
	return ode.State{s.p.EqAn, s.p.EqCa}
}

// DefaultState is the initial guess used when nothing better is known:
// slightly off equilibrium on both interfaces.
func (s *Stack) DefaultState() ode.State {
	return ode.State{0.6, 0.5}
}

// SteadyState returns the closed-form terminal state for the current
// external current. Valid for symmetric transfer (beta = 0.5), where the
// Butler-Volmer law collapses to -2 i0 sinh(n F eta / 2RT) and inverts
// through asinh.
func (s *Stack) SteadyState() ode.State {
	return ode.State{
		s.p.EqAn - steadyOverpotential(s.p.IExt, s.p.I0An, s.p.NAn, s.p.Temp),
		s.p.EqCa - steadyOverpotential(s.p.IExt, s.p.I0Ca, s.p.NCa, s.p.Temp),
	}
}

func steadyOverpotential(iExt, i0, n, temp float64) float64 {
	f := n * Faraday / (GasConst * temp)
	return 2 / f * math.Asinh(iExt/(2*i0))
}

// CellVoltage is the sum of the two double-layer drops.
func (s *Stack) CellVoltage(y ode.State) float64 {
	return y[0] + y[1]
}

// Power delivered to the external load at state y.
func (s *Stack) Power(y ode.State) float64 {
	return s.CellVoltage(y) * s.p.IExt
}

// GetParams implements ode.Configurable.
func (s *Stack) GetParams() map[string]float64 {
	return map[string]float64{
		"i0_an":  s.p.I0An,
		"i0_ca":  s.p.I0Ca,
		"temp":   s.p.Temp,
		"cdl_an": s.p.CdlAn,
		"cdl_ca": s.p.CdlCa,
		"i_ext":  s.p.IExt,
	}
}

// SetParam implements ode.Configurable.
func (s *Stack) SetParam(name string, value float64) error {
	switch name {
	case "i0_an":
		s.p.I0An = value
	case "i0_ca":
		s.p.I0Ca = value
	case "temp":
		s.p.Temp = value
	case "cdl_an":
		s.p.CdlAn = value
	case "cdl_ca":
		s.p.CdlCa = value
	case "i_ext":
		s.p.IExt = value
	default:
		return fmt.Errorf("cell: unknown parameter %q", name)
	}
	return nil
}
