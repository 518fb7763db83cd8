package cell

import (
	"fmt"
	"math"
)

// Physical constants in SI units.
const (
	Faraday  = 96485.0 // C/mol
	GasConst = 8.3145  // J/(mol K)
)

// Params holds every constant of a two-interface cell run. External
// current is the one value that changes between solves; everything else
// is fixed for a given hardware/operating point.
type Params struct {
	I0An   float64 // anode exchange current density
	I0Ca   float64 // cathode exchange current density
	NAn    float64 // electrons transferred, anode reaction
	NCa    float64 // electrons transferred, cathode reaction
	BetaAn float64 // anode symmetry factor
	BetaCa float64 // cathode symmetry factor
	Temp   float64 // K
	EqAn   float64 // anode equilibrium double-layer potential
	EqCa   float64 // cathode equilibrium double-layer potential
	CdlAn  float64 // anode double-layer capacitance
	CdlCa  float64 // cathode double-layer capacitance
	IExt   float64 // external (load) current
}

// DefaultParams returns the reference hydrogen/air cell used throughout
// the tests and presets.
func DefaultParams() Params {
	return Params{
		I0An:   2.5,
		I0Ca:   1.0,
		NAn:    2,
		NCa:    4,
		BetaAn: 0.5,
		BetaCa: 0.5,
		Temp:   298,
		EqAn:   0.61,
		EqCa:   0.55,
		CdlAn:  100,
		CdlCa:  100,
		IExt:   0,
	}
}

func (p Params) Validate() error {
	positive := map[string]float64{
		"i0_an":   p.I0An,
		"i0_ca":   p.I0Ca,
		"n_an":    p.NAn,
		"n_ca":    p.NCa,
		"beta_an": p.BetaAn,
		"beta_ca": p.BetaCa,
		"temp":    p.Temp,
		"eq_an":   p.EqAn,
		"eq_ca":   p.EqCa,
		"cdl_an":  p.CdlAn,
		"cdl_ca":  p.CdlCa,
	}
	for name, v := range positive {
		if v <= 0 {
			return fmt.Errorf("cell: %s must be positive, got %g", name, v)
		}
	}
	if p.BetaAn >= 1 || p.BetaCa >= 1 {
		return fmt.Errorf("cell: symmetry factors must lie in (0,1)")
	}
	if p.IExt < 0 {
		return fmt.Errorf("cell: external current must be non-negative, got %g", p.IExt)
	}
	return nil
}

// Faradaic evaluates the Butler-Volmer charge-transfer current for one
// interface at overpotential eta:
//
//	i = i0 * [exp(-n F beta eta / RT) - exp(n F (1-beta) eta / RT)]
//
// Large |eta| overflows to +-Inf; that is left to the caller, matching
// the rest of the solve path.
func Faradaic(i0, n, beta, temp, eta float64) float64 {
	f := n * Faraday / (GasConst * temp)
	return i0 * (math.Exp(-f*beta*eta) - math.Exp(f*(1-beta)*eta))
}
