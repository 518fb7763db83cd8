package analysis

import (
	"math"

	"github.com/san-kum/fcell/internal/ode"
)

// IsSteady reports whether y is a steady state of sys to within tol,
// measured by the residual norm ||dy/dt||.
func IsSteady(sys ode.System, y ode.State, tol float64) bool {
	return sys.Derive(0, y).Norm() < tol
}

// SettlingTime returns the first time after which every component of the
// trajectory stays within band of its terminal value. Returns the final
// time and false if the trajectory never settles.
func SettlingTime(result *ode.Result, band float64) (float64, bool) {
	n := len(result.States)
	if n == 0 {
		return 0, false
	}

	final := result.Final()
	settledFrom := -1

	for i := 0; i < n; i++ {
		inside := true
		for k := range final {
			if math.Abs(result.States[i][k]-final[k]) > band {
				inside = false
				break
			}
		}
		if inside {
			if settledFrom < 0 {
				settledFrom = i
			}
		} else {
			settledFrom = -1
		}
	}

	if settledFrom < 0 {
		return result.Times[n-1], false
	}
	return result.Times[settledFrom], true
}

// TerminalResidual is the residual norm at the trajectory's last state.
func TerminalResidual(sys ode.System, result *ode.Result) float64 {
	final := result.Final()
	if final == nil {
		return math.Inf(1)
	}
	return sys.Derive(result.Times[len(result.Times)-1], final).Norm()
}
