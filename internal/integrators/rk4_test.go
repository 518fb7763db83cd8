package integrators

import (
	"math"
	"testing"

	"github.com/san-kum/fcell/internal/ode"
)

type harmonicOscillator struct{}

func (h *harmonicOscillator) StateDim() int { return 2 }

func (h *harmonicOscillator) Derive(t float64, y ode.State) ode.State {
	return ode.State{y[1], -y[0]}
}

func (h *harmonicOscillator) Energy(y ode.State) float64 {
	return 0.5 * (y[0]*y[0] + y[1]*y[1])
}

func TestRK4_HarmonicOscillator(t *testing.T) {
	integ := NewRK4()
	dyn := &harmonicOscillator{}

	y := ode.State{1.0, 0.0}
	dt := 0.01

	// One full period.
	steps := int(2 * math.Pi / dt)
	for i := 0; i < steps; i++ {
		y = integ.Step(dyn, y, float64(i)*dt, dt)
	}

	if math.Abs(y[0]-1.0) > 1e-3 {
		t.Errorf("expected x ~1 after full period, got %.6f", y[0])
	}
	if math.Abs(y[1]) > 1e-2 {
		t.Errorf("expected v ~0 after full period, got %.6f", y[1])
	}
}

func TestRK4_EnergyConservation(t *testing.T) {
	integ := NewRK4()
	dyn := &harmonicOscillator{}

	y := ode.State{1.0, 0.0}
	initial := dyn.Energy(y)
	dt := 0.01

	for i := 0; i < 10000; i++ {
		y = integ.Step(dyn, y, float64(i)*dt, dt)
	}

	drift := math.Abs(dyn.Energy(y)-initial) / initial
	if drift > 1e-6 {
		t.Errorf("RK4 energy drift too high: %e", drift)
	}
}

func TestEuler_ConvergesWithSmallStep(t *testing.T) {
	integ := NewEuler()
	dyn := &harmonicOscillator{}

	y := ode.State{1.0, 0.0}
	dt := 1e-4

	for i := 0; i < 10000; i++ {
		y = integ.Step(dyn, y, float64(i)*dt, dt)
	}

	// t = 1: x = cos(1), v = -sin(1)
	if math.Abs(y[0]-math.Cos(1)) > 1e-3 {
		t.Errorf("Euler x at t=1: got %.6f, want %.6f", y[0], math.Cos(1))
	}
	if math.Abs(y[1]+math.Sin(1)) > 1e-3 {
		t.Errorf("Euler v at t=1: got %.6f, want %.6f", y[1], -math.Sin(1))
	}
}
