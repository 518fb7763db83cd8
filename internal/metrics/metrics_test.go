package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/ode"
)

func TestConvergenceAtSteadyState(t *testing.T) {
	p := cell.DefaultParams()
	p.IExt = 20
	stack := cell.NewStack(p)

	m := NewConvergence(stack)

	m.Observe(0, ode.State{0.6, 0.5})
	if m.Value() == 0 {
		t.Error("expected non-zero residual off steady state")
	}

	m.Observe(1, stack.SteadyState())
	if m.Value() > 1e-9 {
		t.Errorf("expected ~zero residual at steady state, got %e", m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero value after reset")
	}
}

func TestStabilityViolations(t *testing.T) {
	m := NewStability(10.0)

	m.Observe(0, ode.State{0.5, 0.5})
	m.Observe(1, ode.State{11.0, 0.5})
	m.Observe(2, ode.State{math.NaN(), 0.5})
	m.Observe(3, ode.State{0.5, 0.5})

	if m.Value() != 0.5 {
		t.Errorf("expected stability 0.5, got %f", m.Value())
	}

	m.Reset()
	if m.Value() != 1.0 {
		t.Error("expected stability 1 after reset")
	}
}

func TestChargeMoved(t *testing.T) {
	m := NewCharge(100, 100)

	m.Observe(0, ode.State{0.6, 0.5})
	m.Observe(50, ode.State{0.58, 0.505})
	m.Observe(100, ode.State{0.556, 0.512})

	// 100*|0.556-0.6| + 100*|0.512-0.5|
	want := 100*0.044 + 100*0.012
	if math.Abs(m.Value()-want) > 1e-9 {
		t.Errorf("expected charge %f, got %f", want, m.Value())
	}

	m.Reset()
	if m.Value() != 0 {
		t.Error("expected zero charge after reset")
	}
}
