package viz

import (
	"testing"
	"time"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/integrators"
)

func tick(t *testing.T, m Model) Model {
	t.Helper()
	next, _ := m.Update(TickMsg(time.Now()))
	out, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return out
}

func TestLiveModelStackTick(t *testing.T) {
	p := cell.DefaultParams()
	p.IExt = 20

	m := NewModel(cell.NewStack(p), integrators.NewRK45(), []float64{0.6, 0.5}, 0.01)
	m = tick(t, m)

	if !m.state.IsValid() {
		t.Fatalf("state invalid after tick: %v", m.state)
	}
	if m.t <= 0 {
		t.Error("time did not advance")
	}
	if len(m.histories) != 2 {
		t.Fatalf("expected 2 history tracks, got %d", len(m.histories))
	}
	for i, hist := range m.histories {
		if len(hist) != 1 {
			t.Errorf("track %d: expected 1 sample, got %d", i, len(hist))
		}
	}
}

func TestLiveModelElectrodeTick(t *testing.T) {
	p := cell.DefaultParams()
	p.IExt = 20

	m := NewModel(cell.NewElectrode(p), integrators.NewRK45(), []float64{0.6}, 0.01)
	m = tick(t, m)
	m = tick(t, m)

	if !m.state.IsValid() {
		t.Fatalf("state invalid after tick: %v", m.state)
	}
	if len(m.state) != 1 {
		t.Fatalf("expected 1-component state, got %d", len(m.state))
	}
	if m.View() == "" {
		t.Error("empty view")
	}
}

func TestLiveModelResizesInitState(t *testing.T) {
	p := cell.DefaultParams()
	p.IExt = 20

	// A single seed component against a two-interface stack must not
	// reach the integrator undersized.
	m := NewModel(cell.NewStack(p), integrators.NewRK45(), []float64{0.6}, 0.01)

	if len(m.state) != 2 {
		t.Fatalf("expected state sized to the stack, got %d components", len(m.state))
	}

	m = tick(t, m)
	if !m.state.IsValid() {
		t.Fatalf("state invalid after tick: %v", m.state)
	}
}

func TestLiveModelAdjustParam(t *testing.T) {
	p := cell.DefaultParams()

	m := NewModel(cell.NewStack(p), integrators.NewRK4(), []float64{0.6, 0.5}, 0.01)

	key := m.paramKeys[m.selected]
	before := m.params[key]
	m.adjustParam(1.05)

	if m.params[key] <= before {
		t.Errorf("parameter %s did not increase: %f -> %f", key, before, m.params[key])
	}
}
