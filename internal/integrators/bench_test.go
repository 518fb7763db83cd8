package integrators

import (
	"testing"

	"github.com/san-kum/fcell/internal/ode"
)

type benchSystem struct{}

func (b *benchSystem) StateDim() int { return 2 }
func (b *benchSystem) Derive(t float64, y ode.State) ode.State {
	return ode.State{y[1], -y[0]}
}

func BenchmarkEuler(b *testing.B) {
	integ := NewEuler()
	dyn := &benchSystem{}
	y := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		y = integ.Step(dyn, y, 0, 0.01)
	}
}

func BenchmarkRK4(b *testing.B) {
	integ := NewRK4()
	dyn := &benchSystem{}
	y := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		y = integ.Step(dyn, y, 0, 0.01)
	}
}

func BenchmarkRK45(b *testing.B) {
	integ := NewRK45()
	dyn := &benchSystem{}
	y := ode.State{1.0, 0.0}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		y = integ.Step(dyn, y, 0, 0.01)
	}
}
