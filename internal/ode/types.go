package ode

import (
	"fmt"
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// System is an autonomous-capable ODE right-hand side: dy/dt = Derive(t, y).
type System interface {
	Derive(t float64, y State) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, y State, t float64, dt float64) State
}

type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, y State, t, dt, tol float64) (State, float64, error)
}

type Metric interface {
	Name() string
	Observe(t float64, y State)
	Value() float64
	Reset()
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

type Config struct {
	Dt            float64
	Duration      float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.01,
		Duration:      100.0,
		Tolerance:     1e-6,
		MaxDt:         0.1,
		MinDt:         1e-9,
		Adaptive:      true,
		ValidateState: true,
	}
}

type Result struct {
	States     []State
	Times      []float64
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Final returns the terminal state of the trajectory, or nil if empty.
func (r *Result) Final() State {
	if len(r.States) == 0 {
		return nil
	}
	return r.States[len(r.States)-1]
}

type SolveError struct {
	Time    float64
	Step    int
	Message string
}

func (e SolveError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
