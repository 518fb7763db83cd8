package ode

import (
	"context"
	"fmt"
	"math"
)

// Solver drives a System through time with a pluggable integrator.
// Solver instances are not safe for concurrent use.
type Solver struct {
	sys        System
	integrator Integrator
	metrics    []Metric
}

func New(sys System, integrator Integrator) *Solver {
	return &Solver{
		sys:        sys,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Solver) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run integrates from x0 over [0, cfg.Duration]. With cfg.Adaptive the
// timestep follows the integrator's error estimate, clamped to
// [cfg.MinDt, cfg.MaxDt]; otherwise cfg.Dt is used throughout.
func (s *Solver) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validate(x0, cfg); err != nil {
		return nil, err
	}

	capHint := int(cfg.Duration/cfg.Dt) + 1
	result := &Result{
		States:  make([]State, 0, capHint),
		Times:   make([]float64, 0, capHint),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)

	step := 0
	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		for _, m := range s.metrics {
			m.Observe(t, x)
		}

		// Land exactly on the horizon.
		if t+dt > cfg.Duration {
			dt = cfg.Duration - t
		}

		var newX State
		var nextDt float64
		var stepErr error

		if cfg.Adaptive {
			newX, nextDt, stepErr = s.adaptiveStep(x, t, dt, cfg)
		} else {
			newX = s.integrator.Step(s.sys, x, t, dt)
			nextDt = dt
		}

		if stepErr != nil {
			result.Errors = append(result.Errors, stepErr)
			return result, stepErr
		}

		if cfg.ValidateState && !newX.IsValid() {
			err := SolveError{Time: t, Step: step, Message: "invalid state (NaN/Inf)"}
			result.Errors = append(result.Errors, err)
			break
		}

		x = newX
		t += dt
		dt = nextDt
		step++
		result.StepsTaken++

		result.States = append(result.States, x.Clone())
		result.Times = append(result.Times, t)
	}

	// The loop observes states before stepping away from them, so the
	// terminal state still needs its observation.
	for _, m := range s.metrics {
		m.Observe(t, x)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Solver) adaptiveStep(x State, t, dt float64, cfg Config) (State, float64, error) {
	adaptive, ok := s.integrator.(AdaptiveIntegrator)
	if !ok {
		// Step doubling: compare one full step against two half steps.
		x1 := s.integrator.Step(s.sys, x, t, dt)
		xHalf := s.integrator.Step(s.sys, x, t, dt/2)
		x2 := s.integrator.Step(s.sys, xHalf, t+dt/2, dt/2)

		errEst := x1.Sub(x2).Norm()
		if errEst > cfg.Tolerance && dt/2 >= cfg.MinDt {
			return s.adaptiveStep(x, t, dt/2, cfg)
		}

		next := dt
		if errEst < cfg.Tolerance/10 && dt < cfg.MaxDt {
			next = math.Min(dt*2, cfg.MaxDt)
		}
		return x2, next, nil
	}

	newX, nextDt, err := adaptive.StepAdaptive(s.sys, x, t, dt, cfg.Tolerance)
	if err != nil {
		return nil, 0, err
	}
	if nextDt < cfg.MinDt {
		return nil, 0, ErrStepTooSmall
	}
	if nextDt > cfg.MaxDt {
		nextDt = cfg.MaxDt
	}
	return newX, nextDt, nil
}

// RunWithCallback integrates without recording a trajectory, invoking
// callback each step. Returning false from the callback stops the run.
func (s *Solver) RunWithCallback(ctx context.Context, x0 State, cfg Config, callback func(t float64, y State) bool) error {
	if err := s.validate(x0, cfg); err != nil {
		return err
	}

	x := x0.Clone()
	t := 0.0
	dt := cfg.Dt

	for t < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if !callback(t, x) {
			return nil
		}

		x = s.integrator.Step(s.sys, x, t, dt)
		t += dt

		if cfg.ValidateState && !x.IsValid() {
			return fmt.Errorf("invalid state at t=%.4f: %w", t, ErrInvalidState)
		}
	}

	return nil
}

func (s *Solver) validate(x0 State, cfg Config) error {
	if len(x0) != s.sys.StateDim() {
		return fmt.Errorf("state dim %d, system wants %d: %w", len(x0), s.sys.StateDim(), ErrDimensionMismatch)
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}
