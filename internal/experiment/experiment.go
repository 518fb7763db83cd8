package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/fcell/internal/ode"
)

type Config struct {
	Cell       string
	Integrator string
	InitState  []float64
	Current    float64
	Solve      ode.Config
}

type Experiment struct {
	cfg    Config
	solver *ode.Solver
}

func New(cfg Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(sys ode.System, integ ode.Integrator, metrics []ode.Metric) error {
	e.solver = ode.New(sys, integ)
	for _, m := range metrics {
		e.solver.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*ode.Result, error) {
	if e.solver == nil {
		return nil, fmt.Errorf("experiment not setup")
	}

	x0 := make(ode.State, len(e.cfg.InitState))
	copy(x0, e.cfg.InitState)

	return e.solver.Run(ctx, x0, e.cfg.Solve)
}

// Solver returns the underlying solver for adding observers.
func (e *Experiment) Solver() *ode.Solver {
	return e.solver
}
