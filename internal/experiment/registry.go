package experiment

import (
	"fmt"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/integrators"
	"github.com/san-kum/fcell/internal/metrics"
	"github.com/san-kum/fcell/internal/ode"
)

type Registry struct {
	cells       map[string]func(cell.Params) ode.System
	integrators map[string]func() ode.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		cells:       make(map[string]func(cell.Params) ode.System),
		integrators: make(map[string]func() ode.Integrator),
	}

	r.cells["stack"] = func(p cell.Params) ode.System { return cell.NewStack(p) }
	r.cells["electrode"] = func(p cell.Params) ode.System { return cell.NewElectrode(p) }

	r.integrators["euler"] = func() ode.Integrator { return integrators.NewEuler() }
	r.integrators["rk4"] = func() ode.Integrator { return integrators.NewRK4() }
	r.integrators["rk45"] = func() ode.Integrator { return integrators.NewRK45() }

	return r
}

func (r *Registry) GetCell(name string, p cell.Params) (ode.System, error) {
	fn, ok := r.cells[name]
	if !ok {
		return nil, fmt.Errorf("unknown cell model: %s", name)
	}
	return fn(p), nil
}

func (r *Registry) GetIntegrator(name string) (ode.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func (r *Registry) ListCells() []string {
	names := make([]string, 0, len(r.cells))
	for name := range r.cells {
		names = append(names, name)
	}
	return names
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	return names
}

// DefaultMetrics is the metric set attached to every CLI run.
func (r *Registry) DefaultMetrics(sys ode.System, p cell.Params) []ode.Metric {
	return []ode.Metric{
		metrics.NewConvergence(sys),
		metrics.NewStability(10.0),
		metrics.NewCharge(p.CdlAn, p.CdlCa),
	}
}
