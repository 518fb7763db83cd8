package experiment

import (
	"context"
	"testing"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/ode"
)

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry()
	p := cell.DefaultParams()

	for _, name := range []string{"stack", "electrode"} {
		if _, err := r.GetCell(name, p); err != nil {
			t.Errorf("GetCell(%q) failed: %v", name, err)
		}
	}
	if _, err := r.GetCell("battery", p); err == nil {
		t.Error("expected error for unknown cell model")
	}

	for _, name := range []string{"euler", "rk4", "rk45"} {
		if _, err := r.GetIntegrator(name); err != nil {
			t.Errorf("GetIntegrator(%q) failed: %v", name, err)
		}
	}
	if _, err := r.GetIntegrator("bdf"); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestExperimentRun(t *testing.T) {
	r := NewRegistry()
	p := cell.DefaultParams()
	p.IExt = 20

	sys, err := r.GetCell("stack", p)
	if err != nil {
		t.Fatal(err)
	}
	integ, err := r.GetIntegrator("rk45")
	if err != nil {
		t.Fatal(err)
	}

	cfg := Config{
		Cell:       "stack",
		Integrator: "rk45",
		InitState:  []float64{0.6, 0.5},
		Current:    20,
		Solve:      ode.DefaultConfig(),
	}

	exp := New(cfg)
	if _, err := exp.Run(context.Background()); err == nil {
		t.Error("expected error before Setup")
	}

	if err := exp.Setup(sys, integ, r.DefaultMetrics(sys, p)); err != nil {
		t.Fatal(err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.States) == 0 {
		t.Fatal("no trajectory recorded")
	}
	if _, ok := result.Metrics["residual"]; !ok {
		t.Error("default metrics not attached")
	}
	if result.Metrics["stability"] != 1.0 {
		t.Errorf("expected stable run, got stability %f", result.Metrics["stability"])
	}
}
