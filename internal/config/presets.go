package config

var Presets = map[string]*Config{
	// Worked example: relax to steady state at 20 A from a cold guess.
	"demo": {
		Cell: "stack", Integrator: "rk45", Dt: DefaultDt, Duration: 100.0,
		Tolerance: DefaultTolerance, Current: 20,
		InitState: []float64{0.6, 0.5},
	},
	// Full polarization study over the useful load range.
	"polarization": {
		Cell: "stack", Integrator: "rk45", Dt: DefaultDt, Duration: 10.0,
		Tolerance: DefaultTolerance,
		Sweep:     SweepConfig{Start: 0, Stop: 100, Steps: 21, Duration: 10},
	},
	// High-load segment where the kinetics stiffen; tighter tolerance.
	"stiff": {
		Cell: "stack", Integrator: "rk45", Dt: 0.001, Duration: 10.0,
		Tolerance: 1e-8, Current: 500,
		InitState: []float64{0.6, 0.5},
	},
	// Isolated anode relaxation.
	"half-cell": {
		Cell: "electrode", Integrator: "rk45", Dt: DefaultDt, Duration: 100.0,
		Tolerance: DefaultTolerance, Current: 20,
		InitState: []float64{0.6},
	},
}

func GetPreset(name string) *Config {
	base, ok := Presets[name]
	if !ok {
		return nil
	}

	// Presets only override the solve surface; physical parameters always
	// start from the reference cell.
	cfg := DefaultConfig()
	cfg.Cell = base.Cell
	cfg.Integrator = base.Integrator
	cfg.Dt = base.Dt
	cfg.Duration = base.Duration
	cfg.Tolerance = base.Tolerance
	cfg.Current = base.Current
	if len(base.InitState) > 0 {
		cfg.InitState = base.InitState
	}
	if base.Sweep.Steps > 0 {
		cfg.Sweep = base.Sweep
	}
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	return names
}
