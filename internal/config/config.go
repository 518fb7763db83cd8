package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/ode"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 100.0
	DefaultTolerance = 1e-6
	DefaultCurrent   = 20.0
)

type Config struct {
	Cell       string       `yaml:"cell"`
	Integrator string       `yaml:"integrator"`
	Dt         float64      `yaml:"dt"`
	Duration   float64      `yaml:"duration"`
	Tolerance  float64      `yaml:"tolerance"`
	Current    float64      `yaml:"current"`
	InitState  []float64    `yaml:"init_state"`
	Params     ParamsConfig `yaml:"params"`
	Sweep      SweepConfig  `yaml:"sweep"`
}

type ParamsConfig struct {
	I0An   float64 `yaml:"i0_an"`
	I0Ca   float64 `yaml:"i0_ca"`
	NAn    float64 `yaml:"n_an"`
	NCa    float64 `yaml:"n_ca"`
	BetaAn float64 `yaml:"beta_an"`
	BetaCa float64 `yaml:"beta_ca"`
	Temp   float64 `yaml:"temp"`
	EqAn   float64 `yaml:"eq_an"`
	EqCa   float64 `yaml:"eq_ca"`
	CdlAn  float64 `yaml:"cdl_an"`
	CdlCa  float64 `yaml:"cdl_ca"`
}

type SweepConfig struct {
	Start    float64 `yaml:"start"`
	Stop     float64 `yaml:"stop"`
	Steps    int     `yaml:"steps"`
	Duration float64 `yaml:"duration"`
}

func DefaultConfig() *Config {
	p := cell.DefaultParams()
	return &Config{
		Cell:       "stack",
		Integrator: "rk45",
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Tolerance:  DefaultTolerance,
		Current:    DefaultCurrent,
		InitState:  []float64{0.6, 0.5},
		Params: ParamsConfig{
			I0An:   p.I0An,
			I0Ca:   p.I0Ca,
			NAn:    p.NAn,
			NCa:    p.NCa,
			BetaAn: p.BetaAn,
			BetaCa: p.BetaCa,
			Temp:   p.Temp,
			EqAn:   p.EqAn,
			EqCa:   p.EqCa,
			CdlAn:  p.CdlAn,
			CdlCa:  p.CdlCa,
		},
		Sweep: SweepConfig{
			Start:    0,
			Stop:     100,
			Steps:    21,
			Duration: 10,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// CellParams converts the file representation into model parameters.
func (c *Config) CellParams() cell.Params {
	return cell.Params{
		I0An:   c.Params.I0An,
		I0Ca:   c.Params.I0Ca,
		NAn:    c.Params.NAn,
		NCa:    c.Params.NCa,
		BetaAn: c.Params.BetaAn,
		BetaCa: c.Params.BetaCa,
		Temp:   c.Params.Temp,
		EqAn:   c.Params.EqAn,
		EqCa:   c.Params.EqCa,
		CdlAn:  c.Params.CdlAn,
		CdlCa:  c.Params.CdlCa,
		IExt:   c.Current,
	}
}

// SolveConfig builds the solver settings for one transient segment.
func (c *Config) SolveConfig() ode.Config {
	solve := ode.DefaultConfig()
	solve.Dt = c.Dt
	solve.Duration = c.Duration
	solve.Tolerance = c.Tolerance
	return solve
}

// GetInitState returns the initial guess sized for the chosen model.
func (c *Config) GetInitState() []float64 {
	switch c.Cell {
	case "electrode":
		if len(c.InitState) >= 1 {
			return c.InitState[:1]
		}
		return []float64{c.Params.EqAn}
	default:
		if len(c.InitState) >= 2 {
			return c.InitState[:2]
		}
		return []float64{c.Params.EqAn, c.Params.EqCa}
	}
}
