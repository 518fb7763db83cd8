package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/fcell/internal/polarization"
)

type ExportData struct {
	ID         string             `json:"id"`
	Cell       string             `json:"cell"`
	Integrator string             `json:"integrator"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Current    float64            `json:"current"`
	Steps      int                `json:"steps"`
	Times      []float64          `json:"times"`
	States     [][]float64        `json:"states"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes a stored transient run as one JSON document.
func ExportJSON(w io.Writer, meta *RunMetadata, states [][]float64, times []float64) error {
	data := ExportData{
		ID:         meta.ID,
		Cell:       meta.Cell,
		Integrator: meta.Integrator,
		Dt:         meta.Dt,
		Duration:   meta.Duration,
		Current:    meta.Current,
		Steps:      len(times),
		Times:      times,
		States:     states,
		Metrics:    meta.Metrics,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

type CurveExport struct {
	ID       string    `json:"id"`
	Cell     string    `json:"cell"`
	Currents []float64 `json:"currents"`
	Voltages []float64 `json:"voltages"`
	Powers   []float64 `json:"powers"`
}

// ExportCurveJSON writes a stored polarization curve as one JSON document.
func ExportCurveJSON(w io.Writer, meta *RunMetadata, curve *polarization.Curve) error {
	data := CurveExport{
		ID:       meta.ID,
		Cell:     meta.Cell,
		Currents: curve.Currents,
		Voltages: curve.Voltages,
		Powers:   curve.Powers,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
