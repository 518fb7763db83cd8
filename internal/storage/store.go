package storage

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/san-kum/fcell/internal/ode"
	"github.com/san-kum/fcell/internal/polarization"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID         string             `json:"id"`
	Kind       string             `json:"kind"` // "run" or "sweep"
	Cell       string             `json:"cell"`
	Timestamp  time.Time          `json:"timestamp"`
	Dt         float64            `json:"dt"`
	Duration   float64            `json:"duration"`
	Tolerance  float64            `json:"tolerance"`
	Current    float64            `json:"current"`
	Integrator string             `json:"integrator"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
}

// Save writes one transient run: metadata.json plus states.csv.
func (s *Store) Save(cellName string, dt, duration, tolerance, current float64, integrator string, result *ode.Result) (string, error) {
	runID := fmt.Sprintf("%s_%d", cellName, time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Kind:       "run",
		Cell:       cellName,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   duration,
		Tolerance:  tolerance,
		Current:    current,
		Integrator: integrator,
		Metrics:    result.Metrics,
	}
	if err := s.writeMetadata(runDir, meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "states.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if len(result.States) == 0 {
		return runID, nil
	}

	header := []string{"time"}
	for i := range result.States[0] {
		header = append(header, fmt.Sprintf("dphi%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for i := range result.States {
		row := []string{strconv.FormatFloat(result.Times[i], 'f', 6, 64)}
		for _, val := range result.States[i] {
			row = append(row, strconv.FormatFloat(val, 'f', 9, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

// SaveCurve writes one polarization sweep: metadata.json plus curve.csv
// with a row per current point.
func (s *Store) SaveCurve(cellName string, dt, segDuration, tolerance float64, integrator string, curve *polarization.Curve) (string, error) {
	runID := fmt.Sprintf("sweep_%d", time.Now().Unix())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:         runID,
		Kind:       "sweep",
		Cell:       cellName,
		Timestamp:  time.Now(),
		Dt:         dt,
		Duration:   segDuration,
		Tolerance:  tolerance,
		Integrator: integrator,
	}
	if err := s.writeMetadata(runDir, meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "curve.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if err := w.Write([]string{"current", "dphi_an", "dphi_ca", "voltage", "power"}); err != nil {
		return "", err
	}

	for i := range curve.Currents {
		row := []string{
			strconv.FormatFloat(curve.Currents[i], 'f', 6, 64),
			strconv.FormatFloat(curve.States[i][0], 'f', 9, 64),
			strconv.FormatFloat(curve.States[i][1], 'f', 9, 64),
			strconv.FormatFloat(curve.Voltages[i], 'f', 9, 64),
			strconv.FormatFloat(curve.Powers[i], 'f', 9, 64),
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) writeMetadata(runDir string, meta RunMetadata) error {
	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}

	return &meta, nil
}

func (s *Store) LoadStates(runID string) ([][]float64, []float64, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "states.csv"))
	if err != nil {
		return nil, nil, err
	}

	if len(records) < 2 {
		return [][]float64{}, []float64{}, nil
	}

	times := make([]float64, 0, len(records)-1)
	states := make([][]float64, 0, len(records)-1)

	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) == 0 {
			continue
		}

		t, err := strconv.ParseFloat(record[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)

		state := make([]float64, 0, len(record)-1)
		for j := 1; j < len(record); j++ {
			val, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				continue
			}
			state = append(state, val)
		}
		states = append(states, state)
	}

	return states, times, nil
}

// LoadCurve reads a stored sweep back into a Curve.
func (s *Store) LoadCurve(runID string) (*polarization.Curve, error) {
	records, err := s.readCSV(filepath.Join(s.baseDir, runID, "curve.csv"))
	if err != nil {
		return nil, err
	}

	curve := &polarization.Curve{}
	for i := 1; i < len(records); i++ {
		record := records[i]
		if len(record) < 5 {
			continue
		}

		vals := make([]float64, 5)
		ok := true
		for j := 0; j < 5; j++ {
			v, err := strconv.ParseFloat(record[j], 64)
			if err != nil {
				ok = false
				break
			}
			vals[j] = v
		}
		if !ok {
			continue
		}

		curve.Currents = append(curve.Currents, vals[0])
		curve.States = append(curve.States, ode.State{vals[1], vals[2]})
		curve.Voltages = append(curve.Voltages, vals[3])
		curve.Powers = append(curve.Powers, vals[4])
	}

	return curve, nil
}

func (s *Store) readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}
