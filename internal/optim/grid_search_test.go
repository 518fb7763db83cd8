package optim

import (
	"context"
	"testing"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/ode"
	"github.com/san-kum/fcell/internal/polarization"
)

func syntheticCurve(p cell.Params, currents []float64) *polarization.Curve {
	stack := cell.NewStack(p)
	curve := &polarization.Curve{}
	for _, i := range currents {
		stack.SetCurrent(i)
		ss := stack.SteadyState()
		v := stack.CellVoltage(ss)
		curve.Currents = append(curve.Currents, i)
		curve.States = append(curve.States, ode.State{ss[0], ss[1]})
		curve.Voltages = append(curve.Voltages, v)
		curve.Powers = append(curve.Powers, v*i)
	}
	return curve
}

func TestGridSearchRecoversExchangeCurrents(t *testing.T) {
	truth := cell.DefaultParams()
	target := syntheticCurve(truth, polarization.Range(0, 50, 11))

	// Candidate grids contain the true values among decoys.
	gs := NewGridSearch(
		[]string{"i0_an", "i0_ca"},
		[][]float64{
			{1.0, 2.5, 5.0},
			{0.5, 1.0, 2.0},
		},
	)

	bestParams, bestScore, err := gs.Search(context.Background(), CurveObjective(target, truth))
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}

	if bestParams["i0_an"] != 2.5 {
		t.Errorf("expected i0_an 2.5, got %f", bestParams["i0_an"])
	}
	if bestParams["i0_ca"] != 1.0 {
		t.Errorf("expected i0_ca 1.0, got %f", bestParams["i0_ca"])
	}
	if bestScore > 1e-12 {
		t.Errorf("expected near-zero score at the true parameters, got %e", bestScore)
	}
}

func TestGridSearchCanceled(t *testing.T) {
	gs := NewGridSearch([]string{"i0_an"}, [][]float64{{1, 2, 3}})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	params, _, err := gs.Search(ctx, func(map[string]float64) (float64, error) { return 0, nil })
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	if params != nil {
		t.Error("canceled search should not produce parameters")
	}
}

func TestGridSearchRejectsBadParamName(t *testing.T) {
	truth := cell.DefaultParams()
	target := syntheticCurve(truth, polarization.Range(0, 20, 3))

	gs := NewGridSearch([]string{"nonsense"}, [][]float64{{1}})

	params, _, err := gs.Search(context.Background(), CurveObjective(target, truth))
	if err != nil {
		t.Fatalf("search returned error: %v", err)
	}
	// Every grid point errors, so nothing is selected.
	if params != nil {
		t.Error("expected no parameters when all objective calls fail")
	}
}
