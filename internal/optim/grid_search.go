package optim

import (
	"context"
	"math"

	"github.com/san-kum/fcell/internal/cell"
	"github.com/san-kum/fcell/internal/polarization"
)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search minimizes objective over the full parameter grid.
func (g *GridSearch) Search(
	ctx context.Context,
	objective func(params map[string]float64) (float64, error),
) (map[string]float64, float64, error) {

	best := math.Inf(1)
	var bestParams map[string]float64

	g.searchRecursive(ctx, 0, make(map[string]float64), objective, &best, &bestParams)

	return bestParams, best, nil
}

func (g *GridSearch) searchRecursive(
	ctx context.Context,
	depth int,
	current map[string]float64,
	objective func(map[string]float64) (float64, error),
	best *float64,
	bestParams *map[string]float64,
) {
	select {
	case <-ctx.Done():
		return
	default:
	}

	if depth == len(g.paramNames) {
		val, err := objective(current)
		if err != nil {
			return
		}

		if val < *best {
			*best = val
			*bestParams = make(map[string]float64)
			for k, v := range current {
				(*bestParams)[k] = v
			}
		}
		return
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		g.searchRecursive(ctx, depth+1, newParams, objective, best, bestParams)
	}
}

// CurveObjective scores a candidate parameter set against a measured
// polarization curve: sum of squared voltage errors over the curve's
// currents, with the candidate's steady-state voltage as the model.
func CurveObjective(target *polarization.Curve, base cell.Params) func(map[string]float64) (float64, error) {
	return func(params map[string]float64) (float64, error) {
		stack := cell.NewStack(base)
		for name, val := range params {
			if err := stack.SetParam(name, val); err != nil {
				return 0, err
			}
		}

		sum := 0.0
		for i, iExt := range target.Currents {
			stack.SetCurrent(iExt)
			v := stack.CellVoltage(stack.SteadyState())
			d := v - target.Voltages[i]
			sum += d * d
		}
		return sum, nil
	}
}
