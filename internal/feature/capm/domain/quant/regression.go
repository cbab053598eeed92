package quant

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"capm_backend/internal/feature/capm/domain"
	"capm_backend/internal/feature/capm/domain/entity"
)

// Regress fits asset ≈ beta*benchmark + alpha by ordinary least squares.
// Both slices must be the same length and aligned on the same dates.
func Regress(asset, benchmark []float64) (entity.RegressionResult, error) {
	return regress("", asset, benchmark)
}

// RegressAll fits every non-benchmark column of a returns table against the benchmark column,
// in column order.
func RegressAll(returns entity.AlignedTable, benchmark string) ([]entity.RegressionResult, error) {
	bench, ok := returns.Column(benchmark)
	if !ok {
		return nil, domain.InvalidInputError("regression", "benchmark column %q not found", benchmark)
	}
	var out []entity.RegressionResult
	for _, sym := range returns.Symbols() {
		if sym == benchmark {
			continue
		}
		asset, _ := returns.Column(sym)
		r, err := regress(sym, asset, bench)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

func regress(sym string, asset, benchmark []float64) (entity.RegressionResult, error) {
	if len(asset) != len(benchmark) {
		return entity.RegressionResult{}, domain.InvalidInputError("regression",
			"%d asset returns against %d benchmark returns", len(asset), len(benchmark))
	}
	if len(benchmark) < 2 {
		return entity.RegressionResult{}, domain.DegenerateRegressionError(sym, "need at least 2 observations")
	}
	if constant(benchmark) {
		return entity.RegressionResult{}, domain.DegenerateRegressionError(sym, "benchmark returns have zero variance")
	}

	alpha, beta := stat.LinearRegression(benchmark, asset, nil, false)
	if !finite(alpha) || !finite(beta) {
		return entity.RegressionResult{}, domain.DegenerateRegressionError(sym, "fit is not finite")
	}
	return entity.RegressionResult{Symbol: sym, Beta: beta, Alpha: alpha}, nil
}

func constant(v []float64) bool {
	for _, x := range v[1:] {
		if x != v[0] {
			return false
		}
	}
	return true
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
