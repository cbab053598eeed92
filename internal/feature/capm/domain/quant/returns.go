package quant

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"capm_backend/internal/feature/capm/domain"
	"capm_backend/internal/feature/capm/domain/entity"
)

// DailyReturns converts every price column into period-over-period percentage returns.
// The first row is 0 by convention and takes part in any later mean.
func DailyReturns(t entity.AlignedTable) (entity.AlignedTable, error) {
	if t.Len() == 0 {
		return entity.AlignedTable{}, domain.EmptyJoinError("returns")
	}
	return t.MapColumns(simpleReturns)
}

// SeriesReturns is DailyReturns for a single price column.
func SeriesReturns(prices []float64) ([]float64, error) {
	return simpleReturns("", prices)
}

func simpleReturns(sym string, prices []float64) ([]float64, error) {
	out := make([]float64, len(prices))
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if !usableBase(prev) {
			return nil, domain.ZeroBaseError("returns", sym)
		}
		out[i] = (prices[i]/prev - 1) * 100
	}
	return out, nil
}

// CumulativeReturns expresses every price as the percent change since the first row.
func CumulativeReturns(t entity.AlignedTable) (entity.AlignedTable, error) {
	if t.Len() == 0 {
		return entity.AlignedTable{}, domain.EmptyJoinError("cumulative")
	}
	return t.MapColumns(func(sym string, v []float64) ([]float64, error) {
		base := v[0]
		if !usableBase(base) {
			return nil, domain.ZeroBaseError("cumulative", sym)
		}
		out := make([]float64, len(v))
		for i := 1; i < len(v); i++ {
			out[i] = (v[i]/base - 1) * 100
		}
		return out, nil
	})
}

// FinalValues returns the last row of t keyed by symbol.
func FinalValues(t entity.AlignedTable) (map[string]float64, error) {
	if t.Len() == 0 {
		return nil, domain.EmptyJoinError("final")
	}
	out := make(map[string]float64, len(t.Symbols()))
	for _, sym := range t.Symbols() {
		col, _ := t.Column(sym)
		out[sym] = col[len(col)-1]
	}
	return out, nil
}

// MeanReturn is the arithmetic mean of a return series, leading zero included.
func MeanReturn(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, domain.EmptyJoinError("mean")
	}
	return stat.Mean(returns, nil), nil
}

func usableBase(v float64) bool {
	return v != 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}
