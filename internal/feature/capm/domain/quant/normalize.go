package quant

import (
	"capm_backend/internal/feature/capm/domain"
	"capm_backend/internal/feature/capm/domain/entity"
)

// Normalize divides every column by its first value so each starts at exactly 1.
func Normalize(t entity.AlignedTable) (entity.AlignedTable, error) {
	if t.Len() == 0 {
		return entity.AlignedTable{}, domain.EmptyJoinError("normalize")
	}
	return t.MapColumns(func(sym string, v []float64) ([]float64, error) {
		base := v[0]
		if !usableBase(base) {
			return nil, domain.ZeroBaseError("normalize", sym)
		}
		out := make([]float64, len(v))
		for i, p := range v {
			out[i] = p / base
		}
		return out, nil
	})
}
