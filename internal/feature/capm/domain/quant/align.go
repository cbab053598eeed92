package quant

import (
	"time"

	"capm_backend/internal/feature/capm/domain"
	"capm_backend/internal/feature/capm/domain/entity"
)

// Align inner-joins the asset series with the benchmark on date.
// Columns are the assets in the given order followed by the benchmark.
// Dates missing from any series are dropped; an empty result is an EmptyJoinError.
func Align(benchmark entity.PriceSeries, assets ...entity.PriceSeries) (entity.AlignedTable, error) {
	if len(assets) == 0 {
		return entity.AlignedTable{}, domain.InvalidInputError("align", "at least one asset series is required")
	}
	all := make([]entity.PriceSeries, 0, len(assets)+1)
	all = append(all, assets...)
	all = append(all, benchmark)
	return join("align", all)
}

// Join inner-joins two or more series on date, one column per series in the given order.
func Join(series ...entity.PriceSeries) (entity.AlignedTable, error) {
	if len(series) < 2 {
		return entity.AlignedTable{}, domain.InvalidInputError("join", "at least two series are required, got %d", len(series))
	}
	return join("join", series)
}

func join(stage string, series []entity.PriceSeries) (entity.AlignedTable, error) {
	symbols := make([]string, len(series))
	seen := make(map[string]struct{}, len(series))
	for i, s := range series {
		if _, dup := seen[s.Symbol]; dup {
			return entity.AlignedTable{}, domain.InvalidInputError(stage, "symbol %q given twice", s.Symbol)
		}
		seen[s.Symbol] = struct{}{}
		symbols[i] = s.Symbol
	}

	// price lookup per series; series dates are already calendar days
	lookup := make([]map[time.Time]float64, len(series))
	for i, s := range series {
		m := make(map[time.Time]float64, s.Len())
		for _, p := range s.Points() {
			m[p.Date] = p.Price
		}
		lookup[i] = m
	}

	// walk the first series in order so the result stays ascending
	var dates []time.Time
	cols := make(map[string][]float64, len(series))
	for _, p := range series[0].Points() {
		row := make([]float64, len(series))
		ok := true
		for i := range series {
			v, found := lookup[i][p.Date]
			if !found {
				ok = false
				break
			}
			row[i] = v
		}
		if !ok {
			continue
		}
		dates = append(dates, p.Date)
		for i, sym := range symbols {
			cols[sym] = append(cols[sym], row[i])
		}
	}

	if len(dates) == 0 {
		return entity.AlignedTable{}, domain.EmptyJoinError(stage)
	}
	return entity.NewAlignedTable(dates, symbols, cols)
}
