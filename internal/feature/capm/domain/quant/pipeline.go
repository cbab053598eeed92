package quant

import (
	"capm_backend/internal/feature/capm/domain"
	"capm_backend/internal/feature/capm/domain/entity"
)

// Analyze runs the full CAPM pipeline on already fetched series:
// align → {normalize, daily returns} → regression per asset → expected return.
func Analyze(cfg Config, benchmark entity.PriceSeries, assets []entity.PriceSeries) (entity.Analysis, error) {
	if err := cfg.Validate(); err != nil {
		return entity.Analysis{}, domain.InvalidInputError("config", "%v", err)
	}

	prices, err := Align(benchmark, assets...)
	if err != nil {
		return entity.Analysis{}, err
	}
	normalized, err := Normalize(prices)
	if err != nil {
		return entity.Analysis{}, err
	}
	returns, err := DailyReturns(prices)
	if err != nil {
		return entity.Analysis{}, err
	}
	regs, err := RegressAll(returns, benchmark.Symbol)
	if err != nil {
		return entity.Analysis{}, err
	}

	benchReturns, _ := returns.Column(benchmark.Symbol)
	mean, err := MeanReturn(benchReturns)
	if err != nil {
		return entity.Analysis{}, err
	}
	expected := make([]entity.ExpectedReturn, len(regs))
	for i, r := range regs {
		expected[i] = entity.ExpectedReturn{Symbol: r.Symbol, Value: cfg.ExpectedReturn(r.Beta, mean)}
	}

	symbols := make([]string, len(assets))
	for i, a := range assets {
		symbols[i] = a.Symbol
	}
	dates := prices.Dates()

	return entity.Analysis{
		Benchmark:          benchmark.Symbol,
		Symbols:            symbols,
		From:               dates[0],
		To:                 dates[len(dates)-1],
		Prices:             prices,
		Normalized:         normalized,
		Returns:            returns,
		Regressions:        regs,
		ExpectedReturns:    expected,
		MarketReturn:       cfg.Annualize(mean),
		RiskFreeRate:       cfg.RiskFreeRate,
		TradingDaysPerYear: cfg.TradingDaysPerYear,
	}, nil
}

// Compare joins two series and computes their cumulative percentage returns since the first common day.
func Compare(first, second entity.PriceSeries) (entity.Comparison, error) {
	prices, err := Join(first, second)
	if err != nil {
		return entity.Comparison{}, err
	}
	cum, err := CumulativeReturns(prices)
	if err != nil {
		return entity.Comparison{}, err
	}
	final, err := FinalValues(cum)
	if err != nil {
		return entity.Comparison{}, err
	}
	dates := cum.Dates()

	return entity.Comparison{
		First:       first.Symbol,
		Second:      second.Symbol,
		From:        dates[0],
		To:          dates[len(dates)-1],
		Cumulative:  cum,
		FinalFirst:  final[first.Symbol],
		FinalSecond: final[second.Symbol],
	}, nil
}
