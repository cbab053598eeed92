package entity

import "time"

// RegressionResult is the least-squares fit of one asset's returns on the benchmark's returns.
// Beta is dimensionless; Alpha is in percent per period, like the return series.
type RegressionResult struct {
	Symbol string
	Beta   float64
	Alpha  float64
}

// ExpectedReturn is the CAPM expected annual return of one asset, in percent.
type ExpectedReturn struct {
	Symbol string
	Value  float64
}

// Analysis is the CAPM view for a set of assets against one benchmark.
type Analysis struct {
	Benchmark          string // ticker of the benchmark column
	BenchmarkName      string // display name, e.g. "NASDAQ 100"
	Symbols            []string
	From               time.Time
	To                 time.Time
	Prices             AlignedTable
	Normalized         AlignedTable
	Returns            AlignedTable
	Regressions        []RegressionResult
	ExpectedReturns    []ExpectedReturn
	MarketReturn       float64 // annualized mean benchmark return, percent
	RiskFreeRate       float64
	TradingDaysPerYear int
}

// Regression returns the fit for symbol.
func (a Analysis) Regression(symbol string) (RegressionResult, bool) {
	for _, r := range a.Regressions {
		if r.Symbol == symbol {
			return r, true
		}
	}
	return RegressionResult{}, false
}

// Expected returns the CAPM expected return for symbol.
func (a Analysis) Expected(symbol string) (float64, bool) {
	for _, e := range a.ExpectedReturns {
		if e.Symbol == symbol {
			return e.Value, true
		}
	}
	return 0, false
}

// Comparison is the cumulative-return view of two securities over their common trading days.
type Comparison struct {
	First       string
	Second      string
	From        time.Time
	To          time.Time
	Cumulative  AlignedTable // percent change since the first common day
	FinalFirst  float64
	FinalSecond float64
}
