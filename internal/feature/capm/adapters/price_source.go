// Package adapters connects the CAPM usecase to the candles and universe features.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"time"

	candle "capm_backend/internal/feature/candles/domain/entity"
	"capm_backend/internal/feature/capm/domain/entity"
	"capm_backend/internal/feature/capm/usecase"
	universe "capm_backend/internal/feature/universe/domain/entity"
	universeusecase "capm_backend/internal/feature/universe/usecase"
)

// CandleHistory is the candles read path the price source draws from.
type CandleHistory interface {
	GetCandles(ctx context.Context, symbol string, from, to time.Time) ([]candle.Candle, error)
}

// CandleSource serves daily closes out of stored (or freshly fetched) candles.
type CandleSource struct {
	history CandleHistory
}

var _ usecase.PriceSource = (*CandleSource)(nil)

// NewCandleSource creates a CandleSource over the given candle history.
func NewCandleSource(history CandleHistory) *CandleSource {
	return &CandleSource{history: history}
}

// DailyCloses returns the closing price of every trading day in [from, to].
func (s *CandleSource) DailyCloses(ctx context.Context, symbol string, from, to time.Time) (entity.PriceSeries, error) {
	cs, err := s.history.GetCandles(ctx, symbol, from, to)
	if err != nil {
		return entity.PriceSeries{}, err
	}
	pts := make([]entity.PricePoint, len(cs))
	for i, c := range cs {
		pts[i] = entity.PricePoint{Date: c.Time, Price: c.Close}
	}
	series, err := entity.NewPriceSeries(symbol, pts)
	if err != nil {
		return entity.PriceSeries{}, fmt.Errorf("closes of %s: %w", symbol, err)
	}
	return series, nil
}

// BenchmarkLookup resolves a benchmark by name or ticker.
type BenchmarkLookup interface {
	ResolveBenchmark(ctx context.Context, key string) (universe.Benchmark, error)
}

// UniverseCatalog adapts the universe feature to the CAPM benchmark resolver.
type UniverseCatalog struct {
	lookup BenchmarkLookup
}

var _ usecase.BenchmarkResolver = (*UniverseCatalog)(nil)

// NewUniverseCatalog creates a UniverseCatalog.
func NewUniverseCatalog(lookup BenchmarkLookup) *UniverseCatalog {
	return &UniverseCatalog{lookup: lookup}
}

// ResolveBenchmark returns the display name and ticker of the benchmark.
func (c *UniverseCatalog) ResolveBenchmark(ctx context.Context, key string) (string, string, error) {
	b, err := c.lookup.ResolveBenchmark(ctx, key)
	if errors.Is(err, universeusecase.ErrBenchmarkNotFound) {
		return "", "", fmt.Errorf("%w: %s", usecase.ErrUnknownBenchmark, key)
	}
	if err != nil {
		return "", "", err
	}
	return b.Name, b.Symbol, nil
}
