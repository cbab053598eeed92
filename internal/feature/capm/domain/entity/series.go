// Package entity defines the domain models for the capm feature.
package entity

import (
	"math"
	"sort"
	"time"

	"capm_backend/internal/feature/capm/domain"
)

// PricePoint is one observed closing price on a trading day.
type PricePoint struct {
	Date  time.Time
	Price float64
}

// PriceSeries is the ordered price history of one symbol.
// Dates are unique calendar days in ascending order and every price is positive.
// Days without a quote are absent from the series, never stored as zero.
type PriceSeries struct {
	Symbol string
	points []PricePoint
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewPriceSeries validates and sorts points into a PriceSeries.
// The input slice is copied, so later changes by the caller do not leak into the series.
func NewPriceSeries(symbol string, points []PricePoint) (PriceSeries, error) {
	if symbol == "" {
		return PriceSeries{}, domain.InvalidInputError("series", "symbol is required")
	}
	ps := make([]PricePoint, len(points))
	for i, p := range points {
		if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price <= 0 {
			return PriceSeries{}, domain.InvalidInputError("series", "%s: price %v on %s is not a positive number",
				symbol, p.Price, p.Date.Format(time.DateOnly))
		}
		ps[i] = PricePoint{Date: Day(p.Date), Price: p.Price}
	}
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].Date.Before(ps[j].Date) })
	for i := 1; i < len(ps); i++ {
		if ps[i].Date.Equal(ps[i-1].Date) {
			return PriceSeries{}, domain.InvalidInputError("series", "%s: duplicate date %s",
				symbol, ps[i].Date.Format(time.DateOnly))
		}
	}
	return PriceSeries{Symbol: symbol, points: ps}, nil
}

// Len returns the number of observations.
func (s PriceSeries) Len() int { return len(s.points) }

// Points returns a copy of the observations in date order.
func (s PriceSeries) Points() []PricePoint {
	out := make([]PricePoint, len(s.points))
	copy(out, s.points)
	return out
}

// At returns the i-th observation.
func (s PriceSeries) At(i int) PricePoint { return s.points[i] }

// Span returns the first and last dates of the series. ok is false for an empty series.
func (s PriceSeries) Span() (first, last time.Time, ok bool) {
	if len(s.points) == 0 {
		return time.Time{}, time.Time{}, false
	}
	return s.points[0].Date, s.points[len(s.points)-1].Date, true
}
