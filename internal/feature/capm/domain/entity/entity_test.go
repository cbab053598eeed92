package entity

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capm_backend/internal/feature/capm/domain"
)

func TestNewPriceSeries(t *testing.T) {
	t.Parallel()

	tokyo := time.FixedZone("JST", 9*60*60)
	pts := []PricePoint{
		{Date: time.Date(2024, 3, 5, 15, 0, 0, 0, tokyo), Price: 3},
		{Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), Price: 1},
		{Date: time.Date(2024, 3, 4, 9, 30, 0, 0, time.UTC), Price: 2},
	}

	s, err := NewPriceSeries("7203.T", pts)
	require.NoError(t, err)
	require.Equal(t, 3, s.Len())

	got := s.Points()
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), got[0].Date)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), got[1].Date)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), got[2].Date)
	assert.Equal(t, []float64{1, 2, 3}, []float64{got[0].Price, got[1].Price, got[2].Price})

	// caller's slice is not aliased
	pts[1].Price = 99
	assert.Equal(t, 1.0, s.At(0).Price)

	first, last, ok := s.Span()
	require.True(t, ok)
	assert.Equal(t, got[0].Date, first)
	assert.Equal(t, got[2].Date, last)
}

func TestNewPriceSeries_Invalid(t *testing.T) {
	t.Parallel()

	d := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	tests := []struct {
		name   string
		symbol string
		points []PricePoint
	}{
		{"missing symbol", "", []PricePoint{{Date: d, Price: 1}}},
		{"zero price", "AAPL", []PricePoint{{Date: d, Price: 0}}},
		{"negative price", "AAPL", []PricePoint{{Date: d, Price: -1}}},
		{"nan price", "AAPL", []PricePoint{{Date: d, Price: math.NaN()}}},
		{"duplicate day", "AAPL", []PricePoint{{Date: d, Price: 1}, {Date: d.Add(3 * time.Hour), Price: 2}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewPriceSeries(tt.symbol, tt.points)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestPriceSeries_EmptySpan(t *testing.T) {
	t.Parallel()

	s, err := NewPriceSeries("AAPL", nil)
	require.NoError(t, err)
	_, _, ok := s.Span()
	assert.False(t, ok)
}

func testDates(n int) []time.Time {
	out := make([]time.Time, n)
	for i := range out {
		out[i] = time.Date(2024, 1, 1+i, 0, 0, 0, 0, time.UTC)
	}
	return out
}

func TestNewAlignedTable(t *testing.T) {
	t.Parallel()

	cols := map[string][]float64{"A": {1, 2, 3}, "B": {4, 5, 6}}
	tb, err := NewAlignedTable(testDates(3), []string{"A", "B"}, cols)
	require.NoError(t, err)

	assert.Equal(t, 3, tb.Len())
	assert.Equal(t, []string{"A", "B"}, tb.Symbols())
	assert.True(t, tb.Has("A"))
	assert.False(t, tb.Has("C"))

	// owned copies both ways
	cols["A"][0] = 100
	a, _ := tb.Column("A")
	assert.Equal(t, 1.0, a[0])
	a[1] = 100
	again, _ := tb.Column("A")
	assert.Equal(t, 2.0, again[1])

	rows := tb.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, []float64{2, 5}, rows[1].Values)
}

func TestNewAlignedTable_Invalid(t *testing.T) {
	t.Parallel()

	d := testDates(2)
	tests := []struct {
		name    string
		dates   []time.Time
		symbols []string
		cols    map[string][]float64
	}{
		{"no columns", d, nil, map[string][]float64{}},
		{"short column", d, []string{"A"}, map[string][]float64{"A": {1}}},
		{"missing column", d, []string{"A", "B"}, map[string][]float64{"A": {1, 2}, "C": {1, 2}}},
		{"extra column", d, []string{"A"}, map[string][]float64{"A": {1, 2}, "B": {1, 2}}},
		{"duplicate symbol", d, []string{"A", "A"}, map[string][]float64{"A": {1, 2}, "B": {1, 2}}},
		{"unsorted dates", []time.Time{d[1], d[0]}, []string{"A"}, map[string][]float64{"A": {1, 2}}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewAlignedTable(tt.dates, tt.symbols, tt.cols)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput), "got %v", err)
		})
	}
}

func TestAlignedTable_HeadTail(t *testing.T) {
	t.Parallel()

	tb, err := NewAlignedTable(testDates(7), []string{"A"}, map[string][]float64{"A": {1, 2, 3, 4, 5, 6, 7}})
	require.NoError(t, err)

	head, _ := tb.Head(5).Column("A")
	tail, _ := tb.Tail(5).Column("A")
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, head)
	assert.Equal(t, []float64{3, 4, 5, 6, 7}, tail)
	assert.Equal(t, 7, tb.Head(10).Len())
	assert.Equal(t, 7, tb.Tail(10).Len())
	assert.Equal(t, testDates(7)[2:], tb.Tail(5).Dates())

	// negative counts yield an empty table
	assert.Equal(t, 0, tb.Head(-1).Len())
	assert.Equal(t, 0, tb.Tail(-1).Len())
	assert.Equal(t, []string{"A"}, tb.Tail(-3).Symbols())
}

func TestAlignedTable_MapColumns(t *testing.T) {
	t.Parallel()

	tb, err := NewAlignedTable(testDates(2), []string{"A"}, map[string][]float64{"A": {1, 2}})
	require.NoError(t, err)

	doubled, err := tb.MapColumns(func(_ string, v []float64) ([]float64, error) {
		for i := range v {
			v[i] *= 2
		}
		return v, nil
	})
	require.NoError(t, err)
	got, _ := doubled.Column("A")
	orig, _ := tb.Column("A")
	assert.Equal(t, []float64{2, 4}, got)
	assert.Equal(t, []float64{1, 2}, orig)

	_, err = tb.MapColumns(func(_ string, _ []float64) ([]float64, error) { return []float64{1}, nil })
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestAnalysis_Lookups(t *testing.T) {
	t.Parallel()

	a := Analysis{
		Regressions:     []RegressionResult{{Symbol: "AAPL", Beta: 1.2, Alpha: 0.01}},
		ExpectedReturns: []ExpectedReturn{{Symbol: "AAPL", Value: 14.5}},
	}
	r, ok := a.Regression("AAPL")
	assert.True(t, ok)
	assert.Equal(t, 1.2, r.Beta)
	_, ok = a.Regression("MSFT")
	assert.False(t, ok)
	v, ok := a.Expected("AAPL")
	assert.True(t, ok)
	assert.Equal(t, 14.5, v)
}
