// Package entity defines the domain models for the candles feature.
package entity

import "time"

// IntervalDaily is the only bar size the analysis pipeline consumes.
const IntervalDaily = "1day"

// Candle is one OHLCV bar for a symbol. Time is the trading day at UTC midnight.
type Candle struct {
	Symbol   string // e.g. "AAPL", "RELIANCE.NS", "^NDX"
	Interval string
	Time     time.Time
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   int64 // 0 for indices that report no volume
}

// Covers reports whether candles (ascending by Time) span [from, to] up to slack on either end.
// Weekends and exchange holidays mean the first and last stored bars rarely sit exactly on the bounds.
func Covers(candles []Candle, from, to time.Time, slack time.Duration) bool {
	if len(candles) == 0 {
		return false
	}
	first := candles[0].Time
	last := candles[len(candles)-1].Time
	return !first.After(from.Add(slack)) && !last.Before(to.Add(-slack))
}
