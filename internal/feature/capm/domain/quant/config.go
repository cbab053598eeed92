// Package quant implements the CAPM pipeline: alignment of price histories, normalization,
// return series, beta/alpha regression and the expected-return projection.
//
// Every function is pure. Inputs are never modified and each stage returns a new table,
// so the package is safe for concurrent use by independent requests.
package quant

import (
	"fmt"
	"math"
	"os"
	"strconv"
)

const (
	// DefaultRiskFreeRate is the annual risk-free rate in percent.
	DefaultRiskFreeRate = 0.0
	// DefaultTradingDaysPerYear annualizes a mean daily return.
	DefaultTradingDaysPerYear = 252

	envRiskFreeRate       = "CAPM_RISK_FREE_RATE"
	envTradingDaysPerYear = "CAPM_TRADING_DAYS_PER_YEAR"
)

// Config holds the market conventions used by the projector.
type Config struct {
	RiskFreeRate       float64 // annual, percent (5 means 5%)
	TradingDaysPerYear int
}

// DefaultConfig returns rf = 0 and 252 trading days.
func DefaultConfig() Config {
	return Config{
		RiskFreeRate:       DefaultRiskFreeRate,
		TradingDaysPerYear: DefaultTradingDaysPerYear,
	}
}

// LoadConfig reads the projector settings from environment variables, keeping defaults for unset ones.
func LoadConfig() (Config, error) {
	cfg := DefaultConfig()
	if v := os.Getenv(envRiskFreeRate); v != "" {
		rf, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s %q: %w", envRiskFreeRate, v, err)
		}
		cfg.RiskFreeRate = rf
	}
	if v := os.Getenv(envTradingDaysPerYear); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("parse %s %q: %w", envTradingDaysPerYear, v, err)
		}
		cfg.TradingDaysPerYear = days
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects settings the projector cannot use.
func (c Config) Validate() error {
	if c.TradingDaysPerYear <= 0 {
		return fmt.Errorf("trading days per year must be positive, got %d", c.TradingDaysPerYear)
	}
	if math.IsNaN(c.RiskFreeRate) || math.IsInf(c.RiskFreeRate, 0) {
		return fmt.Errorf("risk-free rate must be finite, got %v", c.RiskFreeRate)
	}
	return nil
}

// Annualize scales a mean daily return to a yearly figure.
func (c Config) Annualize(meanDailyReturn float64) float64 {
	return meanDailyReturn * float64(c.TradingDaysPerYear)
}

// ExpectedReturn applies rf + beta * (Rm - rf) with Rm the annualized mean benchmark return.
func (c Config) ExpectedReturn(beta, meanDailyReturn float64) float64 {
	rm := c.Annualize(meanDailyReturn)
	return c.RiskFreeRate + beta*(rm-c.RiskFreeRate)
}
