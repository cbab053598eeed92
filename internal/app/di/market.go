// Package di provides dependency injection factories for creating application components.
package di

import (
	"capm_backend/internal/feature/candles/adapters/twelvedata"
	infrahttp "capm_backend/internal/platform/http"
	"capm_backend/internal/shared/ratelimiter"
)

// NewMarket creates a fully configured TwelveDataMarket with HTTP client.
// A non-nil limiter throttles every outgoing request.
func NewMarket(cfg twelvedata.Config, limiter ratelimiter.RateLimiterInterface) *twelvedata.TwelveDataMarket {
	httpClient := infrahttp.NewHTTPClient(cfg.Timeout, limiter)
	return twelvedata.NewTwelveDataMarket(cfg, httpClient)
}
