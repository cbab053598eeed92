package di

import (
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	candleadapters "capm_backend/internal/feature/candles/adapters"
	"capm_backend/internal/feature/candles/usecase"
	"capm_backend/internal/platform/cache"
	infraredis "capm_backend/internal/platform/redis"
)

// NewCandleRepository creates a CandleRepository implementation.
// If Redis is available, reads go through a Redis cache in front of the database.
func NewCandleRepository(db *gorm.DB, rdb *redis.Client, cfg infraredis.Config) usecase.CandleRepository {
	repo := candleadapters.NewCandleRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingCandleRepository(rdb, cfg.CacheTTL, repo, "candles").
		WithDailyRefresh(cfg.RefreshAt, cfg.RefreshLoc)
}
