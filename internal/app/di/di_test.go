package di

import (
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"capm_backend/internal/feature/candles/adapters/twelvedata"
	"capm_backend/internal/platform/cache"
	infraredis "capm_backend/internal/platform/redis"
)

func TestNewCandleRepository(t *testing.T) {
	t.Parallel()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	plain := NewCandleRepository(db, nil, infraredis.Config{})
	_, cached := plain.(*cache.CachingCandleRepository)
	assert.False(t, cached, "without redis the database repository is used directly")

	rdb, _ := redismock.NewClientMock()
	defer func() { _ = rdb.Close() }()
	wrapped := NewCandleRepository(db, rdb, infraredis.Config{CacheTTL: time.Hour, RefreshAt: 8, RefreshLoc: time.UTC})
	_, cached = wrapped.(*cache.CachingCandleRepository)
	assert.True(t, cached)
}

func TestNewMarket(t *testing.T) {
	t.Parallel()

	m := NewMarket(twelvedata.Config{BaseURL: "http://localhost", Timeout: time.Second}, nil)
	assert.NotNil(t, m)
}
