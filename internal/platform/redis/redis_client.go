// Package redis はRedisクライアントの設定と接続を提供します。
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Config はRedis接続とキャッシュの設定を保持します。
type Config struct {
	Host       string
	Port       string
	Password   string
	DB         int
	CacheTTL   time.Duration // キャッシュエントリの最大保持期間
	RefreshAt  int           // 日足の更新時刻（時）。この時刻を過ぎたエントリは失効
	RefreshLoc *time.Location
}

// Enabled はRedisが設定されているかどうかを返します。
func (c Config) Enabled() bool { return c.Host != "" }

// Addr は host:port 形式のアドレスを返します。
func (c Config) Addr() string { return c.Host + ":" + c.Port }

// LoadConfig は環境変数から設定を読み込みます。REDIS_HOST が空の場合キャッシュは無効です。
func LoadConfig() (Config, error) {
	cfg := Config{
		Host:       os.Getenv("REDIS_HOST"),
		Port:       os.Getenv("REDIS_PORT"),
		Password:   os.Getenv("REDIS_PASSWORD"),
		CacheTTL:   6 * time.Hour,
		RefreshAt:  8,
		RefreshLoc: time.UTC,
	}
	if cfg.Port == "" {
		cfg.Port = "6379"
	}
	if v := os.Getenv("REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid REDIS_DB %q", v)
		}
		cfg.DB = n
	}
	if v := os.Getenv("CACHE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid CACHE_TTL %q", v)
		}
		cfg.CacheTTL = d
	}
	if v := os.Getenv("CACHE_REFRESH_HOUR"); v != "" {
		h, err := strconv.Atoi(v)
		if err != nil || h < 0 || h > 23 {
			return Config{}, fmt.Errorf("invalid CACHE_REFRESH_HOUR %q", v)
		}
		cfg.RefreshAt = h
	}
	if v := os.Getenv("CACHE_REFRESH_TZ"); v != "" {
		loc, err := time.LoadLocation(v)
		if err != nil {
			return Config{}, fmt.Errorf("invalid CACHE_REFRESH_TZ %q: %w", v, err)
		}
		cfg.RefreshLoc = loc
	}
	return cfg, nil
}

// NewRedisClient はRedisクライアントを作成し、接続を確認します。
func NewRedisClient(ctx context.Context, cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// 接続確認
	if err := rdb.Ping(ctx).Err(); err != nil {
		slog.Error("Redis connection failed", "address", cfg.Addr(), "error", err)
		_ = rdb.Close()
		return nil, err
	}

	slog.Info("Redis connection successful", "address", cfg.Addr())
	return rdb, nil
}
