// Package twelvedata はTwelve Data株式市場APIのクライアントを提供します。
package twelvedata

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

const (
	defaultBaseURL = "https://api.twelvedata.com"
	// defaultRatePerMinute は無料プランの上限（1分あたり8リクエスト）です。
	defaultRatePerMinute = 8
)

// Config はTwelve Data APIクライアントの設定を保持します。
type Config struct {
	TwelveDataAPIKey string        // 認証用APIキー
	BaseURL          string        // APIのベースURL（例: "https://api.twelvedata.com"）
	Timeout          time.Duration // HTTPリクエストのタイムアウト
	RatePerMinute    int           // 1分あたりのリクエスト上限
}

// LoadConfig は環境変数からTwelve Dataの設定を読み込みます。
func LoadConfig() (Config, error) {
	cfg := Config{
		TwelveDataAPIKey: os.Getenv("TWELVE_DATA_API_KEY"),
		BaseURL:          os.Getenv("TWELVE_DATA_BASE_URL"),
		Timeout:          10 * time.Second,
		RatePerMinute:    defaultRatePerMinute,
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if v := os.Getenv("TWELVE_DATA_RATE_PER_MINUTE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return Config{}, fmt.Errorf("invalid TWELVE_DATA_RATE_PER_MINUTE %q", v)
		}
		cfg.RatePerMinute = n
	}
	return cfg, nil
}
