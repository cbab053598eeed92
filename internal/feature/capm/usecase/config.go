package usecase

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"capm_backend/internal/feature/capm/domain/quant"
)

const (
	// MinYears と MaxYears は分析期間（年）の許容範囲です。
	MinYears = 1
	MaxYears = 15
	// DefaultYears は期間未指定時の分析期間です。
	DefaultYears = 5

	// DefaultFetchTimeout は1リクエスト分の株価取得全体に許す時間です。
	DefaultFetchTimeout = 30 * time.Second
	// DefaultFetchConcurrency は同時に取得する銘柄数の上限です。
	DefaultFetchConcurrency = 4
)

// Config はCAPMユースケースの設定を保持します。
type Config struct {
	Quant            quant.Config
	FetchTimeout     time.Duration
	FetchConcurrency int
}

// DefaultConfig はデフォルト設定を返します。
func DefaultConfig() Config {
	return Config{
		Quant:            quant.DefaultConfig(),
		FetchTimeout:     DefaultFetchTimeout,
		FetchConcurrency: DefaultFetchConcurrency,
	}
}

// LoadConfig は環境変数から設定を読み込みます。
func LoadConfig() (Config, error) {
	q, err := quant.LoadConfig()
	if err != nil {
		return Config{}, err
	}
	cfg := DefaultConfig()
	cfg.Quant = q

	if v := os.Getenv("CAPM_FETCH_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("invalid CAPM_FETCH_TIMEOUT %q", v)
		}
		cfg.FetchTimeout = d
	}
	if v := os.Getenv("CAPM_FETCH_CONCURRENCY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("invalid CAPM_FETCH_CONCURRENCY %q", v)
		}
		cfg.FetchConcurrency = n
	}
	return cfg, nil
}
