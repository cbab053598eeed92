// Package usecase はCAPM分析と銘柄比較のビジネスロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"capm_backend/internal/feature/capm/domain"
	"capm_backend/internal/feature/capm/domain/entity"
	"capm_backend/internal/feature/capm/domain/quant"
)

// PriceSource は銘柄の日次終値を提供する外部データ取得レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PriceSource interface {
	// DailyCloses は[from, to]の取引日の終値を返します。
	DailyCloses(ctx context.Context, symbol string, from, to time.Time) (entity.PriceSeries, error)
}

// BenchmarkResolver はベンチマーク名（例: "NASDAQ 100"）またはティッカー（例: "^NDX"）を解決します。
// 見つからない場合は ErrUnknownBenchmark をラップしたエラーを返します。
type BenchmarkResolver interface {
	ResolveBenchmark(ctx context.Context, key string) (name, symbol string, err error)
}

// AnalysisRequest はCAPM分析の1リクエスト分の入力です。
type AnalysisRequest struct {
	Benchmark string    // ベンチマーク名またはティッカー
	Symbols   []string  // 分析対象の銘柄
	Years     int       // 分析期間（年）。0ならDefaultYears
	AsOf      time.Time // 期間の終端。ゼロ値なら現在時刻
}

// ComparisonRequest は2銘柄の累積リターン比較の入力です。
type ComparisonRequest struct {
	First  string
	Second string
	Years  int
	AsOf   time.Time
}

// CAPMUsecase は株価の取得からCAPM統計量の算出までを調整します。
type CAPMUsecase struct {
	prices     PriceSource
	benchmarks BenchmarkResolver
	cfg        Config
}

// NewCAPMUsecase は新しい CAPMUsecase を作成します。
func NewCAPMUsecase(prices PriceSource, benchmarks BenchmarkResolver, cfg Config) *CAPMUsecase {
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.FetchConcurrency <= 0 {
		cfg.FetchConcurrency = DefaultFetchConcurrency
	}
	return &CAPMUsecase{prices: prices, benchmarks: benchmarks, cfg: cfg}
}

// Analyze はベンチマークに対する各銘柄のベータ・アルファと期待リターンを算出します。
func (u *CAPMUsecase) Analyze(ctx context.Context, req AnalysisRequest) (entity.Analysis, error) {
	symbols, err := cleanSymbols(req.Symbols)
	if err != nil {
		return entity.Analysis{}, err
	}
	years, err := resolveYears(req.Years)
	if err != nil {
		return entity.Analysis{}, err
	}
	key := strings.TrimSpace(req.Benchmark)
	if key == "" {
		return entity.Analysis{}, fmt.Errorf("%w: benchmark is required", ErrInvalidRequest)
	}

	name, benchSymbol, err := u.benchmarks.ResolveBenchmark(ctx, key)
	if err != nil {
		return entity.Analysis{}, err
	}
	for _, s := range symbols {
		if s == benchSymbol {
			return entity.Analysis{}, fmt.Errorf("%w: %s is the benchmark itself", ErrInvalidRequest, s)
		}
	}

	from, to := DateRange(req.AsOf, years)
	series, err := u.fetchAll(ctx, append(slices.Clone(symbols), benchSymbol), from, to)
	if err != nil {
		return entity.Analysis{}, err
	}

	analysis, err := quant.Analyze(u.cfg.Quant, series[len(series)-1], series[:len(series)-1])
	if err != nil {
		slog.Warn("capm analysis failed", "benchmark", benchSymbol, "symbols", symbols, "error", err)
		return entity.Analysis{}, err
	}
	analysis.BenchmarkName = name

	slog.Info("capm analysis completed",
		"benchmark", benchSymbol,
		"symbols", len(symbols),
		"rows", analysis.Prices.Len(),
		"from", analysis.From.Format(time.DateOnly),
		"to", analysis.To.Format(time.DateOnly),
	)
	return analysis, nil
}

// Compare は2銘柄の共通取引日における累積リターン（%）を算出します。
func (u *CAPMUsecase) Compare(ctx context.Context, req ComparisonRequest) (entity.Comparison, error) {
	first := strings.TrimSpace(req.First)
	second := strings.TrimSpace(req.Second)
	if first == "" || second == "" {
		return entity.Comparison{}, fmt.Errorf("%w: two symbols are required", ErrInvalidRequest)
	}
	if first == second {
		return entity.Comparison{}, fmt.Errorf("%w: choose two different symbols", ErrInvalidRequest)
	}
	years, err := resolveYears(req.Years)
	if err != nil {
		return entity.Comparison{}, err
	}

	from, to := DateRange(req.AsOf, years)
	series, err := u.fetchAll(ctx, []string{first, second}, from, to)
	if err != nil {
		return entity.Comparison{}, err
	}

	cmp, err := quant.Compare(series[0], series[1])
	if err != nil {
		slog.Warn("comparison failed", "first", first, "second", second, "error", err)
		return entity.Comparison{}, err
	}
	return cmp, nil
}

// fetchAll は全銘柄の株価を並行して取得します。
// 1銘柄でも失敗した場合は残りの取得をキャンセルし、部分的な結果は返しません。
func (u *CAPMUsecase) fetchAll(ctx context.Context, symbols []string, from, to time.Time) ([]entity.PriceSeries, error) {
	ctx, cancel := context.WithTimeout(ctx, u.cfg.FetchTimeout)
	defer cancel()

	out := make([]entity.PriceSeries, len(symbols))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(u.cfg.FetchConcurrency)
	for i, sym := range symbols {
		i := i
		sym := sym
		g.Go(func() error {
			s, err := u.prices.DailyCloses(gctx, sym, from, to)
			if err != nil {
				return domain.UpstreamFetchError(sym, err)
			}
			if s.Len() == 0 {
				return domain.UpstreamFetchError(sym, errNoData)
			}
			out[i] = s
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		slog.Error("failed to fetch price series", "symbols", symbols, "error", err)
		return nil, err
	}
	return out, nil
}

// DateRange は asOf を終端とし、years 年前の同じ日付を始端とする期間を返します。
// 2月29日は AddDate の正規化に従い3月1日になります。
func DateRange(asOf time.Time, years int) (from, to time.Time) {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	to = entity.Day(asOf)
	from = to.AddDate(-years, 0, 0)
	return from, to
}

func resolveYears(years int) (int, error) {
	if years == 0 {
		return DefaultYears, nil
	}
	if years < MinYears || years > MaxYears {
		return 0, fmt.Errorf("%w: years must be between %d and %d, got %d", ErrInvalidRequest, MinYears, MaxYears, years)
	}
	return years, nil
}

// cleanSymbols は前後の空白を除去し、空・重複を拒否します。
func cleanSymbols(in []string) ([]string, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: select at least one symbol", ErrInvalidRequest)
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("%w: empty symbol", ErrInvalidRequest)
		}
		if _, dup := seen[s]; dup {
			return nil, fmt.Errorf("%w: %s selected twice", ErrInvalidRequest, s)
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out, nil
}
