package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"capm_backend/internal/feature/candles/domain/entity"
	"capm_backend/internal/shared/ratelimiter"
)

// MarketRepository は株価データを取得するリポジトリのインターフェイスです。
// 外部 API の実装を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type MarketRepository interface {
	GetTimeSeries(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Candle, error)
}

// IngestReport は一括取り込みの結果です。
type IngestReport struct {
	Symbols int               // 対象銘柄数
	Candles int               // 保存したローソク足の件数
	Failed  map[string]error // 失敗した銘柄とその原因
}

// IngestUsecase は外部APIからデータを取得し、データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	market      MarketRepository
	candle      CandleRepository
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しい IngestUsecase を作成します。
func NewIngestUsecase(market MarketRepository, candle CandleRepository, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{market: market, candle: candle, rateLimiter: rateLimiter}
}

// ingestOne は指定された銘柄の日足を外部リポジトリから取得し、
// データベースに一括で挿入（または更新）します。
func (iu *IngestUsecase) ingestOne(ctx context.Context, symbol string, from, to time.Time) (int, error) {
	cs, err := iu.market.GetTimeSeries(ctx, symbol, entity.IntervalDaily, from, to)
	if err != nil {
		return 0, err
	}

	// 取得したデータに銘柄コードと時間足を設定
	for i := range cs {
		cs[i].Symbol = symbol
		cs[i].Interval = entity.IntervalDaily
		cs[i].Time = day(cs[i].Time)
	}
	if err := iu.candle.UpsertBatch(ctx, cs); err != nil {
		return 0, fmt.Errorf("upsert %s: %w", symbol, err)
	}
	return len(cs), nil
}

// IngestAll は指定された全銘柄の日足を[from, to]の範囲で取得し、データベースに永続化します。
// APIのレートリミットを考慮して、リクエスト間に適切な待機時間を設けます。
// 1銘柄の失敗では処理を止めず、ctx が終了した場合のみエラーを返します。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string, from, to time.Time) (IngestReport, error) {
	from, to, err := NormalizeRange(from, to, time.Now())
	if err != nil {
		return IngestReport{}, err
	}

	report := IngestReport{Symbols: len(symbols), Failed: map[string]error{}}
	for _, s := range symbols {
		if err := iu.rateLimiter.Wait(ctx); err != nil {
			return report, err
		}
		n, err := iu.ingestOne(ctx, s, from, to)
		if err != nil {
			// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次の処理を続ける
			slog.Error("failed to ingest data", "symbol", s, "error", err)
			report.Failed[s] = err
			continue
		}
		report.Candles += n
		slog.Info("ingested candles", "symbol", s, "count", n)
	}
	return report, nil
}
