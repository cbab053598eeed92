// Package usecase はローソク足データ操作のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"capm_backend/internal/feature/candles/domain/entity"
)

const (
	// DefaultLookback は期間未指定時に返すローソク足の期間です。
	DefaultLookback = 365 * 24 * time.Hour
	// MaxLookback は1回のクエリで許可する最大期間です。
	MaxLookback = 16 * 366 * 24 * time.Hour
	// coverageSlack は保存済みデータが期間を網羅しているとみなす許容幅（週末・祝日分）です。
	coverageSlack = 7 * 24 * time.Hour
)

// ErrInvalidQuery は銘柄または期間の指定が不正な場合に返されます。
var ErrInvalidQuery = errors.New("invalid candle query")

// CandleRepository はローソク足データの永続化レイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type CandleRepository interface {
	// FindRange は[from, to]のローソク足を日付の昇順で返します。
	FindRange(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Candle, error)
	// UpsertBatch はローソク足を一括で挿入（または更新）します。
	UpsertBatch(ctx context.Context, candles []entity.Candle) error
}

// candlesUsecase はローソク足データの読み取りを担うユースケースです。
// 保存済みデータが要求期間を網羅していない場合は外部APIから取得して保存します（リードスルー）。
type candlesUsecase struct {
	candle CandleRepository
	market MarketRepository

	mu sync.RWMutex
	// firstBars は外部APIが返した銘柄ごとの最初の足の日付です（上場日より前は存在しない）。
	firstBars map[string]time.Time
}

// NewCandlesUsecase はcandlesUsecaseの新しいインスタンスを生成します。
// market が nil の場合は保存済みデータのみを返します。
func NewCandlesUsecase(candle CandleRepository, market MarketRepository) *candlesUsecase {
	return &candlesUsecase{candle: candle, market: market, firstBars: make(map[string]time.Time)}
}

// GetCandles は指定された銘柄の日足を[from, to]の範囲で日付の昇順に返します。
func (cu *candlesUsecase) GetCandles(ctx context.Context, symbol string, from, to time.Time) ([]entity.Candle, error) {
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, fmt.Errorf("%w: symbol is required", ErrInvalidQuery)
	}
	from, to, err := NormalizeRange(from, to, time.Now())
	if err != nil {
		return nil, err
	}

	cs, err := cu.candle.FindRange(ctx, symbol, entity.IntervalDaily, from, to)
	if err != nil {
		return nil, fmt.Errorf("find candles %s: %w", symbol, err)
	}
	if cu.market == nil || entity.Covers(cs, cu.coverageStart(symbol, from), to, coverageSlack) {
		return cs, nil
	}

	fetched, err := cu.market.GetTimeSeries(ctx, symbol, entity.IntervalDaily, from, to)
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s: %w", symbol, err)
	}
	for i := range fetched {
		fetched[i].Symbol = symbol
		fetched[i].Interval = entity.IntervalDaily
		fetched[i].Time = day(fetched[i].Time)
	}
	cu.recordFirstBar(symbol, from, fetched)
	// 保存の失敗は読み取り結果に影響させない
	if err := cu.candle.UpsertBatch(ctx, fetched); err != nil {
		slog.Warn("failed to store fetched candles", "symbol", symbol, "count", len(fetched), "error", err)
	}
	return sortAndClip(fetched, from, to), nil
}

// coverageStart は網羅判定に使う開始日です。外部APIで確認済みの最初の足がfromより後ならそちらを使います。
func (cu *candlesUsecase) coverageStart(symbol string, from time.Time) time.Time {
	cu.mu.RLock()
	first, ok := cu.firstBars[symbol]
	cu.mu.RUnlock()
	if ok && first.After(from) {
		return first
	}
	return from
}

// recordFirstBar は外部APIの結果がfromより大きく遅れて始まる場合、その最初の足を記録します。
func (cu *candlesUsecase) recordFirstBar(symbol string, from time.Time, fetched []entity.Candle) {
	if len(fetched) == 0 {
		return
	}
	first := fetched[0].Time
	for _, c := range fetched[1:] {
		if c.Time.Before(first) {
			first = c.Time
		}
	}
	if !first.After(from.Add(coverageSlack)) {
		return
	}
	cu.mu.Lock()
	defer cu.mu.Unlock()
	if prev, ok := cu.firstBars[symbol]; !ok || first.Before(prev) {
		cu.firstBars[symbol] = first
	}
}

// NormalizeRange は期間をUTCの日付に丸め、未指定の端をデフォルトで補います。
func NormalizeRange(from, to, now time.Time) (time.Time, time.Time, error) {
	if to.IsZero() {
		to = now
	}
	to = day(to)
	if from.IsZero() {
		from = to.Add(-DefaultLookback)
	}
	from = day(from)
	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from %s is after to %s", ErrInvalidQuery, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	if to.Sub(from) > MaxLookback {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range exceeds %d days", ErrInvalidQuery, int(MaxLookback.Hours()/24))
	}
	return from, to, nil
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// sortAndClip は外部APIの結果を昇順に並べ、期間外の足を除きます。
func sortAndClip(cs []entity.Candle, from, to time.Time) []entity.Candle {
	out := make([]entity.Candle, 0, len(cs))
	for _, c := range cs {
		if c.Time.Before(from) || c.Time.After(to) {
			continue
		}
		out = append(out, c)
	}
	slices.SortFunc(out, func(a, b entity.Candle) int { return a.Time.Compare(b.Time) })
	return out
}
