package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"capm_backend/internal/feature/candles/adapters/twelvedata/dto"
	"capm_backend/internal/feature/candles/domain/entity"
	"capm_backend/internal/feature/candles/usecase"
)

// maxOutputSize はtime_seriesが1回で返す最大件数です。
const maxOutputSize = 5000

// ErrCircuitOpen はサーキットブレーカーが開いていて呼び出しを行わなかった場合に返されます。
var ErrCircuitOpen = errors.New("twelvedata: circuit open")

// APIError はTwelve Dataが返したエラー（HTTPステータスまたはレスポンス本文の status=error）です。
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("twelvedata http %d", e.Code)
	}
	return fmt.Sprintf("twelvedata %d: %s", e.Code, e.Message)
}

// TwelveDataMarket はTwelve Data外部APIから株価データを取得するMarketRepository実装です。
type TwelveDataMarket struct {
	cfg     Config
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

// TwelveDataMarketがMarketRepositoryを実装していることをコンパイル時に検証します。
var _ usecase.MarketRepository = (*TwelveDataMarket)(nil)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
// 連続した失敗が続くと、一定時間APIを呼ばずに ErrCircuitOpen を返します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	st := gobreaker.Settings{
		Name:        "twelvedata",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: countsAsSuccess,
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}
	return &TwelveDataMarket{cfg: cfg, client: client, breaker: gobreaker.NewCircuitBreaker(st)}
}

// countsAsSuccess はプロバイダー側の障害だけを失敗として数えます。
// 不明な銘柄などの4xxや呼び出し元のキャンセルではブレーカーを開きません。
func countsAsSuccess(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code < 500 && apiErr.Code != http.StatusTooManyRequests
	}
	return false
}

// GetTimeSeries はTwelve Data APIから[from, to]の時系列株価データを取得し、
// 日付の昇順で entity.Candle のスライスとして返します。
func (t *TwelveDataMarket) GetTimeSeries(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Candle, error) {
	res, err := t.breaker.Execute(func() (interface{}, error) {
		return t.fetch(ctx, symbol, interval, from, to)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %s", ErrCircuitOpen, symbol)
		}
		return nil, err
	}
	return res.([]entity.Candle), nil
}

func (t *TwelveDataMarket) fetch(ctx context.Context, symbol, interval string, from, to time.Time) ([]entity.Candle, error) {
	q := url.Values{}
	// クエリパラメータを追加
	sym, exchange := providerSymbol(symbol)
	q.Set("symbol", sym)
	if exchange != "" {
		q.Set("exchange", exchange)
	}
	q.Set("interval", interval)
	q.Set("start_date", from.Format(time.DateOnly))
	// end_date は当日を含まないため1日先を指定
	q.Set("end_date", to.AddDate(0, 0, 1).Format(time.DateOnly))
	q.Set("order", "ASC")
	q.Set("outputsize", strconv.Itoa(maxOutputSize))
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	// URLを生成
	u := fmt.Sprintf("%s/time_series?%s", t.cfg.BaseURL, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, &APIError{Code: res.StatusCode}
	}

	// JSONレスポンスをDTOにデコード
	var body dto.TimeSeriesResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode time_series %s: %w", symbol, err)
	}
	if body.Status == "error" {
		return nil, &APIError{Code: body.Code, Message: body.Message}
	}

	candles := make([]entity.Candle, 0, len(body.Values))
	for _, v := range body.Values {
		c, err := toCandle(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", symbol, err)
		}
		c.Symbol = symbol
		c.Interval = interval
		candles = append(candles, c)
	}
	return candles, nil
}

// toCandle は文字列で返される1本分の足をパースします。
// exchangeSuffixes maps Yahoo-style listing suffixes to Twelve Data exchange codes.
var exchangeSuffixes = map[string]string{
	".NS": "NSE",
	".BO": "BSE",
}

// providerSymbol translates a catalog ticker into the symbol and exchange
// Twelve Data expects. Indices drop the caret and share classes use a dot.
func providerSymbol(symbol string) (sym, exchange string) {
	sym = strings.TrimPrefix(symbol, "^")
	for suffix, ex := range exchangeSuffixes {
		if base, ok := strings.CutSuffix(sym, suffix); ok && base != "" {
			return base, ex
		}
	}
	return strings.ReplaceAll(sym, "-", "."), ""
}

func toCandle(v dto.TimeSeriesValue) (entity.Candle, error) {
	// タイムスタンプをパース
	tm, err := time.Parse(time.DateTime, v.Datetime)
	if err != nil {
		tm, err = time.Parse(time.DateOnly, v.Datetime)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse time %q: %w", v.Datetime, err)
		}
	}
	o, err := strconv.ParseFloat(v.Open, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse open %q: %w", v.Open, err)
	}
	h, err := strconv.ParseFloat(v.High, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse high %q: %w", v.High, err)
	}
	l, err := strconv.ParseFloat(v.Low, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse low %q: %w", v.Low, err)
	}
	c, err := strconv.ParseFloat(v.Close, 64)
	if err != nil {
		return entity.Candle{}, fmt.Errorf("parse close %q: %w", v.Close, err)
	}
	// 指数は出来高を返さない
	var vol int64
	if v.Volume != "" {
		vol, err = strconv.ParseInt(v.Volume, 10, 64)
		if err != nil {
			return entity.Candle{}, fmt.Errorf("parse volume %q: %w", v.Volume, err)
		}
	}

	return entity.Candle{Time: tm, Open: o, High: h, Low: l, Close: c, Volume: vol}, nil
}
