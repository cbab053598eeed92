package dto

import (
	"math"
	"time"

	"capm_backend/internal/feature/capm/domain/entity"
)

// previewRows は価格表の先頭・末尾として返す行数です。
const previewRows = 5

// AnalysisResponse はCAPM分析結果のレスポンスDTOです。
type AnalysisResponse struct {
	Benchmark          string               `json:"benchmark"`
	BenchmarkName      string               `json:"benchmark_name"`
	Symbols            []string             `json:"symbols"`
	From               string               `json:"from"`
	To                 string               `json:"to"`
	Rows               int                  `json:"rows"`
	Prices             TablePreview         `json:"prices"`
	PriceSeries        SeriesTable          `json:"price_series"`
	Normalized         SeriesTable          `json:"normalized"`
	Betas              []BetaItem           `json:"betas"`
	ExpectedReturns    []ExpectedReturnItem `json:"expected_returns"`
	MarketReturn       float64              `json:"market_return"`
	RiskFreeRate       float64              `json:"risk_free_rate"`
	TradingDaysPerYear int                  `json:"trading_days_per_year"`
}

// TablePreview は価格表の先頭と末尾の数行です。
type TablePreview struct {
	Columns []string   `json:"columns"`
	Head    []TableRow `json:"head"`
	Tail    []TableRow `json:"tail"`
}

// TableRow は1取引日分の値です。Values の並びは Columns と同じです。
type TableRow struct {
	Date   string    `json:"date"`
	Values []float64 `json:"values"`
}

// SeriesTable はチャート描画用に列ごとの系列を返します。
type SeriesTable struct {
	Dates  []string             `json:"dates"`
	Series map[string][]float64 `json:"series"`
}

// BetaItem は1銘柄の回帰結果です。表示用に小数第2位で丸めた値と生の値を返します。
type BetaItem struct {
	Symbol   string  `json:"symbol"`
	Beta     float64 `json:"beta"`
	Alpha    float64 `json:"alpha"`
	BetaRaw  float64 `json:"beta_raw"`
	AlphaRaw float64 `json:"alpha_raw"`
}

// ExpectedReturnItem は1銘柄の期待リターン（年率 %）です。
type ExpectedReturnItem struct {
	Symbol            string  `json:"symbol"`
	ExpectedReturn    float64 `json:"expected_return"`
	ExpectedReturnRaw float64 `json:"expected_return_raw"`
}

// ComparisonResponse は2銘柄の累積リターン比較のレスポンスDTOです。
type ComparisonResponse struct {
	First       string               `json:"first"`
	Second      string               `json:"second"`
	From        string               `json:"from"`
	To          string               `json:"to"`
	Dates       []string             `json:"dates"`
	Returns     map[string][]float64 `json:"returns"`
	FinalFirst  float64              `json:"final_first"`
	FinalSecond float64              `json:"final_second"`
}

// ErrorResponse はエラー時のレスポンスDTOです。
// 計算途中の失敗では種別・ステージ・銘柄を付けて返します。
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Stage  string `json:"stage,omitempty"`
	Symbol string `json:"symbol,omitempty"`
}

// NewAnalysisResponse は分析結果をレスポンスDTOに変換します。
func NewAnalysisResponse(a entity.Analysis) AnalysisResponse {
	res := AnalysisResponse{
		Benchmark:          a.Benchmark,
		BenchmarkName:      a.BenchmarkName,
		Symbols:            a.Symbols,
		From:               formatDate(a.From),
		To:                 formatDate(a.To),
		Rows:               a.Prices.Len(),
		Prices:             newPreview(a.Prices),
		PriceSeries:        newSeriesTable(a.Prices),
		Normalized:         newSeriesTable(a.Normalized),
		Betas:              make([]BetaItem, 0, len(a.Regressions)),
		ExpectedReturns:    make([]ExpectedReturnItem, 0, len(a.ExpectedReturns)),
		MarketReturn:       Round2(a.MarketReturn),
		RiskFreeRate:       a.RiskFreeRate,
		TradingDaysPerYear: a.TradingDaysPerYear,
	}
	for _, r := range a.Regressions {
		res.Betas = append(res.Betas, BetaItem{
			Symbol:   r.Symbol,
			Beta:     Round2(r.Beta),
			Alpha:    Round2(r.Alpha),
			BetaRaw:  r.Beta,
			AlphaRaw: r.Alpha,
		})
	}
	for _, e := range a.ExpectedReturns {
		res.ExpectedReturns = append(res.ExpectedReturns, ExpectedReturnItem{
			Symbol:            e.Symbol,
			ExpectedReturn:    Round2(e.Value),
			ExpectedReturnRaw: e.Value,
		})
	}
	return res
}

// NewComparisonResponse は比較結果をレスポンスDTOに変換します。
func NewComparisonResponse(c entity.Comparison) ComparisonResponse {
	st := newSeriesTable(c.Cumulative)
	return ComparisonResponse{
		First:       c.First,
		Second:      c.Second,
		From:        formatDate(c.From),
		To:          formatDate(c.To),
		Dates:       st.Dates,
		Returns:     st.Series,
		FinalFirst:  Round2(c.FinalFirst),
		FinalSecond: Round2(c.FinalSecond),
	}
}

// Round2 は表示用に小数第2位へ丸めます。
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func newPreview(t entity.AlignedTable) TablePreview {
	return TablePreview{
		Columns: t.Symbols(),
		Head:    toRows(t.Head(previewRows)),
		Tail:    toRows(t.Tail(previewRows)),
	}
}

func toRows(t entity.AlignedTable) []TableRow {
	rows := t.Rows()
	out := make([]TableRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, TableRow{Date: formatDate(r.Date), Values: r.Values})
	}
	return out
}

func newSeriesTable(t entity.AlignedTable) SeriesTable {
	dates := t.Dates()
	st := SeriesTable{
		Dates:  make([]string, 0, len(dates)),
		Series: make(map[string][]float64, len(t.Symbols())),
	}
	for _, d := range dates {
		st.Dates = append(st.Dates, formatDate(d))
	}
	for _, s := range t.Symbols() {
		col, _ := t.Column(s)
		st.Series[s] = col
	}
	return st
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.DateOnly)
}
