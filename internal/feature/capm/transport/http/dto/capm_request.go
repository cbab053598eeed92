// Package dto はcapmフィーチャーのHTTPリクエスト・レスポンスDTOを定義します。
package dto

// AnalysisRequest はCAPM分析リクエストのDTOです。
type AnalysisRequest struct {
	Benchmark string   `json:"benchmark" binding:"required"`            // ベンチマーク名またはティッカー
	Symbols   []string `json:"symbols" binding:"required,min=1,max=50"` // 分析対象の銘柄
	Years     int      `json:"years" binding:"omitempty,min=1,max=15"`  // 分析期間（年）
	AsOf      string   `json:"as_of"`                                   // 期間の終端 (YYYY-MM-DD)
}

// ComparisonQuery は2銘柄比較のクエリパラメータです。
type ComparisonQuery struct {
	First  string `form:"first" binding:"required"`
	Second string `form:"second" binding:"required"`
	Years  int    `form:"years" binding:"omitempty,min=1,max=15"`
	AsOf   string `form:"as_of"`
}
