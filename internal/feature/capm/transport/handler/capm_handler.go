// Package handler はcapmフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"capm_backend/internal/feature/capm/domain"
	"capm_backend/internal/feature/capm/domain/entity"
	"capm_backend/internal/feature/capm/transport/http/dto"
	"capm_backend/internal/feature/capm/usecase"
)

// CAPMUsecase はCAPM分析のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type CAPMUsecase interface {
	Analyze(ctx context.Context, req usecase.AnalysisRequest) (entity.Analysis, error)
	Compare(ctx context.Context, req usecase.ComparisonRequest) (entity.Comparison, error)
}

// CAPMHandler はCAPM分析と銘柄比較のHTTPリクエストを処理します。
type CAPMHandler struct {
	uc CAPMUsecase
}

// NewCAPMHandler は指定されたusecaseでCAPMHandlerの新しいインスタンスを生成します。
func NewCAPMHandler(uc CAPMUsecase) *CAPMHandler {
	return &CAPMHandler{uc: uc}
}

// Analyze はベンチマークと銘柄一覧を受け取り、ベータと期待リターンを返します。
//
// エンドポイント例:
// POST /capm/analysis {"benchmark":"NASDAQ 100","symbols":["AAPL","MSFT"],"years":5}
func (h *CAPMHandler) Analyze(c *gin.Context) {
	var req dto.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid request"})
		return
	}
	asOf, err := parseDate(req.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
		return
	}

	a, err := h.uc.Analyze(c.Request.Context(), usecase.AnalysisRequest{
		Benchmark: req.Benchmark,
		Symbols:   req.Symbols,
		Years:     req.Years,
		AsOf:      asOf,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAnalysisResponse(a))
}

// Compare は2銘柄の累積リターンを共通の取引日で比較します。
//
// エンドポイント例:
// GET /capm/compare?first=AAPL&second=MSFT&years=3
func (h *CAPMHandler) Compare(c *gin.Context) {
	var q dto.ComparisonQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "first and second are required"})
		return
	}
	asOf, err := parseDate(q.AsOf)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
		return
	}

	cmp, err := h.uc.Compare(c.Request.Context(), usecase.ComparisonRequest{
		First:  q.First,
		Second: q.Second,
		Years:  q.Years,
		AsOf:   asOf,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewComparisonResponse(cmp))
}

// writeError はエラーの種類をHTTPステータスに対応付けて返します。
// 取得のタイムアウトは上流エラーとしても扱われるため、先に判定します。
func writeError(c *gin.Context, err error) {
	res := dto.ErrorResponse{Error: err.Error()}
	var de *domain.DataError
	if errors.As(err, &de) {
		res.Kind = de.Kind.Error()
		res.Stage = de.Stage
		res.Symbol = de.Symbol
	}

	var status int
	switch {
	case errors.Is(err, usecase.ErrInvalidRequest), errors.Is(err, usecase.ErrUnknownBenchmark):
		status = http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUpstreamFetch):
		status = http.StatusBadGateway
	case de != nil:
		status = http.StatusUnprocessableEntity
	default:
		status = http.StatusInternalServerError
		slog.Error("capm request failed", "path", c.FullPath(), "error", err)
		res = dto.ErrorResponse{Error: "internal server error"}
	}
	c.JSON(status, res)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.DateOnly, s)
}
