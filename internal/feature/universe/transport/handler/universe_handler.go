// Package handler はuniverseフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"capm_backend/internal/feature/universe/domain/entity"
	"capm_backend/internal/feature/universe/transport/http/dto"
	"capm_backend/internal/feature/universe/usecase"
)

// UniverseUsecase はベンチマークと銘柄に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type UniverseUsecase interface {
	ListBenchmarks(ctx context.Context) ([]entity.Benchmark, error)
	ListSymbols(ctx context.Context, benchmark string) ([]entity.Symbol, error)
}

// UniverseHandler はベンチマークと銘柄のHTTPリクエストを処理します。
type UniverseHandler struct {
	uc UniverseUsecase
}

// NewUniverseHandler は新しい UniverseHandler を作成します。
func NewUniverseHandler(uc UniverseUsecase) *UniverseHandler {
	return &UniverseHandler{uc: uc}
}

// ListBenchmarks は選択可能なベンチマークの一覧を返します。
//
// GET /benchmarks
func (h *UniverseHandler) ListBenchmarks(c *gin.Context) {
	bs, err := h.uc.ListBenchmarks(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.BenchmarkItem, 0, len(bs))
	for _, b := range bs {
		out = append(out, dto.BenchmarkItem{Name: b.Name, Symbol: b.Symbol})
	}
	c.JSON(http.StatusOK, out)
}

// ListSymbols はベンチマーク（名前またはティッカー）の構成銘柄を返します。
// 未登録のベンチマークは404 Not Foundを返します。
//
// GET /benchmarks/:name/symbols
func (h *UniverseHandler) ListSymbols(c *gin.Context) {
	symbols, err := h.uc.ListSymbols(c.Request.Context(), c.Param("name"))
	if err != nil {
		if errors.Is(err, usecase.ErrBenchmarkNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, dto.SymbolItem{Code: s.Code, Name: s.Name})
	}
	c.JSON(http.StatusOK, out)
}
