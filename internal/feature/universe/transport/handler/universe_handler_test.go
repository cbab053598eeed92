package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"capm_backend/internal/feature/universe/domain/entity"
	"capm_backend/internal/feature/universe/usecase"
)

// mockUniverseUsecase はUniverseUsecaseインターフェースのモック実装です。
type mockUniverseUsecase struct {
	ListBenchmarksFunc func(ctx context.Context) ([]entity.Benchmark, error)
	ListSymbolsFunc    func(ctx context.Context, benchmark string) ([]entity.Symbol, error)
}

func (m *mockUniverseUsecase) ListBenchmarks(ctx context.Context) ([]entity.Benchmark, error) {
	if m.ListBenchmarksFunc != nil {
		return m.ListBenchmarksFunc(ctx)
	}
	return nil, nil
}

func (m *mockUniverseUsecase) ListSymbols(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
	if m.ListSymbolsFunc != nil {
		return m.ListSymbolsFunc(ctx, benchmark)
	}
	return nil, nil
}

// TestNewUniverseHandler はコンストラクタが正しくインスタンスを生成することを検証します。
func TestNewUniverseHandler(t *testing.T) {
	t.Parallel()

	h := NewUniverseHandler(&mockUniverseUsecase{})

	assert.NotNil(t, h, "handler should not be nil")
	assert.NotNil(t, h.uc, "usecase should not be nil")
}

// TestUniverseHandler_ListBenchmarks はベンチマーク一覧の各種シナリオを検証します。
func TestUniverseHandler_ListBenchmarks(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		mockList       func(ctx context.Context) ([]entity.Benchmark, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns benchmarks",
			mockList: func(ctx context.Context) ([]entity.Benchmark, error) {
				return []entity.Benchmark{{ID: 1, Name: "Nifty 50", Symbol: "^NSEI"}, {ID: 2, Name: "NASDAQ 100", Symbol: "^NDX"}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"name":"Nifty 50","symbol":"^NSEI"},{"name":"NASDAQ 100","symbol":"^NDX"}]`,
		},
		{
			name:           "success: nil becomes empty array",
			mockList:       func(ctx context.Context) ([]entity.Benchmark, error) { return nil, nil },
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name:           "failure: usecase error",
			mockList:       func(ctx context.Context) ([]entity.Benchmark, error) { return nil, errors.New("database connection failed") },
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database connection failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUniverseHandler(&mockUniverseUsecase{ListBenchmarksFunc: tt.mockList})
			router := gin.New()
			router.GET("/benchmarks", h.ListBenchmarks)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/benchmarks", nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestUniverseHandler_ListSymbols は構成銘柄一覧の各種シナリオを検証します。
func TestUniverseHandler_ListSymbols(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		mockList       func(ctx context.Context, benchmark string) ([]entity.Symbol, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: escaped benchmark name",
			url:  "/benchmarks/NASDAQ%20100/symbols",
			mockList: func(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
				assert.Equal(t, "NASDAQ 100", benchmark)
				return []entity.Symbol{{Code: "AAPL", Name: "AAPL"}, {Code: "MSFT", Name: "MSFT"}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"code":"AAPL","name":"AAPL"},{"code":"MSFT","name":"MSFT"}]`,
		},
		{
			name: "success: ticker",
			url:  "/benchmarks/%5ENSEI/symbols",
			mockList: func(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
				assert.Equal(t, "^NSEI", benchmark)
				return []entity.Symbol{{Code: "TCS.NS", Name: "TCS.NS"}}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"code":"TCS.NS","name":"TCS.NS"}]`,
		},
		{
			name: "failure: unknown benchmark",
			url:  "/benchmarks/DAX/symbols",
			mockList: func(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
				return nil, fmt.Errorf("%w: %s", usecase.ErrBenchmarkNotFound, benchmark)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"benchmark not found: DAX"}`,
		},
		{
			name: "failure: usecase error",
			url:  "/benchmarks/DAX/symbols",
			mockList: func(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
				return nil, errors.New("boom")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"boom"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewUniverseHandler(&mockUniverseUsecase{ListSymbolsFunc: tt.mockList})
			router := gin.New()
			router.GET("/benchmarks/:name/symbols", h.ListSymbols)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
