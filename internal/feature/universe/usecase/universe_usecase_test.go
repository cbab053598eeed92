package usecase_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"capm_backend/internal/feature/universe/domain/entity"
	"capm_backend/internal/feature/universe/usecase"
)

var errDB = errors.New("database connection failed")

// mockUniverseRepository はUniverseRepositoryインターフェースのモック実装です。
type mockUniverseRepository struct {
	ListBenchmarksFunc  func(ctx context.Context) ([]entity.Benchmark, error)
	FindBenchmarkFunc   func(ctx context.Context, key string) (entity.Benchmark, bool, error)
	ListActiveFunc      func(ctx context.Context, benchmark string) ([]entity.Symbol, error)
	ListActiveCodesFunc func(ctx context.Context) ([]string, error)
}

func (m *mockUniverseRepository) ListBenchmarks(ctx context.Context) ([]entity.Benchmark, error) {
	if m.ListBenchmarksFunc != nil {
		return m.ListBenchmarksFunc(ctx)
	}
	return []entity.Benchmark{{Name: "Nifty 50", Symbol: "^NSEI"}, {Name: "NASDAQ 100", Symbol: "^NDX"}}, nil
}

func (m *mockUniverseRepository) FindBenchmark(ctx context.Context, key string) (entity.Benchmark, bool, error) {
	if m.FindBenchmarkFunc != nil {
		return m.FindBenchmarkFunc(ctx, key)
	}
	bs, _ := m.ListBenchmarks(ctx)
	for _, b := range bs {
		if b.Name == key || b.Symbol == key {
			return b, true, nil
		}
	}
	return entity.Benchmark{}, false, nil
}

func (m *mockUniverseRepository) ListActive(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
	if m.ListActiveFunc != nil {
		return m.ListActiveFunc(ctx, benchmark)
	}
	return nil, nil
}

func (m *mockUniverseRepository) ListActiveCodes(ctx context.Context) ([]string, error) {
	if m.ListActiveCodesFunc != nil {
		return m.ListActiveCodesFunc(ctx)
	}
	return nil, nil
}

// TestUniverseUsecase_ResolveBenchmark はベンチマーク名・ティッカーの解決を検証します。
func TestUniverseUsecase_ResolveBenchmark(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		key        string
		repo       *mockUniverseRepository
		wantSymbol string
		wantErr    error
	}{
		{name: "by name", key: "NASDAQ 100", repo: &mockUniverseRepository{}, wantSymbol: "^NDX"},
		{name: "by ticker with spaces", key: " ^NSEI ", repo: &mockUniverseRepository{}, wantSymbol: "^NSEI"},
		{name: "unknown", key: "DAX", repo: &mockUniverseRepository{}, wantErr: usecase.ErrBenchmarkNotFound},
		{name: "empty", key: "  ", repo: &mockUniverseRepository{}, wantErr: usecase.ErrBenchmarkNotFound},
		{
			name: "repository error",
			key:  "NASDAQ 100",
			repo: &mockUniverseRepository{FindBenchmarkFunc: func(ctx context.Context, key string) (entity.Benchmark, bool, error) {
				return entity.Benchmark{}, false, errDB
			}},
			wantErr: errDB,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			uc := usecase.NewUniverseUsecase(tt.repo)
			b, err := uc.ResolveBenchmark(context.Background(), tt.key)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSymbol, b.Symbol)
		})
	}
}

// TestUniverseUsecase_ListSymbols はティッカー指定でも構成銘柄がベンチマーク名で検索されることを検証します。
func TestUniverseUsecase_ListSymbols(t *testing.T) {
	t.Parallel()

	repo := &mockUniverseRepository{
		ListActiveFunc: func(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
			assert.Equal(t, "NASDAQ 100", benchmark)
			return []entity.Symbol{{Code: "AAPL", Name: "AAPL", Benchmark: benchmark}}, nil
		},
	}
	uc := usecase.NewUniverseUsecase(repo)

	symbols, err := uc.ListSymbols(context.Background(), "^NDX")
	require.NoError(t, err)
	require.Len(t, symbols, 1)
	assert.Equal(t, "AAPL", symbols[0].Code)

	_, err = uc.ListSymbols(context.Background(), "FTSE")
	assert.True(t, errors.Is(err, usecase.ErrBenchmarkNotFound))
}

// TestUniverseUsecase_IngestTargets はベンチマークを先頭に、重複なく銘柄を並べることを検証します。
func TestUniverseUsecase_IngestTargets(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		repo := &mockUniverseRepository{
			ListActiveCodesFunc: func(ctx context.Context) ([]string, error) {
				return []string{"AAPL", "TCS.NS", "^NDX"}, nil
			},
		}
		got, err := usecase.NewUniverseUsecase(repo).IngestTargets(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"^NSEI", "^NDX", "AAPL", "TCS.NS"}, got)
	})

	t.Run("benchmark listing fails", func(t *testing.T) {
		t.Parallel()
		repo := &mockUniverseRepository{
			ListBenchmarksFunc: func(ctx context.Context) ([]entity.Benchmark, error) { return nil, errDB },
		}
		_, err := usecase.NewUniverseUsecase(repo).IngestTargets(context.Background())
		assert.ErrorIs(t, err, errDB)
	})

	t.Run("code listing fails", func(t *testing.T) {
		t.Parallel()
		repo := &mockUniverseRepository{
			ListActiveCodesFunc: func(ctx context.Context) ([]string, error) { return nil, errDB },
		}
		_, err := usecase.NewUniverseUsecase(repo).IngestTargets(context.Background())
		assert.ErrorIs(t, err, errDB)
	})
}
