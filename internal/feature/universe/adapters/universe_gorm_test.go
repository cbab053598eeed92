package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"capm_backend/internal/feature/universe/domain/catalog"
	"capm_backend/internal/feature/universe/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(Models()...)
	require.NoError(t, err, "failed to migrate table")

	return db
}

func testCatalog() []catalog.Entry {
	return []catalog.Entry{
		{Name: "Nifty 50", Symbol: "^NSEI", Members: []string{"TCS.NS", "INFY.NS"}},
		{Name: "NASDAQ 100", Symbol: "^NDX", Members: []string{"AAPL", "MSFT", "INFY.NS"}},
	}
}

// seededRepo は組み込みカタログ相当のデータを投入したリポジトリを返します。
func seededRepo(t *testing.T) (*universeGorm, *gorm.DB) {
	t.Helper()
	db := setupTestDB(t)
	require.NoError(t, Seed(context.Background(), db, testCatalog()))
	return NewUniverseRepository(db), db
}

// updateSymbolActive は銘柄のis_activeフィールドを更新します。
// default:true のカラムはINSERT時にfalseが無視されるため、この関数が必要です。
func updateSymbolActive(t *testing.T, db *gorm.DB, benchmark, code string, isActive bool) {
	t.Helper()
	err := db.Model(&entity.Symbol{}).
		Where("benchmark = ? AND code = ?", benchmark, code).
		Update("is_active", isActive).Error
	require.NoError(t, err, "failed to update symbol active status")
}

func TestNewUniverseRepository(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewUniverseRepository(db)

	assert.NotNil(t, repo, "repository should not be nil")
	assert.Equal(t, db, repo.db, "db should be set correctly")
}

func TestSeed_IsIdempotent(t *testing.T) {
	t.Parallel()

	_, db := seededRepo(t)
	updateSymbolActive(t, db, "NASDAQ 100", "MSFT", false)
	require.NoError(t, Seed(context.Background(), db, testCatalog()))

	var benchmarks, symbols int64
	db.Model(&entity.Benchmark{}).Count(&benchmarks)
	db.Model(&entity.Symbol{}).Count(&symbols)
	assert.Equal(t, int64(2), benchmarks)
	assert.Equal(t, int64(5), symbols)

	var msft entity.Symbol
	require.NoError(t, db.Where("code = ?", "MSFT").First(&msft).Error)
	assert.False(t, msft.IsActive, "reseeding keeps a deactivated symbol inactive")
}

func TestSeed_FreshDatabase(t *testing.T) {
	t.Parallel()

	// マイグレーション未実行のDB
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.False(t, db.Migrator().HasTable(&entity.Benchmark{}))

	require.NoError(t, Seed(context.Background(), db, testCatalog()))

	repo := NewUniverseRepository(db)
	bs, err := repo.ListBenchmarks(context.Background())
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, "Nifty 50", bs[0].Name)
}

func TestSeed_DefaultCatalog(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	require.NoError(t, Seed(context.Background(), db, catalog.Default()))

	var symbols int64
	db.Model(&entity.Symbol{}).Count(&symbols)
	assert.Equal(t, int64(47+79), symbols)
}

func TestUniverseGorm_ListBenchmarks(t *testing.T) {
	t.Parallel()

	repo, _ := seededRepo(t)
	bs, err := repo.ListBenchmarks(context.Background())
	require.NoError(t, err)
	require.Len(t, bs, 2)
	assert.Equal(t, "Nifty 50", bs[0].Name)
	assert.Equal(t, "^NDX", bs[1].Symbol)
}

func TestUniverseGorm_FindBenchmark(t *testing.T) {
	t.Parallel()

	repo, _ := seededRepo(t)

	tests := []struct {
		name       string
		key        string
		wantFound  bool
		wantSymbol string
	}{
		{"by name", "NASDAQ 100", true, "^NDX"},
		{"by ticker", "^NSEI", true, "^NSEI"},
		{"unknown", "DAX", false, ""},
		{"case sensitive", "nasdaq 100", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok, err := repo.FindBenchmark(context.Background(), tt.key)
			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, ok)
			assert.Equal(t, tt.wantSymbol, b.Symbol)
		})
	}
}

func TestUniverseGorm_ListActive(t *testing.T) {
	t.Parallel()

	repo, db := seededRepo(t)
	updateSymbolActive(t, db, "NASDAQ 100", "MSFT", false)

	symbols, err := repo.ListActive(context.Background(), "NASDAQ 100")
	require.NoError(t, err)
	require.Len(t, symbols, 2)
	assert.Equal(t, "AAPL", symbols[0].Code, "sort_key order follows the catalog")
	assert.Equal(t, "INFY.NS", symbols[1].Code)

	none, err := repo.ListActive(context.Background(), "DAX")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestUniverseGorm_ListActiveCodes(t *testing.T) {
	t.Parallel()

	repo, db := seededRepo(t)
	updateSymbolActive(t, db, "Nifty 50", "TCS.NS", false)

	codes, err := repo.ListActiveCodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "INFY.NS", "MSFT"}, codes)
}

func TestUniverseGorm_ContextCancellation(t *testing.T) {
	t.Parallel()

	repo, _ := seededRepo(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.ListBenchmarks(ctx)
	assert.Error(t, err, "should return error when context is cancelled")
}
