// Package adapters はuniverseフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"capm_backend/internal/feature/universe/domain/catalog"
	"capm_backend/internal/feature/universe/domain/entity"
	"capm_backend/internal/feature/universe/usecase"
)

// universeGorm はUniverseRepositoryインターフェースのgorm実装です。
type universeGorm struct {
	db *gorm.DB
}

var _ usecase.UniverseRepository = (*universeGorm)(nil)

// NewUniverseRepository は指定されたDB接続でリポジトリの新しいインスタンスを生成します。
func NewUniverseRepository(db *gorm.DB) *universeGorm {
	return &universeGorm{db: db}
}

// Models はマイグレーション対象のモデルです。
func Models() []any {
	return []any{&entity.Benchmark{}, &entity.Symbol{}}
}

// ListBenchmarks はsort_key順にすべてのベンチマークを返します。
func (r *universeGorm) ListBenchmarks(ctx context.Context) ([]entity.Benchmark, error) {
	var bs []entity.Benchmark
	if err := r.db.WithContext(ctx).Order("sort_key ASC").Find(&bs).Error; err != nil {
		return nil, err
	}
	return bs, nil
}

// FindBenchmark は名前またはティッカーが一致するベンチマークを返します。
func (r *universeGorm) FindBenchmark(ctx context.Context, key string) (entity.Benchmark, bool, error) {
	var b entity.Benchmark
	err := r.db.WithContext(ctx).
		Where("name = ? OR symbol = ?", key, key).
		Order("sort_key ASC").
		First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return entity.Benchmark{}, false, nil
	}
	if err != nil {
		return entity.Benchmark{}, false, err
	}
	return b, true, nil
}

// ListActive はsort_key順にベンチマークのアクティブな構成銘柄を返します。
func (r *universeGorm) ListActive(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("benchmark = ? AND is_active = ?", benchmark, true).
		Order("sort_key ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes は全ベンチマークのアクティブな銘柄コードを重複なく返します。
func (r *universeGorm) ListActiveCodes(ctx context.Context) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ?", true).
		Distinct().
		Order("code ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Seed は組み込みカタログをupsertします。既存行の is_active は変更しません。
// RUN_MIGRATIONS に関わらず、投入前にユニバースのテーブルを作成・更新します。
func Seed(ctx context.Context, db *gorm.DB, entries []catalog.Entry) error {
	if err := db.WithContext(ctx).AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("migrate universe tables: %w", err)
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, e := range entries {
			b := entity.Benchmark{Name: e.Name, Symbol: e.Symbol, SortKey: i + 1}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "name"}},
				DoUpdates: clause.AssignmentColumns([]string{"symbol", "sort_key", "updated_at"}),
			}).Create(&b).Error; err != nil {
				return fmt.Errorf("seed benchmark %s: %w", e.Name, err)
			}

			if len(e.Members) == 0 {
				continue
			}
			rows := make([]entity.Symbol, 0, len(e.Members))
			for j, code := range e.Members {
				rows = append(rows, entity.Symbol{Benchmark: e.Name, Code: code, Name: code, IsActive: true, SortKey: j + 1})
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "benchmark"}, {Name: "code"}},
				DoUpdates: clause.AssignmentColumns([]string{"sort_key", "updated_at"}),
			}).Create(&rows).Error; err != nil {
				return fmt.Errorf("seed symbols of %s: %w", e.Name, err)
			}
		}
		return nil
	})
}
