// Package usecase implements the business logic for the benchmark universe.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"capm_backend/internal/feature/universe/domain/entity"
)

// ErrBenchmarkNotFound is returned when a benchmark name or ticker is not in the catalog.
var ErrBenchmarkNotFound = errors.New("benchmark not found")

// UniverseRepository abstracts the persistence layer for benchmarks and their constituents.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type UniverseRepository interface {
	ListBenchmarks(ctx context.Context) ([]entity.Benchmark, error)
	// FindBenchmark matches key against the benchmark name or its ticker. A miss is (zero, false, nil).
	FindBenchmark(ctx context.Context, key string) (entity.Benchmark, bool, error)
	ListActive(ctx context.Context, benchmark string) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context) ([]string, error)
}

// UniverseUsecase provides business logic for benchmark and symbol lookups.
type UniverseUsecase struct {
	repo UniverseRepository
}

// NewUniverseUsecase creates a new UniverseUsecase with the given repository.
func NewUniverseUsecase(r UniverseRepository) *UniverseUsecase {
	return &UniverseUsecase{repo: r}
}

// ListBenchmarks returns all benchmarks in display order.
func (u *UniverseUsecase) ListBenchmarks(ctx context.Context) ([]entity.Benchmark, error) {
	return u.repo.ListBenchmarks(ctx)
}

// ResolveBenchmark accepts either a benchmark name ("NASDAQ 100") or its ticker ("^NDX").
func (u *UniverseUsecase) ResolveBenchmark(ctx context.Context, key string) (entity.Benchmark, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return entity.Benchmark{}, fmt.Errorf("%w: empty key", ErrBenchmarkNotFound)
	}
	b, ok, err := u.repo.FindBenchmark(ctx, key)
	if err != nil {
		return entity.Benchmark{}, err
	}
	if !ok {
		return entity.Benchmark{}, fmt.Errorf("%w: %s", ErrBenchmarkNotFound, key)
	}
	return b, nil
}

// ListSymbols returns the active constituents of a benchmark.
func (u *UniverseUsecase) ListSymbols(ctx context.Context, benchmark string) ([]entity.Symbol, error) {
	b, err := u.ResolveBenchmark(ctx, benchmark)
	if err != nil {
		return nil, err
	}
	return u.repo.ListActive(ctx, b.Name)
}

// IngestTargets returns every ticker the ingest job keeps warm: all benchmarks first,
// then every active constituent, each once.
func (u *UniverseUsecase) IngestTargets(ctx context.Context) ([]string, error) {
	bs, err := u.repo.ListBenchmarks(ctx)
	if err != nil {
		return nil, err
	}
	codes, err := u.repo.ListActiveCodes(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(bs)+len(codes))
	seen := make(map[string]struct{}, cap(out))
	add := func(s string) {
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	for _, b := range bs {
		add(b.Symbol)
	}
	for _, c := range codes {
		add(c)
	}
	return out, nil
}
