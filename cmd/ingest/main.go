package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"capm_backend/internal/app/di"
	candleadapters "capm_backend/internal/feature/candles/adapters"
	candlestwelvedata "capm_backend/internal/feature/candles/adapters/twelvedata"
	candlesusecase "capm_backend/internal/feature/candles/usecase"
	universeadapters "capm_backend/internal/feature/universe/adapters"
	"capm_backend/internal/feature/universe/domain/catalog"
	universeusecase "capm_backend/internal/feature/universe/usecase"
	infradb "capm_backend/internal/platform/db"
	"capm_backend/internal/shared/ratelimiter"
)

func main() {
	years := flag.Int("years", 15, "number of years of daily bars to load")
	only := flag.String("symbols", "", "comma separated symbols; defaults to every benchmark and active constituent")
	timeout := flag.Duration("timeout", 2*time.Hour, "overall deadline for the run")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	if err := run(ctx, *years, *only); err != nil {
		slog.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, years int, only string) error {
	marketCfg, err := candlestwelvedata.LoadConfig()
	if err != nil {
		return err
	}
	db, err := infradb.OpenDB()
	if err != nil {
		return err
	}
	if err := universeadapters.Seed(ctx, db, catalog.Default()); err != nil {
		return err
	}

	symbols := splitSymbols(only)
	if len(symbols) == 0 {
		universeUC := universeusecase.NewUniverseUsecase(universeadapters.NewUniverseRepository(db))
		if symbols, err = universeUC.IngestTargets(ctx); err != nil {
			return err
		}
	}

	// レートリミットはユースケース側で1銘柄ごとに適用する
	market := di.NewMarket(marketCfg, nil)
	limiter := ratelimiter.NewRateLimiter(marketCfg.RatePerMinute, time.Minute)
	uc := candlesusecase.NewIngestUsecase(market, candleadapters.NewCandleRepository(db), limiter)

	to := time.Now()
	from := to.AddDate(-years, 0, 0)
	report, err := uc.IngestAll(ctx, symbols, from, to)
	if err != nil {
		return err
	}
	slog.Info("ingest finished", "symbols", report.Symbols, "candles", report.Candles, "failed", len(report.Failed))
	return nil
}

func splitSymbols(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
