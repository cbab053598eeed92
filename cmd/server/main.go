package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"capm_backend/internal/app/di"
	"capm_backend/internal/app/router"
	candlestwelvedata "capm_backend/internal/feature/candles/adapters/twelvedata"
	candleshandler "capm_backend/internal/feature/candles/transport/handler"
	candlesusecase "capm_backend/internal/feature/candles/usecase"
	capmadapters "capm_backend/internal/feature/capm/adapters"
	capmhandler "capm_backend/internal/feature/capm/transport/handler"
	capmusecase "capm_backend/internal/feature/capm/usecase"
	universeadapters "capm_backend/internal/feature/universe/adapters"
	"capm_backend/internal/feature/universe/domain/catalog"
	universehandler "capm_backend/internal/feature/universe/transport/handler"
	universeusecase "capm_backend/internal/feature/universe/usecase"
	infradb "capm_backend/internal/platform/db"
	platformhandler "capm_backend/internal/platform/http/handler"
	jwtmw "capm_backend/internal/platform/jwt"
	infraredis "capm_backend/internal/platform/redis"
	"capm_backend/internal/shared/ratelimiter"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// .envを読み込む
	if err := godotenv.Load(); err != nil {
		slog.Info(".env not found; using system environment variables")
	}

	if err := run(ctx); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// 設定
	marketCfg, err := candlestwelvedata.LoadConfig()
	if err != nil {
		return err
	}
	capmCfg, err := capmusecase.LoadConfig()
	if err != nil {
		return err
	}
	redisCfg, err := infraredis.LoadConfig()
	if err != nil {
		return err
	}

	// db
	db, err := infradb.OpenDB()
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			slog.Error("failed to close DB", "error", err)
		}
	}()
	if err := universeadapters.Seed(ctx, db, catalog.Default()); err != nil {
		return err
	}

	// Redis
	var rdb *redisv9.Client
	if redisCfg.Enabled() {
		if tmp, err := infraredis.NewRedisClient(ctx, redisCfg); err != nil {
			slog.Warn("Redis unavailable. Running without cache.")
		} else {
			rdb = tmp
			defer func() {
				if err := rdb.Close(); err != nil {
					slog.Error("failed to close Redis client", "error", err)
				}
			}()
		}
	}

	// Repository
	limiter := ratelimiter.NewRateLimiter(marketCfg.RatePerMinute, time.Minute)
	market := di.NewMarket(marketCfg, limiter)
	candleRepo := di.NewCandleRepository(db, rdb, redisCfg)
	universeRepo := universeadapters.NewUniverseRepository(db)

	// Usecase
	candlesUC := candlesusecase.NewCandlesUsecase(candleRepo, market)
	universeUC := universeusecase.NewUniverseUsecase(universeRepo)
	capmUC := capmusecase.NewCAPMUsecase(
		capmadapters.NewCandleSource(candlesUC),
		capmadapters.NewUniverseCatalog(universeUC),
		capmCfg,
	)

	// Handler
	checks := []platformhandler.Check{{Name: "db", Ping: sqlDB.PingContext}}
	if rdb != nil {
		checks = append(checks, platformhandler.Check{
			Name: "redis",
			Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
		})
	}
	r := router.NewRouter(
		os.Getenv(jwtmw.EnvKeyJWTSecret),
		platformhandler.Ready(checks...),
		candleshandler.NewCandlesHandler(candlesUC),
		universehandler.NewUniverseHandler(universeUC),
		capmhandler.NewCAPMHandler(capmUC),
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("starting server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	slog.Info("received shutdown signal, shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	slog.Info("server stopped")
	return nil
}
