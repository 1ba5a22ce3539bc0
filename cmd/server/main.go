package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"stock_trading_backend/internal/app/di"
	"stock_trading_backend/internal/app/router"
	authadapters "stock_trading_backend/internal/feature/auth/adapters"
	authhandler "stock_trading_backend/internal/feature/auth/transport/handler"
	authusecase "stock_trading_backend/internal/feature/auth/usecase"
	instradapters "stock_trading_backend/internal/feature/instruments/adapters"
	mhadapters "stock_trading_backend/internal/feature/markethours/adapters"
	mhhandler "stock_trading_backend/internal/feature/markethours/transport/handler"
	mhusecase "stock_trading_backend/internal/feature/markethours/usecase"
	pfadapters "stock_trading_backend/internal/feature/portfolio/adapters"
	pfhandler "stock_trading_backend/internal/feature/portfolio/transport/handler"
	pfusecase "stock_trading_backend/internal/feature/portfolio/usecase"
	quotehandler "stock_trading_backend/internal/feature/quotes/transport/handler"
	quoteusecase "stock_trading_backend/internal/feature/quotes/usecase"
	infradb "stock_trading_backend/internal/platform/db"
	jwtmw "stock_trading_backend/internal/platform/jwt"
	infraredis "stock_trading_backend/internal/platform/redis"
)

const tokenLifetime = 24 * time.Hour

// refreshInterval reads QUOTE_REFRESH_INTERVAL (seconds) for the background
// price refresh cadence.
func refreshInterval() time.Duration {
	raw := os.Getenv("QUOTE_REFRESH_INTERVAL")
	if raw == "" {
		return quoteusecase.DefaultRefreshInterval
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		slog.Warn("invalid QUOTE_REFRESH_INTERVAL, using default",
			"value", raw, "default", quoteusecase.DefaultRefreshInterval)
		return quoteusecase.DefaultRefreshInterval
	}
	return time.Duration(secs) * time.Second
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := infradb.OpenDB()

	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		slog.Warn("Redis unavailable, quote cache falls back to MySQL")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				slog.Error("failed to close Redis client", "error", err)
			}
		}()
	}

	secret := os.Getenv(jwtmw.EnvKeyJWTSecret)
	if secret == "" {
		slog.Warn("JWT_SECRET is not set, set a strong secret in production")
	}

	// Repositories.
	userRepo := authadapters.NewUserMySQL(db)
	ledger := pfadapters.NewLedgerMySQL(db)
	instruments := instradapters.NewInstrumentMySQL(db)
	marketHoursRepo := mhadapters.NewMarketHoursMySQL(db)

	// Usecases.
	quotesUC, fx := di.NewQuoteService(rdb, db)
	authUC := authusecase.NewAuthUsecase(userRepo, jwtmw.NewGenerator(secret, tokenLifetime))
	tradingUC := pfusecase.NewTradingUsecase(quotesUC, ledger, instruments)
	portfolioUC := pfusecase.NewPortfolioUsecase(ledger, quotesUC)
	marketHoursUC := mhusecase.NewMarketHoursUsecase(marketHoursRepo)
	if err := marketHoursUC.SeedDefaults(ctx); err != nil {
		slog.Error("failed to seed market hours", "error", err)
	}

	// Handlers.
	authH := authhandler.NewAuthHandler(authUC)
	quotesH := quotehandler.NewQuoteHandler(quotesUC)
	portfolioH := pfhandler.NewPortfolioHandler(tradingUC, portfolioUC)
	marketsH := mhhandler.NewMarketHoursHandler(marketHoursUC)

	r := router.NewRouter(authH, quotesH, portfolioH, marketsH)

	// Background price refresh runs until shutdown.
	scheduler := quoteusecase.NewRefreshScheduler(quotesUC, fx, refreshInterval())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		scheduler.Run(ctx)
	}()

	srv := &http.Server{Addr: ":8080", Handler: r}
	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
	}
	wg.Wait()
	slog.Info("shutdown complete")
}
