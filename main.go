package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fintrack/backend/api"
	"github.com/fintrack/backend/auth"
	"github.com/fintrack/backend/config"
	"github.com/fintrack/backend/db"
	_ "github.com/fintrack/backend/docs"
	"github.com/fintrack/backend/logger"
	"github.com/fintrack/backend/ratelimit"
	"github.com/fintrack/backend/service"
	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

// @title Finance Tracker API
// @version 1.0
// @description Personal income and expense tracking.
// @BasePath /
// @SecurityDefinitions.apikey ApiKeyAuth
// @In header
// @Name Authorization
func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := logger.New(logger.Config{
		Level: cfg.LogLevel,
		JSON:  !cfg.IsDevelopment(),
	})
	logger.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := db.NewStorage(ctx, db.Options{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxLifetime: cfg.DBConnMaxLifetime,
		QueryTimeout:    cfg.DBQueryTimeout,
		Logger:          log,
	})
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	defer store.Close()

	limiter := ratelimit.New(ratelimit.Config{RequestsPerMinute: cfg.AuthRateLimit})
	defer limiter.Stop()

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.NewRouter(api.Deps{
		Auth:        service.NewAuthenticator(store, auth.NewTokenManager(cfg.JWTSecret), log),
		Categories:  service.NewCategoryRegistry(store, log),
		Ledger:      service.NewLedger(store, log),
		Stats:       service.NewAggregator(store, log),
		Store:       store,
		AuthLimiter: limiter,
		Logger:      log,
		Development: cfg.IsDevelopment(),
		Swagger:     true,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server starting", "port", cfg.Port, "env", cfg.Env, "driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down", "timeout", cfg.ShutdownTimeout.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped with error", "error", err)
		return err
	}
	log.Info("server stopped")
	return nil
}
