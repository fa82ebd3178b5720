package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/DanNano/FFQueryAnalyzer/internal/config"
	"github.com/DanNano/FFQueryAnalyzer/internal/handler"
	"github.com/DanNano/FFQueryAnalyzer/internal/logger"
	"github.com/DanNano/FFQueryAnalyzer/internal/metrics"
	"github.com/DanNano/FFQueryAnalyzer/internal/repository"
	"github.com/DanNano/FFQueryAnalyzer/internal/repository/postgres"
	"github.com/DanNano/FFQueryAnalyzer/internal/scoring"
	"github.com/DanNano/FFQueryAnalyzer/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real environment variables still win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("⚠️ .env not loaded: %v", err)
	}

	// Load application config
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}

	// Initialize logger
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := repository.New(ctx, cfg, &appLogger)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("❌ Postgres connection failed")
	}
	defer db.Close()

	var provider repository.SessionProvider
	if cfg.Postgres.SessionMode == "direct" {
		provider = postgres.NewDirectProvider(db.ConnConfig())
	} else {
		provider = postgres.NewPoolProvider(db.Pool())
	}

	m := metrics.NewManager()
	scope := postgres.NewSessionScope(provider, appLogger, m, cfg.Postgres.QueryTimeout)
	svc := service.NewAnalyticsService(postgres.NewAnalyticsRepository(scope), scoring.Weights(cfg.Scoring), appLogger)

	if cfg.App.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), handler.RequestID(), handler.RequestLogger(appLogger), handler.Metrics(m))
	handler.Register(r, postgres.NewPinger(scope), svc, handler.Options{
		Defaults:            cfg.Defaults,
		AcceptLegacyIDParam: cfg.API.AcceptLegacyIDParam,
		Metrics:             m,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLogger.Info().Str("addr", srv.Addr).Str("session_mode", cfg.Postgres.SessionMode).Msg("🚀 Service started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error().Err(err).Msg("HTTP server failed")
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info().Msg("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("Graceful shutdown failed")
	}
	appLogger.Info().Msg("✅ Service stopped")
}
