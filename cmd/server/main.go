// Package main is the entry point for the fatturo API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fatturo/internal/config"
	"fatturo/internal/domain/analytics"
	"fatturo/internal/domain/auth"
	"fatturo/internal/domain/invoice"
	"fatturo/internal/domain/opportunity"
	"fatturo/internal/domain/target"
	v1 "fatturo/internal/infrastructure/http/v1"
	"fatturo/internal/infrastructure/storage/postgres"
	"fatturo/pkg/logger"
	"fatturo/pkg/numerator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Development: cfg.Development,
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	log.Info("starting fatturo server")

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.DatabaseURL)
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool)

	// --- Repositories ---
	oppRepo := postgres.NewOpportunityRepo(txManager)
	invRepo := postgres.NewInvoiceRepo(txManager)
	targetRepo := postgres.NewTargetRepo(txManager)
	userRepo := postgres.NewUserRepo(txManager)

	auditRepo, err := postgres.NewAuditRepo(txManager)
	if err != nil {
		log.Fatalw("failed to initialize audit repository", "error", err)
	}

	// --- JWT ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWTSecret)
	jwtConfig.AccessTokenTTL = cfg.AccessTokenTTL
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Services ---
	authService := auth.NewService(userRepo, txManager, jwtService)
	oppService := opportunity.NewService(oppRepo, txManager, auditRepo)
	invService := invoice.NewService(invRepo, txManager, auditRepo).
		WithNumerator(numerator.New(pool))
	targetService := target.NewService(targetRepo, txManager)
	analyticsService := analytics.NewService(oppRepo, invRepo, targetRepo, analytics.Config{
		ForfettarioLimit: cfg.ForfettarioLimit,
		Thresholds: analytics.Thresholds{
			Warning: cfg.WarningThreshold,
			Danger:  cfg.DangerThreshold,
		},
		EnableTitleFallback: cfg.EnableTitleFallback,
	})

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Pool:               pool,
		Logger:             log,
		JWTValidator:       jwtService,
		AuthService:        authService,
		OpportunityService: oppService,
		InvoiceService:     invService,
		TargetService:      targetService,
		AnalyticsService:   analyticsService,
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infow("server starting", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
