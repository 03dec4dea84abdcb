// cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/coldfront-analytics/dryice-backend/internal/alerts"
	"github.com/coldfront-analytics/dryice-backend/internal/analysis"
	"github.com/coldfront-analytics/dryice-backend/internal/api"
	"github.com/coldfront-analytics/dryice-backend/internal/cache"
	"github.com/coldfront-analytics/dryice-backend/internal/config"
	"github.com/coldfront-analytics/dryice-backend/internal/dataset"
	"github.com/coldfront-analytics/dryice-backend/internal/domain"
	"github.com/coldfront-analytics/dryice-backend/internal/forecast"
	"github.com/coldfront-analytics/dryice-backend/internal/integrations"
	"github.com/coldfront-analytics/dryice-backend/internal/ledger"
	"github.com/coldfront-analytics/dryice-backend/internal/maintenance"
	"github.com/coldfront-analytics/dryice-backend/internal/report"
	"github.com/coldfront-analytics/dryice-backend/internal/repository/postgres"
	"github.com/coldfront-analytics/dryice-backend/internal/service"
	"github.com/coldfront-analytics/dryice-backend/internal/storage"
	"github.com/coldfront-analytics/dryice-backend/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	loader, err := dataset.NewLoader(cfg.Inventory, cfg.App.WindowStart, cfg.App.WindowEnd)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Invalid analysis window")
	}
	windowStart, windowEnd := loader.Window()

	source := service.NewCSVSource(loader, cfg.App.OrdersFile)

	// The order archive is optional; without it the server runs from the
	// CSV dataset alone.
	var orderRepo *postgres.OrderRepository
	if db, err := postgres.NewDB(&cfg.Database); err != nil {
		logger.Log.Warn().Err(err).Msg("Order archive unavailable, running file-only")
	} else {
		orderRepo = postgres.NewOrderRepository(db)
		defer db.Close()
	}

	calc := analysis.NewCalculator(cfg.Inventory)
	engine := analysis.NewEngine(cfg.Inventory)

	// The service and the ledger reference each other: the ledger asks the
	// service for live thresholds, the service records movements on the
	// ledger. The indirection through ThresholdFunc breaks the cycle.
	var svc *service.AnalysisService

	ledgerOpts := []ledger.Option{ledger.WithMaxHistory(cfg.Inventory.MaxHistory)}
	if orderRepo != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithOverflowHandler(func(txs []domain.Transaction) {
			go func() {
				ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
				defer cancel()
				if err := orderRepo.ArchiveTransactions(ctx, txs); err != nil {
					logger.Log.Warn().Err(err).Int("count", len(txs)).Msg("Transaction archive failed")
				}
			}()
		}))
	}

	led := ledger.New(cfg.Inventory.InitialStockKg, ledger.ThresholdFunc(func() (float64, float64, error) {
		return svc.Thresholds()
	}), ledgerOpts...)

	dispatcher := alerts.NewDispatcher(led, cfg.Inventory.AlertChannels,
		alerts.WithMaxRetained(cfg.Inventory.MaxAlerts))

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Dashboard cache unavailable, caching disabled")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	svc = service.NewAnalysisService(source, calc, engine, led, dispatcher,
		forecast.DefaultEnsemble(), dashboardCache, windowStart, windowEnd)

	var store storage.ObjectStorage
	if cfg.Storage.Enabled {
		minioClient, err := storage.NewMinioClient(cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, reports stay local")
		} else {
			store = minioClient
		}
	}

	generator, err := report.NewGenerator(cfg.App.ReportDir, store)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to build report generator")
	}

	services := &api.Services{
		Analysis:     svc,
		Report:       service.NewReportService(svc, generator, cfg.Inventory),
		Scorer:       maintenance.NewScorer(cfg.Inventory.HealthIndicators),
		Integrations: integrations.NewRegistry(),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
