package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bluebird1313/reporder/internal/api"
	"github.com/bluebird1313/reporder/internal/cache"
	"github.com/bluebird1313/reporder/internal/config"
	"github.com/bluebird1313/reporder/internal/crm"
	"github.com/bluebird1313/reporder/internal/repository"
	"github.com/bluebird1313/reporder/internal/repository/postgres"
	"github.com/bluebird1313/reporder/internal/service"
	"github.com/bluebird1313/reporder/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize forecast cache")
	}
	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize dashboard cache")
	}

	salesRepo := repository.NewSalesHistoryRepository(db.DB)
	storeRepo := repository.NewStoreRepository(db.DB)
	goalRepo := repository.NewGoalRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)
	inventoryRepo := repository.NewInventoryRepository(db.DB)
	dashboardRepo := repository.NewDashboardRepository(db.DB)

	services := &api.Services{
		Forecasts:  service.NewForecastService(salesRepo, forecastCache),
		Stores:     service.NewStoreService(storeRepo),
		Goals:      service.NewGoalService(goalRepo, salesRepo, storeRepo),
		Alerts:     service.NewAlertService(alertRepo, inventoryRepo),
		Dashboards: service.NewDashboardService(dashboardRepo, inventoryRepo, dashboardCache),
		CRM:        crm.NewClient(cfg.CRM),
	}

	router := api.NewRouter(services, cfg.Server.AllowedOrigins)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

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
