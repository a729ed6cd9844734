package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/bluebird1313/reporder/internal/cache"
	"github.com/bluebird1313/reporder/internal/config"
	"github.com/bluebird1313/reporder/internal/drive"
	"github.com/bluebird1313/reporder/internal/feed"
	"github.com/bluebird1313/reporder/internal/repository"
	"github.com/bluebird1313/reporder/internal/repository/postgres"
	"github.com/bluebird1313/reporder/internal/service"
	"github.com/bluebird1313/reporder/internal/storage"
	"github.com/bluebird1313/reporder/pkg/logger"
)

func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	forecastCache, err := cache.NewForecastCache(cfg.Cache)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to initialize forecast cache")
	}

	salesRepo := repository.NewSalesHistoryRepository(db.DB)
	storeRepo := repository.NewStoreRepository(db.DB)
	alertRepo := repository.NewAlertRepository(db.DB)
	inventoryRepo := repository.NewInventoryRepository(db.DB)

	alertService := service.NewAlertService(alertRepo, inventoryRepo)
	metricsService := service.NewMetricsService(storeRepo, salesRepo, forecastCache)

	feedService := feed.NewService(alertRepo, alertService, buildSources(cfg)...)

	watcher := feed.NewWatcher(feedService, cfg.Feed.SyncSchedule)
	if err := watcher.Start(); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to start feed watcher")
	}
	defer watcher.Stop()

	r := mux.NewRouter()
	feed.NewHandler(feedService, metricsService).RegisterRoutes(r)
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods(http.MethodGet)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting feed server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start feed server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down feed server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Feed server forced to shutdown")
	}
}

// buildSources wires every configured feed location: the local upload
// directory always, object storage and Drive only when configured.
func buildSources(cfg *config.Config) []feed.Source {
	sources := []feed.Source{feed.NewDirSource(cfg.Feed.UploadDir)}

	if cfg.Feed.S3Endpoint != "" {
		client, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Feed.S3Endpoint,
			AccessKey: cfg.Feed.S3AccessKey,
			SecretKey: cfg.Feed.S3SecretKey,
			Bucket:    cfg.Feed.S3Bucket,
			UseSSL:    cfg.Feed.S3UseSSL,
		})
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize object storage")
		}
		sources = append(sources, feed.NewObjectSource(client, cfg.Feed.S3Prefix))
	}

	if cfg.Feed.DriveCredentialsJSON != "" && cfg.Feed.DriveFolderID != "" {
		driveService, err := drive.NewService(context.Background(), cfg.Feed.DriveCredentialsJSON)
		if err != nil {
			logger.Log.Fatal().Err(err).Msg("Failed to initialize Google Drive service")
		}
		sources = append(sources, drive.NewFeedSource(driveService, cfg.Feed.DriveFolderID))
	}

	return sources
}
