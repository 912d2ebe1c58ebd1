package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/synaptica-ai/requestmapping/pkg/common/config"
	"github.com/synaptica-ai/requestmapping/pkg/common/database"
	"github.com/synaptica-ai/requestmapping/pkg/common/kafka"
	"github.com/synaptica-ai/requestmapping/pkg/common/logger"
	"github.com/synaptica-ai/requestmapping/pkg/datamapper"
	"github.com/synaptica-ai/requestmapping/pkg/mapping"
	"github.com/synaptica-ai/requestmapping/pkg/middleware"
	"github.com/synaptica-ai/requestmapping/pkg/observability/metrics"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel)

	props, err := datamapper.LoadProperties(cfg.MapperPropertiesFile)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to load mapper properties")
	}

	db, err := database.OpenPostgres(cfg)
	if err != nil {
		logger.Log.WithError(err).Fatal("failed to connect to postgres")
	}
	defer database.ClosePostgres(db)

	repo := mapping.NewRepository(db)
	if err := repo.AutoMigrate(); err != nil {
		logger.Log.WithError(err).Fatal("failed to migrate mapping tables")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	redisClient := database.OpenRedis(ctx, cfg)
	defer database.CloseRedis(redisClient)

	producer := kafka.NewProducer(cfg, cfg.MapperOutputTopic)
	defer producer.Close()

	var dlq mapping.Publisher
	if cfg.MapperDLQTopic != "" {
		dlqProducer := kafka.NewProducer(cfg, cfg.MapperDLQTopic)
		defer dlqProducer.Close()
		dlq = dlqProducer
	}

	var forwarder mapping.Forwarder
	if cfg.ForwardURL != "" {
		forwarder = mapping.NewHTTPForwarder(cfg)
	}

	svc := mapping.NewService(repo, mapping.NewRedisCache(redisClient), producer, dlq, forwarder, props, cfg.MapperResultTTL)

	if cfg.MapperConsumerEnabled {
		consumer := kafka.NewConsumer(cfg, cfg.MapperInputTopic, "")
		defer consumer.Close()

		go func() {
			// Exiting leaves the failed event uncommitted for the next consumer.
			if err := consumer.Consume(ctx, svc.HandleEvent); err != nil && ctx.Err() == nil {
				logger.Log.WithError(err).Fatal("Consumer stopped")
			}
		}()
	}

	router := mux.NewRouter()
	router.Use(middleware.Recovery, middleware.Logging, middleware.BodyLimit(cfg.MaxRequestBody))
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ready"}`))
	}).Methods(http.MethodGet)

	router.HandleFunc("/metrics", metrics.Handler).Methods(http.MethodGet)

	api := router.PathPrefix("/api/v1").Subrouter()
	mapping.NewHTTPHandler(svc).Register(api)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.ServerHost, cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Log.WithFields(map[string]interface{}{
			"host": cfg.ServerHost,
			"port": cfg.ServerPort,
		}).Info("Request Mapper Service started")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.WithError(err).Fatal("failed to start server")
		}
	}()

	go func() {
		ticker := time.NewTicker(12 * time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := svc.Cleanup(ctx); err != nil {
					logger.Log.WithError(err).Warn("cleanup job failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down Request Mapper Service...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Log.WithError(err).Error("server forced to shutdown")
	}

	logger.Log.Info("Request Mapper Service stopped")
}
