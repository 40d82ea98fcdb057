package main

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"oscehub/internal/config"
	"oscehub/internal/extractor"
	"oscehub/internal/handler"
	"oscehub/internal/parser"
	"oscehub/internal/parser/openai"
	"oscehub/internal/port"
	"oscehub/internal/repository/postgres"
	"oscehub/internal/router"
	"oscehub/internal/service"
	s3storage "oscehub/internal/storage/s3"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	db, err := postgres.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	// Initialize repositories
	stationRepo := postgres.NewStationRepo(db)

	// Initialize storage (optional: only when an archive bucket is configured)
	var storage port.ObjectStorage
	if cfg.S3.Bucket != "" {
		storage, err = s3storage.NewS3Client(&cfg.S3)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 client: %w", err)
		}
	}

	// Initialize pipeline components
	textExtractor := extractor.New()
	completion := openai.NewClient(&cfg.Extraction)
	policy := parser.RetryPolicy{
		MaxAttempts: cfg.Extraction.MaxAttempts,
		Delay:       time.Duration(cfg.Extraction.RetryDelaySecs) * time.Second,
	}

	// Initialize services
	batchStore := service.NewBatchStore()
	ingestSvc := service.NewIngestService(textExtractor, completion, storage, batchStore, policy, &cfg.S3)
	publishSvc := service.NewPublishService(stationRepo, batchStore)

	// Initialize handlers
	batchH := handler.NewBatchHandler(ingestSvc, publishSvc, cfg.Upload)
	healthH := handler.NewHealthHandler(db)

	// Setup router
	r := router.Setup(batchH, healthH, cfg.CORS.AllowedOrigins)

	srv := newServer(&cfg.Server, r)
	log.Printf("Server starting on %s", cfg.Server.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func newServer(cfg *config.ServerConfig, h http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Port,
		Handler:      h,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
}
