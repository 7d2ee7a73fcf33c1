package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/alexanderkoo04/language/internal/api"
	"github.com/alexanderkoo04/language/internal/auth"
	"github.com/alexanderkoo04/language/internal/config"
	"github.com/alexanderkoo04/language/internal/gcp"
	"github.com/alexanderkoo04/language/internal/scraper"
	"github.com/alexanderkoo04/language/internal/services"
	"github.com/alexanderkoo04/language/internal/store"
	"github.com/alexanderkoo04/language/internal/translator"
)

const shutdownGrace = 10 * time.Second

func main() {
	// .env is a local-development convenience; deployments set the
	// environment directly.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("service exited", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	firestoreClient, err := gcp.NewFirestoreClient(ctx, cfg.ProjectID)
	if err != nil {
		return err
	}
	defer firestoreClient.Close()

	storageClient, err := gcp.NewStorageClient(ctx)
	if err != nil {
		return err
	}
	defer storageClient.Close()

	vertexClient, err := gcp.NewVertexClient(ctx, cfg.ProjectID, cfg.VertexAIRegion, cfg.GeminiModel)
	if err != nil {
		return err
	}
	defer vertexClient.Close()

	verifier, err := auth.NewGoogleVerifier(ctx, cfg.AuthAudience)
	if err != nil {
		return err
	}

	records := store.NewRecordStore(firestoreClient, cfg.TranslationsCollection, logger)
	blobs := store.NewBlobStore(storageClient, cfg.PagesBucket, logger)
	gateway := translator.NewGateway(vertexClient, logger)
	renderer := scraper.NewChromeRenderer(logger)

	pipeline := services.NewPipeline(renderer, gateway, blobs, records, logger)
	handlers := api.NewHandlers(pipeline, records, blobs, logger)
	router := api.NewRouter(handlers, verifier, cfg.Debug, logger)
	server := api.NewServer(cfg, router, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(server.Start)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
