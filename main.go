package main

import (
	"context"
	"log"

	api "optiledger-backend/cmd/api"
	catalogrepository "optiledger-backend/internal/catalog/repository"
	catalogusecase "optiledger-backend/internal/catalog/usecase"
	"optiledger-backend/internal/ingest/extract"
	"optiledger-backend/internal/ingest/normalizer"
	ingestrepository "optiledger-backend/internal/ingest/repository"
	ingestusecase "optiledger-backend/internal/ingest/usecase"
	"optiledger-backend/internal/mailbox"
	orderrepository "optiledger-backend/internal/order/repository"
	orderusecase "optiledger-backend/internal/order/usecase"
	vendorrepository "optiledger-backend/internal/vendors/repository"
	vendorusecase "optiledger-backend/internal/vendors/usecase"
	"optiledger-backend/pkg/config"
	"optiledger-backend/pkg/database"
	"optiledger-backend/pkg/events"
	"optiledger-backend/pkg/vendorsite"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.NewPostgresConnection(cfg)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize repositories (dependency injection)
	patternRepo := vendorrepository.NewPatternRepository(db)
	catalogRepo := catalogrepository.NewGormCatalogRepository(db)
	orderRepo := orderrepository.NewGormOrderRepository(db)
	failureRepo := ingestrepository.NewGormFailureRepository(db)

	// Seed the built-in vendor patterns and load the snapshot
	if err := patternRepo.SeedDefaults(); err != nil {
		log.Fatal("Failed to seed vendor patterns:", err)
	}
	patternStore, err := vendorusecase.NewPatternStore(patternRepo, cfg.PatternRefreshInterval)
	if err != nil {
		log.Fatal("Failed to load vendor patterns:", err)
	}

	ctx := context.Background()
	patternStore.Start(ctx)

	// Catalog site scraping for enrichment
	siteClient := vendorsite.NewClient(cfg.EnrichTimeout, cfg.ScrapeUserAgent)
	safiloSite := vendorsite.NewSafiloCatalog(siteClient, cfg.SafiloCatalogURL)

	registry := extract.NewDefaultRegistry(safiloSite)
	enricher := catalogusecase.NewEnricher(catalogRepo, cfg.EnrichTimeout)

	// Optional Pub/Sub publisher for ingest events
	var publisher ingestusecase.EventPublisher
	if cfg.GoogleProjectID != "" {
		pub, err := events.NewPublisher(ctx, cfg.GoogleProjectID, cfg.PubSubTopic, cfg.GoogleCredentials)
		if err != nil {
			log.Printf("[WARN] Failed to initialize event publisher (events disabled): %v", err)
		} else {
			defer pub.Close()
			publisher = pub
		}
	} else {
		log.Printf("[WARN] GoogleProjectID not configured, ingest events disabled")
	}

	// Initialize use cases (dependency injection)
	ingestUsecaseInstance := ingestusecase.NewIngestUsecase(
		patternStore,
		normalizer.NewNormalizer(),
		registry,
		enricher,
		orderRepo,
		failureRepo,
		publisher,
	)
	orderUsecaseInstance := orderusecase.NewOrderUsecase(orderRepo)
	catalogUsecaseInstance := catalogusecase.NewCatalogUsecase(catalogRepo)

	// Optional IMAP intake mailbox
	if cfg.IMAPServer != "" && cfg.IMAPUsername != "" && cfg.IMAPAccountID != "" {
		poller := mailbox.NewService(cfg.IMAPServer, cfg.IMAPPort, cfg.IMAPUsername, cfg.IMAPPassword, cfg.IMAPAccountID, cfg.IMAPPollInterval, ingestUsecaseInstance)
		poller.Start(ctx)
	} else {
		log.Printf("[WARN] IMAP intake not configured, mailbox polling disabled")
	}

	// Initialize HTTP handler
	handler := api.NewHandler(ingestUsecaseInstance, orderUsecaseInstance, catalogUsecaseInstance, patternStore, cfg)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := handler.Start(":" + cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
