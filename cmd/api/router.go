package api

import (
	"net/http"

	catalogDelivery "optiledger-backend/internal/catalog/delivery"
	catalogusecase "optiledger-backend/internal/catalog/usecase"
	ingestDelivery "optiledger-backend/internal/ingest/delivery"
	ingestusecase "optiledger-backend/internal/ingest/usecase"
	orderDelivery "optiledger-backend/internal/order/delivery"
	orderusecase "optiledger-backend/internal/order/usecase"
	vendorDelivery "optiledger-backend/internal/vendors/delivery"
	vendorusecase "optiledger-backend/internal/vendors/usecase"
	"optiledger-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, ingestUc ingestusecase.IngestUsecase, orderUc orderusecase.OrderUsecase, catalogUc catalogusecase.CatalogUsecase, patternStore *vendorusecase.PatternStore, cfg *config.Config) {
	ingestHandler := ingestDelivery.NewIngestHandler(ingestUc)
	orderHandler := orderDelivery.NewOrderHandler(orderUc)
	catalogHandler := catalogDelivery.NewCatalogHandler(catalogUc)
	vendorHandler := vendorDelivery.NewVendorHandler(patternStore)

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Ingest routes: webhook intake plus the review queue
		ingest := api.Group("/ingest")
		{
			ingest.POST("/email", ingestDelivery.WebhookTokenMiddleware(cfg.WebhookToken), ingestHandler.IngestEmail)
			ingest.GET("/failures", ingestDelivery.AccountMiddleware(), ingestHandler.GetFailures)
		}

		// Order ledger routes (account-scoped)
		orders := api.Group("/orders")
		orders.Use(ingestDelivery.AccountMiddleware())
		{
			orders.GET("", orderHandler.GetOrders)
			orders.GET("/:id", orderHandler.GetOrderByID)
			orders.PATCH("/items/:id/received", orderHandler.UpdateItemReceived)
		}

		// Catalog routes (shared across accounts)
		api.GET("/catalog", catalogHandler.GetEntries)

		// Vendor pattern administration
		vendors := api.Group("/vendors")
		{
			vendors.GET("/patterns", vendorHandler.GetPatterns)
			vendors.PUT("/patterns/:vendorId", vendorHandler.UpdatePattern)
		}
	}
}
