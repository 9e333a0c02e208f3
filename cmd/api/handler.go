package api

import (
	catalogusecase "optiledger-backend/internal/catalog/usecase"
	ingestusecase "optiledger-backend/internal/ingest/usecase"
	orderusecase "optiledger-backend/internal/order/usecase"
	vendorusecase "optiledger-backend/internal/vendors/usecase"
	"optiledger-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// Handler owns the HTTP surface and its route wiring
type Handler struct {
	ingestUsecase  ingestusecase.IngestUsecase
	orderUsecase   orderusecase.OrderUsecase
	catalogUsecase catalogusecase.CatalogUsecase
	patternStore   *vendorusecase.PatternStore
	config         *config.Config
}

// NewHandler creates the HTTP handler over the assembled use cases
func NewHandler(ingestUc ingestusecase.IngestUsecase, orderUc orderusecase.OrderUsecase, catalogUc catalogusecase.CatalogUsecase, patternStore *vendorusecase.PatternStore, cfg *config.Config) *Handler {
	return &Handler{
		ingestUsecase:  ingestUc,
		orderUsecase:   orderUc,
		catalogUsecase: catalogUc,
		patternStore:   patternStore,
		config:         cfg,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With, X-Account-ID, X-Webhook-Token")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Setup routes
	SetupRoutes(r, h.ingestUsecase, h.orderUsecase, h.catalogUsecase, h.patternStore, h.config)

	return r.Run(addr)
}
