package v1

import (
	"github.com/gin-gonic/gin"

	"bizconsole/internal/domain/documents"
	"bizconsole/internal/domain/reports"
	"bizconsole/internal/infrastructure/http/v1/handlers"
	"bizconsole/internal/infrastructure/http/v1/middleware"
	"bizconsole/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Logger for request logging
	Logger *logger.Logger

	Quotations *documents.Store
	Invoices   *documents.Store
	Reports    *reports.Service

	// Renderer produces printable documents; nil disables the PDF routes
	Renderer documents.Renderer

	// Backend names the storage backend in readiness output
	Backend    string
	ReadyCheck handlers.ReadyCheck
	ReadyStats handlers.ReadyStats
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	healthHandler := handlers.NewHealthHandler(cfg.Backend, cfg.ReadyCheck, cfg.ReadyStats)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
	}

	v1 := router.Group("/api/v1")
	{
		registerDocumentRoutes(v1, cfg)
		registerReportRoutes(v1, cfg)
	}

	return router
}

// registerDocumentRoutes registers quotation and invoice endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	baseHandler := handlers.NewBaseHandler()

	for _, store := range []*documents.Store{cfg.Quotations, cfg.Invoices} {
		if store == nil {
			continue
		}
		handler := handlers.NewDocumentHandler(baseHandler, store, cfg.Renderer)
		RegisterDocumentRoutes(rg.Group("/"+store.Kind().CollectionKey()), handler)
	}
}

// registerReportRoutes registers aggregate report endpoints.
func registerReportRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.Reports == nil {
		return
	}

	handler := handlers.NewReportsHandler(handlers.NewBaseHandler(), cfg.Reports)
	reportsGroup := rg.Group("/reports")
	{
		reportsGroup.GET("/summary", handler.GetSummary)
		reportsGroup.GET("/invoice-aging", handler.GetInvoiceAging)
	}
}
