// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// DocumentRouteHandler defines the interface for document handlers.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetStatus(c *gin.Context)
}

// DocumentPDFHandler is an optional interface for documents that can be rendered.
type DocumentPDFHandler interface {
	PDF(c *gin.Context)
}

// RegisterDocumentRoutes registers standard CRUD + status routes for a document kind.
// If the handler also implements DocumentPDFHandler, the PDF route is registered too.
//
// Usage:
//
//	handler := handlers.NewDocumentHandler(baseHandler, invoices, renderer)
//	RegisterDocumentRoutes(v1.Group("/invoices"), handler)
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
	group.PUT("/:id/status", handler.SetStatus)

	if pdfHandler, ok := handler.(DocumentPDFHandler); ok {
		group.GET("/:id/pdf", pdfHandler.PDF)
	}
}
