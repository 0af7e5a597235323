package handlers

import (
	"github.com/gin-gonic/gin"

	"bizconsole/internal/core/apperror"
	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/reports"
	"bizconsole/internal/infrastructure/http/v1/dto"
)

// ReportsHandler handles HTTP requests for reports.
type ReportsHandler struct {
	*BaseHandler
	service *reports.Service
}

// NewReportsHandler creates a new reports handler.
func NewReportsHandler(base *BaseHandler, service *reports.Service) *ReportsHandler {
	return &ReportsHandler{
		BaseHandler: base,
		service:     service,
	}
}

// GetSummary handles GET /reports/summary
func (h *ReportsHandler) GetSummary(c *gin.Context) {
	h.OK(c, dto.FromSummary(h.service.Summary(c.Request.Context())))
}

// GetInvoiceAging handles GET /reports/invoice-aging?asOf=YYYY-MM-DD
func (h *ReportsHandler) GetInvoiceAging(c *gin.Context) {
	var req dto.InvoiceAgingRequest
	if !h.BindQuery(c, &req) {
		return
	}

	asOf, err := types.ParseDate(req.AsOf)
	if err != nil {
		h.Error(c, apperror.NewValidation(err.Error()).WithDetail("field", "asOf"))
		return
	}

	h.OK(c, dto.FromAgingReport(h.service.InvoiceAging(c.Request.Context(), asOf)))
}
