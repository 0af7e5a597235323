package dto

import (
	"time"

	"github.com/samber/lo"

	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/reports"
	"bizconsole/internal/infrastructure/storage/codec"
)

// InvoiceAgingRequest holds aging report query parameters.
type InvoiceAgingRequest struct {
	AsOf string `form:"asOf"`
}

// StatusTotalResponse is one row of a status breakdown.
type StatusTotalResponse struct {
	Status string       `json:"status"`
	Count  int          `json:"count"`
	Total  codec.Number `json:"total"`
}

// QuotationSummaryResponse aggregates the quotation collection.
type QuotationSummaryResponse struct {
	Count        int                   `json:"count"`
	PendingValue codec.Number          `json:"pendingValue"`
	ByStatus     []StatusTotalResponse `json:"byStatus"`
}

// InvoiceSummaryResponse aggregates the invoice collection.
type InvoiceSummaryResponse struct {
	Count       int                   `json:"count"`
	Outstanding codec.Number          `json:"outstanding"`
	Unpaid      int                   `json:"unpaid"`
	ByStatus    []StatusTotalResponse `json:"byStatus"`
}

// SummaryResponse is the dashboard payload.
type SummaryResponse struct {
	GeneratedAt time.Time                `json:"generatedAt"`
	Quotations  QuotationSummaryResponse `json:"quotations"`
	Invoices    InvoiceSummaryResponse   `json:"invoices"`
}

// FromSummary converts domain summary to DTO.
func FromSummary(s *reports.Summary) SummaryResponse {
	return SummaryResponse{
		GeneratedAt: s.GeneratedAt,
		Quotations: QuotationSummaryResponse{
			Count:        s.Quotations.Count,
			PendingValue: codec.Number{Money: s.Quotations.PendingValue},
			ByStatus:     fromStatusTotals(s.Quotations.ByStatus),
		},
		Invoices: InvoiceSummaryResponse{
			Count:       s.Invoices.Count,
			Outstanding: codec.Number{Money: s.Invoices.Outstanding},
			Unpaid:      s.Invoices.Unpaid,
			ByStatus:    fromStatusTotals(s.Invoices.ByStatus),
		},
	}
}

func fromStatusTotals(rows []reports.StatusTotal) []StatusTotalResponse {
	return lo.Map(rows, func(r reports.StatusTotal, _ int) StatusTotalResponse {
		return StatusTotalResponse{Status: string(r.Status), Count: r.Count, Total: codec.Number{Money: r.Total}}
	})
}

// AgingRowResponse is one aging bucket.
type AgingRowResponse struct {
	Bucket string       `json:"bucket"`
	Count  int          `json:"count"`
	Amount codec.Number `json:"amount"`
}

// AgingReportResponse is the invoice aging payload.
type AgingReportResponse struct {
	AsOf             types.Date         `json:"asOf"`
	Rows             []AgingRowResponse `json:"rows"`
	TotalOutstanding codec.Number       `json:"totalOutstanding"`
}

// FromAgingReport converts domain aging report to DTO.
func FromAgingReport(r reports.AgingReport) AgingReportResponse {
	return AgingReportResponse{
		AsOf: r.AsOf,
		Rows: lo.Map(r.Rows, func(row reports.AgingRow, _ int) AgingRowResponse {
			return AgingRowResponse{Bucket: string(row.Bucket), Count: row.Count, Amount: codec.Number{Money: row.Amount}}
		}),
		TotalOutstanding: codec.Number{Money: r.TotalOutstanding},
	}
}
