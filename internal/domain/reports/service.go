package reports

import (
	"context"
	"time"

	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
)

// Lister is the read side of a document store.
type Lister interface {
	List(ctx context.Context) []documents.Document
}

// Service builds dashboard reports from the live collections.
type Service struct {
	quotations Lister
	invoices   Lister
}

// NewService creates a new reports service.
func NewService(quotations, invoices Lister) *Service {
	return &Service{quotations: quotations, invoices: invoices}
}

// Summary reads both collections and aggregates them.
func (s *Service) Summary(ctx context.Context) *Summary {
	quotations := s.quotations.List(ctx)
	invoices := s.invoices.List(ctx)

	return &Summary{
		GeneratedAt: time.Now().UTC(),
		Quotations: QuotationSummary{
			Count:        len(quotations),
			PendingValue: PendingQuotationValue(quotations),
			ByStatus:     StatusBreakdown(documents.KindQuotation, quotations),
		},
		Invoices: InvoiceSummary{
			Count:       len(invoices),
			Outstanding: OutstandingInvoiceTotal(invoices),
			Unpaid:      UnpaidInvoiceCount(invoices),
			ByStatus:    StatusBreakdown(documents.KindInvoice, invoices),
		},
	}
}

// InvoiceAging buckets the current unpaid invoices. A zero asOf means today.
func (s *Service) InvoiceAging(ctx context.Context, asOf types.Date) AgingReport {
	if asOf.IsZero() {
		asOf = types.Today()
	}
	return InvoiceAging(s.invoices.List(ctx), asOf)
}
