package reports

import (
	"github.com/samber/lo"

	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
)

// OutstandingInvoiceTotal sums the totals of every document that is not paid.
func OutstandingInvoiceTotal(docs []documents.Document) types.Money {
	return sumTotals(lo.Filter(docs, func(d documents.Document, _ int) bool {
		return d.Status != documents.StatusPaid
	}))
}

// PendingQuotationValue sums the totals of documents that are sent or accepted.
func PendingQuotationValue(docs []documents.Document) types.Money {
	return sumTotals(lo.Filter(docs, func(d documents.Document, _ int) bool {
		return d.Status == documents.StatusSent || d.Status == documents.StatusAccepted
	}))
}

// UnpaidInvoiceCount counts documents that are not paid.
func UnpaidInvoiceCount(docs []documents.Document) int {
	return lo.CountBy(docs, func(d documents.Document) bool {
		return d.Status != documents.StatusPaid
	})
}

// StatusBreakdown returns count and total per status of kind, in the kind's
// status order. Statuses with no documents are included with zero values.
func StatusBreakdown(kind documents.Kind, docs []documents.Document) []StatusTotal {
	groups := lo.GroupBy(docs, func(d documents.Document) documents.Status {
		return d.Status
	})

	return lo.Map(kind.Statuses(), func(status documents.Status, _ int) StatusTotal {
		return StatusTotal{
			Status: status,
			Count:  len(groups[status]),
			Total:  sumTotals(groups[status]),
		}
	})
}

func sumTotals(docs []documents.Document) types.Money {
	return lo.Reduce(docs, func(acc types.Money, d documents.Document, _ int) types.Money {
		return acc.Add(d.Total)
	}, types.Zero())
}
