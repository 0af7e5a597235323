// Package reports computes cross-document metrics from the live quotation and
// invoice collections. Nothing is cached; every call reads current state.
package reports

import (
	"time"

	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
)

// StatusTotal is one row of a status breakdown.
type StatusTotal struct {
	Status documents.Status
	Count  int
	Total  types.Money
}

// QuotationSummary aggregates the quotation collection.
type QuotationSummary struct {
	Count        int
	PendingValue types.Money
	ByStatus     []StatusTotal
}

// InvoiceSummary aggregates the invoice collection.
type InvoiceSummary struct {
	Count       int
	Outstanding types.Money
	Unpaid      int
	ByStatus    []StatusTotal
}

// Summary is the dashboard view of both collections.
type Summary struct {
	GeneratedAt time.Time
	Quotations  QuotationSummary
	Invoices    InvoiceSummary
}

// AgingBucket names a days-past-due range.
type AgingBucket string

const (
	AgingCurrent AgingBucket = "current"
	Aging1To30   AgingBucket = "1-30"
	Aging31To60  AgingBucket = "31-60"
	Aging61To90  AgingBucket = "61-90"
	AgingOver90  AgingBucket = "90+"
)

// AgingBuckets lists the buckets in display order.
var AgingBuckets = []AgingBucket{AgingCurrent, Aging1To30, Aging31To60, Aging61To90, AgingOver90}

// AgingRow is the unpaid amount and invoice count of one bucket.
type AgingRow struct {
	Bucket AgingBucket
	Count  int
	Amount types.Money
}

// AgingReport groups unpaid invoices by how long they are past due.
type AgingReport struct {
	AsOf             types.Date
	Rows             []AgingRow
	TotalOutstanding types.Money
}

// Row returns the row for bucket.
func (r AgingReport) Row(bucket AgingBucket) AgingRow {
	for _, row := range r.Rows {
		if row.Bucket == bucket {
			return row
		}
	}
	return AgingRow{Bucket: bucket, Amount: types.Zero()}
}
