package reports

import (
	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
)

// InvoiceAging buckets unpaid invoices by days past their due date as of asOf.
// Invoices without a due date, or not yet due, are current.
func InvoiceAging(docs []documents.Document, asOf types.Date) AgingReport {
	rows := make(map[AgingBucket]*AgingRow, len(AgingBuckets))
	for _, b := range AgingBuckets {
		rows[b] = &AgingRow{Bucket: b, Amount: types.Zero()}
	}

	total := types.Zero()
	for _, d := range docs {
		if d.Status == documents.StatusPaid {
			continue
		}
		row := rows[bucketFor(d.DueOrValidDate, asOf)]
		row.Count++
		row.Amount = row.Amount.Add(d.Total)
		total = total.Add(d.Total)
	}

	report := AgingReport{AsOf: asOf, TotalOutstanding: total}
	for _, b := range AgingBuckets {
		report.Rows = append(report.Rows, *rows[b])
	}
	return report
}

func bucketFor(due, asOf types.Date) AgingBucket {
	if due.IsZero() {
		return AgingCurrent
	}
	days := due.DaysUntil(asOf)
	switch {
	case days <= 0:
		return AgingCurrent
	case days <= 30:
		return Aging1To30
	case days <= 60:
		return Aging31To60
	case days <= 90:
		return Aging61To90
	default:
		return AgingOver90
	}
}
