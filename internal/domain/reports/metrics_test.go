package reports

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
)

func doc(status documents.Status, total string) documents.Document {
	return documents.Document{
		Status: status,
		Totals: documents.Totals{Total: types.MustMoney(total)},
	}
}

func dueDoc(status documents.Status, total string, due types.Date) documents.Document {
	d := doc(status, total)
	d.DueOrValidDate = due
	return d
}

func assertMoney(t *testing.T, want string, got types.Money) {
	t.Helper()
	assert.True(t, types.MustMoney(want).Equal(got), "want %s, got %s", want, got)
}

func TestOutstandingInvoiceTotal(t *testing.T) {
	docs := []documents.Document{
		doc(documents.StatusPaid, "100"),
		doc(documents.StatusSent, "50"),
		doc(documents.StatusOverdue, "75"),
	}
	assertMoney(t, "125", OutstandingInvoiceTotal(docs))
	assert.Equal(t, 2, UnpaidInvoiceCount(docs))

	assertMoney(t, "0", OutstandingInvoiceTotal(nil))
	assert.Zero(t, UnpaidInvoiceCount(nil))
}

func TestOutstandingInvoiceTotal_IncludesDraftsAndNegatives(t *testing.T) {
	docs := []documents.Document{
		doc(documents.StatusDraft, "10.5"),
		doc(documents.StatusSent, "-4"),
	}
	assertMoney(t, "6.5", OutstandingInvoiceTotal(docs))
}

func TestPendingQuotationValue(t *testing.T) {
	docs := []documents.Document{
		doc(documents.StatusDraft, "1000"),
		doc(documents.StatusSent, "200"),
		doc(documents.StatusAccepted, "300.25"),
		doc(documents.StatusRejected, "50"),
	}
	assertMoney(t, "500.25", PendingQuotationValue(docs))
}

func TestStatusBreakdown(t *testing.T) {
	docs := []documents.Document{
		doc(documents.StatusSent, "10"),
		doc(documents.StatusPaid, "20"),
		doc(documents.StatusSent, "5"),
	}

	rows := StatusBreakdown(documents.KindInvoice, docs)
	require.Len(t, rows, 4)

	assert.Equal(t, documents.StatusDraft, rows[0].Status)
	assert.Zero(t, rows[0].Count)
	assertMoney(t, "0", rows[0].Total)

	assert.Equal(t, documents.StatusSent, rows[1].Status)
	assert.Equal(t, 2, rows[1].Count)
	assertMoney(t, "15", rows[1].Total)

	assert.Equal(t, documents.StatusPaid, rows[2].Status)
	assertMoney(t, "20", rows[2].Total)
}

func TestInvoiceAging(t *testing.T) {
	asOf := types.NewDate(2026, time.October, 16)
	daysAgo := func(n int) types.Date {
		return types.DateOf(asOf.AddDate(0, 0, -n))
	}

	docs := []documents.Document{
		dueDoc(documents.StatusSent, "100", types.Date{}),
		dueDoc(documents.StatusSent, "10", daysAgo(-5)),
		dueDoc(documents.StatusSent, "1", daysAgo(0)),
		dueDoc(documents.StatusOverdue, "20", daysAgo(1)),
		dueDoc(documents.StatusOverdue, "30", daysAgo(30)),
		dueDoc(documents.StatusOverdue, "40", daysAgo(31)),
		dueDoc(documents.StatusOverdue, "60", daysAgo(90)),
		dueDoc(documents.StatusDraft, "70", daysAgo(91)),
		dueDoc(documents.StatusPaid, "999", daysAgo(200)),
	}

	report := InvoiceAging(docs, asOf)
	require.Len(t, report.Rows, 5)

	current := report.Row(AgingCurrent)
	assert.Equal(t, 3, current.Count)
	assertMoney(t, "111", current.Amount)

	assertMoney(t, "50", report.Row(Aging1To30).Amount)
	assert.Equal(t, 2, report.Row(Aging1To30).Count)
	assertMoney(t, "40", report.Row(Aging31To60).Amount)
	assertMoney(t, "60", report.Row(Aging61To90).Amount)
	assertMoney(t, "70", report.Row(AgingOver90).Amount)

	assertMoney(t, "331", report.TotalOutstanding)
	assertMoney(t, OutstandingInvoiceTotal(docs).String(), report.TotalOutstanding)
}

type staticLister []documents.Document

func (l staticLister) List(context.Context) []documents.Document {
	return l
}

func TestService_Summary(t *testing.T) {
	quotations := staticLister{
		doc(documents.StatusSent, "200"),
		doc(documents.StatusRejected, "80"),
	}
	invoices := staticLister{
		doc(documents.StatusPaid, "100"),
		doc(documents.StatusSent, "50"),
		doc(documents.StatusOverdue, "75"),
	}

	summary := NewService(quotations, invoices).Summary(context.Background())

	assert.Equal(t, 2, summary.Quotations.Count)
	assertMoney(t, "200", summary.Quotations.PendingValue)
	assert.Len(t, summary.Quotations.ByStatus, 4)

	assert.Equal(t, 3, summary.Invoices.Count)
	assertMoney(t, "125", summary.Invoices.Outstanding)
	assert.Equal(t, 2, summary.Invoices.Unpaid)
	assert.False(t, summary.GeneratedAt.IsZero())
}

func TestService_InvoiceAgingDefaultsToToday(t *testing.T) {
	svc := NewService(staticLister{}, staticLister{doc(documents.StatusSent, "5")})

	report := svc.InvoiceAging(context.Background(), types.Date{})
	assert.Equal(t, types.Today(), report.AsOf)
	assertMoney(t, "5", report.Row(AgingCurrent).Amount)
}
