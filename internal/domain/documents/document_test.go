package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizconsole/internal/core/apperror"
	"bizconsole/internal/core/types"
)

func TestNewDraft(t *testing.T) {
	d := NewDraft(KindInvoice)

	require.Len(t, d.Items, 1)
	assert.Equal(t, "", d.Items[0].Service)
	assertMoney(t, "1", d.Items[0].Quantity)
	assertMoney(t, "0", d.Items[0].Rate)
	assertMoney(t, "0", d.Total)
	assert.Equal(t, StatusDraft, d.Status)
	assert.Equal(t, types.Today(), d.IssueDate)
	assert.True(t, d.IsNew())
}

func TestDocument_RemoveLastLineIsNoop(t *testing.T) {
	d := NewDraft(KindQuotation)

	assert.False(t, d.RemoveLine(0))
	assert.Len(t, d.Items, 1)

	d.AddLine()
	d.AddLine()
	require.Len(t, d.Items, 3)

	assert.False(t, d.RemoveLine(5))
	assert.False(t, d.RemoveLine(-1))

	for i := 0; i < 5; i++ {
		d.RemoveLine(0)
		assert.GreaterOrEqual(t, len(d.Items), 1)
	}
	assert.Len(t, d.Items, 1)
}

func TestDocument_EditsRecalculate(t *testing.T) {
	d := NewDraft(KindQuotation)
	require.True(t, d.SetLineService(0, "Consulting"))
	require.True(t, d.SetLineQuantity(0, "2"))
	require.True(t, d.SetLineRate(0, 100))
	assertMoney(t, "200", d.Items[0].Amount)
	assertMoney(t, "200", d.Subtotal)

	d.SetTaxPercent("10")
	d.SetDiscountPercent(5)
	assertMoney(t, "210", d.Total)

	d.AddLine()
	d.SetLineService(1, "Travel")
	d.SetLineRate(1, "50")
	assertMoney(t, "250", d.Subtotal)
	assertMoney(t, "262.5", d.Total)

	require.True(t, d.RemoveLine(0))
	assertMoney(t, "50", d.Subtotal)
	assertMoney(t, "52.5", d.Total)

	assert.False(t, d.SetLineRate(3, 10))
	assert.False(t, d.SetLineQuantity(-1, 10))
	assert.False(t, d.SetLineService(9, "x"))
}

func TestDocument_MalformedInputFailsSoft(t *testing.T) {
	d := NewDraft(KindInvoice)
	d.SetLineService(0, "Hosting")
	d.SetLineRate(0, 40)
	d.SetLineQuantity(0, "two")

	assertMoney(t, "0", d.Items[0].Amount)
	assertMoney(t, "0", d.Total)

	d.SetTaxPercent("ten")
	assertMoney(t, "0", d.TaxPercent)
}

func TestDocument_StaleAmountIsNeverKept(t *testing.T) {
	d := NewDraft(KindQuotation)
	d.SetItems([]LineItem{{Service: "Consulting", Quantity: types.MustMoney("2"), Rate: types.MustMoney("100"), Amount: types.MustMoney("999")}})

	assertMoney(t, "200", d.Items[0].Amount)

	d.Items[0].Amount = types.MustMoney("1")
	d.Subtotal = types.MustMoney("1")
	d.SetDiscountPercent(0)
	assertMoney(t, "200", d.Items[0].Amount)
	assertMoney(t, "200", d.Subtotal)
}

func TestDocument_Validate(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name  string
		build func() *Document
		field string
	}{
		{"empty customer", func() *Document {
			d := NewDraft(KindQuotation)
			d.SetItems([]LineItem{NewLineItem("Consulting", 1, 10)})
			return d
		}, "customer"},
		{"blank customer", func() *Document {
			d := NewDraft(KindQuotation)
			d.Customer = "   "
			d.SetItems([]LineItem{NewLineItem("Consulting", 1, 10)})
			return d
		}, "customer"},
		{"no billable line", func() *Document {
			d := NewDraft(KindQuotation)
			d.Customer = "Acme"
			d.SetItems([]LineItem{NewLineItem("", 1, 10), NewLineItem("Consulting", 1, 0)})
			return d
		}, "items"},
		{"foreign status", func() *Document {
			d := NewDraft(KindQuotation)
			d.Customer = "Acme"
			d.SetItems([]LineItem{NewLineItem("Consulting", 1, 10)})
			d.Status = StatusPaid
			return d
		}, "status"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.build().Validate(ctx)
			require.Error(t, err)
			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
			assert.Equal(t, tt.field, appErr.Details["field"])
		})
	}

	valid := NewDraft(KindQuotation)
	valid.Customer = "Acme"
	valid.SetItems([]LineItem{NewLineItem("", 1, 0), NewLineItem("Consulting", 2, 100)})
	assert.NoError(t, valid.Validate(ctx))
}

func TestDocument_CloneIsDeep(t *testing.T) {
	d := NewDraft(KindInvoice)
	d.SetLineService(0, "Hosting")

	c := d.Clone()
	c.Items[0].Service = "Changed"
	c.Customer = "Other"

	assert.Equal(t, "Hosting", d.Items[0].Service)
	assert.Empty(t, d.Customer)
}
