package documents

import (
	"github.com/samber/lo"

	"bizconsole/internal/core/types"
)

// LineItem is a single billable row.
type LineItem struct {
	Service  string      `json:"service"`
	Quantity types.Money `json:"quantity"`
	Rate     types.Money `json:"rate"`

	// Amount is derived from Quantity and Rate by the calculator. Values
	// supplied by callers are overwritten on every recalculation.
	Amount types.Money `json:"amount"`
}

// NewLineItem builds a line from raw form values and computes its amount.
func NewLineItem(service string, quantity, rate any) LineItem {
	q, r := types.Coerce(quantity), types.Coerce(rate)
	return LineItem{
		Service:  service,
		Quantity: q,
		Rate:     r,
		Amount:   ComputeAmount(q, r),
	}
}

// DefaultLineItem is the blank row a new draft starts with.
func DefaultLineItem() LineItem {
	return NewLineItem("", 1, 0)
}

// Billable reports whether the line names a service and has a positive amount.
func (l LineItem) Billable() bool {
	return l.Service != "" && l.Amount.IsPositive()
}

// ComputeAmount returns quantity*rate. Non-numeric inputs count as zero.
func ComputeAmount(quantity, rate any) types.Money {
	return types.Coerce(quantity).Mul(types.Coerce(rate))
}

// Totals holds the derived monetary fields of a document.
type Totals struct {
	Subtotal       types.Money `json:"subtotal"`
	TaxAmount      types.Money `json:"taxAmount"`
	DiscountAmount types.Money `json:"discountAmount"`
	Total          types.Money `json:"total"`
}

// ComputeTotals derives subtotal, tax, discount and total from the whole item
// list. Nothing is rounded here; rounding is a display concern.
func ComputeTotals(items []LineItem, taxPercent, discountPercent types.Money) Totals {
	subtotal := lo.Reduce(items, func(acc types.Money, item LineItem, _ int) types.Money {
		return acc.Add(item.Amount)
	}, types.Zero())

	tax := percentOf(subtotal, taxPercent)
	discount := percentOf(subtotal, discountPercent)

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DiscountAmount: discount,
		Total:          subtotal.Add(tax).Sub(discount),
	}
}

// percentOf returns base*percent/100 without precision loss.
func percentOf(base, percent types.Money) types.Money {
	return base.Mul(percent).Shift(-2)
}

// recomputeLines refreshes every line amount from its quantity and rate.
func recomputeLines(items []LineItem) {
	for i := range items {
		items[i].Amount = ComputeAmount(items[i].Quantity, items[i].Rate)
	}
}
