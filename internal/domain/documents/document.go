package documents

import (
	"context"
	"fmt"
	"strings"

	"bizconsole/internal/core/apperror"
	"bizconsole/internal/core/entity"
	"bizconsole/internal/core/types"
)

// Document is a quotation or an invoice.
//
// Subtotal, TaxAmount, DiscountAmount, Total and every line Amount are derived
// and are rewritten by Recalculate; the Store recalculates on every write, so
// values assigned to them directly never reach the collection.
type Document struct {
	entity.BaseDocument

	Kind   Kind   `json:"kind"`
	Number string `json:"documentNumber"`

	Customer       string     `json:"customer"`
	Project        string     `json:"project,omitempty"`
	IssueDate      types.Date `json:"issueDate"`
	DueOrValidDate types.Date `json:"dueOrValidDate"`

	Items           []LineItem  `json:"items"`
	TaxPercent      types.Money `json:"taxPercent"`
	DiscountPercent types.Money `json:"discountPercent"`

	Totals

	Notes  string `json:"notes,omitempty"`
	Status Status `json:"status"`
}

// NewDraft returns an unsaved document with one blank line, issued today.
func NewDraft(kind Kind) *Document {
	d := &Document{
		Kind:            kind,
		IssueDate:       types.Today(),
		Items:           []LineItem{DefaultLineItem()},
		TaxPercent:      types.Zero(),
		DiscountPercent: types.Zero(),
		Status:          StatusDraft,
	}
	d.Recalculate()
	return d
}

// Recalculate recomputes every line amount and the document totals over the
// entire item list.
func (d *Document) Recalculate() {
	recomputeLines(d.Items)
	d.Totals = ComputeTotals(d.Items, d.TaxPercent, d.DiscountPercent)
}

// AddLine appends a blank line.
func (d *Document) AddLine() {
	d.Items = append(d.Items, DefaultLineItem())
	d.Recalculate()
}

// RemoveLine deletes the line at i. A document always keeps at least one line,
// so removing the last remaining line (or an out-of-range index) does nothing
// and returns false.
func (d *Document) RemoveLine(i int) bool {
	if len(d.Items) <= 1 || i < 0 || i >= len(d.Items) {
		return false
	}
	d.Items = append(d.Items[:i], d.Items[i+1:]...)
	d.Recalculate()
	return true
}

// SetLineService sets the service name of line i.
func (d *Document) SetLineService(i int, service string) bool {
	if !d.hasLine(i) {
		return false
	}
	d.Items[i].Service = service
	return true
}

// SetLineQuantity sets the quantity of line i from a raw form value.
func (d *Document) SetLineQuantity(i int, v any) bool {
	if !d.hasLine(i) {
		return false
	}
	d.Items[i].Quantity = types.Coerce(v)
	d.Recalculate()
	return true
}

// SetLineRate sets the rate of line i from a raw form value.
func (d *Document) SetLineRate(i int, v any) bool {
	if !d.hasLine(i) {
		return false
	}
	d.Items[i].Rate = types.Coerce(v)
	d.Recalculate()
	return true
}

// SetTaxPercent sets the tax percentage. Values are not clamped.
func (d *Document) SetTaxPercent(v any) {
	d.TaxPercent = types.Coerce(v)
	d.Recalculate()
}

// SetDiscountPercent sets the discount percentage. Values are not clamped.
func (d *Document) SetDiscountPercent(v any) {
	d.DiscountPercent = types.Coerce(v)
	d.Recalculate()
}

// SetItems replaces the item list. Caller-supplied amounts are ignored.
func (d *Document) SetItems(items []LineItem) {
	d.Items = append([]LineItem(nil), items...)
	d.Recalculate()
}

func (d *Document) hasLine(i int) bool {
	return i >= 0 && i < len(d.Items)
}

// Clone returns a deep copy.
func (d *Document) Clone() Document {
	c := *d
	c.Items = append([]LineItem(nil), d.Items...)
	return c
}

// Validate implements entity.Validatable with the rules a draft must meet to
// be created: a customer and at least one billable line.
func (d *Document) Validate(ctx context.Context) error {
	if err := d.validateShape(ctx); err != nil {
		return err
	}

	for _, item := range d.Items {
		if item.Billable() {
			return nil
		}
	}
	return apperror.NewValidation("at least one line needs a service and a positive amount").
		WithDetail("field", "items")
}

// validateShape checks the rules every stored document keeps after edits.
func (d *Document) validateShape(_ context.Context) error {
	if !d.Kind.Valid() {
		return apperror.NewValidation(fmt.Sprintf("unknown document kind %q", d.Kind)).
			WithDetail("field", "kind")
	}

	if strings.TrimSpace(d.Customer) == "" {
		return apperror.NewValidation("customer is required").
			WithDetail("field", "customer")
	}

	if len(d.Items) == 0 {
		return apperror.NewValidation("at least one line is required").
			WithDetail("field", "items")
	}

	if !d.Kind.Allows(d.Status) {
		return apperror.NewValidation(fmt.Sprintf("%q is not a valid %s status", d.Status, d.Kind)).
			WithDetail("field", "status").
			WithDetail("allowed", d.Kind.Statuses())
	}

	return nil
}

// Ensure interface compliance at compile time.
var _ entity.Validatable = (*Document)(nil)
