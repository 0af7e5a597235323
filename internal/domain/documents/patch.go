package documents

import (
	"bizconsole/internal/core/types"
)

// Patch carries the editable fields of an update. Nil fields are left as they
// are. Identity, number and derived fields are not part of a patch.
type Patch struct {
	Customer        *string
	Project         *string
	IssueDate       *types.Date
	DueOrValidDate  *types.Date
	Items           []LineItem // nil keeps the current lines
	TaxPercent      *types.Money
	DiscountPercent *types.Money
	Notes           *string
	Status          *Status
}

// IsEmpty reports whether the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Customer == nil && p.Project == nil && p.IssueDate == nil &&
		p.DueOrValidDate == nil && p.Items == nil && p.TaxPercent == nil &&
		p.DiscountPercent == nil && p.Notes == nil && p.Status == nil
}

// applyTo merges the patch into doc and recalculates it. Shape validation is
// left to the caller.
func (p Patch) applyTo(doc *Document) {
	if p.Customer != nil {
		doc.Customer = *p.Customer
	}
	if p.Project != nil {
		doc.Project = *p.Project
	}
	if p.IssueDate != nil {
		doc.IssueDate = *p.IssueDate
	}
	if p.DueOrValidDate != nil {
		doc.DueOrValidDate = *p.DueOrValidDate
	}
	if p.Items != nil {
		doc.Items = append([]LineItem(nil), p.Items...)
	}
	if p.TaxPercent != nil {
		doc.TaxPercent = *p.TaxPercent
	}
	if p.DiscountPercent != nil {
		doc.DiscountPercent = *p.DiscountPercent
	}
	if p.Notes != nil {
		doc.Notes = *p.Notes
	}
	if p.Status != nil {
		doc.Status = *p.Status
	}
	doc.Recalculate()
}
