package dto

import (
	"github.com/samber/lo"

	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/storage/codec"
)

// --- Request DTOs ---

// LineItemRequest is one line in a create/update request. Quantity and rate
// accept numbers or numeric strings; anything else counts as zero.
type LineItemRequest struct {
	Service  string       `json:"service"`
	Quantity codec.Number `json:"quantity"`
	Rate     codec.Number `json:"rate"`
}

// CreateDocumentRequest represents a request to create a quotation or invoice.
// Derived fields (amounts, totals, number) are never accepted from the client.
type CreateDocumentRequest struct {
	Customer        string            `json:"customer"`
	Project         string            `json:"project,omitempty"`
	IssueDate       types.Date        `json:"issueDate"`
	DueOrValidDate  types.Date        `json:"dueOrValidDate"`
	Items           []LineItemRequest `json:"items"`
	TaxPercent      codec.Number      `json:"taxPercent"`
	DiscountPercent codec.Number      `json:"discountPercent"`
	Notes           string            `json:"notes,omitempty"`
	Status          string            `json:"status,omitempty"`
}

// ToEntity converts request to a draft of the given kind.
func (r *CreateDocumentRequest) ToEntity(kind documents.Kind) *documents.Document {
	doc := documents.NewDraft(kind)
	doc.Customer = r.Customer
	doc.Project = r.Project
	if !r.IssueDate.IsZero() {
		doc.IssueDate = r.IssueDate
	}
	doc.DueOrValidDate = r.DueOrValidDate
	doc.Notes = r.Notes
	if r.Status != "" {
		doc.Status = documents.Status(r.Status)
	}
	if r.Items != nil {
		doc.SetItems(toLineItems(r.Items))
	}
	doc.SetTaxPercent(r.TaxPercent.Money)
	doc.SetDiscountPercent(r.DiscountPercent.Money)
	return doc
}

// UpdateDocumentRequest carries a partial update; absent fields are kept.
type UpdateDocumentRequest struct {
	Customer        *string           `json:"customer,omitempty"`
	Project         *string           `json:"project,omitempty"`
	IssueDate       *types.Date       `json:"issueDate,omitempty"`
	DueOrValidDate  *types.Date       `json:"dueOrValidDate,omitempty"`
	Items           []LineItemRequest `json:"items,omitempty"`
	TaxPercent      *codec.Number     `json:"taxPercent,omitempty"`
	DiscountPercent *codec.Number     `json:"discountPercent,omitempty"`
	Notes           *string           `json:"notes,omitempty"`
	Status          *string           `json:"status,omitempty"`
}

// ToPatch converts request to a domain patch.
func (r *UpdateDocumentRequest) ToPatch() documents.Patch {
	patch := documents.Patch{
		Customer:       r.Customer,
		Project:        r.Project,
		IssueDate:      r.IssueDate,
		DueOrValidDate: r.DueOrValidDate,
		Notes:          r.Notes,
	}
	if r.Items != nil {
		patch.Items = toLineItems(r.Items)
	}
	if r.TaxPercent != nil {
		patch.TaxPercent = lo.ToPtr(r.TaxPercent.Money)
	}
	if r.DiscountPercent != nil {
		patch.DiscountPercent = lo.ToPtr(r.DiscountPercent.Money)
	}
	if r.Status != nil {
		patch.Status = lo.ToPtr(documents.Status(*r.Status))
	}
	return patch
}

// SetStatusRequest is the body of PUT /{kind}/:id/status.
type SetStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func toLineItems(lines []LineItemRequest) []documents.LineItem {
	return lo.Map(lines, func(l LineItemRequest, _ int) documents.LineItem {
		return documents.NewLineItem(l.Service, l.Quantity.Money, l.Rate.Money)
	})
}

// --- Response DTOs ---

// LineItemResponse is one priced line.
type LineItemResponse struct {
	Service  string       `json:"service"`
	Quantity codec.Number `json:"quantity"`
	Rate     codec.Number `json:"rate"`
	Amount   codec.Number `json:"amount"`
}

// DocumentResponse represents a quotation or invoice in API responses.
type DocumentResponse struct {
	BaseResponse
	Kind            string             `json:"kind"`
	DocumentNumber  string             `json:"documentNumber"`
	Customer        string             `json:"customer"`
	Project         string             `json:"project"`
	IssueDate       types.Date         `json:"issueDate"`
	DueOrValidDate  types.Date         `json:"dueOrValidDate"`
	Items           []LineItemResponse `json:"items"`
	TaxPercent      codec.Number       `json:"taxPercent"`
	DiscountPercent codec.Number       `json:"discountPercent"`
	Subtotal        codec.Number       `json:"subtotal"`
	TaxAmount       codec.Number       `json:"taxAmount"`
	DiscountAmount  codec.Number       `json:"discountAmount"`
	Total           codec.Number       `json:"total"`
	Notes           string             `json:"notes"`
	Status          string             `json:"status"`
	AllowedStatuses []string           `json:"allowedStatuses"`
}

// FromDocument converts domain document to response DTO.
func FromDocument(doc documents.Document) DocumentResponse {
	return DocumentResponse{
		BaseResponse:   FromBaseDocument(doc.BaseDocument),
		Kind:           string(doc.Kind),
		DocumentNumber: doc.Number,
		Customer:       doc.Customer,
		Project:        doc.Project,
		IssueDate:      doc.IssueDate,
		DueOrValidDate: doc.DueOrValidDate,
		Items: lo.Map(doc.Items, func(l documents.LineItem, _ int) LineItemResponse {
			return LineItemResponse{
				Service:  l.Service,
				Quantity: codec.Number{Money: l.Quantity},
				Rate:     codec.Number{Money: l.Rate},
				Amount:   codec.Number{Money: l.Amount},
			}
		}),
		TaxPercent:      codec.Number{Money: doc.TaxPercent},
		DiscountPercent: codec.Number{Money: doc.DiscountPercent},
		Subtotal:        codec.Number{Money: doc.Subtotal},
		TaxAmount:       codec.Number{Money: doc.TaxAmount},
		DiscountAmount:  codec.Number{Money: doc.DiscountAmount},
		Total:           codec.Number{Money: doc.Total},
		Notes:           doc.Notes,
		Status:          string(doc.Status),
		AllowedStatuses: lo.Map(doc.Kind.Statuses(), func(s documents.Status, _ int) string {
			return string(s)
		}),
	}
}

// FromDocuments converts a slice of documents.
func FromDocuments(docs []documents.Document) []DocumentResponse {
	return lo.Map(docs, func(d documents.Document, _ int) DocumentResponse {
		return FromDocument(d)
	})
}

// DocumentListRequest holds list filters.
type DocumentListRequest struct {
	Search string `form:"search"`
	Status string `form:"status"`
}
