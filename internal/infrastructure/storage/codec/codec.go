// Package codec converts document collections to and from the persisted JSON
// format: an array of documents with numeric fields as JSON numbers and dates
// as YYYY-MM-DD strings.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"bizconsole/internal/core/entity"
	"bizconsole/internal/core/id"
	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
)

// Number is a decimal that is written as a bare JSON number. On read it also
// accepts numeric strings and null; anything unparsable becomes zero.
type Number struct {
	types.Money
}

// MarshalJSON implements json.Marshaler.
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Money.String()), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		n.Money = decimal.Zero
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.Money = types.Coerce(s)
	default:
		n.Money = types.Coerce(json.Number(data))
	}
	return nil
}

// lenientDate decodes a date string; unparsable values become the zero date.
type lenientDate struct {
	types.Date
}

func (d *lenientDate) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		d.Date = types.Date{}
		return nil
	}
	parsed, err := types.ParseDate(s)
	if err != nil {
		parsed = types.Date{}
	}
	d.Date = parsed
	return nil
}

type lineRecord struct {
	Service  string `json:"service"`
	Quantity Number `json:"quantity"`
	Rate     Number `json:"rate"`
	Amount   Number `json:"amount"`
}

type documentRecord struct {
	ID              string       `json:"id"`
	Version         int          `json:"version"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
	Kind            string       `json:"kind"`
	DocumentNumber  string       `json:"documentNumber"`
	Customer        string       `json:"customer"`
	Project         string       `json:"project"`
	IssueDate       types.Date   `json:"issueDate"`
	DueOrValidDate  types.Date   `json:"dueOrValidDate"`
	Items           []lineRecord `json:"items"`
	TaxPercent      Number       `json:"taxPercent"`
	DiscountPercent Number       `json:"discountPercent"`
	Subtotal        Number       `json:"subtotal"`
	TaxAmount       Number       `json:"taxAmount"`
	DiscountAmount  Number       `json:"discountAmount"`
	Total           Number       `json:"total"`
	Notes           string       `json:"notes"`
	Status          string       `json:"status"`
}

// incomingRecord also understands the field names written by the browser
// console (quotationId, invoiceDate, validTill, tax, terms, ...).
type incomingRecord struct {
	ID              json.RawMessage `json:"id"`
	Version         int             `json:"version"`
	CreatedAt       *time.Time      `json:"createdAt"`
	UpdatedAt       *time.Time      `json:"updatedAt"`
	Kind            string          `json:"kind"`
	DocumentNumber  string          `json:"documentNumber"`
	QuotationID     string          `json:"quotationId"`
	InvoiceID       string          `json:"invoiceId"`
	Customer        string          `json:"customer"`
	Project         string          `json:"project"`
	IssueDate       *lenientDate    `json:"issueDate"`
	QuotationDate   *lenientDate    `json:"quotationDate"`
	InvoiceDate     *lenientDate    `json:"invoiceDate"`
	DueOrValidDate  *lenientDate    `json:"dueOrValidDate"`
	ValidTill       *lenientDate    `json:"validTill"`
	DueDate         *lenientDate    `json:"dueDate"`
	Items           []lineRecord    `json:"items"`
	TaxPercent      *Number         `json:"taxPercent"`
	Tax             *Number         `json:"tax"`
	DiscountPercent *Number         `json:"discountPercent"`
	Discount        *Number         `json:"discount"`
	Notes           *string         `json:"notes"`
	Terms           *string         `json:"terms"`
	Status          string          `json:"status"`
}

// Encode renders docs as a JSON array. A nil collection encodes as [].
func Encode(docs []documents.Document) ([]byte, error) {
	records := make([]documentRecord, 0, len(docs))
	for _, d := range docs {
		records = append(records, toRecord(d))
	}
	data, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode documents: %w", err)
	}
	return data, nil
}

// Decode parses a persisted collection. Empty input is an empty collection.
// Derived fields are read but not trusted; the store recalculates them.
func Decode(data []byte) ([]documents.Document, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}

	var records []incomingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	docs := make([]documents.Document, 0, len(records))
	for _, r := range records {
		docs = append(docs, fromRecord(r))
	}
	return docs, nil
}

func toRecord(d documents.Document) documentRecord {
	items := make([]lineRecord, 0, len(d.Items))
	for _, item := range d.Items {
		items = append(items, lineRecord{
			Service:  item.Service,
			Quantity: Number{item.Quantity},
			Rate:     Number{item.Rate},
			Amount:   Number{item.Amount},
		})
	}

	return documentRecord{
		ID:              d.ID.String(),
		Version:         d.Version,
		CreatedAt:       d.CreatedAt,
		UpdatedAt:       d.UpdatedAt,
		Kind:            string(d.Kind),
		DocumentNumber:  d.Number,
		Customer:        d.Customer,
		Project:         d.Project,
		IssueDate:       d.IssueDate,
		DueOrValidDate:  d.DueOrValidDate,
		Items:           items,
		TaxPercent:      Number{d.TaxPercent},
		DiscountPercent: Number{d.DiscountPercent},
		Subtotal:        Number{d.Subtotal},
		TaxAmount:       Number{d.TaxAmount},
		DiscountAmount:  Number{d.DiscountAmount},
		Total:           Number{d.Total},
		Notes:           d.Notes,
		Status:          string(d.Status),
	}
}

func fromRecord(r incomingRecord) documents.Document {
	d := documents.Document{
		BaseDocument: entity.BaseDocument{
			ID:      parseID(r.ID, firstNonEmpty(r.DocumentNumber, r.QuotationID, r.InvoiceID)),
			Version: max(r.Version, 1),
		},
		Kind:            documents.Kind(r.Kind),
		Number:          firstNonEmpty(r.DocumentNumber, r.QuotationID, r.InvoiceID),
		Customer:        r.Customer,
		Project:         r.Project,
		IssueDate:       firstDate(r.IssueDate, r.QuotationDate, r.InvoiceDate),
		DueOrValidDate:  firstDate(r.DueOrValidDate, r.ValidTill, r.DueDate),
		TaxPercent:      firstNumber(r.TaxPercent, r.Tax),
		DiscountPercent: firstNumber(r.DiscountPercent, r.Discount),
		Status:          documents.Status(strings.ToLower(r.Status)),
	}
	if r.CreatedAt != nil {
		d.CreatedAt = *r.CreatedAt
	}
	if r.UpdatedAt != nil {
		d.UpdatedAt = *r.UpdatedAt
	} else {
		d.UpdatedAt = d.CreatedAt
	}
	switch {
	case r.Notes != nil:
		d.Notes = *r.Notes
	case r.Terms != nil:
		d.Notes = *r.Terms
	}

	d.Items = make([]documents.LineItem, 0, len(r.Items))
	for _, item := range r.Items {
		d.Items = append(d.Items, documents.LineItem{
			Service:  item.Service,
			Quantity: item.Quantity.Money,
			Rate:     item.Rate.Money,
			Amount:   item.Amount.Money,
		})
	}
	d.Recalculate()
	return d
}

// parseID accepts a UUID string. Identifiers in any other shape (the console
// used millisecond timestamps) are mapped to a stable id derived from the raw
// value and the document number. A record with neither gets a fresh id.
func parseID(raw json.RawMessage, number string) id.ID {
	raw = bytes.TrimSpace(raw)
	legacy := string(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if parsed, err := id.Parse(s); err == nil {
			return parsed
		}
		legacy = s
	}
	if legacy == "null" {
		legacy = ""
	}
	if legacy == "" && number == "" {
		return id.New()
	}
	return id.FromLegacy(legacy + "|" + number)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func firstDate(values ...*lenientDate) types.Date {
	for _, v := range values {
		if v != nil && !v.IsZero() {
			return v.Date
		}
	}
	return types.Date{}
}

func firstNumber(values ...*Number) types.Money {
	for _, v := range values {
		if v != nil {
			return v.Money
		}
	}
	return types.Zero()
}

// EncodeMarks serializes sequence marks.
func EncodeMarks(marks map[string]documents.SequenceMark) ([]byte, error) {
	raw, err := json.Marshal(marks)
	if err != nil {
		return nil, fmt.Errorf("encode sequence marks: %w", err)
	}
	return raw, nil
}

// DecodeMarks parses sequence marks. Entries with a negative value are dropped.
func DecodeMarks(raw []byte) (map[string]documents.SequenceMark, error) {
	var marks map[string]documents.SequenceMark
	if err := json.Unmarshal(raw, &marks); err != nil {
		return nil, fmt.Errorf("decode sequence marks: %w", err)
	}
	for key, mark := range marks {
		if mark.Last < 0 {
			delete(marks, key)
		}
	}
	if marks == nil {
		marks = make(map[string]documents.SequenceMark)
	}
	return marks, nil
}
