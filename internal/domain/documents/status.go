package documents

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/samber/lo"

	"bizconsole/internal/core/apperror"
)

// Status is the lifecycle label of a document.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusSent     Status = "sent"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusPaid     Status = "paid"
	StatusOverdue  Status = "overdue"
)

// Kind distinguishes quotations from invoices. Both share the Document shape
// and differ in status vocabulary, numbering prefix and collection key.
type Kind string

const (
	KindQuotation Kind = "quotation"
	KindInvoice   Kind = "invoice"
)

var statusesByKind = map[Kind][]Status{
	KindQuotation: {StatusDraft, StatusSent, StatusAccepted, StatusRejected},
	KindInvoice:   {StatusDraft, StatusSent, StatusPaid, StatusOverdue},
}

// ParseKind accepts "quotation"/"invoice" and their plural collection names.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "quotation", "quotations":
		return KindQuotation, nil
	case "invoice", "invoices":
		return KindInvoice, nil
	default:
		return "", fmt.Errorf("unknown document kind %q", s)
	}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	_, ok := statusesByKind[k]
	return ok
}

// Statuses returns the status vocabulary of the kind in display order.
func (k Kind) Statuses() []Status {
	return append([]Status(nil), statusesByKind[k]...)
}

// Allows reports whether s belongs to the kind's vocabulary.
func (k Kind) Allows(s Status) bool {
	return lo.Contains(statusesByKind[k], s)
}

// CollectionKey is the persistence key of the kind's collection.
func (k Kind) CollectionKey() string {
	return string(k) + "s"
}

// NumberPrefix is the documentNumber prefix ("QUO", "INV").
func (k Kind) NumberPrefix() string {
	switch k {
	case KindQuotation:
		return "QUO"
	case KindInvoice:
		return "INV"
	default:
		return strings.ToUpper(string(k))
	}
}

// Label is the human-readable kind name used in messages and exports.
func (k Kind) Label() string {
	switch k {
	case KindQuotation:
		return "Quotation"
	case KindInvoice:
		return "Invoice"
	default:
		return string(k)
	}
}

// DateLabel names the document's secondary date.
func (k Kind) DateLabel() string {
	if k == KindQuotation {
		return "Valid Till"
	}
	return "Due Date"
}

// Transition records a status assignment.
type Transition struct {
	From Status
	To   Status
	At   time.Time
}

// Changed reports whether the assignment changed the label.
func (t Transition) Changed() bool {
	return t.From != t.To
}

// NormalizeStatus folds a status label to its canonical lower-case form.
func NormalizeStatus(status Status) Status {
	return Status(strings.ToLower(strings.TrimSpace(string(status))))
}

// ApplyStatus assigns status to doc. Any status of the document's kind may be
// set from any other; only labels outside the vocabulary are rejected.
func ApplyStatus(_ context.Context, doc *Document, status Status) (Transition, error) {
	status = NormalizeStatus(status)
	if !doc.Kind.Allows(status) {
		return Transition{}, apperror.NewValidation(fmt.Sprintf("%q is not a valid %s status", status, doc.Kind)).
			WithDetail("field", "status").
			WithDetail("allowed", doc.Kind.Statuses())
	}

	tr := Transition{From: doc.Status, To: status, At: time.Now().UTC()}
	doc.Status = status
	return tr, nil
}
