package documents

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizconsole/internal/core/apperror"
)

func TestKind_Vocabulary(t *testing.T) {
	assert.Equal(t, []Status{StatusDraft, StatusSent, StatusAccepted, StatusRejected}, KindQuotation.Statuses())
	assert.Equal(t, []Status{StatusDraft, StatusSent, StatusPaid, StatusOverdue}, KindInvoice.Statuses())

	assert.True(t, KindInvoice.Allows(StatusOverdue))
	assert.False(t, KindInvoice.Allows(StatusAccepted))
	assert.False(t, KindQuotation.Allows(StatusPaid))

	assert.Equal(t, "quotations", KindQuotation.CollectionKey())
	assert.Equal(t, "invoices", KindInvoice.CollectionKey())
	assert.Equal(t, "QUO", KindQuotation.NumberPrefix())
	assert.Equal(t, "INV", KindInvoice.NumberPrefix())
	assert.False(t, Kind("receipt").Valid())
}

func TestKind_StatusesReturnsCopy(t *testing.T) {
	s := KindInvoice.Statuses()
	s[0] = "mutated"
	assert.Equal(t, StatusDraft, KindInvoice.Statuses()[0])
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("Invoices")
	require.NoError(t, err)
	assert.Equal(t, KindInvoice, k)

	k, err = ParseKind("quotation")
	require.NoError(t, err)
	assert.Equal(t, KindQuotation, k)

	_, err = ParseKind("receipt")
	assert.Error(t, err)
}

func TestApplyStatus_AnyToAny(t *testing.T) {
	ctx := context.Background()
	doc := NewDraft(KindInvoice)

	sequence := []Status{StatusPaid, StatusDraft, StatusOverdue, StatusSent, StatusPaid, StatusPaid}
	prev := doc.Status
	for _, next := range sequence {
		tr, err := ApplyStatus(ctx, doc, next)
		require.NoError(t, err)
		assert.Equal(t, prev, tr.From)
		assert.Equal(t, next, tr.To)
		assert.Equal(t, prev != next, tr.Changed())
		assert.Equal(t, next, doc.Status)
		prev = next
	}
}

func TestApplyStatus_Normalizes(t *testing.T) {
	doc := NewDraft(KindQuotation)
	_, err := ApplyStatus(context.Background(), doc, " Accepted ")
	require.NoError(t, err)
	assert.Equal(t, StatusAccepted, doc.Status)
}

func TestApplyStatus_RejectsForeignLabel(t *testing.T) {
	doc := NewDraft(KindQuotation)

	_, err := ApplyStatus(context.Background(), doc, StatusPaid)
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Equal(t, StatusDraft, doc.Status)
}
