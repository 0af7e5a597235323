package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizconsole/internal/core/numerator"
	"bizconsole/internal/domain/documents"
)

func TestStore_SaveLoad(t *testing.T) {
	ctx := context.Background()
	s := New()

	docs, err := s.Load(ctx, "invoices")
	require.NoError(t, err)
	assert.Empty(t, docs)

	d := documents.NewDraft(documents.KindInvoice)
	d.Customer = "Acme"
	d.SetItems([]documents.LineItem{documents.NewLineItem("Hosting", 2, 15)})

	require.NoError(t, s.Save(ctx, "invoices", []documents.Document{*d}))
	assert.Equal(t, 1, s.Saves("invoices"))

	raw, ok := s.Raw("invoices")
	require.True(t, ok)
	assert.Contains(t, string(raw), `"amount":30`)

	docs, err = s.Load(ctx, "invoices")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Acme", docs[0].Customer)
}

func TestStore_CorruptPayloadLoadsEmpty(t *testing.T) {
	s := New()
	s.Put("quotations", []byte(`{broken`))

	docs, err := s.Load(context.Background(), "quotations")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestStore_FailWith(t *testing.T) {
	ctx := context.Background()
	s := New()
	boom := errors.New("quota exceeded")

	s.FailWith(boom)
	assert.ErrorIs(t, s.Save(ctx, "invoices", nil), boom)
	_, ok := s.Raw("invoices")
	assert.False(t, ok)

	s.FailWith(nil)
	assert.NoError(t, s.Save(ctx, "invoices", nil))
	assert.Equal(t, 2, s.Saves("invoices"))
}

func TestStore_BacksDocumentStore(t *testing.T) {
	ctx := context.Background()
	backend := New()

	open := func() *documents.Store {
		s, err := documents.NewStore(ctx, documents.StoreConfig{
			Kind:        documents.KindQuotation,
			Persistence: backend,
			Numerator:   &numerator.MockGenerator{},
		})
		require.NoError(t, err)
		return s
	}

	first := open()
	d := documents.NewDraft(documents.KindQuotation)
	d.Customer = "Acme"
	d.SetItems([]documents.LineItem{documents.NewLineItem("Consulting", 2, 100)})
	d.SetTaxPercent(10)
	d.SetDiscountPercent(5)
	created, err := first.Create(ctx, d)
	require.NoError(t, err)

	reopened := open()
	list := reopened.List(ctx)
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)
	assert.Equal(t, created.Number, list[0].Number)
	assert.Equal(t, "210", list[0].Total.String())
}

func TestStore_LegacyIDsSurviveReopen(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.Put("quotations", []byte(`[{"id":1718000000000,"quotationId":"QUO-482913","customer":"Acme",
		"items":[{"service":"Consulting","quantity":2,"rate":100}],"status":"sent"}]`))

	open := func() documents.Document {
		store, err := documents.NewStore(ctx, documents.StoreConfig{
			Kind:        documents.KindQuotation,
			Persistence: s,
			Numerator:   &numerator.MockGenerator{},
		})
		require.NoError(t, err)
		docs := store.List(ctx)
		require.Len(t, docs, 1)
		return docs[0]
	}

	first := open()
	second := open()
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 0, s.Saves("quotations"))
}
