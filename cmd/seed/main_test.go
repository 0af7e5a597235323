package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizconsole/internal/config"
	"bizconsole/internal/core/types"
	"bizconsole/internal/domain/documents"
	"bizconsole/internal/infrastructure/storage"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	backend, err := storage.Open(ctx, config.GetDefaultConfig())
	require.NoError(t, err)
	quotations, invoices, err := backend.OpenStores(ctx)
	require.NoError(t, err)

	today := types.NewDate(2026, time.June, 1)
	require.NoError(t, seed(ctx, quotations, invoices, today))

	assert.Len(t, quotations.List(ctx), len(samples))
	assert.Len(t, invoices.List(ctx), len(samples))

	for _, doc := range quotations.List(ctx) {
		assert.True(t, documents.KindQuotation.Allows(doc.Status), doc.Status)
		assert.True(t, doc.Total.IsPositive())
	}

	first := invoices.List(ctx)[0]
	assert.Equal(t, "2026-04-17", first.IssueDate.String())
	assert.Equal(t, "2026-05-17", first.DueOrValidDate.String())
	// 1200 + 40*55 = 3400, plus 18% tax
	assert.Equal(t, "4012", first.Total.String())
}
