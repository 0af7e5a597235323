// Package tx defines transaction contracts that storage backends implement.
package tx

import (
	"context"
)

// Manager runs fn inside a transaction: an error from fn rolls back,
// success commits. Nested calls reuse the transaction carried by ctx.
type Manager interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// ReadOnlyManager extends Manager with read-only transactions.
type ReadOnlyManager interface {
	Manager

	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}
