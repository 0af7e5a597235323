package domain

// ListResult is the envelope returned by list endpoints.
type ListResult[T any] struct {
	Items      []T   `json:"items"`
	TotalCount int64 `json:"totalCount"`
}

// NewListResult wraps items; a nil slice is rendered as an empty array.
func NewListResult[T any](items []T) ListResult[T] {
	if items == nil {
		items = []T{}
	}
	return ListResult[T]{Items: items, TotalCount: int64(len(items))}
}
