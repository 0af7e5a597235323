package context

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTraceRoundTrip(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, GetTrace(ctx))
	assert.Empty(t, GetRequestID(ctx))

	tc := NewTraceContext("", "req-1")
	ctx = WithTrace(ctx, tc)

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.NotEmpty(t, GetTrace(ctx).TraceID)
	assert.Len(t, GetTrace(ctx).SpanID, 16)
}
