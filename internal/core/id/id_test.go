package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bizconsole/internal/core/apperror"
)

func TestNew_TimeOrdered(t *testing.T) {
	first := New()
	second := New()

	assert.NotEqual(t, first, second)
	assert.Equal(t, 7, int(first.Version()))
	assert.LessOrEqual(t, first.String()[:8], second.String()[:8])
}

func TestParse(t *testing.T) {
	want := New()
	got, err := Parse(want.String())
	require.NoError(t, err)
	assert.Equal(t, want, got)

	_, err = Parse("QUO-1234")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
}

func TestFromLegacy(t *testing.T) {
	first := FromLegacy("1718000000000|QUO-482913")
	assert.Equal(t, first, FromLegacy("1718000000000|QUO-482913"))
	assert.Equal(t, 5, int(first.Version()))
	assert.NotEqual(t, first, FromLegacy("1718000000000|INV-482913"))
}
