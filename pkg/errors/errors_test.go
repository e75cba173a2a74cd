package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadataFor(t *testing.T) {
	meta := MetadataFor(CodeNotFound)
	assert.Equal(t, http.StatusNotFound, meta.HTTPStatus)
	assert.False(t, meta.Retryable)

	meta = MetadataFor(Code("SOMETHING_UNKNOWN"))
	assert.Equal(t, http.StatusInternalServerError, meta.HTTPStatus)
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk on fire")
	err := Wrap(CodeDependency, cause, "insert document")

	require.NotNil(t, err)
	assert.Equal(t, CodeDependency, err.Code())
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "insert document")
}

func TestAs(t *testing.T) {
	base := New(CodeConflict, "order already has invoice")
	wrapped := fmt.Errorf("creating invoice: %w", base)

	typed := As(wrapped)
	require.NotNil(t, typed)
	assert.Equal(t, CodeConflict, typed.Code())

	assert.Nil(t, As(fmt.Errorf("plain")))
	assert.Nil(t, As(nil))
}

func TestHasCode(t *testing.T) {
	err := Newf(CodeStateConflict, "cannot move %s to %s", "PAID", "DRAFT")
	assert.True(t, HasCode(err, CodeStateConflict))
	assert.False(t, HasCode(err, CodeValidation))
	assert.False(t, HasCode(nil, CodeValidation))
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"items": "is required"})
	details, ok := err.Details().(map[string]string)
	require.True(t, ok)
	assert.Equal(t, "is required", details["items"])
}
