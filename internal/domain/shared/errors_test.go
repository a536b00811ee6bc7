package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainErrorKinds(t *testing.T) {
	t.Run("validation error", func(t *testing.T) {
		err := NewValidationError("INVALID_AMOUNT", "Amount must be positive")
		assert.Equal(t, ErrorKindValidation, KindOf(err))
		assert.Equal(t, "INVALID_AMOUNT", CodeOf(err))
		assert.Equal(t, "Amount must be positive", err.Error())
		assert.True(t, IsValidation(err))
		assert.False(t, IsConflict(err))
	})

	t.Run("conflict error", func(t *testing.T) {
		err := NewConflictError("INVALID_STATE", "Cannot cancel a paid invoice")
		assert.Equal(t, ErrorKindConflict, KindOf(err))
		assert.True(t, IsConflict(err))
	})

	t.Run("not found error", func(t *testing.T) {
		err := NewNotFoundError("ITEM_NOT_FOUND", "Line item not found")
		assert.True(t, IsNotFound(err))
	})

	t.Run("wrapped error keeps kind", func(t *testing.T) {
		err := fmt.Errorf("saving invoice: %w", NewConflictError("CONCURRENCY_CONFLICT", "modified"))
		assert.Equal(t, ErrorKindConflict, KindOf(err))
		assert.Equal(t, "CONCURRENCY_CONFLICT", CodeOf(err))
	})

	t.Run("non-domain error has no kind", func(t *testing.T) {
		err := errors.New("disk full")
		assert.Equal(t, ErrorKind(""), KindOf(err))
		assert.Equal(t, "", CodeOf(err))
		assert.False(t, IsValidation(err))
	})
}
