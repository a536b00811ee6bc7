package middleware

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/sales/internal/interfaces/http/dto"
)

type validatedPayload struct {
	Name   string `json:"name" binding:"required"`
	Amount int    `json:"amount" binding:"gte=1"`
}

func TestFormatValidationErrors(t *testing.T) {
	SetupValidator()

	err := binding.Validator.ValidateStruct(&validatedPayload{Amount: 0})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	require.Len(t, resp.Error.Details, 2)

	fields := map[string]string{}
	for _, d := range resp.Error.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "This field is required", fields["name"])
	assert.Equal(t, "Must be greater than or equal to 1", fields["amount"])
}

func TestFormatValidationErrorsPlainError(t *testing.T) {
	resp := FormatValidationErrors(errors.New("unexpected EOF"), "")

	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Empty(t, resp.Error.Details)
}
