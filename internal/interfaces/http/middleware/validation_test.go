package middleware

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/treadline/backend/internal/interfaces/http/dto"
)

type receiveStockPayload struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"required,gt=0"`
	Lot       string `json:"lot" validate:"max=40"`
}

func TestFormatValidationErrors(t *testing.T) {
	v := validator.New()
	err := v.Struct(receiveStockPayload{Quantity: -1})
	require.Error(t, err)

	resp := FormatValidationErrors(err, "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.Len(t, resp.Error.Details, 2)
}

func TestFormatValidationErrors_NonValidatorError(t *testing.T) {
	resp := FormatValidationErrors(assert.AnError, "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Empty(t, resp.Error.Details)
}

func TestValidationMessages(t *testing.T) {
	v := validator.New()

	err := v.Struct(receiveStockPayload{ProductID: "p", Quantity: 0})
	require.Error(t, err)

	details := FormatValidationErrors(err, "").Error.Details
	require.Len(t, details, 1)
	assert.Equal(t, "This field is required", details[0].Message)
}
