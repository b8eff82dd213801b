package dto

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleValidationErrorFieldErrors(t *testing.T) {
	type payload struct {
		Email       string `validate:"required,email"`
		PointAmount int64  `validate:"min=1"`
	}

	err := validator.New().Struct(payload{Email: "not-an-email"})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Validation failed", detail.Message)

	messages, ok := detail.Details.([]string)
	require.True(t, ok)
	assert.Contains(t, messages, "Email must be a valid email address")
	assert.Contains(t, messages, "PointAmount must be at least 1")
}

func TestHandleValidationErrorSingleFieldSetsField(t *testing.T) {
	type payload struct {
		Subject string `validate:"required"`
	}

	err := validator.New().Struct(payload{})
	require.Error(t, err)

	detail := HandleValidationError(err)
	assert.Equal(t, "Subject", detail.Field)
}

func TestHandleValidationErrorPlainError(t *testing.T) {
	detail := HandleValidationError(errors.New("unexpected EOF"))
	assert.Equal(t, ErrorCodeValidationFailed, detail.Code)
	assert.Equal(t, "Invalid request payload", detail.Message)
	assert.Equal(t, "unexpected EOF", detail.Details)
}
