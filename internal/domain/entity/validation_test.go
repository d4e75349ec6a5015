package entity

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{Field: "question_text", Message: "is required"}
	assert.Equal(t, "validation error on field 'question_text': is required", err.Error())
}

func TestValidationError_IsInvalidInput(t *testing.T) {
	var err error = &ValidationError{Field: "choice_text", Message: "is required"}
	assert.True(t, errors.Is(err, ErrInvalidInput))
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestValidateQuestionText(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr bool
		message string
	}{
		{name: "valid", text: "What's new?"},
		{name: "exactly max length", text: strings.Repeat("a", MaxTextLength)},
		{name: "multibyte at max length", text: strings.Repeat("質", MaxTextLength)},
		{name: "empty", text: "", wantErr: true, message: "is required"},
		{name: "whitespace only", text: "   \t", wantErr: true, message: "is required"},
		{name: "too long", text: strings.Repeat("a", MaxTextLength+1), wantErr: true, message: "must not exceed 200 characters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateQuestionText(tt.text)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, "question_text", vErr.Field)
			assert.Equal(t, tt.message, vErr.Message)
		})
	}
}

func TestValidateChoiceText(t *testing.T) {
	assert.NoError(t, ValidateChoiceText("Not much"))

	var vErr *ValidationError
	require.ErrorAs(t, ValidateChoiceText(""), &vErr)
	assert.Equal(t, "choice_text", vErr.Field)
}
