package entity

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the longest question or choice text accepted, in runes.
const MaxTextLength = 200

// ValidateQuestionText checks that question text is present and not too long.
func ValidateQuestionText(text string) error {
	return validateText("question_text", text)
}

// ValidateChoiceText checks that choice text is present and not too long.
func ValidateChoiceText(text string) error {
	return validateText("choice_text", text)
}

func validateText(field, text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Field: field, Message: "is required"}
	}
	if utf8.RuneCountInString(text) > MaxTextLength {
		return &ValidationError{
			Field:   field,
			Message: fmt.Sprintf("must not exceed %d characters", MaxTextLength),
		}
	}
	return nil
}
