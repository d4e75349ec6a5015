// Package question provides the use cases behind the poll pages and the
// administration API: listing published questions, loading a question with
// its choices, and creating or deleting questions.
package question

import "errors"

// Sentinel errors for question use case operations.
var (
	// ErrQuestionNotFound indicates that the question does not exist or is not
	// yet published. Unpublished questions are indistinguishable from missing
	// ones on the public pages.
	ErrQuestionNotFound = errors.New("question not found")

	// ErrInvalidQuestionID indicates that the provided question ID is invalid.
	// Question IDs must be positive integers.
	ErrInvalidQuestionID = errors.New("invalid question ID")
)
