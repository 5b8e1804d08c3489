package domain

import (
	"encoding/json"
	"fmt"
)

// ErrorCode represents a specific type of error in the domain
type ErrorCode string

const (
	// Common errors
	ErrInternal     ErrorCode = "INTERNAL_ERROR"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrTimeout      ErrorCode = "TIMEOUT"

	// Ingestion errors (user-correctable)
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrEmptyDocument     ErrorCode = "EMPTY_DOCUMENT"
	ErrFileTooLarge      ErrorCode = "FILE_TOO_LARGE"

	// Generation backend contract violations
	ErrMalformedResponse ErrorCode = "MALFORMED_RESPONSE"
	ErrEmptyResult       ErrorCode = "EMPTY_RESULT"
	ErrNoValidQuestions  ErrorCode = "NO_VALID_QUESTIONS"

	// Delivery errors
	ErrQuizNotFound    ErrorCode = "QUIZ_NOT_FOUND"
	ErrMissingIdentity ErrorCode = "MISSING_IDENTITY"
	ErrDeliveryFailed  ErrorCode = "DELIVERY_FAILED"
)

// DomainError represents a domain-specific error
type DomainError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *DomainError) Unwrap() error {
	return e.Err
}

// MarshalJSON implements the json.Marshaler interface
func (e *DomainError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}{
		Code:    string(e.Code),
		Message: e.Message,
	})
}

// NewError creates a new DomainError
func NewError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code ErrorCode) bool {
	var domainErr *DomainError
	for err != nil {
		if de, ok := err.(*DomainError); ok {
			domainErr = de
			break
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			break
		}
		err = u.Unwrap()
	}
	return domainErr != nil && domainErr.Code == code
}

// Helper functions for common errors

// NewInvalidInputError names the first offending field.
func NewInvalidInputError(field, reason string) *DomainError {
	return NewError(ErrInvalidInput, fmt.Sprintf("invalid %s: %s", field, reason), nil)
}

func NewUnsupportedFormatError(filename string, err error) *DomainError {
	return NewError(ErrUnsupportedFormat, fmt.Sprintf("unsupported or unreadable document: %s", filename), err)
}

func NewEmptyDocumentError() *DomainError {
	return NewError(ErrEmptyDocument, "no text could be extracted from the document", nil)
}

func NewFileTooLargeError(size, limit int64) *DomainError {
	return NewError(ErrFileTooLarge, fmt.Sprintf("file size %d exceeds the %d byte limit", size, limit), nil)
}

func NewMalformedResponseError(err error) *DomainError {
	return NewError(ErrMalformedResponse, "generation backend returned an unparseable response", err)
}

func NewEmptyResultError() *DomainError {
	return NewError(ErrEmptyResult, "generation backend returned no question entries", nil)
}

func NewNoValidQuestionsError(dropped int) *DomainError {
	return NewError(ErrNoValidQuestions, fmt.Sprintf("all %d question entries failed validation", dropped), nil)
}

func NewTimeoutError(op string, err error) *DomainError {
	return NewError(ErrTimeout, fmt.Sprintf("%s timed out", op), err)
}

func NewQuizNotFoundError(quizID string) *DomainError {
	return NewError(ErrQuizNotFound, fmt.Sprintf("quiz not found: %s", quizID), nil)
}

func NewMissingIdentityError() *DomainError {
	return NewError(ErrMissingIdentity, "open this page through Telegram to deliver the quiz", nil)
}

func NewDeliveryFailedError(err error) *DomainError {
	return NewError(ErrDeliveryFailed, "failed to deliver quiz to Telegram", err)
}

func NewInternalError(message string, err error) *DomainError {
	return NewError(ErrInternal, message, err)
}
