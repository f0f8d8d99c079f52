package domain

import "fmt"

// DomainError represents a domain-specific error
type DomainError struct {
	Code    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a new DomainError
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     nil,
	}
}

// NewDomainErrorWithCause creates a new DomainError with an underlying cause
func NewDomainErrorWithCause(code, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common domain error codes
const (
	ErrCodeValidation       = "VALIDATION_ERROR"
	ErrCodeNotFound         = "NOT_FOUND"
	ErrCodeAlreadyExists    = "ALREADY_EXISTS"
	ErrCodeInternalError    = "INTERNAL_ERROR"
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodeUnavailable      = "UNAVAILABLE"
)

// Not found errors
var (
	ErrMeetingNotFound        = NewDomainError(ErrCodeNotFound, "meeting not found")
	ErrRecordingNotFound      = NewDomainError(ErrCodeNotFound, "recording not found")
	ErrParticipantNotFound    = NewDomainError(ErrCodeNotFound, "participant not found")
	ErrSummaryNotFound        = NewDomainError(ErrCodeNotFound, "summary not found")
	ErrTaskNotFound           = NewDomainError(ErrCodeNotFound, "task not found")
	ErrCalendarExportNotFound = NewDomainError(ErrCodeNotFound, "calendar export not found")
)

// Operation errors
var (
	ErrMeetingNotActive      = NewDomainError(ErrCodeInvalidOperation, "meeting is not active")
	ErrMeetingAlreadyEnded   = NewDomainError(ErrCodeInvalidOperation, "meeting already ended")
	ErrRecordingWithoutAudio = NewDomainError(ErrCodeInvalidOperation, "recording has no audio source")
)

// External service errors
var (
	ErrTranscriptionUnavailable = NewDomainError(ErrCodeUnavailable, "transcription service unavailable")
	ErrLanguageModelUnavailable = NewDomainError(ErrCodeUnavailable, "language model service unavailable")
)
