package core

import "github.com/pkg/errors"

// FieldError ties a validation failure to the input field that caused it.
type FieldError struct {
	Field string
	Error string
}

// ValidationError is a client-side shape/range failure caught before any
// ledger call. It resolves locally as a 400; nothing is submitted.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{err, flds}
}

func (err ValidationError) Error() string {
	if err.Err == nil {
		return ""
	}
	return err.Err.Error()
}

// shutdown signals that the application cannot continue and should stop
// serving; the API error handler turns it into a graceful shutdown.
type shutdown struct {
	message string
}

func NewShutdownError(msg string) error {
	return &shutdown{message: msg}
}

func (s shutdown) Error() string {
	return s.message
}

// IsShutdown reports whether err (or its cause) asks for a shutdown.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
