package errors

import "errors"

// Error codes shared by the engine and its transports.
const (
	// CodeInvalidInput marks a malformed or incomplete birth record.
	CodeInvalidInput = "invalid_input"
	// CodeOutOfRange marks a date outside the supported calendar table.
	CodeOutOfRange = "out_of_range"
	// CodeComputation marks an inconsistency inside a lookup table.
	CodeComputation = "computation_error"
	// CodeCache marks a failing cache collaborator.
	CodeCache = "cache_error"
	// CodeTierLookup marks a failing subscription tier lookup.
	CodeTierLookup = "tier_lookup_error"
)

// AppError encodes domain specific error details.
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Wrap produces a new AppError instance.
func Wrap(code, message string, err error) error {
	if err == nil {
		return &AppError{Code: code, Message: message}
	}
	return &AppError{Code: code, Message: message, Err: err}
}

// Validation reports a birth record the engine refuses to compute.
func Validation(message string) error {
	return Wrap(CodeInvalidInput, message, nil)
}

// OutOfRange reports a date the calendar tables do not cover.
func OutOfRange(message string) error {
	return Wrap(CodeOutOfRange, message, nil)
}

// Computation reports a table lookup that produced an impossible value.
func Computation(message string, err error) error {
	return Wrap(CodeComputation, message, err)
}

// IsCode helps handler differentiate failures.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code of the outermost AppError, or "" when none is present.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
