// Package errors provides error types with actionable suggestions for otp.
// Errors carry a sentinel kind for errors.Is and optional details that the
// CLI prints alongside the message.
package errors

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Sentinel kinds for use with errors.Is().
var (
	// ErrConfig indicates a configuration error.
	ErrConfig = errors.New("configuration error")
	// ErrHistory indicates the history file could not be read or written.
	ErrHistory = errors.New("history error")
	// ErrDescriptor indicates a problem with project descriptor files.
	ErrDescriptor = errors.New("descriptor error")
	// ErrHost indicates the editor could not be launched or signalled.
	ErrHost = errors.New("host error")
	// ErrNotFound indicates a resource was not found.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate indicates a value that must be unique appeared twice.
	ErrDuplicate = errors.New("duplicate")
)

// OTPError is the base error type for otp errors.
type OTPError struct {
	// Kind is the category of error (e.g., ErrHistory).
	Kind error
	// Message is the human-readable error message.
	Message string
	// Suggestion provides actionable advice for resolving the error.
	Suggestion string
	// Cause is the underlying error that caused this error.
	Cause error
	// Details provides additional context (e.g., file path).
	Details map[string]string
}

// Error implements the error interface.
func (e *OTPError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *OTPError) Unwrap() error {
	if e.Cause != nil {
		return e.Cause
	}
	return e.Kind
}

// Is reports whether the error's kind matches target.
func (e *OTPError) Is(target error) bool {
	return errors.Is(e.Kind, target)
}

// Format returns a multi-line message with details and suggestion.
func (e *OTPError) Format() string {
	var sb strings.Builder

	sb.WriteString("Error: ")
	sb.WriteString(e.Error())
	sb.WriteString("\n")

	if len(e.Details) > 0 {
		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("\nDetails:\n")
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf("  %s: %s\n", k, e.Details[k]))
		}
	}

	if e.Suggestion != "" {
		sb.WriteString("\nSuggestion: ")
		sb.WriteString(e.Suggestion)
		sb.WriteString("\n")
	}

	return sb.String()
}

// WithDetails adds details to the error.
func (e *OTPError) WithDetails(key, value string) *OTPError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// WithCause sets the underlying cause of the error.
func (e *OTPError) WithCause(cause error) *OTPError {
	e.Cause = cause
	return e
}

// New creates a new OTPError with the given kind and message.
func New(kind error, message string) *OTPError {
	return &OTPError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with additional context.
func Wrap(err error, kind error, message string) *OTPError {
	return &OTPError{
		Kind:    kind,
		Message: message,
		Cause:   err,
	}
}

// FormatError renders err for the terminal, using Format when err is an OTPError.
func FormatError(err error) string {
	var oe *OTPError
	if errors.As(err, &oe) {
		return oe.Format()
	}
	return "Error: " + err.Error() + "\n"
}

// Is is errors.Is, re-exported so callers need only this package.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As is errors.As, re-exported so callers need only this package.
func As(err error, target any) bool {
	return errors.As(err, target)
}
