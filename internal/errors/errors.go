package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ParseFailureMarker is contained in every message produced for input that
// is not valid JSON. It is what distinguishes malformed input from other
// failures when the error is shown to the user.
const ParseFailureMarker = "cannot parse input"

// Standard application errors
var (
	ErrUnrecognizedCommand = errors.New("unrecognized command")
	ErrClipboardEmpty      = errors.New("clipboard does not contain any text")
	ErrEmptyInput          = errors.New("input is empty or contains only whitespace")
	ErrInvalidJSON         = errors.New("invalid JSON format")
	ErrMultipleJSON        = errors.New("multiple JSON values found at the root, only one is allowed")
	ErrInvalidRoot         = errors.New("JSON root must be an object or an array of objects")
	ErrUnresolvedReference = errors.New("unresolved type reference")
	ErrFileNotFound        = errors.New("file not found")
	ErrAlreadyPerformed    = errors.New("invocation already performed")
	ErrOwnerClosed         = errors.New("buffer owner is closed")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeCommand  ErrorType = "command"
	ErrorTypeInput    ErrorType = "input"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeRoot     ErrorType = "root"
	ErrorTypeGenerate ErrorType = "generate"
	ErrorTypeConfig   ErrorType = "config"
	ErrorTypeOutput   ErrorType = "output"
	ErrorTypeState    ErrorType = "state"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// AppError is an application-specific error with context. Message is the
// short diagnostic written by the code that failed; the wrapped Err carries
// the underlying cause.
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for comparison
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// UserMessage is the short, human-readable text shown to whoever invoked
// the command.
func (e *AppError) UserMessage() string {
	switch e.Type {
	case ErrorTypeCommand:
		return "Unrecognized command"
	case ErrorTypeInput:
		return "Couldn't get JSON from clipboard"
	case ErrorTypeParsing:
		if strings.Contains(e.Detail(), ParseFailureMarker) {
			return "Clipboard does not contain valid JSON"
		}
		return "pastejson encountered an internal error"
	case ErrorTypeRoot:
		return "Clipboard JSON must be an object or an array of objects"
	case ErrorTypeConfig:
		return "Couldn't load the language configuration"
	case ErrorTypeOutput:
		return "Couldn't write the destination buffer"
	default:
		return "pastejson encountered an internal error"
	}
}

// Detail is the full diagnostic string, including every wrapped cause.
func (e *AppError) Detail() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func newError(t ErrorType, message string, err error) *AppError {
	return &AppError{Type: t, Message: message, Err: err}
}

// NewCommandError creates an error for a command identifier that does not
// map to a known command.
func NewCommandError(message string, err error) *AppError {
	return newError(ErrorTypeCommand, message, err)
}

// NewInputError creates a new error related to input processing
func NewInputError(message string, err error) *AppError {
	return newError(ErrorTypeInput, message, err)
}

// NewParsingError creates a new error related to JSON parsing. The message
// always carries ParseFailureMarker.
func NewParsingError(message string, err error) *AppError {
	if !strings.Contains(message, ParseFailureMarker) {
		message = ParseFailureMarker + ": " + message
	}
	return newError(ErrorTypeParsing, message, err)
}

// NewRootError creates an error for valid JSON that yields no object schema.
func NewRootError(message string, err error) *AppError {
	return newError(ErrorTypeRoot, message, err)
}

// NewGenerateError creates a new error related to code generation
func NewGenerateError(message string, err error) *AppError {
	return newError(ErrorTypeGenerate, message, err)
}

// NewConfigError creates a new error related to loading configuration
func NewConfigError(message string, err error) *AppError {
	return newError(ErrorTypeConfig, message, err)
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return newError(ErrorTypeOutput, message, err)
}

// NewStateError creates an error for an orchestrator used out of order.
func NewStateError(message string, err error) *AppError {
	return newError(ErrorTypeState, message, err)
}

// UserFriendlyError returns a user-friendly error message
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.UserMessage()
	}

	if errors.Is(err, ErrEmptyInput) || errors.Is(err, ErrClipboardEmpty) {
		return "Couldn't get JSON from clipboard"
	}
	if errors.Is(err, ErrInvalidJSON) {
		return "Clipboard does not contain valid JSON"
	}
	if errors.Is(err, ErrFileNotFound) {
		return "The specified file could not be found"
	}

	return fmt.Sprintf("Error: %v", err)
}

// Diagnostic returns the longer detail string for err.
func Diagnostic(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Detail()
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
