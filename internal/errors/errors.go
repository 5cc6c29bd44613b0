package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing errors
const (
	ErrConfig   = "CONFIG"   // bad or missing configuration
	ErrDeps     = "DEPS"     // required external binary not installed
	ErrCreds    = "CREDS"    // cloud credential chain failed
	ErrQuery    = "QUERY"    // provider inventory query failed
	ErrDispatch = "DISPATCH" // remote-login handoff failed
	ErrUsage    = "USAGE"    // bad command usage (valid flags, wrong use)
	ErrFlag     = "FLAG"     // illegal option (flag parse failure)
)

// Exit codes returned by the CLI.
const (
	ExitOK    = 0
	ExitError = 1 // missing dependency, bad usage, credential or query failure
	ExitFlag  = 2 // illegal option
)

// Error represents a structured error with code, message, suggestion, and
// optional cause. Rendered as:
//
//	✗ <What failed>
//
//	  <Why it failed - technical details>
//
//	  <How to fix it - actionable steps>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// Wrap wraps an existing error with a message, defaulting to ErrQuery code.
func Wrap(err error, message string) *Error {
	return &Error{
		Code:    ErrQuery,
		Message: message,
		Cause:   err,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

// Error implements the error interface with formatted multi-line output.
func (e *Error) Error() string {
	var b strings.Builder

	// First line: failure symbol + main message
	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	// Include cause if present (why it failed)
	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	// Include suggestion if present (how to fix)
	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var hopErr *Error
	if errors.As(err, &hopErr) {
		return hopErr.Code == code
	}
	return false
}

// ExitCode maps an error to the process exit status. Flag parse failures
// exit 2, everything else non-nil exits 1.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	if IsCode(err, ErrFlag) {
		return ExitFlag
	}
	return ExitError
}
