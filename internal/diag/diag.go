// Package diag provides the structured, recoverable failure type shared by
// the HIR's semantic operations (numeric conversions, unit canonicalization,
// variable-shape extraction, codecs).
//
// Failures carry a category code, a human-readable message, and the
// offending span. They are ordinary error values: callers propagate or
// recover, nothing here aborts the process.
package diag

import (
	"fmt"

	"github.com/marlinshell/marlin/internal/span"
)

// Code categorizes a diagnostic.
type Code string

const (
	// CodeConversion indicates a numeric conversion that cannot be done
	// losslessly (overflowing narrow, decimal where an integer is needed).
	CodeConversion Code = "CONVERSION"

	// CodeTypeMismatch indicates an expression of an unexpected shape
	// (e.g. a non-variable where a variable binder is required).
	CodeTypeMismatch Code = "TYPE_MISMATCH"

	// CodeMalformed indicates structurally invalid input to a codec or
	// a path-member conversion that needs information it does not have.
	CodeMalformed Code = "MALFORMED"

	// CodeParse marks a parse failure embedded in the tree as data.
	CodeParse Code = "PARSE"
)

// Error is a recoverable, span-located failure.
type Error struct {
	// Code identifies the failure category.
	Code Code `json:"code"`

	// Message is the primary human-readable description.
	Message string `json:"message"`

	// Label is a short annotation for the offending span, when known.
	Label string `json:"label,omitempty"`

	// Span locates the failure in the original source, when known.
	Span span.Span `json:"span"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Label != "" && !e.Span.IsUnknown() {
		return fmt.Sprintf("%s: %s (%s at %s)", e.Code, e.Message, e.Label, e.Span)
	}
	if !e.Span.IsUnknown() {
		return fmt.Sprintf("%s: %s (at %s)", e.Code, e.Message, e.Span)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Labeled creates an error annotating a specific span.
func Labeled(code Code, message, label string, sp span.Span) *Error {
	return &Error{Code: code, Message: message, Label: label, Span: sp}
}

// Untagged creates an error with no source location.
func Untagged(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Untaggedf creates an unlocated error with a formatted message.
func Untaggedf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
