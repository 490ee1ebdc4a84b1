// Package span provides source location types for the Marlin HIR.
//
// This package contains value types only. All other internal packages may
// import span; span imports nothing internal. Spans are attached to every
// HIR node for diagnostics and text extraction, never for node identity.
package span

import "fmt"

// Span is a half-open byte range [Start, End) into an external source
// buffer. The zero value is the unknown span.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// New creates a span covering [start, end).
func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Unknown returns the sentinel span used when no source location exists
// (synthetic nodes, pre-populated flags).
func Unknown() Span {
	return Span{}
}

// IsUnknown reports whether the span is the unknown sentinel.
func (s Span) IsUnknown() bool {
	return s.Start == 0 && s.End == 0
}

// Len returns the byte length of the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Until returns the span from the start of s to the end of other.
func (s Span) Until(other Span) Span {
	return Span{Start: s.Start, End: other.End}
}

// Contains reports whether other lies entirely within s.
func (s Span) Contains(other Span) bool {
	return s.Start <= other.Start && other.End <= s.End
}

// Slice extracts the spanned text from the original source buffer.
// Out-of-range spans yield the empty string rather than panicking; a span
// is advisory metadata and must never take the process down.
func (s Span) Slice(source string) string {
	if s.Start < 0 || s.End > len(source) || s.Start > s.End {
		return ""
	}
	return source[s.Start:s.End]
}

// String implements fmt.Stringer for diagnostics.
func (s Span) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Spanned pairs an arbitrary item with its source span.
type Spanned[T any] struct {
	Item T    `json:"item"`
	Span Span `json:"span"`
}

// NewSpanned wraps item with the given span.
func NewSpanned[T any](item T, sp Span) Spanned[T] {
	return Spanned[T]{Item: item, Span: sp}
}
