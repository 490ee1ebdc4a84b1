package hir

import "github.com/marlinshell/marlin/internal/span"

// FlatShapeKind classifies a flattened source region for highlighting.
type FlatShapeKind string

const (
	FlatShapeOpenDelimiter          FlatShapeKind = "open_delimiter"
	FlatShapeCloseDelimiter         FlatShapeKind = "close_delimiter"
	FlatShapeType                   FlatShapeKind = "type"
	FlatShapeInternalCommand        FlatShapeKind = "internal_command"
	FlatShapeExternalCommand        FlatShapeKind = "external_command"
	FlatShapeExternalWord           FlatShapeKind = "external_word"
	FlatShapeBareMember             FlatShapeKind = "bare_member"
	FlatShapeStringMember           FlatShapeKind = "string_member"
	FlatShapeString                 FlatShapeKind = "string"
	FlatShapePath                   FlatShapeKind = "path"
	FlatShapeWord                   FlatShapeKind = "word"
	FlatShapeKeyword                FlatShapeKind = "keyword"
	FlatShapePipe                   FlatShapeKind = "pipe"
	FlatShapeGlobPattern            FlatShapeKind = "glob_pattern"
	FlatShapeFlag                   FlatShapeKind = "flag"
	FlatShapeShorthandFlag          FlatShapeKind = "shorthand_flag"
	FlatShapeInt                    FlatShapeKind = "int"
	FlatShapeDecimal                FlatShapeKind = "decimal"
	FlatShapeWhitespace             FlatShapeKind = "whitespace"
	FlatShapeSeparator              FlatShapeKind = "separator"
	FlatShapeComment                FlatShapeKind = "comment"
	FlatShapeGarbage                FlatShapeKind = "garbage"
	FlatShapeSize                   FlatShapeKind = "size"
	FlatShapeVariable               FlatShapeKind = "variable"
	FlatShapeIdentifier             FlatShapeKind = "identifier"
	FlatShapeItVariable             FlatShapeKind = "it_variable"
	FlatShapeOperator               FlatShapeKind = "operator"
	FlatShapeDotDot                 FlatShapeKind = "dot_dot"
	FlatShapeDotDotLeftAngleBracket FlatShapeKind = "dot_dot_left_angle"
	FlatShapeDot                    FlatShapeKind = "dot"
)

// Delimiter names a paired delimiter kind.
type Delimiter int

const (
	DelimiterParen Delimiter = iota
	DelimiterBrace
	DelimiterSquare
)

// String returns the opening character of the delimiter pair.
func (d Delimiter) String() string {
	switch d {
	case DelimiterParen:
		return "("
	case DelimiterBrace:
		return "{"
	case DelimiterSquare:
		return "["
	default:
		return "?"
	}
}

// FlatShape is one flattened region of source. Kind is always set; the
// remaining fields qualify specific kinds: Delimiter for the delimiter
// kinds, Number and Unit for sizes.
type FlatShape struct {
	Kind      FlatShapeKind
	Delimiter Delimiter
	Number    span.Span
	Unit      span.Span
}

// ShapeOf builds a plain shape of the given kind.
func ShapeOf(kind FlatShapeKind) FlatShape {
	return FlatShape{Kind: kind}
}

// DelimiterShape builds an open or close delimiter shape.
func DelimiterShape(kind FlatShapeKind, d Delimiter) FlatShape {
	return FlatShape{Kind: kind, Delimiter: d}
}

// SizeShape builds a size shape from its number and unit spans.
func SizeShape(number, unit span.Span) FlatShape {
	return FlatShape{Kind: FlatShapeSize, Number: number, Unit: unit}
}
