package hir

import (
	"github.com/marlinshell/marlin/internal/diag"
	"github.com/marlinshell/marlin/internal/number"
	"github.com/marlinshell/marlin/internal/span"
)

// Literal is the sealed sub-union of literal values carried by Lit.
type Literal interface {
	literalNode()
	TypeName() string
}

// NumberLit is a numeric literal.
type NumberLit struct {
	Value number.Number
}

// SizeLit is a sized quantity: a spanned magnitude and a spanned unit.
type SizeLit struct {
	Value span.Spanned[number.Number]
	Unit  span.Spanned[Unit]
}

// OperatorLit is an operator token appearing in expression position, as
// produced by the shift-reduce parser before binary trees are assembled.
type OperatorLit struct {
	Op Operator
}

// StringLit is a quoted string literal.
type StringLit struct {
	Value string
}

// GlobLit is a glob pattern literal.
type GlobLit struct {
	Pattern string
}

// ColumnPathLit is a bare column path literal.
type ColumnPathLit struct {
	Members []Member
}

// BareLit is a bare word literal.
type BareLit struct {
	Value string
}

func (NumberLit) literalNode()     {}
func (SizeLit) literalNode()       {}
func (OperatorLit) literalNode()   {}
func (StringLit) literalNode()     {}
func (GlobLit) literalNode()       {}
func (ColumnPathLit) literalNode() {}
func (BareLit) literalNode()       {}

func (NumberLit) TypeName() string     { return "number" }
func (SizeLit) TypeName() string       { return "size" }
func (OperatorLit) TypeName() string   { return "operator" }
func (StringLit) TypeName() string     { return "string" }
func (GlobLit) TypeName() string       { return "pattern" }
func (ColumnPathLit) TypeName() string { return "column path" }
func (BareLit) TypeName() string       { return "string" }

// Operator is the closed set of binary operators.
type Operator int

const (
	OpEqual Operator = iota
	OpNotEqual
	OpLessThan
	OpGreaterThan
	OpLessThanOrEqual
	OpGreaterThanOrEqual
	OpContains
	OpNotContains
	OpPlus
	OpMinus
	OpMultiply
	OpDivide
	OpIn
	OpNotIn
	OpModulo
	OpAnd
	OpOr
	OpPow
)

// String returns the operator's source form.
func (o Operator) String() string {
	switch o {
	case OpEqual:
		return "=="
	case OpNotEqual:
		return "!="
	case OpLessThan:
		return "<"
	case OpGreaterThan:
		return ">"
	case OpLessThanOrEqual:
		return "<="
	case OpGreaterThanOrEqual:
		return ">="
	case OpContains:
		return "=~"
	case OpNotContains:
		return "!~"
	case OpPlus:
		return "+"
	case OpMinus:
		return "-"
	case OpMultiply:
		return "*"
	case OpDivide:
		return "/"
	case OpIn:
		return "in"
	case OpNotIn:
		return "not-in"
	case OpModulo:
		return "mod"
	case OpAnd:
		return "&&"
	case OpOr:
		return "||"
	case OpPow:
		return "**"
	}
	return "?"
}

// OperatorFromString parses an operator's source form.
func OperatorFromString(s string) (Operator, bool) {
	for op := OpEqual; op <= OpPow; op++ {
		if op.String() == s {
			return op, true
		}
	}
	return 0, false
}

// Precedence returns the operator's binding tier. Higher binds tighter;
// each operator maps to exactly one tier, so ties are impossible.
func (o Operator) Precedence() int {
	switch o {
	case OpPow:
		return 100
	case OpMultiply, OpDivide, OpModulo:
		return 95
	case OpPlus, OpMinus:
		return 90
	case OpNotContains, OpContains,
		OpLessThan, OpLessThanOrEqual,
		OpGreaterThan, OpGreaterThanOrEqual,
		OpEqual, OpNotEqual,
		OpIn, OpNotIn:
		return 80
	case OpAnd:
		return 50
	case OpOr:
		return 40
	}
	return 0
}

// Member is a sealed union over the member forms of a bare column path
// literal.
type Member interface {
	memberNode()

	// Span returns the member's source location.
	Span() span.Span
}

// StringMember is a quoted member; Outer includes the quotes, Inner is the
// content between them.
type StringMember struct {
	Outer span.Span
	Inner span.Span
}

// IntMember is a numeric index member.
type IntMember struct {
	Value int64
	At    span.Span
}

// BareMember is an unquoted member.
type BareMember struct {
	Name span.Spanned[string]
}

func (StringMember) memberNode() {}
func (IntMember) memberNode()    {}
func (BareMember) memberNode()   {}

func (m StringMember) Span() span.Span { return m.Outer }
func (m IntMember) Span() span.Span    { return m.At }
func (m BareMember) Span() span.Span   { return m.Name.Span }

// PathMember converts a column-path member to a full-path member. Quoted
// string members carry only spans, so converting them requires the source
// buffer; use PathMemberWithSource for those.
func (m StringMember) PathMember() (PathMember, error) {
	return nil, diag.Labeled(diag.CodeMalformed,
		"cannot convert a quoted path member without the source buffer",
		"quoted member", m.Outer)
}

// PathMember converts the index member to a full-path member.
func (m IntMember) PathMember() (PathMember, error) {
	return IntPathMember{Value: m.Value, At: m.At}, nil
}

// PathMember converts the bare member to a full-path member.
func (m BareMember) PathMember() (PathMember, error) {
	return StringPathMember{Value: m.Name.Item, At: m.Name.Span}, nil
}

// PathMemberWithSource converts any member to a full-path member, slicing
// quoted members out of the original source buffer.
func PathMemberWithSource(m Member, source string) PathMember {
	switch x := m.(type) {
	case StringMember:
		return StringPathMember{Value: x.Inner.Slice(source), At: x.Outer}
	case IntMember:
		return IntPathMember{Value: x.Value, At: x.At}
	case BareMember:
		return StringPathMember{Value: x.Name.Item, At: x.Name.Span}
	}
	panic("hir: unknown Member variant")
}

// PathMember is a sealed union over the members of a full column path.
type PathMember interface {
	pathMemberNode()

	// Span returns the member's source location.
	Span() span.Span
}

// StringPathMember selects a column by name.
type StringPathMember struct {
	Value string
	At    span.Span
}

// IntPathMember selects a row or element by index.
type IntPathMember struct {
	Value int64
	At    span.Span
}

func (StringPathMember) pathMemberNode() {}
func (IntPathMember) pathMemberNode()    {}

func (m StringPathMember) Span() span.Span { return m.At }
func (m IntPathMember) Span() span.Span    { return m.At }
