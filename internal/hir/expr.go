package hir

import (
	"fmt"
	"math/big"

	"github.com/cockroachdb/apd/v3"

	"github.com/marlinshell/marlin/internal/diag"
	"github.com/marlinshell/marlin/internal/number"
	"github.com/marlinshell/marlin/internal/span"
)

// Expr is a sealed interface over every expression variant. Only the types
// in this file implement it. Consumers are expected to type-switch
// exhaustively, treating Garbage as a first-class, non-fatal outcome.
type Expr interface {
	exprNode()

	// TypeName returns a stable descriptive name for the variant, used in
	// error messages, never for control flow.
	TypeName() string
}

// Lit wraps a literal value as an expression.
type Lit struct {
	Literal Literal
}

// ExternalWord marks a bare word destined for an external command; its text
// lives in the node's span.
type ExternalWord struct{}

// Synthetic is a parser-injected string with no corresponding source text.
type Synthetic struct {
	Value string
}

// Var is a variable reference.
type Var struct {
	Name string
	Span span.Span
}

// Binary is a binary operation. Op is itself an expression (an operator
// literal) so it carries its own span.
type Binary struct {
	Left  SpannedExpr
	Op    SpannedExpr
	Right SpannedExpr
}

// Range is a range expression with optional bounds; nil means absent.
type Range struct {
	Left  *SpannedExpr
	Op    span.Spanned[RangeOperator]
	Right *SpannedExpr
}

// BlockExpr is a block literal. The block is shared by pointer; several
// parent expressions may reference the same underlying block.
type BlockExpr struct {
	Block *Block
}

// Subexpression is a parenthesized sub-expression sharing the enclosing
// scope. Like BlockExpr, the block is shared by pointer.
type Subexpression struct {
	Block *Block
}

// List is an ordered collection literal.
type List struct {
	Items []SpannedExpr
}

// Table is a table literal: one header row plus data rows.
type Table struct {
	Headers []SpannedExpr
	Rows    [][]SpannedExpr
}

// FullColumnPath is a head expression followed by an ordered list of path
// members.
type FullColumnPath struct {
	Head SpannedExpr
	Tail []PathMember
}

// FilePath is a file path literal.
type FilePath struct {
	Path string
}

// ExternalRef is a reference to an external command by name, with its raw
// word arguments.
type ExternalRef struct {
	Name span.Spanned[string]
	Args []span.Spanned[string]
}

// Command marks the head of an internal command invocation; the command
// name lives in the node's span.
type Command struct{}

// Boolean is a boolean literal.
type Boolean struct {
	Value bool
}

// Garbage marks a malformed region. Parsing is infallible: bad input
// becomes a Garbage node in place, and downstream consumers decide whether
// that is fatal for their purpose.
type Garbage struct{}

func (Lit) exprNode()            {}
func (ExternalWord) exprNode()   {}
func (Synthetic) exprNode()      {}
func (Var) exprNode()            {}
func (Binary) exprNode()         {}
func (Range) exprNode()          {}
func (BlockExpr) exprNode()      {}
func (Subexpression) exprNode()  {}
func (List) exprNode()           {}
func (Table) exprNode()          {}
func (FullColumnPath) exprNode() {}
func (FilePath) exprNode()       {}
func (ExternalRef) exprNode()    {}
func (Command) exprNode()        {}
func (Boolean) exprNode()        {}
func (Garbage) exprNode()        {}

func (l Lit) TypeName() string          { return l.Literal.TypeName() }
func (ExternalWord) TypeName() string   { return "external word" }
func (Synthetic) TypeName() string      { return "string" }
func (Var) TypeName() string            { return "variable" }
func (Binary) TypeName() string         { return "binary" }
func (Range) TypeName() string          { return "range" }
func (BlockExpr) TypeName() string      { return "block" }
func (Subexpression) TypeName() string  { return "subexpression" }
func (List) TypeName() string           { return "list" }
func (Table) TypeName() string          { return "table" }
func (FullColumnPath) TypeName() string { return "variable path" }
func (FilePath) TypeName() string       { return "file path" }
func (ExternalRef) TypeName() string    { return "external" }
func (Command) TypeName() string        { return "command" }
func (Boolean) TypeName() string        { return "boolean" }
func (Garbage) TypeName() string        { return "garbage" }

// RangeOperator distinguishes inclusive from right-exclusive ranges.
type RangeOperator int

const (
	RangeInclusive RangeOperator = iota
	RangeRightExclusive
)

// String returns the source form of the range operator.
func (r RangeOperator) String() string {
	if r == RangeRightExclusive {
		return "..<"
	}
	return ".."
}

// SpannedExpr pairs an expression with its source span. Every node in the
// tree is a SpannedExpr; span assignment is the caller's (the parser's)
// responsibility.
type SpannedExpr struct {
	Expr Expr
	Span span.Span
}

// NewSpannedExpr wraps an expression with its span.
func NewSpannedExpr(e Expr, sp span.Span) SpannedExpr {
	return SpannedExpr{Expr: e, Span: sp}
}

// TypeName returns the descriptive name of the wrapped expression.
func (e SpannedExpr) TypeName() string {
	return e.Expr.TypeName()
}

// Precedence returns the binding priority for operator literals, consumed
// by the parser's precedence climbing. Higher binds tighter. Every
// non-operator expression has precedence 0. Operators within a tier are
// left-associative by construction order, not by this function.
func (e SpannedExpr) Precedence() int {
	if l, ok := e.Expr.(Lit); ok {
		if op, ok := l.Literal.(OperatorLit); ok {
			return op.Op.Precedence()
		}
	}
	return 0
}

// VarName extracts a variable name from either a plain variable path or a
// bare string literal, normalizing to a leading sigil. Contexts such as
// loop binders allow a name to be written either way. Any other shape is a
// type-mismatch error carrying this expression's span.
func (e SpannedExpr) VarName() (string, error) {
	var name string
	switch x := e.Expr.(type) {
	case FullColumnPath:
		v, ok := x.Head.Expr.(Var)
		if !ok {
			return "", diag.Labeled(diag.CodeTypeMismatch,
				fmt.Sprintf("expected a variable (got %s)", x.Head.TypeName()),
				"expected a variable", e.Span)
		}
		name = v.Name
	case Lit:
		s, ok := x.Literal.(StringLit)
		if !ok {
			return "", diag.Labeled(diag.CodeTypeMismatch,
				fmt.Sprintf("expected a variable (got %s)", e.TypeName()),
				"expected a variable", e.Span)
		}
		name = s.Value
	default:
		return "", diag.Labeled(diag.CodeTypeMismatch,
			fmt.Sprintf("expected a variable (got %s)", e.TypeName()),
			"expected a variable", e.Span)
	}

	if len(name) == 0 || name[0] != '$' {
		return "$" + name, nil
	}
	return name, nil
}

// Constructors. Each wraps a value in the union; span assignment is left to
// the caller.

// Integer creates a fixed-width integer literal expression.
func Integer(i int64) Expr {
	return Lit{Literal: NumberLit{Value: number.FromInt64(i)}}
}

// BigInteger creates an arbitrary-precision integer literal expression.
func BigInteger(i *big.Int) Expr {
	return Lit{Literal: NumberLit{Value: number.FromBig(i)}}
}

// DecimalNumber creates an arbitrary-precision decimal literal expression.
func DecimalNumber(d *apd.Decimal) Expr {
	return Lit{Literal: NumberLit{Value: number.Decimal{Dec: d}}}
}

// String creates a string literal expression.
func String(s string) Expr {
	return Lit{Literal: StringLit{Value: s}}
}

// Bare creates a bare-word literal expression.
func Bare(s string) Expr {
	return Lit{Literal: BareLit{Value: s}}
}

// Op creates an operator literal expression.
func Op(op Operator) Expr {
	return Lit{Literal: OperatorLit{Op: op}}
}

// NewRange creates a range expression; nil bounds are open.
func NewRange(left *SpannedExpr, op span.Spanned[RangeOperator], right *SpannedExpr) Expr {
	return Range{Left: left, Op: op, Right: right}
}

// GlobPattern creates a glob pattern literal expression.
func GlobPattern(p string) Expr {
	return Lit{Literal: GlobLit{Pattern: p}}
}

// NewFilePath creates a file path expression.
func NewFilePath(p string) Expr {
	return FilePath{Path: p}
}

// SimpleColumnPath creates a column path literal from its members.
func SimpleColumnPath(members []Member) Expr {
	return Lit{Literal: ColumnPathLit{Members: members}}
}

// Path creates a full column path from a head expression and its members.
func Path(head SpannedExpr, tail []PathMember) Expr {
	return FullColumnPath{Head: head, Tail: tail}
}

// Size creates a sized-quantity literal. The magnitude is widened to an
// arbitrary-precision integer so unit scaling cannot wrap.
func Size(i span.Spanned[int64], unit span.Spanned[Unit]) Expr {
	return Lit{Literal: SizeLit{
		Value: span.NewSpanned(number.FromBig(big.NewInt(i.Item)), i.Span),
		Unit:  unit,
	}}
}

// Variable creates a variable reference expression.
func Variable(name string, sp span.Span) Expr {
	return Var{Name: name, Span: sp}
}

// Bool creates a boolean literal expression.
func Bool(b bool) Expr {
	return Boolean{Value: b}
}

// SyntheticString creates a parser-injected string expression.
func SyntheticString(s string) Expr {
	return Synthetic{Value: s}
}
