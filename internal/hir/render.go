package hir

import (
	"fmt"
	"strings"

	"github.com/marlinshell/marlin/internal/span"
)

// Source-aware rendering for debug output. Every Render takes the
// original source so spans can be sliced back into text; nodes that carry
// their own value fall back to it when the span does not resolve.
//
// The output is single-line and deterministic. Typed nodes render as
// "(name body)", binary and range expressions delimit with angle
// brackets, lists and tables with square brackets.

func typed(name, body string) string {
	return "(" + name + " " + body + ")"
}

// sliceOr slices sp out of source, falling back when the span does not
// resolve to text.
func sliceOr(source string, sp span.Span, fallback string) string {
	if s := sp.Slice(source); s != "" {
		return s
	}
	return fallback
}

// Render formats the member as it appears in a column path.
func (m StringMember) Render(source string) string {
	return sliceOr(source, m.Outer, "")
}

func (m IntMember) Render(source string) string {
	return fmt.Sprintf("%d", m.Value)
}

func (m BareMember) Render(source string) string {
	return sliceOr(source, m.Name.Span, m.Name.Item)
}

func renderMember(m Member, source string) string {
	switch mm := m.(type) {
	case StringMember:
		return mm.Render(source)
	case IntMember:
		return mm.Render(source)
	case BareMember:
		return mm.Render(source)
	default:
		return ""
	}
}

// Render formats the path member.
func (m StringPathMember) Render() string {
	return m.Value
}

func (m IntPathMember) Render() string {
	return fmt.Sprintf("%d", m.Value)
}

func renderPathMember(m PathMember) string {
	switch mm := m.(type) {
	case StringPathMember:
		return mm.Render()
	case IntPathMember:
		return mm.Render()
	default:
		return ""
	}
}

// Render formats the literal against its source.
func (l NumberLit) Render(source string) string {
	return l.Value.String()
}

func (l SizeLit) Render(source string) string {
	return typed("size", l.Value.Item.String()+l.Unit.Item.String())
}

func (l OperatorLit) Render(source string) string {
	return typed("operator", l.Op.String())
}

func (l StringLit) Render(source string) string {
	return typed("string", fmt.Sprintf("%q", l.Value))
}

func (l GlobLit) Render(source string) string {
	return typed("pattern", l.Pattern)
}

func (l ColumnPathLit) Render(source string) string {
	parts := make([]string, 0, len(l.Members))
	for _, m := range l.Members {
		parts = append(parts, renderMember(m, source))
	}
	return typed("column path", strings.Join(parts, " "))
}

func (l BareLit) Render(source string) string {
	return typed("bare", l.Value)
}

func renderLiteral(l Literal, source string) string {
	switch ll := l.(type) {
	case NumberLit:
		return ll.Render(source)
	case SizeLit:
		return ll.Render(source)
	case OperatorLit:
		return ll.Render(source)
	case StringLit:
		return ll.Render(source)
	case GlobLit:
		return ll.Render(source)
	case ColumnPathLit:
		return ll.Render(source)
	case BareLit:
		return ll.Render(source)
	default:
		return ""
	}
}

// Render formats the expression against its source.
func (se SpannedExpr) Render(source string) string {
	switch e := se.Expr.(type) {
	case Lit:
		return renderLiteral(e.Literal, source)
	case ExternalWord:
		return typed("external word", sliceOr(source, se.Span, ""))
	case Synthetic:
		return typed("synthetic", fmt.Sprintf("%q", e.Value))
	case Var:
		return sliceOr(source, e.Span, e.Name)
	case Binary:
		return "<" + e.Left.Render(source) + " " +
			sliceOr(source, e.Op.Span, e.Op.Render(source)) + " " +
			e.Right.Render(source) + ">"
	case Range:
		var b strings.Builder
		b.WriteString("<")
		if e.Left != nil {
			b.WriteString(e.Left.Render(source))
		}
		b.WriteString(" ")
		b.WriteString(sliceOr(source, e.Op.Span, e.Op.Item.String()))
		b.WriteString(" ")
		if e.Right != nil {
			b.WriteString(e.Right.Render(source))
		}
		b.WriteString(">")
		return b.String()
	case BlockExpr:
		return "block"
	case Subexpression:
		return "subexpression"
	case List:
		parts := make([]string, 0, len(e.Items))
		for _, item := range e.Items {
			parts = append(parts, item.Render(source))
		}
		return "[" + strings.Join(parts, " ") + "]"
	case Table:
		var parts []string
		for _, row := range e.Rows {
			for _, cell := range row {
				parts = append(parts, cell.Render(source))
			}
		}
		return "[" + strings.Join(parts, " ") + "]"
	case FullColumnPath:
		parts := make([]string, 0, len(e.Tail)+1)
		parts = append(parts, e.Head.Render(source))
		for _, m := range e.Tail {
			parts = append(parts, renderPathMember(m))
		}
		return strings.Join(parts, ".")
	case FilePath:
		return typed("path", e.Path)
	case ExternalRef:
		return typed("command", "^"+sliceOr(source, e.Name.Span, e.Name.Item))
	case Command:
		return typed("command", sliceOr(source, se.Span, ""))
	case Boolean:
		if e.Value {
			return "$yes"
		}
		return "$no"
	case Garbage:
		return "garbage"
	default:
		return ""
	}
}

// Render formats a named value; only present values carry content.
func renderNamedValue(v NamedValue, source string) string {
	switch nv := v.(type) {
	case AbsentSwitch:
		return typed("switch", "absent")
	case PresentSwitch:
		return typed("switch", "present")
	case AbsentValue:
		return "absent"
	case PresentValue:
		return nv.Expr.Render(source)
	default:
		return ""
	}
}

// Render formats the named arguments as "key=value" pairs in insertion
// order.
func (na *NamedArguments) Render(source string) string {
	parts := make([]string, 0, len(na.keys))
	for _, key := range na.keys {
		parts = append(parts, key+"="+renderNamedValue(na.values[key], source))
	}
	return strings.Join(parts, " ")
}

// Render formats the call: head, positionals, then named arguments.
func (c *Call) Render(source string) string {
	var parts []string
	if c.Head != nil {
		parts = append(parts, c.Head.Render(source))
	}
	for _, pos := range c.Positional {
		parts = append(parts, pos.Render(source))
	}
	if c.Named != nil && !c.Named.IsEmpty() {
		parts = append(parts, c.Named.Render(source))
	}
	return strings.Join(parts, " ")
}

func renderClassifiedCommand(cc ClassifiedCommand, source string) string {
	switch c := cc.(type) {
	case ExprCommand:
		return typed("expr", c.Expr.Render(source))
	case DynamicCommand:
		return typed("dynamic", c.Call.Render(source))
	case *InternalCommand:
		return typed(c.Name, c.Args.Render(source))
	case ErrorCommand:
		return typed("error", c.Err.Message)
	default:
		return ""
	}
}

// Render formats the pipeline with stages joined by pipes.
func (p *Pipeline) Render(source string) string {
	parts := make([]string, 0, len(p.List))
	for _, cc := range p.List {
		parts = append(parts, renderClassifiedCommand(cc, source))
	}
	return strings.Join(parts, " | ")
}

// Render formats the group with pipelines joined by semicolons.
func (g *Group) Render(source string) string {
	parts := make([]string, 0, len(g.Pipelines))
	for i := range g.Pipelines {
		parts = append(parts, g.Pipelines[i].Render(source))
	}
	return strings.Join(parts, "; ")
}

// Render formats the block: groups joined by semicolons, nested
// definitions appended by name.
func (b *Block) Render(source string) string {
	var parts []string
	for i := range b.Groups {
		parts = append(parts, b.Groups[i].Render(source))
	}
	body := strings.Join(parts, "; ")
	if b.Definitions != nil && b.Definitions.Len() > 0 {
		var defs []string
		for _, name := range b.Definitions.Names() {
			def, _ := b.Definitions.Get(name)
			defs = append(defs, typed("def "+name, def.Render(source)))
		}
		body = body + " " + strings.Join(defs, " ")
	}
	return "{" + strings.TrimSpace(body) + "}"
}
