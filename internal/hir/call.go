package hir

import (
	"github.com/marlinshell/marlin/internal/span"
)

// NamedValue is the sealed four-state union behind a named argument. The
// four states let "declared but not supplied" differ from "supplied as
// empty": a switch that was never written is AbsentSwitch, one the user
// wrote is PresentSwitch; a value flag left off is AbsentValue, one given
// an expression is PresentValue.
type NamedValue interface {
	namedValue()

	// Contents returns the carried expression for PresentValue and nil for
	// every other state; a present switch carries a location but never an
	// expression.
	Contents() *SpannedExpr
}

// AbsentSwitch is a declared switch the invocation did not mention.
type AbsentSwitch struct{}

// PresentSwitch is a switch the invocation supplied, with its location.
type PresentSwitch struct {
	At span.Span
}

// AbsentValue is a declared value flag the invocation did not supply.
type AbsentValue struct{}

// PresentValue is a value flag with its expression and flag location.
type PresentValue struct {
	At   span.Span
	Expr SpannedExpr
}

func (AbsentSwitch) namedValue()  {}
func (PresentSwitch) namedValue() {}
func (AbsentValue) namedValue()   {}
func (PresentValue) namedValue()  {}

func (AbsentSwitch) Contents() *SpannedExpr  { return nil }
func (PresentSwitch) Contents() *SpannedExpr { return nil }
func (AbsentValue) Contents() *SpannedExpr   { return nil }
func (v PresentValue) Contents() *SpannedExpr {
	return &v.Expr
}

// FlagKind distinguishes shorthand (-v) from longhand (--verbose) flags.
type FlagKind int

const (
	FlagShorthand FlagKind = iota
	FlagLonghand
)

// Flag is a parsed flag token: its kind and the span of its name.
type Flag struct {
	Kind FlagKind
	Name span.Span
}

// NewFlag creates a flag token.
func NewFlag(kind FlagKind, name span.Span) Flag {
	return Flag{Kind: kind, Name: name}
}

// Color classifies the flag for highlight consumers.
func (f Flag) Color(sp span.Span) span.Spanned[FlatShape] {
	kind := FlatShapeFlag
	if f.Kind == FlagShorthand {
		kind = FlatShapeShorthandFlag
	}
	return span.NewSpanned(FlatShape{Kind: kind}, sp)
}

// NamedEntry is one (name, value) pair of a NamedArguments map.
type NamedEntry struct {
	Name  string
	Value NamedValue
}

// NamedArguments is an insertion-ordered map from declared parameter names
// to their binding state. Declaration order is externally observable: it
// drives iteration, rendering, and re-serialization, and is never silently
// reordered. Re-inserting an existing name replaces its value in place
// without moving the key.
type NamedArguments struct {
	keys   []string
	values map[string]NamedValue
}

// NewNamedArguments creates an empty named-argument map.
func NewNamedArguments() *NamedArguments {
	return &NamedArguments{values: make(map[string]NamedValue)}
}

func (na *NamedArguments) insert(name string, v NamedValue) {
	if na.values == nil {
		na.values = make(map[string]NamedValue)
	}
	if _, exists := na.values[name]; !exists {
		na.keys = append(na.keys, name)
	}
	na.values[name] = v
}

// InsertSwitch records a switch: absent when flag is nil, present at the
// flag's name span otherwise.
func (na *NamedArguments) InsertSwitch(name string, flag *Flag) {
	if flag == nil {
		na.insert(name, AbsentSwitch{})
		return
	}
	na.insert(name, PresentSwitch{At: flag.Name})
}

// InsertOptional records a value flag: absent when expr is nil, present
// otherwise.
func (na *NamedArguments) InsertOptional(name string, flagSpan span.Span, expr *SpannedExpr) {
	if expr == nil {
		na.insert(name, AbsentValue{})
		return
	}
	na.insert(name, PresentValue{At: flagSpan, Expr: *expr})
}

// InsertMandatory records a value flag that is always present.
func (na *NamedArguments) InsertMandatory(name string, flagSpan span.Span, expr SpannedExpr) {
	na.insert(name, PresentValue{At: flagSpan, Expr: expr})
}

// Get returns the state recorded for name.
func (na *NamedArguments) Get(name string) (NamedValue, bool) {
	v, ok := na.values[name]
	return v, ok
}

// SwitchPresent reports whether name's entry is a present switch.
func (na *NamedArguments) SwitchPresent(name string) bool {
	_, ok := na.values[name].(PresentSwitch)
	return ok
}

// Names returns the keys in declaration order.
func (na *NamedArguments) Names() []string {
	out := make([]string, len(na.keys))
	copy(out, na.keys)
	return out
}

// Entries returns the (name, value) pairs in declaration order.
func (na *NamedArguments) Entries() []NamedEntry {
	out := make([]NamedEntry, 0, len(na.keys))
	for _, k := range na.keys {
		out = append(out, NamedEntry{Name: k, Value: na.values[k]})
	}
	return out
}

// Len returns the number of declared names.
func (na *NamedArguments) Len() int {
	return len(na.keys)
}

// IsEmpty reports whether no names are declared.
func (na *NamedArguments) IsEmpty() bool {
	return len(na.keys) == 0
}

// Redirection selects where a call's external output goes. Pipeline stages
// redirect standard output into the next stage by default.
type Redirection int

const (
	RedirectNone Redirection = iota
	RedirectStdout
	RedirectStderr
	RedirectStdoutAndStderr
)

// String returns the redirection's wire name.
func (r Redirection) String() string {
	switch r {
	case RedirectNone:
		return "none"
	case RedirectStdout:
		return "stdout"
	case RedirectStderr:
		return "stderr"
	case RedirectStdoutAndStderr:
		return "stdout_stderr"
	}
	return "?"
}

// RedirectionFromString parses a redirection wire name.
func RedirectionFromString(s string) (Redirection, bool) {
	for r := RedirectNone; r <= RedirectStdoutAndStderr; r++ {
		if r.String() == s {
			return r, true
		}
	}
	return 0, false
}

// Call is a command invocation: what is being called, its positional and
// named arguments, the invocation's span, and its redirection mode.
type Call struct {
	Head       *SpannedExpr    `json:"head"`
	Positional []SpannedExpr   `json:"positional,omitempty"`
	Named      *NamedArguments `json:"named,omitempty"`
	Span       span.Span       `json:"span"`
	Redirect   Redirection     `json:"redirect"`
}

// NewCall creates a call with no arguments, redirecting stdout.
func NewCall(head *SpannedExpr, sp span.Span) *Call {
	return &Call{Head: head, Span: sp, Redirect: RedirectStdout}
}

// SetInitialFlags pre-populates one named entry per declared named
// parameter, in declaration order: switches as absent switches, value
// flags as absent values. Doing this before argument parsing is what lets
// "not yet supplied" differ from "supplied as empty" afterwards.
func (c *Call) SetInitialFlags(sig *Signature) {
	for _, param := range sig.Named {
		if c.Named == nil {
			c.Named = NewNamedArguments()
		}
		if param.Type == NamedSwitch {
			c.Named.InsertSwitch(param.Name, nil)
		} else {
			c.Named.InsertOptional(param.Name, span.Unknown(), nil)
		}
	}
}

// SwitchPresent reports whether the named switch was supplied.
func (c *Call) SwitchPresent(name string) bool {
	return c.Named != nil && c.Named.SwitchPresent(name)
}

// Flag returns the expression supplied for a value flag, or nil for every
// other state (including a present switch, which carries no expression).
func (c *Call) Flag(name string) *SpannedExpr {
	if c.Named == nil {
		return nil
	}
	v, ok := c.Named.Get(name)
	if !ok {
		return nil
	}
	return v.Contents()
}
