package hir

import (
	"encoding/json"

	"github.com/marlinshell/marlin/internal/diag"
	"github.com/marlinshell/marlin/internal/number"
	"github.com/marlinshell/marlin/internal/span"
)

// JSON codec for the tree. Sealed unions travel as kind-tagged envelopes
// ({"kind": "...", ...payload}); plain structs use their field tags
// directly. Enumerations travel as their manifest names. Insertion-ordered
// maps (named arguments, definitions) travel as entry arrays so order
// survives the round trip.
//
// Shared sub-blocks are duplicated on encode. Equality over the tree is
// structural, so a decode that materializes two copies of a previously
// shared block is indistinguishable to every consumer.

// EncodeBlock marshals a block to its wire form.
func EncodeBlock(b *Block) ([]byte, error) {
	return json.Marshal(b)
}

// DecodeBlock unmarshals a block from its wire form.
func DecodeBlock(data []byte) (*Block, error) {
	var b Block
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, diag.Untaggedf(diag.CodeMalformed, "decode block: %v", err)
	}
	if b.Definitions == nil {
		b.Definitions = NewDefinitions()
	}
	return &b, nil
}

// ---- enumerations ----

func (s SyntaxShape) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SyntaxShape) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := ShapeFromString(name)
	if !ok {
		return diag.Untaggedf(diag.CodeMalformed, "unknown shape %q", name)
	}
	*s = v
	return nil
}

// NamedTypeFromString parses a named parameter binding name.
func NamedTypeFromString(s string) (NamedType, bool) {
	switch s {
	case "switch":
		return NamedSwitch, true
	case "optional":
		return NamedOptional, true
	case "mandatory":
		return NamedMandatory, true
	}
	return 0, false
}

func (t NamedType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *NamedType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := NamedTypeFromString(name)
	if !ok {
		return diag.Untaggedf(diag.CodeMalformed, "unknown named type %q", name)
	}
	*t = v
	return nil
}

func (u Unit) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.String())
}

func (u *Unit) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := UnitFromString(name)
	if !ok {
		return diag.Untaggedf(diag.CodeMalformed, "unknown unit %q", name)
	}
	*u = v
	return nil
}

func (o Operator) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.String())
}

func (o *Operator) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := OperatorFromString(name)
	if !ok {
		return diag.Untaggedf(diag.CodeMalformed, "unknown operator %q", name)
	}
	*o = v
	return nil
}

func (r Redirection) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *Redirection) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	v, ok := RedirectionFromString(name)
	if !ok {
		return diag.Untaggedf(diag.CodeMalformed, "unknown redirection %q", name)
	}
	*r = v
	return nil
}

func (r RangeOperator) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

func (r *RangeOperator) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "..":
		*r = RangeInclusive
	case "..<":
		*r = RangeRightExclusive
	default:
		return diag.Untaggedf(diag.CodeMalformed, "unknown range operator %q", name)
	}
	return nil
}

// ---- kind peeking ----

type kindProbe struct {
	Kind string `json:"kind"`
}

func peekKind(data []byte) (string, error) {
	var p kindProbe
	if err := json.Unmarshal(data, &p); err != nil {
		return "", diag.Untaggedf(diag.CodeMalformed, "missing kind tag: %v", err)
	}
	return p.Kind, nil
}

// ---- expressions ----

const (
	kindLiteral       = "literal"
	kindExternalWord  = "external_word"
	kindSynthetic     = "synthetic"
	kindVariable      = "variable"
	kindBinary        = "binary"
	kindRange         = "range"
	kindBlock         = "block"
	kindSubexpression = "subexpression"
	kindList          = "list"
	kindTable         = "table"
	kindPath          = "path"
	kindFilePath      = "file_path"
	kindExternal      = "external"
	kindCommand       = "command"
	kindBoolean       = "boolean"
	kindGarbage       = "garbage"
)

type literalExprEnv struct {
	Kind    string          `json:"kind"`
	Literal json.RawMessage `json:"literal"`
}

type syntheticEnv struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type variableEnv struct {
	Kind string    `json:"kind"`
	Name string    `json:"name"`
	Span span.Span `json:"span"`
}

type binaryEnv struct {
	Kind  string      `json:"kind"`
	Left  SpannedExpr `json:"left"`
	Op    SpannedExpr `json:"op"`
	Right SpannedExpr `json:"right"`
}

type rangeEnv struct {
	Kind  string                      `json:"kind"`
	Left  *SpannedExpr                `json:"left,omitempty"`
	Op    span.Spanned[RangeOperator] `json:"op"`
	Right *SpannedExpr                `json:"right,omitempty"`
}

type blockExprEnv struct {
	Kind  string `json:"kind"`
	Block *Block `json:"block"`
}

type listEnv struct {
	Kind  string        `json:"kind"`
	Items []SpannedExpr `json:"items"`
}

type tableEnv struct {
	Kind    string          `json:"kind"`
	Headers []SpannedExpr   `json:"headers"`
	Rows    [][]SpannedExpr `json:"rows"`
}

type pathEnv struct {
	Kind string            `json:"kind"`
	Head SpannedExpr       `json:"head"`
	Tail []json.RawMessage `json:"tail"`
}

type filePathEnv struct {
	Kind string `json:"kind"`
	Path string `json:"path"`
}

type externalRefEnv struct {
	Kind string                 `json:"kind"`
	Name span.Spanned[string]   `json:"name"`
	Args []span.Spanned[string] `json:"args,omitempty"`
}

type booleanEnv struct {
	Kind  string `json:"kind"`
	Value bool   `json:"value"`
}

func encodeExpr(e Expr) ([]byte, error) {
	switch x := e.(type) {
	case Lit:
		lit, err := encodeLiteral(x.Literal)
		if err != nil {
			return nil, err
		}
		return json.Marshal(literalExprEnv{Kind: kindLiteral, Literal: lit})
	case ExternalWord:
		return json.Marshal(kindProbe{Kind: kindExternalWord})
	case Synthetic:
		return json.Marshal(syntheticEnv{Kind: kindSynthetic, Value: x.Value})
	case Var:
		return json.Marshal(variableEnv{Kind: kindVariable, Name: x.Name, Span: x.Span})
	case Binary:
		return json.Marshal(binaryEnv{Kind: kindBinary, Left: x.Left, Op: x.Op, Right: x.Right})
	case Range:
		return json.Marshal(rangeEnv{Kind: kindRange, Left: x.Left, Op: x.Op, Right: x.Right})
	case BlockExpr:
		return json.Marshal(blockExprEnv{Kind: kindBlock, Block: x.Block})
	case Subexpression:
		return json.Marshal(blockExprEnv{Kind: kindSubexpression, Block: x.Block})
	case List:
		return json.Marshal(listEnv{Kind: kindList, Items: x.Items})
	case Table:
		return json.Marshal(tableEnv{Kind: kindTable, Headers: x.Headers, Rows: x.Rows})
	case FullColumnPath:
		tail := make([]json.RawMessage, 0, len(x.Tail))
		for _, m := range x.Tail {
			raw, err := encodePathMember(m)
			if err != nil {
				return nil, err
			}
			tail = append(tail, raw)
		}
		return json.Marshal(pathEnv{Kind: kindPath, Head: x.Head, Tail: tail})
	case FilePath:
		return json.Marshal(filePathEnv{Kind: kindFilePath, Path: x.Path})
	case ExternalRef:
		return json.Marshal(externalRefEnv{Kind: kindExternal, Name: x.Name, Args: x.Args})
	case Command:
		return json.Marshal(kindProbe{Kind: kindCommand})
	case Boolean:
		return json.Marshal(booleanEnv{Kind: kindBoolean, Value: x.Value})
	case Garbage:
		return json.Marshal(kindProbe{Kind: kindGarbage})
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "encode: unknown expression %T", e)
	}
}

func decodeExpr(data []byte) (Expr, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindLiteral:
		var env literalExprEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		lit, err := decodeLiteral(env.Literal)
		if err != nil {
			return nil, err
		}
		return Lit{Literal: lit}, nil
	case kindExternalWord:
		return ExternalWord{}, nil
	case kindSynthetic:
		var env syntheticEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return Synthetic{Value: env.Value}, nil
	case kindVariable:
		var env variableEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return Var{Name: env.Name, Span: env.Span}, nil
	case kindBinary:
		var env binaryEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return Binary{Left: env.Left, Op: env.Op, Right: env.Right}, nil
	case kindRange:
		var env rangeEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return Range{Left: env.Left, Op: env.Op, Right: env.Right}, nil
	case kindBlock:
		var env blockExprEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return BlockExpr{Block: env.Block}, nil
	case kindSubexpression:
		var env blockExprEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return Subexpression{Block: env.Block}, nil
	case kindList:
		var env listEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return List{Items: env.Items}, nil
	case kindTable:
		var env tableEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return Table{Headers: env.Headers, Rows: env.Rows}, nil
	case kindPath:
		var env pathEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		tail := make([]PathMember, 0, len(env.Tail))
		for _, raw := range env.Tail {
			m, err := decodePathMember(raw)
			if err != nil {
				return nil, err
			}
			tail = append(tail, m)
		}
		return FullColumnPath{Head: env.Head, Tail: tail}, nil
	case kindFilePath:
		var env filePathEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return FilePath{Path: env.Path}, nil
	case kindExternal:
		var env externalRefEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return ExternalRef{Name: env.Name, Args: env.Args}, nil
	case kindCommand:
		return Command{}, nil
	case kindBoolean:
		var env booleanEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return Boolean{Value: env.Value}, nil
	case kindGarbage:
		return Garbage{}, nil
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "decode: unknown expression kind %q", kind)
	}
}

// MarshalJSON implements json.Marshaler.
func (se SpannedExpr) MarshalJSON() ([]byte, error) {
	raw, err := encodeExpr(se.Expr)
	if err != nil {
		return nil, err
	}
	return json.Marshal(struct {
		Expr json.RawMessage `json:"expr"`
		Span span.Span       `json:"span"`
	}{Expr: raw, Span: se.Span})
}

// UnmarshalJSON implements json.Unmarshaler.
func (se *SpannedExpr) UnmarshalJSON(data []byte) error {
	var env struct {
		Expr json.RawMessage `json:"expr"`
		Span span.Span       `json:"span"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	e, err := decodeExpr(env.Expr)
	if err != nil {
		return err
	}
	se.Expr = e
	se.Span = env.Span
	return nil
}

// ---- literals ----

const (
	kindNumber     = "number"
	kindSize       = "size"
	kindOperator   = "operator"
	kindString     = "string"
	kindPattern    = "pattern"
	kindColumnPath = "column_path"
	kindBare       = "bare"
)

type numberLitEnv struct {
	Kind  string          `json:"kind"`
	Value json.RawMessage `json:"value"`
}

type sizeLitEnv struct {
	Kind  string `json:"kind"`
	Value struct {
		Item json.RawMessage `json:"item"`
		Span span.Span       `json:"span"`
	} `json:"value"`
	Unit span.Spanned[Unit] `json:"unit"`
}

type operatorLitEnv struct {
	Kind string   `json:"kind"`
	Op   Operator `json:"op"`
}

type stringLitEnv struct {
	Kind  string `json:"kind"`
	Value string `json:"value"`
}

type columnPathLitEnv struct {
	Kind    string            `json:"kind"`
	Members []json.RawMessage `json:"members"`
}

func encodeLiteral(l Literal) ([]byte, error) {
	switch x := l.(type) {
	case NumberLit:
		raw, err := number.EncodeJSON(x.Value)
		if err != nil {
			return nil, err
		}
		return json.Marshal(numberLitEnv{Kind: kindNumber, Value: raw})
	case SizeLit:
		raw, err := number.EncodeJSON(x.Value.Item)
		if err != nil {
			return nil, err
		}
		env := sizeLitEnv{Kind: kindSize, Unit: x.Unit}
		env.Value.Item = raw
		env.Value.Span = x.Value.Span
		return json.Marshal(env)
	case OperatorLit:
		return json.Marshal(operatorLitEnv{Kind: kindOperator, Op: x.Op})
	case StringLit:
		return json.Marshal(stringLitEnv{Kind: kindString, Value: x.Value})
	case GlobLit:
		return json.Marshal(stringLitEnv{Kind: kindPattern, Value: x.Pattern})
	case ColumnPathLit:
		members := make([]json.RawMessage, 0, len(x.Members))
		for _, m := range x.Members {
			raw, err := encodeMember(m)
			if err != nil {
				return nil, err
			}
			members = append(members, raw)
		}
		return json.Marshal(columnPathLitEnv{Kind: kindColumnPath, Members: members})
	case BareLit:
		return json.Marshal(stringLitEnv{Kind: kindBare, Value: x.Value})
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "encode: unknown literal %T", l)
	}
}

func decodeLiteral(data []byte) (Literal, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindNumber:
		var env numberLitEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		n, err := number.DecodeJSON(env.Value)
		if err != nil {
			return nil, err
		}
		return NumberLit{Value: n}, nil
	case kindSize:
		var env sizeLitEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		n, err := number.DecodeJSON(env.Value.Item)
		if err != nil {
			return nil, err
		}
		return SizeLit{
			Value: span.NewSpanned(n, env.Value.Span),
			Unit:  env.Unit,
		}, nil
	case kindOperator:
		var env operatorLitEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return OperatorLit{Op: env.Op}, nil
	case kindString:
		var env stringLitEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return StringLit{Value: env.Value}, nil
	case kindPattern:
		var env stringLitEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return GlobLit{Pattern: env.Value}, nil
	case kindColumnPath:
		var env columnPathLitEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		members := make([]Member, 0, len(env.Members))
		for _, raw := range env.Members {
			m, err := decodeMember(raw)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return ColumnPathLit{Members: members}, nil
	case kindBare:
		var env stringLitEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return BareLit{Value: env.Value}, nil
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "decode: unknown literal kind %q", kind)
	}
}

// ---- path members ----

type stringMemberEnv struct {
	Kind  string    `json:"kind"`
	Outer span.Span `json:"outer"`
	Inner span.Span `json:"inner"`
}

type intMemberEnv struct {
	Kind  string    `json:"kind"`
	Value int64     `json:"value"`
	At    span.Span `json:"at"`
}

type bareMemberEnv struct {
	Kind string               `json:"kind"`
	Name span.Spanned[string] `json:"name"`
}

type stringPathMemberEnv struct {
	Kind  string    `json:"kind"`
	Value string    `json:"value"`
	At    span.Span `json:"at"`
}

func encodeMember(m Member) ([]byte, error) {
	switch x := m.(type) {
	case StringMember:
		return json.Marshal(stringMemberEnv{Kind: kindString, Outer: x.Outer, Inner: x.Inner})
	case IntMember:
		return json.Marshal(intMemberEnv{Kind: "int", Value: x.Value, At: x.At})
	case BareMember:
		return json.Marshal(bareMemberEnv{Kind: kindBare, Name: x.Name})
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "encode: unknown member %T", m)
	}
}

func decodeMember(data []byte) (Member, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindString:
		var env stringMemberEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return StringMember{Outer: env.Outer, Inner: env.Inner}, nil
	case "int":
		var env intMemberEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return IntMember{Value: env.Value, At: env.At}, nil
	case kindBare:
		var env bareMemberEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return BareMember{Name: env.Name}, nil
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "decode: unknown member kind %q", kind)
	}
}

func encodePathMember(m PathMember) ([]byte, error) {
	switch x := m.(type) {
	case StringPathMember:
		return json.Marshal(stringPathMemberEnv{Kind: kindString, Value: x.Value, At: x.At})
	case IntPathMember:
		return json.Marshal(intMemberEnv{Kind: "int", Value: x.Value, At: x.At})
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "encode: unknown path member %T", m)
	}
}

func decodePathMember(data []byte) (PathMember, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindString:
		var env stringPathMemberEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return StringPathMember{Value: env.Value, At: env.At}, nil
	case "int":
		var env intMemberEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return IntPathMember{Value: env.Value, At: env.At}, nil
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "decode: unknown path member kind %q", kind)
	}
}

// ---- named arguments ----

const (
	kindAbsentSwitch  = "absent_switch"
	kindPresentSwitch = "present_switch"
	kindAbsentValue   = "absent_value"
	kindPresentValue  = "present_value"
)

type switchEnv struct {
	Kind string    `json:"kind"`
	At   span.Span `json:"at"`
}

type presentValueEnv struct {
	Kind string      `json:"kind"`
	At   span.Span   `json:"at"`
	Expr SpannedExpr `json:"expr"`
}

func encodeNamedValue(v NamedValue) ([]byte, error) {
	switch x := v.(type) {
	case AbsentSwitch:
		return json.Marshal(kindProbe{Kind: kindAbsentSwitch})
	case PresentSwitch:
		return json.Marshal(switchEnv{Kind: kindPresentSwitch, At: x.At})
	case AbsentValue:
		return json.Marshal(kindProbe{Kind: kindAbsentValue})
	case PresentValue:
		return json.Marshal(presentValueEnv{Kind: kindPresentValue, At: x.At, Expr: x.Expr})
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "encode: unknown named value %T", v)
	}
}

func decodeNamedValue(data []byte) (NamedValue, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindAbsentSwitch:
		return AbsentSwitch{}, nil
	case kindPresentSwitch:
		var env switchEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return PresentSwitch{At: env.At}, nil
	case kindAbsentValue:
		return AbsentValue{}, nil
	case kindPresentValue:
		var env presentValueEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return PresentValue{At: env.At, Expr: env.Expr}, nil
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "decode: unknown named value kind %q", kind)
	}
}

type namedEntryEnv struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value"`
}

// MarshalJSON implements json.Marshaler. Entries appear in insertion
// order.
func (na *NamedArguments) MarshalJSON() ([]byte, error) {
	entries := make([]namedEntryEnv, 0, len(na.keys))
	for _, key := range na.keys {
		raw, err := encodeNamedValue(na.values[key])
		if err != nil {
			return nil, err
		}
		entries = append(entries, namedEntryEnv{Name: key, Value: raw})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON implements json.Unmarshaler.
func (na *NamedArguments) UnmarshalJSON(data []byte) error {
	var entries []namedEntryEnv
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	na.keys = nil
	na.values = make(map[string]NamedValue, len(entries))
	for _, e := range entries {
		v, err := decodeNamedValue(e.Value)
		if err != nil {
			return err
		}
		na.insert(e.Name, v)
	}
	return nil
}

// ---- definitions ----

type definitionEnv struct {
	Name  string `json:"name"`
	Block *Block `json:"block"`
}

// MarshalJSON implements json.Marshaler. Entries appear in insertion
// order.
func (d *Definitions) MarshalJSON() ([]byte, error) {
	entries := make([]definitionEnv, 0, len(d.keys))
	for _, key := range d.keys {
		entries = append(entries, definitionEnv{Name: key, Block: d.m[key]})
	}
	return json.Marshal(entries)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Definitions) UnmarshalJSON(data []byte) error {
	var entries []definitionEnv
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	d.keys = nil
	d.m = make(map[string]*Block, len(entries))
	for _, e := range entries {
		d.Insert(e.Name, e.Block)
	}
	return nil
}

// ---- classified commands ----

const (
	kindExprCommand     = "expr"
	kindDynamicCommand  = "dynamic"
	kindInternalCommand = "internal"
	kindErrorCommand    = "error"
)

type exprCommandEnv struct {
	Kind string      `json:"kind"`
	Expr SpannedExpr `json:"expr"`
}

type dynamicCommandEnv struct {
	Kind string `json:"kind"`
	Call Call   `json:"call"`
}

type internalCommandEnv struct {
	Kind     string    `json:"kind"`
	Name     string    `json:"name"`
	NameSpan span.Span `json:"name_span"`
	Args     Call      `json:"args"`
}

type errorCommandEnv struct {
	Kind string     `json:"kind"`
	Err  diag.Error `json:"error"`
}

func (c ExprCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(exprCommandEnv{Kind: kindExprCommand, Expr: c.Expr})
}

func (c DynamicCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(dynamicCommandEnv{Kind: kindDynamicCommand, Call: c.Call})
}

func (c *InternalCommand) MarshalJSON() ([]byte, error) {
	return json.Marshal(internalCommandEnv{
		Kind:     kindInternalCommand,
		Name:     c.Name,
		NameSpan: c.NameSpan,
		Args:     c.Args,
	})
}

func (c ErrorCommand) MarshalJSON() ([]byte, error) {
	env := errorCommandEnv{Kind: kindErrorCommand}
	if c.Err != nil {
		env.Err = *c.Err
	}
	return json.Marshal(env)
}

func decodeClassifiedCommand(data []byte) (ClassifiedCommand, error) {
	kind, err := peekKind(data)
	if err != nil {
		return nil, err
	}
	switch kind {
	case kindExprCommand:
		var env exprCommandEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return ExprCommand{Expr: env.Expr}, nil
	case kindDynamicCommand:
		var env dynamicCommandEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return DynamicCommand{Call: env.Call}, nil
	case kindInternalCommand:
		var env internalCommandEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		return &InternalCommand{Name: env.Name, NameSpan: env.NameSpan, Args: env.Args}, nil
	case kindErrorCommand:
		var env errorCommandEnv
		if err := json.Unmarshal(data, &env); err != nil {
			return nil, err
		}
		e := env.Err
		return ErrorCommand{Err: &e}, nil
	default:
		return nil, diag.Untaggedf(diag.CodeMalformed, "decode: unknown command kind %q", kind)
	}
}

// UnmarshalJSON implements json.Unmarshaler; the stage list needs kind
// dispatch.
func (p *Pipeline) UnmarshalJSON(data []byte) error {
	var env struct {
		List []json.RawMessage `json:"list"`
		Span span.Span         `json:"span"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		return err
	}
	p.List = nil
	p.Span = env.Span
	for _, raw := range env.List {
		cc, err := decodeClassifiedCommand(raw)
		if err != nil {
			return err
		}
		p.List = append(p.List, cc)
	}
	return nil
}
