package hir

import (
	"github.com/marlinshell/marlin/internal/diag"
	"github.com/marlinshell/marlin/internal/span"
)

// ItVar is the contextual "current item" binder. A block that references it
// without declaring parameters gets it bound as an implicit parameter.
const ItVar = "$it"

// ClassifiedCommand is the sealed union over pipeline stages: a bare
// expression, a call resolved at run time, a named internal command, or an
// embedded parse failure.
type ClassifiedCommand interface {
	classifiedCommand()

	// HasVarUsage reports whether the named variable is referenced anywhere
	// in the stage.
	HasVarUsage(name string) bool

	// FreeVariables collects variable names referenced in the stage that
	// are not in known.
	FreeVariables(known []string) []string
}

// ExprCommand is a pipeline stage that is a bare expression.
type ExprCommand struct {
	Expr SpannedExpr
}

// DynamicCommand is a call whose target is resolved at run time.
type DynamicCommand struct {
	Call Call
}

// InternalCommand is a named internal command invocation.
type InternalCommand struct {
	Name     string
	NameSpan span.Span
	Args     Call
}

// ErrorCommand embeds a parse failure as a first-class pipeline stage.
// Consumers decide whether an embedded failure is fatal for their purpose.
type ErrorCommand struct {
	Err *diag.Error
}

func (ExprCommand) classifiedCommand()      {}
func (DynamicCommand) classifiedCommand()   {}
func (*InternalCommand) classifiedCommand() {}
func (ErrorCommand) classifiedCommand()     {}

// NewInternalCommand creates an internal command whose call head is a bare
// command marker spanning the name.
func NewInternalCommand(name string, nameSpan, fullSpan span.Span) *InternalCommand {
	head := NewSpannedExpr(Command{}, nameSpan)
	return &InternalCommand{
		Name:     name,
		NameSpan: nameSpan,
		Args:     *NewCall(&head, fullSpan),
	}
}

// Pipeline is an ordered sequence of classified commands.
type Pipeline struct {
	List []ClassifiedCommand `json:"list"`
	Span span.Span           `json:"span"`
}

// NewPipeline creates an empty pipeline covering sp.
func NewPipeline(sp span.Span) *Pipeline {
	return &Pipeline{Span: sp}
}

// BasicPipeline creates an empty pipeline with no source location.
func BasicPipeline() *Pipeline {
	return &Pipeline{Span: span.Unknown()}
}

// Push appends a stage.
func (p *Pipeline) Push(cc ClassifiedCommand) {
	p.List = append(p.List, cc)
}

// HasVarUsage reports whether any stage references the named variable.
func (p *Pipeline) HasVarUsage(name string) bool {
	for _, cc := range p.List {
		if cc.HasVarUsage(name) {
			return true
		}
	}
	return false
}

// Group is an ordered sequence of pipelines.
type Group struct {
	Pipelines []Pipeline `json:"pipelines"`
	Span      span.Span  `json:"span"`
}

// NewGroup creates a group from its pipelines.
func NewGroup(pipelines []Pipeline, sp span.Span) Group {
	return Group{Pipelines: pipelines, Span: sp}
}

// BasicGroup creates an empty group with no source location.
func BasicGroup() Group {
	return Group{Span: span.Unknown()}
}

// Push appends a pipeline.
func (g *Group) Push(p Pipeline) {
	g.Pipelines = append(g.Pipelines, p)
}

// HasVarUsage reports whether any pipeline references the named variable.
func (g *Group) HasVarUsage(name string) bool {
	for i := range g.Pipelines {
		if g.Pipelines[i].HasVarUsage(name) {
			return true
		}
	}
	return false
}

// Definitions is an insertion-ordered map of nested named sub-blocks.
// Blocks are shared by pointer (a block literal and a subexpression may
// reference the same underlying block) and sharing is acyclic by
// construction.
type Definitions struct {
	keys []string
	m    map[string]*Block
}

// NewDefinitions creates an empty definitions map.
func NewDefinitions() *Definitions {
	return &Definitions{m: make(map[string]*Block)}
}

// Insert adds or replaces a named sub-block; an existing name keeps its
// position.
func (d *Definitions) Insert(name string, b *Block) {
	if d.m == nil {
		d.m = make(map[string]*Block)
	}
	if _, exists := d.m[name]; !exists {
		d.keys = append(d.keys, name)
	}
	d.m[name] = b
}

// Get returns the named sub-block.
func (d *Definitions) Get(name string) (*Block, bool) {
	b, ok := d.m[name]
	return b, ok
}

// Names returns the definition names in insertion order.
func (d *Definitions) Names() []string {
	out := make([]string, len(d.keys))
	copy(out, d.keys)
	return out
}

// Len returns the number of definitions.
func (d *Definitions) Len() int {
	return len(d.keys)
}

// Block is a reusable unit of pipelines: a parameter signature, ordered
// groups, nested named definitions, and a span.
type Block struct {
	Params      Signature    `json:"params"`
	Groups      []Group      `json:"groups"`
	Definitions *Definitions `json:"definitions,omitempty"`
	Span        span.Span    `json:"span"`
}

// NewBlock creates a block from its parts.
func NewBlock(params Signature, groups []Group, defs *Definitions, sp span.Span) *Block {
	if defs == nil {
		defs = NewDefinitions()
	}
	return &Block{Params: params, Groups: groups, Definitions: defs, Span: sp}
}

// BasicBlock creates an empty block with no source location.
func BasicBlock() *Block {
	return &Block{
		Params:      Signature{Name: "<basic>"},
		Definitions: NewDefinitions(),
		Span:        span.Unknown(),
	}
}

// Push appends a group and re-runs implicit parameter inference.
func (b *Block) Push(g Group) {
	b.Groups = append(b.Groups, g)
	b.inferParams()
}

// HasVarUsage reports whether any group references the named variable.
func (b *Block) HasVarUsage(name string) bool {
	for i := range b.Groups {
		if b.Groups[i].HasVarUsage(name) {
			return true
		}
	}
	return false
}

// inferParams binds the contextual binder as the block's sole positional
// parameter when the block declares none and references it. Runs on every
// Push and is idempotent: once positional parameters exist it never
// triggers again.
func (b *Block) inferParams() {
	if len(b.Params.Positional) == 0 && b.HasVarUsage(ItVar) {
		b.Params.Positional = []PositionalArg{{
			Name:     ItVar,
			Shape:    ShapeAny,
			Required: true,
			Desc:     "implied $it",
		}}
	}
}

// FreeVariables collects every variable referenced in the block that is
// bound neither in known nor by the block's own positional parameters.
// The parameter names extend a local copy of known, so sibling traversals
// all see the same baseline. Duplicate names across different sub-nodes
// may appear more than once; uniqueness is the caller's responsibility.
func (b *Block) FreeVariables(known []string) []string {
	local := make([]string, 0, len(known)+len(b.Params.Positional))
	local = append(local, known...)
	for _, p := range b.Params.Positional {
		local = append(local, p.Name)
	}

	var free []string
	for gi := range b.Groups {
		for pi := range b.Groups[gi].Pipelines {
			for _, cc := range b.Groups[gi].Pipelines[pi].List {
				free = append(free, cc.FreeVariables(local)...)
			}
		}
	}
	return free
}

// ClassifiedBlock pairs a block with an optional embedded parse failure.
// The failure is data, not control flow: callers decide what to do with a
// partially failed parse.
type ClassifiedBlock struct {
	Block  *Block      `json:"block"`
	Failed *diag.Error `json:"failed,omitempty"`
}

// NewClassifiedBlock creates a classified block.
func NewClassifiedBlock(b *Block, failed *diag.Error) ClassifiedBlock {
	return ClassifiedBlock{Block: b, Failed: failed}
}

// ClassifiedPipeline wraps a classified pipeline.
type ClassifiedPipeline struct {
	Commands Pipeline `json:"commands"`
}

// NewClassifiedPipeline creates a classified pipeline.
func NewClassifiedPipeline(commands Pipeline) ClassifiedPipeline {
	return ClassifiedPipeline{Commands: commands}
}

// ExternalArgs is the spanned argument list of an external command.
type ExternalArgs struct {
	List []SpannedExpr `json:"list"`
	Span span.Span     `json:"span"`
}

// ExternalCommand is an external command invocation as seen by the
// evaluator: name, name location, and raw arguments.
type ExternalCommand struct {
	Name     string       `json:"name"`
	NameSpan span.Span    `json:"name_span"`
	Args     ExternalArgs `json:"args"`
}

// Span returns the full extent of the external command.
func (e *ExternalCommand) Span() span.Span {
	return e.NameSpan.Until(e.Args.Span)
}

// HasItUsage reports whether any argument is a column path headed by the
// contextual binder.
func (e *ExternalCommand) HasItUsage() bool {
	for _, arg := range e.Args.List {
		path, ok := arg.Expr.(FullColumnPath)
		if !ok {
			continue
		}
		if v, ok := path.Head.Expr.(Var); ok && v.Name == ItVar {
			return true
		}
	}
	return false
}
