package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marlinshell/marlin/internal/span"
)

func binaryExpr(left, right SpannedExpr, op Operator) SpannedExpr {
	return NewSpannedExpr(Binary{
		Left:  left,
		Op:    NewSpannedExpr(Op(op), span.Unknown()),
		Right: right,
	}, span.Unknown())
}

func TestHasVarUsage(t *testing.T) {
	intExpr := NewSpannedExpr(Integer(1), span.Unknown())

	tests := []struct {
		name     string
		expr     SpannedExpr
		varName  string
		expected bool
	}{
		{"matching variable", varExpr("$x"), "$x", true},
		{"other variable", varExpr("$x"), "$y", false},
		{"literal", intExpr, "$x", false},
		{"binary left", binaryExpr(varExpr("$x"), intExpr, OpPlus), "$x", true},
		{"binary right", binaryExpr(intExpr, varExpr("$x"), OpPlus), "$x", true},
		{"binary neither", binaryExpr(intExpr, intExpr, OpPlus), "$x", false},
		{"list item", NewSpannedExpr(List{Items: []SpannedExpr{intExpr, varExpr("$x")}}, span.Unknown()), "$x", true},
		{"path head", NewSpannedExpr(Path(varExpr("$x"), nil), span.Unknown()), "$x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.expr.HasVarUsage(tt.varName))
		})
	}
}

func TestHasVarUsageRangeBounds(t *testing.T) {
	op := span.NewSpanned(RangeInclusive, span.Unknown())
	left := varExpr("$lo")
	right := varExpr("$hi")
	r := NewSpannedExpr(NewRange(&left, op, &right), span.Unknown())

	assert.True(t, r.HasVarUsage("$lo"))
	assert.True(t, r.HasVarUsage("$hi"))
	assert.False(t, r.HasVarUsage("$mid"))

	open := NewSpannedExpr(NewRange(nil, op, nil), span.Unknown())
	assert.False(t, open.HasVarUsage("$lo"))
}

func TestHasVarUsageTable(t *testing.T) {
	table := NewSpannedExpr(Table{
		Headers: []SpannedExpr{NewSpannedExpr(String("name"), span.Unknown())},
		Rows:    [][]SpannedExpr{{varExpr("$cell")}},
	}, span.Unknown())

	assert.True(t, table.HasVarUsage("$cell"))
	assert.False(t, table.HasVarUsage("$absent"))
}

func TestHasVarUsageBlockBoundary(t *testing.T) {
	inner := BasicBlock()
	inner.Push(groupWith(varExpr("$x")))

	// A subexpression is transparent; a block literal is a scope boundary.
	sub := NewSpannedExpr(Subexpression{Block: inner}, span.Unknown())
	assert.True(t, sub.HasVarUsage("$x"))

	lit := NewSpannedExpr(BlockExpr{Block: inner}, span.Unknown())
	assert.False(t, lit.HasVarUsage("$x"))
}

func TestFreeVariablesSimple(t *testing.T) {
	e := binaryExpr(varExpr("$x"), varExpr("$y"), OpPlus)
	assert.ElementsMatch(t, []string{"$x", "$y"}, e.FreeVariables(nil))
	assert.ElementsMatch(t, []string{"$y"}, e.FreeVariables([]string{"$x"}))
	assert.Empty(t, e.FreeVariables([]string{"$x", "$y"}))
}

func TestFreeVariablesDescendsIntoBlockLiteral(t *testing.T) {
	inner := BasicBlock()
	inner.Push(groupWith(varExpr("$captured")))

	lit := NewSpannedExpr(BlockExpr{Block: inner}, span.Unknown())
	// Unlike HasVarUsage, the free-variable walk enters block literals:
	// a capture list needs what the literal will close over.
	assert.ElementsMatch(t, []string{"$captured"}, lit.FreeVariables(nil))
}

func TestBlockFreeVariablesParamsShadow(t *testing.T) {
	b := BasicBlock()
	b.Params.Positional = []PositionalArg{{Name: "$bound", Shape: ShapeAny, Required: true}}
	b.Push(groupWith(varExpr("$bound"), varExpr("$free")))

	assert.ElementsMatch(t, []string{"$free"}, b.FreeVariables(nil))
}

func TestBlockFreeVariablesNestedShadowing(t *testing.T) {
	// The inner block's parameter binds only inside the inner block.
	inner := BasicBlock()
	inner.Params.Positional = []PositionalArg{{Name: "$x", Shape: ShapeAny, Required: true}}
	inner.Push(groupWith(varExpr("$x"), varExpr("$y")))

	outer := BasicBlock()
	outer.Push(groupWith(
		NewSpannedExpr(BlockExpr{Block: inner}, span.Unknown()),
		varExpr("$x"),
	))

	assert.ElementsMatch(t, []string{"$y", "$x"}, outer.FreeVariables(nil))
}

func TestCallFreeVariables(t *testing.T) {
	head := varExpr("$cmd")
	c := NewCall(&head, span.Unknown())
	c.Positional = []SpannedExpr{varExpr("$arg")}
	c.Named = NewNamedArguments()
	val := varExpr("$depth")
	c.Named.InsertOptional("depth", span.Unknown(), &val)
	c.Named.InsertSwitch("all", nil)

	assert.ElementsMatch(t, []string{"$cmd", "$arg", "$depth"}, c.FreeVariables(nil))
	assert.True(t, c.HasVarUsage("$depth"))
	assert.False(t, c.HasVarUsage("$all"))
}

func TestErrorCommandHasNoUsages(t *testing.T) {
	var cc ClassifiedCommand = ErrorCommand{}
	assert.False(t, cc.HasVarUsage("$x"))
	assert.Nil(t, cc.FreeVariables(nil))
}
