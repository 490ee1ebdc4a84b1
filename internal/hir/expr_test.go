package hir

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlinshell/marlin/internal/number"
	"github.com/marlinshell/marlin/internal/span"
)

func TestTypeNames(t *testing.T) {
	tests := []struct {
		name     string
		expr     Expr
		expected string
	}{
		{"integer", Integer(1), "number"},
		{"string", String("x"), "string"},
		{"bare", Bare("ls"), "string"},
		{"operator", Op(OpPlus), "operator"},
		{"pattern", GlobPattern("*.go"), "pattern"},
		{"column path", SimpleColumnPath(nil), "column path"},
		{"variable", Variable("$x", span.New(0, 2)), "variable"},
		{"boolean", Bool(true), "boolean"},
		{"synthetic", SyntheticString("x"), "string"},
		{"file path", NewFilePath("/tmp"), "file path"},
		{"external word", ExternalWord{}, "external word"},
		{"command", Command{}, "command"},
		{"garbage", Garbage{}, "garbage"},
		{"full path", Path(NewSpannedExpr(Variable("$it", span.New(0, 3)), span.New(0, 3)), nil), "variable path"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.expr.TypeName())
		})
	}
}

func TestPrecedence(t *testing.T) {
	tests := []struct {
		op       Operator
		expected int
	}{
		{OpPow, 100},
		{OpMultiply, 95},
		{OpDivide, 95},
		{OpModulo, 95},
		{OpPlus, 90},
		{OpMinus, 90},
		{OpEqual, 80},
		{OpNotEqual, 80},
		{OpLessThan, 80},
		{OpGreaterThan, 80},
		{OpLessThanOrEqual, 80},
		{OpGreaterThanOrEqual, 80},
		{OpContains, 80},
		{OpNotContains, 80},
		{OpIn, 80},
		{OpNotIn, 80},
		{OpAnd, 50},
		{OpOr, 40},
	}

	for _, tt := range tests {
		t.Run(tt.op.String(), func(t *testing.T) {
			e := NewSpannedExpr(Op(tt.op), span.Unknown())
			assert.Equal(t, tt.expected, e.Precedence())
		})
	}
}

func TestPrecedenceNonOperator(t *testing.T) {
	e := NewSpannedExpr(Integer(3), span.Unknown())
	assert.Equal(t, 0, e.Precedence())
}

func TestVarName(t *testing.T) {
	head := NewSpannedExpr(Variable("$x", span.New(0, 2)), span.New(0, 2))

	t.Run("variable path", func(t *testing.T) {
		e := NewSpannedExpr(Path(head, nil), span.New(0, 2))
		name, err := e.VarName()
		require.NoError(t, err)
		assert.Equal(t, "$x", name)
	})

	t.Run("string literal gains sigil", func(t *testing.T) {
		e := NewSpannedExpr(String("x"), span.New(0, 1))
		name, err := e.VarName()
		require.NoError(t, err)
		assert.Equal(t, "$x", name)
	})

	t.Run("string literal keeps sigil", func(t *testing.T) {
		e := NewSpannedExpr(String("$x"), span.New(0, 2))
		name, err := e.VarName()
		require.NoError(t, err)
		assert.Equal(t, "$x", name)
	})

	t.Run("non-variable fails", func(t *testing.T) {
		e := NewSpannedExpr(Integer(7), span.New(4, 5))
		_, err := e.VarName()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a variable (got number)")
	})

	t.Run("path with non-variable head fails", func(t *testing.T) {
		badHead := NewSpannedExpr(Integer(1), span.New(0, 1))
		e := NewSpannedExpr(Path(badHead, nil), span.New(0, 1))
		_, err := e.VarName()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected a variable (got number)")
	})
}

func TestSizeWidensMagnitude(t *testing.T) {
	e := Size(span.NewSpanned(int64(2), span.New(0, 1)), span.NewSpanned(UnitKilobyte, span.New(1, 3)))
	lit, ok := e.(Lit)
	require.True(t, ok)
	size, ok := lit.Literal.(SizeLit)
	require.True(t, ok)

	b, ok := size.Value.Item.(number.Big)
	require.True(t, ok)
	assert.Equal(t, "2", b.Int.String())
	assert.Equal(t, UnitKilobyte, size.Unit.Item)
}

func TestBigIntegerConstructor(t *testing.T) {
	huge := new(big.Int).Lsh(big.NewInt(1), 100)
	e := BigInteger(huge)
	lit, ok := e.(Lit)
	require.True(t, ok)
	n, ok := lit.Literal.(NumberLit)
	require.True(t, ok)
	assert.Equal(t, huge.String(), n.Value.String())
}

func TestOperatorFromString(t *testing.T) {
	for op := OpEqual; op <= OpPow; op++ {
		parsed, ok := OperatorFromString(op.String())
		require.True(t, ok, "operator %v", op)
		assert.Equal(t, op, parsed)
	}

	_, ok := OperatorFromString("<=>")
	assert.False(t, ok)
}

func TestRangeOperatorString(t *testing.T) {
	assert.Equal(t, "..", RangeInclusive.String())
	assert.Equal(t, "..<", RangeRightExclusive.String())
}
