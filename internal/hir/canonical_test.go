package hir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlinshell/marlin/internal/span"
)

func blockWithDefinitions(names ...string) *Block {
	b := BasicBlock()
	for _, name := range names {
		b.Definitions.Insert(name, BasicBlock())
	}
	return b
}

func TestFingerprintStable(t *testing.T) {
	a := blockWithDefinitions("parse", "emit")
	b := blockWithDefinitions("parse", "emit")
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
	assert.Len(t, a.Fingerprint(), 64)
}

func TestFingerprintDependsOnNames(t *testing.T) {
	a := blockWithDefinitions("parse", "emit")
	b := blockWithDefinitions("parse", "render")
	assert.NotEqual(t, a.Fingerprint(), b.Fingerprint())

	// Names hash as a sorted set: insertion order does not participate.
	c := blockWithDefinitions("emit", "parse")
	assert.Equal(t, a.Fingerprint(), c.Fingerprint())
}

func TestFingerprintIgnoresBodies(t *testing.T) {
	// The fingerprint is deliberately partial: definition bodies and the
	// block's own groups do not participate.
	a := blockWithDefinitions("helper")
	b := blockWithDefinitions("helper")
	b.Push(groupWith(varExpr("$x")))
	helper, _ := b.Definitions.Get("helper")
	helper.Push(groupWith(varExpr("$y")))

	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestFingerprintNormalizesNames(t *testing.T) {
	// "é" composed vs decomposed normalize to the same NFC form.
	composed := blockWithDefinitions("café")
	decomposed := blockWithDefinitions("café")
	assert.Equal(t, composed.Fingerprint(), decomposed.Fingerprint())
}

func TestFingerprintEmptyBlock(t *testing.T) {
	a := BasicBlock()
	b := &Block{Span: span.New(0, 10)}
	// No definitions either way; spans do not participate.
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())
}

func TestCompareDefinitionNames(t *testing.T) {
	tests := []struct {
		name     string
		a, b     *Block
		expected int
	}{
		{"equal", blockWithDefinitions("a", "b"), blockWithDefinitions("a", "b"), 0},
		{"lexicographic", blockWithDefinitions("a"), blockWithDefinitions("b"), -1},
		{"prefix is less", blockWithDefinitions("a"), blockWithDefinitions("a", "b"), -1},
		{"longer is greater", blockWithDefinitions("a", "b"), blockWithDefinitions("a"), 1},
		{"bodies ignored", blockWithDefinitions("a"), blockWithDefinitions("a"), 0},
		{"empty vs empty", BasicBlock(), BasicBlock(), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.a.CompareDefinitionNames(tt.b))
		})
	}
}

func TestNamedArgumentsCompareKeys(t *testing.T) {
	a := NewNamedArguments()
	a.InsertSwitch("all", nil)
	b := NewNamedArguments()
	b.InsertSwitch("all", nil)
	assert.Equal(t, 0, a.Compare(b))

	b2 := NewNamedArguments()
	b2.InsertSwitch("brief", nil)
	assert.Equal(t, -1, a.Compare(b2))
	assert.Equal(t, 1, b2.Compare(a))

	// The key vector compares before any value: the same keys in a
	// different insertion order are unequal.
	c := NewNamedArguments()
	c.InsertSwitch("all", nil)
	c.InsertSwitch("brief", nil)
	d := NewNamedArguments()
	d.InsertSwitch("brief", nil)
	d.InsertSwitch("all", nil)
	assert.NotEqual(t, 0, c.Compare(d))
}

func TestNamedArgumentsCompareValues(t *testing.T) {
	// Same keys, different states: variant rank decides.
	a := NewNamedArguments()
	a.InsertSwitch("all", nil)
	flag := NewFlag(FlagLonghand, span.New(0, 5))
	b := NewNamedArguments()
	b.InsertSwitch("all", &flag)

	assert.Equal(t, -1, a.Compare(b))
	assert.Equal(t, 1, b.Compare(a))

	// Same state, different flag spans: the span decides.
	flag2 := NewFlag(FlagLonghand, span.New(7, 12))
	c := NewNamedArguments()
	c.InsertSwitch("all", &flag2)
	assert.Equal(t, -1, b.Compare(c))

	// Present values with equal spans fall back to the encoded
	// expression.
	v1 := varExpr("$a")
	v2 := varExpr("$b")
	d := NewNamedArguments()
	d.InsertOptional("out", span.New(0, 5), &v1)
	e := NewNamedArguments()
	e.InsertOptional("out", span.New(0, 5), &v2)
	require.NotEqual(t, 0, d.Compare(e))
	assert.Equal(t, -d.Compare(e), e.Compare(d))
}

func TestHashDomainSeparation(t *testing.T) {
	assert.NotEqual(t,
		hashWithDomain("marlin/block/v1", []byte("x")),
		hashWithDomain("marlin/other/v1", []byte("x")))
	assert.NotEqual(t,
		hashWithDomain("ab", []byte("c")),
		hashWithDomain("a", []byte("bc")))
}
