package sigdef

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marlinshell/marlin/internal/hir"
)

func TestCompileSignatureBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		command: open: {
			usage: "load a file into a table"

			positional: [
				{name: "path", shape: "path", required: true, desc: "file to open"},
				{name: "encoding", shape: "string"},
			]

			flag: {
				raw: {type: "switch", short: "r", desc: "skip structured decoding"}
				limit: {type: "optional", shape: "int"}
				as: {type: "mandatory", shape: "string", desc: "output format"}
			}

			rest: {shape: "any", desc: "extra values"}
		}
	`)

	require.NoError(t, v.Err())
	sig, err := CompileSignature(v.LookupPath(cue.ParsePath("command.open")))
	require.NoError(t, err)

	assert.Equal(t, "open", sig.Name)
	assert.Equal(t, "load a file into a table", sig.Usage)

	require.Len(t, sig.Positional, 2)
	assert.Equal(t, "path", sig.Positional[0].Name)
	assert.Equal(t, hir.ShapeFilePath, sig.Positional[0].Shape)
	assert.True(t, sig.Positional[0].Required)
	assert.Equal(t, "file to open", sig.Positional[0].Desc)
	assert.Equal(t, "encoding", sig.Positional[1].Name)
	assert.False(t, sig.Positional[1].Required)

	require.Len(t, sig.Named, 3)
	assert.Equal(t, "raw", sig.Named[0].Name)
	assert.Equal(t, hir.NamedSwitch, sig.Named[0].Type)
	assert.Equal(t, 'r', sig.Named[0].Short)
	assert.Equal(t, "limit", sig.Named[1].Name)
	assert.Equal(t, hir.NamedOptional, sig.Named[1].Type)
	assert.Equal(t, hir.ShapeInt, sig.Named[1].Shape)
	assert.Equal(t, "as", sig.Named[2].Name)
	assert.Equal(t, hir.NamedMandatory, sig.Named[2].Type)

	require.NotNil(t, sig.Rest)
	assert.Equal(t, hir.ShapeAny, sig.Rest.Shape)
	assert.Equal(t, "extra values", sig.Rest.Desc)
}

func TestCompileSignatureDefaults(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		command: ls: {
			positional: [{name: "pattern"}]
		}
	`)

	require.NoError(t, v.Err())
	sig, err := CompileSignature(v.LookupPath(cue.ParsePath("command.ls")))
	require.NoError(t, err)

	assert.Equal(t, "ls", sig.Name)
	assert.Empty(t, sig.Usage)
	require.Len(t, sig.Positional, 1)
	// Shape defaults to any; required defaults to false.
	assert.Equal(t, hir.ShapeAny, sig.Positional[0].Shape)
	assert.False(t, sig.Positional[0].Required)
	assert.Nil(t, sig.Rest)
	assert.Empty(t, sig.Named)
}

func TestCompileManifestOrder(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		command: {
			where: {usage: "filter rows"}
			ls: {usage: "list entries"}
			open: {usage: "load a file"}
		}
	`)

	require.NoError(t, v.Err())
	sigs, err := CompileManifest(v)
	require.NoError(t, err)

	require.Len(t, sigs, 3)
	assert.Equal(t, "where", sigs[0].Name)
	assert.Equal(t, "ls", sigs[1].Name)
	assert.Equal(t, "open", sigs[2].Name)
}

func TestCompileManifestErrors(t *testing.T) {
	tests := []struct {
		name     string
		source   string
		expected string
	}{
		{
			"no command struct",
			`other: {}`,
			"manifest has no command struct",
		},
		{
			"empty command struct",
			`command: {}`,
			"at least one command is required",
		},
		{
			"unknown shape",
			`command: ls: {positional: [{name: "x", shape: "blob"}]}`,
			`unknown shape "blob"`,
		},
		{
			"unknown flag type",
			`command: ls: {flag: verbose: {type: "toggle"}}`,
			`unknown flag type "toggle"`,
		},
		{
			"flag without type",
			`command: ls: {flag: verbose: {desc: "chatty"}}`,
			"flag type is required",
		},
		{
			"positional without name",
			`command: ls: {positional: [{shape: "int"}]}`,
			"positional parameter name is required",
		},
		{
			"multi-character short form",
			`command: ls: {flag: all: {type: "switch", short: "al"}}`,
			"short form must be a single character",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := cuecontext.New()
			v := ctx.CompileString(tt.source)
			require.NoError(t, v.Err())

			_, err := CompileManifest(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestCompileErrorFormatting(t *testing.T) {
	e := &CompileError{Field: "ls.flag.all", Message: "flag type is required"}
	assert.Equal(t, "ls.flag.all: flag type is required", e.Error())
}
