package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/marlinshell/marlin/internal/hir"
	"github.com/marlinshell/marlin/internal/span"
)

// sampleSource is the text the sample tree's spans point into.
const sampleSource = "ls"

// writeSampleTree encodes a one-command tree to a temp file and returns
// its path alongside the block itself.
func writeSampleTree(t *testing.T) (string, *hir.Block) {
	t.Helper()

	block := hir.BasicBlock()
	pipe := hir.BasicPipeline()
	pipe.Push(hir.NewInternalCommand("ls", span.New(0, 2), span.New(0, 2)))
	group := hir.BasicGroup()
	group.Push(*pipe)
	block.Push(group)

	return writeTreeFile(t, block), block
}

// writeVarTree builds a tree that references the contextual binder and
// one unbound variable.
func writeVarTree(t *testing.T) (string, *hir.Block) {
	t.Helper()

	block := hir.BasicBlock()
	pipe := hir.BasicPipeline()
	pipe.Push(hir.ExprCommand{Expr: hir.NewSpannedExpr(hir.Var{Name: hir.ItVar, Span: span.New(0, 3)}, span.New(0, 3))})
	pipe.Push(hir.ExprCommand{Expr: hir.NewSpannedExpr(hir.Var{Name: "$x", Span: span.New(6, 8)}, span.New(6, 8))})
	group := hir.BasicGroup()
	group.Push(*pipe)
	block.Push(group)

	return writeTreeFile(t, block), block
}

func writeTreeFile(t *testing.T, block *hir.Block) string {
	t.Helper()

	data, err := hir.EncodeBlock(block)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "tree.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func writeSourceFile(t *testing.T, source string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "source.mrl")
	require.NoError(t, os.WriteFile(path, []byte(source), 0o644))
	return path
}

func writeManifest(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "commands.cue")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const sampleManifest = `package test

command: {
	where: {
		usage: "filter rows by condition"
		positional: [
			{name: "condition", shape: "block", required: true},
		]
	}
	ls: {
		positional: [
			{name: "pattern", shape: "path"},
		]
		flag: {
			all: {type: "switch", short: "a", desc: "include hidden entries"}
			depth: {type: "optional", shape: "int"}
		}
	}
}
`
