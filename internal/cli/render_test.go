package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderText(t *testing.T) {
	treePath, _ := writeSampleTree(t)
	sourcePath := writeSourceFile(t, sampleSource)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{treePath, "--source", sourcePath})

	err := cmd.Execute()
	require.NoError(t, err)

	assert.Equal(t, "{(ls (command ls))}", strings.TrimSpace(buf.String()))
}

func TestRenderWithoutSource(t *testing.T) {
	treePath, _ := writeSampleTree(t)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{treePath})

	err := cmd.Execute()
	require.NoError(t, err)

	// Without source the command word degrades to its placeholder.
	assert.Equal(t, "{(ls (command ))}", strings.TrimSpace(buf.String()))
}

func TestRenderJSON(t *testing.T) {
	treePath, block := writeSampleTree(t)
	sourcePath := writeSourceFile(t, sampleSource)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{treePath, "--source", sourcePath})

	err := cmd.Execute()
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "{(ls (command ls))}", data["rendered"])
	assert.Equal(t, block.Fingerprint(), data["fingerprint"])
}

func TestRenderMissingTree(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"/nonexistent/tree.json"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E005")
}

func TestRenderMalformedTree(t *testing.T) {
	treePath := writeSourceFile(t, "{not a tree}")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewRenderCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{treePath})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "E008")
}
