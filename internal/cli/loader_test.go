package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadManifests_SingleFile(t *testing.T) {
	path := writeManifest(t, sampleManifest)

	result, errs := LoadManifests(path, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)

	assert.Equal(t, 1, result.FileCount)
	require.Len(t, result.Signatures, 2)
	assert.Equal(t, "where", result.Signatures[0].Name)
	assert.Equal(t, "ls", result.Signatures[1].Name)
}

func TestLoadManifests_Directory(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "commands.cue"), []byte(sampleManifest), 0o644))

	result, errs := LoadManifests(dir, LoadModeFailFast)
	require.Empty(t, errs)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.FileCount)
	assert.Len(t, result.Signatures, 2)
}

func TestLoadManifests_NotFound(t *testing.T) {
	result, errs := LoadManifests("/nonexistent/manifests", LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNotFound, loadErr.Code)
}

func TestLoadManifests_EmptyDirectory(t *testing.T) {
	result, errs := LoadManifests(t.TempDir(), LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadManifests_NotCUEFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commands.yaml")
	require.NoError(t, os.WriteFile(path, []byte("command: {}"), 0o644))

	result, errs := LoadManifests(path, LoadModeFailFast)
	assert.Nil(t, result)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadManifests_NoCommandStruct(t *testing.T) {
	path := writeManifest(t, `other: {a: 1}`)

	_, errs := LoadManifests(path, LoadModeFailFast)
	require.Len(t, errs, 1)

	loadErr, ok := errs[0].(*LoadError)
	require.True(t, ok)
	assert.Equal(t, ErrCodeNoCommands, loadErr.Code)
}

func TestLoadManifests_CollectAll(t *testing.T) {
	// Two commands with bad flag declarations collect two errors.
	path := writeManifest(t, `
command: {
	a: {flag: {x: {}}}
	b: {flag: {y: {type: "bogus"}}}
}
`)

	result, errs := LoadManifests(path, LoadModeCollectAll)
	require.NotNil(t, result)
	require.Len(t, errs, 2)

	for _, err := range errs {
		loadErr, ok := err.(*LoadError)
		require.True(t, ok)
		assert.Equal(t, ErrCodeBadFlag, loadErr.Code)
	}
}

func TestLoadManifests_FailFast(t *testing.T) {
	path := writeManifest(t, `
command: {
	a: {flag: {x: {}}}
	b: {flag: {y: {type: "bogus"}}}
}
`)

	_, errs := LoadManifests(path, LoadModeFailFast)
	assert.Len(t, errs, 1)
}

func TestFindCUEFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.cue"), []byte("a: 1"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "c.cue"), []byte("c: 1"), 0o644))

	files, err := FindCUEFiles(dir)
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

func TestMapFieldToErrorCode(t *testing.T) {
	tests := []struct {
		field string
		want  string
	}{
		{"command", ErrCodeNoCommands},
		{"cue", ErrCodeCUESyntax},
		{"ls.positional", ErrCodeBadPositional},
		{"ls.positional.pattern", ErrCodeBadPositional},
		{"ls.flag.all", ErrCodeBadFlag},
		{"open.rest", ErrCodeBadShape},
		{"mystery", ErrCodeGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, MapFieldToErrorCode(tt.field))
		})
	}
}

func TestLoadError_Format(t *testing.T) {
	err := &LoadError{Code: ErrCodeNoFiles, Message: "no CUE files found in specs"}
	assert.Equal(t, "E003: no CUE files found in specs", err.Error())
}
