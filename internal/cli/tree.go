package cli

import (
	"fmt"
	"os"

	"github.com/marlinshell/marlin/internal/hir"
)

// readTree loads an encoded block from a JSON file.
func readTree(path string) (*hir.Block, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading tree: %v", err)}
	}

	block, err := hir.DecodeBlock(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeBadTree, Message: fmt.Sprintf("decoding tree: %v", err)}
	}

	return block, nil
}

// readSource loads the original source text, or returns "" when no path
// was given. Rendering degrades to placeholder words without it.
func readSource(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("reading source: %v", err)}
	}
	return string(data), nil
}

// outputLoadError renders a load error and wraps it in a command-level
// exit code.
func outputLoadError(formatter *OutputFormatter, err error) error {
	if loadErr, ok := err.(*LoadError); ok {
		_ = formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, loadErr.Error(), nil)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}
