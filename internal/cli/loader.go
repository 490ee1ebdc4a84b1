package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/marlinshell/marlin/internal/hir"
	"github.com/marlinshell/marlin/internal/sigdef"
)

// LoadMode controls how errors are handled during manifest loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading command manifests.
type LoadResult struct {
	Signatures []*hir.Signature
	CUEValue   cue.Value // The raw CUE value for additional processing
	FileCount  int       // Number of CUE files found
}

// LoadError represents an error that occurred during manifest loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadManifests loads and compiles command manifests from a .cue file or
// a directory of .cue files.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadManifests(path string, mode LoadMode) (*LoadResult, []error) {
	var errs []error

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("manifest path not found: %s", path)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing manifest path: %v", err)}}
	}

	var (
		args      []string
		cfg       *load.Config
		fileCount int
	)
	if info.IsDir() {
		cueFiles, err := FindCUEFiles(path)
		if err != nil {
			return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
		}
		if len(cueFiles) == 0 {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", path)}}
		}
		args = []string{"."}
		cfg = &load.Config{Dir: path}
		fileCount = len(cueFiles)
	} else {
		if filepath.Ext(path) != ".cue" {
			return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("not a CUE file: %s", path)}}
		}
		args = []string{filepath.Base(path)}
		cfg = &load.Config{Dir: filepath.Dir(path)}
		fileCount = 1
	}

	instances := load.Instances(args, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	ctx := cuecontext.New()
	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: fileCount,
	}

	commands := value.LookupPath(cue.ParsePath("command"))
	if !commands.Exists() {
		errs = append(errs, &LoadError{Code: ErrCodeNoCommands, Message: "manifest has no command struct"})
		return result, errs
	}

	iter, iterErr := commands.Fields()
	if iterErr != nil {
		errs = append(errs, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("iterating commands: %v", iterErr)})
		return result, errs
	}

	for iter.Next() {
		sig, compileErr := sigdef.CompileSignature(iter.Value())
		if compileErr != nil {
			errs = append(errs, convertCompileError(compileErr, "command."+iter.Label()))
			if mode == LoadModeFailFast {
				return result, errs
			}
			continue
		}
		result.Signatures = append(result.Signatures, sig)
	}

	if len(result.Signatures) == 0 && len(errs) == 0 {
		errs = append(errs, &LoadError{Code: ErrCodeNoCommands, Message: "at least one command is required"})
	}

	return result, errs
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

// convertCompileError converts a sigdef error to a LoadError with position info.
func convertCompileError(err error, context string) *LoadError {
	var compileErr *sigdef.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: compileErr.Message,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: fmt.Sprintf("%s: %v", context, err),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeBadTree     = "E008" // Tree JSON could not be decoded
	ErrCodeCacheMiss   = "E009" // Fingerprint not present in the cache

	// Manifest validation errors
	ErrCodeNoCommands    = "E101" // No commands defined
	ErrCodeBadPositional = "E102" // Invalid positional parameter
	ErrCodeBadFlag       = "E103" // Invalid flag declaration
	ErrCodeBadShape      = "E104" // Unknown syntax shape
	ErrCodeCUESyntax     = "E105" // CUE-level constraint or syntax error
)

// MapFieldToErrorCode maps a manifest error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "command":
		return ErrCodeNoCommands
	case field == "cue":
		return ErrCodeCUESyntax
	case strings.Contains(field, ".positional"):
		return ErrCodeBadPositional
	case strings.Contains(field, ".flag"):
		return ErrCodeBadFlag
	case strings.Contains(field, ".rest"):
		return ErrCodeBadShape
	default:
		return ErrCodeGeneric
	}
}
