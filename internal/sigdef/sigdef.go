// Package sigdef compiles CUE command manifests into signatures.
//
// A manifest declares the commands a Marlin installation knows about,
// before any source is parsed:
//
//	command: {
//		open: {
//			usage: "load a file into a table"
//			positional: [
//				{name: "path", shape: "path", required: true},
//			]
//			flag: {
//				raw: {type: "switch", short: "r", desc: "skip structured decoding"}
//				limit: {type: "optional", shape: "int"}
//			}
//			rest: {shape: "any", desc: "extra values"}
//		}
//	}
package sigdef

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/marlinshell/marlin/internal/hir"
)

// CompileManifest parses every command under the manifest's "command"
// struct, in declaration order.
func CompileManifest(v cue.Value) ([]*hir.Signature, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	commands := v.LookupPath(cue.ParsePath("command"))
	if !commands.Exists() {
		return nil, &CompileError{
			Field:   "command",
			Message: "manifest has no command struct",
			Pos:     v.Pos(),
		}
	}

	iter, err := commands.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var sigs []*hir.Signature
	for iter.Next() {
		sig, err := CompileSignature(iter.Value())
		if err != nil {
			return nil, err
		}
		sigs = append(sigs, sig)
	}
	if len(sigs) == 0 {
		return nil, &CompileError{
			Field:   "command",
			Message: "at least one command is required",
			Pos:     commands.Pos(),
		}
	}
	return sigs, nil
}

// CompileSignature parses a single command struct into a signature.
// The command name comes from the struct label:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`command: open: { ... }`)
//	sig, err := CompileSignature(v.LookupPath(cue.ParsePath("command.open")))
func CompileSignature(v cue.Value) (*hir.Signature, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	var name string
	labels := v.Path().Selectors()
	if len(labels) > 0 {
		name = labels[len(labels)-1].String()
	}
	if name == "" {
		return nil, &CompileError{
			Field:   "command",
			Message: "command name is required",
			Pos:     v.Pos(),
		}
	}

	sig := hir.NewSignature(name)

	usageVal := v.LookupPath(cue.ParsePath("usage"))
	if usageVal.Exists() {
		usage, err := usageVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		sig.Usage = usage
	}

	if err := parsePositional(v, sig); err != nil {
		return nil, err
	}
	if err := parseFlags(v, sig); err != nil {
		return nil, err
	}
	if err := parseRest(v, sig); err != nil {
		return nil, err
	}

	return sig, nil
}

func parsePositional(v cue.Value, sig *hir.Signature) error {
	posVal := v.LookupPath(cue.ParsePath("positional"))
	if !posVal.Exists() {
		return nil
	}

	iter, err := posVal.List()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		entry := iter.Value()

		argName, err := entry.LookupPath(cue.ParsePath("name")).String()
		if err != nil {
			return &CompileError{
				Field:   fmt.Sprintf("%s.positional", sig.Name),
				Message: "positional parameter name is required",
				Pos:     entry.Pos(),
			}
		}

		shape, err := parseShape(entry, fmt.Sprintf("%s.positional.%s", sig.Name, argName))
		if err != nil {
			return err
		}

		required := false
		reqVal := entry.LookupPath(cue.ParsePath("required"))
		if reqVal.Exists() {
			required, err = reqVal.Bool()
			if err != nil {
				return formatCUEError(err)
			}
		}

		sig.AddPositional(argName, shape, required, optionalString(entry, "desc"))
	}
	return nil
}

func parseFlags(v cue.Value, sig *hir.Signature) error {
	flagVal := v.LookupPath(cue.ParsePath("flag"))
	if !flagVal.Exists() {
		return nil
	}

	iter, err := flagVal.Fields()
	if err != nil {
		return formatCUEError(err)
	}

	for iter.Next() {
		flagName := iter.Label()
		entry := iter.Value()
		field := fmt.Sprintf("%s.flag.%s", sig.Name, flagName)

		typeName, err := entry.LookupPath(cue.ParsePath("type")).String()
		if err != nil {
			return &CompileError{
				Field:   field,
				Message: "flag type is required (switch, optional, or mandatory)",
				Pos:     entry.Pos(),
			}
		}
		flagType, ok := hir.NamedTypeFromString(typeName)
		if !ok {
			return &CompileError{
				Field:   field,
				Message: fmt.Sprintf("unknown flag type %q", typeName),
				Pos:     entry.Pos(),
			}
		}

		short, err := parseShort(entry, field)
		if err != nil {
			return err
		}
		desc := optionalString(entry, "desc")

		if flagType == hir.NamedSwitch {
			sig.AddSwitch(flagName, short, desc)
			continue
		}

		shape, err := parseShape(entry, field)
		if err != nil {
			return err
		}
		if flagType == hir.NamedOptional {
			sig.AddOptionalNamed(flagName, shape, desc)
		} else {
			sig.AddRequiredNamed(flagName, shape, desc)
		}
		if short != 0 {
			sig.Named[len(sig.Named)-1].Short = short
		}
	}
	return nil
}

func parseRest(v cue.Value, sig *hir.Signature) error {
	restVal := v.LookupPath(cue.ParsePath("rest"))
	if !restVal.Exists() {
		return nil
	}
	shape, err := parseShape(restVal, sig.Name+".rest")
	if err != nil {
		return err
	}
	sig.SetRest(shape, optionalString(restVal, "desc"))
	return nil
}

// parseShape reads an optional "shape" field, defaulting to any.
func parseShape(v cue.Value, field string) (hir.SyntaxShape, error) {
	shapeVal := v.LookupPath(cue.ParsePath("shape"))
	if !shapeVal.Exists() {
		return hir.ShapeAny, nil
	}
	name, err := shapeVal.String()
	if err != nil {
		return 0, formatCUEError(err)
	}
	shape, ok := hir.ShapeFromString(name)
	if !ok {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unknown shape %q", name),
			Pos:     shapeVal.Pos(),
		}
	}
	return shape, nil
}

// parseShort reads an optional single-character "short" field.
func parseShort(v cue.Value, field string) (rune, error) {
	shortVal := v.LookupPath(cue.ParsePath("short"))
	if !shortVal.Exists() {
		return 0, nil
	}
	s, err := shortVal.String()
	if err != nil {
		return 0, formatCUEError(err)
	}
	runes := []rune(s)
	if len(runes) != 1 {
		return 0, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("short form must be a single character, got %q", s),
			Pos:     shortVal.Pos(),
		}
	}
	return runes[0], nil
}

func optionalString(v cue.Value, path string) string {
	val := v.LookupPath(cue.ParsePath(path))
	if !val.Exists() {
		return ""
	}
	s, err := val.String()
	if err != nil {
		return ""
	}
	return s
}

// CompileError represents a manifest compilation error with source
// position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
