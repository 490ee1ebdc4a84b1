package diag

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/marlinshell/marlin/internal/span"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			"labeled with span",
			Labeled(CodeTypeMismatch, "expected a variable", "got binary", span.New(4, 9)),
			"TYPE_MISMATCH: expected a variable (got binary at [4, 9))",
		},
		{
			"span without label",
			&Error{Code: CodeConversion, Message: "decimal cannot be converted to a filesize", Span: span.New(0, 3)},
			"CONVERSION: decimal cannot be converted to a filesize (at [0, 3))",
		},
		{
			"unlocated",
			Untagged(CodeMalformed, "missing kind tag"),
			"MALFORMED: missing kind tag",
		},
		{
			"formatted",
			Untaggedf(CodeMalformed, "unknown unit %q", "XB"),
			`MALFORMED: unknown unit "XB"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestErrorIsError(t *testing.T) {
	var err error = Untagged(CodeParse, "unexpected token")
	assert.EqualError(t, err, "PARSE: unexpected token")
}
