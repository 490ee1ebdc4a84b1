package hir

// SyntaxShape is the closed set of value shapes a parameter accepts.
type SyntaxShape int

const (
	ShapeAny SyntaxShape = iota
	ShapeInt
	ShapeNumber
	ShapeString
	ShapeFilePath
	ShapeBlock
	ShapeTable
)

var shapeNames = [...]string{
	ShapeAny:      "any",
	ShapeInt:      "int",
	ShapeNumber:   "number",
	ShapeString:   "string",
	ShapeFilePath: "path",
	ShapeBlock:    "block",
	ShapeTable:    "table",
}

// String returns the shape's manifest name.
func (s SyntaxShape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "?"
}

// ShapeFromString parses a manifest shape name.
func ShapeFromString(s string) (SyntaxShape, bool) {
	for i, name := range shapeNames {
		if name == s {
			return SyntaxShape(i), true
		}
	}
	return 0, false
}

// NamedType distinguishes how a declared named parameter binds.
type NamedType int

const (
	// NamedSwitch is a boolean flag with no value.
	NamedSwitch NamedType = iota

	// NamedOptional is a value-accepting flag the caller may omit.
	NamedOptional

	// NamedMandatory is a value-accepting flag the caller must supply.
	NamedMandatory
)

// String returns the named type's manifest name.
func (t NamedType) String() string {
	switch t {
	case NamedSwitch:
		return "switch"
	case NamedOptional:
		return "optional"
	case NamedMandatory:
		return "mandatory"
	}
	return "?"
}

// PositionalArg declares one positional parameter.
type PositionalArg struct {
	Name     string      `json:"name"`
	Shape    SyntaxShape `json:"shape"`
	Required bool        `json:"required"`
	Desc     string      `json:"desc,omitempty"`
}

// RestArg declares a trailing variadic parameter.
type RestArg struct {
	Shape SyntaxShape `json:"shape"`
	Desc  string      `json:"desc,omitempty"`
}

// NamedParam declares one named parameter. Declaration order is
// significant: it drives the pre-population order on a Call.
type NamedParam struct {
	Name  string      `json:"name"`
	Type  NamedType   `json:"type"`
	Shape SyntaxShape `json:"shape"`
	Short rune        `json:"short,omitempty"`
	Desc  string      `json:"desc,omitempty"`
}

// Signature is a command's declared parameter surface: ordered positional
// parameters, an optional rest parameter, and ordered named parameters.
type Signature struct {
	Name       string          `json:"name"`
	Usage      string          `json:"usage,omitempty"`
	Positional []PositionalArg `json:"positional,omitempty"`
	Rest       *RestArg        `json:"rest,omitempty"`
	Named      []NamedParam    `json:"named,omitempty"`
}

// NewSignature creates an empty signature for the named command.
func NewSignature(name string) *Signature {
	return &Signature{Name: name}
}

// AddPositional appends a positional parameter declaration.
func (s *Signature) AddPositional(name string, shape SyntaxShape, required bool, desc string) *Signature {
	s.Positional = append(s.Positional, PositionalArg{Name: name, Shape: shape, Required: required, Desc: desc})
	return s
}

// AddSwitch appends a boolean flag declaration. short is 0 for none.
func (s *Signature) AddSwitch(name string, short rune, desc string) *Signature {
	s.Named = append(s.Named, NamedParam{Name: name, Type: NamedSwitch, Short: short, Desc: desc})
	return s
}

// AddOptionalNamed appends an optional value-flag declaration.
func (s *Signature) AddOptionalNamed(name string, shape SyntaxShape, desc string) *Signature {
	s.Named = append(s.Named, NamedParam{Name: name, Type: NamedOptional, Shape: shape, Desc: desc})
	return s
}

// AddRequiredNamed appends a mandatory value-flag declaration.
func (s *Signature) AddRequiredNamed(name string, shape SyntaxShape, desc string) *Signature {
	s.Named = append(s.Named, NamedParam{Name: name, Type: NamedMandatory, Shape: shape, Desc: desc})
	return s
}

// SetRest declares the trailing variadic parameter.
func (s *Signature) SetRest(shape SyntaxShape, desc string) *Signature {
	s.Rest = &RestArg{Shape: shape, Desc: desc}
	return s
}
