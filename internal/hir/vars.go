package hir

// Variable usage traversal. Two related walks with different scoping
// rules:
//
//   - HasVarUsage looks through subexpressions but stops at block
//     literals: a block literal binds its own parameters, so a reference
//     inside it is not a usage by the enclosing scope.
//   - FreeVariables descends into both, extending the known set with each
//     block's positional parameter names on the way down.

// HasVarUsage reports whether the expression references the named
// variable.
func (se SpannedExpr) HasVarUsage(name string) bool {
	switch e := se.Expr.(type) {
	case Var:
		return e.Name == name
	case Binary:
		return e.Left.HasVarUsage(name) || e.Right.HasVarUsage(name)
	case Range:
		if e.Left != nil && e.Left.HasVarUsage(name) {
			return true
		}
		return e.Right != nil && e.Right.HasVarUsage(name)
	case Subexpression:
		return e.Block.HasVarUsage(name)
	case List:
		for _, item := range e.Items {
			if item.HasVarUsage(name) {
				return true
			}
		}
		return false
	case Table:
		for _, h := range e.Headers {
			if h.HasVarUsage(name) {
				return true
			}
		}
		for _, row := range e.Rows {
			for _, cell := range row {
				if cell.HasVarUsage(name) {
					return true
				}
			}
		}
		return false
	case FullColumnPath:
		return e.Head.HasVarUsage(name)
	default:
		return false
	}
}

// FreeVariables collects variable names referenced in the expression that
// are not in known.
func (se SpannedExpr) FreeVariables(known []string) []string {
	var free []string
	switch e := se.Expr.(type) {
	case Var:
		if !contains(known, e.Name) {
			free = append(free, e.Name)
		}
	case Binary:
		free = append(free, e.Left.FreeVariables(known)...)
		free = append(free, e.Right.FreeVariables(known)...)
	case Range:
		if e.Left != nil {
			free = append(free, e.Left.FreeVariables(known)...)
		}
		if e.Right != nil {
			free = append(free, e.Right.FreeVariables(known)...)
		}
	case BlockExpr:
		free = append(free, e.Block.FreeVariables(known)...)
	case Subexpression:
		free = append(free, e.Block.FreeVariables(known)...)
	case List:
		for _, item := range e.Items {
			free = append(free, item.FreeVariables(known)...)
		}
	case Table:
		for _, h := range e.Headers {
			free = append(free, h.FreeVariables(known)...)
		}
		for _, row := range e.Rows {
			for _, cell := range row {
				free = append(free, cell.FreeVariables(known)...)
			}
		}
	case FullColumnPath:
		free = append(free, e.Head.FreeVariables(known)...)
	}
	return free
}

// HasVarUsage reports whether the call's head or any argument references
// the named variable.
func (c *Call) HasVarUsage(name string) bool {
	if c.Head != nil && c.Head.HasVarUsage(name) {
		return true
	}
	for _, pos := range c.Positional {
		if pos.HasVarUsage(name) {
			return true
		}
	}
	return c.Named != nil && c.Named.HasVarUsage(name)
}

// FreeVariables collects unbound variable names from the call's head and
// arguments.
func (c *Call) FreeVariables(known []string) []string {
	var free []string
	if c.Head != nil {
		free = append(free, c.Head.FreeVariables(known)...)
	}
	for _, pos := range c.Positional {
		free = append(free, pos.FreeVariables(known)...)
	}
	if c.Named != nil {
		free = append(free, c.Named.FreeVariables(known)...)
	}
	return free
}

// HasVarUsage reports whether any named argument value references the
// named variable.
func (na *NamedArguments) HasVarUsage(name string) bool {
	for _, key := range na.keys {
		if expr := na.values[key].Contents(); expr != nil && expr.HasVarUsage(name) {
			return true
		}
	}
	return false
}

// FreeVariables collects unbound variable names from the named argument
// values, in insertion order.
func (na *NamedArguments) FreeVariables(known []string) []string {
	var free []string
	for _, key := range na.keys {
		if expr := na.values[key].Contents(); expr != nil {
			free = append(free, expr.FreeVariables(known)...)
		}
	}
	return free
}

func (c ExprCommand) HasVarUsage(name string) bool {
	return c.Expr.HasVarUsage(name)
}

func (c ExprCommand) FreeVariables(known []string) []string {
	return c.Expr.FreeVariables(known)
}

func (c DynamicCommand) HasVarUsage(name string) bool {
	return c.Call.HasVarUsage(name)
}

func (c DynamicCommand) FreeVariables(known []string) []string {
	return c.Call.FreeVariables(known)
}

func (c *InternalCommand) HasVarUsage(name string) bool {
	return c.Args.HasVarUsage(name)
}

func (c *InternalCommand) FreeVariables(known []string) []string {
	return c.Args.FreeVariables(known)
}

func (ErrorCommand) HasVarUsage(string) bool { return false }

func (ErrorCommand) FreeVariables([]string) []string { return nil }

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
