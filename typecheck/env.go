package typecheck

// Environment is a chain of scopes mapping variable names to types.
// Lookup walks outward to the parent; a child's bindings shadow it.
type Environment struct {
	parent   *Environment
	bindings map[string]Type
}

func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		parent:   parent,
		bindings: map[string]Type{},
	}
}

func (e *Environment) Define(name string, t Type) {
	e.bindings[name] = t
}

func (e *Environment) Lookup(name string) (Type, bool) {
	if t, ok := e.bindings[name]; ok {
		return t, true
	}
	if e.parent != nil {
		return e.parent.Lookup(name)
	}
	return nil, false
}

func (e *Environment) Child() *Environment {
	return NewEnvironment(e)
}
