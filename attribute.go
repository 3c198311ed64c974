package verdict

// Attribute binds a name to a projection from a subject S to a value of type A.
//
// Attributes are the only way to reference subject data in an expression. Because
// Eq, Gt, Lt and Contains take an Attribute[S, A] and a value of the same A, a rule
// cannot compare an attribute against a value of a different type.
//
// Create each attribute once and share it between rules:
//
//	var Region = verdict.NewAttribute("region", func(a Account) string { return a.Region })
type Attribute[S, A any] struct {
	name string
	get  func(S) A
}

// NewAttribute returns an attribute with the name and projection.
// It panics if the name is empty or get is nil.
func NewAttribute[S, A any](name string, get func(S) A) Attribute[S, A] {
	if name == "" {
		panic("verdict: attribute name is empty")
	}
	if get == nil {
		panic("verdict: attribute " + name + " has a nil projection")
	}
	return Attribute[S, A]{name: name, get: get}
}

// Name returns the symbolic name of the attribute.
func (a Attribute[S, A]) Name() string {
	return a.name
}

// Get projects the attribute value out of the subject.
func (a Attribute[S, A]) Get(s S) A {
	return a.get(s)
}
