package verdict

import "fmt"

// MalformedRuleError is returned when a serialized rule does not describe a valid
// expression: an unknown type tag, missing or unexpected keys, or a value whose shape
// does not match the attribute's type.
type MalformedRuleError struct {
	Path   string // location of the offending node, e.g. $.a.expr
	Reason string
	Err    error // underlying cause, if any
}

func (e *MalformedRuleError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed rule at %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed rule at %s: %s", e.Path, e.Reason)
}

func (e *MalformedRuleError) Unwrap() error { return e.Err }

// UnknownAttributeError is returned when a serialized rule references an attribute
// that is not in the registry.
type UnknownAttributeError struct {
	Path string
	Name string
}

func (e *UnknownAttributeError) Error() string {
	return fmt.Sprintf("unknown attribute %q at %s", e.Name, e.Path)
}

// UnhandledNodeKindError is the panic value raised when an interpreter meets a node
// kind it does not handle.
type UnhandledNodeKindError struct {
	Op Op
}

func (e *UnhandledNodeKindError) Error() string {
	return fmt.Sprintf("unhandled node kind %s", e.Op)
}
