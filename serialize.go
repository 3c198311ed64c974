package verdict

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-logr/logr"
	"gopkg.in/yaml.v3"
)

// Node is the serialized form of an expression node.
//
// EQ, GT and LT nodes carry Field and Value; AND and OR carry A and B;
// NOT carries Expr. Other keys must be absent.
//
//	{"type": "AND",
//	 "a": {"type": "EQ", "field": "region", "value": "EMEA"},
//	 "b": {"type": "NOT", "expr": {"type": "EQ", "field": "country", "value": "FR"}}}
type Node struct {
	Type  string `json:"type" yaml:"type"`
	Field string `json:"field,omitempty" yaml:"field,omitempty"`
	Value any    `json:"value,omitempty" yaml:"value,omitempty"`
	A     *Node  `json:"a,omitempty" yaml:"a,omitempty"`
	B     *Node  `json:"b,omitempty" yaml:"b,omitempty"`
	Expr  *Node  `json:"expr,omitempty" yaml:"expr,omitempty"`
}

// MarshalYAML writes the keys of the node's type and nothing else. A leaf always
// carries its value, including zero values such as 0, false or "".
func (n Node) MarshalYAML() (any, error) {
	switch n.Type {
	case OpEQ.String(), OpGT.String(), OpLT.String():
		return struct {
			Type  string `yaml:"type"`
			Field string `yaml:"field"`
			Value any    `yaml:"value"`
		}{n.Type, n.Field, n.Value}, nil
	case OpAnd.String(), OpOr.String():
		return struct {
			Type string `yaml:"type"`
			A    *Node  `yaml:"a"`
			B    *Node  `yaml:"b"`
		}{n.Type, n.A, n.B}, nil
	case OpNot.String():
		return struct {
			Type string `yaml:"type"`
			Expr *Node  `yaml:"expr"`
		}{n.Type, n.Expr}, nil
	}
	type plain Node
	return plain(n), nil
}

// Serialize returns the serialized form of the rule.
func Serialize[S any](e Expr[S]) *Node {
	return Walk[S, *Node](e, serializer[S]{})
}

type serializer[S any] struct{}

func (serializer[S]) VisitEquals(n Leaf[S]) *Node {
	return &Node{Type: OpEQ.String(), Field: n.Field(), Value: n.Value()}
}

func (serializer[S]) VisitCompare(n Leaf[S]) *Node {
	return &Node{Type: n.Op().String(), Field: n.Field(), Value: n.Value()}
}

func (v serializer[S]) VisitAnd(n *Conjunction[S]) *Node {
	return &Node{Type: OpAnd.String(), A: Walk[S, *Node](n.left, v), B: Walk[S, *Node](n.right, v)}
}

func (v serializer[S]) VisitOr(n *Disjunction[S]) *Node {
	return &Node{Type: OpOr.String(), A: Walk[S, *Node](n.left, v), B: Walk[S, *Node](n.right, v)}
}

func (v serializer[S]) VisitNot(n *Negation[S]) *Node {
	return &Node{Type: OpNot.String(), Expr: Walk[S, *Node](n.inner, v)}
}

// EncodeJSON returns the rule in the serialized JSON format.
func EncodeJSON[S any](e Expr[S]) ([]byte, error) {
	return json.Marshal(Serialize(e))
}

// EncodeYAML returns the rule in the serialized format, as YAML.
func EncodeYAML[S any](e Expr[S]) ([]byte, error) {
	return yaml.Marshal(Serialize(e))
}

// DecodeOption configures Decode, DecodeJSON and DecodeYAML.
type DecodeOption func(*decodeOptions)

type decodeOptions struct {
	log logr.Logger
}

// WithLogger logs decoded rules to l at V(1).
func WithLogger(l logr.Logger) DecodeOption {
	return func(o *decodeOptions) {
		o.log = l
	}
}

// DecodeJSON parses a JSON rule and resolves its attributes in reg.
// Unknown keys are rejected, and numbers are kept exact until they are decoded into
// the attribute's type.
func DecodeJSON[S any](data []byte, reg *Registry[S], opts ...DecodeOption) (Expr[S], error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	var n Node
	if err := dec.Decode(&n); err != nil {
		return nil, &MalformedRuleError{Path: "$", Reason: "invalid JSON", Err: err}
	}
	if dec.More() {
		return nil, &MalformedRuleError{Path: "$", Reason: "unexpected data after the rule"}
	}
	return Decode(&n, reg, opts...)
}

// DecodeYAML parses a YAML rule and resolves its attributes in reg.
func DecodeYAML[S any](data []byte, reg *Registry[S], opts ...DecodeOption) (Expr[S], error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	var n Node
	if err := dec.Decode(&n); err != nil {
		return nil, &MalformedRuleError{Path: "$", Reason: "invalid YAML", Err: err}
	}
	return Decode(&n, reg, opts...)
}

// Decode validates the serialized rule against the closed set of node types and
// resolves every field in reg.
//
// It returns an *UnknownAttributeError for a field that is not registered, and a
// *MalformedRuleError for anything else that does not describe a valid rule.
func Decode[S any](n *Node, reg *Registry[S], opts ...DecodeOption) (Expr[S], error) {
	o := decodeOptions{log: logr.Discard()}
	for _, opt := range opts {
		opt(&o)
	}
	if reg == nil {
		return nil, fmt.Errorf("nil registry")
	}
	e, err := decodeNode(n, reg, "$")
	if err != nil {
		return nil, err
	}
	o.log.V(1).Info("decoded rule", "rule", Document(e), "nodes", Count(e), "depth", Depth(e))
	return e, nil
}

func decodeNode[S any](n *Node, reg *Registry[S], path string) (Expr[S], error) {
	if n == nil {
		return nil, &MalformedRuleError{Path: path, Reason: "missing node"}
	}
	op, err := ParseOp(n.Type)
	if err != nil {
		return nil, &MalformedRuleError{Path: path, Reason: "invalid type", Err: err}
	}
	if err := checkKeys(n, op, path); err != nil {
		return nil, err
	}

	switch op {
	case OpEQ, OpGT, OpLT:
		b, ok := reg.Lookup(n.Field)
		if !ok {
			return nil, &UnknownAttributeError{Path: path, Name: n.Field}
		}
		e, err := b.Build(op, n.Value)
		if err != nil {
			return nil, &MalformedRuleError{Path: path, Reason: fmt.Sprintf("bad %s on %q", op, n.Field), Err: err}
		}
		return e, nil
	case OpAnd, OpOr:
		a, err := decodeNode(n.A, reg, path+".a")
		if err != nil {
			return nil, err
		}
		b, err := decodeNode(n.B, reg, path+".b")
		if err != nil {
			return nil, err
		}
		if op == OpAnd {
			return And(a, b), nil
		}
		return Or(a, b), nil
	case OpNot:
		in, err := decodeNode(n.Expr, reg, path+".expr")
		if err != nil {
			return nil, err
		}
		return Not(in), nil
	}
	return nil, &MalformedRuleError{Path: path, Reason: "invalid type", Err: &UnhandledNodeKindError{Op: op}}
}

// checkKeys rejects keys that do not belong to the node type.
func checkKeys(n *Node, op Op, path string) error {
	leaf := n.Field != "" || n.Value != nil
	binary := n.A != nil || n.B != nil
	unary := n.Expr != nil

	var extra string
	switch op {
	case OpEQ, OpGT, OpLT:
		if n.Field == "" {
			return &MalformedRuleError{Path: path, Reason: op.String() + " requires field"}
		}
		if n.Value == nil {
			return &MalformedRuleError{Path: path, Reason: op.String() + " requires value"}
		}
		if binary || unary {
			extra = "a, b or expr"
		}
	case OpAnd, OpOr:
		if leaf || unary {
			extra = "field, value or expr"
		}
	case OpNot:
		if leaf || binary {
			extra = "field, value, a or b"
		}
	}
	if extra != "" {
		return &MalformedRuleError{Path: path, Reason: fmt.Sprintf("%s does not accept %s", op, extra)}
	}
	return nil
}
