package verdict

import (
	"cmp"
	"fmt"
	"time"
)

// Op identifies the kind of an expression node.
// The set of kinds is closed; every interpreter handles exactly these.
type Op int

const (
	OpEQ Op = iota + 1
	OpGT
	OpLT
	OpAnd
	OpOr
	OpNot
)

// Ops lists every node kind in declaration order.
var Ops = []Op{OpEQ, OpGT, OpLT, OpAnd, OpOr, OpNot}

// String returns the tag used for the kind in the serialized rule format.
func (o Op) String() string {
	switch o {
	case OpEQ:
		return "EQ"
	case OpGT:
		return "GT"
	case OpLT:
		return "LT"
	case OpAnd:
		return "AND"
	case OpOr:
		return "OR"
	case OpNot:
		return "NOT"
	default:
		return fmt.Sprintf("Op(%d)", int(o))
	}
}

// ParseOp returns the kind with the serialized tag s.
func ParseOp(s string) (Op, error) {
	for _, o := range Ops {
		if o.String() == s {
			return o, nil
		}
	}
	return 0, fmt.Errorf("unknown node type %q", s)
}

// MarshalText encodes the kind as its serialized tag.
func (o Op) MarshalText() ([]byte, error) {
	if o < OpEQ || o > OpNot {
		return nil, fmt.Errorf("invalid node kind %d", int(o))
	}
	return []byte(o.String()), nil
}

// UnmarshalText decodes a serialized tag.
func (o *Op) UnmarshalText(b []byte) error {
	op, err := ParseOp(string(b))
	if err != nil {
		return err
	}
	*o = op
	return nil
}

// Expr is a node in an immutable rule tree evaluated against subjects of type S.
//
// The set of implementations is closed: *Equality, *Comparison, *Conjunction,
// *Disjunction and *Negation. Build expressions with Eq, Gt, Lt, And, Or, Not,
// Any, All and Contains.
type Expr[S any] interface {
	// Op returns the kind of the node.
	Op() Op
	expr(S)
}

// Leaf is implemented by the nodes that test an attribute: *Equality and *Comparison.
type Leaf[S any] interface {
	Expr[S]
	// Field returns the name of the attribute tested.
	Field() string
	// Value returns the literal the attribute is tested against.
	Value() any
	// Observe returns the attribute value of the subject.
	Observe(s S) any
	// Test reports whether the subject satisfies the node.
	Test(s S) bool
}

// Equality tests an attribute for equality with a value.
type Equality[S, A any] struct {
	attr  Attribute[S, A]
	value A
	equal func(a, b A) bool
}

func (*Equality[S, A]) expr(S)                      {}
func (*Equality[S, A]) Op() Op                       { return OpEQ }
func (n *Equality[S, A]) Field() string              { return n.attr.Name() }
func (n *Equality[S, A]) Value() any                 { return n.value }
func (n *Equality[S, A]) Observe(s S) any            { return n.attr.Get(s) }
func (n *Equality[S, A]) Test(s S) bool              { return n.equal(n.attr.Get(s), n.value) }
func (n *Equality[S, A]) Attribute() Attribute[S, A] { return n.attr }

// Comparison tests whether an attribute is greater than (OpGT) or less than (OpLT) a value.
type Comparison[S, A any] struct {
	attr    Attribute[S, A]
	value   A
	op      Op
	compare func(a, b A) int
}

func (*Comparison[S, A]) expr(S)                      {}
func (n *Comparison[S, A]) Op() Op                    { return n.op }
func (n *Comparison[S, A]) Field() string             { return n.attr.Name() }
func (n *Comparison[S, A]) Value() any                { return n.value }
func (n *Comparison[S, A]) Observe(s S) any           { return n.attr.Get(s) }
func (n *Comparison[S, A]) Attribute() Attribute[S, A] { return n.attr }

func (n *Comparison[S, A]) Test(s S) bool {
	c := n.compare(n.attr.Get(s), n.value)
	if n.op == OpGT {
		return c > 0
	}
	return c < 0
}

// Conjunction is true when both children are true.
type Conjunction[S any] struct {
	left, right Expr[S]
}

func (*Conjunction[S]) expr(S)           {}
func (*Conjunction[S]) Op() Op           { return OpAnd }
func (n *Conjunction[S]) Left() Expr[S]  { return n.left }
func (n *Conjunction[S]) Right() Expr[S] { return n.right }

// Disjunction is true when either child is true.
type Disjunction[S any] struct {
	left, right Expr[S]
}

func (*Disjunction[S]) expr(S)           {}
func (*Disjunction[S]) Op() Op           { return OpOr }
func (n *Disjunction[S]) Left() Expr[S]  { return n.left }
func (n *Disjunction[S]) Right() Expr[S] { return n.right }

// Negation inverts its child.
type Negation[S any] struct {
	inner Expr[S]
}

func (*Negation[S]) expr(S)           {}
func (*Negation[S]) Op() Op           { return OpNot }
func (n *Negation[S]) Inner() Expr[S] { return n.inner }

// Eq returns a rule that is true when the attribute equals v.
func Eq[S any, A comparable](attr Attribute[S, A], v A) Expr[S] {
	return EqFunc(attr, v, func(a, b A) bool { return a == b })
}

// EqFunc is like Eq but uses equal to compare values, for types such as time.Time
// where == is not the right notion of equality.
func EqFunc[S, A any](attr Attribute[S, A], v A, equal func(a, b A) bool) Expr[S] {
	mustAttribute(attr)
	if equal == nil {
		panic("verdict: nil equality function")
	}
	return &Equality[S, A]{attr: attr, value: v, equal: equal}
}

// Gt returns a rule that is true when the attribute is greater than v.
func Gt[S any, A cmp.Ordered](attr Attribute[S, A], v A) Expr[S] {
	return GtFunc(attr, v, cmp.Compare[A])
}

// Lt returns a rule that is true when the attribute is less than v.
func Lt[S any, A cmp.Ordered](attr Attribute[S, A], v A) Expr[S] {
	return LtFunc(attr, v, cmp.Compare[A])
}

// GtFunc is like Gt for types ordered by compare, which returns
// a negative number when a < b, zero when a == b and a positive number when a > b.
func GtFunc[S, A any](attr Attribute[S, A], v A, compare func(a, b A) int) Expr[S] {
	return newComparison(attr, v, OpGT, compare)
}

// LtFunc is like Lt for types ordered by compare.
func LtFunc[S, A any](attr Attribute[S, A], v A, compare func(a, b A) int) Expr[S] {
	return newComparison(attr, v, OpLT, compare)
}

func newComparison[S, A any](attr Attribute[S, A], v A, op Op, compare func(a, b A) int) Expr[S] {
	mustAttribute(attr)
	if compare == nil {
		panic("verdict: nil compare function")
	}
	return &Comparison[S, A]{attr: attr, value: v, op: op, compare: compare}
}

// And returns a rule that is true when both a and b are true.
// The operands are not modified and may be shared with other rules.
func And[S any](a, b Expr[S]) Expr[S] {
	mustExpr(a, b)
	return &Conjunction[S]{left: a, right: b}
}

// Or returns a rule that is true when a or b is true.
func Or[S any](a, b Expr[S]) Expr[S] {
	mustExpr(a, b)
	return &Disjunction[S]{left: a, right: b}
}

// Not returns a rule that is true when e is false.
// Double negation is not simplified.
func Not[S any](e Expr[S]) Expr[S] {
	mustExpr(e)
	return &Negation[S]{inner: e}
}

// Any folds the rules together with Or, from the left.
func Any[S any](first Expr[S], rest ...Expr[S]) Expr[S] {
	mustExpr(first)
	e := first
	for _, r := range rest {
		e = Or(e, r)
	}
	return e
}

// All folds the rules together with And, from the left.
func All[S any](first Expr[S], rest ...Expr[S]) Expr[S] {
	mustExpr(first)
	e := first
	for _, r := range rest {
		e = And(e, r)
	}
	return e
}

// Contains returns a rule that is true when the attribute equals any of the values.
func Contains[S any, A comparable](attr Attribute[S, A], first A, rest ...A) Expr[S] {
	terms := make([]Expr[S], 0, len(rest))
	for _, v := range rest {
		terms = append(terms, Eq(attr, v))
	}
	return Any(Eq(attr, first), terms...)
}

func mustAttribute[S, A any](attr Attribute[S, A]) {
	if attr.get == nil {
		panic("verdict: attribute was not created with NewAttribute")
	}
}

func mustExpr[S any](es ...Expr[S]) {
	for _, e := range es {
		if e == nil {
			panic("verdict: nil expression")
		}
	}
}

// formatValue renders a literal or observed value for explanations and documentation.
func formatValue(v any) string {
	switch t := v.(type) {
	case time.Time:
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
