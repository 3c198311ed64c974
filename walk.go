package verdict

// Visitor is implemented by interpreters of the expression tree. It has exactly one
// method per node kind, so an interpreter that does not handle every kind does not
// compile.
type Visitor[S, R any] interface {
	VisitEquals(n Leaf[S]) R
	VisitCompare(n Leaf[S]) R
	VisitAnd(n *Conjunction[S]) R
	VisitOr(n *Disjunction[S]) R
	VisitNot(n *Negation[S]) R
}

// Walk dispatches e to the visitor method for its kind. Visitors recurse into
// children by calling Walk again.
//
// Walk panics with an *UnhandledNodeKindError if e reports a kind outside Ops.
func Walk[S, R any](e Expr[S], v Visitor[S, R]) R {
	switch e.Op() {
	case OpEQ:
		return v.VisitEquals(e.(Leaf[S]))
	case OpGT, OpLT:
		return v.VisitCompare(e.(Leaf[S]))
	case OpAnd:
		return v.VisitAnd(e.(*Conjunction[S]))
	case OpOr:
		return v.VisitOr(e.(*Disjunction[S]))
	case OpNot:
		return v.VisitNot(e.(*Negation[S]))
	}
	panic(&UnhandledNodeKindError{Op: e.Op()})
}

// children returns the direct children of e, left to right.
func children[S any](e Expr[S]) []Expr[S] {
	switch n := e.(type) {
	case *Conjunction[S]:
		return []Expr[S]{n.left, n.right}
	case *Disjunction[S]:
		return []Expr[S]{n.left, n.right}
	case *Negation[S]:
		return []Expr[S]{n.inner}
	}
	return nil
}

// Count returns the number of nodes in the tree. A subtree shared by two parents
// is counted once per parent.
func Count[S any](e Expr[S]) int {
	c := 1
	for _, ch := range children(e) {
		c += Count(ch)
	}
	return c
}

// Depth returns the number of nodes on the longest path from e to a leaf.
func Depth[S any](e Expr[S]) int {
	d := 0
	for _, ch := range children(e) {
		d = max(d, Depth(ch))
	}
	return d + 1
}
