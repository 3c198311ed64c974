package verdict

// Evaluate reports whether the subject satisfies the rule.
// It is safe to call concurrently on the same rule.
func Evaluate[S any](e Expr[S], s S) bool {
	return Walk[S, bool](e, evaluator[S]{subject: s})
}

type evaluator[S any] struct {
	subject S
}

func (v evaluator[S]) VisitEquals(n Leaf[S]) bool  { return n.Test(v.subject) }
func (v evaluator[S]) VisitCompare(n Leaf[S]) bool { return n.Test(v.subject) }

func (v evaluator[S]) VisitAnd(n *Conjunction[S]) bool {
	return Walk[S, bool](n.left, v) && Walk[S, bool](n.right, v)
}

func (v evaluator[S]) VisitOr(n *Disjunction[S]) bool {
	return Walk[S, bool](n.left, v) || Walk[S, bool](n.right, v)
}

func (v evaluator[S]) VisitNot(n *Negation[S]) bool {
	return !Walk[S, bool](n.inner, v)
}
