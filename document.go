package verdict

import "strings"

// Document renders the rule as text without reference to any subject, e.g.
//
//	(region = EMEA AND NOT ((country = US OR country = FR)))
func Document[S any](e Expr[S]) string {
	return Walk[S, string](e, documenter[S]{})
}

type documenter[S any] struct{}

func (documenter[S]) VisitEquals(n Leaf[S]) string {
	return n.Field() + " = " + formatValue(n.Value())
}

func (documenter[S]) VisitCompare(n Leaf[S]) string {
	if n.Op() == OpLT {
		return n.Field() + " < " + formatValue(n.Value())
	}
	return n.Field() + " > " + formatValue(n.Value())
}

func (d documenter[S]) VisitAnd(n *Conjunction[S]) string {
	return "(" + Walk[S, string](n.left, d) + " AND " + Walk[S, string](n.right, d) + ")"
}

func (d documenter[S]) VisitOr(n *Disjunction[S]) string {
	return "(" + Walk[S, string](n.left, d) + " OR " + Walk[S, string](n.right, d) + ")"
}

func (d documenter[S]) VisitNot(n *Negation[S]) string {
	return "NOT (" + Walk[S, string](n.inner, d) + ")"
}

// label is the text shown for a single node: the documentation of an attribute test,
// or the keyword of a combinator.
func label[S any](e Expr[S]) string {
	switch e.Op() {
	case OpAnd, OpOr, OpNot:
		return e.Op().String()
	}
	return Document(e)
}

// Tree returns an outline of the rule with one node per line.
// Recursion is limited to a maximum depth of 50 levels.
//
// Example output:
//
//	AND
//	├── region = EMEA
//	└── NOT
//	    └── OR
//	        ├── country = US
//	        └── country = FR
func Tree[S any](e Expr[S]) string {
	var sb strings.Builder
	sb.WriteString(label(e))
	sb.WriteString("\n")
	buildTree(&sb, e, "", 0)
	return sb.String()
}

// buildTree writes the children of e with the tree characters ├──, └── and │.
func buildTree[S any](sb *strings.Builder, e Expr[S], prefix string, depth int) {
	if depth >= 50 {
		return
	}
	kids := children(e)
	for i, child := range kids {
		var connector, childPrefix string
		if i == len(kids)-1 {
			connector = "└── "
			childPrefix = "    "
		} else {
			connector = "├── "
			childPrefix = "│   "
		}
		sb.WriteString(prefix)
		sb.WriteString(connector)
		sb.WriteString(label(child))
		sb.WriteString("\n")
		buildTree(sb, child, prefix+childPrefix, depth+1)
	}
}
