package verdict

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Result of explaining a rule against a subject.
type Result struct {
	// Whether the node is true for the subject.
	// Matched always equals what Evaluate returns for the same node and subject.
	Matched bool

	// What the rule requires, e.g. (region=EMEA AND not(country=FR))
	Expected string

	// What was observed on the subject, in the same shape as Expected,
	// e.g. (region=EMEA AND country=FR)
	Found string

	// The kind of node that produced this result
	Op Op

	// Results of the child nodes, left to right. Empty for attribute tests.
	Results []*Result
}

// Explain evaluates the rule against the subject and describes why it matched or not.
func Explain[S any](e Expr[S], s S) *Result {
	return Walk[S, *Result](e, explainer[S]{subject: s})
}

type explainer[S any] struct {
	subject S
}

func (v explainer[S]) VisitEquals(n Leaf[S]) *Result {
	return &Result{
		Matched:  n.Test(v.subject),
		Expected: n.Field() + "=" + formatValue(n.Value()),
		Found:    n.Field() + "=" + formatValue(n.Observe(v.subject)),
		Op:       OpEQ,
	}
}

func (v explainer[S]) VisitCompare(n Leaf[S]) *Result {
	sym := ">"
	if n.Op() == OpLT {
		sym = "<"
	}
	return &Result{
		Matched:  n.Test(v.subject),
		Expected: n.Field() + sym + formatValue(n.Value()),
		Found:    n.Field() + "=" + formatValue(n.Observe(v.subject)),
		Op:       n.Op(),
	}
}

func (v explainer[S]) VisitAnd(n *Conjunction[S]) *Result {
	l := Walk[S, *Result](n.left, v)
	r := Walk[S, *Result](n.right, v)
	return binaryResult(OpAnd, l.Matched && r.Matched, l, r)
}

func (v explainer[S]) VisitOr(n *Disjunction[S]) *Result {
	l := Walk[S, *Result](n.left, v)
	r := Walk[S, *Result](n.right, v)
	return binaryResult(OpOr, l.Matched || r.Matched, l, r)
}

func (v explainer[S]) VisitNot(n *Negation[S]) *Result {
	in := Walk[S, *Result](n.inner, v)
	return &Result{
		Matched:  !in.Matched,
		Expected: "not(" + in.Expected + ")",
		Found:    in.Found,
		Op:       OpNot,
		Results:  []*Result{in},
	}
}

func binaryResult(op Op, matched bool, l, r *Result) *Result {
	return &Result{
		Matched:  matched,
		Expected: "(" + l.Expected + " " + op.String() + " " + r.Expected + ")",
		Found:    "(" + l.Found + " " + op.String() + " " + r.Found + ")",
		Op:       op,
		Results:  []*Result{l, r},
	}
}

// String renders the result and its children as a table, one row per node.
func (u *Result) String() string {
	tw := table.NewWriter()
	tw.SetTitle("\nVERDICT EXPLANATION\n")
	tw.AppendHeader(table.Row{"\nNode", "Pass/\nFail", "\nExpected", "\nFound"})
	for _, r := range u.resultsToRows(0) {
		tw.AppendRow(r)
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 3, WidthMax: 60},
		{Number: 4, WidthMax: 60},
	})
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	tw.SetStyle(style)
	return tw.Render()
}

func boolString(b bool) string {
	switch b {
	case true:
		return "PASS"
	default:
		return "FAIL"
	}
}

// resultsToRows flattens the result tree to table rows in pre-order,
// indenting each row by its depth.
func (u *Result) resultsToRows(n int) []table.Row {
	indent := strings.Repeat("  ", n)
	rows := []table.Row{{
		fmt.Sprintf("%s%s", indent, u.Op),
		boolString(u.Matched),
		u.Expected,
		u.Found,
	}}
	for _, c := range u.Results {
		rows = append(rows, c.resultsToRows(n+1)...)
	}
	return rows
}
