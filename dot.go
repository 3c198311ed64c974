package verdict

import (
	"github.com/emicklei/dot"
)

// ToDot renders the rule as a Graphviz DOT digraph with one node declaration per
// rule node and one edge per parent/child pair.
//
// Node statements are named n1, n2, ... in the order the nodes are declared; the
// GraphNode ID of each node is carried in its id attribute.
func ToDot[S any](e Expr[S]) string {
	return buildDotGraph(ToGraph(e), dotStyle).String()
}

// ToMermaid renders the rule as a Mermaid flowchart.
func ToMermaid[S any](e Expr[S]) string {
	return dot.MermaidFlowchart(buildDotGraph(ToGraph(e), mermaidStyle), dot.MermaidTopToBottom)
}

// dotStyle sets Graphviz shapes: ellipses for combinators, rounded boxes for
// attribute tests.
func dotStyle(node dot.Node, op Op) {
	node.Attr("fontname", "helvetica")
	switch op {
	case OpAnd, OpOr, OpNot:
		node.Attr("shape", "ellipse")
	default:
		node.Attr("shape", "box").Attr("style", "rounded")
	}
}

// mermaidStyle sets Mermaid shapes, which must be dot's Mermaid shape values.
func mermaidStyle(node dot.Node, op Op) {
	switch op {
	case OpAnd, OpOr, OpNot:
		node.Attr("shape", dot.MermaidShapeCircle)
	default:
		node.Attr("shape", dot.MermaidShapeRound)
	}
}

// buildDotGraph creates a dot.Graph from the node and edge lists.
func buildDotGraph(g Graph, style func(dot.Node, Op)) *dot.Graph {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "TB")

	nodes := make(map[string]dot.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		node := graph.Node(n.ID).
			Attr("id", n.ID).
			Attr("label", n.Label)
		style(node, n.Op)
		nodes[n.ID] = node
	}
	for _, edge := range g.Edges {
		graph.Edge(nodes[edge.From], nodes[edge.To])
	}
	return graph
}
