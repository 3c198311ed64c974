package verdict

import (
	"fmt"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Graph is a node and edge list describing the shape of a rule,
// for visualization and documentation.
type Graph struct {
	Root  string      `json:"root"` // ID of the node representing the whole rule
	Nodes []GraphNode `json:"nodes"`
	Edges []GraphEdge `json:"edges"`
}

// GraphNode is one node of the rule tree.
type GraphNode struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Op    Op     `json:"op"`
}

// GraphEdge connects a parent node to one of its children.
type GraphEdge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// ToGraph returns one GraphNode per node of the rule, in pre-order, and one GraphEdge
// per parent/child pair. A tree with N nodes yields N nodes and N-1 edges.
//
// Node IDs are a 64-bit xxhash of the node's position in the tree and the
// documentation text of its subtree. They are stable across runs, and two equal
// subtrees at different positions get different IDs.
func ToGraph[S any](e Expr[S]) Graph {
	g := Graph{}
	g.Root = addNode(&g, e, "r")
	return g
}

func addNode[S any](g *Graph, e Expr[S], path string) string {
	id := nodeID(path, Document(e))
	g.Nodes = append(g.Nodes, GraphNode{ID: id, Label: label(e), Op: e.Op()})
	for i, child := range children(e) {
		cid := addNode(g, child, path+"."+strconv.Itoa(i))
		g.Edges = append(g.Edges, GraphEdge{From: id, To: cid})
	}
	return id
}

func nodeID(path, canonical string) string {
	h := xxhash.New()
	_, _ = h.WriteString(path)
	_, _ = h.WriteString("|")
	_, _ = h.WriteString(canonical)
	return fmt.Sprintf("n%016x", h.Sum64())
}
