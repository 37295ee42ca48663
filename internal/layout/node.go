// Package layout positions the three taxonomy hierarchies on concentric rings.
package layout

import (
	"github.com/matsen/ringmap/internal/geom"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// NodeKey identifies a node within one built diagram. Keys are dense indexes
// into the diagram's node arena and do not survive a rebuild.
type NodeKey int

// Node is a positioned hierarchy entry.
type Node struct {
	Key  NodeKey
	ID   string
	Name string
	// Type is the effective type: the declared type, else the nearest typed
	// ancestor's, else the hierarchy's.
	Type      taxonomy.ModuleType
	Declared  bool
	Hierarchy taxonomy.ModuleType
	Depth     int
	Angle     float64 // degrees in [0, 360)
	Radius    float64
	Parent    *Node
	Children  []*Node
	Slots     []Slot
}

// Slot is a member-id placeholder under a scheme node. Slots take a leaf
// position in the angular layout but are not rendered.
type Slot struct {
	ID     string
	Angle  float64
	Radius float64
}

// IsRoot reports whether n is the synthetic hierarchy root.
func (n *Node) IsRoot() bool {
	return n.Parent == nil
}

// HasChildren reports whether n owns any structural children.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// Position projects the node onto the plane.
func (n *Node) Position() geom.Point {
	return geom.Project(n.Angle, n.Radius)
}

// Edge is a direct parent-child edge, drawn from the child to its parent.
type Edge struct {
	From *Node // child
	To   *Node // parent
}

// Hierarchy is one positioned taxonomy tree.
type Hierarchy struct {
	Type     taxonomy.ModuleType
	Root     *Node
	Ring     Ring
	Strategy Strategy
	nodes    []*Node // preorder, root first
}

// Nodes returns every node in preorder, the root included.
func (h *Hierarchy) Nodes() []*Node {
	return h.nodes
}

// Visible returns the nodes the strategy draws.
func (h *Hierarchy) Visible() []*Node {
	var out []*Node
	for _, n := range h.nodes {
		if h.Strategy.ShowNode(n) {
			out = append(out, n)
		}
	}
	return out
}

// Edges returns the direct edges the strategy draws.
func (h *Hierarchy) Edges() []Edge {
	var out []Edge
	for _, n := range h.nodes {
		if n.Parent != nil && h.Strategy.ShowEdge(n) {
			out = append(out, Edge{From: n, To: n.Parent})
		}
	}
	return out
}
