package layout

import "github.com/matsen/ringmap/internal/taxonomy"

// Strategy holds the drawing rules that differ between hierarchies.
// There is exactly one strategy per module type.
type Strategy interface {
	Type() taxonomy.ModuleType
	// Adjust applies a post-layout correction to a positioned node.
	Adjust(n *Node, ring Ring)
	// ShowNode reports whether the node is drawn.
	ShowNode(n *Node) bool
	// ShowEdge reports whether the edge from n to its parent is drawn.
	ShowEdge(n *Node) bool
}

// StrategyFor returns the strategy of a hierarchy type.
func StrategyFor(t taxonomy.ModuleType) Strategy {
	switch t {
	case taxonomy.Scheme:
		return schemeStrategy{}
	case taxonomy.Scene:
		return sceneStrategy{}
	default:
		return modelStrategy{}
	}
}

type modelStrategy struct{}

func (modelStrategy) Type() taxonomy.ModuleType { return taxonomy.Model }
func (modelStrategy) Adjust(*Node, Ring) {}
func (modelStrategy) ShowNode(n *Node) bool { return n.Depth > 0 }
func (modelStrategy) ShowEdge(n *Node) bool { return n.Depth > 1 }

// schemeStrategy draws scheme nodes only; links from a scheme to its members
// are cross-hierarchy edges and are drawn by the resolver's caller.
type schemeStrategy struct{}

func (schemeStrategy) Type() taxonomy.ModuleType { return taxonomy.Scheme }
func (schemeStrategy) Adjust(*Node, Ring) {}

func (schemeStrategy) ShowNode(n *Node) bool {
	return n.Depth > 0 && n.Type == taxonomy.Scheme
}

func (schemeStrategy) ShowEdge(n *Node) bool {
	return n.Depth > 1 && n.Type == taxonomy.Scheme && n.Parent.Type == taxonomy.Scheme
}

// sceneStrategy halves the second scene level back into the scene band.
// The cluster extent for scenes spans twice the first-level radius, so a
// two-level tree would otherwise push its leaves far outside the band.
// The correction targets depth 2 only; deeper scene trees are not rescaled.
type sceneStrategy struct{}

func (sceneStrategy) Type() taxonomy.ModuleType { return taxonomy.Scene }

func (sceneStrategy) Adjust(n *Node, ring Ring) {
	if n.Depth == 2 {
		n.Radius = n.Radius/2 - ring.DepthOffset
	}
}

func (sceneStrategy) ShowNode(n *Node) bool { return n.Depth > 0 }
func (sceneStrategy) ShowEdge(n *Node) bool { return n.Depth > 1 }
