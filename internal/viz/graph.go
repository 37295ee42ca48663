package viz

import (
	"encoding/json"
	"fmt"

	"github.com/matsen/ringmap/internal/highlight"
	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/surface"
)

// BuildGraph precomputes the tooltip and highlight tables for every drawn
// node of the surface's scene. The current selection, if any, becomes the
// page's initial selection.
func BuildGraph(s *surface.Surface) *GraphData {
	sc := s.Scene()
	g := &GraphData{
		Nodes:      make(map[layout.NodeKey]Node, len(sc.Nodes)),
		Highlights: make(map[layout.NodeKey]Highlight, len(sc.Nodes)),
	}

	for _, v := range sc.Nodes {
		n := v.Node
		g.Nodes[n.Key] = Node{
			ID:        n.ID,
			Name:      n.Name,
			Type:      string(n.Type),
			Hierarchy: string(n.Hierarchy),
		}
		g.Highlights[n.Key] = newHighlight(sc, highlight.Traverse(n, sc.Graph))
	}

	if sel := s.Selection(); sel != nil && sel.Start != nil {
		k := sel.Start.Key
		g.Selected = &k
	}
	return g
}

// newHighlight keeps only the members of set that are drawn.
func newHighlight(sc *surface.Scene, set *highlight.Set) Highlight {
	h := Highlight{
		Nodes: make([]layout.NodeKey, 0, set.Len()),
		Edges: sc.ActiveEdges(set),
	}
	for _, n := range set.Nodes() {
		if _, ok := sc.View(n.Key); ok {
			h.Nodes = append(h.Nodes, n.Key)
		}
	}
	return h
}

// ToJSON encodes the graph for embedding in the page script.
func (g *GraphData) ToJSON() (string, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("marshaling graph data to JSON: %w", err)
	}
	return string(data), nil
}
