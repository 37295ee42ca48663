// Package viz generates the standalone interactive HTML page for a diagram.
package viz

import "github.com/matsen/ringmap/internal/layout"

// GraphData is everything the page script needs besides the SVG itself.
type GraphData struct {
	Nodes map[layout.NodeKey]Node `json:"nodes"`

	// Highlights maps each drawn node to the set its click or hover lights up.
	Highlights map[layout.NodeKey]Highlight `json:"highlights"`

	// Selected is the node selected when the page opens.
	Selected *layout.NodeKey `json:"selected,omitempty"`
}

// Node carries the tooltip fields of a drawn node.
type Node struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Hierarchy string `json:"hierarchy"`
}

// Highlight is a precomputed highlight set.
type Highlight struct {
	Nodes []layout.NodeKey `json:"nodes"`
	Edges []string         `json:"edges"`
}

// IsEmpty returns true if the graph has no drawn nodes.
func (g *GraphData) IsEmpty() bool {
	return len(g.Nodes) == 0
}
