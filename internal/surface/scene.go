// Package surface turns a positioned diagram into drawable layers and owns the
// interaction state: selection, hover, tooltip and zoom.
//
// A Surface is not safe for concurrent use; callers serialize events.
package surface

import (
	"fmt"

	"github.com/matsen/ringmap/internal/curve"
	"github.com/matsen/ringmap/internal/geom"
	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/link"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// Drawing constants shared by the SVG writer and the HTML page.
const (
	NodeRadius   = 8.0
	MarkerRadius = 12.0
	LabelOffset  = 10.0
	TooltipDrop  = 20.0
	MinScale     = 0.5
	MaxScale     = 4.0
)

// ringClass names the SVG class of each ring band.
var ringClass = map[taxonomy.ModuleType]string{
	taxonomy.Model:  "arc",
	taxonomy.Scheme: "arc2",
	taxonomy.Scene:  "arc3",
}

// RingView is one drawn ring band.
type RingView struct {
	Type  taxonomy.ModuleType `json:"type"`
	Class string              `json:"class"`
	Band  layout.Band         `json:"band"`
	Path  geom.Path           `json:"path"`
}

// NodeView is one drawn node.
type NodeView struct {
	Node *layout.Node `json:"-"`
	Pos  geom.Point   `json:"pos"`
}

// EdgeKind distinguishes structural edges from relations.
type EdgeKind string

const (
	DirectEdge   EdgeKind = "direct"
	IndirectEdge EdgeKind = "indirect"
)

// EdgeView is one drawn edge. From is the child for direct edges and the
// member for indirect ones; To is the parent or scheme node.
type EdgeView struct {
	ID    string              `json:"id"`
	Kind  EdgeKind            `json:"kind"`
	Class taxonomy.ModuleType `json:"class"`
	From  *layout.Node        `json:"-"`
	To    *layout.Node        `json:"-"`
	Shape curve.Shape         `json:"-"`
	Path  geom.Path           `json:"path"`
}

// Scene is the static drawable content of one diagram, in paint order.
type Scene struct {
	Diagram  *layout.Diagram
	Graph    *link.Graph
	Rings    []RingView
	Direct   []EdgeView
	Indirect []EdgeView
	Nodes    []NodeView

	nodeIndex map[layout.NodeKey]int
	edgeIndex map[string]*EdgeView
}

// Build derives the scene from a diagram and its relation graph.
func Build(d *layout.Diagram, g *link.Graph) *Scene {
	s := &Scene{
		Diagram:   d,
		Graph:     g,
		nodeIndex: make(map[layout.NodeKey]int),
		edgeIndex: make(map[string]*EdgeView),
	}

	for _, h := range d.Hierarchies() {
		s.Rings = append(s.Rings, RingView{
			Type:  h.Type,
			Class: ringClass[h.Type],
			Band:  h.Ring.Band,
			Path:  curve.Annulus(h.Ring.Band.Inner, h.Ring.Band.Outer),
		})
		for _, e := range h.Edges() {
			s.Direct = append(s.Direct, EdgeView{
				ID:    DirectEdgeID(e.From),
				Kind:  DirectEdge,
				Class: h.Type,
				From:  e.From,
				To:    e.To,
				Shape: curve.Bow,
				Path:  curve.Direct(endpoint(e.From), endpoint(e.To)),
			})
		}
		for _, n := range h.Visible() {
			s.nodeIndex[n.Key] = len(s.Nodes)
			s.Nodes = append(s.Nodes, NodeView{Node: n, Pos: n.Position()})
		}
	}

	if g != nil {
		schemeRing := d.Config.Ring(taxonomy.Scheme)
		for _, r := range g.Relations() {
			fan := curve.Fan{
				RingWidth: schemeRing.Band.Width(),
				Index:     r.FanIndex,
				Total:     g.Total(r.Bucket),
				Outward:   d.Config.Ring(r.Target.Hierarchy).Band.Mid() > schemeRing.Band.Mid(),
			}
			path, shape := curve.Indirect(endpoint(r.Target), endpoint(r.Scheme), fan)
			s.Indirect = append(s.Indirect, EdgeView{
				ID:    IndirectEdgeID(r.Target, r.Scheme),
				Kind:  IndirectEdge,
				Class: taxonomy.Scheme,
				From:  r.Target,
				To:    r.Scheme,
				Shape: shape,
				Path:  path,
			})
		}
	}

	for i := range s.Direct {
		s.edgeIndex[s.Direct[i].ID] = &s.Direct[i]
	}
	for i := range s.Indirect {
		s.edgeIndex[s.Indirect[i].ID] = &s.Indirect[i]
	}
	return s
}

func endpoint(n *layout.Node) curve.Endpoint {
	return curve.Endpoint{Angle: n.Angle, Radius: n.Radius}
}

// DirectEdgeID names the edge from child to its parent.
func DirectEdgeID(child *layout.Node) string {
	return fmt.Sprintf("link-%d", child.Key)
}

// IndirectEdgeID names the relation edge from member to scheme.
func IndirectEdgeID(member, scheme *layout.Node) string {
	return fmt.Sprintf("xlink-%d-%d", scheme.Key, member.Key)
}

// View returns the drawn node with the given key.
func (s *Scene) View(key layout.NodeKey) (NodeView, bool) {
	i, ok := s.nodeIndex[key]
	if !ok {
		return NodeView{}, false
	}
	return s.Nodes[i], true
}

// Edge returns the drawn edge with the given id.
func (s *Scene) Edge(id string) (*EdgeView, bool) {
	e, ok := s.edgeIndex[id]
	return e, ok
}

// Edges returns every edge in paint order.
func (s *Scene) Edges() []EdgeView {
	out := make([]EdgeView, 0, len(s.Direct)+len(s.Indirect))
	out = append(out, s.Direct...)
	return append(out, s.Indirect...)
}

// Width returns the drawing width.
func (s *Scene) Width() float64 { return s.Diagram.Config.Width }

// Height returns the drawing height.
func (s *Scene) Height() float64 { return s.Diagram.Config.Height }
