// Package highlight computes the set of nodes related to a selected node.
package highlight

import (
	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/link"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// Set is the result of one traversal. It is rebuilt on every selection or
// hover event and never mutated afterward.
type Set struct {
	Start *layout.Node
	nodes map[layout.NodeKey]*layout.Node
	order []*layout.Node
}

// Has reports whether n is highlighted.
func (s *Set) Has(n *layout.Node) bool {
	if s == nil || n == nil {
		return false
	}
	_, ok := s.nodes[n.Key]
	return ok
}

// IsTarget reports whether n is the node the traversal started from.
func (s *Set) IsTarget(n *layout.Node) bool {
	return s != nil && n != nil && s.Start != nil && s.Start.Key == n.Key
}

// EdgeActive reports whether both endpoints of an edge are highlighted.
func (s *Set) EdgeActive(a, b *layout.Node) bool {
	return s.Has(a) && s.Has(b)
}

// Nodes returns the highlighted nodes in insertion order.
func (s *Set) Nodes() []*layout.Node {
	if s == nil {
		return nil
	}
	return s.order
}

// Len returns the number of highlighted nodes.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// IDs returns the ids of the highlighted nodes in insertion order.
func (s *Set) IDs() []string {
	out := make([]string, 0, s.Len())
	for _, n := range s.Nodes() {
		out = append(out, n.ID)
	}
	return out
}

// Option configures a traversal.
type Option func(*traversal)

// OnExpand registers a callback invoked each time a node is expanded.
func OnExpand(fn func(*layout.Node)) Option {
	return func(t *traversal) {
		t.onExpand = fn
	}
}

type traversal struct {
	graph    *link.Graph
	start    taxonomy.ModuleType
	set      *Set
	expanded map[layout.NodeKey]bool
	onExpand func(*layout.Node)
}

// Traverse collects everything related to start: qualifying descendants
// (resolved members included), the ancestor chain below the hierarchy root,
// and the scheme nodes referencing any expanded node of the start's type.
// Every node is expanded at most once, so relation cycles terminate.
func Traverse(start *layout.Node, g *link.Graph, opts ...Option) *Set {
	t := &traversal{
		graph:    g,
		set:      &Set{Start: start, nodes: make(map[layout.NodeKey]*layout.Node)},
		expanded: make(map[layout.NodeKey]bool),
	}
	for _, opt := range opts {
		opt(t)
	}
	if start == nil {
		return t.set
	}
	t.start = start.Type
	t.expand(start)
	return t.set
}

func (t *traversal) add(n *layout.Node) {
	if _, ok := t.set.nodes[n.Key]; ok {
		return
	}
	t.set.nodes[n.Key] = n
	t.set.order = append(t.set.order, n)
}

func (t *traversal) members(n *layout.Node) []*layout.Node {
	if t.graph == nil || n.Type != taxonomy.Scheme {
		return nil
	}
	return t.graph.Members(n)
}

func (t *traversal) expand(n *layout.Node) {
	if n == nil || n.IsRoot() || t.expanded[n.Key] {
		return
	}
	t.expanded[n.Key] = true
	if t.onExpand != nil {
		t.onExpand(n)
	}
	t.add(n)

	t.descend(n.Children, false)
	t.descend(t.members(n), true)

	if p := n.Parent; p != nil && !p.IsRoot() {
		t.add(p)
		t.expand(p)
	}

	if n.Type == t.start && t.graph != nil {
		for _, r := range t.graph.RelatedBy(n) {
			if t.set.Has(r) {
				continue
			}
			t.add(r)
			if r.HasChildren() || len(t.members(r)) > 0 {
				t.expand(r)
			}
		}
	}
}

func (t *traversal) descend(nodes []*layout.Node, members bool) {
	for _, c := range nodes {
		if !members && t.start != taxonomy.Scheme && c.Type == t.start {
			continue
		}
		t.add(c)
		deeper := c.Parent != nil && !c.Parent.IsRoot() && t.start != taxonomy.Scene
		if c.HasChildren() || deeper {
			t.expand(c)
		}
	}
}
