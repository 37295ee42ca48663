// Package link resolves the member ids listed under scheme nodes into
// cross-hierarchy relations.
//
// The positioned trees from package layout are never mutated. Relations live in
// a separate Graph built once per diagram.
package link

import (
	"log/slog"

	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// Relation is a synthesized edge from a scheme node to a model or scene node it
// references by id.
type Relation struct {
	Scheme *layout.Node
	Target *layout.Node
	// Bucket is the target's effective type.
	Bucket taxonomy.ModuleType
	// FanIndex is the 0-based discovery position within Bucket.
	FanIndex int
}

// Unresolved records a member id that matched no node.
type Unresolved struct {
	Scheme *layout.Node
	ID     string
}

// Graph is the relation adjacency of one built diagram.
type Graph struct {
	relations  []Relation
	members    map[layout.NodeKey][]*layout.Node
	relatedBy  map[layout.NodeKey][]*layout.Node
	fanIndex   map[layout.NodeKey]map[layout.NodeKey]int
	totals     map[taxonomy.ModuleType]int
	unresolved []Unresolved
}

func newGraph() *Graph {
	return &Graph{
		members:   make(map[layout.NodeKey][]*layout.Node),
		relatedBy: make(map[layout.NodeKey][]*layout.Node),
		fanIndex:  make(map[layout.NodeKey]map[layout.NodeKey]int),
		totals:    make(map[taxonomy.ModuleType]int),
	}
}

// Resolve walks the scheme hierarchy in preorder and turns every member slot
// below the root into a relation. Ids that match nothing, or that match
// another scheme node, produce no relation; a repeated id under one scheme
// node counts once.
func Resolve(d *layout.Diagram) *Graph {
	g := newGraph()
	h := d.Hierarchy(taxonomy.Scheme)
	if h == nil {
		return g
	}

	for _, s := range h.Nodes() {
		if s.IsRoot() {
			continue
		}
		for _, slot := range s.Slots {
			target := d.Find(slot.ID)
			switch {
			case target == nil:
				g.unresolved = append(g.unresolved, Unresolved{Scheme: s, ID: slot.ID})
				slog.Debug("skipping unresolved member", "scheme", s.ID, "member", slot.ID)
			case target.Type == taxonomy.Scheme:
				slog.Debug("skipping scheme member", "scheme", s.ID, "member", slot.ID)
			case g.has(target, s):
				slog.Debug("skipping repeated member", "scheme", s.ID, "member", slot.ID)
			default:
				g.add(s, target)
			}
		}
	}
	return g
}

func (g *Graph) has(target, scheme *layout.Node) bool {
	_, ok := g.fanIndex[target.Key][scheme.Key]
	return ok
}

func (g *Graph) add(scheme, target *layout.Node) {
	bucket := target.Type
	idx := g.totals[bucket]
	g.totals[bucket]++

	g.relations = append(g.relations, Relation{
		Scheme:   scheme,
		Target:   target,
		Bucket:   bucket,
		FanIndex: idx,
	})
	g.members[scheme.Key] = append(g.members[scheme.Key], target)
	g.relatedBy[target.Key] = append(g.relatedBy[target.Key], scheme)
	if g.fanIndex[target.Key] == nil {
		g.fanIndex[target.Key] = make(map[layout.NodeKey]int)
	}
	g.fanIndex[target.Key][scheme.Key] = idx
}

// Relations returns every relation in discovery order.
func (g *Graph) Relations() []Relation {
	return g.relations
}

// Members returns the resolved members of a scheme node in slot order.
func (g *Graph) Members(n *layout.Node) []*layout.Node {
	return g.members[n.Key]
}

// RelatedBy returns the scheme nodes referencing n, in discovery order.
func (g *Graph) RelatedBy(n *layout.Node) []*layout.Node {
	return g.relatedBy[n.Key]
}

// FanIndex returns the fan index of the relation from scheme to target.
func (g *Graph) FanIndex(target, scheme *layout.Node) (int, bool) {
	idx, ok := g.fanIndex[target.Key][scheme.Key]
	return idx, ok
}

// Total returns the number of relations in a bucket.
func (g *Graph) Total(bucket taxonomy.ModuleType) int {
	return g.totals[bucket]
}

// Unresolved returns the member ids that matched no node.
func (g *Graph) Unresolved() []Unresolved {
	return g.unresolved
}
