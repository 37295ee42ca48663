package layout

import (
	"github.com/matsen/ringmap/internal/taxonomy"
)

// AngleSpan is the angular domain shared by all hierarchies, in degrees.
const AngleSpan = 360.0

// Diagram owns the three positioned hierarchies and the node arena.
type Diagram struct {
	Config      Config
	hierarchies []*Hierarchy
	nodes       []*Node
	byID        map[string]*Node
}

// Build lays out every hierarchy of the dataset. A missing hierarchy yields a
// tree holding only its invisible root. Build is deterministic: identical input
// produces identical angles and radii.
func Build(ds *taxonomy.Dataset, cfg Config) *Diagram {
	d := &Diagram{Config: cfg, byID: make(map[string]*Node)}
	if ds == nil {
		ds = &taxonomy.Dataset{}
	}
	for _, t := range taxonomy.Types {
		d.hierarchies = append(d.hierarchies, d.buildHierarchy(t, ds.Root(t)))
	}
	return d
}

func (d *Diagram) buildHierarchy(t taxonomy.ModuleType, raw *taxonomy.Node) *Hierarchy {
	if raw == nil {
		raw = &taxonomy.Node{Name: string(t), Type: t}
	}
	h := &Hierarchy{
		Type:     t,
		Ring:     d.Config.Ring(t),
		Strategy: StrategyFor(t),
	}
	h.Root = d.importNode(h, raw, nil)

	tree := newClusterTree(h.Root, nil)
	cluster(tree, AngleSpan, h.Ring.Extent)
	tree.apply()

	for _, n := range h.nodes {
		h.Strategy.Adjust(n, h.Ring)
	}
	return h
}

// importNode copies a raw record into the arena. Nodes are registered in
// preorder so that Find returns the first match in traversal order.
func (d *Diagram) importNode(h *Hierarchy, raw *taxonomy.Node, parent *Node) *Node {
	n := &Node{
		Key:       NodeKey(len(d.nodes)),
		ID:        raw.ID,
		Name:      raw.Name,
		Hierarchy: h.Type,
		Parent:    parent,
	}
	switch {
	case raw.Type.Valid():
		n.Type = raw.Type
		n.Declared = true
	case parent != nil:
		n.Type = parent.Type
	default:
		n.Type = h.Type
	}
	if parent != nil {
		n.Depth = parent.Depth + 1
	}

	d.nodes = append(d.nodes, n)
	h.nodes = append(h.nodes, n)
	if n.ID != "" {
		if _, seen := d.byID[n.ID]; !seen {
			d.byID[n.ID] = n
		}
	}

	for _, c := range raw.Children {
		if c == nil {
			continue
		}
		n.Children = append(n.Children, d.importNode(h, c, n))
	}
	if h.Type == taxonomy.Scheme {
		for _, id := range raw.MemberIDs() {
			n.Slots = append(n.Slots, Slot{ID: id})
		}
	}
	return n
}

// Hierarchies returns the hierarchies in build order: model, scheme, scene.
func (d *Diagram) Hierarchies() []*Hierarchy {
	return d.hierarchies
}

// Hierarchy returns the hierarchy of the given type.
func (d *Diagram) Hierarchy(t taxonomy.ModuleType) *Hierarchy {
	for _, h := range d.hierarchies {
		if h.Type == t {
			return h
		}
	}
	return nil
}

// Nodes returns the arena, indexed by NodeKey.
func (d *Diagram) Nodes() []*Node {
	return d.nodes
}

// Node returns the node with the given key, or nil.
func (d *Diagram) Node(key NodeKey) *Node {
	if key < 0 || int(key) >= len(d.nodes) {
		return nil
	}
	return d.nodes[key]
}

// Find returns the first node carrying id, searching model, scheme and scene
// in that order. Nodes without an id never match.
func (d *Diagram) Find(id string) *Node {
	if id == "" {
		return nil
	}
	return d.byID[id]
}
