package surface

import (
	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/taxonomy"
)

// ExportNode is a positioned node in exported form.
type ExportNode struct {
	Key       layout.NodeKey      `json:"key"`
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	Type      taxonomy.ModuleType `json:"type"`
	Hierarchy taxonomy.ModuleType `json:"hierarchy"`
	Depth     int                 `json:"depth"`
	Angle     float64             `json:"angle"`
	Radius    float64             `json:"radius"`
	X         float64             `json:"x"`
	Y         float64             `json:"y"`
	Parent    *layout.NodeKey     `json:"parent,omitempty"`
}

// ExportRing is a ring band in exported form.
type ExportRing struct {
	Type  taxonomy.ModuleType `json:"type"`
	Class string              `json:"class"`
	Band  layout.Band         `json:"band"`
	Path  string              `json:"path"`
}

// ExportEdge is a drawn edge in exported form.
type ExportEdge struct {
	ID    string              `json:"id"`
	Kind  EdgeKind            `json:"kind"`
	Class taxonomy.ModuleType `json:"class"`
	From  layout.NodeKey      `json:"from"`
	To    layout.NodeKey      `json:"to"`
	Shape string              `json:"shape"`
	Path  string              `json:"path"`
}

// ExportRelation is a resolved scheme reference.
type ExportRelation struct {
	Scheme   string              `json:"scheme"`
	Target   string              `json:"target"`
	Bucket   taxonomy.ModuleType `json:"bucket"`
	FanIndex int                 `json:"fan_index"`
	Total    int                 `json:"total"`
}

// ExportUnresolved is a member id that matched nothing.
type ExportUnresolved struct {
	Scheme string `json:"scheme"`
	ID     string `json:"id"`
}

// Export is the JSON form of a scene.
type Export struct {
	Config     layout.Config      `json:"config"`
	Rings      []ExportRing       `json:"rings"`
	Nodes      []ExportNode       `json:"nodes"`
	Edges      []ExportEdge       `json:"edges"`
	Relations  []ExportRelation   `json:"relations"`
	Unresolved []ExportUnresolved `json:"unresolved"`
}

// Export returns the drawn content of the scene.
func (sc *Scene) Export() Export {
	out := Export{
		Config:     sc.Diagram.Config,
		Rings:      make([]ExportRing, 0, len(sc.Rings)),
		Nodes:      make([]ExportNode, 0, len(sc.Nodes)),
		Edges:      make([]ExportEdge, 0, len(sc.Direct)+len(sc.Indirect)),
		Relations:  []ExportRelation{},
		Unresolved: []ExportUnresolved{},
	}

	for _, r := range sc.Rings {
		out.Rings = append(out.Rings, ExportRing{Type: r.Type, Class: r.Class, Band: r.Band, Path: r.Path.String()})
	}

	for _, v := range sc.Nodes {
		n := v.Node
		en := ExportNode{
			Key:       n.Key,
			ID:        n.ID,
			Name:      n.Name,
			Type:      n.Type,
			Hierarchy: n.Hierarchy,
			Depth:     n.Depth,
			Angle:     n.Angle,
			Radius:    n.Radius,
			X:         v.Pos.X,
			Y:         v.Pos.Y,
		}
		if n.Parent != nil && !n.Parent.IsRoot() {
			k := n.Parent.Key
			en.Parent = &k
		}
		out.Nodes = append(out.Nodes, en)
	}

	for _, e := range sc.Edges() {
		out.Edges = append(out.Edges, ExportEdge{
			ID:    e.ID,
			Kind:  e.Kind,
			Class: e.Class,
			From:  e.From.Key,
			To:    e.To.Key,
			Shape: e.Shape.String(),
			Path:  e.Path.String(),
		})
	}

	if sc.Graph != nil {
		for _, r := range sc.Graph.Relations() {
			out.Relations = append(out.Relations, ExportRelation{
				Scheme:   r.Scheme.ID,
				Target:   r.Target.ID,
				Bucket:   r.Bucket,
				FanIndex: r.FanIndex,
				Total:    sc.Graph.Total(r.Bucket),
			})
		}
		for _, u := range sc.Graph.Unresolved() {
			out.Unresolved = append(out.Unresolved, ExportUnresolved{Scheme: u.Scheme.ID, ID: u.ID})
		}
	}
	return out
}
