package viz

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/surface"
	"github.com/matsen/ringmap/internal/taxonomy"
)

func demoSurface(t *testing.T) *surface.Surface {
	t.Helper()
	ds, err := taxonomy.Demo()
	if err != nil {
		t.Fatalf("Demo() error = %v", err)
	}
	s, err := surface.Mount(context.Background(), nil, ds, surface.Options{Width: 1000, Height: 800})
	if err != nil {
		t.Fatalf("Mount() error = %v", err)
	}
	return s
}

func TestBuildGraph_Tables(t *testing.T) {
	s := demoSurface(t)
	g := BuildGraph(s)

	if len(g.Nodes) != len(s.Scene().Nodes) {
		t.Errorf("Nodes has %d entries, want %d", len(g.Nodes), len(s.Scene().Nodes))
	}
	if len(g.Highlights) != len(g.Nodes) {
		t.Errorf("Highlights has %d entries, want %d", len(g.Highlights), len(g.Nodes))
	}
	if g.Selected != nil {
		t.Errorf("Selected = %v, want nil", *g.Selected)
	}

	m2 := s.Scene().Diagram.Find("model2")
	if m2 == nil {
		t.Fatal("demo has no model2")
	}
	if got := g.Nodes[m2.Key]; got.Name != "Model 2" || got.Type != "model" {
		t.Errorf("Nodes[model2] = %+v", got)
	}

	h := g.Highlights[m2.Key]
	if len(h.Nodes) == 0 || h.Nodes[0] != m2.Key {
		t.Errorf("highlight of model2 should start with its own key, got %v", h.Nodes)
	}
	if err := s.Select("model2"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}
	want := s.Scene().ActiveEdges(s.Selection())
	if strings.Join(h.Edges, ",") != strings.Join(want, ",") {
		t.Errorf("highlight edges = %v, want %v", h.Edges, want)
	}
}

func TestBuildGraph_OnlyDrawnNodes(t *testing.T) {
	s := demoSurface(t)
	g := BuildGraph(s)

	for key, h := range g.Highlights {
		for _, k := range h.Nodes {
			if _, ok := g.Nodes[k]; !ok {
				t.Errorf("highlight of %d references undrawn node %d", key, k)
			}
		}
	}
}

func TestBuildGraph_Selected(t *testing.T) {
	s := demoSurface(t)
	if err := s.Select("scheme2"); err != nil {
		t.Fatalf("Select() error = %v", err)
	}

	g := BuildGraph(s)
	if g.Selected == nil {
		t.Fatal("Selected = nil, want scheme2")
	}
	if g.Nodes[*g.Selected].ID != "scheme2" {
		t.Errorf("Selected = %s, want scheme2", g.Nodes[*g.Selected].ID)
	}
}

func TestToJSON(t *testing.T) {
	g := BuildGraph(demoSurface(t))
	out, err := g.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	var decoded struct {
		Nodes      map[string]Node      `json:"nodes"`
		Highlights map[string]Highlight `json:"highlights"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("ToJSON() produced invalid JSON: %v", err)
	}
	if len(decoded.Nodes) != len(g.Nodes) {
		t.Errorf("decoded %d nodes, want %d", len(decoded.Nodes), len(g.Nodes))
	}
	if strings.Contains(out, `"selected"`) {
		t.Error("ToJSON() should omit an unset selection")
	}
}

func TestIsEmpty(t *testing.T) {
	g := &GraphData{Nodes: map[layout.NodeKey]Node{}}
	if !g.IsEmpty() {
		t.Error("IsEmpty() = false for no nodes")
	}
	g.Nodes[0] = Node{ID: "x"}
	if g.IsEmpty() {
		t.Error("IsEmpty() = true with a node")
	}
}
