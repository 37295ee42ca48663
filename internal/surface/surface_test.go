package surface

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/ringmap/internal/curve"
	"github.com/matsen/ringmap/internal/geom"
	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/taxonomy"
)

func demoSurface(t *testing.T) *Surface {
	t.Helper()
	ds, err := taxonomy.Demo()
	require.NoError(t, err)
	s, err := Mount(context.Background(), nil, ds, Options{Width: 1000, Height: 800})
	require.NoError(t, err)
	return s
}

func keyOf(t *testing.T, s *Surface, id string) *layout.NodeKey {
	t.Helper()
	n := s.Scene().Diagram.Find(id)
	require.NotNil(t, n, id)
	k := n.Key
	return &k
}

func TestBuild_Layers(t *testing.T) {
	s := demoSurface(t)
	sc := s.Scene()

	require.Len(t, sc.Rings, 3)
	assert.Equal(t, "arc", sc.Rings[0].Class)
	assert.Equal(t, "arc3", sc.Rings[2].Class)

	// 5 models, 6 schemes, 7 scene groups with 3 leaves each.
	assert.Len(t, sc.Nodes, 5+6+7*4)
	assert.Len(t, sc.Direct, 7*3)
	assert.Len(t, sc.Indirect, len(sc.Graph.Relations()))

	var hybrid int
	for _, e := range sc.Indirect {
		assert.Equal(t, taxonomy.Scheme, e.To.Type)
		if e.Shape == curve.Hybrid {
			hybrid++
		}
		got, ok := sc.Edge(e.ID)
		require.True(t, ok)
		assert.Equal(t, e.ID, got.ID)
	}
	assert.Positive(t, hybrid)
}

func TestHandle_ClickSelection(t *testing.T) {
	s := demoSurface(t)

	require.NoError(t, s.Handle(Event{Kind: Click, Node: keyOf(t, s, "model1")}))
	require.NotNil(t, s.Selection())
	assert.Equal(t, "model1", s.Selection().Start.ID)

	// Hover does not disturb the selection.
	require.NoError(t, s.Handle(Event{Kind: HoverEnter, Node: keyOf(t, s, "scheme3")}))
	require.NoError(t, s.Handle(Event{Kind: HoverLeave}))
	assert.Equal(t, "model1", s.Selection().Start.ID)

	require.NoError(t, s.Handle(Event{Kind: Click, Node: keyOf(t, s, "scheme2")}))
	assert.Equal(t, "scheme2", s.Selection().Start.ID)

	require.NoError(t, s.Handle(Event{Kind: Click}))
	assert.Nil(t, s.Selection())
	assert.Nil(t, s.State().Selection)
}

func TestHandle_HoverTooltip(t *testing.T) {
	s := demoSurface(t)

	require.NoError(t, s.Handle(Event{Kind: HoverEnter, Node: keyOf(t, s, "scheme1"), X: 40, Y: 60}))
	tip := s.Tooltip()
	assert.True(t, tip.Visible)
	assert.Equal(t, "Scheme 1", tip.Name)
	assert.Equal(t, "scheme1", tip.ID)
	assert.Equal(t, "scheme", tip.Type)
	assert.Equal(t, 40.0, tip.X)
	assert.Equal(t, 80.0, tip.Y)
	require.NotNil(t, s.Hover())

	require.NoError(t, s.Handle(Event{Kind: PointerMove, X: 50, Y: 70}))
	assert.Equal(t, 50.0, s.Tooltip().X)
	assert.Equal(t, 90.0, s.Tooltip().Y)

	require.NoError(t, s.Handle(Event{Kind: HoverLeave}))
	assert.False(t, s.Tooltip().Visible)
	assert.Nil(t, s.Hover())

	// Moving while hidden does not bring the tooltip back.
	require.NoError(t, s.Handle(Event{Kind: PointerMove, X: 5, Y: 5}))
	assert.False(t, s.Tooltip().Visible)
}

func TestHandle_HoverDirectEdge(t *testing.T) {
	s := demoSurface(t)
	child := s.Scene().Diagram.Find("scence22")
	require.NotNil(t, child)

	require.NoError(t, s.Handle(Event{Kind: HoverEnter, Edge: DirectEdgeID(child), X: 1, Y: 2}))
	assert.True(t, s.Tooltip().Visible)
	assert.Equal(t, "scence22", s.Tooltip().ID)
	assert.Nil(t, s.Hover())
}

func TestHandle_Zoom(t *testing.T) {
	s := demoSurface(t)
	assert.Equal(t, Transform{X: 500, Y: 400, K: 1}, s.Transform())

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Handle(Event{Kind: Wheel, Factor: 2, X: 500, Y: 400}))
	}
	assert.Equal(t, MaxScale, s.Transform().K)
	assert.Equal(t, 500.0, s.Transform().X)

	for i := 0; i < 10; i++ {
		require.NoError(t, s.Handle(Event{Kind: Wheel, Factor: 0.25, X: 0, Y: 0}))
	}
	assert.Equal(t, MinScale, s.Transform().K)

	require.NoError(t, s.Handle(Event{Kind: Drag, DX: 10, DY: -5}))
	require.NoError(t, s.Handle(Event{Kind: Reset}))
	assert.Equal(t, Identity(1000, 800), s.Transform())
}

func TestTransform_ScaleAtKeepsPivot(t *testing.T) {
	tr := Transform{X: 100, Y: 50, K: 1}
	pivot := geom.Point{X: 300, Y: 200}
	before := tr.Invert(pivot)

	scaled := tr.ScaleAt(pivot, 1.5)
	after := scaled.Invert(pivot)
	assert.InDelta(t, before.X, after.X, 1e-9)
	assert.InDelta(t, before.Y, after.Y, 1e-9)
	assert.Equal(t, 1.5, scaled.K)

	assert.Equal(t, tr, tr.ScaleAt(pivot, 0))
	assert.Equal(t, "translate(100,50)", tr.String())
	assert.Equal(t, "translate(100,50) scale(1.5)", Transform{X: 100, Y: 50, K: 1.5}.String())
}

func TestHandle_Errors(t *testing.T) {
	s := demoSurface(t)

	bad := layout.NodeKey(-3)
	assert.ErrorIs(t, s.Handle(Event{Kind: Click, Node: &bad}), ErrUnknownTarget)
	assert.ErrorIs(t, s.Handle(Event{Kind: HoverEnter, Edge: "nope"}), ErrUnknownTarget)
	assert.ErrorIs(t, s.Handle(Event{Kind: "double-click"}), ErrUnknownEvent)

	// The root is never drawn and cannot be targeted.
	root := s.Scene().Diagram.Hierarchy(taxonomy.Model).Root.Key
	assert.ErrorIs(t, s.Handle(Event{Kind: Click, Node: &root}), ErrUnknownTarget)
	assert.ErrorIs(t, s.Select("nope"), ErrUnknownTarget)
}

func TestState(t *testing.T) {
	s := demoSurface(t)
	require.NoError(t, s.Select("scheme1"))

	st := s.State()
	require.NotNil(t, st.Selection)
	assert.Equal(t, "scheme1", st.Selection.Target.ID)
	assert.NotEmpty(t, st.Selection.Edges)
	for _, id := range st.Selection.Edges {
		e, ok := s.Scene().Edge(id)
		require.True(t, ok)
		assert.True(t, s.Selection().EdgeActive(e.From, e.To))
	}
	assert.Nil(t, st.Hover)
}

func TestWriteSVG(t *testing.T) {
	s := demoSurface(t)
	require.NoError(t, s.Select("model2"))

	var buf bytes.Buffer
	require.NoError(t, s.WriteSVG(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg"`))
	assert.Contains(t, out, `<filter id="point-shadow"`)
	assert.Contains(t, out, `stdDeviation="5"`)
	assert.Contains(t, out, `transform="translate(500,400)"`)

	direct := strings.Index(out, `class="layer link-layer"`)
	indirect := strings.Index(out, `class="layer indirect-link"`)
	nodes := strings.Index(out, `class="layer node-layer"`)
	require.Positive(t, direct)
	assert.Less(t, direct, indirect)
	assert.Less(t, indirect, nodes)

	assert.Equal(t, 1, strings.Count(out, "active-target"))
	assert.Contains(t, out, `<circle class="active" r="12"/>`)
	assert.Contains(t, out, `<circle r="8" filter="url(#point-shadow)"/>`)
	assert.Contains(t, out, `<text x="10" dy=".3em">Model 2</text>`)
	assert.Contains(t, out, "link scheme indirect active")
}

func TestWriteSVG_EscapesNames(t *testing.T) {
	ds := &taxonomy.Dataset{
		Model: &taxonomy.Node{Children: []*taxonomy.Node{{ID: "a&b", Name: "<b>", Type: taxonomy.Model}}},
	}
	s, err := Mount(context.Background(), FixedHost{Width: 600, Height: 600}, ds, Options{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, s.WriteSVG(&buf))
	assert.Contains(t, buf.String(), "&lt;b&gt;")
	assert.Contains(t, buf.String(), `data-id="a&amp;b"`)
}

type lateHost struct {
	mu      sync.Mutex
	w, h    float64
	resized chan struct{}
}

func (h *lateHost) Bounds() (float64, float64, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.w, h.h, h.w > 0 && h.h > 0
}

func (h *lateHost) Resized() <-chan struct{} { return h.resized }

func (h *lateHost) resize(w, hh float64) {
	h.mu.Lock()
	h.w, h.h = w, hh
	h.mu.Unlock()
	h.resized <- struct{}{}
}

func TestMount_DefersUntilMeasured(t *testing.T) {
	ds, err := taxonomy.Demo()
	require.NoError(t, err)
	host := &lateHost{resized: make(chan struct{})}

	go func() {
		time.Sleep(10 * time.Millisecond)
		host.resize(900, 700)
	}()

	s, err := Mount(context.Background(), host, ds, Options{})
	require.NoError(t, err)
	assert.Equal(t, 900.0, s.Scene().Width())
	assert.Equal(t, 700.0, s.Scene().Height())
}

func TestMount_Cancelled(t *testing.T) {
	host := &lateHost{resized: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Mount(ctx, host, &taxonomy.Dataset{}, Options{})
	assert.ErrorIs(t, err, ErrNotMeasured)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = Mount(context.Background(), nil, &taxonomy.Dataset{}, Options{Width: 100})
	assert.ErrorIs(t, err, ErrNotMeasured)

	_, err = Mount(context.Background(), FixedHost{}, &taxonomy.Dataset{}, Options{})
	assert.ErrorIs(t, err, ErrNotMeasured)
}

func TestExport(t *testing.T) {
	sc := demoSurface(t).Scene()
	ex := sc.Export()

	assert.Len(t, ex.Nodes, len(sc.Nodes))
	assert.Len(t, ex.Edges, len(sc.Direct)+len(sc.Indirect))
	assert.Len(t, ex.Relations, len(sc.Graph.Relations()))
	assert.Len(t, ex.Rings, 3)
	assert.NotNil(t, ex.Unresolved)

	byKey := make(map[layout.NodeKey]ExportNode, len(ex.Nodes))
	for _, n := range ex.Nodes {
		byKey[n.Key] = n
	}
	for _, e := range ex.Edges {
		_, fromOK := byKey[e.From]
		_, toOK := byKey[e.To]
		assert.True(t, fromOK && toOK, "edge %s has an undrawn endpoint", e.ID)
		assert.NotEmpty(t, e.Path)
	}

	// First-level nodes have no drawn parent.
	m1 := sc.Diagram.Find("model1")
	require.NotNil(t, m1)
	assert.Nil(t, byKey[m1.Key].Parent)
}

func TestExport_JSONRoundTrip(t *testing.T) {
	sc := demoSurface(t).Scene()
	ex := sc.Export()

	data, err := json.Marshal(ex)
	require.NoError(t, err)

	var decoded Export
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ex, decoded)

	require.Len(t, decoded.Rings, 3)
	for i, r := range decoded.Rings {
		assert.Equal(t, sc.Rings[i].Path.String(), r.Path)
		assert.True(t, strings.HasPrefix(r.Path, "M"), r.Path)
	}
}
