package link

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matsen/ringmap/internal/layout"
	"github.com/matsen/ringmap/internal/taxonomy"
)

func build(t *testing.T, ds *taxonomy.Dataset) *layout.Diagram {
	t.Helper()
	cfg, err := layout.NewConfig(1000, 1000)
	require.NoError(t, err)
	return layout.Build(ds, cfg)
}

func smallDataset() *taxonomy.Dataset {
	return &taxonomy.Dataset{
		Model: &taxonomy.Node{Type: taxonomy.Model, Children: []*taxonomy.Node{
			{ID: "m1", Type: taxonomy.Model},
			{ID: "m2", Type: taxonomy.Model},
			{ID: "m3", Type: taxonomy.Model},
		}},
		Scheme: &taxonomy.Node{Type: taxonomy.Scheme, Children: []*taxonomy.Node{
			{ID: "s1", Type: taxonomy.Scheme, Models: []string{"m1", "m2"}, Scenes: []string{"c1"}},
		}},
		Scene: &taxonomy.Node{Type: taxonomy.Scene, Children: []*taxonomy.Node{
			{ID: "c1", Type: taxonomy.Scene},
		}},
	}
}

func TestResolve_SplitsBuckets(t *testing.T) {
	d := build(t, smallDataset())
	g := Resolve(d)

	s1 := d.Find("s1")
	require.Len(t, g.Members(s1), 3)
	assert.Equal(t, 2, g.Total(taxonomy.Model))
	assert.Equal(t, 1, g.Total(taxonomy.Scene))

	idx, ok := g.FanIndex(d.Find("m1"), s1)
	require.True(t, ok)
	assert.Equal(t, 0, idx)
	idx, ok = g.FanIndex(d.Find("m2"), s1)
	require.True(t, ok)
	assert.Equal(t, 1, idx)
	idx, ok = g.FanIndex(d.Find("c1"), s1)
	require.True(t, ok)
	assert.Equal(t, 0, idx)

	_, ok = g.FanIndex(d.Find("m3"), s1)
	assert.False(t, ok)
	assert.Empty(t, g.RelatedBy(d.Find("m3")))
	assert.Equal(t, []*layout.Node{s1}, g.RelatedBy(d.Find("m1")))
}

func TestResolve_SkipsBadReferences(t *testing.T) {
	ds := smallDataset()
	ds.Scheme.Children = append(ds.Scheme.Children, &taxonomy.Node{
		ID:      "s2",
		Type:    taxonomy.Scheme,
		Members: []string{"ghost", "m3", "s1", "m3", ""},
	})
	d := build(t, ds)
	g := Resolve(d)

	s2 := d.Find("s2")
	assert.Equal(t, []*layout.Node{d.Find("m3")}, g.Members(s2))
	assert.Len(t, g.RelatedBy(d.Find("m3")), 1)
	assert.Empty(t, g.RelatedBy(d.Find("s1")))

	require.Len(t, g.Unresolved(), 2)
	assert.Equal(t, "ghost", g.Unresolved()[0].ID)
	assert.Same(t, s2, g.Unresolved()[0].Scheme)
	assert.Equal(t, "", g.Unresolved()[1].ID)

	// Resolution of s1 is unaffected by s2's bad ids.
	assert.Len(t, g.Members(d.Find("s1")), 3)
}

func TestResolve_DemoFanIndexContiguous(t *testing.T) {
	ds, err := taxonomy.Demo()
	require.NoError(t, err)
	d := build(t, ds)
	g := Resolve(d)

	seen := map[taxonomy.ModuleType][]int{}
	for _, r := range g.Relations() {
		seen[r.Bucket] = append(seen[r.Bucket], r.FanIndex)
		assert.Equal(t, taxonomy.Scheme, r.Scheme.Type)
		assert.NotEqual(t, taxonomy.Scheme, r.Target.Type)
	}
	for bucket, idxs := range seen {
		require.Len(t, idxs, g.Total(bucket))
		for i, idx := range idxs {
			assert.Equalf(t, i, idx, "bucket %s", bucket)
		}
	}
	assert.Contains(t, seen, taxonomy.Model)
	assert.Contains(t, seen, taxonomy.Scene)
}

func TestResolve_ReverseLinkSymmetry(t *testing.T) {
	ds, err := taxonomy.Demo()
	require.NoError(t, err)
	d := build(t, ds)
	g := Resolve(d)

	incoming := map[layout.NodeKey]int{}
	for _, s := range d.Hierarchy(taxonomy.Scheme).Nodes() {
		for _, m := range g.Members(s) {
			incoming[m.Key]++
			idx, ok := g.FanIndex(m, s)
			require.True(t, ok)
			assert.GreaterOrEqual(t, idx, 0)
		}
	}
	for _, n := range d.Nodes() {
		assert.Equal(t, incoming[n.Key], len(g.RelatedBy(n)), n.ID)
	}
}

func TestResolve_FreshCountersPerBuild(t *testing.T) {
	d := build(t, smallDataset())
	first := Resolve(d)
	second := Resolve(d)

	assert.Equal(t, first.Total(taxonomy.Model), second.Total(taxonomy.Model))
	assert.Equal(t, first.Relations()[0].FanIndex, second.Relations()[0].FanIndex)
}
