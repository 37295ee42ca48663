package layout

// clusterItem is a node or a member slot taking part in the dendrogram layout.
type clusterItem struct {
	node     *Node
	owner    *Node // slot owner when node is nil
	slot     int
	parent   *clusterItem
	children []*clusterItem
	x, y     float64
}

func newClusterTree(n *Node, parent *clusterItem) *clusterItem {
	it := &clusterItem{node: n, slot: -1, parent: parent}
	for _, c := range n.Children {
		it.children = append(it.children, newClusterTree(c, it))
	}
	for i := range n.Slots {
		it.children = append(it.children, &clusterItem{owner: n, slot: i, parent: it})
	}
	return it
}

// separation spaces leaves of different parents twice as far apart.
func separation(a, b *clusterItem) float64 {
	if a.parent == b.parent {
		return 1
	}
	return 2
}

// cluster places leaves evenly over [0, angleSpan) in traversal order, centers
// each parent over its children and sets radius by height so that every leaf
// lands on extent and the root on 0.
func cluster(root *clusterItem, angleSpan, extent float64) {
	var prev *clusterItem
	var x float64

	var place func(it *clusterItem)
	place = func(it *clusterItem) {
		for _, c := range it.children {
			place(c)
		}
		if len(it.children) > 0 {
			var sum, maxY float64
			for _, c := range it.children {
				sum += c.x
				if c.y > maxY {
					maxY = c.y
				}
			}
			it.x = sum / float64(len(it.children))
			it.y = maxY + 1
			return
		}
		if prev != nil {
			x += separation(it, prev)
		}
		it.x = x
		it.y = 0
		prev = it
	}
	place(root)

	left, right := root, root
	for len(left.children) > 0 {
		left = left.children[0]
	}
	for len(right.children) > 0 {
		right = right.children[len(right.children)-1]
	}
	x0 := left.x - separation(left, right)/2
	x1 := right.x + separation(right, left)/2
	height := root.y

	var scale func(it *clusterItem)
	scale = func(it *clusterItem) {
		it.x = (it.x - x0) / (x1 - x0) * angleSpan
		if height > 0 {
			it.y = (1 - it.y/height) * extent
		} else {
			it.y = 0
		}
		for _, c := range it.children {
			scale(c)
		}
	}
	scale(root)
}

// apply copies the computed coordinates back onto nodes and slots.
func (it *clusterItem) apply() {
	if it.node != nil {
		it.node.Angle = it.x
		it.node.Radius = it.y
	} else {
		it.owner.Slots[it.slot].Angle = it.x
		it.owner.Slots[it.slot].Radius = it.y
	}
	for _, c := range it.children {
		c.apply()
	}
}
