package surface

import (
	"bytes"
	"fmt"
	"html"
	"io"

	"github.com/matsen/ringmap/internal/geom"
	"github.com/matsen/ringmap/internal/highlight"
)

// Stylesheet is embedded in every SVG document and reused by the HTML page.
const Stylesheet = `.arc { fill: #eef4fb; fill-rule: evenodd; }
.arc2 { fill: #f4effa; fill-rule: evenodd; }
.arc3 { fill: #eef8f0; fill-rule: evenodd; }
.link { fill: none; stroke: #b8c2cc; stroke-width: 1.2; }
.link.indirect { stroke: #d5c6e4; stroke-dasharray: 4,3; }
.link.active, .link.hover { stroke: #f08c00; stroke-width: 2; stroke-dasharray: none; }
.node circle { fill: #fff; stroke: #4a6fa5; stroke-width: 2; cursor: pointer; }
.node.scheme circle { stroke: #7b4aa5; }
.node.scene circle { stroke: #3f8f5a; }
.node.active circle, .node.hover circle { fill: #f08c00; stroke: #f08c00; }
.node circle.active, .node circle.hover { fill: none; stroke: #f08c00; stroke-width: 1.5; }
.node text { font: 11px system-ui, Arial, sans-serif; fill: #333; pointer-events: none; }
`

// WriteSVG renders the scene with the surface's current state.
func (s *Surface) WriteSVG(w io.Writer) error {
	return s.scene.WriteSVG(w, s.selection, s.hover, s.transform)
}

// WriteSVG renders the scene. Rings come first, then direct edges, indirect
// edges and nodes. Within each edge layer highlighted edges are painted last.
func (sc *Scene) WriteSVG(w io.Writer, selection, hover *highlight.Set, t Transform) error {
	var buf bytes.Buffer

	width, height := geom.FormatFloat(sc.Width()), geom.FormatFloat(sc.Height())
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" class="ringmap" width="%s" height="%s" viewBox="0 0 %s %s">`,
		width, height, width, height)
	buf.WriteString("\n")

	buf.WriteString(`<defs><style>`)
	buf.WriteString(Stylesheet)
	buf.WriteString(`</style>`)
	buf.WriteString(`<filter id="point-shadow" x="-40%" y="-40%" width="180%" height="180%" filterUnits="userSpaceOnUse">`)
	buf.WriteString(`<feGaussianBlur result="blur2" in="SourceGraphic" stdDeviation="5"/>`)
	buf.WriteString(`<feMerge><feMergeNode in="blur2"/><feMergeNode in="SourceGraphic"/></feMerge>`)
	buf.WriteString(`</filter></defs>`)
	buf.WriteString("\n")

	fmt.Fprintf(&buf, `<g class="viewport" transform="%s">`, t)
	buf.WriteString("\n")

	for _, r := range sc.Rings {
		fmt.Fprintf(&buf, `<path class="%s" d="%s"/>`, r.Class, r.Path)
		buf.WriteString("\n")
	}

	sc.writeEdges(&buf, "link-layer", sc.Direct, selection, hover)
	sc.writeEdges(&buf, "indirect-link", sc.Indirect, selection, hover)

	buf.WriteString(`<g class="layer node-layer">`)
	buf.WriteString("\n")
	for _, v := range sc.Nodes {
		writeNode(&buf, v, selection, hover)
	}
	buf.WriteString("</g>\n")

	buf.WriteString("</g>\n</svg>\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func (sc *Scene) writeEdges(buf *bytes.Buffer, layer string, edges []EdgeView, selection, hover *highlight.Set) {
	fmt.Fprintf(buf, `<g class="layer %s">`, layer)
	buf.WriteString("\n")

	var raised []EdgeView
	for _, e := range edges {
		if selection.EdgeActive(e.From, e.To) || hover.EdgeActive(e.From, e.To) {
			raised = append(raised, e)
			continue
		}
		writeEdge(buf, e, selection, hover)
	}
	for _, e := range raised {
		writeEdge(buf, e, selection, hover)
	}
	buf.WriteString("</g>\n")
}

func writeEdge(buf *bytes.Buffer, e EdgeView, selection, hover *highlight.Set) {
	class := "link " + string(e.Class)
	if e.Kind == IndirectEdge {
		class += " indirect"
	}
	if selection.EdgeActive(e.From, e.To) {
		class += " active"
	}
	if hover.EdgeActive(e.From, e.To) {
		class += " hover"
	}
	fmt.Fprintf(buf, `<path id="%s" class="%s" d="%s"/>`, e.ID, class, e.Path)
	buf.WriteString("\n")
}

func writeNode(buf *bytes.Buffer, v NodeView, selection, hover *highlight.Set) {
	n := v.Node
	class := "node " + string(n.Hierarchy)
	marked := selection.Has(n) || hover.Has(n)
	if selection.Has(n) {
		class += " active"
	}
	if hover.Has(n) {
		class += " hover"
	}
	if selection.IsTarget(n) {
		class += " active-target"
	}
	if hover.IsTarget(n) {
		class += " hover-target"
	}

	fmt.Fprintf(buf, `<g class="%s" data-key="%d" data-id="%s" transform="translate(%s)">`,
		class, n.Key, html.EscapeString(n.ID), v.Pos)
	if marked {
		fmt.Fprintf(buf, `<circle r="%s" filter="url(#point-shadow)"/>`, geom.FormatFloat(NodeRadius))
	} else {
		fmt.Fprintf(buf, `<circle r="%s"/>`, geom.FormatFloat(NodeRadius))
	}
	fmt.Fprintf(buf, `<text x="%s" dy=".3em">%s</text>`, geom.FormatFloat(LabelOffset), html.EscapeString(n.Name))
	if selection.IsTarget(n) {
		fmt.Fprintf(buf, `<circle class="active" r="%s"/>`, geom.FormatFloat(MarkerRadius))
	}
	if hover.IsTarget(n) {
		fmt.Fprintf(buf, `<circle class="hover" r="%s"/>`, geom.FormatFloat(MarkerRadius))
	}
	buf.WriteString("</g>\n")
}
