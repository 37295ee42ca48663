package viz

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/matsen/ringmap/internal/surface"
)

// compiledTemplate is parsed at init time to fail fast on template errors.
var compiledTemplate *template.Template

func init() {
	compiledTemplate = template.Must(template.New("viz").Parse(htmlTemplate))
}

// HTMLOptions configures HTML generation.
type HTMLOptions struct {
	Title string
}

// DefaultOptions returns default HTML generation options.
func DefaultOptions() HTMLOptions {
	return HTMLOptions{Title: "Module taxonomy"}
}

// GenerateHTML generates a self-contained HTML page for the surface: the SVG
// in its current state plus the script that replays hover, click, tooltip and
// zoom in the browser.
func GenerateHTML(s *surface.Surface, opts HTMLOptions) (string, error) {
	if s == nil {
		return "", fmt.Errorf("surface cannot be nil")
	}
	if opts.Title == "" {
		opts.Title = DefaultOptions().Title
	}

	graph := BuildGraph(s)
	if graph.IsEmpty() {
		return generateEmptyHTML(opts.Title)
	}

	graphJSON, err := graph.ToJSON()
	if err != nil {
		return "", err
	}

	var svg bytes.Buffer
	if err := s.WriteSVG(&svg); err != nil {
		return "", fmt.Errorf("rendering svg: %w", err)
	}

	t := s.Transform()
	data := templateData{
		Title:       opts.Title,
		SVG:         template.HTML(svg.String()),
		GraphJSON:   template.JS(graphJSON),
		Width:       s.Scene().Width(),
		Height:      s.Scene().Height(),
		X:           t.X,
		Y:           t.Y,
		K:           t.K,
		MinScale:    surface.MinScale,
		MaxScale:    surface.MaxScale,
		Marker:      surface.MarkerRadius,
		TooltipDrop: surface.TooltipDrop,
	}

	var buf bytes.Buffer
	if err := compiledTemplate.Execute(&buf, data); err != nil {
		return "", err
	}

	return buf.String(), nil
}

// templateData holds data for the HTML template.
type templateData struct {
	Title       string
	SVG         template.HTML
	GraphJSON   template.JS
	Width       float64
	Height      float64
	X, Y, K     float64
	MinScale    float64
	MaxScale    float64
	Marker      float64
	TooltipDrop float64
}

var emptyTemplate = template.Must(template.New("empty").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.}} - Empty</title>
  <style>
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      display: flex;
      justify-content: center;
      align-items: center;
      height: 100vh;
      margin: 0;
      background: #f5f5f5;
    }
    .empty-state {
      text-align: center;
      color: #666;
    }
    .empty-state h2 {
      margin-bottom: 0.5em;
      color: #333;
    }
    .empty-state code {
      background: #e0e0e0;
      padding: 2px 6px;
      border-radius: 3px;
    }
  </style>
</head>
<body>
  <div class="empty-state">
    <h2>No modules</h2>
    <p>The dataset has no model, scheme or scene entries.</p>
    <p>Try <code>ringmap render --demo</code></p>
  </div>
</body>
</html>`))

// generateEmptyHTML returns HTML for an empty dataset.
func generateEmptyHTML(title string) (string, error) {
	var buf bytes.Buffer
	if err := emptyTemplate.Execute(&buf, title); err != nil {
		return "", err
	}
	return buf.String(), nil
}

const htmlTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>{{.Title}}</title>
  <style>
    * {
      box-sizing: border-box;
    }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      padding: 0;
      background: #f5f5f5;
    }
    #chart {
      background: white;
      overflow: hidden;
      cursor: grab;
    }
    #chart.dragging {
      cursor: grabbing;
    }
    #tooltip {
      position: absolute;
      display: none;
      background: white;
      border: 1px solid #ccc;
      border-radius: 4px;
      padding: 8px 12px;
      box-shadow: 0 2px 8px rgba(0,0,0,0.15);
      max-width: 300px;
      font-size: 13px;
      z-index: 1000;
      pointer-events: none;
    }
    #tooltip .type {
      font-size: 10px;
      text-transform: uppercase;
      color: #888;
      margin-bottom: 4px;
    }
    #tooltip .label {
      font-weight: bold;
      margin-bottom: 4px;
    }
    #tooltip .detail {
      color: #555;
      margin: 2px 0;
    }
  </style>
</head>
<body>
  <div id="chart">{{.SVG}}</div>
  <div id="tooltip"></div>
  <script>
    (function() {
      const graph = {{.GraphJSON}};
      const minScale = {{.MinScale}};
      const maxScale = {{.MaxScale}};
      const markerRadius = {{.Marker}};
      const tooltipDrop = {{.TooltipDrop}};
      const home = {x: {{.X}}, y: {{.Y}}, k: {{.K}}};

      const chart = document.getElementById('chart');
      const svg = chart.querySelector('svg');
      const viewport = svg.querySelector('g.viewport');
      const tooltip = document.getElementById('tooltip');
      const svgNS = 'http://www.w3.org/2000/svg';

      const nodeEls = {};
      svg.querySelectorAll('g.node').forEach(function(g) {
        nodeEls[g.dataset.key] = g;
      });

      let selected = graph.selected === undefined ? null : String(graph.selected);
      let t = {x: home.x, y: home.y, k: home.k};

      // Marking

      function clear(kind) {
        svg.querySelectorAll('circle.' + kind).forEach(function(c) { c.remove(); });
        svg.querySelectorAll('.' + kind + ', .' + kind + '-target').forEach(function(el) {
          el.classList.remove(kind, kind + '-target');
        });
      }

      function refreshShadows() {
        Object.keys(nodeEls).forEach(function(key) {
          const g = nodeEls[key];
          const circle = g.querySelector('circle');
          if (g.classList.contains('active') || g.classList.contains('hover')) {
            circle.setAttribute('filter', 'url(#point-shadow)');
          } else {
            circle.removeAttribute('filter');
          }
        });
      }

      function mark(kind, key) {
        clear(kind);
        if (key !== null && graph.highlights[key]) {
          const h = graph.highlights[key];
          h.nodes.forEach(function(k) {
            const g = nodeEls[k];
            if (g) g.classList.add(kind);
          });
          h.edges.forEach(function(id) {
            const path = document.getElementById(id);
            if (!path) return;
            path.classList.add(kind);
            path.parentNode.appendChild(path);
          });
          const target = nodeEls[key];
          if (target) {
            target.classList.add(kind + '-target');
            const marker = document.createElementNS(svgNS, 'circle');
            marker.setAttribute('class', kind);
            marker.setAttribute('r', markerRadius);
            target.appendChild(marker);
          }
        }
        refreshShadows();
      }

      // Tooltip

      function escapeHtml(str) {
        if (!str) return '';
        return str.replace(/&/g, '&amp;')
                  .replace(/</g, '&lt;')
                  .replace(/>/g, '&gt;')
                  .replace(/"/g, '&quot;');
      }

      function showTooltip(evt, key) {
        const n = graph.nodes[key];
        if (!n) return;
        let html = '<div class="type">' + escapeHtml(n.type) + '</div>';
        html += '<div class="label">' + escapeHtml(n.name) + '</div>';
        html += '<div class="detail">' + escapeHtml(n.id) + '</div>';
        tooltip.innerHTML = html;
        tooltip.style.display = 'block';
        moveTooltip(evt);
      }

      function moveTooltip(evt) {
        if (tooltip.style.display !== 'block') return;
        tooltip.style.left = evt.pageX + 'px';
        tooltip.style.top = (evt.pageY + tooltipDrop) + 'px';
      }

      function hideTooltip() {
        tooltip.style.display = 'none';
      }

      function directChild(path) {
        const m = /^link-(\d+)$/.exec(path.id || '');
        return m ? m[1] : null;
      }

      // Event handlers

      svg.querySelectorAll('g.node').forEach(function(g) {
        g.addEventListener('mouseenter', function(evt) {
          mark('hover', g.dataset.key);
          showTooltip(evt, g.dataset.key);
        });
        g.addEventListener('mouseleave', function() {
          mark('hover', null);
          hideTooltip();
        });
        g.addEventListener('click', function(evt) {
          evt.stopPropagation();
          selected = g.dataset.key;
          mark('active', selected);
        });
      });

      svg.querySelectorAll('.link-layer path').forEach(function(path) {
        path.addEventListener('mouseenter', function(evt) {
          const key = directChild(path);
          if (key !== null) showTooltip(evt, key);
        });
        path.addEventListener('mouseleave', function() {
          mark('hover', null);
          hideTooltip();
        });
      });

      svg.addEventListener('mousemove', moveTooltip);

      let dragged = false;
      svg.addEventListener('click', function() {
        if (dragged) return;
        selected = null;
        mark('active', null);
      });

      // Zoom and pan

      function applyTransform() {
        let s = 'translate(' + t.x + ',' + t.y + ')';
        if (t.k !== 1) s += ' scale(' + t.k + ')';
        viewport.setAttribute('transform', s);
      }

      function pointer(evt) {
        const r = svg.getBoundingClientRect();
        return {x: evt.clientX - r.left, y: evt.clientY - r.top};
      }

      svg.addEventListener('wheel', function(evt) {
        evt.preventDefault();
        const p = pointer(evt);
        const k = Math.min(maxScale, Math.max(minScale, t.k * Math.pow(2, -evt.deltaY / 500)));
        t = {x: p.x - (p.x - t.x) * k / t.k, y: p.y - (p.y - t.y) * k / t.k, k: k};
        applyTransform();
      }, {passive: false});

      let drag = null;
      svg.addEventListener('mousedown', function(evt) {
        drag = {x: evt.clientX, y: evt.clientY};
        dragged = false;
      });
      window.addEventListener('mousemove', function(evt) {
        if (!drag) return;
        const dx = evt.clientX - drag.x;
        const dy = evt.clientY - drag.y;
        if (dx === 0 && dy === 0) return;
        dragged = true;
        chart.classList.add('dragging');
        t = {x: t.x + dx, y: t.y + dy, k: t.k};
        drag = {x: evt.clientX, y: evt.clientY};
        applyTransform();
      });
      window.addEventListener('mouseup', function() {
        drag = null;
        chart.classList.remove('dragging');
      });
      svg.addEventListener('dblclick', function(evt) {
        evt.preventDefault();
        t = {x: home.x, y: home.y, k: home.k};
        applyTransform();
      });

      mark('active', selected);
    })();
  </script>
</body>
</html>`
