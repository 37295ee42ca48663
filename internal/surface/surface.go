package surface

import (
	"errors"
	"fmt"

	"github.com/matsen/ringmap/internal/geom"
	"github.com/matsen/ringmap/internal/highlight"
	"github.com/matsen/ringmap/internal/layout"
)

// EventKind enumerates the pointer events a surface reacts to.
type EventKind string

const (
	Click       EventKind = "click"
	HoverEnter  EventKind = "hover-enter"
	HoverLeave  EventKind = "hover-leave"
	PointerMove EventKind = "pointer-move"
	Wheel       EventKind = "wheel"
	Drag        EventKind = "drag"
	Reset       EventKind = "reset"
)

// EventKinds lists every accepted kind.
var EventKinds = []EventKind{Click, HoverEnter, HoverLeave, PointerMove, Wheel, Drag, Reset}

var (
	// ErrUnknownEvent is returned for an event kind the surface does not handle.
	ErrUnknownEvent = errors.New("unknown event kind")
	// ErrUnknownTarget is returned when an event names a node or edge that is
	// not drawn.
	ErrUnknownTarget = errors.New("unknown event target")
)

// Event is one pointer event with the data bound to the struck element. An
// event with neither Node nor Edge struck empty space.
type Event struct {
	Kind EventKind
	Node *layout.NodeKey
	Edge string
	// X and Y are the pointer position in surface pixels.
	X, Y float64
	// Factor is the wheel zoom factor.
	Factor float64
	// DX and DY are the drag offset in surface pixels.
	DX, DY float64
}

// Tooltip is the floating name/id/type box.
type Tooltip struct {
	Visible bool    `json:"visible"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Name    string  `json:"name,omitempty"`
	ID      string  `json:"id,omitempty"`
	Type    string  `json:"type,omitempty"`
}

// Surface holds the interaction state of one mounted scene.
type Surface struct {
	scene     *Scene
	selection *highlight.Set
	hover     *highlight.Set
	tooltip   Tooltip
	transform Transform
}

// New returns a surface with nothing selected and the scene centered.
func New(scene *Scene) *Surface {
	return &Surface{
		scene:     scene,
		transform: Identity(scene.Width(), scene.Height()),
	}
}

// Scene returns the drawn content.
func (s *Surface) Scene() *Scene { return s.scene }

// Selection returns the click highlight, or nil.
func (s *Surface) Selection() *highlight.Set { return s.selection }

// Hover returns the hover highlight, or nil.
func (s *Surface) Hover() *highlight.Set { return s.hover }

// Tooltip returns the tooltip state.
func (s *Surface) Tooltip() Tooltip { return s.tooltip }

// Transform returns the current zoom/pan transform.
func (s *Surface) Transform() Transform { return s.transform }

// Select replaces the selection with the traversal from the node with id.
func (s *Surface) Select(id string) error {
	n := s.scene.Diagram.Find(id)
	if n == nil {
		return fmt.Errorf("%w: node %q", ErrUnknownTarget, id)
	}
	if _, ok := s.scene.View(n.Key); !ok {
		return fmt.Errorf("%w: node %q is not drawn", ErrUnknownTarget, id)
	}
	s.selection = highlight.Traverse(n, s.scene.Graph)
	return nil
}

// Handle applies one event. Events naming an unknown element leave the state
// untouched and return ErrUnknownTarget.
func (s *Surface) Handle(ev Event) error {
	node, edge, err := s.resolve(ev)
	if err != nil {
		return err
	}

	switch ev.Kind {
	case Click:
		if node == nil {
			s.selection = nil
			return nil
		}
		s.selection = highlight.Traverse(node, s.scene.Graph)

	case HoverEnter:
		switch {
		case node != nil:
			s.hover = highlight.Traverse(node, s.scene.Graph)
			s.showTooltip(node, ev)
		case edge != nil && edge.Kind == DirectEdge:
			s.showTooltip(edge.From, ev)
		}

	case HoverLeave:
		s.hover = nil
		s.tooltip.Visible = false

	case PointerMove:
		if s.tooltip.Visible {
			s.tooltip.X = ev.X
			s.tooltip.Y = ev.Y + TooltipDrop
		}

	case Wheel:
		s.transform = s.transform.ScaleAt(geom.Point{X: ev.X, Y: ev.Y}, ev.Factor)

	case Drag:
		s.transform = s.transform.Translate(ev.DX, ev.DY)

	case Reset:
		s.transform = Identity(s.scene.Width(), s.scene.Height())

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, ev.Kind)
	}
	return nil
}

func (s *Surface) resolve(ev Event) (*layout.Node, *EdgeView, error) {
	var node *layout.Node
	var edge *EdgeView
	if ev.Node != nil {
		v, ok := s.scene.View(*ev.Node)
		if !ok {
			return nil, nil, fmt.Errorf("%w: node %d", ErrUnknownTarget, *ev.Node)
		}
		node = v.Node
	}
	if ev.Edge != "" {
		e, ok := s.scene.Edge(ev.Edge)
		if !ok {
			return nil, nil, fmt.Errorf("%w: edge %q", ErrUnknownTarget, ev.Edge)
		}
		edge = e
	}
	return node, edge, nil
}

func (s *Surface) showTooltip(n *layout.Node, ev Event) {
	s.tooltip = Tooltip{
		Visible: true,
		X:       ev.X,
		Y:       ev.Y + TooltipDrop,
		Name:    n.Name,
		ID:      n.ID,
		Type:    string(n.Type),
	}
}

// NodeRef identifies a node in serialized state.
type NodeRef struct {
	Key layout.NodeKey `json:"key"`
	ID  string         `json:"id,omitempty"`
}

// SetState is the serialized form of a highlight set.
type SetState struct {
	Target NodeRef   `json:"target"`
	Nodes  []NodeRef `json:"nodes"`
	Edges  []string  `json:"edges"`
}

// State is a snapshot of the surface.
type State struct {
	Selection *SetState `json:"selection,omitempty"`
	Hover     *SetState `json:"hover,omitempty"`
	Tooltip   Tooltip   `json:"tooltip"`
	Transform Transform `json:"transform"`
}

// State returns a snapshot of the interaction state.
func (s *Surface) State() State {
	return State{
		Selection: s.setState(s.selection),
		Hover:     s.setState(s.hover),
		Tooltip:   s.tooltip,
		Transform: s.transform,
	}
}

func (s *Surface) setState(set *highlight.Set) *SetState {
	if set == nil || set.Start == nil {
		return nil
	}
	st := &SetState{
		Target: NodeRef{Key: set.Start.Key, ID: set.Start.ID},
		Nodes:  make([]NodeRef, 0, set.Len()),
		Edges:  s.scene.ActiveEdges(set),
	}
	for _, n := range set.Nodes() {
		st.Nodes = append(st.Nodes, NodeRef{Key: n.Key, ID: n.ID})
	}
	return st
}

// ActiveEdges returns the ids of the drawn edges whose endpoints are both in
// set, in paint order.
func (sc *Scene) ActiveEdges(set *highlight.Set) []string {
	out := []string{}
	for _, e := range sc.Edges() {
		if set.EdgeActive(e.From, e.To) {
			out = append(out, e.ID)
		}
	}
	return out
}
