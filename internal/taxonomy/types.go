// Package taxonomy defines the raw hierarchy records consumed by the diagram engine.
package taxonomy

import "strings"

// ModuleType names one of the three taxonomies.
type ModuleType string

const (
	Model  ModuleType = "model"
	Scheme ModuleType = "scheme"
	Scene  ModuleType = "scene"
)

// legacyScene is the spelling used by older datasets.
const legacyScene = "scence"

// Types lists the hierarchies in build and lookup order.
var Types = []ModuleType{Model, Scheme, Scene}

// ParseModuleType normalizes a type string. The legacy "scence" spelling maps to Scene.
func ParseModuleType(s string) (ModuleType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "model":
		return Model, true
	case "scheme":
		return Scheme, true
	case "scene", legacyScene:
		return Scene, true
	default:
		return "", false
	}
}

// Valid reports whether t is one of the known module types.
func (t ModuleType) Valid() bool {
	_, ok := ParseModuleType(string(t))
	return ok && string(t) != legacyScene
}

// Node is one raw taxonomy entry.
//
// Scheme entries reference model and scene entries by id, either as plain string
// children or through the Models and Scenes lists.
type Node struct {
	ID       string     `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Type     ModuleType `json:"type,omitempty" yaml:"type,omitempty"`
	Children []*Node    `json:"-" yaml:"-"`
	Members  []string   `json:"-" yaml:"-"` // string children
	Models   []string   `json:"models,omitempty" yaml:"models,omitempty"`
	Scenes   []string   `json:"scences,omitempty" yaml:"scences,omitempty"`
}

// MemberIDs returns the foreign ids this node references.
// Explicit string children win; otherwise models are followed by scenes.
func (n *Node) MemberIDs() []string {
	if n == nil {
		return nil
	}
	if len(n.Members) > 0 {
		return n.Members
	}
	if len(n.Models) == 0 && len(n.Scenes) == 0 {
		return nil
	}
	ids := make([]string, 0, len(n.Models)+len(n.Scenes))
	ids = append(ids, n.Models...)
	return append(ids, n.Scenes...)
}

// Count returns the number of nodes in the subtree, n included.
func (n *Node) Count() int {
	if n == nil {
		return 0
	}
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Dataset holds the three raw hierarchy roots.
type Dataset struct {
	Model  *Node `json:"model" yaml:"model"`
	Scheme *Node `json:"scheme" yaml:"scheme"`
	Scene  *Node `json:"scene" yaml:"scene"`
}

// Root returns the raw root for a hierarchy, or nil.
func (d *Dataset) Root(t ModuleType) *Node {
	switch t {
	case Model:
		return d.Model
	case Scheme:
		return d.Scheme
	case Scene:
		return d.Scene
	default:
		return nil
	}
}

// SetRoot replaces the raw root for a hierarchy.
func (d *Dataset) SetRoot(t ModuleType, root *Node) {
	switch t {
	case Model:
		d.Model = root
	case Scheme:
		d.Scheme = root
	case Scene:
		d.Scene = root
	}
}

// IsEmpty returns true if no hierarchy has any entries below its root.
func (d *Dataset) IsEmpty() bool {
	for _, t := range Types {
		if r := d.Root(t); r != nil && (len(r.Children) > 0 || len(r.MemberIDs()) > 0) {
			return false
		}
	}
	return true
}
