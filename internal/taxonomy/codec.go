package taxonomy

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// nodeFields is the wire shape shared by the JSON and YAML codecs.
type nodeFields struct {
	ID      string   `json:"id,omitempty" yaml:"id,omitempty"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Type    string   `json:"type,omitempty" yaml:"type,omitempty"`
	Models  []string `json:"models,omitempty" yaml:"models,omitempty"`
	Scences []string `json:"scences,omitempty" yaml:"scences,omitempty"`
	Scenes  []string `json:"scenes,omitempty" yaml:"scenes,omitempty"`
}

func (f nodeFields) apply(n *Node) {
	n.ID = f.ID
	n.Name = f.Name
	n.Type = normalizeType(f.Type)
	n.Models = f.Models
	n.Scenes = append(f.Scences, f.Scenes...)
}

func normalizeType(s string) ModuleType {
	if t, ok := ParseModuleType(s); ok {
		return t
	}
	return ModuleType(s)
}

// UnmarshalJSON accepts children that mix nested records and plain id strings.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw struct {
		nodeFields
		Children []json.RawMessage `json:"children"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	raw.nodeFields.apply(n)
	n.Children = nil
	n.Members = nil

	for i, c := range raw.Children {
		c = bytes.TrimSpace(c)
		switch {
		case len(c) == 0 || bytes.Equal(c, []byte("null")):
			continue
		case c[0] == '"':
			var id string
			if err := json.Unmarshal(c, &id); err != nil {
				return fmt.Errorf("parsing child %d of %q: %w", i, n.ID, err)
			}
			n.Members = append(n.Members, id)
		default:
			child := &Node{}
			if err := json.Unmarshal(c, child); err != nil {
				return fmt.Errorf("parsing child %d of %q: %w", i, n.ID, err)
			}
			n.Children = append(n.Children, child)
		}
	}
	return nil
}

// MarshalJSON writes nested children before member ids.
func (n *Node) MarshalJSON() ([]byte, error) {
	out := struct {
		ID       string     `json:"id,omitempty"`
		Name     string     `json:"name,omitempty"`
		Type     ModuleType `json:"type,omitempty"`
		Models   []string   `json:"models,omitempty"`
		Scenes   []string   `json:"scences,omitempty"`
		Children []any      `json:"children,omitempty"`
	}{
		ID:       n.ID,
		Name:     n.Name,
		Type:     n.Type,
		Models:   n.Models,
		Scenes:   n.Scenes,
		Children: n.childValues(),
	}
	return json.Marshal(out)
}

func (n *Node) childValues() []any {
	if len(n.Children) == 0 && len(n.Members) == 0 {
		return nil
	}
	values := make([]any, 0, len(n.Children)+len(n.Members))
	for _, c := range n.Children {
		values = append(values, c)
	}
	for _, id := range n.Members {
		values = append(values, id)
	}
	return values
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (n *Node) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		nodeFields `yaml:",inline"`
		Children   []yaml.Node `yaml:"children"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	raw.nodeFields.apply(n)
	n.Children = nil
	n.Members = nil

	for i := range raw.Children {
		c := &raw.Children[i]
		switch c.Kind {
		case yaml.ScalarNode:
			if c.Tag == "!!null" {
				continue
			}
			n.Members = append(n.Members, c.Value)
		case yaml.MappingNode:
			child := &Node{}
			if err := c.Decode(child); err != nil {
				return fmt.Errorf("line %d: %w", c.Line, err)
			}
			n.Children = append(n.Children, child)
		default:
			return fmt.Errorf("line %d: child must be a record or an id", c.Line)
		}
	}
	return nil
}

// MarshalYAML writes nested children before member ids.
func (n *Node) MarshalYAML() (any, error) {
	return struct {
		ID       string     `yaml:"id,omitempty"`
		Name     string     `yaml:"name,omitempty"`
		Type     ModuleType `yaml:"type,omitempty"`
		Models   []string   `yaml:"models,omitempty"`
		Scenes   []string   `yaml:"scences,omitempty"`
		Children []any      `yaml:"children,omitempty"`
	}{
		ID:       n.ID,
		Name:     n.Name,
		Type:     n.Type,
		Models:   n.Models,
		Scenes:   n.Scenes,
		Children: n.childValues(),
	}, nil
}

// UnmarshalJSON accepts hierarchy keys in any supported spelling.
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var raw map[string]*Node
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	return d.assign(raw)
}

// UnmarshalYAML accepts hierarchy keys in any supported spelling.
func (d *Dataset) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]*Node
	if err := value.Decode(&raw); err != nil {
		return err
	}
	return d.assign(raw)
}

func (d *Dataset) assign(raw map[string]*Node) error {
	keys := make(map[ModuleType]string, len(raw))
	for key := range raw {
		t, ok := ParseModuleType(key)
		if !ok {
			return fmt.Errorf("unknown hierarchy %q: must be model, scheme, or scene", key)
		}
		if prev, dup := keys[t]; dup {
			a, b := prev, key
			if b < a {
				a, b = b, a
			}
			return fmt.Errorf("hierarchy %s given twice, as %q and %q", t, a, b)
		}
		keys[t] = key
	}
	for t, key := range keys {
		d.SetRoot(t, raw[key])
	}
	return nil
}
