package taxonomy

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is shared by all record checks.
var validate = validator.New()

// RootPath is the path of every hierarchy root record.
const RootPath = "0"

// Record is the flat form of one raw node, as stored in JSONL files and catalogs.
// Path lists child positions from the root, e.g. "0.2.1".
type Record struct {
	Hierarchy ModuleType `json:"hierarchy" validate:"required,oneof=model scheme scene"`
	Path      string     `json:"path" validate:"required"`
	ID        string     `json:"id,omitempty"`
	Name      string     `json:"name,omitempty"`
	Type      ModuleType `json:"type,omitempty"`
	Members   []string   `json:"members,omitempty" validate:"dive,required"`
	Models    []string   `json:"models,omitempty"`
	Scenes    []string   `json:"scences,omitempty"`
}

// Validate checks the record's structural fields.
func (r *Record) Validate() error {
	if err := validate.Struct(r); err != nil {
		return formatValidationError(err)
	}
	if _, err := parsePath(r.Path); err != nil {
		return err
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	for _, e := range verrs {
		switch e.Tag() {
		case "required":
			return fmt.Errorf("%s: field is required", e.Field())
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", e.Field(), e.Param())
		default:
			return fmt.Errorf("%s: validation failed (%s)", e.Field(), e.Tag())
		}
	}
	return err
}

func parsePath(path string) ([]int, error) {
	parts := strings.Split(path, ".")
	out := make([]int, len(parts))
	for i, p := range parts {
		v, err := strconv.Atoi(p)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("invalid path %q", path)
		}
		out[i] = v
	}
	if out[0] != 0 {
		return nil, fmt.Errorf("invalid path %q: must start at %s", path, RootPath)
	}
	return out, nil
}

// Flatten converts a dataset into records, hierarchy by hierarchy in preorder.
func Flatten(ds *Dataset) []Record {
	var records []Record
	for _, t := range Types {
		root := ds.Root(t)
		if root == nil {
			continue
		}
		records = flattenNode(records, t, RootPath, root)
	}
	return records
}

func flattenNode(records []Record, t ModuleType, path string, n *Node) []Record {
	records = append(records, Record{
		Hierarchy: t,
		Path:      path,
		ID:        n.ID,
		Name:      n.Name,
		Type:      n.Type,
		Members:   n.Members,
		Models:    n.Models,
		Scenes:    n.Scenes,
	})
	for i, c := range n.Children {
		records = flattenNode(records, t, path+"."+strconv.Itoa(i), c)
	}
	return records
}

// Assemble rebuilds a dataset from records. Record order does not matter;
// siblings are ordered by their last path position.
func Assemble(records []Record) (*Dataset, error) {
	type entry struct {
		rec  Record
		path []int
	}

	entries := make([]entry, 0, len(records))
	for i := range records {
		r := records[i]
		if t, ok := ParseModuleType(string(r.Hierarchy)); ok {
			r.Hierarchy = t
		}
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		p, _ := parsePath(r.Path)
		entries = append(entries, entry{rec: r, path: p})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.rec.Hierarchy != b.rec.Hierarchy {
			return typeOrder(a.rec.Hierarchy) < typeOrder(b.rec.Hierarchy)
		}
		return lessPath(a.path, b.path)
	})

	ds := &Dataset{}
	byPath := make(map[string]*Node, len(entries))
	for _, e := range entries {
		r := e.rec
		n := &Node{
			ID:      r.ID,
			Name:    r.Name,
			Type:    normalizeType(string(r.Type)),
			Members: r.Members,
			Models:  r.Models,
			Scenes:  r.Scenes,
		}
		key := string(r.Hierarchy) + ":" + r.Path
		if _, dup := byPath[key]; dup {
			return nil, fmt.Errorf("duplicate record %s", key)
		}
		byPath[key] = n

		if len(e.path) == 1 {
			ds.SetRoot(r.Hierarchy, n)
			continue
		}
		parentPath := r.Path[:strings.LastIndex(r.Path, ".")]
		parent, ok := byPath[string(r.Hierarchy)+":"+parentPath]
		if !ok {
			return nil, fmt.Errorf("record %s:%s has no parent", r.Hierarchy, r.Path)
		}
		parent.Children = append(parent.Children, n)
	}
	return ds, nil
}

func typeOrder(t ModuleType) int {
	for i, v := range Types {
		if v == t {
			return i
		}
	}
	return len(Types)
}

func lessPath(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
