package pricing

import (
	"maps"
	"slices"

	pkgerrors "github.com/Simplici0/doorquote/internal/errors"
)

// Catalog is the read-only lookup the calculator prices against.
type Catalog interface {
	Attribute(id int64) (AttributeDefinition, bool)
	Option(id int64) (AttributeOption, bool)
	Unit(id int64) (Unit, bool)
	ThicknessOption(id int64) (ThicknessOption, bool)
}

// Snapshot is the plain catalog data a MemoryCatalog is built from.
type Snapshot struct {
	Units            []Unit
	ThicknessOptions []ThicknessOption
	Attributes       []AttributeDefinition
	Options          []AttributeOption
}

// MemoryCatalog is an id-keyed, immutable Catalog. Nested attributes reference their
// children by id, so cycles in the data cannot create cyclic object graphs.
type MemoryCatalog struct {
	units      map[int64]Unit
	thickness  map[int64]ThicknessOption
	attributes map[int64]AttributeDefinition
	options    map[int64]AttributeOption
	byAttr     map[int64][]int64
}

// NewMemoryCatalog copies s into a new catalog. Duplicate ids are rejected.
func NewMemoryCatalog(s Snapshot) (*MemoryCatalog, error) {
	c := &MemoryCatalog{
		units:      make(map[int64]Unit, len(s.Units)),
		thickness:  make(map[int64]ThicknessOption, len(s.ThicknessOptions)),
		attributes: make(map[int64]AttributeDefinition, len(s.Attributes)),
		options:    make(map[int64]AttributeOption, len(s.Options)),
		byAttr:     map[int64][]int64{},
	}

	for _, u := range s.Units {
		if _, dup := c.units[u.ID]; dup {
			return nil, duplicateID("unit", u.ID)
		}
		c.units[u.ID] = u
	}
	for _, t := range s.ThicknessOptions {
		if _, dup := c.thickness[t.ID]; dup {
			return nil, duplicateID("thickness option", t.ID)
		}
		c.thickness[t.ID] = t
	}
	for _, a := range s.Attributes {
		if _, dup := c.attributes[a.ID]; dup {
			return nil, duplicateID("attribute", a.ID)
		}
		a.Children = slices.Clone(a.Children)
		c.attributes[a.ID] = a
	}
	for _, o := range s.Options {
		if _, dup := c.options[o.ID]; dup {
			return nil, duplicateID("attribute option", o.ID)
		}
		c.options[o.ID] = o
		c.byAttr[o.AttributeID] = append(c.byAttr[o.AttributeID], o.ID)
	}

	return c, nil
}

func duplicateID(entity string, id int64) error {
	return pkgerrors.Newf(pkgerrors.CodeConfiguration, "duplicate %s id %d", entity, id).With("id", id)
}

func (c *MemoryCatalog) Attribute(id int64) (AttributeDefinition, bool) {
	a, ok := c.attributes[id]
	if !ok {
		return AttributeDefinition{}, false
	}
	a.Children = slices.Clone(a.Children)
	return a, true
}

func (c *MemoryCatalog) Option(id int64) (AttributeOption, bool) {
	o, ok := c.options[id]
	return o, ok
}

func (c *MemoryCatalog) Unit(id int64) (Unit, bool) {
	u, ok := c.units[id]
	return u, ok
}

func (c *MemoryCatalog) ThicknessOption(id int64) (ThicknessOption, bool) {
	t, ok := c.thickness[id]
	return t, ok
}

// OptionsFor returns the options of one attribute in insertion order.
func (c *MemoryCatalog) OptionsFor(attributeID int64) []AttributeOption {
	ids := c.byAttr[attributeID]
	out := make([]AttributeOption, 0, len(ids))
	for _, id := range ids {
		out = append(out, c.options[id])
	}
	return out
}

// AttributeIDs returns every attribute id in ascending order.
func (c *MemoryCatalog) AttributeIDs() []int64 {
	return slices.Sorted(maps.Keys(c.attributes))
}
