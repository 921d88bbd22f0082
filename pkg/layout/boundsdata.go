package layout

import (
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// BoundsData is the scratch table a layout pass writes into. It is owned by
// exactly one pass: create it, run the pass (or several stacked passes over
// a nested tree), commit, discard. It must not be shared across concurrent
// passes.
type BoundsData struct {
	entries map[*model.Element]*boundsEntry
	order   []*model.Element
}

type boundsEntry struct {
	bounds  geometry.Bounds
	changed bool
}

// NewBoundsData creates an empty scratch table.
func NewBoundsData() *BoundsData {
	return &BoundsData{entries: make(map[*model.Element]*boundsEntry)}
}

// SetBounds records new bounds for an element and marks it changed.
func (d *BoundsData) SetBounds(el *model.Element, b geometry.Bounds) {
	e := d.entries[el]
	if e == nil {
		e = &boundsEntry{}
		d.entries[el] = e
		d.order = append(d.order, el)
	}
	e.bounds = b
	e.changed = true
}

// Bounds returns the recorded bounds for an element, if any.
func (d *BoundsData) Bounds(el *model.Element) (geometry.Bounds, bool) {
	if e := d.entries[el]; e != nil {
		return e.bounds, true
	}
	return geometry.Bounds{}, false
}

// Changed returns the elements with pending bounds changes, in the order
// they were first recorded.
func (d *BoundsData) Changed() []*model.Element {
	out := make([]*model.Element, 0, len(d.order))
	for _, el := range d.order {
		if d.entries[el].changed {
			out = append(out, el)
		}
	}
	return out
}

// Commit writes all changed bounds into the model elements and returns the
// number of elements updated. The table is spent afterwards; allocate a new
// one for the next pass.
func (d *BoundsData) Commit() int {
	n := 0
	for _, el := range d.order {
		e := d.entries[el]
		if !e.changed {
			continue
		}
		b := e.bounds
		el.Bounds = &b
		e.changed = false
		n++
	}
	return n
}
