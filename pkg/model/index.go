package model

// Index resolves element ids to live elements. It is built once by walking
// a root and is not kept in sync with later tree mutations; rebuild after
// structural changes. Geometry-only mutation (bounds updates) does not
// invalidate the index.
type Index struct {
	byID  map[string]*Element
	count int
}

// NewIndex builds an index over root and all its descendants.
// When two elements share an id, the first in document order wins.
func NewIndex(root *Element) *Index {
	ix := &Index{byID: make(map[string]*Element)}
	root.Walk(func(e *Element) bool {
		if e.ID != "" {
			if _, exists := ix.byID[e.ID]; !exists {
				ix.byID[e.ID] = e
			}
		}
		ix.count++
		return true
	})
	return ix
}

// ByID returns the element with the given id, or nil if unknown.
func (ix *Index) ByID(id string) *Element {
	return ix.byID[id]
}

// Resolve maps ids to elements, preserving input order and silently
// dropping ids that do not resolve.
func (ix *Index) Resolve(ids []string) []*Element {
	out := make([]*Element, 0, len(ids))
	for _, id := range ids {
		if e := ix.byID[id]; e != nil {
			out = append(out, e)
		}
	}
	return out
}

// Len returns the number of elements visited while building the index.
func (ix *Index) Len() int { return ix.count }
