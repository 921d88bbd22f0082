package marker

import "sort"

// Comparator orders two markers. It returns a negative number when a sorts
// before b, zero when they are unordered, and a positive number otherwise.
type Comparator func(a, b Marker) int

// Unordered is the default comparator: every pair compares equal, so the
// sequence keeps its given order and navigation always wraps to the first
// matching marker.
func Unordered(a, b Marker) int { return 0 }

// ReadingOrder compares markers by ascending y, then ascending x, of their
// bounds. Markers without bounds sort before bounded ones, as if they sat at
// the origin.
func ReadingOrder(a, b Marker) int {
	ay, ax := position(a)
	by, bx := position(b)
	switch {
	case ay < by:
		return -1
	case ay > by:
		return 1
	case ax < bx:
		return -1
	case ax > bx:
		return 1
	default:
		return 0
	}
}

func position(m Marker) (y, x float64) {
	if m.Bounds == nil {
		return 0, 0
	}
	return m.Bounds.Y, m.Bounds.X
}

// Navigator steps through markers in circular order. It performs no
// mutation and holds no cache: every call operates on the marker slice it
// is given, so callers may pass a fresh snapshot after each model change.
type Navigator struct {
	compare Comparator
	accept  Predicate
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithComparator sets the ordering used by Next and Previous.
func WithComparator(c Comparator) Option {
	return func(n *Navigator) { n.compare = c }
}

// WithPredicate sets the filter applied before ordering.
func WithPredicate(p Predicate) Option {
	return func(n *Navigator) { n.accept = p }
}

// NewNavigator creates a Navigator. Without options it accepts all
// severities and keeps the given marker order.
func NewNavigator(opts ...Option) *Navigator {
	n := &Navigator{compare: Unordered, accept: AnySeverity}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Next returns the first marker after current in the sorted sequence,
// wrapping to the start when current is the last. With a nil current it
// returns the first sorted marker. Returns nil only when no marker matches
// the predicate.
func (n *Navigator) Next(markers []Marker, current *Marker) *Marker {
	sorted := n.collect(markers)
	if len(sorted) == 0 {
		return nil
	}
	if current == nil {
		return &sorted[0]
	}
	for i := range sorted {
		if n.compare(sorted[i], *current) > 0 {
			return &sorted[i]
		}
	}
	// Past the last marker: wrap around.
	return &sorted[0]
}

// Previous returns the last marker before current in the sorted sequence,
// wrapping to the end when current is the first.
//
// With a nil current, Previous returns the first sorted marker, not the
// last. That mirrors Next and is long-standing behavior that callers
// depend on when opening a diagram without a selection.
func (n *Navigator) Previous(markers []Marker, current *Marker) *Marker {
	sorted := n.collect(markers)
	if len(sorted) == 0 {
		return nil
	}
	if current == nil {
		return &sorted[0]
	}
	for i := len(sorted) - 1; i >= 0; i-- {
		if n.compare(sorted[i], *current) < 0 {
			return &sorted[i]
		}
	}
	// Before the first marker: wrap around.
	return &sorted[len(sorted)-1]
}

// collect filters and stably sorts a copy of the input.
func (n *Navigator) collect(markers []Marker) []Marker {
	out := make([]Marker, 0, len(markers))
	for _, m := range markers {
		if n.accept(m) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return n.compare(out[i], out[j]) < 0
	})
	return out
}
