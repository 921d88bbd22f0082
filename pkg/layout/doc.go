// Package layout implements the constraint-based box layout engine.
//
// A layout pass is a single-level, non-recursive computation: given one
// container and its ordered children (each already laid out), it derives
// final bounds for the container and positions for the children under
// padding, gap, alignment, and free-space distribution ("grab") rules.
// Nested containers are handled by repeated invocation from the bottom of
// the tree upward, not by this algorithm.
//
// The engine is a pure function of (container, children, options): its only
// output is written into the [BoundsData] scratch table owned by the caller
// for the duration of one pass. Identical inputs always produce identical
// outputs, and children are placed strictly in their given sequence order.
//
// Children are stacked along the vertical axis. Children whose bounds are
// missing, invalid, or zero-sized are skipped entirely; they contribute
// neither extent nor gap spacing.
package layout
