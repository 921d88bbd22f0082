package layout

import (
	"math"

	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// Strategies are the injectable steps of the layout pass. The zero value
// uses the element's own bounds and the default layoutable-child
// classification; callers override them to lay out synthetic trees or to
// restrict which children participate.
type Strategies struct {
	// FixedBounds returns the current bounds of an element outside the
	// scratch table. Defaults to the element's Bounds field.
	FixedBounds func(*model.Element) *geometry.Bounds

	// LayoutableChild reports whether a child takes part in the pass.
	// Defaults to model.LayoutableChild.
	LayoutableChild func(*model.Element) bool
}

func (s Strategies) withDefaults() Strategies {
	if s.FixedBounds == nil {
		s.FixedBounds = func(el *model.Element) *geometry.Bounds { return el.Bounds }
	}
	if s.LayoutableChild == nil {
		s.LayoutableChild = model.LayoutableChild
	}
	return s
}

// aggregate is the combined extent of the contributing children:
// height is the stacking-axis sum including inter-child gaps, width the
// cross-axis maximum.
type aggregate struct {
	width  float64
	height float64
	count  int
}

// Arrange performs one single-level layout pass for container, writing
// child placements and the final container bounds into data. Nothing is
// written when the usable interior is empty on either axis.
//
// Precondition: opts.PaddingFactor > 0 (see [Options.Validate]).
func Arrange(container *model.Element, opts Options, data *BoundsData, strat Strategies) {
	strat = strat.withDefaults()

	children := make([]*model.Element, 0, len(container.Children))
	for _, child := range container.Children {
		if strat.LayoutableChild(child) {
			children = append(children, child)
		}
	}

	agg := childrenSize(children, opts, data, strat)
	usableW, usableH := usableSize(container, opts, agg, data, strat)

	// Free stacking-axis space is split equally among grabbing children.
	grabbing := 0
	for _, child := range children {
		if _, ok := resolvedBounds(child, data, strat); ok && grabVertical(opts, child) {
			grabbing++
		}
	}
	// Grabbing absorbs leftover space only. When the children overflow a
	// fixed interior there is nothing to distribute and the share stays
	// zero rather than shrinking grabbing children below their extent.
	extra := 0.0
	if grabbing > 0 {
		extra = math.Max(0, (usableH-agg.height)/float64(grabbing))
	}

	if usableW <= 0 || usableH <= 0 {
		// Empty interior: leave the container and children untouched.
		return
	}

	place(children, opts, usableW, usableH, extra, data, strat)

	// The container grows to fit its content but never shrinks below its
	// preferred (or configured minimum) size.
	origin := geometry.Point{}
	if b, ok := resolvedBounds(container, data, strat); ok {
		origin = b.Position()
	}
	prefW, prefH := opts.MinWidth, opts.MinHeight
	if pref := container.PrefSize(); pref != nil {
		prefW, prefH = pref.Width, pref.Height
	}
	data.SetBounds(container, geometry.Bounds{
		X:      origin.X,
		Y:      origin.Y,
		Width:  math.Max(prefW, agg.width+opts.PaddingLeft+opts.PaddingRight),
		Height: math.Max(prefH, agg.height+opts.PaddingTop+opts.PaddingBottom),
	})
}

// childrenSize aggregates the contributing children: stacking-axis sum of
// heights plus one gap between each consecutive pair, cross-axis maximum
// of widths. Skipped children do not count toward gap spacing either.
func childrenSize(children []*model.Element, opts Options, data *BoundsData, strat Strategies) aggregate {
	var agg aggregate
	for _, child := range children {
		b, ok := resolvedBounds(child, data, strat)
		if !ok {
			continue
		}
		if agg.count > 0 {
			agg.height += opts.Gap
		}
		agg.height += b.Height
		agg.width = math.Max(agg.width, b.Width)
		agg.count++
	}
	return agg
}

// usableSize computes the padding-adjusted, factor-scaled interior.
// With ResizeContainer the interior may grow to the children aggregate;
// otherwise it is capped by the container's fixed size.
func usableSize(container *model.Element, opts Options, agg aggregate, data *BoundsData, strat Strategies) (w, h float64) {
	// The fixed size comes from the preferred size when present, else zero.
	var fixedW, fixedH float64
	if pref := container.PrefSize(); pref != nil {
		fixedW, fixedH = pref.Width, pref.Height
	}

	innerW := fixedW - opts.PaddingLeft - opts.PaddingRight
	innerH := fixedH - opts.PaddingTop - opts.PaddingBottom

	if opts.ResizeContainer {
		w = opts.PaddingFactor * math.Max(innerW, agg.width)
		h = opts.PaddingFactor * math.Max(innerH, agg.height)
	} else {
		w = opts.PaddingFactor * math.Max(0, innerW)
		h = opts.PaddingFactor * math.Max(0, innerH)
	}
	return w, h
}

// place walks the contributing children in sequence order and assigns each
// its slot. The starting offset centers the content block inside the
// factor-scaled interior.
func place(children []*model.Element, opts Options, usableW, usableH, extra float64, data *BoundsData, strat Strategies) {
	x0 := opts.PaddingLeft + 0.5*(usableW-usableW/opts.PaddingFactor)
	y := opts.PaddingTop + 0.5*(usableH-usableH/opts.PaddingFactor)

	for _, child := range children {
		b, ok := resolvedBounds(child, data, strat)
		if !ok {
			continue
		}

		w, h := b.Width, b.Height
		if grabVertical(opts, child) {
			h += extra
		}
		// A horizontally grabbing child always stretches to the full
		// usable cross-axis width, independent of leftover space.
		if grabHorizontal(opts, child) {
			w = usableW
		}

		var dx float64
		switch opts.HAlign {
		case AlignCenter:
			dx = (usableW - w) / 2
		case AlignRight:
			dx = usableW - w
		}

		data.SetBounds(child, geometry.Bounds{X: x0 + dx, Y: y, Width: w, Height: h})
		y += h + opts.Gap
	}
}

// resolvedBounds returns the effective bounds of an element during the
// pass: scratch-table bounds when present, the fixed-bounds strategy
// otherwise. Elements whose bounds are missing, invalid, or zero-sized are
// reported as unresolvable and are skipped by the pass.
func resolvedBounds(el *model.Element, data *BoundsData, strat Strategies) (geometry.Bounds, bool) {
	b, ok := data.Bounds(el)
	if !ok {
		p := strat.FixedBounds(el)
		if p == nil {
			return geometry.Bounds{}, false
		}
		b = *p
	}
	if !b.IsValid() || (b.Width == 0 && b.Height == 0) {
		return geometry.Bounds{}, false
	}
	return b, true
}
