// Package render turns laid-out diagrams into visual outputs.
//
// # Overview
//
// This package contains the rendering surface that transforms an element
// tree with computed bounds into artifacts. It provides:
//
//   - SVG rendering of the box tree with optional marker overlays
//   - DOT export of the containment hierarchy
//   - Graphviz-backed SVG/PNG rendering of the DOT form
//   - Multi-format fan-out for producing several artifacts at once
//
// # SVG
//
// [RenderSVG] draws each element as a rectangle at its laid-out bounds.
// Containers come first so children paint on top. Markers attached to the
// diagram render as colored badges at their owner's top-right corner.
//
//	svg := render.RenderSVG(diagram, render.WithMarkers())
//
// # DOT / Graphviz
//
// [ToDOT] exports the containment hierarchy as a directed graph, one edge
// per parent→child link. [RenderDOTSVG] and [RenderDOTPNG] run it through
// Graphviz.
//
//	dot := render.ToDOT(diagram.Root, render.DOTOptions{})
//	svg, err := render.RenderDOTSVG(ctx, dot)
package render
