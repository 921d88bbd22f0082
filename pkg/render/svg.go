package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/marker"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// Fill colors per element type.
var typeFills = map[string]string{
	model.TypeGraph:     "none",
	model.TypeContainer: "#eef2f7",
	model.TypeNode:      "#ffffff",
	model.TypeLabel:     "none",
	model.TypePort:      "#d0d7de",
}

// Badge colors per marker severity.
var severityFills = map[marker.Severity]string{
	marker.SeverityInfo:    "#0969da",
	marker.SeverityWarning: "#d4a72c",
	marker.SeverityError:   "#cf222e",
}

const svgMargin = 10.0

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	markers bool
	labels  bool
}

// WithMarkers overlays the diagram's markers as severity badges.
func WithMarkers() SVGOption { return func(r *svgRenderer) { r.markers = true } }

// WithLabels draws each element's id inside its box.
func WithLabels() SVGOption { return func(r *svgRenderer) { r.labels = true } }

// RenderSVG draws the diagram's element tree as nested rectangles at
// their laid-out bounds. Elements without valid bounds are skipped.
func RenderSVG(d *model.Diagram, opts ...SVGOption) []byte {
	r := svgRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	frame := contentExtent(d.Root)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.1f %.1f %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		frame.X-svgMargin, frame.Y-svgMargin,
		frame.Width+2*svgMargin, frame.Height+2*svgMargin,
		frame.Width+2*svgMargin, frame.Height+2*svgMargin)

	d.Root.Walk(func(e *model.Element) bool {
		renderBox(&buf, e, r.labels)
		return true
	})

	if r.markers {
		index := d.Index()
		for _, m := range d.Markers {
			renderBadge(&buf, m, index)
		}
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func renderBox(buf *bytes.Buffer, e *model.Element, label bool) {
	if e.Bounds == nil || !e.Bounds.IsValid() {
		return
	}
	b := *e.Bounds
	fill, ok := typeFills[e.Type]
	if !ok {
		fill = "#ffffff"
	}
	fmt.Fprintf(buf, `  <rect id="el-%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#57606a" rx="2"/>`+"\n",
		escape(e.ID), b.X, b.Y, b.Width, b.Height, fill)

	if label && e.ID != "" {
		fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" font-size="10" text-anchor="middle" fill="#24292f">%s</text>`+"\n",
			b.CenterX(), b.Y+12, escape(e.ID))
	}
}

// renderBadge draws a marker as a circle at its owner's top-right corner.
// Markers carrying their own bounds use those instead; markers with
// neither an anchor nor a resolvable owner are skipped.
func renderBadge(buf *bytes.Buffer, m marker.Marker, index *model.Index) {
	var at geometry.Point
	switch {
	case m.Bounds != nil && m.Bounds.IsValid():
		at = geometry.Point{X: m.Bounds.Right(), Y: m.Bounds.Top()}
	default:
		owner := index.ByID(m.OwnerID)
		if owner == nil || owner.Bounds == nil || !owner.Bounds.IsValid() {
			return
		}
		at = geometry.Point{X: owner.Bounds.Right(), Y: owner.Bounds.Top()}
	}

	fill, ok := severityFills[m.MaxSeverity()]
	if !ok {
		fill = severityFills[marker.SeverityInfo]
	}
	fmt.Fprintf(buf, `  <circle class="badge" cx="%.1f" cy="%.1f" r="4" fill="%s" stroke="white"/>`+"\n",
		at.X, at.Y, fill)
}

// contentExtent computes the union of all valid bounds in the tree.
func contentExtent(root *model.Element) geometry.Bounds {
	first := true
	var minX, minY, maxX, maxY float64
	root.Walk(func(e *model.Element) bool {
		if e.Bounds == nil || !e.Bounds.IsValid() {
			return true
		}
		b := *e.Bounds
		if first {
			minX, minY, maxX, maxY = b.Left(), b.Top(), b.Right(), b.Bottom()
			first = false
			return true
		}
		if b.Left() < minX {
			minX = b.Left()
		}
		if b.Top() < minY {
			minY = b.Top()
		}
		if b.Right() > maxX {
			maxX = b.Right()
		}
		if b.Bottom() > maxY {
			maxY = b.Bottom()
		}
		return true
	})
	if first {
		return geometry.Bounds{}
	}
	return geometry.Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

func escape(s string) string { return escaper.Replace(s) }
