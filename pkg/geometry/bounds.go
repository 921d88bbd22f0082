// Package geometry provides the primitive spatial types shared by the layout
// engine, the geometry command subsystem, and the renderers.
//
// All coordinates are float64 user units with the origin at the top-left and
// the y axis growing downward (SVG convention). A Bounds value is "valid"
// when both dimensions are finite and non-negative; layout and commands skip
// invalid bounds silently rather than erroring.
package geometry

import "math"

// Point is an x/y coordinate pair.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Add returns the point translated by d.
func (p Point) Add(d Point) Point { return Point{X: p.X + d.X, Y: p.Y + d.Y} }

// Sub returns the delta from q to p.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Size is a width/height pair.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Bounds is an axis-aligned rectangle: position plus size.
type Bounds struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// NewBounds creates a Bounds from position and dimensions.
func NewBounds(x, y, width, height float64) Bounds {
	return Bounds{X: x, Y: y, Width: width, Height: height}
}

// IsValid reports whether the bounds can participate in layout and
// geometry commands: all components finite, width and height >= 0.
func (b Bounds) IsValid() bool {
	return isFinite(b.X) && isFinite(b.Y) &&
		isFinite(b.Width) && b.Width >= 0 &&
		isFinite(b.Height) && b.Height >= 0
}

// Position returns the top-left corner.
func (b Bounds) Position() Point { return Point{X: b.X, Y: b.Y} }

// Size returns the dimensions.
func (b Bounds) Size() Size { return Size{Width: b.Width, Height: b.Height} }

// Left returns the minimum x edge.
func (b Bounds) Left() float64 { return b.X }

// Right returns the maximum x edge.
func (b Bounds) Right() float64 { return b.X + b.Width }

// Top returns the minimum y edge.
func (b Bounds) Top() float64 { return b.Y }

// Bottom returns the maximum y edge.
func (b Bounds) Bottom() float64 { return b.Y + b.Height }

// CenterX returns the horizontal center point.
func (b Bounds) CenterX() float64 { return b.X + b.Width/2 }

// CenterY returns the vertical center point.
func (b Bounds) CenterY() float64 { return b.Y + b.Height/2 }

// Translate returns the bounds moved by (dx, dy).
func (b Bounds) Translate(dx, dy float64) Bounds {
	return Bounds{X: b.X + dx, Y: b.Y + dy, Width: b.Width, Height: b.Height}
}

// WithPosition returns the bounds moved to p, keeping the size.
func (b Bounds) WithPosition(p Point) Bounds {
	return Bounds{X: p.X, Y: p.Y, Width: b.Width, Height: b.Height}
}

// ResizeAboutCenter returns the bounds with the given size, repositioned so
// the center point is preserved. Axes are independent: a NaN keeps the
// current extent on that axis untouched.
func (b Bounds) ResizeAboutCenter(s Size) Bounds {
	out := b
	if isFinite(s.Width) {
		out.X = b.X - (s.Width-b.Width)/2
		out.Width = s.Width
	}
	if isFinite(s.Height) {
		out.Y = b.Y - (s.Height-b.Height)/2
		out.Height = s.Height
	}
	return out
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
