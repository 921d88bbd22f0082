package layout

import (
	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// Alignment positions children along the horizontal (cross) axis.
type Alignment string

// Horizontal alignments.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment validates an alignment string.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case AlignLeft, AlignCenter, AlignRight:
		return Alignment(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidAlignment,
			"invalid h_align: %q (must be one of: left, center, right)", s)
	}
}

// Options is the resolved layout configuration for one container pass.
// It is computed once per pass by merging container defaults with the
// element's own hint overrides; element overrides win.
type Options struct {
	// ResizeContainer lets the usable interior grow to the children
	// aggregate instead of being capped by the container's fixed size.
	ResizeContainer bool `json:"resize_container" bson:"resize_container"`

	PaddingTop    float64 `json:"padding_top" bson:"padding_top"`
	PaddingBottom float64 `json:"padding_bottom" bson:"padding_bottom"`
	PaddingLeft   float64 `json:"padding_left" bson:"padding_left"`
	PaddingRight  float64 `json:"padding_right" bson:"padding_right"`

	// PaddingFactor scales the usable interior before placement.
	// Must be > 0; this is a caller precondition, not a runtime check
	// inside the pass.
	PaddingFactor float64 `json:"padding_factor" bson:"padding_factor"`

	// Gap is the vertical spacing between consecutive placed children.
	Gap float64 `json:"gap" bson:"gap"`

	MinWidth  float64 `json:"min_width" bson:"min_width"`
	MinHeight float64 `json:"min_height" bson:"min_height"`

	HAlign Alignment `json:"h_align" bson:"h_align"`

	// Default grab flags for children that carry no explicit hint.
	HGrab bool `json:"h_grab" bson:"h_grab"`
	VGrab bool `json:"v_grab" bson:"v_grab"`
}

// DefaultOptions returns the built-in container defaults.
func DefaultOptions() Options {
	return Options{
		ResizeContainer: true,
		PaddingTop:      5,
		PaddingBottom:   5,
		PaddingLeft:     5,
		PaddingRight:    5,
		PaddingFactor:   1,
		Gap:             1,
		MinWidth:        20,
		MinHeight:       20,
		HAlign:          AlignCenter,
	}
}

// Validate checks the caller contract on the options.
func (o Options) Validate() error {
	if o.PaddingFactor <= 0 {
		return errors.New(errors.ErrCodeInvalidOptions,
			"padding factor must be > 0, got %v", o.PaddingFactor)
	}
	if _, err := ParseAlignment(string(o.HAlign)); err != nil {
		return err
	}
	return nil
}

// Resolve merges the element's layout hints over the defaults and returns
// the effective options for laying out el as a container. Hints with nil
// fields inherit the default.
func Resolve(defaults Options, el *model.Element) Options {
	o := defaults
	if el == nil || el.Hints == nil {
		return o
	}
	h := el.Hints
	if h.ResizeContainer != nil {
		o.ResizeContainer = *h.ResizeContainer
	}
	if h.PaddingTop != nil {
		o.PaddingTop = *h.PaddingTop
	}
	if h.PaddingBottom != nil {
		o.PaddingBottom = *h.PaddingBottom
	}
	if h.PaddingLeft != nil {
		o.PaddingLeft = *h.PaddingLeft
	}
	if h.PaddingRight != nil {
		o.PaddingRight = *h.PaddingRight
	}
	if h.PaddingFactor != nil {
		o.PaddingFactor = *h.PaddingFactor
	}
	if h.Gap != nil {
		o.Gap = *h.Gap
	}
	if h.MinWidth != nil {
		o.MinWidth = *h.MinWidth
	}
	if h.MinHeight != nil {
		o.MinHeight = *h.MinHeight
	}
	if h.HAlign != nil {
		if a, err := ParseAlignment(*h.HAlign); err == nil {
			o.HAlign = a
		}
	}
	if h.HGrab != nil {
		o.HGrab = *h.HGrab
	}
	if h.VGrab != nil {
		o.VGrab = *h.VGrab
	}
	return o
}

// grabHorizontal resolves the effective horizontal grab flag for a child.
func grabHorizontal(o Options, child *model.Element) bool {
	if child.Hints != nil && child.Hints.HGrab != nil {
		return *child.Hints.HGrab
	}
	return o.HGrab
}

// grabVertical resolves the effective vertical grab flag for a child.
func grabVertical(o Options, child *model.Element) bool {
	if child.Hints != nil && child.Hints.VGrab != nil {
		return *child.Hints.VGrab
	}
	return o.VGrab
}
