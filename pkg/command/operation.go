package command

import (
	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/geometry"
)

// =============================================================================
// Dimensions and Alignments
// =============================================================================

// Dimension selects which axes a resize touches.
type Dimension string

// Resize dimensions.
const (
	DimensionWidth  Dimension = "width"
	DimensionHeight Dimension = "height"
	DimensionBoth   Dimension = "both"
)

// ParseDimension validates a dimension name.
func ParseDimension(s string) (Dimension, error) {
	switch Dimension(s) {
	case DimensionWidth, DimensionHeight, DimensionBoth:
		return Dimension(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidDimension,
			"invalid dimension: %q (must be one of: width, height, both)", s)
	}
}

// Alignment names the edge or center line elements are aligned to.
type Alignment string

// Alignment edges.
const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
	AlignTop    Alignment = "top"
	AlignMiddle Alignment = "middle"
	AlignBottom Alignment = "bottom"
)

// ParseAlignment validates an alignment name.
func ParseAlignment(s string) (Alignment, error) {
	switch Alignment(s) {
	case AlignLeft, AlignCenter, AlignRight, AlignTop, AlignMiddle, AlignBottom:
		return Alignment(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidAlignment,
			"invalid alignment: %q (must be one of: left, center, right, top, middle, bottom)", s)
	}
}

// =============================================================================
// Operations - Append-Only Command Records
// =============================================================================

// ResizeOperation records a resize-to-common-dimension request. Operations
// are never mutated after creation; the undo/redo machinery replays them
// from the recorded deltas.
type ResizeOperation struct {
	// ElementIDs are the targets. Empty means "use the current selection".
	ElementIDs []string       `json:"element_ids" bson:"element_ids"`
	Dimension  Dimension      `json:"dimension" bson:"dimension"`
	Reduce     ReduceFunction `json:"reduce" bson:"reduce"`
}

// Validate checks the recorded policy names.
func (op ResizeOperation) Validate() error {
	if _, err := ParseDimension(string(op.Dimension)); err != nil {
		return err
	}
	if _, err := ParseReduceFunction(string(op.Reduce)); err != nil {
		return err
	}
	return nil
}

// AlignOperation records an align-to-edge request. Select narrows the
// subset used to compute the reference coordinate; every qualifying
// element moves regardless.
type AlignOperation struct {
	ElementIDs []string       `json:"element_ids" bson:"element_ids"`
	Alignment  Alignment      `json:"alignment" bson:"alignment"`
	Select     SelectFunction `json:"select" bson:"select"`
}

// NewAlignOperation returns an align operation with defaults applied:
// alignment left, selection function all, empty element-id list.
func NewAlignOperation() AlignOperation {
	return AlignOperation{
		ElementIDs: []string{},
		Alignment:  AlignLeft,
		Select:     SelectAll,
	}
}

// Validate checks the recorded policy names.
func (op AlignOperation) Validate() error {
	if _, err := ParseAlignment(string(op.Alignment)); err != nil {
		return err
	}
	if _, err := ParseSelectFunction(string(op.Select)); err != nil {
		return err
	}
	return nil
}

// =============================================================================
// Deltas - Artifacts Crossing the Core Boundary
// =============================================================================

// ElementAndBounds is the wire-level bounds delta for one element, sent
// both to the local view and, mirrored inside a ChangeBoundsOperation, to
// the external authority.
type ElementAndBounds struct {
	ElementID   string         `json:"element_id" bson:"element_id"`
	NewPosition geometry.Point `json:"new_position" bson:"new_position"`
	NewSize     geometry.Size  `json:"new_size" bson:"new_size"`
}

// ElementMove is the wire-level position delta for one element.
type ElementMove struct {
	ElementID    string         `json:"element_id" bson:"element_id"`
	FromPosition geometry.Point `json:"from_position" bson:"from_position"`
	ToPosition   geometry.Point `json:"to_position" bson:"to_position"`
}

// ChangeBoundsOperation is the authority-bound record carrying the final
// bounds of a command batch. It mirrors the local delta exactly: both are
// built from the same accepted proposals.
type ChangeBoundsOperation struct {
	NewBounds []ElementAndBounds `json:"new_bounds" bson:"new_bounds"`
}
