package pipeline

import (
	"github.com/diagramkit/diagramkit/pkg/command"
	"github.com/diagramkit/diagramkit/pkg/dispatch"
	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// Operation is the serialized envelope for one geometry operation.
// Exactly one payload field is set, matching Type.
type Operation struct {
	Type   string                   `json:"type" bson:"type"`
	Resize *command.ResizeOperation `json:"resize,omitempty" bson:"resize,omitempty"`
	Align  *command.AlignOperation  `json:"align,omitempty" bson:"align,omitempty"`
}

// Operation types.
const (
	OpResize = "resize"
	OpAlign  = "align"
)

// Validate checks the envelope and its payload.
func (op Operation) Validate() error {
	switch op.Type {
	case OpResize:
		if op.Resize == nil {
			return errors.New(errors.ErrCodeInvalidOptions, "resize operation has no payload")
		}
		return op.Resize.Validate()
	case OpAlign:
		if op.Align == nil {
			return errors.New(errors.ErrCodeInvalidOptions, "align operation has no payload")
		}
		return op.Align.Validate()
	default:
		return errors.New(errors.ErrCodeInvalidOptions,
			"invalid operation type: %q (must be one of: resize, align)", op.Type)
	}
}

// Apply validates and executes the operations against the diagram in
// order, routing all deltas through one dispatcher. The returned
// dispatcher holds the undo history for the applied batch.
func Apply(d *model.Diagram, ops []Operation) (*dispatch.Dispatcher, error) {
	for _, op := range ops {
		if err := op.Validate(); err != nil {
			return nil, err
		}
	}

	disp := dispatch.New(d.Root)
	index := d.Index()
	svc := command.Services{
		Selection: command.SelectionFunc(func() []string { return documentOrderIDs(d.Root) }),
		Index:     index,
		Sink:      disp,
	}

	for _, op := range ops {
		switch op.Type {
		case OpResize:
			command.NewResize(*op.Resize, svc).Execute(d.Root)
		case OpAlign:
			command.NewAlign(*op.Align, svc).Execute(d.Root)
		}
	}
	return disp, nil
}

// documentOrderIDs collects every id under root, root excluded, in
// pre-order. Operations with an empty id list act on this selection.
func documentOrderIDs(root *model.Element) []string {
	var ids []string
	root.Walk(func(e *model.Element) bool {
		if e != root && e.ID != "" {
			ids = append(ids, e.ID)
		}
		return true
	})
	return ids
}
