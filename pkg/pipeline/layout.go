package pipeline

import (
	"context"
	"time"

	"github.com/diagramkit/diagramkit/pkg/layout"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/observability"
)

// LayoutTree runs the single-level layout pass over every container in
// the tree, innermost first, sharing one scratch table. Inner results
// stay in the table, so an outer pass aggregates the final child sizes
// instead of their stale model bounds. The pass count is returned.
//
// Bounds are not written back to the model; call data.Commit for that.
func LayoutTree(ctx context.Context, root *model.Element, defaults layout.Options, data *layout.BoundsData) int {
	if root == nil {
		return 0
	}

	passes := 0
	for _, child := range root.Children {
		passes += LayoutTree(ctx, child, defaults, data)
	}
	if len(root.Children) == 0 {
		return passes
	}

	start := time.Now()
	observability.Layout().OnArrangeStart(ctx, root.ID, len(root.Children))
	layout.Arrange(root, layout.Resolve(defaults, root), data, layout.Strategies{})
	observability.Layout().OnArrangeComplete(ctx, root.ID, len(data.Changed()), time.Since(start))
	return passes + 1
}
