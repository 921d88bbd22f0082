package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diagramkit/diagramkit/pkg/command"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/pipeline"
)

// editCommand creates the edit command for applying geometry operations.
func (c *CLI) editCommand() *cobra.Command {
	var (
		output  string
		ids     string
		resize  string
		align   string
		sel     string
		opsFile string
		undo    int
	)

	cmd := &cobra.Command{
		Use:   "edit [diagram.json]",
		Short: "Apply resize and align operations to a diagram",
		Long: `Apply resize and align operations to a diagram.

Operations can be given inline with --resize and --align, or as a JSON file
with --ops. Inline operations target the elements named by --ids; an empty id
list falls back to selecting every element under the root.

A resize spec is dimension:function, e.g. width:max or both:average. An align
spec is an edge name, e.g. left or middle, with --select choosing the
reference subset.

Every applied operation is reversible; --undo rolls back the last n applied
operations before the result is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops, err := collectOperations(resize, align, sel, ids, opsFile)
			if err != nil {
				return err
			}
			return c.runEdit(args[0], ops, output, undo)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.edit.json)")
	cmd.Flags().StringVar(&ids, "ids", "", "comma-separated target element ids")
	cmd.Flags().StringVar(&resize, "resize", "", "resize spec: dimension:function (e.g. width:max)")
	cmd.Flags().StringVar(&align, "align", "", "align edge: left, center, right, top, middle, bottom")
	cmd.Flags().StringVar(&sel, "select", string(command.SelectAll), "align reference selection: all, first, last")
	cmd.Flags().StringVar(&opsFile, "ops", "", "JSON file with an operation list")
	cmd.Flags().IntVar(&undo, "undo", 0, "roll back the last n applied operations")

	return cmd
}

// =============================================================================
// Operation Assembly
// =============================================================================

// collectOperations builds the operation list from the inline flags or
// the ops file. Inline flags and --ops are mutually exclusive.
func collectOperations(resize, align, sel, ids, opsFile string) ([]pipeline.Operation, error) {
	if opsFile != "" {
		if resize != "" || align != "" {
			return nil, fmt.Errorf("--ops cannot be combined with --resize or --align")
		}
		return readOperationsFile(opsFile)
	}

	targets := splitIDs(ids)
	var ops []pipeline.Operation

	if resize != "" {
		op, err := parseResizeSpec(resize, targets)
		if err != nil {
			return nil, err
		}
		ops = append(ops, pipeline.Operation{Type: pipeline.OpResize, Resize: &op})
	}

	if align != "" {
		alignment, err := command.ParseAlignment(align)
		if err != nil {
			return nil, err
		}
		selFn, err := command.ParseSelectFunction(sel)
		if err != nil {
			return nil, err
		}
		op := command.NewAlignOperation()
		op.ElementIDs = targets
		op.Alignment = alignment
		op.Select = selFn
		ops = append(ops, pipeline.Operation{Type: pipeline.OpAlign, Align: &op})
	}

	if len(ops) == 0 {
		return nil, fmt.Errorf("nothing to do: pass --resize, --align, or --ops")
	}
	return ops, nil
}

// parseResizeSpec parses a dimension:function pair.
func parseResizeSpec(spec string, targets []string) (command.ResizeOperation, error) {
	dim, fn, ok := strings.Cut(spec, ":")
	if !ok {
		return command.ResizeOperation{}, fmt.Errorf("invalid resize spec %q: want dimension:function", spec)
	}
	dimension, err := command.ParseDimension(dim)
	if err != nil {
		return command.ResizeOperation{}, err
	}
	reduce, err := command.ParseReduceFunction(fn)
	if err != nil {
		return command.ResizeOperation{}, err
	}
	return command.ResizeOperation{
		ElementIDs: targets,
		Dimension:  dimension,
		Reduce:     reduce,
	}, nil
}

func splitIDs(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func readOperationsFile(path string) ([]pipeline.Operation, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read operations %s: %w", path, err)
	}
	var ops []pipeline.Operation
	if err := json.Unmarshal(data, &ops); err != nil {
		return nil, fmt.Errorf("decode operations %s: %w", path, err)
	}
	return ops, nil
}

// =============================================================================
// Edit Execution
// =============================================================================

// runEdit loads the diagram, applies the operations, and writes output.
func (c *CLI) runEdit(input string, ops []pipeline.Operation, output string, undo int) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	disp, err := pipeline.Apply(d, ops)
	if err != nil {
		return fmt.Errorf("apply operations: %w", err)
	}

	applied := len(disp.History())
	rolledBack := 0
	for i := 0; i < undo && disp.CanUndo(); i++ {
		disp.Undo()
		rolledBack++
	}

	out := outputPath(input, output, ".edit.json")
	if err := d.WriteFile(out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Applied %d operations", applied)
	if rolledBack > 0 {
		printWarning("Rolled back %d of them", rolledBack)
	}
	printFile(out)
	printNewline()
	printNextStep("Render", "diagramkit render "+out)

	return nil
}
