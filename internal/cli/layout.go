package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diagramkit/diagramkit/pkg/cache"
	"github.com/diagramkit/diagramkit/pkg/layout"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/pipeline"
)

// layoutCommand creates the layout command for computing diagram layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
	)
	opts := c.Config.layoutOptions()
	flags := layoutFlags{}

	cmd := &cobra.Command{
		Use:   "layout [diagram.json]",
		Short: "Compute the box layout for a diagram",
		Long: `Compute the box layout for a diagram.

The layout command takes a diagram.json file and computes bounds for every
container's children, bottom-up. The output is a diagram with resolved bounds
that can be edited with 'edit' or rendered with 'render'.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.apply(cmd, &opts)
			return c.runLayout(cmd.Context(), args[0], opts, output, noCache, refresh)
		},
	}

	// Common flags
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	flags.bind(cmd, &opts)

	return cmd
}

// =============================================================================
// Layout Flags
// =============================================================================

// layoutFlags binds the tunable layout options to cobra flags. The
// padding flag fans out to all four sides, so it is applied separately
// once flag parsing is done.
type layoutFlags struct {
	padding float64
	halign  string
}

func (f *layoutFlags) bind(cmd *cobra.Command, opts *layout.Options) {
	cmd.Flags().Float64Var(&f.padding, "padding", opts.PaddingTop, "interior padding on all sides")
	cmd.Flags().Float64Var(&opts.PaddingFactor, "padding-factor", opts.PaddingFactor, "scale factor for the usable interior")
	cmd.Flags().Float64Var(&opts.Gap, "gap", opts.Gap, "vertical spacing between children")
	cmd.Flags().Float64Var(&opts.MinWidth, "min-width", opts.MinWidth, "minimum element width")
	cmd.Flags().Float64Var(&opts.MinHeight, "min-height", opts.MinHeight, "minimum element height")
	cmd.Flags().StringVar(&f.halign, "halign", string(opts.HAlign), "horizontal alignment: left, center, right")
	cmd.Flags().BoolVar(&opts.ResizeContainer, "resize-container", opts.ResizeContainer, "grow containers to fit their children")
}

func (f *layoutFlags) apply(cmd *cobra.Command, opts *layout.Options) {
	if cmd.Flags().Changed("padding") {
		opts.PaddingTop = f.padding
		opts.PaddingBottom = f.padding
		opts.PaddingLeft = f.padding
		opts.PaddingRight = f.padding
	}
	if cmd.Flags().Changed("halign") {
		opts.HAlign = layout.Alignment(f.halign)
	}
}

// =============================================================================
// Layout Execution
// =============================================================================

// runLayout loads the diagram, computes the layout, and writes output.
func (c *CLI) runLayout(ctx context.Context, input string, lopts layout.Options, output string, noCache, refresh bool) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	runner, err := c.newRunner(noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{Layout: &lopts, Refresh: refresh, Logger: c.Logger}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	raw, err := d.Marshal()
	if err != nil {
		return fmt.Errorf("hash diagram: %w", err)
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	var stats pipeline.Stats
	cacheHit, err := runner.LayoutWithCacheInfo(ctx, d, cache.Hash(raw), &opts, &stats)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	out := outputPath(input, output, ".layout.json")
	if err := d.WriteFile(out); err != nil {
		return fmt.Errorf("write output %s: %w", out, err)
	}

	printSuccess("Layout complete")
	printFile(out)
	printStats(d.Index().Len(), stats.Passes, cacheHit)
	printNewline()
	printNextStep("Render", "diagramkit render "+out)

	return nil
}
