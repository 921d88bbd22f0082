package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/pipeline"
)

// renderCommand creates the render command for producing output artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output  string
		formats string
		markers bool
		labels  bool
		noCache bool
		refresh bool
	)

	cmd := &cobra.Command{
		Use:   "render [diagram.json]",
		Short: "Lay out a diagram and render it to svg, dot, or png",
		Long: `Lay out a diagram and render it to svg, dot, or png.

The render command runs the full pipeline: it computes the layout (reusing the
cache when the diagram is unchanged) and renders one artifact per requested
format. Artifacts are written next to the input file unless --output names a
different base path.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], renderParams{
				output:  output,
				formats: parseFormats(formats),
				markers: markers,
				labels:  labels,
				noCache: noCache,
				refresh: refresh,
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output base path (default: input without extension)")
	cmd.Flags().StringVarP(&formats, "format", "f", c.Config.formats(), "comma-separated formats: svg, dot, png")
	cmd.Flags().BoolVar(&markers, "markers", false, "draw marker badges")
	cmd.Flags().BoolVar(&labels, "labels", false, "draw element id labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when cached")

	return cmd
}

type renderParams struct {
	output  string
	formats []string
	markers bool
	labels  bool
	noCache bool
	refresh bool
}

// runRender executes the full pipeline and writes one file per format.
func (c *CLI) runRender(ctx context.Context, input string, p renderParams) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	runner, err := c.newRunner(p.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	lopts := c.Config.layoutOptions()
	opts := pipeline.Options{
		Layout:  &lopts,
		Refresh: p.refresh,
		Formats: p.formats,
		Markers: p.markers,
		Labels:  p.labels,
		Logger:  c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", strings.Join(p.formats, ", ")))
	spinner.Start()

	result, err := runner.Execute(ctx, d, opts)
	if err != nil {
		spinner.StopWithError("Render failed")
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	base := p.output
	if base == "" {
		base = strings.TrimSuffix(input, filepath.Ext(input))
	}

	printSuccess("Render complete")
	for _, format := range sortedKeys(result.Artifacts) {
		path := base + "." + format
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(result.Stats.ElementCount, result.Stats.Passes,
		result.CacheInfo.LayoutHit && result.CacheInfo.RenderHit)

	return nil
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
