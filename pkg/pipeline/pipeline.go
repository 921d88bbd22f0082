// Package pipeline provides the core layout → render pipeline.
//
// This package implements the complete pass that takes a diagram document,
// computes bounds for every container bottom-up, and renders the result.
// CLI and server components share it, so caching and defaulting behave the
// same at every entry point.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Layout: Compute bounds for the element tree, innermost containers
//     first so outer passes see final child sizes
//  2. Render: Generate output in various formats (SVG, DOT, PNG)
//
// Geometry operations (resize, align) run between the stages via [Apply].
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, diagram, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/diagramkit/diagramkit/pkg/cache"
	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/layout"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/render"
)

// DefaultFormat is the output format used when none is requested.
const DefaultFormat = render.FormatSVG

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the layout pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Layout options. Nil means the built-in defaults.
	Layout *layout.Options `json:"layout,omitempty"`

	// Refresh bypasses the cache for this run.
	Refresh bool `json:"refresh,omitempty"`

	// Render options
	Formats []string `json:"formats,omitempty"`
	Markers bool     `json:"markers,omitempty"`
	Labels  bool     `json:"labels,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks the options and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}

	if o.Layout == nil {
		defaults := layout.DefaultOptions()
		o.Layout = &defaults
	}
	if err := o.Layout.Validate(); err != nil {
		return err
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{DefaultFormat}
	}
	for _, format := range o.Formats {
		if !render.ValidFormat(format) {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: svg, dot, png)", format)
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	o.validated = true
	return nil
}

// layoutKeyOpts maps the layout options onto the cache key inputs.
func (o *Options) layoutKeyOpts() cache.LayoutKeyOpts {
	l := o.Layout
	return cache.LayoutKeyOpts{
		ResizeContainer: l.ResizeContainer,
		PaddingFactor:   l.PaddingFactor,
		Gap:             l.Gap,
		Padding: fmt.Sprintf("%v,%v,%v,%v",
			l.PaddingTop, l.PaddingBottom, l.PaddingLeft, l.PaddingRight),
		HAlign: string(l.HAlign),
	}
}

// svgOptions converts the render flags to SVG renderer options.
func (o *Options) svgOptions() []render.SVGOption {
	var opts []render.SVGOption
	if o.Markers {
		opts = append(opts, render.WithMarkers())
	}
	if o.Labels {
		opts = append(opts, render.WithLabels())
	}
	return opts
}

// =============================================================================
// Result
// =============================================================================

// Result contains the outputs of a pipeline run.
type Result struct {
	// Diagram is the laid-out diagram. Bounds are written in place.
	Diagram *model.Diagram

	// DiagramHash is the content hash of the input diagram.
	DiagramHash string

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ElementCount int
	Passes       int
	Committed    int
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LayoutHit bool // Whether layout bounds came from cache
	RenderHit bool // Whether all artifacts came from cache
}
