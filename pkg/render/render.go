package render

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// Supported output formats.
const (
	FormatSVG = "svg"
	FormatDOT = "dot"
	FormatPNG = "png"
)

// ValidFormat reports whether the format name is supported.
func ValidFormat(format string) bool {
	switch format {
	case FormatSVG, FormatDOT, FormatPNG:
		return true
	}
	return false
}

// Formats renders the diagram into each requested format concurrently.
// The first failing format aborts the rest.
func Formats(ctx context.Context, d *model.Diagram, formats []string, opts ...SVGOption) (map[string][]byte, error) {
	for _, format := range formats {
		if !ValidFormat(format) {
			return nil, errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %q (must be one of: svg, dot, png)", format)
		}
	}

	var mu sync.Mutex
	out := make(map[string][]byte, len(formats))

	g, ctx := errgroup.WithContext(ctx)
	for _, format := range formats {
		g.Go(func() error {
			data, err := renderOne(ctx, d, format, opts)
			if err != nil {
				return err
			}
			mu.Lock()
			out[format] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func renderOne(ctx context.Context, d *model.Diagram, format string, opts []SVGOption) ([]byte, error) {
	switch format {
	case FormatSVG:
		return RenderSVG(d, opts...), nil
	case FormatDOT:
		return []byte(ToDOT(d.Root, DOTOptions{})), nil
	case FormatPNG:
		return RenderDOTPNG(ctx, ToDOT(d.Root, DOTOptions{}))
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q", format)
	}
}
