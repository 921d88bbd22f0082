package cli

import (
	"fmt"
	"sort"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/diagramkit/diagramkit/pkg/marker"
	"github.com/diagramkit/diagramkit/pkg/model"
)

// markersCommand creates the markers command for navigating validation markers.
func (c *CLI) markersCommand() *cobra.Command {
	var (
		severity    string
		next        bool
		previous    bool
		from        string
		interactive bool
	)

	cmd := &cobra.Command{
		Use:   "markers [diagram.json]",
		Short: "List and navigate a diagram's validation markers",
		Long: `List and navigate a diagram's validation markers.

Markers are visited in reading order (top to bottom, then left to right) and
the sequence is circular: stepping past the last marker wraps to the first.
Without a starting marker both --next and --previous begin at the first one.

Use --severity to restrict navigation to markers of at least that severity,
and --interactive for a browsable list.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runMarkers(args[0], markerParams{
				severity:    severity,
				next:        next,
				previous:    previous,
				from:        from,
				interactive: interactive,
			})
		},
	}

	cmd.Flags().StringVarP(&severity, "severity", "s", "", "minimum severity: info, warning, error")
	cmd.Flags().BoolVar(&next, "next", false, "print the next marker in reading order")
	cmd.Flags().BoolVar(&previous, "previous", false, "print the previous marker in reading order")
	cmd.Flags().StringVar(&from, "from", "", "owner element id of the current marker")
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse markers interactively")

	return cmd
}

type markerParams struct {
	severity    string
	next        bool
	previous    bool
	from        string
	interactive bool
}

// runMarkers loads the diagram and lists or navigates its markers.
func (c *CLI) runMarkers(input string, p markerParams) error {
	d, err := model.ReadDiagramFile(input)
	if err != nil {
		return fmt.Errorf("load diagram %s: %w", input, err)
	}

	opts := []marker.Option{marker.WithComparator(marker.ReadingOrder)}
	if p.severity != "" {
		min, err := parseSeverity(p.severity)
		if err != nil {
			return err
		}
		opts = append(opts, marker.WithPredicate(marker.MinSeverity(min)))
	}
	nav := marker.NewNavigator(opts...)

	if p.next || p.previous {
		return navigateMarkers(d, nav, p)
	}
	if p.interactive {
		return browseMarkers(d.Markers, nav)
	}
	return listMarkers(d.Markers)
}

// navigateMarkers prints the marker one circular step away from --from.
func navigateMarkers(d *model.Diagram, nav *marker.Navigator, p markerParams) error {
	if p.next && p.previous {
		return fmt.Errorf("--next and --previous are mutually exclusive")
	}

	var current *marker.Marker
	if p.from != "" {
		current = findMarker(d.Markers, p.from)
		if current == nil {
			return fmt.Errorf("no marker on element %q", p.from)
		}
	}

	var target *marker.Marker
	if p.next {
		target = nav.Next(d.Markers, current)
	} else {
		target = nav.Previous(d.Markers, current)
	}
	if target == nil {
		printInfo("No matching markers")
		return nil
	}

	printMarker(*target)
	return nil
}

// browseMarkers runs the interactive marker list.
func browseMarkers(markers []marker.Marker, nav *marker.Navigator) error {
	sorted := make([]marker.Marker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return marker.ReadingOrder(sorted[i], sorted[j]) < 0
	})

	final, err := tea.NewProgram(NewMarkerListModel(sorted, nav)).Run()
	if err != nil {
		return fmt.Errorf("interactive mode: %w", err)
	}
	if m, ok := final.(MarkerListModel); ok && m.Selected != nil {
		printMarker(*m.Selected)
	}
	return nil
}

// listMarkers prints every marker in reading order.
func listMarkers(markers []marker.Marker) error {
	if len(markers) == 0 {
		printInfo("No markers")
		return nil
	}

	sorted := make([]marker.Marker, len(markers))
	copy(sorted, markers)
	sort.SliceStable(sorted, func(i, j int) bool {
		return marker.ReadingOrder(sorted[i], sorted[j]) < 0
	})

	for _, m := range sorted {
		printMarker(m)
	}
	return nil
}

// =============================================================================
// Helpers
// =============================================================================

func printMarker(m marker.Marker) {
	fmt.Printf("%s %s\n", severityBadge(m.MaxSeverity()), StyleValue.Render(m.OwnerID))
	for _, issue := range m.Issues {
		printDetail("%s: %s", issue.Severity, issue.Message)
	}
}

func findMarker(markers []marker.Marker, ownerID string) *marker.Marker {
	for i := range markers {
		if markers[i].OwnerID == ownerID {
			return &markers[i]
		}
	}
	return nil
}

func parseSeverity(s string) (marker.Severity, error) {
	switch marker.Severity(s) {
	case marker.SeverityInfo, marker.SeverityWarning, marker.SeverityError:
		return marker.Severity(s), nil
	default:
		return "", fmt.Errorf("invalid severity: %q (must be one of: info, warning, error)", s)
	}
}
