package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/diagramkit/diagramkit/pkg/marker"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// MarkerListModel - Interactive marker navigation
// =============================================================================

// MarkerListModel is the bubbletea model for stepping through markers.
// The n and p keys walk the circular navigation order; arrows move the
// cursor without wrapping.
type MarkerListModel struct {
	Markers  []marker.Marker
	Nav      *marker.Navigator
	Cursor   int
	Selected *marker.Marker
	Height   int
	Offset   int
}

// NewMarkerListModel creates a marker list model over the sorted markers.
func NewMarkerListModel(markers []marker.Marker, nav *marker.Navigator) MarkerListModel {
	return MarkerListModel{
		Markers: markers,
		Nav:     nav,
		Height:  15,
	}
}

func (m MarkerListModel) Init() tea.Cmd {
	return nil
}

func (m MarkerListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Markers)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "n", "right":
			m.jumpTo(m.Nav.Next(m.Markers, m.current()))
		case "p", "left":
			m.jumpTo(m.Nav.Previous(m.Markers, m.current()))
		case "enter":
			if len(m.Markers) > 0 {
				m.Selected = &m.Markers[m.Cursor]
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

// current returns the marker under the cursor, or nil for an empty list.
func (m *MarkerListModel) current() *marker.Marker {
	if len(m.Markers) == 0 {
		return nil
	}
	return &m.Markers[m.Cursor]
}

// jumpTo moves the cursor to the marker the navigator returned.
func (m *MarkerListModel) jumpTo(target *marker.Marker) {
	if target == nil {
		return
	}
	for i := range m.Markers {
		if m.Markers[i].OwnerID == target.OwnerID {
			m.Cursor = i
			break
		}
	}
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m MarkerListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Markers"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  n/p cycle  ⏎ select  q quit"))
	b.WriteString("\n\n")

	if len(m.Markers) == 0 {
		b.WriteString(listDimStyle.Render("  no markers"))
		b.WriteString("\n")
		return b.String()
	}

	end := m.Offset + m.Height
	if end > len(m.Markers) {
		end = len(m.Markers)
	}

	for i := m.Offset; i < end; i++ {
		mk := m.Markers[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%s %-20s  %s",
			cursor,
			severityBadge(mk.MaxSeverity()),
			mk.OwnerID,
			listDimStyle.Render(markerSummary(mk)))

		if i == m.Cursor {
			b.WriteString(listSelectedStyle.Render(line))
		} else {
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Markers))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

// severityBadge returns a colored single-character severity indicator.
func severityBadge(s marker.Severity) string {
	switch s {
	case marker.SeverityError:
		return styleSeverityError.Render("E")
	case marker.SeverityWarning:
		return styleSeverityWarning.Render("W")
	default:
		return styleSeverityInfo.Render("I")
	}
}

// markerSummary returns the first issue message, noting hidden ones.
func markerSummary(m marker.Marker) string {
	if len(m.Issues) == 0 {
		return ""
	}
	summary := m.Issues[0].Message
	if extra := len(m.Issues) - 1; extra > 0 {
		summary += fmt.Sprintf(" (+%d more)", extra)
	}
	return summary
}
