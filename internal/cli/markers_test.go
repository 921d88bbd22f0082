package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/marker"
)

func testMarkers() []marker.Marker {
	at := func(y float64) *geometry.Bounds {
		return &geometry.Bounds{X: 0, Y: y, Width: 10, Height: 10}
	}
	return []marker.Marker{
		{OwnerID: "a", Issues: []marker.Issue{{Severity: marker.SeverityError, Message: "broken"}}, Bounds: at(0)},
		{OwnerID: "b", Issues: []marker.Issue{{Severity: marker.SeverityWarning, Message: "odd"}}, Bounds: at(10)},
		{OwnerID: "c", Issues: []marker.Issue{{Severity: marker.SeverityInfo, Message: "fyi"}}, Bounds: at(20)},
	}
}

func TestParseSeverity(t *testing.T) {
	for _, s := range []string{"info", "warning", "error"} {
		if _, err := parseSeverity(s); err != nil {
			t.Errorf("parseSeverity(%q) error: %v", s, err)
		}
	}
	if _, err := parseSeverity("fatal"); err == nil {
		t.Error("parseSeverity(\"fatal\") should fail")
	}
}

func TestFindMarker(t *testing.T) {
	markers := testMarkers()
	if m := findMarker(markers, "b"); m == nil || m.OwnerID != "b" {
		t.Errorf("findMarker(b) = %+v", m)
	}
	if m := findMarker(markers, "zz"); m != nil {
		t.Errorf("findMarker(zz) = %+v, want nil", m)
	}
}

func TestMarkerSummary(t *testing.T) {
	m := marker.Marker{Issues: []marker.Issue{
		{Severity: marker.SeverityError, Message: "first"},
		{Severity: marker.SeverityInfo, Message: "second"},
	}}
	if got := markerSummary(m); got != "first (+1 more)" {
		t.Errorf("markerSummary = %q", got)
	}
	if got := markerSummary(marker.Marker{}); got != "" {
		t.Errorf("markerSummary of empty marker = %q", got)
	}
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestMarkerListCyclesWithNavigator(t *testing.T) {
	nav := marker.NewNavigator(marker.WithComparator(marker.ReadingOrder))
	m := NewMarkerListModel(testMarkers(), nav)

	// n walks forward and wraps past the end.
	for i, want := range []int{1, 2, 0} {
		next, _ := m.Update(keyMsg("n"))
		m = next.(MarkerListModel)
		if m.Cursor != want {
			t.Fatalf("step %d: cursor = %d, want %d", i, m.Cursor, want)
		}
	}

	// p walks back and wraps past the start.
	prev, _ := m.Update(keyMsg("p"))
	m = prev.(MarkerListModel)
	if m.Cursor != 2 {
		t.Errorf("after p from first: cursor = %d, want 2", m.Cursor)
	}
}

func TestMarkerListSelect(t *testing.T) {
	nav := marker.NewNavigator()
	m := NewMarkerListModel(testMarkers(), nav)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MarkerListModel)
	if m.Selected == nil || m.Selected.OwnerID != "a" {
		t.Errorf("Selected = %+v, want marker a", m.Selected)
	}
}

func TestMarkerListQuit(t *testing.T) {
	m := NewMarkerListModel(nil, marker.NewNavigator())
	_, cmd := m.Update(keyMsg("q"))
	if cmd == nil {
		t.Error("q should produce a quit command")
	}
}
