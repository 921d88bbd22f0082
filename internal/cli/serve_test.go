package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/diagramkit/diagramkit/pkg/cache"
	"github.com/diagramkit/diagramkit/pkg/command"
	dkerrors "github.com/diagramkit/diagramkit/pkg/errors"
	"github.com/diagramkit/diagramkit/pkg/geometry"
	"github.com/diagramkit/diagramkit/pkg/layout"
	"github.com/diagramkit/diagramkit/pkg/marker"
	"github.com/diagramkit/diagramkit/pkg/model"
	"github.com/diagramkit/diagramkit/pkg/pipeline"
	"github.com/diagramkit/diagramkit/pkg/store"
)

func testServer() *server {
	return &server{
		store:  store.NewMemoryStore(),
		runner: pipeline.NewRunner(cache.NewNullCache(), nil, log.New(io.Discard)),
		logger: log.New(io.Discard),
		layout: layout.DefaultOptions,
	}
}

func serveDiagram() *model.Diagram {
	size := func(w, h float64) *model.LayoutHints {
		return &model.LayoutHints{PrefSize: &geometry.Size{Width: w, Height: h}}
	}
	root := &model.Element{ID: "root", Type: model.TypeGraph}
	root.AddChild(
		&model.Element{
			ID: "a", Type: model.TypeNode, Hints: size(30, 10),
			Bounds: &geometry.Bounds{X: 0, Y: 0, Width: 30, Height: 10},
		},
		&model.Element{
			ID: "b", Type: model.TypeNode, Hints: size(40, 10),
			Bounds: &geometry.Bounds{X: 0, Y: 20, Width: 40, Height: 10},
		},
	)
	return &model.Diagram{ID: "d1", Root: root, Markers: []marker.Marker{
		{
			OwnerID: "a",
			Issues:  []marker.Issue{{Severity: marker.SeverityError, Message: "bad"}},
			Bounds:  &geometry.Bounds{X: 0, Y: 0, Width: 10, Height: 10},
		},
		{
			OwnerID: "b",
			Issues:  []marker.Issue{{Severity: marker.SeverityInfo, Message: "note"}},
			Bounds:  &geometry.Bounds{X: 0, Y: 20, Width: 10, Height: 10},
		},
	}}
}

func doRequest(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestServerDiagramCRUD(t *testing.T) {
	h := testServer().routes()
	d := serveDiagram()

	rec := doRequest(t, h, http.MethodPut, "/diagrams/d1", d)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d, body %s", rec.Code, rec.Body)
	}

	rec = doRequest(t, h, http.MethodGet, "/diagrams/d1", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	var got model.Diagram
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Root == nil || len(got.Root.Children) != 2 {
		t.Errorf("round-tripped diagram lost children: %+v", got.Root)
	}

	rec = doRequest(t, h, http.MethodGet, "/diagrams", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("LIST status = %d", rec.Code)
	}
	var list map[string][]string
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil {
		t.Fatal(err)
	}
	if len(list["diagrams"]) != 1 || list["diagrams"][0] != "d1" {
		t.Errorf("list = %v, want [d1]", list["diagrams"])
	}

	rec = doRequest(t, h, http.MethodDelete, "/diagrams/d1", nil)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("DELETE status = %d", rec.Code)
	}

	rec = doRequest(t, h, http.MethodGet, "/diagrams/d1", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want 404", rec.Code)
	}
}

func TestServerLayout(t *testing.T) {
	h := testServer().routes()

	body := map[string]any{
		"diagram": serveDiagram(),
		"options": pipeline.Options{Formats: []string{"svg"}},
	}
	rec := doRequest(t, h, http.MethodPost, "/layout", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST /layout status = %d, body %s", rec.Code, rec.Body)
	}

	var resp struct {
		Diagram   *model.Diagram    `json:"diagram"`
		Artifacts map[string]string `json:"artifacts"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Diagram.Root.Bounds == nil {
		t.Error("laid-out root should have bounds")
	}
	if svg := resp.Artifacts["svg"]; svg == "" || !bytes.Contains([]byte(svg), []byte("el-a")) {
		t.Errorf("svg artifact missing element boxes: %q", svg)
	}
}

func TestServerLayoutRejectsEmptyBody(t *testing.T) {
	h := testServer().routes()
	rec := doRequest(t, h, http.MethodPost, "/layout", map[string]any{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestServerOperations(t *testing.T) {
	h := testServer().routes()
	doRequest(t, h, http.MethodPut, "/diagrams/d1", serveDiagram())

	ops := []pipeline.Operation{{
		Type: pipeline.OpResize,
		Resize: &command.ResizeOperation{
			ElementIDs: []string{"a", "b"},
			Dimension:  command.DimensionWidth,
			Reduce:     command.ReduceMax,
		},
	}}
	rec := doRequest(t, h, http.MethodPost, "/diagrams/d1/operations", ops)
	if rec.Code != http.StatusOK {
		t.Fatalf("POST operations status = %d, body %s", rec.Code, rec.Body)
	}

	var resp operationsResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Applied) == 0 {
		t.Error("response should list applied action ids")
	}

	// The stored diagram reflects the edit: both nodes now share the max width.
	rec = doRequest(t, h, http.MethodGet, "/diagrams/d1", nil)
	var got model.Diagram
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	for _, child := range got.Root.Children {
		if child.Bounds == nil || child.Bounds.Width != 40 {
			t.Errorf("element %s width = %+v, want 40", child.ID, child.Bounds)
		}
	}
}

func TestServerMarkerStep(t *testing.T) {
	h := testServer().routes()
	doRequest(t, h, http.MethodPut, "/diagrams/d1", serveDiagram())

	// No current marker: both directions start at the first in reading order.
	rec := doRequest(t, h, http.MethodGet, "/diagrams/d1/markers/step?direction=next", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("marker step status = %d", rec.Code)
	}
	var m marker.Marker
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.OwnerID != "a" {
		t.Errorf("first marker = %q, want a", m.OwnerID)
	}

	// Stepping past the last marker wraps to the first.
	rec = doRequest(t, h, http.MethodGet, "/diagrams/d1/markers/step?direction=next&from=b", nil)
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.OwnerID != "a" {
		t.Errorf("wrapped marker = %q, want a", m.OwnerID)
	}

	// Severity filter drops the info marker entirely.
	rec = doRequest(t, h, http.MethodGet, "/diagrams/d1/markers/step?severity=error&from=a", nil)
	if err := json.NewDecoder(rec.Body).Decode(&m); err != nil {
		t.Fatal(err)
	}
	if m.OwnerID != "a" {
		t.Errorf("filtered wrap = %q, want a", m.OwnerID)
	}
}

func TestServerMarkerStepNotFound(t *testing.T) {
	h := testServer().routes()
	rec := doRequest(t, h, http.MethodGet, "/diagrams/missing/markers/step", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestWriteErrorMapsCodes(t *testing.T) {
	s := testServer()

	tests := []struct {
		err  error
		want int
	}{
		{dkerrors.New(dkerrors.ErrCodeDiagramNotFound, "no such diagram"), http.StatusNotFound},
		{dkerrors.New(dkerrors.ErrCodeInvalidOptions, "bad options"), http.StatusBadRequest},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		s.writeError(rec, tt.err)
		if rec.Code != tt.want {
			t.Errorf("writeError(%v) status = %d, want %d", tt.err, rec.Code, tt.want)
		}
	}
}
