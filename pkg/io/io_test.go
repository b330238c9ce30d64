package io

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

func sample(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.FromAssignment(3, 2, []int{0, 0, 1, 2, 2, 1})
	if err != nil {
		t.Fatalf("FromAssignment: %v", err)
	}
	return g
}

func TestWriteReadBareGrid(t *testing.T) {
	g := sample(t)
	var buf bytes.Buffer
	if err := WriteJSON(Map{Grid: g}, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if strings.Contains(buf.String(), `"grid"`) {
		t.Errorf("bare grid should not be wrapped: %s", buf.String())
	}

	m, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !m.Grid.Equal(g) {
		t.Error("grid changed in round trip")
	}
	if m.Graph != nil || m.Seed != nil {
		t.Error("bare grid should have no graph or seed")
	}
}

func TestWriteReadMap(t *testing.T) {
	g := sample(t)
	gr, err := mapgraph.Build(g, rng.New(1))
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	seed := uint64(99)
	path := filepath.Join(t.TempDir(), "map.json")
	if err := ExportJSON(Map{Seed: &seed, Grid: g, Graph: gr}, path); err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	m, err := ImportJSON(path)
	if err != nil {
		t.Fatalf("ImportJSON: %v", err)
	}
	if m.Seed == nil || *m.Seed != 99 {
		t.Errorf("seed = %v, want 99", m.Seed)
	}
	if !m.Grid.Equal(g) {
		t.Error("grid changed in round trip")
	}
	if m.Graph == nil || m.Graph.Size() != gr.Size() {
		t.Fatalf("graph not preserved: %+v", m.Graph)
	}
	if m.Graph.Root().RoomID != gr.Root().RoomID {
		t.Errorf("root = %d, want %d", m.Graph.Root().RoomID, gr.Root().RoomID)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code apperr.Code
	}{
		{"malformed", `{"width":`, apperr.ErrCodeInvalidFormat},
		{"unassigned cell", `{"width":1,"height":1,"cells":[{"id":0,"x":0,"y":0,"roomId":-1}]}`, apperr.ErrCodeInvalidInput},
		{"unknown graph room", `{"grid":{"width":1,"height":1,"cells":[{"id":0,"x":0,"y":0,"roomId":0}]},
			"graph":{"rooms":[],"trees":[{"roomId":5,"children":[]}]}}`, apperr.ErrCodeInvalidFormat},
		{"repeated graph room", `{"grid":{"width":2,"height":1,"cells":[{"id":0,"x":0,"y":0,"roomId":0},{"id":1,"x":1,"y":0,"roomId":1}]},
			"graph":{"rooms":[],"trees":[{"roomId":0,"children":[{"roomId":0,"children":[]}]}]}}`, apperr.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !apperr.Is(err, tt.code) {
				t.Errorf("ReadJSON error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestImportJSONMissingFile(t *testing.T) {
	if _, err := ImportJSON(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
