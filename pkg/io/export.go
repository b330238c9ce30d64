package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
)

// Map is a grid together with the room graph built from it.
type Map struct {
	Seed  *uint64
	Grid  *grid.Grid
	Graph *mapgraph.Graph
}

type document struct {
	Seed  *uint64         `json:"seed,omitempty"`
	Grid  *grid.Data      `json:"grid,omitempty"`
	Graph *mapgraph.Graph `json:"graph,omitempty"`
}

// WriteJSON encodes m and writes it to w. A map without a graph or seed is
// written as a bare grid.
func WriteJSON(m Map, w io.Writer) error {
	if m.Grid == nil {
		return fmt.Errorf("encode: map has no grid")
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	var out any = m.Grid.Data()
	if m.Graph != nil || m.Seed != nil {
		d := m.Grid.Data()
		out = document{Seed: m.Seed, Grid: &d, Graph: m.Graph}
	}
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ExportJSON writes m to a JSON file at path.
func ExportJSON(m Map, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(m, f)
}
