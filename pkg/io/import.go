package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	apperr "github.com/matzehuels/roomgrid/pkg/errors"
	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
)

// ReadJSON decodes a grid or map document from r.
//
// ReadJSON returns an error if the JSON is malformed, the cells do not form
// a valid assigned grid, or the graph names a room the grid does not have.
// It does not close r.
func ReadJSON(r io.Reader) (Map, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return Map{}, fmt.Errorf("read: %w", err)
	}
	var doc document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Map{}, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode map")
	}
	if doc.Grid == nil {
		var bare grid.Data
		if err := json.Unmarshal(raw, &bare); err != nil {
			return Map{}, apperr.Wrap(apperr.ErrCodeInvalidFormat, err, "decode grid")
		}
		doc.Grid = &bare
	}

	g, err := grid.FromData(*doc.Grid)
	if err != nil {
		return Map{}, fmt.Errorf("grid: %w", err)
	}

	m := Map{Seed: doc.Seed, Grid: g, Graph: doc.Graph}
	if m.Graph != nil {
		if err := checkGraph(m); err != nil {
			return Map{}, err
		}
	}
	return m, nil
}

// ImportJSON reads a JSON file at path and returns the decoded map.
func ImportJSON(path string) (Map, error) {
	f, err := os.Open(path)
	if err != nil {
		return Map{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadJSON(f)
}

func checkGraph(m Map) error {
	for _, info := range m.Graph.Rooms {
		if _, ok := m.Grid.FindRoom(info.ID); !ok {
			return apperr.New(apperr.ErrCodeInvalidFormat, "graph room %d is not in the grid", info.ID)
		}
	}
	seen := map[int]bool{}
	for _, tree := range m.Graph.Trees {
		var bad error
		tree.Walk(func(n, _ *mapgraph.MapNode, _ int) {
			if bad != nil {
				return
			}
			if _, ok := m.Grid.FindRoom(n.RoomID); !ok {
				bad = apperr.New(apperr.ErrCodeInvalidFormat, "tree node %d is not in the grid", n.RoomID)
			} else if seen[n.RoomID] {
				bad = apperr.New(apperr.ErrCodeInvalidFormat, "room %d appears twice in the graph", n.RoomID)
			}
			seen[n.RoomID] = true
		})
		if bad != nil {
			return bad
		}
	}
	return nil
}
