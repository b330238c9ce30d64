// Package io provides JSON import and export for grids and room graphs.
//
// # JSON Format
//
// A grid is written in the same shape the HTTP server returns:
//
//	{
//	  "width": 3,
//	  "height": 3,
//	  "roomCount": 3,
//	  "cells": [
//	    {"id": 0, "x": 0, "y": 0, "roomId": 0},
//	    ...
//	  ]
//	}
//
// A map document bundles a grid with its connectivity graph and the seed
// that produced them:
//
//	{
//	  "seed": 42,
//	  "grid": { ...grid... },
//	  "graph": {"rooms": [...], "trees": [{"roomId": 0, "children": [...]}]}
//	}
//
// The graph is optional; a map document without one imports as a bare grid.
//
// # Import
//
// Use [ImportJSON] to read a grid or map document from a file path, or
// [ReadJSON] to read from any io.Reader. Both accept either shape. Cells are
// validated (row-major ids, coordinates, every room assigned) and a graph
// must only name rooms that exist in the grid.
//
// # Export
//
// Use [ExportJSON] to write to a file, or [WriteJSON] to write to any
// io.Writer. Output is indented with two spaces.
package io
