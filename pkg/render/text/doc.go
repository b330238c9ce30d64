// Package text renders grids and room trees as plain text.
//
// [Render] draws the detailed map: walls appear between cells of different
// rooms, and every grid-line intersection gets a glyph derived from the four
// wall segments that meet there. The map is followed by a manifest line per
// room:
//
//	+-----------+
//	| 0   0   0 |
//	+-----------+
//	| 1   1   1 |
//	+-----------+
//	| 2   2   2 |
//	+-----------+
//
//	room 0 size=3 cells=0,1,2
//	room 1 size=3 cells=3,4,5
//	room 2 size=3 cells=6,7,8
//
// [RenderSimple] prints only the room ids, right-aligned per column.
// [RenderGraph] prints a room tree depth-first with one line per room.
//
// With [WithColors] room labels are wrapped in ANSI colours from package
// palette. Only the labels are coloured, so stripping the escape sequences
// gives back the uncoloured output byte for byte.
package text
