package text

import (
	"fmt"
	"strings"

	"github.com/matzehuels/roomgrid/pkg/mapgraph"
)

// RenderGraph prints the tree depth-first, one line per room:
//
//	<root> node 0
//	  (0) ->  node 1
//	    (1) ->  node 4
//
//	    (1) ->  node 3
//
//	  (0) ->  node 5
//	    (5) ->  node 6
//
// Each line is indented two spaces per depth and a blank line separates a
// subtree from its next sibling. The output ends with a newline.
func RenderGraph(root *mapgraph.MapNode) string {
	if root == nil {
		return ""
	}
	var b strings.Builder
	root.Walk(func(n, parent *mapgraph.MapNode, depth int) {
		indent := strings.Repeat("  ", depth)
		if parent == nil {
			fmt.Fprintf(&b, "%s<root> node %d\n", indent, n.RoomID)
			return
		}
		if parent.Children[0] != n {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s(%d) ->  node %d\n", indent, parent.RoomID, n.RoomID)
	})
	return b.String()
}

// RenderForest prints every tree of gr with a blank line between trees.
func RenderForest(gr *mapgraph.Graph) string {
	parts := make([]string, len(gr.Trees))
	for i, t := range gr.Trees {
		parts[i] = RenderGraph(t)
	}
	return strings.Join(parts, "\n")
}
