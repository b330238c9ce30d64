package svgmap

import (
	"strings"
	"testing"

	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
	"github.com/matzehuels/roomgrid/pkg/rng"
)

func bands(t *testing.T) *grid.Grid {
	t.Helper()
	g, err := grid.FromAssignment(3, 3, []int{0, 0, 0, 1, 1, 1, 2, 2, 2})
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestWalls(t *testing.T) {
	segs := walls(bands(t))
	// Four boundary lines plus three cell edges between each pair of bands.
	if len(segs) != 4+6 {
		t.Fatalf("len(walls) = %d, want 10", len(segs))
	}
	want := segment{0, 1, 1, 1}
	found := false
	for _, s := range segs {
		if s == want {
			found = true
		}
	}
	if !found {
		t.Errorf("walls() missing %+v", want)
	}
}

func TestSharedEdge(t *testing.T) {
	g := bands(t)
	a, _ := g.Cell(4)
	tests := []struct {
		other int
		want  segment
	}{
		{5, segment{2, 1, 2, 2}},
		{3, segment{1, 1, 1, 2}},
		{7, segment{1, 2, 2, 2}},
		{1, segment{1, 1, 2, 1}},
	}
	for _, tt := range tests {
		b, _ := g.Cell(tt.other)
		if got := sharedEdge(a, b); got != tt.want {
			t.Errorf("sharedEdge(4, %d) = %+v, want %+v", tt.other, got, tt.want)
		}
	}
}

func TestRenderSVG(t *testing.T) {
	g := bands(t)
	gr, err := mapgraph.Build(g, rng.New(2))
	if err != nil {
		t.Fatal(err)
	}
	svg := string(RenderSVG(g, WithGraph(gr), WithLabels(), WithCellSize(10), WithRand(rng.New(1))))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 38.0 38.0"`) {
		t.Errorf("unexpected header: %.80s", svg)
	}
	if got := strings.Count(svg, `class="cell"`); got != 9 {
		t.Errorf("cells = %d, want 9", got)
	}
	if got := strings.Count(svg, `class="door"`); got != 2 {
		t.Errorf("doors = %d, want 2", got)
	}
	if got := strings.Count(svg, `class="label"`); got != 9 {
		t.Errorf("labels = %d, want 9", got)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("document is not closed")
	}

	same := string(RenderSVG(g, WithGraph(gr), WithLabels(), WithCellSize(10), WithRand(rng.New(1))))
	if same != svg {
		t.Error("render with the same colour seed differs")
	}
}
