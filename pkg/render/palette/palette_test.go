package palette

import (
	"strings"
	"testing"

	"github.com/gookit/color"

	"github.com/matzehuels/roomgrid/pkg/rng"
)

func TestForCells(t *testing.T) {
	if got := ForCells(9, rng.New(1)).Len(); got != 12 {
		t.Errorf("ForCells(9).Len() = %d, want 12", got)
	}
	if got := ForCells(13, rng.New(1)).Len(); got != 24 {
		t.Errorf("ForCells(13).Len() = %d, want 24", got)
	}
}

func TestColorizeStable(t *testing.T) {
	p := Many(rng.New(7))
	for id := 0; id < 60; id++ {
		a := p.Colorize(id, "x")
		if a != p.Colorize(id, "x") {
			t.Fatalf("room %d colour is not stable", id)
		}
		if a != p.Colorize(id+p.Len(), "x") {
			t.Errorf("room %d does not cycle with period %d", id, p.Len())
		}
	}
}

func TestDistinctWithinPalette(t *testing.T) {
	p := Some(rng.New(3))
	seen := map[string]bool{}
	for id := 0; id < p.Len(); id++ {
		code := p.Code(id)
		if seen[code] {
			t.Errorf("code %s repeated before the palette is exhausted", code)
		}
		seen[code] = true
	}
}

func TestStripANSI(t *testing.T) {
	p := Some(rng.New(9))
	s := p.Colorize(4, "42")
	if !strings.HasPrefix(s, "\x1b[") || !strings.HasSuffix(s, "\x1b[0m") {
		t.Fatalf("Colorize() = %q, want an SGR sequence", s)
	}
	if got := StripANSI("| " + s + " |"); got != "| 42 |" {
		t.Errorf("StripANSI() = %q", got)
	}
}

func TestColorizeIgnoresTerminalSupport(t *testing.T) {
	prev := color.Enable
	color.Enable = false
	t.Cleanup(func() { color.Enable = prev })

	p := Some(rng.New(2))
	want := "\x1b[" + p.Code(1) + "m7\x1b[0m"
	if got := p.Colorize(1, "7"); got != want {
		t.Errorf("Colorize() = %q, want %q", got, want)
	}
}

func TestShuffleDeterministic(t *testing.T) {
	a, b := Many(rng.New(5)), Many(rng.New(5))
	for id := 0; id < a.Len(); id++ {
		if a.Code(id) != b.Code(id) {
			t.Fatalf("palettes with the same seed differ at %d", id)
		}
	}
}
