// Package palette assigns terminal colours to room ids.
//
// A [Palette] is a shuffled list of ANSI styles. Room ids map onto it by
// modulo, so every room keeps one colour for the duration of a render and
// colours repeat once the rooms outnumber the palette. Grids with at most
// twelve cells use the twelve base styles; larger ones add the twelve bright
// variants.
package palette

import (
	"fmt"

	"github.com/gookit/color"

	"github.com/matzehuels/roomgrid/pkg/rng"
)

// Colorize formats with gookit's template directly instead of Style.Sprint
// or RenderCode, which strip colour when stdout is not a TTY. Callers decide
// whether colour is wanted.
const ansiTemplate = color.FullColorTpl

var base = []color.Style{
	{color.FgRed},
	{color.FgGreen},
	{color.FgBlue},
	{color.FgYellow},
	{color.FgMagenta},
	{color.FgCyan},
	{color.BgRed},
	{color.BgGreen},
	{color.BgBlue},
	{color.BgYellow},
	{color.BgMagenta},
	{color.BgCyan},
}

var bright = []color.Style{
	{color.FgLightRed},
	{color.FgLightGreen},
	{color.FgLightBlue},
	{color.FgLightYellow},
	{color.FgLightMagenta},
	{color.FgLightCyan},
	{color.BgLightRed},
	{color.BgLightGreen},
	{color.BgLightBlue},
	{color.BgLightYellow},
	{color.BgLightMagenta},
	{color.BgLightCyan},
}

// Sizes of the two palettes.
var (
	SomeLen = len(base)
	ManyLen = len(base) + len(bright)
)

// Palette maps room ids to styles.
type Palette struct {
	styles []color.Style
}

// Some returns the twelve base styles shuffled with r.
func Some(r rng.Source) *Palette {
	return &Palette{styles: rng.Shuffle(r, base)}
}

// Many returns all twenty-four styles shuffled with r.
func Many(r rng.Source) *Palette {
	all := make([]color.Style, 0, ManyLen)
	all = append(all, base...)
	all = append(all, bright...)
	return &Palette{styles: rng.Shuffle(r, all)}
}

// ForCells picks [Some] for grids of up to twelve cells and [Many]
// otherwise.
func ForCells(cells int, r rng.Source) *Palette {
	if cells <= SomeLen {
		return Some(r)
	}
	return Many(r)
}

// Len returns the number of styles.
func (p *Palette) Len() int { return len(p.styles) }

// Code returns the SGR parameter string for room id, e.g. "31".
func (p *Palette) Code(roomID int) string {
	return p.style(roomID).String()
}

// Colorize wraps s in the escape sequence for room id.
func (p *Palette) Colorize(roomID int, s string) string {
	return fmt.Sprintf(ansiTemplate, p.Code(roomID), s)
}

func (p *Palette) style(roomID int) color.Style {
	i := roomID % len(p.styles)
	if i < 0 {
		i += len(p.styles)
	}
	return p.styles[i]
}

// StripANSI removes colour escape sequences from s.
func StripANSI(s string) string {
	return color.ClearCode(s)
}
