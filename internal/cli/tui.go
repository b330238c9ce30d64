package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/roomgrid/pkg/grid"
	"github.com/matzehuels/roomgrid/pkg/mapgraph"
)

// Map cell styles
var (
	cellSelectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorCyan).Reverse(true)
	cellConnectedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	cellNeighborStyle  = lipgloss.NewStyle().Foreground(colorYellow)
	cellOtherStyle     = lipgloss.NewStyle().Foreground(colorDim)
	headerStyle        = lipgloss.NewStyle().Foreground(colorGray).Bold(true)
)

// =============================================================================
// RoomBrowser - Interactive room inspection
// =============================================================================

// RoomBrowser is the bubbletea model of the inspect command. It shows the
// map with the selected room highlighted next to a table of rooms.
type RoomBrowser struct {
	Grid   *grid.Grid
	Graph  *mapgraph.Graph
	Seed   uint64
	Cursor int
	Offset int
	Height int

	parent map[int]int
	depth  map[int]int
}

// NewRoomBrowser creates a browser over g and its room graph.
func NewRoomBrowser(g *grid.Grid, gr *mapgraph.Graph, seed uint64) RoomBrowser {
	m := RoomBrowser{
		Grid:   g,
		Graph:  gr,
		Seed:   seed,
		Height: 12,
		parent: make(map[int]int),
		depth:  make(map[int]int),
	}
	for _, t := range gr.Trees {
		t.Walk(func(n, p *mapgraph.MapNode, d int) {
			m.depth[n.RoomID] = d
			if p != nil {
				m.parent[n.RoomID] = p.RoomID
			}
		})
	}
	return m
}

// Selected returns the room under the cursor.
func (m RoomBrowser) Selected() mapgraph.RoomInfo {
	return m.Graph.Rooms[m.Cursor]
}

func (m RoomBrowser) Init() tea.Cmd {
	return nil
}

func (m RoomBrowser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m = m.moveTo(m.Cursor - 1)
		case "down", "j":
			m = m.moveTo(m.Cursor + 1)
		case "home", "g":
			m = m.moveTo(0)
		case "end", "G":
			m = m.moveTo(len(m.Graph.Rooms) - 1)
		case "p":
			if p, ok := m.parent[m.Selected().ID]; ok {
				m = m.moveTo(m.indexOf(p))
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - m.Grid.Height() - 10
		if m.Height < 5 {
			m.Height = 5
		}
		m = m.moveTo(m.Cursor)
	}
	return m, nil
}

// moveTo places the cursor on room index i, clamped, and scrolls the table.
func (m RoomBrowser) moveTo(i int) RoomBrowser {
	if n := len(m.Graph.Rooms); i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	m.Cursor = i
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
	return m
}

func (m RoomBrowser) indexOf(id int) int {
	for i, r := range m.Graph.Rooms {
		if r.ID == id {
			return i
		}
	}
	return m.Cursor
}

func (m RoomBrowser) View() string {
	var b strings.Builder
	sel := m.Selected()

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Room %d", sel.ID)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  %dx%d · %d rooms · seed %d", m.Grid.Width(), m.Grid.Height(), len(m.Graph.Rooms), m.Seed)))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("↑/↓ navigate  p parent  g/G first/last  q quit"))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.renderMap(sel), "   ", m.renderDetail(sel)))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable())
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Graph.Rooms))))
	return b.String()
}

// renderMap draws the grid as right-aligned room ids, styled by their
// relation to the selected room.
func (m RoomBrowser) renderMap(sel mapgraph.RoomInfo) string {
	width := len(strconv.Itoa(m.Grid.RoomCount() - 1))
	connected := toSet(sel.Connections)
	neighbor := toSet(sel.Neighbors)

	lines := make([]string, m.Grid.Height())
	for y := range lines {
		row := m.Grid.Row(y)
		parts := make([]string, len(row))
		for x, c := range row {
			label := fmt.Sprintf("%*d", width, c.RoomID)
			style := cellOtherStyle
			switch {
			case c.RoomID == sel.ID:
				style = cellSelectedStyle
			case connected[c.RoomID]:
				style = cellConnectedStyle
			case neighbor[c.RoomID]:
				style = cellNeighborStyle
			}
			parts[x] = style.Render(label)
		}
		lines[y] = strings.Join(parts, " ")
	}
	return strings.Join(lines, "\n")
}

func (m RoomBrowser) renderDetail(sel mapgraph.RoomInfo) string {
	var b strings.Builder
	row := func(key, value string) {
		b.WriteString(styleKey.Render(key) + " " + StyleValue.Render(value) + "\n")
	}
	row("size", strconv.Itoa(sel.Size))
	row("depth", strconv.Itoa(m.depth[sel.ID]))
	if p, ok := m.parent[sel.ID]; ok {
		row("parent", strconv.Itoa(p))
	} else if m.Graph.Contains(sel.ID) {
		row("parent", "root")
	} else {
		row("parent", "unlinked")
	}
	row("linked", joinInts(sel.Connections))
	row("neighbors", joinInts(sel.Neighbors))
	return b.String()
}

func (m RoomBrowser) renderTable() string {
	end := m.Offset + m.Height
	if end > len(m.Graph.Rooms) {
		end = len(m.Graph.Rooms)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		r := m.Graph.Rooms[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, strconv.Itoa(r.ID), strconv.Itoa(r.Size), joinInts(r.Connections), joinInts(r.Neighbors)})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Room", "Size", "Linked", "Neighbors").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if m.Offset+row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		})
	return t.Render()
}

func toSet(ids []int) map[int]bool {
	s := make(map[int]bool, len(ids))
	for _, id := range ids {
		s[id] = true
	}
	return s
}

func joinInts(ids []int) string {
	if len(ids) == 0 {
		return "—"
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}
