package components

import (
	"fmt"
	"strings"

	"github.com/artpar/restui/internal/core"
	"github.com/artpar/restui/internal/tui"
	"github.com/artpar/restui/internal/workspace"
	"github.com/charmbracelet/lipgloss"
)

// CollectionTree renders the request list. It holds no tree state of its own:
// rows are rebuilt from the workspace on every render, only the scroll offset
// is kept between frames.
type CollectionTree struct {
	tui.BasePanel
	ws     *workspace.Workspace
	theme  tui.Theme
	offset int
}

// NewCollectionTree creates a tree over ws.
func NewCollectionTree(ws *workspace.Workspace, theme tui.Theme) *CollectionTree {
	return &CollectionTree{
		BasePanel: tui.NewBasePanel("Collections"),
		ws:        ws,
		theme:     theme,
	}
}

// Rows returns the current display rows.
func (c *CollectionTree) Rows() []TreeRow {
	movingID := ""
	if pm, ok := c.ws.PendingMove(); ok {
		movingID = pm.ItemID
	}
	return BuildRows(c.ws.Collections(), c.ws.Selection(), movingID)
}

// Offset returns the first visible row.
func (c *CollectionTree) Offset() int {
	return c.offset
}

// View renders the component.
func (c *CollectionTree) View() string {
	width, height := c.InnerSize()
	rows := c.Rows()

	if len(rows) == 0 {
		hint := lipgloss.NewStyle().Foreground(c.theme.Muted).
			Render("No collections.\nPress c to create one.")
		return tui.RenderPanel(c.theme, c, hint)
	}

	c.offset = AdjustOffset(SelectedRow(rows), c.offset, height)
	start, end := VisibleRange(c.offset, height, len(rows))

	lines := make([]string, 0, end-start)
	for _, row := range rows[start:end] {
		lines = append(lines, c.renderRow(row, width))
	}
	return tui.RenderPanel(c.theme, c, strings.Join(lines, "\n"))
}

func (c *CollectionTree) renderRow(row TreeRow, width int) string {
	indent := strings.Repeat("  ", row.Depth)

	var indicator, label string
	switch row.Kind {
	case RowCollection:
		indicator = "▶ "
		if row.Expanded {
			indicator = "▼ "
		}
		label = lipgloss.NewStyle().Bold(true).Render(row.Name) +
			lipgloss.NewStyle().Foreground(c.theme.Muted).Render(fmt.Sprintf(" (%d)", row.Count))
	case RowFolder:
		indicator = "▸ "
		if row.Expanded {
			indicator = "▾ "
		}
		label = row.Name + "/"
	case RowRequest:
		indicator = "  "
		label = MethodBadge(row.Method) + " " + row.Name
	}

	prefix := " "
	if row.MoveSource {
		prefix = "✂"
	}
	line := tui.Truncate(prefix+indent+indicator+label, width)
	line = tui.PadRight(line, width)

	style := lipgloss.NewStyle()
	switch {
	case row.Selected && c.Focused():
		style = style.Background(c.theme.Accent).Foreground(c.theme.Selected)
	case row.Selected:
		style = style.Background(lipgloss.Color("238")).Foreground(c.theme.Text)
	case row.MoveSource:
		style = style.Foreground(c.theme.MoveSource)
	}
	return style.Render(line)
}

// MethodBadge renders a fixed-width colored method label.
func MethodBadge(method core.HTTPMethod) string {
	style := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))

	switch method {
	case core.MethodGet:
		return style.Background(lipgloss.Color("34")).Render(" GET ")
	case core.MethodPost:
		return style.Background(lipgloss.Color("214")).Foreground(lipgloss.Color("0")).Render(" POST")
	case core.MethodPut:
		return style.Background(lipgloss.Color("33")).Render(" PUT ")
	case core.MethodPatch:
		return style.Background(lipgloss.Color("141")).Render(" PTCH")
	case core.MethodDelete:
		return style.Background(lipgloss.Color("160")).Render(" DEL ")
	default:
		return style.Background(lipgloss.Color("240")).Render(fmt.Sprintf(" %-4s", method))
	}
}
