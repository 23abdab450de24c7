package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Frame is what RenderPanel needs to draw the box around a panel.
type Frame interface {
	Title() string
	Focused() bool
	Width() int
	Height() int
}

// Panel is implemented by every pane of the main view.
type Panel interface {
	Frame
	View() string
	Focus()
	Blur()
	SetSize(width, height int)
}

// Panel padding constants
const (
	PanelPaddingH = 1
	ContentPadH   = 1
)

// BasePanel provides focus and size bookkeeping for panels.
type BasePanel struct {
	title   string
	focused bool
	width   int
	height  int
}

// NewBasePanel creates a new base panel.
func NewBasePanel(title string) BasePanel {
	return BasePanel{title: title}
}

func (p *BasePanel) Title() string { return p.title }
func (p *BasePanel) Focused() bool { return p.focused }
func (p *BasePanel) Focus()        { p.focused = true }
func (p *BasePanel) Blur()         { p.focused = false }
func (p *BasePanel) Width() int    { return p.width }
func (p *BasePanel) Height() int   { return p.height }

// SetSize sets the outer dimensions, border included.
func (p *BasePanel) SetSize(width, height int) {
	p.width = width
	p.height = height
}

// InnerSize returns the space left for content inside the border and padding.
func (p *BasePanel) InnerSize() (int, int) {
	w := p.width - 2 - 2*PanelPaddingH
	h := p.height - 3 // border plus title line
	return max(w, 0), max(h, 0)
}

// Theme holds the colors used across the TUI.
type Theme struct {
	Name       string
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Text       lipgloss.Color
	Selected   lipgloss.Color
	Error      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	MoveSource lipgloss.Color
}

var themes = map[string]Theme{
	"classic": {
		Name:       "classic",
		Accent:     lipgloss.Color("62"),
		Muted:      lipgloss.Color("240"),
		Text:       lipgloss.Color("252"),
		Selected:   lipgloss.Color("229"),
		Error:      lipgloss.Color("196"),
		Success:    lipgloss.Color("34"),
		Warning:    lipgloss.Color("214"),
		MoveSource: lipgloss.Color("141"),
	},
	"ocean": {
		Name:       "ocean",
		Accent:     lipgloss.Color("39"),
		Muted:      lipgloss.Color("243"),
		Text:       lipgloss.Color("255"),
		Selected:   lipgloss.Color("51"),
		Error:      lipgloss.Color("203"),
		Success:    lipgloss.Color("42"),
		Warning:    lipgloss.Color("221"),
		MoveSource: lipgloss.Color("177"),
	},
}

// ThemeByName returns the named theme, falling back to classic.
func ThemeByName(name string) Theme {
	if t, ok := themes[strings.ToLower(name)]; ok {
		return t
	}
	return themes["classic"]
}

// RenderTitle renders a title bar.
func RenderTitle(theme Theme, title string, width int, focused bool) string {
	style := lipgloss.NewStyle().
		Width(width).
		Bold(true).
		Padding(0, ContentPadH)

	if focused {
		style = style.Foreground(theme.Selected).Background(theme.Accent)
	} else {
		style = style.Foreground(theme.Text).Background(lipgloss.Color("238"))
	}

	return style.Render(Truncate(title, max(width-2*ContentPadH, 0)))
}

// RenderPanel draws content inside a bordered box with a title bar.
func RenderPanel(theme Theme, p Frame, content string) string {
	border := theme.Muted
	if p.Focused() {
		border = theme.Accent
	}
	innerWidth := max(p.Width()-2, 0)
	innerHeight := max(p.Height()-2, 0)

	body := lipgloss.NewStyle().
		Width(innerWidth).
		Height(max(innerHeight-1, 0)).
		MaxHeight(max(innerHeight-1, 0)).
		Padding(0, PanelPaddingH).
		Render(content)

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Render(lipgloss.JoinVertical(lipgloss.Left, RenderTitle(theme, p.Title(), innerWidth, p.Focused()), body))
}

// Truncate shortens s to fit width cells, ending with an ellipsis. Styled
// strings are cut without breaking their escape sequences.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "…")
}

// PadRight pads s with spaces to width cells.
func PadRight(s string, width int) string {
	w := lipgloss.Width(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
