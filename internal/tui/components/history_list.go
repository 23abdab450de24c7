package components

import (
	"strings"

	"github.com/artpar/restui/internal/history"
	"github.com/artpar/restui/internal/tui"
	"github.com/charmbracelet/lipgloss"
)

// HistoryList is the overlay listing recently sent requests.
type HistoryList struct {
	entries []history.Entry
	cursor  int
	offset  int
	theme   tui.Theme
}

// NewHistoryList creates a list over entries, newest first.
func NewHistoryList(entries []history.Entry, theme tui.Theme) *HistoryList {
	return &HistoryList{entries: entries, theme: theme}
}

func (h *HistoryList) Len() int    { return len(h.entries) }
func (h *HistoryList) Cursor() int { return h.cursor }

// Move shifts the cursor by delta, clamped to the list.
func (h *HistoryList) Move(delta int) {
	h.cursor = MoveCursor(h.cursor, delta, len(h.entries))
}

// Selected returns the entry under the cursor.
func (h *HistoryList) Selected() (history.Entry, bool) {
	if h.cursor < 0 || h.cursor >= len(h.entries) {
		return history.Entry{}, false
	}
	return h.entries[h.cursor], true
}

// View renders the list in a box of the given size.
func (h *HistoryList) View(width, height int) string {
	width = max(width, 20)
	rows := max(height-4, 1) // border plus title and blank line
	muted := lipgloss.NewStyle().Foreground(h.theme.Muted)
	title := lipgloss.NewStyle().Bold(true).Foreground(h.theme.Accent).Render("History")

	var lines []string
	if len(h.entries) == 0 {
		lines = append(lines, muted.Render("No requests sent yet."))
	} else {
		h.offset = AdjustOffset(h.cursor, h.offset, rows)
		start, end := VisibleRange(h.offset, rows, len(h.entries))
		for i, e := range h.entries[start:end] {
			line := e.Timestamp.Local().Format("15:04:05") + "  " + e.Display()
			line = tui.PadRight(tui.Truncate(line, width-4), width-4)
			switch {
			case start+i == h.cursor:
				line = lipgloss.NewStyle().Background(h.theme.Accent).Foreground(h.theme.Selected).Render(line)
			case e.Failed():
				line = lipgloss.NewStyle().Foreground(h.theme.Error).Render(line)
			}
			lines = append(lines, line)
		}
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(h.theme.Accent).
		Padding(0, 1).
		Width(width - 2).
		Render(title + "\n\n" + strings.Join(lines, "\n"))
}
