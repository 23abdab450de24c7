package components

import (
	"strings"

	"github.com/artpar/restui/internal/tui"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// DialogKind identifies what a dialog's answer is used for.
type DialogKind int

const (
	DialogNewCollection DialogKind = iota
	DialogNewFolder
	DialogNewRequest
	DialogRename
	DialogEditURL
	DialogConfirmDelete
)

// DialogResult is the state of a dialog after a key press.
type DialogResult int

const (
	DialogPending DialogResult = iota
	DialogSubmitted
	DialogCancelled
)

// Dialog is a modal prompt: a single text input, or a y/n confirmation.
type Dialog struct {
	kind    DialogKind
	title   string
	prompt  string
	confirm bool
	input   textinput.Model
	theme   tui.Theme
}

// NewInputDialog creates a text prompt prefilled with value.
func NewInputDialog(kind DialogKind, title, value string, theme tui.Theme) *Dialog {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()

	return &Dialog{kind: kind, title: title, input: ti, theme: theme}
}

// NewConfirmDialog creates a y/n prompt.
func NewConfirmDialog(kind DialogKind, title, prompt string, theme tui.Theme) *Dialog {
	return &Dialog{kind: kind, title: title, prompt: prompt, confirm: true, theme: theme}
}

func (d *Dialog) Kind() DialogKind  { return d.kind }
func (d *Dialog) Title() string     { return d.title }
func (d *Dialog) IsConfirm() bool   { return d.confirm }
func (d *Dialog) Value() string     { return strings.TrimSpace(d.input.Value()) }
func (d *Dialog) SetValue(s string) { d.input.SetValue(s) }
func (d *Dialog) InitCmd() tea.Cmd  { return textinput.Blink }
func (d *Dialog) Prompt() string    { return d.prompt }

// Update feeds msg to the dialog and reports whether it was answered.
func (d *Dialog) Update(msg tea.Msg) (DialogResult, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		if d.confirm {
			return DialogPending, nil
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(msg)
		return DialogPending, cmd
	}

	if d.confirm {
		switch keyMsg.String() {
		case "y", "Y":
			return DialogSubmitted, nil
		case "n", "N", "esc", "q":
			return DialogCancelled, nil
		}
		return DialogPending, nil
	}

	switch keyMsg.Type {
	case tea.KeyEnter:
		return DialogSubmitted, nil
	case tea.KeyEsc:
		return DialogCancelled, nil
	}
	var cmd tea.Cmd
	d.input, cmd = d.input.Update(msg)
	return DialogPending, cmd
}

// View renders the dialog box at the given width.
func (d *Dialog) View(width int) string {
	width = max(width, 20)
	title := lipgloss.NewStyle().Bold(true).Foreground(d.theme.Accent).Render(d.title)
	hint := lipgloss.NewStyle().Foreground(d.theme.Muted)

	var body string
	if d.confirm {
		body = d.prompt + "\n\n" + hint.Render("y confirm · n cancel")
	} else {
		d.input.Width = width - 8
		body = d.input.View() + "\n\n" + hint.Render("enter confirm · esc cancel")
	}

	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(d.theme.Accent).
		Padding(0, 1).
		Width(width - 2).
		Render(title + "\n\n" + body)
}
