package components

import (
	"fmt"
	"slices"
	"strings"
	"time"

	httpclient "github.com/artpar/restui/internal/protocol/http"
	"github.com/artpar/restui/internal/tui"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ResponsePanel shows the outcome of the last send. The body scrolls inside a
// viewport; a spinner runs while a request is in flight.
type ResponsePanel struct {
	tui.BasePanel
	theme       tui.Theme
	viewport    viewport.Model
	spinner     spinner.Model
	response    *httpclient.Response
	err         error
	loading     bool
	showHeaders bool
	json        *JSONHighlighter
}

// NewResponsePanel creates a new response panel.
func NewResponsePanel(theme tui.Theme) *ResponsePanel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Warning)

	return &ResponsePanel{
		BasePanel: tui.NewBasePanel("Response"),
		theme:     theme,
		viewport:  viewport.New(0, 0),
		spinner:   sp,
		json:      NewJSONHighlighter(),
	}
}

// SetSize resizes the panel and its viewport.
func (p *ResponsePanel) SetSize(width, height int) {
	p.BasePanel.SetSize(width, height)
	w, h := p.InnerSize()
	p.viewport.Width = w
	p.viewport.Height = max(h-2, 1) // status line and separator
	p.refresh()
}

func (p *ResponsePanel) Response() *httpclient.Response { return p.response }
func (p *ResponsePanel) Err() error                     { return p.err }
func (p *ResponsePanel) IsLoading() bool                { return p.loading }
func (p *ResponsePanel) ShowingHeaders() bool           { return p.showHeaders }

// SetLoading marks a request as in flight and returns the command that
// drives the spinner.
func (p *ResponsePanel) SetLoading(loading bool) tea.Cmd {
	p.loading = loading
	if loading {
		p.err = nil
		return p.spinner.Tick
	}
	return nil
}

// SetResponse shows resp and resets the scroll position.
func (p *ResponsePanel) SetResponse(resp *httpclient.Response) {
	p.loading = false
	p.err = nil
	p.response = resp
	p.refresh()
	p.viewport.GotoTop()
}

// SetError shows a failed send.
func (p *ResponsePanel) SetError(err error) {
	p.loading = false
	p.err = err
	p.response = nil
	p.refresh()
}

// ToggleHeaders switches between the body and the header list.
func (p *ResponsePanel) ToggleHeaders() {
	p.showHeaders = !p.showHeaders
	p.refresh()
	p.viewport.GotoTop()
}

// Update advances the spinner and scrolls the viewport.
func (p *ResponsePanel) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !p.loading {
			return nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return cmd
	case tea.KeyMsg, tea.MouseMsg:
		if p.response == nil {
			return nil
		}
		var cmd tea.Cmd
		p.viewport, cmd = p.viewport.Update(msg)
		return cmd
	}
	return nil
}

// Format returns the detected body format, or FormatText with no response.
func (p *ResponsePanel) Format() ContentFormat {
	if p.response == nil {
		return FormatText
	}
	return DetectContentFormat(p.response.Header("Content-Type"), p.response.Body)
}

// ScrollOffset returns the first visible line of the body.
func (p *ResponsePanel) ScrollOffset() int {
	return p.viewport.YOffset
}

func (p *ResponsePanel) refresh() {
	if p.response == nil {
		p.viewport.SetContent("")
		return
	}
	var lines []string
	if p.showHeaders {
		lines = p.headerLines()
	} else {
		lines = p.bodyLines()
	}
	p.viewport.SetContent(strings.Join(lines, "\n"))
}

func (p *ResponsePanel) bodyLines() []string {
	body := p.response.Body
	if body == "" {
		return []string{lipgloss.NewStyle().Foreground(p.theme.Muted).Render("Empty body")}
	}
	if p.Format() == FormatJSON {
		return p.json.FormatLines(body)
	}
	return strings.Split(body, "\n")
}

func (p *ResponsePanel) headerLines() []string {
	keyStyle := lipgloss.NewStyle().Foreground(p.theme.Accent)
	lines := make([]string, 0, len(p.response.Headers))
	for _, h := range p.response.Headers {
		lines = append(lines, keyStyle.Render(h.Key)+": "+h.Value)
	}
	slices.Sort(lines)
	return lines
}

// View renders the component.
func (p *ResponsePanel) View() string {
	width, _ := p.InnerSize()
	muted := lipgloss.NewStyle().Foreground(p.theme.Muted)

	switch {
	case p.loading:
		return tui.RenderPanel(p.theme, p, p.spinner.View()+" Sending request...")
	case p.err != nil:
		msg := lipgloss.NewStyle().Foreground(p.theme.Error).Render("Error: " + p.err.Error())
		return tui.RenderPanel(p.theme, p, msg)
	case p.response == nil:
		return tui.RenderPanel(p.theme, p, muted.Render("No response yet. Press s to send."))
	}

	separator := muted.Render(strings.Repeat("─", width))
	content := tui.Truncate(p.renderStatusLine(), width) + "\n" + separator + "\n" + p.viewport.View()
	return tui.RenderPanel(p.theme, p, content)
}

func (p *ResponsePanel) renderStatusLine() string {
	resp := p.response
	view := "Body " + p.Format().Upper()
	if p.showHeaders {
		view = fmt.Sprintf("Headers (%d)", len(resp.Headers))
	}
	return fmt.Sprintf("%s  %s  %s  %s",
		StatusBadge(resp.StatusCode, resp.Status()),
		FormatDuration(resp.Duration),
		FormatSize(resp.Size),
		lipgloss.NewStyle().Foreground(p.theme.Muted).Render(view))
}

// StatusBadge renders the status colored by its class.
func StatusBadge(code int, status string) string {
	style := lipgloss.NewStyle().Bold(true).Padding(0, 1)

	switch {
	case code >= 200 && code < 300:
		style = style.Background(lipgloss.Color("34")).Foreground(lipgloss.Color("255"))
	case code >= 300 && code < 400:
		style = style.Background(lipgloss.Color("214")).Foreground(lipgloss.Color("0"))
	case code >= 400 && code < 500:
		style = style.Background(lipgloss.Color("208")).Foreground(lipgloss.Color("255"))
	case code >= 500:
		style = style.Background(lipgloss.Color("160")).Foreground(lipgloss.Color("255"))
	default:
		style = style.Background(lipgloss.Color("240"))
	}
	return style.Render(status)
}

// FormatSize renders a byte count as B, KB or MB.
func FormatSize(bytes int) string {
	switch {
	case bytes < 1024:
		return fmt.Sprintf("%dB", bytes)
	case bytes < 1024*1024:
		return fmt.Sprintf("%.1fKB", float64(bytes)/1024)
	default:
		return fmt.Sprintf("%.1fMB", float64(bytes)/(1024*1024))
	}
}

// FormatDuration renders a duration in ms, or seconds above one second.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}
