package components

import (
	"fmt"
	"strings"

	"github.com/artpar/restui/internal/core"
	httpclient "github.com/artpar/restui/internal/protocol/http"
	"github.com/artpar/restui/internal/tui"
	"github.com/charmbracelet/lipgloss"
)

// RequestTab represents the active tab in the request panel.
type RequestTab int

const (
	TabHeaders RequestTab = iota
	TabQuery
	TabBody
	TabAuth
)

var requestTabNames = []string{"Headers", "Query", "Body", "Auth"}

// RequestPanel shows the request currently open for editing.
type RequestPanel struct {
	tui.BasePanel
	theme     tui.Theme
	request   *core.RequestDefinition
	saved     bool
	activeTab RequestTab
	json      *JSONHighlighter
}

// NewRequestPanel creates a new request panel.
func NewRequestPanel(theme tui.Theme) *RequestPanel {
	return &RequestPanel{
		BasePanel: tui.NewBasePanel("Request"),
		theme:     theme,
		json:      NewJSONHighlighter(),
	}
}

// Request returns the displayed request.
func (p *RequestPanel) Request() *core.RequestDefinition {
	return p.request
}

// SetRequest replaces the displayed request. saved reports whether it is
// backed by a request in a collection.
func (p *RequestPanel) SetRequest(req *core.RequestDefinition, saved bool) {
	p.request = req
	p.saved = saved
}

func (p *RequestPanel) ActiveTab() RequestTab { return p.activeTab }

// NextTab cycles forward through the tabs.
func (p *RequestPanel) NextTab() {
	p.activeTab = RequestTab((int(p.activeTab) + 1) % len(requestTabNames))
}

// PrevTab cycles backward through the tabs.
func (p *RequestPanel) PrevTab() {
	p.activeTab = RequestTab((int(p.activeTab) - 1 + len(requestTabNames)) % len(requestTabNames))
}

// View renders the component.
func (p *RequestPanel) View() string {
	width, height := p.InnerSize()
	muted := lipgloss.NewStyle().Foreground(p.theme.Muted)

	if p.request == nil {
		return tui.RenderPanel(p.theme, p, muted.Render("No request open.\nSelect a request and press enter, or n to create one."))
	}

	url := p.request.URL()
	if url == "" {
		url = muted.Render("(no URL, press u to set one)")
	}
	name := p.request.Name()
	if !p.saved {
		name += lipgloss.NewStyle().Foreground(p.theme.Warning).Render(" [unsaved]")
	}

	lines := []string{
		tui.Truncate(MethodBadge(p.request.Method())+" "+url, width),
		tui.Truncate(name, width),
		p.renderTabBar(),
		"",
	}
	for _, line := range p.renderTab() {
		lines = append(lines, tui.Truncate(line, width))
	}
	if len(lines) > height {
		lines = lines[:height]
	}
	return tui.RenderPanel(p.theme, p, strings.Join(lines, "\n"))
}

func (p *RequestPanel) renderTabBar() string {
	active := lipgloss.NewStyle().Bold(true).Underline(true).Foreground(p.theme.Accent)
	inactive := lipgloss.NewStyle().Foreground(p.theme.Muted)

	tabs := make([]string, len(requestTabNames))
	for i, name := range requestTabNames {
		if RequestTab(i) == p.activeTab {
			tabs[i] = active.Render(name)
		} else {
			tabs[i] = inactive.Render(name)
		}
	}
	return strings.Join(tabs, "  ")
}

func (p *RequestPanel) renderTab() []string {
	muted := lipgloss.NewStyle().Foreground(p.theme.Muted)

	switch p.activeTab {
	case TabHeaders:
		return p.renderRows(p.request.Headers(), "No headers")
	case TabQuery:
		return p.renderRows(p.request.QueryParams(), "No query parameters")
	case TabBody:
		var lines []string
		if !httpclient.HasBody(p.request.Method()) {
			lines = append(lines, muted.Render(fmt.Sprintf("%s requests are sent without a body", p.request.Method())))
		}
		body := p.request.Body()
		switch {
		case body == "":
			lines = append(lines, muted.Render("No body"))
		case IsJSON(body):
			lines = append(lines, p.json.FormatLines(body)...)
		default:
			lines = append(lines, strings.Split(body, "\n")...)
		}
		return lines
	case TabAuth:
		auth := p.request.Auth()
		return []string{
			"Type: " + auth.DisplayName(),
			muted.Render(auth.Summary()),
		}
	}
	return nil
}

func (p *RequestPanel) renderRows(rows []core.KeyValue, empty string) []string {
	muted := lipgloss.NewStyle().Foreground(p.theme.Muted)
	if len(rows) == 0 {
		return []string{muted.Render(empty)}
	}

	lines := make([]string, 0, len(rows))
	for _, kv := range rows {
		line := kv.Key + ": " + kv.Value
		if kv.Enabled {
			lines = append(lines, "✓ "+line)
		} else {
			lines = append(lines, muted.Render("✗ "+line))
		}
	}
	return lines
}
