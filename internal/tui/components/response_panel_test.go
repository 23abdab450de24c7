package components

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/artpar/restui/internal/core"
	httpclient "github.com/artpar/restui/internal/protocol/http"
	"github.com/artpar/restui/internal/tui"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResponsePanel() *ResponsePanel {
	p := NewResponsePanel(tui.ThemeByName("classic"))
	p.SetSize(60, 10)
	return p
}

func jsonResponse() *httpclient.Response {
	return &httpclient.Response{
		StatusCode: 200,
		StatusText: "OK",
		Headers: []core.KeyValue{
			core.NewKeyValue("X-Request-Id", "abc"),
			core.NewKeyValue("Content-Type", "application/json"),
		},
		Body:     `{"id":1}`,
		Duration: 42 * time.Millisecond,
		Size:     8,
	}
}

func TestResponsePanel_States(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		p := newTestResponsePanel()
		assert.Contains(t, ansi.Strip(p.View()), "No response yet")
		assert.Equal(t, FormatText, p.Format())
	})

	t.Run("loading", func(t *testing.T) {
		p := newTestResponsePanel()
		cmd := p.SetLoading(true)
		assert.NotNil(t, cmd)
		assert.True(t, p.IsLoading())
		assert.Contains(t, ansi.Strip(p.View()), "Sending request...")
	})

	t.Run("error clears loading", func(t *testing.T) {
		p := newTestResponsePanel()
		p.SetLoading(true)
		p.SetError(errors.New("connection refused"))
		assert.False(t, p.IsLoading())
		assert.Contains(t, ansi.Strip(p.View()), "Error: connection refused")
	})

	t.Run("response", func(t *testing.T) {
		p := newTestResponsePanel()
		p.SetLoading(true)
		p.SetResponse(jsonResponse())
		require.NotNil(t, p.Response())
		assert.NoError(t, p.Err())

		view := ansi.Strip(p.View())
		assert.Contains(t, view, "200 OK")
		assert.Contains(t, view, "42ms")
		assert.Contains(t, view, "8B")
		assert.Contains(t, view, "Body JSON")
		assert.Contains(t, view, `"id": 1`)
	})

	t.Run("headers view", func(t *testing.T) {
		p := newTestResponsePanel()
		p.SetResponse(jsonResponse())
		p.ToggleHeaders()
		assert.True(t, p.ShowingHeaders())

		view := ansi.Strip(p.View())
		assert.Contains(t, view, "Headers (2)")
		assert.Less(t, strings.Index(view, "Content-Type"), strings.Index(view, "X-Request-Id"))
	})
}

func TestResponsePanel_Update(t *testing.T) {
	t.Run("ignores spinner ticks when idle", func(t *testing.T) {
		p := newTestResponsePanel()
		assert.Nil(t, p.Update(spinner.TickMsg{}))
	})

	t.Run("scrolls long bodies", func(t *testing.T) {
		p := newTestResponsePanel()
		lines := make([]string, 30)
		for i := range lines {
			lines[i] = fmt.Sprintf("line %d", i)
		}
		resp := jsonResponse()
		resp.Headers = nil
		resp.Body = strings.Join(lines, "\n")
		p.SetResponse(resp)

		p.Update(tea.KeyMsg{Type: tea.KeyDown})
		p.Update(tea.KeyMsg{Type: tea.KeyDown})
		assert.Equal(t, 2, p.ScrollOffset())

		p.SetResponse(resp)
		assert.Equal(t, 0, p.ScrollOffset())
	})
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "512B", FormatSize(512))
	assert.Equal(t, "1.5KB", FormatSize(1536))
	assert.Equal(t, "2.0MB", FormatSize(2*1024*1024))
	assert.Equal(t, "250ms", FormatDuration(250*time.Millisecond))
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, " 404 Not Found ", ansi.Strip(StatusBadge(404, "404 Not Found")))
}
