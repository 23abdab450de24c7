package components

import (
	"bytes"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/goccy/go-json"
)

// JSONHighlighter colors JSON response bodies line by line.
type JSONHighlighter struct {
	keyStyle     lipgloss.Style
	stringStyle  lipgloss.Style
	numberStyle  lipgloss.Style
	literalStyle lipgloss.Style
	punctStyle   lipgloss.Style
}

// NewJSONHighlighter creates a highlighter with the default palette.
func NewJSONHighlighter() *JSONHighlighter {
	return &JSONHighlighter{
		keyStyle:     lipgloss.NewStyle().Foreground(lipgloss.Color("141")),
		stringStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		numberStyle:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		literalStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("33")),
		punctStyle:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	}
}

// Highlight colors every line of content.
func (h *JSONHighlighter) Highlight(content string) string {
	return strings.Join(h.HighlightLines(content), "\n")
}

// HighlightLines colors content and returns it split into lines.
func (h *JSONHighlighter) HighlightLines(content string) []string {
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = h.highlightLine(line)
	}
	return lines
}

// FormatLines pretty-prints valid JSON before highlighting it.
func (h *JSONHighlighter) FormatLines(content string) []string {
	var out bytes.Buffer
	if err := json.Indent(&out, []byte(content), "", "  "); err == nil {
		content = out.String()
	}
	return h.HighlightLines(content)
}

func (h *JSONHighlighter) highlightLine(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if trimmed == "" {
		return line
	}

	var sb strings.Builder
	sb.WriteString(line[:len(line)-len(trimmed)])

	chars := []rune(trimmed)
	for i := 0; i < len(chars); {
		ch := chars[i]
		switch {
		case ch == '"':
			end := stringEnd(chars, i)
			str := string(chars[i:end])
			if nextNonSpace(chars, end) == ':' {
				sb.WriteString(h.keyStyle.Render(str))
			} else {
				sb.WriteString(h.stringStyle.Render(str))
			}
			i = end
		case strings.ContainsRune("{}[]:,", ch):
			sb.WriteString(h.punctStyle.Render(string(ch)))
			i++
		case ch == '-' || (ch >= '0' && ch <= '9'):
			end := i + 1
			for end < len(chars) && strings.ContainsRune("0123456789.eE+-", chars[end]) {
				end++
			}
			sb.WriteString(h.numberStyle.Render(string(chars[i:end])))
			i = end
		case ch == 't' || ch == 'f' || ch == 'n':
			end := i
			for end < len(chars) && chars[end] >= 'a' && chars[end] <= 'z' {
				end++
			}
			word := string(chars[i:end])
			if word == "true" || word == "false" || word == "null" {
				sb.WriteString(h.literalStyle.Render(word))
			} else {
				sb.WriteString(word)
			}
			i = end
		default:
			sb.WriteRune(ch)
			i++
		}
	}
	return sb.String()
}

// stringEnd returns the index just past the closing quote of the string
// starting at start, honoring backslash escapes.
func stringEnd(chars []rune, start int) int {
	for i := start + 1; i < len(chars); i++ {
		switch chars[i] {
		case '\\':
			i++
		case '"':
			return i + 1
		}
	}
	return len(chars)
}

func nextNonSpace(chars []rune, from int) rune {
	for i := from; i < len(chars); i++ {
		if chars[i] != ' ' && chars[i] != '\t' {
			return chars[i]
		}
	}
	return 0
}

// IsJSON reports whether content looks like a JSON object or array.
func IsJSON(content string) bool {
	trimmed := strings.TrimSpace(content)
	return trimmed != "" && (trimmed[0] == '{' || trimmed[0] == '[')
}
