package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONHighlighter_Highlight(t *testing.T) {
	h := NewJSONHighlighter()

	inputs := map[string]string{
		"simple object":    `{"name": "test"}`,
		"numbers":          `{"count": -42, "ratio": 1.5e3}`,
		"literals":         `{"enabled": true, "disabled": false, "value": null}`,
		"escaped quote":    `{"quote": "say \"hi\""}`,
		"nested array":     `[{"a": [1, 2]}]`,
		"unterminated":     `{"broken": "abc`,
		"plain text":       `not json at all`,
		"indented line":    `    "key": "value",`,
		"unicode contents": `{"emoji": "héllo wörld"}`,
	}
	for name, input := range inputs {
		t.Run("preserves text of "+name, func(t *testing.T) {
			assert.Equal(t, input, ansi.Strip(h.Highlight(input)))
		})
	}

	t.Run("empty input", func(t *testing.T) {
		assert.Empty(t, h.Highlight(""))
	})

	t.Run("keeps line structure", func(t *testing.T) {
		input := "{\n  \"a\": 1,\n\n  \"b\": 2\n}"
		lines := h.HighlightLines(input)
		require.Len(t, lines, 5)
		assert.Equal(t, "", lines[2])
		assert.Equal(t, `  "a": 1,`, ansi.Strip(lines[1]))
	})
}

func TestJSONHighlighter_FormatLines(t *testing.T) {
	h := NewJSONHighlighter()

	t.Run("pretty prints valid JSON", func(t *testing.T) {
		lines := h.FormatLines(`{"a":1,"b":[true]}`)
		plain := make([]string, len(lines))
		for i, l := range lines {
			plain[i] = ansi.Strip(l)
		}
		assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": [\n    true\n  ]\n}", strings.Join(plain, "\n"))
	})

	t.Run("leaves invalid JSON as is", func(t *testing.T) {
		lines := h.FormatLines(`{"a":`)
		require.Len(t, lines, 1)
		assert.Equal(t, `{"a":`, ansi.Strip(lines[0]))
	})
}

func TestIsJSON(t *testing.T) {
	assert.True(t, IsJSON(`{"a":1}`))
	assert.True(t, IsJSON("  \n[1,2]"))
	assert.False(t, IsJSON("hello"))
	assert.False(t, IsJSON("   "))
}

func TestStringEnd(t *testing.T) {
	chars := []rune(`"a\"b" rest`)
	assert.Equal(t, 6, stringEnd(chars, 0))
	assert.Equal(t, 3, stringEnd([]rune(`"ab`), 0))
}
