// Package render formats responses, saved-config diffs and messages for the terminal.
package render

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/charmbracelet/glamour"
)

const minWrapWidth = 40

// indentJSON reports whether input is JSON and, if so, returns it indented
// with its key order preserved.
func indentJSON(input string) (string, bool) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(strings.TrimSpace(input)), "", "  "); err != nil {
		return "", false
	}
	return buf.String(), true
}

// HighlightJSON colours a JSON payload as a fenced block. Anything that is not
// JSON, or that glamour fails on, comes back unchanged.
func HighlightJSON(input string, width int) string {
	pretty, ok := indentJSON(input)
	if !ok {
		return input
	}

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(max(width, minWrapWidth)),
	)
	if err != nil {
		return input
	}
	out, err := renderer.Render("```json\n" + pretty + "\n```")
	if err != nil {
		return input
	}
	return strings.TrimSpace(out)
}
