package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/blackcoderx/ferrapi/pkg/storage"
	"github.com/blackcoderx/ferrapi/pkg/transport"
)

// Options control response rendering.
type Options struct {
	// Plain disables colors and JSON highlighting.
	Plain bool
	// Headers includes response headers in the output.
	Headers bool
	Width   int
}

// Response renders the status line, optional headers and the body.
func Response(resp *transport.Response, opts Options) string {
	if opts.Plain {
		if opts.Headers {
			return resp.FormatResponse()
		}
		return fmt.Sprintf("Response Status: %s\nResponse Body:\n%s", resp.Status, resp.Body)
	}

	var sb strings.Builder
	sb.WriteString(StatusStyle(resp.StatusCode).Render(resp.Status))
	sb.WriteString(DimStyle.Render(fmt.Sprintf(" (%dms)", resp.Duration.Milliseconds())))
	sb.WriteString("\n")

	if opts.Headers {
		keys := make([]string, 0, len(resp.Headers))
		for k := range resp.Headers {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(AccentStyle.Render(k) + ": " + resp.Headers[k] + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(HighlightJSON(string(resp.Body), opts.Width))
	return sb.String()
}

// Descriptor renders a request descriptor for --dry-run.
func Descriptor(d *storage.RequestDescriptor) string {
	var sb strings.Builder
	url := d.URL
	if url == "" {
		url = "(no url)"
	}
	sb.WriteString(fmt.Sprintf("%s %s\n", d.Method, url))

	keys := make([]string, 0, len(d.Headers))
	for k := range d.Headers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		sb.WriteString(fmt.Sprintf("%s: %s\n", k, d.Headers[k]))
	}

	if d.Timeout > 0 {
		sb.WriteString(fmt.Sprintf("timeout: %s\n", d.Timeout))
	}
	if !d.Body.IsZero() {
		sb.WriteString("\n")
		sb.Write(d.Body.Bytes())
		sb.WriteString("\n")
	}
	return sb.String()
}
