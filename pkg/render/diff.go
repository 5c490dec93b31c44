package render

import (
	"fmt"
	"strings"

	"github.com/aymanbagabas/go-udiff"
)

// UnifiedDiff returns a unified diff with 3 lines of context between the original and
// modified contents of filename. Identical contents produce an empty string.
func UnifiedDiff(filename, original, modified string) (string, error) {
	if original == modified {
		return "", nil
	}

	edits := udiff.Strings(original, modified)
	unified, err := udiff.ToUnified("a/"+filename, "b/"+filename, original, edits, 3)
	if err != nil {
		return "", fmt.Errorf("failed to generate diff: %w", err)
	}
	return unified, nil
}

// ColorDiff styles added and removed lines of a unified diff.
func ColorDiff(diff string) string {
	lines := strings.Split(diff, "\n")
	for i, line := range lines {
		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			lines[i] = DimStyle.Render(line)
		case strings.HasPrefix(line, "+"):
			lines[i] = AddedStyle.Render(line)
		case strings.HasPrefix(line, "-"):
			lines[i] = RemovedStyle.Render(line)
		case strings.HasPrefix(line, "@@"):
			lines[i] = AccentStyle.Render(line)
		}
	}
	return strings.Join(lines, "\n")
}
