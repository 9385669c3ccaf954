package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/yuin/goldmark"
)

// CleanMarkdown strips an outer wrapping code fence from model output. Models
// sometimes return the whole report inside ```markdown fences even when told
// not to; the saved file should be pure markdown.
func CleanMarkdown(input string) string {
	cleaned := strings.TrimSpace(input)
	switch {
	case strings.HasPrefix(cleaned, "```markdown") && strings.HasSuffix(cleaned, "```"):
		cleaned = strings.TrimPrefix(cleaned, "```markdown")
	case strings.HasPrefix(cleaned, "```") && strings.HasSuffix(cleaned, "```"):
		cleaned = strings.TrimPrefix(cleaned, "```")
	default:
		return cleaned
	}
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}

// Save writes the report to path as UTF-8. A .html target is rendered from
// markdown first; anything else is written verbatim.
func Save(path, text string) error {
	if strings.EqualFold(filepath.Ext(path), ".html") {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(text), &buf); err != nil {
			return fmt.Errorf("render html: %w", err)
		}
		return os.WriteFile(path, buf.Bytes(), 0o644)
	}
	return os.WriteFile(path, []byte(text), 0o644)
}
