// Package render turns an analyzed comment aggregate into AI-consumable
// output in several formats.
package render

import (
	"embed"
	"fmt"
	"strings"

	"github.com/yohi/crfetch/internal/analysis"
)

// Supported output format names.
const (
	FormatMarkdown  = "markdown"
	FormatJSON      = "json"
	FormatPlainText = "plain"
)

//go:embed templates/*.tmpl
var builtinTemplates embed.FS

// Renderer renders one analyzed aggregate into a string. Renderers never
// mutate the aggregate; it is shared read-only state.
type Renderer interface {
	Render(result *analysis.AnalyzedComments) (string, error)
}

// ForFormat returns the renderer registered under the given format name.
func ForFormat(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case FormatMarkdown, "md", "":
		return &MarkdownRenderer{}, nil
	case FormatJSON:
		return &JSONRenderer{}, nil
	case FormatPlainText, "plaintext", "text":
		return &PlainTextRenderer{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want %s, %s or %s)",
		name, FormatMarkdown, FormatJSON, FormatPlainText)
}

// describeFinding synthesizes an AI-readable instruction for a finding the
// bot shipped without a prompt block, phrased the way the bot's own prompts
// are.
func describeFinding(f analysis.Finding) string {
	desc := strings.TrimSpace(f.Description)
	if desc == "" {
		desc = "address the review finding at this location"
	}
	if f.FilePath == "" {
		return desc
	}
	if f.LineRange.Start == f.LineRange.End {
		return fmt.Sprintf("In %s at line %s, %s", f.FilePath, f.LineRange, desc)
	}
	return fmt.Sprintf("In %s around lines %s, %s", f.FilePath, f.LineRange, desc)
}
