package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/yohi/crfetch/internal/analysis"
)

// MarkdownRenderer renders the aggregate as structured markdown built for
// direct inclusion in an AI agent's context window.
type MarkdownRenderer struct{}

func (r *MarkdownRenderer) Render(result *analysis.AnalyzedComments) (string, error) {
	raw, err := builtinTemplates.ReadFile("templates/analysis_md.tmpl")
	if err != nil {
		return "", fmt.Errorf("load markdown template: %w", err)
	}

	tmpl, err := template.New("analysis_md").Funcs(template.FuncMap{
		"describe": describeFinding,
		"add":      func(a, b int) int { return a + b },
	}).Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse markdown template: %w", err)
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, result); err != nil {
		return "", fmt.Errorf("execute markdown template: %w", err)
	}
	return sb.String(), nil
}
