package render

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/yohi/crfetch/internal/analysis"
)

// RenderResolutionRequest renders the comment posted back to the pull
// request asking the bot to confirm each still-open thread with the resolved
// marker.
func RenderResolutionRequest(threads []analysis.ThreadContext, resolvedMarker string) (string, error) {
	if len(threads) == 0 {
		return "", fmt.Errorf("no unresolved threads to request resolution for")
	}

	raw, err := builtinTemplates.ReadFile("templates/resolution_request.tmpl")
	if err != nil {
		return "", fmt.Errorf("load resolution request template: %w", err)
	}

	tmpl, err := template.New("resolution_request").Parse(string(raw))
	if err != nil {
		return "", fmt.Errorf("parse resolution request template: %w", err)
	}

	data := struct {
		Threads        []analysis.ThreadContext
		ResolvedMarker string
	}{
		Threads:        threads,
		ResolvedMarker: resolvedMarker,
	}

	var sb strings.Builder
	if err := tmpl.Execute(&sb, data); err != nil {
		return "", fmt.Errorf("execute resolution request template: %w", err)
	}
	return sb.String(), nil
}
