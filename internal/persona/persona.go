// Package persona loads and concatenates persona text prepended to rendered
// output so an AI agent receives its role framing together with the review
// data.
package persona

import (
	"fmt"
	"os"
	"strings"
)

// Default is the built-in persona used when no persona files are supplied.
const Default = `You are an experienced software engineer working through code review
feedback. Address each actionable finding, apply the AI agent prompts
verbatim where provided, and reply to unresolved review threads once the
underlying issue is fixed.`

// Load concatenates the contents of the given persona files in order,
// separated by blank lines. With no paths it returns the built-in default.
func Load(paths []string) (string, error) {
	if len(paths) == 0 {
		return Default, nil
	}

	parts := make([]string, 0, len(paths))
	for _, path := range paths {
		raw, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read persona file %q: %w", path, err)
		}
		text := strings.TrimSpace(string(raw))
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	if len(parts) == 0 {
		return Default, nil
	}
	return strings.Join(parts, "\n\n"), nil
}
