package render

import (
	"encoding/json"
	"fmt"

	"github.com/yohi/crfetch/internal/analysis"
)

// JSONRenderer emits the aggregate as indented JSON. Struct field order is
// fixed by the type definitions, so output is stable across runs.
type JSONRenderer struct{}

func (r *JSONRenderer) Render(result *analysis.AnalyzedComments) (string, error) {
	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal analyzed comments: %w", err)
	}
	return string(raw) + "\n", nil
}
