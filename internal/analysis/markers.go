package analysis

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// MarkerTable is the vocabulary the segmenter matches against. CodeRabbit's
// output format has no published grammar and drifts between bot versions, so
// the markers are data, not constants: a format change is an update to this
// table, not to the algorithm.
type MarkerTable struct {
	// SummaryHeading opens a summary segment.
	SummaryHeading string `yaml:"summaryHeading"`
	// ActionablePhrase opens a review segment; the integer after it is the
	// bot's own actionable count.
	ActionablePhrase string `yaml:"actionablePhrase"`
	// NitpickHeader opens a nitpick findings section.
	NitpickHeader string `yaml:"nitpickHeader"`
	// OutsideDiffHeader opens an outside-diff-range findings section.
	OutsideDiffHeader string `yaml:"outsideDiffHeader"`
	// AIAgentPromptHeader opens a verbatim prompt block for AI agents.
	AIAgentPromptHeader string `yaml:"aiAgentPromptHeader"`
	// ResolvedMarker, present in the bot's latest thread reply, marks the
	// thread settled. Matched as a literal substring, never as a pattern.
	ResolvedMarker string `yaml:"resolvedMarker"`
	// WalkthroughHeading, ChangesHeading and SequenceDiagramHeading carve up
	// the walkthrough part of a summary comment.
	WalkthroughHeading     string `yaml:"walkthroughHeading"`
	ChangesHeading         string `yaml:"changesHeading"`
	SequenceDiagramHeading string `yaml:"sequenceDiagramHeading"`
	// NewFeaturesHeading, DocumentationHeading and TestsHeading are the
	// summary subsection titles.
	NewFeaturesHeading   string `yaml:"newFeaturesHeading"`
	DocumentationHeading string `yaml:"documentationHeading"`
	TestsHeading         string `yaml:"testsHeading"`
}

// DefaultMarkers returns the marker vocabulary of the current CodeRabbit
// output format.
func DefaultMarkers() MarkerTable {
	return MarkerTable{
		SummaryHeading:         "Summary by CodeRabbit",
		ActionablePhrase:       "Actionable comments posted:",
		NitpickHeader:          "Nitpick comments",
		OutsideDiffHeader:      "Outside diff range comments",
		AIAgentPromptHeader:    "Prompt for AI Agents",
		ResolvedMarker:         "🔒 CODERABBIT_RESOLVED 🔒",
		WalkthroughHeading:     "Walkthrough",
		ChangesHeading:         "Changes",
		SequenceDiagramHeading: "Sequence Diagram",
		NewFeaturesHeading:     "New Features",
		DocumentationHeading:   "Documentation",
		TestsHeading:           "Tests",
	}
}

// LoadMarkerTable reads marker overrides from a YAML file and merges them
// over the defaults. Unset keys keep their default value, so a table file
// only needs to list the markers that changed.
func LoadMarkerTable(path string) (MarkerTable, error) {
	table := DefaultMarkers()

	raw, err := os.ReadFile(path)
	if err != nil {
		return table, fmt.Errorf("read marker table %q: %w", path, err)
	}

	var overrides MarkerTable
	if err := yaml.Unmarshal(raw, &overrides); err != nil {
		return table, fmt.Errorf("parse marker table %q: %w", path, err)
	}

	merge := func(dst *string, src string) {
		if strings.TrimSpace(src) != "" {
			*dst = src
		}
	}
	merge(&table.SummaryHeading, overrides.SummaryHeading)
	merge(&table.ActionablePhrase, overrides.ActionablePhrase)
	merge(&table.NitpickHeader, overrides.NitpickHeader)
	merge(&table.OutsideDiffHeader, overrides.OutsideDiffHeader)
	merge(&table.AIAgentPromptHeader, overrides.AIAgentPromptHeader)
	merge(&table.ResolvedMarker, overrides.ResolvedMarker)
	merge(&table.WalkthroughHeading, overrides.WalkthroughHeading)
	merge(&table.ChangesHeading, overrides.ChangesHeading)
	merge(&table.SequenceDiagramHeading, overrides.SequenceDiagramHeading)
	merge(&table.NewFeaturesHeading, overrides.NewFeaturesHeading)
	merge(&table.DocumentationHeading, overrides.DocumentationHeading)
	merge(&table.TestsHeading, overrides.TestsHeading)

	return table, nil
}
