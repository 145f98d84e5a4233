package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const reviewBody = "**Actionable comments posted: 2**\n" +
	"\n" +
	"<details>\n" +
	"<summary>internal/server/handler.go (2)</summary>\n" +
	"\n" +
	"`42-48`: **Validate the request body before use.**\n" +
	"\n" +
	"The handler dereferences req before checking the decode error.\n" +
	"\n" +
	"<details>\n" +
	"<summary>🤖 Prompt for AI Agents</summary>\n" +
	"\n" +
	"```\n" +
	"In internal/server/handler.go around lines 42 to 48, move the error\n" +
	"check above the first use of req.\n" +
	"-    use(req)\n" +
	"+    if err != nil { return err }\n" +
	"```\n" +
	"\n" +
	"</details>\n" +
	"\n" +
	"`77`: **Consider logging the failure path.**\n" +
	"\n" +
	"</details>\n"

func TestSegmentBodyNoMarkers(t *testing.T) {
	body := "Just a passing remark with no structure at all.\n"
	segments := SegmentBody(body, DefaultMarkers())

	require.Len(t, segments, 1)
	assert.Equal(t, SegmentNarrative, segments[0].Kind)
	assert.Equal(t, body, segments[0].RawText)
}

func TestSegmentBodyEmpty(t *testing.T) {
	assert.Nil(t, SegmentBody("", DefaultMarkers()))
}

func TestSegmentBodyTilesSource(t *testing.T) {
	segments := SegmentBody(reviewBody, DefaultMarkers())
	require.NotEmpty(t, segments)

	// Every RawText must be a contiguous substring and the spans must appear
	// in source order.
	offset := 0
	for _, seg := range segments {
		idx := strings.Index(reviewBody[offset:], seg.RawText)
		require.GreaterOrEqual(t, idx, 0, "segment raw text not found in source after offset %d", offset)
		offset += idx + len(seg.RawText)
	}
}

func TestSegmentBodyReview(t *testing.T) {
	segments := SegmentBody(reviewBody, DefaultMarkers())

	var kinds []SegmentKind
	for _, seg := range segments {
		kinds = append(kinds, seg.Kind)
	}
	require.Equal(t, []SegmentKind{SegmentActionable, SegmentAIAgentPrompt, SegmentActionable}, kinds)

	assert.Equal(t, 2, segments[0].ActionableCount)
	require.Len(t, segments[0].Findings, 1)

	first := segments[0].Findings[0]
	assert.Equal(t, "internal/server/handler.go", first.FilePath)
	assert.Equal(t, LineRange{Start: 42, End: 48}, first.LineRange)
	assert.Contains(t, first.Description, "Validate the request body before use.")
	assert.Contains(t, first.Description, "dereferences req")

	require.Len(t, segments[2].Findings, 1)
	second := segments[2].Findings[0]
	assert.Equal(t, "internal/server/handler.go", second.FilePath)
	assert.Equal(t, LineRange{Start: 77, End: 77}, second.LineRange)
	assert.Nil(t, second.AIAgentPrompt)
}

func TestSegmentBodyPromptVerbatim(t *testing.T) {
	segments := SegmentBody(reviewBody, DefaultMarkers())

	require.Len(t, segments, 3)
	prompt := segments[1].Prompt
	require.NotNil(t, prompt)

	want := "In internal/server/handler.go around lines 42 to 48, move the error\n" +
		"check above the first use of req.\n" +
		"-    use(req)\n" +
		"+    if err != nil { return err }\n"
	assert.Equal(t, want, prompt.Content, "diff markers and whitespace must survive byte-for-byte")

	// And the prompt is attached to the finding that precedes it.
	require.Len(t, segments[0].Findings, 1)
	require.NotNil(t, segments[0].Findings[0].AIAgentPrompt)
	assert.Equal(t, want, segments[0].Findings[0].AIAgentPrompt.Content)
}

func TestSegmentBodySummary(t *testing.T) {
	body := "## Summary by CodeRabbit\n" +
		"\n" +
		"- **New Features**\n" +
		"  - Added rate limiting to the public API.\n" +
		"  - Request IDs are now attached to every response.\n" +
		"- **Tests**\n" +
		"  - Added coverage for the rate limiter.\n"

	segments := SegmentBody(body, DefaultMarkers())
	require.Len(t, segments, 1)
	require.Equal(t, SegmentSummary, segments[0].Kind)
	require.NotNil(t, segments[0].Summary)

	fields := segments[0].Summary
	assert.Equal(t, []string{
		"Added rate limiting to the public API.",
		"Request IDs are now attached to every response.",
	}, fields.NewFeatures)
	assert.Equal(t, []string{"Added coverage for the rate limiter."}, fields.TestChanges)
	assert.Empty(t, fields.DocumentationChanges)
}

func TestSegmentBodySummaryHeadingStyle(t *testing.T) {
	body := "## Summary by CodeRabbit\n" +
		"\n" +
		"## New Features\n" +
		"- Webhook retries with exponential backoff.\n" +
		"\n" +
		"## Walkthrough\n" +
		"\n" +
		"The change reworks the retry loop.\n" +
		"\n" +
		"## Changes\n" +
		"\n" +
		"| File | Summary |\n" +
		"|------|---------|\n" +
		"| a.go | reworked |\n"

	segments := SegmentBody(body, DefaultMarkers())
	require.Len(t, segments, 1)
	fields := segments[0].Summary
	require.NotNil(t, fields)
	assert.Equal(t, []string{"Webhook retries with exponential backoff."}, fields.NewFeatures)
	assert.Equal(t, "The change reworks the retry loop.", fields.Walkthrough)
	assert.Equal(t, "| File | Summary |\n|------|---------|\n| a.go | reworked |", fields.ChangesTable)
}

func TestSegmentBodyMarkerInsideFenceIgnored(t *testing.T) {
	body := "Some narrative.\n" +
		"\n" +
		"```\n" +
		"## Summary by CodeRabbit\n" +
		"Actionable comments posted: 9\n" +
		"```\n" +
		"\n" +
		"More narrative.\n"

	segments := SegmentBody(body, DefaultMarkers())
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentNarrative, segments[0].Kind)
	assert.Equal(t, body, segments[0].RawText)
}

func TestSegmentBodyNitpickSection(t *testing.T) {
	body := "**Actionable comments posted: 0**\n" +
		"\n" +
		"<details>\n" +
		"<summary>🧹 Nitpick comments (2)</summary>\n" +
		"\n" +
		"<details>\n" +
		"<summary>cmd/crfetch/main.go (1)</summary>\n" +
		"\n" +
		"`541-545`: **Prefer early return here.**\n" +
		"\n" +
		"</details>\n" +
		"<details>\n" +
		"<summary>internal/render/plain.go (1)</summary>\n" +
		"\n" +
		"`823`: **Typo in the doc comment.**\n" +
		"\n" +
		"</details>\n" +
		"\n" +
		"</details>\n"

	segments := SegmentBody(body, DefaultMarkers())
	require.Len(t, segments, 2)
	assert.Equal(t, SegmentActionable, segments[0].Kind)
	assert.Equal(t, 0, segments[0].ActionableCount)

	require.Equal(t, SegmentNitpick, segments[1].Kind)
	require.Len(t, segments[1].Findings, 2)
	assert.Equal(t, "cmd/crfetch/main.go", segments[1].Findings[0].FilePath)
	assert.Equal(t, "541-545", segments[1].Findings[0].LineRange.String())
	assert.Equal(t, "internal/render/plain.go", segments[1].Findings[1].FilePath)
	assert.Equal(t, "823", segments[1].Findings[1].LineRange.String())
}

func TestSegmentBodyOutsideDiffSection(t *testing.T) {
	body := "**Actionable comments posted: 1**\n" +
		"\n" +
		"<details>\n" +
		"<summary>⚠️ Outside diff range comments (1)</summary>\n" +
		"\n" +
		"<details>\n" +
		"<summary>internal/cli/root.go (1)</summary>\n" +
		"\n" +
		"`12-20`: **The logger is rebuilt twice on startup.**\n" +
		"\n" +
		"</details>\n" +
		"\n" +
		"</details>\n"

	segments := SegmentBody(body, DefaultMarkers())
	require.Len(t, segments, 2)
	require.Equal(t, SegmentOutsideDiff, segments[1].Kind)
	require.Len(t, segments[1].Findings, 1)
	assert.Equal(t, "internal/cli/root.go", segments[1].Findings[0].FilePath)
}

func TestSegmentBodyTrailingNarrativeKept(t *testing.T) {
	body := "**Actionable comments posted: 0**\n" +
		"\n" +
		"Some closing remark the bot added afterwards.\n"

	segments := SegmentBody(body, DefaultMarkers())
	// The trailing remark has no marker of its own; it stays inside the
	// actionable segment's span rather than being dropped.
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentActionable, segments[0].Kind)
	assert.Contains(t, segments[0].RawText, "Some closing remark")
}

func TestSegmentBodyLeadingNarrativeKept(t *testing.T) {
	body := "A human-readable preamble.\n" +
		"\n" +
		"## Summary by CodeRabbit\n" +
		"\n" +
		"- **New Features**\n" +
		"  - Something new.\n"

	segments := SegmentBody(body, DefaultMarkers())
	require.Len(t, segments, 2)
	assert.Equal(t, SegmentNarrative, segments[0].Kind)
	assert.Equal(t, "A human-readable preamble.\n\n", segments[0].RawText)
	assert.Equal(t, SegmentSummary, segments[1].Kind)
}

func TestParseActionableCount(t *testing.T) {
	table := DefaultMarkers()
	tests := []struct {
		name string
		text string
		want int
	}{
		{name: "plain", text: "Actionable comments posted: 4", want: 4},
		{name: "bold", text: "**Actionable comments posted: 12**", want: 12},
		{name: "case insensitive", text: "actionable comments posted: 3", want: 3},
		{name: "missing number", text: "Actionable comments posted: none", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseActionableCount(tt.text, table))
		})
	}
}

func TestCustomMarkerTable(t *testing.T) {
	table := DefaultMarkers()
	table.SummaryHeading = "Review digest"

	body := "## Review digest\n\n- **New Features**\n  - A thing.\n"
	segments := SegmentBody(body, table)
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentSummary, segments[0].Kind)

	// The default heading no longer matches.
	segments = SegmentBody("## Summary by CodeRabbit\n\ntext\n", table)
	require.Len(t, segments, 1)
	assert.Equal(t, SegmentNarrative, segments[0].Kind)
}
