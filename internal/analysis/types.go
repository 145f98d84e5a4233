// Package analysis converts raw CodeRabbit review comments into a structured,
// queryable model suitable for rendering to AI agents.
package analysis

import (
	"strconv"
	"time"
)

// RawComment is the uniform internal record produced by the normalizer.
// It is immutable once built; every downstream component reads it as-is.
type RawComment struct {
	// ID is the transport-level comment identifier.
	ID string
	// Author is the login of the comment author.
	Author string
	// Body is the raw markdown body, unmodified.
	Body string
	// CreatedAt is the comment creation time.
	CreatedAt time.Time
	// ThreadID identifies the review thread; empty for top-level comments.
	ThreadID string
	// InReplyTo is the ID of the parent comment within a thread, empty for
	// the thread's first comment.
	InReplyTo string
}

// SegmentKind identifies the semantic category of one contiguous span of a
// comment body.
type SegmentKind string

const (
	// SegmentSummary is a "Summary by CodeRabbit" section.
	SegmentSummary SegmentKind = "summary"
	// SegmentActionable is an "Actionable comments posted: N" section.
	SegmentActionable SegmentKind = "actionable"
	// SegmentNitpick is a nitpick findings section.
	SegmentNitpick SegmentKind = "nitpick"
	// SegmentOutsideDiff is an outside-diff-range findings section.
	SegmentOutsideDiff SegmentKind = "outside_diff"
	// SegmentAIAgentPrompt is a "Prompt for AI Agents" block.
	SegmentAIAgentPrompt SegmentKind = "ai_agent_prompt"
	// SegmentNarrative is free text that matched no marker.
	SegmentNarrative SegmentKind = "narrative"
)

// LineRange is a line span inside a file. Single-line references have
// Start == End.
type LineRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// String renders the range the way CodeRabbit writes it ("541-545" or "823").
func (r LineRange) String() string {
	if r.Start == r.End {
		return strconv.Itoa(r.Start)
	}
	return strconv.Itoa(r.Start) + "-" + strconv.Itoa(r.End)
}

// CodeBlock is a fenced code block preserved byte-for-byte, including
// whitespace and diff markers. Content is never reformatted.
type CodeBlock struct {
	// Language is the fence info string, may be empty.
	Language string `json:"language,omitempty"`
	// Content is the verbatim text between the fences.
	Content string `json:"content"`
}

// Finding is a single file-and-line-anchored issue extracted from an
// actionable, nitpick or outside-diff section.
type Finding struct {
	FilePath    string    `json:"file_path"`
	LineRange   LineRange `json:"line_range"`
	Description string    `json:"description"`
	// AIAgentPrompt is the verbatim prompt block attached to this finding,
	// nil when the bot emitted none.
	AIAgentPrompt *CodeBlock `json:"ai_agent_prompt,omitempty"`
}

// SummaryFields holds the parsed subsections of a summary segment.
type SummaryFields struct {
	NewFeatures          []string `json:"new_features,omitempty"`
	DocumentationChanges []string `json:"documentation_changes,omitempty"`
	TestChanges          []string `json:"test_changes,omitempty"`
	Walkthrough          string   `json:"walkthrough,omitempty"`
	ChangesTable         string   `json:"changes_table,omitempty"`
	SequenceDiagram      string   `json:"sequence_diagram,omitempty"`
}

// Segment is one typed, contiguous span of a comment body. RawText is always
// an unmodified substring of the source body; which structured fields are set
// depends on Kind.
type Segment struct {
	Kind    SegmentKind `json:"kind"`
	RawText string      `json:"raw_text"`

	// Summary is set for SegmentSummary.
	Summary *SummaryFields `json:"summary,omitempty"`
	// ActionableCount is the N parsed from the count phrase, set for
	// SegmentActionable.
	ActionableCount int `json:"actionable_count,omitempty"`
	// Findings is set for actionable, nitpick and outside-diff segments.
	Findings []Finding `json:"findings,omitempty"`
	// Prompt is set for SegmentAIAgentPrompt.
	Prompt *CodeBlock `json:"prompt,omitempty"`
}

// Resolution is the settled-or-not state of a review thread.
type Resolution string

const (
	// ResolutionResolved means the bot's latest reply carries the resolved marker.
	ResolutionResolved Resolution = "resolved"
	// ResolutionUnresolved means the thread is still open for work.
	ResolutionUnresolved Resolution = "unresolved"
)

// ThreadContext is the reconstructed state of one review thread.
type ThreadContext struct {
	ThreadID string `json:"thread_id"`
	// MainComment is the chronologically first comment of the thread.
	MainComment RawComment `json:"main_comment"`
	// Replies are the remaining comments in chronological order.
	Replies []RawComment `json:"replies"`
	// ResolutionStatus is the detector's verdict for the thread.
	ResolutionStatus Resolution `json:"resolution_status"`
	// ChronologicalOrder is the full ordered sequence, main comment first.
	ChronologicalOrder []RawComment `json:"chronological_order"`
	// ContextualSummary is a short digest intended for AI-facing output.
	ContextualSummary string `json:"contextual_summary"`
	// Segments is the segmented main comment body.
	Segments []Segment `json:"segments,omitempty"`
}

// SummaryComment is the typed projection of a top-level summary comment.
type SummaryComment struct {
	CommentID string        `json:"comment_id"`
	Author    string        `json:"author"`
	CreatedAt time.Time     `json:"created_at"`
	Fields    SummaryFields `json:"fields"`
	Segments  []Segment     `json:"segments"`
}

// ReviewComment is the typed projection of a top-level review comment.
type ReviewComment struct {
	CommentID string    `json:"comment_id"`
	Author    string    `json:"author"`
	CreatedAt time.Time `json:"created_at"`
	// ActionableCount is the count the bot itself stated in the body.
	ActionableCount int       `json:"actionable_count"`
	Actionable      []Finding `json:"actionable"`
	Nitpicks        []Finding `json:"nitpicks"`
	OutsideDiff     []Finding `json:"outside_diff"`
	Segments        []Segment `json:"segments"`
}

// Metadata carries the per-run counts and anomaly notes. Anomalies never
// abort a run; they are reported here.
type Metadata struct {
	CommentsFetched  int `json:"comments_fetched"`
	BotComments      int `json:"bot_comments"`
	MalformedSkipped int `json:"malformed_skipped"`
	ResolvedThreads  int `json:"resolved_threads"`
	ActionableTotal  int `json:"actionable_total"`
	// DroppedTopLevel counts top-level bot comments matching neither the
	// summary nor the review template.
	DroppedTopLevel int `json:"dropped_top_level"`
	// Inconsistencies lists reportable discrepancies, such as a stated
	// actionable count disagreeing with the extracted finding list.
	Inconsistencies []string `json:"inconsistencies,omitempty"`
	// OldestComment and NewestComment are taken from the input records so
	// repeated runs over the same input stay bit-identical.
	OldestComment time.Time `json:"oldest_comment,omitzero"`
	NewestComment time.Time `json:"newest_comment,omitzero"`
}

// AnalyzedComments is the root aggregate handed to renderers. It is built
// once per run and read-only afterwards.
type AnalyzedComments struct {
	SummaryComments   []SummaryComment `json:"summary_comments"`
	ReviewComments    []ReviewComment  `json:"review_comments"`
	UnresolvedThreads []ThreadContext  `json:"unresolved_threads"`
	Metadata          Metadata         `json:"metadata"`
}
