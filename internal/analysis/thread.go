package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// BuildThread reconstructs one review thread from all bot records sharing a
// thread id. Records are ordered by CreatedAt ascending with ID ascending as
// the deterministic tiebreak; the earliest becomes the main comment and the
// rest become replies. A single-record thread is valid and has no replies.
func BuildThread(threadID string, records []RawComment, table MarkerTable) ThreadContext {
	ordered := make([]RawComment, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		if !ordered[i].CreatedAt.Equal(ordered[j].CreatedAt) {
			return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
		}
		return ordered[i].ID < ordered[j].ID
	})

	ctx := ThreadContext{
		ThreadID:           threadID,
		ChronologicalOrder: ordered,
		ResolutionStatus:   DetectResolution(ordered, table.ResolvedMarker),
	}
	if len(ordered) == 0 {
		return ctx
	}

	ctx.MainComment = ordered[0]
	ctx.Replies = ordered[1:]
	ctx.Segments = SegmentBody(ctx.MainComment.Body, table)
	ctx.ContextualSummary = summarizeThread(ctx)
	return ctx
}

// summarizeThread produces the short natural-language digest emitted into
// AI-facing output: reply count, resolution status and the gist of the main
// comment's first segment.
func summarizeThread(ctx ThreadContext) string {
	gist := ""
	if len(ctx.Segments) > 0 {
		gist = segmentGist(ctx.Segments[0])
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Thread %s: %d repl", ctx.ThreadID, len(ctx.Replies))
	if len(ctx.Replies) == 1 {
		sb.WriteString("y")
	} else {
		sb.WriteString("ies")
	}
	fmt.Fprintf(&sb, ", %s.", ctx.ResolutionStatus)
	if gist != "" {
		fmt.Fprintf(&sb, " Main comment: %s", gist)
	}
	return sb.String()
}

// segmentGist condenses a segment into a single short line.
func segmentGist(seg Segment) string {
	if len(seg.Findings) > 0 {
		f := seg.Findings[0]
		if f.FilePath != "" {
			return fmt.Sprintf("%s:%s %s", f.FilePath, f.LineRange, firstLine(f.Description))
		}
		return firstLine(f.Description)
	}
	return firstLine(strings.TrimSpace(seg.RawText))
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if idx := strings.IndexByte(s, '\n'); idx >= 0 {
		s = s[:idx]
	}
	const max = 160
	if len(s) > max {
		// Cut on a rune boundary to keep multi-byte markers intact.
		cut := max
		for cut > 0 && s[cut]&0xC0 == 0x80 {
			cut--
		}
		s = s[:cut] + "…"
	}
	return s
}
