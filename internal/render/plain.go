package render

import (
	"fmt"
	"strings"

	"github.com/yohi/crfetch/internal/analysis"
)

// PlainTextRenderer emits a compact, markup-free walk of the aggregate for
// consumers that cannot handle markdown. Code blocks stay verbatim; they are
// opaque text.
type PlainTextRenderer struct{}

func (r *PlainTextRenderer) Render(result *analysis.AnalyzedComments) (string, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "CodeRabbit review analysis\n")
	fmt.Fprintf(&sb, "comments fetched: %d, bot comments: %d, actionable: %d, unresolved threads: %d, resolved (excluded): %d\n",
		result.Metadata.CommentsFetched,
		result.Metadata.BotComments,
		result.Metadata.ActionableTotal,
		len(result.UnresolvedThreads),
		result.Metadata.ResolvedThreads,
	)
	for _, note := range result.Metadata.Inconsistencies {
		fmt.Fprintf(&sb, "inconsistency: %s\n", note)
	}

	for _, sc := range result.SummaryComments {
		fmt.Fprintf(&sb, "\nsummary comment %s by %s\n", sc.CommentID, sc.Author)
		writeBullets(&sb, "new features", sc.Fields.NewFeatures)
		writeBullets(&sb, "documentation", sc.Fields.DocumentationChanges)
		writeBullets(&sb, "tests", sc.Fields.TestChanges)
		if sc.Fields.Walkthrough != "" {
			fmt.Fprintf(&sb, "walkthrough:\n%s\n", sc.Fields.Walkthrough)
		}
	}

	for _, rc := range result.ReviewComments {
		fmt.Fprintf(&sb, "\nreview comment %s, %d actionable posted\n", rc.CommentID, rc.ActionableCount)
		writeFindings(&sb, "actionable", rc.Actionable)
		writeFindings(&sb, "nitpick", rc.Nitpicks)
		writeFindings(&sb, "outside diff", rc.OutsideDiff)
	}

	for _, tc := range result.UnresolvedThreads {
		fmt.Fprintf(&sb, "\nunresolved thread %s\n", tc.ThreadID)
		fmt.Fprintf(&sb, "%s\n", tc.ContextualSummary)
		fmt.Fprintf(&sb, "main comment by %s:\n%s\n", tc.MainComment.Author, tc.MainComment.Body)
		for i, reply := range tc.Replies {
			fmt.Fprintf(&sb, "reply %d by %s:\n%s\n", i+1, reply.Author, reply.Body)
		}
	}

	return sb.String(), nil
}

func writeBullets(sb *strings.Builder, label string, items []string) {
	for _, item := range items {
		fmt.Fprintf(sb, "%s: %s\n", label, item)
	}
}

func writeFindings(sb *strings.Builder, label string, findings []analysis.Finding) {
	for _, f := range findings {
		loc := "(no location)"
		if f.FilePath != "" {
			loc = f.FilePath + ":" + f.LineRange.String()
		}
		fmt.Fprintf(sb, "%s %s: %s\n", label, loc, f.Description)
		if f.AIAgentPrompt != nil {
			fmt.Fprintf(sb, "ai prompt:\n%s", f.AIAgentPrompt.Content)
			if !strings.HasSuffix(f.AIAgentPrompt.Content, "\n") {
				sb.WriteByte('\n')
			}
		} else {
			fmt.Fprintf(sb, "ai instruction: %s\n", describeFinding(f))
		}
	}
}
