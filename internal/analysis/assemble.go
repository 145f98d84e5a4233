package analysis

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultBotAuthor is the GitHub login of the CodeRabbit review bot.
const DefaultBotAuthor = "coderabbitai[bot]"

// Options configures one analysis run. Options is an explicit value passed
// into Analyze; there is no ambient package state, so concurrent analyses of
// different pull requests never interfere.
type Options struct {
	// BotAuthor is the exact login the author filter keeps.
	BotAuthor string
	// Markers is the marker vocabulary for segmentation and resolution.
	Markers MarkerTable
	// Concurrency bounds the per-comment and per-thread fan-out. Zero means
	// one worker per CPU.
	Concurrency int
	// Logger receives per-record diagnostics. Nil disables them.
	Logger *slog.Logger
}

func (o Options) withDefaults() Options {
	if o.BotAuthor == "" {
		o.BotAuthor = DefaultBotAuthor
	}
	if o.Markers == (MarkerTable{}) {
		o.Markers = DefaultMarkers()
	}
	if o.Concurrency <= 0 {
		o.Concurrency = runtime.NumCPU()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return o
}

// Analyze is the single entry point of the core: it normalizes and filters
// the transport records, segments every top-level bot comment, reconstructs
// every thread, and merges the results into one read-only aggregate.
//
// Per-comment and per-thread work runs on a bounded worker group, but the
// merge order follows the original fetch order, so repeated runs over the
// same input are bit-identical. A cancelled context abandons the whole run;
// partial output is never returned.
func Analyze(ctx context.Context, inputs []RawInput, opts Options) (*AnalyzedComments, error) {
	opts = opts.withDefaults()

	records, skipped := Normalize(inputs)
	if skipped > 0 {
		opts.Logger.Warn("skipped malformed comment records", "count", skipped)
	}
	bot := FilterByAuthor(records, opts.BotAuthor)

	result := &AnalyzedComments{
		Metadata: Metadata{
			CommentsFetched:  len(inputs),
			BotComments:      len(bot),
			MalformedSkipped: skipped,
		},
	}
	for _, r := range bot {
		if result.Metadata.OldestComment.IsZero() || r.CreatedAt.Before(result.Metadata.OldestComment) {
			result.Metadata.OldestComment = r.CreatedAt
		}
		if r.CreatedAt.After(result.Metadata.NewestComment) {
			result.Metadata.NewestComment = r.CreatedAt
		}
	}
	if len(bot) == 0 {
		opts.Logger.Info("no bot comments found, nothing to analyze", "bot", opts.BotAuthor)
		return result, nil
	}

	var topLevel []RawComment
	threadOrder := make([]string, 0)
	threadRecords := make(map[string][]RawComment)
	for _, r := range bot {
		if r.ThreadID == "" {
			topLevel = append(topLevel, r)
			continue
		}
		if _, seen := threadRecords[r.ThreadID]; !seen {
			threadOrder = append(threadOrder, r.ThreadID)
		}
		threadRecords[r.ThreadID] = append(threadRecords[r.ThreadID], r)
	}

	segmented := make([][]Segment, len(topLevel))
	threads := make([]ThreadContext, len(threadOrder))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, r := range topLevel {
		i, r := i, r
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			segmented[i] = SegmentBody(r.Body, opts.Markers)
			return nil
		})
	}
	for i, id := range threadOrder {
		i, id := i, id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			threads[i] = BuildThread(id, threadRecords[id], opts.Markers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, r := range topLevel {
		assembleTopLevel(result, r, segmented[i], opts)
	}

	for _, tc := range threads {
		if tc.ResolutionStatus == ResolutionResolved {
			result.Metadata.ResolvedThreads++
			continue
		}
		result.UnresolvedThreads = append(result.UnresolvedThreads, tc)
	}

	return result, nil
}

// assembleTopLevel classifies one segmented top-level comment as a summary or
// review comment and folds it into the aggregate. A body matching both
// templates is classified as the more specific review comment and the
// ambiguity is surfaced in metadata. A body matching neither is dropped with
// a debug log; a bot may post incidental commentary outside the two
// templates.
func assembleTopLevel(result *AnalyzedComments, r RawComment, segments []Segment, opts Options) {
	hasSummary := false
	hasActionable := false
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentSummary:
			hasSummary = true
		case SegmentActionable:
			hasActionable = true
		}
	}

	switch {
	case hasActionable:
		if hasSummary {
			result.Metadata.Inconsistencies = append(result.Metadata.Inconsistencies,
				fmt.Sprintf("comment %s matches both summary and review templates, classified as review", r.ID))
		}
		rc := buildReviewComment(r, segments)
		if rc.ActionableCount != len(rc.Actionable) {
			result.Metadata.Inconsistencies = append(result.Metadata.Inconsistencies,
				fmt.Sprintf("comment %s states %d actionable comments but %d were extracted",
					r.ID, rc.ActionableCount, len(rc.Actionable)))
		}
		result.Metadata.ActionableTotal += rc.ActionableCount
		result.ReviewComments = append(result.ReviewComments, rc)

	case hasSummary:
		result.SummaryComments = append(result.SummaryComments, buildSummaryComment(r, segments))

	default:
		opts.Logger.Debug("dropping top-level comment matching no template", "id", r.ID)
		result.Metadata.DroppedTopLevel++
	}
}

func buildSummaryComment(r RawComment, segments []Segment) SummaryComment {
	sc := SummaryComment{
		CommentID: r.ID,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
		Segments:  segments,
	}
	for _, seg := range segments {
		if seg.Kind == SegmentSummary && seg.Summary != nil {
			sc.Fields = *seg.Summary
			break
		}
	}
	return sc
}

func buildReviewComment(r RawComment, segments []Segment) ReviewComment {
	rc := ReviewComment{
		CommentID: r.ID,
		Author:    r.Author,
		CreatedAt: r.CreatedAt,
		Segments:  segments,
	}
	counted := false
	for _, seg := range segments {
		switch seg.Kind {
		case SegmentActionable:
			// The first count phrase is authoritative; a repeated phrase in
			// the same body is bot noise.
			if !counted {
				rc.ActionableCount = seg.ActionableCount
				counted = true
			}
			rc.Actionable = append(rc.Actionable, seg.Findings...)
		case SegmentNitpick:
			rc.Nitpicks = append(rc.Nitpicks, seg.Findings...)
		case SegmentOutsideDiff:
			rc.OutsideDiff = append(rc.OutsideDiff, seg.Findings...)
		}
	}
	return rc
}
