package analysis

import (
	"regexp"
	"strconv"
	"strings"
)

// bodyLine is one physical line of a comment body together with its byte
// offsets into the original text. End is exclusive and includes the trailing
// newline when present, so adjacent lines tile the body exactly.
type bodyLine struct {
	start, end int
	text       string
}

func splitLines(body string) []bodyLine {
	var lines []bodyLine
	start := 0
	for i := 0; i < len(body); i++ {
		if body[i] == '\n' {
			lines = append(lines, bodyLine{start: start, end: i + 1, text: body[start:i]})
			start = i + 1
		}
	}
	if start < len(body) {
		lines = append(lines, bodyLine{start: start, end: len(body), text: body[start:]})
	}
	return lines
}

func isFenceLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~")
}

// containsFold reports whether s contains sub ignoring ASCII and Unicode case.
func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

// markerKind classifies a single line against the marker table. Matching is
// done on trimmed, case-folded text; the caller keeps the raw span.
func markerKind(line string, table MarkerTable) (SegmentKind, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return "", false
	}
	switch {
	case containsFold(trimmed, table.AIAgentPromptHeader):
		return SegmentAIAgentPrompt, true
	case containsFold(trimmed, table.ActionablePhrase):
		return SegmentActionable, true
	case containsFold(trimmed, table.SummaryHeading):
		return SegmentSummary, true
	case containsFold(trimmed, table.NitpickHeader):
		return SegmentNitpick, true
	case containsFold(trimmed, table.OutsideDiffHeader):
		return SegmentOutsideDiff, true
	}
	return "", false
}

// SegmentBody splits one comment body into an ordered sequence of typed
// segments. Every segment's RawText is a contiguous substring of body and the
// segments tile the body in order; no byte of a bot comment is ever dropped.
// A body matching no marker yields a single Narrative segment.
//
// An AI-agent prompt segment ends at the close of its fenced code block so
// that findings following it in the same section are not swallowed; the text
// after the block reopens a segment of the enclosing section's kind. Marker
// lines inside fenced code blocks are ignored.
func SegmentBody(body string, table MarkerTable) []Segment {
	if body == "" {
		return nil
	}

	lines := splitLines(body)

	type span struct {
		kind       SegmentKind
		start, end int
	}
	var spans []span

	closeSpan := func(kind SegmentKind, start, end int) {
		if end <= start {
			return
		}
		if kind == SegmentNarrative && strings.TrimSpace(body[start:end]) == "" {
			// Blank glue between sections carries no information of its own;
			// fold it into nothing rather than emit an empty narrative.
			return
		}
		spans = append(spans, span{kind: kind, start: start, end: end})
	}

	curKind := SegmentNarrative
	curStart := 0
	// sticky is the enclosing findings section, used to reopen it after an
	// embedded AI-agent prompt block.
	sticky := SegmentNarrative
	inFence := false

	i := 0
	for i < len(lines) {
		line := lines[i]

		if isFenceLine(line.text) {
			inFence = !inFence
			i++
			continue
		}
		if inFence {
			i++
			continue
		}

		kind, ok := markerKind(line.text, table)
		if !ok {
			i++
			continue
		}

		closeSpan(curKind, curStart, line.start)

		if kind == SegmentAIAgentPrompt {
			end, next := consumePromptBlock(lines, i, table)
			spans = append(spans, span{kind: SegmentAIAgentPrompt, start: line.start, end: end})
			curKind = sticky
			curStart = end
			i = next
			continue
		}

		curKind = kind
		curStart = line.start
		switch kind {
		case SegmentActionable, SegmentNitpick, SegmentOutsideDiff:
			sticky = kind
		default:
			sticky = SegmentNarrative
		}
		i++
	}
	closeSpan(curKind, curStart, len(body))

	if len(spans) == 0 {
		return []Segment{{Kind: SegmentNarrative, RawText: body}}
	}

	segments := make([]Segment, 0, len(spans))
	// carryFile is the per-file findings header in effect, carried across an
	// embedded AI prompt so the section's remaining findings keep their path.
	carryFile := ""
	for _, s := range spans {
		seg := Segment{Kind: s.kind, RawText: body[s.start:s.end]}
		switch s.kind {
		case SegmentSummary:
			fields := parseSummaryFields(seg.RawText, table)
			seg.Summary = &fields
			carryFile = ""
		case SegmentActionable:
			seg.ActionableCount = parseActionableCount(seg.RawText, table)
			seg.Findings, carryFile = parseFindings(seg.RawText, carryFile)
		case SegmentNitpick, SegmentOutsideDiff:
			seg.Findings, carryFile = parseFindings(seg.RawText, carryFile)
		case SegmentAIAgentPrompt:
			seg.Prompt = extractCodeBlock(seg.RawText)
		case SegmentNarrative:
			carryFile = ""
		}
		segments = append(segments, seg)
	}
	attachPrompts(segments)
	return segments
}

// consumePromptBlock scans forward from the prompt marker at lines[i] through
// the end of its first fenced code block, plus a trailing </details> line
// when present. It returns the segment end offset and the next line index to
// resume scanning at. If another marker appears before any fence opens, the
// prompt segment ends there instead.
func consumePromptBlock(lines []bodyLine, i int, table MarkerTable) (end, next int) {
	j := i + 1
	for j < len(lines) && !isFenceLine(lines[j].text) {
		if _, ok := markerKind(lines[j].text, table); ok {
			return lines[j].start, j
		}
		j++
	}
	if j >= len(lines) {
		return lines[len(lines)-1].end, len(lines)
	}
	// Opening fence found; consume until the closing fence.
	j++
	for j < len(lines) && !isFenceLine(lines[j].text) {
		j++
	}
	if j >= len(lines) {
		return lines[len(lines)-1].end, len(lines)
	}
	end = lines[j].end
	j++
	// Swallow blank lines and a closing </details> wrapper.
	k := j
	for k < len(lines) && strings.TrimSpace(lines[k].text) == "" {
		k++
	}
	if k < len(lines) && strings.TrimSpace(lines[k].text) == "</details>" {
		end = lines[k].end
		j = k + 1
	}
	return end, j
}

// attachPrompts wires each AI-agent prompt segment to the last finding of the
// nearest preceding findings segment. A prompt with no preceding finding
// stays standalone; the renderer falls back to the segment itself.
func attachPrompts(segments []Segment) {
	for i := range segments {
		if segments[i].Kind != SegmentAIAgentPrompt || segments[i].Prompt == nil {
			continue
		}
	search:
		for j := i - 1; j >= 0; j-- {
			switch segments[j].Kind {
			case SegmentActionable, SegmentNitpick, SegmentOutsideDiff:
				if n := len(segments[j].Findings); n > 0 {
					if segments[j].Findings[n-1].AIAgentPrompt == nil {
						segments[j].Findings[n-1].AIAgentPrompt = segments[i].Prompt
					}
					break search
				}
			case SegmentSummary, SegmentNarrative:
				// A summary or narrative between the prompt and any findings
				// section breaks the attachment chain.
				break search
			}
		}
	}
}

// parseActionableCount extracts the integer after the actionable phrase.
// Returns 0 when the phrase carries no parseable number. The pattern is
// built per call because the phrase is caller-supplied configuration, not a
// constant.
func parseActionableCount(text string, table MarkerTable) int {
	re := regexp.MustCompile(`(?i)` + regexp.QuoteMeta(table.ActionablePhrase) + `\s*\**\s*(\d+)`)
	m := re.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	n, _ := strconv.Atoi(m[1])
	return n
}

var (
	// fileHeaderRe matches a per-file findings header such as
	// "internal/cli/pr.go (2)", optionally backticked or wrapped in a
	// <summary> element.
	fileHeaderRe = regexp.MustCompile("^(?:<summary>)?`?([\\w.+\\-]+(?:/[\\w.+\\-]+)*)`?\\s*\\((\\d+)\\)(?:</summary>)?$")
	// findingRe matches a numbered finding opener such as
	// "`541-545`: **description**" or "`823`: description".
	findingRe = regexp.MustCompile("^`?(\\d+)(?:-(\\d+))?`?\\s*:\\s*(.*)$")
)

// parseFindings extracts per-file, per-line-range finding records from a
// findings section. Description text accumulates until the next finding,
// file header or fence. Lines inside fenced code blocks are left alone.
// The file header in effect at the end is returned so a section resumed
// after an embedded prompt block keeps its path context.
func parseFindings(text, file string) ([]Finding, string) {
	var findings []Finding
	var current *Finding
	inFence := false

	flush := func() {
		if current != nil {
			current.Description = strings.TrimSpace(current.Description)
			findings = append(findings, *current)
			current = nil
		}
	}

	for _, line := range strings.Split(text, "\n") {
		if isFenceLine(line) {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		trimmed := strings.TrimSpace(line)

		if m := fileHeaderRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			file = m[1]
			continue
		}
		if m := findingRe.FindStringSubmatch(trimmed); m != nil {
			flush()
			start, _ := strconv.Atoi(m[1])
			end := start
			if m[2] != "" {
				end, _ = strconv.Atoi(m[2])
			}
			current = &Finding{
				FilePath:    file,
				LineRange:   LineRange{Start: start, End: end},
				Description: stripBold(m[3]),
			}
			continue
		}
		if current != nil && trimmed != "" && !strings.HasPrefix(trimmed, "<details") && !strings.HasPrefix(trimmed, "</details") {
			current.Description += "\n" + trimmed
		}
	}
	flush()
	return findings, file
}

// parseSummaryFields carves a summary segment into its typed subsections.
// Headings are accepted both as markdown headings ("## New Features") and as
// bold titles ("**New Features**").
func parseSummaryFields(text string, table MarkerTable) SummaryFields {
	var fields SummaryFields

	type section int
	const (
		secNone section = iota
		secNewFeatures
		secDocumentation
		secTests
		secWalkthrough
		secChanges
		secSequence
	)

	headingOf := func(trimmed string) (section, bool) {
		title := trimmed
		title = strings.TrimLeft(title, "#")
		title = strings.TrimSpace(title)
		title = strings.Trim(title, "*")
		title = strings.TrimSpace(title)
		switch {
		case strings.EqualFold(title, table.NewFeaturesHeading):
			return secNewFeatures, true
		case strings.EqualFold(title, table.DocumentationHeading):
			return secDocumentation, true
		case strings.EqualFold(title, table.TestsHeading):
			return secTests, true
		case containsFold(title, table.SequenceDiagramHeading):
			return secSequence, true
		case strings.EqualFold(title, table.WalkthroughHeading):
			return secWalkthrough, true
		case strings.EqualFold(title, table.ChangesHeading):
			return secChanges, true
		}
		return secNone, false
	}

	isHeadingLine := func(trimmed string) bool {
		if strings.HasPrefix(trimmed, "#") {
			return true
		}
		return strings.HasPrefix(trimmed, "**") && strings.HasSuffix(trimmed, "**") && len(trimmed) > 4
	}

	cur := secNone
	inFence := false
	var walkthrough, changes, sequence []string

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)

		if isFenceLine(line) {
			inFence = !inFence
			if cur == secSequence {
				sequence = append(sequence, line)
			}
			continue
		}
		if inFence {
			if cur == secSequence {
				sequence = append(sequence, line)
			} else if cur == secWalkthrough {
				walkthrough = append(walkthrough, line)
			}
			continue
		}

		if isHeadingLine(trimmed) {
			if sec, ok := headingOf(trimmed); ok {
				cur = sec
				continue
			}
			// An unrecognized heading closes the current subsection.
			cur = secNone
			continue
		}
		// Subsection titles also appear as bold bullets ("- **New Features**").
		if bullet, ok := bulletText(trimmed); ok && isHeadingLine(bullet) {
			if sec, ok := headingOf(bullet); ok {
				cur = sec
				continue
			}
		}

		switch cur {
		case secNewFeatures, secDocumentation, secTests:
			if bullet, ok := bulletText(trimmed); ok {
				switch cur {
				case secNewFeatures:
					fields.NewFeatures = append(fields.NewFeatures, bullet)
				case secDocumentation:
					fields.DocumentationChanges = append(fields.DocumentationChanges, bullet)
				case secTests:
					fields.TestChanges = append(fields.TestChanges, bullet)
				}
			}
		case secWalkthrough:
			if trimmed != "" {
				walkthrough = append(walkthrough, trimmed)
			}
		case secChanges:
			if strings.HasPrefix(trimmed, "|") {
				changes = append(changes, trimmed)
			}
		case secSequence:
			if trimmed != "" {
				sequence = append(sequence, line)
			}
		}
	}

	fields.Walkthrough = strings.Join(walkthrough, "\n")
	fields.ChangesTable = strings.Join(changes, "\n")
	fields.SequenceDiagram = strings.Join(sequence, "\n")
	return fields
}

// extractCodeBlock pulls the first fenced code block out of a prompt segment
// verbatim. Content is the exact bytes between the fence lines, diff markers
// and whitespace included.
func extractCodeBlock(raw string) *CodeBlock {
	lines := splitLines(raw)
	open := -1
	for i, l := range lines {
		if isFenceLine(l.text) {
			open = i
			break
		}
	}
	if open < 0 {
		return nil
	}
	lang := strings.TrimSpace(strings.TrimLeft(strings.TrimSpace(lines[open].text), "`~"))
	for j := open + 1; j < len(lines); j++ {
		if isFenceLine(lines[j].text) {
			return &CodeBlock{
				Language: lang,
				Content:  raw[lines[open].end:lines[j].start],
			}
		}
	}
	return &CodeBlock{Language: lang, Content: raw[lines[open].end:]}
}

func bulletText(trimmed string) (string, bool) {
	for _, prefix := range []string{"- ", "* ", "+ "} {
		if strings.HasPrefix(trimmed, prefix) {
			return strings.TrimSpace(trimmed[len(prefix):]), true
		}
	}
	return "", false
}

func stripBold(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "**") && strings.HasSuffix(s, "**") && len(s) > 4 {
		return strings.TrimSpace(s[2 : len(s)-2])
	}
	return s
}

