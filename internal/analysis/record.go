package analysis

import (
	"strings"
	"time"
)

// RawInput is one comment record as delivered by the transport, before any
// validation. Timestamps arrive as RFC 3339 strings straight from the API.
type RawInput struct {
	ID        string
	Author    string
	Body      string
	CreatedAt string
	ThreadID  string
	InReplyTo string
}

// Normalize converts transport records into uniform RawComment values.
// Records missing an id, author or body, or carrying an unparseable
// timestamp, are skipped and counted; one malformed record never aborts the
// run. Input order is preserved.
func Normalize(inputs []RawInput) ([]RawComment, int) {
	out := make([]RawComment, 0, len(inputs))
	skipped := 0

	for _, in := range inputs {
		if strings.TrimSpace(in.ID) == "" ||
			strings.TrimSpace(in.Author) == "" ||
			strings.TrimSpace(in.Body) == "" {
			skipped++
			continue
		}

		createdAt, err := time.Parse(time.RFC3339, strings.TrimSpace(in.CreatedAt))
		if err != nil {
			skipped++
			continue
		}

		out = append(out, RawComment{
			ID:        in.ID,
			Author:    in.Author,
			Body:      in.Body,
			CreatedAt: createdAt,
			ThreadID:  in.ThreadID,
			InReplyTo: in.InReplyTo,
		})
	}

	return out, skipped
}

// FilterByAuthor keeps only records authored by the given bot identity.
// The match is exact and case-sensitive so a similarly named human account
// never slips through. An empty result is valid and means no bot activity.
func FilterByAuthor(records []RawComment, botIdentity string) []RawComment {
	out := make([]RawComment, 0, len(records))
	for _, r := range records {
		if r.Author == botIdentity {
			out = append(out, r)
		}
	}
	return out
}
