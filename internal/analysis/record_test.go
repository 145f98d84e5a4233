package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	inputs := []RawInput{
		{ID: "1", Author: "alice", Body: "hello", CreatedAt: "2026-03-10T12:00:00Z"},
		{ID: "", Author: "bob", Body: "missing id", CreatedAt: "2026-03-10T12:00:00Z"},
		{ID: "3", Author: "", Body: "missing author", CreatedAt: "2026-03-10T12:00:00Z"},
		{ID: "4", Author: "carol", Body: "", CreatedAt: "2026-03-10T12:00:00Z"},
		{ID: "5", Author: "dave", Body: "bad timestamp", CreatedAt: "yesterday"},
		{ID: "6", Author: "erin", Body: "ok", CreatedAt: "2026-03-10T12:05:00Z", ThreadID: "T1", InReplyTo: "1"},
	}

	records, skipped := Normalize(inputs)

	assert.Equal(t, 4, skipped)
	require.Len(t, records, 2)
	assert.Equal(t, "1", records[0].ID)
	assert.Equal(t, "6", records[1].ID)
	assert.Equal(t, "T1", records[1].ThreadID)
	assert.Equal(t, "1", records[1].InReplyTo)
}

func TestNormalizeEmpty(t *testing.T) {
	records, skipped := Normalize(nil)
	assert.Empty(t, records)
	assert.Zero(t, skipped)
}

func TestFilterByAuthor(t *testing.T) {
	inputs := []RawInput{
		{ID: "1", Author: DefaultBotAuthor, Body: "bot", CreatedAt: "2026-03-10T12:00:00Z"},
		{ID: "2", Author: "human", Body: "human", CreatedAt: "2026-03-10T12:01:00Z"},
		{ID: "3", Author: "CodeRabbitAI[bot]", Body: "case differs", CreatedAt: "2026-03-10T12:02:00Z"},
		{ID: "4", Author: DefaultBotAuthor, Body: "bot again", CreatedAt: "2026-03-10T12:03:00Z"},
	}
	records, _ := Normalize(inputs)

	filtered := FilterByAuthor(records, DefaultBotAuthor)

	// Output is a subsequence of the input and every element matches exactly;
	// the similarly cased account does not slip through.
	require.Len(t, filtered, 2)
	assert.Equal(t, "1", filtered[0].ID)
	assert.Equal(t, "4", filtered[1].ID)
	for _, r := range filtered {
		assert.Equal(t, DefaultBotAuthor, r.Author)
	}
}

func TestFilterByAuthorEmptyResult(t *testing.T) {
	records, _ := Normalize([]RawInput{
		{ID: "1", Author: "human", Body: "text", CreatedAt: "2026-03-10T12:00:00Z"},
	})
	assert.Empty(t, FilterByAuthor(records, DefaultBotAuthor))
}
