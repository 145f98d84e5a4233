package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yohi/crfetch/internal/githubapi"
)

func TestToRawInputs(t *testing.T) {
	comments := []githubapi.Comment{
		{ID: 101, Author: "coderabbitai[bot]", Body: "top level", CreatedAt: "2026-08-01T10:00:00Z"},
		{ID: 202, Author: "coderabbitai[bot]", Body: "reply", CreatedAt: "2026-08-01T11:00:00Z", ThreadID: "T1", InReplyTo: 101},
	}

	inputs := toRawInputs(comments)
	require.Len(t, inputs, 2)

	assert.Equal(t, "101", inputs[0].ID)
	assert.Empty(t, inputs[0].InReplyTo)
	assert.Empty(t, inputs[0].ThreadID)

	assert.Equal(t, "202", inputs[1].ID)
	assert.Equal(t, "T1", inputs[1].ThreadID)
	assert.Equal(t, "101", inputs[1].InReplyTo)
	assert.Equal(t, "reply", inputs[1].Body)
}

func TestResolveRepo(t *testing.T) {
	t.Setenv("GITHUB_REPOSITORY", "")

	_, err := resolveRepo(&Options{})
	assert.Error(t, err)

	repo, err := resolveRepo(&Options{Repo: "acme/widgets"})
	require.NoError(t, err)
	assert.Equal(t, "acme/widgets", repo)

	t.Setenv("GITHUB_REPOSITORY", "acme/fallback")
	repo, err = resolveRepo(&Options{})
	require.NoError(t, err)
	assert.Equal(t, "acme/fallback", repo)
}

func TestLookupGitHubToken(t *testing.T) {
	t.Setenv("CRFETCH_GH_TOKEN", "")
	t.Setenv("GH_TOKEN", "")
	t.Setenv("GITHUB_TOKEN", "")

	_, err := lookupGitHubToken()
	assert.Error(t, err)

	t.Setenv("GITHUB_TOKEN", "fallback-token")
	token, err := lookupGitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "fallback-token", token)

	t.Setenv("CRFETCH_GH_TOKEN", "primary-token")
	token, err = lookupGitHubToken()
	require.NoError(t, err)
	assert.Equal(t, "primary-token", token)
}

func TestEnvPresent(t *testing.T) {
	t.Setenv("CRFETCH_PRESENT_TEST", "  ")
	assert.False(t, envPresent("CRFETCH_PRESENT_TEST"))

	t.Setenv("CRFETCH_PRESENT_TEST", "1")
	assert.True(t, envPresent("CRFETCH_PRESENT_TEST"))
}

func TestWriteOutputToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "analysis.md")
	require.NoError(t, writeOutput(path, "# CodeRabbit Review Analysis\n"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "# CodeRabbit Review Analysis\n", string(data))
}
