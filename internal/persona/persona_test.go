package persona

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefault(t *testing.T) {
	text, err := Load(nil)
	require.NoError(t, err)
	assert.Equal(t, Default, text)
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "role.md")
	second := filepath.Join(dir, "style.md")
	require.NoError(t, os.WriteFile(first, []byte("You are a reviewer.\n"), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("Be terse.\n"), 0o644))

	text, err := Load([]string{first, second})
	require.NoError(t, err)
	assert.Equal(t, "You are a reviewer.\n\nBe terse.", text)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load([]string{filepath.Join(t.TempDir(), "absent.md")})
	assert.Error(t, err)
}

func TestLoadEmptyFilesFallBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blank.md")
	require.NoError(t, os.WriteFile(path, []byte("   \n"), 0o644))

	text, err := Load([]string{path})
	require.NoError(t, err)
	assert.Equal(t, Default, text)
}
