package processor

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManualStore(t *testing.T) {
	dir := t.TempDir()
	content := "---\ntitle: Hello\nauthor: someone\n---\n\nHand written body.\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte(content), 0o644))

	m := NewManualStore(dir)
	assert.True(t, m.Has("_posts/a.md"))
	assert.False(t, m.Has("_posts/b.md"))

	tr, err := m.Load("_posts/a.md")
	require.NoError(t, err)
	assert.Equal(t, "Hello", tr.Title)
	assert.Equal(t, "Hand written body.", tr.Body)
}

func TestManualStore_NoFrontMatter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("Only body\n"), 0o644))

	tr, err := NewManualStore(dir).Load("a.md")
	require.NoError(t, err)
	assert.Equal(t, "", tr.Title)
	assert.Equal(t, "Only body", tr.Body)
}

func TestManualStore_Missing(t *testing.T) {
	_, err := NewManualStore(t.TempDir()).Load("nope.md")
	assert.Error(t, err)
}

func TestManualStore_DirectoryIsNotTranslation(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a.md"), 0o755))
	assert.False(t, NewManualStore(dir).Has("a.md"))
}

func TestManualStore_MirroredPaths(t *testing.T) {
	dir := t.TempDir()
	for year, title := range map[string]string{"2023": "Old", "2024": "New"} {
		sub := filepath.Join(dir, "_posts", year)
		require.NoError(t, os.MkdirAll(sub, 0o755))
		content := "---\ntitle: " + title + "\n---\n" + title + " body\n"
		require.NoError(t, os.WriteFile(filepath.Join(sub, "a.md"), []byte(content), 0o644))
	}

	m := NewManualStore(dir)
	old, err := m.Load("_posts/2023/a.md")
	require.NoError(t, err)
	recent, err := m.Load("_posts/2024/a.md")
	require.NoError(t, err)

	assert.Equal(t, "Old", old.Title)
	assert.Equal(t, "New", recent.Title)
	assert.False(t, m.Has("_posts/2025/a.md"), "no mirrored or flat file exists")
}

func TestManualStore_MirroredWinsOverFlat(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("flat\n"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "_posts"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "_posts", "a.md"), []byte("mirrored\n"), 0o644))

	m := NewManualStore(dir)
	tr, err := m.Load("_posts/a.md")
	require.NoError(t, err)
	assert.Equal(t, "mirrored", tr.Body)

	tr, err = m.Load("_posts/other/a.md")
	require.NoError(t, err)
	assert.Equal(t, "flat", tr.Body)
}

func TestManualStore_EscapingIDUsesBaseName(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "translations")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.md"), []byte("outside\n"), 0o644))

	assert.False(t, NewManualStore(dir).Has("../secret.md"))
}

func TestNewManualStore_Default(t *testing.T) {
	assert.Equal(t, DefaultManualDir, NewManualStore("").Dir)
}
