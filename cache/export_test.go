package cache

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExporter_Export(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"))
	require.NoError(t, s.Save(context.Background(), "b.md", sampleRecord(2)))
	require.NoError(t, s.Save(context.Background(), "a.md", sampleRecord(1)))

	var buf bytes.Buffer
	require.NoError(t, NewExporter(s).Export(&buf, map[string]string{"lang": "en"}))

	var export ExportFormat
	require.NoError(t, json.Unmarshal(buf.Bytes(), &export))

	assert.Equal(t, ExportVersion, export.Version)
	require.Len(t, export.Entries, 2)
	assert.Equal(t, "a.md", export.Entries[0].Key)
	assert.Equal(t, "b.md", export.Entries[1].Key)
	assert.Equal(t, "en", export.Metadata["lang"])
}

func TestImporter_Import(t *testing.T) {
	doc := `{
		"version": "1.0",
		"exported_at": "2026-01-01T00:00:00Z",
		"entries": [
			{"key": "a.md", "record": {"hash": "h", "model": "m", "translatedTitle": "T", "wrappedContent": "<div></div>"}},
			{"key": "b.md", "record": {"hash": "h"}},
			{"key": "", "record": {"hash": "h", "model": "m", "translatedTitle": "T", "wrappedContent": "x"}}
		]
	}`

	s := NewStore(filepath.Join(t.TempDir(), "cache.json"))
	result, err := NewImporter(s).Import(context.Background(), strings.NewReader(doc))
	require.NoError(t, err)

	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 2, result.Failed)

	rec, ok := s.Get("a.md")
	require.True(t, ok)
	assert.Equal(t, "T", rec.TranslatedTitle)
}

func TestImporter_RejectsUnknownVersion(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"))
	_, err := NewImporter(s).Import(context.Background(), strings.NewReader(`{"version": "9", "entries": []}`))
	assert.Error(t, err)
}

func TestImporter_InvalidJSON(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "cache.json"))
	_, err := NewImporter(s).Import(context.Background(), strings.NewReader("{"))
	assert.Error(t, err)
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	src := NewStore(filepath.Join(dir, "src.json"))
	for i := 0; i < 3; i++ {
		require.NoError(t, src.Save(ctx, filepath.Join("posts", string(rune('a'+i))+".md"), sampleRecord(i)))
	}

	path := filepath.Join(dir, "export.json")
	require.NoError(t, NewExporter(src).ExportToFile(path, nil))

	dst := NewStore(filepath.Join(dir, "dst.json"))
	result, err := NewImporter(dst).ImportFromFile(ctx, path)
	require.NoError(t, err)

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, src.Records(), dst.Records())
}
