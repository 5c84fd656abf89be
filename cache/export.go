package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/ZaguanLabs/bilingo"
)

// ExportVersion is the version written into export documents.
const ExportVersion = "1.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version    string            `json:"version"`
	ExportedAt string            `json:"exported_at"`
	Entries    []ExportEntry     `json:"entries"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cached record.
type ExportEntry struct {
	Key    string          `json:"key"`
	Record json.RawMessage `json:"record"`
}

// RecordSource is anything that can list records.
type RecordSource interface {
	Records() map[string]bilingo.Record
}

// Exporter provides cache export functionality.
type Exporter struct {
	source RecordSource
}

// NewExporter creates a new cache exporter.
func NewExporter(source RecordSource) *Exporter {
	return &Exporter{source: source}
}

// Export writes every record to w, sorted by key.
func (e *Exporter) Export(w io.Writer, metadata map[string]string) error {
	records := e.source.Records()

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]ExportEntry, 0, len(keys))
	for _, k := range keys {
		raw, err := json.Marshal(records[k])
		if err != nil {
			return fmt.Errorf("encoding record %s: %w", k, err)
		}
		entries = append(entries, ExportEntry{Key: k, Record: raw})
	}

	export := ExportFormat{
		Version:    ExportVersion,
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Entries:    entries,
		Metadata:   metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}

	return nil
}

// ExportToFile exports the cache to a file.
func (e *Exporter) ExportToFile(path string, metadata map[string]string) error {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(f, metadata)
}

// Importer loads exported records into a store.
type Importer struct {
	store bilingo.CacheStore
}

// NewImporter creates a new cache importer.
func NewImporter(store bilingo.CacheStore) *Importer {
	return &Importer{store: store}
}

// Import reads an export document from r and saves each valid record.
// Invalid records and failed saves are counted, not fatal.
func (i *Importer) Import(ctx context.Context, r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if export.Version != ExportVersion {
		return nil, fmt.Errorf("unsupported export version %q", export.Version)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		if entry.Key == "" {
			result.Failed++
			continue
		}
		rec, err := DecodeRecord(entry.Record)
		if err != nil {
			result.Failed++
			continue
		}
		if err := i.store.Save(ctx, entry.Key, rec); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports records from a file.
func (i *Importer) ImportFromFile(ctx context.Context, path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(ctx, f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Failed   int
}
