package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaguanLabs/bilingo"
	"github.com/rs/zerolog"
)

// readLocal reads the local tier. A missing file yields an empty map.
// Records failing validation are skipped.
func readLocal(path string, log zerolog.Logger) (map[string]bilingo.Record, error) {
	records := make(map[string]bilingo.Record)

	data, err := os.ReadFile(path) // #nosec G304 - path is configured by the site owner
	if err != nil {
		if os.IsNotExist(err) {
			return records, nil
		}
		return records, fmt.Errorf("reading %s: %w", path, err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return records, fmt.Errorf("parsing %s: %w", path, err)
	}

	for key, value := range raw {
		rec, err := DecodeRecord(value)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("dropping invalid local cache record")
			continue
		}
		records[key] = rec
	}

	return records, nil
}

// writeLocal overwrites the local tier with records.
func writeLocal(path string, records map[string]bilingo.Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding cache: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// writeFileAtomic writes data to a temporary sibling of path and renames it
// into place, so readers never observe a partial file.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}

	return nil
}
