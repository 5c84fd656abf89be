package cache

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZaguanLabs/bilingo"
)

// TitlesFile is the name of the title pair file kept beside the cache file.
const TitlesFile = "titles.json"

// TitlesPath returns the title pair file for the cache file at cachePath.
func TitlesPath(cachePath string) string {
	if cachePath == "" {
		cachePath = DefaultPath
	}
	return filepath.Join(filepath.Dir(cachePath), TitlesFile)
}

// WriteTitlePairs replaces the file at path with pairs. Manual translations
// are never cached, so this file is how their titles reach a later inject run.
func WriteTitlePairs(path string, pairs []bilingo.TitlePair) error {
	if pairs == nil {
		pairs = []bilingo.TitlePair{}
	}
	data, err := json.MarshalIndent(pairs, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding title pairs: %w", err)
	}
	return writeFileAtomic(path, append(data, '\n'))
}

// ReadTitlePairs reads pairs written by WriteTitlePairs. A missing file
// yields no pairs.
func ReadTitlePairs(path string) ([]bilingo.TitlePair, error) {
	data, err := os.ReadFile(path) // #nosec G304 - path derives from the configured cache path
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var pairs []bilingo.TitlePair
	if err := json.Unmarshal(data, &pairs); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return pairs, nil
}
