package processor

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/bilingo"
	"gopkg.in/yaml.v3"
)

// DefaultManualDir is where hand-written translations live, relative to the
// site root.
const DefaultManualDir = "source/_translations"

// ManualStore loads hand-written translations from Dir. The translation of a
// source file mirrors its relative path under Dir, so _posts/2023/a.md is read
// from Dir/_posts/2023/a.md. When no mirrored file exists the file with the
// same base name directly in Dir is used. Its front matter title replaces the
// translated title and the rest is the translated body.
type ManualStore struct {
	Dir string
}

// NewManualStore creates a ManualStore rooted at dir.
func NewManualStore(dir string) *ManualStore {
	if dir == "" {
		dir = DefaultManualDir
	}
	return &ManualStore{Dir: dir}
}

func (m *ManualStore) path(id string) string {
	rel := filepath.Clean(filepath.FromSlash(id))
	if filepath.IsLocal(rel) {
		if mirrored := filepath.Join(m.Dir, rel); isFile(mirrored) {
			return mirrored
		}
	}
	return filepath.Join(m.Dir, filepath.Base(rel))
}

// Has reports whether a manual translation exists for id.
func (m *ManualStore) Has(id string) bool {
	return isFile(m.path(id))
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// Load reads the manual translation for id.
func (m *ManualStore) Load(id string) (*bilingo.ManualTranslation, error) {
	path := m.path(id)
	data, err := os.ReadFile(path) // #nosec G304 - manual dir is configured by the site owner
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("no manual translation for %s", id)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	text := string(data)
	tr := &bilingo.ManualTranslation{Body: text}

	if loc := frontMatterBlock.FindStringSubmatchIndex(text); loc != nil {
		var fm struct {
			Title string `yaml:"title"`
		}
		if loc[2] >= 0 {
			if err := yaml.Unmarshal([]byte(text[loc[2]:loc[3]]), &fm); err != nil {
				return nil, fmt.Errorf("parsing front matter of %s: %w", path, err)
			}
		}
		tr.Title = fm.Title
		tr.Body = text[loc[1]:]
	}

	tr.Body = strings.TrimSpace(tr.Body)
	return tr, nil
}

var _ bilingo.ManualSource = (*ManualStore)(nil)
