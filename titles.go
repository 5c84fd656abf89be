package bilingo

import (
	"sort"
	"sync"
)

// TitleRegistry collects title pairs of items translated during this run,
// in the order they were added.
type TitleRegistry struct {
	mu    sync.Mutex
	pairs []TitlePair
	seen  map[string]bool
}

// NewTitleRegistry creates an empty registry.
func NewTitleRegistry() *TitleRegistry {
	return &TitleRegistry{seen: make(map[string]bool)}
}

// Add records a pair. Pairs with an empty side or an already known original
// title are ignored.
func (r *TitleRegistry) Add(p TitlePair) {
	if p.Original == "" || p.Translated == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.seen[p.Original] {
		return
	}
	r.seen[p.Original] = true
	r.pairs = append(r.pairs, p)
}

// Pairs returns the registered pairs in insertion order.
func (r *TitleRegistry) Pairs() []TitlePair {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]TitlePair, len(r.pairs))
	copy(out, r.pairs)
	return out
}

// MergeTitlePairs returns pairs followed by the title pairs of cached records
// whose original title is not already present. Cached pairs are ordered by
// record key.
func MergeTitlePairs(pairs []TitlePair, records map[string]Record) []TitlePair {
	seen := make(map[string]bool, len(pairs))
	out := make([]TitlePair, 0, len(pairs)+len(records))
	for _, p := range pairs {
		seen[p.Original] = true
		out = append(out, p)
	}

	keys := make([]string, 0, len(records))
	for k := range records {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		rec := records[k]
		if rec.OriginalTitle == "" || rec.TranslatedTitle == "" || seen[rec.OriginalTitle] {
			continue
		}
		seen[rec.OriginalTitle] = true
		out = append(out, TitlePair{Original: rec.OriginalTitle, Translated: rec.TranslatedTitle})
	}
	return out
}
