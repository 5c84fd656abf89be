package bilingo

import (
	"context"

	"github.com/sourcegraph/conc/iter"
)

// Result pairs a processed item with its outcome.
type Result struct {
	Item  ContentItem
	State State
}

// ProcessAll processes items concurrently and returns the results in input
// order. Backend calls stay bounded by the translator's limiter; everything
// else (skips, cache hits) proceeds without waiting for a slot.
func (t *Translator) ProcessAll(ctx context.Context, items []ContentItem) []Result {
	mapper := iter.Mapper[ContentItem, Result]{MaxGoroutines: len(items)}
	return mapper.Map(items, func(item *ContentItem) Result {
		out, state := t.Process(ctx, *item)
		return Result{Item: out, State: state}
	})
}

// Summary counts results by state.
type Summary map[State]int

// Summarize counts results by state.
func Summarize(results []Result) Summary {
	s := make(Summary)
	for _, r := range results {
		s[r.State]++
	}
	return s
}
