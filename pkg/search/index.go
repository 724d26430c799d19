// Package search provides indicator discovery over the INE catalogue:
// full-text title search, theme filtering, and catalogue listings.
//
// The index is built lazily from the complete catalogue the first time
// it is needed and memoized for the lifetime of the [Index]; nothing is
// persisted to disk. The catalogue fetch itself is served through the
// regular catalogue client and its cache.
package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/tmcosta/goine/pkg/ine"
)

// Source fetches the complete indicator universe. It is expected to be
// backed by the catalogue client's complete mode.
type Source func(ctx context.Context) ([]ine.Indicator, error)

// Index is an in-memory catalogue index. Safe for use from multiple
// goroutines sharing one client instance.
type Index struct {
	source Source

	mu         sync.Mutex
	indicators []ine.Indicator
	built      bool
}

// New creates an index over the given catalogue source.
func New(source Source) *Index {
	return &Index{source: source}
}

// All returns the full indicator universe, fetching the complete
// catalogue on first use.
func (i *Index) All(ctx context.Context) ([]ine.Indicator, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if !i.built {
		indicators, err := i.source(ctx)
		if err != nil {
			return nil, err
		}
		i.indicators = indicators
		i.built = true
	}
	out := make([]ine.Indicator, len(i.indicators))
	copy(out, i.indicators)
	return out, nil
}

// Invalidate drops the memoized catalogue so the next call rebuilds it.
func (i *Index) Invalidate() {
	i.mu.Lock()
	i.built = false
	i.indicators = nil
	i.mu.Unlock()
}

// match pairs an indicator with its ranking key.
type match struct {
	ind ine.Indicator
	pos int
}

// Search returns the indicators whose title contains query,
// case-insensitively, ordered by the position of the first match and
// then by indicator code. An empty query returns the full catalogue.
func (i *Index) Search(ctx context.Context, query string) ([]ine.Indicator, error) {
	all, err := i.All(ctx)
	if err != nil {
		return nil, err
	}
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return all, nil
	}

	var matches []match
	for _, ind := range all {
		if pos := strings.Index(strings.ToLower(ind.Title), q); pos >= 0 {
			matches = append(matches, match{ind: ind, pos: pos})
		}
	}
	sort.Slice(matches, func(a, b int) bool {
		if matches[a].pos != matches[b].pos {
			return matches[a].pos < matches[b].pos
		}
		return matches[a].ind.Code < matches[b].ind.Code
	})

	out := make([]ine.Indicator, len(matches))
	for n, m := range matches {
		out[n] = m.ind
	}
	return out, nil
}

// FilterByTheme returns the indicators whose theme equals theme or
// starts with it, case-insensitively.
func (i *Index) FilterByTheme(ctx context.Context, theme string) ([]ine.Indicator, error) {
	all, err := i.All(ctx)
	if err != nil {
		return nil, err
	}
	t := strings.ToLower(strings.TrimSpace(theme))
	var out []ine.Indicator
	for _, ind := range all {
		if strings.HasPrefix(strings.ToLower(ind.Theme), t) {
			out = append(out, ind)
		}
	}
	return out, nil
}

// ByCode looks an indicator up in the catalogue index.
func (i *Index) ByCode(ctx context.Context, code string) (*ine.Indicator, bool, error) {
	all, err := i.All(ctx)
	if err != nil {
		return nil, false, err
	}
	for _, ind := range all {
		if ind.Code == code {
			return &ind, true, nil
		}
	}
	return nil, false, nil
}

// Themes returns the sorted set of distinct themes in the catalogue.
func (i *Index) Themes(ctx context.Context) ([]string, error) {
	all, err := i.All(ctx)
	if err != nil {
		return nil, err
	}
	return distinct(all, func(ind ine.Indicator) string { return ind.Theme }), nil
}

// Subthemes returns the sorted set of distinct subthemes, optionally
// restricted to one theme ("" for all).
func (i *Index) Subthemes(ctx context.Context, theme string) ([]string, error) {
	all, err := i.All(ctx)
	if err != nil {
		return nil, err
	}
	if theme != "" {
		filtered, err := i.FilterByTheme(ctx, theme)
		if err != nil {
			return nil, err
		}
		all = filtered
	}
	return distinct(all, func(ind ine.Indicator) string { return ind.Subtheme }), nil
}

// RecentlyUpdated returns up to limit indicators ordered by last update,
// most recent first. Indicators without an update date are skipped.
func (i *Index) RecentlyUpdated(ctx context.Context, limit int) ([]ine.Indicator, error) {
	all, err := i.All(ctx)
	if err != nil {
		return nil, err
	}
	var dated []ine.Indicator
	for _, ind := range all {
		if ind.LastUpdate != nil {
			dated = append(dated, ind)
		}
	}
	sort.Slice(dated, func(a, b int) bool {
		return dated[a].LastUpdate.After(*dated[b].LastUpdate)
	})
	if limit > 0 && len(dated) > limit {
		dated = dated[:limit]
	}
	return dated, nil
}

func distinct(indicators []ine.Indicator, field func(ine.Indicator) string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, ind := range indicators {
		if v := field(ind); v != "" && !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	sort.Strings(out)
	return out
}
