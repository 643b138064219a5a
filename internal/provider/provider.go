// Package provider defines extraction adapters and the orchestrator that
// tries them in priority order.
package provider

import (
	"context"
	"fmt"

	"social-dl/internal/media"
	"social-dl/internal/platform"
)

// Adapter is an external extraction service or library.
type Adapter interface {
	// Name returns a short identifier used in config and logs.
	Name() string

	// Fetch extracts media for url. It must honour ctx cancellation.
	Fetch(ctx context.Context, url string) (*media.RawResult, error)
}

// Table holds the ordered adapters for each platform.
// Order reflects priority: the first entry is tried first.
type Table map[platform.Platform][]Adapter

// Names returns the adapter names configured for p, in order.
func (t Table) Names(p platform.Platform) []string {
	adapters := t[p]
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return names
}

// Build assembles a Table from per-platform adapter names. Unknown names are
// reported; names missing from available (disabled adapters) are skipped.
func Build(order map[platform.Platform][]string, available map[string]Adapter, known map[string]bool) (Table, error) {
	table := make(Table, len(order))
	for p, names := range order {
		for _, name := range names {
			if !known[name] {
				return nil, fmt.Errorf("platform %s: unknown provider %q", p, name)
			}
			a, ok := available[name]
			if !ok {
				continue
			}
			table[p] = append(table[p], a)
		}
	}
	return table, nil
}
