// Package search defines the provider-polymorphic web search capability
// used by the website resolver.
package search

import "context"

// MaxResults caps how many results a single query may yield.
const MaxResults = 10

// Result is one ephemeral search hit. Never persisted.
type Result struct {
	Title   string
	URL     string
	Snippet string
}

// Provider turns a query string into up to MaxResults results. One
// implementation per backend, selected at configuration time.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string) ([]Result, error)
}
