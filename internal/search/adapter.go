package search

import (
	"context"

	"go.uber.org/zap"
)

// Adapter wraps a Provider with the caller-facing contract: a (possibly
// empty) result sequence, never an error. Transport retries live inside
// the provider clients; anything that still fails after retries degrades
// to an empty sequence here.
type Adapter struct {
	provider Provider
}

// NewAdapter wraps a provider.
func NewAdapter(p Provider) *Adapter {
	return &Adapter{provider: p}
}

// Search executes the query and returns at most MaxResults results.
func (a *Adapter) Search(ctx context.Context, query string) []Result {
	results, err := a.provider.Search(ctx, query)
	if err != nil {
		zap.L().Warn("search: provider query failed",
			zap.String("provider", a.provider.Name()),
			zap.String("query", query),
			zap.Error(err),
		)
		return nil
	}
	if len(results) > MaxResults {
		results = results[:MaxResults]
	}
	return results
}
