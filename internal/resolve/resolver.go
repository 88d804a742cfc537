package resolve

import (
	"context"
	"math"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/prospector-cli/internal/search"
)

// Searcher is the capability the resolver needs from the provider layer:
// turn a query into a (possibly empty) result sequence, never an error.
type Searcher interface {
	Search(ctx context.Context, query string) []search.Result
}

// Resolver composes the normalizer, scorer, cache, and search adapter into
// a single resolve(name) operation.
type Resolver struct {
	cache      *Cache
	searcher   Searcher
	minScore   float64
	extraQuery bool
}

// NewResolver creates a Resolver. extraQuery gates the second, broader
// "{name} company" search.
func NewResolver(cache *Cache, searcher Searcher, minScore float64, extraQuery bool) *Resolver {
	return &Resolver{
		cache:      cache,
		searcher:   searcher,
		minScore:   minScore,
		extraQuery: extraQuery,
	}
}

// Resolve maps a raw entity name to its best-scoring website URL, or ""
// when no candidate clears the acceptance threshold. A cache hit, positive
// or negative, short-circuits all provider work. Provider failures degrade
// to "" rather than an error; the only error path is context cancellation,
// in which case no cache entry is written.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, error) {
	if cached, ok := r.cache.Get(name); ok {
		zap.L().Debug("resolve: cache hit",
			zap.String("name", name),
			zap.Bool("negative", cached == Empty),
		)
		return cached, nil
	}

	normalized := Normalize(name)

	queries := []string{name + " official site"}
	if r.extraQuery {
		queries = append(queries, name+" company")
	}

	bestURL := ""
	bestScore := math.Inf(-1)
	for _, q := range queries {
		for _, res := range r.searcher.Search(ctx, q) {
			s := Score(normalized, res.Title, res.URL, res.Snippet)
			zap.L().Debug("resolve: scored candidate",
				zap.String("name", name),
				zap.String("url", res.URL),
				zap.Float64("score", s),
			)
			// Strictly greater: ties keep the first seen.
			if s > bestScore {
				bestScore = s
				bestURL = res.URL
			}
		}
	}

	// An aborted search must not poison the cache with a negative entry.
	if ctx.Err() != nil {
		return "", eris.Wrap(ctx.Err(), "resolve: search aborted")
	}

	if bestURL == "" || bestScore < r.minScore {
		r.cache.Put(name, Empty)
		zap.L().Info("resolve: no candidate met threshold",
			zap.String("name", name),
			zap.Float64("best_score", bestScore),
		)
		return "", nil
	}

	r.cache.Put(name, bestURL)
	zap.L().Info("resolve: selected website",
		zap.String("name", name),
		zap.String("url", bestURL),
		zap.Float64("score", bestScore),
	)
	return bestURL, nil
}
