package search

import (
	"context"

	"github.com/sells-group/prospector-cli/pkg/googlecse"
)

// googleProvider backs the Provider contract with Google Custom Search.
type googleProvider struct {
	client googlecse.Client
}

// NewGoogle wraps a Custom Search client as a Provider.
func NewGoogle(client googlecse.Client) Provider {
	return &googleProvider{client: client}
}

func (p *googleProvider) Name() string { return "google" }

func (p *googleProvider) Search(ctx context.Context, query string) ([]Result, error) {
	items, err := p.client.Search(ctx, query, MaxResults)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(items))
	for _, it := range items {
		results = append(results, Result{
			Title:   it.Title,
			URL:     it.Link,
			Snippet: it.Snippet,
		})
	}
	return results, nil
}
