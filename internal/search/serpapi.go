package search

import (
	"context"

	"github.com/sells-group/prospector-cli/pkg/serpapi"
)

// serpProvider backs the Provider contract with SerpAPI.
type serpProvider struct {
	client serpapi.Client
}

// NewSerpAPI wraps a SerpAPI client as a Provider.
func NewSerpAPI(client serpapi.Client) Provider {
	return &serpProvider{client: client}
}

func (p *serpProvider) Name() string { return "serpapi" }

func (p *serpProvider) Search(ctx context.Context, query string) ([]Result, error) {
	organic, err := p.client.Search(ctx, query, MaxResults)
	if err != nil {
		return nil, err
	}
	results := make([]Result, 0, len(organic))
	for _, o := range organic {
		results = append(results, Result{
			Title:   o.Title,
			URL:     o.Link,
			Snippet: o.Snippet,
		})
	}
	return results, nil
}
