package search

import (
	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector-cli/internal/config"
	"github.com/sells-group/prospector-cli/pkg/googlecse"
	"github.com/sells-group/prospector-cli/pkg/serpapi"
)

// New builds the configured provider behind an Adapter. Missing credentials
// are fatal to the whole run: the pipeline cannot proceed without a
// working provider.
func New(cfg config.SearchConfig) (*Adapter, error) {
	switch cfg.Provider {
	case "google":
		if cfg.GoogleKey == "" || cfg.GoogleCX == "" {
			return nil, eris.New("search: google provider requires search.google_key and search.google_cx")
		}
		return NewAdapter(NewGoogle(googlecse.NewClient(cfg.GoogleKey, cfg.GoogleCX))), nil
	case "serpapi":
		if cfg.SerpAPIKey == "" {
			return nil, eris.New("search: serpapi provider requires search.serpapi_key")
		}
		return NewAdapter(NewSerpAPI(serpapi.NewClient(cfg.SerpAPIKey))), nil
	default:
		return nil, eris.Errorf("search: unsupported provider: %s", cfg.Provider)
	}
}
