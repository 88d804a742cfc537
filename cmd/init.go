package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/prospector-cli/internal/budget"
	"github.com/sells-group/prospector-cli/internal/classify"
	"github.com/sells-group/prospector-cli/internal/pipeline"
	"github.com/sells-group/prospector-cli/internal/resolve"
	"github.com/sells-group/prospector-cli/internal/search"
	"github.com/sells-group/prospector-cli/internal/sink"
	"github.com/sells-group/prospector-cli/internal/store"
	"github.com/sells-group/prospector-cli/internal/validate"
	"github.com/sells-group/prospector-cli/pkg/anthropic"
	"github.com/sells-group/prospector-cli/pkg/notion"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "prospector.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initResolver() (*resolve.Resolver, error) {
	adapter, err := search.New(cfg.Search)
	if err != nil {
		return nil, err
	}
	cache := resolve.OpenCache(cfg.Resolver.CachePath)
	return resolve.NewResolver(cache, adapter, cfg.Resolver.MinScore, cfg.Search.ExtraQuery), nil
}

func initFilter() (*classify.Filter, error) {
	if cfg.Classify.Key == "" {
		return nil, eris.New("classifier requires classify.key (PROSPECTOR_CLASSIFY_KEY)")
	}

	thesis := classify.DefaultThesis()
	if cfg.Classify.ThesisPath != "" {
		t, err := classify.LoadThesis(cfg.Classify.ThesisPath)
		if err != nil {
			return nil, err
		}
		thesis = t
	}

	client := anthropic.NewClient(cfg.Classify.Key)
	return classify.NewFilter(client, cfg.Classify.Model, classify.Mode(cfg.Classify.Mode), thesis), nil
}

func initSink(preview bool) (sink.RowSink, error) {
	if preview {
		return sink.NewPreview(rootCmd.OutOrStdout()), nil
	}

	switch cfg.Sink.Kind {
	case "notion":
		if cfg.Sink.NotionToken == "" || cfg.Sink.NotionDB == "" {
			return nil, eris.New("notion sink requires sink.notion_token and sink.notion_db")
		}
		return sink.NewNotion(notion.NewClient(cfg.Sink.NotionToken), cfg.Sink.NotionDB), nil
	case "xlsx":
		return sink.NewXLSX(cfg.Sink.XLSXPath)
	case "none", "":
		return sink.NewPreview(rootCmd.OutOrStdout()), nil
	default:
		return nil, eris.Errorf("unsupported sink kind: %s", cfg.Sink.Kind)
	}
}

func pipelineOptions() pipeline.Options {
	return pipeline.Options{
		TotalBudget:      time.Duration(cfg.Budget.PerEntitySecs) * time.Second,
		ResolverFraction: cfg.Budget.ResolverFraction,
		Mode:             budget.Mode(cfg.Budget.Mode),
		MaxLiveness:      time.Duration(cfg.Budget.MaxLivenessSecs) * time.Second,
		AllowHTTP:        cfg.Validate.AllowHTTP,
		DropDeadLinks:    cfg.Validate.DropDeadLinks,
		BatchSize:        cfg.Sink.BatchSize,
		Throttle:         time.Duration(cfg.Pipeline.ThrottleMS) * time.Millisecond,
	}
}

func initPipeline(ctx context.Context, preview bool) (*pipeline.Pipeline, store.Store, error) {
	resolver, err := initResolver()
	if err != nil {
		return nil, nil, err
	}
	filter, err := initFilter()
	if err != nil {
		return nil, nil, err
	}
	rows, err := initSink(preview)
	if err != nil {
		return nil, nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, nil, eris.Wrap(err, "migrate store")
	}

	p := pipeline.New(resolver, validate.NewChecker(), filter, rows, st, pipelineOptions())
	return p, st, nil
}
