package pipeline

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/prospector-cli/internal/budget"
	"github.com/sells-group/prospector-cli/internal/classify"
	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/internal/resolve"
	"github.com/sells-group/prospector-cli/internal/search"
	"github.com/sells-group/prospector-cli/internal/sink"
	"github.com/sells-group/prospector-cli/internal/source"
	"github.com/sells-group/prospector-cli/internal/store"
	"github.com/sells-group/prospector-cli/internal/validate"
	"github.com/sells-group/prospector-cli/pkg/anthropic"
)

type fakeSearcher struct {
	results []search.Result
	delay   time.Duration
}

func (f *fakeSearcher) Search(ctx context.Context, _ string) []search.Result {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil
		}
	}
	return f.results
}

type fakeClassifier struct {
	text string
	err  error
}

func (f *fakeClassifier) CreateMessage(_ context.Context, _ anthropic.MessageRequest) (*anthropic.MessageResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &anthropic.MessageResponse{Text: f.text}, nil
}

type collectSink struct {
	batches [][]sink.Row
}

func (c *collectSink) Append(_ context.Context, rows []sink.Row) error {
	c.batches = append(c.batches, rows)
	return nil
}

func (c *collectSink) rows() []sink.Row {
	var out []sink.Row
	for _, b := range c.batches {
		out = append(out, b...)
	}
	return out
}

type testEnv struct {
	searcher   *fakeSearcher
	classifier *fakeClassifier
	rows       *collectSink
	opts       Options
	store      store.Store
}

func newPipeline(t *testing.T, env testEnv) *Pipeline {
	t.Helper()

	cache := resolve.OpenCache(filepath.Join(t.TempDir(), "cache.json"))
	// The acceptance threshold is calibrated for real hosts; loopback test
	// servers score low on host similarity, so accept everything.
	resolver := resolve.NewResolver(cache, env.searcher, -1000, true)

	classifier := env.classifier
	if classifier == nil {
		classifier = &fakeClassifier{text: `{"include": true, "industry_short": "HVAC Services"}`}
	}
	filter := classify.NewFilter(classifier, "test-model", classify.ModeStrict, nil)

	if env.opts.Throttle == 0 {
		env.opts.Throttle = time.Millisecond
	}
	env.opts.AllowHTTP = true

	return New(resolver, validate.NewChecker(), filter, env.rows, env.store, env.opts)
}

func liveServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(server.Close)
	return server
}

func deadServer(t *testing.T) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(server.Close)
	return server
}

func TestProcessIncluded(t *testing.T) {
	server := liveServer(t)

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme HVAC", URL: server.URL, Snippet: "Heating and cooling."},
		}},
		rows: &collectSink{},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Acme HVAC Services LLC"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionIncluded, d.Status)
	assert.Equal(t, server.URL, d.URL)
	assert.Equal(t, "HVAC Services", d.Industry)
	assert.False(t, d.LinkDead)
	assert.Greater(t, d.Elapsed, time.Duration(0))
}

func TestProcessNoCandidate(t *testing.T) {
	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{},
		rows:     &collectSink{},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Ghost Consulting"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonNoCandidateFound, d.Reason)
}

func TestProcessInvalidScheme(t *testing.T) {
	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Contact Acme", URL: "mailto:info@acmehvac.com"},
		}},
		rows: &collectSink{},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Acme HVAC"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonInvalidURLScheme, d.Reason)
	assert.Equal(t, "mailto:info@acmehvac.com", d.URL, "the rejected url is recorded")
}

func TestProcessBlacklistedDomain(t *testing.T) {
	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme HVAC | LinkedIn", URL: "https://www.linkedin.com/company/acme-hvac"},
		}},
		rows: &collectSink{},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Acme HVAC"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonBlacklistedDomain, d.Reason)
}

func TestProcessDeadLinkDropped(t *testing.T) {
	server := deadServer(t)

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme HVAC", URL: server.URL},
		}},
		rows: &collectSink{},
		opts: Options{DropDeadLinks: true},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Acme HVAC"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonDeadLink, d.Reason)
}

func TestProcessDeadLinkKeptWhenNotDropping(t *testing.T) {
	server := deadServer(t)

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme HVAC", URL: server.URL},
		}},
		rows: &collectSink{},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Acme HVAC"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionIncluded, d.Status)
	assert.True(t, d.LinkDead)
	assert.Equal(t, server.URL, d.URL, "a dead link keeps the pre-probe url")
}

func TestProcessClassifierExcluded(t *testing.T) {
	server := liveServer(t)

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme Tickets", URL: server.URL},
		}},
		classifier: &fakeClassifier{text: `{"include": false, "industry_short": "Event Ticketing"}`},
		rows:       &collectSink{},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Acme Tickets"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonClassifierExcluded, d.Reason)
}

func TestProcessClassificationFailureStrict(t *testing.T) {
	server := liveServer(t)

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme HVAC", URL: server.URL},
		}},
		classifier: &fakeClassifier{err: eris.New("api unavailable")},
		rows:       &collectSink{},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Acme HVAC"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonClassificationFailure, d.Reason)
}

func TestProcessHardResolutionTimeout(t *testing.T) {
	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{delay: 2 * time.Second},
		rows:     &collectSink{},
		opts: Options{
			TotalBudget:      200 * time.Millisecond,
			ResolverFraction: 0.5,
			Mode:             budget.ModeHard,
		},
	})

	start := time.Now()
	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Slow Co"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonResolutionTimeout, d.Reason)
	assert.Less(t, time.Since(start), time.Second, "hard mode pre-empts the slow search")
}

func TestProcessSoftResolutionTimeout(t *testing.T) {
	server := liveServer(t)

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{
			results: []search.Result{{Title: "Slow Co", URL: server.URL}},
			delay:   80 * time.Millisecond,
		},
		rows: &collectSink{},
		opts: Options{
			TotalBudget:      100 * time.Millisecond,
			ResolverFraction: 0.5,
			Mode:             budget.ModeSoft,
		},
	})

	d, err := p.Process(context.Background(), model.CompanyRecord{Name: "Slow Co"})
	require.NoError(t, err)
	assert.Equal(t, model.DispositionSkipped, d.Status)
	assert.Equal(t, model.ReasonResolutionTimeout, d.Reason)
	assert.Equal(t, server.URL, d.URL, "soft overrun still records the resolved url")
}

func TestRunBatchesAndSummary(t *testing.T) {
	server := liveServer(t)

	rows := &collectSink{}
	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme HVAC", URL: server.URL},
		}},
		rows: rows,
		opts: Options{BatchSize: 2},
	})

	src := source.NewStatic("Acme HVAC", "Beta Plumbing", "Gamma Electric")
	summary, err := p.Run(context.Background(), src, "static")
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 3, summary.Included)
	require.Len(t, rows.batches, 2, "two rows flush at the batch size, one at the end")
	assert.Len(t, rows.rows(), 3)
}

func TestRunRecordsDispositions(t *testing.T) {
	server := liveServer(t)

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	defer st.Close()
	require.NoError(t, st.Migrate(context.Background()))

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{results: []search.Result{
			{Title: "Acme HVAC", URL: server.URL},
		}},
		rows:  &collectSink{},
		store: st,
	})

	_, err = p.Run(context.Background(), source.NewStatic("Acme HVAC"), "static")
	require.NoError(t, err)

	runs, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, model.RunStatusComplete, runs[0].Status)
	require.NotNil(t, runs[0].Summary)
	assert.Equal(t, 1, runs[0].Summary.Processed)

	dispositions, err := st.ListDispositions(context.Background(), runs[0].ID)
	require.NoError(t, err)
	require.Len(t, dispositions, 1)
	assert.Equal(t, model.DispositionIncluded, dispositions[0].Status)
}

func TestRunCancelledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPipeline(t, testEnv{
		searcher: &fakeSearcher{},
		rows:     &collectSink{},
	})

	_, err := p.Run(ctx, source.NewStatic("Acme HVAC"), "static")
	require.Error(t, err)
}
