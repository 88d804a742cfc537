// Package pipeline drives each entity through resolution, validation, and
// classification under its wall-clock budget, emitting one disposition per
// entity.
package pipeline

import (
	"context"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/sells-group/prospector-cli/internal/budget"
	"github.com/sells-group/prospector-cli/internal/classify"
	"github.com/sells-group/prospector-cli/internal/model"
	"github.com/sells-group/prospector-cli/internal/resolve"
	"github.com/sells-group/prospector-cli/internal/sink"
	"github.com/sells-group/prospector-cli/internal/source"
	"github.com/sells-group/prospector-cli/internal/store"
	"github.com/sells-group/prospector-cli/internal/validate"
)

// Options configures orchestrator behavior.
type Options struct {
	TotalBudget      time.Duration // per-entity wall-clock allowance
	ResolverFraction float64       // share of the total given to resolution
	Mode             budget.Mode   // hard or soft deadline enforcement
	MaxLiveness      time.Duration // cap on the validation allowance
	AllowHTTP        bool
	DropDeadLinks    bool
	BatchSize        int           // sink flush threshold
	Throttle         time.Duration // pause between entities
}

func (o Options) withDefaults() Options {
	if o.TotalBudget <= 0 {
		o.TotalBudget = 15 * time.Second
	}
	if o.ResolverFraction <= 0 || o.ResolverFraction > 1 {
		o.ResolverFraction = 0.65
	}
	if o.Mode == "" {
		o.Mode = budget.ModeHard
	}
	if o.MaxLiveness <= 0 {
		o.MaxLiveness = 10 * time.Second
	}
	if o.BatchSize <= 0 {
		o.BatchSize = 50
	}
	if o.Throttle <= 0 {
		o.Throttle = 30 * time.Millisecond
	}
	return o
}

// Pipeline orchestrates the per-entity stage sequence. Entities are
// processed strictly one at a time; the only concurrency is the hard
// deadline race inside a stage.
type Pipeline struct {
	resolver *resolve.Resolver
	checker  *validate.Checker
	filter   *classify.Filter
	rows     sink.RowSink
	store    store.Store
	opts     Options
}

// New creates a Pipeline. store may be nil to skip run accounting.
func New(resolver *resolve.Resolver, checker *validate.Checker, filter *classify.Filter, rows sink.RowSink, st store.Store, opts Options) *Pipeline {
	return &Pipeline{
		resolver: resolver,
		checker:  checker,
		filter:   filter,
		rows:     rows,
		store:    st,
		opts:     opts.withDefaults(),
	}
}

// Run drains the source, recording dispositions and flushing accepted rows
// in batches. Per-entity failures degrade to skips; the returned error is
// reserved for cancellation, a broken source, or a sink failure (surfaced
// after the run so prior dispositions are not lost).
func (p *Pipeline) Run(ctx context.Context, src source.Source, sourceName string) (*model.RunSummary, error) {
	var runID string
	if p.store != nil {
		run, err := p.store.CreateRun(ctx, sourceName)
		if err != nil {
			return nil, eris.Wrap(err, "pipeline: create run")
		}
		runID = run.ID
	}

	limiter := rate.NewLimiter(rate.Every(p.opts.Throttle), 1)
	summary := &model.RunSummary{}
	var batch []sink.Row
	var sinkErr error

	for {
		rec, ok, err := src.Next(ctx)
		if err != nil {
			p.completeRun(runID, model.RunStatusFailed, *summary)
			return summary, eris.Wrap(err, "pipeline: read source")
		}
		if !ok {
			break
		}

		if err := limiter.Wait(ctx); err != nil {
			p.completeRun(runID, model.RunStatusFailed, *summary)
			return summary, eris.Wrap(err, "pipeline: throttle")
		}

		d, err := p.Process(ctx, rec)
		if err != nil {
			p.completeRun(runID, model.RunStatusFailed, *summary)
			return summary, err
		}

		summary.Record(d)
		p.recordDisposition(runID, d)

		if d.Status == model.DispositionIncluded {
			batch = append(batch, sink.Row{Name: d.Name, Industry: d.Industry, URL: d.URL})
			if len(batch) >= p.opts.BatchSize {
				if err := p.rows.Append(ctx, batch); err != nil && sinkErr == nil {
					sinkErr = err
				}
				batch = nil
			}
		}
	}

	if len(batch) > 0 {
		if err := p.rows.Append(ctx, batch); err != nil && sinkErr == nil {
			sinkErr = err
		}
	}

	p.completeRun(runID, model.RunStatusComplete, *summary)

	zap.L().Info("pipeline: run finished",
		zap.Int("processed", summary.Processed),
		zap.Int("resolved", summary.Resolved),
		zap.Int("no_site", summary.NoSite),
		zap.Int("dead_skipped", summary.DeadSkipped),
		zap.Int("included", summary.Included),
	)

	if sinkErr != nil {
		return summary, eris.Wrap(sinkErr, "pipeline: sink append")
	}
	return summary, nil
}

// Process drives one entity through RESOLVING, VALIDATING, CLASSIFYING to
// its disposition. The returned error is non-nil only when the parent
// context is cancelled; every per-entity condition becomes a skip.
func (p *Pipeline) Process(ctx context.Context, rec model.CompanyRecord) (model.Disposition, error) {
	b := budget.New(p.opts.TotalBudget)
	resolverAllowance := time.Duration(float64(p.opts.TotalBudget) * p.opts.ResolverFraction)

	// RESOLVING
	url, err := budget.RunWithDeadline(ctx, p.opts.Mode, resolverAllowance, func(ctx context.Context) (string, error) {
		return p.resolver.Resolve(ctx, rec.Name)
	})
	switch {
	case errors.Is(err, budget.ErrDeadlineExceeded):
		return p.skip(rec, b, model.ReasonResolutionTimeout, ""), nil
	case err != nil:
		return model.Disposition{}, err
	}

	if url == "" {
		return p.skip(rec, b, model.ReasonNoCandidateFound, ""), nil
	}

	// Soft mode cannot pre-empt; overrun is detected here, at the stage
	// boundary.
	if p.opts.Mode == budget.ModeSoft && b.Elapsed() > resolverAllowance {
		return p.skip(rec, b, model.ReasonResolutionTimeout, url), nil
	}

	// VALIDATING
	normalized, nerr := validate.NormalizeURL(url, p.opts.AllowHTTP)
	if nerr != nil {
		zap.L().Debug("pipeline: candidate url rejected",
			zap.String("name", rec.Name),
			zap.String("url", url),
			zap.Error(nerr),
		)
		return p.skip(rec, b, model.ReasonInvalidURLScheme, url), nil
	}

	if resolve.IsBlockedDomain(normalized) {
		return p.skip(rec, b, model.ReasonBlacklistedDomain, normalized), nil
	}

	liveAllowance := b.Remaining()
	if liveAllowance > p.opts.MaxLiveness {
		liveAllowance = p.opts.MaxLiveness
	}
	if liveAllowance < time.Second {
		liveAllowance = time.Second
	}

	probe, err := budget.RunWithDeadline(ctx, p.opts.Mode, liveAllowance, func(ctx context.Context) (validate.LiveResult, error) {
		return p.checker.CheckLive(ctx, normalized, liveAllowance), nil
	})
	switch {
	case errors.Is(err, budget.ErrDeadlineExceeded):
		return p.skip(rec, b, model.ReasonLivenessTimeout, normalized), nil
	case err != nil:
		return model.Disposition{}, err
	}

	if p.opts.Mode == budget.ModeSoft && b.Exceeded() {
		return p.skip(rec, b, model.ReasonLivenessTimeout, normalized), nil
	}

	finalURL := normalized
	linkDead := false
	if probe.Live {
		finalURL = probe.FinalURL
	} else {
		if p.opts.DropDeadLinks {
			return p.skip(rec, b, model.ReasonDeadLink, normalized), nil
		}
		// Passed through with the dead status noted; there is no redirect
		// target to prefer over the pre-probe URL.
		linkDead = true
	}

	// CLASSIFYING
	decision, cerr := p.filter.Decide(ctx, rec.Name, finalURL)
	if !decision.Include {
		reason := model.ReasonClassifierExcluded
		if cerr != nil {
			reason = model.ReasonClassificationFailure
		}
		return p.skip(rec, b, reason, finalURL), nil
	}

	d := model.Disposition{
		Name:     rec.Name,
		Status:   model.DispositionIncluded,
		URL:      finalURL,
		Industry: decision.Industry,
		LinkDead: linkDead,
		Elapsed:  b.Elapsed(),
	}
	zap.L().Info("pipeline: entity included",
		zap.String("name", d.Name),
		zap.String("url", d.URL),
		zap.String("industry", d.Industry),
		zap.Duration("elapsed", d.Elapsed),
	)
	return d, nil
}

func (p *Pipeline) skip(rec model.CompanyRecord, b *budget.Budget, reason model.SkipReason, url string) model.Disposition {
	d := model.Disposition{
		Name:    rec.Name,
		Status:  model.DispositionSkipped,
		Reason:  reason,
		URL:     url,
		Elapsed: b.Elapsed(),
	}
	zap.L().Info("pipeline: entity skipped",
		zap.String("name", d.Name),
		zap.String("reason", string(reason)),
		zap.String("url", url),
		zap.Duration("elapsed", d.Elapsed),
	)
	return d
}

func (p *Pipeline) recordDisposition(runID string, d model.Disposition) {
	if p.store == nil {
		return
	}
	// Recording runs on a background context so a cancelled run still
	// keeps the dispositions computed before the cancellation.
	if err := p.store.RecordDisposition(context.Background(), runID, d); err != nil {
		zap.L().Warn("pipeline: record disposition failed",
			zap.String("name", d.Name),
			zap.Error(err),
		)
	}
}

func (p *Pipeline) completeRun(runID string, status model.RunStatus, summary model.RunSummary) {
	if p.store == nil || runID == "" {
		return
	}
	if err := p.store.CompleteRun(context.Background(), runID, status, summary); err != nil {
		zap.L().Warn("pipeline: complete run failed",
			zap.String("run_id", runID),
			zap.Error(err),
		)
	}
}
