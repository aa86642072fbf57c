package usecase

import (
	"context"
	"time"

	"VolSentry/internal/domain/models"
	domrepo "VolSentry/internal/domain/repository"
	"VolSentry/internal/engine"
	"VolSentry/pkg/cache"
	xlogger "VolSentry/pkg/logger"
)

// Evaluator runs the full fusion pipeline for one poll tick: signals →
// calendar overlay → composite verdict → risk budget, with the structure
// ranking computed off the same snapshot. The engine components are pure;
// this layer owns the reference-state lifecycle and the collaborator seams
// (report publishing, latest-report cache, metrics).
type Evaluator struct {
	calc       *engine.SignalCalculator
	overlay    *engine.CalendarOverlay
	classifier *engine.CompositeClassifier
	sizer      *engine.RiskBudgetSizer
	selector   *engine.StructureSelector

	refs      *ReferenceRegistry
	logger    *xlogger.Logger
	metrics   domrepo.Metrics
	publisher domrepo.Publisher
	cache     cache.Service
	cacheTTL  time.Duration
}

func NewEvaluator(
	calc *engine.SignalCalculator,
	overlay *engine.CalendarOverlay,
	classifier *engine.CompositeClassifier,
	sizer *engine.RiskBudgetSizer,
	selector *engine.StructureSelector,
	refs *ReferenceRegistry,
	logger *xlogger.Logger,
	metrics domrepo.Metrics,
	publisher domrepo.Publisher,
	reportCache cache.Service,
	cacheTTL time.Duration,
) *Evaluator {
	return &Evaluator{
		calc:       calc,
		overlay:    overlay,
		classifier: classifier,
		sizer:      sizer,
		selector:   selector,
		refs:       refs,
		logger:     logger,
		metrics:    metrics,
		publisher:  publisher,
		cache:      reportCache,
		cacheTTL:   cacheTTL,
	}
}

// EvaluateParams carries one poll tick's inputs, all pre-fetched by upstream
// collaborators.
type EvaluateParams struct {
	Symbol   string
	Snapshot models.MarketSnapshot
	Credit   *models.CreditQuad
	Date     time.Time
	Intraday bool
	Capital  float64
	// IVRankOverride replaces the snapshot's iv_rank when set.
	IVRankOverride *float64
}

// Evaluate produces the full decision report for one symbol. The core math
// cannot fail; the context only bounds the publish/cache side effects.
func (e *Evaluator) Evaluate(ctx context.Context, p EvaluateParams) *models.DecisionReport {
	start := time.Now()
	if p.Date.IsZero() {
		p.Date = start.UTC()
	}

	e.refs.SeedBaseline(p.Symbol, p.Snapshot, p.Date)
	ref := e.refs.Get(p.Symbol)

	signals := e.calc.ComputeSignals(p.Symbol, p.Snapshot, ref)
	if p.Credit != nil {
		for key, rec := range e.calc.ComputeCreditSignal(p.Credit.A, p.Credit.B, p.Credit.APrev, p.Credit.BPrev) {
			signals[key] = rec
		}
	}

	calendar := e.overlay.ComputeOverlay(p.Date)
	composite := e.classifier.Classify(signals, calendar, p.Intraday)
	core, wing, funding, momentum, groupsFiring := e.classifier.GroupCounts(signals, calendar)

	risk := e.sizer.ComputeBudget(engine.BudgetParams{
		CoreCount:        core,
		Composite:        composite.Composite(),
		GroupsFiring:     groupsFiring,
		WingCount:        wing,
		FundingCount:     funding,
		MomentumCount:    momentum,
		CapitalOverride:  p.Capital,
		CalendarModifier: calendar.Modifier,
	})

	ivRank := -1.0
	if p.IVRankOverride != nil {
		ivRank = *p.IVRankOverride
	}
	structures := e.selector.Rank(p.Snapshot, core, ivRank)

	report := &models.DecisionReport{
		Symbol:     p.Symbol,
		Timestamp:  start.UTC(),
		Intraday:   p.Intraday,
		Signals:    signals,
		Calendar:   calendar,
		Composite:  composite,
		Risk:       risk,
		Structures: structures,
	}

	e.observe(ctx, report)
	return report
}

// SetBaseline resets a symbol's session baseline (orchestrator lifecycle).
func (e *Evaluator) SetBaseline(symbol string, snapshot models.MarketSnapshot, at time.Time) {
	e.refs.SetBaseline(symbol, snapshot, at)
}

// SetPreviousDay resets a symbol's previous-day reference.
func (e *Evaluator) SetPreviousDay(symbol string, snapshot models.MarketSnapshot, at time.Time) {
	e.refs.SetPreviousDay(symbol, snapshot, at)
}

// Calendar computes the calendar overlay for an arbitrary date without
// touching market data.
func (e *Evaluator) Calendar(d time.Time) models.CalendarContext {
	return e.overlay.ComputeOverlay(d)
}

// RankStructures scores the structure catalog off a snapshot without running
// the full pipeline.
func (e *Evaluator) RankStructures(snapshot models.MarketSnapshot, coreCount int, ivRankOverride float64) []models.StructureScore {
	return e.selector.Rank(snapshot, coreCount, ivRankOverride)
}

// Latest returns the most recent cached report for a symbol, if any.
func (e *Evaluator) Latest(ctx context.Context, symbol string) (*models.DecisionReport, bool) {
	if e.cache == nil {
		return nil, false
	}
	var report models.DecisionReport
	if err := e.cache.Get(ctx, reportKey(symbol), &report); err != nil {
		return nil, false
	}
	return &report, true
}

// observe records metrics, logs firing state, publishes and caches the
// report. All side effects are best-effort; a broken collaborator never
// blocks the decision path.
func (e *Evaluator) observe(ctx context.Context, report *models.DecisionReport) {
	if e.metrics != nil {
		e.metrics.RecordEvaluation(report.Symbol, time.Since(report.Timestamp).Seconds())
		for key, rec := range report.Signals {
			e.metrics.RecordSignalLevel(key, rec.Level.String())
		}
		if name := report.Composite.Composite(); name != "" {
			e.metrics.RecordComposite(name)
		}
		e.metrics.RecordRiskBudget(report.Symbol, report.Risk.RiskBudget)
	}

	if e.logger != nil {
		if name := report.Composite.Composite(); name != "" {
			e.logger.Info("composite verdict",
				xlogger.String("symbol", report.Symbol),
				xlogger.String("composite", name),
				xlogger.Int("tier1_firing", len(report.Composite.Tier1Firing)),
				xlogger.Float64("risk_budget", report.Risk.RiskBudget),
				xlogger.String("strength", report.Risk.Strength.String()),
			)
		} else {
			e.logger.Debug("no verdict",
				xlogger.String("symbol", report.Symbol),
				xlogger.Int("tier1_firing", len(report.Composite.Tier1Firing)),
				xlogger.String("calendar", report.Calendar.Label),
			)
		}
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, reportKey(report.Symbol), report, e.cacheTTL); err != nil {
			e.recordError("cache", err)
		}
	}

	if e.publisher != nil {
		if err := e.publisher.Publish(ctx, report); err != nil {
			e.recordError("publish", err)
		}
	}
}

func (e *Evaluator) recordError(kind string, err error) {
	if e.metrics != nil {
		e.metrics.RecordError(kind)
	}
	if e.logger != nil {
		e.logger.Warn(kind+" failed", xlogger.Error(err))
	}
}

func reportKey(symbol string) string { return "report:" + symbol }
