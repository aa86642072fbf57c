package usecase

import (
	"context"
	"testing"
	"time"

	"VolSentry/internal/domain/models"
	"VolSentry/internal/engine"
	"VolSentry/pkg/cache"
	"VolSentry/pkg/config"
)

func newTestEvaluator(t *testing.T, reportCache cache.Service) *Evaluator {
	t.Helper()
	cfg := config.Default()
	return NewEvaluator(
		engine.NewSignalCalculator(cfg.Engine),
		engine.NewCalendarOverlay(cfg.Engine.Calendar),
		engine.NewCompositeClassifier(cfg.Engine.Composite),
		engine.NewRiskBudgetSizer(cfg.Engine.Risk, cfg.Engine.Capital),
		engine.NewStructureSelector(cfg.Engine.Structures),
		NewReferenceRegistry(),
		nil, nil, nil,
		reportCache, time.Minute,
	)
}

// fearSnapshot crosses the action bound on all five core signals.
func fearSnapshot() models.MarketSnapshot {
	return models.MarketSnapshot{
		models.KeySkew25D1M:  10, // skew_spread 4.0
		models.KeySkew25D3M:  6,
		models.KeyIV1M:       30, // risk_premium 10
		models.KeyRV5D:       20,
		models.KeySkew25D1W:  8,  // near_skew
		models.KeyTermSlope:  -1, // contango inverted
		models.KeyCreditAChg: -0.5,
		models.KeyCreditBChg: 0.1, // credit_spread -0.6
	}
}

func TestEvaluateFullPipeline(t *testing.T) {
	e := newTestEvaluator(t, nil)
	report := e.Evaluate(context.Background(), EvaluateParams{
		Symbol:   "SPY",
		Snapshot: fearSnapshot(),
		Date:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC), // quiet calendar
	})

	if len(report.Signals) != 19 {
		t.Fatalf("got %d signals, want 19", len(report.Signals))
	}
	if report.Calendar.Label != models.CalendarNormal {
		t.Fatalf("calendar = %s, want NORMAL", report.Calendar.Label)
	}
	if got := report.Composite.Composite(); got != models.CompositeFearBounceStrong {
		t.Fatalf("composite = %q, want FEAR_BOUNCE_STRONG", got)
	}
	if report.Risk.RiskBudget <= 0 {
		t.Fatalf("risk budget = %v, want positive", report.Risk.RiskBudget)
	}
	if len(report.Structures) != 5 {
		t.Fatalf("got %d structures, want 5", len(report.Structures))
	}
}

func TestEvaluateMergesCreditQuad(t *testing.T) {
	e := newTestEvaluator(t, nil)
	snap := fearSnapshot()
	delete(snap, models.KeyCreditAChg)
	delete(snap, models.KeyCreditBChg)

	report := e.Evaluate(context.Background(), EvaluateParams{
		Symbol:   "SPY",
		Snapshot: snap,
		Credit:   &models.CreditQuad{A: 98, B: 100.5, APrev: 100, BPrev: 100},
		Date:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})

	rec := report.Signals["credit_spread"]
	if rec.Level != models.LevelAction {
		t.Fatalf("credit quad not merged: %v/%s", rec.Value, rec.Level)
	}
	if len(report.Signals) != 19 {
		t.Fatalf("merge changed key count: %d", len(report.Signals))
	}
}

func TestEvaluateSeedsBaselineOnFirstTick(t *testing.T) {
	e := newTestEvaluator(t, nil)
	date := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)

	first := e.Evaluate(context.Background(), EvaluateParams{
		Symbol: "SPY", Snapshot: fearSnapshot(), Date: date,
	})
	if first.Signals["skew_spread"].Baseline == nil {
		t.Fatalf("first tick must carry its own seeded baseline")
	}

	// Second tick with a wider spread still compares against the first.
	snap := fearSnapshot()
	snap[models.KeySkew25D1M] = 12
	second := e.Evaluate(context.Background(), EvaluateParams{
		Symbol: "SPY", Snapshot: snap, Date: date,
	})
	base := second.Signals["skew_spread"].Baseline
	if base == nil || *base != 4.0 {
		t.Fatalf("baseline = %v, want first tick's 4.0", base)
	}
}

func TestEvaluatePreviousDayLifecycle(t *testing.T) {
	e := newTestEvaluator(t, nil)
	date := time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)
	e.SetPreviousDay("SPY", models.MarketSnapshot{models.KeyIV1M: 21, models.KeyRV5D: 20}, date.AddDate(0, 0, -1))

	report := e.Evaluate(context.Background(), EvaluateParams{
		Symbol:   "SPY",
		Snapshot: models.MarketSnapshot{models.KeyIV1M: 25, models.KeyRV5D: 20},
		Date:     date,
	})
	if rec := report.Signals["iv_momentum"]; rec.Value != 4.0 || rec.Level != models.LevelAction {
		t.Fatalf("iv momentum = %v/%s, want 4.0/ACTION", rec.Value, rec.Level)
	}
}

func TestEvaluateCachesLatestReport(t *testing.T) {
	mem := cache.NewMemoryCache(time.Minute)
	defer mem.Close()
	e := newTestEvaluator(t, mem)

	if _, ok := e.Latest(context.Background(), "SPY"); ok {
		t.Fatalf("latest must miss before any tick")
	}

	want := e.Evaluate(context.Background(), EvaluateParams{
		Symbol:   "SPY",
		Snapshot: fearSnapshot(),
		Date:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	got, ok := e.Latest(context.Background(), "SPY")
	if !ok {
		t.Fatalf("latest must hit after a tick")
	}
	if got.Symbol != want.Symbol || got.Composite.Composite() != want.Composite.Composite() {
		t.Fatalf("cached report diverged: %+v vs %+v", got.Composite, want.Composite)
	}
}

func TestEvaluateIVRankFallback(t *testing.T) {
	e := newTestEvaluator(t, nil)
	// An unset override reads iv_rank from the snapshot. The rich surface
	// (high rank, steep skew, positive term slope) favors selling the put
	// spread.
	richSurface := models.MarketSnapshot{
		models.KeyIVRank:    60,
		models.KeySkew25D1M: 7,
		models.KeyTermSlope: 1.0,
	}
	report := e.Evaluate(context.Background(), EvaluateParams{
		Symbol:   "SPY",
		Snapshot: richSurface,
		Date:     time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
	})
	if report.Structures[0].StructureID != engine.StructureBullPutSpread {
		t.Fatalf("snapshot iv_rank 60 must favor bull put, got %s", report.Structures[0].StructureID)
	}

	override := 10.0
	report = e.Evaluate(context.Background(), EvaluateParams{
		Symbol:         "SPY",
		Snapshot:       models.MarketSnapshot{models.KeyIVRank: 60},
		Date:           time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC),
		IVRankOverride: &override,
	})
	for _, s := range report.Structures {
		if s.StructureID == engine.StructureBullPutSpread && s.Score >= 3 {
			t.Fatalf("override 10 ignored: bull put score %v", s.Score)
		}
	}
}
