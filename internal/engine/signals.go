package engine

import (
	"math"

	"VolSentry/internal/domain/models"
	"VolSentry/pkg/config"
)

// rvDivergenceIVGate bounds the 1-day IV move under which realized vol is
// considered to be moving against a flat surface. Derivation constant, not a
// firing threshold.
const rvDivergenceIVGate = 0.5

// SignalCalculator derives the 19 named signal evaluations from one market
// snapshot plus the caller-owned reference state. It holds no per-symbol
// state and never returns an error: missing metrics read as zero, ratios
// guard their denominators, and an unknown threshold key simply never fires.
type SignalCalculator struct {
	thresholds map[string]config.SignalThreshold
	defs       []signalDef
}

type signalDef struct {
	key   string
	tier  models.Tier
	group models.SignalGroup
	// derive computes the signal value; prevVal/change are populated for
	// momentum-style signals, baseline for core-fear session drift context.
	derive func(s models.MarketSnapshot, ref models.ReferenceState) (value float64, prevVal, baseVal, change *float64)
}

func NewSignalCalculator(cfg config.EngineConfig) *SignalCalculator {
	return &SignalCalculator{
		thresholds: cfg.Signals,
		defs:       signalCatalog(),
	}
}

func fp(v float64) *float64 { return &v }

// delta1d returns value−previous for a metric, with the previous value, when
// a previous-day snapshot exists. Without one the signal reads zero.
func delta1d(s models.MarketSnapshot, ref models.ReferenceState, key string) (float64, *float64, *float64) {
	if ref.PreviousDay == nil {
		return 0, nil, nil
	}
	prev := ref.PreviousDay.Get(key)
	d := s.Get(key) - prev
	return d, fp(prev), fp(d)
}

func baselineOf(ref models.ReferenceState, derive func(models.MarketSnapshot) float64) *float64 {
	if ref.Baseline == nil {
		return nil
	}
	return fp(derive(ref.Baseline))
}

func signalCatalog() []signalDef {
	skewSpread := func(s models.MarketSnapshot) float64 {
		return s.Get(models.KeySkew25D1M) - s.Get(models.KeySkew25D3M)
	}
	riskPremium := func(s models.MarketSnapshot) float64 {
		return s.Get(models.KeyIV1M) - s.Get(models.KeyRV5D)
	}

	return []signalDef{
		// core fear
		{"skew_spread", models.Tier1, models.GroupCore,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return skewSpread(s), nil, baselineOf(ref, skewSpread), nil
			}},
		{"risk_premium", models.Tier1, models.GroupCore,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return riskPremium(s), nil, baselineOf(ref, riskPremium), nil
			}},
		{"near_skew", models.Tier1, models.GroupCore,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				get := func(m models.MarketSnapshot) float64 { return m.Get(models.KeySkew25D1W) }
				return get(s), nil, baselineOf(ref, get), nil
			}},
		{"contango", models.Tier1, models.GroupCore,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				get := func(m models.MarketSnapshot) float64 { return m.Get(models.KeyTermSlope) }
				return get(s), nil, baselineOf(ref, get), nil
			}},
		{"credit_spread", models.Tier1, models.GroupCore,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return s.Get(models.KeyCreditAChg) - s.Get(models.KeyCreditBChg), nil, nil, nil
			}},

		// wing skew: crash-wing spread, 95-delta put vol minus 5-delta call vol
		{"wing_1m", models.Tier1, models.GroupWing,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return s.Get(models.KeyIV95D1M) - s.Get(models.KeyIV5D1M), nil, nil, nil
			}},
		{"wing_3m", models.Tier1, models.GroupWing,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return s.Get(models.KeyIV95D3M) - s.Get(models.KeyIV5D3M), nil, nil, nil
			}},

		// funding stress
		{"funding_curve", models.Tier1, models.GroupFunding,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return s.Get(models.KeyBorrowShort) - s.Get(models.KeyBorrowLong), nil, nil, nil
			}},
		{"funding_richness", models.Tier1, models.GroupFunding,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return s.Get(models.KeyBorrowShort) - s.Get(models.KeyRiskFree), nil, nil, nil
			}},

		// vol momentum: 1-day changes against the previous-day reference
		{"iv_momentum", models.Tier1, models.GroupMomentum,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				d, prev, ch := delta1d(s, ref, models.KeyIV1M)
				return d, prev, nil, ch
			}},
		{"fear_momentum", models.Tier1, models.GroupMomentum,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				if ref.PreviousDay == nil {
					return 0, nil, nil, nil
				}
				prev := riskPremium(ref.PreviousDay)
				d := riskPremium(s) - prev
				return d, fp(prev), nil, fp(d)
			}},
		{"term_momentum", models.Tier1, models.GroupMomentum,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				d, prev, ch := delta1d(s, ref, models.KeyTermSlope)
				return d, prev, nil, ch
			}},

		// secondary, informational
		{"forecast_ratio", models.Tier2, models.GroupSecondary,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				rv := s.Get(models.KeyRV5D)
				if rv == 0 {
					return 0, nil, nil, nil
				}
				return s.Get(models.KeyVolForecast) / rv, nil, nil, nil
			}},
		{"skew_slope_shift", models.Tier2, models.GroupSecondary,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				d, prev, ch := delta1d(s, ref, models.KeySkewSlope)
				return d, prev, nil, ch
			}},
		{"forward_kink", models.Tier3, models.GroupSecondary,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				kink := s.Get(models.KeyIV2M) - (s.Get(models.KeyIV1M)+s.Get(models.KeyIV3M))/2
				return kink, nil, nil, nil
			}},
		{"rv_divergence", models.Tier2, models.GroupSecondary,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				if ref.PreviousDay == nil {
					return 0, nil, nil, nil
				}
				ivMove := s.Get(models.KeyIV1M) - ref.PreviousDay.Get(models.KeyIV1M)
				if math.Abs(ivMove) >= rvDivergenceIVGate {
					return 0, nil, nil, nil
				}
				prev := ref.PreviousDay.Get(models.KeyRV5D)
				d := s.Get(models.KeyRV5D) - prev
				return d, fp(prev), nil, fp(d)
			}},
		{"model_confidence", models.Tier3, models.GroupSecondary,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return s.Get(models.KeyModelConfidence), nil, nil, nil
			}},
		{"market_width", models.Tier3, models.GroupSecondary,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				return s.Get(models.KeyMarketWidth), nil, nil, nil
			}},
		{"iv_ratio", models.Tier2, models.GroupSecondary,
			func(s models.MarketSnapshot, ref models.ReferenceState) (float64, *float64, *float64, *float64) {
				long := s.Get(models.KeyIV6M)
				if long == 0 {
					return 0, nil, nil, nil
				}
				return s.Get(models.KeyIV1M) / long, nil, nil, nil
			}},
	}
}

// ComputeSignals evaluates every catalog signal for one symbol. The result
// always holds exactly the 19 documented keys, each with a defined level.
func (c *SignalCalculator) ComputeSignals(symbol string, snapshot models.MarketSnapshot, ref models.ReferenceState) models.SignalSet {
	out := make(models.SignalSet, len(c.defs))
	for _, def := range c.defs {
		value, prevVal, baseVal, change := def.derive(snapshot, ref)
		out[def.key] = models.SignalRecord{
			Key:           def.key,
			Value:         value,
			Level:         c.level(def.key, def.tier, value),
			Tier:          def.tier,
			Group:         def.group,
			Baseline:      baseVal,
			PreviousValue: prevVal,
			Change:        change,
		}
	}
	return out
}

// ComputeCreditSignal builds the credit-proxy spread from two reference
// assets' current and previous closes. It returns an empty map when any
// input is missing or either previous close is zero; it never errors.
func (c *SignalCalculator) ComputeCreditSignal(a, b, aPrev, bPrev float64) models.SignalSet {
	q := models.CreditQuad{A: a, B: b, APrev: aPrev, BPrev: bPrev}
	if !q.Valid() {
		return models.SignalSet{}
	}
	aChg := (a - aPrev) / aPrev * 100
	bChg := (b - bPrev) / bPrev * 100
	value := aChg - bChg
	return models.SignalSet{
		"credit_spread": {
			Key:   "credit_spread",
			Value: value,
			Level: c.level("credit_spread", models.Tier1, value),
			Tier:  models.Tier1,
			Group: models.GroupCore,
		},
	}
}

// level compares a derived value against the signal's configured threshold.
// Tier-3 signals are informational and cap at INFO.
func (c *SignalCalculator) level(key string, tier models.Tier, value float64) models.Level {
	th, ok := c.thresholds[key]
	if !ok {
		return models.LevelOK
	}

	crossed := func(limit float64) bool {
		switch th.Op {
		case config.OpLess:
			return value < limit
		case config.OpAbsGreater:
			return math.Abs(value) > limit
		default:
			return value > limit
		}
	}

	lvl := models.LevelOK
	switch {
	case crossed(th.Action):
		lvl = models.LevelAction
	case crossed(th.Warn):
		lvl = models.LevelWarning
	}
	if tier == models.Tier3 && lvl > models.LevelInfo {
		lvl = models.LevelInfo
	}
	return lvl
}
