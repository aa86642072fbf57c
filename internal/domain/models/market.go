package models

import "time"

// Snapshot metric keys produced by the vol-surface summary collaborator.
// Any key may be absent; readers treat a missing key as 0.0.
const (
	KeyIV1W  = "iv_1w"
	KeyIV1M  = "iv_1m"
	KeyIV2M  = "iv_2m"
	KeyIV3M  = "iv_3m"
	KeyIV6M  = "iv_6m"
	KeySkew25D1W = "skew_25d_1w"
	KeySkew25D1M = "skew_25d_1m"
	KeySkew25D3M = "skew_25d_3m"
	KeyIV95D1M = "iv_95d_1m"
	KeyIV5D1M  = "iv_5d_1m"
	KeyIV95D3M = "iv_95d_3m"
	KeyIV5D3M  = "iv_5d_3m"
	KeyTermSlope  = "term_slope"
	KeySkewSlope  = "skew_slope"
	KeyVolForecast = "vol_forecast"
	KeyRV5D       = "rv_5d"
	KeyBorrowShort = "borrow_short"
	KeyBorrowLong  = "borrow_long"
	KeyRiskFree    = "risk_free"
	KeyModelConfidence = "model_confidence"
	KeyMarketWidth     = "market_width"
	KeyIVRank          = "iv_rank"
	KeyCreditAChg = "credit_a_chg"
	KeyCreditBChg = "credit_b_chg"
)

// MarketSnapshot is one symbol's vol-surface summary at one observation time.
// Absent metrics read as zero so that a sparse provider payload degrades to
// "no signal" instead of failing the poll cycle.
type MarketSnapshot map[string]float64

// Get returns the metric value, or 0.0 when the key is absent.
func (s MarketSnapshot) Get(key string) float64 {
	if s == nil {
		return 0
	}
	return s[key]
}

// Has reports whether the metric was actually observed.
func (s MarketSnapshot) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// Clone returns a shallow copy, safe to retain as a reference snapshot.
func (s MarketSnapshot) Clone() MarketSnapshot {
	if s == nil {
		return nil
	}
	out := make(MarketSnapshot, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ReferenceState carries the per-symbol reference snapshots the signal
// calculator compares against. The orchestrator owns the lifecycle: Baseline
// is reset once per trading session (seeded from the first snapshot seen),
// PreviousDay once per day.
type ReferenceState struct {
	Baseline    MarketSnapshot
	PreviousDay MarketSnapshot
	BaselineAt  time.Time
	PreviousAt  time.Time
}

// CreditQuad holds the credit-proxy inputs: two reference assets' current and
// previous closes, differenced into a single spread signal.
type CreditQuad struct {
	A     float64 `json:"a"`
	B     float64 `json:"b"`
	APrev float64 `json:"a_prev"`
	BPrev float64 `json:"b_prev"`
}

// Valid reports whether the quad can be turned into a spread without dividing
// by zero or working off missing closes.
func (q CreditQuad) Valid() bool {
	return q.A != 0 && q.B != 0 && q.APrev != 0 && q.BPrev != 0
}
