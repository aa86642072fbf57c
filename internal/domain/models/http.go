package models

// EvaluateRequest is one poll tick submitted over HTTP. Metrics carries the
// vol-surface summary keys; unknown keys are kept but never read.
type EvaluateRequest struct {
	Symbol   string             `json:"symbol" validate:"required,min=1,max=16"`
	Metrics  map[string]float64 `json:"metrics" validate:"required"`
	Credit   *CreditQuad        `json:"credit,omitempty"`
	Date     string             `json:"date,omitempty"`
	Intraday bool               `json:"intraday"`
	Capital  float64            `json:"capital" validate:"gte=0"`
	// IVRank overrides the snapshot's iv_rank when set.
	IVRank *float64 `json:"iv_rank,omitempty"`
}

// RankRequest scores the structure catalog directly, outside a full tick.
type RankRequest struct {
	Metrics   map[string]float64 `json:"metrics" validate:"required"`
	CoreCount int                `json:"core_count" validate:"gte=0,lte=5"`
	IVRank    *float64           `json:"iv_rank,omitempty"`
}

// ReferenceRequest resets a symbol's baseline or previous-day snapshot.
type ReferenceRequest struct {
	Symbol  string             `json:"symbol" validate:"required,min=1,max=16"`
	Metrics map[string]float64 `json:"metrics" validate:"required"`
	Date    string             `json:"date,omitempty"`
}
