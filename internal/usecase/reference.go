package usecase

import (
	"sync"
	"time"

	"VolSentry/internal/domain/models"
)

// ReferenceRegistry owns the per-symbol baseline / previous-day reference
// snapshots the signal calculator compares against. The engine itself stays
// stateless; lifecycle resets (once per session, once per day) are explicit
// calls from the polling orchestrator. A single RWMutex is enough: writes are
// one-per-symbol-per-reset, reads happen once per poll tick.
type ReferenceRegistry struct {
	mu    sync.RWMutex
	state map[string]models.ReferenceState
}

func NewReferenceRegistry() *ReferenceRegistry {
	return &ReferenceRegistry{state: make(map[string]models.ReferenceState)}
}

// Get returns the current reference pair for a symbol. Zero value when the
// symbol has never been seen.
func (r *ReferenceRegistry) Get(symbol string) models.ReferenceState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state[symbol]
}

// SetBaseline resets the session baseline for a symbol.
func (r *ReferenceRegistry) SetBaseline(symbol string, snapshot models.MarketSnapshot, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state[symbol]
	st.Baseline = snapshot.Clone()
	st.BaselineAt = at
	r.state[symbol] = st
}

// SetPreviousDay resets the previous-day reference for a symbol.
func (r *ReferenceRegistry) SetPreviousDay(symbol string, snapshot models.MarketSnapshot, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state[symbol]
	st.PreviousDay = snapshot.Clone()
	st.PreviousAt = at
	r.state[symbol] = st
}

// SeedBaseline sets the baseline from the first snapshot seen for a symbol,
// avoiding cold-start false positives, and reports whether it seeded.
func (r *ReferenceRegistry) SeedBaseline(symbol string, snapshot models.MarketSnapshot, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := r.state[symbol]
	if st.Baseline != nil {
		return false
	}
	st.Baseline = snapshot.Clone()
	st.BaselineAt = at
	r.state[symbol] = st
	return true
}
