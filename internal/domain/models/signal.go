package models

import (
	"encoding/json"
	"time"
)

// Level is the closed set of signal severities, ordered OK < INFO < WARNING < ACTION.
type Level int

const (
	LevelOK Level = iota
	LevelInfo
	LevelWarning
	LevelAction
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "INFO"
	case LevelWarning:
		return "WARNING"
	case LevelAction:
		return "ACTION"
	default:
		return "OK"
	}
}

// MarshalJSON renders the level by name so dashboard consumers never see raw ints.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON parses the name form written by MarshalJSON. Unknown names
// read as OK, matching the missing-field default elsewhere.
func (l *Level) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "INFO":
		*l = LevelInfo
	case "WARNING":
		*l = LevelWarning
	case "ACTION":
		*l = LevelAction
	default:
		*l = LevelOK
	}
	return nil
}

// Tier indicates how directly a signal feeds composite classification.
// Tier 1 counts toward the composite cascade; tiers 2 and 3 are informational.
type Tier int

const (
	Tier1 Tier = 1
	Tier2 Tier = 2
	Tier3 Tier = 3
)

// SignalGroup identifies the firing group a tier-1 signal belongs to.
type SignalGroup string

const (
	GroupCore      SignalGroup = "core"
	GroupWing      SignalGroup = "wing"
	GroupFunding   SignalGroup = "funding"
	GroupMomentum  SignalGroup = "momentum"
	GroupSecondary SignalGroup = "secondary"
)

// SignalRecord is one evaluated signal. Records are recomputed fresh on every
// poll tick and never persisted by the engine.
type SignalRecord struct {
	Key           string      `json:"key"`
	Value         float64     `json:"value"`
	Level         Level       `json:"level"`
	Tier          Tier        `json:"tier"`
	Group         SignalGroup `json:"group"`
	Baseline      *float64    `json:"baseline,omitempty"`
	PreviousValue *float64    `json:"previous_value,omitempty"`
	Change        *float64    `json:"change,omitempty"`
}

// SignalSet is the full named mapping produced by one calculator call.
type SignalSet map[string]SignalRecord

// CountActions returns the number of tier-1 ACTION records in the given group,
// or across all tier-1 groups when group is empty.
func (s SignalSet) CountActions(group SignalGroup) int {
	n := 0
	for _, rec := range s {
		if rec.Tier != Tier1 || rec.Level != LevelAction {
			continue
		}
		if group == "" || rec.Group == group {
			n++
		}
	}
	return n
}

// Tier1Firing returns the keys of tier-1 signals currently at ACTION.
func (s SignalSet) Tier1Firing() []string {
	firing := make([]string, 0, 4)
	for key, rec := range s {
		if rec.Tier == Tier1 && rec.Level == LevelAction {
			firing = append(firing, key)
		}
	}
	return firing
}

// CalendarContext is the pure-date overlay applied to composite classification
// and sizing.
type CalendarContext struct {
	Date                time.Time `json:"date"`
	OpexAmplifier       bool      `json:"opex_amplifier"`
	VixpirationDiscount bool      `json:"vixpiration_discount"`
	FOMCBlackout        bool      `json:"fomc_blackout"`
	Modifier            float64   `json:"modifier"`
	Label               string    `json:"label"`
}

// Calendar overlay labels, in cascade priority order.
const (
	CalendarFOMCBlackout        = "FOMC_BLACKOUT"
	CalendarVixpirationDiscount = "VIXPIRATION_DISCOUNT"
	CalendarOpexAmplifier       = "OPEX_AMPLIFIER"
	CalendarNormal              = "NORMAL"
)

// Composite verdict names. A nil composite means "no trade verdict".
const (
	CompositeMultiSignalStrong      = "MULTI_SIGNAL_STRONG"
	CompositeFearBounceStrong       = "FEAR_BOUNCE_STRONG"
	CompositeFearBounceStrongOpex   = "FEAR_BOUNCE_STRONG_OPEX"
	CompositeFundingStress          = "FUNDING_STRESS"
	CompositeWingPanic              = "WING_PANIC"
	CompositeVolAcceleration        = "VOL_ACCELERATION"
	CompositeFearBounceLong         = "FEAR_BOUNCE_LONG"
	CompositeDirectionalBearish     = "DIRECTIONAL_BEARISH"
	CompositeDirectionalBearishWeak = "DIRECTIONAL_BEARISH_WEAK"
)

// CompositeResult is the single named directional/strength verdict plus the
// tier-1 signals that fired while producing it.
type CompositeResult struct {
	Name         *string  `json:"name"`
	Tier1Firing  []string `json:"tier1_firing"`
	GroupsFiring int      `json:"groups_firing"`
}

// Composite returns the verdict name, or "" when no verdict fired.
func (r CompositeResult) Composite() string {
	if r.Name == nil {
		return ""
	}
	return *r.Name
}
