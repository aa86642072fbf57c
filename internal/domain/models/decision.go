package models

import (
	"encoding/json"
	"time"
)

// SignalStrength is the coarse informational classification attached to a
// sizing result. It never feeds back into the budget formula.
type SignalStrength int

const (
	StrengthNone SignalStrength = iota
	StrengthModerate
	StrengthStrong
	StrengthVeryStrong
	StrengthExtreme
)

func (s SignalStrength) String() string {
	switch s {
	case StrengthModerate:
		return "MODERATE"
	case StrengthStrong:
		return "STRONG"
	case StrengthVeryStrong:
		return "VERY_STRONG"
	case StrengthExtreme:
		return "EXTREME"
	default:
		return "NONE"
	}
}

func (s SignalStrength) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON parses the name form written by MarshalJSON.
func (s *SignalStrength) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	switch name {
	case "MODERATE":
		*s = StrengthModerate
	case "STRONG":
		*s = StrengthStrong
	case "VERY_STRONG":
		*s = StrengthVeryStrong
	case "EXTREME":
		*s = StrengthExtreme
	default:
		*s = StrengthNone
	}
	return nil
}

// RiskBudgetResult is the bounded dollar risk allocation for one prospective
// trade, with the full multiplier breakdown for audit.
type RiskBudgetResult struct {
	RiskBudget          float64        `json:"risk_budget"`
	BaseRisk            float64        `json:"base_risk"`
	Multiplier          float64        `json:"multiplier"`
	CoreMultiplier      float64        `json:"core_multiplier"`
	CompositeMultiplier float64        `json:"composite_multiplier"`
	GroupBonus          float64        `json:"group_bonus"`
	CoreCount           int            `json:"core_count"`
	GroupsFiring        int            `json:"groups_firing"`
	Composite           string         `json:"composite,omitempty"`
	Strength            SignalStrength `json:"strength"`
	Capital             float64        `json:"capital"`
}

// StructureScore is one ranked trade-structure archetype. Reason names the
// inputs that contributed non-zero points.
type StructureScore struct {
	StructureID string  `json:"structure_id"`
	Score       float64 `json:"score"`
	Reason      string  `json:"reason"`
}

// DecisionReport bundles everything one poll tick produces for downstream
// collaborators: the persistence/logging consumer, the reporting/alerting
// consumer, and the trade-construction consumer.
type DecisionReport struct {
	Symbol     string           `json:"symbol"`
	Timestamp  time.Time        `json:"timestamp"`
	Intraday   bool             `json:"intraday"`
	Signals    SignalSet        `json:"signals"`
	Calendar   CalendarContext  `json:"calendar"`
	Composite  CompositeResult  `json:"composite"`
	Risk       RiskBudgetResult `json:"risk"`
	Structures []StructureScore `json:"structures"`
}
