package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestLevelJSONRoundTrip(t *testing.T) {
	for _, lvl := range []Level{LevelOK, LevelInfo, LevelWarning, LevelAction} {
		b, err := json.Marshal(lvl)
		if err != nil {
			t.Fatalf("%s: marshal: %v", lvl, err)
		}
		var back Level
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("%s: unmarshal %s: %v", lvl, b, err)
		}
		if back != lvl {
			t.Fatalf("round trip changed %s into %s", lvl, back)
		}
	}
}

func TestSignalStrengthJSONRoundTrip(t *testing.T) {
	for _, s := range []SignalStrength{StrengthNone, StrengthModerate, StrengthStrong, StrengthVeryStrong, StrengthExtreme} {
		b, err := json.Marshal(s)
		if err != nil {
			t.Fatalf("%s: marshal: %v", s, err)
		}
		var back SignalStrength
		if err := json.Unmarshal(b, &back); err != nil {
			t.Fatalf("%s: unmarshal %s: %v", s, b, err)
		}
		if back != s {
			t.Fatalf("round trip changed %s into %s", s, back)
		}
	}
}

// The report cache stores DecisionReport as JSON, so the whole report must
// survive a decode, named enums included.
func TestDecisionReportJSONRoundTrip(t *testing.T) {
	name := CompositeFearBounceStrong
	report := DecisionReport{
		Symbol:    "SPY",
		Timestamp: time.Date(2025, 6, 2, 14, 30, 0, 0, time.UTC),
		Signals: SignalSet{
			"skew_spread": {Key: "skew_spread", Value: 4.0, Level: LevelAction, Tier: Tier1, Group: GroupCore},
			"contango":    {Key: "contango", Value: 0.3, Level: LevelWarning, Tier: Tier1, Group: GroupCore},
		},
		Composite: CompositeResult{Name: &name, Tier1Firing: []string{"skew_spread"}, GroupsFiring: 1},
		Risk:      RiskBudgetResult{RiskBudget: 5000, Strength: StrengthStrong},
	}

	b, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back DecisionReport
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got := back.Signals["skew_spread"].Level; got != LevelAction {
		t.Fatalf("signal level = %s, want ACTION", got)
	}
	if back.Risk.Strength != StrengthStrong {
		t.Fatalf("strength = %s, want STRONG", back.Risk.Strength)
	}
	if back.Composite.Composite() != CompositeFearBounceStrong {
		t.Fatalf("composite = %q", back.Composite.Composite())
	}
}
