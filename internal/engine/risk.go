package engine

import (
	"VolSentry/internal/domain/models"
	"VolSentry/pkg/config"
)

// RiskBudgetSizer turns a composite verdict and firing counts into a bounded
// dollar risk budget. All lookups degrade to a neutral 1.0; the budget is
// always clamped to capital × max_risk_pct.
type RiskBudgetSizer struct {
	cfg            config.RiskConfig
	defaultCapital float64
}

func NewRiskBudgetSizer(cfg config.RiskConfig, defaultCapital float64) *RiskBudgetSizer {
	return &RiskBudgetSizer{cfg: cfg, defaultCapital: defaultCapital}
}

// BudgetParams carries one sizing call's inputs. CapitalOverride of 0 means
// "use configured capital"; Composite empty means "no verdict".
type BudgetParams struct {
	CoreCount        int
	Composite        string
	GroupsFiring     int
	WingCount        int
	FundingCount     int
	MomentumCount    int
	CapitalOverride  float64
	CalendarModifier float64
}

// ComputeBudget applies the multiplicative budget formula:
// base × coreMult × compositeMult × groupBonus × calendarModifier, capped.
func (r *RiskBudgetSizer) ComputeBudget(p BudgetParams) models.RiskBudgetResult {
	capital := p.CapitalOverride
	if capital <= 0 {
		capital = r.defaultCapital
	}
	baseRisk := capital * r.cfg.BaseRiskPct
	maxRisk := capital * r.cfg.MaxRiskPct

	coreMult := 1.0
	if m, ok := r.cfg.CoreMultipliers[p.CoreCount]; ok {
		coreMult = m
	}
	// A cluster of wing/funding/momentum signals without core confirmation
	// must still get a tradable floor, not be sized toward zero.
	totalFiring := p.CoreCount + p.WingCount + p.FundingCount + p.MomentumCount
	if p.CoreCount < 2 && totalFiring >= 3 && coreMult < r.cfg.NonCoreFloor {
		coreMult = r.cfg.NonCoreFloor
	}

	compositeMult := 1.0
	if m, ok := r.cfg.CompositeMultipliers[p.Composite]; ok {
		compositeMult = m
	}

	groupBonus := 1.0
	if p.GroupsFiring > 1 {
		groupBonus += float64(p.GroupsFiring-1) * r.cfg.GroupBonusPct
	}

	multiplier := coreMult * compositeMult * groupBonus * p.CalendarModifier

	budget := baseRisk * multiplier
	if budget > maxRisk {
		budget = maxRisk
	}
	if budget < 0 {
		budget = 0
	}

	return models.RiskBudgetResult{
		RiskBudget:          budget,
		BaseRisk:            baseRisk,
		Multiplier:          multiplier,
		CoreMultiplier:      coreMult,
		CompositeMultiplier: compositeMult,
		GroupBonus:          groupBonus,
		CoreCount:           p.CoreCount,
		GroupsFiring:        p.GroupsFiring,
		Composite:           p.Composite,
		Strength:            classifyStrength(p),
		Capital:             capital,
	}
}

// MaxDailyBudget is the portfolio-level deployment cap, independent of any
// single sizing call.
func (r *RiskBudgetSizer) MaxDailyBudget(capital float64) float64 {
	if capital <= 0 {
		capital = r.defaultCapital
	}
	return capital * r.cfg.MaxDailyRiskPct
}

// classifyStrength is informational only; it never feeds back into sizing.
func classifyStrength(p BudgetParams) models.SignalStrength {
	switch {
	case p.Composite == models.CompositeMultiSignalStrong || p.GroupsFiring >= 3 || p.CoreCount >= 5:
		return models.StrengthExtreme
	case p.CoreCount >= 4 || (p.CoreCount >= 3 && p.GroupsFiring >= 2):
		return models.StrengthVeryStrong
	case p.CoreCount >= 3 ||
		p.Composite == models.CompositeFundingStress ||
		p.Composite == models.CompositeWingPanic ||
		p.Composite == models.CompositeVolAcceleration:
		return models.StrengthStrong
	case p.CoreCount >= 2 || p.GroupsFiring >= 2:
		return models.StrengthModerate
	default:
		return models.StrengthNone
	}
}
