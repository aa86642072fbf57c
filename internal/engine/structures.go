package engine

import (
	"fmt"
	"sort"
	"strings"

	"VolSentry/internal/domain/models"
	"VolSentry/pkg/config"
)

// Structure catalog identifiers, in declaration (tie-break) order.
const (
	StructureBullPutSpread   = "bull_put_spread"
	StructureIronCondor      = "iron_condor"
	StructurePutBackspread   = "put_backspread"
	StructureCalendarSpread  = "calendar_spread"
	StructureLongPutVertical = "long_put_vertical"
)

// StructureSelector ranks the fixed catalog of trade-structure archetypes
// against the current surface. Independent of the sizer; always returns every
// structure exactly once, descending by score, stable on ties.
type StructureSelector struct {
	cfg     config.StructuresConfig
	catalog []structureDef
}

type structureDef struct {
	id         string
	conditions []scoreCondition
}

type scoreCondition struct {
	points func(cfg config.StructuresConfig) float64
	match  func(in structureInputs, cfg config.StructuresConfig) bool
	reason func(in structureInputs) string
}

type structureInputs struct {
	ivRank    float64
	skew      float64
	termSlope float64
	kink      float64
	coreCount int
}

func NewStructureSelector(cfg config.StructuresConfig) *StructureSelector {
	return &StructureSelector{cfg: cfg, catalog: structureCatalog()}
}

func structureCatalog() []structureDef {
	primary := func(c config.StructuresConfig) float64 { return c.WeightPrimary }
	secondary := func(c config.StructuresConfig) float64 { return c.WeightSecondary }
	minor := func(c config.StructuresConfig) float64 { return c.WeightMinor }

	return []structureDef{
		{StructureBullPutSpread, []scoreCondition{
			{primary,
				func(in structureInputs, c config.StructuresConfig) bool { return in.ivRank > c.IVRankHigh },
				func(in structureInputs) string { return fmt.Sprintf("IV rank %.0f rich for credit", in.ivRank) }},
			{secondary,
				func(in structureInputs, c config.StructuresConfig) bool { return in.skew > c.SkewSteep },
				func(in structureInputs) string { return fmt.Sprintf("put skew %.1f steep", in.skew) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool { return in.termSlope > c.TermFloor },
				func(in structureInputs) string { return fmt.Sprintf("term slope %.2f positive", in.termSlope) }},
		}},
		{StructureIronCondor, []scoreCondition{
			{primary,
				func(in structureInputs, c config.StructuresConfig) bool { return in.ivRank > c.IVRankHigh },
				func(in structureInputs) string { return fmt.Sprintf("IV rank %.0f rich for premium", in.ivRank) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool {
					return in.termSlope < c.TermFloor && in.termSlope > -c.TermFloor
				},
				func(in structureInputs) string { return fmt.Sprintf("term slope %.2f flat", in.termSlope) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool { return in.coreCount == 0 },
				func(in structureInputs) string { return "no core fear firing" }},
		}},
		{StructurePutBackspread, []scoreCondition{
			{primary,
				func(in structureInputs, c config.StructuresConfig) bool { return in.ivRank < c.IVRankLow },
				func(in structureInputs) string { return fmt.Sprintf("IV rank %.0f cheap convexity", in.ivRank) }},
			{secondary,
				func(in structureInputs, c config.StructuresConfig) bool { return in.coreCount >= 3 },
				func(in structureInputs) string { return fmt.Sprintf("%d core fear signals firing", in.coreCount) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool { return in.skew < c.SkewFlat },
				func(in structureInputs) string { return fmt.Sprintf("put skew %.1f not yet bid", in.skew) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool { return in.ivRank < c.IVRankHigh },
				func(in structureInputs) string { return fmt.Sprintf("IV rank %.0f below rich zone", in.ivRank) }},
		}},
		{StructureCalendarSpread, []scoreCondition{
			{secondary,
				func(in structureInputs, c config.StructuresConfig) bool { return in.termSlope > c.TermSteep },
				func(in structureInputs) string { return fmt.Sprintf("term slope %.2f steep", in.termSlope) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool {
					return in.ivRank >= c.IVRankMidLow && in.ivRank <= c.IVRankMidHigh
				},
				func(in structureInputs) string { return fmt.Sprintf("IV rank %.0f mid-range", in.ivRank) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool { return in.kink > c.KinkMin || in.kink < -c.KinkMin },
				func(in structureInputs) string { return fmt.Sprintf("forward kink %.2f tradable", in.kink) }},
		}},
		{StructureLongPutVertical, []scoreCondition{
			{secondary,
				func(in structureInputs, c config.StructuresConfig) bool { return in.coreCount >= 2 },
				func(in structureInputs) string { return fmt.Sprintf("%d core fear signals firing", in.coreCount) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool { return in.skew < c.SkewSteep },
				func(in structureInputs) string { return fmt.Sprintf("put skew %.1f affordable", in.skew) }},
			{minor,
				func(in structureInputs, c config.StructuresConfig) bool { return in.ivRank < c.IVRankCap },
				func(in structureInputs) string { return fmt.Sprintf("IV rank %.0f below cap", in.ivRank) }},
		}},
	}
}

// Rank scores every catalog structure off the snapshot and core firing count.
// ivRankOverride < 0 means "read iv_rank from the snapshot".
func (sel *StructureSelector) Rank(snapshot models.MarketSnapshot, coreCount int, ivRankOverride float64) []models.StructureScore {
	in := structureInputs{
		ivRank:    snapshot.Get(models.KeyIVRank),
		skew:      snapshot.Get(models.KeySkew25D1M),
		termSlope: snapshot.Get(models.KeyTermSlope),
		kink:      snapshot.Get(models.KeyIV2M) - (snapshot.Get(models.KeyIV1M)+snapshot.Get(models.KeyIV3M))/2,
		coreCount: coreCount,
	}
	if ivRankOverride >= 0 {
		in.ivRank = ivRankOverride
	}

	scores := make([]models.StructureScore, 0, len(sel.catalog))
	for _, def := range sel.catalog {
		var total float64
		var reasons []string
		for _, cond := range def.conditions {
			if cond.match(in, sel.cfg) {
				total += cond.points(sel.cfg)
				reasons = append(reasons, cond.reason(in))
			}
		}
		reason := "no conditions met"
		if len(reasons) > 0 {
			reason = strings.Join(reasons, "; ")
		}
		scores = append(scores, models.StructureScore{
			StructureID: def.id,
			Score:       total,
			Reason:      reason,
		})
	}

	// Stable keeps catalog declaration order on equal scores.
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}
