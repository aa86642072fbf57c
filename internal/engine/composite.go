package engine

import (
	"VolSentry/internal/domain/models"
	"VolSentry/pkg/config"
)

// groupCounts is the per-group ACTION tally the classification rules read.
type groupCounts struct {
	core, wing, funding, momentum int
	groupsFiring                  int
	vixDiscount                   bool
	opexAmplifier                 bool
}

// compositeRule is one entry of the priority cascade: evaluated top to
// bottom, first matching predicate wins.
type compositeRule struct {
	match func(gc groupCounts) bool
	name  func(gc groupCounts) string
}

// CompositeClassifier fuses the signal set and calendar overlay into a single
// named verdict. Pure: identical inputs always yield identical output, and
// no input can make it fail.
type CompositeClassifier struct {
	cfg      config.CompositeConfig
	rules    []compositeRule
	intraday []compositeRule
}

func NewCompositeClassifier(cfg config.CompositeConfig) *CompositeClassifier {
	c := &CompositeClassifier{cfg: cfg}
	c.rules = c.buildRules()
	c.intraday = c.buildIntradayRules()
	return c
}

// buildRules declares the overnight cascade in priority order. The VIX
// discount raises the required core count on the core-fear rule only; the
// asymmetry is intentional and load-bearing for backtested behavior.
func (c *CompositeClassifier) buildRules() []compositeRule {
	return []compositeRule{
		{
			match: func(gc groupCounts) bool { return gc.groupsFiring >= 3 },
			name: func(gc groupCounts) string {
				if gc.vixDiscount && gc.groupsFiring < 4 {
					return models.CompositeFearBounceStrong
				}
				return models.CompositeMultiSignalStrong
			},
		},
		{
			match: func(gc groupCounts) bool {
				min := c.cfg.CompositeMin
				if gc.vixDiscount {
					min = c.cfg.CompositeMinVix
				}
				return gc.core >= min
			},
			name: func(gc groupCounts) string {
				if gc.opexAmplifier {
					return models.CompositeFearBounceStrongOpex
				}
				return models.CompositeFearBounceStrong
			},
		},
		{
			match: func(gc groupCounts) bool { return gc.funding >= 2 && gc.groupsFiring >= 2 },
			name:  func(groupCounts) string { return models.CompositeFundingStress },
		},
		{
			match: func(gc groupCounts) bool { return gc.wing >= 2 && gc.groupsFiring >= 2 },
			name:  func(groupCounts) string { return models.CompositeWingPanic },
		},
		{
			match: func(gc groupCounts) bool { return gc.momentum >= 2 && gc.groupsFiring >= 2 },
			name:  func(groupCounts) string { return models.CompositeVolAcceleration },
		},
		{
			match: func(gc groupCounts) bool { return gc.core >= 2 },
			name:  func(groupCounts) string { return models.CompositeFearBounceLong },
		},
	}
}

// buildIntradayRules declares the simpler bearish intraday cascade.
func (c *CompositeClassifier) buildIntradayRules() []compositeRule {
	return []compositeRule{
		{
			match: func(gc groupCounts) bool {
				return gc.groupsFiring >= 3 || (gc.core >= 3 && gc.groupsFiring >= 2)
			},
			name: func(groupCounts) string { return models.CompositeDirectionalBearish },
		},
		{
			match: func(gc groupCounts) bool { return gc.core >= 2 || gc.groupsFiring >= 2 },
			name:  func(groupCounts) string { return models.CompositeDirectionalBearishWeak },
		},
	}
}

// Classify returns the composite verdict plus the firing tier-1 signals.
// Fewer than the minimum tier-1 ACTION signals, or an FOMC blackout, always
// suppresses the verdict regardless of any other rule.
func (c *CompositeClassifier) Classify(signals models.SignalSet, calendar models.CalendarContext, intraday bool) models.CompositeResult {
	firing := signals.Tier1Firing()
	gc := c.count(signals, calendar)
	result := models.CompositeResult{Tier1Firing: firing, GroupsFiring: gc.groupsFiring}

	if len(firing) < c.cfg.MinTier1 {
		return result
	}
	if calendar.FOMCBlackout {
		return result
	}

	rules := c.rules
	if intraday {
		rules = c.intraday
	}
	for _, rule := range rules {
		if rule.match(gc) {
			name := rule.name(gc)
			result.Name = &name
			return result
		}
	}
	return result
}

func (c *CompositeClassifier) count(signals models.SignalSet, calendar models.CalendarContext) groupCounts {
	gc := groupCounts{
		core:          signals.CountActions(models.GroupCore),
		wing:          signals.CountActions(models.GroupWing),
		funding:       signals.CountActions(models.GroupFunding),
		momentum:      signals.CountActions(models.GroupMomentum),
		vixDiscount:   calendar.VixpirationDiscount && !calendar.OpexAmplifier,
		opexAmplifier: calendar.OpexAmplifier,
	}
	for _, fires := range []bool{
		gc.core >= c.cfg.CoreGroupMin,
		gc.wing >= 1,
		gc.funding >= 1,
		gc.momentum >= 1,
	} {
		if fires {
			gc.groupsFiring++
		}
	}
	return gc
}

// GroupCounts exposes the per-group ACTION tallies the sizer needs.
func (c *CompositeClassifier) GroupCounts(signals models.SignalSet, calendar models.CalendarContext) (core, wing, funding, momentum, groupsFiring int) {
	gc := c.count(signals, calendar)
	return gc.core, gc.wing, gc.funding, gc.momentum, gc.groupsFiring
}
