package engine

import (
	"fmt"
	"reflect"
	"testing"

	"VolSentry/internal/domain/models"
	"VolSentry/pkg/config"
)

// actions fabricates a signal set with the given number of tier-1 ACTION
// records per group.
func actions(core, wing, funding, momentum int) models.SignalSet {
	set := models.SignalSet{}
	add := func(group models.SignalGroup, n int) {
		for i := 0; i < n; i++ {
			key := fmt.Sprintf("%s_%d", group, i)
			set[key] = models.SignalRecord{
				Key:   key,
				Level: models.LevelAction,
				Tier:  models.Tier1,
				Group: group,
			}
		}
	}
	add(models.GroupCore, core)
	add(models.GroupWing, wing)
	add(models.GroupFunding, funding)
	add(models.GroupMomentum, momentum)
	return set
}

func newClassifier() *CompositeClassifier {
	return NewCompositeClassifier(config.Default().Engine.Composite)
}

var normalDay = models.CalendarContext{Modifier: 1.0, Label: models.CalendarNormal}

func TestClassifySuppressedBelowMinTier1(t *testing.T) {
	c := newClassifier()
	res := c.Classify(actions(1, 0, 0, 0), normalDay, false)
	if res.Name != nil {
		t.Fatalf("one firing signal must not produce a verdict, got %s", *res.Name)
	}
	if len(res.Tier1Firing) != 1 {
		t.Fatalf("firing list = %v, want 1 entry", res.Tier1Firing)
	}
}

func TestClassifySuppressedDuringFOMC(t *testing.T) {
	c := newClassifier()
	blackout := models.CalendarContext{FOMCBlackout: true, Label: models.CalendarFOMCBlackout}
	res := c.Classify(actions(5, 2, 2, 3), blackout, false)
	if res.Name != nil {
		t.Fatalf("FOMC blackout must suppress, got %s", *res.Name)
	}
	if len(res.Tier1Firing) != 12 {
		t.Fatalf("firing list must still be reported, got %d", len(res.Tier1Firing))
	}
}

func TestClassifyCascadePriority(t *testing.T) {
	c := newClassifier()
	cases := []struct {
		name                         string
		core, wing, funding, momentum int
		want                         string
	}{
		{"three groups", 2, 1, 1, 0, models.CompositeMultiSignalStrong},
		{"core cluster", 3, 0, 0, 0, models.CompositeFearBounceStrong},
		{"funding stress", 0, 0, 2, 1, models.CompositeFundingStress},
		{"wing panic", 0, 2, 0, 1, models.CompositeWingPanic},
		{"vol acceleration", 0, 1, 0, 2, models.CompositeVolAcceleration},
		{"core pair", 2, 0, 0, 0, models.CompositeFearBounceLong},
	}
	for _, tc := range cases {
		res := c.Classify(actions(tc.core, tc.wing, tc.funding, tc.momentum), normalDay, false)
		if got := res.Composite(); got != tc.want {
			t.Fatalf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestClassifyVixDiscountRaisesCoreBarOnly(t *testing.T) {
	c := newClassifier()
	vix := models.CalendarContext{VixpirationDiscount: true, Modifier: 0.7}

	// Three core actions normally give FEAR_BOUNCE_STRONG; under the vix
	// discount the bar moves to four and the verdict degrades to the pair rule.
	res := c.Classify(actions(3, 0, 0, 0), vix, false)
	if got := res.Composite(); got != models.CompositeFearBounceLong {
		t.Fatalf("3 core under vix: got %q, want FEAR_BOUNCE_LONG", got)
	}
	res = c.Classify(actions(4, 0, 0, 0), vix, false)
	if got := res.Composite(); got != models.CompositeFearBounceStrong {
		t.Fatalf("4 core under vix: got %q, want FEAR_BOUNCE_STRONG", got)
	}

	// The multi-group rule keeps matching but names the cautious verdict when
	// fewer than four groups fire.
	res = c.Classify(actions(2, 1, 1, 0), vix, false)
	if got := res.Composite(); got != models.CompositeFearBounceStrong {
		t.Fatalf("3 groups under vix: got %q, want FEAR_BOUNCE_STRONG", got)
	}
	res = c.Classify(actions(2, 1, 1, 1), vix, false)
	if got := res.Composite(); got != models.CompositeMultiSignalStrong {
		t.Fatalf("4 groups under vix: got %q, want MULTI_SIGNAL_STRONG", got)
	}
}

func TestClassifyOpexNamesAmplifiedVerdict(t *testing.T) {
	c := newClassifier()
	opex := models.CalendarContext{OpexAmplifier: true, Modifier: 1.5}
	res := c.Classify(actions(3, 0, 0, 0), opex, false)
	if got := res.Composite(); got != models.CompositeFearBounceStrongOpex {
		t.Fatalf("3 core in opex window: got %q, want FEAR_BOUNCE_STRONG_OPEX", got)
	}

	// Vix boolean set inside the opex window must not raise the core bar.
	both := models.CalendarContext{OpexAmplifier: true, VixpirationDiscount: true, Modifier: 1.5}
	res = c.Classify(actions(3, 0, 0, 0), both, false)
	if got := res.Composite(); got != models.CompositeFearBounceStrongOpex {
		t.Fatalf("vix inside opex: got %q, want FEAR_BOUNCE_STRONG_OPEX", got)
	}
}

func TestClassifyIntraday(t *testing.T) {
	c := newClassifier()
	cases := []struct {
		core, wing, funding, momentum int
		want                          string
	}{
		{2, 1, 1, 0, models.CompositeDirectionalBearish},  // 3 groups
		{3, 1, 0, 0, models.CompositeDirectionalBearish},  // 3 core, 2 groups
		{2, 0, 0, 0, models.CompositeDirectionalBearishWeak},
		{0, 1, 1, 0, models.CompositeDirectionalBearishWeak}, // 2 groups, no core
	}
	for _, tc := range cases {
		res := c.Classify(actions(tc.core, tc.wing, tc.funding, tc.momentum), normalDay, true)
		if got := res.Composite(); got != tc.want {
			t.Fatalf("intraday %d/%d/%d/%d: got %q, want %q",
				tc.core, tc.wing, tc.funding, tc.momentum, got, tc.want)
		}
	}
}

func TestClassifyPure(t *testing.T) {
	c := newClassifier()
	set := actions(2, 1, 1, 0)
	a := c.Classify(set, normalDay, false)
	b := c.Classify(set, normalDay, false)
	if a.Composite() != b.Composite() || a.GroupsFiring != b.GroupsFiring {
		t.Fatalf("identical inputs diverged: %+v vs %+v", a, b)
	}
	if !reflect.DeepEqual(set, actions(2, 1, 1, 0)) {
		t.Fatalf("classification mutated its input")
	}
}

func TestGroupCounts(t *testing.T) {
	c := newClassifier()
	core, wing, funding, momentum, groups := c.GroupCounts(actions(1, 2, 1, 0), normalDay)
	if core != 1 || wing != 2 || funding != 1 || momentum != 0 {
		t.Fatalf("counts = %d/%d/%d/%d", core, wing, funding, momentum)
	}
	// A single core action is below the core group bar; wing and funding fire.
	if groups != 2 {
		t.Fatalf("groupsFiring = %d, want 2", groups)
	}
}
