package engine

import (
	"testing"
	"time"

	"VolSentry/internal/domain/models"
	"VolSentry/pkg/config"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthlyOpexThirdFriday(t *testing.T) {
	got := MonthlyOpex(day(2025, time.June, 5))
	if !got.Equal(day(2025, time.June, 20)) {
		t.Fatalf("june opex = %v, want 2025-06-20", got)
	}
	got = MonthlyOpex(day(2025, time.May, 30))
	if !got.Equal(day(2025, time.May, 16)) {
		t.Fatalf("may opex = %v, want 2025-05-16", got)
	}
}

func TestVixExpirationThirdWednesday(t *testing.T) {
	got := VixExpiration(day(2025, time.June, 5))
	if !got.Equal(day(2025, time.June, 18)) {
		t.Fatalf("june vix expiration = %v, want 2025-06-18", got)
	}
	got = VixExpiration(day(2025, time.May, 2))
	if !got.Equal(day(2025, time.May, 21)) {
		t.Fatalf("may vix expiration = %v, want 2025-05-21", got)
	}
}

func TestOverlayNormal(t *testing.T) {
	o := NewCalendarOverlay(config.CalendarConfig{})
	ctx := o.ComputeOverlay(day(2025, time.June, 2))
	if ctx.Label != models.CalendarNormal || ctx.Modifier != 1.0 {
		t.Fatalf("got %s/%v, want NORMAL/1.0", ctx.Label, ctx.Modifier)
	}
	if ctx.OpexAmplifier || ctx.VixpirationDiscount || ctx.FOMCBlackout {
		t.Fatalf("no window should be active on 2025-06-02: %+v", ctx)
	}
}

func TestOverlayOpexWindow(t *testing.T) {
	o := NewCalendarOverlay(config.CalendarConfig{})
	for _, d := range []int{17, 18, 19, 20, 21, 22, 23} {
		ctx := o.ComputeOverlay(day(2025, time.June, d))
		if ctx.Label != models.CalendarOpexAmplifier || ctx.Modifier != 1.5 {
			t.Fatalf("2025-06-%02d: got %s/%v, want OPEX_AMPLIFIER/1.5", d, ctx.Label, ctx.Modifier)
		}
	}
	// Day 24 is four days past the 3rd Friday, outside the window.
	if ctx := o.ComputeOverlay(day(2025, time.June, 24)); ctx.Label != models.CalendarNormal {
		t.Fatalf("2025-06-24: got %s, want NORMAL", ctx.Label)
	}
}

func TestOverlayVixDiscountOnlyOutsideOpex(t *testing.T) {
	o := NewCalendarOverlay(config.CalendarConfig{})

	// May 2025: vix expiration (21st) sits five days after opex (16th).
	ctx := o.ComputeOverlay(day(2025, time.May, 21))
	if ctx.Label != models.CalendarVixpirationDiscount || ctx.Modifier != 0.7 {
		t.Fatalf("2025-05-21: got %s/%v, want VIXPIRATION_DISCOUNT/0.7", ctx.Label, ctx.Modifier)
	}
	if !ctx.VixpirationDiscount || ctx.OpexAmplifier {
		t.Fatalf("raw windows wrong: %+v", ctx)
	}

	// June 2025: vix expiration (18th) is inside the opex window, so the
	// amplifier wins while the raw vix boolean stays set.
	ctx = o.ComputeOverlay(day(2025, time.June, 18))
	if ctx.Label != models.CalendarOpexAmplifier {
		t.Fatalf("2025-06-18: got %s, want OPEX_AMPLIFIER", ctx.Label)
	}
	if !ctx.VixpirationDiscount {
		t.Fatalf("vix boolean must reflect the raw window")
	}
}

func TestOverlayFOMCBlackoutWinsEverything(t *testing.T) {
	o := NewCalendarOverlay(config.CalendarConfig{
		FOMCDates: []string{"2025-06-17", "2025-06-18"},
	})

	// 2025-06-18 is inside the opex window and on vix expiration, but the
	// blackout still zeroes the modifier.
	for _, d := range []int{16, 17, 18, 19} {
		ctx := o.ComputeOverlay(day(2025, time.June, d))
		if ctx.Label != models.CalendarFOMCBlackout || ctx.Modifier != 0.0 {
			t.Fatalf("2025-06-%02d: got %s/%v, want FOMC_BLACKOUT/0.0", d, ctx.Label, ctx.Modifier)
		}
	}
	if ctx := o.ComputeOverlay(day(2025, time.June, 20)); ctx.FOMCBlackout {
		t.Fatalf("2025-06-20 is outside the one-day blackout window")
	}
}

func TestOverlayBadFOMCDateSkipped(t *testing.T) {
	o := NewCalendarOverlay(config.CalendarConfig{FOMCDates: []string{"not-a-date"}})
	if ctx := o.ComputeOverlay(day(2025, time.June, 2)); ctx.FOMCBlackout {
		t.Fatalf("unparseable date must not create a blackout")
	}
}
