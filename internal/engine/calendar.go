package engine

import (
	"time"

	"VolSentry/internal/domain/models"
	"VolSentry/pkg/config"
)

// CalendarOverlay computes the expiration/FOMC calendar modifier for a date.
// Pure date arithmetic; it never looks at market data.
type CalendarOverlay struct {
	fomcDates []time.Time
}

// NewCalendarOverlay builds an overlay from the configured FOMC calendar.
// Unparseable dates are skipped; config validation rejects them upstream.
func NewCalendarOverlay(cfg config.CalendarConfig) *CalendarOverlay {
	dates := make([]time.Time, 0, len(cfg.FOMCDates))
	for _, s := range cfg.FOMCDates {
		if d, err := time.Parse("2006-01-02", s); err == nil {
			dates = append(dates, d)
		}
	}
	return &CalendarOverlay{fomcDates: dates}
}

// MonthlyOpex returns the 3rd Friday of d's month.
func MonthlyOpex(d time.Time) time.Time {
	return nthWeekday(d.Year(), d.Month(), time.Friday, 3)
}

// VixExpiration returns the 3rd Wednesday of d's month.
func VixExpiration(d time.Time) time.Time {
	return nthWeekday(d.Year(), d.Month(), time.Wednesday, 3)
}

func nthWeekday(year int, month time.Month, weekday time.Weekday, n int) time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (int(weekday) - int(first.Weekday()) + 7) % 7
	return first.AddDate(0, 0, offset+(n-1)*7)
}

// daysBetween returns the absolute whole-day distance between two dates.
func daysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	d := int(a.Sub(b).Hours() / 24)
	if d < 0 {
		d = -d
	}
	return d
}

// nearFOMC reports whether d is within one calendar day of a listed meeting day.
func (o *CalendarOverlay) nearFOMC(d time.Time) bool {
	for _, m := range o.fomcDates {
		if daysBetween(d, m) <= 1 {
			return true
		}
	}
	return false
}

// ComputeOverlay classifies the date into the calendar cascade, first match
// wins: FOMC blackout, VIX-expiration discount, OpEx amplifier, normal.
// The VIX discount only applies when the date is not already inside the OpEx
// window; the booleans always reflect the raw windows regardless of which
// rule won.
func (o *CalendarOverlay) ComputeOverlay(d time.Time) models.CalendarContext {
	opex := MonthlyOpex(d)
	vix := VixExpiration(d)

	ctx := models.CalendarContext{
		Date:                d,
		OpexAmplifier:       daysBetween(d, opex) <= 3,
		VixpirationDiscount: daysBetween(d, vix) <= 1,
		FOMCBlackout:        o.nearFOMC(d),
	}

	switch {
	case ctx.FOMCBlackout:
		ctx.Modifier = 0.0
		ctx.Label = models.CalendarFOMCBlackout
	case ctx.VixpirationDiscount && !ctx.OpexAmplifier:
		ctx.Modifier = 0.7
		ctx.Label = models.CalendarVixpirationDiscount
	case ctx.OpexAmplifier:
		ctx.Modifier = 1.5
		ctx.Label = models.CalendarOpexAmplifier
	default:
		ctx.Modifier = 1.0
		ctx.Label = models.CalendarNormal
	}
	return ctx
}
