package types

import (
	"time"

	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
)

// NextBillingDate calculates the date one full term past the given
// start time. For example:
// - If the period is month and the term is 2, we add two months.
// - If the period is year and the term is 1, we add one year.
// - If the period is week and the term is 3, we add 21 days.
// Month and year additions clamp to the last valid day of the target
// month rather than spilling into the next one.
func NextBillingDate(start time.Time, term int, period BillingPeriod) (time.Time, error) {
	if term <= 0 {
		return start, ierr.NewError("invalid billing term").
			WithHintf("billing term must be a positive integer, got %d", term).
			Mark(ierr.ErrValidation)
	}

	switch period {
	case BILLING_PERIOD_DAILY:
		return AddClampedDate(start, 0, 0, term), nil
	case BILLING_PERIOD_WEEKLY:
		return AddClampedDate(start, 0, 0, 7*term), nil
	case BILLING_PERIOD_MONTHLY:
		return AddClampedDate(start, 0, term, 0), nil
	case BILLING_PERIOD_ANNUAL:
		return AddClampedDate(start, term, 0, 0), nil
	default:
		return start, ierr.NewError("invalid billing period").
			WithHintf("period %q does not renew", period).
			Mark(ierr.ErrValidation)
	}
}

// AddClampedDate adds years, months and days to a time like
// time.AddDate, except that month and year arithmetic clamps to the
// last valid day of the resulting month. Adding one month to Jan 31
// yields Feb 28/29 rather than Mar 2/3.
func AddClampedDate(t time.Time, years, months, days int) time.Time {
	y, m, d := t.Date()
	h, min, sec := t.Clock()

	newY := y + years
	newM := time.Month(int(m) + months)

	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}

	lastDay := DaysInMonth(newY, newM, t.Location())
	newD := d + days
	if days == 0 && newD > lastDay {
		newD = lastDay
	}

	return time.Date(newY, newM, newD, h, min, sec, t.Nanosecond(), t.Location())
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month, loc *time.Location) int {
	firstOfNext := time.Date(year, month+1, 1, 0, 0, 0, 0, loc)
	return firstOfNext.AddDate(0, 0, -1).Day()
}

// DaysBetween counts whole calendar days between two points in time,
// using the given location for day boundaries and stepping through
// midnights so DST transitions do not skew the count. The result is
// negative when end precedes start.
func DaysBetween(start, end time.Time, loc *time.Location) int {
	if end.Before(start) {
		return -DaysBetween(end, start, loc)
	}

	startDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)
	endDay := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)

	days := 0
	current := startDay
	for current.Before(endDay) {
		days++
		next := current.Add(24 * time.Hour)
		current = time.Date(next.Year(), next.Month(), next.Day(), 0, 0, 0, 0, loc)
	}

	return days
}
