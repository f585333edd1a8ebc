package proration

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/lineitem"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
	ierr "github.com/marcus-alicia/blesta-sub029/internal/errors"
	"github.com/marcus-alicia/blesta-sub029/internal/logger"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

// Calculator rewrites line item prices for partial billing periods.
// The timezone governs day boundaries when counting; it is injected
// here rather than read from any ambient configuration.
type Calculator struct {
	loc       *time.Location
	precision int32
	logger    *logger.Logger
}

// NewCalculator creates a proration calculator for the given company
// timezone and rounding precision.
func NewCalculator(timezone string, precision int32, log *logger.Logger) (*Calculator, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("failed to load timezone '%s'", timezone).
			Mark(ierr.ErrSystem)
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Calculator{loc: loc, precision: precision, logger: log}, nil
}

// Prorate scales an item's unit price to the fraction of its billing
// term actually covered, per the item's prorate bag. Items without a
// usable schedule, one-time items, and items already marked prorated
// pass through unchanged. On success the item's price is replaced and
// its provenance rewritten so a second pass is a no-op.
func (c *Calculator) Prorate(item *lineitem.LineItem) (*Result, error) {
	if item == nil {
		return nil, ierr.NewError("line item is required").Mark(ierr.ErrValidation)
	}
	noop := &Result{Item: item, Prorated: false, Price: item.Price()}

	data := item.Meta().Bag(meta.BagData)
	if data.GetBool(meta.FieldProrated) {
		return noop, nil
	}

	sched, ok := ScheduleFromMeta(item.Meta())
	if !ok || !sched.Period.IsRecurring() {
		return noop, nil
	}

	target, fromProrataDay := c.resolveTarget(sched)
	if target == nil {
		return noop, nil
	}

	termEnd, err := types.NextBillingDate(sched.StartDate, sched.Term, sched.Period)
	if err != nil {
		return nil, err
	}
	daysInTerm := types.DaysBetween(sched.StartDate, termEnd, c.loc)

	backward := target.Before(sched.StartDate)
	daysToProrate := types.DaysBetween(sched.StartDate, *target, c.loc)
	if daysToProrate < 0 {
		daysToProrate = -daysToProrate
	}
	if fromProrataDay {
		// The resolved billing day itself is covered, so the window
		// runs through the end of that day.
		daysToProrate++
	}

	base := item.Price()
	if backward {
		base = base.Neg()
	}

	var prorated decimal.Decimal
	if daysInTerm == 0 {
		prorated = decimal.Zero
	} else {
		prorated = decimal.NewFromInt(int64(daysToProrate)).
			Mul(base).
			Div(decimal.NewFromInt(int64(daysInTerm))).
			Round(c.precision)
	}

	item.SetPrice(prorated)
	c.markProrated(item, sched.StartDate, *target)

	c.logger.Debugw("prorated line item",
		"key", item.Key(),
		"days_to_prorate", daysToProrate,
		"days_in_term", daysInTerm,
		"price", prorated,
	)

	return &Result{
		Item:          item,
		Prorated:      true,
		StartDate:     sched.StartDate,
		EndDate:       *target,
		DaysInTerm:    daysInTerm,
		DaysToProrate: daysToProrate,
		Price:         prorated,
	}, nil
}

// ProrateCollection runs Prorate over each item in order and returns
// the per-item results.
func (c *Calculator) ProrateCollection(items []*lineitem.LineItem) ([]*Result, error) {
	results := make([]*Result, 0, len(items))
	for _, item := range items {
		res, err := c.Prorate(item)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}

// resolveTarget determines the date proration runs to. A nil target
// means proration is not needed. The boolean reports whether the
// target came from a prorata day rather than an explicit end date.
func (c *Calculator) resolveTarget(sched *Schedule) (*time.Time, bool) {
	loc := sched.StartDate.Location()

	if sched.EndDate != nil {
		end := *sched.EndDate
		target := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, loc)
		return &target, false
	}

	if sched.ProrataDay < 1 || sched.ProrataDay > 31 {
		return nil, false
	}

	start := sched.StartDate
	if start.Day() == sched.ProrataDay {
		// Billing already lands on the prorata day.
		return nil, true
	}

	y, m := start.Year(), start.Month()
	day := clampDay(sched.ProrataDay, y, m, loc)
	target := time.Date(y, m, day, 0, 0, 0, 0, loc)

	startMidnight := time.Date(y, m, start.Day(), 0, 0, 0, 0, loc)
	if !target.After(startMidnight) {
		next := time.Date(y, m, 1, 0, 0, 0, 0, loc).AddDate(0, 1, 0)
		day = clampDay(sched.ProrataDay, next.Year(), next.Month(), loc)
		target = time.Date(next.Year(), next.Month(), day, 0, 0, 0, 0, loc)
	}

	return &target, true
}

// clampDay clamps a prorata day to the last day of a short month.
// Legacy billing policy, preserved as-is.
func clampDay(day, year int, month time.Month, loc *time.Location) int {
	if last := types.DaysInMonth(year, month, loc); day > last {
		return last
	}
	return day
}

// markProrated rewrites the item's provenance after scaling: the _data
// bag gains the prorated flag and resolved window, and the prorate
// bag's end date is replaced with the resolved date. Both make a
// second pass through the pipeline a no-op.
func (c *Calculator) markProrated(item *lineitem.LineItem, start, end time.Time) {
	var record *meta.Item
	for _, rec := range item.Meta().Items() {
		if _, ok := rec.Get(meta.BagData).(types.Metadata); ok {
			record = rec
		}
	}
	if record == nil {
		record = item.Meta().First()
	}
	if record == nil {
		record = meta.NewItem(types.Metadata{})
		item.Meta().Append(record)
	}

	data, _ := record.Get(meta.BagData).(types.Metadata)
	if data == nil {
		data = types.Metadata{}
		record.Set(meta.BagData, data)
	}
	data[meta.FieldProrated] = true
	data[meta.FieldStartDate] = start
	data[meta.FieldEndDate] = end

	for _, rec := range item.Meta().Items() {
		if bag, ok := rec.Get(meta.BagProrate).(types.Metadata); ok {
			bag[meta.FieldEndDate] = end
		}
	}
}
