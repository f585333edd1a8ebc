package proration

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/marcus-alicia/blesta-sub029/internal/domain/lineitem"
	"github.com/marcus-alicia/blesta-sub029/internal/domain/meta"
	"github.com/marcus-alicia/blesta-sub029/internal/types"
)

// Schedule is the decoded form of an item's prorate bag: the billing
// window the item was priced for and either the day of month billing
// renews on or an explicit end date. Exactly one of ProrataDay and
// EndDate is expected; proration is a no-op otherwise.
type Schedule struct {
	StartDate  time.Time
	Term       int
	Period     types.BillingPeriod
	ProrataDay int
	EndDate    *time.Time
}

// Result reports what Prorate did to one item.
type Result struct {
	Item          *lineitem.LineItem
	Prorated      bool
	StartDate     time.Time
	EndDate       time.Time
	DaysInTerm    int
	DaysToProrate int
	Price         decimal.Decimal
}

// ScheduleFromMeta decodes the prorate bag off a meta collection. The
// boolean is false when the bag is absent or misses its required
// fields, which callers treat as "do not prorate".
func ScheduleFromMeta(col *meta.Collection) (*Schedule, bool) {
	if col == nil {
		return nil, false
	}
	bag := col.Bag(meta.BagProrate)
	if bag == nil {
		return nil, false
	}

	start, ok := coerceTime(bag[meta.FieldStartDate])
	if !ok || start.IsZero() {
		return nil, false
	}

	term, ok := coerceInt(bag[meta.FieldTerm])
	if !ok || term <= 0 {
		return nil, false
	}

	period := types.BillingPeriod(bag.GetString(meta.FieldPeriod))
	if p, isPeriod := bag[meta.FieldPeriod].(types.BillingPeriod); isPeriod {
		period = p
	}
	if period.Validate() != nil {
		return nil, false
	}

	s := &Schedule{
		StartDate: start,
		Term:      term,
		Period:    period,
	}

	if end, hasEnd := coerceTime(bag[meta.FieldEndDate]); hasEnd {
		s.EndDate = &end
	} else if day, hasDay := coerceInt(bag[meta.FieldProrataDay]); hasDay && day >= 1 && day <= 31 {
		s.ProrataDay = day
	} else {
		return nil, false
	}

	return s, true
}

func coerceTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return time.Time{}, false
		}
		return parsed, true
	default:
		return time.Time{}, false
	}
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
