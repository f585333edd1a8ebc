package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextBillingDate(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		start    time.Time
		term     int
		period   BillingPeriod
		expected time.Time
	}{
		{
			name:     "one_month",
			start:    start,
			term:     1,
			period:   BILLING_PERIOD_MONTHLY,
			expected: time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "two_months",
			start:    start,
			term:     2,
			period:   BILLING_PERIOD_MONTHLY,
			expected: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "month_end_clamps",
			start:    time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC),
			term:     1,
			period:   BILLING_PERIOD_MONTHLY,
			expected: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "three_weeks",
			start:    start,
			term:     3,
			period:   BILLING_PERIOD_WEEKLY,
			expected: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "ten_days",
			start:    time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC),
			term:     10,
			period:   BILLING_PERIOD_DAILY,
			expected: time.Date(2024, 2, 4, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "one_year",
			start:    start,
			term:     1,
			period:   BILLING_PERIOD_ANNUAL,
			expected: time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextBillingDate(tt.start, tt.term, tt.period)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestNextBillingDate_Invalid(t *testing.T) {
	start := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	_, err := NextBillingDate(start, 0, BILLING_PERIOD_MONTHLY)
	assert.Error(t, err)

	_, err = NextBillingDate(start, 1, BILLING_PERIOD_ONETIME)
	assert.Error(t, err)
}

func TestDaysBetween(t *testing.T) {
	loc := time.UTC

	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{
			name:     "same_day",
			start:    time.Date(2024, 1, 1, 10, 0, 0, 0, loc),
			end:      time.Date(2024, 1, 1, 23, 0, 0, 0, loc),
			expected: 0,
		},
		{
			name:     "full_january",
			start:    time.Date(2024, 1, 1, 0, 0, 0, 0, loc),
			end:      time.Date(2024, 2, 1, 0, 0, 0, 0, loc),
			expected: 31,
		},
		{
			name:     "leap_february",
			start:    time.Date(2024, 2, 1, 0, 0, 0, 0, loc),
			end:      time.Date(2024, 3, 1, 0, 0, 0, 0, loc),
			expected: 29,
		},
		{
			name:     "backward_is_negative",
			start:    time.Date(2024, 1, 10, 0, 0, 0, 0, loc),
			end:      time.Date(2024, 1, 5, 0, 0, 0, 0, loc),
			expected: -5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DaysBetween(tt.start, tt.end, loc))
		})
	}
}

func TestBillingPeriod(t *testing.T) {
	assert.NoError(t, BILLING_PERIOD_MONTHLY.Validate())
	assert.Error(t, BillingPeriod("fortnight").Validate())

	assert.True(t, BILLING_PERIOD_DAILY.IsRecurring())
	assert.False(t, BILLING_PERIOD_ONETIME.IsRecurring())
}
