package recurrence

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"larsbees/entities"
)

func date(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 9, 0, 0, 0, time.UTC) }

func TestNextExamples(t *testing.T) {
	d := date(2024, 4, 1)
	cases := []struct {
		name  string
		start time.Time
		rule  Rule
		now   time.Time
		want  time.Time
	}{
		{"weekly every 2", d, Rule{Pattern: Weekly, Interval: 2}, d.AddDate(0, 0, 10), d.AddDate(0, 0, 14)},
		{"monthly", date(2024, 1, 15), Rule{Pattern: Monthly, Interval: 1}, date(2024, 2, 1), date(2024, 2, 15)},
		{"yearly", date(2024, 3, 10), Rule{Pattern: Yearly, Interval: 1}, date(2025, 1, 1), date(2025, 3, 10)},
		{"daily every 3", d, Rule{Pattern: Daily, Interval: 3}, d.AddDate(0, 0, 7), d.AddDate(0, 0, 9)},
		{"start still ahead", d, Rule{Pattern: Daily, Interval: 1}, d.AddDate(0, 0, -5), d},
		{"exactly on occurrence", d, Rule{Pattern: Weekly, Interval: 1}, d.AddDate(0, 0, 7), d.AddDate(0, 0, 14)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok, err := Next(tc.start, tc.rule, tc.now)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
			assert.True(t, got.After(tc.now))
		})
	}
}

func TestMonthEndClamps(t *testing.T) {
	start := date(2024, 1, 31)
	rule := Rule{Pattern: Monthly, Interval: 1}

	got, ok, err := Next(start, rule, start)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, date(2024, 2, 29), got)

	got, _, _ = Next(start, rule, got)
	assert.Equal(t, date(2024, 3, 31), got)

	got, _, _ = Next(start, rule, got)
	assert.Equal(t, date(2024, 4, 30), got)
}

func TestLeapDayYearly(t *testing.T) {
	start := date(2024, 2, 29)
	rule := Rule{Pattern: Yearly, Interval: 1}
	got, _, err := Next(start, rule, start)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 28), got)

	got, _, _ = Next(start, Rule{Pattern: Yearly, Interval: 4}, start)
	assert.Equal(t, date(2028, 2, 29), got)
}

func TestInvalidRule(t *testing.T) {
	for _, r := range []Rule{{Pattern: "fortnightly", Interval: 1}, {Pattern: "", Interval: 1}, {Pattern: Daily, Interval: 0}} {
		_, _, err := Next(date(2024, 1, 1), r, date(2024, 2, 1))
		assert.True(t, errors.Is(err, ErrInvalidRecurrence), "%+v", r)
	}
}

func TestEndDateStops(t *testing.T) {
	end := date(2024, 1, 20)
	_, ok, err := Next(date(2024, 1, 1), Rule{Pattern: Weekly, Interval: 1, End: &end}, date(2024, 1, 16))
	require.NoError(t, err)
	assert.False(t, ok)

	got, ok, _ := Next(date(2024, 1, 1), Rule{Pattern: Weekly, Interval: 1, End: &end}, date(2024, 1, 10))
	assert.True(t, ok)
	assert.Equal(t, date(2024, 1, 15), got)
}

func TestNextOccurrence(t *testing.T) {
	task := entities.ScheduledTask{ScheduledDate: date(2024, 5, 1)}
	_, ok, err := NextOccurrence(task, task.ScheduledDate, date(2024, 4, 1))
	require.NoError(t, err)
	assert.False(t, ok, "non-recurring task has no next occurrence")

	task.IsRecurring = true
	task.RecurrencePattern = "weekly"
	task.RecurrenceInterval = 1
	// completing early still moves past the current occurrence
	got, ok, err := NextOccurrence(task, task.ScheduledDate, date(2024, 4, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, date(2024, 5, 8), got)
}

func TestAddMonthsNegative(t *testing.T) {
	assert.Equal(t, date(2023, 11, 30), AddMonths(date(2024, 1, 30), -2))
	assert.Equal(t, date(2023, 12, 31), AddMonths(date(2024, 3, 31), -3))
}
