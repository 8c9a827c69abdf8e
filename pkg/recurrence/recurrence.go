// Package recurrence computes occurrences of recurring scheduled tasks.
package recurrence

import (
	"fmt"
	"time"

	"larsbees/entities"
	"larsbees/pkg/apperr"
)

var ErrInvalidRecurrence = fmt.Errorf("%w: invalid recurrence", apperr.ErrInvalid)

type Pattern string

const (
	Daily   Pattern = "daily"
	Weekly  Pattern = "weekly"
	Monthly Pattern = "monthly"
	Yearly  Pattern = "yearly"
)

type Rule struct {
	Pattern  Pattern
	Interval int
	End      *time.Time
}

func (r Rule) Validate() error {
	switch r.Pattern {
	case Daily, Weekly, Monthly, Yearly:
	default:
		return fmt.Errorf("pattern %q: %w", r.Pattern, ErrInvalidRecurrence)
	}
	if r.Interval < 1 {
		return fmt.Errorf("interval %d: %w", r.Interval, ErrInvalidRecurrence)
	}
	return nil
}

// RuleOf reads the recurrence settings of a task.
func RuleOf(t entities.ScheduledTask) Rule {
	return Rule{Pattern: Pattern(t.RecurrencePattern), Interval: t.RecurrenceInterval, End: t.RecurrenceEndDate}
}

// Next returns the smallest occurrence start + k*interval (k >= 0) strictly
// after "after". ok is false when that occurrence falls past the end date.
// Month and year steps are anchored on start and clamp the day of month.
func Next(start time.Time, r Rule, after time.Time) (next time.Time, ok bool, err error) {
	if err := r.Validate(); err != nil {
		return time.Time{}, false, err
	}
	switch r.Pattern {
	case Daily:
		next = nextDays(start, after, r.Interval)
	case Weekly:
		next = nextDays(start, after, 7*r.Interval)
	case Monthly:
		next = nextMonths(start, after, r.Interval)
	case Yearly:
		next = nextMonths(start, after, 12*r.Interval)
	}
	if r.End != nil && day(next).After(day(*r.End)) {
		return time.Time{}, false, nil
	}
	return next, true, nil
}

// NextOccurrence is Next for a stored task. anchor is the scheduled date of
// the first task in the chain; occurrences are counted from there.
func NextOccurrence(t entities.ScheduledTask, anchor, now time.Time) (time.Time, bool, error) {
	if !t.IsRecurring {
		return time.Time{}, false, nil
	}
	after := now
	if t.ScheduledDate.After(after) {
		after = t.ScheduledDate
	}
	return Next(anchor, RuleOf(t), after)
}

func nextDays(start, after time.Time, days int) time.Time {
	if after.Before(start) {
		return start
	}
	step := time.Duration(days) * 24 * time.Hour
	k := int(after.Sub(start)/step) + 1
	next := start.AddDate(0, 0, k*days)
	for !next.After(after) {
		k++
		next = start.AddDate(0, 0, k*days)
	}
	return next
}

func nextMonths(start, after time.Time, months int) time.Time {
	if after.Before(start) {
		return start
	}
	elapsed := (after.Year()-start.Year())*12 + int(after.Month()) - int(start.Month())
	k := elapsed / months
	if k < 0 {
		k = 0
	}
	next := AddMonths(start, k*months)
	for !next.After(after) {
		k++
		next = AddMonths(start, k*months)
	}
	return next
}

// AddMonths moves t by n calendar months, clamping the day to the length of
// the target month (Jan 31 + 1 = Feb 28 or 29).
func AddMonths(t time.Time, n int) time.Time {
	m := int(t.Month()) - 1 + n
	y := t.Year() + m/12
	m %= 12
	if m < 0 {
		m += 12
		y--
	}
	d := t.Day()
	if last := daysIn(y, time.Month(m+1), t.Location()); d > last {
		d = last
	}
	return time.Date(y, time.Month(m+1), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(y int, m time.Month, loc *time.Location) int {
	return time.Date(y, m+1, 0, 0, 0, 0, 0, loc).Day()
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
