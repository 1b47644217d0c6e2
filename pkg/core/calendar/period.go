// Package calendar owns rotation period arithmetic and the expansion of a
// period into the concrete duty slot sequence the schedule builder fills.
package calendar

import (
	"fmt"
	"time"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// Period is a rotation window with inclusive bounds.
type Period struct {
	Start time.Time
	End   time.Time
}

// InvalidPeriodError reports rotation bounds that cannot host a schedule.
// It is fatal: no slot work is attempted for an invalid period.
type InvalidPeriodError struct {
	Start  time.Time
	End    time.Time
	Reason string
}

func (e *InvalidPeriodError) Error() string {
	return fmt.Sprintf("invalid rotation period %s..%s: %s",
		e.Start.Format(model.DateLayout), e.End.Format(model.DateLayout), e.Reason)
}

// NewPeriod validates explicit rotation bounds. The end must not precede the
// start, and the span must contain at least one Monday so the weekly night
// cadence has somewhere to anchor.
func NewPeriod(start, end time.Time) (Period, error) {
	start = Midnight(start)
	end = Midnight(end)

	if end.Before(start) {
		return Period{}, &InvalidPeriodError{Start: start, End: end, Reason: "end precedes start"}
	}
	if firstWeekday(start, time.Monday).After(end) {
		return Period{}, &InvalidPeriodError{Start: start, End: end, Reason: "span contains no Monday"}
	}

	return Period{Start: start, End: end}, nil
}

// PeriodFrom applies the standard rotation convention: a period starting on
// the 21st of a month runs through the 20th two calendar months later.
func PeriodFrom(start time.Time) (Period, error) {
	return PeriodSpanning(start, 2)
}

// PeriodSpanning builds a period covering the given number of calendar
// months, ending the day before the start date's month anniversary.
func PeriodSpanning(start time.Time, months int) (Period, error) {
	start = Midnight(start)
	if months < 1 {
		return Period{}, &InvalidPeriodError{
			Start:  start,
			End:    start,
			Reason: fmt.Sprintf("non-positive duration of %d months", months),
		}
	}
	return NewPeriod(start, start.AddDate(0, months, -1))
}

// Lookback returns the trailing window of the given number of calendar
// months ending at reference. History records inside it seed eligibility
// and initial fairness counts; records outside it are ignored.
func Lookback(reference time.Time, months int) Period {
	reference = Midnight(reference)
	return Period{
		Start: reference.AddDate(0, -months, 1),
		End:   reference,
	}
}

// Contains reports whether date falls inside the period bounds.
func (p Period) Contains(date time.Time) bool {
	date = Midnight(date)
	return !date.Before(p.Start) && !date.After(p.End)
}

// Days returns the inclusive length of the period in days.
func (p Period) Days() int {
	return DaysBetween(p.Start, p.End) + 1
}

func (p Period) String() string {
	return p.Start.Format(model.DateLayout) + ".." + p.End.Format(model.DateLayout)
}

// Midnight truncates a timestamp to its calendar date at midnight UTC.
// All date arithmetic in the engine runs on these normalized values.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole days from a to b, negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(Midnight(b).Sub(Midnight(a)).Hours() / 24)
}

// ParseDate parses a YYYY-MM-DD string into a midnight UTC time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Midnight(t), nil
}

// firstWeekday returns the first occurrence of day on or after from.
func firstWeekday(from time.Time, day time.Weekday) time.Time {
	diff := (int(day) - int(from.Weekday()) + 7) % 7
	return from.AddDate(0, 0, diff)
}
