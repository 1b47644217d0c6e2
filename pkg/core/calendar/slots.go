package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/teambition/rrule-go"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// Default recurrence rules: day duty on weekends, night duty anchored to
// Mondays.
const (
	DefaultDayRule   = "FREQ=WEEKLY;BYDAY=SA,SU"
	DefaultNightRule = "FREQ=WEEKLY;BYDAY=MO"
)

// Rules selects which dates inside a period carry day and night duty,
// expressed as RFC 5545 RRULE strings.
type Rules struct {
	DayRule   string
	NightRule string
}

// DefaultRules returns the weekend-day / Monday-night cadence.
func DefaultRules() Rules {
	return Rules{DayRule: DefaultDayRule, NightRule: DefaultNightRule}
}

// Slots expands a period into its duty slot sequence: three day positions
// per day-rule occurrence, two night positions per night-rule occurrence.
// Night slots carry the 7-day span starting at their occurrence date; the
// span of the final week may extend past the period end.
//
// Slot order is deterministic:
//  1. date ascending
//  2. shift type ascending (Day before Night)
//  3. index ascending
func Slots(period Period, rules Rules) ([]model.DutySlot, error) {
	dayDates, err := expand(rules.DayRule, period)
	if err != nil {
		return nil, fmt.Errorf("invalid day recurrence rule: %w", err)
	}
	nightDates, err := expand(rules.NightRule, period)
	if err != nil {
		return nil, fmt.Errorf("invalid night recurrence rule: %w", err)
	}

	slots := make([]model.DutySlot, 0,
		len(dayDates)*model.DayIndexCount+len(nightDates)*model.NightIndexCount)

	for _, date := range dayDates {
		for idx := 1; idx <= model.DayIndexCount; idx++ {
			slots = append(slots, model.DutySlot{
				Date:  date,
				Type:  model.ShiftDay,
				Index: idx,
			})
		}
	}
	for _, date := range nightDates {
		for idx := 1; idx <= model.NightIndexCount; idx++ {
			slots = append(slots, model.DutySlot{
				Date:      date,
				Type:      model.ShiftNight,
				Index:     idx,
				WeekStart: date,
				WeekEnd:   date.AddDate(0, 0, 6),
			})
		}
	}

	sort.SliceStable(slots, func(i, j int) bool {
		if !slots[i].Date.Equal(slots[j].Date) {
			return slots[i].Date.Before(slots[j].Date)
		}
		if slots[i].Type != slots[j].Type {
			return slots[i].Type < slots[j].Type
		}
		return slots[i].Index < slots[j].Index
	})

	return slots, nil
}

// expand lists the rule's occurrences inside the period as midnight UTC
// dates, in ascending order.
func expand(rule string, period Period) ([]time.Time, error) {
	parsed, err := rrule.StrToRRule(rule)
	if err != nil {
		return nil, err
	}
	parsed.DTStart(period.Start)

	occurrences := parsed.Between(period.Start, period.End, true)
	dates := make([]time.Time, 0, len(occurrences))
	for _, occ := range occurrences {
		dates = append(dates, Midnight(occ))
	}
	return dates, nil
}
