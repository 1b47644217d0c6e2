package scheduler

import (
	"fmt"
	"sort"
	"time"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// Violation describes one broken scheduling rule found in an existing
// schedule or history file.
type Violation struct {
	Member      string
	Date        time.Time
	Rule        string
	Description string
}

// VerifyOptions tunes the post-hoc checks.
type VerifyOptions struct {
	// CloseIntervalDays flags same-type assignments spaced closer than
	// this many days.
	CloseIntervalDays int

	// NightToDayGapDays is the rest window checked after night weeks.
	NightToDayGapDays int
}

// VerifySchedule audits a set of assignment records against the rules a
// build would have enforced. It is the backend of the analyze command
// and runs on hand-edited schedules and historical CSV files alike, so
// it assumes nothing beyond valid records. Violations come back sorted
// by date, then member, then rule.
func VerifySchedule(records []model.HistoryRecord, opts VerifyOptions) []Violation {
	var violations []Violation

	byMember := make(map[string][]model.HistoryRecord)
	for _, record := range records {
		byMember[record.Member] = append(byMember[record.Member], record)
	}

	for member, own := range byMember {
		sort.Slice(own, func(i, j int) bool {
			if !own[i].Date.Equal(own[j].Date) {
				return own[i].Date.Before(own[j].Date)
			}
			return own[i].Type < own[j].Type
		})
		violations = append(violations, checkDoubleBookings(member, own)...)
		violations = append(violations, checkNightPositions(member, own)...)
		violations = append(violations, checkNightWeeks(member, own, opts.NightToDayGapDays)...)
		violations = append(violations, checkCloseIntervals(member, own, opts.CloseIntervalDays)...)
	}

	sort.Slice(violations, func(i, j int) bool {
		a, b := violations[i], violations[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		if a.Member != b.Member {
			return a.Member < b.Member
		}
		return a.Rule < b.Rule
	})
	return violations
}

func checkDoubleBookings(member string, records []model.HistoryRecord) []Violation {
	var violations []Violation
	byDate := make(map[time.Time]int)
	for _, record := range records {
		byDate[record.Date]++
	}
	for _, record := range records {
		if byDate[record.Date] > 1 {
			violations = append(violations, Violation{
				Member:      member,
				Date:        record.Date,
				Rule:        "DoubleBooking",
				Description: fmt.Sprintf("%d assignments on %s", byDate[record.Date], record.Date.Format(model.DateLayout)),
			})
			byDate[record.Date] = 0 // one violation per date
		}
	}
	return violations
}

// checkNightPositions flags members appearing at more than one night
// position, which the static night groups never allow.
func checkNightPositions(member string, records []model.HistoryRecord) []Violation {
	held := make(map[int]bool)
	first := time.Time{}
	for _, record := range records {
		if record.Type != model.ShiftNight {
			continue
		}
		if len(held) == 0 {
			first = record.Date
		}
		held[record.Index] = true
	}
	if len(held) < 2 {
		return nil
	}
	indexes := make([]int, 0, len(held))
	for idx := range held {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	return []Violation{{
		Member:      member,
		Date:        first,
		Rule:        "NightPositionConflict",
		Description: fmt.Sprintf("appears at night positions %v", indexes),
	}}
}

// checkNightWeeks flags day duty that lands inside a night week or in
// the rest window right after one.
func checkNightWeeks(member string, records []model.HistoryRecord, gapDays int) []Violation {
	var violations []Violation
	for _, night := range records {
		if night.Type != model.ShiftNight {
			continue
		}
		weekEnd := night.Date.AddDate(0, 0, 6)
		for _, day := range records {
			if day.Type != model.ShiftDay {
				continue
			}
			if !day.Date.Before(night.Date) && !day.Date.After(weekEnd) {
				violations = append(violations, Violation{
					Member:      member,
					Date:        day.Date,
					Rule:        "Overlap",
					Description: fmt.Sprintf("day duty inside night week starting %s", night.Date.Format(model.DateLayout)),
				})
				continue
			}
			since := calendar.DaysBetween(weekEnd, day.Date)
			if since > 0 && since < gapDays {
				violations = append(violations, Violation{
					Member:      member,
					Date:        day.Date,
					Rule:        "Cooldown",
					Description: fmt.Sprintf("day duty %d days after night week ending %s", since, weekEnd.Format(model.DateLayout)),
				})
			}
		}
	}
	return violations
}

func checkCloseIntervals(member string, records []model.HistoryRecord, thresholdDays int) []Violation {
	var violations []Violation
	for _, shiftType := range []model.ShiftType{model.ShiftDay, model.ShiftNight} {
		var prev *model.HistoryRecord
		for i := range records {
			record := records[i]
			if record.Type != shiftType {
				continue
			}
			if prev != nil && !record.Date.Equal(prev.Date) {
				gap := calendar.DaysBetween(prev.Date, record.Date)
				if gap < thresholdDays {
					violations = append(violations, Violation{
						Member:      member,
						Date:        record.Date,
						Rule:        "CloseInterval",
						Description: fmt.Sprintf("%s duty %d days after the previous one on %s", shiftType, gap, prev.Date.Format(model.DateLayout)),
					})
				}
			}
			prev = &record
		}
	}
	return violations
}
