package scheduler

import (
	"fmt"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// OverlapRule excludes candidates whose committed work collides with the
// slot in calendar time. Day work and night work block each other in both
// directions within a night week.
//
// Excludes when:
//   - a day slot's date already carries a day assignment for the member
//   - a day slot's date falls inside one of the member's night weeks,
//     including the week seeded from history
//   - a night slot's week contains one of the member's committed day dates
//   - a night slot's week overlaps a night week they already hold
type OverlapRule struct{}

// NewOverlapRule creates a new OverlapRule
func NewOverlapRule() *OverlapRule {
	return &OverlapRule{}
}

func (r *OverlapRule) Name() string {
	return "Overlap"
}

func (r *OverlapRule) Exclude(st *State, member *model.Member, slot model.DutySlot) (bool, string) {
	ms := st.members[member.Name]

	if slot.Type == model.ShiftDay {
		if ms.dayDates[slot.Date] {
			return true, fmt.Sprintf("already assigned day duty on %s", slot.Date.Format(model.DateLayout))
		}
		for _, week := range ms.nightWeeks {
			if week.covers(slot.Date) {
				return true, fmt.Sprintf("night duty week %s to %s covers this date",
					week.start.Format(model.DateLayout), week.end.Format(model.DateLayout))
			}
		}
		return false, ""
	}

	for offset := 0; offset < 7; offset++ {
		date := slot.WeekStart.AddDate(0, 0, offset)
		if ms.dayDates[date] {
			return true, fmt.Sprintf("day duty on %s falls inside this night week", date.Format(model.DateLayout))
		}
	}
	for _, week := range ms.nightWeeks {
		if !week.end.Before(slot.WeekStart) && !week.start.After(slot.WeekEnd) {
			return true, fmt.Sprintf("already holds night duty week starting %s", week.start.Format(model.DateLayout))
		}
	}
	return false, ""
}
