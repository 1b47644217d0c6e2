package scheduler

import (
	"fmt"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// CooldownRule keeps members off day duty in the recovery window after a
// night week. The window is open on both ends: the Sunday the week ends
// is the overlap rule's territory, and a date a full gap away is allowed
// again.
//
// Excludes when:
//   - the slot is a day slot and 0 < date - nightWeekEnd < gapDays for
//     any of the member's night weeks
type CooldownRule struct {
	gapDays int
}

// NewCooldownRule creates a new CooldownRule with the given gap in days
func NewCooldownRule(gapDays int) *CooldownRule {
	return &CooldownRule{gapDays: gapDays}
}

func (r *CooldownRule) Name() string {
	return "Cooldown"
}

func (r *CooldownRule) Exclude(st *State, member *model.Member, slot model.DutySlot) (bool, string) {
	if slot.Type != model.ShiftDay {
		return false, ""
	}
	for _, week := range st.members[member.Name].nightWeeks {
		since := calendar.DaysBetween(week.end, slot.Date)
		if since > 0 && since < r.gapDays {
			return true, fmt.Sprintf("within %d-day rest after night week ending %s",
				r.gapDays, week.end.Format(model.DateLayout))
		}
	}
	return false, ""
}
