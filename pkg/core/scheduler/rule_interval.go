package scheduler

import (
	"fmt"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// IntervalRule enforces the minimum days between two assignments of the
// same shift type. Day positions 1 and 2 and night positions honour a
// member's personal minimum when one is set. Day position 3 always uses
// the relaxed shared threshold, personal minimums do not apply there
// because the position's pool is small enough to starve otherwise.
//
// Excludes when:
//   - days since the member's last assignment of the slot's type is
//     below the required minimum
type IntervalRule struct {
	dayDays       int
	nightDays     int
	dayIndex3Days int
}

// NewIntervalRule creates a new IntervalRule from the engine parameters
func NewIntervalRule(params Params) *IntervalRule {
	return &IntervalRule{
		dayDays:       params.DayIntervalDays,
		nightDays:     params.NightIntervalDays,
		dayIndex3Days: params.DayIndex3IntervalDays,
	}
}

func (r *IntervalRule) Name() string {
	return "Interval"
}

func (r *IntervalRule) Exclude(st *State, member *model.Member, slot model.DutySlot) (bool, string) {
	required := r.requiredDays(member, slot)

	since, ok := st.daysSinceLast(member.Name, slot.Type, slot.Date)
	if !ok {
		return false, ""
	}
	if since < required {
		return true, fmt.Sprintf("only %d days since last %s duty on %s, minimum is %d",
			since, slot.Type, st.lastAssigned(member.Name, slot.Type).Format(model.DateLayout), required)
	}
	return false, ""
}

func (r *IntervalRule) requiredDays(member *model.Member, slot model.DutySlot) int {
	if slot.Type == model.ShiftNight {
		if member.MinDaysNight > 0 {
			return member.MinDaysNight
		}
		return r.nightDays
	}
	if slot.Index == 3 {
		return r.dayIndex3Days
	}
	if member.MinDaysDay > 0 {
		return member.MinDaysDay
	}
	return r.dayDays
}
