package scheduler

import (
	"time"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// span is an inclusive date range, used for committed night weeks.
type span struct {
	start time.Time
	end   time.Time
}

func (s span) covers(date time.Time) bool {
	return !date.Before(s.start) && !date.After(s.end)
}

// memberState carries one member's fairness counters and committed work.
// Counts are seeded from the history window so fairness continues across
// rotations instead of resetting each run.
type memberState struct {
	dayCount   int
	nightCount int

	lastDay   time.Time // zero when never assigned
	lastNight time.Time // week start of the most recent night duty

	dayDates   map[time.Time]bool // day dates committed this run
	nightWeeks []span             // seeded last week plus weeks committed this run
}

// State tracks fairness counters and committed assignments during a build.
// The engine owns it exclusively and mutates it only when a slot commits.
type State struct {
	members map[string]*memberState
}

// newState seeds fairness counters and last-assigned dates from the
// history window. The most recent night week is kept as a span so overlap
// and cooldown checks see duty that ended just before the period began.
func newState(roster []model.Member, history []model.HistoryRecord) *State {
	st := &State{members: make(map[string]*memberState, len(roster))}

	for _, m := range roster {
		st.members[m.Name] = &memberState{dayDates: make(map[time.Time]bool)}
	}

	for _, record := range history {
		ms, ok := st.members[record.Member]
		if !ok {
			// History often names people no longer on the roster.
			continue
		}
		switch record.Type {
		case model.ShiftDay:
			ms.dayCount++
			if record.Date.After(ms.lastDay) {
				ms.lastDay = record.Date
			}
		case model.ShiftNight:
			ms.nightCount++
			if record.Date.After(ms.lastNight) {
				ms.lastNight = record.Date
			}
		}
	}

	for _, ms := range st.members {
		if !ms.lastNight.IsZero() {
			ms.nightWeeks = append(ms.nightWeeks, span{
				start: ms.lastNight,
				end:   ms.lastNight.AddDate(0, 0, 6),
			})
		}
	}

	return st
}

// commit records an assignment and advances the member's fairness state.
func (s *State) commit(a model.Assignment) {
	ms := s.members[a.Member]

	switch a.Slot.Type {
	case model.ShiftDay:
		ms.dayCount++
		ms.lastDay = a.Slot.Date
		ms.dayDates[a.Slot.Date] = true
	case model.ShiftNight:
		ms.nightCount++
		ms.lastNight = a.Slot.WeekStart
		ms.nightWeeks = append(ms.nightWeeks, span{start: a.Slot.WeekStart, end: a.Slot.WeekEnd})
	}
}

// count returns the member's total for the shift type, history included.
func (s *State) count(name string, t model.ShiftType) int {
	ms := s.members[name]
	if t == model.ShiftNight {
		return ms.nightCount
	}
	return ms.dayCount
}

// lastAssigned returns the member's most recent assignment date for the
// shift type, zero when there is none.
func (s *State) lastAssigned(name string, t model.ShiftType) time.Time {
	ms := s.members[name]
	if t == model.ShiftNight {
		return ms.lastNight
	}
	return ms.lastDay
}

// daysSinceLast returns whole days between the member's last assignment of
// the type and date, with ok=false when the member has none.
func (s *State) daysSinceLast(name string, t model.ShiftType, date time.Time) (int, bool) {
	last := s.lastAssigned(name, t)
	if last.IsZero() {
		return 0, false
	}
	return calendar.DaysBetween(last, date), true
}
