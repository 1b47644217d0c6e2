package scheduler

import (
	"math"
	"sort"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// scoreKey ranks one candidate for one slot. Keys compare field by
// field, first difference wins:
//
//  1. count: assignments of the slot's shift type, fewer first
//  2. penalty: day-to-night gap class, lower first (0 clear, 1 weak, 2 strong)
//  3. sinceLast: days since the last duty of the type, longer first,
//     never-assigned members rank ahead of everyone
//  4. name: byte order of the member name, the final deterministic tie-break
type scoreKey struct {
	count     int
	penalty   int
	sinceLast int
	name      string
}

func (k scoreKey) less(other scoreKey) bool {
	if k.count != other.count {
		return k.count < other.count
	}
	if k.penalty != other.penalty {
		return k.penalty < other.penalty
	}
	if k.sinceLast != other.sinceLast {
		return k.sinceLast > other.sinceLast
	}
	return k.name < other.name
}

func (e *Engine) score(member *model.Member, slot model.DutySlot) scoreKey {
	key := scoreKey{
		count:     e.state.count(member.Name, slot.Type),
		penalty:   e.penaltyClass(member, slot),
		sinceLast: math.MaxInt,
		name:      member.Name,
	}
	if since, ok := e.state.daysSinceLast(member.Name, slot.Type, slot.Date); ok {
		key.sinceLast = since
	}
	return key
}

// penaltyClass grades how recently the member worked a day shift before
// this night week: 2 inside the strong window, 1 inside the weak window,
// 0 otherwise. Day slots and disabled soft constraints always grade 0.
func (e *Engine) penaltyClass(member *model.Member, slot model.DutySlot) int {
	gap := e.params.SoftDayToNightGap
	if !gap.Enabled || slot.Type != model.ShiftNight {
		return 0
	}
	lastDay := e.state.lastAssigned(member.Name, model.ShiftDay)
	if lastDay.IsZero() {
		return 0
	}
	since := calendar.DaysBetween(lastDay, slot.WeekStart)
	switch {
	case since < 0:
		return 0
	case since <= gap.StrongDays:
		return 2
	case since <= gap.WeakDays:
		return 1
	default:
		return 0
	}
}

// rank orders candidates best first. Sorting the whole pool instead of
// scanning for a minimum keeps the ordering inspectable in one place.
func (e *Engine) rank(pool []*model.Member, slot model.DutySlot) []*model.Member {
	type scored struct {
		member *model.Member
		key    scoreKey
	}
	keys := make([]scored, len(pool))
	for i, m := range pool {
		keys[i] = scored{member: m, key: e.score(m, slot)}
	}
	sort.SliceStable(keys, func(i, j int) bool {
		return keys[i].key.less(keys[j].key)
	})
	ranked := make([]*model.Member, len(keys))
	for i, s := range keys {
		ranked[i] = s.member
	}
	return ranked
}
