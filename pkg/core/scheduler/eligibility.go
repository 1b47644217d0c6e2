package scheduler

import (
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// EligibilityTable maps each member to the index positions they may hold,
// per shift type. It is computed once when the engine is created and read
// for every candidate check afterwards.
//
// Day eligibility is inferred from the history window: working positions
// 1 or 2 locks a member to {1, 2}, working position 3 locks them to {3},
// and a member with no recent day duty falls back to their configured
// group. Night eligibility is always the configured position and history
// plays no part in it.
type EligibilityTable struct {
	day   map[string][]int
	night map[string][]int
}

func buildEligibility(roster []model.Member, history []model.HistoryRecord) *EligibilityTable {
	held := make(map[string]map[int]bool, len(roster))
	for _, record := range history {
		if record.Type != model.ShiftDay {
			continue
		}
		if held[record.Member] == nil {
			held[record.Member] = make(map[int]bool)
		}
		held[record.Member][record.Index] = true
	}

	table := &EligibilityTable{
		day:   make(map[string][]int, len(roster)),
		night: make(map[string][]int, len(roster)),
	}

	for _, m := range roster {
		table.day[m.Name] = dayIndexesFor(m, held[m.Name])
		if m.NightIndex > 0 {
			table.night[m.Name] = []int{m.NightIndex}
		}
	}

	return table
}

// dayIndexesFor resolves one member's day positions. A history holding
// both position 3 and a position from {1, 2} contradicts itself, and the
// member is eligible for nothing until the history ages out.
func dayIndexesFor(m model.Member, held map[int]bool) []int {
	heldLow := held[1] || held[2]
	heldHigh := held[3]

	switch {
	case heldLow && heldHigh:
		return nil
	case heldLow:
		return []int{1, 2}
	case heldHigh:
		return []int{3}
	default:
		return append([]int(nil), m.DayIndexes...)
	}
}

// Eligible reports whether the member may hold the given position.
func (t *EligibilityTable) Eligible(name string, shiftType model.ShiftType, index int) bool {
	var indexes []int
	if shiftType == model.ShiftNight {
		indexes = t.night[name]
	} else {
		indexes = t.day[name]
	}
	for _, idx := range indexes {
		if idx == index {
			return true
		}
	}
	return false
}

// EligibleIndexes returns the member's allowed positions for the type.
func (t *EligibilityTable) EligibleIndexes(name string, shiftType model.ShiftType) []int {
	if shiftType == model.ShiftNight {
		return t.night[name]
	}
	return t.day[name]
}
