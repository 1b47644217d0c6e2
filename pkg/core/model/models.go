package model

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all calendar dates in config, CSV and output.
const DateLayout = "2006-01-02"

type ShiftType string

const (
	ShiftDay   ShiftType = "Day"
	ShiftNight ShiftType = "Night"
)

func (s ShiftType) IsValid() bool {
	return s == ShiftDay || s == ShiftNight
}

// Index counts per shift type. Day duty fills three numbered positions per
// weekend date, night duty fills two numbered positions per week.
const (
	DayIndexCount   = 3
	NightIndexCount = 2
)

// ValidIndex reports whether idx is a real position for the shift type.
func ValidIndex(t ShiftType, idx int) bool {
	switch t {
	case ShiftDay:
		return idx >= 1 && idx <= DayIndexCount
	case ShiftNight:
		return idx >= 1 && idx <= NightIndexCount
	default:
		return false
	}
}

// Member represents one person on the duty roster.
type Member struct {
	Name   string
	Active bool

	// DayIndexes is the member's static day-duty eligibility: {1,2}, {3},
	// or empty when the member takes no day duty.
	DayIndexes []int

	// NightIndex is the member's fixed night position (1 or 2), 0 when the
	// member takes no night duty. Night positions never rotate.
	NightIndex int

	// MinDaysDay / MinDaysNight override the default minimum spacing between
	// two assignments of the same type. 0 means use the configured default.
	MinDaysDay   int
	MinDaysNight int
}

// OnDayDuty reports whether the member belongs to any day duty group.
func (m *Member) OnDayDuty() bool {
	return len(m.DayIndexes) > 0
}

// OnNightDuty reports whether the member belongs to a night duty group.
func (m *Member) OnNightDuty() bool {
	return m.NightIndex != 0
}

// DutySlot is a single fillable position in the schedule.
//
// Day slots are dated on the weekend day they cover. Night slots are dated
// on the Monday that anchors their week and carry the full Monday..Sunday
// span; the span may extend past the rotation period end for the final week.
type DutySlot struct {
	Date  time.Time
	Type  ShiftType
	Index int

	WeekStart time.Time // night only
	WeekEnd   time.Time // night only
}

// Span returns the inclusive date range the slot occupies: the single day
// for day slots, the anchored week for night slots.
func (s DutySlot) Span() (time.Time, time.Time) {
	if s.Type == ShiftNight {
		return s.WeekStart, s.WeekEnd
	}
	return s.Date, s.Date
}

func (s DutySlot) String() string {
	return fmt.Sprintf("%s %s#%d", s.Date.Format(DateLayout), s.Type, s.Index)
}

// Assignment binds one duty slot to one member. Committed assignments are
// final; the builder never revisits them.
type Assignment struct {
	Slot   DutySlot
	Member string
}

// HistoryRecord is one past assignment, as loaded from the history file or
// emitted for the next rotation's seed data.
type HistoryRecord struct {
	Date   time.Time
	Type   ShiftType
	Index  int
	Member string
}

// NGRule declares a date span during which assignment is forbidden.
// Member is empty for global rules, which bind every member and suppress
// the affected slots outright. Single-date rules have Start == End.
type NGRule struct {
	Member string
	Start  time.Time
	End    time.Time
	Reason string
}

// Covers reports whether the rule's inclusive span contains date.
func (r NGRule) Covers(date time.Time) bool {
	return !date.Before(r.Start) && !date.After(r.End)
}

// Global reports whether the rule applies to every member.
func (r NGRule) Global() bool {
	return r.Member == ""
}
