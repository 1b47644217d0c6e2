package scheduler

import (
	"time"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// FixedPattern pins one member to a specific night position on a weekly
// cadence counted from a reference date. On a week the pattern lands on,
// the member takes the position without scoring, though hard rules still
// apply and a blocked member falls back to the normal candidate pool. On
// every other week the member sits the position out entirely.
type FixedPattern struct {
	Member      string
	Index       int
	Reference   time.Time
	CadenceDays int
}

// AppliesTo reports whether the slot is the position the pattern manages.
func (p *FixedPattern) AppliesTo(slot model.DutySlot) bool {
	return p != nil && slot.Type == model.ShiftNight && slot.Index == p.Index
}

// ForcedFor reports whether the pattern puts its member on the slot's
// week. Whole weeks from the reference are counted with a floor so weeks
// before the reference keep the same cadence as weeks after it.
func (p *FixedPattern) ForcedFor(slot model.DutySlot) bool {
	if !p.AppliesTo(slot) {
		return false
	}
	days := calendar.DaysBetween(p.Reference, slot.WeekStart)
	weeks := floorDiv(days, 7)
	return (weeks*7)%p.CadenceDays == 0
}

// floorDiv divides rounding toward negative infinity, unlike Go's
// truncating integer division.
func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
