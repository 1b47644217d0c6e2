package scheduler

import (
	"fmt"
	"time"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// Params tunes the hard and soft constraint thresholds, all in days.
type Params struct {
	// DayIntervalDays is the minimum between two day duties for
	// positions 1 and 2, unless the member sets their own minimum.
	DayIntervalDays int

	// NightIntervalDays is the minimum between two night weeks, unless
	// the member sets their own minimum.
	NightIntervalDays int

	// DayIndex3IntervalDays is the relaxed minimum for day position 3.
	DayIndex3IntervalDays int

	// NightToDayGapDays is the rest window after a night week during
	// which day duty is blocked.
	NightToDayGapDays int

	// SoftDayToNightGap demotes night candidates who worked a day shift
	// shortly before the week. It never excludes anyone.
	SoftDayToNightGap SoftGap
}

// SoftGap is the day-to-night proximity penalty configuration.
type SoftGap struct {
	Enabled    bool
	StrongDays int
	WeakDays   int
}

// Inputs is everything a build needs, resolved and validated upstream.
type Inputs struct {
	// Period is the rotation being scheduled.
	Period calendar.Period

	// Slots is the full slot sequence for the period, already in
	// chronological order as produced by the calendar package.
	Slots []model.DutySlot

	// Roster is the merged member list from the settings file.
	Roster []model.Member

	// History is the assignment window used to seed fairness counters
	// and day-shift eligibility. Callers filter it to the lookback
	// window first.
	History []model.HistoryRecord

	// NGRules are the resolved unavailability ranges, member-scoped and
	// roster-wide.
	NGRules []model.NGRule

	// Fixed pins one member to a night position on a cadence. Nil when
	// the pattern is disabled.
	Fixed *FixedPattern

	// Params are the constraint thresholds.
	Params Params
}

// NoteKind classifies builder decisions that produced no assignment.
type NoteKind string

const (
	// NoteSuppressedSlot marks slots dropped for a roster-wide NG date.
	NoteSuppressedSlot NoteKind = "suppressed_slot"

	// NoteOverrideFallback marks fixed-pattern weeks where the pinned
	// member was blocked and the position fell back to open selection.
	NoteOverrideFallback NoteKind = "override_fallback"
)

// Note records one such decision for the run report.
type Note struct {
	Date    time.Time
	Kind    NoteKind
	Message string
}

// Result is the outcome of a build. When Complete is false the build hit
// an unfillable slot and Assignments holds everything committed before
// the halt.
type Result struct {
	Period      calendar.Period
	Assignments []model.Assignment
	Notes       []Note
	Complete    bool
}

// Engine drives the single-pass build. Slots are visited in calendar
// order and each commitment is final, there is no backtracking, so the
// same inputs always produce the same schedule.
type Engine struct {
	period   calendar.Period
	slots    []model.DutySlot
	roster   []*model.Member
	rules    []Rule
	fixed    *FixedPattern
	params   Params
	state    *State
	globalNG []model.NGRule
}

// Build generates the schedule for the inputs in one pass.
func Build(inputs Inputs) (*Result, error) {
	engine, err := New(inputs)
	if err != nil {
		return nil, err
	}
	return engine.Run()
}

// Run processes every slot in order. On an unfillable slot it stops and
// returns the partial result together with a *NoCandidateError.
func (e *Engine) Run() (*Result, error) {
	result := &Result{
		Period:      e.period,
		Assignments: make([]model.Assignment, 0, len(e.slots)),
	}

	for _, slot := range e.slots {
		if rule, ok := e.suppressedBy(slot); ok {
			appendSuppressionNote(result, slot, rule)
			continue
		}

		skip := ""
		if e.fixed.AppliesTo(slot) {
			if e.fixed.ForcedFor(slot) {
				member := e.memberByName(e.fixed.Member)
				exclusions := e.evaluate(member, slot)
				if len(exclusions) == 0 {
					e.commit(result, slot, member)
					continue
				}
				result.Notes = append(result.Notes, Note{
					Date: slot.Date,
					Kind: NoteOverrideFallback,
					Message: fmt.Sprintf("%s is pinned to %s but blocked: %s",
						e.fixed.Member, slot, exclusions[0]),
				})
			}
			// On and off the cadence alike, the position never goes to
			// the pinned member through open selection.
			skip = e.fixed.Member
		}

		pool, reasons := e.candidates(slot, skip)
		if len(pool) == 0 {
			result.Complete = false
			return result, &NoCandidateError{Slot: slot, Reasons: reasons}
		}

		best := e.rank(pool, slot)[0]
		e.commit(result, slot, best)
	}

	result.Complete = true
	return result, nil
}

// candidates evaluates the whole roster against the slot. Members named
// by skip are held out with a fixed-pattern reason. The reasons map
// covers every eliminated member so a failed slot can report all of them.
func (e *Engine) candidates(slot model.DutySlot, skip string) ([]*model.Member, map[string][]string) {
	pool := make([]*model.Member, 0, len(e.roster))
	reasons := make(map[string][]string)

	for _, member := range e.roster {
		if member.Name == skip {
			reasons[member.Name] = []string{"held out of this position by the fixed rotation pattern"}
			continue
		}
		exclusions := e.evaluate(member, slot)
		if len(exclusions) > 0 {
			reasons[member.Name] = exclusions
			continue
		}
		pool = append(pool, member)
	}

	return pool, reasons
}

// evaluate runs every rule and returns all exclusions, not just the
// first, so diagnostics show the full picture for each member.
func (e *Engine) evaluate(member *model.Member, slot model.DutySlot) []string {
	var exclusions []string
	for _, rule := range e.rules {
		if excluded, reason := rule.Exclude(e.state, member, slot); excluded {
			exclusions = append(exclusions, fmt.Sprintf("%s: %s", rule.Name(), reason))
		}
	}
	return exclusions
}

func (e *Engine) commit(result *Result, slot model.DutySlot, member *model.Member) {
	assignment := model.Assignment{Slot: slot, Member: member.Name}
	e.state.commit(assignment)
	result.Assignments = append(result.Assignments, assignment)
}

// suppressedBy reports whether a roster-wide NG date takes the slot out
// of the schedule entirely. A day slot is suppressed when its date is
// blocked. A night week is suppressed only when every weekday, Monday
// through Friday, is blocked, a partially blocked week still runs.
func (e *Engine) suppressedBy(slot model.DutySlot) (model.NGRule, bool) {
	if slot.Type == model.ShiftDay {
		return e.globalNGCovering(slot.Date)
	}

	first, ok := e.globalNGCovering(slot.WeekStart)
	if !ok {
		return model.NGRule{}, false
	}
	for offset := 1; offset < 5; offset++ {
		if _, ok := e.globalNGCovering(slot.WeekStart.AddDate(0, 0, offset)); !ok {
			return model.NGRule{}, false
		}
	}
	return first, true
}

func (e *Engine) globalNGCovering(date time.Time) (model.NGRule, bool) {
	for _, rule := range e.globalNG {
		if rule.Covers(date) {
			return rule, true
		}
	}
	return model.NGRule{}, false
}

func (e *Engine) memberByName(name string) *model.Member {
	for _, member := range e.roster {
		if member.Name == name {
			return member
		}
	}
	return nil
}

// appendSuppressionNote records a suppressed slot, folding the slots of
// one blocked date or week into a single note.
func appendSuppressionNote(result *Result, slot model.DutySlot, rule model.NGRule) {
	var message string
	if slot.Type == model.ShiftDay {
		message = fmt.Sprintf("day duty on %s suppressed by roster-wide NG date", slot.Date.Format(model.DateLayout))
	} else {
		message = fmt.Sprintf("night week of %s suppressed, every weekday is a roster-wide NG date", slot.Date.Format(model.DateLayout))
	}
	if rule.Reason != "" {
		message = fmt.Sprintf("%s (%s)", message, rule.Reason)
	}

	if n := len(result.Notes); n > 0 {
		last := result.Notes[n-1]
		if last.Kind == NoteSuppressedSlot && last.Date.Equal(slot.Date) && last.Message == message {
			return
		}
	}
	result.Notes = append(result.Notes, Note{Date: slot.Date, Kind: NoteSuppressedSlot, Message: message})
}
