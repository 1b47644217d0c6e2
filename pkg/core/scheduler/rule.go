package scheduler

import (
	"fmt"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// Rule is one hard exclusion check applied to a candidate member for a
// slot. Rules only eliminate: a member passing every rule is a candidate,
// and ranking among candidates is the scorer's job.
type Rule interface {
	Name() string

	// Exclude reports whether the member must not take the slot, with a
	// human-readable reason when they must not. Reasons surface verbatim
	// in NoCandidateError, so they should name dates and thresholds.
	Exclude(st *State, member *model.Member, slot model.DutySlot) (bool, string)
}

// ActiveRule excludes members flagged inactive in the settings file.
//
// Excludes when:
//   - the member's active flag is false
type ActiveRule struct{}

// NewActiveRule creates a new ActiveRule
func NewActiveRule() *ActiveRule {
	return &ActiveRule{}
}

func (r *ActiveRule) Name() string {
	return "Active"
}

func (r *ActiveRule) Exclude(_ *State, member *model.Member, _ model.DutySlot) (bool, string) {
	if !member.Active {
		return true, "member is inactive"
	}
	return false, ""
}

// EligibilityRule excludes members whose resolved index positions do not
// include the slot's position. The table already folds in the day-shift
// history rules, so this rule is a plain lookup.
//
// Excludes when:
//   - the slot's index is not among the member's eligible positions for
//     the slot's shift type
type EligibilityRule struct {
	table *EligibilityTable
}

// NewEligibilityRule creates a new EligibilityRule backed by the table
func NewEligibilityRule(table *EligibilityTable) *EligibilityRule {
	return &EligibilityRule{table: table}
}

func (r *EligibilityRule) Name() string {
	return "Eligibility"
}

func (r *EligibilityRule) Exclude(_ *State, member *model.Member, slot model.DutySlot) (bool, string) {
	if !r.table.Eligible(member.Name, slot.Type, slot.Index) {
		return true, fmt.Sprintf("not eligible for %s duty position %d", slot.Type, slot.Index)
	}
	return false, ""
}
