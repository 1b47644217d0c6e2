package scheduler

import (
	"fmt"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// NGDateRule excludes members whose declared unavailable dates cover the
// slot's date. A night slot is checked against its anchor Monday only,
// so a member free on Monday but away mid-week still takes the week.
// Roster-wide NG dates are not this rule's concern, the builder
// suppresses those slots before any candidate is considered.
//
// Excludes when:
//   - any of the member's NG ranges covers the slot date
type NGDateRule struct {
	byMember map[string][]model.NGRule
}

// NewNGDateRule creates a new NGDateRule from the resolved NG list,
// keeping only member-scoped entries
func NewNGDateRule(rules []model.NGRule) *NGDateRule {
	byMember := make(map[string][]model.NGRule)
	for _, rule := range rules {
		if rule.Global() {
			continue
		}
		byMember[rule.Member] = append(byMember[rule.Member], rule)
	}
	return &NGDateRule{byMember: byMember}
}

func (r *NGDateRule) Name() string {
	return "NGDate"
}

func (r *NGDateRule) Exclude(_ *State, member *model.Member, slot model.DutySlot) (bool, string) {
	for _, rule := range r.byMember[member.Name] {
		if !rule.Covers(slot.Date) {
			continue
		}
		reason := fmt.Sprintf("NG date covers %s", slot.Date.Format(model.DateLayout))
		if rule.Reason != "" {
			reason = fmt.Sprintf("%s (%s)", reason, rule.Reason)
		}
		return true, reason
	}
	return false, ""
}
