package scheduler

import (
	"fmt"
	"sort"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// New validates the inputs, precomputes eligibility, and seeds the
// fairness state. Validation failures are *model.ConfigInconsistencyError
// so callers can distinguish broken configuration from an infeasible
// build.
func New(inputs Inputs) (*Engine, error) {
	if len(inputs.Roster) == 0 {
		return nil, &model.ConfigInconsistencyError{Detail: "roster has no members"}
	}

	roster := make([]*model.Member, len(inputs.Roster))
	seen := make(map[string]bool, len(inputs.Roster))
	for i := range inputs.Roster {
		member := inputs.Roster[i]
		if seen[member.Name] {
			return nil, &model.ConfigInconsistencyError{
				Detail: fmt.Sprintf("member %q appears more than once in the roster", member.Name),
			}
		}
		seen[member.Name] = true
		roster[i] = &member
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].Name < roster[j].Name })

	if err := checkFixedPattern(inputs.Fixed, seen, inputs.Roster); err != nil {
		return nil, err
	}

	var globalNG []model.NGRule
	for _, rule := range inputs.NGRules {
		if rule.Global() {
			globalNG = append(globalNG, rule)
			continue
		}
		if !seen[rule.Member] {
			return nil, &model.ConfigInconsistencyError{
				Detail: fmt.Sprintf("NG dates name unknown member %q", rule.Member),
			}
		}
	}

	table := buildEligibility(inputs.Roster, inputs.History)

	return &Engine{
		period: inputs.Period,
		slots:  inputs.Slots,
		roster: roster,
		rules: []Rule{
			NewActiveRule(),
			NewEligibilityRule(table),
			NewNGDateRule(inputs.NGRules),
			NewOverlapRule(),
			NewCooldownRule(inputs.Params.NightToDayGapDays),
			NewIntervalRule(inputs.Params),
		},
		fixed:    inputs.Fixed,
		params:   inputs.Params,
		state:    newState(inputs.Roster, inputs.History),
		globalNG: globalNG,
	}, nil
}

func checkFixedPattern(fixed *FixedPattern, names map[string]bool, roster []model.Member) error {
	if fixed == nil {
		return nil
	}
	if !model.ValidIndex(model.ShiftNight, fixed.Index) {
		return &model.ConfigInconsistencyError{
			Detail: fmt.Sprintf("fixed pattern targets invalid night position %d", fixed.Index),
		}
	}
	if !names[fixed.Member] {
		return &model.ConfigInconsistencyError{
			Detail: fmt.Sprintf("fixed pattern names unknown member %q", fixed.Member),
		}
	}
	for _, member := range roster {
		if member.Name == fixed.Member && member.NightIndex != fixed.Index {
			return &model.ConfigInconsistencyError{
				Detail: fmt.Sprintf("fixed pattern pins %q to night position %d but their configured position is %d",
					fixed.Member, fixed.Index, member.NightIndex),
			}
		}
	}
	if fixed.Reference.IsZero() {
		return &model.ConfigInconsistencyError{Detail: "fixed pattern has no reference date"}
	}
	if fixed.CadenceDays < 7 || fixed.CadenceDays%7 != 0 {
		return &model.ConfigInconsistencyError{
			Detail: fmt.Sprintf("fixed pattern cadence must be a positive multiple of 7 days, got %d", fixed.CadenceDays),
		}
	}
	return nil
}
