package config

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// NGFileName is the default NG dates file name searched for by LoadNG and
// written by the init-config service.
const NGFileName = "ng_dates.yaml"

// NGPeriod is a date range during which a member must not be assigned.
type NGPeriod struct {
	Start  string `yaml:"start" validate:"required"`
	End    string `yaml:"end" validate:"required"`
	Reason string `yaml:"reason,omitempty"`
}

// NGDatesConfig holds the blocked-date declarations. Global dates suppress
// the affected slots for everyone; the member maps block individuals.
type NGDatesConfig struct {
	ByMember map[string][]string   `yaml:"by_member,omitempty"`
	Global   []string              `yaml:"global,omitempty"`
	ByPeriod map[string][]NGPeriod `yaml:"by_period,omitempty"`
}

// NGFile mirrors ng_dates.yaml.
type NGFile struct {
	NGDates NGDatesConfig `yaml:"ng_dates"`
}

// LoadNG loads ng_dates.yaml from the current directory or the user's home
// directory. A missing file is not an error: NG dates are optional and an
// absent file means no blocked dates.
func LoadNG() (*NGFile, error) {
	path, err := findConfigFile(NGFileName)
	if err != nil {
		return &NGFile{}, nil
	}

	return LoadNGFromPath(path)
}

// LoadNGFromPath loads NG dates from a specific path.
func LoadNGFromPath(path string) (*NGFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read NG dates file: %w", err)
	}

	var f NGFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse NG dates file: %w", err)
	}

	return &f, nil
}

// Rules resolves the file into NG rules with parsed dates. Output order is
// deterministic: global rules first, then member rules sorted by member
// name and start date.
func (f *NGFile) Rules() ([]model.NGRule, error) {
	var rules []model.NGRule

	for _, raw := range f.NGDates.Global {
		date, err := calendar.ParseDate(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid global NG date: %w", err)
		}
		rules = append(rules, model.NGRule{Start: date, End: date})
	}

	memberNames := make([]string, 0, len(f.NGDates.ByMember))
	for name := range f.NGDates.ByMember {
		memberNames = append(memberNames, name)
	}
	sort.Strings(memberNames)

	for _, name := range memberNames {
		for _, raw := range f.NGDates.ByMember[name] {
			date, err := calendar.ParseDate(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid NG date for member %q: %w", name, err)
			}
			rules = append(rules, model.NGRule{Member: name, Start: date, End: date})
		}
	}

	periodNames := make([]string, 0, len(f.NGDates.ByPeriod))
	for name := range f.NGDates.ByPeriod {
		periodNames = append(periodNames, name)
	}
	sort.Strings(periodNames)

	for _, name := range periodNames {
		for _, period := range f.NGDates.ByPeriod[name] {
			start, err := calendar.ParseDate(period.Start)
			if err != nil {
				return nil, fmt.Errorf("invalid NG period start for member %q: %w", name, err)
			}
			end, err := calendar.ParseDate(period.End)
			if err != nil {
				return nil, fmt.Errorf("invalid NG period end for member %q: %w", name, err)
			}
			if end.Before(start) {
				return nil, fmt.Errorf("NG period for member %q ends %s before it starts %s",
					name, period.End, period.Start)
			}
			rules = append(rules, model.NGRule{
				Member: name,
				Start:  start,
				End:    end,
				Reason: period.Reason,
			})
		}
	}

	sortNGRules(rules)
	return rules, nil
}

// sortNGRules orders rules globals-first, then by member, start date, and
// end date.
func sortNGRules(rules []model.NGRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].Member != rules[j].Member {
			return rules[i].Member < rules[j].Member
		}
		if !rules[i].Start.Equal(rules[j].Start) {
			return rules[i].Start.Before(rules[j].Start)
		}
		return rules[i].End.Before(rules[j].End)
	})
}
