package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

const sampleSettings = `
members:
  day_shift:
    index_1_2_group:
      - name: Abbott
      - name: Baker
        min_days_day: 10
      - name: Ellery
    index_3_group:
      - name: Chandra
      - name: Dalton
        active: false
  night_shift:
    index_1_group:
      - name: Ellery
    index_2_group:
      - name: Forrest
        min_days_night: 14
fixed_pattern:
  enabled: true
  member: Forrest
  index: 2
  reference_date: 2025-02-20
constraints:
  interval:
    day: 14
    night: 21
`

func TestLoadFromPath_ValidSettings(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", sampleSettings)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Members.DayShift.Index12Group, 3)
	assert.Len(t, cfg.Members.DayShift.Index3Group, 2)
	assert.True(t, cfg.FixedPattern.Enabled)
	assert.Equal(t, "Forrest", cfg.FixedPattern.Member)
	assert.Equal(t, 2, cfg.FixedPattern.Index)
}

func TestLoadFromPath_AppliesDefaults(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", sampleSettings)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	assert.Equal(t, DefaultDayIndex3Interval, cfg.Constraints.Interval.DayIndex3)
	assert.Equal(t, DefaultNightToDayGap, cfg.Constraints.NightToDayGap)
	assert.Equal(t, DefaultCadenceDays, cfg.FixedPattern.CadenceDays)
	assert.Equal(t, DefaultDurationMonths, cfg.Rotation.DurationMonths)
	assert.Equal(t, DefaultLookbackMonths, cfg.History.LookbackMonths)
	assert.Equal(t, DefaultStrongGapDays, cfg.SoftConstraints.DayToNightGap.StrongDays)
	assert.Equal(t, DefaultWeakGapDays, cfg.SoftConstraints.DayToNightGap.WeakDays)
	assert.InDelta(t, DefaultDeviationRatio, cfg.Fairness.MaxDeviationRatio, 1e-9)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=SA,SU", cfg.Calendar.DayRule)
	assert.Equal(t, "FREQ=WEEKLY;BYDAY=MO", cfg.Calendar.NightRule)
}

func TestLoadFromPath_MissingFile(t *testing.T) {
	_, err := LoadFromPath(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read settings file")
}

func TestLoadFromPath_MalformedYAML(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", "members: [not: {closed")

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse settings file")
}

func TestValidate_MissingMemberName(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", `
members:
  day_shift:
    index_1_2_group:
      - min_days_day: 10
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestValidate_BadCalendarRule(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", `
members:
  day_shift:
    index_1_2_group:
      - name: Abbott
calendar:
  day_rule: "INVALID_RRULE_SYNTAX"
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rrule in calendar.day_rule")
}

func TestValidate_FixedPatternRequiresMember(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", `
members:
  night_shift:
    index_2_group:
      - name: Forrest
fixed_pattern:
  enabled: true
  reference_date: 2025-02-20
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fixed_pattern.member is required")
}

func TestValidate_FixedPatternCadenceNotWholeWeeks(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", `
members:
  night_shift:
    index_2_group:
      - name: Forrest
fixed_pattern:
  enabled: true
  member: Forrest
  reference_date: 2025-02-20
  cadence_days: 10
`)

	_, err := LoadFromPath(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "whole number of weeks")
}

func TestRoster_MergesDayAndNightMembership(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", sampleSettings)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	roster, err := cfg.Roster()
	require.NoError(t, err)

	// Sorted by name, one entry per person.
	names := make([]string, len(roster))
	for i, m := range roster {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"Abbott", "Baker", "Chandra", "Dalton", "Ellery", "Forrest"}, names)

	byName := make(map[string]int)
	for i, m := range roster {
		byName[m.Name] = i
	}

	// Ellery holds both day and night membership in a single entry.
	ellery := roster[byName["Ellery"]]
	assert.Equal(t, []int{1, 2}, ellery.DayIndexes)
	assert.Equal(t, 1, ellery.NightIndex)
	assert.True(t, ellery.Active)

	dalton := roster[byName["Dalton"]]
	assert.False(t, dalton.Active)
	assert.Equal(t, []int{3}, dalton.DayIndexes)

	baker := roster[byName["Baker"]]
	assert.Equal(t, 10, baker.MinDaysDay)

	forrest := roster[byName["Forrest"]]
	assert.Equal(t, 14, forrest.MinDaysNight)
	assert.Equal(t, 2, forrest.NightIndex)
	assert.Empty(t, forrest.DayIndexes)
}

func TestRoster_RejectsMemberInBothDayGroups(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", `
members:
  day_shift:
    index_1_2_group:
      - name: Abbott
    index_3_group:
      - name: Abbott
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	_, err = cfg.Roster()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one day_shift group")
}

func TestRoster_RejectsMemberInBothNightGroups(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", `
members:
  night_shift:
    index_1_group:
      - name: Forrest
    index_2_group:
      - name: Forrest
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	_, err = cfg.Roster()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more than one night_shift group")
}

func TestRoster_RejectsConflictingOverrides(t *testing.T) {
	path := writeTempFile(t, "roster_config.yaml", `
members:
  day_shift:
    index_1_2_group:
      - name: Ellery
        min_days_day: 10
  night_shift:
    index_1_group:
      - name: Ellery
        min_days_day: 12
`)

	cfg, err := LoadFromPath(path)
	require.NoError(t, err)

	_, err = cfg.Roster()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conflicting min_days_day")
}
