package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/teambition/rrule-go"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// MemberEntry is one person inside a duty group list. Active defaults to
// true when omitted. The min-days fields override the default minimum
// spacing between two assignments of the same shift type.
type MemberEntry struct {
	Name         string `yaml:"name" validate:"required"`
	Active       *bool  `yaml:"active,omitempty"`
	MinDaysDay   int    `yaml:"min_days_day,omitempty" validate:"omitempty,min=1"`
	MinDaysNight int    `yaml:"min_days_night,omitempty" validate:"omitempty,min=1"`
}

// DayShiftGroups partitions day duty members by which index positions they
// may hold. The two lists are mutually exclusive.
type DayShiftGroups struct {
	Index12Group []MemberEntry `yaml:"index_1_2_group,omitempty" validate:"dive"`
	Index3Group  []MemberEntry `yaml:"index_3_group,omitempty" validate:"dive"`
}

// NightShiftGroups partitions night duty members by their fixed position.
// Night positions never rotate, so the two lists are mutually exclusive.
type NightShiftGroups struct {
	Index1Group []MemberEntry `yaml:"index_1_group,omitempty" validate:"dive"`
	Index2Group []MemberEntry `yaml:"index_2_group,omitempty" validate:"dive"`
}

type MembersConfig struct {
	DayShift   DayShiftGroups   `yaml:"day_shift"`
	NightShift NightShiftGroups `yaml:"night_shift"`
}

// FixedPatternConfig pins one member to a night position on a fixed cadence
// counted in whole weeks from the reference date.
type FixedPatternConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Member        string `yaml:"member,omitempty"`
	Index         int    `yaml:"index,omitempty" validate:"omitempty,min=1,max=2"`
	ReferenceDate string `yaml:"reference_date,omitempty"`
	CadenceDays   int    `yaml:"cadence_days,omitempty" validate:"omitempty,min=7"`
}

// IntervalConfig holds the default minimum days between two assignments of
// the same shift type. DayIndex3 applies to day position 3, whose small
// member pool needs a shorter rest.
type IntervalConfig struct {
	Day       int `yaml:"day,omitempty" validate:"omitempty,min=1"`
	Night     int `yaml:"night,omitempty" validate:"omitempty,min=1"`
	DayIndex3 int `yaml:"day_index3,omitempty" validate:"omitempty,min=1"`
}

type ConstraintsConfig struct {
	Interval IntervalConfig `yaml:"interval"`
	// NightToDayGap is the cooldown after a night week during which the
	// member takes no day duty.
	NightToDayGap int `yaml:"night_to_day_gap,omitempty" validate:"omitempty,min=1"`
}

// DayToNightGapConfig deprioritizes night candidates whose last day duty
// was recent. It shapes ordering only and never removes a candidate.
type DayToNightGapConfig struct {
	Enabled    bool `yaml:"enabled"`
	StrongDays int  `yaml:"strong_days,omitempty" validate:"omitempty,min=1"`
	WeakDays   int  `yaml:"weak_days,omitempty" validate:"omitempty,min=1"`
}

type SoftConstraintsConfig struct {
	DayToNightGap DayToNightGapConfig `yaml:"day_to_night_gap"`
}

type FairnessConfig struct {
	// MaxDeviationRatio is the (max-min)/min spread of per-member counts the
	// statistics report flags as unbalanced.
	MaxDeviationRatio float64 `yaml:"max_deviation_ratio,omitempty" validate:"omitempty,min=0"`
}

type RotationConfig struct {
	DurationMonths int `yaml:"duration_months,omitempty" validate:"omitempty,min=1"`
}

// CalendarConfig selects which dates carry duty, as RFC 5545 RRULE strings.
type CalendarConfig struct {
	DayRule   string `yaml:"day_rule,omitempty"`
	NightRule string `yaml:"night_rule,omitempty"`
}

type HistoryConfig struct {
	CSVPath        string `yaml:"csv_path,omitempty"`
	LookbackMonths int    `yaml:"lookback_months,omitempty" validate:"omitempty,min=1"`
}

type OutputConfig struct {
	SaveCSV        bool   `yaml:"save_csv"`
	OutputDir      string `yaml:"output_dir,omitempty"`
	ShowStatistics bool   `yaml:"show_statistics"`
}

// Settings represents the roster configuration file.
type Settings struct {
	Members         MembersConfig         `yaml:"members" validate:"required"`
	FixedPattern    FixedPatternConfig    `yaml:"fixed_pattern"`
	Rotation        RotationConfig        `yaml:"rotation"`
	Calendar        CalendarConfig        `yaml:"calendar"`
	Constraints     ConstraintsConfig     `yaml:"constraints"`
	SoftConstraints SoftConstraintsConfig `yaml:"soft_constraints"`
	Fairness        FairnessConfig        `yaml:"fairness"`
	History         HistoryConfig         `yaml:"history"`
	Output          OutputConfig          `yaml:"output"`
}

// Built-in defaults applied to fields the file leaves unset.
const (
	DefaultDayInterval       = 14
	DefaultNightInterval     = 21
	DefaultDayIndex3Interval = 7
	DefaultNightToDayGap     = 7
	DefaultStrongGapDays     = 3
	DefaultWeakGapDays       = 7
	DefaultCadenceDays       = 14
	DefaultDurationMonths    = 2
	DefaultLookbackMonths    = 2
	DefaultDeviationRatio    = 0.3
	DefaultHistoryPath       = "data/duty_history.csv"
	DefaultOutputDir         = "output"
)

// SettingsFileName is the default settings file name searched for by Load
// and written by the init-config service.
const SettingsFileName = "roster_config.yaml"

var validate *validator.Validate

func init() {
	validate = validator.New()
}

// Load loads and validates the settings from roster_config.yaml, looking in
// the current directory first, then in the user's home directory.
func Load() (*Settings, error) {
	path, err := findConfigFile(SettingsFileName)
	if err != nil {
		return nil, fmt.Errorf("failed to find settings file: %w", err)
	}

	return LoadFromPath(path)
}

// LoadFromPath loads and validates the settings from a specific path.
func LoadFromPath(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var cfg Settings
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse settings file: %w", err)
	}

	cfg.applyDefaults()

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultSettings returns a settings struct carrying every built-in
// default, ready to take a members block. The init-config service writes
// these out so a generated file shows the knobs at their real values.
func DefaultSettings() *Settings {
	s := &Settings{}
	s.SoftConstraints.DayToNightGap.Enabled = true
	s.Output.SaveCSV = true
	s.Output.ShowStatistics = true
	s.applyDefaults()
	return s
}

// applyDefaults fills unset optional fields with the built-in defaults.
func (s *Settings) applyDefaults() {
	if s.Rotation.DurationMonths == 0 {
		s.Rotation.DurationMonths = DefaultDurationMonths
	}
	if s.Calendar.DayRule == "" {
		s.Calendar.DayRule = calendar.DefaultDayRule
	}
	if s.Calendar.NightRule == "" {
		s.Calendar.NightRule = calendar.DefaultNightRule
	}
	if s.Constraints.Interval.Day == 0 {
		s.Constraints.Interval.Day = DefaultDayInterval
	}
	if s.Constraints.Interval.Night == 0 {
		s.Constraints.Interval.Night = DefaultNightInterval
	}
	if s.Constraints.Interval.DayIndex3 == 0 {
		s.Constraints.Interval.DayIndex3 = DefaultDayIndex3Interval
	}
	if s.Constraints.NightToDayGap == 0 {
		s.Constraints.NightToDayGap = DefaultNightToDayGap
	}
	if s.SoftConstraints.DayToNightGap.StrongDays == 0 {
		s.SoftConstraints.DayToNightGap.StrongDays = DefaultStrongGapDays
	}
	if s.SoftConstraints.DayToNightGap.WeakDays == 0 {
		s.SoftConstraints.DayToNightGap.WeakDays = DefaultWeakGapDays
	}
	if s.Fairness.MaxDeviationRatio == 0 {
		s.Fairness.MaxDeviationRatio = DefaultDeviationRatio
	}
	if s.FixedPattern.CadenceDays == 0 {
		s.FixedPattern.CadenceDays = DefaultCadenceDays
	}
	if s.FixedPattern.Index == 0 {
		s.FixedPattern.Index = model.NightIndexCount
	}
	if s.History.LookbackMonths == 0 {
		s.History.LookbackMonths = DefaultLookbackMonths
	}
	if s.History.CSVPath == "" {
		s.History.CSVPath = DefaultHistoryPath
	}
	if s.Output.OutputDir == "" {
		s.Output.OutputDir = DefaultOutputDir
	}
}

// Validate validates the settings struct, the recurrence rule syntax, and
// the fixed-pattern block.
func Validate(cfg *Settings) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("settings validation failed: %w", err)
	}

	if _, err := rrule.StrToRRule(cfg.Calendar.DayRule); err != nil {
		return fmt.Errorf("invalid rrule in calendar.day_rule: %w", err)
	}
	if _, err := rrule.StrToRRule(cfg.Calendar.NightRule); err != nil {
		return fmt.Errorf("invalid rrule in calendar.night_rule: %w", err)
	}

	if cfg.FixedPattern.Enabled {
		if cfg.FixedPattern.Member == "" {
			return fmt.Errorf("fixed_pattern.member is required when fixed_pattern is enabled")
		}
		if cfg.FixedPattern.ReferenceDate == "" {
			return fmt.Errorf("fixed_pattern.reference_date is required when fixed_pattern is enabled")
		}
		if _, err := calendar.ParseDate(cfg.FixedPattern.ReferenceDate); err != nil {
			return fmt.Errorf("invalid fixed_pattern.reference_date: %w", err)
		}
		if cfg.FixedPattern.CadenceDays%7 != 0 {
			return fmt.Errorf("fixed_pattern.cadence_days must be a whole number of weeks, got %d",
				cfg.FixedPattern.CadenceDays)
		}
	}

	return nil
}

// Roster resolves the duty group lists into the member roster. Each member
// appears once, carrying day and night membership together. The result is
// sorted by name so downstream iteration is deterministic.
func (s *Settings) Roster() ([]model.Member, error) {
	byName := make(map[string]*model.Member)

	member := func(name string) *model.Member {
		if m, ok := byName[name]; ok {
			return m
		}
		m := &model.Member{Name: name, Active: true}
		byName[name] = m
		return m
	}

	apply := func(m *model.Member, entry MemberEntry) error {
		if entry.Active != nil && !*entry.Active {
			m.Active = false
		}
		if entry.MinDaysDay != 0 {
			if m.MinDaysDay != 0 && m.MinDaysDay != entry.MinDaysDay {
				return &model.ConfigInconsistencyError{
					Detail: fmt.Sprintf("member %q declares conflicting min_days_day values %d and %d",
						entry.Name, m.MinDaysDay, entry.MinDaysDay),
				}
			}
			m.MinDaysDay = entry.MinDaysDay
		}
		if entry.MinDaysNight != 0 {
			if m.MinDaysNight != 0 && m.MinDaysNight != entry.MinDaysNight {
				return &model.ConfigInconsistencyError{
					Detail: fmt.Sprintf("member %q declares conflicting min_days_night values %d and %d",
						entry.Name, m.MinDaysNight, entry.MinDaysNight),
				}
			}
			m.MinDaysNight = entry.MinDaysNight
		}
		return nil
	}

	for _, entry := range s.Members.DayShift.Index12Group {
		m := member(entry.Name)
		if len(m.DayIndexes) > 0 {
			return nil, &model.ConfigInconsistencyError{
				Detail: fmt.Sprintf("member %q appears in more than one day_shift group", entry.Name),
			}
		}
		m.DayIndexes = []int{1, 2}
		if err := apply(m, entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range s.Members.DayShift.Index3Group {
		m := member(entry.Name)
		if len(m.DayIndexes) > 0 {
			return nil, &model.ConfigInconsistencyError{
				Detail: fmt.Sprintf("member %q appears in more than one day_shift group", entry.Name),
			}
		}
		m.DayIndexes = []int{3}
		if err := apply(m, entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range s.Members.NightShift.Index1Group {
		m := member(entry.Name)
		if m.NightIndex != 0 {
			return nil, &model.ConfigInconsistencyError{
				Detail: fmt.Sprintf("member %q appears in more than one night_shift group", entry.Name),
			}
		}
		m.NightIndex = 1
		if err := apply(m, entry); err != nil {
			return nil, err
		}
	}
	for _, entry := range s.Members.NightShift.Index2Group {
		m := member(entry.Name)
		if m.NightIndex != 0 {
			return nil, &model.ConfigInconsistencyError{
				Detail: fmt.Sprintf("member %q appears in more than one night_shift group", entry.Name),
			}
		}
		m.NightIndex = 2
		if err := apply(m, entry); err != nil {
			return nil, err
		}
	}

	roster := make([]model.Member, 0, len(byName))
	for _, m := range byName {
		roster = append(roster, *m)
	}
	sort.Slice(roster, func(i, j int) bool { return roster[i].Name < roster[j].Name })

	return roster, nil
}

// findConfigFile searches for name in the current directory, then in the
// user's home directory.
func findConfigFile(name string) (string, error) {
	if _, err := os.Stat(name); err == nil {
		return name, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	homePath := filepath.Join(homeDir, name)
	if _, err := os.Stat(homePath); err == nil {
		return homePath, nil
	}

	return "", fmt.Errorf("%s not found in current directory or home directory", name)
}
