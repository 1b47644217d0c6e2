package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/jakechorley/dutyroster/internal/config"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// InitConfigStore defines the history file operations needed for
// bootstrapping the config files
type InitConfigStore interface {
	LoadRecords(ctx context.Context) ([]model.HistoryRecord, error)
}

// InitConfigResult contains the bootstrap results
type InitConfigResult struct {
	SettingsPath string
	NGPath       string
	MemberCount  int
	FixedMember  string
}

// memberHistory gathers what one member held across the history file.
type memberHistory struct {
	dayIndexes   map[int]bool
	nightIndexes map[int]bool
	lastNight2   time.Time
	night2Count  int
}

// InitConfig derives a settings file and an NG dates template from an
// existing history CSV. Members are grouped by the day and night positions
// they held, and the fixed night pattern is prefilled, still disabled,
// from the most frequent night position 2 holder. Existing files are
// refused unless force is set.
func InitConfig(
	ctx context.Context,
	store InitConfigStore,
	logger *zap.Logger,
	settingsPath string,
	ngPath string,
	force bool,
) (*InitConfigResult, error) {
	logger.Debug("Starting initConfig",
		zap.String("settings_path", settingsPath),
		zap.String("ng_path", ngPath),
		zap.Bool("force", force))

	// Step 1: Refuse to clobber existing files without force
	if !force {
		for _, path := range []string{settingsPath, ngPath} {
			if _, err := os.Stat(path); err == nil {
				return nil, fmt.Errorf("%s already exists - rerun with force to overwrite", path)
			}
		}
	}

	// Step 2: CSV load - fetch history records
	logger.Debug("Loading history records")
	records, err := store.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("history file has no records to derive a roster from")
	}
	logger.Debug("Loaded history records", zap.Int("count", len(records)))

	// Step 3: Gather held positions per member
	held := heldPositions(records)
	names := make([]string, 0, len(held))
	for name := range held {
		names = append(names, name)
	}
	sort.Strings(names)
	logger.Debug("Found members in history", zap.Int("count", len(names)))

	// Step 4: Classify members into duty groups
	settings := config.DefaultSettings()
	for _, name := range names {
		h := held[name]
		entry := config.MemberEntry{Name: name}

		switch {
		case h.dayIndexes[3]:
			if h.dayIndexes[1] || h.dayIndexes[2] {
				logger.Warn("Member held day positions in both groups, classifying as position 3",
					zap.String("member", name))
			}
			settings.Members.DayShift.Index3Group = append(settings.Members.DayShift.Index3Group, entry)
		case h.dayIndexes[1] || h.dayIndexes[2]:
			settings.Members.DayShift.Index12Group = append(settings.Members.DayShift.Index12Group, entry)
		}

		switch {
		case h.nightIndexes[2]:
			if h.nightIndexes[1] {
				logger.Warn("Member held both night positions, classifying as position 2",
					zap.String("member", name))
			}
			settings.Members.NightShift.Index2Group = append(settings.Members.NightShift.Index2Group, entry)
		case h.nightIndexes[1]:
			settings.Members.NightShift.Index1Group = append(settings.Members.NightShift.Index1Group, entry)
		}
	}

	// Step 5: Prefill the fixed pattern from the dominant night 2 holder
	fixedMember, reference := dominantNight2(held, names)
	if fixedMember != "" {
		settings.FixedPattern.Member = fixedMember
		settings.FixedPattern.ReferenceDate = reference.Format(model.DateLayout)
		logger.Debug("Prefilled fixed pattern",
			zap.String("member", fixedMember),
			zap.String("reference", settings.FixedPattern.ReferenceDate))
	}

	// Step 6: Write the settings file
	if err := writeYAML(settingsPath, settings); err != nil {
		return nil, fmt.Errorf("failed to write settings file: %w", err)
	}
	logger.Info("Wrote settings file",
		zap.String("path", settingsPath),
		zap.Int("members", len(names)))

	// Step 7: Write an NG dates template naming every member
	ngFile := &config.NGFile{}
	ngFile.NGDates.ByMember = make(map[string][]string, len(names))
	for _, name := range names {
		ngFile.NGDates.ByMember[name] = []string{}
	}
	if err := writeYAML(ngPath, ngFile); err != nil {
		return nil, fmt.Errorf("failed to write NG dates file: %w", err)
	}
	logger.Info("Wrote NG dates template", zap.String("path", ngPath))

	return &InitConfigResult{
		SettingsPath: settingsPath,
		NGPath:       ngPath,
		MemberCount:  len(names),
		FixedMember:  fixedMember,
	}, nil
}

// heldPositions tallies which positions each member held, plus how often
// and how recently they held night position 2.
func heldPositions(records []model.HistoryRecord) map[string]*memberHistory {
	held := make(map[string]*memberHistory)
	for _, record := range records {
		h, ok := held[record.Member]
		if !ok {
			h = &memberHistory{
				dayIndexes:   make(map[int]bool),
				nightIndexes: make(map[int]bool),
			}
			held[record.Member] = h
		}
		switch record.Type {
		case model.ShiftDay:
			h.dayIndexes[record.Index] = true
		case model.ShiftNight:
			h.nightIndexes[record.Index] = true
			if record.Index == 2 {
				h.night2Count++
				if record.Date.After(h.lastNight2) {
					h.lastNight2 = record.Date
				}
			}
		}
	}
	return held
}

// dominantNight2 picks the member who held night position 2 most often,
// ties broken by name. Their latest such date anchors the pattern cadence.
func dominantNight2(held map[string]*memberHistory, names []string) (string, time.Time) {
	best := ""
	bestCount := 0
	var reference time.Time
	for _, name := range names {
		if h := held[name]; h.night2Count > bestCount {
			best = name
			bestCount = h.night2Count
			reference = h.lastNight2
		}
	}
	return best, reference
}

// writeYAML marshals v to path, creating parent directories as needed.
func writeYAML(path string, v any) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0644)
}
