package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jakechorley/dutyroster/internal/config"
	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
	"github.com/jakechorley/dutyroster/pkg/core/scheduler"
)

// GenerateScheduleStore defines the history file operations needed for
// generating a schedule
type GenerateScheduleStore interface {
	LoadRecords(ctx context.Context) ([]model.HistoryRecord, error)
	SaveSchedule(ctx context.Context, path string, assignments []model.Assignment) error
}

// GenerateScheduleResult contains the generation results
type GenerateScheduleResult struct {
	RunID       string
	Period      calendar.Period
	Assignments []model.Assignment
	Notes       []scheduler.Note
	Statistics  *Statistics
	Complete    bool
	Saved       bool
	OutputPath  string
}

// GenerateSchedule builds the duty schedule for one rotation period.
// An empty end date means the configured rotation length from the start
// date. If dryRun is true the schedule is not written to the output CSV.
//
// When the build halts on an unfillable slot, the partial result is
// returned together with the *scheduler.NoCandidateError so the caller can
// report how far the build got and why the next slot failed.
func GenerateSchedule(
	ctx context.Context,
	store GenerateScheduleStore,
	cfg *config.Settings,
	ng *config.NGFile,
	logger *zap.Logger,
	startDate string,
	endDate string,
	outputPath string,
	dryRun bool,
) (*GenerateScheduleResult, error) {
	logger.Debug("Starting generateSchedule",
		zap.String("start", startDate),
		zap.String("end", endDate),
		zap.Bool("dry_run", dryRun))

	// Step 1: Resolve the rotation period
	period, err := resolvePeriod(startDate, endDate, cfg.Rotation.DurationMonths)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved rotation period",
		zap.String("period", period.String()),
		zap.Int("days", period.Days()))

	// Step 2: Expand the period into duty slots
	slots, err := calendar.Slots(period, calendar.Rules{
		DayRule:   cfg.Calendar.DayRule,
		NightRule: cfg.Calendar.NightRule,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to expand duty slots: %w", err)
	}
	logger.Debug("Expanded duty slots", zap.Int("count", len(slots)))

	// Step 3: Resolve the roster and NG rules from config
	roster, err := cfg.Roster()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roster: %w", err)
	}
	logger.Debug("Resolved roster", zap.Int("members", len(roster)))

	ngRules, err := ng.Rules()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve NG dates: %w", err)
	}
	logger.Debug("Resolved NG rules", zap.Int("count", len(ngRules)))

	fixed, err := fixedPatternFromSettings(cfg)
	if err != nil {
		return nil, err
	}

	// Step 4: CSV load - fetch history records
	logger.Debug("Loading history records")
	history, err := store.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	logger.Debug("Loaded history records", zap.Int("count", len(history)))

	// Step 5: Filter history to the lookback window
	window := calendar.Lookback(period.Start, cfg.History.LookbackMonths)
	seed := filterHistoryToWindow(history, window, period.Start)
	logger.Debug("Filtered history to lookback window",
		zap.String("window", window.String()),
		zap.Int("count", len(seed)))

	// Step 6: Run the schedule builder
	logger.Info("Building schedule",
		zap.String("period", period.String()),
		zap.Int("slots", len(slots)))
	buildResult, err := scheduler.Build(scheduler.Inputs{
		Period:  period,
		Slots:   slots,
		Roster:  roster,
		History: seed,
		NGRules: ngRules,
		Fixed:   fixed,
		Params:  paramsFromSettings(cfg),
	})
	if err != nil {
		var noCandidate *scheduler.NoCandidateError
		if !errors.As(err, &noCandidate) || buildResult == nil {
			return nil, fmt.Errorf("failed to build schedule: %w", err)
		}
		logger.Warn("Build halted on unfillable slot",
			zap.String("slot", noCandidate.Slot.String()),
			zap.Int("assigned", len(buildResult.Assignments)))
		return &GenerateScheduleResult{
			RunID:       uuid.New().String(),
			Period:      buildResult.Period,
			Assignments: buildResult.Assignments,
			Notes:       buildResult.Notes,
			Statistics:  ComputeStatistics(roster, buildResult.Assignments, cfg.Fairness.MaxDeviationRatio),
		}, err
	}

	logger.Info("Schedule built",
		zap.Int("assignments", len(buildResult.Assignments)),
		zap.Int("notes", len(buildResult.Notes)))
	for _, note := range buildResult.Notes {
		logger.Warn("Build note",
			zap.String("kind", string(note.Kind)),
			zap.Time("date", note.Date),
			zap.String("message", note.Message))
	}

	// Step 7: Compute the fairness statistics for the new schedule
	stats := ComputeStatistics(roster, buildResult.Assignments, cfg.Fairness.MaxDeviationRatio)

	result := &GenerateScheduleResult{
		RunID:       uuid.New().String(),
		Period:      buildResult.Period,
		Assignments: buildResult.Assignments,
		Notes:       buildResult.Notes,
		Statistics:  stats,
		Complete:    buildResult.Complete,
	}

	// Step 8: Save the schedule CSV unless this is a dry run
	shouldSave := !dryRun && cfg.Output.SaveCSV
	if shouldSave {
		path := outputPath
		if path == "" {
			path = schedulePath(cfg.Output.OutputDir, period)
		}
		logger.Info("Saving schedule", zap.String("path", path))
		if err := store.SaveSchedule(ctx, path, buildResult.Assignments); err != nil {
			return nil, fmt.Errorf("failed to save schedule: %w", err)
		}
		result.Saved = true
		result.OutputPath = path
		logger.Info("Schedule saved", zap.Int("count", len(buildResult.Assignments)))
	} else if dryRun {
		logger.Info("Dry run mode - schedule not saved")
	}

	return result, nil
}

// resolvePeriod turns the command line date arguments into a rotation
// period. An empty end date means the configured rotation length.
func resolvePeriod(startDate, endDate string, durationMonths int) (calendar.Period, error) {
	if startDate == "" {
		return calendar.Period{}, fmt.Errorf("start date is required")
	}
	start, err := calendar.ParseDate(startDate)
	if err != nil {
		return calendar.Period{}, fmt.Errorf("invalid start date: %w", err)
	}

	if endDate == "" {
		return calendar.PeriodSpanning(start, durationMonths)
	}
	end, err := calendar.ParseDate(endDate)
	if err != nil {
		return calendar.Period{}, fmt.Errorf("invalid end date: %w", err)
	}
	return calendar.NewPeriod(start, end)
}

// filterHistoryToWindow keeps the records that seed a build: inside the
// lookback window and strictly before the period start.
func filterHistoryToWindow(records []model.HistoryRecord, window calendar.Period, periodStart time.Time) []model.HistoryRecord {
	filtered := make([]model.HistoryRecord, 0, len(records))
	for _, record := range records {
		if !window.Contains(record.Date) || !record.Date.Before(periodStart) {
			continue
		}
		filtered = append(filtered, record)
	}
	return filtered
}

// fixedPatternFromSettings converts the settings block into the engine's
// pattern, nil when disabled.
func fixedPatternFromSettings(cfg *config.Settings) (*scheduler.FixedPattern, error) {
	if !cfg.FixedPattern.Enabled {
		return nil, nil
	}
	reference, err := calendar.ParseDate(cfg.FixedPattern.ReferenceDate)
	if err != nil {
		return nil, fmt.Errorf("invalid fixed_pattern.reference_date: %w", err)
	}
	return &scheduler.FixedPattern{
		Member:      cfg.FixedPattern.Member,
		Index:       cfg.FixedPattern.Index,
		Reference:   reference,
		CadenceDays: cfg.FixedPattern.CadenceDays,
	}, nil
}

// paramsFromSettings maps the constraint settings onto engine parameters.
func paramsFromSettings(cfg *config.Settings) scheduler.Params {
	return scheduler.Params{
		DayIntervalDays:       cfg.Constraints.Interval.Day,
		NightIntervalDays:     cfg.Constraints.Interval.Night,
		DayIndex3IntervalDays: cfg.Constraints.Interval.DayIndex3,
		NightToDayGapDays:     cfg.Constraints.NightToDayGap,
		SoftDayToNightGap: scheduler.SoftGap{
			Enabled:    cfg.SoftConstraints.DayToNightGap.Enabled,
			StrongDays: cfg.SoftConstraints.DayToNightGap.StrongDays,
			WeakDays:   cfg.SoftConstraints.DayToNightGap.WeakDays,
		},
	}
}

// schedulePath names the output CSV after the period it covers.
func schedulePath(dir string, period calendar.Period) string {
	name := fmt.Sprintf("schedule_%s_%s.csv",
		period.Start.Format(model.DateLayout), period.End.Format(model.DateLayout))
	return filepath.Join(dir, name)
}
