package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/jakechorley/dutyroster/internal/config"
	"github.com/jakechorley/dutyroster/pkg/core/model"
	"github.com/jakechorley/dutyroster/pkg/core/scheduler"
)

// AnalyzeScheduleStore defines the CSV operations needed for auditing an
// existing schedule
type AnalyzeScheduleStore interface {
	LoadRecords(ctx context.Context) ([]model.HistoryRecord, error)
}

// AnalyzeScheduleResult contains the audit findings
type AnalyzeScheduleResult struct {
	RecordCount    int
	HistoryCount   int
	FirstDate      time.Time
	LastDate       time.Time
	Statistics     *Statistics
	Violations     []scheduler.Violation
	UnknownMembers []string
}

// AnalyzeSchedule audits an existing schedule CSV against the scheduling
// rules. When a history store is given, its records join the audit so
// violations spanning the rotation boundary are caught too.
func AnalyzeSchedule(
	ctx context.Context,
	scheduleStore AnalyzeScheduleStore,
	historyStore AnalyzeScheduleStore,
	cfg *config.Settings,
	logger *zap.Logger,
) (*AnalyzeScheduleResult, error) {
	logger.Debug("Starting analyzeSchedule")

	// Step 1: CSV load - fetch the schedule under audit
	logger.Debug("Loading schedule records")
	records, err := scheduleStore.LoadRecords(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("schedule file has no records to analyze")
	}
	logger.Debug("Loaded schedule records", zap.Int("count", len(records)))

	// Step 2: CSV load - optional history context
	var history []model.HistoryRecord
	if historyStore != nil {
		logger.Debug("Loading history context")
		history, err = historyStore.LoadRecords(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
		logger.Debug("Loaded history context", zap.Int("count", len(history)))
	}

	// Step 3: Determine the covered date range
	first, last := records[0].Date, records[0].Date
	for _, record := range records {
		if record.Date.Before(first) {
			first = record.Date
		}
		if record.Date.After(last) {
			last = record.Date
		}
	}

	// Step 4: Tally counts and fairness spread against the roster
	roster, err := cfg.Roster()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roster: %w", err)
	}
	stats := ComputeStatistics(roster, assignmentsFromRecords(records), cfg.Fairness.MaxDeviationRatio)

	unknown := unknownMembers(records, roster)
	for _, name := range unknown {
		logger.Warn("Schedule names member missing from the roster", zap.String("member", name))
	}

	// Step 5: Audit the combined record set against the scheduling rules.
	// A schedule already appended to the history would double every record,
	// so the merge drops exact duplicates.
	combined := mergeRecords(history, records)
	violations := scheduler.VerifySchedule(combined, scheduler.VerifyOptions{
		CloseIntervalDays: cfg.Constraints.Interval.DayIndex3,
		NightToDayGapDays: cfg.Constraints.NightToDayGap,
	})

	logger.Info("Analysis complete",
		zap.Int("records", len(records)),
		zap.Int("violations", len(violations)))

	return &AnalyzeScheduleResult{
		RecordCount:    len(records),
		HistoryCount:   len(history),
		FirstDate:      first,
		LastDate:       last,
		Statistics:     stats,
		Violations:     violations,
		UnknownMembers: unknown,
	}, nil
}

// mergeRecords concatenates the record sets, dropping exact duplicates.
func mergeRecords(sets ...[]model.HistoryRecord) []model.HistoryRecord {
	var merged []model.HistoryRecord
	seen := make(map[string]bool)
	for _, set := range sets {
		for _, record := range set {
			key := fmt.Sprintf("%s|%s|%d|%s",
				record.Date.Format(model.DateLayout), record.Type, record.Index, record.Member)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, record)
		}
	}
	return merged
}

// assignmentsFromRecords lifts raw CSV records into assignments for the
// statistics tally.
func assignmentsFromRecords(records []model.HistoryRecord) []model.Assignment {
	assignments := make([]model.Assignment, 0, len(records))
	for _, record := range records {
		assignments = append(assignments, model.Assignment{
			Slot: model.DutySlot{
				Date:  record.Date,
				Type:  record.Type,
				Index: record.Index,
			},
			Member: record.Member,
		})
	}
	return assignments
}

// unknownMembers lists names appearing in the records but missing from the
// roster, sorted. Old schedules often name people who have since left.
func unknownMembers(records []model.HistoryRecord, roster []model.Member) []string {
	onRoster := make(map[string]bool, len(roster))
	for _, m := range roster {
		onRoster[m.Name] = true
	}

	seen := make(map[string]bool)
	var unknown []string
	for _, record := range records {
		if onRoster[record.Member] || seen[record.Member] {
			continue
		}
		seen[record.Member] = true
		unknown = append(unknown, record.Member)
	}
	sort.Strings(unknown)
	return unknown
}
