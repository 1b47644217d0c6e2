package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

func testVerifyOptions() VerifyOptions {
	return VerifyOptions{CloseIntervalDays: 7, NightToDayGapDays: 7}
}

func TestVerifySchedule_CleanSchedule(t *testing.T) {
	records := []model.HistoryRecord{
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
		{Date: date(2025, 4, 5), Type: model.ShiftDay, Index: 1, Member: "Avery"},
		{Date: date(2025, 3, 24), Type: model.ShiftNight, Index: 1, Member: "Blair"},
		{Date: date(2025, 4, 14), Type: model.ShiftNight, Index: 1, Member: "Blair"},
	}

	assert.Empty(t, VerifySchedule(records, testVerifyOptions()))
}

func TestVerifySchedule_DoubleBooking(t *testing.T) {
	records := []model.HistoryRecord{
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 2, Member: "Avery"},
	}

	violations := VerifySchedule(records, testVerifyOptions())

	require.Len(t, violations, 1)
	assert.Equal(t, "DoubleBooking", violations[0].Rule)
	assert.Equal(t, "Avery", violations[0].Member)
	assert.Contains(t, violations[0].Description, "2 assignments on 2025-03-22")
}

func TestVerifySchedule_NightPositionConflict(t *testing.T) {
	records := []model.HistoryRecord{
		{Date: date(2025, 3, 24), Type: model.ShiftNight, Index: 1, Member: "Avery"},
		{Date: date(2025, 4, 21), Type: model.ShiftNight, Index: 2, Member: "Avery"},
	}

	violations := VerifySchedule(records, testVerifyOptions())

	require.Len(t, violations, 1)
	assert.Equal(t, "NightPositionConflict", violations[0].Rule)
	assert.Contains(t, violations[0].Description, "[1 2]")
}

func TestVerifySchedule_DayInsideNightWeek(t *testing.T) {
	records := []model.HistoryRecord{
		{Date: date(2025, 3, 24), Type: model.ShiftNight, Index: 1, Member: "Avery"},
		{Date: date(2025, 3, 29), Type: model.ShiftDay, Index: 1, Member: "Avery"},
	}

	violations := VerifySchedule(records, testVerifyOptions())

	require.Len(t, violations, 1)
	assert.Equal(t, "Overlap", violations[0].Rule)
	assert.Equal(t, date(2025, 3, 29), violations[0].Date)
}

func TestVerifySchedule_CooldownBreach(t *testing.T) {
	// Night week ends Mar 30, day duty 3 days later.
	records := []model.HistoryRecord{
		{Date: date(2025, 3, 24), Type: model.ShiftNight, Index: 1, Member: "Avery"},
		{Date: date(2025, 4, 2), Type: model.ShiftDay, Index: 1, Member: "Avery"},
	}

	violations := VerifySchedule(records, testVerifyOptions())

	require.Len(t, violations, 1)
	assert.Equal(t, "Cooldown", violations[0].Rule)
	assert.Contains(t, violations[0].Description, "3 days after night week ending 2025-03-30")
}

func TestVerifySchedule_CloseInterval(t *testing.T) {
	records := []model.HistoryRecord{
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
		{Date: date(2025, 3, 27), Type: model.ShiftDay, Index: 2, Member: "Avery"},
	}

	violations := VerifySchedule(records, testVerifyOptions())

	require.Len(t, violations, 1)
	assert.Equal(t, "CloseInterval", violations[0].Rule)
	assert.Contains(t, violations[0].Description, "Day duty 5 days after the previous one on 2025-03-22")
}

func TestVerifySchedule_MixedTypesDoNotTriggerCloseInterval(t *testing.T) {
	// A day duty shortly before a night week is the soft constraint's
	// business, not a spacing violation.
	records := []model.HistoryRecord{
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
		{Date: date(2025, 4, 14), Type: model.ShiftNight, Index: 1, Member: "Avery"},
	}

	assert.Empty(t, VerifySchedule(records, testVerifyOptions()))
}

func TestVerifySchedule_SortedOutput(t *testing.T) {
	records := []model.HistoryRecord{
		{Date: date(2025, 4, 21), Type: model.ShiftNight, Index: 2, Member: "Blair"},
		{Date: date(2025, 4, 21), Type: model.ShiftNight, Index: 1, Member: "Blair"},
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 2, Member: "Avery"},
	}

	violations := VerifySchedule(records, testVerifyOptions())

	// Avery's double booking on Mar 22 sorts ahead of Blair's two
	// violations on Apr 21.
	require.Len(t, violations, 3)
	assert.Equal(t, "DoubleBooking", violations[0].Rule)
	assert.Equal(t, "Avery", violations[0].Member)
	assert.Equal(t, "DoubleBooking", violations[1].Rule)
	assert.Equal(t, "Blair", violations[1].Member)
	assert.Equal(t, "NightPositionConflict", violations[2].Rule)
	assert.Equal(t, "Blair", violations[2].Member)
}
