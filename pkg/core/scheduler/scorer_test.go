package scheduler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

func TestScoreKeyLess(t *testing.T) {
	base := scoreKey{count: 2, penalty: 0, sinceLast: 30, name: "Avery"}

	// Fewer assignments wins regardless of everything else.
	assert.True(t, scoreKey{count: 1, penalty: 2, sinceLast: 1, name: "Zed"}.less(base))

	// Equal counts: lower penalty class wins.
	assert.True(t, scoreKey{count: 2, penalty: 0, sinceLast: 1, name: "Zed"}.less(
		scoreKey{count: 2, penalty: 1, sinceLast: 90, name: "Avery"}))

	// Equal counts and penalties: the longer-rested member wins.
	assert.True(t, scoreKey{count: 2, penalty: 0, sinceLast: 40, name: "Zed"}.less(base))
	assert.False(t, scoreKey{count: 2, penalty: 0, sinceLast: 20, name: "Avery"}.less(base))

	// Full tie: name order decides.
	assert.True(t, base.less(scoreKey{count: 2, penalty: 0, sinceLast: 30, name: "Blair"}))
	assert.False(t, scoreKey{count: 2, penalty: 0, sinceLast: 30, name: "Blair"}.less(base))
}

func newTestEngine(t *testing.T, roster []model.Member, history []model.HistoryRecord) *Engine {
	t.Helper()
	engine, err := New(Inputs{
		Roster:  roster,
		History: history,
		Params:  testParams(),
	})
	require.NoError(t, err)
	return engine
}

func TestScore_NeverAssignedRanksFirst(t *testing.T) {
	roster := []model.Member{
		{Name: "Avery", Active: true, NightIndex: 1},
		{Name: "Blair", Active: true, NightIndex: 1},
	}
	history := []model.HistoryRecord{
		{Date: date(2025, 2, 3), Type: model.ShiftNight, Index: 1, Member: "Avery"},
	}
	engine := newTestEngine(t, roster, history)
	slot := nightSlot(date(2025, 3, 24), 1)

	avery := engine.score(engine.memberByName("Avery"), slot)
	blair := engine.score(engine.memberByName("Blair"), slot)

	// Blair has a count of 0 and no last date, so Blair leads on count
	// alone, and would lead on rest even at equal counts.
	assert.True(t, blair.less(avery))
	assert.Greater(t, blair.sinceLast, avery.sinceLast)
}

func TestPenaltyClass(t *testing.T) {
	// Last day duty lands 2, 5, and 9 days before the night week of
	// Mon 2025-03-24. Thresholds are 3 strong, 7 weak.
	roster := []model.Member{
		{Name: "Avery", Active: true, DayIndexes: []int{1, 2}, NightIndex: 1},
		{Name: "Blair", Active: true, DayIndexes: []int{1, 2}, NightIndex: 1},
		{Name: "Casey", Active: true, DayIndexes: []int{1, 2}, NightIndex: 1},
		{Name: "Drew", Active: true, NightIndex: 1},
	}
	history := []model.HistoryRecord{
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
		{Date: date(2025, 3, 19), Type: model.ShiftDay, Index: 1, Member: "Blair"},
		{Date: date(2025, 3, 15), Type: model.ShiftDay, Index: 1, Member: "Casey"},
	}
	engine := newTestEngine(t, roster, history)
	slot := nightSlot(date(2025, 3, 24), 1)

	assert.Equal(t, 2, engine.penaltyClass(engine.memberByName("Avery"), slot))
	assert.Equal(t, 1, engine.penaltyClass(engine.memberByName("Blair"), slot))
	assert.Equal(t, 0, engine.penaltyClass(engine.memberByName("Casey"), slot))
	assert.Equal(t, 0, engine.penaltyClass(engine.memberByName("Drew"), slot))

	// Day slots never carry the penalty.
	assert.Equal(t, 0, engine.penaltyClass(engine.memberByName("Avery"), daySlot(date(2025, 3, 29), 1)))
}

func TestPenaltyClass_Disabled(t *testing.T) {
	roster := []model.Member{
		{Name: "Avery", Active: true, DayIndexes: []int{1, 2}, NightIndex: 1},
	}
	history := []model.HistoryRecord{
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
	}
	params := testParams()
	params.SoftDayToNightGap.Enabled = false
	engine, err := New(Inputs{Roster: roster, History: history, Params: params})
	require.NoError(t, err)

	assert.Equal(t, 0, engine.penaltyClass(engine.memberByName("Avery"), nightSlot(date(2025, 3, 24), 1)))
}

func TestRank_PenaltyBreaksCountTie(t *testing.T) {
	// Both candidates have one night behind them, but Avery worked a day
	// shift two days before the week and drops behind.
	roster := []model.Member{
		{Name: "Avery", Active: true, DayIndexes: []int{1, 2}, NightIndex: 1},
		{Name: "Blair", Active: true, NightIndex: 1},
	}
	history := []model.HistoryRecord{
		{Date: date(2025, 2, 3), Type: model.ShiftNight, Index: 1, Member: "Avery"},
		{Date: date(2025, 2, 3), Type: model.ShiftNight, Index: 1, Member: "Blair"},
		{Date: date(2025, 3, 22), Type: model.ShiftDay, Index: 1, Member: "Avery"},
	}
	engine := newTestEngine(t, roster, history)
	slot := nightSlot(date(2025, 3, 24), 1)

	pool := []*model.Member{engine.memberByName("Avery"), engine.memberByName("Blair")}
	ranked := engine.rank(pool, slot)

	require.Len(t, ranked, 2)
	assert.Equal(t, "Blair", ranked[0].Name)
	assert.Equal(t, "Avery", ranked[1].Name)
}
