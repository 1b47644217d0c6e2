package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

func writeHistory(t *testing.T, content string) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return New(path)
}

func TestLoadRecords_CleanFile(t *testing.T) {
	store := writeHistory(t, `date,shift_category,shift_index,person_name
2025-01-25,Day,1,Abbott
2025-01-25,Day,2,Baker
2025-01-27,Night,1,Chandra
`)

	records, err := store.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, time.Date(2025, 1, 25, 0, 0, 0, 0, time.UTC), records[0].Date)
	assert.Equal(t, model.ShiftDay, records[0].Type)
	assert.Equal(t, 1, records[0].Index)
	assert.Equal(t, "Abbott", records[0].Member)

	assert.Equal(t, model.ShiftNight, records[2].Type)
	assert.Equal(t, "Chandra", records[2].Member)
}

func TestLoadRecords_DropsPlaceholderRows(t *testing.T) {
	store := writeHistory(t, `date,shift_category,shift_index,person_name
2025-01-25,Day,1,Abbott
2025-01-25,Day,2,-
2025-01-26,Day,1,TBD
2025-01-26,Day,2,
2025-01-27,Night,1,person_name
`)

	records, err := store.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Abbott", records[0].Member)
}

func TestLoadRecords_DropsExactDuplicates(t *testing.T) {
	store := writeHistory(t, `date,shift_category,shift_index,person_name
2025-01-25,Day,1,Abbott
2025-01-25,Day,1,Abbott
2025-01-25,Day,2,Abbott
`)

	records, err := store.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestLoadRecords_MissingFileMeansEmptyHistory(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "absent.csv"))

	records, err := store.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestLoadRecords_UnknownCategory(t *testing.T) {
	store := writeHistory(t, `date,shift_category,shift_index,person_name
2025-01-25,Evening,1,Abbott
`)

	_, err := store.LoadRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown shift category "Evening"`)
}

func TestLoadRecords_IndexOutOfRange(t *testing.T) {
	store := writeHistory(t, `date,shift_category,shift_index,person_name
2025-01-27,Night,3,Abbott
`)

	_, err := store.LoadRecords(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index 3 is not valid for Night duty")
}

func TestLoadRecords_BadDate(t *testing.T) {
	store := writeHistory(t, `date,shift_category,shift_index,person_name
25/01/2025,Day,1,Abbott
`)

	_, err := store.LoadRecords(context.Background())
	require.Error(t, err)
}

func TestLoadRecords_HeaderlessFile(t *testing.T) {
	store := writeHistory(t, `2025-01-25,Day,1,Abbott
2025-01-27,Night,2,Baker
`)

	records, err := store.LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestSaveRecords_SortedOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "schedule.csv")

	records := []model.HistoryRecord{
		{Date: time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), Type: model.ShiftNight, Index: 2, Member: "Chandra"},
		{Date: time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC), Type: model.ShiftDay, Index: 2, Member: "Baker"},
		{Date: time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC), Type: model.ShiftDay, Index: 1, Member: "Abbott"},
		{Date: time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), Type: model.ShiftNight, Index: 1, Member: "Dalton"},
	}

	require.NoError(t, SaveRecords(path, records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `date,shift_category,shift_index,person_name
2025-03-22,Day,1,Abbott
2025-03-22,Day,2,Baker
2025-03-24,Night,1,Dalton
2025-03-24,Night,2,Chandra
`, string(data))
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.csv")

	original := []model.HistoryRecord{
		{Date: time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC), Type: model.ShiftDay, Index: 3, Member: "Ellery"},
		{Date: time.Date(2025, 3, 24, 0, 0, 0, 0, time.UTC), Type: model.ShiftNight, Index: 1, Member: "Forrest"},
	}
	require.NoError(t, SaveRecords(path, original))

	loaded, err := New(path).LoadRecords(context.Background())
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestSaveSchedule_FromAssignments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schedule.csv")
	store := New(path)

	assignments := []model.Assignment{
		{
			Slot: model.DutySlot{
				Date:  time.Date(2025, 3, 22, 0, 0, 0, 0, time.UTC),
				Type:  model.ShiftDay,
				Index: 1,
			},
			Member: "Abbott",
		},
	}

	require.NoError(t, store.SaveSchedule(context.Background(), path, assignments))

	loaded, err := store.LoadRecords(context.Background())
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "Abbott", loaded[0].Member)
}
