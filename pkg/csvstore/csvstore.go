// Package csvstore reads and writes duty assignment history as CSV files.
// The same format serves both as seed history for a generation run and as
// the saved output of one, so a generated schedule can be appended to the
// history for the next rotation.
package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/jakechorley/dutyroster/pkg/core/calendar"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// Header is the column layout of every history and schedule CSV.
var Header = []string{"date", "shift_category", "shift_index", "person_name"}

// placeholderNames are name cells that mark an unfilled or scratched-out
// row in hand-edited history files. Rows carrying them are dropped.
var placeholderNames = map[string]bool{
	"":            true,
	"-":           true,
	"person_name": true,
	"TBD":         true,
}

// Store loads and saves history records at a fixed path.
type Store struct {
	path string
}

// New creates a store for the history file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path the store operates on.
func (s *Store) Path() string {
	return s.path
}

// LoadRecords reads and cleans the history file. Placeholder rows and exact
// duplicates are dropped; malformed dates, categories, or indices fail the
// load. A missing file returns an empty history, since a first rotation has
// nothing to look back on.
func (s *Store) LoadRecords(ctx context.Context) ([]model.HistoryRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read history file: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	// Tolerate files with or without the header row.
	if rows[0][0] == Header[0] {
		rows = rows[1:]
	}

	records := make([]model.HistoryRecord, 0, len(rows))
	seen := make(map[string]bool)

	for i, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if len(row) != len(Header) {
			return nil, fmt.Errorf("history row %d has %d columns, want %d", i+1, len(row), len(Header))
		}
		if placeholderNames[row[3]] {
			continue
		}

		date, err := calendar.ParseDate(row[0])
		if err != nil {
			return nil, fmt.Errorf("history row %d: %w", i+1, err)
		}

		shiftType := model.ShiftType(row[1])
		if !shiftType.IsValid() {
			return nil, fmt.Errorf("history row %d: unknown shift category %q", i+1, row[1])
		}

		index, err := strconv.Atoi(row[2])
		if err != nil {
			return nil, fmt.Errorf("history row %d: bad shift index %q", i+1, row[2])
		}
		if !model.ValidIndex(shiftType, index) {
			return nil, fmt.Errorf("history row %d: index %d is not valid for %s duty", i+1, index, shiftType)
		}

		key := row[0] + "|" + row[1] + "|" + row[2] + "|" + row[3]
		if seen[key] {
			continue
		}
		seen[key] = true

		records = append(records, model.HistoryRecord{
			Date:   date,
			Type:   shiftType,
			Index:  index,
			Member: row[3],
		})
	}

	return records, nil
}

// SaveRecords writes records to path, sorted by date, type, and index,
// creating parent directories as needed.
func SaveRecords(path string, records []model.HistoryRecord) error {
	sorted := make([]model.HistoryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].Date.Equal(sorted[j].Date) {
			return sorted[i].Date.Before(sorted[j].Date)
		}
		if sorted[i].Type != sorted[j].Type {
			return sorted[i].Type < sorted[j].Type
		}
		return sorted[i].Index < sorted[j].Index
	})

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	if err := writer.Write(Header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, record := range sorted {
		row := []string{
			record.Date.Format(model.DateLayout),
			string(record.Type),
			strconv.Itoa(record.Index),
			record.Member,
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush output file: %w", err)
	}

	return nil
}

// SaveSchedule writes a generated assignment list as a schedule CSV.
func (s *Store) SaveSchedule(ctx context.Context, path string, assignments []model.Assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	records := make([]model.HistoryRecord, 0, len(assignments))
	for _, a := range assignments {
		records = append(records, model.HistoryRecord{
			Date:   a.Slot.Date,
			Type:   a.Slot.Type,
			Index:  a.Slot.Index,
			Member: a.Member,
		})
	}
	return SaveRecords(path, records)
}
