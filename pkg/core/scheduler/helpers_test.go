package scheduler

import (
	"time"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testParams() Params {
	return Params{
		DayIntervalDays:       14,
		NightIntervalDays:     21,
		DayIndex3IntervalDays: 7,
		NightToDayGapDays:     7,
		SoftDayToNightGap:     SoftGap{Enabled: true, StrongDays: 3, WeakDays: 7},
	}
}

func daySlot(d time.Time, index int) model.DutySlot {
	return model.DutySlot{Date: d, Type: model.ShiftDay, Index: index}
}

func nightSlot(monday time.Time, index int) model.DutySlot {
	return model.DutySlot{
		Date:      monday,
		Type:      model.ShiftNight,
		Index:     index,
		WeekStart: monday,
		WeekEnd:   monday.AddDate(0, 0, 6),
	}
}
