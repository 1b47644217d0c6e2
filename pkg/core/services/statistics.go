package services

import (
	"sort"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// Statistics summarizes how evenly a schedule spreads duty across the
// active roster. Each shift type is measured against the members eligible
// for it, since day and night pools serve different slot supplies.
type Statistics struct {
	Members []MemberStats
	Day     SpreadStats
	Night   SpreadStats
}

// MemberStats is one member's assignment counts in the schedule.
type MemberStats struct {
	Name       string
	DayCount   int
	NightCount int
}

// SpreadStats aggregates one shift type's counts across the active members
// eligible for it.
type SpreadStats struct {
	Members int
	Max     int
	Min     int
	Avg     float64

	// DeviationRatio is (max-min)/min. It is undefined when the minimum is
	// zero while the maximum is not; renderers show it as n/a.
	DeviationRatio   float64
	DeviationDefined bool

	// Exceeded reports a defined ratio above the configured limit.
	Exceeded bool
}

// ComputeStatistics tallies per-member counts and the per-type fairness
// spread of a schedule. Inactive members are left out of both the listing
// and the spread.
func ComputeStatistics(roster []model.Member, assignments []model.Assignment, maxDeviationRatio float64) *Statistics {
	dayCounts := make(map[string]int)
	nightCounts := make(map[string]int)
	for _, a := range assignments {
		switch a.Slot.Type {
		case model.ShiftDay:
			dayCounts[a.Member]++
		case model.ShiftNight:
			nightCounts[a.Member]++
		}
	}

	stats := &Statistics{}
	var dayPool, nightPool []int
	for _, m := range roster {
		if !m.Active {
			continue
		}
		stats.Members = append(stats.Members, MemberStats{
			Name:       m.Name,
			DayCount:   dayCounts[m.Name],
			NightCount: nightCounts[m.Name],
		})
		if m.OnDayDuty() {
			dayPool = append(dayPool, dayCounts[m.Name])
		}
		if m.OnNightDuty() {
			nightPool = append(nightPool, nightCounts[m.Name])
		}
	}
	sort.Slice(stats.Members, func(i, j int) bool {
		return stats.Members[i].Name < stats.Members[j].Name
	})

	stats.Day = spreadOf(dayPool, maxDeviationRatio)
	stats.Night = spreadOf(nightPool, maxDeviationRatio)
	return stats
}

// spreadOf reduces one pool's counts to its max/min/avg spread and checks
// the deviation ratio against the limit. A zero minimum under a non-zero
// maximum leaves the ratio undefined rather than infinite.
func spreadOf(counts []int, maxDeviationRatio float64) SpreadStats {
	if len(counts) == 0 {
		return SpreadStats{}
	}

	s := SpreadStats{Members: len(counts), Max: counts[0], Min: counts[0]}
	total := 0
	for _, c := range counts {
		if c > s.Max {
			s.Max = c
		}
		if c < s.Min {
			s.Min = c
		}
		total += c
	}
	s.Avg = float64(total) / float64(len(counts))

	if s.Min > 0 {
		s.DeviationRatio = float64(s.Max-s.Min) / float64(s.Min)
		s.DeviationDefined = true
	} else if s.Max == 0 {
		s.DeviationDefined = true
	}
	s.Exceeded = s.DeviationDefined && s.DeviationRatio > maxDeviationRatio

	return s
}
