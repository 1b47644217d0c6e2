package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jakechorley/dutyroster/internal/config"
	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// ListMembersResult contains the resolved roster
type ListMembersResult struct {
	Members     []model.Member
	ActiveCount int
	DayCount    int
	NightCount  int
}

// ListMembers resolves the duty groups in the settings into the flat
// roster listing, sorted by name.
func ListMembers(cfg *config.Settings, logger *zap.Logger) (*ListMembersResult, error) {
	logger.Debug("Starting listMembers")

	roster, err := cfg.Roster()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve roster: %w", err)
	}

	result := &ListMembersResult{Members: roster}
	for i := range roster {
		m := &roster[i]
		if m.Active {
			result.ActiveCount++
		}
		if m.OnDayDuty() {
			result.DayCount++
		}
		if m.OnNightDuty() {
			result.NightCount++
		}
	}

	logger.Info("Resolved roster",
		zap.Int("members", len(roster)),
		zap.Int("active", result.ActiveCount))

	return result, nil
}
