package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jakechorley/dutyroster/internal/config"
)

func TestListMembers_ResolvesGroups(t *testing.T) {
	cfg := testSettings()
	cfg.Members.DayShift.Index12Group[0].Active = boolPtr(false) // Alder

	result, err := ListMembers(cfg, zap.NewNop())
	require.NoError(t, err)

	assert.Len(t, result.Members, 17)
	assert.Equal(t, 16, result.ActiveCount)
	assert.Equal(t, 11, result.DayCount)
	assert.Equal(t, 6, result.NightCount)

	// Sorted by name, with the group data resolved onto each member.
	first := result.Members[0]
	assert.Equal(t, "Alder", first.Name)
	assert.False(t, first.Active)
	assert.Equal(t, []int{1, 2}, first.DayIndexes)
	assert.Zero(t, first.NightIndex)
}

func TestListMembers_MemberOverridesCarried(t *testing.T) {
	cfg := testSettings()
	cfg.Members.NightShift.Index1Group[0].MinDaysNight = 28 // Laurel

	result, err := ListMembers(cfg, zap.NewNop())
	require.NoError(t, err)

	for _, m := range result.Members {
		if m.Name == "Laurel" {
			assert.Equal(t, 28, m.MinDaysNight)
			assert.Equal(t, 1, m.NightIndex)
			return
		}
	}
	t.Fatal("Laurel missing from roster listing")
}

func TestListMembers_ConflictingGroupsRejected(t *testing.T) {
	cfg := testSettings()
	cfg.Members.DayShift.Index3Group = append(cfg.Members.DayShift.Index3Group,
		config.MemberEntry{Name: "Alder"})

	result, err := ListMembers(cfg, zap.NewNop())
	assert.Error(t, err)
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "more than one day_shift group")
}
