package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// FormatRoster renders the resolved member list with group membership,
// active state and any per-member spacing overrides.
func FormatRoster(members []model.Member) string {
	headers := []string{"MEMBER", "DAY POS", "NIGHT POS", "ACTIVE", "MIN DAY", "MIN NIGHT"}
	rows := make([][]string, 0, len(members))
	for _, m := range members {
		rows = append(rows, []string{
			m.Name,
			dayPositionsCell(m),
			positionCell(m.NightIndex),
			activeCell(m.Active),
			overrideCell(m.MinDaysDay),
			overrideCell(m.MinDaysNight),
		})
	}
	return RenderTable(headers, rows)
}

func dayPositionsCell(m model.Member) string {
	if len(m.DayIndexes) == 0 {
		return Dim("-")
	}
	parts := make([]string, len(m.DayIndexes))
	for i, idx := range m.DayIndexes {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ",")
}

func positionCell(idx int) string {
	if idx == 0 {
		return Dim("-")
	}
	return strconv.Itoa(idx)
}

func activeCell(active bool) string {
	if active {
		return styleGood.Render("yes")
	}
	return styleBad.Render("no")
}

func overrideCell(days int) string {
	if days == 0 {
		return Dim("default")
	}
	return fmt.Sprintf("%d", days)
}
