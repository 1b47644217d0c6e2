package render

import (
	"fmt"
	"strings"

	"github.com/jakechorley/dutyroster/pkg/core/services"
)

// FormatStatistics renders the per-member duty counts followed by the
// per-shift-type spread summary.
func FormatStatistics(stats *services.Statistics) string {
	headers := []string{"MEMBER", "DAY", "NIGHT", "TOTAL"}
	rows := make([][]string, 0, len(stats.Members))
	for _, m := range stats.Members {
		rows = append(rows, []string{
			m.Name,
			fmt.Sprintf("%d", m.DayCount),
			fmt.Sprintf("%d", m.NightCount),
			fmt.Sprintf("%d", m.DayCount+m.NightCount),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable(headers, rows))
	b.WriteByte('\n')
	b.WriteString(spreadLine("Day", stats.Day))
	b.WriteString(spreadLine("Night", stats.Night))
	return b.String()
}

// spreadLine renders one shift type's load spread. The deviation ratio
// prints as n/a when it is undefined for the current counts, and in the
// failure color with an over-limit tag when it exceeds the configured cap.
func spreadLine(label string, spread services.SpreadStats) string {
	if spread.Members == 0 {
		return fmt.Sprintf("%-6s %s\n", label, Dim("no eligible members"))
	}
	ratio := Dim("n/a")
	if spread.DeviationDefined {
		text := fmt.Sprintf("%.2f", spread.DeviationRatio)
		if spread.Exceeded {
			ratio = styleBad.Render(text + " over limit")
		} else {
			ratio = styleGood.Render(text)
		}
	}
	return fmt.Sprintf("%-6s max %d  min %d  avg %.1f  deviation %s\n",
		label, spread.Max, spread.Min, spread.Avg, ratio)
}
