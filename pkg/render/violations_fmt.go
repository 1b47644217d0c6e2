package render

import (
	"github.com/jakechorley/dutyroster/pkg/core/model"
	"github.com/jakechorley/dutyroster/pkg/core/scheduler"
)

// FormatViolations renders analyzer findings as a table, or a single
// all-clear line when there are none.
func FormatViolations(violations []scheduler.Violation) string {
	if len(violations) == 0 {
		return styleGood.Render("No rule violations found") + "\n"
	}
	headers := []string{"DATE", "MEMBER", "RULE", "DETAIL"}
	rows := make([][]string, 0, len(violations))
	for _, v := range violations {
		rows = append(rows, []string{
			v.Date.Format(model.DateLayout),
			v.Member,
			styleBad.Render(v.Rule),
			v.Description,
		})
	}
	return RenderTable(headers, rows)
}
