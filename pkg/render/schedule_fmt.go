package render

import (
	"fmt"
	"strings"

	"github.com/jakechorley/dutyroster/pkg/core/model"
	"github.com/jakechorley/dutyroster/pkg/core/scheduler"
)

// FormatSchedule renders the assignment table in slot order, one line per
// assignment. Night rows show the covered week span next to the shift type.
func FormatSchedule(assignments []model.Assignment) string {
	headers := []string{"DATE", "DAY", "SHIFT", "POS", "MEMBER"}
	rows := make([][]string, 0, len(assignments))
	for _, a := range assignments {
		shift := string(a.Slot.Type)
		if a.Slot.Type == model.ShiftNight {
			shift = fmt.Sprintf("Night (to %s)", a.Slot.WeekEnd.Format(model.DateLayout))
		}
		rows = append(rows, []string{
			a.Slot.Date.Format(model.DateLayout),
			a.Slot.Date.Weekday().String()[:3],
			shift,
			fmt.Sprintf("%d", a.Slot.Index),
			a.Member,
		})
	}
	return RenderTable(headers, rows)
}

// FormatNotes renders build notes one per line with a warning marker.
// Returns the empty string when there is nothing to report.
func FormatNotes(notes []scheduler.Note) string {
	if len(notes) == 0 {
		return ""
	}
	var b strings.Builder
	for _, note := range notes {
		b.WriteString(fmt.Sprintf("%s %s %s\n",
			styleWarn.Render("!"),
			Dim(note.Date.Format(model.DateLayout)),
			note.Message))
	}
	return b.String()
}
