package scheduler

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jakechorley/dutyroster/pkg/core/model"
)

// NoCandidateError reports a slot no roster member can fill. Reasons
// carries every member's eliminations, keyed by member name, so an
// infeasible configuration can be diagnosed without re-running anything.
// The build halts on the first such slot and earlier commitments stay in
// the partial result.
type NoCandidateError struct {
	Slot    model.DutySlot
	Reasons map[string][]string
}

func (e *NoCandidateError) Error() string {
	return fmt.Sprintf("no eligible member for slot %s, %d members eliminated", e.Slot, len(e.Reasons))
}

// Detail renders the per-member eliminations as indented lines in member
// name order, one block per member.
func (e *NoCandidateError) Detail() string {
	names := make([]string, 0, len(e.Reasons))
	for name := range e.Reasons {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		fmt.Fprintf(&b, "  %s:\n", name)
		for _, reason := range e.Reasons[name] {
			fmt.Fprintf(&b, "    - %s\n", reason)
		}
	}
	return b.String()
}
