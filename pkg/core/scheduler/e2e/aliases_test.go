package e2e

import (
	"github.com/jakechorley/dutyroster/pkg/core/model"
	scheduler "github.com/jakechorley/dutyroster/pkg/core/scheduler"
)

// Type aliases to avoid prefixing everything with scheduler.
type (
	Inputs           = scheduler.Inputs
	Params           = scheduler.Params
	SoftGap          = scheduler.SoftGap
	FixedPattern     = scheduler.FixedPattern
	Result           = scheduler.Result
	Note             = scheduler.Note
	NoCandidateError = scheduler.NoCandidateError
	VerifyOptions    = scheduler.VerifyOptions
	Member           = model.Member
	DutySlot         = model.DutySlot
	Assignment       = model.Assignment
	HistoryRecord    = model.HistoryRecord
	NGRule           = model.NGRule
)

// Function and constant aliases
var (
	Build                = scheduler.Build
	VerifySchedule       = scheduler.VerifySchedule
	NoteSuppressedSlot   = scheduler.NoteSuppressedSlot
	NoteOverrideFallback = scheduler.NoteOverrideFallback
)
