package garden

import (
	"fmt"
	"math"
	"time"

	"github.com/julianstephens/habitgarden/internal/models"
)

// GrowthStage is the visual bucket a habit's completion ratio falls into.
type GrowthStage string

const (
	StageSeed     GrowthStage = "seed"
	StageSprout   GrowthStage = "sprout"
	StageGrowing  GrowthStage = "growing"
	StageBlooming GrowthStage = "blooming"
	StageComplete GrowthStage = "complete"
)

// Glyph returns a small marker for the stage.
func (g GrowthStage) Glyph() string {
	switch g {
	case StageSprout:
		return "🌱"
	case StageGrowing:
		return "🪴"
	case StageBlooming:
		return "🌼"
	case StageComplete:
		return "🏵"
	default:
		return "·"
	}
}

// StageFor maps a completion ratio to a growth stage. Every float, NaN included,
// maps to exactly one stage.
func StageFor(ratio float64) GrowthStage {
	switch {
	case ratio >= 1.0:
		return StageComplete
	case ratio >= 0.8:
		return StageBlooming
	case ratio >= 0.5:
		return StageGrowing
	case ratio >= 0.2:
		return StageSprout
	default:
		return StageSeed
	}
}

// Progress summarises how far a habit has grown.
type Progress struct {
	CheckInCount    int         `json:"check_in_count"`
	CompletionRatio float64     `json:"completion_ratio"` // check-ins / duration, not capped
	GrowthStage     GrowthStage `json:"growth_stage"`
}

// Percent is the completion ratio rounded to a whole percentage.
func (p Progress) Percent() int {
	return int(math.Round(p.CompletionRatio * 100))
}

// ProgressOf derives progress from a habit's check-ins.
func ProgressOf(h models.Habit) Progress {
	count := len(h.CheckIns)
	var ratio float64
	if h.Duration > 0 {
		ratio = float64(count) / float64(h.Duration)
	}
	return Progress{
		CheckInCount:    count,
		CompletionRatio: ratio,
		GrowthStage:     StageFor(ratio),
	}
}

// ProgressLine renders "N/D days".
func ProgressLine(h models.Habit) string {
	return fmt.Sprintf("%d/%d days", len(h.CheckIns), h.Duration)
}

// ElapsedDays is the number of whole days between creation and now.
func ElapsedDays(h models.Habit, now time.Time) int {
	return int(math.Floor(now.Sub(h.CreatedAt).Hours() / 24))
}

// IsCompleted reports whether the habit reached its duration by check-ins or by
// calendar time. The calendar condition completes a habit even with no check-ins.
func IsCompleted(h models.Habit, now time.Time) bool {
	return len(h.CheckIns) >= h.Duration || ElapsedDays(h, now) >= h.Duration
}

// Status is the one-way habit lifecycle.
type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// StatusOf derives the lifecycle state at now.
func StatusOf(h models.Habit, now time.Time) Status {
	if IsCompleted(h, now) {
		return StatusCompleted
	}
	return StatusActive
}
