package constants

const (
	// Habit duration bounds in days, inclusive
	MinHabitDuration     = 7
	MaxHabitDuration     = 30
	DefaultHabitDuration = 21

	// Garden canvas bounds for habit placement
	CanvasMinX = 50.0
	CanvasMaxX = 550.0
	CanvasMinY = 50.0
	CanvasMaxY = 450.0

	// Leaderboard point weights
	PointsPerCheckIn        = 10
	PointsPerCompletedHabit = 100

	// Profile defaults
	DefaultAvatar          = "🌱"
	DefaultBackgroundColor = "#e8f5e9"
	MaxAvatarRunes         = 8

	// DefaultSuggestionLimit caps friend suggestions
	DefaultSuggestionLimit = 5

	UnknownUserDisplayName = "Unknown User"
	UnknownUserAvatar      = "👤"
)
