package models

import "time"

// Metric names a derived statistic an achievement threshold is checked against.
type Metric string

const (
	MetricHabitsCreated   Metric = "habits_created"
	MetricTotalCheckIns   Metric = "total_check_ins"
	MetricCompletedHabits Metric = "completed_habits"
	MetricMaxStreak       Metric = "max_streak"
	MetricFriends         Metric = "friends"
	MetricPosts           Metric = "posts"
	MetricComments        Metric = "comments"
	MetricLikesReceived   Metric = "likes_received"
)

// Metrics returns every metric an achievement catalog may reference.
func Metrics() []Metric {
	return []Metric{
		MetricHabitsCreated,
		MetricTotalCheckIns,
		MetricCompletedHabits,
		MetricMaxStreak,
		MetricFriends,
		MetricPosts,
		MetricComments,
		MetricLikesReceived,
	}
}

// Achievement is a catalog entry. Catalogs are configuration data loaded from YAML.
type Achievement struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Icon        string `json:"icon" yaml:"icon"`
	Metric      Metric `json:"metric" yaml:"metric"`
	Threshold   int    `json:"threshold" yaml:"threshold"`
}

// Unlock records that a user earned an achievement. Unlocks are never removed.
type Unlock struct {
	UserID        string    `json:"user_id"`
	AchievementID string    `json:"achievement_id"`
	UnlockedAt    time.Time `json:"unlocked_at"`
}

// AchievementStatus is a catalog entry seen from one user's perspective.
type AchievementStatus struct {
	Achievement
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
}
