package stats

import (
	"time"

	"github.com/julianstephens/habitgarden/internal/models"
)

// Activity is every figure an achievement threshold can test.
type Activity struct {
	UserStats
	HabitsCreated int
	Friends       int
	Posts         int
	Comments      int
	LikesReceived int
}

// Metric returns the value of m, or 0 for an unknown metric.
func (a Activity) Metric(m models.Metric) int {
	switch m {
	case models.MetricHabitsCreated:
		return a.HabitsCreated
	case models.MetricTotalCheckIns:
		return a.TotalCheckIns
	case models.MetricCompletedHabits:
		return a.CompletedHabitCount
	case models.MetricMaxStreak:
		return a.MaxStreak
	case models.MetricFriends:
		return a.Friends
	case models.MetricPosts:
		return a.Posts
	case models.MetricComments:
		return a.Comments
	case models.MetricLikesReceived:
		return a.LikesReceived
	default:
		return 0
	}
}

// ActivityFor derives userID's habit and social figures from the snapshot.
func ActivityFor(state *models.State, userID string, now time.Time) Activity {
	habits := state.HabitsOf(userID)
	a := Activity{
		UserStats:     ForHabits(habits, now),
		HabitsCreated: len(habits),
		Friends:       friendCount(state, userID),
	}
	for _, p := range state.Posts {
		if p.UserID == userID {
			a.Posts++
			a.LikesReceived += len(p.Likes)
		}
		for _, c := range p.Comments {
			if c.UserID == userID {
				a.Comments++
			}
		}
	}
	return a
}

// friendCount counts distinct users linked to userID by an edge in either direction.
func friendCount(state *models.State, userID string) int {
	seen := make(map[string]bool)
	for _, f := range state.Friendships {
		if f.Involves(userID) {
			seen[f.Other(userID)] = true
		}
	}
	return len(seen)
}
