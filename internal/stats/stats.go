// Package stats computes per-user statistics and the leaderboard from a State
// snapshot. Nothing here is cached; every call reads the snapshot it is given.
package stats

import (
	"sort"
	"time"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/models"
)

// UserStats are the figures the leaderboard ranks on.
type UserStats struct {
	TotalCheckIns       int `json:"total_check_ins"`
	CompletedHabitCount int `json:"completed_habit_count"`
	// MaxStreak is the largest check-in count on any one habit. It is not a run of
	// consecutive days.
	MaxStreak int `json:"max_streak"`
}

// Points weighs check-ins and completed habits.
func (s UserStats) Points() int {
	return s.TotalCheckIns*constants.PointsPerCheckIn + s.CompletedHabitCount*constants.PointsPerCompletedHabit
}

// ForHabits aggregates a set of habits as seen at now.
func ForHabits(habits []models.Habit, now time.Time) UserStats {
	var s UserStats
	for _, h := range habits {
		n := len(h.CheckIns)
		s.TotalCheckIns += n
		if garden.IsCompleted(h, now) {
			s.CompletedHabitCount++
		}
		if n > s.MaxStreak {
			s.MaxStreak = n
		}
	}
	return s
}

// ForUser aggregates the habits owned by userID.
func ForUser(state *models.State, userID string, now time.Time) UserStats {
	return ForHabits(state.HabitsOf(userID), now)
}

// Points returns totalCheckIns*10 + completedHabits*100 for userID.
func Points(state *models.State, userID string, now time.Time) int {
	return ForUser(state, userID, now).Points()
}

// LeaderboardEntry is one ranked row.
type LeaderboardEntry struct {
	Rank                int         `json:"rank"`
	User                models.User `json:"user"`
	TotalCheckIns       int         `json:"total_check_ins"`
	CompletedHabitCount int         `json:"completed_habit_count"`
	Points              int         `json:"points"`
}

// Leaderboard ranks users by points, highest first. Equal points are ordered by
// user id so the ranking does not depend on the order users were passed in.
func Leaderboard(state *models.State, users []models.User, now time.Time) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(users))
	for _, u := range users {
		s := ForUser(state, u.ID, now)
		entries = append(entries, LeaderboardEntry{
			User:                u,
			TotalCheckIns:       s.TotalCheckIns,
			CompletedHabitCount: s.CompletedHabitCount,
			Points:              s.Points(),
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].User.ID < entries[j].User.ID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries
}

// ProfileStats backs the profile view.
type ProfileStats struct {
	UserStats
	HabitCount           int `json:"habit_count"`
	ActiveHabits         int `json:"active_habits"`
	UnlockedAchievements int `json:"unlocked_achievements"`
	Points               int `json:"points"`
}

// Profile gathers the profile figures for userID.
func Profile(state *models.State, userID string, now time.Time) ProfileStats {
	habits := state.HabitsOf(userID)
	p := ProfileStats{
		UserStats:  ForHabits(habits, now),
		HabitCount: len(habits),
	}
	p.ActiveHabits = p.HabitCount - p.CompletedHabitCount
	p.Points = p.UserStats.Points()
	for _, u := range state.Unlocks {
		if u.UserID == userID {
			p.UnlockedAchievements++
		}
	}
	return p
}
