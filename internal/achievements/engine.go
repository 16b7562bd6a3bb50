// Package achievements decides when users earn achievements. Rules are data: an
// ordered list of (id, criteria) pairs, usually built from a YAML catalog.
package achievements

import (
	"time"

	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/stats"
)

// Criteria is a predicate over a user's derived activity.
type Criteria func(stats.Activity) bool

// Rule pairs an achievement id with its criteria.
type Rule struct {
	ID       string
	Criteria Criteria
}

// Engine evaluates rules in order.
type Engine struct {
	rules []Rule
}

func NewEngine(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Evaluate returns, in rule order, the ids whose criteria hold for activity and
// that isUnlocked does not already report. It does not record anything.
func (e *Engine) Evaluate(activity stats.Activity, isUnlocked func(id string) bool) []string {
	var ids []string
	seen := make(map[string]bool)
	for _, r := range e.rules {
		if r.Criteria == nil || seen[r.ID] || isUnlocked(r.ID) {
			continue
		}
		if r.Criteria(activity) {
			seen[r.ID] = true
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// EvaluateUser derives userID's activity from state and evaluates it.
func (e *Engine) EvaluateUser(state *models.State, userID string, now time.Time) []string {
	activity := stats.ActivityFor(state, userID, now)
	return e.Evaluate(activity, func(id string) bool {
		return state.IsUnlocked(userID, id)
	})
}

// Unlock records ids for userID. Ids already unlocked are skipped, so unlocking
// is monotonic and repeat calls change nothing.
func Unlock(state *models.State, userID string, ids []string, at time.Time) []models.Unlock {
	var added []models.Unlock
	for _, id := range ids {
		if state.IsUnlocked(userID, id) {
			continue
		}
		u := models.Unlock{UserID: userID, AchievementID: id, UnlockedAt: at.UTC()}
		state.Unlocks = append(state.Unlocks, u)
		added = append(added, u)
	}
	return added
}
