// Package validation checks a loaded State for integrity problems that the
// engine would never produce but a hand-edited or partially restored store might.
package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/habitgarden/internal/achievements"
	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/models"
)

// ConflictType represents the type of integrity problem
type ConflictType string

const (
	ConflictDuplicateID        ConflictType = "duplicate_id"
	ConflictDuplicateUsername  ConflictType = "duplicate_username"
	ConflictDanglingReference  ConflictType = "dangling_reference"
	ConflictInvalidDuration    ConflictType = "invalid_duration"
	ConflictInvalidDate        ConflictType = "invalid_date"
	ConflictUnorderedCheckIns  ConflictType = "unordered_check_ins"
	ConflictSelfFriendship     ConflictType = "self_friendship"
	ConflictDuplicateLike      ConflictType = "duplicate_like"
	ConflictUnknownAchievement ConflictType = "unknown_achievement"
	ConflictCurrentUser        ConflictType = "current_user"
)

// Conflict represents one detected problem
type Conflict struct {
	Type        ConflictType
	Description string
	IDs         []string
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

func (vr *ValidationResult) add(t ConflictType, ids []string, format string, args ...any) {
	vr.Conflicts = append(vr.Conflicts, Conflict{
		Type:        t,
		Description: fmt.Sprintf(format, args...),
		IDs:         ids,
	})
}

// Validator checks states against an achievement catalog.
type Validator struct {
	catalog *achievements.Catalog
}

// New creates a Validator. A nil catalog means the built-in one.
func New(catalog *achievements.Catalog) *Validator {
	if catalog == nil {
		catalog = achievements.DefaultCatalog()
	}
	return &Validator{catalog: catalog}
}

// ValidateState reports every integrity problem in state.
func (v *Validator) ValidateState(state *models.State) ValidationResult {
	var vr ValidationResult
	users := v.checkUsers(state, &vr)
	v.checkFriendships(state, users, &vr)
	v.checkHabits(state, users, &vr)
	v.checkPosts(state, users, &vr)
	v.checkUnlocks(state, users, &vr)

	if state.CurrentUserID != "" && !users[state.CurrentUserID] {
		vr.add(ConflictCurrentUser, []string{state.CurrentUserID},
			"current user %s does not exist", state.CurrentUserID)
	}
	return vr
}

func (v *Validator) checkUsers(state *models.State, vr *ValidationResult) map[string]bool {
	ids := make(map[string]bool, len(state.Users))
	names := make(map[string]string, len(state.Users))
	for _, u := range state.Users {
		if ids[u.ID] {
			vr.add(ConflictDuplicateID, []string{u.ID}, "user id %s appears more than once", u.ID)
		}
		ids[u.ID] = true

		key := models.NormalizeUsername(u.Username)
		if other, ok := names[key]; ok {
			vr.add(ConflictDuplicateUsername, []string{other, u.ID}, "username %q is taken by more than one user", u.Username)
		}
		names[key] = u.ID
	}
	return ids
}

func (v *Validator) checkFriendships(state *models.State, users map[string]bool, vr *ValidationResult) {
	for _, f := range state.Friendships {
		if f.UserID == f.FriendID {
			vr.add(ConflictSelfFriendship, []string{f.UserID}, "user %s is friends with themself", f.UserID)
			continue
		}
		for _, id := range []string{f.UserID, f.FriendID} {
			if !users[id] {
				vr.add(ConflictDanglingReference, []string{id}, "friendship references missing user %s", id)
			}
		}
	}
}

func (v *Validator) checkHabits(state *models.State, users map[string]bool, vr *ValidationResult) {
	seen := make(map[string]bool, len(state.Habits))
	for _, h := range state.Habits {
		if seen[h.ID] {
			vr.add(ConflictDuplicateID, []string{h.ID}, "habit id %s appears more than once", h.ID)
		}
		seen[h.ID] = true

		if !users[h.OwnerID] {
			vr.add(ConflictDanglingReference, []string{h.ID, h.OwnerID}, "habit %q belongs to missing user %s", h.Name, h.OwnerID)
		}
		if h.Duration < constants.MinHabitDuration || h.Duration > constants.MaxHabitDuration {
			vr.add(ConflictInvalidDuration, []string{h.ID}, "habit %q has duration %d outside %d-%d",
				h.Name, h.Duration, constants.MinHabitDuration, constants.MaxHabitDuration)
		}

		prev := ""
		for _, ci := range h.CheckIns {
			if _, err := garden.ParseDay(ci.Date); err != nil {
				vr.add(ConflictInvalidDate, []string{h.ID}, "habit %q has invalid check-in date %q", h.Name, ci.Date)
				continue
			}
			if ci.Date <= prev {
				vr.add(ConflictUnorderedCheckIns, []string{h.ID}, "habit %q check-ins are not strictly chronological at %s", h.Name, ci.Date)
			}
			prev = ci.Date
		}
	}
}

func (v *Validator) checkPosts(state *models.State, users map[string]bool, vr *ValidationResult) {
	seen := make(map[string]bool, len(state.Posts))
	for _, p := range state.Posts {
		if seen[p.ID] {
			vr.add(ConflictDuplicateID, []string{p.ID}, "post id %s appears more than once", p.ID)
		}
		seen[p.ID] = true

		if !users[p.UserID] {
			vr.add(ConflictDanglingReference, []string{p.ID, p.UserID}, "post %s has missing author %s", p.ID, p.UserID)
		}
		likes := make(map[string]bool, len(p.Likes))
		for _, id := range p.Likes {
			if likes[id] {
				vr.add(ConflictDuplicateLike, []string{p.ID, id}, "post %s is liked twice by %s", p.ID, id)
			}
			likes[id] = true
			if !users[id] {
				vr.add(ConflictDanglingReference, []string{p.ID, id}, "post %s is liked by missing user %s", p.ID, id)
			}
		}
		for _, c := range p.Comments {
			if !users[c.UserID] {
				vr.add(ConflictDanglingReference, []string{c.ID, c.UserID}, "comment %s has missing author %s", c.ID, c.UserID)
			}
		}
	}
}

func (v *Validator) checkUnlocks(state *models.State, users map[string]bool, vr *ValidationResult) {
	for _, u := range state.Unlocks {
		if !users[u.UserID] {
			vr.add(ConflictDanglingReference, []string{u.UserID}, "achievement %s unlocked by missing user %s", u.AchievementID, u.UserID)
		}
		if _, ok := v.catalog.Lookup(u.AchievementID); !ok {
			vr.add(ConflictUnknownAchievement, []string{u.AchievementID}, "achievement %s is not in the catalog", u.AchievementID)
		}
	}
}
