// Package garden stores habits and their daily check-ins and derives how far
// each habit has grown.
package garden

import (
	"math/rand"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

// Store reads and mutates the habits of a State.
type Store struct {
	state *models.State
	now   func() time.Time
	rnd   *rand.Rand
}

// New creates a Store. rnd drives canvas placement; pass a seeded source in tests.
func New(state *models.State, now func() time.Time, rnd *rand.Rand) *Store {
	if now == nil {
		now = time.Now
	}
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{state: state, now: now, rnd: rnd}
}

// HabitUpdate names the habit fields to change; nil fields are kept.
type HabitUpdate struct {
	Name        *string
	Description *string
	Duration    *int
	PlantType   *models.PlantType
}

// CreateHabit plants a new habit for ownerID at a random spot on the canvas.
func (s *Store) CreateHabit(ownerID, name, description string, duration int, plant models.PlantType) (models.Habit, error) {
	if s.state.UserIndex(ownerID) < 0 {
		return models.Habit{}, errors.NotFound("user", ownerID)
	}
	if plant == "" {
		plant = models.PlantSunflower
	}

	habit := models.Habit{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Duration:    duration,
		PlantType:   plant,
		CreatedAt:   s.now().UTC(),
		CheckIns:    []models.CheckIn{},
		Position:    s.placement(),
	}
	if err := validateHabit(habit); err != nil {
		return models.Habit{}, err
	}

	s.state.Habits = append(s.state.Habits, habit)
	return habit, nil
}

// UpdateHabit edits a habit owned by ownerID. A habit that belongs to someone else
// is reported as not found.
func (s *Store) UpdateHabit(habitID, ownerID string, upd HabitUpdate) (models.Habit, error) {
	idx := s.state.HabitIndex(habitID)
	if idx < 0 || s.state.Habits[idx].OwnerID != ownerID {
		return models.Habit{}, errors.NotFound("habit", habitID)
	}
	habit := s.state.Habits[idx]

	if upd.Name != nil {
		habit.Name = strings.TrimSpace(*upd.Name)
	}
	if upd.Description != nil {
		habit.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.PlantType != nil {
		habit.PlantType = *upd.PlantType
	}
	if upd.Duration != nil && *upd.Duration != habit.Duration {
		// Completion is one-way.
		if IsCompleted(s.state.Habits[idx], s.now()) {
			return models.Habit{}, errors.Validation("duration", "cannot change the duration of a completed habit")
		}
		habit.Duration = *upd.Duration
	}
	if err := validateHabit(habit); err != nil {
		return models.Habit{}, err
	}

	s.state.Habits[idx] = habit
	return habit, nil
}

// RecordCheckIn marks the habit done on date (YYYY-MM-DD). A second check-in for
// the same day is a no-op and reports recorded=false.
func (s *Store) RecordCheckIn(habitID, date string) (checkIn models.CheckIn, recorded bool, err error) {
	idx := s.state.HabitIndex(habitID)
	if idx < 0 {
		return models.CheckIn{}, false, errors.NotFound("habit", habitID)
	}
	day, err := ParseDay(date)
	if err != nil {
		return models.CheckIn{}, false, err
	}

	habit := &s.state.Habits[idx]
	checkIn = models.CheckIn{Date: day}
	pos, found := slices.BinarySearchFunc(habit.CheckIns, day, func(c models.CheckIn, d string) int {
		return strings.Compare(c.Date, d)
	})
	if found {
		return checkIn, false, nil
	}
	// Backfilled days are inserted in place so the sequence stays chronological.
	habit.CheckIns = slices.Insert(habit.CheckIns, pos, checkIn)
	return checkIn, true, nil
}

// Habit returns the habit with id.
func (s *Store) Habit(id string) (models.Habit, error) {
	idx := s.state.HabitIndex(id)
	if idx < 0 {
		return models.Habit{}, errors.NotFound("habit", id)
	}
	return s.state.Habits[idx], nil
}

// HabitsOf returns the habits owned by userID in creation order.
func (s *Store) HabitsOf(userID string) []models.Habit {
	return s.state.HabitsOf(userID)
}

// ParseDay validates a YYYY-MM-DD day and returns it in canonical form.
func ParseDay(date string) (string, error) {
	t, err := time.Parse(constants.DateFormat, strings.TrimSpace(date))
	if err != nil {
		return "", errors.Validation("date", "%q is not in YYYY-MM-DD format", date)
	}
	return t.Format(constants.DateFormat), nil
}

func (s *Store) placement() models.Position {
	return models.Position{
		X: constants.CanvasMinX + s.rnd.Float64()*(constants.CanvasMaxX-constants.CanvasMinX),
		Y: constants.CanvasMinY + s.rnd.Float64()*(constants.CanvasMaxY-constants.CanvasMinY),
	}
}

func validateHabit(h models.Habit) error {
	if h.Name == "" {
		return errors.Validation("name", "must not be blank")
	}
	if h.Duration < constants.MinHabitDuration || h.Duration > constants.MaxHabitDuration {
		return errors.Validation("duration", "must be between %d and %d days, got %d",
			constants.MinHabitDuration, constants.MaxHabitDuration, h.Duration)
	}
	if p, ok := models.ParsePlantType(string(h.PlantType)); !ok || p != h.PlantType {
		return errors.Validation("plant type", "unknown plant %q", h.PlantType)
	}
	return nil
}
