package garden

import (
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/models"
)

var created = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

func setupStore(t *testing.T) (*Store, *models.State, string) {
	t.Helper()
	state := models.NewState()
	state.Users = append(state.Users, models.User{ID: "owner-1", Username: "owner"})
	state.Users = append(state.Users, models.User{ID: "other-1", Username: "other"})
	store := New(state, func() time.Time { return created }, rand.New(rand.NewSource(42)))
	return store, state, "owner-1"
}

func TestCreateHabit_DurationBounds(t *testing.T) {
	store, state, owner := setupStore(t)

	tests := []struct {
		duration int
		wantErr  bool
	}{
		{6, true},
		{7, false},
		{21, false},
		{30, false},
		{31, true},
		{0, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("duration=%d", tt.duration), func(t *testing.T) {
			before := len(state.Habits)
			_, err := store.CreateHabit(owner, "Meditate", "", tt.duration, models.PlantFern)
			if tt.wantErr {
				if !errors.Is(err, errors.ErrValidation) {
					t.Fatalf("expected validation error, got %v", err)
				}
				if len(state.Habits) != before {
					t.Error("failed creation must not add a habit")
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateHabit failed: %v", err)
			}
		})
	}
}

func TestCreateHabit_BlankName(t *testing.T) {
	store, _, owner := setupStore(t)
	if _, err := store.CreateHabit(owner, "   ", "desc", 10, models.PlantRose); !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateHabit_UnknownOwner(t *testing.T) {
	store, _, _ := setupStore(t)
	if _, err := store.CreateHabit("ghost", "Run", "", 10, models.PlantRose); !errors.Is(err, errors.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestCreateHabit_PlacementIsDeterministicAndBounded(t *testing.T) {
	storeA, _, owner := setupStore(t)
	storeB, _, _ := setupStore(t)

	for i := 0; i < 50; i++ {
		a, err := storeA.CreateHabit(owner, "Walk", "", 14, models.PlantTulip)
		if err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
		b, err := storeB.CreateHabit(owner, "Walk", "", 14, models.PlantTulip)
		if err != nil {
			t.Fatalf("CreateHabit failed: %v", err)
		}
		if a.Position != b.Position {
			t.Fatalf("same seed produced different positions: %v vs %v", a.Position, b.Position)
		}
		p := a.Position
		if p.X < constants.CanvasMinX || p.X > constants.CanvasMaxX || p.Y < constants.CanvasMinY || p.Y > constants.CanvasMaxY {
			t.Fatalf("position %v outside canvas", p)
		}
	}
}

func TestCreateHabit_DefaultsToSunflower(t *testing.T) {
	store, _, owner := setupStore(t)
	h, err := store.CreateHabit(owner, "Read", "", 21, "")
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	if h.PlantType != models.PlantSunflower {
		t.Errorf("expected sunflower, got %s", h.PlantType)
	}
}

func TestUpdateHabit(t *testing.T) {
	store, state, owner := setupStore(t)
	h, err := store.CreateHabit(owner, "Read", "", 21, models.PlantCactus)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	name := "Read fiction"
	duration := 14
	plant := models.PlantOrchid
	updated, err := store.UpdateHabit(h.ID, owner, HabitUpdate{Name: &name, Duration: &duration, PlantType: &plant})
	if err != nil {
		t.Fatalf("UpdateHabit failed: %v", err)
	}
	if updated.Name != name || updated.Duration != 14 || updated.PlantType != models.PlantOrchid {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.Position != h.Position || !updated.CreatedAt.Equal(h.CreatedAt) {
		t.Error("update must not move the habit or change its creation time")
	}

	if _, err := store.UpdateHabit(h.ID, "other-1", HabitUpdate{Name: &name}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found for non-owner, got %v", err)
	}
	if _, err := store.UpdateHabit("missing", owner, HabitUpdate{Name: &name}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found for missing habit, got %v", err)
	}

	tooLong := 31
	if _, err := store.UpdateHabit(h.ID, owner, HabitUpdate{Duration: &tooLong}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	blank := ""
	if _, err := store.UpdateHabit(h.ID, owner, HabitUpdate{Name: &blank}); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
	if state.Habits[0].Name != name || state.Habits[0].Duration != 14 {
		t.Error("failed updates must leave the habit unchanged")
	}
}

func TestUpdateHabit_CompletedDurationIsFrozen(t *testing.T) {
	store, _, owner := setupStore(t)
	h, err := store.CreateHabit(owner, "Stretch", "", 7, models.PlantFern)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}
	store.now = func() time.Time { return created.AddDate(0, 0, 8) }

	longer := 20
	if _, err := store.UpdateHabit(h.ID, owner, HabitUpdate{Duration: &longer}); !errors.Is(err, errors.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRecordCheckIn_SameDayIsNoOp(t *testing.T) {
	store, state, owner := setupStore(t)
	h, err := store.CreateHabit(owner, "Journal", "", 10, models.PlantRose)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	_, recorded, err := store.RecordCheckIn(h.ID, "2025-03-02")
	if err != nil || !recorded {
		t.Fatalf("first check-in: recorded=%v err=%v", recorded, err)
	}
	_, recorded, err = store.RecordCheckIn(h.ID, "2025-03-02")
	if err != nil {
		t.Fatalf("second check-in should not fail: %v", err)
	}
	if recorded {
		t.Error("second check-in on the same day should be a no-op")
	}
	if n := len(state.Habits[0].CheckIns); n != 1 {
		t.Errorf("expected exactly 1 check-in, got %d", n)
	}
}

func TestRecordCheckIn_StaysChronological(t *testing.T) {
	store, state, owner := setupStore(t)
	h, err := store.CreateHabit(owner, "Journal", "", 10, models.PlantRose)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	for _, day := range []string{"2025-03-05", "2025-03-02", "2025-03-04"} {
		if _, _, err := store.RecordCheckIn(h.ID, day); err != nil {
			t.Fatalf("RecordCheckIn(%s) failed: %v", day, err)
		}
	}

	got := state.Habits[0].CheckIns
	want := []string{"2025-03-02", "2025-03-04", "2025-03-05"}
	for i, day := range want {
		if got[i].Date != day {
			t.Errorf("check-in %d = %s, want %s", i, got[i].Date, day)
		}
	}
	if !state.Habits[0].HasCheckIn("2025-03-04") || state.Habits[0].HasCheckIn("2025-03-03") {
		t.Error("HasCheckIn disagrees with recorded days")
	}
}

func TestRecordCheckIn_Errors(t *testing.T) {
	store, _, owner := setupStore(t)
	h, err := store.CreateHabit(owner, "Journal", "", 10, models.PlantRose)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	if _, _, err := store.RecordCheckIn("missing", "2025-03-02"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("expected not found, got %v", err)
	}
	if _, _, err := store.RecordCheckIn(h.ID, "03/02/2025"); !errors.Is(err, errors.ErrValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestTenCheckInsCompleteATenDayHabit(t *testing.T) {
	store, state, owner := setupStore(t)
	h, err := store.CreateHabit(owner, "Pushups", "", 10, models.PlantSunflower)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	for i := 0; i < 10; i++ {
		day := created.AddDate(0, 0, i).Format(constants.DateFormat)
		if _, _, err := store.RecordCheckIn(h.ID, day); err != nil {
			t.Fatalf("RecordCheckIn failed: %v", err)
		}
	}

	habit := state.Habits[0]
	if !IsCompleted(habit, created.Add(time.Hour)) {
		t.Error("expected habit to be completed after 10 check-ins")
	}
	if stage := ProgressOf(habit).GrowthStage; stage != StageComplete {
		t.Errorf("expected complete stage, got %s", stage)
	}
}
