package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgarden/internal/engine"
	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/social"
	"github.com/julianstephens/habitgarden/internal/storage"
	"github.com/julianstephens/habitgarden/internal/tui/components/feed"
	"github.com/julianstephens/habitgarden/internal/tui/components/garden"
)

func setupModel(t *testing.T) (Model, *engine.Engine, models.Habit) {
	t.Helper()
	store := storage.NewJSONStore(filepath.Join(t.TempDir(), "garden.json"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	eng := engine.New(store, engine.Options{})
	if err := eng.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	alice, err := eng.RegisterUser(social.Profile{Username: "alice", DisplayName: "Alice"})
	if err != nil {
		t.Fatalf("RegisterUser failed: %v", err)
	}
	habit, err := eng.CreateHabit(alice.ID, "Read", "", 21, models.PlantFern)
	if err != nil {
		t.Fatalf("CreateHabit failed: %v", err)
	}

	m := NewModel(eng, alice)
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), eng, habit
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	return updated.(Model)
}

func TestTabsCycle(t *testing.T) {
	m, _, _ := setupModel(t)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.state != StateFeed {
		t.Errorf("expected feed tab, got %d", m.state)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	if m.state != StateProfile {
		t.Errorf("expected wrap-around to profile tab, got %d", m.state)
	}
	if !strings.Contains(m.View(), "Profile") {
		t.Error("expected tab bar in view")
	}
}

func TestCheckInShowsUnlockToast(t *testing.T) {
	m, eng, habit := setupModel(t)

	m = update(t, m, garden.CheckInMsg{ID: habit.ID})
	if m.statusError {
		t.Fatalf("unexpected error status: %s", m.status)
	}
	if !strings.Contains(m.status, "Alice unlocked First Sprout!") {
		t.Errorf("expected unlock toast, got %q", m.status)
	}

	h, err := eng.Habit(habit.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(h.CheckIns) != 1 {
		t.Errorf("expected one check-in, got %d", len(h.CheckIns))
	}
	item, ok := m.gardenModel.Selected()
	if !ok || !item.CheckedToday {
		t.Errorf("expected garden to show today's check-in, got %+v", item)
	}
}

func TestFailedActionShowsError(t *testing.T) {
	m, _, _ := setupModel(t)

	m = update(t, m, feed.LikeMsg{ID: "missing"})
	if !m.statusError || !strings.Contains(m.status, "post not found") {
		t.Errorf("expected error status, got %q (error=%v)", m.status, m.statusError)
	}
}

func TestHabitFormOpensAndCancels(t *testing.T) {
	m, _, _ := setupModel(t)

	m = update(t, m, garden.AddHabitMsg{})
	if m.state != StateForm || m.formKind != formHabit {
		t.Fatalf("expected habit form, got state %d kind %d", m.state, m.formKind)
	}
	if m.habitForm.Duration != "21" || m.habitForm.Plant != models.PlantSunflower {
		t.Errorf("unexpected form defaults: %+v", m.habitForm)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != StateGarden {
		t.Errorf("expected return to garden, got %d", m.state)
	}
}

func TestSubmitForms(t *testing.T) {
	m, eng, _ := setupModel(t)
	if _, err := eng.RegisterUser(social.Profile{Username: "bob"}); err != nil {
		t.Fatal(err)
	}

	m.formKind = formPost
	m.textForm = &TextFormModel{Text: "hello garden"}
	if err := m.submitForm(); err != nil {
		t.Fatalf("post submit failed: %v", err)
	}
	posts, _ := eng.ListPosts()
	if len(posts) != 1 || posts[0].Content != "hello garden" {
		t.Fatalf("expected the post to be created, got %+v", posts)
	}

	m.formKind = formComment
	m.targetPost = posts[0].ID
	m.textForm = &TextFormModel{Text: "first!"}
	if err := m.submitForm(); err != nil {
		t.Fatalf("comment submit failed: %v", err)
	}

	m.formKind = formFriend
	m.textForm = &TextFormModel{Text: "bob"}
	if err := m.submitForm(); err != nil {
		t.Fatalf("friend submit failed: %v", err)
	}
	friends, _ := eng.ListFriends(m.user.ID)
	if len(friends) != 1 || friends[0].Username != "bob" {
		t.Errorf("expected bob as friend, got %+v", friends)
	}

	m.formKind = formHabit
	m.habitForm = &HabitFormModel{Name: "Run", Duration: "3", Plant: models.PlantRose}
	if err := m.submitForm(); err == nil {
		t.Error("expected invalid duration to be rejected")
	}
}
