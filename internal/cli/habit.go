package cli

import (
	"strings"

	"github.com/julianstephens/habitgarden/internal/constants"
	apperrors "github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/garden"
	"github.com/julianstephens/habitgarden/internal/models"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Plant a new habit."`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	List    HabitListCmd    `cmd:"" help:"List habits in a garden."`
	Show    HabitShowCmd    `cmd:"" help:"Show a habit and its check-ins."`
	Checkin HabitCheckinCmd `cmd:"" help:"Check in a habit for a day." name:"checkin"`
}

type HabitAddCmd struct {
	Name        string `arg:"" help:"Habit name."`
	Description string `help:"What the habit is about."`
	Duration    int    `help:"Target duration in days (7-30)." default:"21"`
	Plant       string `help:"Plant type: sunflower, rose, cactus, fern, tulip, orchid." default:"sunflower"`
}

func (c *HabitAddCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	plant, err := parsePlant(c.Plant)
	if err != nil {
		return err
	}
	h, err := ctx.Engine.CreateHabit(u.ID, c.Name, c.Description, c.Duration, plant)
	if err != nil {
		return err
	}
	ctx.printf("Planted %s %s (%s, %d days)\n", h.PlantType.Glyph(), h.Name, shortID(h.ID), h.Duration)
	return nil
}

// HabitEditCmd leaves empty or zero flags unchanged.
type HabitEditCmd struct {
	Habit       string `arg:"" help:"Habit name or id."`
	Name        string `help:"New name."`
	Description string `help:"New description."`
	Duration    int    `help:"New duration in days (7-30)."`
	Plant       string `help:"New plant type."`
}

func (c *HabitEditCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	h, err := ctx.findHabit(u.ID, c.Habit)
	if err != nil {
		return err
	}

	var upd garden.HabitUpdate
	if c.Name != "" {
		upd.Name = &c.Name
	}
	if c.Description != "" {
		upd.Description = &c.Description
	}
	if c.Duration != 0 {
		upd.Duration = &c.Duration
	}
	if c.Plant != "" {
		plant, err := parsePlant(c.Plant)
		if err != nil {
			return err
		}
		upd.PlantType = &plant
	}

	updated, err := ctx.Engine.UpdateHabit(h.ID, u.ID, upd)
	if err != nil {
		return err
	}
	ctx.printf("Updated %s %s\n", updated.PlantType.Glyph(), updated.Name)
	return nil
}

type HabitListCmd struct {
	User string `arg:"" optional:"" help:"Username or id (default: current user)."`
}

func (c *HabitListCmd) Run(ctx *Context) error {
	u, err := ctx.userOrCurrent(c.User)
	if err != nil {
		return err
	}
	habits, err := ctx.Engine.Habits(u.ID)
	if err != nil {
		return err
	}
	if len(habits) == 0 {
		ctx.printf("No habits in %s's garden.\n", u.DisplayName)
		return nil
	}

	now := ctx.Engine.Now()
	today := ctx.Engine.Today()
	for _, h := range habits {
		p := garden.ProgressOf(h)
		mark := "○"
		if h.HasCheckIn(today) {
			mark = "✓"
		}
		ctx.printf("%s %s %s  %-24s %-10s %4d%%  %s  [%s]\n",
			mark, shortID(h.ID), h.PlantType.Glyph(), h.Name,
			garden.ProgressLine(h), p.Percent(), p.GrowthStage.Glyph(), garden.StatusOf(h, now))
	}
	return nil
}

type HabitShowCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
}

func (c *HabitShowCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	h, err := ctx.findHabit(u.ID, c.Habit)
	if err != nil {
		return err
	}

	p := garden.ProgressOf(h)
	ctx.printf("%s %s\n", h.PlantType.Glyph(), h.Name)
	if h.Description != "" {
		ctx.printf("  %s\n", h.Description)
	}
	ctx.printf("  ID:        %s\n", h.ID)
	ctx.printf("  Plant:     %s\n", h.PlantType)
	ctx.printf("  Planted:   %s\n", h.CreatedAt.In(ctx.location()).Format(constants.DateFormat))
	ctx.printf("  Progress:  %s (%d%%, %s)\n", garden.ProgressLine(h), p.Percent(), p.GrowthStage)
	ctx.printf("  Status:    %s\n", garden.StatusOf(h, ctx.Engine.Now()))
	ctx.printf("  Position:  (%.0f, %.0f)\n", h.Position.X, h.Position.Y)
	if len(h.CheckIns) == 0 {
		ctx.println("  No check-ins yet.")
		return nil
	}
	dates := make([]string, len(h.CheckIns))
	for i, ci := range h.CheckIns {
		dates[i] = ci.Date
	}
	ctx.printf("  Check-ins: %s\n", strings.Join(dates, ", "))
	return nil
}

type HabitCheckinCmd struct {
	Habit string `arg:"" help:"Habit name or id."`
	Date  string `help:"Date in YYYY-MM-DD format (default: today)." default:""`
}

func (c *HabitCheckinCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}
	h, err := ctx.findHabit(u.ID, c.Habit)
	if err != nil {
		return err
	}
	ci, recorded, err := ctx.Engine.CheckIn(h.ID, u.ID, c.Date)
	if err != nil {
		return err
	}
	if !recorded {
		ctx.printf("%s already checked in on %s\n", h.Name, ci.Date)
		return nil
	}
	updated, err := ctx.Engine.Habit(h.ID)
	if err != nil {
		return err
	}
	ctx.printf("✓ Checked in %s on %s (%s)\n", updated.Name, ci.Date, garden.ProgressLine(updated))
	return nil
}

func parsePlant(s string) (models.PlantType, error) {
	plant, ok := models.ParsePlantType(s)
	if !ok {
		return "", apperrors.Validation("plant", "unknown plant type %q", s)
	}
	return plant, nil
}
