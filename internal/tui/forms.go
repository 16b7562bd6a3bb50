package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/habitgarden/internal/constants"
	"github.com/julianstephens/habitgarden/internal/models"
)

func notBlank(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

// NewHabitForm creates a form for planting a habit
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	plants := make([]huh.Option[models.PlantType], 0, len(models.PlantTypes()))
	for _, p := range models.PlantTypes() {
		plants = append(plants, huh.NewOption(p.Glyph()+" "+string(p), p))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(notBlank("habit name")),
			huh.NewInput().
				Title("Description").
				Value(&fm.Description),
			huh.NewInput().
				Title("Duration (days)").
				Description(fmt.Sprintf("Between %d and %d", constants.MinHabitDuration, constants.MaxHabitDuration)).
				Value(&fm.Duration).
				Validate(func(s string) error {
					d, err := strconv.Atoi(strings.TrimSpace(s))
					if err != nil {
						return fmt.Errorf("duration must be a number of days")
					}
					if d < constants.MinHabitDuration || d > constants.MaxHabitDuration {
						return fmt.Errorf("duration must be between %d and %d days", constants.MinHabitDuration, constants.MaxHabitDuration)
					}
					return nil
				}),
			huh.NewSelect[models.PlantType]().
				Title("Plant").
				Options(plants...).
				Value(&fm.Plant),
		),
	).WithTheme(huh.ThemeDracula())
}

// NewTextForm creates a single-field form for posts, comments and friend requests
func NewTextForm(title, field string, fm *TextFormModel) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(title).
				Value(&fm.Text).
				Validate(notBlank(field)),
		),
	).WithTheme(huh.ThemeDracula())
}
