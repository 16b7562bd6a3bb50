package cli

import (
	"strconv"

	"github.com/julianstephens/habitgarden/internal/constants"
)

type StatsCmd struct {
	User string `arg:"" optional:"" help:"Username or id (default: current user)."`
}

func (c *StatsCmd) Run(ctx *Context) error {
	u, err := ctx.userOrCurrent(c.User)
	if err != nil {
		return err
	}
	s, err := ctx.Engine.UserStats(u.ID)
	if err != nil {
		return err
	}
	ctx.printf("Stats for %s (@%s)\n", u.DisplayName, u.Username)
	ctx.printf("  Total check-ins:  %d\n", s.TotalCheckIns)
	ctx.printf("  Completed habits: %d\n", s.CompletedHabitCount)
	ctx.printf("  Best habit:       %d check-ins\n", s.MaxStreak)
	ctx.printf("  Points:           %d\n", s.Points())
	return nil
}

type LeaderboardCmd struct {
	Limit int `help:"Show at most this many gardeners (0 for all)." default:"10"`
}

func (c *LeaderboardCmd) Run(ctx *Context) error {
	entries, err := ctx.Engine.Leaderboard()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		ctx.println("No gardeners yet.")
		return nil
	}
	if c.Limit > 0 && len(entries) > c.Limit {
		entries = entries[:c.Limit]
	}
	current, _ := ctx.Engine.CurrentUser()

	ctx.printf("%-4s  %-24s %9s %9s %7s\n", "Rank", "Gardener", "Check-ins", "Completed", "Points")
	for _, e := range entries {
		name := e.User.Avatar + " " + e.User.DisplayName
		if e.User.ID == current.ID {
			name += " (you)"
		}
		ctx.printf("%-4s  %-24s %9d %9d %7d\n", rankLabel(e.Rank), name, e.TotalCheckIns, e.CompletedHabitCount, e.Points)
	}
	ctx.printf("\n%d points per check-in, %d per completed habit\n", constants.PointsPerCheckIn, constants.PointsPerCompletedHabit)
	return nil
}

func rankLabel(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return "#" + strconv.Itoa(rank)
	}
}

type AchievementsCmd struct {
	User string `arg:"" optional:"" help:"Username or id (default: current user)."`
}

func (c *AchievementsCmd) Run(ctx *Context) error {
	u, err := ctx.userOrCurrent(c.User)
	if err != nil {
		return err
	}
	statuses, err := ctx.Engine.Achievements(u.ID)
	if err != nil {
		return err
	}

	unlocked := 0
	for _, s := range statuses {
		if s.Unlocked {
			unlocked++
		}
	}
	ctx.printf("Achievements for %s: %d/%d unlocked\n\n", u.DisplayName, unlocked, len(statuses))
	for _, s := range statuses {
		if s.Unlocked {
			ctx.printf("  %s %-20s %s (unlocked %s)\n", s.Icon, s.Name, s.Description,
				s.UnlockedAt.In(ctx.location()).Format(constants.DateFormat))
		} else {
			ctx.printf("  🔒 %-20s %s\n", s.Name, s.Description)
		}
	}
	return nil
}
