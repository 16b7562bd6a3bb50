package cli

import (
	"strings"

	"github.com/julianstephens/habitgarden/internal/models"
	"github.com/julianstephens/habitgarden/internal/social"
)

type UserCmd struct {
	Register UserRegisterCmd `cmd:"" help:"Register a new gardener."`
	Use      UserUseCmd      `cmd:"" help:"Switch the current user."`
	Show     UserShowCmd     `cmd:"" help:"Show a profile."`
	Edit     UserEditCmd     `cmd:"" help:"Edit the current user's profile."`
	List     UserListCmd     `cmd:"" help:"List all users."`
}

type UserRegisterCmd struct {
	Username    string `arg:"" help:"Unique username (letters, digits, _ . -)."`
	DisplayName string `help:"Display name (default: username)." name:"display-name"`
	Avatar      string `help:"Avatar glyph, usually an emoji."`
	Bio         string `help:"Short bio."`
	Color       string `help:"Profile background color (#rrggbb)."`
}

func (c *UserRegisterCmd) Run(ctx *Context) error {
	displayName := c.DisplayName
	if strings.TrimSpace(displayName) == "" {
		displayName = c.Username
	}
	u, err := ctx.Engine.RegisterUser(social.Profile{
		Username:        c.Username,
		DisplayName:     displayName,
		Avatar:          c.Avatar,
		Bio:             c.Bio,
		BackgroundColor: c.Color,
	})
	if err != nil {
		return err
	}
	ctx.printf("Registered %s %s (@%s)\n", u.Avatar, u.DisplayName, u.Username)

	if current, err := ctx.Engine.CurrentUser(); err == nil && current.ID == u.ID {
		ctx.println("Now gardening as this user.")
	}
	return nil
}

type UserUseCmd struct {
	User string `arg:"" help:"Username or id."`
}

func (c *UserUseCmd) Run(ctx *Context) error {
	u, err := ctx.Engine.SwitchUser(c.User)
	if err != nil {
		return err
	}
	ctx.printf("Now gardening as %s (@%s)\n", u.DisplayName, u.Username)
	return nil
}

type UserShowCmd struct {
	User string `arg:"" optional:"" help:"Username or id (default: current user)."`
}

func (c *UserShowCmd) Run(ctx *Context) error {
	u, err := ctx.userOrCurrent(c.User)
	if err != nil {
		return err
	}
	p, err := ctx.Engine.ProfileStats(u.ID)
	if err != nil {
		return err
	}
	friends, err := ctx.Engine.ListFriends(u.ID)
	if err != nil {
		return err
	}

	ctx.printf("%s %s (@%s)\n", u.Avatar, u.DisplayName, u.Username)
	if u.Bio != "" {
		ctx.printf("  %s\n", u.Bio)
	}
	ctx.printf("  Joined:       %s\n", u.CreatedAt.Format("2006-01-02"))
	ctx.printf("  Color:        %s\n", u.BackgroundColor)
	ctx.printf("  Points:       %d\n", p.Points)
	ctx.printf("  Habits:       %d active, %d completed\n", p.ActiveHabits, p.CompletedHabitCount)
	ctx.printf("  Check-ins:    %d (best habit: %d)\n", p.TotalCheckIns, p.MaxStreak)
	ctx.printf("  Friends:      %d\n", len(friends))
	ctx.printf("  Achievements: %d\n", p.UnlockedAchievements)
	return nil
}

// UserEditCmd leaves empty flags unchanged.
type UserEditCmd struct {
	DisplayName string `help:"New display name." name:"display-name"`
	Avatar      string `help:"New avatar glyph."`
	Bio         string `help:"New bio."`
	ClearBio    bool   `help:"Remove the bio." name:"clear-bio"`
	Color       string `help:"New background color (#rrggbb)."`
}

func (c *UserEditCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}

	var upd social.ProfileUpdate
	if c.DisplayName != "" {
		upd.DisplayName = &c.DisplayName
	}
	if c.Avatar != "" {
		upd.Avatar = &c.Avatar
	}
	if c.ClearBio {
		empty := ""
		upd.Bio = &empty
	} else if c.Bio != "" {
		upd.Bio = &c.Bio
	}
	if c.Color != "" {
		upd.BackgroundColor = &c.Color
	}

	updated, err := ctx.Engine.UpdateProfile(u.ID, upd)
	if err != nil {
		return err
	}
	ctx.printf("Updated profile for @%s\n", updated.Username)
	return nil
}

type UserListCmd struct{}

func (c *UserListCmd) Run(ctx *Context) error {
	users, err := ctx.Engine.Users()
	if err != nil {
		return err
	}
	if len(users) == 0 {
		ctx.println("No users registered.")
		return nil
	}
	current, _ := ctx.Engine.CurrentUser()
	for _, u := range users {
		printUserLine(ctx, u, u.ID == current.ID)
	}
	return nil
}

func printUserLine(ctx *Context, u models.User, marked bool) {
	marker := " "
	if marked {
		marker = "*"
	}
	ctx.printf("%s %s %-20s @%s\n", marker, u.Avatar, u.DisplayName, u.Username)
}
