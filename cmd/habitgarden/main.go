package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/habitgarden/internal/cli"
	"github.com/julianstephens/habitgarden/internal/config"
	"github.com/julianstephens/habitgarden/internal/constants"
	apperrors "github.com/julianstephens/habitgarden/internal/errors"
	"github.com/julianstephens/habitgarden/internal/logger"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to the config file." type:"string" default:"~/.config/habitgarden/config.yaml"`
	Storage string `help:"Storage path (.json or SQLite) or PostgreSQL connection string. For PostgreSQL, credentials must NOT be embedded; use HABITGARDEN_DB_CONNECTION or the OS keyring." type:"string"`
	Debug   bool   `help:"Log debug output to stderr."`

	Init         cli.InitCmd         `cmd:"" help:"Initialize habitgarden storage."`
	Doctor       cli.DoctorCmd       `cmd:"" help:"Run health checks and diagnostics."`
	Tui          cli.TuiCmd          `cmd:"" help:"Launch the interactive garden." default:"1"`
	User         cli.UserCmd         `cmd:"" help:"Manage gardeners."`
	Friend       cli.FriendCmd       `cmd:"" help:"Manage friends."`
	Habit        cli.HabitCmd        `cmd:"" help:"Manage habits and check-ins."`
	Post         cli.PostCmd         `cmd:"" help:"Read and write the feed."`
	Stats        cli.StatsCmd        `cmd:"" help:"Show a gardener's stats."`
	Leaderboard  cli.LeaderboardCmd  `cmd:"" help:"Show the leaderboard."`
	Achievements cli.AchievementsCmd `cmd:"" help:"Show achievements."`
	Backup       cli.BackupCmd       `cmd:"" help:"Manage database backups."`
	ConfigCmd    cli.ConfigCmd       `cmd:"" name:"config" help:"Manage configuration and credentials."`
}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name(constants.AppName),
		kong.Description("Grow habits into a garden, together."),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	if err != nil {
		apperrors.Fatal(err)
	}
	if CLI.Storage != "" {
		cfg.Storage = CLI.Storage
	}
	if CLI.Debug {
		cfg.Debug = true
	}

	if err := logger.Init(logger.Config{Debug: cfg.Debug, ConfigDir: cfg.ConfigDir()}); err != nil {
		apperrors.Fatalf("failed to initialize logger: %v", err)
	}

	appCtx, err := cli.NewContext(cfg, CLI.Config, os.Stdout, os.Stdin)
	if err != nil {
		apperrors.Fatal(err)
	}

	// Load state before running the command (setup commands handle storage themselves)
	if cli.NeedsState(ctx.Command()) {
		if err := appCtx.Engine.Load(); err != nil {
			apperrors.Fatal(err)
		}
	}

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Store.Close(); closeErr != nil {
		logger.Warn("Failed to close storage", "error", closeErr)
	}
	apperrors.Fatal(err)
}
