package cli

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/habitgarden/internal/logger"
	"github.com/julianstephens/habitgarden/internal/session"
	"github.com/julianstephens/habitgarden/internal/tui"
)

type TuiCmd struct {
	Force bool `help:"Start even if another session appears to be running."`
}

func (c *TuiCmd) Run(ctx *Context) error {
	u, err := ctx.currentUser()
	if err != nil {
		return err
	}

	lock, err := session.Acquire(ctx.Config.ConfigDir(), ctx.Store.GetConfigPath())
	switch {
	case err == nil:
	case errors.Is(err, session.ErrHeld) && c.Force:
		logger.Warn("Starting despite another running session", "error", err)
	case errors.Is(err, session.ErrHeld):
		return fmt.Errorf("%w (use --force to start anyway)", err)
	default:
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release session lock", "error", err)
		}
	}()

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	// habits may have completed by calendar time since the last session
	if err := ctx.Engine.Refresh(u.ID); err != nil {
		logger.Warn("Failed to refresh achievements", "error", err)
	}

	p := tea.NewProgram(tui.NewModel(ctx.Engine, u), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui failed: %w", err)
	}
	return nil
}
