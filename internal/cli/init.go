package cli

import (
	"fmt"
	"os"

	"github.com/julianstephens/habitgarden/internal/config"
)

type InitCmd struct{}

func (c *InitCmd) Run(ctx *Context) error {
	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.printf("Initialized habitgarden storage at: %s\n", ctx.Store.GetConfigPath())

	path := config.ExpandHome(ctx.ConfigPath)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := ctx.Config.Save(path); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		ctx.printf("Wrote config: %s\n", path)
	}
	return nil
}
